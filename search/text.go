package search

import (
	"strings"
	"unicode"
)

// acronym returns the first rune of every alphanumeric run in s.
// "digital photo professional.app" yields "dppa".
func acronym(s string) string {
	var b strings.Builder
	inWord := false
	for _, r := range s {
		alnum := unicode.IsLetter(r) || unicode.IsDigit(r)
		if alnum && !inWord {
			b.WriteRune(r)
		}
		inWord = alnum
	}
	return b.String()
}

// containsInOrder reports whether words occur in s left to right without
// overlapping.
func containsInOrder(s string, words []string) bool {
	pos := 0
	for _, w := range words {
		i := strings.Index(s[pos:], w)
		if i < 0 {
			return false
		}
		pos += i + len(w)
	}
	return true
}

// containsAll reports whether every word is a substring of s.
func containsAll(s string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(s, w) {
			return false
		}
	}
	return true
}

// acronymMatch applies the acronym promotion: keyword must be at least two
// bytes and appear inside the acronym of the lowercased name.
func acronymMatch(nameLC, keyword string) bool {
	return len(keyword) >= 2 && strings.Contains(acronym(nameLC), keyword)
}

// isUnder reports whether path is dir or below it.
func isUnder(path, dir string) bool {
	if dir == "" {
		return false
	}
	dir = strings.TrimSuffix(dir, "/")
	return path == dir || strings.HasPrefix(path, dir+"/")
}

// depth counts path segments the way a split on "/" does.
func depth(path string) int {
	return strings.Count(path, "/") + 1
}
