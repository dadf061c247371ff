package search

import "testing"

func TestAcronym(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"digital photo professional.app", "dppa"},
		{"visual-studio_code", "vsc"},
		{"  leading spaces", "ls"},
		{"q3 2024 report.pdf", "q2rp"},
		{"", ""},
		{"网易 云音乐", "网云"},
	}
	for _, tt := range tests {
		if got := acronym(tt.in); got != tt.want {
			t.Errorf("acronym(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestContainsInOrder(t *testing.T) {
	tests := []struct {
		s     string
		words []string
		want  bool
	}{
		{"annual report 2024.pdf", []string{"annual", "report"}, true},
		{"annual report 2024.pdf", []string{"report", "annual"}, false},
		{"aaa", []string{"aa", "aa"}, false},
		{"aaaa", []string{"aa", "aa"}, true},
		{"anything", nil, true},
	}
	for _, tt := range tests {
		if got := containsInOrder(tt.s, tt.words); got != tt.want {
			t.Errorf("containsInOrder(%q, %q) = %v, want %v", tt.s, tt.words, got, tt.want)
		}
	}
}

func TestIsUnder(t *testing.T) {
	tests := []struct {
		path, dir string
		want      bool
	}{
		{"/Applications/Xcode.app", "/Applications", true},
		{"/Applications", "/Applications", true},
		{"/ApplicationsOld/x", "/Applications", false},
		{"/Users/u/Desktop/a", "/Users/u/Desktop/", true},
		{"/a", "", false},
	}
	for _, tt := range tests {
		if got := isUnder(tt.path, tt.dir); got != tt.want {
			t.Errorf("isUnder(%q, %q) = %v, want %v", tt.path, tt.dir, got, tt.want)
		}
	}
}

func TestAcronymMatch_ShortKeyword(t *testing.T) {
	if acronymMatch("digital photo professional.app", "d") {
		t.Error("single-byte keywords must not use acronym promotion")
	}
	if !acronymMatch("digital photo professional.app", "dpp") {
		t.Error("expected dpp to match")
	}
}
