package native

import (
	"strings"

	"github.com/poiesic/filescout/core"
)

var kindPredicates = map[core.TypeFilter]string{
	core.FilterImage:  "kMDItemContentTypeTree == 'public.image'",
	core.FilterVideo:  "kMDItemContentTypeTree == 'public.movie'",
	core.FilterAudio:  "kMDItemContentTypeTree == 'public.audio'",
	core.FilterPDF:    "kMDItemContentTypeTree == 'com.adobe.pdf'",
	core.FilterDoc:    "(kMDItemContentTypeTree == 'public.text' || kMDItemContentTypeTree == 'public.content' || kMDItemContentTypeTree == 'com.microsoft.word.doc' || kMDItemContentTypeTree == 'com.adobe.pdf')",
	core.FilterFolder: "kMDItemContentTypeTree == 'public.folder'",
	core.FilterApp:    "(kMDItemContentTypeTree == 'com.apple.application-bundle' || kMDItemContentTypeTree == 'com.apple.systempreference.pane')",
}

// KindPredicate returns the content-type clause for filter, or "" for all.
func KindPredicate(filter core.TypeFilter) string {
	return kindPredicates[filter]
}

// BuildPredicate assembles an mdfind query. Words are ANDed as
// case- and diacritic-insensitive name substrings; a non-empty alias is
// ORed with the word group; a type filter is ANDed around the result.
func BuildPredicate(words []string, alias string, filter core.TypeFilter) string {
	var parts []string
	for _, w := range words {
		if w != "" {
			parts = append(parts, nameClause(w))
		}
	}
	kind := KindPredicate(filter)

	if len(parts) == 0 && alias == "" {
		return kind
	}

	var base string
	switch {
	case alias != "" && len(parts) > 0:
		base = "((" + strings.Join(parts, " && ") + ") || " + nameClause(alias) + ")"
	case alias != "":
		base = nameClause(alias)
	case len(parts) > 1:
		base = "(" + strings.Join(parts, " && ") + ")"
	default:
		base = parts[0]
	}

	if kind == "" {
		return base
	}
	return "(" + base + ") && (" + kind + ")"
}

func nameClause(term string) string {
	return "kMDItemFSName == '*" + escape(term) + "*'cd"
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func escape(term string) string {
	return quoteEscaper.Replace(term)
}
