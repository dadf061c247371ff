package core

import (
	"fmt"
	"strings"
)

// TypeFilter restricts a search to one class of filesystem entry.
type TypeFilter string

const (
	FilterAll    TypeFilter = "all"
	FilterImage  TypeFilter = "image"
	FilterVideo  TypeFilter = "video"
	FilterAudio  TypeFilter = "audio"
	FilterPDF    TypeFilter = "pdf"
	FilterDoc    TypeFilter = "doc"
	FilterFolder TypeFilter = "folder"
	FilterApp    TypeFilter = "app"
)

// AppBundleExt is the extension of macOS application bundles, which are
// directories that behave as files.
const AppBundleExt = ".app"

var filterExtensions = map[TypeFilter][]string{
	FilterImage: {".jpg", ".png", ".jpeg", ".gif", ".webp", ".bmp", ".heic"},
	FilterVideo: {".mp4", ".mov", ".avi", ".mkv", ".flv", ".wmv"},
	FilterAudio: {".mp3", ".wav", ".flac", ".aac", ".m4a"},
	FilterPDF:   {".pdf"},
	FilterDoc:   {".pdf", ".txt", ".md", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx"},
	FilterApp:   {AppBundleExt, ".prefpane"},
}

// TypeFilters lists every accepted filter in display order.
func TypeFilters() []TypeFilter {
	return []TypeFilter{FilterAll, FilterImage, FilterVideo, FilterAudio, FilterPDF, FilterDoc, FilterFolder, FilterApp}
}

// ParseTypeFilter validates a filter name.
func ParseTypeFilter(name string) (TypeFilter, error) {
	f := TypeFilter(strings.ToLower(strings.TrimSpace(name)))
	if f == "" {
		return FilterAll, nil
	}
	for _, known := range TypeFilters() {
		if f == known {
			return f, nil
		}
	}
	return FilterAll, fmt.Errorf("%w: %q", ErrUnknownTypeFilter, name)
}

// TypeFilterFromString is the lenient form of ParseTypeFilter: unknown
// names fall back to FilterAll.
func TypeFilterFromString(name string) TypeFilter {
	f, err := ParseTypeFilter(name)
	if err != nil {
		return FilterAll
	}
	return f
}

// Extensions returns the lowercase extension allow-list for the filter.
// FilterAll and FilterFolder have none.
func (f TypeFilter) Extensions() []string {
	return filterExtensions[f]
}

// Matches reports whether path satisfies the filter using only its name.
// Folders are recognised by a name without any dot, or by the bundle
// extension, since bundles are directories.
func (f TypeFilter) Matches(path string) bool {
	switch f {
	case FilterAll, "":
		return true
	case FilterFolder:
		return !strings.Contains(DisplayName(path), ".") || strings.HasSuffix(path, AppBundleExt)
	}
	lower := strings.ToLower(path)
	for _, ext := range f.Extensions() {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
