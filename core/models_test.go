package core

import (
	"testing"
	"time"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "file", path: "/Users/u/Desktop/notes.txt", want: "notes.txt"},
		{name: "bundle", path: "/Applications/Visual Studio Code.app", want: "Visual Studio Code.app"},
		{name: "trailing slash", path: "/Users/u/Documents/", want: "Documents"},
		{name: "root", path: "/", want: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayName(tt.path); got != tt.want {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestNewIndexSnapshot(t *testing.T) {
	built := time.Now()
	snap := NewIndexSnapshot([]string{"/a/b.txt", "", "/a/c"}, built)

	if snap.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", snap.Len())
	}
	if snap.Entries[0].Name != "b.txt" || snap.Entries[1].Name != "c" {
		t.Errorf("unexpected entry names: %+v", snap.Entries)
	}
	if !snap.BuiltAt.Equal(built) {
		t.Errorf("BuiltAt = %v, want %v", snap.BuiltAt, built)
	}

	paths := snap.Paths()
	if len(paths) != 2 || paths[0] != "/a/b.txt" || paths[1] != "/a/c" {
		t.Errorf("Paths() = %v", paths)
	}
}

func TestIndexSnapshot_Nil(t *testing.T) {
	var snap *IndexSnapshot
	if snap.Len() != 0 {
		t.Errorf("nil snapshot Len() = %d, want 0", snap.Len())
	}
	if snap.Paths() != nil {
		t.Errorf("nil snapshot Paths() should be nil")
	}
}

func TestVolumeSet(t *testing.T) {
	a := NewVolumeSet("/Volumes/Backup", "/Volumes/Camera")
	b := NewVolumeSet("/Volumes/Camera", "/Volumes/Backup")
	c := NewVolumeSet("/Volumes/Camera")

	if !a.Equal(b) {
		t.Errorf("sets with the same members should be equal")
	}
	if a.Equal(c) {
		t.Errorf("sets with different members should differ")
	}
	if a.Fingerprint() != b.Fingerprint() {
		t.Errorf("fingerprint should not depend on insertion order")
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Errorf("fingerprint should change with membership")
	}
	if NewVolumeSet().Fingerprint() != NewVolumeSet().Fingerprint() {
		t.Errorf("empty set fingerprint should be stable")
	}
	if !c.Contains("/Volumes/Camera") || c.Contains("/Volumes/Backup") {
		t.Errorf("Contains() returned wrong membership")
	}
	if got := a.Sorted(); got[0] != "/Volumes/Backup" || got[1] != "/Volumes/Camera" {
		t.Errorf("Sorted() = %v", got)
	}
}

func TestTypeFilter_Matches(t *testing.T) {
	tests := []struct {
		filter TypeFilter
		path   string
		want   bool
	}{
		{FilterAll, "/x/anything.bin", true},
		{FilterImage, "/x/photo.JPG", true},
		{FilterImage, "/x/photo.pdf", false},
		{FilterVideo, "/x/clip.mov", true},
		{FilterAudio, "/x/song.flac", true},
		{FilterPDF, "/x/paper.pdf", true},
		{FilterDoc, "/x/readme.md", true},
		{FilterDoc, "/x/readme.go", false},
		{FilterFolder, "/Users/u/Projects", true},
		{FilterFolder, "/Applications/Safari.app", true},
		{FilterFolder, "/Users/u/notes.txt", false},
		{FilterApp, "/Applications/Safari.app", true},
		{FilterApp, "/System/Library/PreferencePanes/Displays.prefPane", true},
		{FilterApp, "/Users/u/safari.txt", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter)+" "+tt.path, func(t *testing.T) {
			if got := tt.filter.Matches(tt.path); got != tt.want {
				t.Errorf("%s.Matches(%q) = %v, want %v", tt.filter, tt.path, got, tt.want)
			}
		})
	}
}

func TestParseTypeFilter(t *testing.T) {
	for _, f := range TypeFilters() {
		got, err := ParseTypeFilter(string(f))
		if err != nil || got != f {
			t.Errorf("ParseTypeFilter(%q) = %q, %v", f, got, err)
		}
	}

	if got, err := ParseTypeFilter(""); err != nil || got != FilterAll {
		t.Errorf("empty filter should mean all, got %q, %v", got, err)
	}
	if got, err := ParseTypeFilter(" Image "); err != nil || got != FilterImage {
		t.Errorf("filter names should be case-folded, got %q, %v", got, err)
	}
	if _, err := ParseTypeFilter("spreadsheet"); err == nil {
		t.Errorf("unknown filter should be rejected")
	}
	if got := TypeFilterFromString("spreadsheet"); got != FilterAll {
		t.Errorf("TypeFilterFromString() = %q, want all", got)
	}
}
