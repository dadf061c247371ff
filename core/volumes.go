package core

import (
	"encoding/binary"
	"slices"

	"github.com/go-crypt/x/blake2b"
)

// VolumeSet is the set of currently mounted external-volume roots.
// It is only used as a change-detection signal.
type VolumeSet map[string]struct{}

// NewVolumeSet builds a set from volume root paths.
func NewVolumeSet(roots ...string) VolumeSet {
	set := make(VolumeSet, len(roots))
	for _, r := range roots {
		set[r] = struct{}{}
	}
	return set
}

// Contains reports whether root is mounted.
func (v VolumeSet) Contains(root string) bool {
	_, ok := v[root]
	return ok
}

// Sorted returns the members in lexical order.
func (v VolumeSet) Sorted() []string {
	roots := make([]string, 0, len(v))
	for r := range v {
		roots = append(roots, r)
	}
	slices.Sort(roots)
	return roots
}

// Equal reports whether both sets hold the same roots.
func (v VolumeSet) Equal(other VolumeSet) bool {
	if len(v) != len(other) {
		return false
	}
	for r := range v {
		if !other.Contains(r) {
			return false
		}
	}
	return true
}

// Fingerprint returns a 64-bit BLAKE2b digest of the sorted members.
// The empty set always fingerprints to the same value.
func (v VolumeSet) Fingerprint() uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	for _, r := range v.Sorted() {
		h.Write([]byte(r))
		h.Write([]byte{0})
	}
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}
