package search

import (
	"context"
	"strings"

	"github.com/poiesic/filescout/core"
	"github.com/poiesic/filescout/volume"
)

// scanCheckEvery is how many entries pass between cancellation checks.
const scanCheckEvery = 4096

// scanResult is the memory branch's output.
type scanResult struct {
	paths    []string
	strong   int
	fallback int
}

// scanSnapshot matches q against every entry of snap. Entries on volumes
// missing from mounted are skipped when volumeRoot is set.
func scanSnapshot(ctx context.Context, snap *core.IndexSnapshot, q Query, limits Limits, volumeRoot string, mounted core.VolumeSet) (scanResult, error) {
	var (
		strong   []string
		fallback []string
	)
	if snap == nil {
		return scanResult{}, nil
	}
	nWords := len(q.Words)

	for i, e := range snap.Entries {
		if i%scanCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return scanResult{}, err
			}
		}

		if !q.Filter.Matches(e.Path) {
			continue
		}
		if volumeRoot != "" {
			if vol, ok := volume.VolumeOf(volumeRoot, e.Path); ok && !mounted.Contains(vol) {
				continue
			}
		}

		nameLC := strings.ToLower(e.Name)
		pathLC := strings.ToLower(e.Path)

		matched := 0
		for _, w := range q.Words {
			if strings.Contains(nameLC, w) || strings.Contains(pathLC, w) {
				matched++
			}
		}
		if matched < nWords {
			if q.Alias != "" && strings.Contains(nameLC, q.Alias) {
				matched = nWords
			} else if acronymMatch(nameLC, q.Keyword) {
				matched = nWords
			}
		}

		switch {
		case matched == nWords:
			strong = append(strong, e.Path)
		case matched > 0 && nWords > 1:
			fallback = append(fallback, e.Path)
		}

		if len(strong) >= limits.StrongLimit {
			break
		}
	}

	res := scanResult{strong: len(strong)}
	if len(strong) < limits.FallbackThreshold {
		n := min(len(fallback), limits.FallbackLimit)
		strong = append(strong, fallback[:n]...)
		res.fallback = n
	}
	res.paths = strong
	return res, nil
}
