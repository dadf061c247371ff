package search

import (
	"cmp"
	"slices"
	"strings"

	"github.com/poiesic/filescout/core"
)

// Score components. Scores are additive and only their order matters.
const (
	scoreExactName     = 20000
	scoreContiguous    = 10000
	scorePrefix        = 5000
	scoreScattered     = 5000
	scoreAllInPath     = 2000
	scoreAppFilter     = 10000
	scorePerClick      = 5000
	scoreNestedBundle  = -10000
	scorePerSegment    = -50
	scoreApplications  = 5000
	scoreDesktop       = 1000
	bundleContentsPart = ".app/Contents/"
)

// Query is a normalized search request.
type Query struct {
	// Keyword is the lowercased, trimmed input.
	Keyword string
	// Words are the whitespace-separated parts of Keyword.
	Words  []string
	Filter core.TypeFilter
	// Alias is the resolved canonical name, or "".
	Alias string
}

// NewQuery normalizes keyword and resolves it through resolve, which may be nil.
func NewQuery(keyword string, filter core.TypeFilter, resolve func(string) (string, bool)) Query {
	kw := strings.TrimSpace(strings.ToLower(keyword))
	q := Query{
		Keyword: kw,
		Words:   strings.Fields(kw),
		Filter:  filter,
	}
	if resolve != nil && kw != "" {
		if alias, ok := resolve(kw); ok {
			q.Alias = strings.ToLower(alias)
		}
	}
	return q
}

// Ranker scores merged results.
type Ranker struct {
	applicationsDir string
	desktopDir      string
}

// NewRanker creates a ranker that favours applicationsDir, then desktopDir.
func NewRanker(applicationsDir, desktopDir string) *Ranker {
	return &Ranker{
		applicationsDir: applicationsDir,
		desktopDir:      desktopDir,
	}
}

// Score assigns each result a score and returns them sorted by descending
// score. Ties keep their input order. The input slice is not modified.
func (r *Ranker) Score(results []core.SearchResult, q Query, clicks map[string]uint64) []core.SearchResult {
	scored := slices.Clone(results)
	for i := range scored {
		scored[i].Score = r.score(scored[i].Path, scored[i].Name, q, clicks[scored[i].Path])
	}
	slices.SortStableFunc(scored, func(a, b core.SearchResult) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return scored
}

func (r *Ranker) score(path, name string, q Query, clicks uint64) int {
	nameLC := strings.ToLower(name)
	pathLC := strings.ToLower(path)

	allInName := containsAll(nameLC, q.Words)
	aliasHit := false
	if q.Alias != "" && strings.Contains(nameLC, q.Alias) {
		allInName = true
		aliasHit = true
	}
	acronymHit := false
	if !allInName && acronymMatch(nameLC, q.Keyword) {
		allInName = true
		acronymHit = true
	}

	score := 0
	switch {
	case allInName:
		switch {
		case aliasHit || acronymHit || nameLC == q.Keyword:
			score += scoreExactName
		case containsInOrder(nameLC, q.Words):
			score += scoreContiguous
			if len(q.Words) > 0 && strings.HasPrefix(nameLC, q.Words[0]) {
				score += scorePrefix
			}
		default:
			score += scoreScattered
		}
	case containsAll(pathLC, q.Words):
		score += scoreAllInPath
	}

	if q.Filter == core.FilterApp && isTopLevelBundle(path) {
		score += scoreAppFilter
	}

	score += scorePerClick * int(clicks)

	if strings.Contains(path, bundleContentsPart) {
		score += scoreNestedBundle
	}

	inApps := isUnder(path, r.applicationsDir)
	if !inApps {
		score += scorePerSegment * depth(path)
	}
	switch {
	case inApps:
		score += scoreApplications
	case isUnder(path, r.desktopDir):
		score += scoreDesktop
	}
	return score
}

// isTopLevelBundle reports whether path is an application bundle that is
// not nested inside another bundle.
func isTopLevelBundle(path string) bool {
	path = strings.TrimSuffix(path, "/")
	return strings.HasSuffix(path, core.AppBundleExt) && !strings.Contains(path, bundleContentsPart)
}
