package search

import "github.com/poiesic/filescout/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(q Query)
	AfterNativeQuery(paths []string)
	AfterMemoryScan(strong, fallback int, paths []string)
	AfterMerge(results []core.SearchResult)
	Finish(results []core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ Query)                          {}
func (n *noopMonitor) AfterNativeQuery(_ []string)            {}
func (n *noopMonitor) AfterMemoryScan(_, _ int, _ []string)   {}
func (n *noopMonitor) AfterMerge(_ []core.SearchResult)       {}
func (n *noopMonitor) Finish(_ []core.SearchResult)           {}
