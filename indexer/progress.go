package indexer

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker reports walk progress: roots finished out of the total,
// entries collected and the collection rate.
type ProgressTracker struct {
	writer         io.Writer
	totalRoots     int
	doneRoots      int
	entries        int
	reportInterval int
	lastReported   int
	startTime      time.Time
	started        bool
	mu             sync.Mutex
}

// NewProgressTracker creates a new progress tracker.
// writer: where to write progress output (typically os.Stderr)
// totalRoots: number of roots that will be walked
// reportInterval: report progress every N entries
func NewProgressTracker(writer io.Writer, totalRoots, reportInterval int) *ProgressTracker {
	if reportInterval < 1 {
		reportInterval = 1
	}
	return &ProgressTracker{
		writer:         writer,
		totalRoots:     totalRoots,
		reportInterval: reportInterval,
	}
}

// Start begins tracking progress.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.doneRoots = 0
	p.entries = 0
	p.lastReported = 0
}

// AddEntries records delta newly collected entries.
func (p *ProgressTracker) AddEntries(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.entries += delta
	if p.entries-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.entries
	}
}

// RootDone records a finished root and reports immediately.
func (p *ProgressTracker) RootDone() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	if p.doneRoots < p.totalRoots {
		p.doneRoots++
	}
	p.report()
	p.lastReported = p.entries
}

// Finish prints final progress and a newline.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.doneRoots = p.totalRoots
	p.report()
	fmt.Fprintln(p.writer)
}

// Entries returns the number of entries collected so far.
func (p *ProgressTracker) Entries() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.entries
}

// report prints the current progress. Must be called with lock held.
func (p *ProgressTracker) report() {
	elapsed := time.Since(p.startTime)
	rate := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		rate = float64(p.entries) / secs
	}

	fmt.Fprintf(p.writer, "\rIndexing: %d/%d roots - %d entries - %.0f entries/s",
		p.doneRoots, p.totalRoots, p.entries, rate)
}
