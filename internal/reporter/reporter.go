// Package reporter carries progress and status events out of the codec
// core without coupling it to any particular logging destination. Callers
// inject a Reporter; the core never touches global logging state.
package reporter

import "time"

// Level classifies an Event for filtering or color selection by a
// concrete Reporter implementation.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarn
	LevelError
)

// Reporter receives structured progress and status notifications from the
// codec core. Implementations must be safe to call from a single
// goroutine in program order; the core never calls a Reporter
// concurrently with itself.
type Reporter interface {
	// Header announces the start of a major phase (e.g. "QUADTREE
	// COMPRESSION").
	Header(title string)
	// Event reports one structured status line.
	Event(level Level, format string, args ...any)
	// Item reports one labeled fact (e.g. "Tree depth", "8 levels").
	Item(label, format string, args ...any)
	// Progress reports fractional completion (0..1) of the current phase.
	Progress(fraction float64)
	// Done closes out the current phase's progress display, if any.
	Done()
	// SizeStats reports the final original-vs-encoded size, node count, and
	// elapsed time for a completed compression (e.g. "12.00 KB -> 3.50 KB,
	// 29.17% ratio, 85 nodes, 1.2ms").
	SizeStats(originalBits, encodedBits uint64, nodes int, elapsed time.Duration)
}

// Nop is a Reporter that discards everything. It is the zero value
// callers get when no Reporter is supplied.
type Nop struct{}

func (Nop) Header(string)               {}
func (Nop) Event(Level, string, ...any) {}
func (Nop) Item(string, string, ...any) {}
func (Nop) Progress(float64)            {}
func (Nop) Done()                       {}
func (Nop) SizeStats(uint64, uint64, int, time.Duration) {}

var _ Reporter = Nop{}
