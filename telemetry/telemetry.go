// Package telemetry records how long the steps of a run take, as a tree of
// nested timers.
//
// A Collector travels through context so that library code can time itself
// without taking extra parameters. When no collector is attached, FromContext
// returns one that records nothing.
//
// Example usage:
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	timer := collector.Start("load trades.csv")
//	lots, err := l.OpenLots(ctx, ledger.FIFO)
//	timer.End()
//
//	collector.Report(os.Stderr, nil)
package telemetry

import (
	"context"
	"io"
	"time"

	"github.com/robinvdvleuten/openlots/output"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

var collectorKey = contextKey{}

// Collector creates timers and reports what they measured.
type Collector interface {
	// Start begins timing an operation. Timers started while another timer
	// is running are nested under it.
	Start(name string) Timer

	// Report writes the timing tree to w. styles may be nil for plain text.
	Report(w io.Writer, styles *output.Styles)
}

// Timer measures a single operation.
type Timer interface {
	// End stops the timer and returns the elapsed time.
	End() time.Duration

	// Child creates a timer nested under this one.
	Child(name string) Timer
}

// WithCollector adds a collector to a context.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey, collector)
}

// FromContext extracts the collector from context, or a collector that does
// nothing when none is present.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(collectorKey).(Collector); ok {
		return collector
	}
	return noOpCollector{}
}
