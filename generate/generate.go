// Package generate builds random trade ledgers for tests and benchmarks.
//
// A Generator is fully determined by its seed: the same seed and options
// always produce the same trades, including their IDs.
//
// Example usage:
//
//	g := generate.New(42)
//	l, err := g.Ledger(ctx, 1000)
package generate

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/openlots/ledger"
	"github.com/robinvdvleuten/openlots/loader"
	"github.com/robinvdvleuten/openlots/telemetry"
)

const (
	// DefaultMaxAmount bounds the size of a generated trade.
	DefaultMaxAmount = 1000
	// DefaultStep is the time between consecutive trades.
	DefaultStep = time.Minute
)

// DefaultStart is the time of the first generated trade.
var DefaultStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// Generator produces trades from a seeded random source. It is not safe for
// concurrent use.
type Generator struct {
	rng       *rand.Rand
	start     time.Time
	step      time.Duration
	maxAmount int64
	ids       bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithStart sets the time of the first trade.
func WithStart(t time.Time) Option {
	return func(g *Generator) {
		g.start = t
	}
}

// WithStep sets the time between consecutive trades.
func WithStep(d time.Duration) Option {
	return func(g *Generator) {
		if d > 0 {
			g.step = d
		}
	}
}

// WithMaxAmount bounds trade amounts to [-n, n], zero excluded.
func WithMaxAmount(n int64) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAmount = n
		}
	}
}

// WithoutIDs leaves trade IDs empty.
func WithoutIDs() Option {
	return func(g *Generator) {
		g.ids = false
	}
}

// New creates a Generator seeded with seed.
func New(seed int64, opts ...Option) *Generator {
	g := &Generator{
		rng:       rand.New(rand.NewSource(seed)),
		start:     DefaultStart,
		step:      DefaultStep,
		maxAmount: DefaultMaxAmount,
		ids:       true,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Trades returns n time-ordered trades with non-zero integer amounts drawn
// uniformly from [-max, max].
func (g *Generator) Trades(n int) []ledger.Trade {
	trades := make([]ledger.Trade, n)
	for i := range trades {
		t := g.start.Add(time.Duration(i) * g.step)
		trades[i] = ledger.Trade{
			Time:   t,
			Amount: decimal.NewFromInt(g.amount()),
		}
		if g.ids {
			trades[i].ID = ulid.MustNew(ulid.Timestamp(t), g.rng).String()
		}
	}
	return trades
}

// Ledger returns a validated ledger of n random trades.
func (g *Generator) Ledger(ctx context.Context, n int) (*ledger.Ledger, error) {
	timer := telemetry.FromContext(ctx).Start(fmt.Sprintf("generate %d trades", n))
	defer timer.End()

	if n < 0 {
		return nil, fmt.Errorf("number of trades must not be negative, got %d", n)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return ledger.New(g.Trades(n))
}

// amount draws the magnitude and the sign separately so that any positive
// maxAmount, up to math.MaxInt64, stays within Int63n's range.
func (g *Generator) amount() int64 {
	v := g.rng.Int63n(g.maxAmount) + 1
	if g.rng.Intn(2) == 0 {
		return -v
	}
	return v
}

// WriteCSV writes l with a header in the format read by the loader: time
// (RFC 3339), amount, running position and ID.
func WriteCSV(w io.Writer, l *ledger.Ledger) error {
	columns := loader.DefaultColumns()

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{columns.Time, columns.Amount, columns.Position, columns.ID}); err != nil {
		return err
	}

	for i := 0; i < l.Len(); i++ {
		trade := l.Trade(i)
		record := []string{
			trade.Time.Format(time.RFC3339Nano),
			trade.Amount.String(),
			l.Position(i).String(),
			trade.ID,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
