// Package ledger attributes the open position of a single instrument to the
// trades that built it. Given a time-ordered sequence of signed trades, it
// finds which trades, and what portion of each, still make up the net
// position under FIFO or LIFO lot consumption.
//
// A Ledger is validated on construction: trades must be sorted by time and
// every amount must be non-zero. The running position after each trade is
// derived from the amounts. All arithmetic uses decimal values so that the
// sum of the returned lots always equals the final position exactly.
//
// Example usage:
//
//	l, err := ledger.New(trades)
//	if err != nil {
//	    var invalid *ledger.InvalidLedgerError
//	    if errors.As(err, &invalid) {
//	        fmt.Println("bad trade at index", invalid.Index)
//	    }
//	    return err
//	}
//
//	for _, lot := range ledger.FIFOOpenLots(l) {
//	    fmt.Println(lot)
//	}
package ledger

import (
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// Ledger is an immutable, validated trade sequence together with the
// running position after each trade. It is safe for concurrent reads.
type Ledger struct {
	trades    []Trade
	positions []decimal.Decimal
}

// New validates trades and builds a Ledger. The slice is copied, so later
// changes by the caller do not affect the ledger. The first violation is
// returned as an *InvalidLedgerError. An empty slice yields an empty ledger.
func New(trades []Trade) (*Ledger, error) {
	if err := Validate(trades); err != nil {
		return nil, err
	}

	l := &Ledger{
		trades:    slices.Clone(trades),
		positions: make([]decimal.Decimal, len(trades)),
	}

	position := decimal.Zero
	for i, t := range l.trades {
		position = position.Add(t.Amount)
		l.positions[i] = position
	}

	return l, nil
}

// MustNew is like New but panics on error.
// Use only in tests or when you're certain the trades are valid
func MustNew(trades []Trade) *Ledger {
	l, err := New(trades)
	if err != nil {
		panic(err)
	}
	return l
}

// Validate checks the ledger preconditions without building a Ledger.
func Validate(trades []Trade) error {
	for i, t := range trades {
		if t.Amount.IsZero() {
			return NewZeroAmountError(i, t.Time)
		}
		if i > 0 && t.Time.Before(trades[i-1].Time) {
			return NewUnsortedError(i, t.Time, trades[i-1].Time)
		}
	}
	return nil
}

// SortTrades sorts trades by time in place, keeping the relative order of
// trades with equal times. Callers invoke it explicitly before New; the
// ledger never reorders input on its own.
func SortTrades(trades []Trade) {
	slices.SortStableFunc(trades, func(a, b Trade) int {
		return a.Time.Compare(b.Time)
	})
}

// Len returns the number of trades.
func (l *Ledger) Len() int {
	return len(l.trades)
}

// Trade returns the trade at index i.
func (l *Ledger) Trade(i int) Trade {
	return l.trades[i]
}

// Trades returns a copy of all trades.
func (l *Ledger) Trades() []Trade {
	return slices.Clone(l.trades)
}

// Position returns the running position after trade i.
func (l *Ledger) Position(i int) decimal.Decimal {
	return l.positions[i]
}

// Positions returns a copy of the running positions.
func (l *Ledger) Positions() []decimal.Decimal {
	return slices.Clone(l.positions)
}

// FinalPosition returns the position after the last trade, or zero for an
// empty ledger.
func (l *Ledger) FinalPosition() decimal.Decimal {
	if len(l.positions) == 0 {
		return decimal.Zero
	}
	return l.positions[len(l.positions)-1]
}

// Direction returns the side of the final position.
func (l *Ledger) Direction() Direction {
	return DirectionOf(l.FinalPosition())
}

// extremum returns the smaller of a and b when d is Long and the larger
// otherwise.
func extremum(d Direction, a, b decimal.Decimal) decimal.Decimal {
	if d == Long {
		return decimal.Min(a, b)
	}
	return decimal.Max(a, b)
}
