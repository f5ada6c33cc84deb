package ledger_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/openlots/generate"
	"github.com/robinvdvleuten/openlots/ledger"
)

// replay books every trade against an explicit list of open lots, closing
// from the front (FIFO) or the back (LIFO) and opening a new lot with what
// is left of a trade once the position is flat.
func replay(trades []ledger.Trade, m ledger.Method) []ledger.Lot {
	open := []ledger.Lot{}
	for _, t := range trades {
		remaining := t.Amount
		for !remaining.IsZero() && len(open) > 0 && open[0].Amount.Sign() != remaining.Sign() {
			idx := 0
			if m == ledger.LIFO {
				idx = len(open) - 1
			}

			lot := &open[idx]
			if lot.Amount.Abs().GreaterThan(remaining.Abs()) {
				lot.Amount = lot.Amount.Add(remaining)
				remaining = decimal.Zero
				break
			}

			remaining = remaining.Add(lot.Amount)
			open = append(open[:idx], open[idx+1:]...)
		}

		if !remaining.IsZero() {
			open = append(open, ledger.Lot{ID: t.ID, Time: t.Time, Amount: remaining})
		}
	}
	return open
}

func lotStrings(lots []ledger.Lot) []string {
	out := make([]string, len(lots))
	for i, lot := range lots {
		out[i] = fmt.Sprintf("%s %s", lot.ID, lot.Amount.String())
	}
	return out
}

// checkInvariants verifies the guarantees shared by every method.
func checkInvariants(t *testing.T, l *ledger.Ledger, lots []ledger.Lot) {
	t.Helper()

	total := decimal.Zero
	for _, lot := range lots {
		total = total.Add(lot.Amount)
	}
	assert.True(t, total.Equal(l.FinalPosition()), "lots sum to %s, final position is %s", total, l.FinalPosition())

	dir := l.Direction()
	if dir == ledger.Flat {
		assert.Equal(t, 0, len(lots))
		return
	}

	next := 0
	for _, lot := range lots {
		assert.Equal(t, dir, ledger.DirectionOf(lot.Amount), "lot %s has the wrong side", lot)

		// Lots form a subsequence of the ledger.
		for next < l.Len() && l.Trade(next).ID != lot.ID {
			next++
		}
		assert.True(t, next < l.Len(), "lot %s is not in ledger order", lot)

		source := l.Trade(next)
		assert.True(t, lot.Time.Equal(source.Time))
		assert.True(t, lot.Amount.Abs().LessThanOrEqual(source.Amount.Abs()))
		next++
	}
}

func TestOpenLotsMatchReplay(t *testing.T) {
	for seed := int64(1); seed <= 200; seed++ {
		g := generate.New(seed, generate.WithMaxAmount(10))
		trades := g.Trades(int(seed%40) + 1)
		l := ledger.MustNew(trades)

		for _, m := range ledger.Methods() {
			got, err := ledger.OpenLots(l, m)
			assert.NoError(t, err)
			checkInvariants(t, l, got)
			assert.Equal(t, lotStrings(replay(trades, m)), lotStrings(got), "seed %d, method %s", seed, m)
		}
	}
}

func TestNoFlipLedgerIsReturnedWhole(t *testing.T) {
	for _, sign := range []int64{1, -1} {
		trades := make([]ledger.Trade, 20)
		for i := range trades {
			trades[i] = ledger.Trade{
				ID:     fmt.Sprintf("t%d", i),
				Time:   generate.DefaultStart.Add(time.Duration(i) * time.Hour),
				Amount: decimal.NewFromInt(sign * int64(i%3+1)),
			}
		}
		l := ledger.MustNew(trades)

		want := make([]string, len(trades))
		for i, trade := range trades {
			want[i] = fmt.Sprintf("%s %s", trade.ID, trade.Amount)
		}

		assert.Equal(t, want, lotStrings(ledger.FIFOOpenLots(l)))
		assert.Equal(t, want, lotStrings(ledger.LIFOOpenLots(l)))
	}
}

func TestConventionsDiverge(t *testing.T) {
	start := generate.DefaultStart
	trades := []ledger.Trade{
		{ID: "a", Time: start, Amount: decimal.NewFromInt(2)},
		{ID: "b", Time: start.Add(time.Hour), Amount: decimal.NewFromInt(2)},
		{ID: "c", Time: start.Add(2 * time.Hour), Amount: decimal.NewFromInt(-3)},
	}
	l := ledger.MustNew(trades)

	assert.Equal(t, []string{"b 1"}, lotStrings(ledger.FIFOOpenLots(l)))
	assert.Equal(t, []string{"a 1"}, lotStrings(ledger.LIFOOpenLots(l)))
}

func FuzzOpenLots(f *testing.F) {
	f.Add(int64(1), uint8(10))
	f.Add(int64(42), uint8(200))
	f.Add(int64(-7), uint8(1))

	f.Fuzz(func(t *testing.T, seed int64, n uint8) {
		trades := generate.New(seed, generate.WithMaxAmount(5)).Trades(int(n))
		l := ledger.MustNew(trades)

		for _, m := range ledger.Methods() {
			got, err := ledger.OpenLots(l, m)
			assert.NoError(t, err)
			checkInvariants(t, l, got)
			assert.Equal(t, lotStrings(replay(trades, m)), lotStrings(got))
		}
	})
}

func BenchmarkOpenLots(b *testing.B) {
	for _, rows := range []int{100, 10000, 1000000} {
		l, err := generate.New(1).Ledger(context.Background(), rows)
		if err != nil {
			b.Fatal(err)
		}

		for _, m := range ledger.Methods() {
			b.Run(fmt.Sprintf("%s/%d", m, rows), func(b *testing.B) {
				for i := 0; i < b.N; i++ {
					_, _ = ledger.OpenLots(l, m)
				}
			})
		}
	}
}
