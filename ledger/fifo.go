package ledger

import (
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// FIFOOpenLots returns the lots that make up the final position when closing
// trades consume the oldest lots first. The surviving lots are therefore the
// newest trades on the side of the final position, with the oldest of them
// truncated when only part of it is still open.
//
// The result is ordered by time and sums to the final position. A flat or
// empty ledger yields an empty, non-nil slice.
func FIFOOpenLots(l *Ledger) []Lot {
	dir := l.Direction()
	if dir == Flat {
		return []Lot{}
	}

	final := l.FinalPosition()
	start := l.FlipStart()

	// Same-side trades after the last flip, in time order.
	candidates := make([]int, 0, l.Len()-start)
	for i := start; i < l.Len(); i++ {
		if dir.sameSide(l.trades[i].Amount) {
			candidates = append(candidates, i)
		}
	}

	// Walk backwards accumulating the volume from each candidate up to the
	// most recent one. Once the volume strictly after a candidate reaches the
	// final position, that candidate and every older one are used up.
	kept := make([]Lot, 0, len(candidates))
	after := decimal.Zero
	for j := len(candidates) - 1; j >= 0; j-- {
		if reached(dir, after, final) {
			break
		}

		trade := l.trades[candidates[j]]
		suffix := after.Add(trade.Amount)

		amount := trade.Amount.Sub(overage(dir, suffix, final))
		if !amount.IsZero() {
			kept = append(kept, lotFromTrade(trade, amount))
		}

		after = suffix
	}

	slices.Reverse(kept)
	return kept
}

// reached reports whether volume has already met or passed final in the
// direction d, leaving nothing for older trades.
func reached(d Direction, volume, final decimal.Decimal) bool {
	if d == Long {
		return volume.GreaterThanOrEqual(final)
	}
	return volume.LessThanOrEqual(final)
}

// overage returns how far suffix overshoots final in direction d, or zero
// when it does not overshoot.
func overage(d Direction, suffix, final decimal.Decimal) decimal.Decimal {
	over := suffix.Sub(final)
	if d == Long {
		return decimal.Max(over, decimal.Zero)
	}
	return decimal.Min(over, decimal.Zero)
}
