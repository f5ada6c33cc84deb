package ledger

import "github.com/shopspring/decimal"

// LIFOOpenLots returns the lots that make up the final position when closing
// trades consume the newest lots first. A trade survives by the amount that
// no later closing trade reached: its contribution is cut down by how far
// the position fell (long) or rose (short) below its level after the trade,
// at any point up to the end of the ledger.
//
// A trade that flips the position only contributes the part on the side of
// the final position. The result is ordered by time and sums to the final
// position. A flat or empty ledger yields an empty, non-nil slice.
func LIFOOpenLots(l *Ledger) []Lot {
	dir := l.Direction()
	if dir == Flat {
		return []Lot{}
	}

	start := l.FlipStart()
	n := l.Len() - start

	// floor[j] is the most extreme position, towards flat, reached at or
	// after trade start+j: the running min for long, max for short.
	floor := make([]decimal.Decimal, n)
	for j := n - 1; j >= 0; j-- {
		pos := l.positions[start+j]
		if j == n-1 {
			floor[j] = pos
			continue
		}
		floor[j] = extremum(dir, pos, floor[j+1])
	}

	lots := make([]Lot, 0, n)
	for j := 0; j < n; j++ {
		trade := l.trades[start+j]
		if !dir.sameSide(trade.Amount) {
			continue
		}

		pos := l.positions[start+j]
		amount := extremum(dir, trade.Amount, pos)
		amount = amount.Sub(pos.Sub(floor[j]))

		if dir.sameSide(amount) {
			lots = append(lots, lotFromTrade(trade, amount))
		}
	}

	return lots
}
