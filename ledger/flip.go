package ledger

// FlipStart returns the index of the first trade that can still belong to
// the open position. Every trade up to and including the last one that left
// the position flat or on the opposite side of the final position is
// excluded. The result is len(trades) when nothing survives.
//
// A long final position cuts at the last position <= 0; a flat or short one
// cuts at the last position >= 0, so a flat ledger always yields an empty
// suffix.
func (l *Ledger) FlipStart() int {
	long := l.FinalPosition().IsPositive()

	for k := len(l.positions) - 1; k >= 0; k-- {
		pos := l.positions[k]
		if long && !pos.IsPositive() {
			return k + 1
		}
		if !long && !pos.IsNegative() {
			return k + 1
		}
	}

	return 0
}
