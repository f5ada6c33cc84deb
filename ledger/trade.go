package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Trade is a single signed execution of one instrument.
// A positive Amount buys, a negative Amount sells.
type Trade struct {
	ID     string // Optional identifier carried through to lots
	Time   time.Time
	Amount decimal.Decimal
}

// String returns a string representation of the trade
func (t Trade) String() string {
	if t.ID == "" {
		return fmt.Sprintf("%s %s", t.Time.Format(time.RFC3339), t.Amount.String())
	}
	return fmt.Sprintf("%s %s (%s)", t.Time.Format(time.RFC3339), t.Amount.String(), t.ID)
}

// Lot is the portion of a trade that is still part of the open position.
// Its Amount has the sign of the final position and never exceeds the
// source trade in magnitude.
type Lot struct {
	ID     string
	Time   time.Time
	Amount decimal.Decimal
}

// String returns a string representation of the lot
func (l Lot) String() string {
	return Trade(l).String()
}

func lotFromTrade(t Trade, amount decimal.Decimal) Lot {
	return Lot{ID: t.ID, Time: t.Time, Amount: amount}
}

// Direction is the side of a position.
type Direction int

const (
	Flat Direction = iota
	Long
	Short
)

// DirectionOf returns the direction matching the sign of position.
func DirectionOf(position decimal.Decimal) Direction {
	switch position.Sign() {
	case 1:
		return Long
	case -1:
		return Short
	default:
		return Flat
	}
}

func (d Direction) String() string {
	switch d {
	case Long:
		return "long"
	case Short:
		return "short"
	default:
		return "flat"
	}
}

// sameSide reports whether amount points in direction d.
func (d Direction) sameSide(amount decimal.Decimal) bool {
	switch d {
	case Long:
		return amount.IsPositive()
	case Short:
		return amount.IsNegative()
	default:
		return false
	}
}
