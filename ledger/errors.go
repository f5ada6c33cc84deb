package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidLedger matches every *InvalidLedgerError via errors.Is.
	ErrInvalidLedger = errors.New("invalid ledger")

	// ErrEmptyLedger is returned by callers that require at least one trade.
	ErrEmptyLedger = errors.New("ledger has no trades")
)

// Reasons reported by InvalidLedgerError.
const (
	ReasonUnsorted         = "trades are not sorted by time"
	ReasonZeroAmount       = "trade amount is zero"
	ReasonPositionMismatch = "running position does not match the sum of amounts"
)

// InvalidLedgerError is returned when a trade breaks a ledger precondition.
// Index is the zero-based position of the offending trade.
type InvalidLedgerError struct {
	Index  int
	Time   time.Time
	Reason string
	Detail string // Optional extra context, e.g. the expected position
}

func (e *InvalidLedgerError) Error() string {
	msg := fmt.Sprintf("trade %d (%s): %s", e.Index, e.Time.Format(time.RFC3339), e.Reason)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is lets errors.Is(err, ErrInvalidLedger) match any InvalidLedgerError.
func (e *InvalidLedgerError) Is(target error) bool {
	return target == ErrInvalidLedger
}

// GetIndex returns the index of the offending trade.
func (e *InvalidLedgerError) GetIndex() int {
	return e.Index
}

// NewUnsortedError creates an error for a trade that precedes its predecessor.
func NewUnsortedError(index int, t, previous time.Time) *InvalidLedgerError {
	return &InvalidLedgerError{
		Index:  index,
		Time:   t,
		Reason: ReasonUnsorted,
		Detail: fmt.Sprintf("previous trade at %s", previous.Format(time.RFC3339)),
	}
}

// NewZeroAmountError creates an error for a trade with a zero amount.
func NewZeroAmountError(index int, t time.Time) *InvalidLedgerError {
	return &InvalidLedgerError{
		Index:  index,
		Time:   t,
		Reason: ReasonZeroAmount,
	}
}

// NewPositionMismatchError creates an error for a supplied running position
// that disagrees with the cumulative sum of amounts.
func NewPositionMismatchError(index int, t time.Time, got, want decimal.Decimal) *InvalidLedgerError {
	return &InvalidLedgerError{
		Index:  index,
		Time:   t,
		Reason: ReasonPositionMismatch,
		Detail: fmt.Sprintf("have %s, want %s", got.String(), want.String()),
	}
}
