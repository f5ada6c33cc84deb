package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/robinvdvleuten/openlots/telemetry"
)

// Method is a lot consumption convention.
type Method int

const (
	// FIFO (First-In, First-Out) closes the oldest lots first.
	FIFO Method = iota
	// LIFO (Last-In, First-Out) closes the newest lots first.
	LIFO
)

// Methods returns all supported methods.
func Methods() []Method {
	return []Method{FIFO, LIFO}
}

func (m Method) String() string {
	switch m {
	case FIFO:
		return "fifo"
	case LIFO:
		return "lifo"
	default:
		return "unknown"
	}
}

// ParseMethod parses a method name, ignoring case.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fifo":
		return FIFO, nil
	case "lifo":
		return LIFO, nil
	default:
		return 0, fmt.Errorf("unknown booking method: %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	if m != FIFO && m != LIFO {
		return nil, fmt.Errorf("unknown booking method: %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// OpenLots returns the open lots of l under method m.
func OpenLots(l *Ledger, m Method) ([]Lot, error) {
	switch m {
	case FIFO:
		return FIFOOpenLots(l), nil
	case LIFO:
		return LIFOOpenLots(l), nil
	default:
		return nil, fmt.Errorf("unsupported booking method %q", m.String())
	}
}

// OpenLots returns the open lots under method m, recording the time spent
// with the telemetry collector found in ctx.
func (l *Ledger) OpenLots(ctx context.Context, m Method) ([]Lot, error) {
	collector := telemetry.FromContext(ctx)
	timer := collector.Start(fmt.Sprintf("%s open lots (%d trades)", m, l.Len()))
	defer timer.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return OpenLots(l, m)
}
