// Package loader reads trade ledgers from CSV files into validated
// ledger.Ledger values.
//
// The input must start with a header row. Only the time and amount columns
// are required; a running position column is checked against the sum of
// amounts when present, and an id column is carried through to lots.
//
//	time,amount,pos
//	2020-01-01,1,1
//	2020-02-01,1,2
//	2020-03-01,-1,1
//
// Example usage:
//
//	ldr := loader.New(loader.WithSort())
//	l, err := ldr.Load(ctx, "trades.csv")
package loader

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/openlots/ledger"
	"github.com/robinvdvleuten/openlots/telemetry"
)

// DefaultTimeLayouts are tried in order when parsing the time column.
var DefaultTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Columns names the CSV header fields the loader reads. Matching is case
// insensitive. Position and ID are optional in the input.
type Columns struct {
	Time     string `yaml:"time"`
	Amount   string `yaml:"amount"`
	Position string `yaml:"position"`
	ID       string `yaml:"id"`
}

// DefaultColumns returns the column names written by the generator.
func DefaultColumns() Columns {
	return Columns{
		Time:     "time",
		Amount:   "amount",
		Position: "pos",
		ID:       "id",
	}
}

// Loader reads CSV ledgers.
//
// Configure the loader using functional options passed to New:
//
//	loader := New(WithSort(), WithTimeLayouts("02/01/2006"))
type Loader struct {
	// Columns holds the header names to look for.
	Columns Columns

	// TimeLayouts are the time.Parse layouts tried for every row.
	TimeLayouts []string

	// Sort stably sorts the trades by time before validation. When false,
	// an unsorted file is rejected.
	Sort bool
}

// Option configures how files are loaded.
type Option func(*Loader)

// WithSort sorts trades by time, keeping the file order of equal times.
// A supplied running position column is then checked in sorted order.
func WithSort() Option {
	return func(l *Loader) {
		l.Sort = true
	}
}

// WithColumns overrides the header names. Empty names keep their default.
func WithColumns(c Columns) Option {
	return func(l *Loader) {
		if c.Time != "" {
			l.Columns.Time = c.Time
		}
		if c.Amount != "" {
			l.Columns.Amount = c.Amount
		}
		if c.Position != "" {
			l.Columns.Position = c.Position
		}
		if c.ID != "" {
			l.Columns.ID = c.ID
		}
	}
}

// WithTimeLayouts replaces the accepted time layouts.
func WithTimeLayouts(layouts ...string) Option {
	return func(l *Loader) {
		if len(layouts) > 0 {
			l.TimeLayouts = layouts
		}
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{
		Columns:     DefaultColumns(),
		TimeLayouts: DefaultTimeLayouts,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load reads and validates the ledger stored in filename.
func (l *Loader) Load(ctx context.Context, filename string) (*ledger.Ledger, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer func() { _ = f.Close() }()

	return l.LoadReader(ctx, filename, f)
}

// LoadBytes reads and validates a ledger held in memory. filename is only
// used in error messages.
func (l *Loader) LoadBytes(ctx context.Context, filename string, data []byte) (*ledger.Ledger, error) {
	return l.LoadReader(ctx, filename, bytes.NewReader(data))
}

// LoadReader reads and validates a ledger from r. filename is only used in
// error messages.
func (l *Loader) LoadReader(ctx context.Context, filename string, r io.Reader) (*ledger.Ledger, error) {
	timer := telemetry.FromContext(ctx).Start(fmt.Sprintf("load %s", filepath.Base(filename)))
	defer timer.End()

	rows, err := l.readRows(ctx, filename, r)
	if err != nil {
		return nil, err
	}

	if l.Sort {
		slices.SortStableFunc(rows, func(a, b row) int {
			return a.trade.Time.Compare(b.trade.Time)
		})
	}

	trades := make([]ledger.Trade, len(rows))
	for i, row := range rows {
		trades[i] = row.trade
	}

	led, err := ledger.New(trades)
	if err != nil {
		var invalid *ledger.InvalidLedgerError
		if errors.As(err, &invalid) {
			return nil, &RowError{Filename: filename, Line: rows[invalid.Index].line, Err: err}
		}
		return nil, err
	}

	for i, row := range rows {
		if !row.hasPosition {
			continue
		}
		if want := led.Position(i); !row.position.Equal(want) {
			mismatch := ledger.NewPositionMismatchError(i, row.trade.Time, row.position, want)
			return nil, &RowError{Filename: filename, Line: row.line, Err: mismatch}
		}
	}

	return led, nil
}

// row is a parsed record together with where it came from.
type row struct {
	trade       ledger.Trade
	position    decimal.Decimal
	hasPosition bool
	line        int
}

// header maps the configured columns to field indexes, -1 when absent.
type header struct {
	time, amount, position, id int
}

func (l *Loader) readHeader(filename string, reader *csv.Reader) (header, error) {
	fields, err := reader.Read()
	if err == io.EOF {
		return header{}, fmt.Errorf("%s: missing header row", filename)
	}
	if err != nil {
		return header{}, fmt.Errorf("%s: %w", filename, err)
	}

	h := header{time: -1, amount: -1, position: -1, id: -1}
	for i, field := range fields {
		name := strings.TrimSpace(field)
		switch {
		case strings.EqualFold(name, l.Columns.Time):
			h.time = i
		case strings.EqualFold(name, l.Columns.Amount):
			h.amount = i
		case strings.EqualFold(name, l.Columns.Position):
			h.position = i
		case strings.EqualFold(name, l.Columns.ID):
			h.id = i
		}
	}

	if h.time < 0 {
		return header{}, &RowError{Filename: filename, Line: 1, Err: fmt.Errorf("missing %q column", l.Columns.Time)}
	}
	if h.amount < 0 {
		return header{}, &RowError{Filename: filename, Line: 1, Err: fmt.Errorf("missing %q column", l.Columns.Amount)}
	}

	return h, nil
}

func (l *Loader) readRows(ctx context.Context, filename string, r io.Reader) ([]row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	h, err := l.readHeader(filename, reader)
	if err != nil {
		return nil, err
	}

	var rows []row
	for {
		// Check for cancellation
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, &RowError{Filename: filename, Line: parseErr.Line, Err: parseErr.Err}
			}
			return nil, fmt.Errorf("%s: %w", filename, err)
		}

		line, _ := reader.FieldPos(0)
		parsed, err := l.parseRow(h, fields)
		if err != nil {
			return nil, &RowError{Filename: filename, Line: line, Err: err}
		}
		parsed.line = line
		rows = append(rows, parsed)
	}

	return rows, nil
}

func (l *Loader) parseRow(h header, fields []string) (row, error) {
	var r row

	t, err := l.parseTime(fields[h.time])
	if err != nil {
		return r, err
	}
	r.trade.Time = t

	amount, err := parseDecimal(l.Columns.Amount, fields[h.amount])
	if err != nil {
		return r, err
	}
	r.trade.Amount = amount

	if h.position >= 0 && strings.TrimSpace(fields[h.position]) != "" {
		position, err := parseDecimal(l.Columns.Position, fields[h.position])
		if err != nil {
			return r, err
		}
		r.position = position
		r.hasPosition = true
	}

	if h.id >= 0 {
		r.trade.ID = strings.TrimSpace(fields[h.id])
	}

	return r, nil
}

func (l *Loader) parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range l.TimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid %s %q: expected one of %s",
		l.Columns.Time, value, strings.Join(l.TimeLayouts, ", "))
}

func parseDecimal(column, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", column, value, err)
	}
	return d, nil
}
