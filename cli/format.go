package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/robinvdvleuten/openlots/ledger"
	"github.com/robinvdvleuten/openlots/output"
)

// timeLayout is used for every time printed by the CLI.
const timeLayout = "2006-01-02 15:04:05"

// formatTime prints midnight times as plain dates.
func formatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(timeLayout)
}

// styleAmount colors a padded amount cell by the sign of the value it holds.
func styleAmount(styles *output.Styles, cell string) string {
	value := strings.TrimSpace(cell)
	switch {
	case strings.HasPrefix(value, "-"):
		return styles.Short(cell)
	case value == "" || value == "0":
		return cell
	default:
		return styles.Long(cell)
	}
}

// writeLots prints the open lots of l under method m as a table followed by
// a summary line.
//
//	FIFO open lots
//	#  Time        ID  Amount
//	1  2020-02-01  b        1
//
//	1 lot, final position 1 (long)
func writeLots(w io.Writer, styles *output.Styles, m ledger.Method, l *ledger.Ledger, lots []ledger.Lot) error {
	_, _ = fmt.Fprintln(w, styles.Keyword(strings.ToUpper(m.String())+" open lots"))

	final := l.FinalPosition()
	if len(lots) == 0 {
		_, _ = fmt.Fprintln(w, styles.Warning(fmt.Sprintf("no open lots, final position %s (%s)", final, l.Direction())))
		return nil
	}

	withIDs := false
	for _, lot := range lots {
		if lot.ID != "" {
			withIDs = true
			break
		}
	}

	columns := []output.Column{
		{Header: "#", Align: output.AlignRight},
		{Header: "Time"},
	}
	if withIDs {
		columns = append(columns, output.Column{Header: "ID"})
	}
	columns = append(columns, output.Column{Header: "Amount", Align: output.AlignRight})
	amountCol := len(columns) - 1

	table := output.NewTable(columns...)
	table.Style = func(row, col int, cell string) string {
		switch {
		case row < 0:
			return styles.Dim(cell)
		case col == amountCol:
			return styleAmount(styles, cell)
		default:
			return cell
		}
	}

	for i, lot := range lots {
		cells := []string{strconv.Itoa(i + 1), formatTime(lot.Time)}
		if withIDs {
			cells = append(cells, lot.ID)
		}
		cells = append(cells, lot.Amount.String())
		table.Append(cells...)
	}

	if err := table.Render(w); err != nil {
		return err
	}

	noun := "lots"
	if len(lots) == 1 {
		noun = "lot"
	}
	_, err := fmt.Fprintf(w, "\n%d %s, final position %s (%s)\n", len(lots), noun, final, l.Direction())
	return err
}
