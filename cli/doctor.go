package cli

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/robinvdvleuten/openlots/ledger"
	"github.com/robinvdvleuten/openlots/loader"
	"github.com/robinvdvleuten/openlots/output"
)

// DoctorCmd provides doctor utilities for debugging trade ledgers.
type DoctorCmd struct {
	Positions PositionsCmd `cmd:"" help:"Show the running position of every trade and where the open position starts."`
}

// PositionsCmd shows the running position of a ledger.
type PositionsCmd struct {
	File FileOrStdin `help:"CSV ledger filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Sort bool        `help:"Sort trades by time instead of rejecting unsorted input."`
	Raw  bool        `help:"Dump the rows as Go values instead of a table."`
}

// positionRow is one trade as reported by the positions command.
type positionRow struct {
	Index    int
	ID       string
	Time     string
	Amount   string
	Position string
	Open     bool // Trade lies after the last flip and may hold open lots
}

// Run executes the positions command.
func (cmd *PositionsCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	s, err := globals.start(ctx, fmt.Sprintf("positions %s", filepath.Base(cmd.File.Filename)))
	if err != nil {
		return err
	}
	defer s.report()

	ldr := loader.New(s.config.LoaderOptions(cmd.Sort)...)
	l, err := cmd.File.LoadLedger(s.ctx, ldr)
	if err != nil {
		reportLoadError(ctx.Stderr, &cmd.File, err)
		return NewCommandError(1)
	}

	rows := positionRows(l)

	if cmd.Raw {
		repr.New(ctx.Stdout, repr.Indent("  ")).Println(rows)
		return nil
	}

	styles := output.NewStyles(ctx.Stdout)
	table := output.NewTable(
		output.Column{Header: "#", Align: output.AlignRight},
		output.Column{Header: "Time"},
		output.Column{Header: "Amount", Align: output.AlignRight},
		output.Column{Header: "Position", Align: output.AlignRight},
		output.Column{Header: "Open"},
	)
	table.Style = func(row, col int, cell string) string {
		switch {
		case row < 0:
			return styles.Dim(cell)
		case col == 2 || col == 3:
			return styleAmount(styles, cell)
		case !rows[row].Open:
			return styles.Dim(cell)
		default:
			return cell
		}
	}

	for _, r := range rows {
		open := ""
		if r.Open {
			open = "*"
		}
		table.Append(strconv.Itoa(r.Index), r.Time, r.Amount, r.Position, open)
	}

	if err := table.Render(ctx.Stdout); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(ctx.Stdout, "\nfinal position %s (%s), open position starts at trade %d\n",
		l.FinalPosition(), l.Direction(), l.FlipStart())
	return nil
}

func positionRows(l *ledger.Ledger) []positionRow {
	start := l.FlipStart()

	rows := make([]positionRow, l.Len())
	for i := range rows {
		trade := l.Trade(i)
		rows[i] = positionRow{
			Index:    i,
			ID:       trade.ID,
			Time:     formatTime(trade.Time),
			Amount:   trade.Amount.String(),
			Position: l.Position(i).String(),
			Open:     i >= start,
		}
	}
	return rows
}
