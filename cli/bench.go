package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/openlots/generate"
	"github.com/robinvdvleuten/openlots/ledger"
	"github.com/robinvdvleuten/openlots/output"
)

type BenchCmd struct {
	Rows []int `help:"Ledger sizes to time." default:"10,100,1000,10000,100000"`
	Seed int64 `help:"Random seed for the generated ledgers." default:"1"`
	Runs int   `help:"Repetitions per size and method; the fastest run is reported." default:"3"`
}

func (cmd *BenchCmd) Run(ctx *kong.Context, globals *Globals) error {
	if cmd.Runs < 1 {
		return fmt.Errorf("--runs must be at least 1, got %d", cmd.Runs)
	}

	s, err := globals.start(ctx, "bench")
	if err != nil {
		return err
	}
	defer s.report()

	methods := ledger.Methods()

	columns := []output.Column{{Header: "Trades", Align: output.AlignRight}}
	for _, m := range methods {
		columns = append(columns,
			output.Column{Header: m.String(), Align: output.AlignRight},
			output.Column{Header: m.String() + " lots", Align: output.AlignRight},
		)
	}

	styles := output.NewStyles(ctx.Stdout)
	table := output.NewTable(columns...)
	table.Style = func(row, col int, cell string) string {
		if row < 0 {
			return styles.Keyword(cell)
		}
		return cell
	}

	for _, rows := range cmd.Rows {
		l, err := generate.New(cmd.Seed).Ledger(s.ctx, rows)
		if err != nil {
			return err
		}

		cells := []string{strconv.Itoa(rows)}
		for _, m := range methods {
			var (
				best time.Duration
				lots []ledger.Lot
			)
			for run := 0; run < cmd.Runs; run++ {
				start := time.Now()
				lots, err = l.OpenLots(s.ctx, m)
				if err != nil {
					return err
				}
				if elapsed := time.Since(start); run == 0 || elapsed < best {
					best = elapsed
				}
			}
			cells = append(cells, best.Round(time.Microsecond).String(), strconv.Itoa(len(lots)))
		}
		table.Append(cells...)
	}

	return table.Render(ctx.Stdout)
}
