package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/openlots/generate"
)

type GenerateCmd struct {
	Rows      int    `help:"Number of trades to generate." default:"1000" short:"n"`
	Seed      int64  `help:"Random seed. The same seed always yields the same ledger." default:"1"`
	MaxAmount int64  `help:"Largest absolute trade amount." default:"1000"`
	NoIDs     bool   `help:"Leave the id column empty." name:"no-ids"`
	Output    string `help:"Output file (default stdout)." short:"o" type:"path" placeholder:"FILE"`
	Force     bool   `help:"Overwrite the output file without asking." short:"f"`
}

func (cmd *GenerateCmd) Run(ctx *kong.Context, globals *Globals) error {
	if cmd.MaxAmount < 1 {
		return fmt.Errorf("--max-amount must be at least 1, got %d", cmd.MaxAmount)
	}

	s, err := globals.start(ctx, fmt.Sprintf("generate %d trades", cmd.Rows))
	if err != nil {
		return err
	}
	defer s.report()

	opts := []generate.Option{generate.WithMaxAmount(cmd.MaxAmount)}
	if cmd.NoIDs {
		opts = append(opts, generate.WithoutIDs())
	}

	l, err := generate.New(cmd.Seed, opts...).Ledger(s.ctx, cmd.Rows)
	if err != nil {
		return err
	}

	if cmd.Output == "" {
		return writeBuffered(ctx.Stdout, func(w io.Writer) error {
			return generate.WriteCSV(w, l)
		})
	}

	if err := cmd.confirmOverwrite(); err != nil {
		return err
	}

	if dir := filepath.Dir(cmd.Output); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create parent directory: %w", err)
		}
	}

	f, err := os.Create(cmd.Output)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	err = writeBuffered(f, func(w io.Writer) error {
		return generate.WriteCSV(w, l)
	})
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", cmd.Output, err)
	}

	printInfof(ctx.Stderr, "Wrote %d trades to %s", l.Len(), stylePath(ctx.Stderr, cmd.Output))
	return nil
}

// confirmOverwrite asks before replacing an existing output file unless
// --force is set. Without a terminal the answer is no.
func (cmd *GenerateCmd) confirmOverwrite() error {
	if cmd.Force {
		return nil
	}

	if _, err := os.Stat(cmd.Output); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to access file: %w", err)
	}

	confirmed, err := promptYesNo(fmt.Sprintf("File %q already exists. Overwrite it?", cmd.Output))
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if !confirmed {
		return fmt.Errorf("file already exists: %s (use --force to overwrite)", cmd.Output)
	}
	return nil
}

func writeBuffered(w io.Writer, write func(io.Writer) error) error {
	bw := bufio.NewWriter(w)
	if err := write(bw); err != nil {
		return err
	}
	return bw.Flush()
}
