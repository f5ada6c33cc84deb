package cli

import (
	"fmt"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/openlots/ledger"
	"github.com/robinvdvleuten/openlots/loader"
)

type CheckCmd struct {
	File FileOrStdin `help:"CSV ledger filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Sort bool        `help:"Sort trades by time instead of rejecting unsorted input."`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	s, err := globals.start(ctx, fmt.Sprintf("check %s", filepath.Base(cmd.File.Filename)))
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

	if l.Len() == 0 {
		printError(ctx.Stderr, ledger.ErrEmptyLedger.Error())
		return NewCommandError(1)
	}

	noun := "trades"
	if l.Len() == 1 {
		noun = "trade"
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("Check passed: %d %s, final position %s (%s)",
		l.Len(), noun, l.FinalPosition(), l.Direction()))

	return nil
}
