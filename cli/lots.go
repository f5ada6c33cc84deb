package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/openlots/ledger"
	"github.com/robinvdvleuten/openlots/loader"
	"github.com/robinvdvleuten/openlots/output"
)

// methodBoth selects every booking method.
const methodBoth = "both"

type LotsCmd struct {
	File   FileOrStdin `help:"CSV ledger filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Method string      `help:"Booking method: fifo, lifo or both. Defaults to the config file, then fifo." short:"m" placeholder:"METHOD"`
	Sort   bool        `help:"Sort trades by time before matching instead of rejecting unsorted input."`
	Watch  bool        `help:"Print the lots again whenever the file changes." short:"w"`
}

func (cmd *LotsCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	if cmd.Watch && cmd.File.IsStdin() {
		return errors.New("--watch needs a file, not stdin")
	}

	s, err := globals.start(ctx, fmt.Sprintf("lots %s", filepath.Base(cmd.File.Filename)))
	if err != nil {
		return err
	}
	defer s.report()

	methods, err := resolveMethods(s.ctx, cmd.Method)
	if err != nil {
		return err
	}

	ldr := loader.New(s.config.LoaderOptions(cmd.Sort)...)

	if !cmd.Watch {
		if err := cmd.print(s.ctx, ctx.Stdout, ctx.Stderr, ldr, methods); err != nil {
			if errors.Is(err, errReported) {
				return NewCommandError(1)
			}
			return err
		}
		return nil
	}

	watchCtx, stop := signal.NotifyContext(s.ctx, os.Interrupt)
	defer stop()

	// A broken file is reported and watched until it is fixed.
	if err := cmd.print(watchCtx, ctx.Stdout, ctx.Stderr, ldr, methods); err != nil && !errors.Is(err, errReported) {
		return err
	}

	filename := cmd.File.GetAbsoluteFilename()
	printInfof(ctx.Stderr, "Watching %s for changes", stylePath(ctx.Stderr, filename))

	return watchFile(watchCtx, filename, func() {
		_, _ = fmt.Fprintln(ctx.Stdout)
		printInfof(ctx.Stderr, "%s changed", stylePath(ctx.Stderr, filepath.Base(filename)))
		if err := cmd.print(watchCtx, ctx.Stdout, ctx.Stderr, ldr, methods); err != nil && !errors.Is(err, errReported) {
			printError(ctx.Stderr, err.Error())
		}
	})
}

// errReported marks a failure whose details were already written to stderr.
var errReported = errors.New("error reported")

// print loads the ledger and writes one table per method.
func (cmd *LotsCmd) print(ctx context.Context, stdout, stderr io.Writer, ldr *loader.Loader, methods []ledger.Method) error {
	l, err := cmd.File.LoadLedger(ctx, ldr)
	if err != nil {
		reportLoadError(stderr, &cmd.File, err)
		return errReported
	}

	styles := output.NewStyles(stdout)
	for i, m := range methods {
		lots, err := l.OpenLots(ctx, m)
		if err != nil {
			return err
		}

		if i > 0 {
			_, _ = fmt.Fprintln(stdout)
		}
		if err := writeLots(stdout, styles, m, l, lots); err != nil {
			return err
		}
	}

	return nil
}

// reportLoadError prints err with the offending lines of the input.
func reportLoadError(w io.Writer, file *FileOrStdin, err error) {
	source, readErr := file.GetSourceContent()
	if readErr != nil {
		source = nil
	}

	_, _ = fmt.Fprintln(w, NewErrorRenderer(source).Render(err))
	_, _ = fmt.Fprintln(w)

	if errors.Is(err, ledger.ErrInvalidLedger) {
		printError(w, "invalid ledger")
	} else {
		printError(w, "failed to load ledger")
	}
}

// resolveMethods turns the --method flag into the methods to run. An empty
// flag falls back to the method configured in ctx.
func resolveMethods(ctx context.Context, flag string) ([]ledger.Method, error) {
	flag = strings.TrimSpace(flag)
	switch {
	case flag == "":
		return []ledger.Method{ledger.ConfigFromContext(ctx).Method}, nil
	case strings.EqualFold(flag, methodBoth):
		return ledger.Methods(), nil
	}

	m, err := ledger.ParseMethod(flag)
	if err != nil {
		return nil, err
	}
	return []ledger.Method{m}, nil
}
