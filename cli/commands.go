package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/openlots/output"
	"github.com/robinvdvleuten/openlots/telemetry"
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool   `help:"Show timing telemetry for operations."`
	Config    string `help:"YAML configuration file with default method, columns and time layouts." type:"path" placeholder:"FILE"`
}

type Commands struct {
	Globals

	Lots     LotsCmd     `cmd:"" help:"Print the open lots of a trade ledger."`
	Check    CheckCmd    `cmd:"" help:"Validate a trade ledger and print its final position."`
	Generate GenerateCmd `cmd:"" help:"Write a random trade ledger as CSV."`
	Bench    BenchCmd    `cmd:"" help:"Time both booking methods over generated ledgers."`
	Doctor   DoctorCmd   `cmd:"" help:"Doctor utilities for debugging trade ledgers."`
}

// session is the per-run state shared by every command.
type session struct {
	ctx    context.Context
	config *Config
	report func()
}

// start loads the configuration and, when --telemetry is set, attaches a
// timing collector with a root timer called name. The caller must invoke
// report once the command is done; it prints the timings to stderr.
func (g *Globals) start(kctx *kong.Context, name string) (*session, error) {
	cfg, err := LoadConfig(g.Config)
	if err != nil {
		return nil, err
	}

	s := &session{
		ctx:    cfg.WithContext(context.Background()),
		config: cfg,
		report: func() {},
	}

	if g.Telemetry {
		collector := telemetry.NewTimingCollector()
		s.ctx = telemetry.WithCollector(s.ctx, collector)
		root := collector.Start(name)

		var once sync.Once
		s.report = func() {
			once.Do(func() {
				root.End()
				_, _ = fmt.Fprintln(kctx.Stderr)
				collector.Report(kctx.Stderr, output.NewStyles(kctx.Stderr))
			})
		}
	}

	return s, nil
}
