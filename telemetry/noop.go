package telemetry

import (
	"io"
	"time"

	"github.com/robinvdvleuten/openlots/output"
)

type noOpCollector struct{}

func (noOpCollector) Start(name string) Timer {
	return noOpTimer{}
}

func (noOpCollector) Report(w io.Writer, styles *output.Styles) {}

type noOpTimer struct{}

func (noOpTimer) End() time.Duration { return 0 }

func (noOpTimer) Child(name string) Timer {
	return noOpTimer{}
}
