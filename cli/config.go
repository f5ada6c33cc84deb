package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/robinvdvleuten/openlots/ledger"
	"github.com/robinvdvleuten/openlots/loader"
)

// Config is the optional YAML file passed with --config.
//
//	method: lifo
//	sort: true
//	time_layouts:
//	  - "02/01/2006"
//	columns:
//	  time: date
//	  amount: qty
type Config struct {
	Method      string         `yaml:"method"`
	Sort        bool           `yaml:"sort"`
	TimeLayouts []string       `yaml:"time_layouts"`
	Columns     loader.Columns `yaml:"columns"`
}

// LoadConfig reads the configuration file at path. An empty path returns
// the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := parseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func parseConfig(data []byte) (*Config, error) {
	cfg := &Config{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.Method != "" {
		if _, err := ledger.ParseMethod(cfg.Method); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
	}

	return cfg, nil
}

// LoaderOptions translates the file settings into loader options. sort is
// the command line flag and wins over the file when set.
func (c *Config) LoaderOptions(sort bool) []loader.Option {
	opts := []loader.Option{loader.WithColumns(c.Columns)}
	if len(c.TimeLayouts) > 0 {
		opts = append(opts, loader.WithTimeLayouts(c.TimeLayouts...))
	}
	if sort || c.Sort {
		opts = append(opts, loader.WithSort())
	}
	return opts
}

// WithContext attaches the ledger settings of the file to ctx.
func (c *Config) WithContext(ctx context.Context) context.Context {
	lc := ledger.NewConfig()
	if c.Method != "" {
		// Validated by parseConfig.
		lc.Method, _ = ledger.ParseMethod(c.Method)
	}
	return lc.WithContext(ctx)
}
