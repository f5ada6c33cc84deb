package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/openlots/ledger"
	"github.com/robinvdvleuten/openlots/loader"
)

func TestLoadConfig(t *testing.T) {
	t.Run("EmptyPath", func(t *testing.T) {
		cfg, err := LoadConfig("")
		assert.NoError(t, err)
		assert.Equal(t, &Config{}, cfg)
	})

	t.Run("Full", func(t *testing.T) {
		path := writeFile(t, "openlots.yaml", `method: LIFO
sort: true
time_layouts: ["02/01/2006", "2006-01-02"]
columns:
  time: date
  position: running
`)
		cfg, err := LoadConfig(path)
		assert.NoError(t, err)
		assert.Equal(t, &Config{
			Method:      "LIFO",
			Sort:        true,
			TimeLayouts: []string{"02/01/2006", "2006-01-02"},
			Columns:     loader.Columns{Time: "date", Position: "running"},
		}, cfg)
	})

	t.Run("EmptyFile", func(t *testing.T) {
		cfg, err := LoadConfig(writeFile(t, "openlots.yaml", ""))
		assert.NoError(t, err)
		assert.Equal(t, &Config{}, cfg)
	})

	t.Run("UnknownField", func(t *testing.T) {
		_, err := LoadConfig(writeFile(t, "openlots.yaml", "mehtod: fifo\n"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "mehtod")
	})

	t.Run("UnknownMethod", func(t *testing.T) {
		_, err := LoadConfig(writeFile(t, "openlots.yaml", "method: hifo\n"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), `unknown booking method: "hifo"`)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestConfigWithContext(t *testing.T) {
	ctx := (&Config{}).WithContext(context.Background())
	assert.Equal(t, ledger.FIFO, ledger.ConfigFromContext(ctx).Method)

	ctx = (&Config{Method: "lifo"}).WithContext(context.Background())
	assert.Equal(t, ledger.LIFO, ledger.ConfigFromContext(ctx).Method)
}

func TestConfigLoaderOptions(t *testing.T) {
	cfg := &Config{TimeLayouts: []string{"02/01/2006"}}

	ldr := loader.New(cfg.LoaderOptions(false)...)
	assert.False(t, ldr.Sort)
	assert.Equal(t, []string{"02/01/2006"}, ldr.TimeLayouts)
	assert.Equal(t, loader.DefaultColumns(), ldr.Columns)

	ldr = loader.New(cfg.LoaderOptions(true)...)
	assert.True(t, ldr.Sort)
}

func TestResolveMethods(t *testing.T) {
	lifoCtx := (&ledger.Config{Method: ledger.LIFO}).WithContext(context.Background())

	tests := []struct {
		flag string
		want []ledger.Method
	}{
		{"", []ledger.Method{ledger.LIFO}},
		{"fifo", []ledger.Method{ledger.FIFO}},
		{"Both", []ledger.Method{ledger.FIFO, ledger.LIFO}},
	}

	for _, tt := range tests {
		got, err := resolveMethods(lifoCtx, tt.flag)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := resolveMethods(lifoCtx, "average")
	assert.Error(t, err)
}
