package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/openlots/loader"
)

const sampleLedger = `time,amount,pos,id
2020-01-01,2,2,a
2020-02-01,2,4,b
2020-03-01,-3,1,c
`

// runCLI parses args like main does and runs the selected command with
// captured output.
func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var app struct {
		Commands
	}

	var out, errOut bytes.Buffer
	parser, err := kong.New(&app,
		kong.Name("openlots"),
		kong.Writers(&out, &errOut),
		kong.Exit(func(code int) { t.Fatalf("unexpected exit with code %d", code) }),
		kong.Bind(&app.Globals),
	)
	assert.NoError(t, err)

	kctx, err := parser.Parse(args)
	if err != nil {
		return out.String(), errOut.String(), err
	}

	err = kctx.Run()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

func exitCode(t *testing.T, err error) int {
	t.Helper()

	var cmdErr *CommandError
	assert.True(t, errors.As(err, &cmdErr), "expected *CommandError, got %v", err)
	return cmdErr.ExitCode()
}

func TestLotsCmd(t *testing.T) {
	file := writeFile(t, "trades.csv", sampleLedger)

	t.Run("DefaultsToFIFO", func(t *testing.T) {
		stdout, _, err := runCLI(t, "lots", file)
		assert.NoError(t, err)
		assert.Contains(t, stdout, "FIFO open lots")
		assert.NotContains(t, stdout, "LIFO open lots")
		assert.Contains(t, stdout, "2020-02-01  b")
		assert.Contains(t, stdout, "1 lot, final position 1 (long)")
	})

	t.Run("LIFO", func(t *testing.T) {
		stdout, _, err := runCLI(t, "lots", "--method", "lifo", file)
		assert.NoError(t, err)
		assert.Contains(t, stdout, "LIFO open lots")
		assert.Contains(t, stdout, "2020-01-01  a")
		assert.NotContains(t, stdout, "2020-02-01")
	})

	t.Run("Both", func(t *testing.T) {
		stdout, _, err := runCLI(t, "lots", "-m", "both", file)
		assert.NoError(t, err)
		assert.Contains(t, stdout, "FIFO open lots")
		assert.Contains(t, stdout, "LIFO open lots")
		assert.True(t, strings.Index(stdout, "FIFO") < strings.Index(stdout, "LIFO"))
	})

	t.Run("UnknownMethod", func(t *testing.T) {
		_, _, err := runCLI(t, "lots", "--method", "hifo", file)
		assert.EqualError(t, err, `unknown booking method: "hifo"`)
	})

	t.Run("FlatLedger", func(t *testing.T) {
		flat := writeFile(t, "flat.csv", "time,amount\n2020-01-01,2\n2020-02-01,-2\n")
		stdout, _, err := runCLI(t, "lots", flat)
		assert.NoError(t, err)
		assert.Contains(t, stdout, "no open lots, final position 0 (flat)")
	})

	t.Run("InvalidLedger", func(t *testing.T) {
		bad := writeFile(t, "bad.csv", "time,amount\n2020-02-01,1\n2020-01-01,1\n")
		_, stderr, err := runCLI(t, "lots", bad)
		assert.Equal(t, 1, exitCode(t, err))
		assert.Contains(t, stderr, "bad.csv:3:")
		assert.Contains(t, stderr, "trades are not sorted by time")
		assert.Contains(t, stderr, "invalid ledger")
	})

	t.Run("SortFlag", func(t *testing.T) {
		unsorted := writeFile(t, "unsorted.csv", "time,amount\n2020-02-01,-1\n2020-01-01,3\n")
		stdout, _, err := runCLI(t, "lots", "--sort", unsorted)
		assert.NoError(t, err)
		assert.Contains(t, stdout, "2020-01-01")
		assert.Contains(t, stdout, "final position 2 (long)")
	})

	t.Run("Telemetry", func(t *testing.T) {
		_, stderr, err := runCLI(t, "--telemetry", "lots", file)
		assert.NoError(t, err)
		assert.Contains(t, stderr, "lots trades.csv")
		assert.Contains(t, stderr, "load trades.csv")
		assert.Contains(t, stderr, "fifo open lots (3 trades)")
	})
}

func TestLotsCmdConfig(t *testing.T) {
	// The config chooses LIFO, renames the columns and sets the date layout.
	ledgerFile := writeFile(t, "custom.csv", "date,qty\n01/01/2020,2\n01/02/2020,2\n01/03/2020,-3\n")
	config := writeFile(t, "openlots.yaml", `method: lifo
time_layouts:
  - "02/01/2006"
columns:
  time: date
  amount: qty
`)

	stdout, _, err := runCLI(t, "--config", config, "lots", ledgerFile)
	assert.NoError(t, err)
	assert.Contains(t, stdout, "LIFO open lots")
	assert.Contains(t, stdout, "2020-01-01")

	// The flag wins over the file.
	stdout, _, err = runCLI(t, "--config", config, "lots", "--method", "fifo", ledgerFile)
	assert.NoError(t, err)
	assert.Contains(t, stdout, "FIFO open lots")
	assert.Contains(t, stdout, "2020-02-01")
}

func TestCheckCmd(t *testing.T) {
	t.Run("Passes", func(t *testing.T) {
		file := writeFile(t, "trades.csv", sampleLedger)
		stdout, _, err := runCLI(t, "check", file)
		assert.NoError(t, err)
		assert.Contains(t, stdout, "✓ Check passed: 3 trades, final position 1 (long)")
	})

	t.Run("EmptyLedgerFails", func(t *testing.T) {
		file := writeFile(t, "empty.csv", "time,amount\n")
		_, stderr, err := runCLI(t, "check", file)
		assert.Equal(t, 1, exitCode(t, err))
		assert.Contains(t, stderr, "ledger has no trades")
	})

	t.Run("PositionMismatch", func(t *testing.T) {
		file := writeFile(t, "trades.csv", "time,amount,pos\n2020-01-01,1,1\n2020-02-01,1,1\n")
		_, stderr, err := runCLI(t, "check", file)
		assert.Equal(t, 1, exitCode(t, err))
		assert.Contains(t, stderr, "have 1, want 2")
		assert.Contains(t, stderr, "3 | 2020-02-01,1,1")
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, _, err := runCLI(t, "check", filepath.Join(t.TempDir(), "missing.csv"))
		assert.Error(t, err)
	})
}

func TestGenerateCmd(t *testing.T) {
	t.Run("Stdout", func(t *testing.T) {
		stdout, _, err := runCLI(t, "generate", "--rows", "5", "--seed", "7")
		assert.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(stdout), "\n")
		assert.Equal(t, 6, len(lines))
		assert.Equal(t, "time,amount,pos,id", lines[0])
	})

	t.Run("Deterministic", func(t *testing.T) {
		first, _, err := runCLI(t, "generate", "-n", "20", "--seed", "3")
		assert.NoError(t, err)
		second, _, err := runCLI(t, "generate", "-n", "20", "--seed", "3")
		assert.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("FileRoundTripsThroughCheck", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "nested", "trades.csv")
		_, stderr, err := runCLI(t, "generate", "-n", "50", "-o", out)
		assert.NoError(t, err)
		assert.Contains(t, stderr, "Wrote 50 trades")

		stdout, _, err := runCLI(t, "check", out)
		assert.NoError(t, err)
		assert.Contains(t, stdout, "Check passed: 50 trades")
	})

	t.Run("RefusesToOverwriteWithoutTerminal", func(t *testing.T) {
		if isTerminal() {
			t.Skip("stdin is a terminal")
		}

		out := writeFile(t, "trades.csv", "keep me")
		_, _, err := runCLI(t, "generate", "-n", "5", "-o", out)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "use --force to overwrite")

		contents, err := os.ReadFile(out)
		assert.NoError(t, err)
		assert.Equal(t, "keep me", string(contents))
	})

	t.Run("Force", func(t *testing.T) {
		out := writeFile(t, "trades.csv", "replace me")
		_, _, err := runCLI(t, "generate", "-n", "5", "-o", out, "--force")
		assert.NoError(t, err)

		contents, err := os.ReadFile(out)
		assert.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(contents), "time,amount,pos,id\n"))
	})

	t.Run("LargestMaxAmount", func(t *testing.T) {
		stdout, _, err := runCLI(t, "generate", "-n", "3", "--max-amount", "9223372036854775807")
		assert.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(stdout), "\n")
		assert.Equal(t, 4, len(lines))
	})

	t.Run("NoIDs", func(t *testing.T) {
		stdout, _, err := runCLI(t, "generate", "-n", "1", "--no-ids")
		assert.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(stdout), "\n")
		assert.True(t, strings.HasSuffix(lines[1], ","))
	})
}

func TestBenchCmd(t *testing.T) {
	stdout, _, err := runCLI(t, "bench", "--rows", "10,100", "--runs", "1")
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Equal(t, 3, len(lines))
	assert.Contains(t, lines[0], "fifo lots")
	assert.Contains(t, lines[0], "lifo lots")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[1]), "10 "))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[2]), "100 "))
}

func TestDoctorPositionsCmd(t *testing.T) {
	file := writeFile(t, "trades.csv", "time,amount\n2020-01-01,3\n2020-02-01,-5\n2020-03-01,1\n")

	t.Run("Table", func(t *testing.T) {
		stdout, _, err := runCLI(t, "doctor", "positions", file)
		assert.NoError(t, err)
		assert.Contains(t, stdout, "Position")
		assert.Contains(t, stdout, "final position -1 (short), open position starts at trade 1")
	})

	t.Run("Raw", func(t *testing.T) {
		stdout, _, err := runCLI(t, "doctor", "positions", "--raw", file)
		assert.NoError(t, err)
		assert.Contains(t, stdout, "positionRow")
		assert.Contains(t, stdout, `Position: "-2"`)
	})
}

func TestPositionRows(t *testing.T) {
	file := writeFile(t, "trades.csv", "time,amount\n2020-01-01,1\n2020-02-01,-1\n2020-03-01,2\n")

	f := FileOrStdin{Filename: file}
	l, err := f.LoadLedger(context.Background(), loader.New())
	assert.NoError(t, err)

	rows := positionRows(l)
	assert.Equal(t, 3, len(rows))
	assert.False(t, rows[0].Open)
	assert.False(t, rows[1].Open)
	assert.True(t, rows[2].Open)
	assert.Equal(t, "0", rows[1].Position)
}
