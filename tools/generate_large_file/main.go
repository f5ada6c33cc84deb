// Large Ledger File Generator
//
// This tool generates a large CSV trade ledger for performance testing and profiling.
// The ledger is written in the format read by the loader, including the running position
// and trade IDs, so every code path of `openlots lots` is exercised.
//
// Usage:
//
//	go run main.go > large.csv
//	go run main.go 20000000 > large.csv  # Specify target size in bytes
//	go run main.go 20000000 42 > large.csv  # And a seed
package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/robinvdvleuten/openlots/generate"
)

const (
	defaultTargetSize = 10 * 1024 * 1024 // 10MB
	sampleRows        = 1000
)

func main() {
	targetSize := defaultTargetSize
	if len(os.Args) > 1 {
		if size, err := strconv.Atoi(os.Args[1]); err == nil {
			targetSize = size
		}
	}

	var seed int64 = 1
	if len(os.Args) > 2 {
		if s, err := strconv.ParseInt(os.Args[2], 10, 64); err == nil {
			seed = s
		}
	}

	rows, err := estimateRows(seed, targetSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	l, err := generate.New(seed).Ledger(context.Background(), rows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	w := bufio.NewWriter(os.Stdout)
	if err := generate.WriteCSV(w, l); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Generated %d trades (~%d bytes)\n", rows, targetSize)
}

// estimateRows measures the average row size of a sample ledger and returns
// the number of rows needed to reach targetSize bytes.
func estimateRows(seed int64, targetSize int) (int, error) {
	sample, err := generate.New(seed).Ledger(context.Background(), sampleRows)
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	if err := generate.WriteCSV(&buf, sample); err != nil {
		return 0, err
	}

	perRow := max(buf.Len()/sampleRows, 1)
	return max(targetSize/perRow, 1), nil
}
