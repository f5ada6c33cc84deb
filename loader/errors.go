package loader

import "fmt"

// RowError reports a problem with a specific line of the input.
type RowError struct {
	Filename string
	Line     int
	Err      error
}

func (e *RowError) Error() string {
	location := fmt.Sprintf("%s:%d", e.Filename, e.Line)
	if e.Filename == "" {
		location = fmt.Sprintf("line %d", e.Line)
	}
	return fmt.Sprintf("%s: %s", location, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// GetLine returns the 1-based line number of the offending row.
func (e *RowError) GetLine() int {
	return e.Line
}
