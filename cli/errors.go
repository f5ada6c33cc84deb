package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/openlots/loader"
)

var (
	errMessageStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"}).Bold(true)
	errCaretStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// contextLines is the number of lines shown above an offending row.
const contextLines = 2

// ErrorRenderer renders errors with terminal styling and source context.
type ErrorRenderer struct {
	source []byte
}

// NewErrorRenderer creates a renderer with source content for context.
func NewErrorRenderer(source []byte) *ErrorRenderer {
	return &ErrorRenderer{source: source}
}

// Render formats a single error. Errors that point at a row of the input
// are followed by the surrounding lines, with the offending one underlined.
func (r *ErrorRenderer) Render(err error) string {
	var rowErr *loader.RowError
	if errors.As(err, &rowErr) && r.source != nil && rowErr.GetLine() > 0 {
		return r.renderWithSourceContext(rowErr.GetLine(), err.Error())
	}

	return err.Error()
}

func (r *ErrorRenderer) renderWithSourceContext(line int, message string) string {
	var buf strings.Builder

	buf.WriteString(errMessageStyle.Render(message))
	buf.WriteString("\n\n")

	sourceLines := strings.Split(strings.TrimRight(string(r.source), "\n"), "\n")
	if line > len(sourceLines) {
		return strings.TrimRight(buf.String(), "\n")
	}

	startLine := max(line-contextLines, 1)
	gutter := len(fmt.Sprint(line))

	for i := startLine; i <= line; i++ {
		text := strings.TrimRight(sourceLines[i-1], "\r")
		_, _ = fmt.Fprintf(&buf, "   %*d | %s\n", gutter, i, errContextStyle.Render(text))

		if i == line {
			width := max(runewidth.StringWidth(text), 1)
			buf.WriteString("   ")
			buf.WriteString(strings.Repeat(" ", gutter))
			buf.WriteString(" | ")
			buf.WriteString(errCaretStyle.Render(strings.Repeat("^", width)))
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}
