package setup

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	okMark   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("✓")
	warnMark = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Render("⚠")
	failMark = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("✗")

	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

func (e *Engine) header(text string) {
	fmt.Fprintln(e.out, headerStyle.Render(text))
}

func (e *Engine) ok(format string, a ...interface{}) {
	fmt.Fprintf(e.out, "%s %s\n", okMark, fmt.Sprintf(format, a...))
}

func (e *Engine) warn(format string, a ...interface{}) {
	fmt.Fprintf(e.out, "%s %s\n", warnMark, fmt.Sprintf(format, a...))
}

func (e *Engine) info(format string, a ...interface{}) {
	fmt.Fprintf(e.out, "  %s\n", dimStyle.Render(fmt.Sprintf(format, a...)))
}

// Fprintln is a small indirection so callers outside the package can reuse
// the same marks for their own status lines.
func Fprintln(w io.Writer, mark Mark, text string) {
	switch mark {
	case MarkOK:
		fmt.Fprintf(w, "%s %s\n", okMark, text)
	case MarkWarn:
		fmt.Fprintf(w, "%s %s\n", warnMark, text)
	case MarkFail:
		fmt.Fprintf(w, "%s %s\n", failMark, text)
	default:
		fmt.Fprintln(w, text)
	}
}

// Mark selects a status prefix
type Mark int

const (
	// MarkNone prints no prefix
	MarkNone Mark = iota
	// MarkOK prints a green check
	MarkOK
	// MarkWarn prints a yellow warning sign
	MarkWarn
	// MarkFail prints a red cross
	MarkFail
)
