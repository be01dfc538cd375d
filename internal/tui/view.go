package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"quizsetup/internal/setup"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

// View renders the current screen
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Quiz App Setup"))
	b.WriteString("\n\n")

	switch m.screen {
	case ScreenWelcome:
		b.WriteString("This wizard prepares the quiz application for local development:\n")
		b.WriteString("a Python virtual environment, dependencies, the secrets file and\n")
		b.WriteString("a backup of the AI service module.\n\n")
		b.WriteString(dimStyle.Render("enter: start  q: quit"))

	case ScreenRunning:
		m.renderSteps(&b)
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("working..."))

	case ScreenReuseKey:
		m.renderSteps(&b)
		b.WriteString("\nA saved " + m.engine.APIKeyName() + " was found in the credential cache.\n")
		b.WriteString("Reuse it? " + dimStyle.Render("(y/n)"))

	case ScreenKeyQuestion:
		m.renderSteps(&b)
		b.WriteString("\nDo you have a Gemini API key? " + dimStyle.Render("(y/n)"))

	case ScreenKeyInput:
		m.renderSteps(&b)
		b.WriteString("\nPaste your " + m.engine.APIKeyName() + ":\n")
		b.WriteString(m.keyInput.View())
		b.WriteString("\n" + dimStyle.Render("enter: confirm  esc: skip"))

	case ScreenRememberKey:
		m.renderSteps(&b)
		b.WriteString("\nSave this key locally for future runs? " + dimStyle.Render("(y/n)"))

	case ScreenSmokeQuestion:
		m.renderSteps(&b)
		b.WriteString("\nRun the evaluator smoke test now? " + dimStyle.Render("(y/n)"))

	case ScreenSummary:
		m.renderSteps(&b)
		if m.keyNote != "" {
			b.WriteString("\n" + warnOrOK(m.keyNote) + "\n")
		}
		if m.smokeNote != "" {
			b.WriteString(dimStyle.Render(m.smokeNote) + "\n")
		}
		b.WriteString("\n" + titleStyle.Render("Next steps") + "\n")
		b.WriteString(m.engine.SummaryText())
		b.WriteString("\n" + dimStyle.Render("enter: finish"))

	case ScreenFailed:
		m.renderSteps(&b)
		b.WriteString("\n" + failStyle.Render("Setup failed: ") + errText(m.fatalErr) + "\n")
		b.WriteString(dimStyle.Render("enter: exit"))
	}

	b.WriteString("\n")
	return b.String()
}

func (m Model) renderSteps(b *strings.Builder) {
	for _, s := range m.steps {
		b.WriteString("  " + stepIcon(s) + " " + s.title)
		if s.done && s.result.Detail != "" {
			b.WriteString(dimStyle.Render("  " + s.result.Detail))
		}
		b.WriteString("\n")
	}
}

func stepIcon(s stepState) string {
	if !s.done {
		return dimStyle.Render("·")
	}
	switch s.result.Status {
	case setup.StatusWarned:
		return warnStyle.Render("⚠")
	case setup.StatusSkipped:
		return dimStyle.Render("-")
	default:
		return okStyle.Render("✓")
	}
}

func warnOrOK(note string) string {
	if strings.Contains(note, "No key") || strings.Contains(note, "unchanged") {
		return warnStyle.Render(note)
	}
	return okStyle.Render(note)
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
