// Package tui is the interactive setup wizard. It walks the operator
// through the same bootstrap steps as the plain flow, one screen at a time.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/charmbracelet/bubbles/textinput"

	"quizsetup/internal/logging"
	"quizsetup/internal/setup"
)

// Model represents the wizard state
type Model struct {
	engine *setup.Engine
	logger *logging.Logger

	screen Screen
	steps  []stepState

	keyInput   textinput.Model
	recalled   string
	enteredKey string

	keyNote   string
	smokeNote string
	fatalErr  error
	quitting  bool
}

// NewModel creates the wizard model for an engine
func NewModel(engine *setup.Engine, logger *logging.Logger) Model {
	ti := textinput.New()
	ti.Placeholder = "paste your key"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'

	return Model{
		engine:   engine,
		logger:   logger,
		screen:   ScreenWelcome,
		keyInput: ti,
		steps: []stepState{
			{title: "Check Python interpreter and pip"},
			{title: "Provision virtual environment"},
			{title: "Install dependencies"},
			{title: "Scaffold secrets file"},
			{title: "Exclude secrets from version control"},
			{title: "Back up AI service module"},
			{title: "Verify integration files"},
		},
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// runStep executes one automated step off the UI loop
func (m Model) runStep(i int) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		var res setup.StepResult
		var err error

		switch i {
		case 0:
			_, err = engine.Preflight()
			res = setup.StepResult{Name: "preflight", Status: setup.StatusOK}
		case 1:
			res, err = engine.ProvisionEnvironment()
		case 2:
			res, err = engine.InstallDependencies()
		case 3:
			res, err = engine.ScaffoldSecrets()
		case 4:
			res, err = engine.EnsureExcluded()
		case 5:
			res, err = engine.BackupServiceFile()
		case 6:
			res = engine.CheckIntegration()
		}

		return stepDoneMsg{index: i, result: res, err: err}
	}
}

// Update handles messages and advances the wizard
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepDoneMsg:
		return m.handleStepDone(msg)
	case smokeDoneMsg:
		if msg.err != nil {
			m.smokeNote = "Smoke test exited with an error: " + msg.err.Error()
		} else {
			m.smokeNote = "Smoke test finished."
		}
		m.screen = ScreenSummary
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.screen == ScreenKeyInput {
		var cmd tea.Cmd
		m.keyInput, cmd = m.keyInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleStepDone(msg stepDoneMsg) (tea.Model, tea.Cmd) {
	if msg.index < len(m.steps) {
		m.steps[msg.index].done = true
		m.steps[msg.index].result = msg.result
	}

	if msg.err != nil {
		m.fatalErr = msg.err
		m.screen = ScreenFailed
		m.logger.Error("wizard.step.failed", "Bootstrap step failed", map[string]interface{}{
			"step":  msg.index,
			"error": msg.err.Error(),
		})
		return m, nil
	}

	if next := msg.index + 1; next < len(m.steps) {
		return m, m.runStep(next)
	}

	// Automated steps done; move on to the interactive questions.
	if key, ok := m.engine.RecalledKey(); ok {
		m.recalled = key
		m.screen = ScreenReuseKey
	} else {
		m.screen = ScreenKeyQuestion
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.screen {
	case ScreenWelcome:
		switch key {
		case "enter":
			m.screen = ScreenRunning
			return m, m.runStep(0)
		case "q", "esc":
			m.quitting = true
			return m, tea.Quit
		}

	case ScreenReuseKey:
		switch key {
		case "y", "Y":
			if err := m.engine.ApplyAPIKey(m.recalled); err != nil {
				return m.fatal(err)
			}
			m.keyNote = m.engine.SecretsFileName() + " updated from the saved credential."
			return m.gotoSmoke()
		case "n", "N":
			m.screen = ScreenKeyQuestion
			return m, nil
		}

	case ScreenKeyQuestion:
		switch key {
		case "y", "Y":
			m.screen = ScreenKeyInput
			m.keyInput.Focus()
			return m, textinput.Blink
		case "n", "N":
			m.keyNote = "No key entered. Edit " + m.engine.SecretsFileName() +
				" and set " + m.engine.APIKeyName() + " before using AI evaluation."
			return m.gotoSmoke()
		}

	case ScreenKeyInput:
		switch key {
		case "enter":
			m.enteredKey = m.keyInput.Value()
			if m.enteredKey == "" {
				m.keyNote = "Empty key, secrets file left unchanged."
				return m.gotoSmoke()
			}
			if err := m.engine.ApplyAPIKey(m.enteredKey); err != nil {
				return m.fatal(err)
			}
			m.keyNote = m.engine.APIKeyName() + " written to " + m.engine.SecretsFileName() + "."
			if m.engine.CanRememberKey() {
				m.screen = ScreenRememberKey
				return m, nil
			}
			return m.gotoSmoke()
		case "esc":
			m.keyNote = "Key entry cancelled, secrets file left unchanged."
			return m.gotoSmoke()
		default:
			var cmd tea.Cmd
			m.keyInput, cmd = m.keyInput.Update(msg)
			return m, cmd
		}

	case ScreenRememberKey:
		switch key {
		case "y", "Y":
			if err := m.engine.RememberKey(m.enteredKey); err != nil {
				m.keyNote += " (could not save the key for later runs)"
			} else {
				m.keyNote += " Key saved to the local credential cache."
			}
			return m.gotoSmoke()
		case "n", "N":
			return m.gotoSmoke()
		}

	case ScreenSmokeQuestion:
		switch key {
		case "y", "Y":
			cmd, err := m.engine.SmokeTestProcess()
			if err != nil {
				return m.fatal(err)
			}
			return m, tea.ExecProcess(cmd, func(err error) tea.Msg {
				return smokeDoneMsg{err: err}
			})
		case "n", "N":
			m.smokeNote = "Run it later with: " + m.engine.SmokeTestCommand()
			m.screen = ScreenSummary
			return m, nil
		}

	case ScreenSummary, ScreenFailed:
		switch key {
		case "enter", "q", "esc":
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m Model) gotoSmoke() (tea.Model, tea.Cmd) {
	if !m.engine.SmokeTestExists() {
		m.smokeNote = "Smoke test " + m.engine.SmokeTestName() + " not found, skipped."
		m.screen = ScreenSummary
		return m, nil
	}
	m.screen = ScreenSmokeQuestion
	return m, nil
}

func (m Model) fatal(err error) (tea.Model, tea.Cmd) {
	m.fatalErr = err
	m.screen = ScreenFailed
	return m, nil
}

// Failed reports whether the wizard ended on a fatal error
func (m Model) Failed() bool {
	return m.fatalErr != nil
}
