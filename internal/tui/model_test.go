package tui

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"quizsetup/internal/config"
	"quizsetup/internal/envfile"
	"quizsetup/internal/logging"
	"quizsetup/internal/setup"
)

func newTestModel(t *testing.T) (Model, string) {
	t.Helper()
	dir := t.TempDir()
	logger := logging.NewWriterLogger(logging.LevelError, io.Discard)
	engine := setup.New(config.DefaultConfig(), dir, nil, nil, nil, io.Discard, strings.NewReader(""), logger)
	return NewModel(engine, logger), dir
}

func keyMsg(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	if s == "esc" {
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func asModel(t *testing.T, m tea.Model) Model {
	t.Helper()
	model, ok := m.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, want Model", m)
	}
	return model
}

func TestNewModel_StartsOnWelcome(t *testing.T) {
	m, _ := newTestModel(t)

	if m.screen != ScreenWelcome {
		t.Errorf("initial screen = %q, want welcome", m.screen)
	}
	if len(m.steps) != 7 {
		t.Errorf("steps = %d, want 7", len(m.steps))
	}
}

func TestUpdate_EnterStartsTheSteps(t *testing.T) {
	m, _ := newTestModel(t)

	next, cmd := m.Update(keyMsg("enter"))
	updated := asModel(t, next)

	if updated.screen != ScreenRunning {
		t.Errorf("screen = %q, want running", updated.screen)
	}
	if cmd == nil {
		t.Error("entering the running screen should schedule the first step")
	}
}

func TestUpdate_CtrlCQuitsFromAnyScreen(t *testing.T) {
	m, _ := newTestModel(t)
	m.screen = ScreenRunning

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c command should produce tea.QuitMsg")
	}
	if !asModel(t, next).quitting {
		t.Error("model should be marked quitting")
	}
}

func TestStepDone_ErrorShowsFailureScreen(t *testing.T) {
	m, _ := newTestModel(t)
	m.screen = ScreenRunning

	next, _ := m.Update(stepDoneMsg{index: 0, err: errFake})
	updated := asModel(t, next)

	if updated.screen != ScreenFailed {
		t.Errorf("screen = %q, want failed", updated.screen)
	}
	if !updated.Failed() {
		t.Error("Failed() = false after a fatal step error")
	}
}

func TestStepDone_AdvancesThroughSteps(t *testing.T) {
	m, _ := newTestModel(t)
	m.screen = ScreenRunning

	next, cmd := m.Update(stepDoneMsg{index: 0, result: setup.StepResult{Status: setup.StatusOK}})
	updated := asModel(t, next)

	if !updated.steps[0].done {
		t.Error("finished step not marked done")
	}
	if cmd == nil {
		t.Error("a finished step should schedule the next one")
	}
	if updated.screen != ScreenRunning {
		t.Errorf("screen = %q, want running while steps remain", updated.screen)
	}
}

func TestStepDone_LastStepMovesToKeyQuestion(t *testing.T) {
	m, _ := newTestModel(t)
	m.screen = ScreenRunning

	// No credential cache attached, so there is no key to reuse.
	next, _ := m.Update(stepDoneMsg{index: len(m.steps) - 1, result: setup.StepResult{Status: setup.StatusOK}})
	updated := asModel(t, next)

	if updated.screen != ScreenKeyQuestion {
		t.Errorf("screen = %q, want key-question", updated.screen)
	}
}

func TestKeyQuestion_DeclineEndsOnSummary(t *testing.T) {
	m, _ := newTestModel(t)
	m.screen = ScreenKeyQuestion

	// The smoke test script does not exist, so declining the key question
	// goes straight to the summary.
	next, _ := m.Update(keyMsg("n"))
	updated := asModel(t, next)

	if updated.screen != ScreenSummary {
		t.Errorf("screen = %q, want summary", updated.screen)
	}
	if !strings.Contains(updated.keyNote, "GEMINI_API_KEY") {
		t.Errorf("key note should tell the operator what to edit: %q", updated.keyNote)
	}
}

func TestKeyQuestion_AcceptOpensInput(t *testing.T) {
	m, _ := newTestModel(t)
	m.screen = ScreenKeyQuestion

	next, cmd := m.Update(keyMsg("y"))
	updated := asModel(t, next)

	if updated.screen != ScreenKeyInput {
		t.Errorf("screen = %q, want key-input", updated.screen)
	}
	if cmd == nil {
		t.Error("opening the input should start the cursor blink")
	}
}

func TestKeyInput_EnterAppliesKeyToSecretsFile(t *testing.T) {
	m, dir := newTestModel(t)
	secretsPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(secretsPath, []byte("GEMINI_API_KEY=placeholder\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	m.screen = ScreenKeyInput
	m.keyInput.SetValue("AIzaWizardKey")

	next, _ := m.Update(keyMsg("enter"))
	updated := asModel(t, next)

	// No credential cache, no smoke script: straight to summary.
	if updated.screen != ScreenSummary {
		t.Errorf("screen = %q, want summary", updated.screen)
	}

	f, err := envfile.Load(secretsPath)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := f.Get("GEMINI_API_KEY"); v != "AIzaWizardKey" {
		t.Errorf("GEMINI_API_KEY = %q, want the entered key", v)
	}
}

func TestKeyInput_EmptySubmitSkips(t *testing.T) {
	m, _ := newTestModel(t)
	m.screen = ScreenKeyInput

	next, _ := m.Update(keyMsg("enter"))
	updated := asModel(t, next)

	if updated.screen != ScreenSummary {
		t.Errorf("screen = %q, want summary", updated.screen)
	}
	if updated.keyNote == "" {
		t.Error("an empty submission should leave a note for the summary")
	}
}

func TestKeyInput_EscCancels(t *testing.T) {
	m, _ := newTestModel(t)
	m.screen = ScreenKeyInput

	next, _ := m.Update(keyMsg("esc"))
	updated := asModel(t, next)

	if updated.screen != ScreenSummary {
		t.Errorf("screen = %q, want summary", updated.screen)
	}
}

func TestSmokeQuestion_DeclineRecordsManualCommand(t *testing.T) {
	m, dir := newTestModel(t)
	if err := os.WriteFile(filepath.Join(dir, "test_evaluator.py"), []byte("print('ok')\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	m.screen = ScreenSmokeQuestion

	next, _ := m.Update(keyMsg("n"))
	updated := asModel(t, next)

	if updated.screen != ScreenSummary {
		t.Errorf("screen = %q, want summary", updated.screen)
	}
	if !strings.Contains(updated.smokeNote, "test_evaluator.py") {
		t.Errorf("smoke note should show the manual command: %q", updated.smokeNote)
	}
}

func TestSmokeDone_ReportsResult(t *testing.T) {
	m, _ := newTestModel(t)
	m.screen = ScreenSmokeQuestion

	next, _ := m.Update(smokeDoneMsg{err: nil})
	updated := asModel(t, next)

	if updated.screen != ScreenSummary {
		t.Errorf("screen = %q, want summary", updated.screen)
	}
	if updated.smokeNote != "Smoke test finished." {
		t.Errorf("smoke note = %q", updated.smokeNote)
	}
}

func TestSummary_EnterQuits(t *testing.T) {
	m, _ := newTestModel(t)
	m.screen = ScreenSummary

	_, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("enter on the summary should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("summary enter should produce tea.QuitMsg")
	}
}

func TestView_RendersEachScreen(t *testing.T) {
	screens := []Screen{
		ScreenWelcome, ScreenRunning, ScreenReuseKey, ScreenKeyQuestion,
		ScreenKeyInput, ScreenRememberKey, ScreenSmokeQuestion, ScreenSummary, ScreenFailed,
	}

	for _, screen := range screens {
		t.Run(string(screen), func(t *testing.T) {
			m, _ := newTestModel(t)
			m.screen = screen
			m.fatalErr = errFake

			view := m.View()
			if view == "" {
				t.Error("View() returned nothing")
			}
			if !strings.Contains(view, "Quiz App Setup") {
				t.Error("View() is missing the title")
			}
		})
	}
}

var errFake = &fakeError{}

type fakeError struct{}

func (*fakeError) Error() string { return "step exploded" }
