package tui

import "quizsetup/internal/setup"

// Screen represents the wizard's screens
type Screen string

const (
	// ScreenWelcome greets the operator before anything runs
	ScreenWelcome Screen = "welcome"
	// ScreenRunning shows the automated bootstrap steps
	ScreenRunning Screen = "running"
	// ScreenReuseKey offers a previously remembered API key
	ScreenReuseKey Screen = "reuse-key"
	// ScreenKeyQuestion asks whether the operator holds an API key
	ScreenKeyQuestion Screen = "key-question"
	// ScreenKeyInput collects the API key
	ScreenKeyInput Screen = "key-input"
	// ScreenRememberKey offers to cache the entered key
	ScreenRememberKey Screen = "remember-key"
	// ScreenSmokeQuestion asks whether to run the smoke test
	ScreenSmokeQuestion Screen = "smoke-question"
	// ScreenSummary shows the next-steps guide
	ScreenSummary Screen = "summary"
	// ScreenFailed shows a fatal error
	ScreenFailed Screen = "failed"
)

// stepState tracks one automated step's progress on screen
type stepState struct {
	title  string
	done   bool
	result setup.StepResult
}

// stepDoneMsg reports a finished automated step
type stepDoneMsg struct {
	index  int
	result setup.StepResult
	err    error
}

// smokeDoneMsg reports the finished smoke-test process
type smokeDoneMsg struct {
	err error
}
