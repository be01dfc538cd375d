// Package setup runs the bootstrap flow for the quiz application's AI
// evaluation environment.
//
// The flow is strictly sequential and fail-fast: interpreter, pip, venv and
// install failures abort the whole run, while missing optional files and
// declined prompts only warn. That split mirrors what operators expect from
// the original bootstrap procedure and is deliberate.
package setup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"quizsetup/internal/backup"
	"quizsetup/internal/checks"
	"quizsetup/internal/config"
	"quizsetup/internal/envfile"
	"quizsetup/internal/fsutil"
	"quizsetup/internal/gitignore"
	"quizsetup/internal/keystore"
	"quizsetup/internal/logging"
	"quizsetup/internal/python"
	"quizsetup/internal/venv"
)

// Status describes how a step ended
type Status string

const (
	// StatusOK means the step did its work
	StatusOK Status = "ok"
	// StatusCreated means the step created a new artifact
	StatusCreated Status = "created"
	// StatusExists means the artifact was already in place and left untouched
	StatusExists Status = "exists"
	// StatusSkipped means the step had nothing to do or the operator declined
	StatusSkipped Status = "skipped"
	// StatusWarned means the step finished with a non-fatal warning
	StatusWarned Status = "warned"
)

// StepResult reports the outcome of one bootstrap step
type StepResult struct {
	Name   string
	Status Status
	Detail string
}

// PreflightReport carries the detected toolchain versions
type PreflightReport struct {
	Interpreter   string
	PythonVersion string
	PipVersion    string
}

// Engine runs the bootstrap steps against one project directory
type Engine struct {
	cfg        config.Config
	projectDir string

	system      python.Runtime
	env         python.Runtime
	provisioner *venv.Provisioner

	store    *keystore.Store
	prompter Prompter
	logger   *logging.Logger

	out    io.Writer
	errOut io.Writer
	stdin  io.Reader
}

// New creates an engine. out receives status lines, stdin feeds the smoke
// test, prompter answers the interactive questions. store may be nil to
// disable the credential cache.
func New(cfg config.Config, projectDir string, system python.Runtime, store *keystore.Store,
	prompter Prompter, out io.Writer, stdin io.Reader, logger *logging.Logger) *Engine {
	return &Engine{
		cfg:         cfg,
		projectDir:  projectDir,
		system:      system,
		provisioner: venv.NewProvisioner(projectDir, cfg.Venv.Dir, logger),
		store:       store,
		prompter:    prompter,
		logger:      logger,
		out:         out,
		errOut:      os.Stderr,
		stdin:       stdin,
	}
}

// Config returns the configuration the engine runs with
func (e *Engine) Config() config.Config {
	return e.cfg
}

// ProjectDir returns the project directory the engine operates on
func (e *Engine) ProjectDir() string {
	return e.projectDir
}

// Run executes the full bootstrap flow
func (e *Engine) Run() error {
	e.header("Quiz AI evaluation environment setup")
	fmt.Fprintln(e.out)

	if _, err := e.Preflight(); err != nil {
		return err
	}

	fatalSteps := []func() (StepResult, error){
		e.ProvisionEnvironment,
		e.InstallDependencies,
		e.ScaffoldSecrets,
		e.EnsureExcluded,
		e.BackupServiceFile,
	}
	for _, step := range fatalSteps {
		if _, err := step(); err != nil {
			return err
		}
	}

	// Advisory from here on: warnings never abort the flow.
	e.CheckIntegration()

	if _, err := e.CollectAPIKey(); err != nil {
		return err
	}
	e.ValidateModel()

	if _, err := e.RunSmokeTest(); err != nil {
		return err
	}

	fmt.Fprintln(e.out)
	e.PrintSummary()
	return nil
}

// Preflight verifies the interpreter and pip are usable. A failure here is
// fatal and happens before any filesystem mutation.
func (e *Engine) Preflight() (*PreflightReport, error) {
	pythonVersion, err := e.system.Version()
	if err != nil {
		e.logger.Error("preflight.python.missing", "Python interpreter unusable", map[string]interface{}{
			"interpreter": e.system.Interpreter(),
			"error":       err.Error(),
		})
		return nil, fmt.Errorf("python interpreter check failed: %w", err)
	}
	e.ok("Found %s (%s)", pythonVersion, e.system.Interpreter())

	pipVersion, err := e.system.PipVersion()
	if err != nil {
		e.logger.Error("preflight.pip.missing", "pip unusable", map[string]interface{}{
			"interpreter": e.system.Interpreter(),
			"error":       err.Error(),
		})
		return nil, fmt.Errorf("pip check failed: %w", err)
	}
	e.ok("Found %s", pipVersion)

	e.logger.Info("preflight.ok", "Toolchain detected", map[string]interface{}{
		"python": pythonVersion,
		"pip":    pipVersion,
	})

	return &PreflightReport{
		Interpreter:   e.system.Interpreter(),
		PythonVersion: pythonVersion,
		PipVersion:    pipVersion,
	}, nil
}

// ProvisionEnvironment creates or silently reuses the virtual environment
// and binds the engine to its interpreter for everything that follows.
func (e *Engine) ProvisionEnvironment() (StepResult, error) {
	result := StepResult{Name: "environment"}

	if e.provisioner.Exists() {
		result.Status = StatusExists
		result.Detail = e.provisioner.Path()
		e.ok("Virtual environment already exists at %s", e.cfg.Venv.Dir)
	} else {
		if err := e.provisioner.Create(e.system); err != nil {
			return result, err
		}
		result.Status = StatusCreated
		result.Detail = e.provisioner.Path()
		e.ok("Created virtual environment at %s", e.cfg.Venv.Dir)
	}

	env, err := e.provisioner.Runtime()
	if err != nil {
		return result, err
	}
	e.env = env
	return result, nil
}

// InstallDependencies installs the fixed packages plus the requirements
// manifest when one is present. Any failure aborts the run.
func (e *Engine) InstallDependencies() (StepResult, error) {
	result := StepResult{Name: "dependencies"}

	env, err := e.environment()
	if err != nil {
		return result, err
	}

	if err := env.Install(e.cfg.Packages...); err != nil {
		e.logger.Error("deps.install.failed", "Package installation failed", map[string]interface{}{
			"packages": e.cfg.Packages,
			"error":    err.Error(),
		})
		return result, err
	}
	e.ok("Installed %d required packages", len(e.cfg.Packages))

	requirementsPath := filepath.Join(e.projectDir, e.cfg.Venv.Requirements)
	if fsutil.FileExists(requirementsPath) {
		if err := env.InstallRequirements(requirementsPath); err != nil {
			e.logger.Error("deps.requirements.failed", "Requirements installation failed", map[string]interface{}{
				"path":  requirementsPath,
				"error": err.Error(),
			})
			return result, err
		}
		e.ok("Installed packages from %s", e.cfg.Venv.Requirements)
	}

	result.Status = StatusOK
	return result, nil
}

// ScaffoldSecrets creates the secrets file when missing: the example file is
// copied verbatim when present, otherwise the fixed placeholder template is
// written. An existing secrets file is never touched.
func (e *Engine) ScaffoldSecrets() (StepResult, error) {
	result := StepResult{Name: "secrets"}
	secretsPath := e.secretsPath()

	if fsutil.FileExists(secretsPath) {
		result.Status = StatusExists
		e.ok("Secrets file %s already exists, leaving it untouched", e.cfg.Secrets.File)
		return result, nil
	}

	examplePath := filepath.Join(e.projectDir, e.cfg.Secrets.ExampleFile)
	if fsutil.FileExists(examplePath) {
		if err := fsutil.CopyFile(examplePath, secretsPath, e.logger); err != nil {
			return result, fmt.Errorf("failed to copy example secrets: %w", err)
		}
		result.Status = StatusCreated
		result.Detail = "from " + e.cfg.Secrets.ExampleFile
		e.ok("Created %s from %s", e.cfg.Secrets.File, e.cfg.Secrets.ExampleFile)
		e.logger.Info("secrets.created", "Secrets file copied from example", map[string]interface{}{
			"path": secretsPath,
		})
		return result, nil
	}

	template := envfile.Template(e.cfg.Secrets.APIKeyName, e.cfg.Secrets.ModelKeyName, e.cfg.Secrets.DefaultModel)
	if err := fsutil.AtomicWriteFile(secretsPath, template, fsutil.DefaultFilePermissions, e.logger); err != nil {
		return result, fmt.Errorf("failed to write secrets template: %w", err)
	}
	result.Status = StatusCreated
	result.Detail = "from template"
	e.ok("Created %s with placeholder values", e.cfg.Secrets.File)
	e.logger.Info("secrets.created", "Secrets file written from template", map[string]interface{}{
		"path": secretsPath,
	})
	return result, nil
}

// EnsureExcluded keeps the secrets file out of version control
func (e *Engine) EnsureExcluded() (StepResult, error) {
	result := StepResult{Name: "exclusions"}

	exclusionsPath := filepath.Join(e.projectDir, e.cfg.Secrets.Exclusions)
	added, err := gitignore.Ensure(exclusionsPath, e.cfg.Secrets.File, e.logger)
	if err != nil {
		return result, err
	}

	if added {
		result.Status = StatusCreated
		e.ok("Added %s to %s", e.cfg.Secrets.File, e.cfg.Secrets.Exclusions)
	} else {
		result.Status = StatusExists
		e.ok("%s is already excluded from version control", e.cfg.Secrets.File)
	}
	return result, nil
}

// BackupServiceFile snapshots the AI service module at most once
func (e *Engine) BackupServiceFile() (StepResult, error) {
	result := StepResult{Name: "backup"}

	if e.cfg.Backup.Source == "" {
		result.Status = StatusSkipped
		return result, nil
	}

	status, backupPath, err := backup.Snapshot(e.projectDir, e.cfg.Backup.Source, e.cfg.Backup.Suffix, e.logger)
	if err != nil {
		return result, fmt.Errorf("backup failed: %w", err)
	}

	switch status {
	case backup.StatusCreated:
		result.Status = StatusCreated
		result.Detail = backupPath
		e.ok("Backed up %s to %s", e.cfg.Backup.Source, filepath.Base(backupPath))
	case backup.StatusExists:
		result.Status = StatusExists
		e.ok("Backup of %s already exists", e.cfg.Backup.Source)
	case backup.StatusSourceMissing:
		result.Status = StatusSkipped
	}
	return result, nil
}

// CheckIntegration verifies the expected integration files. Missing files
// warn but never gate the flow.
func (e *Engine) CheckIntegration() StepResult {
	result := StepResult{Name: "integration"}

	report := checks.Verify(e.projectDir, e.cfg.Integration.Files)
	if report.OK() {
		result.Status = StatusOK
		e.ok("All integration files present")
		return result
	}

	result.Status = StatusWarned
	for _, name := range report.Missing {
		e.warn("Integration file missing: %s", name)
	}
	e.info("The AI evaluation flow needs these files; add them before going live.")
	e.logger.Warn("integration.missing", "Integration files missing", map[string]interface{}{
		"files": report.Missing,
	})
	return result
}

// CollectAPIKey interactively gathers the Gemini API key and writes it into
// the secrets file, replacing only the key's own line. Declining is fine.
func (e *Engine) CollectAPIKey() (StepResult, error) {
	result := StepResult{Name: "api-key"}
	keyName := e.cfg.Secrets.APIKeyName

	if e.store != nil {
		if saved, ok, err := e.store.Recall(keyName); err == nil && ok && saved != "" {
			reuse, err := e.prompter.Confirm(fmt.Sprintf("A previously saved %s was found. Use it?", keyName))
			if err != nil {
				return result, err
			}
			if reuse {
				if err := e.ApplyAPIKey(saved); err != nil {
					return result, err
				}
				result.Status = StatusOK
				result.Detail = "reused saved key"
				e.ok("%s updated from the saved credential", e.cfg.Secrets.File)
				return result, nil
			}
		}
	}

	hasKey, err := e.prompter.Confirm(fmt.Sprintf("Do you already have a %s?", keyName))
	if err != nil {
		return result, err
	}
	if !hasKey {
		result.Status = StatusWarned
		e.warn("No key entered. Edit %s and set %s before using AI evaluation.", e.cfg.Secrets.File, keyName)
		return result, nil
	}

	key, err := e.prompter.Secret(fmt.Sprintf("Enter your %s: ", keyName))
	if err != nil {
		return result, err
	}
	if key == "" {
		result.Status = StatusWarned
		e.warn("Empty key, leaving %s unchanged. Edit it manually later.", e.cfg.Secrets.File)
		return result, nil
	}

	if err := e.ApplyAPIKey(key); err != nil {
		return result, err
	}
	result.Status = StatusOK
	e.ok("%s written to %s", keyName, e.cfg.Secrets.File)

	if e.store != nil {
		remember, err := e.prompter.Confirm("Remember this key for future setup runs?")
		if err != nil {
			return result, err
		}
		if remember {
			if err := e.store.Remember(keyName, key); err != nil {
				// Cache trouble shouldn't undo a successful key write.
				e.warn("Could not save the key for later runs: %v", err)
			} else {
				e.ok("Key saved to the local credential cache")
			}
		}
	}

	return result, nil
}

// ApplyAPIKey rewrites the API key line of the secrets file in place.
// Every other line is preserved byte for byte.
func (e *Engine) ApplyAPIKey(key string) error {
	secretsPath := e.secretsPath()

	f, err := envfile.Load(secretsPath)
	if err != nil {
		return err
	}

	f.Set(e.cfg.Secrets.APIKeyName, key)
	if err := f.Save(secretsPath, e.logger); err != nil {
		return fmt.Errorf("failed to update secrets file: %w", err)
	}

	e.logger.Info("secrets.key_updated", "API key written", map[string]interface{}{
		"key": e.cfg.Secrets.APIKeyName,
	})
	return nil
}

// ValidateModel warns when the configured model is not one the evaluation
// service supports. Advisory only.
func (e *Engine) ValidateModel() StepResult {
	result := StepResult{Name: "model"}

	f, err := envfile.Load(e.secretsPath())
	if err != nil {
		result.Status = StatusSkipped
		return result
	}

	model, ok := f.Get(e.cfg.Secrets.ModelKeyName)
	if !ok || model == "" {
		result.Status = StatusWarned
		e.warn("%s is not set in %s; the service falls back to %s",
			e.cfg.Secrets.ModelKeyName, e.cfg.Secrets.File, e.cfg.Secrets.DefaultModel)
		return result
	}

	for _, supported := range config.SupportedModels {
		if model == supported {
			result.Status = StatusOK
			return result
		}
	}

	result.Status = StatusWarned
	result.Detail = model
	e.warn("Model %q is not supported by the evaluation service (supported: %v)", model, config.SupportedModels)
	return result
}

// RunSmokeTest optionally runs the smoke-test script through the venv
// interpreter, output passed straight through. The script's exit status is
// reported but never interpreted.
func (e *Engine) RunSmokeTest() (StepResult, error) {
	result := StepResult{Name: "smoke-test"}

	scriptPath := filepath.Join(e.projectDir, e.cfg.SmokeTest)
	if !fsutil.FileExists(scriptPath) {
		result.Status = StatusWarned
		e.warn("Smoke test %s not found, skipping", e.cfg.SmokeTest)
		return result, nil
	}

	run, err := e.prompter.Confirm(fmt.Sprintf("Run the smoke test (%s) now?", e.cfg.SmokeTest))
	if err != nil {
		return result, err
	}
	if !run {
		result.Status = StatusSkipped
		e.info("Run it later with: %s", e.SmokeTestCommand())
		return result, nil
	}

	env, err := e.environment()
	if err != nil {
		return result, err
	}

	fmt.Fprintln(e.out)
	if err := env.RunScript(e.projectDir, e.cfg.SmokeTest, e.stdin, e.out, e.errOut); err != nil {
		result.Status = StatusWarned
		e.warn("Smoke test exited with an error: %v", err)
		return result, nil
	}

	result.Status = StatusOK
	e.ok("Smoke test finished")
	return result, nil
}

// SmokeTestCommand returns the manual command line for the smoke test
func (e *Engine) SmokeTestCommand() string {
	return fmt.Sprintf("%s %s", venv.InterpreterPath(e.cfg.Venv.Dir), e.cfg.SmokeTest)
}

// PrintSummary prints the fixed next-steps guide. It runs unconditionally,
// whatever the earlier steps reported.
func (e *Engine) PrintSummary() {
	e.header("Setup complete. Next steps:")
	fmt.Fprint(e.out, e.SummaryText())
}

// environment returns the venv-bound runtime, requiring provisioning first
func (e *Engine) environment() (python.Runtime, error) {
	if e.env == nil {
		return nil, fmt.Errorf("environment not provisioned yet")
	}
	return e.env, nil
}

func (e *Engine) secretsPath() string {
	return filepath.Join(e.projectDir, e.cfg.Secrets.File)
}
