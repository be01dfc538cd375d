package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"quizsetup/internal/config"
	"quizsetup/internal/configdir"
	"quizsetup/internal/fsutil"
	"quizsetup/internal/keystore"
	"quizsetup/internal/logging"
	"quizsetup/internal/python"
	"quizsetup/internal/setup"
	"quizsetup/internal/tui"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) <= 1 {
		runWizard()
		return
	}

	command := strings.ToLower(os.Args[1])
	if handler, ok := commandHandlers()[command]; ok {
		handler()
		return
	}

	fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
	printUsage()
	os.Exit(1)
}

func commandHandlers() map[string]func() {
	return map[string]func(){
		"run":       runSetup,
		"preflight": runPreflight,
		"check":     runCheck,
		"backup":    runBackup,
		"config":    runConfig,
		"version":   runVersion,
		"help":      printUsage,
		"--help":    printUsage,
		"-h":        printUsage,
	}
}

func runVersion() {
	fmt.Printf("quizsetup version %s\n", version)
}

// runWizard starts the interactive TUI mode
func runWizard() {
	cfg, projectDir, logger := loadEnvironment()

	startTime := time.Now()
	logger.Info("app.started", "Application started", map[string]interface{}{
		"version": version,
		"mode":    "wizard",
		"ts":      startTime.UTC().Format(time.RFC3339),
	})

	system, err := python.Detect()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Step output goes nowhere in wizard mode; the screens render progress.
	engine := setup.New(cfg, projectDir, system, openStore(logger),
		setup.NewTerminalPrompter(os.Stdin, os.Stdout), io.Discard, os.Stdin, logger)

	p := tea.NewProgram(tui.NewModel(engine, logger))
	finalModel, err := p.Run()
	exitReason := "normal"

	if err != nil {
		exitReason = "error"
		logger.Error("app.error", "Application error", map[string]interface{}{
			"error": err.Error(),
		})
		fmt.Fprintf(os.Stderr, "Error running wizard: %v\n", err)
		os.Exit(1)
	}

	logger.Info("app.exited", "Application exited", map[string]interface{}{
		"ts":     time.Now().UTC().Format(time.RFC3339),
		"reason": exitReason,
	})

	if m, ok := finalModel.(tui.Model); ok && m.Failed() {
		os.Exit(1)
	}
}

// runSetup runs the full bootstrap flow on plain stdio
func runSetup() {
	cfg, projectDir, logger := loadEnvironment()

	system, err := python.Detect()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	engine := setup.New(cfg, projectDir, system, openStore(logger),
		setup.NewTerminalPrompter(os.Stdin, os.Stdout), os.Stdout, os.Stdin, logger)

	if err := engine.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "\nSetup failed: %v\n", err)
		os.Exit(1)
	}
}

// runPreflight reports the detected toolchain without touching anything
func runPreflight() {
	cfg, projectDir, logger := loadEnvironment()

	system, err := python.Detect()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	engine := setup.New(cfg, projectDir, system, nil, nil, os.Stdout, os.Stdin, logger)
	if _, err := engine.Preflight(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runCheck verifies the AI integration files without mutating the project
func runCheck() {
	cfg, projectDir, logger := loadEnvironment()

	engine := setup.New(cfg, projectDir, nil, nil, nil, os.Stdout, os.Stdin, logger)
	result := engine.CheckIntegration()
	if result.Status == setup.StatusWarned {
		os.Exit(1)
	}
}

// runBackup snapshots the AI service module on its own
func runBackup() {
	cfg, projectDir, logger := loadEnvironment()

	engine := setup.New(cfg, projectDir, nil, nil, nil, os.Stdout, os.Stdin, logger)
	result, err := engine.BackupServiceFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if result.Status == setup.StatusSkipped {
		setup.Fprintln(os.Stdout, setup.MarkWarn,
			fmt.Sprintf("Nothing to back up (%s not present)", cfg.Backup.Source))
	}
}

// runConfig performs configuration file validation
func runConfig() {
	logger := logging.NewLogger(logging.LevelInfo)

	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "Usage: quizsetup config <subcommand>\n")
		fmt.Fprintf(os.Stderr, "Subcommands:\n")
		fmt.Fprintf(os.Stderr, "  test [path]  Test configuration file for validity\n")
		os.Exit(1)
	}

	subcommand := strings.ToLower(os.Args[2])

	switch subcommand {
	case "test":
		runConfigTest(logger)
	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", subcommand)
		fmt.Fprintf(os.Stderr, "Valid subcommands: test\n")
		os.Exit(1)
	}
}

// runConfigTest validates configuration file(s)
func runConfigTest(logger *logging.Logger) {
	var cfg config.Config
	var configErr error

	if len(os.Args) > 3 {
		path := os.Args[3]
		fmt.Printf("Testing configuration file: %s\n", path)
		cfg, configErr = config.LoadFrom(path)
	} else {
		projectDir, err := fsutil.ResolveProjectDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Testing configuration (user + project merge):")
		fmt.Printf("  User config:    %s\n", config.UserConfigPath())
		fmt.Printf("  Project config: %s\n", config.ProjectConfigPath(projectDir))
		fmt.Println()

		cfg, configErr = config.Load(projectDir)
	}

	if configErr != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration validation FAILED:\n")
		fmt.Fprintf(os.Stderr, "   %v\n", configErr)

		logger.Error("config.validation.error", "Configuration validation failed", map[string]interface{}{
			"error": configErr.Error(),
		})
		os.Exit(1)
	}

	fmt.Println("✓ Configuration is VALID")
	fmt.Println()
	fmt.Println("Configuration Summary:")
	fmt.Printf("  Virtual Environment:  %s\n", cfg.Venv.Dir)
	fmt.Printf("  Requirements File:    %s\n", cfg.Venv.Requirements)
	fmt.Printf("  Secrets File:         %s\n", cfg.Secrets.File)
	fmt.Printf("  API Key Name:         %s\n", cfg.Secrets.APIKeyName)
	fmt.Printf("  Default Model:        %s\n", cfg.Secrets.DefaultModel)
	fmt.Printf("  Packages:             %s\n", strings.Join(cfg.Packages, ", "))
	fmt.Printf("  Backup Source:        %s\n", cfg.Backup.Source)
	fmt.Printf("  Smoke Test:           %s\n", cfg.SmokeTest)
	fmt.Printf("  Log Level:            %s\n", cfg.Logging.Level)
	fmt.Printf("  Log Format:           %s\n", cfg.Logging.Format)

	logger.Info("config.validation.ok", "Configuration validation passed", map[string]interface{}{
		"venv":    cfg.Venv.Dir,
		"secrets": cfg.Secrets.File,
	})
}

// loadEnvironment resolves the project directory, its merged configuration
// and a logger at the configured level. Any failure here is fatal.
func loadEnvironment() (config.Config, string, *logging.Logger) {
	projectDir, err := fsutil.ResolveProjectDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(projectDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	return cfg, projectDir, logging.NewLogger(logging.Level(cfg.Logging.Level))
}

// openStore opens the credential cache; cache trouble never blocks setup
func openStore(logger *logging.Logger) *keystore.Store {
	store, err := keystore.Open(configdir.UserConfigDir(), logger)
	if err != nil {
		logger.Warn("keystore.unavailable", "Credential cache unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	return store
}

// printUsage displays usage information
func printUsage() {
	fmt.Printf(`quizsetup - Quiz App AI Environment Setup (version %s)

Usage:
  quizsetup                 Start the interactive setup wizard (default)
  quizsetup run             Run the full setup flow on plain stdio
  quizsetup preflight       Check the Python interpreter and pip versions
  quizsetup check           Verify the AI integration files are present
  quizsetup backup          Back up the AI service module (at most once)
  quizsetup config test [path]  Test configuration file for validity
  quizsetup version         Print version information
  quizsetup help            Show this help message

Environment:
  QUIZSETUP_PROJECT_DIR     Project directory (default: current directory)
  QUIZSETUP_CONFIG_DIR      User config directory (default: ~/.quizsetup)
  QUIZSETUP_PYTHON          Python executable to use instead of probing
`, version)
}
