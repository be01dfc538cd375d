package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"quizsetup/internal/configdir"
)

const (
	projectConfigFile = "quizsetup.yaml"
	userConfigFile    = "config.yaml"
)

// Load loads and merges configuration for a project directory
// Priority: defaults < user config (~/.quizsetup) < project quizsetup.yaml
func Load(projectDir string) (Config, error) {
	cfg := DefaultConfig()

	userPath := filepath.Join(configdir.UserConfigDir(), userConfigFile)
	if err := mergeConfigFile(&cfg, userPath); err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("failed to load user config: %w", err)
		}
		// User config not existing is OK, continue with defaults
	}

	projectPath := filepath.Join(projectDir, projectConfigFile)
	if err := mergeConfigFile(&cfg, projectPath); err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("failed to load project config: %w", err)
		}
		// Project config not existing is OK
	}

	if validationErrors := cfg.Validate(); len(validationErrors) > 0 {
		return cfg, fmt.Errorf("config.validation.error: %v", formatValidationErrors(validationErrors))
	}

	return cfg, nil
}

// LoadFrom loads configuration from a specific file path
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()
	if err := mergeConfigFile(&cfg, path); err != nil {
		return cfg, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	if validationErrors := cfg.Validate(); len(validationErrors) > 0 {
		return cfg, fmt.Errorf("config.validation.error: %v", formatValidationErrors(validationErrors))
	}

	return cfg, nil
}

// mergeConfigFile reads a YAML file and merges it into the existing config
func mergeConfigFile(cfg *Config, path string) error {
	data, err := os.ReadFile(filepath.Clean(path)) // #nosec G304 -- path is constructed from trusted sources
	if err != nil {
		return err
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	mergeConfig(cfg, &overlay)

	return nil
}

// mergeConfig merges non-zero values from src into dst
func mergeConfig(dst, src *Config) {
	if src.Venv.Dir != "" {
		dst.Venv.Dir = src.Venv.Dir
	}
	if src.Venv.Requirements != "" {
		dst.Venv.Requirements = src.Venv.Requirements
	}

	if src.Secrets.File != "" {
		dst.Secrets.File = src.Secrets.File
	}
	if src.Secrets.ExampleFile != "" {
		dst.Secrets.ExampleFile = src.Secrets.ExampleFile
	}
	if src.Secrets.Exclusions != "" {
		dst.Secrets.Exclusions = src.Secrets.Exclusions
	}
	if src.Secrets.APIKeyName != "" {
		dst.Secrets.APIKeyName = src.Secrets.APIKeyName
	}
	if src.Secrets.ModelKeyName != "" {
		dst.Secrets.ModelKeyName = src.Secrets.ModelKeyName
	}
	if src.Secrets.DefaultModel != "" {
		dst.Secrets.DefaultModel = src.Secrets.DefaultModel
	}

	if len(src.Packages) > 0 {
		dst.Packages = src.Packages
	}

	if src.Backup.Source != "" {
		dst.Backup.Source = src.Backup.Source
	}
	if src.Backup.Suffix != "" {
		dst.Backup.Suffix = src.Backup.Suffix
	}

	if len(src.Integration.Files) > 0 {
		dst.Integration.Files = src.Integration.Files
	}

	if src.SmokeTest != "" {
		dst.SmokeTest = src.SmokeTest
	}

	if src.Logging.Level != "" {
		dst.Logging.Level = src.Logging.Level
	}
	if src.Logging.Format != "" {
		dst.Logging.Format = src.Logging.Format
	}
}

// formatValidationErrors formats validation errors for display
func formatValidationErrors(errors []ValidationError) string {
	if len(errors) == 0 {
		return ""
	}
	if len(errors) == 1 {
		return errors[0].Error()
	}
	result := fmt.Sprintf("%d validation errors:\n", len(errors))
	for _, err := range errors {
		result += "  - " + err.Error() + "\n"
	}
	return result
}

// ProjectConfigPath returns the path to the project configuration file
func ProjectConfigPath(projectDir string) string {
	return filepath.Join(projectDir, projectConfigFile)
}

// UserConfigPath returns the path to the user configuration file
func UserConfigPath() string {
	return filepath.Join(configdir.UserConfigDir(), userConfigFile)
}
