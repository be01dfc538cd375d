package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Validate checks if the configuration is valid
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateVenv()...)
	errors = append(errors, c.validateSecrets()...)
	errors = append(errors, c.validatePackages()...)
	errors = append(errors, c.validateBackup()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateVenv() []ValidationError {
	var errors []ValidationError

	if c.Venv.Dir == "" {
		errors = append(errors, ValidationError{
			Path:    "venv.dir",
			Message: "must not be empty",
		})
	} else if filepath.IsAbs(c.Venv.Dir) {
		errors = append(errors, ValidationError{
			Path:    "venv.dir",
			Message: fmt.Sprintf("must be relative to the project directory, got '%s'", c.Venv.Dir),
		})
	}

	if c.Venv.Requirements == "" {
		errors = append(errors, ValidationError{
			Path:    "venv.requirements",
			Message: "must not be empty",
		})
	}

	return errors
}

func (c *Config) validateSecrets() []ValidationError {
	var errors []ValidationError

	if c.Secrets.File == "" {
		errors = append(errors, ValidationError{
			Path:    "secrets.file",
			Message: "must not be empty",
		})
	}

	if c.Secrets.Exclusions == "" {
		errors = append(errors, ValidationError{
			Path:    "secrets.exclusions",
			Message: "must not be empty",
		})
	}

	if !isValidKeyName(c.Secrets.APIKeyName) {
		errors = append(errors, ValidationError{
			Path:    "secrets.api_key_name",
			Message: fmt.Sprintf("must be an UPPER_SNAKE_CASE identifier, got '%s'", c.Secrets.APIKeyName),
		})
	}

	if !isValidKeyName(c.Secrets.ModelKeyName) {
		errors = append(errors, ValidationError{
			Path:    "secrets.model_key_name",
			Message: fmt.Sprintf("must be an UPPER_SNAKE_CASE identifier, got '%s'", c.Secrets.ModelKeyName),
		})
	}

	return errors
}

func (c *Config) validatePackages() []ValidationError {
	if len(c.Packages) == 0 {
		return []ValidationError{{
			Path:    "packages",
			Message: "must list at least one package",
		}}
	}

	var errors []ValidationError
	for i, pkg := range c.Packages {
		if strings.TrimSpace(pkg) == "" {
			errors = append(errors, ValidationError{
				Path:    fmt.Sprintf("packages[%d]", i),
				Message: "must not be blank",
			})
		}
	}
	return errors
}

func (c *Config) validateBackup() []ValidationError {
	if c.Backup.Source == "" {
		// Backup step is skipped entirely when no source is configured.
		return nil
	}

	if c.Backup.Suffix == "" || !strings.HasPrefix(c.Backup.Suffix, ".") {
		return []ValidationError{{
			Path:    "backup.suffix",
			Message: fmt.Sprintf("must start with '.', got '%s'", c.Backup.Suffix),
		}}
	}

	return nil
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError
	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		errors = append(errors, ValidationError{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got '%s'", validLevels, c.Logging.Level),
		})
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, c.Logging.Format) {
		errors = append(errors, ValidationError{
			Path:    "logging.format",
			Message: fmt.Sprintf("must be one of %v, got '%s'", validFormats, c.Logging.Format),
		})
	}

	return errors
}

// contains checks if a string is in a slice
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// isValidKeyName checks for an UPPER_SNAKE_CASE environment variable name
func isValidKeyName(name string) bool {
	if name == "" {
		return false
	}
	for i, c := range name {
		switch {
		case c >= 'A' && c <= 'Z':
		case c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
