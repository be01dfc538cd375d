package config

// SupportedModels lists the Gemini models the evaluation service accepts.
var SupportedModels = []string{
	"gemini-1.5-flash",
	"gemini-1.5-pro",
	"gemini-pro",
}

// DefaultConfig returns a configuration with the quiz application's layout
func DefaultConfig() Config {
	return Config{
		Venv: VenvConfig{
			Dir:          "venv",
			Requirements: "requirements.txt",
		},
		Secrets: SecretsConfig{
			File:         ".env",
			ExampleFile:  ".env.example",
			Exclusions:   ".gitignore",
			APIKeyName:   "GEMINI_API_KEY",
			ModelKeyName: "GEMINI_MODEL",
			DefaultModel: "gemini-1.5-flash",
		},
		Packages: []string{
			"google-generativeai",
			"python-dotenv",
		},
		Backup: BackupConfig{
			Source: "ai_service.py",
			Suffix: ".backup",
		},
		Integration: Integration{
			Files: []string{
				"descriptive_evaluation.py",
				"descriptive_validator.py",
			},
		},
		SmokeTest: "test_evaluator.py",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
