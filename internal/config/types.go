package config

// Config represents the complete quizsetup configuration
type Config struct {
	Venv        VenvConfig    `yaml:"venv"`
	Secrets     SecretsConfig `yaml:"secrets"`
	Packages    []string      `yaml:"packages"`
	Backup      BackupConfig  `yaml:"backup"`
	Integration Integration   `yaml:"integration"`
	SmokeTest   string        `yaml:"smoke_test"`
	Logging     LoggingConfig `yaml:"logging"`
}

// VenvConfig describes the isolated dependency environment
type VenvConfig struct {
	Dir          string `yaml:"dir"`
	Requirements string `yaml:"requirements"`
}

// SecretsConfig describes the secrets file and its template values
type SecretsConfig struct {
	File         string `yaml:"file"`
	ExampleFile  string `yaml:"example_file"`
	Exclusions   string `yaml:"exclusions"`
	APIKeyName   string `yaml:"api_key_name"`
	ModelKeyName string `yaml:"model_key_name"`
	DefaultModel string `yaml:"default_model"`
}

// BackupConfig describes the single-file backup step
type BackupConfig struct {
	Source string `yaml:"source"`
	Suffix string `yaml:"suffix"`
}

// Integration lists files the quiz application expects to find
type Integration struct {
	Files []string `yaml:"files"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	return e.Path + ": " + e.Message
}
