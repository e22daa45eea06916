// Package config provides configuration management for the leapcheck CLI.
package config

// Config holds all CLI configuration options.
type Config struct {
	// TargetVersion is the Go version to check against: "1.22", "go1.22",
	// "22", "auto" (read go.mod) or empty for no version gating.
	TargetVersion string      `koanf:"target_version"`
	Encoding      string      `koanf:"encoding"`
	Concurrency   int         `koanf:"concurrency"`
	Verbose       bool        `koanf:"verbose"`
	OutputFormat  string      `koanf:"output"`
	LogLevel      string      `koanf:"log_level"`
	LogFormat     string      `koanf:"log_format"`
	Include       []string    `koanf:"include"`
	Exclude       []string    `koanf:"exclude"`
	Tests         bool        `koanf:"tests"`
	// DocsBaseURL replaces the hosted rule documentation site in issue
	// links, e.g. for an internal mirror. Empty keeps the default.
	DocsBaseURL   string      `koanf:"docs_base_url"`
	Lint          *LintConfig `koanf:"lint"`

	// ProjectRoot is the directory the config was anchored at. Not loaded.
	ProjectRoot string `koanf:"-"`
}

// LintConfig holds lint rule configuration.
type LintConfig struct {
	// Disabled contains rule IDs to disable
	Disabled []string `koanf:"disabled"`

	// Severity maps rule ID to severity override (error, warning, info, hint)
	Severity map[string]string `koanf:"severity"`

	// Rules contains rule-specific options
	Rules map[string]RuleOptions `koanf:"rules"`
}

// RuleOptions holds rule-specific configuration options.
type RuleOptions map[string]any

// Default configuration values.
const (
	TargetVersionAuto = "auto"
	DefaultEncoding   = "utf-8"
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "text"
)

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Encoding:     DefaultEncoding,
		Concurrency:  1,
		OutputFormat: DefaultOutput,
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
	}
}
