package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"

	"github.com/leapstack-labs/leapcheck/pkg/lint"
	"github.com/leapstack-labs/leapcheck/pkg/syntax"
	"github.com/leapstack-labs/leapcheck/pkg/version"
)

var (
	validOutputs    = []string{"auto", "text", "markdown", "json", "yaml"}
	validLogFormats = []string{"text", "json"}
)

// Validate checks if the configuration is valid. The target version is not
// validated: an unusable value only turns version gating off.
func (c *Config) Validate() error {
	if c.OutputFormat != "" && !slices.Contains(validOutputs, c.OutputFormat) {
		return fmt.Errorf("invalid output %q (want one of %s)", c.OutputFormat, strings.Join(validOutputs, ", "))
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	if c.LogFormat != "" && !slices.Contains(validLogFormats, c.LogFormat) {
		return fmt.Errorf("invalid log_format %q (want text or json)", c.LogFormat)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := syntax.NewGoParser(c.Encoding); err != nil {
		return err
	}
	if c.DocsBaseURL != "" {
		u, err := url.Parse(c.DocsBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid docs_base_url %q (want an absolute URL)", c.DocsBaseURL)
		}
	}
	if c.Lint != nil {
		for id, sev := range c.Lint.Severity {
			if _, ok := lint.ParseSeverity(sev); !ok {
				return fmt.Errorf("lint.severity.%s: unknown severity %q", id, sev)
			}
		}
	}
	return nil
}

// ParseLogLevel maps a level name to a slog level. Empty means warn.
func ParseLogLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return level, nil
}

// Target version sources reported by ResolveTargetVersion.
const (
	SourceConfig       = "config"
	SourceGoMod        = "go.mod"
	SourceGoModInvalid = "go.mod (invalid)"
	SourceNoGoMod      = "auto: no go.mod"
)

// ResolveTargetVersion turns the configured target version into a setting.
// "auto" reads the go directive of the nearest go.mod at or above dir and
// falls back to unset when there is none. A go.mod that does not parse gives
// an invalid setting, so every check still runs; only I/O failures are
// errors. The second result describes where the value came from.
func (c *Config) ResolveTargetVersion(dir string) (version.Setting, string, error) {
	raw := strings.TrimSpace(c.TargetVersion)
	if !strings.EqualFold(raw, TargetVersionAuto) {
		return version.ParseSetting(raw), SourceConfig, nil
	}

	goVersion, err := syntax.DetectGoVersion(dir)
	var modErr *syntax.GoModError
	switch {
	case errors.Is(err, syntax.ErrNoGoMod):
		return version.Unset(), SourceNoGoMod, nil
	case errors.As(err, &modErr):
		bad := modErr.Raw
		if bad == "" {
			bad = modErr.Err.Error()
		}
		return version.Invalid(bad), SourceGoModInvalid, nil
	case err != nil:
		return version.Unset(), "", err
	}
	return version.ParseSetting(goVersion), SourceGoMod, nil
}
