package scan

import "github.com/leapstack-labs/leapcheck/pkg/version"

// RunConfig holds the settings for one scan. The scanner copies it when a
// scan starts, so changing it afterwards only affects later scans.
type RunConfig struct {
	// TargetVersion gates version-aware checks. Unset and invalid settings
	// both run every registered check.
	TargetVersion version.Setting

	// Encoding names the source character set, e.g. "utf-8" or "latin1".
	// Only used when the scanner builds its own parser.
	Encoding string

	// Concurrency is the number of files scanned at once. Values below 2
	// scan sequentially. Parallel scans need Options.Factory.
	Concurrency int
}

// SetTargetVersion replaces the target version setting.
func (c *RunConfig) SetTargetVersion(s version.Setting) {
	c.TargetVersion = s
}
