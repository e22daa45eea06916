package scan

import (
	"fmt"

	"github.com/leapstack-labs/leapcheck/pkg/lint"
)

// State is where a file ended up.
type State int

// File states.
const (
	// StateSkipped means the file was not scanned because the scan was
	// cancelled first.
	StateSkipped State = iota
	StateDone
	StateParseFailed
	StateCheckFailed
)

func (s State) String() string {
	switch s {
	case StateSkipped:
		return "skipped"
	case StateDone:
		return "done"
	case StateParseFailed:
		return "parse_failed"
	case StateCheckFailed:
		return "check_failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// FileResult is the outcome for one input file.
type FileResult struct {
	Path   string       `json:"path" yaml:"path"`
	State  State        `json:"state" yaml:"state"`
	Checks []string     `json:"checks,omitempty" yaml:"checks,omitempty"` // executed, in notification order
	Issues []lint.Issue `json:"issues,omitempty" yaml:"issues,omitempty"`
	Error  string       `json:"error,omitempty" yaml:"error,omitempty"`

	Err error `json:"-" yaml:"-"`
}

// Report is the outcome of a scan. Files is in input order.
type Report struct {
	RunID         string       `json:"run_id" yaml:"run_id"`
	TargetVersion string       `json:"target_version" yaml:"target_version"`
	Eligible      []string     `json:"eligible" yaml:"eligible"`
	Files         []FileResult `json:"files" yaml:"files"`
}

// Failures returns the files that failed to parse or whose checks failed.
func (r *Report) Failures() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.State == StateParseFailed || f.State == StateCheckFailed {
			out = append(out, f)
		}
	}
	return out
}

// Issues returns every issue of every file in file order.
func (r *Report) Issues() []lint.Issue {
	var out []lint.Issue
	for _, f := range r.Files {
		out = append(out, f.Issues...)
	}
	return out
}

// CountBySeverity tallies issues per severity.
func (r *Report) CountBySeverity() map[lint.Severity]int {
	counts := make(map[lint.Severity]int)
	for _, f := range r.Files {
		for _, is := range f.Issues {
			counts[is.Severity]++
		}
	}
	return counts
}

// HasErrors reports whether any issue has error severity or any file failed.
func (r *Report) HasErrors() bool {
	return r.CountBySeverity()[lint.SeverityError] > 0 || len(r.Failures()) > 0
}
