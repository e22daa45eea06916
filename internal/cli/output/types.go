package output

import (
	"github.com/leapstack-labs/leapcheck/pkg/lint"
	"github.com/leapstack-labs/leapcheck/pkg/lint/scan"
)

// ScanSummary counts the outcome of a scan.
type ScanSummary struct {
	Files    int `json:"files" yaml:"files"`
	Failed   int `json:"failed" yaml:"failed"`
	Issues   int `json:"issues" yaml:"issues"`
	Errors   int `json:"errors" yaml:"errors"`
	Warnings int `json:"warnings" yaml:"warnings"`
	Info     int `json:"info" yaml:"info"`
	Hints    int `json:"hints" yaml:"hints"`
}

// ScanOutput is the JSON and YAML shape of a scan.
type ScanOutput struct {
	scan.Report `yaml:",inline"`
	Summary     ScanSummary `json:"summary" yaml:"summary"`
}

// Summarize counts issues by severity and failed files.
func Summarize(r *scan.Report) ScanSummary {
	counts := r.CountBySeverity()
	return ScanSummary{
		Files:    len(r.Files),
		Failed:   len(r.Failures()),
		Issues:   len(r.Issues()),
		Errors:   counts[lint.SeverityError],
		Warnings: counts[lint.SeverityWarning],
		Info:     counts[lint.SeverityInfo],
		Hints:    counts[lint.SeverityHint],
	}
}

// NewScanOutput wraps a report with its summary.
func NewScanOutput(r *scan.Report) ScanOutput {
	return ScanOutput{Report: *r, Summary: Summarize(r)}
}
