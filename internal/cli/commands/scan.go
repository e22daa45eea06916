package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapcheck/internal/cli/config"
	"github.com/leapstack-labs/leapcheck/internal/cli/output"
	"github.com/leapstack-labs/leapcheck/pkg/lint"
	"github.com/leapstack-labs/leapcheck/pkg/lint/rules"
	"github.com/leapstack-labs/leapcheck/pkg/lint/scan"
	"github.com/leapstack-labs/leapcheck/pkg/syntax"
	"github.com/spf13/cobra"
)

// ErrIssuesFound is returned when a scan reports issues or failed files.
var ErrIssuesFound = errors.New("lint issues found")

// ScanOptions holds options for the scan command.
type ScanOptions struct {
	Format   string   // Output format: text, markdown, json, yaml
	Disable  []string // Rule IDs to disable
	Severity string   // Minimum severity: error, warning, info, hint
	Rules    []string // Run only specific rules
}

// NewScanCommand creates the scan command.
func NewScanCommand() *cobra.Command {
	opts := &ScanOptions{}
	cmd := &cobra.Command{
		Use:     "scan [path...]",
		Aliases: []string{"lint"},
		Short:   "Run lint rules on Go sources",
		Long: `Analyze Go source files for potential issues.

Only rules whose minimum Go version is satisfied by the target version run.
The target comes from --target-version or target_version in leapcheck.yaml;
"auto" reads the go directive of the nearest go.mod. Without a usable target
every rule runs.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable format`,
		Example: `  # Scan the current module
  leapcheck scan

  # Scan specific packages
  leapcheck scan ./internal ./pkg

  # Check against go1.22 rules
  leapcheck scan --target-version 1.22

  # Output as JSON
  leapcheck scan --format json

  # Disable specific rules
  leapcheck scan --disable GM01,GS02

  # Only report errors (ignore warnings/hints)
  leapcheck scan --severity error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, opts)
		},
	}

	addScanFlags(cmd, opts)
	return cmd
}

func addScanFlags(cmd *cobra.Command, opts *ScanOptions) {
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringVar(&opts.Severity, "severity", "hint", "Minimum severity: error, warning, info, hint")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only specific rules")
}

func runScan(cmd *cobra.Command, paths []string, opts *ScanOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)

	report, scanErr := executeScan(cmd.Context(), cmdCtx, paths, opts)
	if report == nil {
		return scanErr
	}

	filterBySeverity(report, opts.Severity)
	if err := renderReport(cmdCtx.Renderer, report); err != nil {
		return err
	}

	if scanErr != nil {
		return scanErr
	}
	if len(report.Issues()) > 0 || len(report.Failures()) > 0 {
		return ErrIssuesFound
	}
	return nil
}

// executeScan discovers files under paths and scans them with the built-in
// rules.
func executeScan(ctx context.Context, cmdCtx *CommandContext, paths []string, opts *ScanOptions) (*scan.Report, error) {
	cfg := cmdCtx.Cfg
	logger := cmdCtx.Logger

	if len(paths) == 0 {
		paths = []string{"."}
	}

	files, err := syntax.Discover(paths, syntax.DiscoverOptions{
		Include: cfg.Include,
		Exclude: cfg.Exclude,
		Tests:   cfg.Tests,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}

	target, source, err := cfg.ResolveTargetVersion(targetDir(paths, cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target version: %w", err)
	}
	switch {
	case source == config.SourceGoModInvalid:
		logger.Warn("go.mod has an unusable go directive, running all checks", "target", target.Raw())
	case target.IsSet() && !target.IsValid():
		logger.Debug("ignoring unusable target version", "target", target.Raw(), "source", source)
	}
	logger.Info("resolved target version", "target", target.String(), "source", source)

	scanner := scan.New(scan.Options{
		Registry: lint.Default(),
		Config:   buildLintConfig(cfg, opts),
		Factory:  rules.New,
		Logger:   logger,
	})

	runCfg := &scan.RunConfig{
		Encoding:    cfg.Encoding,
		Concurrency: cfg.Concurrency,
	}
	runCfg.SetTargetVersion(target)

	return scanner.Scan(ctx, files, runCfg)
}

// targetDir picks the directory whose go.mod decides an "auto" target.
func targetDir(paths []string, cfg *config.Config) string {
	if len(paths) > 0 {
		if info, err := os.Stat(paths[0]); err == nil {
			if info.IsDir() {
				return paths[0]
			}
			return filepath.Dir(paths[0])
		}
	}
	if cfg.ProjectRoot != "" {
		return cfg.ProjectRoot
	}
	return "."
}

func buildLintConfig(cfg *config.Config, opts *ScanOptions) *lint.Config {
	lintCfg := lint.NewConfig()

	// Apply project config first (lower precedence)
	if cfg != nil && cfg.Lint != nil {
		projectLint := cfg.Lint
		for _, id := range projectLint.Disabled {
			lintCfg.Disable(normalizeRuleID(id))
		}
		for id, sev := range projectLint.Severity {
			if s, ok := lint.ParseSeverity(sev); ok {
				lintCfg.SetSeverity(normalizeRuleID(id), s)
			}
		}
		for id, ruleOpts := range projectLint.Rules {
			lintCfg.SetRuleOptions(normalizeRuleID(id), ruleOpts)
		}
	}

	// Apply CLI overrides (higher precedence)
	for _, id := range opts.Disable {
		lintCfg.Disable(normalizeRuleID(id))
	}

	// If --rule specified, disable all others
	if len(opts.Rules) > 0 {
		enabledSet := make(map[string]bool)
		for _, id := range opts.Rules {
			enabledSet[normalizeRuleID(id)] = true
		}
		for _, c := range lint.Default().All() {
			if !enabledSet[c.ID()] {
				lintCfg.Disable(c.ID())
			}
		}
	}

	return lintCfg
}

// normalizeRuleID accepts rule IDs in any case.
func normalizeRuleID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// filterBySeverity drops issues below the threshold. An unknown threshold
// keeps everything.
func filterBySeverity(report *scan.Report, severityThreshold string) {
	threshold, ok := lint.ParseSeverity(severityThreshold)
	if !ok {
		return
	}
	for i := range report.Files {
		f := &report.Files[i]
		var kept []lint.Issue
		for _, is := range f.Issues {
			if is.Severity <= threshold {
				kept = append(kept, is)
			}
		}
		f.Issues = kept
	}
}

func renderReport(r *output.Renderer, report *scan.Report) error {
	if ok, err := r.Structured(output.NewScanOutput(report)); ok {
		return err
	}

	styles := r.Styles()
	summary := output.Summarize(report)

	r.Header(1, "Scan Results")
	r.Printf("Target: %s\n", targetLabel(report.TargetVersion))
	r.Printf("Rules: %s\n\n", strings.Join(report.Eligible, ", "))

	for _, f := range report.Files {
		switch f.State {
		case scan.StateParseFailed, scan.StateCheckFailed:
			r.Println(styles.FilePath.Render(f.Path))
			r.Printf("  %s  %s\n\n", styles.Error.Render(f.State.String()), f.Error)
			continue
		}
		if len(f.Issues) == 0 {
			continue
		}

		r.Println(styles.FilePath.Render(f.Path))
		for _, is := range f.Issues {
			loc := fmt.Sprintf("%d:%d", is.Pos.Line, is.Pos.Column)
			if is.Pos.Line == 0 {
				loc = "-"
			}
			r.Printf("  %s  %s  %s  %s\n",
				styles.Muted.Render(fmt.Sprintf("%-7s", loc)),
				severityLabel(r, is.Severity),
				styles.Bold.Render(is.RuleID),
				is.Message,
			)
		}
		r.Println("")
	}

	if summary.Issues == 0 && summary.Failed == 0 {
		r.Success(fmt.Sprintf("No issues found in %d files", summary.Files))
		return nil
	}

	r.Table(
		[]string{"Files", "Failed", "Errors", "Warnings", "Info", "Hints"},
		[][]string{{
			strconv.Itoa(summary.Files),
			strconv.Itoa(summary.Failed),
			strconv.Itoa(summary.Errors),
			strconv.Itoa(summary.Warnings),
			strconv.Itoa(summary.Info),
			strconv.Itoa(summary.Hints),
		}},
	)
	return nil
}

func targetLabel(target string) string {
	if target == "unset" {
		return "any (all rules run)"
	}
	return target
}

func severityLabel(r *output.Renderer, sev lint.Severity) string {
	switch sev {
	case lint.SeverityError:
		return r.Styles().Error.Render("error  ")
	case lint.SeverityWarning:
		return r.Styles().Warning.Render("warning")
	case lint.SeverityInfo:
		return r.Styles().Info.Render("info   ")
	case lint.SeverityHint:
		return r.Styles().Muted.Render("hint   ")
	default:
		return r.Styles().Muted.Render("unknown")
	}
}
