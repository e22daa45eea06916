package commands

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/leapcheck/internal/cli/config"
	"github.com/leapstack-labs/leapcheck/internal/cli/output"
	"github.com/leapstack-labs/leapcheck/pkg/lint"
	"github.com/leapstack-labs/leapcheck/pkg/syntax"
	"github.com/spf13/cobra"
)

// Health check statuses.
const (
	statusPass = "pass"
	statusWarn = "warn"
	statusFail = "error"
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format string // Output format: text, markdown, json, yaml
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor [path]",
		Short: "Check the configuration and what a scan would run",
		Long: `Report how leapcheck resolves its configuration for a module:
- which config file is used
- the target version and where it comes from
- the source encoding
- how many files a scan would visit
- which rules run and which are skipped because the target is too old

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable format`,
		Example: `  # Check the current module
  leapcheck doctor

  # Output as JSON
  leapcheck doctor --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")

	return cmd
}

// DoctorOutput is the structured output for the doctor command.
type DoctorOutput struct {
	ConfigFile   string          `json:"config_file" yaml:"config_file"`
	Target       string          `json:"target" yaml:"target"`
	TargetSource string          `json:"target_source" yaml:"target_source"`
	Files        int             `json:"files" yaml:"files"`
	HealthChecks []HealthCheck   `json:"health_checks" yaml:"health_checks"`
	Eligible     []string        `json:"eligible" yaml:"eligible"`
	Gated        []lint.RuleInfo `json:"gated,omitempty" yaml:"gated,omitempty"`
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	Name   string `json:"name" yaml:"name"`
	Status string `json:"status" yaml:"status"` // "pass", "warn", "error"
	Detail string `json:"detail" yaml:"detail"`
}

func runDoctor(cmd *cobra.Command, args []string, opts *DoctorOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	r := cmdCtx.Renderer

	out, err := buildDoctorOutput(cmdCtx.Cfg, args)
	if err != nil {
		return err
	}

	if ok, err := r.Structured(out); ok {
		return err
	}
	return renderDoctor(r, out)
}

func buildDoctorOutput(cfg *config.Config, paths []string) (*DoctorOutput, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	out := &DoctorOutput{ConfigFile: config.GetConfigFileUsed()}

	if out.ConfigFile == "" {
		out.HealthChecks = append(out.HealthChecks, HealthCheck{"config", statusWarn, "no leapcheck.yaml found, using defaults"})
	} else {
		out.HealthChecks = append(out.HealthChecks, HealthCheck{"config", statusPass, out.ConfigFile})
	}

	target, source, err := cfg.ResolveTargetVersion(targetDir(paths, cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target version: %w", err)
	}
	out.Target = target.String()
	out.TargetSource = source
	switch {
	case target.IsValid():
		out.HealthChecks = append(out.HealthChecks, HealthCheck{"target_version", statusPass, fmt.Sprintf("%s (%s)", target, source)})
	case target.IsSet():
		out.HealthChecks = append(out.HealthChecks, HealthCheck{"target_version", statusWarn,
			fmt.Sprintf("%q is not a Go version; every rule runs", target.Raw())})
	default:
		out.HealthChecks = append(out.HealthChecks, HealthCheck{"target_version", statusWarn,
			fmt.Sprintf("not set (%s); every rule runs", source)})
	}

	if _, err := syntax.NewGoParser(cfg.Encoding); err != nil {
		out.HealthChecks = append(out.HealthChecks, HealthCheck{"encoding", statusFail, err.Error()})
	} else {
		out.HealthChecks = append(out.HealthChecks, HealthCheck{"encoding", statusPass, cfg.Encoding})
	}

	files, err := syntax.Discover(paths, syntax.DiscoverOptions{Include: cfg.Include, Exclude: cfg.Exclude, Tests: cfg.Tests})
	if err != nil {
		out.HealthChecks = append(out.HealthChecks, HealthCheck{"files", statusFail, err.Error()})
	} else {
		out.Files = len(files)
		status := statusPass
		if len(files) == 0 {
			status = statusWarn
		}
		out.HealthChecks = append(out.HealthChecks, HealthCheck{"files", status, strconv.Itoa(len(files)) + " Go files"})
	}

	lintCfg := buildLintConfig(cfg, &ScanOptions{})
	eligible := lint.Default().Eligible(target).Without(lintCfg)
	out.Eligible = eligible.IDs()

	running := make(map[string]bool, len(out.Eligible))
	for _, id := range out.Eligible {
		running[id] = true
	}
	for _, c := range lint.Default().All() {
		if !running[c.ID()] && !lintCfg.IsDisabled(c.ID()) {
			out.Gated = append(out.Gated, lint.GetRuleInfo(c))
		}
	}

	return out, nil
}

func renderDoctor(r *output.Renderer, out *DoctorOutput) error {
	styles := r.Styles()

	r.Header(1, "leapcheck doctor")

	rows := make([][]string, 0, len(out.HealthChecks))
	for _, hc := range out.HealthChecks {
		rows = append(rows, []string{hc.Name, hc.Status, hc.Detail})
	}
	r.Table([]string{"Check", "Status", "Detail"}, rows)
	r.Println("")

	r.Header(2, fmt.Sprintf("Rules that run (%d)", len(out.Eligible)))
	for _, id := range out.Eligible {
		r.Println("- " + id)
	}
	r.Println("")

	if len(out.Gated) > 0 {
		r.Header(2, fmt.Sprintf("Skipped for %s (%d)", out.Target, len(out.Gated)))
		for _, rule := range out.Gated {
			r.Printf("- %s %s\n", rule.ID, styles.Muted.Render("needs "+rule.MinVersion))
		}
		r.Println("")
	}

	return nil
}
