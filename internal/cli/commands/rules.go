package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/leapcheck/internal/cli/output"
	"github.com/leapstack-labs/leapcheck/pkg/lint"
	_ "github.com/leapstack-labs/leapcheck/pkg/lint/rules" // register built-in rules
	"github.com/spf13/cobra"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group    string // Filter by group
	Eligible bool   // Only rules that run at the configured target version
	Verbose  bool   // Show full documentation
	Format   string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available lint rules",
		Long: `List all available lint rules with their documentation.

Rules are organized by group (e.g., modernize, style). Rules in the modernize
group need a minimum Go version; they only run when the target version is at
least that version.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable format`,
		Example: `  # List all rules
  leapcheck rules

  # Show details for a specific rule
  leapcheck rules GM02

  # List the rules that run for go1.20
  leapcheck rules --eligible --target-version 1.20

  # List rules in the style group
  leapcheck rules --group style

  # Output as JSON
  leapcheck rules --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	cmd.Flags().BoolVarP(&opts.Eligible, "eligible", "e", false, "Only rules eligible at the target version")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "V", false, "Show full documentation")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")

	return cmd
}

// RulesOutput is the JSON and YAML output structure for rules listing.
type RulesOutput struct {
	Target string          `json:"target,omitempty" yaml:"target,omitempty"`
	Rules  []lint.RuleInfo `json:"rules" yaml:"rules"`
	Count  struct {
		Groups map[string]int `json:"groups" yaml:"groups"`
		Total  int            `json:"total" yaml:"total"`
	} `json:"count" yaml:"count"`
}

var titleCaser = cases.Title(language.English)

func groupTitle(group string) string {
	if group == "" {
		return "Other"
	}
	return titleCaser.String(group)
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	r := cmdCtx.Renderer

	checks := lint.Default().All()
	target := ""
	if opts.Eligible {
		setting, source, err := cmdCtx.Cfg.ResolveTargetVersion(targetDir(nil, cmdCtx.Cfg))
		if err != nil {
			return fmt.Errorf("failed to resolve target version: %w", err)
		}
		cmdCtx.Logger.Debug("filtering rules by target", "target", setting.String(), "source", source)
		checks = lint.Default().Filter(setting)
		target = setting.String()
	}

	rules := make([]lint.RuleInfo, 0, len(checks))
	for _, c := range checks {
		info := lint.GetRuleInfo(c)
		if opts.Group != "" && info.Group != opts.Group {
			continue
		}
		rules = append(rules, info)
	}

	// Sort by group, then ID
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Group != rules[j].Group {
			return rules[i].Group < rules[j].Group
		}
		return rules[i].ID < rules[j].ID
	})

	out := RulesOutput{Target: target, Rules: rules}
	out.Count.Groups = make(map[string]int)
	for _, rule := range rules {
		out.Count.Groups[rule.Group]++
	}
	out.Count.Total = len(rules)
	if ok, err := r.Structured(out); ok {
		return err
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		return listRulesMarkdown(r, out, opts.Verbose)
	}
	return listRulesText(r, out, opts.Verbose)
}

// listRulesText outputs rules in styled text format.
func listRulesText(r *output.Renderer, out RulesOutput, verbose bool) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Lint Rules (%d)", out.Count.Total)))
	if out.Target != "" {
		r.Println(styles.Muted.Render("Target: " + targetLabel(out.Target)))
	}
	r.Println("")

	currentGroup := ""
	first := true
	for _, rule := range out.Rules {
		if first || rule.Group != currentGroup {
			first = false
			currentGroup = rule.Group
			r.Println(styles.Header2.Render(groupTitle(currentGroup)))
		}

		severityStyle := getSeverityStyle(styles, rule.DefaultSeverity)
		r.Printf("    %s  %s - %s  %s\n",
			styles.Muted.Render(rule.ID),
			rule.Name,
			severityStyle.Render(rule.DefaultSeverity.String()),
			styles.Muted.Render("("+rule.MinVersion+")"),
		)

		if verbose {
			r.Println(styles.Muted.Render("        " + rule.Description))
			if rule.Rationale != "" {
				r.Println(styles.Muted.Render("        Why: " + truncateOneLine(rule.Rationale, 80)))
			}
			r.Println("")
		}
	}

	r.Println("")
	r.Println(styles.Muted.Render("Use 'leapcheck rules <rule-id>' for detailed documentation"))
	r.Println("")

	return nil
}

// listRulesMarkdown outputs rules in markdown format, one table per group.
func listRulesMarkdown(r *output.Renderer, out RulesOutput, verbose bool) error {
	r.Header(1, "Lint Rules")
	if out.Target != "" {
		r.Printf("Target: `%s`\n\n", out.Target)
	}

	var groups []string
	byGroup := make(map[string][]lint.RuleInfo)
	for _, rule := range out.Rules {
		if _, ok := byGroup[rule.Group]; !ok {
			groups = append(groups, rule.Group)
		}
		byGroup[rule.Group] = append(byGroup[rule.Group], rule)
	}

	for _, group := range groups {
		r.Header(2, groupTitle(group))

		header := []string{"ID", "Name", "Severity", "Min Go"}
		if verbose {
			header = append(header, "Description")
		}
		rows := make([][]string, 0, len(byGroup[group]))
		for _, rule := range byGroup[group] {
			row := []string{rule.ID, rule.Name, rule.DefaultSeverity.String(), rule.MinVersion}
			if verbose {
				row = append(row, rule.Description)
			}
			rows = append(rows, row)
		}
		r.Table(header, rows)
		r.Println("")
	}

	return nil
}

func showRule(cmd *cobra.Command, ruleID string, opts *RulesOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	r := cmdCtx.Renderer

	c, ok := lint.Default().Get(normalizeRuleID(ruleID))
	if !ok {
		return fmt.Errorf("rule %q not found", ruleID)
	}
	rule := lint.GetRuleInfo(c)

	if ok, err := r.Structured(rule); ok {
		return err
	}
	if r.EffectiveMode() == output.ModeMarkdown {
		return showRuleMarkdown(r, &rule)
	}
	return showRuleText(r, &rule)
}

// showRuleText displays detailed rule info in text format.
func showRuleText(r *output.Renderer, rule *lint.RuleInfo) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("%s - %s", rule.ID, rule.Name)))
	r.Println("")

	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), groupTitle(rule.Group))
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), rule.DefaultSeverity.String())
	r.Printf("  %s: %s\n", styles.Bold.Render("Min Go"), rule.MinVersion)
	r.Printf("  %s: %s\n", styles.Bold.Render("Nodes"), strings.Join(rule.Nodes, ", "))
	r.Println("")

	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println(styles.Bold.Render("Why This Matters"))
		r.Println("  " + rule.Rationale)
		r.Println("")
	}

	if rule.BadExample != "" {
		r.Println(styles.Bold.Render("Bad Example"))
		for _, line := range strings.Split(rule.BadExample, "\n") {
			r.Println(styles.Muted.Render("  " + line))
		}
		r.Println("")
	}

	if rule.GoodExample != "" {
		r.Println(styles.Bold.Render("Good Example"))
		for _, line := range strings.Split(rule.GoodExample, "\n") {
			r.Println(styles.Success.Render("  " + line))
		}
		r.Println("")
	}

	if rule.Fix != "" {
		r.Println(styles.Bold.Render("How to Fix"))
		r.Println("  " + rule.Fix)
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println(styles.Bold.Render("Configuration"))
		r.Printf("  Options: %s\n", strings.Join(rule.ConfigKeys, ", "))
		r.Println("")
	}

	r.Println(styles.Muted.Render(lint.BuildDocURL(rule.ID)))
	return nil
}

// showRuleMarkdown displays detailed rule info in markdown format.
func showRuleMarkdown(r *output.Renderer, rule *lint.RuleInfo) error {
	r.Printf("# %s - %s\n\n", rule.ID, rule.Name)
	r.Printf("**Group:** %s | **Severity:** `%s` | **Min Go:** `%s`\n\n",
		groupTitle(rule.Group), rule.DefaultSeverity.String(), rule.MinVersion)
	r.Println(rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println("## Why This Matters")
		r.Println("")
		r.Println(rule.Rationale)
		r.Println("")
	}

	if rule.BadExample != "" {
		r.Println("## Bad Example")
		r.Println("")
		r.Println("```go")
		r.Println(rule.BadExample)
		r.Println("```")
		r.Println("")
	}

	if rule.GoodExample != "" {
		r.Println("## Good Example")
		r.Println("")
		r.Println("```go")
		r.Println(rule.GoodExample)
		r.Println("```")
		r.Println("")
	}

	if rule.Fix != "" {
		r.Println("## How to Fix")
		r.Println("")
		r.Println(rule.Fix)
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println("## Configuration")
		r.Println("")
		r.Printf("Options: `%s`\n", strings.Join(rule.ConfigKeys, "`, `"))
		r.Println("")
	}

	r.Printf("[Documentation](%s)\n", lint.BuildDocURL(rule.ID))
	return nil
}

func getSeverityStyle(styles *output.Styles, sev lint.Severity) lipgloss.Style {
	switch sev {
	case lint.SeverityError:
		return styles.Error
	case lint.SeverityWarning:
		return styles.Warning
	case lint.SeverityInfo:
		return styles.Info
	default:
		return styles.Muted
	}
}

// truncateOneLine collapses s onto one line and cuts it at maxLen runes.
func truncateOneLine(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
