package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/leapcheck/internal/cli/config"
	"github.com/leapstack-labs/leapcheck/internal/cli/output"
	"github.com/leapstack-labs/leapcheck/pkg/lint"
	"github.com/leapstack-labs/leapcheck/pkg/syntax"
	"github.com/spf13/cobra"
)

// configFileName is the file written by init.
const configFileName = "leapcheck.yaml"

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a leapcheck.yaml configuration",
		Long: `Create a commented leapcheck.yaml with every built-in rule listed.

The target version defaults to "auto" so the go directive of the module's
go.mod decides which rules run. Pass --target-version to pin it instead.`,
		Example: `  # Initialize in current directory
  leapcheck init

  # Initialize in another module
  leapcheck init ./services/api

  # Pin the target version
  leapcheck init --target-version 1.22

  # Force overwrite existing config
  leapcheck init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cmdCtx := NewCommandContext(cmd, "")
			return runInit(cmdCtx, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(cmdCtx *CommandContext, dir string, force bool) error {
	r := cmdCtx.Renderer
	cfg := cmdCtx.Cfg

	if dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, configFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", configFileName)
	}

	target := cfg.TargetVersion
	if target == "" {
		target = config.TargetVersionAuto
	}

	data := configTemplateData{
		TargetVersion: target,
		Encoding:      cfg.Encoding,
		Concurrency:   max(cfg.Concurrency, 1),
		Tests:         cfg.Tests,
		Rules:         lint.Default().Rules(),
	}
	if data.Encoding == "" {
		data.Encoding = config.DefaultEncoding
	}

	content, err := renderConfigTemplate(data)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", configFileName, err)
	}
	if err := os.WriteFile(configPath, content, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	r.Success("Created " + configPath)
	describeTarget(r, dir, target)
	r.Println("")
	r.Println("Next steps:")
	r.Println("  leapcheck rules    List the rules and their minimum Go versions")
	r.Println("  leapcheck scan     Scan the module")

	return nil
}

func describeTarget(r *output.Renderer, dir, target string) {
	if target != config.TargetVersionAuto {
		r.Printf("Target version: %s\n", target)
		return
	}
	goVersion, err := syntax.DetectGoVersion(dir)
	switch {
	case errors.Is(err, syntax.ErrNoGoMod):
		r.Warning("no go.mod found; every rule will run until a target version is set")
	case err != nil:
		r.Warning(err.Error())
	default:
		r.Printf("Target version: auto (go.mod says go %s)\n", goVersion)
	}
}
