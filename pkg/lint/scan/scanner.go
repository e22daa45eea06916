// Package scan runs eligible checks over a batch of files.
//
// A scan resolves the eligible check set once, then handles each file in
// turn: parse, build a lint.FileContext, StartFile on every check, one shared
// traversal, EndFile on every check. Files that fail to parse are recorded and
// skipped. A check that fails is fatal for its file only: the file's issues
// are dropped, the failure is recorded, and Scan returns it once the batch
// is complete.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapcheck/pkg/lint"
	"github.com/leapstack-labs/leapcheck/pkg/lint/walk"
	"github.com/leapstack-labs/leapcheck/pkg/syntax"
	"github.com/leapstack-labs/leapcheck/pkg/version"
)

// ErrNoFactory is returned when a parallel scan is configured without a way
// to build per-file check instances.
var ErrNoFactory = errors.New("parallel scan requires a check factory")

// Factory returns fresh check instances. It is called once per file in
// parallel scans so that no instance is shared between goroutines.
type Factory func() []lint.Check

// Options configures a Scanner.
type Options struct {
	// Registry supplies the checks. Defaults to lint.Default().
	Registry *lint.Registry
	// Config disables rules and overrides severities.
	Config *lint.Config
	// Parser overrides the go/parser based default.
	Parser syntax.Parser
	// Factory enables parallel scans.
	Factory Factory
	Logger  *slog.Logger
}

// Scanner runs checks over files.
type Scanner struct {
	registry *lint.Registry
	config   *lint.Config
	parser   syntax.Parser
	factory  Factory
	logger   *slog.Logger
}

// New creates a Scanner.
func New(opts Options) *Scanner {
	s := &Scanner{
		registry: opts.Registry,
		config:   opts.Config,
		parser:   opts.Parser,
		factory:  opts.Factory,
		logger:   opts.Logger,
	}
	if s.registry == nil {
		s.registry = lint.Default()
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// Eligible returns the checks a scan with cfg would run, after disabled rules
// are removed.
func (s *Scanner) Eligible(cfg RunConfig) *lint.EligibleSet {
	return s.registry.Eligible(cfg.TargetVersion).Without(s.config)
}

// Scan scans files in order. The returned report is non-nil unless the scan
// could not start. The error joins every check failure; parse failures are
// only recorded in the report. A cancelled ctx stops the scan between files
// and ctx.Err() is returned with the partial report.
func (s *Scanner) Scan(ctx context.Context, files []string, cfg *RunConfig) (*Report, error) {
	var run RunConfig
	if cfg != nil {
		run = *cfg
	}

	parser := s.parser
	if parser == nil {
		p, err := syntax.NewGoParser(run.Encoding)
		if err != nil {
			return nil, err
		}
		parser = p
	}

	set := s.Eligible(run)
	report := &Report{
		RunID:         uuid.NewString(),
		TargetVersion: run.TargetVersion.String(),
		Eligible:      set.IDs(),
		Files:         make([]FileResult, len(files)),
	}
	for i, path := range files {
		report.Files[i] = FileResult{Path: path, State: StateSkipped}
	}

	logger := s.logger.With("run", report.RunID)
	if _, ok := run.TargetVersion.Resolve(); !ok && run.TargetVersion.IsSet() {
		logger.Debug("target version is not usable, running all checks", "target", run.TargetVersion.Raw())
	}
	logger.Info("scan started", "files", len(files), "target", report.TargetVersion, "checks", len(set.Checks))

	job := &fileJob{parser: parser, config: s.config, target: run.TargetVersion, logger: logger}

	var err error
	if run.Concurrency > 1 {
		err = s.scanParallel(ctx, job, set, report, run.Concurrency)
	} else {
		err = s.scanSequential(ctx, job, set, report)
	}
	if err != nil {
		return report, err
	}

	var failed []error
	for _, f := range report.Files {
		if f.State == StateCheckFailed {
			failed = append(failed, f.Err)
		}
	}
	logger.Info("scan finished", "files", len(files), "failures", len(report.Failures()), "issues", len(report.Issues()))
	return report, errors.Join(failed...)
}

func (s *Scanner) scanSequential(ctx context.Context, job *fileJob, set *lint.EligibleSet, report *Report) error {
	d := walk.NewDispatcher(set.Checks)
	for i := range report.Files {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Files[i] = job.run(ctx, report.Files[i].Path, d)
	}
	return nil
}

func (s *Scanner) scanParallel(ctx context.Context, job *fileJob, set *lint.EligibleSet, report *Report, limit int) error {
	if s.factory == nil {
		return ErrNoFactory
	}
	ids := set.IDs()
	// Validate the factory once before fanning out.
	if _, err := instantiate(s.factory, ids); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range report.Files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			checks, err := instantiate(s.factory, ids)
			if err != nil {
				return err
			}
			report.Files[i] = job.run(gctx, report.Files[i].Path, walk.NewDispatcher(checks))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// instantiate picks the checks named by ids, in that order, from a fresh
// factory batch.
func instantiate(factory Factory, ids []string) ([]lint.Check, error) {
	byID := make(map[string]lint.Check)
	for _, c := range factory() {
		byID[c.ID()] = c
	}
	out := make([]lint.Check, len(ids))
	for i, id := range ids {
		c, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("check factory did not produce %s", id)
		}
		out[i] = c
	}
	return out, nil
}

// fileJob holds what every file of a scan shares.
type fileJob struct {
	parser syntax.Parser
	config *lint.Config
	target version.Setting
	logger *slog.Logger
}

func (j *fileJob) run(ctx context.Context, path string, d *walk.Dispatcher) FileResult {
	res := FileResult{Path: path}

	file, err := j.parser.Parse(path)
	if err != nil {
		j.logger.Warn("skipping file", "file", path, "error", err)
		res.State = StateParseFailed
		res.Err = err
		res.Error = err.Error()
		return res
	}

	fc := lint.NewFileContext(ctx, file, j.target, j.config, j.logger)
	checks := d.Checks()
	res.Checks = make([]string, len(checks))
	for i, c := range checks {
		res.Checks[i] = c.ID()
	}

	if err := j.runHooks(fc, file, d); err != nil {
		j.logger.Error("check failed", "file", path, "error", err)
		res.State = StateCheckFailed
		res.Err = err
		res.Error = err.Error()
		return res
	}

	res.State = StateDone
	res.Issues = fc.Issues()
	j.logger.Debug("file scanned", "file", path, "issues", len(res.Issues))
	return res
}

func (j *fileJob) runHooks(fc *lint.FileContext, file *syntax.File, d *walk.Dispatcher) error {
	for _, c := range d.Checks() {
		if err := lint.RunHook(c, lint.HookStart, fc, nil); err != nil {
			return err
		}
	}
	if err := d.Walk(fc, file.AST); err != nil {
		return err
	}
	for _, c := range d.Checks() {
		if err := lint.RunHook(c, lint.HookEnd, fc, nil); err != nil {
			return err
		}
	}
	return nil
}
