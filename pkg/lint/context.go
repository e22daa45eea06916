package lint

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"log/slog"

	"github.com/leapstack-labs/leapcheck/pkg/syntax"
	"github.com/leapstack-labs/leapcheck/pkg/version"
)

// FileContext is the per-file state handed to every hook of every eligible
// check while one file is scanned. A new one is built for each file and it is
// dropped once the file's EndFile hooks have run.
type FileContext struct {
	ctx     context.Context
	file    *syntax.File
	version int
	pinned  bool
	logger  *slog.Logger
	config  *Config
	issues  []Issue
}

// NewFileContext builds the context for one file. The target setting is
// resolved here: unset and invalid settings both leave Version unset.
func NewFileContext(ctx context.Context, file *syntax.File, target version.Setting, config *Config, logger *slog.Logger) *FileContext {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	v, ok := target.Resolve()
	return &FileContext{
		ctx:     ctx,
		file:    file,
		version: v,
		pinned:  ok,
		logger:  logger.With("file", file.Path),
		config:  config,
	}
}

// Context returns the scan's context.
func (fc *FileContext) Context() context.Context { return fc.ctx }

// Path returns the path of the file being scanned.
func (fc *FileContext) Path() string { return fc.file.Path }

// File returns the parsed file.
func (fc *FileContext) File() *syntax.File { return fc.file }

// AST returns the root of the syntax tree.
func (fc *FileContext) AST() *ast.File { return fc.file.AST }

// Fset returns the file set positions are relative to.
func (fc *FileContext) Fset() *token.FileSet { return fc.file.Fset }

// Logger returns a logger scoped to the file.
func (fc *FileContext) Logger() *slog.Logger { return fc.logger }

// Version returns the effective target version and true, or 0 and false when
// the run has no usable target version.
func (fc *FileContext) Version() (int, bool) {
	return fc.version, fc.pinned
}

// Options returns the configured options for a rule; nil when none are set.
func (fc *FileContext) Options(ruleID string) map[string]any {
	return fc.config.GetRuleOptions(ruleID)
}

// Position resolves a token position in this file.
func (fc *FileContext) Position(pos token.Pos) token.Position {
	return fc.file.Fset.Position(pos)
}

// Report records an issue.
func (fc *FileContext) Report(issue Issue) {
	fc.issues = append(fc.issues, issue)
}

// Reportf records an issue for check c at node n, using the check's default
// severity and documentation URL.
func (fc *FileContext) Reportf(c Check, n ast.Node, format string, args ...any) {
	sev := SeverityWarning
	if d, ok := c.(Describer); ok {
		sev = d.DefaultSeverity()
	}
	var pos token.Position
	if n != nil {
		pos = fc.Position(n.Pos())
	}
	fc.Report(Issue{
		RuleID:           c.ID(),
		Severity:         sev,
		Message:          fmt.Sprintf(format, args...),
		Pos:              pos,
		DocumentationURL: BuildDocURL(c.ID()),
	})
}

// Issues returns the issues reported so far, with severity overrides from the
// configuration applied.
func (fc *FileContext) Issues() []Issue {
	out := make([]Issue, len(fc.issues))
	for i, is := range fc.issues {
		is.Severity = fc.config.GetSeverity(is.RuleID, is.Severity)
		out[i] = is
	}
	return out
}
