package style

import (
	"go/ast"
	"slices"

	"github.com/leapstack-labs/leapcheck/pkg/lint"
	"github.com/leapstack-labs/leapcheck/pkg/lint/internal/astutil"
	"github.com/leapstack-labs/leapcheck/pkg/syntax"
)

func init() {
	lint.Register(newEmptyBlock())
}

// EmptyBlock flags branches and loops with nothing in them.
var EmptyBlock = lint.RuleDef{
	ID:          "GS01",
	Name:        "style.empty_block",
	Group:       "style",
	Description: "Block is empty.",
	Severity:    lint.SeverityWarning,
	Rationale:   "An empty branch is usually unfinished code or a leftover from a refactoring.",
	BadExample:  "if err != nil {\n}",
	GoodExample: "if err != nil {\n\treturn err\n}",
	Fix:         "Remove the block, or add a comment explaining why nothing happens.",
	ConfigKeys:  []string{"allow_comments", "blocks"},
}

// Block kinds GS01 can report, and the default for the blocks option.
var emptyBlockKinds = []string{"if", "else", "range"}

type emptyBlock struct {
	lint.Base
}

func newEmptyBlock() lint.Check {
	return &emptyBlock{Base: lint.NewBase(EmptyBlock)}
}

func (*emptyBlock) NodesToVisit() []syntax.Kind {
	return []syntax.Kind{syntax.KindIfStmt, syntax.KindRangeStmt}
}

func (c *emptyBlock) VisitNode(fc *lint.FileContext, n ast.Node) error {
	opts := fc.Options(c.ID())
	blocks := lint.GetStringSliceOption(opts, "blocks", emptyBlockKinds)
	allowComments := lint.GetOption(opts, "allow_comments", true)

	check := func(b *ast.BlockStmt, what string) {
		if !slices.Contains(blocks, what) {
			return
		}
		c.check(fc, b, what, allowComments)
	}

	switch s := n.(type) {
	case *ast.IfStmt:
		check(s.Body, "if")
		if els, ok := s.Else.(*ast.BlockStmt); ok {
			check(els, "else")
		}
	case *ast.RangeStmt:
		// for range ch {} drains a channel.
		if s.Key == nil && s.Value == nil {
			return nil
		}
		check(s.Body, "range")
	}
	return nil
}

func (c *emptyBlock) check(fc *lint.FileContext, b *ast.BlockStmt, what string, allowComments bool) {
	if b == nil || len(b.List) > 0 {
		return
	}
	if allowComments && astutil.HasComment(fc.AST(), b.Lbrace, b.Rbrace+1) {
		return
	}
	fc.Reportf(c, b, "empty %s block", what)
}
