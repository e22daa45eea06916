package modernize

import (
	"go/ast"
	"go/token"
	"go/types"

	"github.com/leapstack-labs/leapcheck/pkg/lint"
	"github.com/leapstack-labs/leapcheck/pkg/lint/internal/astutil"
	"github.com/leapstack-labs/leapcheck/pkg/syntax"
	"github.com/leapstack-labs/leapcheck/pkg/version"
)

func init() {
	lint.Register(newRangeOverInt())
}

// RangeOverInt flags three-clause loops that count from zero.
var RangeOverInt = lint.RuleDef{
	ID:          "GM04",
	Name:        "modernize.range_over_int",
	Group:       "modernize",
	Description: "Counting loop can range over an integer.",
	Severity:    lint.SeverityInfo,
	Rationale:   "go1.22 allows ranging over an int, which states the intent and cannot get the bounds wrong.",
	BadExample:  "for i := 0; i < n; i++ {",
	GoodExample: "for i := range n {",
}

type rangeOverInt struct {
	lint.Base
}

func newRangeOverInt() lint.Check {
	return &rangeOverInt{Base: lint.NewBase(RangeOverInt)}
}

func (*rangeOverInt) NodesToVisit() []syntax.Kind {
	return []syntax.Kind{syntax.KindForStmt}
}

func (*rangeOverInt) MinVersion() version.Spec { return version.Min(22) }

// Matches: for i := 0; i < bound; i++ { ... } where the body leaves i and an
// identifier bound alone.
func (c *rangeOverInt) VisitNode(fc *lint.FileContext, n ast.Node) error {
	loop := n.(*ast.ForStmt)

	decl, ok := loop.Init.(*ast.AssignStmt)
	if !ok || decl.Tok != token.DEFINE || len(decl.Lhs) != 1 || len(decl.Rhs) != 1 {
		return nil
	}
	name, ok := astutil.IdentName(decl.Lhs[0])
	if !ok || !astutil.IsIntLit(decl.Rhs[0], "0") {
		return nil
	}

	cond, ok := loop.Cond.(*ast.BinaryExpr)
	if !ok || cond.Op != token.LSS || !astutil.IsIdent(cond.X, name) {
		return nil
	}
	post, ok := loop.Post.(*ast.IncDecStmt)
	if !ok || post.Tok != token.INC || !astutil.IsIdent(post.X, name) {
		return nil
	}

	if astutil.Mutates(loop.Body, name) {
		return nil
	}
	if bound, ok := astutil.IdentName(cond.Y); ok && astutil.Mutates(loop.Body, bound) {
		return nil
	}

	fc.Reportf(c, loop, "for loop can be written as: for %s := range %s", name, types.ExprString(cond.Y))
	return nil
}
