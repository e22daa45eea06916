package style

import (
	"go/ast"

	"github.com/leapstack-labs/leapcheck/pkg/lint"
	"github.com/leapstack-labs/leapcheck/pkg/lint/internal/astutil"
	"github.com/leapstack-labs/leapcheck/pkg/syntax"
)

func init() {
	lint.Register(newErrorf())
}

// Errorf flags errors.New wrapped around fmt.Sprintf.
var Errorf = lint.RuleDef{
	ID:          "GS02",
	Name:        "style.errorf",
	Group:       "style",
	Description: "errors.New(fmt.Sprintf(...)) should be fmt.Errorf(...).",
	Severity:    lint.SeverityWarning,
	Rationale:   "fmt.Errorf formats in one step and can wrap causes with %w.",
	BadExample:  `errors.New(fmt.Sprintf("user %d not found", id))`,
	GoodExample: `fmt.Errorf("user %d not found", id)`,
}

type errorf struct {
	lint.Base
}

func newErrorf() lint.Check {
	return &errorf{Base: lint.NewBase(Errorf)}
}

func (*errorf) NodesToVisit() []syntax.Kind {
	return []syntax.Kind{syntax.KindCallExpr}
}

func (c *errorf) VisitNode(fc *lint.FileContext, n ast.Node) error {
	call := n.(*ast.CallExpr)
	if _, ok := astutil.PkgFunc(fc.AST(), call.Fun, "errors", "New"); !ok || len(call.Args) != 1 {
		return nil
	}
	inner, ok := ast.Unparen(call.Args[0]).(*ast.CallExpr)
	if !ok {
		return nil
	}
	if _, ok := astutil.PkgFunc(fc.AST(), inner.Fun, "fmt", "Sprintf"); !ok {
		return nil
	}
	fc.Reportf(c, call, "use fmt.Errorf(...) instead of errors.New(fmt.Sprintf(...))")
	return nil
}
