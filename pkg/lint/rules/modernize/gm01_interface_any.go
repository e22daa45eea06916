package modernize

import (
	"go/ast"

	"github.com/leapstack-labs/leapcheck/pkg/lint"
	"github.com/leapstack-labs/leapcheck/pkg/lint/internal/astutil"
	"github.com/leapstack-labs/leapcheck/pkg/syntax"
	"github.com/leapstack-labs/leapcheck/pkg/version"
)

func init() {
	lint.Register(newInterfaceAny())
}

// InterfaceAny suggests the predeclared any over an empty interface literal.
var InterfaceAny = lint.RuleDef{
	ID:          "GM01",
	Name:        "modernize.interface_any",
	Group:       "modernize",
	Description: "Empty interface literal can be written as any.",
	Severity:    lint.SeverityInfo,
	Rationale:   "any is an alias for interface{} since go1.18 and reads better in signatures and type arguments.",
	BadExample:  "func Print(v interface{})",
	GoodExample: "func Print(v any)",
}

type interfaceAny struct {
	lint.Base
}

func newInterfaceAny() lint.Check {
	return &interfaceAny{Base: lint.NewBase(InterfaceAny)}
}

func (*interfaceAny) NodesToVisit() []syntax.Kind {
	return []syntax.Kind{syntax.KindInterfaceType}
}

func (*interfaceAny) MinVersion() version.Spec { return version.Min(18) }

func (c *interfaceAny) VisitNode(fc *lint.FileContext, n ast.Node) error {
	it := n.(*ast.InterfaceType)
	if it.Methods != nil && len(it.Methods.List) > 0 {
		return nil
	}
	// interface{ /* reserved */ } says something any would not.
	if astutil.HasComment(fc.AST(), it.Pos(), it.End()) {
		return nil
	}
	fc.Reportf(c, it, "interface{} can be replaced by any")
	return nil
}
