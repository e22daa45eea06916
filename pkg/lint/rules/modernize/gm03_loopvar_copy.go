package modernize

import (
	"go/ast"
	"go/token"

	"github.com/leapstack-labs/leapcheck/pkg/lint"
	"github.com/leapstack-labs/leapcheck/pkg/syntax"
	"github.com/leapstack-labs/leapcheck/pkg/version"
)

func init() {
	lint.Register(newLoopVarCopy())
}

// LoopVarCopy flags x := x copies of loop variables.
var LoopVarCopy = lint.RuleDef{
	ID:          "GM03",
	Name:        "modernize.loopvar_copy",
	Group:       "modernize",
	Description: "Copy of a loop variable is redundant.",
	Severity:    lint.SeverityHint,
	Rationale:   "Since go1.22 each iteration declares fresh loop variables, so closures no longer need a private copy.",
	BadExample:  "for _, v := range items {\n\tv := v\n\tgo use(v)\n}",
	GoodExample: "for _, v := range items {\n\tgo use(v)\n}",
	Fix:         "Delete the copy.",
}

type loopVarCopy struct {
	lint.Base
}

func newLoopVarCopy() lint.Check {
	return &loopVarCopy{Base: lint.NewBase(LoopVarCopy)}
}

func (*loopVarCopy) NodesToVisit() []syntax.Kind {
	return []syntax.Kind{syntax.KindRangeStmt, syntax.KindForStmt}
}

func (*loopVarCopy) MinVersion() version.Spec { return version.Min(22) }

func (c *loopVarCopy) VisitNode(fc *lint.FileContext, n ast.Node) error {
	vars := make(map[string]bool)
	var body *ast.BlockStmt

	switch loop := n.(type) {
	case *ast.RangeStmt:
		if loop.Tok != token.DEFINE {
			return nil
		}
		for _, e := range []ast.Expr{loop.Key, loop.Value} {
			if id, ok := e.(*ast.Ident); ok && id.Name != "_" {
				vars[id.Name] = true
			}
		}
		body = loop.Body
	case *ast.ForStmt:
		decl, ok := loop.Init.(*ast.AssignStmt)
		if !ok || decl.Tok != token.DEFINE {
			return nil
		}
		for _, e := range decl.Lhs {
			if id, ok := e.(*ast.Ident); ok && id.Name != "_" {
				vars[id.Name] = true
			}
		}
		body = loop.Body
	}
	if len(vars) == 0 || body == nil {
		return nil
	}

	for _, stmt := range body.List {
		as, ok := stmt.(*ast.AssignStmt)
		if !ok || as.Tok != token.DEFINE || len(as.Lhs) != len(as.Rhs) {
			continue
		}
		for i, lhs := range as.Lhs {
			l, ok := lhs.(*ast.Ident)
			if !ok || !vars[l.Name] {
				continue
			}
			if r, ok := as.Rhs[i].(*ast.Ident); ok && r.Name == l.Name {
				fc.Reportf(c, as, "copy of loop variable %s is redundant", l.Name)
			}
		}
	}
	return nil
}
