package style

import (
	"go/ast"
	"go/types"
	"slices"

	"github.com/leapstack-labs/leapcheck/pkg/lint"
	"github.com/leapstack-labs/leapcheck/pkg/lint/internal/astutil"
	"github.com/leapstack-labs/leapcheck/pkg/syntax"
)

func init() {
	lint.Register(newContextFirst())
}

// ContextFirst flags functions whose context.Context parameter is not first.
var ContextFirst = lint.RuleDef{
	ID:          "GS03",
	Name:        "style.context_first",
	Group:       "style",
	Description: "context.Context should be the first parameter.",
	Severity:    lint.SeverityWarning,
	ConfigKeys:  []string{"exempt", "allow_after"},
	Rationale:   "Putting ctx first is a near universal convention and makes call sites uniform.",
	BadExample:  "func Fetch(id string, ctx context.Context) error",
	GoodExample: "func Fetch(ctx context.Context, id string) error",
}

// contextFirstOptions configures GS03.
type contextFirstOptions struct {
	// Exempt lists function names the rule ignores.
	Exempt []string `mapstructure:"exempt"`
	// AllowAfter lists parameter types that may precede the context,
	// written as in source, e.g. "*testing.T".
	AllowAfter []string `mapstructure:"allow_after"`
}

func defaultContextFirstOptions() contextFirstOptions {
	return contextFirstOptions{AllowAfter: []string{"*testing.T", "*testing.B", "testing.TB"}}
}

type contextFirst struct {
	lint.Base
}

func newContextFirst() lint.Check {
	return &contextFirst{Base: lint.NewBase(ContextFirst)}
}

func (*contextFirst) NodesToVisit() []syntax.Kind {
	return []syntax.Kind{syntax.KindFuncDecl}
}

func (c *contextFirst) VisitNode(fc *lint.FileContext, n ast.Node) error {
	fn := n.(*ast.FuncDecl)
	params := fn.Type.Params.List

	// Flatten (a, b T) into one entry per name.
	var paramTypes []ast.Expr
	for _, field := range params {
		count := max(len(field.Names), 1)
		for range count {
			paramTypes = append(paramTypes, field.Type)
		}
	}

	idx := slices.IndexFunc(paramTypes, func(e ast.Expr) bool {
		_, ok := astutil.PkgFunc(fc.AST(), e, "context", "Context")
		return ok
	})
	if idx <= 0 {
		return nil
	}

	opts := defaultContextFirstOptions()
	if err := lint.DecodeOptions(fc.Options(c.ID()), &opts); err != nil {
		return err
	}
	if slices.Contains(opts.Exempt, fn.Name.Name) {
		return nil
	}
	allowed := true
	for _, e := range paramTypes[:idx] {
		if !slices.Contains(opts.AllowAfter, types.ExprString(e)) {
			allowed = false
			break
		}
	}
	if allowed {
		return nil
	}

	fc.Reportf(c, fn.Name, "context.Context should be the first parameter of %s", fn.Name.Name)
	return nil
}
