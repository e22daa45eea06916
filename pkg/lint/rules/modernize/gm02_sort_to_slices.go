package modernize

import (
	"go/ast"

	"github.com/leapstack-labs/leapcheck/pkg/lint"
	"github.com/leapstack-labs/leapcheck/pkg/lint/internal/astutil"
	"github.com/leapstack-labs/leapcheck/pkg/syntax"
	"github.com/leapstack-labs/leapcheck/pkg/version"
)

func init() {
	lint.Register(newSortToSlices())
}

// SortToSlices suggests the generic slices package over sort helpers.
var SortToSlices = lint.RuleDef{
	ID:          "GM02",
	Name:        "modernize.sort_to_slices",
	Group:       "modernize",
	Description: "sort package helper has a generic replacement in slices.",
	Severity:    lint.SeverityInfo,
	Rationale:   "The slices package (go1.21) is type safe and avoids the reflection and interface conversions of sort.Slice.",
	BadExample:  "sort.Slice(users, func(i, j int) bool { return users[i].Age < users[j].Age })",
	GoodExample: "slices.SortFunc(users, func(a, b User) int { return cmp.Compare(a.Age, b.Age) })",
}

// slicesReplacement maps sort helpers to their slices counterparts.
var slicesReplacement = map[string]string{
	"Ints":              "slices.Sort",
	"Strings":           "slices.Sort",
	"Float64s":          "slices.Sort",
	"IntsAreSorted":     "slices.IsSorted",
	"StringsAreSorted":  "slices.IsSorted",
	"Float64sAreSorted": "slices.IsSorted",
	"SearchInts":        "slices.BinarySearch",
	"SearchStrings":     "slices.BinarySearch",
	"SearchFloat64s":    "slices.BinarySearch",
	"Slice":             "slices.SortFunc",
	"SliceStable":       "slices.SortStableFunc",
	"SliceIsSorted":     "slices.IsSortedFunc",
}

type sortToSlices struct {
	lint.Base
}

func newSortToSlices() lint.Check {
	return &sortToSlices{Base: lint.NewBase(SortToSlices)}
}

func (*sortToSlices) NodesToVisit() []syntax.Kind {
	return []syntax.Kind{syntax.KindCallExpr}
}

func (*sortToSlices) MinVersion() version.Spec { return version.Min(21) }

func (c *sortToSlices) VisitNode(fc *lint.FileContext, n ast.Node) error {
	call := n.(*ast.CallExpr)
	name, ok := astutil.PkgFunc(fc.AST(), call.Fun, "sort")
	if !ok {
		return nil
	}
	repl, ok := slicesReplacement[name]
	if !ok {
		return nil
	}
	fc.Reportf(c, call, "sort.%s can be replaced by %s", name, repl)
	return nil
}
