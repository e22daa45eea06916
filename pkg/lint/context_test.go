package lint

import (
	"context"
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapcheck/internal/testutil"
	"github.com/leapstack-labs/leapcheck/pkg/syntax"
	"github.com/leapstack-labs/leapcheck/pkg/version"
)

func parseTestFile(t *testing.T, src string) *syntax.File {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "test.go", src, parser.ParseComments)
	require.NoError(t, err)
	return &syntax.File{Path: "test.go", Fset: fset, AST: f, Src: []byte(src)}
}

func TestFileContext_Version(t *testing.T) {
	file := parseTestFile(t, "package p\n")

	fc := NewFileContext(context.Background(), file, version.Value(21), nil, testutil.NewTestLogger(t))
	v, ok := fc.Version()
	assert.True(t, ok)
	assert.Equal(t, 21, v)

	for _, s := range []version.Setting{version.Unset(), version.Invalid("null")} {
		fc := NewFileContext(context.Background(), file, s, nil, nil)
		v, ok := fc.Version()
		assert.False(t, ok, s.String())
		assert.Zero(t, v)
	}
}

func TestFileContext_Reporting(t *testing.T) {
	file := parseTestFile(t, "package p\n\nfunc F() {}\n")
	cfg := NewConfig().SetSeverity("T01", SeverityError).SetRuleOptions("T01", map[string]any{"n": 3})
	fc := NewFileContext(context.TODO(), file, version.Unset(), cfg, nil)

	assert.Equal(t, "test.go", fc.Path())
	assert.NotNil(t, fc.Context())
	assert.Equal(t, map[string]any{"n": 3}, fc.Options("T01"))
	assert.Nil(t, fc.Options("T02"))

	c := &describedCheck{Base: NewBase(RuleDef{ID: "T01", Severity: SeverityHint})}
	fn := fc.AST().Decls[0].(*ast.FuncDecl)
	fc.Reportf(c, fn, "function %s", fn.Name.Name)
	fc.Reportf(bareCheck{}, nil, "plain")

	issues := fc.Issues()
	require.Len(t, issues, 2)
	assert.Equal(t, "T01", issues[0].RuleID)
	assert.Equal(t, SeverityError, issues[0].Severity, "override applies")
	assert.Equal(t, "function F", issues[0].Message)
	assert.Equal(t, 3, issues[0].Pos.Line)
	assert.Equal(t, BuildDocURL("T01"), issues[0].DocumentationURL)

	assert.Equal(t, SeverityWarning, issues[1].Severity, "checks without metadata default to warning")
	assert.False(t, issues[1].Pos.IsValid())
}

// bareCheck implements Check without embedding Base.
type bareCheck struct{}

func (bareCheck) ID() string                            { return "B01" }
func (bareCheck) NodesToVisit() []syntax.Kind           { return nil }
func (bareCheck) StartFile(*FileContext) error          { return nil }
func (bareCheck) VisitNode(*FileContext, ast.Node) error { return nil }
func (bareCheck) EndFile(*FileContext) error            { return nil }

type faultyCheck struct {
	plainCheck
	startErr error
	panicOn  syntax.Kind
}

func (c *faultyCheck) StartFile(*FileContext) error { return c.startErr }

func (c *faultyCheck) VisitNode(_ *FileContext, n ast.Node) error {
	if syntax.KindOf(n) == c.panicOn {
		panic("boom")
	}
	return nil
}

func TestRunHook(t *testing.T) {
	file := parseTestFile(t, "package p\n\nfunc F() {}\n")
	fc := NewFileContext(context.Background(), file, version.Unset(), nil, nil)
	fn := file.AST.Decls[0]

	cause := errors.New("start failed")
	c := &faultyCheck{plainCheck: plainCheck{id: "F1"}, startErr: cause, panicOn: syntax.KindFuncDecl}

	err := RunHook(c, HookStart, fc, nil)
	var ce *CheckError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "F1", ce.CheckID)
	assert.Equal(t, HookStart, ce.Hook)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "test.go")

	err = RunHook(c, HookVisit, fc, fn)
	require.ErrorAs(t, err, &ce)
	var pe *PanicError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "boom", pe.Value)
	assert.Equal(t, 3, ce.Pos.Line)

	assert.NoError(t, RunHook(c, HookEnd, fc, nil))
	assert.Error(t, RunHook(c, Hook("bogus"), fc, nil))
}

func TestDecodeOptions(t *testing.T) {
	type opts struct {
		Max   int      `mapstructure:"max"`
		Names []string `mapstructure:"names"`
	}

	o := opts{Max: 5}
	require.NoError(t, DecodeOptions(nil, &o))
	assert.Equal(t, 5, o.Max)

	require.NoError(t, DecodeOptions(map[string]any{"max": "7", "names": []any{"a"}}, &o))
	assert.Equal(t, 7, o.Max)
	assert.Equal(t, []string{"a"}, o.Names)

	err := DecodeOptions(map[string]any{"unknown": 1}, &o)
	assert.Error(t, err)
}

func TestOptionHelpers(t *testing.T) {
	opts := map[string]any{"s": []any{"x", 1, "y"}, "b": true, "n": 3}
	assert.Equal(t, []string{"d"}, GetStringSliceOption(opts, "n", []string{"d"}))
	assert.False(t, GetOption(opts, "n", false), "wrong type falls back")
	assert.Equal(t, []string{"x", "y"}, GetStringSliceOption(opts, "s", nil))
	assert.True(t, GetOption(opts, "b", false))
	assert.Equal(t, "d", GetOption(nil, "b", "d"))
}

func TestSeverity(t *testing.T) {
	for _, s := range []Severity{SeverityError, SeverityWarning, SeverityInfo, SeverityHint} {
		parsed, ok := ParseSeverity(s.String())
		assert.True(t, ok)
		assert.Equal(t, s, parsed)
	}
	_, ok := ParseSeverity("fatal")
	assert.False(t, ok)
	assert.Equal(t, "unknown", Severity(42).String())
}

func TestBuildDocURL(t *testing.T) {
	defer ResetDocsBaseURL()
	assert.Equal(t, DefaultDocsBaseURL+"/gm01", BuildDocURL("GM01"))
	SetDocsBaseURL("http://localhost:8080/rules/")
	assert.Equal(t, "http://localhost:8080/rules/gm01", BuildDocURL("GM01"))
}
