package scan

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapcheck/internal/testutil"
	"github.com/leapstack-labs/leapcheck/pkg/lint"
	"github.com/leapstack-labs/leapcheck/pkg/syntax"
	"github.com/leapstack-labs/leapcheck/pkg/version"
)

// memParser serves sources from memory.
type memParser struct {
	src map[string]string
}

func (p memParser) Parse(path string) (*syntax.File, error) {
	src, ok := p.src[path]
	if !ok {
		return nil, &syntax.ParseError{Path: path, Err: os.ErrNotExist}
	}
	gp, err := syntax.NewGoParser("")
	if err != nil {
		return nil, err
	}
	return gp.ParseSource(path, []byte(src))
}

// funcCheck reports every function declaration.
type funcCheck struct {
	lint.Base
	id string
}

func (c *funcCheck) ID() string                  { return c.id }
func (c *funcCheck) NodesToVisit() []syntax.Kind { return []syntax.Kind{syntax.KindFuncDecl} }

func (c *funcCheck) VisitNode(fc *lint.FileContext, n ast.Node) error {
	fc.Reportf(c, n, "%s saw %s", c.id, n.(*ast.FuncDecl).Name.Name)
	return nil
}

// minCheck is a funcCheck that needs go1.<min>.
type minCheck struct {
	funcCheck
	min int
}

func (c *minCheck) MinVersion() version.Spec { return version.Min(c.min) }

// contextualCheck reports the version its file context carries.
type contextualCheck struct {
	lint.Base
}

func (contextualCheck) ID() string                  { return "contextual" }
func (contextualCheck) NodesToVisit() []syntax.Kind { return nil }

func (c contextualCheck) StartFile(fc *lint.FileContext) error {
	label := "unset"
	if v, ok := fc.Version(); ok {
		label = fmt.Sprint(v)
	}
	fc.Reportf(c, nil, "ContextualCheck_%s", label)
	return nil
}

func fourChecks() []lint.Check {
	return []lint.Check{
		&minCheck{funcCheck: funcCheck{id: "V7"}, min: 7},
		&minCheck{funcCheck: funcCheck{id: "V8"}, min: 8},
		&funcCheck{id: "simple"},
		contextualCheck{},
	}
}

func newScanner(t *testing.T, src map[string]string, checks ...lint.Check) *Scanner {
	t.Helper()
	reg := lint.NewRegistry()
	require.NoError(t, reg.Register(checks...))
	return New(Options{Registry: reg, Parser: memParser{src: src}, Logger: testutil.NewTestLogger(t)})
}

func messages(issues []lint.Issue) []string {
	out := make([]string, len(issues))
	for i, is := range issues {
		out[i] = is.Message
	}
	return out
}

func TestScan_VersionGating(t *testing.T) {
	src := map[string]string{"a.go": "package a\n\nfunc F() {}\n"}

	tests := []struct {
		name     string
		target   version.Setting
		eligible []string
		messages []string
	}{
		{
			name:     "unset",
			target:   version.Unset(),
			eligible: []string{"V7", "V8", "simple", "contextual"},
			messages: []string{"ContextualCheck_unset", "V7 saw F", "V8 saw F", "simple saw F"},
		},
		{
			name:     "invalid",
			target:   version.ParseSetting("null"),
			eligible: []string{"V7", "V8", "simple", "contextual"},
			messages: []string{"ContextualCheck_unset", "V7 saw F", "V8 saw F", "simple saw F"},
		},
		{
			name:     "7",
			target:   version.Value(7),
			eligible: []string{"V7", "simple", "contextual"},
			messages: []string{"ContextualCheck_7", "V7 saw F", "simple saw F"},
		},
		{
			name:     "8",
			target:   version.Value(8),
			eligible: []string{"V7", "V8", "simple", "contextual"},
			messages: []string{"ContextualCheck_8", "V7 saw F", "V8 saw F", "simple saw F"},
		},
		{
			name:     "6",
			target:   version.Value(6),
			eligible: []string{"simple", "contextual"},
			messages: []string{"ContextualCheck_6", "simple saw F"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newScanner(t, src, fourChecks()...)
			cfg := &RunConfig{}
			cfg.SetTargetVersion(tt.target)

			report, err := s.Scan(context.Background(), []string{"a.go"}, cfg)
			require.NoError(t, err)

			assert.Equal(t, tt.eligible, report.Eligible)
			require.Len(t, report.Files, 1)
			assert.Equal(t, StateDone, report.Files[0].State)
			assert.Equal(t, tt.eligible, report.Files[0].Checks)
			assert.Equal(t, tt.messages, messages(report.Files[0].Issues))
			assert.NotEmpty(t, report.RunID)
		})
	}
}

// tracer logs every hook call with the file context it received.
type tracer struct {
	lint.Base
	mu       sync.Mutex
	events   []string
	contexts map[string]*lint.FileContext
}

func (*tracer) ID() string                  { return "tracer" }
func (*tracer) NodesToVisit() []syntax.Kind { return []syntax.Kind{syntax.KindFuncDecl} }

func (tr *tracer) record(fc *lint.FileContext, event string) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if tr.contexts == nil {
		tr.contexts = make(map[string]*lint.FileContext)
	}
	if prev, ok := tr.contexts[fc.Path()]; ok && prev != fc {
		return errors.New("file context changed within a file")
	}
	tr.contexts[fc.Path()] = fc
	tr.events = append(tr.events, fc.Path()+":"+event)
	return nil
}

func (tr *tracer) StartFile(fc *lint.FileContext) error { return tr.record(fc, "start") }
func (tr *tracer) EndFile(fc *lint.FileContext) error   { return tr.record(fc, "end") }
func (tr *tracer) VisitNode(fc *lint.FileContext, n ast.Node) error {
	return tr.record(fc, "visit "+n.(*ast.FuncDecl).Name.Name)
}

func TestScan_HookOrderAndFreshContexts(t *testing.T) {
	src := map[string]string{
		"a.go": "package a\n\nfunc A1() {}\nfunc A2() {}\n",
		"b.go": "package b\n\nfunc B1() {}\n",
	}
	tr := &tracer{}
	s := newScanner(t, src, tr)

	_, err := s.Scan(context.Background(), []string{"a.go", "b.go"}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"a.go:start", "a.go:visit A1", "a.go:visit A2", "a.go:end",
		"b.go:start", "b.go:visit B1", "b.go:end",
	}, tr.events)
	assert.NotSame(t, tr.contexts["a.go"], tr.contexts["b.go"])
}

func TestScan_ParseFailureContinues(t *testing.T) {
	src := map[string]string{
		"good1.go": "package a\n\nfunc One() {}\n",
		"bad.go":   "package a\n\nfunc {",
		"good2.go": "package a\n\nfunc Two() {}\n",
	}
	s := newScanner(t, src, &funcCheck{id: "simple"})

	report, err := s.Scan(context.Background(), []string{"good1.go", "bad.go", "missing.go", "good2.go"}, nil)
	require.NoError(t, err, "parse failures are not run errors")

	states := make([]State, len(report.Files))
	for i, f := range report.Files {
		states[i] = f.State
	}
	assert.Equal(t, []State{StateDone, StateParseFailed, StateParseFailed, StateDone}, states)
	assert.Equal(t, []string{"simple saw One", "simple saw Two"}, messages(report.Issues()))

	failures := report.Failures()
	require.Len(t, failures, 2)
	var pe *syntax.ParseError
	assert.ErrorAs(t, failures[0].Err, &pe)
	assert.Equal(t, "bad.go", pe.Path)
	assert.NotEmpty(t, failures[1].Error)
}

// picky fails in the given hook for one file.
type picky struct {
	lint.Base
	file string
	hook lint.Hook
}

func (*picky) ID() string                  { return "picky" }
func (*picky) NodesToVisit() []syntax.Kind { return []syntax.Kind{syntax.KindFuncDecl} }

func (p *picky) fail(fc *lint.FileContext, hook lint.Hook) error {
	if fc.Path() == p.file && hook == p.hook {
		return errors.New("cannot cope")
	}
	return nil
}

func (p *picky) StartFile(fc *lint.FileContext) error { return p.fail(fc, lint.HookStart) }
func (p *picky) EndFile(fc *lint.FileContext) error   { return p.fail(fc, lint.HookEnd) }
func (p *picky) VisitNode(fc *lint.FileContext, _ ast.Node) error {
	return p.fail(fc, lint.HookVisit)
}

func TestScan_CheckFailureIsFatalForFileOnly(t *testing.T) {
	src := map[string]string{
		"a.go": "package a\n\nfunc A() {}\n",
		"b.go": "package a\n\nfunc B() {}\n",
		"c.go": "package a\n\nfunc C() {}\n",
	}

	for _, hook := range []lint.Hook{lint.HookStart, lint.HookVisit, lint.HookEnd} {
		t.Run(string(hook), func(t *testing.T) {
			s := newScanner(t, src, &funcCheck{id: "simple"}, &picky{file: "b.go", hook: hook})

			report, err := s.Scan(context.Background(), []string{"a.go", "b.go", "c.go"}, nil)
			require.Error(t, err)

			var ce *lint.CheckError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, "picky", ce.CheckID)
			assert.Equal(t, hook, ce.Hook)
			assert.Equal(t, "b.go", ce.Path)

			assert.Equal(t, StateDone, report.Files[0].State)
			assert.Equal(t, StateCheckFailed, report.Files[1].State)
			assert.Empty(t, report.Files[1].Issues, "issues of a failed file are dropped")
			assert.Equal(t, StateDone, report.Files[2].State)
			assert.Equal(t, []string{"simple saw A", "simple saw C"}, messages(report.Issues()))
			assert.True(t, report.HasErrors())
		})
	}
}

// versionFlipper changes the run configuration it was given while scanning.
type versionFlipper struct {
	lint.Base
	cfg  *RunConfig
	seen []string
}

func (*versionFlipper) ID() string                  { return "flipper" }
func (*versionFlipper) NodesToVisit() []syntax.Kind { return nil }

func (f *versionFlipper) StartFile(fc *lint.FileContext) error {
	v, _ := fc.Version()
	f.seen = append(f.seen, fmt.Sprint(v))
	f.cfg.SetTargetVersion(version.Value(99))
	return nil
}

func TestScan_ConfigIsReadOnceAtStart(t *testing.T) {
	src := map[string]string{
		"a.go": "package a\n",
		"b.go": "package a\n",
	}
	cfg := &RunConfig{TargetVersion: version.Value(21)}
	flip := &versionFlipper{cfg: cfg}
	s := newScanner(t, src, flip)

	report, err := s.Scan(context.Background(), []string{"a.go", "b.go"}, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"21", "21"}, flip.seen)
	assert.Equal(t, "go1.21", report.TargetVersion)

	report, err = s.Scan(context.Background(), []string{"a.go"}, cfg)
	require.NoError(t, err)
	assert.Equal(t, "go1.99", report.TargetVersion, "later scans see the change")
}

func TestScan_DisabledRules(t *testing.T) {
	src := map[string]string{"a.go": "package a\n\nfunc F() {}\n"}
	reg := lint.NewRegistry()
	require.NoError(t, reg.Register(fourChecks()...))
	s := New(Options{
		Registry: reg,
		Config:   lint.NewConfig().Disable("simple").SetSeverity("V7", lint.SeverityHint),
		Parser:   memParser{src: src},
	})

	report, err := s.Scan(context.Background(), []string{"a.go"}, &RunConfig{TargetVersion: version.Value(7)})
	require.NoError(t, err)
	assert.Equal(t, []string{"V7", "contextual"}, report.Eligible)
	require.Len(t, report.Files[0].Issues, 2)
	assert.Equal(t, "V7 saw F", report.Files[0].Issues[1].Message)
	assert.Equal(t, lint.SeverityHint, report.Files[0].Issues[1].Severity)
}

func TestScan_EmptyRegistry(t *testing.T) {
	s := newScanner(t, map[string]string{"a.go": "package a\n"})
	report, err := s.Scan(context.Background(), []string{"a.go"}, &RunConfig{TargetVersion: version.Value(21)})
	require.NoError(t, err)
	assert.Empty(t, report.Eligible)
	assert.Equal(t, StateDone, report.Files[0].State)
	assert.Empty(t, report.Files[0].Issues)
}

func TestScan_Cancelled(t *testing.T) {
	s := newScanner(t, map[string]string{"a.go": "package a\n"}, &funcCheck{id: "simple"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := s.Scan(ctx, []string{"a.go", "b.go"}, nil)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Equal(t, StateSkipped, report.Files[0].State)
	assert.Equal(t, StateSkipped, report.Files[1].State)
}

func TestScan_Parallel(t *testing.T) {
	src := make(map[string]string)
	var files []string
	for i := range 20 {
		name := fmt.Sprintf("f%02d.go", i)
		src[name] = fmt.Sprintf("package p\n\nfunc F%02d() {}\n", i)
		files = append(files, name)
	}
	src["broken.go"] = "package"
	files = append(files, "broken.go")

	reg := lint.NewRegistry()
	require.NoError(t, reg.Register(fourChecks()...))

	var calls int
	var mu sync.Mutex
	factory := func() []lint.Check {
		mu.Lock()
		calls++
		mu.Unlock()
		return fourChecks()
	}

	s := New(Options{Registry: reg, Parser: memParser{src: src}, Factory: factory})
	report, err := s.Scan(context.Background(), files, &RunConfig{TargetVersion: version.Value(7), Concurrency: 4})
	require.NoError(t, err)

	require.Len(t, report.Files, len(files))
	for i := range 20 {
		f := report.Files[i]
		assert.Equal(t, files[i], f.Path)
		assert.Equal(t, StateDone, f.State)
		assert.Equal(t, []string{"V7", "simple", "contextual"}, f.Checks)
		assert.Equal(t, []string{
			"ContextualCheck_7",
			fmt.Sprintf("V7 saw F%02d", i),
			fmt.Sprintf("simple saw F%02d", i),
		}, messages(f.Issues))
	}
	assert.Equal(t, StateParseFailed, report.Files[20].State)
	assert.Equal(t, len(files)+1, calls, "one batch per file plus validation")
}

func TestScan_ParallelNeedsFactory(t *testing.T) {
	s := newScanner(t, map[string]string{"a.go": "package a\n"}, &funcCheck{id: "simple"})
	_, err := s.Scan(context.Background(), []string{"a.go"}, &RunConfig{Concurrency: 2})
	assert.ErrorIs(t, err, ErrNoFactory)

	s = New(Options{Registry: s.registry, Parser: s.parser, Factory: func() []lint.Check { return nil }})
	_, err = s.Scan(context.Background(), []string{"a.go"}, &RunConfig{Concurrency: 2})
	assert.ErrorContains(t, err, "did not produce simple")
}

func TestScan_DefaultParserReadsDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "latin.go")
	// Identifier with an ISO-8859-1 "é".
	require.NoError(t, os.WriteFile(path, []byte("package p\n\nfunc Caf\xe9() {}\n"), 0o644))

	reg := lint.NewRegistry()
	require.NoError(t, reg.Register(&funcCheck{id: "simple"}))
	s := New(Options{Registry: reg})

	report, err := s.Scan(context.Background(), []string{path}, &RunConfig{Encoding: "latin1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"simple saw Café"}, messages(report.Files[0].Issues))

	_, err = s.Scan(context.Background(), []string{path}, &RunConfig{Encoding: "klingon"})
	assert.Error(t, err)
}

func TestScan_Logging(t *testing.T) {
	src := map[string]string{
		"a.go":   "package a\n\nfunc F() {}\n",
		"bad.go": "package",
	}
	reg := lint.NewRegistry()
	require.NoError(t, reg.Register(&funcCheck{id: "simple"}))
	logger, rec := testutil.NewLogRecorder()
	s := New(Options{Registry: reg, Parser: memParser{src: src}, Logger: logger})

	report, err := s.Scan(context.Background(), []string{"a.go", "bad.go"}, &RunConfig{TargetVersion: version.ParseSetting("latest")})
	require.NoError(t, err)

	unusable, ok := rec.Find("target version is not usable, running all checks")
	require.True(t, ok)
	assert.Equal(t, slog.LevelDebug, unusable.Level)
	assert.Equal(t, "latest", unusable.Attrs["target"])

	skipped, ok := rec.Find("skipping file")
	require.True(t, ok)
	assert.Equal(t, slog.LevelWarn, skipped.Level)
	assert.Equal(t, "bad.go", skipped.Attrs["file"])

	finished, ok := rec.Find("scan finished")
	require.True(t, ok)
	assert.Equal(t, report.RunID, finished.Attrs["run"])
	assert.Equal(t, "1", finished.Attrs["failures"])
}
