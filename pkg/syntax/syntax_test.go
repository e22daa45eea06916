package syntax

import (
	"errors"
	"go/ast"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindIfStmt, KindOf(&ast.IfStmt{}))
	assert.Equal(t, KindFile, KindOf(&ast.File{}))
	assert.Equal(t, KindUnknown, KindOf(nil))

	for _, k := range Kinds() {
		assert.True(t, k.Valid())
		assert.Equal(t, k, KindOf(k.Prototype()), "prototype of %s", k)
		parsed, ok := ParseKind(k.String())
		assert.True(t, ok)
		assert.Equal(t, k, parsed)
	}

	_, ok := ParseKind("Nope")
	assert.False(t, ok)
	assert.Nil(t, KindUnknown.Prototype())
	assert.Equal(t, "Unknown", Kind(200).String())
}

func TestGoParser(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.go", "package p\n\nfunc F() {}\n")
	bad := writeFile(t, dir, "bad.go", "package p\n\nfunc {\n")

	p, err := NewGoParser("")
	require.NoError(t, err)

	f, err := p.Parse(good)
	require.NoError(t, err)
	assert.Equal(t, "p", f.AST.Name.Name)
	assert.Equal(t, good, f.Path)

	_, err = p.Parse(bad)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, bad, perr.Path)

	_, err = p.Parse(filepath.Join(dir, "missing.go"))
	require.ErrorAs(t, err, &perr)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestGoParserEncoding(t *testing.T) {
	_, err := NewGoParser("not-an-encoding")
	require.Error(t, err)

	p, err := NewGoParser("utf-8")
	require.NoError(t, err)
	assert.Nil(t, p.enc)

	latin1, err := NewGoParser("iso-8859-1")
	require.NoError(t, err)

	// "é" in Latin-1 is a single 0xE9 byte
	src := []byte("package p\n\nconst S = \"caf\xe9\"\n")
	f, err := latin1.ParseSource("latin1.go", src)
	require.NoError(t, err)
	assert.Contains(t, string(f.Src), "café")
}

func TestDetectGoVersion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/m\n\ngo 1.22\n")
	sub := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	v, err := DetectGoVersion(sub)
	require.NoError(t, err)
	assert.Equal(t, "1.22", v)

	noGo := t.TempDir()
	writeFile(t, noGo, "go.mod", "module example.com/n\n")
	v, err = DetectGoVersion(noGo)
	require.NoError(t, err)
	assert.Empty(t, v)

	bad := t.TempDir()
	writeFile(t, bad, "go.mod", "module example.com/b\n\ngo banana\n")
	_, err = DetectGoVersion(bad)
	var modErr *GoModError
	require.ErrorAs(t, err, &modErr)
	assert.Equal(t, "banana", modErr.Raw)
	assert.Equal(t, filepath.Join(bad, "go.mod"), modErr.Path)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.go", "package p")
	writeFile(t, dir, "a.go", "package p")
	writeFile(t, dir, "a_test.go", "package p")
	writeFile(t, dir, "gen/zz_generated.go", "package gen")
	writeFile(t, dir, "vendor/v/v.go", "package v")
	writeFile(t, dir, "testdata/t.go", "package t")
	writeFile(t, dir, ".hidden/h.go", "package h")
	writeFile(t, dir, "README.md", "# hi")

	files, err := Discover([]string{dir}, DiscoverOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.go"),
		filepath.Join(dir, "b.go"),
		filepath.Join(dir, "gen", "zz_generated.go"),
	}, files)

	files, err = Discover([]string{dir}, DiscoverOptions{Tests: true, Exclude: []string{"zz_*.go"}})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.go"),
		filepath.Join(dir, "a_test.go"),
		filepath.Join(dir, "b.go"),
	}, files)

	files, err = Discover([]string{dir, filepath.Join(dir, "a.go")}, DiscoverOptions{Include: []string{"gen/*"}})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "gen", "zz_generated.go"),
		filepath.Join(dir, "a.go"),
	}, files)
}

func TestDiscover_KeepsArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.go", "package p")
	b := writeFile(t, dir, "b.go", "package p")
	writeFile(t, dir, "sub/d.go", "package sub")
	writeFile(t, dir, "sub/c.go", "package sub")

	files, err := Discover([]string{b, a, filepath.Join(dir, "sub"), b}, DiscoverOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		b,
		a,
		filepath.Join(dir, "sub", "c.go"),
		filepath.Join(dir, "sub", "d.go"),
	}, files, "explicit files keep their order, walked directories are sorted")
}
