package astutil

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *ast.File {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), "x.go", src, parser.ParseComments)
	require.NoError(t, err)
	return f
}

func TestImportName(t *testing.T) {
	f := parse(t, `package p

import (
	"sort"
	str "strings"
	_ "embed"
	. "fmt"
	"math/rand/v2"
)
`)
	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"sort", "sort", true},
		{"strings", "str", true},
		{"embed", "", false},
		{"fmt", "", false},
		{"math/rand/v2", "rand", true},
		{"errors", "", false},
	}
	for _, tt := range tests {
		got, ok := ImportName(f, tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}
}

func TestPkgFunc(t *testing.T) {
	f := parse(t, `package p

import s "sort"

var _ = s.Strings
var _ = sort.Ints
var _ = (s.Slice)
`)
	exprs := make([]ast.Expr, 0, 3)
	for _, d := range f.Decls[1:] {
		exprs = append(exprs, d.(*ast.GenDecl).Specs[0].(*ast.ValueSpec).Values[0])
	}

	name, ok := PkgFunc(f, exprs[0], "sort", "Strings", "Ints")
	assert.True(t, ok)
	assert.Equal(t, "Strings", name)

	_, ok = PkgFunc(f, exprs[1], "sort")
	assert.False(t, ok, "sort is bound to s")

	name, ok = PkgFunc(f, exprs[2], "sort")
	assert.True(t, ok)
	assert.Equal(t, "Slice", name)

	_, ok = PkgFunc(f, exprs[2], "sort", "Strings")
	assert.False(t, ok)
}

func TestMutates(t *testing.T) {
	f := parse(t, `package p

func a(i int) { i = 2 }
func b(i int) { i++ }
func c(i int) { _ = &i }
func d(i int) { j := i; _ = j }
`)
	want := []bool{true, true, true, false}
	for n, decl := range f.Decls {
		assert.Equal(t, want[n], Mutates(decl.(*ast.FuncDecl).Body, "i"), decl.(*ast.FuncDecl).Name.Name)
	}
}

func TestHasComment(t *testing.T) {
	f := parse(t, `package p

func a() {
	// nothing yet
}

func b() {}
`)
	a := f.Decls[0].(*ast.FuncDecl).Body
	b := f.Decls[1].(*ast.FuncDecl).Body
	assert.True(t, HasComment(f, a.Lbrace, a.Rbrace))
	assert.False(t, HasComment(f, b.Lbrace, b.Rbrace))
}

func TestIsIntLit(t *testing.T) {
	assert.True(t, IsIntLit(&ast.BasicLit{Kind: token.INT, Value: "0"}, "0"))
	assert.False(t, IsIntLit(&ast.BasicLit{Kind: token.STRING, Value: "0"}, "0"))
	assert.False(t, IsIntLit(ast.NewIdent("x"), "0"))
}
