// Package astutil provides go/ast helpers shared by lint rules.
//
// Files are parsed without object resolution, so helpers match on names and
// import paths only.
package astutil

import (
	"go/ast"
	"go/token"
	"path"
	"slices"
	"strconv"
)

// ImportName returns the name importPath is bound to in f. It reports false
// when the path is not imported or only imported for side effects or with a
// dot import.
func ImportName(f *ast.File, importPath string) (string, bool) {
	for _, spec := range f.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil || p != importPath {
			continue
		}
		if spec.Name != nil {
			switch spec.Name.Name {
			case "_", ".":
				return "", false
			default:
				return spec.Name.Name, true
			}
		}
		return defaultName(p), true
	}
	return "", false
}

// defaultName guesses the package name of an import path: its last element,
// skipping a major version suffix such as /v2.
func defaultName(importPath string) string {
	base := path.Base(importPath)
	if len(base) > 1 && base[0] == 'v' {
		if _, err := strconv.Atoi(base[1:]); err == nil {
			if dir := path.Dir(importPath); dir != "." {
				return path.Base(dir)
			}
		}
	}
	return base
}

// PkgFunc reports whether fun is a selector pkg.Name where pkg is the local
// name of importPath in f and Name is one of names. It returns the selected
// name.
func PkgFunc(f *ast.File, fun ast.Expr, importPath string, names ...string) (string, bool) {
	sel, ok := ast.Unparen(fun).(*ast.SelectorExpr)
	if !ok {
		return "", false
	}
	x, ok := sel.X.(*ast.Ident)
	if !ok {
		return "", false
	}
	local, ok := ImportName(f, importPath)
	if !ok || x.Name != local {
		return "", false
	}
	if len(names) > 0 && !slices.Contains(names, sel.Sel.Name) {
		return "", false
	}
	return sel.Sel.Name, true
}

// IsIdent reports whether e is the identifier name.
func IsIdent(e ast.Expr, name string) bool {
	id, ok := ast.Unparen(e).(*ast.Ident)
	return ok && id.Name == name
}

// IdentName returns the name of e if it is an identifier other than "_".
func IdentName(e ast.Expr) (string, bool) {
	id, ok := e.(*ast.Ident)
	if !ok || id.Name == "_" {
		return "", false
	}
	return id.Name, true
}

// IsIntLit reports whether e is the integer literal lit.
func IsIntLit(e ast.Expr, lit string) bool {
	bl, ok := ast.Unparen(e).(*ast.BasicLit)
	return ok && bl.Kind == token.INT && bl.Value == lit
}

// Mutates reports whether n assigns to, increments, decrements or takes the
// address of the identifier name anywhere below it.
func Mutates(n ast.Node, name string) bool {
	found := false
	ast.Inspect(n, func(n ast.Node) bool {
		if found {
			return false
		}
		switch s := n.(type) {
		case *ast.AssignStmt:
			for _, lhs := range s.Lhs {
				if IsIdent(lhs, name) {
					found = true
				}
			}
		case *ast.IncDecStmt:
			found = IsIdent(s.X, name)
		case *ast.UnaryExpr:
			found = s.Op == token.AND && IsIdent(s.X, name)
		}
		return !found
	})
	return found
}

// HasComment reports whether any comment of f lies within [from, to).
func HasComment(f *ast.File, from, to token.Pos) bool {
	for _, cg := range f.Comments {
		if cg.Pos() >= from && cg.End() <= to {
			return true
		}
	}
	return false
}
