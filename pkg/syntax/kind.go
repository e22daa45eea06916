package syntax

import (
	"go/ast"
	"reflect"
)

// Kind identifies a concrete go/ast node type.
type Kind uint8

// Node kinds. KindUnknown is never produced for nodes of the standard go/ast
// package.
const (
	KindUnknown Kind = iota

	KindComment
	KindCommentGroup
	KindField
	KindFieldList

	KindBadExpr
	KindIdent
	KindEllipsis
	KindBasicLit
	KindFuncLit
	KindCompositeLit
	KindParenExpr
	KindSelectorExpr
	KindIndexExpr
	KindIndexListExpr
	KindSliceExpr
	KindTypeAssertExpr
	KindCallExpr
	KindStarExpr
	KindUnaryExpr
	KindBinaryExpr
	KindKeyValueExpr
	KindArrayType
	KindStructType
	KindFuncType
	KindInterfaceType
	KindMapType
	KindChanType

	KindBadStmt
	KindDeclStmt
	KindEmptyStmt
	KindLabeledStmt
	KindExprStmt
	KindSendStmt
	KindIncDecStmt
	KindAssignStmt
	KindGoStmt
	KindDeferStmt
	KindReturnStmt
	KindBranchStmt
	KindBlockStmt
	KindIfStmt
	KindCaseClause
	KindSwitchStmt
	KindTypeSwitchStmt
	KindCommClause
	KindSelectStmt
	KindForStmt
	KindRangeStmt

	KindImportSpec
	KindValueSpec
	KindTypeSpec

	KindBadDecl
	KindGenDecl
	KindFuncDecl

	KindFile

	kindCount
)

type kindEntry struct {
	name  string
	proto ast.Node
}

var kindTable = [kindCount]kindEntry{
	KindUnknown: {name: "Unknown"},

	KindComment:      {"Comment", (*ast.Comment)(nil)},
	KindCommentGroup: {"CommentGroup", (*ast.CommentGroup)(nil)},
	KindField:        {"Field", (*ast.Field)(nil)},
	KindFieldList:    {"FieldList", (*ast.FieldList)(nil)},

	KindBadExpr:        {"BadExpr", (*ast.BadExpr)(nil)},
	KindIdent:          {"Ident", (*ast.Ident)(nil)},
	KindEllipsis:       {"Ellipsis", (*ast.Ellipsis)(nil)},
	KindBasicLit:       {"BasicLit", (*ast.BasicLit)(nil)},
	KindFuncLit:        {"FuncLit", (*ast.FuncLit)(nil)},
	KindCompositeLit:   {"CompositeLit", (*ast.CompositeLit)(nil)},
	KindParenExpr:      {"ParenExpr", (*ast.ParenExpr)(nil)},
	KindSelectorExpr:   {"SelectorExpr", (*ast.SelectorExpr)(nil)},
	KindIndexExpr:      {"IndexExpr", (*ast.IndexExpr)(nil)},
	KindIndexListExpr:  {"IndexListExpr", (*ast.IndexListExpr)(nil)},
	KindSliceExpr:      {"SliceExpr", (*ast.SliceExpr)(nil)},
	KindTypeAssertExpr: {"TypeAssertExpr", (*ast.TypeAssertExpr)(nil)},
	KindCallExpr:       {"CallExpr", (*ast.CallExpr)(nil)},
	KindStarExpr:       {"StarExpr", (*ast.StarExpr)(nil)},
	KindUnaryExpr:      {"UnaryExpr", (*ast.UnaryExpr)(nil)},
	KindBinaryExpr:     {"BinaryExpr", (*ast.BinaryExpr)(nil)},
	KindKeyValueExpr:   {"KeyValueExpr", (*ast.KeyValueExpr)(nil)},
	KindArrayType:      {"ArrayType", (*ast.ArrayType)(nil)},
	KindStructType:     {"StructType", (*ast.StructType)(nil)},
	KindFuncType:       {"FuncType", (*ast.FuncType)(nil)},
	KindInterfaceType:  {"InterfaceType", (*ast.InterfaceType)(nil)},
	KindMapType:        {"MapType", (*ast.MapType)(nil)},
	KindChanType:       {"ChanType", (*ast.ChanType)(nil)},

	KindBadStmt:        {"BadStmt", (*ast.BadStmt)(nil)},
	KindDeclStmt:       {"DeclStmt", (*ast.DeclStmt)(nil)},
	KindEmptyStmt:      {"EmptyStmt", (*ast.EmptyStmt)(nil)},
	KindLabeledStmt:    {"LabeledStmt", (*ast.LabeledStmt)(nil)},
	KindExprStmt:       {"ExprStmt", (*ast.ExprStmt)(nil)},
	KindSendStmt:       {"SendStmt", (*ast.SendStmt)(nil)},
	KindIncDecStmt:     {"IncDecStmt", (*ast.IncDecStmt)(nil)},
	KindAssignStmt:     {"AssignStmt", (*ast.AssignStmt)(nil)},
	KindGoStmt:         {"GoStmt", (*ast.GoStmt)(nil)},
	KindDeferStmt:      {"DeferStmt", (*ast.DeferStmt)(nil)},
	KindReturnStmt:     {"ReturnStmt", (*ast.ReturnStmt)(nil)},
	KindBranchStmt:     {"BranchStmt", (*ast.BranchStmt)(nil)},
	KindBlockStmt:      {"BlockStmt", (*ast.BlockStmt)(nil)},
	KindIfStmt:         {"IfStmt", (*ast.IfStmt)(nil)},
	KindCaseClause:     {"CaseClause", (*ast.CaseClause)(nil)},
	KindSwitchStmt:     {"SwitchStmt", (*ast.SwitchStmt)(nil)},
	KindTypeSwitchStmt: {"TypeSwitchStmt", (*ast.TypeSwitchStmt)(nil)},
	KindCommClause:     {"CommClause", (*ast.CommClause)(nil)},
	KindSelectStmt:     {"SelectStmt", (*ast.SelectStmt)(nil)},
	KindForStmt:        {"ForStmt", (*ast.ForStmt)(nil)},
	KindRangeStmt:      {"RangeStmt", (*ast.RangeStmt)(nil)},

	KindImportSpec: {"ImportSpec", (*ast.ImportSpec)(nil)},
	KindValueSpec:  {"ValueSpec", (*ast.ValueSpec)(nil)},
	KindTypeSpec:   {"TypeSpec", (*ast.TypeSpec)(nil)},

	KindBadDecl:  {"BadDecl", (*ast.BadDecl)(nil)},
	KindGenDecl:  {"GenDecl", (*ast.GenDecl)(nil)},
	KindFuncDecl: {"FuncDecl", (*ast.FuncDecl)(nil)},

	KindFile: {"File", (*ast.File)(nil)},
}

var kindsByType = func() map[reflect.Type]Kind {
	m := make(map[reflect.Type]Kind, kindCount)
	for k := KindUnknown + 1; k < kindCount; k++ {
		m[reflect.TypeOf(kindTable[k].proto)] = k
	}
	return m
}()

// KindOf returns the kind of n, or KindUnknown for nil and foreign node types.
func KindOf(n ast.Node) Kind {
	if n == nil {
		return KindUnknown
	}
	return kindsByType[reflect.TypeOf(n)]
}

// String returns the go/ast type name of the kind.
func (k Kind) String() string {
	if k >= kindCount {
		return "Unknown"
	}
	return kindTable[k].name
}

// Valid reports whether k names a concrete node type.
func (k Kind) Valid() bool {
	return k > KindUnknown && k < kindCount
}

// Prototype returns a typed nil node of kind k, the form
// golang.org/x/tools/go/ast/inspector expects in its type filters.
// It returns nil for invalid kinds.
func (k Kind) Prototype() ast.Node {
	if !k.Valid() {
		return nil
	}
	return kindTable[k].proto
}

// ParseKind looks a kind up by its go/ast type name, e.g. "IfStmt".
func ParseKind(name string) (Kind, bool) {
	for k := KindUnknown + 1; k < kindCount; k++ {
		if kindTable[k].name == name {
			return k, true
		}
	}
	return KindUnknown, false
}

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := KindUnknown + 1; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}
