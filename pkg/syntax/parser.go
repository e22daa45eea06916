package syntax

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// File is a parsed source file.
type File struct {
	Path string
	Fset *token.FileSet
	AST  *ast.File
	Src  []byte // UTF-8 source as handed to the parser
}

// Parser turns a file on disk into a syntax tree.
type Parser interface {
	Parse(path string) (*File, error)
}

// ParseError reports a file that could not be read, decoded or parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// GoParser parses Go source with go/parser.
type GoParser struct {
	enc  encoding.Encoding
	mode parser.Mode
}

// NewGoParser returns a parser for sources in the named encoding.
// An empty name or any UTF-8 alias means no transcoding.
func NewGoParser(encodingName string) (*GoParser, error) {
	enc, err := lookupEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	return &GoParser{enc: enc, mode: parser.ParseComments | parser.SkipObjectResolution}, nil
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown source encoding %q: %w", name, err)
	}
	if enc == unicode.UTF8 {
		return nil, nil
	}
	return enc, nil
}

// Parse reads path and parses it.
func (p *GoParser) Parse(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return p.ParseSource(path, raw)
}

// ParseSource parses src as if it had been read from path.
func (p *GoParser) ParseSource(path string, src []byte) (*File, error) {
	if p.enc != nil {
		decoded, err := p.enc.NewDecoder().Bytes(src)
		if err != nil {
			return nil, &ParseError{Path: path, Err: fmt.Errorf("decode: %w", err)}
		}
		src = decoded
	}

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, src, p.mode)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &File{Path: path, Fset: fset, AST: f, Src: src}, nil
}
