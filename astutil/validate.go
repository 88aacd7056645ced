package astutil

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
)

// ValidateSyntax parses bytes to ensure valid Go syntax
func ValidateSyntax(content []byte) error {
	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, "", content, parser.AllErrors)
	if err != nil {
		return fmt.Errorf("syntax validation failed: %w", err)
	}
	return nil
}

// ValidateFieldName checks that name is an exported Go identifier.
func ValidateFieldName(name string) error {
	if !token.IsIdentifier(name) {
		return fmt.Errorf("invalid field name %q", name)
	}
	if !token.IsExported(name) {
		return fmt.Errorf("field name %q must be exported", name)
	}
	return nil
}

// ValidateType checks that typ parses as a Go type expression.
func ValidateType(typ string) error {
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return fmt.Errorf("field type is empty")
	}
	expr, err := parser.ParseExpr(typ)
	if err != nil {
		return fmt.Errorf("invalid field type %q: %w", typ, err)
	}
	switch expr.(type) {
	case *ast.Ident, *ast.StarExpr, *ast.ArrayType, *ast.MapType, *ast.SelectorExpr,
		*ast.ChanType, *ast.FuncType, *ast.InterfaceType, *ast.StructType, *ast.IndexExpr, *ast.IndexListExpr:
		return nil
	default:
		return fmt.Errorf("invalid field type %q: not a type expression", typ)
	}
}
