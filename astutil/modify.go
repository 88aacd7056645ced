package astutil

import (
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"strconv"
	"strings"

	"github.com/usetheodev/theo-boilerplate/generator"
)

// AddStructField returns a transform that appends a field to struct structName.
// tag is the raw tag content without backquotes; empty means no tag.
func AddStructField(structName, fieldName, fieldType, tag string) generator.Transform {
	return func(src string) (string, error) {
		if err := ValidateFieldName(fieldName); err != nil {
			return "", err
		}
		if err := ValidateType(fieldType); err != nil {
			return "", err
		}

		fset, file, err := parse(src)
		if err != nil {
			return "", err
		}

		st := findStruct(file, structName)
		if st == nil {
			return "", fmt.Errorf("struct %s not found", structName)
		}
		if hasField(st, fieldName) {
			return src, nil
		}

		line := "\t" + fieldName + " " + strings.TrimSpace(fieldType)
		if tag != "" {
			line += " `" + tag + "`"
		}

		// insert at the start of the closing brace's line, or before the brace
		// itself for single-line structs like `struct{}`
		closing := fset.Position(st.Fields.Closing).Offset
		at := strings.LastIndex(src[:closing], "\n") + 1
		insert := line + "\n"
		if strings.TrimSpace(src[at:closing]) != "" || at <= fset.Position(st.Fields.Opening).Offset {
			at = closing
			insert = "\n" + line + "\n"
		}

		return finish(src[:at] + insert + src[at:])
	}
}

// AddImport returns a transform that adds an import of path. alias may be empty.
func AddImport(path, alias string) generator.Transform {
	return func(src string) (string, error) {
		fset, file, err := parse(src)
		if err != nil {
			return "", err
		}
		if hasImport(file, path) {
			return src, nil
		}

		spec := strconv.Quote(path)
		if alias != "" {
			spec = alias + " " + spec
		}

		var decl *ast.GenDecl
		for _, d := range file.Decls {
			if gd, ok := d.(*ast.GenDecl); ok && gd.Tok == token.IMPORT {
				decl = gd
				break
			}
		}

		var at int
		var insert string
		switch {
		case decl == nil:
			// after the package clause
			at = fset.Position(file.Name.End()).Offset
			insert = "\n\nimport " + spec + "\n"
		case decl.Lparen.IsValid():
			at = fset.Position(decl.Rparen).Offset
			insert = "\t" + spec + "\n"
		default:
			at = fset.Position(decl.End()).Offset
			insert = "\nimport " + spec
		}

		return finish(src[:at] + insert + src[at:])
	}
}

func parse(src string) (*token.FileSet, *ast.File, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", src, parser.ParseComments)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing file: %w", err)
	}
	return fset, file, nil
}

func finish(src string) (string, error) {
	out, err := format.Source([]byte(src))
	if err != nil {
		return "", fmt.Errorf("formatting source: %w", err)
	}
	if err := ValidateSyntax(out); err != nil {
		return "", fmt.Errorf("final validation failed: %w", err)
	}
	return string(out), nil
}

func findStruct(file *ast.File, name string) *ast.StructType {
	var found *ast.StructType
	ast.Inspect(file, func(n ast.Node) bool {
		if found != nil {
			return false
		}
		if ts, ok := n.(*ast.TypeSpec); ok && ts.Name.Name == name {
			if st, ok := ts.Type.(*ast.StructType); ok {
				found = st
				return false
			}
		}
		return true
	})
	return found
}

func hasField(st *ast.StructType, name string) bool {
	for _, field := range st.Fields.List {
		for _, n := range field.Names {
			if n.Name == name {
				return true
			}
		}
	}
	return false
}

func hasImport(file *ast.File, path string) bool {
	for _, imp := range file.Imports {
		if p, err := strconv.Unquote(imp.Path.Value); err == nil && p == path {
			return true
		}
	}
	return false
}
