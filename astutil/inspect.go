package astutil

import (
	"context"
	"fmt"

	"github.com/usetheodev/theo-boilerplate/generator"
)

// HasStructField reports whether struct structName in src declares fieldName.
func HasStructField(src, structName, fieldName string) (bool, error) {
	_, file, err := parse(src)
	if err != nil {
		return false, err
	}
	st := findStruct(file, structName)
	if st == nil {
		return false, nil
	}
	return hasField(st, fieldName), nil
}

// HasImport reports whether src imports path.
func HasImport(src, path string) (bool, error) {
	_, file, err := parse(src)
	if err != nil {
		return false, err
	}
	return hasImport(file, path), nil
}

// StructFieldProbe passes when the Go file at path declares fieldName on structName.
func StructFieldProbe(path, structName, fieldName string) generator.Probe {
	desc := fmt.Sprintf("field: %s %s.%s", path, structName, fieldName)
	return generator.NewProbe(desc, func(_ context.Context, tree *generator.Tree) (bool, error) {
		src, ok, err := tree.Read(path)
		if err != nil || !ok {
			return false, err
		}
		return HasStructField(src, structName, fieldName)
	})
}
