package project

import (
	"context"
	"errors"

	"github.com/usetheodev/theo-boilerplate/generator"
)

// DependencyProbe passes when name is required by go.mod or listed in the
// dependencies of package.json. Missing manifests count as "not listed".
func DependencyProbe(name string) generator.Probe {
	return generator.NewProbe("depends on: "+name, func(_ context.Context, tree *generator.Tree) (bool, error) {
		return HasDependency(tree, name)
	})
}

// HasDependency reports whether any manifest of tree lists name.
func HasDependency(tree *generator.Tree, name string) (bool, error) {
	mod, err := DetectModule(tree)
	switch {
	case err == nil:
		if _, ok := mod.Require(name); ok {
			return true, nil
		}
	case !errors.Is(err, ErrNoModule):
		return false, err
	}

	pkg, err := ReadPackageJSON(tree)
	switch {
	case err == nil:
		_, ok := pkg.Dependency(name)
		return ok, nil
	case errors.Is(err, ErrNoPackageJSON):
		return false, nil
	default:
		return false, err
	}
}
