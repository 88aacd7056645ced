// Package project inspects project manifests through a generator.Tree, so
// generators see manifest changes staged earlier in the same run.
//
// # Overview
//
//   - Go module path, Go version and requirements (via go.mod)
//   - npm dependencies (via package.json)
//   - theo project settings (via theo.yml)
//
// # Usage
//
// Detect a Go module inside a generator:
//
//	info, err := project.DetectModule(tree)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Module: %s\n", info.Path)
//
// Gate a generator on a dependency:
//
//	probe := project.DependencyProbe("@nestjs/common")
//	ok, err := probe.Check(ctx, tree)
package project
