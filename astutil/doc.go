// Package astutil provides Go source transforms for use with generator.Tree.Modify.
//
// Every transform parses the current content, splices the change into the
// original text at positions taken from the AST, and gofmt-formats the result,
// so comments and layout outside the edit survive. Transforms are idempotent:
// applying one whose change is already present returns the input unchanged,
// which the Tree records as no change at all.
//
// # Usage
//
//	err := tree.Modify("internal/config/config.go",
//	    astutil.AddStructField("Config", "RedisURL", "string", `yaml:"redis_url"`))
//
// Probes read through the Tree:
//
//	probe := astutil.StructFieldProbe("internal/config/config.go", "Config", "RedisURL")
package astutil
