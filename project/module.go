package project

import (
	"errors"
	"fmt"

	"golang.org/x/mod/modfile"

	"github.com/usetheodev/theo-boilerplate/generator"
)

// GoModFile is the manifest path DetectModule reads.
const GoModFile = "go.mod"

// ErrNoModule indicates the project has no go.mod.
var ErrNoModule = errors.New("go.mod not found")

// ModuleInfo contains information from go.mod
type ModuleInfo struct {
	Path      string            // Module path (e.g., "github.com/user/repo")
	GoVersion string            // Go version requirement (e.g., "1.21")
	Requires  map[string]string // required module path → version
}

// Require returns the version of path when go.mod requires it.
func (m *ModuleInfo) Require(path string) (string, bool) {
	v, ok := m.Requires[path]
	return v, ok
}

// DetectModule reads the effective go.mod of tree and returns module information.
// Returns ErrNoModule when go.mod doesn't exist.
func DetectModule(tree *generator.Tree) (*ModuleInfo, error) {
	data, ok, err := tree.Read(GoModFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read go.mod: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w in %s", ErrNoModule, tree.Base())
	}
	return ParseModule(data)
}

// ParseModule parses go.mod content.
func ParseModule(data string) (*ModuleInfo, error) {
	modFile, err := modfile.Parse(GoModFile, []byte(data), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse go.mod: %w", err)
	}
	if modFile.Module == nil {
		return nil, fmt.Errorf("failed to parse go.mod: missing module directive")
	}

	info := &ModuleInfo{
		Path:     modFile.Module.Mod.Path,
		Requires: make(map[string]string, len(modFile.Require)),
	}
	if modFile.Go != nil {
		info.GoVersion = modFile.Go.Version
	}
	for _, r := range modFile.Require {
		info.Requires[r.Mod.Path] = r.Mod.Version
	}
	return info, nil
}
