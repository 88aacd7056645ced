package project

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/usetheodev/theo-boilerplate/generator"
)

// PackageJSONFile is the npm manifest path.
const PackageJSONFile = "package.json"

// ErrNoPackageJSON indicates the project has no package.json.
var ErrNoPackageJSON = errors.New("package.json not found")

// PackageJSON holds the fields of package.json that generators inspect.
type PackageJSON struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// Dependency returns the version range of name from dependencies or
// devDependencies.
func (p *PackageJSON) Dependency(name string) (string, bool) {
	if v, ok := p.Dependencies[name]; ok {
		return v, true
	}
	v, ok := p.DevDependencies[name]
	return v, ok
}

// ReadPackageJSON parses the effective package.json of tree.
func ReadPackageJSON(tree *generator.Tree) (*PackageJSON, error) {
	data, ok, err := tree.Read(PackageJSONFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read package.json: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w in %s", ErrNoPackageJSON, tree.Base())
	}

	var pkg PackageJSON
	if err := json.Unmarshal([]byte(data), &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse package.json: %w", err)
	}
	return &pkg, nil
}
