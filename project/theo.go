package project

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/usetheodev/theo-boilerplate/generator"
)

// ConfigFile is the per-project settings file.
const ConfigFile = "theo.yml"

// Settings contains the project-level parts of theo.yml.
type Settings struct {
	ConfigPath string          // Path to theo.yml relative to the project root
	Features   map[string]bool // features recorded by generators
}

// EnabledFeatures returns the names of enabled features, sorted.
func (s *Settings) EnabledFeatures() []string {
	var out []string
	for name, on := range s.Features {
		if on {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// DetectSettings checks for theo.yml and parses it.
// Returns (found bool, settings *Settings, error).
func DetectSettings(tree *generator.Tree) (bool, *Settings, error) {
	data, ok, err := tree.Read(ConfigFile)
	if err != nil {
		return false, nil, fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}
	if !ok {
		return false, nil, nil
	}

	var config struct {
		Features map[string]bool `yaml:"features"`
	}
	if err := yaml.Unmarshal([]byte(data), &config); err != nil {
		return false, nil, fmt.Errorf("failed to parse %s: %w", ConfigFile, err)
	}

	return true, &Settings{ConfigPath: ConfigFile, Features: config.Features}, nil
}
