package generators

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/usetheodev/theo-boilerplate/generator"
	"github.com/usetheodev/theo-boilerplate/internal/config"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Factory builds a generator from the project config and positional arguments.
type Factory func(cfg *config.Config, args []string) (generator.Generator, error)

// Entry describes one registered generator.
type Entry struct {
	Name    string
	Usage   string // argument synopsis, e.g. "<name>"
	Short   string
	MinArgs int
	MaxArgs int
	New     Factory
}

// Registry maps generator names to their factories.
type Registry struct {
	entries map[string]Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Builtin returns a registry with every generator shipped with theo.
func Builtin() *Registry {
	r := NewRegistry()
	renderer := generator.NewRenderer()

	for _, e := range []Entry{
		{
			Name:  "editorconfig",
			Short: "Add an .editorconfig with the house formatting rules",
			New: func(*config.Config, []string) (generator.Generator, error) {
				return NewEditorConfig(renderer), nil
			},
		},
		{
			Name:  "ci",
			Short: "Add a GitHub Actions workflow and enable the ci feature",
			New: func(*config.Config, []string) (generator.Generator, error) {
				return NewCI(renderer), nil
			},
		},
		{
			Name:    "module",
			Usage:   "<name>",
			Short:   "Add a NestJS feature module and register it in the app module",
			MinArgs: 1,
			MaxArgs: 1,
			New: func(cfg *config.Config, args []string) (generator.Generator, error) {
				return NewModule(cfg, renderer, args[0])
			},
		},
		{
			Name:    "config-field",
			Usage:   "<Name> <Type> [yaml-key]",
			Short:   "Add a field to the Go Config struct",
			MinArgs: 2,
			MaxArgs: 3,
			New: func(cfg *config.Config, args []string) (generator.Generator, error) {
				var key string
				if len(args) > 2 {
					key = args[2]
				}
				return NewConfigField(cfg, args[0], args[1], key)
			},
		},
	} {
		if err := r.Register(e); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds e. Names must be unique.
func (r *Registry) Register(e Entry) error {
	if e.Name == "" || e.New == nil {
		return fmt.Errorf("generator entry needs a name and a factory")
	}
	if _, exists := r.entries[e.Name]; exists {
		return fmt.Errorf("generator %q already registered", e.Name)
	}
	r.entries[e.Name] = e
	return nil
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Entries returns every entry sorted by name.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// New builds the generator registered under name after checking the argument count.
func (r *Registry) New(name string, cfg *config.Config, args []string) (generator.Generator, error) {
	e, ok := r.Lookup(name)
	if !ok {
		names := make([]string, 0, len(r.entries))
		for _, e := range r.Entries() {
			names = append(names, e.Name)
		}
		return nil, fmt.Errorf("unknown generator %q (available: %s)", name, strings.Join(names, ", "))
	}
	if len(args) < e.MinArgs || len(args) > e.MaxArgs {
		return nil, fmt.Errorf("usage: %s", strings.TrimSpace(e.Name+" "+e.Usage))
	}
	return e.New(cfg, args)
}
