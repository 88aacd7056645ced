package generators

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/usetheodev/theo-boilerplate/generator"
	"github.com/usetheodev/theo-boilerplate/internal/config"
	"github.com/usetheodev/theo-boilerplate/project"
)

// nestDependency must be listed in package.json before a module is generated.
const nestDependency = "@nestjs/common"

var moduleNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// Module generates a NestJS feature module (module, service, controller) and
// registers it in the application module.
type Module struct {
	cfg      *config.Config
	renderer *generator.Renderer
	data     moduleData
}

type moduleData struct {
	Name  string // UserProfile
	File  string // user-profile
	Var   string // userProfile
	Route string // user-profiles
}

// NewModule creates the module generator for name.
func NewModule(cfg *config.Config, renderer *generator.Renderer, name string) (*Module, error) {
	if !moduleNameRe.MatchString(name) {
		return nil, fmt.Errorf("invalid module name %q: use letters, digits, '-' or '_'", name)
	}
	file := generator.KebabCase(name)
	return &Module{
		cfg:      cfg,
		renderer: renderer,
		data: moduleData{
			Name:  generator.PascalCase(name),
			File:  file,
			Var:   generator.CamelCase(name),
			Route: generator.Pluralize(file),
		},
	}, nil
}

func (g *Module) Name() string { return "module" }

func (g *Module) Probes() []generator.Probe {
	return []generator.Probe{
		generator.PathProbe(g.file("module")),
		generator.ContentProbe(g.cfg.AppModule, "import { "+g.className()+" }"),
	}
}

func (g *Module) Generate(_ context.Context, tree *generator.Tree, _ generator.Options) error {
	ok, err := project.HasDependency(tree, nestDependency)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s is not a dependency in %s", nestDependency, project.PackageJSONFile)
	}

	for _, part := range []string{"module", "service", "controller"} {
		content, err := g.renderer.RenderFS(templatesFS, "templates/"+part+".ts.tmpl", g.data)
		if err != nil {
			return err
		}
		if err := tree.Write(g.file(part), content); err != nil {
			return err
		}
	}

	register := registerModule(g.className(), g.importPath())
	err = tree.Modify(g.cfg.AppModule, register)
	if errors.Is(err, generator.ErrNotFound) {
		app, err := g.renderer.RenderFS(templatesFS, "templates/app.module.ts.tmpl", nil)
		if err != nil {
			return err
		}
		if err := tree.Write(g.cfg.AppModule, app); err != nil {
			return err
		}
		return tree.Modify(g.cfg.AppModule, register)
	}
	return err
}

func (g *Module) className() string {
	return g.data.Name + "Module"
}

// file returns the path of one generated file, e.g. src/modules/users/users.service.ts.
func (g *Module) file(part string) string {
	return path.Join(g.cfg.ModulesDir, g.data.File, g.data.File+"."+part+".ts")
}

// importPath is the module file relative to the app module, without extension.
func (g *Module) importPath() string {
	rel, err := filepath.Rel(filepath.Dir(filepath.FromSlash(g.cfg.AppModule)), filepath.FromSlash(g.file("module")))
	if err != nil {
		rel = g.file("module")
	}
	rel = strings.TrimSuffix(filepath.ToSlash(rel), ".ts")
	if !strings.HasPrefix(rel, "../") {
		rel = "./" + rel
	}
	return rel
}

// registerModule returns a transform that imports className from importPath
// and lists it in the imports array of the @Module decorator.
func registerModule(className, importPath string) generator.Transform {
	return func(src string) (string, error) {
		stmt := fmt.Sprintf("import { %s } from '%s'", className, importPath)
		if strings.Contains(src, stmt) {
			return src, nil
		}

		out, err := addToImportsArray(src, className)
		if err != nil {
			return "", err
		}
		return insertImport(out, stmt)
	}
}
