package generators

import (
	"context"
	"errors"
	"fmt"

	"github.com/usetheodev/theo-boilerplate/generator"
	"github.com/usetheodev/theo-boilerplate/internal/config"
	"github.com/usetheodev/theo-boilerplate/project"
	"github.com/usetheodev/theo-boilerplate/yamlutil"
)

const (
	workflowPath = ".github/workflows/ci.yml"
	ciFeatureKey = "features.ci"

	defaultNodeVersion = "20"
)

// CI writes a GitHub Actions workflow matching the project's toolchain and
// records the feature in theo.yml.
type CI struct {
	renderer *generator.Renderer
}

// NewCI creates the ci generator.
func NewCI(renderer *generator.Renderer) *CI {
	return &CI{renderer: renderer}
}

func (g *CI) Name() string { return "ci" }

func (g *CI) Probes() []generator.Probe {
	return []generator.Probe{
		generator.PathProbe(workflowPath),
		yamlutil.KeyProbe(config.FileName, ciFeatureKey, "true"),
	}
}

func (g *CI) Generate(_ context.Context, tree *generator.Tree, _ generator.Options) error {
	workflow, err := g.workflow(tree)
	if err != nil {
		return err
	}
	if err := tree.Write(workflowPath, workflow); err != nil {
		return err
	}

	err = tree.Modify(config.FileName, yamlutil.SetKey(ciFeatureKey, true))
	if errors.Is(err, generator.ErrNotFound) {
		return tree.Write(config.FileName, "features:\n  ci: true\n")
	}
	return err
}

func (g *CI) workflow(tree *generator.Tree) (string, error) {
	mod, err := project.DetectModule(tree)
	switch {
	case err == nil:
		goVersion := mod.GoVersion
		if goVersion == "" {
			goVersion = "stable"
		}
		return g.renderer.RenderFS(templatesFS, "templates/ci-go.yml.tmpl", map[string]string{
			"Module":    mod.Path,
			"GoVersion": goVersion,
		})
	case !errors.Is(err, project.ErrNoModule):
		return "", err
	}

	pkg, err := project.ReadPackageJSON(tree)
	switch {
	case err == nil:
		return g.renderer.RenderFS(templatesFS, "templates/ci-node.yml.tmpl", map[string]string{
			"Package":     pkg.Name,
			"NodeVersion": defaultNodeVersion,
		})
	case errors.Is(err, project.ErrNoPackageJSON):
		return "", fmt.Errorf("no %s or %s found in %s", project.GoModFile, project.PackageJSONFile, tree.Base())
	default:
		return "", err
	}
}
