package generators

import (
	"context"

	"github.com/usetheodev/theo-boilerplate/generator"
)

const editorConfigPath = ".editorconfig"

// NewEditorConfig returns the generator that writes .editorconfig.
func NewEditorConfig(renderer *generator.Renderer) generator.Generator {
	return generator.Func{
		ID:     "editorconfig",
		Checks: []generator.Probe{generator.PathProbe(editorConfigPath)},
		Fn: func(_ context.Context, tree *generator.Tree, _ generator.Options) error {
			content, err := renderer.RenderFS(templatesFS, "templates/editorconfig.tmpl", nil)
			if err != nil {
				return err
			}
			return tree.Write(editorConfigPath, content)
		},
	}
}
