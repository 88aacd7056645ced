package generators

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/usetheodev/theo-boilerplate/generator"
	"github.com/usetheodev/theo-boilerplate/internal/config"
)

const root = "/project"

func setupProject(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	mem := afero.NewMemMapFs()
	require.NoError(t, mem.MkdirAll(root, 0755))
	for p, content := range files {
		full := filepath.Join(root, p)
		require.NoError(t, mem.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, afero.WriteFile(mem, full, []byte(content), 0644))
	}
	return mem
}

func run(t *testing.T, mem afero.Fs, gen generator.Generator, opts generator.Options) (*generator.Result, error) {
	t.Helper()
	runner := generator.NewRunner(root, generator.NewFSStorage(mem, root))
	return runner.Run(context.Background(), gen, opts)
}

func readFile(t *testing.T, mem afero.Fs, p string) string {
	t.Helper()
	data, err := afero.ReadFile(mem, filepath.Join(root, p))
	require.NoError(t, err)
	return string(data)
}

func fileExists(t *testing.T, mem afero.Fs, p string) bool {
	t.Helper()
	ok, err := afero.Exists(mem, filepath.Join(root, p))
	require.NoError(t, err)
	return ok
}

func defaultConfig() *config.Config {
	cfg := config.Defaults()
	return &cfg
}
