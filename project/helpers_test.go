package project

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/usetheodev/theo-boilerplate/generator"
)

func newTree(t *testing.T, files map[string]string) *generator.Tree {
	t.Helper()

	mem := afero.NewMemMapFs()
	for p, content := range files {
		full := filepath.Join("/app", p)
		require.NoError(t, mem.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, afero.WriteFile(mem, full, []byte(content), 0644))
	}
	require.NoError(t, mem.MkdirAll("/app", 0755))
	return generator.NewTree("/app", generator.NewFSStorage(mem, "/app"))
}
