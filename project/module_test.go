package project

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goMod = `module github.com/test/example

go 1.21

require (
	github.com/spf13/cobra v1.10.1
	gopkg.in/yaml.v3 v3.0.1 // indirect
)
`

func TestDetectModule_Success(t *testing.T) {
	tree := newTree(t, map[string]string{"go.mod": goMod})

	info, err := DetectModule(tree)
	require.NoError(t, err)

	assert.Equal(t, "github.com/test/example", info.Path)
	assert.Equal(t, "1.21", info.GoVersion)

	v, ok := info.Require("github.com/spf13/cobra")
	assert.True(t, ok)
	assert.Equal(t, "v1.10.1", v)

	_, ok = info.Require("github.com/spf13/viper")
	assert.False(t, ok)
}

func TestDetectModule_NotFound(t *testing.T) {
	tree := newTree(t, nil)

	_, err := DetectModule(tree)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoModule))
}

func TestDetectModule_InvalidSyntax(t *testing.T) {
	tree := newTree(t, map[string]string{"go.mod": "this is not valid go.mod syntax\nmodule\n"})

	_, err := DetectModule(tree)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse go.mod")
}

func TestDetectModule_SeesStagedManifest(t *testing.T) {
	tree := newTree(t, nil)
	require.NoError(t, tree.Write("go.mod", "module example.com/staged\n\ngo 1.22\n"))

	info, err := DetectModule(tree)
	require.NoError(t, err)
	assert.Equal(t, "example.com/staged", info.Path)
}
