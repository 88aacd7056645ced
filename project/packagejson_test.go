package project

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const packageJSON = `{
  "name": "api",
  "version": "0.1.0",
  "dependencies": {"@nestjs/common": "^10.0.0", "@nestjs/core": "^10.0.0"},
  "devDependencies": {"typescript": "^5.4.0"}
}`

func TestReadPackageJSON(t *testing.T) {
	tree := newTree(t, map[string]string{"package.json": packageJSON})

	pkg, err := ReadPackageJSON(tree)
	require.NoError(t, err)
	assert.Equal(t, "api", pkg.Name)

	v, ok := pkg.Dependency("@nestjs/common")
	assert.True(t, ok)
	assert.Equal(t, "^10.0.0", v)

	_, ok = pkg.Dependency("typescript")
	assert.True(t, ok, "devDependencies count")

	_, ok = pkg.Dependency("express")
	assert.False(t, ok)
}

func TestReadPackageJSON_Errors(t *testing.T) {
	_, err := ReadPackageJSON(newTree(t, nil))
	assert.True(t, errors.Is(err, ErrNoPackageJSON))

	_, err = ReadPackageJSON(newTree(t, map[string]string{"package.json": "{nope"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse package.json")
}

func TestDependencyProbe(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		dep   string
		want  bool
	}{
		{name: "npm dependency", files: map[string]string{"package.json": packageJSON}, dep: "@nestjs/common", want: true},
		{name: "npm missing", files: map[string]string{"package.json": packageJSON}, dep: "express", want: false},
		{name: "go requirement", files: map[string]string{"go.mod": goMod}, dep: "github.com/spf13/cobra", want: true},
		{name: "go falls through to npm", files: map[string]string{"go.mod": goMod, "package.json": packageJSON}, dep: "typescript", want: true},
		{name: "no manifests", files: nil, dep: "anything", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probe := DependencyProbe(tt.dep)
			assert.Equal(t, "depends on: "+tt.dep, probe.Describe())

			ok, err := probe.Check(context.Background(), newTree(t, tt.files))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestDependencyProbe_BrokenManifest(t *testing.T) {
	tree := newTree(t, map[string]string{"package.json": "[1,2"})

	_, err := DependencyProbe("x").Check(context.Background(), tree)
	assert.Error(t, err)
}
