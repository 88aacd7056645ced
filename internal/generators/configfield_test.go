package generators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usetheodev/theo-boilerplate/generator"
	"github.com/usetheodev/theo-boilerplate/project"
)

const goConfig = `package config

// Config holds application settings.
type Config struct {
	Port int ` + "`yaml:\"port\"`" + `
}
`

func TestConfigField_AddsField(t *testing.T) {
	mem := setupProject(t, map[string]string{
		"go.mod":                    goMod,
		"internal/config/config.go": goConfig,
	})

	gen, err := NewConfigField(defaultConfig(), "LogLevel", "string", "")
	require.NoError(t, err)

	res, err := run(t, mem, gen, generator.Options{})
	require.NoError(t, err)
	assert.Equal(t, generator.OutcomeApplied, res.Outcome)

	src := readFile(t, mem, "internal/config/config.go")
	assert.Contains(t, src, "LogLevel string `yaml:\"log_level\" mapstructure:\"log_level\"`")
	assert.NotContains(t, src, "import")

	res, err = run(t, mem, gen, generator.Options{})
	require.NoError(t, err)
	assert.Equal(t, generator.OutcomeSkipped, res.Outcome)
}

func TestConfigField_AddsImportForQualifiedType(t *testing.T) {
	mem := setupProject(t, map[string]string{
		"go.mod":                    goMod,
		"internal/config/config.go": goConfig,
	})

	gen, err := NewConfigField(defaultConfig(), "Timeout", "time.Duration", "request_timeout")
	require.NoError(t, err)

	_, err = run(t, mem, gen, generator.Options{})
	require.NoError(t, err)

	src := readFile(t, mem, "internal/config/config.go")
	assert.Contains(t, src, "import \"time\"")
	assert.Contains(t, src, "time.Duration `yaml:\"request_timeout\" mapstructure:\"request_timeout\"`")
}

func TestConfigField_Errors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		field   string
		typ     string
		wantIs  error
		wantErr string
	}{
		{
			name:   "no go module",
			files:  map[string]string{"internal/config/config.go": goConfig},
			field:  "Debug",
			typ:    "bool",
			wantIs: project.ErrNoModule,
		},
		{
			name:   "missing config file",
			files:  map[string]string{"go.mod": goMod},
			field:  "Debug",
			typ:    "bool",
			wantIs: generator.ErrNotFound,
		},
		{
			name: "unknown package qualifier",
			files: map[string]string{
				"go.mod":                    goMod,
				"internal/config/config.go": goConfig,
			},
			field:   "Limiter",
			typ:     "rate.Limit",
			wantErr: `unknown package "rate"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := setupProject(t, tt.files)
			gen, err := NewConfigField(defaultConfig(), tt.field, tt.typ, "")
			require.NoError(t, err)

			res, err := run(t, mem, gen, generator.Options{})
			require.Error(t, err)
			assert.Equal(t, generator.OutcomeAborted, res.Outcome)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestNewConfigField_Validation(t *testing.T) {
	_, err := NewConfigField(defaultConfig(), "Port", "map[string", "")
	assert.Error(t, err)

	_, err = NewConfigField(defaultConfig(), "9lives", "int", "")
	assert.Error(t, err)
}

func TestTypeQualifier(t *testing.T) {
	tests := []struct {
		typ  string
		want string
		ok   bool
	}{
		{"int", "", false},
		{"time.Duration", "time", true},
		{"[]*time.Time", "time", true},
		{"map[string]url.URL", "url", true},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			got, ok := typeQualifier(tt.typ)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}
