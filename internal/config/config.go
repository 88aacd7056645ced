// Package config loads theo.yml project settings with environment overrides.
package config

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// FileName is the settings file theo reads from the project root.
const FileName = "theo.yml"

// Config holds the CLI settings for one project.
type Config struct {
	// Path is the settings file that was read; empty when only defaults apply.
	Path string `mapstructure:"-"`

	LogLevel     string `mapstructure:"log_level"`
	RequireClean bool   `mapstructure:"require_clean"`
	Review       bool   `mapstructure:"review"`
	ModulesDir   string `mapstructure:"modules_dir"`
	AppModule    string `mapstructure:"app_module"`
	GoConfigFile string `mapstructure:"config_file"`
}

// Defaults returns the settings used when theo.yml is absent.
func Defaults() Config {
	return Config{
		LogLevel:     "info",
		RequireClean: true,
		ModulesDir:   "src/modules",
		AppModule:    "src/app.module.ts",
		GoConfigFile: "internal/config/config.go",
	}
}

// LoadFs reads theo.yml from dir on fsys. A missing file yields the defaults.
// THEO_* environment variables override file values (e.g. THEO_LOG_LEVEL).
func LoadFs(fsys afero.Fs, dir string) (*Config, error) {
	v := viper.New()
	v.SetFs(fsys)
	v.SetConfigName(strings.TrimSuffix(FileName, ".yml"))
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	// Enable environment variable overrides
	v.SetEnvPrefix("THEO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("require_clean", d.RequireClean)
	v.SetDefault("review", d.Review)
	v.SetDefault("modules_dir", d.ModulesDir)
	v.SetDefault("app_module", d.AppModule)
	v.SetDefault("config_file", d.GoConfigFile)

	var used string
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
		}
	} else {
		used = v.ConfigFileUsed()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	cfg.Path = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every project path is relative and non-empty.
func (c *Config) Validate() error {
	for key, p := range map[string]string{
		"modules_dir": c.ModulesDir,
		"app_module":  c.AppModule,
		"config_file": c.GoConfigFile,
	} {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("%s must not be empty in %s", key, FileName)
		}
		if path.IsAbs(p) || strings.HasPrefix(path.Clean(p), "..") {
			return fmt.Errorf("%s must be a path inside the project, got %q", key, p)
		}
	}
	return nil
}
