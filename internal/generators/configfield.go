package generators

import (
	"context"
	"fmt"
	"strings"

	"github.com/usetheodev/theo-boilerplate/astutil"
	"github.com/usetheodev/theo-boilerplate/generator"
	"github.com/usetheodev/theo-boilerplate/internal/config"
	"github.com/usetheodev/theo-boilerplate/project"
)

const configStruct = "Config"

// qualifiedImports maps package qualifiers in field types to import paths.
var qualifiedImports = map[string]string{
	"time": "time",
	"url":  "net/url",
	"uuid": "github.com/google/uuid",
	"slog": "log/slog",
}

// ConfigField adds a field to the Config struct of a Go project.
type ConfigField struct {
	cfg   *config.Config
	field string
	typ   string
	key   string
}

// NewConfigField creates the config-field generator. key defaults to the
// snake_case form of field.
func NewConfigField(cfg *config.Config, field, typ, key string) (*ConfigField, error) {
	if err := astutil.ValidateFieldName(field); err != nil {
		return nil, err
	}
	if err := astutil.ValidateType(typ); err != nil {
		return nil, err
	}
	if key == "" {
		key = generator.SnakeCase(field)
	}
	return &ConfigField{cfg: cfg, field: field, typ: typ, key: key}, nil
}

func (g *ConfigField) Name() string { return "config-field" }

func (g *ConfigField) Probes() []generator.Probe {
	return []generator.Probe{astutil.StructFieldProbe(g.cfg.GoConfigFile, configStruct, g.field)}
}

func (g *ConfigField) Generate(_ context.Context, tree *generator.Tree, _ generator.Options) error {
	if _, err := project.DetectModule(tree); err != nil {
		return err
	}

	tag := fmt.Sprintf(`yaml:"%s" mapstructure:"%s"`, g.key, g.key)
	if err := tree.Modify(g.cfg.GoConfigFile, astutil.AddStructField(configStruct, g.field, g.typ, tag)); err != nil {
		return err
	}

	if qualifier, ok := typeQualifier(g.typ); ok {
		importPath, known := qualifiedImports[qualifier]
		if !known {
			return fmt.Errorf("unknown package %q in type %s: add the import by hand", qualifier, g.typ)
		}
		return tree.Modify(g.cfg.GoConfigFile, astutil.AddImport(importPath, ""))
	}
	return nil
}

// typeQualifier returns "time" for types like time.Duration, []*time.Time or map[string]time.Time.
func typeQualifier(typ string) (string, bool) {
	dot := strings.LastIndex(typ, ".")
	if dot < 0 {
		return "", false
	}
	start := strings.LastIndexAny(typ[:dot], "[]*( ") + 1
	return typ[start:dot], true
}
