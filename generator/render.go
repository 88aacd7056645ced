package generator

import (
	"bytes"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"text/template"
)

// Renderer parses and renders templates with a shared helper set, caching parsed templates.
type Renderer struct {
	funcMap template.FuncMap
	cache   map[string]*template.Template
	mu      sync.RWMutex
}

// NewRenderer creates a renderer with the built-in helper functions.
func NewRenderer() *Renderer {
	return &Renderer{
		funcMap: defaultFuncMap(),
		cache:   make(map[string]*template.Template),
	}
}

// RenderString renders a template held in memory. name keys the cache and
// appears in error messages.
func (r *Renderer) RenderString(name, text string, data any) (string, error) {
	tmpl, err := r.lookup("string:"+name, func() (string, error) { return text, nil })
	if err != nil {
		return "", err
	}
	return r.execute(tmpl, data)
}

// RenderFS renders a template read from fsys (typically an embed.FS).
func (r *Renderer) RenderFS(fsys fs.FS, path string, data any) (string, error) {
	tmpl, err := r.lookup("fs:"+path, func() (string, error) {
		b, err := fs.ReadFile(fsys, path)
		if err != nil {
			return "", fmt.Errorf("failed to read template '%s': %w", path, err)
		}
		return string(b), nil
	})
	if err != nil {
		return "", err
	}
	return r.execute(tmpl, data)
}

// ClearCache drops every parsed template.
func (r *Renderer) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]*template.Template)
}

func (r *Renderer) lookup(key string, source func() (string, error)) (*template.Template, error) {
	r.mu.RLock()
	tmpl, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	text, err := source()
	if err != nil {
		return nil, err
	}
	name := key[strings.Index(key, ":")+1:]
	tmpl, err = template.New(name).Funcs(r.funcMap).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template '%s': %w", name, err)
	}

	r.mu.Lock()
	r.cache[key] = tmpl
	r.mu.Unlock()
	return tmpl, nil
}

func (r *Renderer) execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template '%s': %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"pascalCase": PascalCase, // user_name → UserName
		"camelCase":  CamelCase,  // user_name → userName
		"snakeCase":  SnakeCase,  // UserName → user_name
		"kebabCase":  KebabCase,  // UserName → user-name
		"plural":     Pluralize,  // user → users

		"upper":     strings.ToUpper,
		"lower":     strings.ToLower,
		"trim":      strings.TrimSpace,
		"join":      strings.Join,
		"hasPrefix": strings.HasPrefix,
		"hasSuffix": strings.HasSuffix,
		"replace":   strings.ReplaceAll,
		"quote":     func(s string) string { return fmt.Sprintf("%q", s) },
	}
}
