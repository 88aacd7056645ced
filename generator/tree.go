package generator

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Transform rewrites the current content of a file. Transforms are opaque to the
// Tree: AST rewriters, YAML editors and plain string functions all fit.
type Transform func(content string) (string, error)

// Globber is implemented by storage that can enumerate files by doublestar pattern.
type Globber interface {
	Glob(pattern string) ([]string, error)
}

// Tree is a run-scoped overlay over Storage. Reads see storage plus every staged
// change; writes and deletes only touch the overlay until a Transaction commits it.
//
// A Tree is owned by exactly one run and is not safe for concurrent use.
type Tree struct {
	base    string
	storage Storage
	overlay map[string]ChangeRecord
}

// NewTree creates an empty overlay over storage. base is the directory that
// relative paths resolve against; it is made absolute when possible.
func NewTree(base string, storage Storage) *Tree {
	if abs, err := filepath.Abs(base); err == nil {
		base = abs
	}
	return &Tree{
		base:    base,
		storage: storage,
		overlay: make(map[string]ChangeRecord),
	}
}

// Base returns the absolute base directory.
func (t *Tree) Base() string {
	return t.base
}

// Storage returns the backend beneath the overlay.
func (t *Tree) Storage() Storage {
	return t.storage
}

// Read returns the effective content of p. ok is false when p has a staged
// delete or does not exist in storage.
func (t *Tree) Read(p string) (content string, ok bool, err error) {
	key, err := t.key(p)
	if err != nil {
		return "", false, err
	}
	if escapes(key) {
		return "", false, &SecurityError{Path: p, Resolved: t.resolve(key)}
	}

	if rec, staged := t.overlay[key]; staged {
		if rec.IsDelete() {
			return "", false, nil
		}
		return rec.Content, true, nil
	}

	content, err = t.storage.ReadText(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return content, true, nil
}

// Write stages content for p. A previously staged delete is replaced.
// The record is a Create when p is absent from storage, otherwise a Modify.
func (t *Tree) Write(p, content string) error {
	key, err := t.key(p)
	if err != nil {
		return err
	}

	if rec, staged := t.overlay[key]; staged && !rec.IsDelete() {
		rec.Content = content
		t.overlay[key] = rec
		return nil
	}

	onDisk, err := t.onDisk(key)
	if err != nil {
		return err
	}
	if onDisk {
		t.overlay[key] = NewModify(key, content)
	} else {
		t.overlay[key] = NewCreate(key, content)
	}
	return nil
}

// Modify applies fn to the effective content of p and stages the result.
// It fails with ErrNotFound when p has no effective content. fn is called at
// most once. A transform that returns its input unchanged stages nothing.
func (t *Tree) Modify(p string, fn Transform) error {
	key, err := t.key(p)
	if err != nil {
		return err
	}

	current, ok, err := t.Read(key)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("modify %s: %w", key, ErrNotFound)
	}

	updated, err := fn(current)
	if err != nil {
		return fmt.Errorf("modify %s: %w", key, err)
	}
	if updated == current {
		return nil
	}

	if rec, staged := t.overlay[key]; staged && rec.IsCreate() {
		t.overlay[key] = NewCreate(key, updated)
		return nil
	}
	t.overlay[key] = NewModify(key, updated)
	return nil
}

// Delete stages removal of p. Deleting a path created earlier in the same run
// cancels the create instead of recording a delete. Deleting a path that exists
// nowhere is a no-op.
func (t *Tree) Delete(p string) error {
	key, err := t.key(p)
	if err != nil {
		return err
	}

	if rec, staged := t.overlay[key]; staged {
		switch rec.Kind {
		case ChangeCreate:
			delete(t.overlay, key)
		case ChangeModify:
			t.overlay[key] = NewDelete(key)
		}
		return nil
	}

	if escapes(key) {
		// kept so the commit rejects it
		t.overlay[key] = NewDelete(key)
		return nil
	}

	onDisk, err := t.onDisk(key)
	if err != nil {
		return err
	}
	if onDisk {
		t.overlay[key] = NewDelete(key)
	}
	return nil
}

// Exists reports whether p exists in the effective tree. A directory exists
// when storage has it or when a staged create or modify lives beneath it.
func (t *Tree) Exists(p string) (bool, error) {
	key, err := t.key(p)
	if err != nil {
		return false, err
	}
	if escapes(key) {
		return false, &SecurityError{Path: p, Resolved: t.resolve(key)}
	}

	if rec, staged := t.overlay[key]; staged {
		return !rec.IsDelete(), nil
	}

	prefix := key + "/"
	for k, rec := range t.overlay {
		if !rec.IsDelete() && strings.HasPrefix(k, prefix) {
			return true, nil
		}
	}

	return t.storage.Exists(key)
}

// Glob returns the effective files matching a doublestar pattern, sorted.
// Storage that does not implement Globber contributes no matches.
func (t *Tree) Glob(pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern %q", pattern)
	}

	seen := make(map[string]bool)
	if g, ok := t.storage.(Globber); ok {
		matches, err := g.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		for _, m := range matches {
			seen[m] = true
		}
	}

	for key, rec := range t.overlay {
		if rec.IsDelete() {
			delete(seen, key)
			continue
		}
		if ok, _ := doublestar.Match(pattern, key); ok {
			seen[key] = true
		}
	}

	out := make([]string, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Strings(out)
	return out, nil
}

// Changes returns a snapshot of staged records sorted by path.
func (t *Tree) Changes() []ChangeRecord {
	out := make([]ChangeRecord, 0, len(t.overlay))
	for _, rec := range t.overlay {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Len returns the number of staged records.
func (t *Tree) Len() int {
	return len(t.overlay)
}

// Discard drops every staged record without touching storage.
func (t *Tree) Discard() {
	t.overlay = make(map[string]ChangeRecord)
}

// key normalizes p to a slash-separated path relative to the base directory.
// Absolute paths inside the base are made relative; anything else is kept so
// the commit can reject it.
func (t *Tree) key(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("invalid path: empty")
	}
	if filepath.IsAbs(p) {
		if rel, err := filepath.Rel(t.base, p); err == nil {
			p = rel
		}
	}
	key := path.Clean(filepath.ToSlash(p))
	if key == "." {
		return "", fmt.Errorf("invalid path %q: refers to the base directory", p)
	}
	return key, nil
}

// onDisk checks storage for key. Escaping keys are never looked up.
func (t *Tree) onDisk(key string) (bool, error) {
	if escapes(key) {
		return false, nil
	}
	return t.storage.Exists(key)
}

func (t *Tree) resolve(key string) string {
	if path.IsAbs(key) {
		return filepath.FromSlash(key)
	}
	return filepath.Join(t.base, filepath.FromSlash(key))
}

// escapes reports whether a normalized key leaves the base directory.
func escapes(key string) bool {
	return key == ".." || strings.HasPrefix(key, "../") || path.IsAbs(key)
}
