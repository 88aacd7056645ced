package generator

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Operation is one storage mutation that can be validated and executed.
//
// Validate checks the operation without mutating storage. Execute performs it and
// should only be called after every operation in the batch validated.
// Description returns a human-readable summary for output (e.g., "Create src/x.ts (234 bytes)").
type Operation interface {
	Validate(ctx context.Context) error
	Execute(ctx context.Context) error
	Description() string
	Change() ChangeRecord
}

// WriteOp applies a Create or Modify record.
//
// Validation behavior:
//   - Rejects paths that resolve outside Base (SecurityError)
//   - Rejects paths whose parent chain contains an existing regular file
//
// Execution behavior:
//   - Storage creates missing parent directories and writes atomically
type WriteOp struct {
	Storage Storage
	Base    string
	Record  ChangeRecord
}

func (op *WriteOp) Validate(ctx context.Context) error {
	if err := confine(op.Base, op.Record.Path); err != nil {
		return err
	}

	for dir := path.Dir(op.Record.Path); dir != "." && dir != "/"; dir = path.Dir(dir) {
		isFile, err := isRegularFile(op.Storage, dir)
		if err != nil {
			return fmt.Errorf("cannot inspect parent %s: %w", dir, err)
		}
		if isFile {
			return fmt.Errorf("cannot create %s: parent %s is a file", op.Record.Path, dir)
		}
	}
	return nil
}

func (op *WriteOp) Execute(ctx context.Context) error {
	return op.Storage.WriteText(op.Record.Path, op.Record.Content)
}

func (op *WriteOp) Description() string {
	return op.Record.Description()
}

func (op *WriteOp) Change() ChangeRecord {
	return op.Record
}

// DeleteOp applies a Delete record. Deleting an already-absent path succeeds.
type DeleteOp struct {
	Storage Storage
	Base    string
	Record  ChangeRecord
}

func (op *DeleteOp) Validate(ctx context.Context) error {
	return confine(op.Base, op.Record.Path)
}

func (op *DeleteOp) Execute(ctx context.Context) error {
	return op.Storage.DeleteFile(op.Record.Path)
}

func (op *DeleteOp) Description() string {
	return op.Record.Description()
}

func (op *DeleteOp) Change() ChangeRecord {
	return op.Record
}

// confine rejects keys that would resolve outside base.
func confine(base, key string) error {
	if escapes(key) {
		resolved := filepath.FromSlash(key)
		if !path.IsAbs(key) {
			resolved = filepath.Join(base, resolved)
		}
		return &SecurityError{Path: key, Resolved: resolved}
	}

	resolved := filepath.Join(base, filepath.FromSlash(key))
	rel, err := filepath.Rel(base, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return &SecurityError{Path: key, Resolved: resolved}
	}
	return nil
}

// isRegularFile reports whether storage holds readable content at p. Directories
// exist but fail to read as text.
func isRegularFile(s Storage, p string) (bool, error) {
	ok, err := s.Exists(p)
	if err != nil || !ok {
		return false, err
	}
	_, err = s.ReadText(p)
	return err == nil, nil
}
