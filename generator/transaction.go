package generator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
)

// CommitResult reports what a commit did with each staged record.
type CommitResult struct {
	Applied []ChangeRecord // applied in order
	Failed  *ChangeRecord  // record whose storage call failed, if any
	Err     error          // cause of the failure
	Pending []ChangeRecord // never attempted
}

// Complete reports whether every record was applied.
func (r *CommitResult) Complete() bool {
	return r.Failed == nil && len(r.Pending) == 0
}

// Transaction applies the staged changes of a Tree to its storage.
//
// Commit validates every record before touching storage, then applies creates
// and modifies (sorted by path) followed by deletes (sorted by path). A failed
// storage call stops the apply phase; records already applied stay applied and
// the result says which ones were never attempted.
type Transaction struct {
	tree      *Tree
	logger    *slog.Logger
	committed bool
}

// NewTransaction creates a transaction over tree. A nil logger discards output.
func NewTransaction(tree *Tree, logger *slog.Logger) *Transaction {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Transaction{tree: tree, logger: logger}
}

// Plan returns the operations for the current overlay in apply order.
func (t *Transaction) Plan() []Operation {
	changes := t.tree.Changes()

	var writes, deletes []Operation
	for _, rec := range changes {
		if rec.IsDelete() {
			deletes = append(deletes, &DeleteOp{Storage: t.tree.Storage(), Base: t.tree.Base(), Record: rec})
		} else {
			writes = append(writes, &WriteOp{Storage: t.tree.Storage(), Base: t.tree.Base(), Record: rec})
		}
	}

	byPath := func(ops []Operation) {
		sort.SliceStable(ops, func(i, j int) bool { return ops[i].Change().Path < ops[j].Change().Path })
	}
	byPath(writes)
	byPath(deletes)

	return append(writes, deletes...)
}

// Commit writes all staged changes to storage.
// An empty overlay commits trivially without touching storage.
func (t *Transaction) Commit(ctx context.Context) (*CommitResult, error) {
	if t.committed {
		return nil, fmt.Errorf("transaction already committed")
	}

	ops := t.Plan()
	result := &CommitResult{}
	if len(ops) == 0 {
		t.committed = true
		return result, nil
	}

	// Phase 1: validate everything; nothing has touched storage yet.
	if err := t.validate(ctx, ops); err != nil {
		result.Pending = changesOf(ops)
		return result, fmt.Errorf("validation failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		result.Pending = changesOf(ops)
		return result, fmt.Errorf("commit cancelled before apply: %w", err)
	}

	// Phase 2: apply in order, stopping at the first failure.
	for i, op := range ops {
		rec := op.Change()
		if err := op.Execute(ctx); err != nil {
			result.Failed = &rec
			result.Err = err
			result.Pending = changesOf(ops[i+1:])

			t.logger.Error("apply failed",
				"path", rec.Path,
				"kind", rec.Kind.String(),
				"applied", len(result.Applied),
				"pending", len(result.Pending),
				"error", err)

			return result, &PartialCommitError{Result: result, Failed: rec, Err: err}
		}

		t.logger.Debug("applied", "path", rec.Path, "kind", rec.Kind.String())
		result.Applied = append(result.Applied, rec)
	}

	t.tree.Discard()
	t.committed = true
	return result, nil
}

// Rollback abandons an uncommitted transaction by discarding the overlay.
// It never touches storage and is safe to defer.
func (t *Transaction) Rollback() {
	if !t.committed {
		t.tree.Discard()
	}
}

// validate checks each operation, then rejects batches where a staged file
// would have to be a directory for another staged file.
func (t *Transaction) validate(ctx context.Context, ops []Operation) error {
	for _, op := range ops {
		if err := op.Validate(ctx); err != nil {
			return err
		}
	}

	files := make(map[string]bool)
	for _, op := range ops {
		if rec := op.Change(); !rec.IsDelete() {
			files[rec.Path] = true
		}
	}
	for p := range files {
		for dir := parentOf(p); dir != ""; dir = parentOf(dir) {
			if files[dir] {
				return fmt.Errorf("cannot create %s: %s is staged as a file", p, dir)
			}
		}
	}
	return nil
}

func parentOf(p string) string {
	i := strings.LastIndex(p, "/")
	if i <= 0 {
		return ""
	}
	return p[:i]
}

func changesOf(ops []Operation) []ChangeRecord {
	out := make([]ChangeRecord, 0, len(ops))
	for _, op := range ops {
		out = append(out, op.Change())
	}
	return out
}
