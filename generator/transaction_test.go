package generator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransaction_EmptyCommitTouchesNothing(t *testing.T) {
	storage, _ := newMemStorage(t, nil)
	rec := &recordingStorage{Storage: storage}
	tree := NewTree(testBase, rec)

	result, err := NewTransaction(tree, nil).Commit(context.Background())

	require.NoError(t, err)
	assert.True(t, result.Complete())
	assert.Empty(t, result.Applied)
	assert.Empty(t, rec.calls)
}

func TestTransaction_CreatesBeforeDeletes(t *testing.T) {
	storage, mem := newMemStorage(t, map[string]string{"a/old.txt": "old"})
	rec := &recordingStorage{Storage: storage}
	tree := NewTree(testBase, rec)

	require.NoError(t, tree.Delete("a/old.txt"))
	require.NoError(t, tree.Write("a/b/file.txt", "staged"))

	result, err := NewTransaction(tree, nil).Commit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"write a/b/file.txt", "delete a/old.txt"}, rec.calls)
	assert.Equal(t, []string{"a/b/file.txt", "a/old.txt"}, paths(result.Applied))
	assert.Equal(t, map[string]string{"a/b/file.txt": "staged"}, snapshot(t, mem))
	assert.Zero(t, tree.Len(), "overlay is cleared after a full commit")
}

func TestTransaction_ApplyOrderIsSortedWithinPhase(t *testing.T) {
	storage, _ := newMemStorage(t, map[string]string{"z.txt": "z", "b.txt": "b", "y.txt": "y"})
	rec := &recordingStorage{Storage: storage}
	tree := NewTree(testBase, rec)

	require.NoError(t, tree.Delete("z.txt"))
	require.NoError(t, tree.Write("c.txt", "c"))
	require.NoError(t, tree.Delete("y.txt"))
	require.NoError(t, tree.Write("b.txt", "b2"))
	require.NoError(t, tree.Write("a.txt", "a"))

	_, err := NewTransaction(tree, nil).Commit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"write a.txt", "write b.txt", "write c.txt",
		"delete y.txt", "delete z.txt",
	}, rec.calls)
}

func TestTransaction_WriteThenModifyScenario(t *testing.T) {
	storage, mem := newMemStorage(t, nil)
	tree := NewTree(testBase, storage)

	require.NoError(t, tree.Write("src/x.ts", "A"))
	require.NoError(t, tree.Modify("src/x.ts", func(s string) (string, error) { return s + "B", nil }))

	result, err := NewTransaction(tree, nil).Commit(context.Background())
	require.NoError(t, err)

	assert.Len(t, result.Applied, 1)
	assert.Equal(t, map[string]string{"src/x.ts": "AB"}, snapshot(t, mem))
}

func TestTransaction_RejectsTraversalBeforeWriting(t *testing.T) {
	storage, _ := newMemStorage(t, nil)
	rec := &recordingStorage{Storage: storage}
	tree := NewTree(testBase, rec)

	require.NoError(t, tree.Write("a.txt", "fine"))
	require.NoError(t, tree.Write("../escape.txt", "evil"))

	result, err := NewTransaction(tree, nil).Commit(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSecurity)
	var sec *SecurityError
	require.True(t, errors.As(err, &sec))
	assert.Equal(t, "../escape.txt", sec.Path)

	assert.Empty(t, rec.calls, "no storage call may happen after a validation failure")
	assert.Empty(t, result.Applied)
	assert.Len(t, result.Pending, 2)
	assert.Equal(t, 2, tree.Len(), "overlay is kept so the caller can inspect it")
}

func TestTransaction_RejectsAbsoluteOutsideBase(t *testing.T) {
	storage, _ := newMemStorage(t, nil)
	tree := NewTree(testBase, storage)

	require.NoError(t, tree.Write("/etc/passwd", "root"))

	_, err := NewTransaction(tree, nil).Commit(context.Background())
	assert.ErrorIs(t, err, ErrSecurity)
}

func TestTransaction_RejectsFileAsParent(t *testing.T) {
	storage, _ := newMemStorage(t, map[string]string{"docs": "i am a file"})
	tree := NewTree(testBase, storage)

	require.NoError(t, tree.Write("docs/guide.md", "# Guide"))

	_, err := NewTransaction(tree, nil).Commit(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parent docs is a file")
}

func TestTransaction_RejectsStagedFileAsParent(t *testing.T) {
	storage, _ := newMemStorage(t, nil)
	tree := NewTree(testBase, storage)

	require.NoError(t, tree.Write("lib", "file"))
	require.NoError(t, tree.Write("lib/util.ts", "dir child"))

	_, err := NewTransaction(tree, nil).Commit(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lib is staged as a file")
}

func TestTransaction_PartialFailureStopsApplying(t *testing.T) {
	storage, mem := newMemStorage(t, map[string]string{"d.txt": "d"})
	denied := errors.New("permission denied")
	rec := &recordingStorage{Storage: storage, failOn: map[string]error{"b.txt": denied}}
	tree := NewTree(testBase, rec)

	require.NoError(t, tree.Write("a.txt", "a"))
	require.NoError(t, tree.Write("b.txt", "b"))
	require.NoError(t, tree.Write("c.txt", "c"))
	require.NoError(t, tree.Delete("d.txt"))

	result, err := NewTransaction(tree, nil).Commit(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPartialCommit)
	assert.ErrorIs(t, err, denied)

	var partial *PartialCommitError
	require.True(t, errors.As(err, &partial))
	assert.Equal(t, "b.txt", partial.Failed.Path)

	assert.False(t, result.Complete())
	assert.Equal(t, []string{"a.txt"}, paths(result.Applied))
	require.NotNil(t, result.Failed)
	assert.Equal(t, "b.txt", result.Failed.Path)
	assert.Equal(t, []string{"c.txt", "d.txt"}, paths(result.Pending))

	// applied records are not undone
	assert.Equal(t, map[string]string{"a.txt": "a", "d.txt": "d"}, snapshot(t, mem))
}

func TestTransaction_CannotCommitTwice(t *testing.T) {
	tree, _ := newMemTree(t, nil)
	require.NoError(t, tree.Write("a.txt", "a"))

	tx := NewTransaction(tree, nil)
	_, err := tx.Commit(context.Background())
	require.NoError(t, err)

	_, err = tx.Commit(context.Background())
	assert.Error(t, err)
}

func TestTransaction_RollbackDiscardsOverlay(t *testing.T) {
	tree, mem := newMemTree(t, nil)
	require.NoError(t, tree.Write("a.txt", "a"))

	tx := NewTransaction(tree, nil)
	tx.Rollback()

	assert.Zero(t, tree.Len())
	assert.Empty(t, snapshot(t, mem))
}

func TestTransaction_CancelledBeforeApply(t *testing.T) {
	storage, _ := newMemStorage(t, nil)
	rec := &recordingStorage{Storage: storage}
	tree := NewTree(testBase, rec)
	require.NoError(t, tree.Write("a.txt", "a"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTransaction(tree, nil).Commit(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rec.calls)
}

func TestTransaction_RealDisk(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.txt"), []byte("old"), 0600))

	tree := NewTree(dir, NewOSStorage(dir))
	require.NoError(t, tree.Write("nested/deep/new.txt", "new"))
	require.NoError(t, tree.Write("old.txt", "replaced"))

	_, err := NewTransaction(tree, nil).Commit(context.Background())
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "nested", "deep", "new.txt"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))

	info, err := os.Stat(filepath.Join(dir, "old.txt"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "existing permissions are preserved")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".theo-tmp-", "temp files must not be left behind")
	}
}
