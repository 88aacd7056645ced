package generator

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const testBase = "/project"

// newMemStorage returns storage rooted at testBase over an in-memory fs seeded with files.
func newMemStorage(t *testing.T, files map[string]string) (*FSStorage, afero.Fs) {
	t.Helper()

	mem := afero.NewMemMapFs()
	require.NoError(t, mem.MkdirAll(testBase, 0755))
	for p, content := range files {
		full := filepath.Join(testBase, filepath.FromSlash(p))
		require.NoError(t, mem.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, afero.WriteFile(mem, full, []byte(content), 0644))
	}
	return NewFSStorage(mem, testBase), mem
}

func newMemTree(t *testing.T, files map[string]string) (*Tree, afero.Fs) {
	t.Helper()
	storage, mem := newMemStorage(t, files)
	return NewTree(testBase, storage), mem
}

// snapshot returns every regular file under testBase with its content.
func snapshot(t *testing.T, fsys afero.Fs) map[string]string {
	t.Helper()

	out := make(map[string]string)
	err := afero.Walk(fsys, testBase, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		data, err := afero.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		out[strings.TrimPrefix(filepath.ToSlash(p), testBase+"/")] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}

// recordingStorage logs every mutating call and fails the ones listed in failOn.
type recordingStorage struct {
	Storage
	calls  []string
	failOn map[string]error
}

func (s *recordingStorage) WriteText(p, text string) error {
	s.calls = append(s.calls, "write "+p)
	if err := s.failOn[p]; err != nil {
		return err
	}
	return s.Storage.WriteText(p, text)
}

func (s *recordingStorage) DeleteFile(p string) error {
	s.calls = append(s.calls, "delete "+p)
	if err := s.failOn[p]; err != nil {
		return err
	}
	return s.Storage.DeleteFile(p)
}

func paths(records []ChangeRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Path
	}
	sort.Strings(out)
	return out
}
