package vcs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockGit returns a command factory that re-runs the test binary as a fake git
// replaying the named scenario.
func mockGit(scenario string) func(ctx context.Context, name string, args ...string) *exec.Cmd {
	return func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cs := []string{"-test.run=TestHelperProcess", "--", name}
		cs = append(cs, args...)
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = []string{"GO_WANT_HELPER_PROCESS=1", "GIT_SCENARIO=" + scenario}
		return cmd
	}
}

// TestHelperProcess is the fake git binary.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for i, arg := range args {
		if arg == "--" {
			args = args[i+1:]
			break
		}
	}
	if len(args) < 2 || args[0] != "git" {
		fmt.Fprintf(os.Stderr, "unexpected command %v\n", args)
		os.Exit(2)
	}

	switch os.Getenv("GIT_SCENARIO") {
	case "clean":
		os.Exit(0)
	case "dirty":
		fmt.Print(" M src/app.module.ts\n?? notes.txt\nR  old.ts -> new.ts\n")
		os.Exit(0)
	case "toplevel":
		fmt.Println("/home/dev/project")
		os.Exit(0)
	case "norepo":
		fmt.Fprintln(os.Stderr, "fatal: not a git repository (or any of the parent directories): .git")
		os.Exit(128)
	default:
		fmt.Fprintln(os.Stderr, "fatal: something broke")
		os.Exit(1)
	}
}

func newMockGit(scenario string) *Git {
	return &Git{binary: "git", commandFunc: mockGit(scenario)}
}

func TestGit_StatusClean(t *testing.T) {
	wc, err := newMockGit("clean").Status(context.Background(), t.TempDir())

	require.NoError(t, err)
	assert.True(t, wc.Clean)
	assert.Empty(t, wc.Paths)
}

func TestGit_StatusDirty(t *testing.T) {
	wc, err := newMockGit("dirty").Status(context.Background(), t.TempDir())

	require.NoError(t, err)
	assert.False(t, wc.Clean)
	assert.Equal(t, []string{"src/app.module.ts", "notes.txt", "new.ts"}, wc.Paths)
}

func TestGit_StatusNotRepository(t *testing.T) {
	_, err := newMockGit("norepo").Status(context.Background(), t.TempDir())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotRepository))
}

func TestGit_StatusFailure(t *testing.T) {
	_, err := newMockGit("broken").Status(context.Background(), t.TempDir())

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotRepository))
	assert.Contains(t, err.Error(), "something broke")
}

func TestGit_Root(t *testing.T) {
	root, err := newMockGit("toplevel").Root(context.Background(), t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "/home/dev/project", root)
}

func TestGit_BinaryMissing(t *testing.T) {
	g := NewGit()
	g.binary = "theo-definitely-not-git"

	_, err := g.Status(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "not found"))
}

func TestParsePorcelain(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "modified and untracked", in: " M a.go\n?? b.go\n", want: []string{"a.go", "b.go"}},
		{name: "staged and deleted", in: "A  c.go\n D d.go\n", want: []string{"c.go", "d.go"}},
		{name: "rename", in: "R  old name.go -> new name.go\n", want: []string{"new name.go"}},
		{name: "quoted", in: "?? \"with\\ttab.go\"\n", want: []string{"with\ttab.go"}},
		{name: "crlf", in: " M a.go\r\n", want: []string{"a.go"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePorcelain(tt.in))
		})
	}
}
