package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/usetheodev/theo-boilerplate/generator"
)

// ErrNotRepository indicates the directory is not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

// Git queries a git working copy.
type Git struct {
	binary string

	// For mocking in tests
	commandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewGit returns a Git that runs the git binary found on PATH.
func NewGit() *Git {
	return &Git{binary: "git", commandFunc: exec.CommandContext}
}

// Status reports whether dir has modified, staged or untracked files.
func (g *Git) Status(ctx context.Context, dir string) (generator.WorkingCopy, error) {
	out, err := g.run(ctx, dir, "status", "--porcelain", "--untracked-files=all")
	if err != nil {
		return generator.WorkingCopy{}, err
	}
	paths := ParsePorcelain(out)
	return generator.WorkingCopy{Clean: len(paths) == 0, Paths: paths}, nil
}

// Root returns the top-level directory of the work tree containing dir.
func (g *Git) Root(ctx context.Context, dir string) (string, error) {
	out, err := g.run(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (g *Git) run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := g.commandFunc(ctx, g.binary, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w\n💡 Command '%s' not found. Please install it and try again", err, g.binary)
		}
		msg := strings.TrimSpace(stderr.String())
		if strings.Contains(strings.ToLower(msg), "not a git repository") {
			return "", fmt.Errorf("%w: %s", ErrNotRepository, dir)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("git %s cancelled: %w", args[0], ctxErr)
		}
		if msg != "" {
			return "", fmt.Errorf("git %s failed: %w: %s", args[0], err, msg)
		}
		return "", fmt.Errorf("git %s failed: %w", args[0], err)
	}
	return stdout.String(), nil
}

// ParsePorcelain extracts the paths from `git status --porcelain` (v1) output.
// Renames report the destination path. Quoted paths are unquoted.
func ParsePorcelain(out string) []string {
	var paths []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if len(line) < 4 {
			continue
		}
		p := line[3:]
		if i := strings.Index(p, " -> "); i >= 0 {
			p = p[i+len(" -> "):]
		}
		if strings.HasPrefix(p, `"`) {
			if unquoted, err := strconv.Unquote(p); err == nil {
				p = unquoted
			}
		}
		paths = append(paths, p)
	}
	return paths
}
