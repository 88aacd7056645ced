package generator

import (
	"context"
	"fmt"
)

// WorkingCopy is the state reported by a version-control status primitive.
type WorkingCopy struct {
	Clean bool
	Paths []string // modified or untracked paths when not clean
}

// StatusProvider reports the working-copy state of a directory.
type StatusProvider interface {
	Status(ctx context.Context, dir string) (WorkingCopy, error)
}

// StatusFunc adapts a function to StatusProvider.
type StatusFunc func(ctx context.Context, dir string) (WorkingCopy, error)

func (f StatusFunc) Status(ctx context.Context, dir string) (WorkingCopy, error) {
	return f(ctx, dir)
}

// GateResult is the decision of a precondition check.
type GateResult struct {
	Clean    bool
	Bypassed bool     // Force or AllowDirty skipped the check
	Dirty    []string // paths that made the working copy dirty
}

// Gate decides whether a mutating run may proceed. It holds no staged state
// and never mutates anything.
type Gate struct {
	status StatusProvider
	dir    string
}

// NewGate creates a gate for dir. A nil provider treats every directory as clean.
func NewGate(status StatusProvider, dir string) *Gate {
	return &Gate{status: status, dir: dir}
}

// Check consults the status provider unless opts bypass the gate.
func (g *Gate) Check(ctx context.Context, opts Options) (GateResult, error) {
	if opts.Force || opts.AllowDirty {
		return GateResult{Clean: true, Bypassed: true}, nil
	}
	if g == nil || g.status == nil {
		return GateResult{Clean: true}, nil
	}

	wc, err := g.status.Status(ctx, g.dir)
	if err != nil {
		return GateResult{}, fmt.Errorf("checking working copy: %w", err)
	}
	if wc.Clean {
		return GateResult{Clean: true}, nil
	}
	return GateResult{Dirty: wc.Paths}, nil
}
