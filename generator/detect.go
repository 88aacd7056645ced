package generator

import (
	"context"
	"fmt"
	"strings"
)

// Probe is one idempotency check evaluated against the effective tree.
type Probe interface {
	Describe() string
	Check(ctx context.Context, tree *Tree) (bool, error)
}

type probeFunc struct {
	desc string
	fn   func(ctx context.Context, tree *Tree) (bool, error)
}

func (p probeFunc) Describe() string { return p.desc }

func (p probeFunc) Check(ctx context.Context, tree *Tree) (bool, error) {
	return p.fn(ctx, tree)
}

// NewProbe wraps fn as a Probe described by desc.
func NewProbe(desc string, fn func(ctx context.Context, tree *Tree) (bool, error)) Probe {
	return probeFunc{desc: desc, fn: fn}
}

// PathProbe passes when path exists.
func PathProbe(path string) Probe {
	return NewProbe("exists: "+path, func(_ context.Context, tree *Tree) (bool, error) {
		return tree.Exists(path)
	})
}

// GlobProbe passes when at least one file matches pattern.
func GlobProbe(pattern string) Probe {
	return NewProbe("matches: "+pattern, func(_ context.Context, tree *Tree) (bool, error) {
		matches, err := tree.Glob(pattern)
		if err != nil {
			return false, err
		}
		return len(matches) > 0, nil
	})
}

// ContentProbe passes when path exists and contains substr.
func ContentProbe(path, substr string) Probe {
	return NewProbe(fmt.Sprintf("contains: %s %q", path, substr), func(_ context.Context, tree *Tree) (bool, error) {
		content, ok, err := tree.Read(path)
		if err != nil || !ok {
			return false, err
		}
		return strings.Contains(content, substr), nil
	})
}

// ProbeResult is the outcome of one probe, kept for display.
type ProbeResult struct {
	Probe  string
	Passed bool
	Err    error
}

// Detection reports whether a feature is already installed.
type Detection struct {
	Installed bool
	Results   []ProbeResult
}

// Passed returns the descriptions of the probes that passed.
func (d Detection) Passed() []string {
	var out []string
	for _, r := range d.Results {
		if r.Passed {
			out = append(out, r.Probe)
		}
	}
	return out
}

// Detect evaluates every probe against tree. The feature is installed only when
// there is at least one probe and every probe passed. A probe that errors counts
// as failed; its error is kept in the result.
//
// Detection must run before the generator stages its own writes, otherwise it
// would see its own in-flight output.
func Detect(ctx context.Context, tree *Tree, probes []Probe) Detection {
	d := Detection{Installed: len(probes) > 0}
	for _, p := range probes {
		ok, err := p.Check(ctx, tree)
		if err != nil {
			ok = false
		}
		d.Results = append(d.Results, ProbeResult{Probe: p.Describe(), Passed: ok, Err: err})
		if !ok {
			d.Installed = false
		}
	}
	return d
}
