package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/google/uuid"
)

// Options configures one run.
//
// Force bypasses both the precondition gate and the idempotency skip, allowing
// overwrite. AllowDirty bypasses only the gate. DryRun reports without writing.
type Options struct {
	DryRun     bool
	Force      bool
	AllowDirty bool
}

// Generator proposes changes against a Tree. Probes are consulted before
// Generate runs to decide whether the feature is already installed.
type Generator interface {
	Name() string
	Probes() []Probe
	Generate(ctx context.Context, tree *Tree, opts Options) error
}

// Func adapts a plain function to Generator.
type Func struct {
	ID     string
	Checks []Probe
	Fn     func(ctx context.Context, tree *Tree, opts Options) error
}

func (f Func) Name() string    { return f.ID }
func (f Func) Probes() []Probe { return f.Checks }

func (f Func) Generate(ctx context.Context, tree *Tree, opts Options) error {
	return f.Fn(ctx, tree, opts)
}

// ApproveFunc reviews staged changes before commit. Returning false aborts the
// run without writing anything.
type ApproveFunc func(ctx context.Context, changes []ChangeSummary) (bool, error)

// Runner executes generators: gate, detect, generate, then preview or commit.
// It is the only place that decides between dry-run, skip and commit.
type Runner struct {
	Base    string
	Storage Storage
	Status  StatusProvider // nil treats the working copy as clean
	Logger  *slog.Logger   // nil discards
	Approve ApproveFunc    // nil commits without review
}

// NewRunner creates a runner over storage rooted at base.
func NewRunner(base string, storage Storage) *Runner {
	return &Runner{Base: base, Storage: storage}
}

// Run executes gen once. The returned error is non-nil exactly when the
// outcome is OutcomeAborted, and equals res.Err().
func (r *Runner) Run(ctx context.Context, gen Generator, opts Options) (*Result, error) {
	res := &Result{RunID: uuid.NewString(), Generator: gen.Name()}
	log := r.logger().With("run_id", res.RunID, "generator", gen.Name())

	// Start → Gated
	gate, err := NewGate(r.Status, r.Base).Check(ctx, opts)
	res.Gate = gate
	if err != nil {
		return r.abort(res, log, Failure{Kind: FailurePrecondition, Err: fmt.Errorf("%w: %w", ErrPreconditionFailed, err)})
	}
	if !gate.Clean {
		return r.abort(res, log, Failure{Kind: FailurePrecondition, Err: &PreconditionError{Dirty: gate.Dirty}})
	}
	log.Debug("gated", "bypassed", gate.Bypassed)

	tree := NewTree(r.Base, r.Storage)
	defer tree.Discard()

	// Gated → Detected
	detection := Detect(ctx, tree, gen.Probes())
	res.Probes = detection.Results
	log.Debug("detected", "installed", detection.Installed, "probes", len(detection.Results))
	if detection.Installed && !opts.Force {
		res.Outcome = OutcomeSkipped
		log.Info("skipped", "reason", ErrAlreadyInstalled.Error())
		return res, nil
	}

	// Detected → Staged
	if err := gen.Generate(ctx, tree, opts); err != nil {
		return r.abort(res, log, Failure{Kind: FailureGenerator, Err: fmt.Errorf("%w: %s: %w", ErrGeneratorFailed, gen.Name(), err)})
	}
	changes := tree.Changes()
	summaries, err := r.summarize(changes)
	if err != nil {
		return r.abort(res, log, Failure{Kind: FailureValidation, Err: err})
	}
	res.Changes = summaries
	log.Debug("staged", "changes", len(changes))

	// Staged → PreviewedOnly
	if opts.DryRun {
		res.Outcome = OutcomePreviewed
		log.Info("previewed", "changes", len(changes))
		return res, nil
	}

	if r.Approve != nil && len(changes) > 0 {
		ok, err := r.Approve(ctx, summaries)
		if err != nil {
			return r.abort(res, log, Failure{Kind: FailureDeclined, Err: fmt.Errorf("review failed: %w", err)})
		}
		if !ok {
			return r.abort(res, log, Failure{Kind: FailureDeclined, Err: ErrDeclined})
		}
	}

	// Staged → Applied | Aborted
	cr, err := NewTransaction(tree, log).Commit(ctx)
	if cr != nil {
		markCommitted(res.Changes, cr)
	}
	if err != nil {
		return r.abort(res, log, classifyCommitError(err))
	}

	res.Outcome = OutcomeApplied
	res.Changes = inApplyOrder(res.Changes, cr.Applied)
	log.Info("applied", "changes", len(cr.Applied))
	return res, nil
}

func (r *Runner) abort(res *Result, log *slog.Logger, f Failure) (*Result, error) {
	res.Outcome = OutcomeAborted
	res.Errors = append(res.Errors, f)
	log.Warn("aborted", "kind", f.Kind.String(), "error", f.Err)
	return res, res.Err()
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r.Logger
}

// summarize captures the pre-run storage content of every staged path.
func (r *Runner) summarize(changes []ChangeRecord) ([]ChangeSummary, error) {
	out := make([]ChangeSummary, 0, len(changes))
	for _, rec := range changes {
		s := ChangeSummary{Path: rec.Path, Kind: rec.Kind, Status: StatusProposed, After: rec.Content}
		if !rec.IsCreate() && !escapes(rec.Path) {
			before, err := r.Storage.ReadText(rec.Path)
			switch {
			case err == nil:
				s.Before, s.HadBefore = before, true
			case !errors.Is(err, fs.ErrNotExist):
				return nil, fmt.Errorf("reading %s: %w", rec.Path, err)
			}
		}
		out = append(out, s)
	}
	return out, nil
}

func markCommitted(changes []ChangeSummary, cr *CommitResult) {
	status := make(map[string]ChangeStatus)
	for _, rec := range cr.Applied {
		status[rec.Path] = StatusApplied
	}
	for _, rec := range cr.Pending {
		status[rec.Path] = StatusPending
	}
	if cr.Failed != nil {
		status[cr.Failed.Path] = StatusFailed
	}
	for i := range changes {
		if s, ok := status[changes[i].Path]; ok {
			changes[i].Status = s
		}
	}
}

// inApplyOrder rearranges changes into the order the commit applied them:
// writes by path, then deletes by path.
func inApplyOrder(changes []ChangeSummary, applied []ChangeRecord) []ChangeSummary {
	out := make([]ChangeSummary, 0, len(changes))
	used := make([]bool, len(changes))
	for _, rec := range applied {
		for i, c := range changes {
			if !used[i] && rec.SamePath(c.Record()) {
				out = append(out, c)
				used[i] = true
				break
			}
		}
	}
	for i, c := range changes {
		if !used[i] {
			out = append(out, c)
		}
	}
	return out
}

func classifyCommitError(err error) Failure {
	var sec *SecurityError
	if errors.As(err, &sec) {
		return Failure{Kind: FailureSecurity, Path: sec.Path, Err: err}
	}
	var partial *PartialCommitError
	if errors.As(err, &partial) {
		return Failure{Kind: FailureCommit, Path: partial.Failed.Path, Err: err}
	}
	return Failure{Kind: FailureValidation, Err: err}
}
