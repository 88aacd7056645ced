package generator

import (
	"errors"
	"fmt"
)

// Outcome is the terminal state of a run.
type Outcome int

const (
	OutcomeApplied Outcome = iota + 1
	OutcomeSkipped
	OutcomePreviewed
	OutcomeAborted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeSkipped:
		return "skipped"
	case OutcomePreviewed:
		return "previewed"
	case OutcomeAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// ChangeStatus tracks what happened to one record during a run.
type ChangeStatus int

const (
	StatusProposed ChangeStatus = iota + 1 // dry-run, or never reached commit
	StatusApplied
	StatusFailed
	StatusPending // commit stopped before attempting it
)

func (s ChangeStatus) String() string {
	switch s {
	case StatusProposed:
		return "proposed"
	case StatusApplied:
		return "applied"
	case StatusFailed:
		return "failed"
	case StatusPending:
		return "not attempted"
	default:
		return "unknown"
	}
}

// ChangeSummary is the reportable view of a record. Before holds the storage
// content prior to the run so previews can diff without touching storage.
type ChangeSummary struct {
	Path      string
	Kind      ChangeKind
	Status    ChangeStatus
	Before    string
	HadBefore bool
	After     string
}

// Record returns the change record this summary describes.
func (s ChangeSummary) Record() ChangeRecord {
	if s.Kind == ChangeDelete {
		return NewDelete(s.Path)
	}
	return ChangeRecord{Path: s.Path, Kind: s.Kind, Content: s.After}
}

// FailureKind classifies an entry in Result.Errors.
type FailureKind int

const (
	FailurePrecondition FailureKind = iota + 1
	FailureGenerator
	FailureSecurity
	FailureValidation
	FailureCommit
	FailureDeclined
)

func (k FailureKind) String() string {
	switch k {
	case FailurePrecondition:
		return "precondition"
	case FailureGenerator:
		return "generator"
	case FailureSecurity:
		return "security"
	case FailureValidation:
		return "validation"
	case FailureCommit:
		return "commit"
	case FailureDeclined:
		return "declined"
	default:
		return "unknown"
	}
}

// Failure describes why a run aborted.
type Failure struct {
	Kind FailureKind
	Path string // empty unless the failure is tied to one record
	Err  error
}

func (f Failure) Error() string {
	if f.Path != "" {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Path, f.Err)
	}
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Result is the structured outcome of one run. It is plain data: rendering is
// left to the caller.
type Result struct {
	RunID     string
	Generator string
	Outcome   Outcome
	Gate      GateResult
	Probes    []ProbeResult
	Changes   []ChangeSummary
	Errors    []Failure
}

// Err joins every failure, or returns nil when there are none.
func (r *Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, f := range r.Errors {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Count returns how many changes of kind the result lists.
func (r *Result) Count(kind ChangeKind) int {
	n := 0
	for _, c := range r.Changes {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// Paths returns the listed change paths with the given status.
func (r *Result) Paths(status ChangeStatus) []string {
	var out []string
	for _, c := range r.Changes {
		if c.Status == status {
			out = append(out, c.Path)
		}
	}
	return out
}
