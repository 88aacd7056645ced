package generator

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPreconditionFailed indicates the working copy is not clean and no override was given.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrAlreadyInstalled marks a Skipped run. It is informational, not a failure.
	ErrAlreadyInstalled = errors.New("already installed")

	// ErrNotFound indicates a modify targeted a path with no effective content.
	ErrNotFound = errors.New("not found")

	// ErrSecurity indicates a path resolves outside the base directory.
	ErrSecurity = errors.New("path escapes base directory")

	// ErrPartialCommit indicates a storage call failed after some records were applied.
	ErrPartialCommit = errors.New("partial commit")

	// ErrDeclined indicates the review step rejected the staged changes.
	ErrDeclined = errors.New("changes declined")

	// ErrGeneratorFailed wraps a failure returned by a generator function.
	ErrGeneratorFailed = errors.New("generator failed")
)

// SecurityError reports a staged path that would resolve outside the base directory.
type SecurityError struct {
	Path     string
	Resolved string
}

func (e *SecurityError) Error() string {
	if e.Resolved != "" {
		return fmt.Sprintf("%s: %s resolves to %s", ErrSecurity, e.Path, e.Resolved)
	}
	return fmt.Sprintf("%s: %s", ErrSecurity, e.Path)
}

func (e *SecurityError) Is(target error) bool { return target == ErrSecurity }

// PreconditionError carries the modified or untracked paths that made the gate fail.
type PreconditionError struct {
	Dirty []string
}

func (e *PreconditionError) Error() string {
	if len(e.Dirty) == 0 {
		return fmt.Sprintf("%s: working copy is not clean", ErrPreconditionFailed)
	}
	return fmt.Sprintf("%s: working copy is not clean (%s)", ErrPreconditionFailed, strings.Join(e.Dirty, ", "))
}

func (e *PreconditionError) Is(target error) bool { return target == ErrPreconditionFailed }

// PartialCommitError reports the record that failed mid-apply. Result enumerates
// which records were applied and which were never attempted.
type PartialCommitError struct {
	Result *CommitResult
	Failed ChangeRecord
	Err    error
}

func (e *PartialCommitError) Error() string {
	applied, pending := 0, 0
	if e.Result != nil {
		applied, pending = len(e.Result.Applied), len(e.Result.Pending)
	}
	return fmt.Sprintf("%s: %s failed after %d applied, %d not attempted: %v",
		ErrPartialCommit, e.Failed.Description(), applied, pending, e.Err)
}

func (e *PartialCommitError) Is(target error) bool { return target == ErrPartialCommit }

func (e *PartialCommitError) Unwrap() error { return e.Err }
