// Package vcs reports the working-copy state of a project directory.
//
// Git implements generator.StatusProvider by running
//
//	git status --porcelain --untracked-files=all
//
// in the project directory. A directory that is not inside a work tree yields
// ErrNotRepository, which the generator gate treats as a failed precondition
// unless the run bypasses it.
package vcs
