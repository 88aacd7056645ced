// Package generator stages, reviews and applies the file changes proposed by
// code generators.
//
// # Features
//
//   - Tree: an in-memory overlay over project storage (read/write/modify/delete)
//   - Transaction: validated, ordered application of staged changes
//   - Gate: working-copy cleanliness check before mutating runs
//   - Detect: probe-based idempotency detection
//   - Runner: gate → detect → generate → (preview | commit)
//
// # Runs
//
// A generator never touches storage directly. It receives a Tree, stages its
// changes, and the Runner decides what happens next:
//
//	runner := generator.NewRunner(dir, generator.NewOSStorage(dir))
//	res, err := runner.Run(ctx, gen, generator.Options{DryRun: true})
//	if err != nil {
//	    // res.Errors says why; nothing was written unless a
//	    // PartialCommitError is among them
//	    return err
//	}
//
// # Commits
//
// A Transaction validates every staged record before writing anything, then
// applies creates and modifies (sorted by path) before deletes (sorted by path).
// If a storage call fails mid-apply the commit stops and the CommitResult lists
// which records were applied and which were never attempted. Applied records
// are not undone: atomicity is best-effort, not crash-proof.
package generator
