// Package report renders generator results for people.
//
// Result values are plain data; this package turns them into a change list,
// probe table and unified diff previews. Diffs are computed from the Before and
// After content captured in each generator.ChangeSummary, so rendering never
// touches storage.
package report
