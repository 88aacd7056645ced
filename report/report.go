package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/usetheodev/theo-boilerplate/generator"
)

// Options controls what Render prints.
type Options struct {
	Diff    bool // include a unified diff for every change
	Probes  bool // list probe outcomes even when the run was not skipped
	Verbose bool // include run id and gate details
	Plain   bool // disable styling
	Width   int  // diff line width; see DiffOptions.Width
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	createStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	modifyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	deleteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// Render writes a human-readable report of res to w.
func Render(w io.Writer, res *generator.Result, opts Options) error {
	p := &printer{w: w, plain: opts.Plain}

	p.linef("%s %s", p.style(titleStyle, res.Generator), Summary(res))
	if opts.Verbose {
		p.linef("  %s", p.style(mutedStyle, "run "+res.RunID))
		if res.Gate.Bypassed {
			p.linef("  %s", p.style(mutedStyle, "working-copy check bypassed"))
		}
	}

	if len(res.Gate.Dirty) > 0 {
		p.linef("")
		p.linef("Uncommitted changes:")
		for _, path := range res.Gate.Dirty {
			p.linef("  %s", path)
		}
	}

	if opts.Probes || res.Outcome == generator.OutcomeSkipped {
		writeProbes(p, res.Probes)
	}

	if len(res.Changes) > 0 {
		p.linef("")
		for _, c := range res.Changes {
			p.linef("  %s %s%s", p.kind(c.Kind), c.Path, p.status(c, res.Outcome))
		}
	}

	if opts.Diff {
		for _, c := range res.Changes {
			if d := Diff(c, &DiffOptions{Plain: opts.Plain, Width: opts.Width}); d != "" {
				p.linef("")
				p.write(d)
			}
		}
	}

	if len(res.Errors) > 0 {
		p.linef("")
		for _, f := range res.Errors {
			p.linef("%s %v", p.style(failureStyle, "✗"), f)
		}
	}

	return p.err
}

// Summary returns a one-line description of the outcome.
func Summary(res *generator.Result) string {
	switch res.Outcome {
	case generator.OutcomeSkipped:
		return "already installed, nothing to do"
	case generator.OutcomePreviewed:
		if len(res.Changes) == 0 {
			return "dry run: no changes"
		}
		return "dry run: would " + counts(res)
	case generator.OutcomeApplied:
		if len(res.Changes) == 0 {
			return "no changes"
		}
		return "applied " + counts(res)
	case generator.OutcomeAborted:
		return "aborted"
	default:
		return res.Outcome.String()
	}
}

// Diff renders one change: the full content of a create, a diff against the
// previous content for a modify, and the removed content of a delete.
func Diff(c generator.ChangeSummary, opts *DiffOptions) string {
	switch c.Kind {
	case generator.ChangeCreate:
		return Unified(DevNull, "b/"+c.Path, "", c.After, opts)
	case generator.ChangeDelete:
		if !c.HadBefore {
			return ""
		}
		return Unified("a/"+c.Path, DevNull, c.Before, "", opts)
	default:
		return Unified("a/"+c.Path, "b/"+c.Path, c.Before, c.After, opts)
	}
}

func counts(res *generator.Result) string {
	var parts []string
	for _, k := range []generator.ChangeKind{generator.ChangeCreate, generator.ChangeModify, generator.ChangeDelete} {
		if n := res.Count(k); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, k))
		}
	}
	return strings.Join(parts, ", ")
}

func writeProbes(p *printer, probes []generator.ProbeResult) {
	if len(probes) == 0 {
		return
	}
	p.linef("")
	p.linef("Checks:")
	for _, r := range probes {
		mark := "✗"
		if r.Passed {
			mark = "✓"
		}
		if r.Err != nil {
			p.linef("  %s %s %s", mark, r.Probe, p.style(mutedStyle, "("+r.Err.Error()+")"))
			continue
		}
		p.linef("  %s %s", mark, r.Probe)
	}
}

// printer keeps the first write error so Render can report it once.
type printer struct {
	w     io.Writer
	plain bool
	err   error
}

func (p *printer) write(s string) {
	if p.err == nil {
		_, p.err = io.WriteString(p.w, s)
	}
}

func (p *printer) linef(format string, args ...any) {
	p.write(fmt.Sprintf(format, args...) + "\n")
}

func (p *printer) style(s lipgloss.Style, text string) string {
	if p.plain {
		return text
	}
	return s.Render(text)
}

func (p *printer) kind(k generator.ChangeKind) string {
	label := fmt.Sprintf("%-6s", k)
	switch k {
	case generator.ChangeCreate:
		return p.style(createStyle, label)
	case generator.ChangeModify:
		return p.style(modifyStyle, label)
	default:
		return p.style(deleteStyle, label)
	}
}

func (p *printer) status(c generator.ChangeSummary, outcome generator.Outcome) string {
	switch c.Status {
	case generator.StatusFailed:
		return " " + p.style(failureStyle, "(failed)")
	case generator.StatusPending:
		return " " + p.style(mutedStyle, "(not attempted)")
	case generator.StatusProposed:
		if outcome == generator.OutcomeAborted {
			return " " + p.style(mutedStyle, "(not written)")
		}
	}
	if c.Kind != generator.ChangeDelete {
		return " " + p.style(mutedStyle, "("+formatFileSize(int64(len(c.After)))+")")
	}
	return ""
}

// formatFileSize formats file size in human-readable format
func formatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}

	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
