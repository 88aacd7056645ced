// Package ui holds the interactive terminal pieces of the theo CLI.
package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/usetheodev/theo-boilerplate/generator"
	"github.com/usetheodev/theo-boilerplate/report"
)

// Decision is the reviewer's answer for a set of staged changes.
type Decision int

const (
	Apply Decision = iota
	ShowDiff
	Cancel
)

// inlineDiffLines is the largest diff printed inline; longer ones open the viewer.
const inlineDiffLines = 20

// Lipgloss styles for terminal output
var (
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	borderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Reviewer asks the user to approve staged changes before they are committed.
type Reviewer struct {
	Diff *report.DiffOptions // nil uses report defaults

	in  io.Reader
	out io.Writer

	// For mocking in tests
	runProgram func(ctx context.Context, m tea.Model, altScreen bool) (tea.Model, error)
}

// NewReviewer creates a reviewer reading keys from in and drawing to out.
func NewReviewer(in io.Reader, out io.Writer) *Reviewer {
	r := &Reviewer{in: in, out: out}
	r.runProgram = r.run
	return r
}

// Approve implements generator.ApproveFunc. Choosing "Show diff" displays the
// diff and then asks again, so the changes can be reviewed any number of times.
func (r *Reviewer) Approve(ctx context.Context, changes []generator.ChangeSummary) (bool, error) {
	for {
		final, err := r.runProgram(ctx, newReviewModel(changes), false)
		if err != nil {
			return false, fmt.Errorf("failed to show menu: %w", err)
		}

		m := final.(reviewModel)
		if m.selected == nil {
			return false, nil
		}

		switch *m.selected {
		case Apply:
			return true, nil
		case ShowDiff:
			if err := r.showDiff(ctx, changes); err != nil {
				return false, err
			}
		default:
			return false, nil
		}
	}
}

func (r *Reviewer) showDiff(ctx context.Context, changes []generator.ChangeSummary) error {
	var b strings.Builder
	for _, c := range changes {
		if d := report.Diff(c, r.Diff); d != "" {
			b.WriteString(d)
		}
	}
	diff := b.String()

	if strings.Count(diff, "\n") <= inlineDiffLines {
		_, err := fmt.Fprintln(r.out, diff)
		return err
	}

	if _, err := r.runProgram(ctx, newDiffViewerModel(fmt.Sprintf("%d files", len(changes)), diff), true); err != nil {
		return fmt.Errorf("failed to show diff: %w", err)
	}
	return nil
}

func (r *Reviewer) run(ctx context.Context, m tea.Model, altScreen bool) (tea.Model, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithInput(r.in), tea.WithOutput(r.out)}
	if altScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	return tea.NewProgram(m, opts...).Run()
}

// reviewModel is the BubbleTea model for the apply/diff/cancel menu
type reviewModel struct {
	changes  []generator.ChangeSummary
	choices  []string
	cursor   int
	selected *Decision
}

func newReviewModel(changes []generator.ChangeSummary) reviewModel {
	return reviewModel{
		changes: changes,
		choices: []string{
			"Apply changes",
			"Show diff",
			"Cancel (write nothing)",
		},
	}
}

func (m reviewModel) Init() tea.Cmd {
	return nil
}

func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}

		case "y":
			d := Apply
			m.selected = &d
			return m, tea.Quit

		case "d":
			d := ShowDiff
			m.selected = &d
			return m, tea.Quit

		case "enter":
			d := Decision(m.cursor)
			m.selected = &d
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m reviewModel) View() string {
	var b strings.Builder

	b.WriteString(warningStyle.Render(fmt.Sprintf("Review %d staged change(s):", len(m.changes))) + "\n")
	for _, c := range m.changes {
		b.WriteString(fmt.Sprintf("    %-6s %s\n", c.Kind, c.Path))
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("    [↑/↓] Navigate    [Enter] Select    [y] Apply    [d] Diff    [q] Cancel") + "\n\n")

	for i, choice := range m.choices {
		if m.cursor == i {
			b.WriteString("    " + selectedStyle.Render("> "+choice) + "\n")
		} else {
			b.WriteString("      " + choice + "\n")
		}
	}
	return b.String()
}

// diffViewerModel is the BubbleTea model for showing long diffs
type diffViewerModel struct {
	title    string
	diff     string
	viewport viewport.Model
	ready    bool
}

func newDiffViewerModel(title, diff string) diffViewerModel {
	return diffViewerModel{title: title, diff: diff}
}

func (m diffViewerModel) Init() tea.Cmd {
	return nil
}

func (m diffViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		const verticalMargin = 4
		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, msg.Height-verticalMargin)
			m.viewport.SetContent(m.diff)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = msg.Height - verticalMargin
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m diffViewerModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	title := fmt.Sprintf("─ Diff: %s ", m.title)
	b.WriteString(borderStyle.Render("┌"+title+strings.Repeat("─", max(0, m.viewport.Width-lipgloss.Width(title)+2))+"┐") + "\n")
	for _, line := range strings.Split(m.viewport.View(), "\n") {
		pad := strings.Repeat(" ", max(0, m.viewport.Width-lipgloss.Width(line)))
		b.WriteString(borderStyle.Render("│") + " " + line + pad + " " + borderStyle.Render("│") + "\n")
	}
	footer := " [↑/↓] Scroll    [q] Back to menu "
	b.WriteString(borderStyle.Render("└"+strings.Repeat("─", max(0, m.viewport.Width-lipgloss.Width(footer)+2))+footer+"┘") + "\n")
	return b.String()
}
