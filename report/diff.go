package report

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// DevNull is the header path for the missing side of a create or delete.
const DevNull = "/dev/null"

// maxDiffLines bounds the Myers search; larger inputs get a size notice instead.
const maxDiffLines = 10000

// DiffOptions configures how diffs are generated and displayed.
// All fields are optional with sensible defaults.
type DiffOptions struct {
	// ContextLines is the number of unchanged lines to show around changes.
	// Default: 3
	ContextLines int

	// TabWidth is the number of spaces each tab character expands to.
	// Default: 4
	TabWidth int

	// Width truncates long lines. 0 detects the terminal width; negative disables truncation.
	Width int

	// Plain disables lipgloss styling.
	Plain bool
}

func (o *DiffOptions) withDefaults() DiffOptions {
	out := DiffOptions{}
	if o != nil {
		out = *o
	}
	if out.ContextLines == 0 {
		out.ContextLines = 3
	}
	if out.TabWidth == 0 {
		out.TabWidth = 4
	}
	if out.Width == 0 {
		out.Width = terminalWidth()
	}
	return out
}

// Lipgloss styles for terminal output
var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("22"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("52"))
)

type lineOp int

const (
	opEqual lineOp = iota
	opInsert
	opDelete
)

// editLine is one line of an edit script. oldPos and newPos count the lines
// of each side that precede it.
type editLine struct {
	op     lineOp
	text   string
	oldPos int
	newPos int
}

type hunk struct {
	oldStart, oldCount int
	newStart, newCount int
	lines              []editLine
}

// Unified returns a unified diff of old and newer, or "" when they are equal.
// Use DevNull as a path for the missing side of a create or delete.
func Unified(oldPath, newPath, old, newer string, opts *DiffOptions) string {
	o := opts.withDefaults()

	if isBinary(old) || isBinary(newer) {
		return fmt.Sprintf("Binary files %s and %s differ\n", oldPath, newPath)
	}

	a, b := splitLines(old), splitLines(newer)
	if slices.Equal(a, b) {
		return ""
	}
	if len(a) > maxDiffLines || len(b) > maxDiffLines {
		return fmt.Sprintf("Files too large for diff (%d and %d lines)\n", len(a), len(b))
	}

	hunks := buildHunks(editScript(a, b), o.ContextLines)

	var buf strings.Builder
	buf.WriteString(render(o, headerStyle, "--- "+oldPath) + "\n")
	buf.WriteString(render(o, headerStyle, "+++ "+newPath) + "\n")
	for _, h := range hunks {
		writeHunk(&buf, h, o)
	}
	return buf.String()
}

// editScript computes the shortest edit script with the Myers O(ND) algorithm.
func editScript(a, b []string) []editLine {
	n, m := len(a), len(b)
	limit := n + m
	offset := limit + 1
	v := make([]int, 2*limit+3)

	var trace [][]int
search:
	for d := 0; d <= limit; d++ {
		trace = append(trace, slices.Clone(v))
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[offset+k] = x
			if x >= n && y >= m {
				break search
			}
		}
	}

	var script []editLine
	x, y := n, m
	for d := len(trace) - 1; d >= 0; d-- {
		v := trace[d]
		k := x - y

		prevK := k - 1
		if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
			prevK = k + 1
		}
		prevX := v[offset+prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			script = append(script, editLine{op: opEqual, text: a[x], oldPos: x, newPos: y})
		}
		if d == 0 {
			break
		}
		if x == prevX {
			y--
			script = append(script, editLine{op: opInsert, text: b[y], oldPos: x, newPos: y})
		} else {
			x--
			script = append(script, editLine{op: opDelete, text: a[x], oldPos: x, newPos: y})
		}
	}

	slices.Reverse(script)
	return script
}

// buildHunks groups changes whose separating context is at most 2*context lines.
func buildHunks(script []editLine, context int) []hunk {
	var hunks []hunk
	for i := 0; i < len(script); {
		if script[i].op == opEqual {
			i++
			continue
		}

		start := max(0, i-context)
		end := i
		for end < len(script) {
			if script[end].op != opEqual {
				end++
				continue
			}
			run := end
			for run < len(script) && script[run].op == opEqual {
				run++
			}
			if run == len(script) || run-end > 2*context {
				break
			}
			end = run
		}

		stop := min(len(script), end+context)
		hunks = append(hunks, newHunk(script[start:stop]))
		i = stop
	}
	return hunks
}

func newHunk(lines []editLine) hunk {
	h := hunk{lines: lines}
	for _, l := range lines {
		if l.op != opInsert {
			h.oldCount++
		}
		if l.op != opDelete {
			h.newCount++
		}
	}
	h.oldStart, h.newStart = lines[0].oldPos, lines[0].newPos
	if h.oldCount > 0 {
		h.oldStart++
	}
	if h.newCount > 0 {
		h.newStart++
	}
	return h
}

func writeHunk(buf *strings.Builder, h hunk, o DiffOptions) {
	header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.oldStart, h.oldCount, h.newStart, h.newCount)
	buf.WriteString(render(o, hunkStyle, header) + "\n")

	for _, l := range h.lines {
		text := expandTabs(l.text, o.TabWidth)
		if o.Width > 0 {
			text = truncateLine(text, o.Width-1)
		}
		switch l.op {
		case opInsert:
			buf.WriteString(render(o, addedStyle, "+"+text))
		case opDelete:
			buf.WriteString(render(o, removedStyle, "-"+text))
		default:
			buf.WriteString(" " + text)
		}
		buf.WriteString("\n")
	}
}

func render(o DiffOptions, style lipgloss.Style, s string) string {
	if o.Plain {
		return s
	}
	return style.Render(s)
}

// isBinary checks if content appears to be binary (contains null bytes)
func isBinary(s string) bool {
	data := []byte(s)
	if len(data) > 8192 {
		data = data[:8192]
	}
	return bytes.IndexByte(data, 0) != -1
}

// splitLines splits content into lines, dropping the empty line after a final newline.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func expandTabs(s string, tabWidth int) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var buf strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			spaces := tabWidth - (col % tabWidth)
			buf.WriteString(strings.Repeat(" ", spaces))
			col += spaces
			continue
		}
		buf.WriteRune(r)
		col++
	}
	return buf.String()
}

// truncateLine truncates a line if it's too long, adding "..." indicator
func truncateLine(s string, maxWidth int) string {
	if utf8.RuneCountInString(s) <= maxWidth {
		return s
	}
	if maxWidth < 3 {
		return "..."[:max(maxWidth, 0)]
	}
	runes := []rune(s)
	return string(runes[:maxWidth-3]) + "..."
}

// terminalWidth returns the terminal width, defaulting to 80 if unable to detect
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
