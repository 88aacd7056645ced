// Package output provides styled terminal messages for the theo CLI.
//
// Functions use lipgloss for styling but abstract away the details from callers.
// Messages go to a Printer; the package-level functions use a default Printer
// writing to stdout, which commands redirect with SetOutput.
package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Printer writes styled messages to a writer.
type Printer struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
}

// New creates a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// SetVerbose enables or disables Verbose messages.
func (p *Printer) SetVerbose(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.verbose = v
}

// Writer returns the destination of p.
func (p *Printer) Writer() io.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.w
}

// Success prints a success message with ✨ and green color.
func (p *Printer) Success(msg string) { p.println(successStyle.Render("✨ " + msg)) }

// Error prints an error message with ❌ and red color.
func (p *Printer) Error(msg string) { p.println(errorStyle.Render("❌ " + msg)) }

// Warn prints a warning with ⚠️ and yellow color.
func (p *Printer) Warn(msg string) { p.println(warnStyle.Render("⚠️  " + msg)) }

// Info prints an informational message in cyan.
func (p *Printer) Info(msg string) { p.println(infoStyle.Render("ℹ️  " + msg)) }

// Step prints an indented step message in gray.
func (p *Printer) Step(msg string) { p.println(stepStyle.Render("   " + msg)) }

// Verbose prints a debug message only if verbose mode is enabled.
func (p *Printer) Verbose(msg string) {
	p.mu.Lock()
	on := p.verbose
	p.mu.Unlock()
	if on {
		p.println(stepStyle.Render("🔍 " + msg))
	}
}

func (p *Printer) println(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, s)
}

var std = New(os.Stdout)

// Default returns the package-level Printer.
func Default() *Printer { return std }

// SetOutput redirects the package-level Printer.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.w = w
}

// SetVerbose enables or disables verbose output for debugging.
// This should be called by the CLI when the --verbose flag is set.
func SetVerbose(v bool) { std.SetVerbose(v) }

// Success prints a success message.
//
// Example:
//
//	output.Success("Generated module: users")
func Success(msg string) { std.Success(msg) }

// Error prints an error message.
// Use this for failures that need user attention.
func Error(msg string) { std.Error(msg) }

// Warn prints a warning.
func Warn(msg string) { std.Warn(msg) }

// Info prints an informational message.
//
// Example:
//
//	output.Info("Next steps:")
func Info(msg string) { std.Info(msg) }

// Step prints an indented step message.
//
// Example:
//
//	output.Step("git add -A && git commit")
func Step(msg string) { std.Step(msg) }

// Verbose prints a debug message only if verbose mode is enabled.
func Verbose(msg string) { std.Verbose(msg) }
