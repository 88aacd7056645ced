package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrinter_Messages(t *testing.T) {
	tests := []struct {
		name  string
		print func(p *Printer, msg string)
		mark  string
	}{
		{"success", (*Printer).Success, "✨"},
		{"error", (*Printer).Error, "❌"},
		{"warn", (*Printer).Warn, "⚠️"},
		{"info", (*Printer).Info, "ℹ️"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.print(New(&buf), "Test message")

			assert.Contains(t, buf.String(), tt.mark)
			assert.Contains(t, buf.String(), "Test message")
		})
	}
}

func TestPrinter_Step(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Step("git status")

	assert.Contains(t, buf.String(), "   git status")
}

func TestPrinter_Verbose(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Verbose("hidden")
	assert.Empty(t, buf.String())

	p.SetVerbose(true)
	p.Verbose("shown")
	assert.Contains(t, buf.String(), "🔍")
	assert.Contains(t, buf.String(), "shown")
}

func TestDefaultPrinter(t *testing.T) {
	var buf bytes.Buffer
	prev := Default().Writer()
	SetOutput(&buf)
	defer SetOutput(prev)

	Success("done")
	Verbose("quiet")

	assert.Contains(t, buf.String(), "done")
	assert.NotContains(t, buf.String(), "quiet")
}
