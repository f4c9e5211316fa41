// Package style holds the CLI's brand colors, icons and text styles.
package style

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/kiln/internal/ui/output"
)

// Brand colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
	Dot     = "●"
)

// Palette renders text for one writer, honouring NO_COLOR.
type Palette struct {
	Success lipgloss.Style
	Cached  lipgloss.Style
	Failure lipgloss.Style
	Warn    lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
}

// NewPalette creates the styles for w.
func NewPalette(w io.Writer) Palette {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(output.ColorProfile())

	return Palette{
		Success: r.NewStyle().Foreground(Green),
		Cached:  r.NewStyle().Foreground(Slate),
		Failure: r.NewStyle().Foreground(Red).Bold(true),
		Warn:    r.NewStyle().Foreground(Yellow),
		Muted:   r.NewStyle().Foreground(Slate),
		Accent:  r.NewStyle().Foreground(Iris).Bold(true),
	}
}
