package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles used for status output.
type Styles struct {
	Muted   lipgloss.Style
	Label   lipgloss.Style
	SQL     lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
}

// NewStyles builds styles bound to w. The color profile is detected from w;
// with color disabled everything renders as plain text.
func NewStyles(w io.Writer, color bool) *Styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Styles{
		Muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		Label:   r.NewStyle().Bold(true),
		SQL:     r.NewStyle().Foreground(lipgloss.Color("6")),
		Warning: r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		Error:   r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Success: r.NewStyle().Foreground(lipgloss.Color("2")),
	}
}
