package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color palette
var (
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorSuccess = lipgloss.Color("#10B981") // Emerald
	ColorAccent  = lipgloss.Color("#F59E0B") // Amber
	ColorMuted   = lipgloss.Color("#6B7280") // Gray
)

// styles are bound to one output stream so color detection follows that
// stream rather than os.Stdout.
type styles struct {
	Fault   lipgloss.Style
	Kind    lipgloss.Style
	Success lipgloss.Style
	Muted   lipgloss.Style
}

func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	return styles{
		Fault: r.NewStyle().
			Foreground(ColorError).
			Bold(true),
		Kind: r.NewStyle().
			Foreground(ColorAccent),
		Success: r.NewStyle().
			Foreground(ColorSuccess).
			Bold(true),
		Muted: r.NewStyle().
			Foreground(ColorMuted),
	}
}
