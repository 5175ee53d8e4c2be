package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ppiankov/casefile/internal/model"
)

var (
	primaryColor = lipgloss.Color("#5B8DEF")
	successColor = lipgloss.Color("#4ECDC4")
	warningColor = lipgloss.Color("#FFE66D")
	errorColor   = lipgloss.Color("#FF6B6B")
	subtleColor  = lipgloss.Color("#666666")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	labelStyle   = lipgloss.NewStyle().Foreground(subtleColor).Width(14)
	successStyle = lipgloss.NewStyle().Foreground(successColor)
	warningStyle = lipgloss.NewStyle().Foreground(warningColor)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor)
	subtleStyle  = lipgloss.NewStyle().Foreground(subtleColor)
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(0, 1)
)

// Icons
const (
	successIcon = "✓"
	errorIcon   = "✗"
	warningIcon = "!"
)

// printer renders command output, with or without color
type printer struct {
	w     io.Writer
	color bool
}

func newPrinter(w io.Writer, cfg *model.Config) *printer {
	return &printer{w: w, color: cfg.Output.Color}
}

func (p *printer) render(style lipgloss.Style, s string) string {
	if !p.color {
		return s
	}
	return style.Render(s)
}

func (p *printer) title(s string) {
	fmt.Fprintln(p.w, p.render(titleStyle, s))
}

func (p *printer) field(label string, value any) {
	if !p.color {
		fmt.Fprintf(p.w, "  %-14s%v\n", label, value)
		return
	}
	fmt.Fprintf(p.w, "  %s%v\n", labelStyle.Render(label), value)
}

func (p *printer) success(format string, a ...any) {
	fmt.Fprintln(p.w, p.render(successStyle, successIcon+" "+fmt.Sprintf(format, a...)))
}

func (p *printer) warn(format string, a ...any) {
	fmt.Fprintln(p.w, p.render(warningStyle, warningIcon+" "+fmt.Sprintf(format, a...)))
}

func (p *printer) fail(format string, a ...any) {
	fmt.Fprintln(p.w, p.render(errorStyle, errorIcon+" "+fmt.Sprintf(format, a...)))
}

func (p *printer) subtle(format string, a ...any) {
	fmt.Fprintln(p.w, p.render(subtleStyle, fmt.Sprintf(format, a...)))
}

func (p *printer) box(lines ...string) {
	body := strings.Join(lines, "\n")
	if !p.color {
		fmt.Fprintln(p.w, body)
		return
	}
	fmt.Fprintln(p.w, boxStyle.Render(body))
}

func (p *printer) blank() {
	fmt.Fprintln(p.w)
}

// severityLine prints an alert in the color of its severity
func (p *printer) severityLine(sev model.Severity, msg string) {
	switch sev {
	case model.SeverityCritical:
		p.fail("%s", msg)
	case model.SeverityWarning:
		p.warn("%s", msg)
	default:
		p.subtle("  %s", msg)
	}
}
