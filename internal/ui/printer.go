// Package ui renders status lines and help text for the terminal.
package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes styled lines to a writer. Colours are dropped automatically
// when the writer is not a terminal.
type Printer struct {
	w       io.Writer
	success lipgloss.Style
	info    lipgloss.Style
	err     lipgloss.Style
	heading lipgloss.Style
	brand   lipgloss.Style
}

// NewPrinter returns a Printer bound to w.
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:       w,
		success: r.NewStyle().Foreground(lipgloss.Color("2")),
		info:    r.NewStyle().Foreground(lipgloss.Color("3")),
		err:     r.NewStyle().Foreground(lipgloss.Color("1")),
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		brand:   r.NewStyle().Foreground(lipgloss.Color("3")),
	}
}

// Success prints a green line.
func (p *Printer) Success(format string, a ...any) { p.line(p.success, format, a...) }

// Info prints a yellow line.
func (p *Printer) Info(format string, a ...any) { p.line(p.info, format, a...) }

// Error prints a red line.
func (p *Printer) Error(format string, a ...any) { p.line(p.err, format, a...) }

// Plain prints an unstyled line.
func (p *Printer) Plain(format string, a ...any) { fmt.Fprintf(p.w, format+"\n", a...) }

// Heading prints a bold section title.
func (p *Printer) Heading(title string) { p.line(p.heading, "%s", title) }

// Blank prints an empty line.
func (p *Printer) Blank() { fmt.Fprintln(p.w) }

func (p *Printer) line(s lipgloss.Style, format string, a ...any) {
	fmt.Fprintln(p.w, s.Render(fmt.Sprintf(format, a...)))
}
