// Package render draws analysis results and service tables for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jsvensson/varnamala/internal/color"
	"github.com/jsvensson/varnamala/internal/mapping"
)

// Printer writes styled output to a terminal. Colour is only emitted when
// the writer supports it.
type Printer struct {
	w io.Writer
	r *lipgloss.Renderer

	heading lipgloss.Style
	label   lipgloss.Style
	border  lipgloss.Style
}

// New returns a Printer for w.
func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:       w,
		r:       r,
		heading: r.NewStyle().Bold(true),
		label:   r.NewStyle().Faint(true),
		border:  r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Swatch renders a colour as its hex code on a background of that colour.
// Anything that is not a colour renders as the placeholder.
func (p *Printer) Swatch(css string) string {
	c, ok := parseCSS(css)
	if !ok {
		return mapping.Placeholder
	}
	return p.r.NewStyle().
		Background(lipgloss.Color(c.Hex())).
		Foreground(lipgloss.Color(contrast(c).Hex())).
		Render(" " + c.Hex() + " ")
}

func (p *Printer) newTable() *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.heading.Padding(0, 1)
			}
			return p.r.NewStyle().Padding(0, 1)
		})
}

func (p *Printer) printf(format string, args ...any) error {
	_, err := fmt.Fprintf(p.w, format, args...)
	return err
}

func (p *Printer) println(s string) error {
	_, err := fmt.Fprintln(p.w, s)
	return err
}

// contrast picks black or white text for a background.
func contrast(bg color.Color) color.Color {
	if color.ToOKLCH(bg).L > 0.6 {
		return color.Color{}
	}
	return color.White
}

// parseCSS reads "#rrggbb", "#rgb" and "rgb(r, g, b)" colours.
func parseCSS(s string) (color.Color, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.Color{}, false
	}
	if c, err := color.ParseHex(s); err == nil {
		return c, true
	}

	var r, g, b float64
	compact := strings.ReplaceAll(strings.ToLower(s), " ", "")
	if _, err := fmt.Sscanf(compact, "rgb(%g,%g,%g)", &r, &g, &b); err == nil {
		return color.FromFloat(r, g, b), true
	}
	return color.Color{}, false
}
