package render

import (
	"strings"

	"github.com/jsvensson/varnamala/internal/client"
	"github.com/jsvensson/varnamala/internal/color"
	"github.com/jsvensson/varnamala/internal/mapping"
	"github.com/jsvensson/varnamala/internal/numfmt"
	"github.com/jsvensson/varnamala/internal/sankhya"
)

// Analysis prints one table per word followed by the ensemble colour.
func (p *Printer) Analysis(a *sankhya.Analysis) error {
	for _, w := range a.Words {
		if err := p.word(w); err != nil {
			return err
		}
	}
	return p.printf("%s %s\n", p.label.Render("Raṅga:"), p.Swatch(a.Color))
}

func (p *Printer) word(w sankhya.WordResult) error {
	headers := []string{""}
	numbers := []string{"Varṇāṅka"}
	varnas := []string{"Varṇa"}
	unions := []string{"Union"}
	blends := []string{"Akṣara Varṇa"}
	for _, c := range w.Cells {
		headers = append(headers, c.Display)
		numbers = append(numbers, c.Number)
		varnas = append(varnas, p.optionalSwatch(c.Varna))
		unions = append(unions, c.Union)
		blends = append(blends, p.optionalSwatch(c.Blend))
	}

	t := p.newTable().Headers(headers...).Rows(numbers, varnas, unions, blends)

	if err := p.println(p.heading.Render(w.Name)); err != nil {
		return err
	}
	if err := p.println(t.String()); err != nil {
		return err
	}
	return p.printf("%s %d  %s %s  %s %s\n\n",
		p.label.Render("Aṅka:"), w.Count,
		p.label.Render("Saṅkhyā:"), w.Value,
		p.label.Render("Colour:"), p.Swatch(w.Color))
}

func (p *Printer) optionalSwatch(hex string) string {
	if hex == "" {
		return ""
	}
	return p.Swatch(hex)
}

// Calculation prints the operation label and its results.
func (p *Printer) Calculation(c *sankhya.Calculation) error {
	label := c.Operation.DisplayName()
	if label == "" {
		label = string(c.Operation)
	}
	return p.printf("%s %s\n", p.label.Render(label+":"), strings.Join(c.Formatted(), " "))
}

// Numbers prints each value in display form next to its grouped form.
func (p *Printer) Numbers(values []string) error {
	t := p.newTable().Headers("Input", "Display", "Grouped")
	for _, v := range values {
		t.Row(v, numfmt.Format(v), numfmt.GroupedValue(v))
	}
	return p.println(t.String())
}

// Blend prints the two inputs and their weighted mix.
func (p *Printer) Blend(consonant, vowel string, cw, vw float64) error {
	hex, ok := color.BlendHex(consonant, vowel, cw, vw)
	result := mapping.Placeholder
	if ok {
		result = p.Swatch(hex)
	}
	return p.printf("%s × %s + %s × %s = %s\n",
		p.Swatch(consonant), numfmt.Format(cw),
		p.Swatch(vowel), numfmt.Format(vw),
		result)
}

// Average prints the inputs and their deduplicated mean.
func (p *Printer) Average(hexes []string) error {
	parts := make([]string, len(hexes))
	for i, h := range hexes {
		parts[i] = p.Swatch(h)
	}
	return p.printf("%s → %s\n", strings.Join(parts, " "), p.Swatch(color.Average(hexes)))
}

// Closest prints the character nearest a query colour.
func (p *Printer) Closest(query color.Color, m *client.ClosestMatch) error {
	t := p.newTable().
		Headers("Colour", "Character", "Shade", "Sthāna").
		Row(p.Swatch(query.Hex()), m.Character, orPlaceholder(m.Shade), orPlaceholder(m.Sthana))
	return p.println(t.String())
}

func orPlaceholder(s string) string {
	if s == "" {
		return mapping.Placeholder
	}
	return s
}
