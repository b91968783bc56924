package render

import (
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss/table"

	"github.com/jsvensson/varnamala/internal/client"
	"github.com/jsvensson/varnamala/internal/mapping"
	"github.com/jsvensson/varnamala/internal/sankhya"
)

// Colors prints the character colour table sorted by character.
func (p *Printer) Colors(colors sankhya.ColorTable) error {
	chars := make([]string, 0, len(colors))
	for ch := range colors {
		chars = append(chars, ch)
	}
	slices.Sort(chars)

	t := p.newTable().Headers("Character", "Colour")
	for _, ch := range chars {
		t.Row(ch, p.Swatch(colors[ch]))
	}
	return p.println(t.String())
}

// Mappings prints the consonant grid, the remaining consonants, the vowels
// and the matra and modifier equivalents. Pending additions are listed after
// the tables they were folded into.
func (p *Printer) Mappings(tables mapping.Tables, pending []mapping.Addition) error {
	grid := mapping.VargaGrid(tables.Consonants)
	vargas := p.newTable().Headers(mapping.VargaNames[:]...)
	for _, row := range grid {
		cells := make([]string, len(row))
		for i, e := range row {
			cells[i] = gridCell(e)
		}
		vargas.Row(cells...)
	}

	sections := []struct {
		title string
		body  string
	}{
		{"Vargīya vyañjana", vargas.String()},
		{"Avargīya vyañjana", p.entries(mapping.Avarga(tables.Consonants)).String()},
		{"Svara", p.entries(tables.Vowels).String()},
		{"Mātrā", p.equivalents(tables.Matras).String()},
		{"Modifiers", p.equivalents(tables.Modifiers).String()},
	}
	for _, s := range sections {
		if err := p.println(p.heading.Render(s.title)); err != nil {
			return err
		}
		if err := p.println(s.body); err != nil {
			return err
		}
	}

	if len(pending) == 0 {
		return nil
	}
	t := p.newTable().Headers("Type", "#", "Latin", "Devanagari")
	for _, a := range pending {
		t.Row(string(a.Kind), strconv.Itoa(a.Number), a.Latin, a.Devanagari)
	}
	if err := p.println(p.heading.Render("Pending")); err != nil {
		return err
	}
	return p.println(t.String())
}

func gridCell(e mapping.Entry) string {
	if e.Devanagari == mapping.Placeholder {
		return strconv.Itoa(e.Number) + " " + mapping.Placeholder
	}
	return strconv.Itoa(e.Number) + " " + e.Devanagari + " " + e.Latin
}

func (p *Printer) entries(entries []mapping.Entry) *table.Table {
	t := p.newTable().Headers("#", "Latin", "Devanagari", "Kannada", "Telugu")
	for _, e := range entries {
		t.Row(strconv.Itoa(e.Number), e.Latin, e.Devanagari, orPlaceholder(e.Kannada), orPlaceholder(e.Telugu))
	}
	return t
}

func (p *Printer) equivalents(rows []mapping.Equivalent) *table.Table {
	t := p.newTable().Headers("Devanagari", "Latin", "Kannada", "Telugu")
	for _, e := range rows {
		t.Row(e.Devanagari, e.Latin, orPlaceholder(e.Kannada), orPlaceholder(e.Telugu))
	}
	return t
}

// Ragas prints the melakarta table with each raga's colour.
func (p *Printer) Ragas(ragas []client.Raga) error {
	t := p.newTable().Headers("#", "Rāga", "", "Classification", "Svaras", "Colour")
	for _, r := range ragas {
		t.Row(
			strconv.Itoa(r.Number),
			r.NameLatin,
			r.NameDevanagari,
			r.Classification,
			r.SwarasLatin,
			p.Swatch(r.ColorRGB),
		)
	}
	return p.println(t.String())
}

// Scale prints the Devanagari colour scale.
func (p *Printer) Scale(rows []client.ColorMapping) error {
	t := p.newTable().Headers("#", "Character", "Colour", "Shade", "Sthāna")
	for _, m := range rows {
		t.Row(
			strconv.Itoa(m.ID),
			m.Devanagari,
			p.Swatch(m.Color().Hex()),
			orPlaceholder(m.Shade),
			orPlaceholder(m.Sthana),
		)
	}
	return p.println(t.String())
}
