// Package varnamala loads colour tables that map Sanskrit characters to
// colours, for use with the analysis pipeline in place of the service's
// own colour table.
package varnamala

import (
	"fmt"

	"github.com/jsvensson/varnamala/internal/color"
	"github.com/jsvensson/varnamala/internal/parser"
	"github.com/jsvensson/varnamala/internal/sankhya"
)

// Table is a fully-resolved colour table.
type Table struct {
	Meta    Meta
	Palette *color.Node
	Varna   map[string]color.Color

	// Order lists the characters in the order they were declared.
	Order []string
}

// Meta holds table metadata.
type Meta struct {
	Name   string
	Author string
	Script sankhya.Script
}

// Entry is one character and its colour.
type Entry struct {
	Char  string
	Color color.Color
}

// Load parses a colour-table file and returns a fully-resolved Table.
func Load(path string) (*Table, error) {
	raw, err := parser.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("loading color table: %w", err)
	}

	return &Table{
		Meta: Meta{
			Name:   raw.Meta.Name,
			Author: raw.Meta.Author,
			Script: sankhya.Script(raw.Meta.Script),
		},
		Palette: raw.Palette,
		Varna:   raw.Varna,
		Order:   raw.Order,
	}, nil
}

// Colors returns the table as the character → hex lookup used by analysis.
func (t *Table) Colors() sankhya.ColorTable {
	out := make(sankhya.ColorTable, len(t.Varna))
	for ch, c := range t.Varna {
		out[ch] = c.Hex()
	}
	return out
}

// Entries returns the characters and their colours in declaration order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.Order))
	for _, ch := range t.Order {
		out = append(out, Entry{Char: ch, Color: t.Varna[ch]})
	}
	return out
}
