// Package mapping holds the character-to-number tables and the local preview
// of additions that have not been reloaded from the service yet.
package mapping

import (
	"cmp"
	"fmt"
	"slices"
)

// Kind is the table an addition belongs to.
type Kind string

const (
	Consonant Kind = "consonant"
	Vowel     Kind = "vowel"
)

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Consonant, Vowel:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown mapping type %q (valid: consonant, vowel)", s)
}

// Entry is one numbered character in a mapping table.
type Entry struct {
	Number     int    `json:"number"`
	Latin      string `json:"latinChar"`
	Devanagari string `json:"devanagariChar"`
	Kannada    string `json:"kannadaChar,omitempty"`
	Telugu     string `json:"teluguChar,omitempty"`
}

// Equivalent is a matra or modifier row: a Devanagari sign and its equivalents.
type Equivalent struct {
	Devanagari string `json:"devanagariChar"`
	Latin      string `json:"latinEquivalent"`
	Kannada    string `json:"kannadaChar,omitempty"`
	Telugu     string `json:"teluguChar,omitempty"`
}

// Tables is the full set of mappings published by the service.
type Tables struct {
	Consonants []Entry      `json:"consonants"`
	Vowels     []Entry      `json:"vowels"`
	Matras     []Equivalent `json:"devanagari_matras_map"`
	Modifiers  []Equivalent `json:"devanagari_modifiers_map"`
}

// Addition is a pending insertion into one of the tables.
type Addition struct {
	Entry
	Kind Kind `json:"type"`
}

// InsertAt returns a copy of entries with e inserted at position e.Number.
// Every entry numbered at or above e.Number moves up by one. The result is
// sorted by Number; entries is left untouched.
func InsertAt(entries []Entry, e Entry) []Entry {
	sorted := slices.Clone(entries)
	sortByNumber(sorted)

	out := make([]Entry, 0, len(sorted)+1)
	inserted := false
	for _, item := range sorted {
		if !inserted && item.Number >= e.Number {
			out = append(out, e)
			inserted = true
		}
		if item.Number >= e.Number {
			item.Number++
		}
		out = append(out, item)
	}
	if !inserted {
		out = append(out, e)
	}

	sortByNumber(out)
	return out
}

// Apply folds InsertAt over the additions of the given kind, in order.
// Additions of other kinds are ignored.
func Apply(base []Entry, additions []Addition, kind Kind) []Entry {
	out := slices.Clone(base)
	for _, a := range additions {
		if a.Kind != kind {
			continue
		}
		out = InsertAt(out, a.Entry)
	}
	return out
}

// Preview returns the tables with pending additions applied to the consonant
// and vowel lists.
func (t Tables) Preview(additions []Addition) Tables {
	t.Consonants = Apply(t.Consonants, additions, Consonant)
	t.Vowels = Apply(t.Vowels, additions, Vowel)
	return t
}

func sortByNumber(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return cmp.Compare(a.Number, b.Number)
	})
}
