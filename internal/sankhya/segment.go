// Package sankhya turns tokenizer output into display cells: the number shown
// for each letter, its colour, the consonant-vowel union value and the
// blended syllable colour, plus the aggregate colour of each word and of the
// whole input.
package sankhya

// SegmentType tags one entry of a word's letter breakdown.
type SegmentType string

const (
	Consonant         SegmentType = "consonant"
	VowelForConsonant SegmentType = "vowel_for_consonant"
	ImplicitVowel     SegmentType = "implicit_vowel"
	StandaloneVowel   SegmentType = "standalone_vowel"
	Other             SegmentType = "other"
)

// VowelBearing reports whether the segment carries a vowel multiplier.
func (t SegmentType) VowelBearing() bool {
	switch t {
	case VowelForConsonant, ImplicitVowel, StandaloneVowel:
		return true
	}
	return false
}

// Syllabic reports whether the segment closes a consonant-vowel syllable and
// therefore has a union value and a blended colour.
func (t SegmentType) Syllabic() bool {
	return t == VowelForConsonant || t == ImplicitVowel
}

// Segment is one letter of a tokenized word, as returned by the service.
// Value and ConsonantSum arrive as JSON numbers or numeric strings.
type Segment struct {
	Type         SegmentType `json:"type"`
	Char         string      `json:"char,omitempty"`
	Vowel        string      `json:"vowel,omitempty"`
	Consonant    string      `json:"consonant,omitempty"`
	Value        any         `json:"value"`
	ConsonantSum any         `json:"consonant_sum_at_vowel,omitempty"`
}

// Word is one tokenized word. Name is the key the service returned it under.
type Word struct {
	Name    string    `json:"-"`
	Value   any       `json:"value"`
	Letters []Segment `json:"letters_breakdown"`
}

// ColorTable maps characters to hex colours.
type ColorTable map[string]string

// Lookup returns the colour for key, or "" when there is none.
func (t ColorTable) Lookup(key string) string {
	if key == "" {
		return ""
	}
	return t[key]
}
