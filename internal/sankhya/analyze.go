package sankhya

import (
	"github.com/jsvensson/varnamala/internal/color"
	"github.com/jsvensson/varnamala/internal/numfmt"
)

// Cell is the rendered form of one segment.
type Cell struct {
	Type SegmentType

	// Display is the character shown in the header row.
	Display string

	// Number is the segment's value, with vowel multipliers shown as powers
	// of ten where they are exact.
	Number string

	// Varna is the colour of the segment's own character, or "".
	Varna string

	// Union is consonant_sum_at_vowel × value for syllabic segments, or "".
	Union string

	// Blend is the consonant and vowel colours mixed by their weights, or ""
	// when no blend is possible.
	Blend string
}

// WordResult is the analysis of one word.
type WordResult struct {
	Name  string
	Value string // Saṅkhyā
	Count int    // Aṅka: number of segments
	Cells []Cell
	Color string
}

// Blends returns the word's non-empty blended colours in segment order.
func (w WordResult) Blends() []string {
	var out []string
	for _, c := range w.Cells {
		if c.Blend != "" {
			out = append(out, c.Blend)
		}
	}
	return out
}

// Analysis is the full result for a set of words.
type Analysis struct {
	Script Script
	Words  []WordResult

	// Color is the ensemble colour (Raṅga) of every syllable blend across
	// all words.
	Color string
}

// Analyze renders words against the colour table. The words are not
// modified.
func Analyze(words []Word, table ColorTable, script Script) *Analysis {
	a := &Analysis{
		Script: script,
		Words:  make([]WordResult, 0, len(words)),
	}

	var all []string
	for _, w := range words {
		res := analyzeWord(w, table, script)
		all = append(all, res.Blends()...)
		a.Words = append(a.Words, res)
	}
	a.Color = color.Average(all)
	return a
}

func analyzeWord(w Word, table ColorTable, script Script) WordResult {
	res := WordResult{
		Name:  w.Name,
		Value: numfmt.GroupedValue(w.Value),
		Count: len(w.Letters),
		Cells: make([]Cell, len(w.Letters)),
	}

	for i, seg := range w.Letters {
		cell := Cell{
			Type:    seg.Type,
			Display: displayChar(seg, script),
			Varna:   table.Lookup(colorKey(seg, script)),
		}

		if seg.Type.VowelBearing() {
			cell.Number = numfmt.FormatPower(seg.Value)
		} else {
			cell.Number = numfmt.Format(seg.Value)
		}

		if seg.Type.Syllabic() {
			cw := weight(seg.ConsonantSum)
			vw := weight(seg.Value)
			cell.Union = numfmt.Grouped(cw * vw)

			var prev *Segment
			if i > 0 {
				prev = &w.Letters[i-1]
			}
			consonant := table.Lookup(consonantKey(seg, prev))
			vowel := table.Lookup(vowelKey(seg, script))
			if hex, ok := color.BlendHex(consonant, vowel, cw, vw); ok {
				cell.Blend = hex
			}
		}

		res.Cells[i] = cell
	}

	res.Color = color.Average(res.Blends())
	return res
}

func displayChar(seg Segment, script Script) string {
	switch {
	case seg.Char != "":
		return seg.Char
	case seg.Vowel != "":
		return seg.Vowel
	case seg.Type == ImplicitVowel:
		return script.ImplicitVowel()
	}
	return ""
}

// colorKey is the character whose colour a segment shows on its own.
func colorKey(seg Segment, script Script) string {
	if seg.Type == Consonant {
		return seg.Char
	}
	return vowelKey(seg, script)
}

func vowelKey(seg Segment, script Script) string {
	if seg.Type == ImplicitVowel {
		return script.ImplicitVowel()
	}
	if seg.Vowel != "" {
		return seg.Vowel
	}
	return seg.Char
}

// consonantKey prefers the consonant segment immediately before a vowel and
// falls back to the consonant the tokenizer attached to the vowel.
func consonantKey(seg Segment, prev *Segment) string {
	if prev != nil && prev.Type == Consonant && prev.Char != "" {
		return prev.Char
	}
	return seg.Consonant
}

// weight coerces a segment number, treating anything unusable as zero.
func weight(v any) float64 {
	f, ok := numfmt.Float(v)
	if !ok {
		return 0
	}
	return f
}
