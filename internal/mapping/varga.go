package mapping

import "slices"

const (
	// VargaSize is the number of consonants in each varga, and the number of vargas.
	VargaSize = 5

	// Placeholder fills grid cells with no mapped consonant.
	Placeholder = "—"
)

// VargaNames labels the grid columns.
var VargaNames = [VargaSize]string{"क-वर्ग", "च-वर्ग", "ट-वर्ग", "त-वर्ग", "प-वर्ग"}

// VargaGrid lays out consonants 1-25 as five vargas of five. Column c holds
// varga c, so row r, column c is consonant number c*5 + r + 1. Numbers with no
// entry get a placeholder row. When numbers repeat, the last entry wins.
func VargaGrid(consonants []Entry) [VargaSize][VargaSize]Entry {
	byNumber := make(map[int]Entry, len(consonants))
	for _, e := range consonants {
		byNumber[e.Number] = e
	}

	var grid [VargaSize][VargaSize]Entry
	for r := 0; r < VargaSize; r++ {
		for c := 0; c < VargaSize; c++ {
			n := c*VargaSize + r + 1
			e, ok := byNumber[n]
			if !ok {
				e = Entry{
					Number:     n,
					Latin:      Placeholder,
					Devanagari: Placeholder,
					Kannada:    Placeholder,
					Telugu:     Placeholder,
				}
			}
			grid[r][c] = e
		}
	}
	return grid
}

// Avarga returns the consonants outside the varga grid (numbers above 25),
// sorted by number.
func Avarga(consonants []Entry) []Entry {
	var out []Entry
	for _, e := range consonants {
		if e.Number > VargaSize*VargaSize {
			out = append(out, e)
		}
	}
	sortByNumber(out)
	return slices.Clip(out)
}
