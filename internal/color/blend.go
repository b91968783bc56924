package color

import "math"

// Blend mixes a consonant color and a vowel color in proportion to their
// numeric weights. Either color may be nil, in which case it contributes
// nothing to the channel sums. The second return value is false when no blend
// is possible: both colors absent, or a combined weight of zero.
// Non-finite weights count as zero.
func Blend(consonant, vowel *Color, consonantWeight, vowelWeight float64) (Color, bool) {
	if consonant == nil && vowel == nil {
		return Color{}, false
	}

	cw := finiteOrZero(consonantWeight)
	vw := finiteOrZero(vowelWeight)
	total := cw + vw
	if total == 0 {
		return Color{}, false
	}

	var r, g, b float64
	if consonant != nil {
		r += cw * float64(consonant.R)
		g += cw * float64(consonant.G)
		b += cw * float64(consonant.B)
	}
	if vowel != nil {
		r += vw * float64(vowel.R)
		g += vw * float64(vowel.G)
		b += vw * float64(vowel.B)
	}

	return FromFloat(r/total, g/total, b/total), true
}

// BlendHex is Blend over hex strings. An empty or unparseable string is
// treated as an absent color.
func BlendHex(consonant, vowel string, consonantWeight, vowelWeight float64) (string, bool) {
	c, ok := Blend(parseOptional(consonant), parseOptional(vowel), consonantWeight, vowelWeight)
	if !ok {
		return "", false
	}
	return c.Hex(), true
}

func parseOptional(hex string) *Color {
	if hex == "" {
		return nil
	}
	c, err := ParseHex(hex)
	if err != nil {
		return nil
	}
	return &c
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
