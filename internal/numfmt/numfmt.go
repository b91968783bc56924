// Package numfmt renders token values and calculation results for display.
//
// Values may be arbitrarily large (vowel multipliers are powers of ten and
// products of them overflow any fixed-width integer), so anything at or above
// a million is shown in scientific form.
package numfmt

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cast"
)

const (
	// ScientificThreshold is the magnitude at which Format switches to m×10^e.
	ScientificThreshold = 1e6

	// tinyThreshold is the magnitude below which non-zero values use exponential notation.
	tinyThreshold = 1e-10

	// powerTolerance is how close a vowel value must be to a power of ten to print as one.
	powerTolerance = 1e-8

	// groupedExact bounds where v*1000 is still exact enough to round; larger
	// values have no thousandths left at float64 resolution.
	groupedExact = 1e12

	// fixedDigits is how many fraction digits non-integers keep.
	fixedDigits = 10
)

// leadingNumber matches the numeric prefix of a string. Text after it is ignored,
// so "12px" reads as 12 and "0x1F" as 0.
var leadingNumber = regexp.MustCompile(`^[+-]?(?:Infinity|\d+\.?\d*(?:[eE][+-]?\d+)?|\.\d+(?:[eE][+-]?\d+)?)`)

// Format renders v for display. v may be any number or a numeric string;
// anything that does not parse is returned as text unchanged.
func Format(v any) string {
	num, ok := toFloat(v)
	if !ok {
		return text(v)
	}
	return formatFloat(num)
}

// FormatPower renders a vowel multiplier. Positive values within a small
// tolerance of an exact power of ten print as 10^e (so 1 prints as 10^0);
// everything else goes through Format.
func FormatPower(v any) string {
	num, ok := toFloat(v)
	if !ok {
		return text(v)
	}
	if num > 0 && !math.IsInf(num, 0) {
		exp := exponent(num)
		if math.Abs(num-math.Pow10(exp)) < powerTolerance {
			return fmt.Sprintf("10^%d", exp)
		}
	}
	return formatFloat(num)
}

// Grouped renders v with en-US digit grouping, rounded half away from zero to
// at most three fraction digits with trailing zeros dropped, e.g.
// 1,234,567.891. Non-finite values render as the empty string.
func Grouped(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	if math.Abs(v) < groupedExact {
		v = math.Round(v*1000) / 1000
	}
	if v == 0 {
		v = 0 // no "-0"
	}
	return humanize.CommafWithDigits(v, 3)
}

// GroupedValue is Grouped for arbitrary values. Anything that is not a
// finite number is returned as text.
func GroupedValue(v any) string {
	num, ok := toFloat(v)
	if !ok || math.IsInf(num, 0) {
		return text(v)
	}
	return Grouped(num)
}

// Float coerces v the way Format does. It reports false for nil, booleans,
// NaN and anything that does not parse.
func Float(v any) (float64, bool) {
	return toFloat(v)
}

func formatFloat(num float64) string {
	switch {
	case math.IsInf(num, 1):
		return "Infinity"
	case math.IsInf(num, -1):
		return "-Infinity"
	}

	abs := math.Abs(num)
	if abs >= ScientificThreshold {
		exp := exponent(abs)
		mantissa := num / math.Pow10(exp)
		if mantissa == 1 {
			return fmt.Sprintf("10^%d", exp)
		}
		return strconv.FormatFloat(mantissa, 'f', -1, 64) + "×10^" + strconv.Itoa(exp)
	}

	if num == math.Trunc(num) {
		if num == 0 {
			return "0"
		}
		return strconv.FormatFloat(num, 'f', -1, 64)
	}

	if abs < tinyThreshold {
		return strconv.FormatFloat(num, 'e', 9, 64)
	}

	s := toFixed(abs, fixedDigits)
	s = strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
	if num < 0 {
		s = "-" + s
	}
	return s
}

// toFixed rounds abs to digits fraction digits, with exact ties going up.
// strconv rounds ties to even, so the exact decimal expansion is rounded here.
func toFixed(abs float64, digits int) string {
	s := strconv.FormatFloat(abs, 'f', 1074, 64)
	cut := strings.IndexByte(s, '.') + 1 + digits
	out := []byte(s[:cut])
	if s[cut] < '5' {
		return string(out)
	}
	for i := len(out) - 1; i >= 0; i-- {
		switch out[i] {
		case '.':
			continue
		case '9':
			out[i] = '0'
			continue
		}
		out[i]++
		return string(out)
	}
	return "1" + string(out)
}

// exponent returns floor(log10(abs)) for abs > 0, corrected so that exact
// powers of ten never land one below their true exponent.
func exponent(abs float64) int {
	exp := int(math.Floor(math.Log10(abs)))
	for exp < 308 && math.Pow10(exp+1) <= abs {
		exp++
	}
	for exp > -324 && math.Pow10(exp) > abs {
		exp--
	}
	return exp
}

func toFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case nil, bool:
		return 0, false
	case string:
		return parseLeading(v)
	}
	num, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(num) {
		return 0, false
	}
	return num, true
}

// parseLeading reads the number at the start of s, ignoring surrounding
// whitespace and any trailing text. Out-of-range literals saturate to ±Inf or 0.
func parseLeading(s string) (float64, bool) {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	num, err := strconv.ParseFloat(m, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return num, true
}

func text(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
