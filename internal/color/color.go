package color

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Color represents an RGB color. The R, G, B uint8 fields are the source of truth;
// all output formats are derived from them.
type Color struct {
	R, G, B uint8
}

// White is the fallback aggregate color when there is nothing to average.
var White = Color{R: 255, G: 255, B: 255}

// Node represents a palette entry that can be both a color and a namespace.
// Color is nil for namespace-only nodes (groups without a color attribute).
// Children is nil for leaf nodes (flat color attributes).
type Node struct {
	Color    *Color
	Children map[string]*Node
}

// Lookup resolves a dot-path (as segments) to a Color.
// Returns an error if the path is not found or the target node has no color.
func (n *Node) Lookup(path []string) (Color, error) {
	current := n
	for _, part := range path {
		if current.Children == nil {
			return Color{}, fmt.Errorf("path not found: %s is a leaf, cannot traverse further", part)
		}
		child, ok := current.Children[part]
		if !ok {
			return Color{}, fmt.Errorf("path not found: %q does not exist", part)
		}
		current = child
	}
	if current.Color == nil {
		return Color{}, fmt.Errorf("path is a group, not a color; add a color attribute or reference a specific child")
	}
	return *current.Color, nil
}

// ParseHex parses a hex color string like "#eb6f92" into a Color.
// The leading # is optional and the 3-digit shorthand "#abc" expands to "#aabbcc".
func ParseHex(s string) (Color, error) {
	digits := strings.TrimPrefix(s, "#")
	if len(digits) == 3 {
		digits = string([]byte{
			digits[0], digits[0],
			digits[1], digits[1],
			digits[2], digits[2],
		})
	}
	if len(digits) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q: must be 3 or 6 hex digits", s)
	}
	n, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return Color{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, nil
}

// FromFloat builds a Color from fractional channel values. Each channel is
// rounded half up and clamped to [0, 255]; NaN becomes 0.
func FromFloat(r, g, b float64) Color {
	return Color{R: channel(r), G: channel(g), B: channel(b)}
}

func channel(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Floor(v + 0.5)
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// Hex returns the color as a hex string with leading #, e.g. "#eb6f92".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// HexBare returns the color as a hex string without leading #, e.g. "eb6f92".
func (c Color) HexBare() string {
	return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
}

// RGB returns the color as an rgb() string, e.g. "rgb(235, 111, 146)".
func (c Color) RGB() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.Hex()
}
