package color

// DefaultAverage is returned by Average when there is nothing to average.
const DefaultAverage = "#FFFFFF"

// Average deduplicates hexes by exact string equality and returns the
// per-channel arithmetic mean of the distinct colors as a hex string.
// Strings that do not parse are skipped. With no usable input the result is
// DefaultAverage.
func Average(hexes []string) string {
	seen := make(map[string]struct{}, len(hexes))
	colors := make([]Color, 0, len(hexes))
	for _, h := range hexes {
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		c, err := ParseHex(h)
		if err != nil {
			continue
		}
		colors = append(colors, c)
	}

	mean, ok := Mean(colors)
	if !ok {
		return DefaultAverage
	}
	return mean.Hex()
}

// Mean returns the per-channel arithmetic mean of colors, without
// deduplication. It reports false for an empty slice.
func Mean(colors []Color) (Color, bool) {
	if len(colors) == 0 {
		return Color{}, false
	}
	var r, g, b float64
	for _, c := range colors {
		r += float64(c.R)
		g += float64(c.G)
		b += float64(c.B)
	}
	n := float64(len(colors))
	return FromFloat(r/n, g/n, b/n), true
}
