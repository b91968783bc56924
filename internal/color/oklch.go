package color

import "math"

// OKLCH is a color in the OKLCH space: L is lightness [0, 1], C is chroma
// [0, ~0.37] and H is hue in degrees [0, 360).
type OKLCH struct {
	L, C, H float64
}

// ToOKLCH converts an sRGB Color to OKLCH.
func ToOKLCH(c Color) OKLCH {
	L, a, b := linearToOKLAB(
		srgbToLinear(float64(c.R)/255.0),
		srgbToLinear(float64(c.G)/255.0),
		srgbToLinear(float64(c.B)/255.0),
	)

	hue := math.Atan2(b, a) * (180.0 / math.Pi)
	if hue < 0 {
		hue += 360.0
	}
	return OKLCH{L: L, C: math.Hypot(a, b), H: hue}
}

// Color converts back to sRGB, clamping out-of-gamut channels.
func (o OKLCH) Color() Color {
	rad := o.H * (math.Pi / 180.0)
	r, g, b := oklabToLinear(o.L, o.C*math.Cos(rad), o.C*math.Sin(rad))

	return FromFloat(
		linearToSRGB(clamp01(r))*255.0,
		linearToSRGB(clamp01(g))*255.0,
		linearToSRGB(clamp01(b))*255.0,
	)
}

// WithLightness returns c with the given absolute OKLCH lightness, keeping
// hue and chroma. Lightness outside [0, 1] is clamped.
func WithLightness(c Color, lightness float64) Color {
	o := ToOKLCH(c)
	o.L = clamp01(lightness)
	return o.Color()
}

func srgbToLinear(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

func linearToSRGB(v float64) float64 {
	if v <= 0.0031308 {
		return v * 12.92
	}
	return 1.055*math.Pow(v, 1.0/2.4) - 0.055
}

func linearToOKLAB(r, g, b float64) (L, A, B float64) {
	l := math.Cbrt(0.4122214708*r + 0.5363325363*g + 0.0514459929*b)
	m := math.Cbrt(0.2119034982*r + 0.6806995451*g + 0.1073969566*b)
	s := math.Cbrt(0.0883024619*r + 0.2817188376*g + 0.6299787005*b)

	L = 0.2104542553*l + 0.7936177850*m - 0.0040720468*s
	A = 1.9779984951*l - 2.4285922050*m + 0.4505937099*s
	B = 0.0259040371*l + 0.7827717662*m - 0.8086757660*s
	return L, A, B
}

func oklabToLinear(L, a, b float64) (r, g, bl float64) {
	l := L + 0.3963377774*a + 0.2158037573*b
	m := L - 0.1055613458*a - 0.0638541728*b
	s := L - 0.0894841775*a - 1.2914855480*b
	l, m, s = l*l*l, m*m*m, s*s*s

	r = +4.0767416621*l - 3.3077115913*m + 0.2309699292*s
	g = -1.2684380046*l + 2.6097574011*m - 0.3413193965*s
	bl = -0.0041960863*l - 0.7034186147*m + 1.7076147010*s
	return r, g, bl
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
