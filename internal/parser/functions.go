package parser

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/jsvensson/varnamala/internal/color"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// EvalContext builds the evaluation context for colour expressions: the
// palette as the "palette" variable plus the colour functions.
func EvalContext(palette *color.Node) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"palette": NodeToCty(palette),
		},
		Functions: Functions(),
	}
}

// Functions returns the colour functions available in colour-table files.
func Functions() map[string]function.Function {
	return map[string]function.Function{
		"brighten":  makeShiftFunc("Brightens a color by the given percentage (-1.0 to 1.0)", color.Brighten),
		"darken":    makeShiftFunc("Darkens a color by the given percentage (0.0 to 1.0)", color.Darken),
		"lightness": makeLightnessFunc(),
		"blend":     makeBlendFunc(),
	}
}

// NodeToCty converts a palette node to a cty value. Leaves become strings;
// groups become objects, with the group's own colour under "color".
func NodeToCty(node *color.Node) cty.Value {
	if node == nil {
		return cty.EmptyObjectVal
	}
	if node.Children == nil {
		if node.Color != nil {
			return cty.StringVal(node.Color.Hex())
		}
		return cty.EmptyObjectVal
	}

	vals := make(map[string]cty.Value, len(node.Children)+1)
	if node.Color != nil {
		vals["color"] = cty.StringVal(node.Color.Hex())
	}

	keys := make([]string, 0, len(node.Children))
	for k := range node.Children {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		vals[k] = NodeToCty(node.Children[k])
	}
	return cty.ObjectVal(vals)
}

// ResolveColor extracts a colour from an evaluated expression. Strings are
// parsed as hex; objects must carry a "color" attribute.
func ResolveColor(val cty.Value) (color.Color, error) {
	if val.IsNull() || !val.IsKnown() {
		return color.Color{}, fmt.Errorf("expected a color, got null")
	}

	if val.Type().IsObjectType() {
		if !val.Type().HasAttribute("color") {
			return color.Color{}, fmt.Errorf("object has no 'color' attribute; reference a specific child or add a color attribute")
		}
		val = val.GetAttr("color")
	}
	if val.Type() != cty.String {
		return color.Color{}, fmt.Errorf("expected string or object with color attribute, got %s", val.Type().FriendlyName())
	}
	return color.ParseHex(val.AsString())
}

func makeShiftFunc(desc string, shift func(color.Color, float64) color.Color) function.Function {
	return function.New(&function.Spec{
		Description: desc,
		Params: []function.Parameter{
			{Name: "color", Type: cty.String},
			{Name: "percentage", Type: cty.Number},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			c, err := color.ParseHex(args[0].AsString())
			if err != nil {
				return cty.NilVal, err
			}
			pct, _ := args[1].AsBigFloat().Float64()
			return cty.StringVal(shift(c, pct).Hex()), nil
		},
	})
}

func makeLightnessFunc() function.Function {
	return function.New(&function.Spec{
		Description: "Sets the OKLCH lightness of a color (0.0 to 1.0), keeping hue and chroma",
		Params: []function.Parameter{
			{Name: "color", Type: cty.String},
			{Name: "lightness", Type: cty.Number},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			c, err := color.ParseHex(args[0].AsString())
			if err != nil {
				return cty.NilVal, err
			}
			l, _ := args[1].AsBigFloat().Float64()
			return cty.StringVal(color.WithLightness(c, l).Hex()), nil
		},
	})
}

// makeBlendFunc exposes the syllable blend: blend(consonant, vowel, cw, vw).
func makeBlendFunc() function.Function {
	return function.New(&function.Spec{
		Description: "Mixes two colors in proportion to their weights",
		Params: []function.Parameter{
			{Name: "consonant", Type: cty.String},
			{Name: "vowel", Type: cty.String},
			{Name: "consonant_weight", Type: cty.Number},
			{Name: "vowel_weight", Type: cty.Number},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			cw, _ := args[2].AsBigFloat().Float64()
			vw, _ := args[3].AsBigFloat().Float64()
			hex, ok := color.BlendHex(args[0].AsString(), args[1].AsString(), cw, vw)
			if !ok {
				return cty.NilVal, fmt.Errorf("cannot blend %q and %q with weights %g and %g",
					args[0].AsString(), args[1].AsString(), cw, vw)
			}
			return cty.StringVal(hex), nil
		},
	})
}
