// Package parser reads colour-table files: HCL documents that assign a colour
// to each character, optionally through a palette of named colours and the
// colour functions.
package parser

import (
	"fmt"
	"os"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/jsvensson/varnamala/internal/color"
	"github.com/jsvensson/varnamala/internal/sankhya"
)

// CharBlockType is the labelled block used for characters that are not valid
// HCL identifiers, e.g. char "ं" { color = "#ffcc00" }.
const CharBlockType = "char"

// ParseResult holds the parsed colour table.
type ParseResult struct {
	Meta    Meta
	Palette *color.Node
	Varna   map[string]color.Color

	// Order lists the varna characters in source order.
	Order []string
}

// Meta holds table metadata.
type Meta struct {
	Name   string `hcl:"name,optional"`
	Author string `hcl:"author,optional"`
	Script string `hcl:"script,optional"`
}

// bodyBlock wraps a block whose contents are evaluated by hand.
type bodyBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// document is the top-level shape of a colour-table file.
type document struct {
	Meta    *Meta      `hcl:"meta,block"`
	Palette *bodyBlock `hcl:"palette,block"`
	Varna   *bodyBlock `hcl:"varna,block"`
}

// Parse reads and parses a colour-table file.
func Parse(path string) (*ParseResult, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading color table: %w", err)
	}
	return ParseSource(path, src)
}

// ParseSource parses colour-table source. filename is used in messages only.
func ParseSource(filename string, src []byte) (*ParseResult, error) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing HCL: %s", diags.Error())
	}

	var doc document
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return nil, fmt.Errorf("decoding: %s", diags.Error())
	}

	result := &ParseResult{
		Palette: &color.Node{},
		Varna:   make(map[string]color.Color),
	}

	if doc.Meta != nil {
		result.Meta = *doc.Meta
	}
	if result.Meta.Script != "" {
		if _, err := sankhya.ParseScript(result.Meta.Script); err != nil {
			return nil, fmt.Errorf("meta: %w", err)
		}
	}

	if doc.Palette != nil {
		body, ok := doc.Palette.Body.(*hclsyntax.Body)
		if !ok {
			return nil, fmt.Errorf("palette block is not an hclsyntax.Body")
		}
		if err := parsePaletteBody(body, result.Palette, result.Palette, "palette"); err != nil {
			return nil, fmt.Errorf("parsing palette: %w", err)
		}
	}

	if doc.Varna == nil {
		return nil, fmt.Errorf("no varna block found")
	}
	body, ok := doc.Varna.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("varna block is not an hclsyntax.Body")
	}
	if err := result.parseVarna(body, EvalContext(result.Palette)); err != nil {
		return nil, fmt.Errorf("parsing varna: %w", err)
	}

	return result, nil
}

// Colors returns the varna table as character → hex.
func (r *ParseResult) Colors() map[string]string {
	out := make(map[string]string, len(r.Varna))
	for ch, c := range r.Varna {
		out[ch] = c.Hex()
	}
	return out
}

// item is an attribute or block in source order.
type item struct {
	pos   hcl.Pos
	attr  *hclsyntax.Attribute
	block *hclsyntax.Block
}

func sourceOrder(body *hclsyntax.Body) []item {
	items := make([]item, 0, len(body.Attributes)+len(body.Blocks))
	for _, attr := range body.Attributes {
		items = append(items, item{pos: attr.SrcRange.Start, attr: attr})
	}
	for _, block := range body.Blocks {
		items = append(items, item{pos: block.DefRange().Start, block: block})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].pos.Byte < items[j].pos.Byte
	})
	return items
}

// parsePaletteBody fills node from body in source order, so later entries
// may reference earlier ones. A "color" attribute sets the colour of the
// enclosing group.
func parsePaletteBody(body *hclsyntax.Body, root, node *color.Node, prefix string) error {
	for _, it := range sourceOrder(body) {
		if it.block != nil {
			if len(it.block.Labels) > 0 {
				return fmt.Errorf("%s.%s: palette blocks take no labels", prefix, it.block.Type)
			}
			if node.Children == nil {
				node.Children = make(map[string]*color.Node)
			}
			child := &color.Node{}
			node.Children[it.block.Type] = child
			if err := parsePaletteBody(it.block.Body, root, child, prefix+"."+it.block.Type); err != nil {
				return err
			}
			continue
		}

		name := it.attr.Name
		c, err := evalColor(it.attr.Expr, EvalContext(root))
		if err != nil {
			return fmt.Errorf("%s.%s: %w", prefix, name, err)
		}
		if name == "color" {
			node.Color = &c
			continue
		}
		if node.Children == nil {
			node.Children = make(map[string]*color.Node)
		}
		node.Children[name] = &color.Node{Color: &c}
	}
	return nil
}

func (r *ParseResult) parseVarna(body *hclsyntax.Body, ctx *hcl.EvalContext) error {
	for _, it := range sourceOrder(body) {
		var (
			char string
			expr hclsyntax.Expression
		)

		if it.attr != nil {
			char, expr = it.attr.Name, it.attr.Expr
		} else {
			b := it.block
			if b.Type != CharBlockType || len(b.Labels) != 1 {
				return fmt.Errorf("unexpected block %q (valid: %s \"<character>\" { color = ... })", b.Type, CharBlockType)
			}
			attr, ok := b.Body.Attributes["color"]
			if !ok {
				return fmt.Errorf("char %q: missing required 'color' attribute", b.Labels[0])
			}
			if len(b.Body.Attributes) != 1 || len(b.Body.Blocks) != 0 {
				return fmt.Errorf("char %q: only a color attribute is allowed", b.Labels[0])
			}
			char, expr = b.Labels[0], attr.Expr
		}

		if char == "" {
			return fmt.Errorf("empty character name")
		}
		if _, dup := r.Varna[char]; dup {
			return fmt.Errorf("duplicate entry for %q", char)
		}

		c, err := evalColor(expr, ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", char, err)
		}
		r.Varna[char] = c
		r.Order = append(r.Order, char)
	}
	return nil
}

func evalColor(expr hclsyntax.Expression, ctx *hcl.EvalContext) (color.Color, error) {
	val, diags := expr.Value(ctx)
	if diags.HasErrors() {
		return color.Color{}, fmt.Errorf("evaluating: %s", diags.Error())
	}
	return ResolveColor(val)
}
