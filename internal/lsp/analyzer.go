package lsp

import (
	"fmt"
	"slices"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/jsvensson/varnamala/internal/color"
	"github.com/jsvensson/varnamala/internal/parser"
	"github.com/jsvensson/varnamala/internal/sankhya"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/zclconf/go-cty/cty"
)

const diagSource = "varna"

var (
	DiagError   = protocol.DiagnosticSeverityError
	DiagWarning = protocol.DiagnosticSeverityWarning
	DiagInfo    = protocol.DiagnosticSeverityInformation
)

// BlockTypes lists the top-level blocks of a colour table. Only palette can
// be referenced from expressions.
var BlockTypes = map[string]bool{
	"meta":    false,
	"palette": true,
	"varna":   false,
}

// metaAttributes are the attributes a meta block accepts.
var metaAttributes = []string{"name", "author", "script"}

// AnalysisResult holds all information produced by analyzing a colour table.
type AnalysisResult struct {
	Diagnostics []protocol.Diagnostic
	Palette     *color.Node
	Symbols     map[string]protocol.Range // "palette.base", "varna.k" -> definition range
	Colors      []ColorLocation
	Chars       []CharLocation
}

// ColorLocation records a resolved color at a specific source position.
type ColorLocation struct {
	Range protocol.Range
	Color color.Color
	IsRef bool // true if this is a palette reference (not a hex literal)
}

// CharLocation is a varna entry: the character's name range and its colour.
type CharLocation struct {
	Char  string
	Range protocol.Range
	Color color.Color
}

// hclPosToLSP converts an HCL position to an LSP position.
// HCL positions are 1-based; LSP positions are 0-based.
func hclPosToLSP(pos hcl.Pos) protocol.Position {
	return protocol.Position{
		Line:      uint32(pos.Line - 1),
		Character: uint32(pos.Column - 1),
	}
}

func hclRangeToLSP(r hcl.Range) protocol.Range {
	return protocol.Range{
		Start: hclPosToLSP(r.Start),
		End:   hclPosToLSP(r.End),
	}
}

// Analyze parses colour-table content from memory and produces diagnostics,
// a symbol table and color locations. It collects every error rather than
// stopping at the first.
func Analyze(filename, content string) *AnalysisResult {
	result := &AnalysisResult{
		Symbols: make(map[string]protocol.Range),
		Palette: &color.Node{},
	}

	file, diags := hclsyntax.ParseConfig([]byte(content), filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		for _, d := range diags {
			result.Diagnostics = append(result.Diagnostics, hclDiagToLSP(d))
		}
		return result
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		result.addError(hcl.Range{}, "internal error: parsed body is not *hclsyntax.Body")
		return result
	}

	for _, attr := range body.Attributes {
		result.addError(attr.SrcRange, fmt.Sprintf("unexpected top-level attribute %q", attr.Name))
	}

	blocks := make(map[string]*hclsyntax.Block)
	for _, block := range body.Blocks {
		if _, known := BlockTypes[block.Type]; !known {
			result.addWarning(block.DefRange(), fmt.Sprintf("unknown block %q (valid: meta, palette, varna)", block.Type))
			continue
		}
		if _, dup := blocks[block.Type]; dup {
			result.addError(block.DefRange(), fmt.Sprintf("duplicate %s block", block.Type))
			continue
		}
		blocks[block.Type] = block
	}

	if meta, ok := blocks["meta"]; ok {
		result.analyzeMeta(meta.Body)
	}
	if palette, ok := blocks["palette"]; ok {
		result.analyzePaletteBody(palette.Body, result.Palette, result.Palette, "palette")
	}

	varna, ok := blocks["varna"]
	if !ok {
		result.addError(hcl.Range{
			Filename: filename,
			Start:    hcl.Pos{Line: 1, Column: 1},
			End:      hcl.Pos{Line: 1, Column: 1},
		}, "missing required varna block")
		return result
	}
	result.analyzeVarna(varna.Body, parser.EvalContext(result.Palette))

	return result
}

func hclDiagToLSP(d *hcl.Diagnostic) protocol.Diagnostic {
	sev := DiagError
	if d.Severity == hcl.DiagWarning {
		sev = DiagWarning
	}

	diag := protocol.Diagnostic{
		Severity: &sev,
		Message:  d.Summary,
		Source:   strPtr(diagSource),
	}
	if d.Detail != "" {
		diag.Message = d.Summary + ": " + d.Detail
	}
	if d.Subject != nil {
		diag.Range = hclRangeToLSP(*d.Subject)
	}
	return diag
}

func (r *AnalysisResult) addError(rng hcl.Range, msg string) {
	r.Diagnostics = append(r.Diagnostics, protocol.Diagnostic{
		Range:    hclRangeToLSP(rng),
		Severity: &DiagError,
		Source:   strPtr(diagSource),
		Message:  msg,
	})
}

func (r *AnalysisResult) addWarning(rng hcl.Range, msg string) {
	r.Diagnostics = append(r.Diagnostics, protocol.Diagnostic{
		Range:    hclRangeToLSP(rng),
		Severity: &DiagWarning,
		Source:   strPtr(diagSource),
		Message:  msg,
	})
}

func strPtr(s string) *string {
	return &s
}

// analyzeMeta checks that meta attributes are strings and that the script,
// if given, is one the tokenizer accepts.
func (r *AnalysisResult) analyzeMeta(body *hclsyntax.Body) {
	for _, block := range body.Blocks {
		r.addError(block.DefRange(), fmt.Sprintf("meta does not take blocks, found %q", block.Type))
	}

	for name, attr := range body.Attributes {
		if !slices.Contains(metaAttributes, name) {
			r.addWarning(attr.SrcRange, fmt.Sprintf("unknown meta attribute %q", name))
			continue
		}

		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			r.addError(attr.SrcRange, fmt.Sprintf("meta.%s: %s", name, diags.Error()))
			continue
		}
		if val.IsNull() || val.Type() != cty.String {
			r.addError(attr.Expr.Range(), fmt.Sprintf("meta.%s: expected a string", name))
			continue
		}
		if name == "script" {
			if _, err := sankhya.ParseScript(val.AsString()); err != nil {
				r.addError(attr.Expr.Range(), err.Error())
			}
		}
	}
}

// paletteItem represents an attribute or block in source order.
type paletteItem struct {
	pos   hcl.Pos
	attr  *hclsyntax.Attribute
	block *hclsyntax.Block
}

func sourceOrder(body *hclsyntax.Body) []paletteItem {
	items := make([]paletteItem, 0, len(body.Attributes)+len(body.Blocks))
	for _, attr := range body.Attributes {
		items = append(items, paletteItem{pos: attr.SrcRange.Start, attr: attr})
	}
	for _, block := range body.Blocks {
		items = append(items, paletteItem{pos: block.DefRange().Start, block: block})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].pos.Byte < items[j].pos.Byte
	})
	return items
}

// analyzePaletteBody walks a palette body in source order so later entries
// can reference earlier ones, building the palette tree as it goes.
func (r *AnalysisResult) analyzePaletteBody(body *hclsyntax.Body, root, node *color.Node, prefix string) {
	for _, item := range sourceOrder(body) {
		if item.block != nil {
			if node.Children == nil {
				node.Children = make(map[string]*color.Node)
			}
			child := &color.Node{}
			node.Children[item.block.Type] = child
			r.Symbols[prefix+"."+item.block.Type] = hclRangeToLSP(item.block.DefRange())
			r.analyzePaletteBody(item.block.Body, root, child, prefix+"."+item.block.Type)
			continue
		}

		attrName := item.attr.Name
		symbolName := prefix + "." + attrName
		if attrName != "color" {
			r.Symbols[symbolName] = hclRangeToLSP(item.attr.SrcRange)
		}

		c, ok := r.evalColor(item.attr, parser.EvalContext(root), symbolName)
		if !ok {
			continue
		}

		if attrName == "color" {
			node.Color = &c
			continue
		}
		if node.Children == nil {
			node.Children = make(map[string]*color.Node)
		}
		node.Children[attrName] = &color.Node{Color: &c}
	}
}

// analyzeVarna walks the character entries: plain attributes for characters
// that are identifiers, char blocks for everything else.
func (r *AnalysisResult) analyzeVarna(body *hclsyntax.Body, ctx *hcl.EvalContext) {
	seen := make(map[string]bool)

	for _, item := range sourceOrder(body) {
		var (
			char     string
			nameRng  hcl.Range
			attr     *hclsyntax.Attribute
			declared hcl.Range
		)

		if item.attr != nil {
			char, nameRng, attr, declared = item.attr.Name, item.attr.NameRange, item.attr, item.attr.SrcRange
		} else {
			b := item.block
			if b.Type != parser.CharBlockType || len(b.Labels) != 1 {
				r.addError(b.DefRange(), fmt.Sprintf("unexpected block %q in varna (valid: %s \"<character>\" { color = ... })", b.Type, parser.CharBlockType))
				continue
			}
			char, nameRng, declared = b.Labels[0], b.LabelRanges[0], b.DefRange()

			colorAttr, ok := b.Body.Attributes["color"]
			if !ok {
				r.addError(b.DefRange(), fmt.Sprintf("char %q: missing required 'color' attribute", char))
				continue
			}
			for name, extra := range b.Body.Attributes {
				if name != "color" {
					r.addError(extra.SrcRange, fmt.Sprintf("char %q: only a color attribute is allowed", char))
				}
			}
			for _, nested := range b.Body.Blocks {
				r.addError(nested.DefRange(), fmt.Sprintf("char %q: only a color attribute is allowed", char))
			}
			attr = colorAttr
		}

		if char == "" {
			r.addError(nameRng, "empty character name")
			continue
		}
		if seen[char] {
			r.addError(nameRng, fmt.Sprintf("duplicate entry for %q", char))
			continue
		}
		seen[char] = true
		r.Symbols["varna."+char] = hclRangeToLSP(declared)

		c, ok := r.evalColor(attr, ctx, char)
		if !ok {
			continue
		}
		r.Chars = append(r.Chars, CharLocation{Char: char, Range: hclRangeToLSP(nameRng), Color: c})
	}
}

// evalColor evaluates an attribute as a colour, recording a diagnostic on
// failure and a color location on success.
func (r *AnalysisResult) evalColor(attr *hclsyntax.Attribute, ctx *hcl.EvalContext, label string) (color.Color, bool) {
	val, diags := attr.Expr.Value(ctx)
	if diags.HasErrors() {
		r.addError(attr.SrcRange, fmt.Sprintf("evaluating %s: %s", label, diags.Error()))
		return color.Color{}, false
	}

	c, err := parser.ResolveColor(val)
	if err != nil {
		r.addError(attr.SrcRange, fmt.Sprintf("%s: %s", label, err.Error()))
		return color.Color{}, false
	}

	r.Colors = append(r.Colors, ColorLocation{
		Range: hclRangeToLSP(attr.Expr.Range()),
		Color: c,
		IsRef: isReferenceExpr(attr.Expr),
	})
	return c, true
}

// isReferenceExpr returns true if the expression is a scope traversal
// (e.g. palette.base) rather than a literal value.
func isReferenceExpr(expr hclsyntax.Expression) bool {
	switch expr.(type) {
	case *hclsyntax.ScopeTraversalExpr, *hclsyntax.RelativeTraversalExpr:
		return true
	default:
		return false
	}
}
