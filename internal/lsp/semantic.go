package lsp

import (
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/zclconf/go-cty/cty"
)

var semanticTokenTypes = []string{
	"keyword",   // 0: block names (meta, palette, varna, char)
	"property",  // 1: attribute names
	"variable",  // 2: character names in varna
	"namespace", // 3: the "palette" namespace identifier
	"string",    // 4: hex color literals and char labels
	"function",  // 5: colour functions
	"number",    // 6: numeric literals
}

var semanticTokenModifiers = []string{
	"declaration", // bit 0: defining a new symbol
}

const (
	tokKeyword uint32 = iota
	tokProperty
	tokVariable
	tokNamespace
	tokString
	tokFunction
	tokNumber
)

const modDeclaration uint32 = 1

// SemanticToken is one token with 0-based position.
type SemanticToken struct {
	Line      uint32
	StartChar uint32
	Length    uint32
	Type      uint32
	Modifiers uint32
}

// encodeTokens converts tokens to the LSP wire form: five integers per token,
// with line and start delta-encoded against the previous token.
func encodeTokens(tokens []SemanticToken) []uint32 {
	if len(tokens) == 0 {
		return []uint32{}
	}

	sort.Slice(tokens, func(i, j int) bool {
		if tokens[i].Line != tokens[j].Line {
			return tokens[i].Line < tokens[j].Line
		}
		return tokens[i].StartChar < tokens[j].StartChar
	})

	data := make([]uint32, 0, len(tokens)*5)
	var prevLine, prevChar uint32
	for _, tok := range tokens {
		deltaLine := tok.Line - prevLine
		deltaStart := tok.StartChar
		if deltaLine == 0 {
			deltaStart = tok.StartChar - prevChar
		}
		data = append(data, deltaLine, deltaStart, tok.Length, tok.Type, tok.Modifiers)
		prevLine, prevChar = tok.Line, tok.StartChar
	}
	return data
}

// semanticTokensFull tokenizes a whole document. Unparseable documents yield
// no tokens.
func semanticTokensFull(content string) []uint32 {
	file, diags := hclsyntax.ParseConfig([]byte(content), "", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return []uint32{}
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return []uint32{}
	}

	var tokens []SemanticToken
	for _, block := range body.Blocks {
		tokens = append(tokens, tokenAt(block.TypeRange, tokKeyword, 0))
		tokens = blockBodyTokens(block.Body, block.Type == "varna", tokens)
	}
	return encodeTokens(tokens)
}

func tokenAt(rng hcl.Range, typ, mods uint32) SemanticToken {
	length := uint32(0)
	if rng.End.Line == rng.Start.Line && rng.End.Column > rng.Start.Column {
		length = uint32(rng.End.Column - rng.Start.Column)
	}
	return SemanticToken{
		Line:      uint32(rng.Start.Line - 1),
		StartChar: uint32(rng.Start.Column - 1),
		Length:    length,
		Type:      typ,
		Modifiers: mods,
	}
}

// blockBodyTokens tokenizes a block body. In varna, attribute names are
// characters rather than properties.
func blockBodyTokens(body *hclsyntax.Body, varna bool, tokens []SemanticToken) []SemanticToken {
	for _, block := range body.Blocks {
		tokens = append(tokens, tokenAt(block.TypeRange, tokKeyword, 0))
		for _, lr := range block.LabelRanges {
			tokens = append(tokens, tokenAt(lr, tokString, modDeclaration))
		}
		tokens = blockBodyTokens(block.Body, false, tokens)
	}

	for _, attr := range body.Attributes {
		typ := tokProperty
		if varna {
			typ = tokVariable
		}
		tokens = append(tokens, tokenAt(attr.NameRange, typ, modDeclaration))
		tokens = exprTokens(attr.Expr, tokens)
	}
	return tokens
}

func exprTokens(expr hclsyntax.Expression, tokens []SemanticToken) []SemanticToken {
	switch e := expr.(type) {
	case *hclsyntax.TemplateExpr:
		if e.IsStringLiteral() {
			tokens = append(tokens, tokenAt(e.SrcRange, tokString, 0))
		}
	case *hclsyntax.LiteralValueExpr:
		if e.Val.Type() == cty.Number {
			tokens = append(tokens, tokenAt(e.SrcRange, tokNumber, 0))
		}
	case *hclsyntax.ScopeTraversalExpr:
		tokens = traversalTokens(e.Traversal, tokens)
	case *hclsyntax.FunctionCallExpr:
		tokens = append(tokens, tokenAt(e.NameRange, tokFunction, 0))
		for _, arg := range e.Args {
			tokens = exprTokens(arg, tokens)
		}
	case *hclsyntax.RelativeTraversalExpr:
		tokens = exprTokens(e.Source, tokens)
	}
	return tokens
}

// traversalTokens marks palette.x.y as a namespace followed by properties.
func traversalTokens(trav hcl.Traversal, tokens []SemanticToken) []SemanticToken {
	if len(trav) == 0 {
		return tokens
	}
	root, ok := trav[0].(hcl.TraverseRoot)
	if !ok || !BlockTypes[root.Name] {
		return tokens
	}

	tokens = append(tokens, tokenAt(root.SrcRange, tokNamespace, 0))
	for _, step := range trav[1:] {
		if attr, ok := step.(hcl.TraverseAttr); ok {
			rng := attr.SrcRange
			// The step's range includes the leading dot.
			rng.Start.Column++
			tokens = append(tokens, tokenAt(rng, tokProperty, 0))
		}
	}
	return tokens
}

func (s *Server) textDocumentSemanticTokensFull(_ *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	content, ok := s.docs.Get(string(params.TextDocument.URI))
	if !ok {
		return nil, nil
	}
	return &protocol.SemanticTokens{Data: semanticTokensFull(content)}, nil
}
