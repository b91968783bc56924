package lsp

import (
	"sort"
	"strings"

	"github.com/jsvensson/varnamala/internal/color"
	"github.com/jsvensson/varnamala/internal/parser"
	"github.com/jsvensson/varnamala/internal/sankhya"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// blockContext is the kind of block the cursor is in.
type blockContext int

const (
	contextRoot blockContext = iota
	contextMeta
	contextPalette
	contextVarna
	contextChar // inside a char "x" { } block in varna
	contextOther
)

var topLevelBlocks = []string{"meta", "palette", "varna"}

// functionSnippets are the colour functions offered at value positions.
var functionSnippets = []struct {
	name, signature, snippet string
}{
	{"brighten", "brighten(color, percentage)", "brighten(${1:color}, ${2:0.1})"},
	{"darken", "darken(color, percentage)", "darken(${1:color}, ${2:0.1})"},
	{"lightness", "lightness(color, lightness)", "lightness(${1:color}, ${2:0.7})"},
	{"blend", "blend(consonant, vowel, consonant_weight, vowel_weight)", "blend(${1:consonant}, ${2:vowel}, ${3:1}, ${4:1})"},
}

// complete produces completion items for the cursor position.
func complete(result *AnalysisResult, content string, pos protocol.Position) []protocol.CompletionItem {
	lines := strings.Split(content, "\n")
	if int(pos.Line) >= len(lines) {
		return nil
	}

	line := lines[pos.Line]
	textBeforeCursor := line[:byteOffset(line, pos.Character)]

	if items := tryPaletteCompletion(result, textBeforeCursor); items != nil {
		return items
	}

	ctx := determineBlockContext(lines, int(pos.Line))

	if attr, ok := valuePosition(textBeforeCursor); ok {
		if ctx == contextMeta {
			if attr == "script" {
				return scriptCompletions()
			}
			return nil
		}
		return valueCompletions()
	}

	switch ctx {
	case contextRoot:
		return topLevelCompletions()
	case contextMeta:
		return attributeCompletions(lines, int(pos.Line), []string{"name", "author", "script"})
	case contextVarna:
		return []protocol.CompletionItem{charSnippet()}
	case contextChar:
		return attributeCompletions(lines, int(pos.Line), []string{"color"})
	}
	return nil
}

// tryPaletteCompletion offers the children of the palette node named by the
// path before the cursor, e.g. "palette." or "palette.group.".
func tryPaletteCompletion(result *AnalysisResult, textBeforeCursor string) []protocol.CompletionItem {
	if result == nil || result.Palette == nil {
		return nil
	}

	idx := strings.LastIndex(textBeforeCursor, "palette.")
	if idx == -1 {
		return nil
	}
	if idx > 0 && isIdentChar(textBeforeCursor[idx-1]) {
		return nil
	}

	// The final segment is a partial name the client filters itself.
	path := textBeforeCursor[idx+len("palette."):]
	segments := strings.Split(path, ".")
	segments = segments[:len(segments)-1]

	node := result.Palette
	for _, seg := range segments {
		child, ok := node.Children[seg]
		if !ok {
			return nil
		}
		node = child
	}
	if node.Children == nil {
		return nil
	}
	return nodeChildrenToCompletionItems(node)
}

func nodeChildrenToCompletionItems(node *color.Node) []protocol.CompletionItem {
	names := make([]string, 0, len(node.Children))
	for name := range node.Children {
		names = append(names, name)
	}
	sort.Strings(names)

	items := make([]protocol.CompletionItem, 0, len(names))
	for _, name := range names {
		child := node.Children[name]
		item := protocol.CompletionItem{
			Label: name,
			Kind:  completionKindPtr(protocol.CompletionItemKindColor),
		}
		if child.Children != nil {
			item.Kind = completionKindPtr(protocol.CompletionItemKindModule)
			item.Detail = strPtr("color group")
		} else if child.Color != nil {
			item.Detail = strPtr(child.Color.Hex())
		}
		items = append(items, item)
	}
	return items
}

// valuePosition reports whether the cursor directly follows "name =", and
// returns the attribute name.
func valuePosition(textBeforeCursor string) (string, bool) {
	name, value, ok := strings.Cut(textBeforeCursor, "=")
	if !ok || strings.TrimSpace(value) != "" {
		return "", false
	}
	return strings.TrimSpace(name), true
}

func valueCompletions() []protocol.CompletionItem {
	snippetFormat := protocol.InsertTextFormatSnippet

	items := make([]protocol.CompletionItem, 0, len(functionSnippets)+1)
	for _, fn := range functionSnippets {
		items = append(items, protocol.CompletionItem{
			Label:            fn.name,
			Kind:             completionKindPtr(protocol.CompletionItemKindFunction),
			Detail:           strPtr(fn.signature),
			InsertText:       strPtr(fn.snippet),
			InsertTextFormat: &snippetFormat,
		})
	}
	items = append(items, protocol.CompletionItem{
		Label:      "palette",
		Kind:       completionKindPtr(protocol.CompletionItemKindVariable),
		Detail:     strPtr("palette reference"),
		InsertText: strPtr("palette."),
	})
	return items
}

func scriptCompletions() []protocol.CompletionItem {
	items := make([]protocol.CompletionItem, 0, len(sankhya.Scripts))
	for _, s := range sankhya.Scripts {
		items = append(items, protocol.CompletionItem{
			Label:      string(s),
			Kind:       completionKindPtr(protocol.CompletionItemKindEnumMember),
			InsertText: strPtr(`"` + string(s) + `"`),
		})
	}
	return items
}

func charSnippet() protocol.CompletionItem {
	snippetFormat := protocol.InsertTextFormatSnippet
	return protocol.CompletionItem{
		Label:            parser.CharBlockType,
		Kind:             completionKindPtr(protocol.CompletionItemKindSnippet),
		Detail:           strPtr("colour for a character that is not an identifier"),
		InsertText:       strPtr(parser.CharBlockType + ` "${1}" {` + "\n  color = ${2}\n}"),
		InsertTextFormat: &snippetFormat,
	}
}

// determineBlockContext tracks brace nesting from the top of the file down
// to the cursor line.
func determineBlockContext(lines []string, cursorLine int) blockContext {
	var stack []string

	for i := 0; i <= cursorLine && i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if opens := strings.Count(line, "{"); opens > 0 {
			name := ""
			if fields := strings.Fields(line); len(fields) > 0 {
				name = fields[0]
			}
			for j := 0; j < opens; j++ {
				stack = append(stack, name)
			}
		}
		for n := strings.Count(line, "}"); n > 0; n-- {
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	switch {
	case len(stack) == 0:
		return contextRoot
	case len(stack) == 1:
		switch stack[0] {
		case "meta":
			return contextMeta
		case "palette":
			return contextPalette
		case "varna":
			return contextVarna
		}
	case stack[0] == "varna" && stack[len(stack)-1] == parser.CharBlockType:
		return contextChar
	case stack[0] == "palette":
		return contextPalette
	}
	return contextOther
}

// attributeCompletions offers the candidates not yet defined in the block
// around the cursor.
func attributeCompletions(lines []string, cursorLine int, candidates []string) []protocol.CompletionItem {
	defined := findDefinedAttributes(lines, cursorLine)

	var items []protocol.CompletionItem
	for _, name := range candidates {
		if !defined[name] {
			items = append(items, protocol.CompletionItem{
				Label: name,
				Kind:  completionKindPtr(protocol.CompletionItemKindProperty),
			})
		}
	}
	return items
}

// findDefinedAttributes returns the attribute names already assigned between
// the enclosing block's opening brace and the cursor line.
func findDefinedAttributes(lines []string, cursorLine int) map[string]bool {
	defined := make(map[string]bool)

	startLine := 0
	depth := 0
	for i := cursorLine; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		depth += strings.Count(line, "}") - strings.Count(line, "{")
		if depth < 0 {
			startLine = i
			break
		}
	}

	for i := startLine; i <= cursorLine; i++ {
		line := strings.TrimSpace(lines[i])
		if _, after, ok := strings.Cut(line, "{"); ok {
			line = strings.TrimSpace(after)
		}
		if name, _, ok := strings.Cut(line, "="); ok {
			name = strings.TrimSpace(name)
			if name != "" && !strings.ContainsAny(name, " {\"") {
				defined[name] = true
			}
		}
	}
	return defined
}

func topLevelCompletions() []protocol.CompletionItem {
	snippetFormat := protocol.InsertTextFormatSnippet

	items := make([]protocol.CompletionItem, 0, len(topLevelBlocks))
	for _, name := range topLevelBlocks {
		items = append(items, protocol.CompletionItem{
			Label:            name,
			Kind:             completionKindPtr(protocol.CompletionItemKindSnippet),
			InsertText:       strPtr(name + " {\n  $0\n}"),
			InsertTextFormat: &snippetFormat,
		})
	}
	return items
}

func completionKindPtr(k protocol.CompletionItemKind) *protocol.CompletionItemKind {
	return &k
}

func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	uri := string(params.TextDocument.URI)

	content, ok := s.docs.Get(uri)
	if !ok {
		return nil, nil
	}
	return complete(s.docs.Result(uri), content, params.Position), nil
}
