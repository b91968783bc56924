package lsp

import (
	"fmt"
	"strings"

	"github.com/apparentlymart/go-textseg/v15/textseg"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// posInRange returns true if pos is within the range [r.Start, r.End).
func posInRange(pos protocol.Position, r protocol.Range) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}
	if pos.Line == r.Start.Line && pos.Character < r.Start.Character {
		return false
	}
	if pos.Line == r.End.Line && pos.Character >= r.End.Character {
		return false
	}
	return true
}

// byteOffset converts a column, counted in grapheme clusters as HCL counts
// them, to a byte offset into line.
func byteOffset(line string, col uint32) int {
	off := 0
	for i := uint32(0); i < col; i++ {
		if off >= len(line) {
			break
		}
		adv, _, err := textseg.ScanGraphemeClusters([]byte(line[off:]), true)
		if err != nil || adv == 0 {
			break
		}
		off += adv
	}
	return off
}

// extractText returns the source text covered by r.
func extractText(content string, r protocol.Range) string {
	lines := strings.Split(content, "\n")
	if int(r.Start.Line) >= len(lines) {
		return ""
	}
	endLine := min(int(r.End.Line), len(lines)-1)

	var parts []string
	for i := int(r.Start.Line); i <= endLine; i++ {
		line := lines[i]
		from, to := 0, len(line)
		if i == int(r.Start.Line) {
			from = byteOffset(line, r.Start.Character)
		}
		if i == int(r.End.Line) {
			to = byteOffset(line, r.End.Character)
		}
		if to < from {
			to = from
		}
		parts = append(parts, line[from:to])
	}
	return strings.Join(parts, "\n")
}

// codePoints lists the code points of s as U+XXXX.
func codePoints(s string) string {
	var cps []string
	for _, r := range s {
		cps = append(cps, fmt.Sprintf("U+%04X", r))
	}
	return strings.Join(cps, " ")
}

// hover describes the colour under the cursor. Character names in the varna
// block show the character's code points; colour expressions show the
// resolved hex and RGB, with the source text for references and calls.
func hover(result *AnalysisResult, content string, pos protocol.Position) *protocol.Hover {
	if result == nil {
		return nil
	}

	for _, ch := range result.Chars {
		if !posInRange(pos, ch.Range) {
			continue
		}
		md := fmt.Sprintf("**%s** %s\n\n`%s` · `%s`", ch.Char, codePoints(ch.Char), ch.Color.Hex(), ch.Color.RGB())
		return markdownHover(md, ch.Range)
	}

	for _, cl := range result.Colors {
		if !posInRange(pos, cl.Range) {
			continue
		}

		md := fmt.Sprintf("`%s` · `%s`", cl.Color.Hex(), cl.Color.RGB())
		if source := extractText(content, cl.Range); !strings.HasPrefix(source, `"`) {
			md = fmt.Sprintf("**%s**\n\n%s", source, md)
		}
		return markdownHover(md, cl.Range)
	}

	return nil
}

func markdownHover(md string, rng protocol.Range) *protocol.Hover {
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: md,
		},
		Range: &rng,
	}
}

func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	uri := string(params.TextDocument.URI)

	content, ok := s.docs.Get(uri)
	if !ok {
		return nil, nil
	}
	return hover(s.docs.Result(uri), content, params.Position), nil
}
