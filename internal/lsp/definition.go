package lsp

import (
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// refAtCursor returns the reference path up to and including the segment
// under the cursor: on "base" in "palette.group.base" it returns
// "palette.group.base", on "group" it returns "palette.group". Only
// referenceable blocks count; anything else yields "".
func refAtCursor(line string, character uint32) string {
	col := byteOffset(line, character)
	if col >= len(line) {
		return ""
	}

	end := col
	for end < len(line) && isIdentChar(line[end]) {
		end++
	}
	start := col
	for start > 0 && isIdentChar(line[start-1]) {
		start--
	}
	if start == end {
		return ""
	}

	parts := strings.Split(line[start:end], ".")
	if !BlockTypes[parts[0]] || len(parts) < 2 {
		return ""
	}

	cursor := col - start
	pos := len(parts[0]) + 1
	n := 1
	for _, part := range parts[1:] {
		if cursor < pos {
			break
		}
		n++
		pos += len(part) + 1
	}
	if n == 1 {
		return ""
	}
	return strings.Join(parts[:n], ".")
}

func isIdentChar(b byte) bool {
	return (b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') ||
		b == '_' || b == '-' || b == '.'
}

// definition resolves the palette reference under the cursor to the place
// it is defined.
func definition(result *AnalysisResult, content string, uri string, pos protocol.Position) *protocol.Location {
	if result == nil {
		return nil
	}

	lines := strings.Split(content, "\n")
	if int(pos.Line) >= len(lines) {
		return nil
	}

	ref := refAtCursor(lines[pos.Line], pos.Character)
	if ref == "" {
		return nil
	}
	symRange, ok := result.Symbols[ref]
	if !ok {
		return nil
	}

	return &protocol.Location{
		URI:   protocol.DocumentUri(uri),
		Range: symRange,
	}
}

func (s *Server) textDocumentDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	uri := string(params.TextDocument.URI)

	content, ok := s.docs.Get(uri)
	if !ok {
		return nil, nil
	}
	return definition(s.docs.Result(uri), content, uri, params.Position), nil
}
