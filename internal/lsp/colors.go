package lsp

import (
	"strings"

	"github.com/jsvensson/varnamala/internal/color"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func colorToLSP(c color.Color) protocol.Color {
	return protocol.Color{
		Red:   float32(c.R) / 255.0,
		Green: float32(c.G) / 255.0,
		Blue:  float32(c.B) / 255.0,
		Alpha: 1.0,
	}
}

// colorFromLSP rounds the editor's float channels back to bytes.
func colorFromLSP(c protocol.Color) color.Color {
	return color.FromFloat(float64(c.Red)*255, float64(c.Green)*255, float64(c.Blue)*255)
}

// documentColors reports every resolved colour, literal or computed, so the
// editor can draw swatches next to references and function calls too.
func documentColors(result *AnalysisResult) []protocol.ColorInformation {
	if result == nil {
		return []protocol.ColorInformation{}
	}

	infos := make([]protocol.ColorInformation, 0, len(result.Colors))
	for _, cl := range result.Colors {
		infos = append(infos, protocol.ColorInformation{
			Range: cl.Range,
			Color: colorToLSP(cl.Color),
		})
	}
	return infos
}

// colorPresentation offers a replacement only for hex literals. References
// and function calls are left alone so picking a colour never flattens them.
func colorPresentation(content string, params *protocol.ColorPresentationParams) []protocol.ColorPresentation {
	hex := colorFromLSP(params.Color).Hex()
	text := extractText(content, params.Range)

	var newText string
	switch {
	case strings.HasPrefix(text, `"`):
		newText = `"` + hex + `"`
	case strings.HasPrefix(text, "#"):
		newText = hex
	default:
		return []protocol.ColorPresentation{}
	}

	return []protocol.ColorPresentation{{
		Label: hex,
		TextEdit: &protocol.TextEdit{
			Range:   params.Range,
			NewText: newText,
		},
	}}
}

func (s *Server) textDocumentDocumentColor(_ *glsp.Context, params *protocol.DocumentColorParams) ([]protocol.ColorInformation, error) {
	return documentColors(s.docs.Result(string(params.TextDocument.URI))), nil
}

func (s *Server) textDocumentColorPresentation(_ *glsp.Context, params *protocol.ColorPresentationParams) ([]protocol.ColorPresentation, error) {
	content, ok := s.docs.Get(string(params.TextDocument.URI))
	if !ok {
		return []protocol.ColorPresentation{}, nil
	}
	return colorPresentation(content, params), nil
}
