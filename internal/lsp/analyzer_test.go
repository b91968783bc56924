package lsp

import (
	"strings"
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

const validTable = `
meta {
  name   = "Aryabhata"
  author = "Test Author"
  script = "devanagari"
}

palette {
  saffron = "#ff9933"
  indigo  = "#4b0082"
  earth {
    color = "#8b4513"
    light = brighten(palette.saffron, 0.2)
  }
}

varna {
  k = palette.saffron
  a = "#0000ff"
  g = palette.earth

  char "क" {
    color = darken(palette.saffron, 0.1)
  }
  char "ं" {
    color = palette.indigo
  }
}
`

func logDiagnostics(t *testing.T, diags []protocol.Diagnostic) {
	t.Helper()
	for _, d := range diags {
		t.Logf("  diagnostic: [%v] %s", *d.Severity, d.Message)
	}
}

func TestAnalyze_ValidTable(t *testing.T) {
	result := Analyze("test.varna", validTable)

	if len(result.Diagnostics) != 0 {
		logDiagnostics(t, result.Diagnostics)
		t.Fatalf("expected 0 diagnostics, got %d", len(result.Diagnostics))
	}

	base, err := result.Palette.Lookup([]string{"saffron"})
	if err != nil {
		t.Fatalf("Lookup(saffron) error: %v", err)
	}
	if base.Hex() != "#ff9933" {
		t.Errorf("saffron = %s, want #ff9933", base.Hex())
	}

	if _, err := result.Palette.Lookup([]string{"earth", "light"}); err != nil {
		t.Errorf("nested palette entry did not resolve: %v", err)
	}

	for _, sym := range []string{"palette.saffron", "palette.earth", "palette.earth.light", "varna.k", "varna.क", "varna.ं"} {
		if _, ok := result.Symbols[sym]; !ok {
			t.Errorf("missing symbol %q", sym)
		}
	}
	if _, ok := result.Symbols["palette.earth.color"]; ok {
		t.Error("color attributes should not be symbols")
	}

	var chars []string
	for _, ch := range result.Chars {
		chars = append(chars, ch.Char)
	}
	if got := strings.Join(chars, ","); got != "k,a,g,क,ं" {
		t.Errorf("chars = %s, want source order k,a,g,क,ं", got)
	}
	if result.Chars[2].Color.Hex() != "#8b4513" {
		t.Errorf("group reference resolved to %s, want the group color", result.Chars[2].Color.Hex())
	}
}

func TestAnalyze_ColorLocations(t *testing.T) {
	result := Analyze("test.varna", validTable)

	var refs, literals int
	for _, cl := range result.Colors {
		if cl.IsRef {
			refs++
		} else {
			literals++
		}
	}
	// refs: k, g, ं; literals and calls: saffron, indigo, earth.color, earth.light, a, क
	if refs != 3 || literals != 6 {
		t.Errorf("refs = %d, literals = %d; want 3 and 6", refs, literals)
	}
}

func TestAnalyze_Diagnostics(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		severity protocol.DiagnosticSeverity
		contains string
	}{
		{
			name:     "syntax error",
			content:  "varna {\n  k = \n}",
			severity: DiagError,
		},
		{
			name:     "missing varna block",
			content:  `palette { a = "#ffffff" }`,
			severity: DiagError,
			contains: "missing required varna block",
		},
		{
			name:     "unknown script",
			content:  "meta {\n  script = \"greek\"\n}\nvarna {}",
			severity: DiagError,
			contains: "unknown script",
		},
		{
			name:     "unknown meta attribute",
			content:  "meta {\n  appearance = \"dark\"\n}\nvarna {}",
			severity: DiagWarning,
			contains: "appearance",
		},
		{
			name:     "unknown block",
			content:  "theme {}\nvarna {}",
			severity: DiagWarning,
			contains: "unknown block",
		},
		{
			name:     "duplicate block",
			content:  "varna {}\nvarna {}",
			severity: DiagError,
			contains: "duplicate varna block",
		},
		{
			name:     "invalid hex",
			content:  "varna {\n  k = \"#zzzzzz\"\n}",
			severity: DiagError,
			contains: "invalid hex",
		},
		{
			name:     "undefined palette reference",
			content:  "palette {\n  a = \"#ffffff\"\n}\nvarna {\n  k = palette.missing\n}",
			severity: DiagError,
			contains: "evaluating k",
		},
		{
			name:     "group without color",
			content:  "palette {\n  g {\n    x = \"#000000\"\n  }\n}\nvarna {\n  k = palette.g\n}",
			severity: DiagError,
			contains: "no 'color' attribute",
		},
		{
			name:     "duplicate character",
			content:  "varna {\n  k = \"#000000\"\n  char \"k\" {\n    color = \"#ffffff\"\n  }\n}",
			severity: DiagError,
			contains: "duplicate entry",
		},
		{
			name:     "char block without color",
			content:  "varna {\n  char \"क\" {\n  }\n}",
			severity: DiagError,
			contains: "missing required 'color'",
		},
		{
			name:     "unexpected block in varna",
			content:  "varna {\n  group {\n    k = \"#000000\"\n  }\n}",
			severity: DiagError,
			contains: "unexpected block",
		},
		{
			name:     "forward reference",
			content:  "palette {\n  a = palette.b\n  b = \"#ffffff\"\n}\nvarna {}",
			severity: DiagError,
			contains: "palette.a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Analyze("test.varna", tt.content)
			if len(result.Diagnostics) == 0 {
				t.Fatal("expected at least one diagnostic")
			}
			for _, d := range result.Diagnostics {
				if *d.Severity == tt.severity && strings.Contains(d.Message, tt.contains) {
					if *d.Source != "varna" {
						t.Errorf("source = %q, want varna", *d.Source)
					}
					return
				}
			}
			logDiagnostics(t, result.Diagnostics)
			t.Errorf("no diagnostic with severity %v containing %q", tt.severity, tt.contains)
		})
	}
}

func TestAnalyze_CollectsAllErrors(t *testing.T) {
	content := `varna {
  k = "#zzzzzz"
  g = palette.nope
  a = "#0000ff"
}`
	result := Analyze("test.varna", content)

	if len(result.Diagnostics) != 2 {
		logDiagnostics(t, result.Diagnostics)
		t.Fatalf("expected 2 diagnostics, got %d", len(result.Diagnostics))
	}
	if len(result.Chars) != 1 || result.Chars[0].Char != "a" {
		t.Errorf("valid entries should still resolve, got %+v", result.Chars)
	}
}

func TestHCLRangeToLSP(t *testing.T) {
	result := Analyze("test.varna", "varna {\n  k = \"#ff0000\"\n}")
	if len(result.Chars) != 1 {
		t.Fatalf("expected 1 char, got %d", len(result.Chars))
	}
	want := protocol.Range{
		Start: protocol.Position{Line: 1, Character: 2},
		End:   protocol.Position{Line: 1, Character: 3},
	}
	if result.Chars[0].Range != want {
		t.Errorf("range = %+v, want %+v", result.Chars[0].Range, want)
	}
}
