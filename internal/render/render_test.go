package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jsvensson/varnamala/internal/client"
	"github.com/jsvensson/varnamala/internal/color"
	"github.com/jsvensson/varnamala/internal/mapping"
	"github.com/jsvensson/varnamala/internal/sankhya"
)

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestParseCSS(t *testing.T) {
	tests := []struct {
		in   string
		want color.Color
		ok   bool
	}{
		{"#ff0000", color.Color{R: 255}, true},
		{"#0f0", color.Color{G: 255}, true},
		{"rgb(10, 20, 30)", color.Color{R: 10, G: 20, B: 30}, true},
		{"RGB(255,255,0)", color.Color{R: 255, G: 255}, true},
		{"", color.Color{}, false},
		{"salmon", color.Color{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseCSS(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("parseCSS(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestContrast(t *testing.T) {
	if got := contrast(color.White); got != (color.Color{}) {
		t.Errorf("contrast(white) = %v, want black", got)
	}
	if got := contrast(color.Color{}); got != color.White {
		t.Errorf("contrast(black) = %v, want white", got)
	}
}

func TestSwatch(t *testing.T) {
	p := New(&bytes.Buffer{})
	if got := p.Swatch("#FF9933"); !strings.Contains(got, "#ff9933") {
		t.Errorf("Swatch() = %q, want lowercase hex", got)
	}
	if got := p.Swatch("nope"); got != mapping.Placeholder {
		t.Errorf("Swatch(invalid) = %q, want placeholder", got)
	}
}

func TestAnalysis(t *testing.T) {
	var buf bytes.Buffer
	a := &sankhya.Analysis{
		Script: sankhya.Latin,
		Words: []sankhya.WordResult{{
			Name:  "ka",
			Value: "30,000",
			Count: 2,
			Cells: []sankhya.Cell{
				{Type: sankhya.Consonant, Display: "k", Number: "1", Varna: "#ff0000"},
				{Type: sankhya.ImplicitVowel, Display: "a", Number: "10^0", Varna: "#0000ff", Union: "1", Blend: "#800080"},
			},
			Color: "#800080",
		}},
		Color: "#800080",
	}

	if err := New(&buf).Analysis(a); err != nil {
		t.Fatalf("Analysis() error: %v", err)
	}
	assertContains(t, buf.String(),
		"ka", "Varṇāṅka", "Akṣara Varṇa", "10^0", "#ff0000", "#800080",
		"Aṅka: 2", "Saṅkhyā: 30,000", "Raṅga:",
	)
}

func TestCalculation(t *testing.T) {
	var buf bytes.Buffer
	c := &sankhya.Calculation{Operation: sankhya.Multiplication, Result: []any{12, 3e7}}
	if err := New(&buf).Calculation(c); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "Multiply: 12 3×10^7\n" {
		t.Errorf("Calculation() = %q", got)
	}
}

func TestMappings(t *testing.T) {
	var buf bytes.Buffer
	tables := mapping.Tables{
		Consonants: []mapping.Entry{
			{Number: 1, Latin: "k", Devanagari: "क"},
			{Number: 26, Latin: "y", Devanagari: "य"},
		},
		Vowels:    []mapping.Entry{{Number: 1, Latin: "a", Devanagari: "अ"}},
		Matras:    []mapping.Equivalent{{Devanagari: "ि", Latin: "i"}},
		Modifiers: []mapping.Equivalent{{Devanagari: "ं", Latin: "ṃ"}},
	}
	pending := []mapping.Addition{{Entry: mapping.Entry{Number: 2, Latin: "kh", Devanagari: "ख"}, Kind: mapping.Consonant}}

	if err := New(&buf).Mappings(tables.Preview(pending), pending); err != nil {
		t.Fatalf("Mappings() error: %v", err)
	}
	out := buf.String()
	assertContains(t, out,
		"क-वर्ग", "1 क k", "2 ख kh", "7 —",
		"Avargīya vyañjana", "27", "य",
		"Svara", "अ", "Mātrā", "ि", "Modifiers", "ṃ",
		"Pending", "consonant",
	)
}

func TestRagasAndScale(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	ragas := []client.Raga{{Number: 15, NameLatin: "Mayamalavagowla", NameDevanagari: "मायामालवगौल", ColorRGB: "rgb(255, 128, 0)"}}
	if err := p.Ragas(ragas); err != nil {
		t.Fatal(err)
	}
	scale := []client.ColorMapping{{ID: 3, Devanagari: "ग", Hex: "#00ff00"}}
	if err := p.Scale(scale); err != nil {
		t.Fatal(err)
	}

	assertContains(t, buf.String(), "Mayamalavagowla", "#ff8000", "ग", "#00ff00", "—")
}

func TestColors_Sorted(t *testing.T) {
	var buf bytes.Buffer
	if err := New(&buf).Colors(sankhya.ColorTable{"k": "#ff0000", "a": "#0000ff"}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Index(out, "#0000ff") > strings.Index(out, "#ff0000") {
		t.Errorf("rows not sorted by character:\n%s", out)
	}
}

func TestBlendAndAverage(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)
	if err := p.Blend("#ff0000", "#0000ff", 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := p.Average([]string{"#ff0000", "#ff0000", "#0000ff"}); err != nil {
		t.Fatal(err)
	}
	if err := p.Blend("", "", 1, 1); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasSuffix(lines[0], "#800080 ") || !strings.HasSuffix(lines[1], "#800080 ") {
		t.Errorf("blend/average results:\n%s", buf.String())
	}
	if !strings.HasSuffix(lines[2], "= —") {
		t.Errorf("absent blend = %q", lines[2])
	}
}
