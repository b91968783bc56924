package engine

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"text/template"

	"github.com/jsvensson/varnamala/internal/color"
	"github.com/jsvensson/varnamala/internal/sankhya"
)

func testData() Data {
	colors := sankhya.ColorTable{"k": "#ff0000", "a": "#0000ff"}
	words := []sankhya.Word{{
		Name:  "ka",
		Value: 30000,
		Letters: []sankhya.Segment{
			{Type: sankhya.Consonant, Char: "k", Value: 1},
			{Type: sankhya.ImplicitVowel, Consonant: "k", Value: 1, ConsonantSum: 1},
		},
	}}
	return Data{
		Title:       "Test report",
		Analysis:    sankhya.Analyze(words, colors, sankhya.Latin),
		Calculation: &sankhya.Calculation{Operation: sankhya.Multiplication, Result: []any{2e6}},
		Colors:      colors,
	}
}

func setupTemplateDir(t *testing.T, templates map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range templates {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRun(t *testing.T) {
	tmplDir := setupTemplateDir(t, map[string]string{
		"summary.txt.tmpl": `title={{ .Title }}
{{ range .Analysis.Words }}{{ .Name }}={{ .Color }} {{ rgb .Color }}
{{ end }}ensemble={{ hexBare .Analysis.Color }}`,
	})
	outDir := filepath.Join(t.TempDir(), "output")

	e := &Engine{TemplatesDir: tmplDir, OutputDir: outDir}
	if err := e.Run(testData()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(outDir, "summary.txt"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	want := "title=Test report\nka=#800080 rgb(128, 0, 128)\nensemble=800080"
	if string(got) != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRun_FilterReports(t *testing.T) {
	tmplDir := setupTemplateDir(t, map[string]string{
		"a.txt.tmpl": "a",
		"b.txt.tmpl": "b",
	})
	outDir := t.TempDir()

	e := &Engine{TemplatesDir: tmplDir, OutputDir: outDir, Reports: []string{"b.txt"}}
	if err := e.Run(testData()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(outDir, "a.txt")); !os.IsNotExist(err) {
		t.Error("a.txt should not have been rendered")
	}
	if _, err := os.Stat(filepath.Join(outDir, "b.txt")); err != nil {
		t.Errorf("b.txt missing: %v", err)
	}
}

func TestRun_Errors(t *testing.T) {
	t.Run("no templates", func(t *testing.T) {
		e := &Engine{TemplatesDir: t.TempDir(), OutputDir: t.TempDir()}
		err := e.Run(testData())
		if err == nil || !strings.Contains(err.Error(), "no .tmpl files") {
			t.Errorf("error = %v, want no .tmpl files", err)
		}
	})

	t.Run("parse error", func(t *testing.T) {
		dir := setupTemplateDir(t, map[string]string{"bad.tmpl": "{{ .Title "})
		e := &Engine{TemplatesDir: dir, OutputDir: t.TempDir()}
		err := e.Run(testData())
		if err == nil || !strings.Contains(err.Error(), "parsing template") {
			t.Errorf("error = %v, want parsing template", err)
		}
	})

	t.Run("bad color argument", func(t *testing.T) {
		dir := setupTemplateDir(t, map[string]string{"bad.tmpl": `{{ hex "nope" }}`})
		e := &Engine{TemplatesDir: dir, OutputDir: t.TempDir()}
		err := e.Run(testData())
		if err == nil || !strings.Contains(err.Error(), "executing template") {
			t.Errorf("error = %v, want executing template", err)
		}
	})
}

func TestFuncMap(t *testing.T) {
	d := testData()

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"hex from string", `{{ hex "#F00" }}`, "#ff0000"},
		{"hex from color", `{{ hex .Red }}`, "#ff0000"},
		{"rgb", `{{ rgb "#800080" }}`, "rgb(128, 0, 128)"},
		{"varna lookup", `{{ varna "k" }}`, "#ff0000"},
		{"varna missing", `{{ varna "zz" }}`, ""},
		{"blend", `{{ blend "#ff0000" "#0000ff" 1 1 }}`, "#800080"},
		{"blend absent", `{{ blend "" "" 1 1 }}`, ""},
		{"num", `{{ num 2000000 }}`, "2×10^6"},
		{"power", `{{ power 1000 }}`, "10^3"},
		{"grouped", `{{ grouped 1234567 }}`, "1,234,567"},
		{"op", `{{ op .Op }}`, "Subtract (R to L)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := template.New("test").Funcs(FuncMap(d.Colors)).Parse(tt.template)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			data := struct {
				Red color.Color
				Op  sankhya.Operation
			}{color.Color{R: 255}, sankhya.SubtractionBD}

			var buf bytes.Buffer
			if err := tmpl.Execute(&buf, data); err != nil {
				t.Fatalf("execute error: %v", err)
			}
			if got := strings.TrimSpace(buf.String()); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderDefault(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderDefault(&buf, testData()); err != nil {
		t.Fatalf("RenderDefault() error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Test report",
		"## ka",
		"| Varṇāṅka | 1 | 10^0 |",
		"| Akṣara Varṇa |  | #800080 |",
		"- Saṅkhyā: 30,000",
		"Raṅga: #800080 (rgb(128, 0, 128))",
		"Multiply: 2×10^6",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderDefault_NoAnalysis(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderDefault(&buf, Data{}); err != nil {
		t.Fatalf("RenderDefault() error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "# Varṇamālā report") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}
