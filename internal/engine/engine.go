// Package engine renders analysis reports through Go templates.
package engine

import (
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"github.com/jsvensson/varnamala/internal/color"
	"github.com/jsvensson/varnamala/internal/numfmt"
	"github.com/jsvensson/varnamala/internal/sankhya"
)

//go:embed templates/*.tmpl
var builtin embed.FS

// DefaultTemplate is the built-in report used when no template directory is
// given.
const DefaultTemplate = "report.md.tmpl"

// Data is what a report template sees.
type Data struct {
	Title       string
	Analysis    *sankhya.Analysis
	Calculation *sankhya.Calculation
	Colors      sankhya.ColorTable
}

// Engine loads and executes report templates against an analysis.
type Engine struct {
	TemplatesDir string
	OutputDir    string
	Reports      []string // if non-empty, only render these template basenames
}

// Run executes every .tmpl file in the templates directory and writes one
// output file per template, named after the template without its suffix.
func (e *Engine) Run(d Data) error {
	matches, err := filepath.Glob(filepath.Join(e.TemplatesDir, "*.tmpl"))
	if err != nil {
		return fmt.Errorf("globbing templates: %w", err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no .tmpl files found in %s", e.TemplatesDir)
	}

	if err := os.MkdirAll(e.OutputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	funcs := FuncMap(d.Colors)
	for _, path := range matches {
		name := strings.TrimSuffix(filepath.Base(path), ".tmpl")
		if len(e.Reports) > 0 && !slices.Contains(e.Reports, name) {
			continue
		}
		if err := e.renderFile(path, name, funcs, d); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) renderFile(path, name string, funcs template.FuncMap, d Data) error {
	tmpl, err := template.New(filepath.Base(path)).Funcs(funcs).ParseFiles(path)
	if err != nil {
		return fmt.Errorf("parsing template %s: %w", path, err)
	}

	outPath := filepath.Join(e.OutputDir, name)
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output file %s: %w", outPath, err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, d); err != nil {
		return fmt.Errorf("executing template %s: %w", path, err)
	}
	return nil
}

// RenderDefault writes the built-in Markdown report to w.
func RenderDefault(w io.Writer, d Data) error {
	tmpl, err := template.New(DefaultTemplate).Funcs(FuncMap(d.Colors)).ParseFS(builtin, "templates/"+DefaultTemplate)
	if err != nil {
		return fmt.Errorf("parsing built-in template: %w", err)
	}
	if err := tmpl.Execute(w, d); err != nil {
		return fmt.Errorf("executing built-in template: %w", err)
	}
	return nil
}

// FuncMap returns the functions available to report templates. Colour
// arguments may be a color.Color or a hex string.
func FuncMap(colors sankhya.ColorTable) template.FuncMap {
	return template.FuncMap{
		"hex": func(v any) (string, error) {
			c, err := toColor(v)
			if err != nil {
				return "", err
			}
			return c.Hex(), nil
		},
		"hexBare": func(v any) (string, error) {
			c, err := toColor(v)
			if err != nil {
				return "", err
			}
			return c.HexBare(), nil
		},
		"rgb": func(v any) (string, error) {
			c, err := toColor(v)
			if err != nil {
				return "", err
			}
			return c.RGB(), nil
		},
		"varna": func(char string) string {
			return colors.Lookup(char)
		},
		"blend": func(consonant, vowel string, cw, vw float64) string {
			hex, _ := color.BlendHex(consonant, vowel, cw, vw)
			return hex
		},
		"average": color.Average,
		"num":     numfmt.Format,
		"power":   numfmt.FormatPower,
		"grouped": numfmt.GroupedValue,
		"op": func(op sankhya.Operation) string {
			return op.DisplayName()
		},
	}
}

func toColor(v any) (color.Color, error) {
	switch v := v.(type) {
	case color.Color:
		return v, nil
	case *color.Color:
		if v == nil {
			return color.Color{}, fmt.Errorf("nil color")
		}
		return *v, nil
	case string:
		return color.ParseHex(v)
	}
	return color.Color{}, fmt.Errorf("expected color or hex string, got %T", v)
}
