// Package format writes colour-table files in canonical style.
package format

import (
	"bytes"
	"regexp"
	"sort"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// blank-line rules applied after hclwrite.Format
var cleanups = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`\n{3,}`), "\n\n"},
	{regexp.MustCompile(`\{\n\s*\n`), "{\n"},
	{regexp.MustCompile(`\n\s*\n(\s*\})`), "\n${1}"},
}

// Format returns content in canonical HCL style with runs of blank lines
// collapsed and no blank lines just inside braces. It works on partial or
// invalid input, so editors can format while the user is still typing.
func Format(content string) (string, error) {
	out := string(hclwrite.Format([]byte(content)))
	for _, c := range cleanups {
		out = c.re.ReplaceAllString(out, c.repl)
	}
	return out, nil
}

// Check reports whether content is already canonically formatted, and
// returns the formatted form.
func Check(content string) (bool, string, error) {
	formatted, err := Format(content)
	if err != nil {
		return false, "", err
	}
	return formatted == content, formatted, nil
}

// Meta is the metadata written at the top of a generated table.
type Meta struct {
	Name   string
	Script string
}

// Generate writes a colour-table file for colors. Characters that are valid
// HCL identifiers become varna attributes; the rest become char blocks.
// Output is sorted by character for stable diffs.
func Generate(meta Meta, colors map[string]string) []byte {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	if meta.Name != "" || meta.Script != "" {
		mb := root.AppendNewBlock("meta", nil).Body()
		if meta.Name != "" {
			mb.SetAttributeValue("name", cty.StringVal(meta.Name))
		}
		if meta.Script != "" {
			mb.SetAttributeValue("script", cty.StringVal(meta.Script))
		}
		root.AppendNewline()
	}

	chars := make([]string, 0, len(colors))
	for ch := range colors {
		chars = append(chars, ch)
	}
	sort.Strings(chars)

	varna := root.AppendNewBlock("varna", nil).Body()
	var labelled []string
	for _, ch := range chars {
		if hclsyntax.ValidIdentifier(ch) {
			varna.SetAttributeValue(ch, cty.StringVal(colors[ch]))
			continue
		}
		labelled = append(labelled, ch)
	}
	for _, ch := range labelled {
		if len(varna.Attributes()) > 0 || len(varna.Blocks()) > 0 {
			varna.AppendNewline()
		}
		cb := varna.AppendNewBlock("char", []string{ch}).Body()
		cb.SetAttributeValue("color", cty.StringVal(colors[ch]))
	}

	return bytes.TrimLeft(hclwrite.Format(f.Bytes()), "\n")
}
