package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jsvensson/varnamala"
	"github.com/jsvensson/varnamala/internal/client"
	"github.com/jsvensson/varnamala/internal/engine"
	"github.com/jsvensson/varnamala/internal/sankhya"
	"github.com/spf13/cobra"
)

var (
	flagScript      string
	flagMode        string
	flagColors      string
	flagTemplateDir string
	flagOut         string
	flagTitle       string
	flagFormat      string
	flagReports     []string
	flagOp          string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text...]",
	Short: "Tokenize text and show each word's numbers and colours",
	Long: `Analyze sends the text to the service for tokenizing and prints, per word,
the letter digits, the letters, the consonant-vowel unions and their colour
blends, followed by the word's number and its average colour.

With --template-dir every .tmpl file in the directory is rendered into --out.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

var calcCmd = &cobra.Command{
	Use:   "calc <operation> [text...]",
	Short: "Combine the numbers of the words in text",
	Long: fmt.Sprintf(`Calc tokenizes the text and asks the service to combine the word numbers.

Operations: %s`, operationNames()),
	Args: cobra.MinimumNArgs(2),
	RunE: runCalc,
}

func init() {
	for _, cmd := range []*cobra.Command{analyzeCmd, calcCmd} {
		cmd.Flags().StringVarP(&flagScript, "script", "s", "", "input script: latin, devanagari, kannada or telugu (default from config)")
		cmd.Flags().StringVarP(&flagMode, "mode", "m", "", "input type: word or sentence (default from config)")
	}
	analyzeCmd.Flags().StringVar(&flagColors, "colors", "", "colour table (.varna) to use instead of the service's colours")
	analyzeCmd.Flags().StringVar(&flagTemplateDir, "template-dir", "", "render every template in this directory")
	analyzeCmd.Flags().StringVar(&flagOut, "out", "output", "output directory for --template-dir")
	analyzeCmd.Flags().StringArrayVar(&flagReports, "report", nil, "render only this template (can be repeated)")
	analyzeCmd.Flags().StringVar(&flagTitle, "title", "", "report title (default: the input text)")
	analyzeCmd.Flags().StringVar(&flagOp, "op", "", "also combine the word numbers with this operation")
	analyzeCmd.Flags().StringVarP(&flagFormat, "format", "f", "text", "output format: text or md")

	rootCmd.AddCommand(analyzeCmd, calcCmd)
}

func operationNames() string {
	names := make([]string, len(sankhya.Operations))
	for i, op := range sankhya.Operations {
		names[i] = string(op)
	}
	return strings.Join(names, ", ")
}

// inputSettings resolves script and input type, flags first, then config.
func inputSettings() (sankhya.Script, sankhya.InputMode, error) {
	script, mode := cfg.Script, cfg.InputType
	if flagScript != "" {
		s, err := sankhya.ParseScript(flagScript)
		if err != nil {
			return "", "", err
		}
		script = s
	}
	if flagMode != "" {
		m, err := sankhya.ParseInputMode(flagMode)
		if err != nil {
			return "", "", err
		}
		mode = m
	}
	return script, mode, nil
}

// tokenize prepares text and sends it to the service.
func tokenize(ctx context.Context, c *client.Client, text string) ([]sankhya.Word, sankhya.Script, error) {
	script, mode, err := inputSettings()
	if err != nil {
		return nil, "", err
	}
	words, err := sankhya.PrepareInput(text, mode)
	if err != nil {
		return nil, "", err
	}
	log.Debugf("tokenizing %d words as %s", len(words), script)

	parsed, err := c.ProcessWords(ctx, words, script)
	if err != nil {
		return nil, "", fmt.Errorf("processing input: %w", err)
	}
	return parsed, script, nil
}

// colorTable returns the local table given by --colors, or the service's.
func colorTable(ctx context.Context, c *client.Client) (sankhya.ColorTable, error) {
	if flagColors != "" {
		t, err := varnamala.Load(flagColors)
		if err != nil {
			return nil, err
		}
		log.Debugf("using %d colours from %s", len(t.Varna), flagColors)
		return t.Colors(), nil
	}

	colors, err := c.Colors(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching colours: %w", err)
	}
	return colors, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if flagTemplateDir == "" && flagFormat != "text" && flagFormat != "md" {
		return fmt.Errorf("unknown format %q (valid: text, md)", flagFormat)
	}
	ctx := cmd.Context()
	c := newClient()
	text := strings.Join(args, " ")

	words, script, err := tokenize(ctx, c, text)
	if err != nil {
		return err
	}
	colors, err := colorTable(ctx, c)
	if err != nil {
		return err
	}

	data := engine.Data{
		Title:    flagTitle,
		Analysis: sankhya.Analyze(words, colors, script),
		Colors:   colors,
	}
	if data.Title == "" {
		data.Title = text
	}
	if flagOp != "" {
		if data.Calculation, err = calculate(ctx, c, flagOp, words); err != nil {
			return err
		}
	}

	if flagTemplateDir != "" {
		e := &engine.Engine{
			TemplatesDir: flagTemplateDir,
			OutputDir:    flagOut,
			Reports:      flagReports,
		}
		if err := e.Run(data); err != nil {
			return fmt.Errorf("rendering reports: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generated reports in %s\n", flagOut)
		return nil
	}

	switch flagFormat {
	case "text":
		p := printer(cmd)
		if err := p.Analysis(data.Analysis); err != nil {
			return err
		}
		if data.Calculation != nil {
			return p.Calculation(data.Calculation)
		}
		return nil
	default:
		return engine.RenderDefault(cmd.OutOrStdout(), data)
	}
}

func runCalc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	c := newClient()
	if _, err := sankhya.ParseOperation(args[0]); err != nil {
		return fmt.Errorf("%w (valid: %s)", err, operationNames())
	}

	words, _, err := tokenize(ctx, c, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	result, err := calculate(ctx, c, args[0], words)
	if err != nil {
		return err
	}
	return printer(cmd).Calculation(result)
}

func calculate(ctx context.Context, c *client.Client, name string, words []sankhya.Word) (*sankhya.Calculation, error) {
	op, err := sankhya.ParseOperation(name)
	if err != nil {
		return nil, fmt.Errorf("%w (valid: %s)", err, operationNames())
	}
	tokens, err := sankhya.Tokens(words)
	if err != nil {
		return nil, err
	}
	result, err := c.Calculate(ctx, tokens, op)
	if err != nil {
		return nil, fmt.Errorf("calculating: %w", err)
	}
	return result, nil
}
