package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jsvensson/varnamala/internal/color"
	"github.com/jsvensson/varnamala/internal/format"
	"github.com/jsvensson/varnamala/internal/mapping"
	"github.com/spf13/cobra"
)

var (
	flagExport string
	flagAdd    []string
	flagCommit bool
)

var colorsCmd = &cobra.Command{
	Use:   "colors",
	Short: "List the service's character colours",
	Long: `Colors prints the character colour table the service uses for analysis.

With --export the table is written as a .varna file that can be edited and
passed back to analyze with --colors.`,
	Args: cobra.NoArgs,
	RunE: runColors,
}

var mappingsCmd = &cobra.Command{
	Use:   "mappings",
	Short: "Show the character number tables",
	Long: `Mappings prints the consonant grid by varga, the remaining consonants, the
vowels and the matra and modifier equivalents.

--add N:latin:devanagari[:kind] previews inserting a character at position N;
entries at or above N move up by one. kind is consonant (default) or vowel.
With --commit the additions are sent to the service instead.`,
	Args: cobra.NoArgs,
	RunE: runMappings,
}

var ragasCmd = &cobra.Command{
	Use:   "ragas",
	Short: "List the 72 melakarta ragas",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ragas, err := newClient().Ragas(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetching ragas: %w", err)
		}
		return printer(cmd).Ragas(ragas)
	},
}

var scaleCmd = &cobra.Command{
	Use:   "scale",
	Short: "Show the Devanagari colour scale",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := newClient().ColorMappings(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetching colour scale: %w", err)
		}
		return printer(cmd).Scale(rows)
	},
}

var closestCmd = &cobra.Command{
	Use:   "closest <hex>",
	Short: "Find the character whose colour is nearest a colour",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query, err := color.ParseHex(args[0])
		if err != nil {
			return err
		}
		match, err := newClient().ClosestCharacter(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("finding closest character: %w", err)
		}
		return printer(cmd).Closest(query, match)
	},
}

func init() {
	colorsCmd.Flags().StringVar(&flagExport, "export", "", "write the table to this .varna file")
	mappingsCmd.Flags().StringArrayVar(&flagAdd, "add", nil, "preview an addition N:latin:devanagari[:kind] (can be repeated)")
	mappingsCmd.Flags().BoolVar(&flagCommit, "commit", false, "send --add entries to the service")

	rootCmd.AddCommand(colorsCmd, mappingsCmd, ragasCmd, scaleCmd, closestCmd)
}

func runColors(cmd *cobra.Command, args []string) error {
	colors, err := newClient().Colors(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching colours: %w", err)
	}

	if flagExport == "" {
		return printer(cmd).Colors(colors)
	}

	out := format.Generate(format.Meta{Name: "Aryabhata", Script: string(cfg.Script)}, colors)
	if err := os.WriteFile(flagExport, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", flagExport, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d colours to %s\n", len(colors), flagExport)
	return nil
}

func runMappings(cmd *cobra.Command, args []string) error {
	additions := make([]mapping.Addition, 0, len(flagAdd))
	for _, raw := range flagAdd {
		a, err := parseAddition(raw)
		if err != nil {
			return err
		}
		additions = append(additions, a)
	}
	if flagCommit && len(additions) == 0 {
		return fmt.Errorf("--commit needs at least one --add")
	}

	ctx := cmd.Context()
	c := newClient()

	if flagCommit {
		for _, a := range additions {
			if err := c.AddMapping(ctx, a); err != nil {
				return fmt.Errorf("adding %s at %d: %w", a.Latin, a.Number, err)
			}
			log.Infof("added %s (%s) at %d", a.Latin, a.Devanagari, a.Number)
		}
		// The reloaded tables already include the additions.
		additions = nil
	}

	tables, err := c.Mappings(ctx)
	if err != nil {
		return fmt.Errorf("fetching mappings: %w", err)
	}
	return printer(cmd).Mappings(tables.Preview(additions), additions)
}

// parseAddition parses N:latin:devanagari[:kind].
func parseAddition(s string) (mapping.Addition, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return mapping.Addition{}, fmt.Errorf("invalid addition %q: want N:latin:devanagari[:kind]", s)
	}

	n, err := strconv.Atoi(parts[0])
	if err != nil {
		return mapping.Addition{}, fmt.Errorf("invalid addition %q: number: %w", s, err)
	}
	if parts[1] == "" || parts[2] == "" {
		return mapping.Addition{}, fmt.Errorf("invalid addition %q: latin and devanagari characters are required", s)
	}

	kind := mapping.Consonant
	if len(parts) == 4 {
		if kind, err = mapping.ParseKind(parts[3]); err != nil {
			return mapping.Addition{}, err
		}
	}

	return mapping.Addition{
		Entry: mapping.Entry{Number: n, Latin: parts[1], Devanagari: parts[2]},
		Kind:  kind,
	}, nil
}
