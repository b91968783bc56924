package main

import (
	"fmt"
	"os"

	"github.com/jsvensson/varnamala/internal/format"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

var flagCheck bool

// absent marks a missing colour argument to blend.
const absent = "-"

var blendCmd = &cobra.Command{
	Use:   "blend <consonant> <vowel> <consonant-weight> <vowel-weight>",
	Short: "Mix two colours by weight",
	Long: `Blend mixes a consonant colour and a vowel colour by weight, the way a
consonant-vowel union is coloured. Pass "-" for a missing colour; the other
colour is then used unchanged.`,
	Args: cobra.ExactArgs(4),
	RunE: runBlend,
}

var averageCmd = &cobra.Command{
	Use:   "average <hex...>",
	Short: "Average colours, counting each distinct colour once",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printer(cmd).Average(args)
	},
}

var numCmd = &cobra.Command{
	Use:   "num <value...>",
	Short: "Show numbers the way results are displayed",
	Long: `Num prints each value in display form: plain below a million, otherwise
as a power of ten, next to its digit-grouped form.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printer(cmd).Numbers(args)
	},
}

var fmtCmd = &cobra.Command{
	Use:   "fmt [files...]",
	Short: "Format .varna files",
	Long:  "Format one or more .varna files in-place. Prints the name of each file that was modified.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFmt,
}

func init() {
	fmtCmd.Flags().BoolVarP(&flagCheck, "check", "c", false, "check if files are formatted (do not write changes)")

	rootCmd.AddCommand(blendCmd, averageCmd, numCmd, fmtCmd)
}

func runBlend(cmd *cobra.Command, args []string) error {
	consonant, vowel := args[0], args[1]
	if consonant == absent {
		consonant = ""
	}
	if vowel == absent {
		vowel = ""
	}

	cw, err := cast.ToFloat64E(args[2])
	if err != nil {
		return fmt.Errorf("consonant weight: %w", err)
	}
	vw, err := cast.ToFloat64E(args[3])
	if err != nil {
		return fmt.Errorf("vowel weight: %w", err)
	}
	return printer(cmd).Blend(consonant, vowel, cw, vw)
}

func runFmt(cmd *cobra.Command, args []string) error {
	var failed, unformatted int

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Errorf("reading %s: %v", path, err)
			failed++
			continue
		}

		ok, formatted, err := format.Check(string(data))
		if err != nil {
			log.Errorf("formatting %s: %v", path, err)
			failed++
			continue
		}
		if ok {
			continue
		}

		fmt.Fprintln(cmd.OutOrStdout(), path)
		unformatted++

		if !flagCheck {
			if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
				log.Errorf("writing %s: %v", path, err)
				failed++
			}
		}
	}

	switch {
	case failed > 0:
		return fmt.Errorf("%d of %d files could not be formatted", failed, len(args))
	case flagCheck && unformatted > 0:
		return fmt.Errorf("%d files need formatting", unformatted)
	}
	return nil
}
