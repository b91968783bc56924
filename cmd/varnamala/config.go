package main

import (
	"fmt"

	"github.com/jsvensson/varnamala/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Long: `Settings are read from, in order of precedence: flags, VARNAMALA_*
environment variables, the config file, built-in defaults.

Keys: ` + fmt.Sprint(config.Keys),
	// init and set must work even when the existing file is invalid
	PersistentPreRunE: func(*cobra.Command, []string) error {
		configureLogging(flagVerbose)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd, args); err != nil {
			return err
		}
		out, err := cfg.YAML()
		if err != nil {
			return err
		}
		if cfg.File != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", cfg.File)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		if err := config.Init(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a setting in the config file",
	Long: `Set stores one setting in the config file, creating it if needed. Use it to
remember the input script and input type between runs:

  varnamala config set script devanagari
  varnamala config set input_type sentence`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		if err := config.Set(path, args[0], args[1]); err != nil {
			return err
		}
		log.Infof("set %s in %s", args[0], path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configInitCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func configPath() (string, error) {
	if flagConfig != "" {
		return flagConfig, nil
	}
	return config.DefaultPath()
}
