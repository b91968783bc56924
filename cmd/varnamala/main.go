package main

import (
	"fmt"
	"os"

	"github.com/jsvensson/varnamala/internal/client"
	"github.com/jsvensson/varnamala/internal/config"
	"github.com/jsvensson/varnamala/internal/render"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var (
	flagConfig  string
	flagBaseURL string
	flagVerbose bool
	version     = "dev" // Injected at build time via ldflags
)

var log = commonlog.GetLogger("varnamala.cli")

// settings is resolved once per invocation, before any command runs.
var (
	v   = viper.New()
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "varnamala",
	Short: "Read Sanskrit words as numbers and colours",
	Long: `varnamala sends words to the Aryabhata service, which reads each letter
as a digit, and shows the resulting numbers alongside the colours of the
letters and their blends.`,
	Version:           version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Args:  cobra.NoArgs,
	// version needs no configuration
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "config file (default: $HOME/.varnamala/config.yaml)")
	pf.StringVar(&flagBaseURL, "base-url", client.DefaultBaseURL, "Aryabhata service base URL")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging")
	_ = v.BindPFlag(config.KeyBaseURL, pf.Lookup("base-url"))
	_ = v.BindPFlag(config.KeyVerbose, pf.Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves settings and configures logging.
func loadConfig(*cobra.Command, []string) error {
	c, err := config.Load(v, flagConfig)
	if err != nil {
		return err
	}
	cfg = c
	configureLogging(cfg.Verbose)
	if cfg.File != "" {
		log.Debugf("using config file %s", cfg.File)
	}
	return nil
}

func configureLogging(verbose bool) {
	verbosity := 0
	if verbose {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)
}

func newClient() *client.Client {
	return client.New(cfg.ClientOptions())
}

func printer(cmd *cobra.Command) *render.Printer {
	return render.New(cmd.OutOrStdout())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
