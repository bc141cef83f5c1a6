package main

import (
	"fmt"
	"os"

	"github.com/jward/prism"
	"github.com/jward/prism/internal/config"
	"github.com/samber/do"
	"github.com/spf13/cobra"
)

var (
	flagConfig   string
	flagFormat   string
	flagEndpoint string
	flagLocale   string
	flagDB       string
)

// errorHandled is set by outputError so main() doesn't double-print.
var errorHandled bool

// injector is built by the root PersistentPreRunE from the loaded config.
var injector *do.Injector

func main() {
	err := rootCmd.Execute()
	if injector != nil {
		if serr := injector.Shutdown(); serr != nil {
			fmt.Fprintf(os.Stderr, "warning: shutdown: %s\n", serr)
		}
	}
	if err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "prism",
	Short:         "Submit source code to an analyzer and explore the result",
	Long:          "Prism sends source text to an analysis service and presents its tokens, syntax tree, diagnostics and symbol table.",
	Version:       prism.Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		injector = newInjector(cfg)
		return nil
	},
	// No Run: prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "", "output format: json|text (default from config: text)")
	rootCmd.PersistentFlags().StringVar(&flagEndpoint, "endpoint", "", "analyzer URL (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLocale, "locale", "", "label locale: en|es")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "history database path (default: .prism/history.db)")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(analyzerCmd)
}

// loadConfig reads the config file and applies flag overrides. The final
// format is written back to flagFormat for outputResult and outputError.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	cfg.Apply(config.Overrides{
		Endpoint:  flagEndpoint,
		Locale:    flagLocale,
		Format:    flagFormat,
		HistoryDB: flagDB,
	})
	if err := validateFormat(cfg.Format); err != nil {
		return nil, err
	}
	flagFormat = cfg.Format
	return cfg, nil
}
