// Package commands implements the scout batch CLI.
package commands

import (
	"encoding/json"
	"io"

	"github.com/productscout/backend/config"
	"github.com/productscout/backend/internal/app"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string

	cfg    *config.Config
	logger zerolog.Logger
)

// NewRootCommand builds the scout command tree
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "scout",
		Short: "ProductScout - energy label and supplier lookup for smartphone queries",
		Long: `scout resolves free-text smartphone queries against the storefront, picks the
matching listing and reads the energy efficiency class and the responsible
supplier from the product page and its datasheet.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.LoadFile(cfgFile)
			if err != nil {
				return err
			}
			if logLevel != "" {
				loaded.Log.Level = logLevel
			}
			cfg = loaded
			logger = app.NewLogger(cfg, cmd.ErrOrStderr())
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	root.AddCommand(
		newRunCommand(),
		newParseCommand(),
		newExtractCommand(),
		newPopupCommand(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
