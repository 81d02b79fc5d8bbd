package commands

import (
	"strings"

	"github.com/productscout/backend/internal/usecase"
	"github.com/spf13/cobra"
)

func newParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse QUERY",
		Short: "Show how a query is understood (brand, product line, model, variants)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := usecase.NewQueryParser(usecase.DefaultVocabulary(), logger)
			return printJSON(cmd.OutOrStdout(), parser.Parse(strings.Join(args, " ")))
		},
	}
}
