package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/productscout/backend/internal/domain"
	"github.com/productscout/backend/internal/usecase"
	"github.com/spf13/cobra"
)

func newPopupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "popup [FILE]",
		Short: "Isolate the responsible party from a product safety panel text (stdin when FILE is omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening panel text: %w", err)
				}
				defer f.Close()
				in = f
			}

			text, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("reading panel text: %w", err)
			}

			parser := usecase.NewPopupParser(usecase.DefaultPopupVocabulary(), logger)
			fmt.Fprintln(cmd.OutOrStdout(), domain.OrNotFound(parser.Parse(string(text))))
			return nil
		},
	}
}
