package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/productscout/backend/internal/app"
	"github.com/productscout/backend/internal/domain"
	"github.com/productscout/backend/internal/infrastructure/datasheet"
	"github.com/productscout/backend/internal/usecase"
	"github.com/spf13/cobra"
)

func newExtractCommand() *cobra.Command {
	var (
		brandName string
		noOCR     bool
	)

	cmd := &cobra.Command{
		Use:   "extract DATASHEET.pdf",
		Short: "Read energy class and supplier from a local datasheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading datasheet: %w", err)
			}

			brand := domain.BrandUnknown
			if brandName != "" {
				brand = domain.ParseBrand(strings.ToLower(brandName))
				if !brand.Known() {
					return fmt.Errorf("%w: unknown brand %q", domain.ErrInvalidRequest, brandName)
				}
			}

			if noOCR {
				cfg.Extraction.OCREnabled = false
			}
			reader := datasheet.NewReader(app.ReaderConfig(cfg), logger)
			text, ocr, err := reader.Open(data)
			if err != nil {
				return err
			}

			extractor := usecase.NewFieldExtractor(app.EngineConfig(cfg).Extraction, logger)
			fs := extractor.Extract(cmd.Context(), brand, text, ocr)
			return printJSON(cmd.OutOrStdout(), fs)
		},
	}

	cmd.Flags().StringVar(&brandName, "brand", "", "expected brand; a datasheet not mentioning it is rejected")
	cmd.Flags().BoolVar(&noOCR, "no-ocr", false, "disable the OCR fallback")
	return cmd
}
