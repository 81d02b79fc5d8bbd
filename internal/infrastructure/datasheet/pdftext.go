package datasheet

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"
	"github.com/productscout/backend/internal/domain"
	"github.com/rs/zerolog"
)

var pdfMagic = []byte("%PDF-")

// IsPDF reports whether data starts with a PDF header, ignoring leading whitespace
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n\x00"), pdfMagic)
}

// PDFTextSource reads the embedded text layer of a PDF, one string per page
type PDFTextSource struct {
	data   []byte
	logger zerolog.Logger
}

// NewPDFTextSource creates a text source over PDF bytes
func NewPDFTextSource(data []byte, logger zerolog.Logger) *PDFTextSource {
	return &PDFTextSource{
		data:   data,
		logger: logger.With().Str("component", "pdf_text").Logger(),
	}
}

// Pages returns the text of every page. Pages without a text layer or whose
// text cannot be decoded are empty strings.
func (s *PDFTextSource) Pages(ctx context.Context) (pages []string, err error) {
	if !IsPDF(s.data) {
		return nil, domain.ErrNotPDF
	}

	// the parser panics on some malformed cross reference tables
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("%w: %v", domain.ErrNotPDF, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(s.data), int64(len(s.data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNotPDF, err)
	}

	count := reader.NumPage()
	pages = make([]string, count)
	for i := 1; i <= count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			s.logger.Warn().Int("page", i).Msg("page is null")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			s.logger.Warn().Err(err).Int("page", i).Msg("failed to extract page text")
			continue
		}
		pages[i-1] = text
	}

	s.logger.Debug().Int("pages", count).Msg("text layer read")
	return pages, nil
}
