package datasheet

import (
	"time"

	"github.com/productscout/backend/internal/domain"
	"github.com/rs/zerolog"
)

// ReaderConfig holds datasheet reading settings
type ReaderConfig struct {
	OCREnabled   bool
	DPI          int
	Languages    string
	TesseractCmd string
	OCRTimeout   time.Duration
}

// Reader opens datasheet bytes as a text source and an optional OCR source.
// It implements domain.DatasheetReader.
type Reader struct {
	config     ReaderConfig
	recognizer Recognizer
	logger     zerolog.Logger
}

// NewReader creates a datasheet reader. OCR is disabled when it is switched
// off in config or the tesseract binary cannot be found.
func NewReader(config ReaderConfig, logger zerolog.Logger) *Reader {
	var recognizer Recognizer
	if config.OCREnabled {
		t := Tesseract{Command: config.TesseractCmd, Languages: config.Languages, Timeout: config.OCRTimeout}
		if t.Available() {
			recognizer = t
		} else {
			logger.Warn().Str("component", "datasheet_reader").Str("command", t.command()).Msg("tesseract not found, ocr disabled")
		}
	}
	return NewReaderWithRecognizer(config, recognizer, logger)
}

// NewReaderWithRecognizer creates a reader with an explicit recognizer; nil disables OCR
func NewReaderWithRecognizer(config ReaderConfig, recognizer Recognizer, logger zerolog.Logger) *Reader {
	return &Reader{
		config:     config,
		recognizer: recognizer,
		logger:     logger,
	}
}

// Open implements domain.DatasheetReader
func (r *Reader) Open(data []byte) (domain.TextSource, domain.OCRSource, error) {
	if !IsPDF(data) {
		return nil, nil, domain.ErrNotPDF
	}

	text := NewPDFTextSource(data, r.logger)
	if r.recognizer == nil {
		return text, nil, nil
	}
	return text, NewOCRSource(data, r.config.DPI, r.recognizer, r.logger), nil
}
