package datasheet

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog"
)

// Recognizer turns a rendered page image into text
type Recognizer interface {
	Recognize(ctx context.Context, png []byte, dpi int) (string, error)
}

// Tesseract runs the tesseract command line tool, feeding the page image on stdin
type Tesseract struct {
	Command   string
	Languages string
	Timeout   time.Duration
}

// Available reports whether the tesseract binary can be found
func (t Tesseract) Available() bool {
	_, err := exec.LookPath(t.command())
	return err == nil
}

func (t Tesseract) command() string {
	if t.Command == "" {
		return "tesseract"
	}
	return t.Command
}

// Recognize implements Recognizer
func (t Tesseract) Recognize(ctx context.Context, png []byte, dpi int) (string, error) {
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	langs := t.Languages
	if langs == "" {
		langs = "deu+eng"
	}

	cmd := exec.CommandContext(ctx, t.command(), "stdin", "stdout",
		"-l", langs, "--dpi", strconv.Itoa(dpi))
	cmd.Stdin = bytes.NewReader(png)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// OCRSource rasterizes PDF pages and recognizes their text
type OCRSource struct {
	data       []byte
	dpi        int
	recognizer Recognizer
	logger     zerolog.Logger
}

// NewOCRSource creates an OCR source over PDF bytes
func NewOCRSource(data []byte, dpi int, recognizer Recognizer, logger zerolog.Logger) *OCRSource {
	if dpi <= 0 {
		dpi = 300
	}
	return &OCRSource{
		data:       data,
		dpi:        dpi,
		recognizer: recognizer,
		logger:     logger.With().Str("component", "ocr").Logger(),
	}
}

// OCRPages returns the recognized text for each requested 1-based page number,
// in request order. Pages outside the document or failing recognition are empty.
func (s *OCRSource) OCRPages(ctx context.Context, pageNumbers []int) ([]string, error) {
	doc, err := fitz.NewFromMemory(s.data)
	if err != nil {
		return nil, fmt.Errorf("opening document for ocr: %w", err)
	}
	defer doc.Close()

	count := doc.NumPage()
	out := make([]string, len(pageNumbers))
	for i, n := range pageNumbers {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if n < 1 || n > count {
			continue
		}

		start := time.Now()
		png, err := doc.ImagePNG(n-1, float64(s.dpi))
		if err != nil {
			s.logger.Warn().Err(err).Int("page", n).Msg("failed to render page")
			continue
		}
		text, err := s.recognizer.Recognize(ctx, png, s.dpi)
		if err != nil {
			s.logger.Warn().Err(err).Int("page", n).Msg("ocr failed")
			continue
		}
		out[i] = text
		s.logger.Debug().Int("page", n).Int("chars", len(text)).Dur("took", time.Since(start)).Msg("page recognized")
	}
	return out, nil
}
