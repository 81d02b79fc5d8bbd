package usecase

import (
	"context"
	"regexp"
	"strings"

	"github.com/productscout/backend/internal/domain"
	"github.com/rs/zerolog"
)

// fieldStrategy tries to read one field from one page text
type fieldStrategy func(text string) (string, bool)

// Package-level compiled regex patterns for energy class extraction.
// The class letter is matched case-sensitively.
var (
	energyDirectPattern = regexp.MustCompile(
		`(?i:energy\s*efficiency\s*class|energieeffizienzklasse)\s*[:\-]?\s*([A-G](?:\s*\+){0,3})(?:[^\p{L}\p{N}+]|$)`)
	energyValuePattern  = regexp.MustCompile(`\b([A-G]\+{0,3})(?:[^\p{L}\p{N}]|$)`)
	energyLetterPattern = regexp.MustCompile(`\b([A-G])\b`)
	energyClassPattern  = regexp.MustCompile(`^[A-G]\+{0,3}$`)
)

var energyLabels = []string{"Energy efficiency class", "Energieeffizienzklasse"}

// ExtractionConfig holds the page heuristics and the OCR switch
type ExtractionConfig struct {
	// EnergyPage and SupplierPage are the 1-based pages tried first
	EnergyPage   int
	SupplierPage int
	OCREnabled   bool
	// OCRPageCap bounds the pages recognized for short documents
	OCRPageCap int
}

// DefaultExtractionConfig returns the page positions of the common datasheet layout
func DefaultExtractionConfig() ExtractionConfig {
	return ExtractionConfig{
		EnergyPage:   6,
		SupplierPage: 25,
		OCREnabled:   true,
		OCRPageCap:   5,
	}
}

// FieldExtractor reads the energy class and the supplier address from page texts
type FieldExtractor struct {
	config        ExtractionConfig
	energyChain   []fieldStrategy
	supplierChain []fieldStrategy
	logger        zerolog.Logger
}

// NewFieldExtractor creates an extractor. Zero page settings take the defaults.
func NewFieldExtractor(config ExtractionConfig, logger zerolog.Logger) *FieldExtractor {
	def := DefaultExtractionConfig()
	if config.EnergyPage <= 0 {
		config.EnergyPage = def.EnergyPage
	}
	if config.SupplierPage <= 0 {
		config.SupplierPage = def.SupplierPage
	}
	if config.OCRPageCap <= 0 {
		config.OCRPageCap = def.OCRPageCap
	}

	return &FieldExtractor{
		config:        config,
		energyChain:   []fieldStrategy{energyDirect, energyLabeled, energyNearLabel},
		supplierChain: supplierStrategies(),
		logger:        logger.With().Str("component", "field_extractor").Logger(),
	}
}

// Extract resolves both fields for one document. The text source is read first;
// OCR is requested only for fields still unresolved. Collaborator failures count
// as empty evidence. brand may be BrandUnknown to skip validation.
func (e *FieldExtractor) Extract(
	ctx context.Context,
	brand domain.Brand,
	text domain.TextSource,
	ocr domain.OCRSource,
) domain.FieldSet {
	var pages []string
	if text != nil {
		p, err := text.Pages(ctx)
		if err != nil {
			e.logger.Warn().Err(err).Msg("text source unavailable")
		}
		pages = p
	}

	if brand.Known() && !mentionsBrand(pages, brand) {
		e.logger.Warn().
			Err(domain.ErrBrandMismatch).
			Str("expected_brand", brand.String()).
			Int("pages", len(pages)).
			Msg("document brand mismatch")
		return domain.FieldSet{
			EnergyClass:  domain.NotFound,
			SupplierText: domain.NotFound,
			Status:       domain.ExtractionBrandMismatch,
		}
	}

	energy := ""
	if pg, ok := pageAt(pages, e.config.EnergyPage); ok {
		energy = e.EnergyClass([]string{pg})
	}
	if energy == "" {
		energy = e.EnergyClass(pages)
	}

	supplier := ""
	if pg, ok := pageAt(pages, e.config.SupplierPage); ok {
		supplier = e.Supplier([]string{pg})
	}
	if supplier == "" {
		supplier = e.Supplier(pages)
	}

	usedOCR := false
	if e.config.OCREnabled && ocr != nil && (energy == "" || supplier == "") {
		numbers := OCRPageNumbers(len(pages), e.config.EnergyPage, e.config.SupplierPage, e.config.OCRPageCap)
		ocrPages, err := ocr.OCRPages(ctx, numbers)
		if err != nil {
			e.logger.Warn().Err(err).Ints("pages", numbers).Msg("ocr source unavailable")
		}
		for _, p := range ocrPages {
			if strings.TrimSpace(p) != "" {
				usedOCR = true
				break
			}
		}
		if energy == "" {
			energy = e.EnergyClass(ocrPages)
		}
		if supplier == "" {
			supplier = e.Supplier(ocrPages)
		}
	}

	fs := domain.FieldSet{
		EnergyClass:  domain.OrNotFound(energy),
		SupplierText: domain.OrNotFound(supplier),
		Status:       fieldStatus(energy, supplier),
		UsedOCR:      usedOCR,
	}

	e.logger.Debug().
		Str("energy_class", fs.EnergyClass).
		Str("supplier", fs.SupplierText).
		Str("status", string(fs.Status)).
		Bool("ocr", fs.UsedOCR).
		Msg("extracted fields")

	return fs
}

// EnergyClass runs the energy chain over pages in order; "" when unresolved
func (e *FieldExtractor) EnergyClass(pages []string) string {
	return runChain(pages, e.energyChain)
}

// Supplier runs the supplier chain over pages in order; "" when unresolved
func (e *FieldExtractor) Supplier(pages []string) string {
	return runChain(pages, e.supplierChain)
}

// runChain returns the first strategy success, page by page
func runChain(pages []string, chain []fieldStrategy) string {
	for _, text := range pages {
		if strings.TrimSpace(text) == "" {
			continue
		}
		for _, try := range chain {
			if v, ok := try(text); ok {
				return v
			}
		}
	}
	return ""
}

// OCRPageNumbers picks the 1-based pages to recognize: the energy and supplier
// pages when the document is long enough, otherwise its first pages up to limit.
// An unknown page count yields page 1.
func OCRPageNumbers(pageCount, energyPage, supplierPage, limit int) []int {
	switch {
	case pageCount >= supplierPage:
		return []int{energyPage, supplierPage}
	case pageCount >= energyPage:
		return []int{energyPage}
	case pageCount > 0:
		n := pageCount
		if limit > 0 && n > limit {
			n = limit
		}
		pages := make([]int, n)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages
	default:
		return []int{1}
	}
}

// mentionsBrand reports whether the document names the brand or one of its
// product lines. Documents without any text pass.
func mentionsBrand(pages []string, brand domain.Brand) bool {
	full := strings.ToLower(strings.Join(pages, " "))
	if strings.TrimSpace(full) == "" {
		return true
	}
	if strings.Contains(full, brand.String()) {
		return true
	}
	for _, line := range brand.ProductLines() {
		if strings.Contains(full, line) {
			return true
		}
	}
	return false
}

func pageAt(pages []string, number int) (string, bool) {
	if number < 1 || number > len(pages) {
		return "", false
	}
	return pages[number-1], true
}

func fieldStatus(energy, supplier string) domain.ExtractionStatus {
	switch {
	case energy != "" && supplier != "":
		return domain.ExtractionComplete
	case energy != "" || supplier != "":
		return domain.ExtractionPartial
	default:
		return domain.ExtractionNotFound
	}
}

// IsEnergyClass reports whether v is a well-formed class such as "B" or "A+++"
func IsEnergyClass(v string) bool {
	return energyClassPattern.MatchString(v)
}

func energyDirect(text string) (string, bool) {
	m := energyDirectPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	v := strings.Join(strings.Fields(m[1]), "")
	return v, IsEnergyClass(v)
}

func energyLabeled(text string) (string, bool) {
	return labeledValue(text, energyLabels, energyValuePattern)
}

// energyNearLabel looks for a bare class letter on a line mentioning energy
// efficiency or on the line right after it
func energyNearLabel(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		ll := strings.ToLower(line)
		if !strings.Contains(ll, "energieeffizienz") && !strings.Contains(ll, "energy efficiency") {
			continue
		}
		s := line
		if i+1 < len(lines) {
			s += " " + lines[i+1]
		}
		if m := energyLetterPattern.FindStringSubmatch(s); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// labeledValue finds the first line containing a label (case-insensitive) and
// reads "Label: value" from it, or else the whole next line. With a value
// pattern the first capture of that pattern is returned instead; a label whose
// value does not fit moves the search on to the next label.
func labeledValue(text string, labels []string, value *regexp.Regexp) (string, bool) {
	lines := nonEmptyLines(text)
	for _, label := range labels {
		ll := strings.ToLower(label)
		pat := labelPattern(label)
		for i, line := range lines {
			if !strings.Contains(strings.ToLower(line), ll) {
				continue
			}
			candidate := ""
			if m := pat.FindStringSubmatch(line); m != nil && strings.TrimSpace(m[1]) != "" {
				candidate = strings.TrimSpace(m[1])
			} else if i+1 < len(lines) {
				candidate = lines[i+1]
			} else {
				continue
			}

			if value == nil {
				return candidate, true
			}
			if vm := value.FindStringSubmatch(candidate); vm != nil {
				return vm[1], true
			}
			break
		}
	}
	return "", false
}

// labelPattern compiles "Label [:-] value" for a label, case-insensitive
func labelPattern(label string) *regexp.Regexp {
	if re, ok := labelPatterns[label]; ok {
		return re
	}
	return compileLabelPattern(label)
}

func compileLabelPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `\s*[:\-]?\s*(.+)`)
}

// labelPatterns holds the compiled patterns of every built-in label
var labelPatterns = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp)
	for _, set := range [][]string{energyLabels, supplierLabelsAfter, supplierLabelsBefore} {
		for _, l := range set {
			m[l] = compileLabelPattern(l)
		}
	}
	return m
}()

// StaticPages is a TextSource over already extracted page texts
type StaticPages []string

func (p StaticPages) Pages(ctx context.Context) ([]string, error) {
	return p, nil
}
