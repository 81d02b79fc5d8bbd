package domain

// NotFound marks a field that was checked and is absent
const NotFound = "Not found"

// QueryInfo is the parsed, normalized description of a product query.
// ProductLine is only set when Brand is known and the line belongs to it.
type QueryInfo struct {
	Raw           string   `json:"raw"`
	Norm          string   `json:"norm"`
	Brand         Brand    `json:"-"`
	BrandName     string   `json:"brand,omitempty"`
	ProductLine   string   `json:"productLine,omitempty"`
	SubFamily     string   `json:"subFamily,omitempty"`
	ModelNumber   string   `json:"modelNumber,omitempty"`
	VariantTokens []string `json:"variantTokens"`
	SearchTokens  []string `json:"searchTokens"`
}

// Listing is one entry of a result list as exposed by a Listing Provider.
// Ref is opaque to the core and handed back to the caller on a match.
type Listing interface {
	Text() string
	Title() string
	Ref() string
}

// ListingCard is the plain Listing implementation
type ListingCard struct {
	DisplayText string `json:"text"`
	TitleText   string `json:"title"`
	LinkRef     string `json:"ref"`
}

func (c ListingCard) Text() string  { return c.DisplayText }
func (c ListingCard) Title() string { return c.TitleText }
func (c ListingCard) Ref() string   { return c.LinkRef }

// Candidate is a scored listing inside one matching pass
type Candidate struct {
	Score    int
	Position int
	Listing  Listing
	ModelOK  bool
}

// Tier names the threshold pass that produced a match
type Tier string

const (
	TierStrict    Tier = "strict"
	TierRelaxed   Tier = "relaxed"
	TierBrandOnly Tier = "brand_only"
)

// MatchResult is the winning candidate of the multi-pass matcher
type MatchResult struct {
	Ref      string `json:"ref"`
	Title    string `json:"title,omitempty"`
	Score    int    `json:"score"`
	Position int    `json:"position"`
	Tier     Tier   `json:"tier"`
	Rounds   int    `json:"rounds"`
	Pooled   int    `json:"pooled"`
}

// ExtractionStatus summarizes how a document extraction ended
type ExtractionStatus string

const (
	ExtractionComplete      ExtractionStatus = "complete"
	ExtractionPartial       ExtractionStatus = "partial"
	ExtractionNotFound      ExtractionStatus = "not_found"
	ExtractionBrandMismatch ExtractionStatus = "brand_mismatch"
)

// FieldSet holds the two regulated fields. Unresolved values are NotFound.
type FieldSet struct {
	EnergyClass  string           `json:"energyClass"`
	SupplierText string           `json:"supplierText"`
	Status       ExtractionStatus `json:"status"`
	UsedOCR      bool             `json:"usedOcr"`
}

// ProductPage is what the storefront exposes about a matched product
type ProductPage struct {
	URL              string `json:"url"`
	DatasheetURL     string `json:"datasheetUrl,omitempty"`
	EnergyLabelAlt   string `json:"energyLabelAlt,omitempty"`
	EnergyLabelSrc   string `json:"energyLabelSrc,omitempty"`
	EnergyLabelText  string `json:"energyLabelText,omitempty"`
	EnergyLabelImage string `json:"energyLabelImage,omitempty"`
	SafetyPanelText  string `json:"safetyPanelText,omitempty"`
}

// ProductReport is the per-query result row
type ProductReport struct {
	Query            string `json:"query"`
	Matched          bool   `json:"matched"`
	ProductURL       string `json:"productUrl"`
	MatchScore       int    `json:"matchScore"`
	MatchTier        Tier   `json:"matchTier,omitempty"`
	DatasheetURL     string `json:"datasheetUrl"`
	EnergyClass      string `json:"energyClass"`
	EnergyLabelImage string `json:"energyLabelImage"`
	SupplierText     string `json:"supplierText"`
	Source           string `json:"source"`
}

// UnmatchedReport is the row recorded for a query without a match
func UnmatchedReport(query string) *ProductReport {
	return &ProductReport{
		Query:            query,
		ProductURL:       NotFound,
		DatasheetURL:     NotFound,
		EnergyClass:      NotFound,
		EnergyLabelImage: NotFound,
		SupplierText:     NotFound,
		Source:           "Shop",
	}
}

// OrNotFound returns v, or NotFound when v is empty
func OrNotFound(v string) string {
	if v == "" {
		return NotFound
	}
	return v
}
