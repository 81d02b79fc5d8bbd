// Package report writes per-query report rows to files and databases.
package report

import (
	"strconv"

	"github.com/productscout/backend/internal/domain"
)

// Columns is the header row shared by every sink
var Columns = []string{
	"query",
	"matched",
	"product_url",
	"match_score",
	"match_tier",
	"pdf_link",
	"energy_efficiency_class",
	"energylevel_link",
	"supplier_information",
}

// Row renders a report in Columns order
func Row(r *domain.ProductReport) []string {
	tier := string(r.MatchTier)
	if tier == "" {
		tier = domain.NotFound
	}
	return []string{
		r.Query,
		strconv.FormatBool(r.Matched),
		r.ProductURL,
		strconv.Itoa(r.MatchScore),
		tier,
		r.DatasheetURL,
		r.EnergyClass,
		r.EnergyLabelImage,
		r.SupplierText,
	}
}
