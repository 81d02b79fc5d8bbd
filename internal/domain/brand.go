package domain

import "regexp"

// Category groups brands by the kind of product they are searched for
type Category int

const (
	CategoryUnknown Category = iota
	CategoryPhone
)

// Brand identifies one entry of the brand catalog
type Brand int

// Catalog order is detection priority: when a query mentions two brands the
// earlier one wins.
const (
	BrandUnknown Brand = iota
	BrandApple
	BrandSamsung
	BrandGoogle
	BrandOnePlus
	BrandXiaomi
	BrandHuawei
	BrandSony
	BrandMotorola
	BrandNothing
)

// BrandFamily is the static catalog data carried by a Brand
type BrandFamily struct {
	Name         string
	ProductLines []string
	ModelPattern *regexp.Regexp
	Category     Category
}

var brandCatalog = map[Brand]BrandFamily{
	BrandApple: {
		Name:         "apple",
		ProductLines: []string{"iphone", "ipad", "macbook", "mac"},
		ModelPattern: regexp.MustCompile(`(?i)(?:iphone|ipad)\s*(\d{1,2})`),
		Category:     CategoryPhone,
	},
	BrandSamsung: {
		Name:         "samsung",
		ProductLines: []string{"galaxy"},
		ModelPattern: regexp.MustCompile(`(?i)galaxy\s*(?:z\s*)?(?:flip|fold|s|a|m|note)\s*(\d{1,2})`),
		Category:     CategoryPhone,
	},
	BrandGoogle: {
		Name:         "google",
		ProductLines: []string{"pixel"},
		ModelPattern: regexp.MustCompile(`(?i)pixel\s*(\d{1,2})`),
		Category:     CategoryPhone,
	},
	BrandOnePlus: {
		Name:         "oneplus",
		ProductLines: []string{"oneplus"},
		ModelPattern: regexp.MustCompile(`(?i)oneplus\s*(\d{1,2})`),
		Category:     CategoryPhone,
	},
	BrandXiaomi: {
		Name:         "xiaomi",
		ProductLines: []string{"xiaomi", "redmi", "poco"},
		ModelPattern: regexp.MustCompile(`(?i)(?:xiaomi|redmi|poco)\s*(?:note\s*)?(\d{1,2})`),
		Category:     CategoryPhone,
	},
	BrandHuawei: {
		Name:         "huawei",
		ProductLines: []string{"huawei", "mate"},
		ModelPattern: regexp.MustCompile(`(?i)(?:huawei|mate|p)\s*(\d{1,2})`),
		Category:     CategoryPhone,
	},
	BrandSony: {
		Name:         "sony",
		ProductLines: []string{"xperia"},
		ModelPattern: regexp.MustCompile(`(?i)xperia\s*(\w+)`),
		Category:     CategoryPhone,
	},
	BrandMotorola: {
		Name:         "motorola",
		ProductLines: []string{"moto", "motorola"},
		ModelPattern: regexp.MustCompile(`(?i)moto(?:rola)?\s*(\w+)`),
		Category:     CategoryPhone,
	},
	BrandNothing: {
		Name:         "nothing",
		ProductLines: []string{"nothing"},
		ModelPattern: regexp.MustCompile(`(?i)nothing\s*phone\s*\(?(\d+)\)?`),
		Category:     CategoryPhone,
	},
}

// Brands returns the catalog in detection order
func Brands() []Brand {
	return []Brand{
		BrandApple, BrandSamsung, BrandGoogle, BrandOnePlus, BrandXiaomi,
		BrandHuawei, BrandSony, BrandMotorola, BrandNothing,
	}
}

// ParseBrand looks a brand up by catalog name. Unknown names map to BrandUnknown.
func ParseBrand(name string) Brand {
	for _, b := range Brands() {
		if brandCatalog[b].Name == name {
			return b
		}
	}
	return BrandUnknown
}

// Family returns the catalog entry for b. The zero BrandFamily is returned for BrandUnknown.
func (b Brand) Family() BrandFamily {
	return brandCatalog[b]
}

func (b Brand) String() string {
	return brandCatalog[b].Name
}

// ProductLines returns the brand's product line words in catalog order
func (b Brand) ProductLines() []string {
	return brandCatalog[b].ProductLines
}

// ModelPattern returns the brand's dedicated model number pattern, or nil
func (b Brand) ModelPattern() *regexp.Regexp {
	return brandCatalog[b].ModelPattern
}

// Category returns the product category the brand is searched in
func (b Brand) Category() Category {
	return brandCatalog[b].Category
}

// Known reports whether b is a catalog brand
func (b Brand) Known() bool {
	_, ok := brandCatalog[b]
	return ok
}
