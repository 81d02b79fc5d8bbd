package usecase

// Vocabulary holds the word lists the parser and scorer work with.
// DefaultVocabulary returns a fresh copy; a Vocabulary is not mutated after construction.
type Vocabulary struct {
	// Variants in detection order
	Variants []string

	// NoiseWords are dropped from search tokens (storage sizes, colors, sim types)
	NoiseWords map[string]bool

	// AccessoryNorm is matched as substrings of the normalized title and body,
	// so compounds such as "handycover" count
	AccessoryNorm []string

	// AccessoryRaw is matched as substrings against the raw lowercase text,
	// catching compounds that normalization would not split
	AccessoryRaw []string

	// WrongCategory rejects listings of other device kinds for phone brands
	WrongCategory []string

	// SponsoredMarkers flag ad placements
	SponsoredMarkers []string

	// CategoryMarkers earn a bonus when present
	CategoryMarkers []string
}

// ScoreWeights are the additive scoring constants.
// The values are hand tuned; keep them unless a recalibration says otherwise.
type ScoreWeights struct {
	TokenMatch        int
	BrandPresent      int
	LinePresent       int
	ModelNear         int
	ModelAnywhere     int
	ModelMissing      int
	SubFamilyMatch    int
	SubFamilyMissing  int
	VariantExpected   int
	VariantMissing    int
	VariantUnexpected int
	CategoryMarker    int

	// ModelWindow is the number of tokens after the product line searched for the model
	ModelWindow int
	// SubFamilyWindow is the number of tokens after the sub-family searched for the model
	SubFamilyWindow int
}

// DefaultScoreWeights returns the production scoring constants
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		TokenMatch:        2,
		BrandPresent:      3,
		LinePresent:       3,
		ModelNear:         15,
		ModelAnywhere:     5,
		ModelMissing:      -10,
		SubFamilyMatch:    10,
		SubFamilyMissing:  -15,
		VariantExpected:   8,
		VariantMissing:    -10,
		VariantUnexpected: -8,
		CategoryMarker:    5,
		ModelWindow:       4,
		SubFamilyWindow:   3,
	}
}

// DefaultVocabulary returns the German/English vocabulary for phone listings
func DefaultVocabulary() Vocabulary {
	noise := []string{
		"gb", "tb", "speicher", "farbe", "dual", "sim", "dualsim",
		"schwarz", "weiss", "silber", "rot", "blau", "gruen",
		"white", "black", "blue", "green", "red", "silver", "gold",
		"pink", "pinkgold", "titanium", "cosmic", "orange", "navy",
		"mint", "iris", "moonstone",
		"128", "256", "512", "1000", "64", "32",
	}
	noiseWords := make(map[string]bool, len(noise))
	for _, w := range noise {
		noiseWords[w] = true
	}

	return Vocabulary{
		Variants:   []string{"pro", "max", "ultra", "plus", "lite", "fe", "mini", "xl"},
		NoiseWords: noiseWords,
		AccessoryNorm: []string{
			"huelle", "case", "cover", "bumper", "handyhuelle",
			"schale", "schutzhuelle", "backcover", "flipcase", "bookcase",
			"klapphuelle", "klappcover", "etui", "silikonhuelle",
			"displayschutz", "folie", "schutzfolie", "schutzglas", "panzerglas",
			"panzerfolie", "displayfolie",
			"kabel", "ladekabel", "netzteil",
			"earphone", "earphones", "headphone", "headphones",
			"earbud", "earbuds", "headset",
			"halter", "halterung", "autohalterung",
			"staender", "stativ", "handyhalterung",
			"magnethalterung", "saugnapf",
			"tasche", "pouch",
			"ersatzakku", "powerbank",
			"wristband", "stylus", "eingabestift",
			"reinigung", "reinigungsset", "cleaning", "selfiestick",
			"ringhalter", "fingerhalter", "popgrip", "popsocket",
			"simkarte", "speicherkarte", "sdkarte",
		},
		AccessoryRaw: []string{
			"hülle", "huelle", "schutzhülle", "schutzhuelle", "handyhülle",
			"handyhuelle", "schutzfolie", "panzerglas", "panzerfolie",
			"screen protector", "tempered glass",
			"halter", "halterung", "kfz-halter", "kfz-halterung",
			"kfz halter", "kfz halterung", "lüfterhalter", "luefterhalter",
			"autohalterung", "handyhalterung",
			"ladegerät", "ladegeraet", "ladekabel", "netzteil",
			"kopfhörer", "kopfhoerer", "headset", "earbuds",
			"tasche", "pouch", "gürteltasche",
			"powerbank", "ersatzakku",
			"selfiestick", "selfie-stick",
			"popgrip", "popsocket",
			"silikon case", "silikon hülle", "tpu case", "tpu hülle",
			"hardcase", "hard case", "kfz", "charger", "adapter", "armband",
			"phone case", "protective case", "slim case",
		},
		WrongCategory: []string{
			"macbook", "notebook", "laptop", "imac", "mac mini", "mac studio",
			"mac pro", "airpods", "apple watch", "watch ultra", "homepod",
			"apple tv", "airtag", "magic keyboard", "magic mouse", "magic trackpad",
			"galaxy tab", "galaxy watch", "galaxy buds",
			"pixel watch", "pixel buds", "pixel tablet",
			"smart tv", "fernseher", "monitor", "drucker", "printer",
		},
		SponsoredMarkers: []string{"gesponsert", "anzeige", "sponsored"},
		CategoryMarkers:  []string{"smartphone", "handy", "mobiltelefon"},
	}
}
