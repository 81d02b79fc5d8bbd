package usecase

import "github.com/rs/zerolog"

// EngineConfig bundles the immutable vocabularies and settings of the core
type EngineConfig struct {
	Vocabulary Vocabulary
	Weights    ScoreWeights
	Match      MatchConfig
	Extraction ExtractionConfig
	Popup      PopupVocabulary
}

// DefaultEngineConfig returns the production vocabularies, weights and thresholds
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Vocabulary: DefaultVocabulary(),
		Weights:    DefaultScoreWeights(),
		Match:      DefaultMatchConfig(),
		Extraction: DefaultExtractionConfig(),
		Popup:      DefaultPopupVocabulary(),
	}
}

// Engine wires the parser, scorer, matcher and extractors over one configuration
type Engine struct {
	Parser    *QueryParser
	Scorer    *Scorer
	Matcher   *Matcher
	Extractor *FieldExtractor
	Popup     *PopupParser
}

// NewEngine builds every core component from config
func NewEngine(config EngineConfig, logger zerolog.Logger) *Engine {
	scorer := NewScorer(config.Vocabulary, config.Weights, logger)
	return &Engine{
		Parser:    NewQueryParser(config.Vocabulary, logger),
		Scorer:    scorer,
		Matcher:   NewMatcher(scorer, config.Match, logger),
		Extractor: NewFieldExtractor(config.Extraction, logger),
		Popup:     NewPopupParser(config.Popup, logger),
	}
}
