// Package app assembles the report pipeline from configuration. Both the HTTP
// server and the batch CLI start from here.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/productscout/backend/config"
	"github.com/productscout/backend/internal/domain"
	"github.com/productscout/backend/internal/infrastructure/cache"
	"github.com/productscout/backend/internal/infrastructure/datasheet"
	"github.com/productscout/backend/internal/infrastructure/shop"
	"github.com/productscout/backend/internal/observability"
	"github.com/productscout/backend/internal/usecase"
	"github.com/rs/zerolog"
)

// App holds the wired core and its infrastructure
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Engine  *usecase.Engine
	Cache   domain.CacheRepository
	Shop    *shop.Client
	Reader  *datasheet.Reader
	Reports *usecase.ReportService

	closers []io.Closer
}

// NewLogger builds the process logger from the log section
func NewLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	return observability.NewLogger(observability.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      out,
		ServiceName: "productscout",
	})
}

// EngineConfig maps the matching and extraction sections onto the core defaults
func EngineConfig(cfg *config.Config) usecase.EngineConfig {
	ec := usecase.DefaultEngineConfig()
	ec.Match = usecase.MatchConfig{
		StrictThreshold:    cfg.Matching.StrictThreshold,
		RelaxedThreshold:   cfg.Matching.RelaxedThreshold,
		BrandOnlyThreshold: cfg.Matching.BrandOnlyThreshold,
		MaxRounds:          cfg.Matching.MaxRounds,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	}
	ec.Extraction = usecase.ExtractionConfig{
		EnergyPage:   cfg.Extraction.EnergyPage,
		SupplierPage: cfg.Extraction.SupplierPage,
		OCREnabled:   cfg.Extraction.OCREnabled,
		OCRPageCap:   cfg.Extraction.OCRPageCap,
	}
	return ec
}

// ReaderConfig maps the extraction section onto the datasheet reader
func ReaderConfig(cfg *config.Config) datasheet.ReaderConfig {
	return datasheet.ReaderConfig{
		OCREnabled:   cfg.Extraction.OCREnabled,
		DPI:          cfg.Extraction.DPI,
		Languages:    cfg.Extraction.Languages,
		TesseractCmd: cfg.Extraction.TesseractCmd,
		OCRTimeout:   cfg.Extraction.OCRTimeout,
	}
}

// NewCache returns the configured cache backend
func NewCache(ctx context.Context, cfg *config.Config) (domain.CacheRepository, io.Closer, error) {
	switch cfg.Cache.Type {
	case "redis":
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: cfg.Cache.RedisURL})
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return rc, rc, nil
	default:
		mc := cache.NewMemoryCache(cfg.Cache.MaxEntries)
		return mc, mc, nil
	}
}

// New wires every component named in cfg
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	c, closer, err := NewCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Cache = c
	a.closers = append(a.closers, closer)

	client, err := shop.NewClient(shop.ClientConfig{
		BaseURL:           cfg.Shop.BaseURL,
		SearchPath:        cfg.Shop.SearchPath,
		Timeout:           cfg.Shop.Timeout,
		RequestsPerSecond: cfg.Shop.RequestsPerSecond,
		Burst:             cfg.Shop.Burst,
		MaxRetries:        cfg.Shop.MaxRetries,
		MaxPages:          cfg.Shop.MaxPages,
		UserAgent:         cfg.Shop.UserAgent,
	}, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Shop = client

	a.Reader = datasheet.NewReader(ReaderConfig(cfg), logger)
	a.Engine = usecase.NewEngine(EngineConfig(cfg), logger)
	a.Reports = usecase.NewReportService(
		a.Shop,
		a.Reader,
		a.Cache,
		a.Engine,
		usecase.ReportServiceConfig{CacheTTL: cfg.Cache.TTL},
		logger,
	)

	logger.Info().
		Str("shop", cfg.Shop.BaseURL).
		Str("cache", cfg.Cache.Type).
		Bool("ocr", cfg.Extraction.OCREnabled).
		Int("strict", cfg.Matching.StrictThreshold).
		Int("relaxed", cfg.Matching.RelaxedThreshold).
		Int("brand_only", cfg.Matching.BrandOnlyThreshold).
		Msg("pipeline ready")

	return a, nil
}

// Close releases the cache backend
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
