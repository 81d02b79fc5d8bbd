package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Shop       ShopConfig       `mapstructure:"shop"`
	Matching   MatchingConfig   `mapstructure:"matching"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Log        LogConfig        `mapstructure:"log"`
	Report     ReportConfig     `mapstructure:"report"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// ShopConfig holds storefront client configuration
type ShopConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	SearchPath        string        `mapstructure:"search_path"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxRetries        int           `mapstructure:"max_retries"`
	MaxPages          int           `mapstructure:"max_pages"`
	UserAgent         string        `mapstructure:"user_agent"`
}

// MatchingConfig holds the matcher thresholds
type MatchingConfig struct {
	StrictThreshold    int  `mapstructure:"strict_threshold"`
	RelaxedThreshold   int  `mapstructure:"relaxed_threshold"`
	BrandOnlyThreshold int  `mapstructure:"brand_only_threshold"`
	MaxRounds          int  `mapstructure:"max_rounds"`
	EnableDebugLogging bool `mapstructure:"enable_debug_logging"`
}

// ExtractionConfig holds datasheet extraction configuration
type ExtractionConfig struct {
	OCREnabled   bool          `mapstructure:"ocr_enabled"`
	DPI          int           `mapstructure:"dpi"`
	Languages    string        `mapstructure:"languages"`
	TesseractCmd string        `mapstructure:"tesseract_cmd"`
	OCRTimeout   time.Duration `mapstructure:"ocr_timeout"`
	EnergyPage   int           `mapstructure:"energy_page"`
	SupplierPage int           `mapstructure:"supplier_page"`
	OCRPageCap   int           `mapstructure:"ocr_page_cap"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type       string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL   string        `mapstructure:"redis_url"`
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// ReportConfig holds batch report output paths; an empty path disables that sink
type ReportConfig struct {
	CSVPath    string `mapstructure:"csv_path"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty path searches the
// default locations; a named file must exist.
func LoadFile(path string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/productscout/")
	}

	// Environment variable settings: SCOUT_SHOP_BASE_URL -> shop.base_url
	v.SetEnvPrefix("SCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads .env from the working directory when present.
// Variables already set in the environment win.
func loadEnvFile() error {
	err := godotenv.Load()
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.shutdown_timeout", "10s")

	// Shop defaults
	v.SetDefault("shop.base_url", "https://www.otto.de")
	v.SetDefault("shop.search_path", "/suche/%s/")
	v.SetDefault("shop.timeout", "30s")
	v.SetDefault("shop.requests_per_second", 1.0)
	v.SetDefault("shop.burst", 2)
	v.SetDefault("shop.max_retries", 3)
	v.SetDefault("shop.max_pages", 10)
	v.SetDefault("shop.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	// Matching defaults
	v.SetDefault("matching.strict_threshold", 30)
	v.SetDefault("matching.relaxed_threshold", 15)
	v.SetDefault("matching.brand_only_threshold", 5)
	v.SetDefault("matching.max_rounds", 10)
	v.SetDefault("matching.enable_debug_logging", false)

	// Extraction defaults
	v.SetDefault("extraction.ocr_enabled", true)
	v.SetDefault("extraction.dpi", 300)
	v.SetDefault("extraction.languages", "deu+eng")
	v.SetDefault("extraction.tesseract_cmd", "tesseract")
	v.SetDefault("extraction.ocr_timeout", "60s")
	v.SetDefault("extraction.energy_page", 6)
	v.SetDefault("extraction.supplier_page", 25)
	v.SetDefault("extraction.ocr_page_cap", 5)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.max_entries", 10000)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Report defaults
	v.SetDefault("report.csv_path", "products_report.csv")
	v.SetDefault("report.sqlite_path", "")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Shop.BaseURL == "" {
		return fmt.Errorf("shop base URL is required (set SCOUT_SHOP_BASE_URL)")
	}
	if strings.Count(config.Shop.SearchPath, "%s") != 1 {
		return fmt.Errorf("shop search path must contain exactly one %%s, got: %s", config.Shop.SearchPath)
	}

	m := config.Matching
	if !(m.StrictThreshold > m.RelaxedThreshold && m.RelaxedThreshold > m.BrandOnlyThreshold) {
		return fmt.Errorf("matching thresholds must descend strict > relaxed > brand_only, got %d/%d/%d",
			m.StrictThreshold, m.RelaxedThreshold, m.BrandOnlyThreshold)
	}
	if m.MaxRounds < 1 {
		return fmt.Errorf("matching max rounds must be at least 1, got: %d", m.MaxRounds)
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}
	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Log.Format != "json" && config.Log.Format != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got: %s", config.Log.Format)
	}

	return nil
}
