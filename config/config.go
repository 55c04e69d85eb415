package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kalorikoll/backend/internal/domain"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig
	OpenFoodFacts OpenFoodFactsConfig
	Cache         CacheConfig
	Store         StoreConfig
	Targets       TargetsConfig
	Matching      MatchingConfig
	RateLimit     RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// OpenFoodFactsConfig holds Open Food Facts API configuration
type OpenFoodFactsConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	UserAgent         string        `mapstructure:"user_agent"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

// CacheConfig holds lookup cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// StoreConfig selects the persistence backend
type StoreConfig struct {
	Type string `mapstructure:"type"` // "sqlite" or "memory"
	Path string `mapstructure:"path"`
}

// TargetsConfig holds the default daily goal
type TargetsConfig struct {
	Calories   float64 `mapstructure:"calories"`
	ProteinPct float64 `mapstructure:"protein_pct"`
	FatPct     float64 `mapstructure:"fat_pct"`
}

// MatchingConfig holds catalog search configuration
type MatchingConfig struct {
	MinConfidenceThreshold float64 `mapstructure:"min_confidence_threshold"`
	EnableDebugLogging     bool    `mapstructure:"enable_debug_logging"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// Load loads configuration from a .env file, environment variables and
// config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/kalorikoll/")

	v.SetEnvPrefix("KALORIKOLL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
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

// loadEnvFile loads ./.env when present. Variables already set in the
// environment are not overridden.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(".env"); err != nil {
		return fmt.Errorf("error loading .env file: %w", err)
	}
	return nil
}

// setDefaults sets default configuration values. Every key needs a default
// so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	v.SetDefault("openfoodfacts.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("openfoodfacts.user_agent", "Kalorikoll/1.0")
	v.SetDefault("openfoodfacts.timeout", "10s")
	v.SetDefault("openfoodfacts.requests_per_minute", 60)

	v.SetDefault("cache.ttl", "720h") // 30 days

	v.SetDefault("store.type", "sqlite")
	v.SetDefault("store.path", "kalorikoll.db")

	v.SetDefault("targets.calories", 2500)
	v.SetDefault("targets.protein_pct", 30)
	v.SetDefault("targets.fat_pct", 35)

	v.SetDefault("matching.min_confidence_threshold", 40.0)
	v.SetDefault("matching.enable_debug_logging", false)

	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration. Protein and fat percentages adding
// up to more than 100 are reported when targets are computed, not here.
func validate(config *Config) error {
	switch config.Store.Type {
	case "memory":
	case "sqlite":
		if config.Store.Path == "" {
			return fmt.Errorf("store path is required when store type is 'sqlite'")
		}
	default:
		return fmt.Errorf("store type must be 'sqlite' or 'memory', got: %s", config.Store.Type)
	}

	if config.OpenFoodFacts.BaseURL == "" {
		return fmt.Errorf("Open Food Facts base URL is required (set KALORIKOLL_OPENFOODFACTS_BASE_URL)")
	}

	if config.Targets.Calories <= 0 {
		return fmt.Errorf("targets.calories must be positive, got: %g", config.Targets.Calories)
	}
	if !inPercentRange(config.Targets.ProteinPct) || !inPercentRange(config.Targets.FatPct) {
		return fmt.Errorf("targets percentages must be within 0-100, got protein %g, fat %g",
			config.Targets.ProteinPct, config.Targets.FatPct)
	}

	return nil
}

func inPercentRange(p float64) bool {
	return p >= 0 && p <= 100
}

// TargetSpec returns the configured default goal
func (c *Config) TargetSpec() domain.TargetSpec {
	return domain.TargetSpec{
		Calories:   c.Targets.Calories,
		ProteinPct: c.Targets.ProteinPct,
		FatPct:     c.Targets.FatPct,
	}
}
