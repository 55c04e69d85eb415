package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads, restoring them after the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"KALORIKOLL_SERVER_PORT",
		"KALORIKOLL_SERVER_ENVIRONMENT",
		"KALORIKOLL_SERVER_ALLOWED_ORIGINS",
		"KALORIKOLL_OPENFOODFACTS_BASE_URL",
		"KALORIKOLL_OPENFOODFACTS_USER_AGENT",
		"KALORIKOLL_OPENFOODFACTS_TIMEOUT",
		"KALORIKOLL_OPENFOODFACTS_REQUESTS_PER_MINUTE",
		"KALORIKOLL_CACHE_TTL",
		"KALORIKOLL_STORE_TYPE",
		"KALORIKOLL_STORE_PATH",
		"KALORIKOLL_TARGETS_CALORIES",
		"KALORIKOLL_TARGETS_PROTEIN_PCT",
		"KALORIKOLL_TARGETS_FAT_PCT",
		"KALORIKOLL_MATCHING_MIN_CONFIDENCE_THRESHOLD",
		"KALORIKOLL_MATCHING_ENABLE_DEBUG_LOGGING",
		"KALORIKOLL_RATELIMIT_PER_IP",
	} {
		if old, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, old) })
			os.Unsetenv(key)
		}
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.OpenFoodFacts.BaseURL != "https://world.openfoodfacts.org" {
			t.Errorf("OpenFoodFacts.BaseURL = %s, want https://world.openfoodfacts.org", cfg.OpenFoodFacts.BaseURL)
		}
		if cfg.OpenFoodFacts.Timeout != 10*time.Second {
			t.Errorf("OpenFoodFacts.Timeout = %v, want 10s", cfg.OpenFoodFacts.Timeout)
		}
		if cfg.OpenFoodFacts.RequestsPerMinute != 60 {
			t.Errorf("OpenFoodFacts.RequestsPerMinute = %d, want 60", cfg.OpenFoodFacts.RequestsPerMinute)
		}
		if cfg.Cache.TTL != 720*time.Hour {
			t.Errorf("Cache.TTL = %v, want 720h", cfg.Cache.TTL)
		}
		if cfg.Store.Type != "sqlite" || cfg.Store.Path != "kalorikoll.db" {
			t.Errorf("Store = %+v, want sqlite at kalorikoll.db", cfg.Store)
		}
		if cfg.Targets.Calories != 2500 || cfg.Targets.ProteinPct != 30 || cfg.Targets.FatPct != 35 {
			t.Errorf("Targets = %+v, want 2500/30/35", cfg.Targets)
		}
		if cfg.Matching.MinConfidenceThreshold != 40 {
			t.Errorf("Matching.MinConfidenceThreshold = %v, want 40", cfg.Matching.MinConfidenceThreshold)
		}
		if cfg.RateLimit.PerIP != 100 {
			t.Errorf("RateLimit.PerIP = %d, want 100", cfg.RateLimit.PerIP)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("KALORIKOLL_SERVER_PORT", "9090")
		t.Setenv("KALORIKOLL_SERVER_ENVIRONMENT", "production")
		t.Setenv("KALORIKOLL_OPENFOODFACTS_BASE_URL", "https://se.openfoodfacts.org")
		t.Setenv("KALORIKOLL_OPENFOODFACTS_TIMEOUT", "5s")
		t.Setenv("KALORIKOLL_CACHE_TTL", "24h")
		t.Setenv("KALORIKOLL_STORE_TYPE", "memory")
		t.Setenv("KALORIKOLL_TARGETS_CALORIES", "2000")
		t.Setenv("KALORIKOLL_TARGETS_PROTEIN_PCT", "25")
		t.Setenv("KALORIKOLL_TARGETS_FAT_PCT", "30")
		t.Setenv("KALORIKOLL_RATELIMIT_PER_IP", "200")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.OpenFoodFacts.BaseURL != "https://se.openfoodfacts.org" {
			t.Errorf("OpenFoodFacts.BaseURL = %s, want https://se.openfoodfacts.org", cfg.OpenFoodFacts.BaseURL)
		}
		if cfg.OpenFoodFacts.Timeout != 5*time.Second {
			t.Errorf("OpenFoodFacts.Timeout = %v, want 5s", cfg.OpenFoodFacts.Timeout)
		}
		if cfg.Cache.TTL != 24*time.Hour {
			t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
		}
		if cfg.Store.Type != "memory" {
			t.Errorf("Store.Type = %s, want memory", cfg.Store.Type)
		}
		if cfg.Targets.Calories != 2000 || cfg.Targets.ProteinPct != 25 || cfg.Targets.FatPct != 30 {
			t.Errorf("Targets = %+v, want 2000/25/30", cfg.Targets)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
	})

	t.Run("accepts percentages summing above 100", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("KALORIKOLL_TARGETS_PROTEIN_PCT", "60")
		t.Setenv("KALORIKOLL_TARGETS_FAT_PCT", "50")

		if _, err := Load(); err != nil {
			t.Errorf("Load() error = %v, want nil", err)
		}
	})

	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "invalid store type",
			env:     map[string]string{"KALORIKOLL_STORE_TYPE": "postgres"},
			wantErr: "store type must be 'sqlite' or 'memory'",
		},
		{
			name:    "non-positive calories",
			env:     map[string]string{"KALORIKOLL_TARGETS_CALORIES": "0"},
			wantErr: "targets.calories must be positive",
		},
		{
			name:    "percentage out of range",
			env:     map[string]string{"KALORIKOLL_TARGETS_FAT_PCT": "120"},
			wantErr: "targets percentages must be within 0-100",
		},
	}

	for _, tt := range tests {
		t.Run("fails validation for "+tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if err == nil {
				t.Fatalf("Load() error = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		t.Chdir(t.TempDir())

		if err := loadEnvFile(); err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables from .env file", func(t *testing.T) {
		t.Chdir(t.TempDir())
		clearEnv(t)

		envContent := `
# Comment line
KALORIKOLL_SERVER_PORT=7070
KALORIKOLL_TARGETS_CALORIES=1800
`
		if err := os.WriteFile(".env", []byte(envContent), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}
		t.Cleanup(func() {
			os.Unsetenv("KALORIKOLL_SERVER_PORT")
			os.Unsetenv("KALORIKOLL_TARGETS_CALORIES")
		})

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Server.Port != "7070" {
			t.Errorf("Server.Port = %s, want 7070", cfg.Server.Port)
		}
		if cfg.Targets.Calories != 1800 {
			t.Errorf("Targets.Calories = %v, want 1800", cfg.Targets.Calories)
		}
	})

	t.Run("does not override existing environment", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("KALORIKOLL_SERVER_PORT", "6060")

		if err := os.WriteFile(".env", []byte("KALORIKOLL_SERVER_PORT=7070\n"), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v", err)
		}
		if got := os.Getenv("KALORIKOLL_SERVER_PORT"); got != "6060" {
			t.Errorf("KALORIKOLL_SERVER_PORT = %s, want 6060", got)
		}
	})
}

func TestValidateRequiresSQLitePath(t *testing.T) {
	cfg := &Config{
		OpenFoodFacts: OpenFoodFactsConfig{BaseURL: "https://world.openfoodfacts.org"},
		Store:         StoreConfig{Type: "sqlite"},
		Targets:       TargetsConfig{Calories: 2500, ProteinPct: 30, FatPct: 35},
	}

	err := validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "store path is required") {
		t.Errorf("validate() error = %v, want store path error", err)
	}

	cfg.Store.Path = "diary.db"
	if err := validate(cfg); err != nil {
		t.Errorf("validate() error = %v, want nil", err)
	}
}
