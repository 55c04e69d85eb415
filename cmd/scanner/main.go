package main

import (
	"context"
	"log"
	"os"

	"github.com/kalorikoll/backend/config"
	"github.com/kalorikoll/backend/internal/infrastructure/cache"
	"github.com/kalorikoll/backend/internal/infrastructure/openfoodfacts"
	"github.com/kalorikoll/backend/internal/infrastructure/sheet"
	"github.com/kalorikoll/backend/internal/usecase"
)

// Interactive scan loop: read a barcode (a USB scanner types it followed by
// Enter), show the item, optionally save it to the catalog and log a portion.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, closeStore, err := sheet.Open(cfg.Store.Type, cfg.Store.Path)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()

	memoryCache := cache.NewMemoryCache()
	defer memoryCache.Close()

	offClient := openfoodfacts.NewClient(openfoodfacts.ClientConfig{
		BaseURL:           cfg.OpenFoodFacts.BaseURL,
		UserAgent:         cfg.OpenFoodFacts.UserAgent,
		Timeout:           cfg.OpenFoodFacts.Timeout,
		RequestsPerMinute: cfg.OpenFoodFacts.RequestsPerMinute,
	})

	lookup := usecase.NewLookupService(memoryCache, offClient, usecase.LookupServiceConfig{
		CacheTTL:           cfg.Cache.TTL,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	})
	diary := usecase.NewDiaryService(
		sheet.NewCatalogRepository(store),
		sheet.NewDiaryRepository(store),
		usecase.DiaryServiceConfig{
			DefaultTargets: cfg.TargetSpec(),
			Matching:       matchConfig(cfg),
		},
	)

	s := newSession(os.Stdin, os.Stdout, lookup, diary)
	s.run(context.Background())
}

// matchConfig maps the matching section the same way cmd/server does
func matchConfig(cfg *config.Config) usecase.MatchConfig {
	return usecase.MatchConfig{
		MinConfidenceThreshold: cfg.Matching.MinConfidenceThreshold,
		EnableDebugLogging:     cfg.Matching.EnableDebugLogging,
	}
}

func init() {
	log.SetFlags(log.Ltime)
	log.SetOutput(os.Stderr)
}
