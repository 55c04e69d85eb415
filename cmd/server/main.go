package main

import (
	"fmt"
	"log"
	"os"

	"github.com/kalorikoll/backend/config"
	httpDelivery "github.com/kalorikoll/backend/internal/delivery/http"
	"github.com/kalorikoll/backend/internal/infrastructure/cache"
	"github.com/kalorikoll/backend/internal/infrastructure/openfoodfacts"
	"github.com/kalorikoll/backend/internal/infrastructure/sheet"
	"github.com/kalorikoll/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Kalorikoll Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	store, closeStore, err := sheet.Open(cfg.Store.Type, cfg.Store.Path)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()
	log.Printf("Store: %s %s", cfg.Store.Type, cfg.Store.Path)

	memoryCache := cache.NewMemoryCache()
	defer memoryCache.Close()
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	offClient := openfoodfacts.NewClient(openfoodfacts.ClientConfig{
		BaseURL:           cfg.OpenFoodFacts.BaseURL,
		UserAgent:         cfg.OpenFoodFacts.UserAgent,
		Timeout:           cfg.OpenFoodFacts.Timeout,
		RequestsPerMinute: cfg.OpenFoodFacts.RequestsPerMinute,
	})
	if cfg.Server.Environment == "development" {
		offClient.SetDebug(true)
		log.Printf("Open Food Facts client debug mode enabled")
	}

	lookupService := usecase.NewLookupService(memoryCache, offClient, usecase.LookupServiceConfig{
		CacheTTL:           cfg.Cache.TTL,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	})

	diaryService := usecase.NewDiaryService(
		sheet.NewCatalogRepository(store),
		sheet.NewDiaryRepository(store),
		usecase.DiaryServiceConfig{
			DefaultTargets: cfg.TargetSpec(),
			Matching: usecase.MatchConfig{
				MinConfidenceThreshold: cfg.Matching.MinConfidenceThreshold,
				EnableDebugLogging:     cfg.Matching.EnableDebugLogging,
			},
		},
	)

	if _, err := usecase.ComputeTargets(cfg.TargetSpec()); err != nil {
		log.Printf("WARNING: default targets unusable: %v", err)
	}

	handler := httpDelivery.NewHandler(lookupService, diaryService)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
