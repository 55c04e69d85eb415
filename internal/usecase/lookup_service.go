package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/kalorikoll/backend/internal/domain"
	"github.com/kalorikoll/backend/internal/infrastructure/openfoodfacts"
)

// LookupServiceConfig holds configuration for the lookup service
type LookupServiceConfig struct {
	CacheTTL           time.Duration
	EnableDebugLogging bool
}

// LookupService resolves barcodes to per-100g nutrient records with caching
type LookupService struct {
	cache    domain.CacheRepository
	client   domain.FoodFactsClient
	barcodes *BarcodeNormalizer
	cacheTTL time.Duration
}

// NewLookupService creates a new lookup service with dependencies
func NewLookupService(
	cache domain.CacheRepository,
	client domain.FoodFactsClient,
	config LookupServiceConfig,
) *LookupService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 720 * time.Hour // Default 30 days
	}

	return &LookupService{
		cache:    cache,
		client:   client,
		barcodes: NewBarcodeNormalizer(config.EnableDebugLogging),
		cacheTTL: cacheTTL,
	}
}

// LookupBarcode returns the nutrient record for a barcode.
// Flow: normalize -> check cache -> Open Food Facts -> map -> cache -> return.
// Failures come back as domain.ErrProductNotFound or
// domain.ErrLookupUnavailable so callers can render "not found" either way.
func (s *LookupService) LookupBarcode(ctx context.Context, raw string) (*domain.NutrientRecord, error) {
	code, err := s.barcodes.Normalize(raw)
	if err != nil {
		return nil, err
	}

	cacheKey := "product:" + code
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		return cached, nil
	}

	resp, err := s.client.GetProduct(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, domain.ErrProductNotFound
		}
		if errors.Is(err, domain.ErrLookupUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrLookupUnavailable, err)
	}
	if resp == nil || resp.Status != 1 {
		return nil, domain.ErrProductNotFound
	}

	record := openfoodfacts.MapToNutrientRecord(code, &resp.Product)

	if err := s.cache.Set(ctx, cacheKey, record, s.cacheTTL); err != nil {
		log.Printf("[LOOKUP] failed to cache %s: %v", code, err)
	}

	return &record, nil
}

// getFromCache retrieves a nutrient record from cache
func (s *LookupService) getFromCache(ctx context.Context, key string) (*domain.NutrientRecord, error) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	switch v := value.(type) {
	case domain.NutrientRecord:
		return &v, nil
	case *domain.NutrientRecord:
		if v != nil {
			rec := *v
			return &rec, nil
		}
	}
	return nil, domain.ErrCacheMiss
}
