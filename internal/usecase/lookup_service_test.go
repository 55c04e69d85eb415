package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kalorikoll/backend/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data      map[string]interface{}
	getError  error
	setError  error
	getCalled bool
	setCalled bool
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string]interface{}),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (interface{}, error) {
	m.getCalled = true
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.setCalled = true
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// MockFoodFactsClient is a mock implementation of domain.FoodFactsClient
type MockFoodFactsClient struct {
	response *domain.OFFProductResponse
	err      error
	calls    int
	lastCode string
}

func NewMockFoodFactsClient() *MockFoodFactsClient {
	return &MockFoodFactsClient{}
}

func (m *MockFoodFactsClient) GetProduct(ctx context.Context, barcode string) (*domain.OFFProductResponse, error) {
	m.calls++
	m.lastCode = barcode
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func appleResponse() *domain.OFFProductResponse {
	return &domain.OFFProductResponse{
		Code:   "7310865004703",
		Status: 1,
		Product: domain.OFFProduct{
			ProductName: "Äpple Royal Gala",
			Nutriments: map[string]any{
				"energy-kcal_100g":   52.0,
				"proteins_100g":      0.3,
				"carbohydrates_100g": "14",
				"fat_100g":           "0,2",
			},
		},
	}
}

func TestNewLookupService(t *testing.T) {
	t.Run("creates service with default values", func(t *testing.T) {
		svc := NewLookupService(NewMockCacheRepository(), NewMockFoodFactsClient(), LookupServiceConfig{})
		if svc == nil {
			t.Fatal("expected service to be created")
		}
		if svc.cacheTTL != 720*time.Hour {
			t.Errorf("cacheTTL = %v, want 720h", svc.cacheTTL)
		}
	})

	t.Run("creates service with custom values", func(t *testing.T) {
		svc := NewLookupService(NewMockCacheRepository(), NewMockFoodFactsClient(), LookupServiceConfig{
			CacheTTL: 24 * time.Hour,
		})
		if svc.cacheTTL != 24*time.Hour {
			t.Errorf("cacheTTL = %v, want 24h", svc.cacheTTL)
		}
	})
}

func TestLookupBarcode(t *testing.T) {
	ctx := context.Background()

	t.Run("returns error for malformed barcode", func(t *testing.T) {
		client := NewMockFoodFactsClient()
		svc := NewLookupService(NewMockCacheRepository(), client, LookupServiceConfig{})

		_, err := svc.LookupBarcode(ctx, "not-a-code")
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
		if client.calls != 0 {
			t.Errorf("client called %d times, want 0", client.calls)
		}
	})

	t.Run("maps and caches a found product", func(t *testing.T) {
		cache := NewMockCacheRepository()
		client := NewMockFoodFactsClient()
		client.response = appleResponse()
		svc := NewLookupService(cache, client, LookupServiceConfig{})

		record, err := svc.LookupBarcode(ctx, " 7310865004703 ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client.lastCode != "7310865004703" {
			t.Errorf("client got barcode %q, want normalized code", client.lastCode)
		}
		want := domain.NutrientRecord{Barcode: "7310865004703", Name: "Äpple Royal Gala", Kcal: 52, Protein: 0.3, Carbs: 14, Fat: 0.2}
		if *record != want {
			t.Errorf("record = %+v, want %+v", *record, want)
		}
		if !cache.setCalled {
			t.Error("expected result to be cached")
		}
	})

	t.Run("returns cached record without calling the API", func(t *testing.T) {
		cache := NewMockCacheRepository()
		cache.data["product:7310865004703"] = domain.NutrientRecord{Name: "Cached", Kcal: 10}
		client := NewMockFoodFactsClient()
		svc := NewLookupService(cache, client, LookupServiceConfig{})

		record, err := svc.LookupBarcode(ctx, "7310865004703")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if record.Name != "Cached" {
			t.Errorf("Name = %q, want Cached", record.Name)
		}
		if client.calls != 0 {
			t.Errorf("client called %d times, want 0", client.calls)
		}
	})

	t.Run("falls through to the API when the cache fails", func(t *testing.T) {
		cache := NewMockCacheRepository()
		cache.getError = errors.New("cache down")
		cache.setError = errors.New("cache down")
		client := NewMockFoodFactsClient()
		client.response = appleResponse()
		svc := NewLookupService(cache, client, LookupServiceConfig{})

		record, err := svc.LookupBarcode(ctx, "7310865004703")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if record.Kcal != 52 {
			t.Errorf("Kcal = %v, want 52", record.Kcal)
		}
	})

	t.Run("not found", func(t *testing.T) {
		client := NewMockFoodFactsClient()
		client.err = domain.ErrProductNotFound
		svc := NewLookupService(NewMockCacheRepository(), client, LookupServiceConfig{})

		_, err := svc.LookupBarcode(ctx, "7310865004703")
		if !errors.Is(err, domain.ErrProductNotFound) {
			t.Errorf("error = %v, want ErrProductNotFound", err)
		}
	})

	t.Run("status zero is not found", func(t *testing.T) {
		client := NewMockFoodFactsClient()
		client.response = &domain.OFFProductResponse{Status: 0, StatusVerbose: "product not found"}
		svc := NewLookupService(NewMockCacheRepository(), client, LookupServiceConfig{})

		_, err := svc.LookupBarcode(ctx, "7310865004703")
		if !errors.Is(err, domain.ErrProductNotFound) {
			t.Errorf("error = %v, want ErrProductNotFound", err)
		}
	})

	t.Run("network failure is unavailable", func(t *testing.T) {
		client := NewMockFoodFactsClient()
		client.err = errors.New("dial tcp: no route to host")
		cache := NewMockCacheRepository()
		svc := NewLookupService(cache, client, LookupServiceConfig{})

		_, err := svc.LookupBarcode(ctx, "7310865004703")
		if !errors.Is(err, domain.ErrLookupUnavailable) {
			t.Errorf("error = %v, want ErrLookupUnavailable", err)
		}
		if cache.setCalled {
			t.Error("failures must not be cached")
		}
	})
}
