package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kalorikoll/backend/internal/domain"
)

// DiaryServiceConfig holds configuration for the diary service
type DiaryServiceConfig struct {
	DefaultTargets domain.TargetSpec
	Matching       MatchConfig
	// Now is the clock used for "today"; defaults to time.Now
	Now func() time.Time
}

// DiaryService logs consumption and builds daily summaries on top of the
// catalog and diary tables
type DiaryService struct {
	catalog        domain.CatalogRepository
	diary          domain.DiaryRepository
	matcher        *CatalogMatcher
	defaultTargets domain.TargetSpec
	now            func() time.Time
}

// LogRequest describes one consumption to log. Record is per 100 g.
type LogRequest struct {
	Record    domain.NutrientRecord
	QuantityG float64
	Meal      string
	Cost      float64
	Date      string // optional, defaults to today
}

// NewDiaryService creates a new diary service with dependencies
func NewDiaryService(
	catalog domain.CatalogRepository,
	diary domain.DiaryRepository,
	config DiaryServiceConfig,
) *DiaryService {
	now := config.Now
	if now == nil {
		now = time.Now
	}

	return &DiaryService{
		catalog:        catalog,
		diary:          diary,
		matcher:        NewCatalogMatcher(config.Matching),
		defaultTargets: config.DefaultTargets,
		now:            now,
	}
}

// Today returns the current diary date
func (s *DiaryService) Today() string {
	return s.now().Format(domain.DateLayout)
}

// DefaultTargets returns the configured goal
func (s *DiaryService) DefaultTargets() domain.TargetSpec {
	return s.defaultTargets
}

// LogEntry scales the record to the consumed quantity and appends it to the
// diary. Cost is taken as entered; the catalog price is never applied.
func (s *DiaryService) LogEntry(ctx context.Context, req LogRequest) (*domain.DiaryEntry, error) {
	name := strings.TrimSpace(req.Record.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: item name is required", domain.ErrInvalidRequest)
	}
	if req.Cost < 0 {
		return nil, fmt.Errorf("%w: cost must not be negative", domain.ErrInvalidRequest)
	}

	meal, err := domain.ParseMealSlot(req.Meal)
	if err != nil {
		return nil, err
	}

	date, err := s.resolveDate(req.Date)
	if err != nil {
		return nil, err
	}

	portion, err := ScalePortion(req.Record, req.QuantityG)
	if err != nil {
		return nil, err
	}

	entry := domain.DiaryEntry{
		ID:        uuid.NewString(),
		Date:      date,
		Meal:      meal,
		Item:      name,
		QuantityG: portion.QuantityG,
		Kcal:      portion.Kcal,
		Protein:   portion.Protein,
		Carbs:     portion.Carbs,
		Fat:       portion.Fat,
		Cost:      req.Cost,
	}

	if err := s.diary.Append(ctx, entry); err != nil {
		return nil, err
	}

	log.Printf("[DIARY] logged %s: %gg %s (%g kcal)", entry.Date, entry.QuantityG, entry.Item, entry.Kcal)
	return &entry, nil
}

// SaveItem appends a per-100g record to the catalog
func (s *DiaryService) SaveItem(ctx context.Context, record domain.NutrientRecord) (*domain.NutrientRecord, error) {
	record.Name = strings.TrimSpace(record.Name)
	if record.Name == "" {
		return nil, fmt.Errorf("%w: item name is required", domain.ErrInvalidRequest)
	}
	if record.Kcal < 0 || record.Protein < 0 || record.Carbs < 0 || record.Fat < 0 || record.Price < 0 {
		return nil, fmt.Errorf("%w: nutrient values and price must not be negative", domain.ErrInvalidRequest)
	}

	if err := s.catalog.Append(ctx, record); err != nil {
		return nil, err
	}

	log.Printf("[DIARY] saved %q to catalog", record.Name)
	return &record, nil
}

// Catalog returns all saved items. On a store failure it returns an empty
// slice together with the error so callers can still render.
func (s *DiaryService) Catalog(ctx context.Context) ([]domain.NutrientRecord, error) {
	records, err := s.catalog.All(ctx)
	if err != nil {
		log.Printf("[DIARY] WARNING: reading catalog failed: %v", err)
		return []domain.NutrientRecord{}, err
	}
	return records, nil
}

// SearchCatalog ranks saved items against a free-text query
func (s *DiaryService) SearchCatalog(ctx context.Context, query string) ([]CatalogMatch, error) {
	records, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return s.matcher.Match(ctx, query, records)
}

// Entries returns the entries logged on date (today when empty). On a store
// failure it returns an empty slice together with the error.
func (s *DiaryService) Entries(ctx context.Context, date string) ([]domain.DiaryEntry, error) {
	date, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}

	all, err := s.readDiary(ctx)
	if err != nil {
		return []domain.DiaryEntry{}, err
	}
	return AggregateDay(all, date, nil).Entries, nil
}

// Summary aggregates date (today when empty) against spec. A spec that
// cannot produce targets is reported in TargetError and the summary carries
// totals only; a diary that cannot be read is reported in Warning.
func (s *DiaryService) Summary(ctx context.Context, date string, spec domain.TargetSpec) (*domain.DailySummary, error) {
	date, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}

	targets, targetErr := ComputeTargets(spec)
	if targetErr != nil {
		var cfgErr *domain.ConfigurationError
		if !errors.As(targetErr, &cfgErr) {
			return nil, targetErr
		}
	}

	entries, readErr := s.readDiary(ctx)

	summary := AggregateDay(entries, date, targets)
	if targetErr != nil {
		summary.TargetError = targetErr.Error()
	}
	if readErr != nil {
		summary.Warning = readErr.Error()
	}
	return summary, nil
}

func (s *DiaryService) readDiary(ctx context.Context) ([]domain.DiaryEntry, error) {
	entries, err := s.diary.All(ctx)
	if err != nil {
		log.Printf("[DIARY] WARNING: reading diary failed, showing no data: %v", err)
		return nil, err
	}
	return entries, nil
}

// resolveDate defaults an empty date to today and validates the layout
func (s *DiaryService) resolveDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return s.Today(), nil
	}
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return "", fmt.Errorf("%w: date %q must be YYYY-MM-DD", domain.ErrInvalidRequest, date)
	}
	return date, nil
}
