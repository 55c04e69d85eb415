package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrProductNotFound is returned when a barcode is unknown to Open Food Facts
	ErrProductNotFound = errors.New("product not found")

	// ErrLookupUnavailable is returned when Open Food Facts cannot be reached
	ErrLookupUnavailable = errors.New("product lookup unavailable")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidQuantity is returned for a consumed quantity that is not positive
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")

	// ErrInvalidMealSlot is returned for a meal slot outside the known set
	ErrInvalidMealSlot = errors.New("unknown meal slot")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrStoreUnavailable is returned when the persistence store fails
	ErrStoreUnavailable = errors.New("persistence store unavailable")

	// ErrNoMatch is returned when no catalog item matches a search
	ErrNoMatch = errors.New("no matching catalog item")
)

// ConfigurationError reports macro percentages that leave a negative
// carbohydrate share.
type ConfigurationError struct {
	ProteinPct float64
	FatPct     float64
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("macro percentages exceed 100%%: protein %g%% + fat %g%% = %g%%",
		e.ProteinPct, e.FatPct, e.ProteinPct+e.FatPct)
}
