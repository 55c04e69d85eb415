package usecase

import (
	"fmt"
	"log"
	"strings"

	"github.com/kalorikoll/backend/internal/domain"
)

// Accepted barcode lengths: EAN-8 up to GTIN-14
const (
	minBarcodeLength = 8
	maxBarcodeLength = 14
)

// BarcodeNormalizer cleans scanner or keyboard input into a digit-only code
type BarcodeNormalizer struct {
	enableDebugLogging bool
}

// NewBarcodeNormalizer creates a new barcode normalizer
func NewBarcodeNormalizer(enableDebugLogging bool) *BarcodeNormalizer {
	return &BarcodeNormalizer{enableDebugLogging: enableDebugLogging}
}

// Normalize strips whitespace and hyphens and checks what remains is a
// plausible GTIN. A bad check digit is only logged; Open Food Facts keeps
// some in-store codes that do not carry one.
func (n *BarcodeNormalizer) Normalize(raw string) (string, error) {
	code := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '-':
			return -1
		}
		return r
	}, raw)

	if code == "" {
		return "", fmt.Errorf("%w: empty barcode", domain.ErrInvalidRequest)
	}
	if !isNumeric(code) {
		return "", fmt.Errorf("%w: barcode %q must contain only digits", domain.ErrInvalidRequest, raw)
	}
	if len(code) < minBarcodeLength || len(code) > maxBarcodeLength {
		return "", fmt.Errorf("%w: barcode %q must be %d-%d digits", domain.ErrInvalidRequest, raw, minBarcodeLength, maxBarcodeLength)
	}

	if !ValidCheckDigit(code) && n.enableDebugLogging {
		log.Printf("[BARCODE] %s has an invalid check digit, looking it up anyway", code)
	}

	return code, nil
}

// ValidCheckDigit verifies the GS1 mod-10 check digit of a numeric code
func ValidCheckDigit(code string) bool {
	if len(code) < 2 || !isNumeric(code) {
		return false
	}

	sum := 0
	// Weights alternate 3,1,3... from the digit left of the check digit
	for i, weight := len(code)-2, 3; i >= 0; i-- {
		sum += int(code[i]-'0') * weight
		weight = 4 - weight
	}
	check := (10 - sum%10) % 10
	return check == int(code[len(code)-1]-'0')
}

// isNumeric checks if a string contains only digits
func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
