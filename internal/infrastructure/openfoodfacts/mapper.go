package openfoodfacts

import (
	"math"
	"strings"

	"github.com/kalorikoll/backend/internal/domain"
)

// Nutriment keys for the macros, per 100 g
const (
	NutrimentEnergyKcal = "energy-kcal_100g"
	NutrimentEnergyKJ   = "energy-kj_100g"
	NutrimentProtein    = "proteins_100g"
	NutrimentCarbs      = "carbohydrates_100g"
	NutrimentFat        = "fat_100g"
)

const (
	kjPerKcal   = 4.184
	unknownName = "Unknown"
)

// MapToNutrientRecord converts an Open Food Facts product to our per-100g
// record. Missing or malformed nutriments become 0.
func MapToNutrientRecord(barcode string, product *domain.OFFProduct) domain.NutrientRecord {
	kcal, ok := FindNutrimentValue(product.Nutriments, NutrimentEnergyKcal)
	if !ok {
		if kj, ok := FindNutrimentValue(product.Nutriments, NutrimentEnergyKJ); ok {
			kcal = math.Round(kj/kjPerKcal*10) / 10
		}
	}
	protein, _ := FindNutrimentValue(product.Nutriments, NutrimentProtein)
	carbs, _ := FindNutrimentValue(product.Nutriments, NutrimentCarbs)
	fat, _ := FindNutrimentValue(product.Nutriments, NutrimentFat)

	return domain.NutrientRecord{
		Barcode: barcode,
		Name:    productName(product),
		Kcal:    domain.NonNegative(kcal),
		Protein: domain.NonNegative(protein),
		Carbs:   domain.NonNegative(carbs),
		Fat:     domain.NonNegative(fat),
	}
}

// productName picks the first non-empty name field
func productName(p *domain.OFFProduct) string {
	for _, name := range []string{p.ProductName, p.ProductNameEn, p.GenericName} {
		if name = strings.TrimSpace(name); name != "" {
			return name
		}
	}
	return unknownName
}

// FindNutrimentValue reads a nutriment that may be a JSON number or string
func FindNutrimentValue(nutriments map[string]any, key string) (float64, bool) {
	v, ok := nutriments[key]
	if !ok || v == nil {
		return 0, false
	}

	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return x, true
	case int:
		return float64(x), true
	case string:
		return domain.ParseNumber(x), true
	}
	return 0, false
}
