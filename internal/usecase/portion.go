package usecase

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/kalorikoll/backend/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// ScalePortion scales a per-100g record to quantityG grams. kcal is rounded
// to a whole number and the macros to one decimal, which is the precision
// stored in the diary. Scaled values must stay finite.
func ScalePortion(record domain.NutrientRecord, quantityG float64) (domain.Portion, error) {
	if !(quantityG > 0) || math.IsInf(quantityG, 1) {
		return domain.Portion{}, fmt.Errorf("%w: got %g", domain.ErrInvalidQuantity, quantityG)
	}

	factor := decimal.NewFromFloat(quantityG).Div(hundred)
	var outOfRange bool
	scale := func(v float64, places int32) float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			outOfRange = true
			return 0
		}
		scaled := decimal.NewFromFloat(v).Mul(factor).Round(places).InexactFloat64()
		if math.IsInf(scaled, 0) {
			outOfRange = true
			return 0
		}
		return scaled
	}

	portion := domain.Portion{
		QuantityG: quantityG,
		Kcal:      scale(record.Kcal, 0),
		Protein:   scale(record.Protein, 1),
		Carbs:     scale(record.Carbs, 1),
		Fat:       scale(record.Fat, 1),
	}
	if outOfRange {
		return domain.Portion{}, fmt.Errorf("%w: %g g of %q is out of range", domain.ErrInvalidQuantity, quantityG, record.Name)
	}
	return portion, nil
}
