package usecase

import (
	"fmt"
	"math"

	"github.com/kalorikoll/backend/internal/domain"
)

// Energy density per gram of each macronutrient
const (
	KcalPerGramProtein = 4.0
	KcalPerGramFat     = 9.0
	KcalPerGramCarbs   = 4.0
)

// maxCalorieGoal keeps gram targets well inside int range
const maxCalorieGoal = 1_000_000

// ComputeTargets turns a calorie goal and protein/fat percentages into gram
// targets. Carbohydrates take the remaining share; a negative remainder is a
// *domain.ConfigurationError.
func ComputeTargets(spec domain.TargetSpec) (*domain.MacroTargets, error) {
	if !(spec.Calories > 0) || spec.Calories > maxCalorieGoal {
		return nil, fmt.Errorf("%w: calorie goal must be within 0-%d, got %g", domain.ErrInvalidRequest, maxCalorieGoal, spec.Calories)
	}
	if !validPct(spec.ProteinPct) || !validPct(spec.FatPct) {
		return nil, fmt.Errorf("%w: percentages must be within 0-100 (protein %g, fat %g)",
			domain.ErrInvalidRequest, spec.ProteinPct, spec.FatPct)
	}

	carbPct := spec.CarbPct()
	if carbPct < 0 {
		return nil, &domain.ConfigurationError{ProteinPct: spec.ProteinPct, FatPct: spec.FatPct}
	}

	return &domain.MacroTargets{
		Calories: int(math.Round(spec.Calories)),
		Protein:  gramsFor(spec.Calories, spec.ProteinPct, KcalPerGramProtein),
		Fat:      gramsFor(spec.Calories, spec.FatPct, KcalPerGramFat),
		Carbs:    gramsFor(spec.Calories, carbPct, KcalPerGramCarbs),
		CarbPct:  carbPct,
	}, nil
}

func gramsFor(calories, pct, kcalPerGram float64) int {
	return int(math.Round(calories * pct / 100 / kcalPerGram))
}

func validPct(p float64) bool {
	return p >= 0 && p <= 100 && !math.IsNaN(p)
}
