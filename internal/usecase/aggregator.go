package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/kalorikoll/backend/internal/domain"
)

// AggregateDay reduces the full diary to one date and compares it against
// targets. Entries are matched on exact date string equality and keep their
// input order. targets may be nil, in which case deltas and progress are
// left out of the summary.
func AggregateDay(entries []domain.DiaryEntry, date string, targets *domain.MacroTargets) *domain.DailySummary {
	var kcal, protein, carbs, fat, cost decimal.Decimal
	day := make([]domain.DiaryEntry, 0)

	for _, e := range entries {
		if e.Date != date {
			continue
		}
		day = append(day, e)
		kcal = kcal.Add(amount(e.Kcal))
		protein = protein.Add(amount(e.Protein))
		carbs = carbs.Add(amount(e.Carbs))
		fat = fat.Add(amount(e.Fat))
		cost = cost.Add(amount(e.Cost))
	}

	summary := &domain.DailySummary{
		Date: date,
		Totals: domain.MacroTotals{
			Calories: wholeUnits(kcal),
			Protein:  wholeUnits(protein),
			Carbs:    wholeUnits(carbs),
			Fat:      wholeUnits(fat),
			Cost:     wholeUnits(cost),
		},
		Entries: day,
	}

	if targets == nil {
		return summary
	}

	t := summary.Totals
	summary.Targets = targets
	summary.Deltas = &domain.MacroDeltas{
		Calories: targets.Calories - t.Calories,
		Protein:  targets.Protein - t.Protein,
		Carbs:    targets.Carbs - t.Carbs,
		Fat:      targets.Fat - t.Fat,
	}
	summary.Progress = &domain.MacroProgress{
		Calories: ProgressFraction(t.Calories, targets.Calories),
		Protein:  ProgressFraction(t.Protein, targets.Protein),
		Carbs:    ProgressFraction(t.Carbs, targets.Carbs),
		Fat:      ProgressFraction(t.Fat, targets.Fat),
	}
	return summary
}

// ProgressFraction is total/target clamped to [0, 1]; a zero target gives 0
func ProgressFraction(total, target int) float64 {
	if target <= 0 {
		return 0
	}
	p := float64(total) / float64(target)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// amount converts an entry value for summing; non-finite values count as 0
func amount(v float64) decimal.Decimal {
	return decimal.NewFromFloat(domain.Finite(v))
}

// wholeUnits rounds a sum down for display
func wholeUnits(d decimal.Decimal) int {
	return int(d.Floor().IntPart())
}
