package domain

import (
	"fmt"
	"strings"
)

// MealSlot is the part of the day an entry was eaten in
type MealSlot string

const (
	MealBreakfast MealSlot = "Breakfast"
	MealLunch     MealSlot = "Lunch"
	MealDinner    MealSlot = "Dinner"
	MealSnack     MealSlot = "Snack"
)

// MealSlots lists the slots in display order
var MealSlots = []MealSlot{MealBreakfast, MealLunch, MealDinner, MealSnack}

// mealAliases maps lowercase spellings, including the Swedish sheet headers,
// to a slot
var mealAliases = map[string]MealSlot{
	"breakfast": MealBreakfast,
	"frukost":   MealBreakfast,
	"lunch":     MealLunch,
	"dinner":    MealDinner,
	"middag":    MealDinner,
	"snack":     MealSnack,
	"mellanmål": MealSnack,
	"mellanmal": MealSnack,
}

// ParseMealSlot resolves a user or sheet supplied meal name
func ParseMealSlot(s string) (MealSlot, error) {
	if slot, ok := mealAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return slot, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMealSlot, s)
}
