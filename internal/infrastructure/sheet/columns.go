package sheet

import (
	"strconv"
	"strings"
	"unicode"
)

// field is a logical column, independent of how a sheet spells its header
type field string

const (
	fieldName     field = "name"
	fieldKcal     field = "kcal"
	fieldProtein  field = "protein"
	fieldCarbs    field = "carbs"
	fieldFat      field = "fat"
	fieldPrice    field = "price"
	fieldBarcode  field = "barcode"
	fieldDate     field = "date"
	fieldMeal     field = "meal"
	fieldQuantity field = "quantity"
	fieldCost     field = "cost"
	fieldID       field = "id"
)

// layout describes one table: the header we write, the order of legacy
// headerless rows and the header spellings we accept when reading
type layout struct {
	header  []string
	order   []field
	aliases map[string]field
}

// Catalog rows follow the original "Databas" sheet: Namn, Kcal, Protein,
// Kolhydrater, Fett, with price and barcode appended later.
var catalogLayout = newLayout(
	[]string{"Namn", "Kcal", "Protein", "Kolhydrater", "Fett", "Pris", "Streckkod"},
	[]field{fieldName, fieldKcal, fieldProtein, fieldCarbs, fieldFat, fieldPrice, fieldBarcode},
	map[field][]string{
		fieldName:    {"namn", "livsmedel", "vara", "produkt", "name", "item", "product"},
		fieldKcal:    {"kcal", "kalorier", "energi", "energikcal", "calories", "energy"},
		fieldProtein: {"protein", "proteiner", "proteing"},
		fieldCarbs:   {"kolhydrater", "kolh", "kolhydraterg", "carbs", "carbohydrates"},
		fieldFat:     {"fett", "fettg", "fat"},
		fieldPrice:   {"pris", "price"},
		fieldBarcode: {"streckkod", "ean", "gtin", "barcode"},
	},
)

var diaryLayout = newLayout(
	[]string{"Datum", "Måltid", "Livsmedel", "Mängd (g)", "Kcal", "Protein", "Kolhydrater", "Fett", "Kostnad", "ID"},
	[]field{fieldDate, fieldMeal, fieldName, fieldQuantity, fieldKcal, fieldProtein, fieldCarbs, fieldFat, fieldCost, fieldID},
	map[field][]string{
		fieldDate:     {"datum", "dag", "date"},
		fieldMeal:     {"måltid", "maltid", "meal", "slot"},
		fieldName:     {"livsmedel", "namn", "vara", "item", "name"},
		fieldQuantity: {"mängdg", "mängd", "mangd", "gram", "vikt", "viktg", "quantity", "quantityg", "grams"},
		fieldKcal:     {"kcal", "kalorier", "energi", "calories"},
		fieldProtein:  {"protein", "proteiner", "proteing"},
		fieldCarbs:    {"kolhydrater", "kolh", "kolhydraterg", "carbs", "carbohydrates"},
		fieldFat:      {"fett", "fettg", "fat"},
		fieldCost:     {"kostnad", "kostnadkr", "pris", "cost", "price"},
		fieldID:       {"id"},
	},
)

func newLayout(header []string, order []field, spellings map[field][]string) layout {
	aliases := make(map[string]field)
	for f, names := range spellings {
		for _, n := range names {
			aliases[normalizeHeader(n)] = f
		}
	}
	return layout{header: header, order: order, aliases: aliases}
}

// normalizeHeader lowercases and keeps only letters and digits, so
// "Mängd (g)" and "mängd g" compare equal
func normalizeHeader(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// columns maps fields to cell positions for one table
type columns map[field]int

// resolve inspects the first row. If at least two cells are known header
// spellings it is a header and is consumed; otherwise rows are positional.
func (l layout) resolve(rows [][]string) (columns, [][]string) {
	if len(rows) > 0 {
		cols := make(columns)
		for i, cell := range rows[0] {
			if f, ok := l.aliases[normalizeHeader(cell)]; ok {
				if _, dup := cols[f]; !dup {
					cols[f] = i
				}
			}
		}
		if len(cols) >= 2 {
			return cols, rows[1:]
		}
	}

	cols := make(columns, len(l.order))
	for i, f := range l.order {
		cols[f] = i
	}
	return cols, rows
}

// cell returns the trimmed cell for f, or "" when the row is short or the
// column is absent
func (c columns) cell(row []string, f field) string {
	i, ok := c[f]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// encode lays values out in the layout's column order
func (l layout) encode(values map[field]string) []string {
	row := make([]string, len(l.order))
	for i, f := range l.order {
		row[i] = values[f]
	}
	return row
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
