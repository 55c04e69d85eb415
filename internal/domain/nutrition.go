package domain

// NutrientRecord is the nutritional content of a food item per 100 grams
type NutrientRecord struct {
	Barcode string  `json:"barcode,omitempty"`
	Name    string  `json:"name"`
	Kcal    float64 `json:"kcal"`
	Protein float64 `json:"protein"` // grams
	Carbs   float64 `json:"carbs"`   // grams
	Fat     float64 `json:"fat"`     // grams
	Price   float64 `json:"price"`
}

// Portion holds the nutrients of a record scaled to a consumed quantity
type Portion struct {
	QuantityG float64 `json:"quantityG"`
	Kcal      float64 `json:"kcal"`
	Protein   float64 `json:"protein"`
	Carbs     float64 `json:"carbs"`
	Fat       float64 `json:"fat"`
}

// DiaryEntry is one logged consumption event. Nutrient fields are already
// scaled to QuantityG.
type DiaryEntry struct {
	ID        string   `json:"id"`
	Date      string   `json:"date"` // YYYY-MM-DD
	Meal      MealSlot `json:"meal"`
	Item      string   `json:"item"`
	QuantityG float64  `json:"quantityG"`
	Kcal      float64  `json:"kcal"`
	Protein   float64  `json:"protein"`
	Carbs     float64  `json:"carbs"`
	Fat       float64  `json:"fat"`
	Cost      float64  `json:"cost"`
}

// TargetSpec is the user's daily goal. Carbohydrate share is whatever is left
// after protein and fat.
type TargetSpec struct {
	Calories   float64 `json:"calories"`
	ProteinPct float64 `json:"proteinPct"`
	FatPct     float64 `json:"fatPct"`
}

// CarbPct returns the derived carbohydrate percentage, negative when
// protein and fat together exceed 100%.
func (t TargetSpec) CarbPct() float64 {
	return 100 - t.ProteinPct - t.FatPct
}

// MacroTargets are the gram-denominated daily targets derived from a TargetSpec
type MacroTargets struct {
	Calories int     `json:"calories"`
	Protein  int     `json:"protein"`
	Fat      int     `json:"fat"`
	Carbs    int     `json:"carbs"`
	CarbPct  float64 `json:"carbPct"`
}

// MacroTotals are whole-unit sums over a day's entries
type MacroTotals struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
	Cost     int `json:"cost"`
}

// MacroDeltas hold target minus total; negative means the target was exceeded
type MacroDeltas struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
}

// MacroProgress holds progress-bar fractions in [0, 1]
type MacroProgress struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// DailySummary is the aggregate view of one diary day
type DailySummary struct {
	Date     string         `json:"date"`
	Totals   MacroTotals    `json:"totals"`
	Targets  *MacroTargets  `json:"targets,omitempty"`
	Deltas   *MacroDeltas   `json:"deltas,omitempty"`
	Progress *MacroProgress `json:"progress,omitempty"`
	Entries  []DiaryEntry   `json:"entries"`

	// TargetError is set when the TargetSpec could not be turned into targets
	TargetError string `json:"targetError,omitempty"`
	// Warning is set when the diary could not be read and totals are empty
	Warning string `json:"warning,omitempty"`
}

// OFFProductResponse is the Open Food Facts product endpoint payload
type OFFProductResponse struct {
	Code          string     `json:"code"`
	Status        int        `json:"status"`
	StatusVerbose string     `json:"status_verbose,omitempty"`
	Product       OFFProduct `json:"product"`
}

// OFFProduct is the subset of an Open Food Facts product we read.
// Nutriment values arrive as numbers or strings depending on the contributor.
type OFFProduct struct {
	ProductName   string         `json:"product_name"`
	ProductNameEn string         `json:"product_name_en,omitempty"`
	GenericName   string         `json:"generic_name,omitempty"`
	Brands        string         `json:"brands,omitempty"`
	Nutriments    map[string]any `json:"nutriments"`
}

// DateLayout is the diary's calendar date format
const DateLayout = "2006-01-02"
