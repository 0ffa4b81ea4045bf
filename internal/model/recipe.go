package model

// DefaultTimeMin is applied at response projection when a recipe does not
// report a preparation time. It is never written back into a store.
const DefaultTimeMin = 20

// Recipe is the canonical recipe record. Every source (file, S3, database,
// generated) normalizes into this one shape at its boundary; numeric fields
// that may be absent in source data are pointers so ranking can tell
// "missing" from zero.
type Recipe struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	MealType    string       `json:"meal_type,omitempty"`
	Goals       []string     `json:"goal"`
	TimeMin     *int         `json:"time_min,omitempty"`
	CostUSD     *float64     `json:"cost_usd,omitempty"`
	Macros      Macros       `json:"macros"`
	Ingredients []Ingredient `json:"ingredients"`
}

// Ingredient is one line of a recipe's ingredient list. Order matters and is
// preserved through every projection.
type Ingredient struct {
	Name string   `json:"name"`
	Qty  Quantity `json:"qty"`
	Unit string   `json:"unit,omitempty"`
}

// TimeMinutes returns the preparation time with the default applied when the
// field is absent.
func (r Recipe) TimeMinutes() int {
	if r.TimeMin != nil {
		return *r.TimeMin
	}
	return DefaultTimeMin
}

// Cost returns the cost estimate, zero when the field is absent.
func (r Recipe) Cost() float64 {
	if r.CostUSD != nil {
		return *r.CostUSD
	}
	return 0
}
