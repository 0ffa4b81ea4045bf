package model

// Macros represents nutrition information for a recipe. Any subset of the
// fields may be absent in source data.
type Macros struct {
	Kcal     *float64 `json:"kcal,omitempty"`
	ProteinG *float64 `json:"protein_g,omitempty"`
	CarbsG   *float64 `json:"carbs_g,omitempty"`
	FatG     *float64 `json:"fat_g,omitempty"`
}
