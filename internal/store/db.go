package store

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/mealprepai/backend/internal/model"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to scan JSONB value: %v", value)
	}

	return json.Unmarshal(bytes, a)
}

// JSONBMacros is a custom type for handling the macro block in JSONB
type JSONBMacros model.Macros

// Value implements the driver.Valuer interface
func (m JSONBMacros) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface
func (m *JSONBMacros) Scan(value interface{}) error {
	if value == nil {
		*m = JSONBMacros{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to scan JSONB value: %v", value)
	}

	return json.Unmarshal(bytes, m)
}

// JSONBIngredients is a custom type for handling the ingredient list in JSONB
type JSONBIngredients []model.Ingredient

// Value implements the driver.Valuer interface
func (i JSONBIngredients) Value() (driver.Value, error) {
	if len(i) == 0 {
		return "[]", nil
	}
	return json.Marshal(i)
}

// Scan implements the sql.Scanner interface
func (i *JSONBIngredients) Scan(value interface{}) error {
	if value == nil {
		*i = JSONBIngredients{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to scan JSONB value: %v", value)
	}

	return json.Unmarshal(bytes, i)
}

// RecipeRecord is a row of the recipes table. The jsonb column declarations
// also work under the sqlite driver, so the same model serves unit tests.
type RecipeRecord struct {
	ID          int              `gorm:"primaryKey" json:"id"`
	Title       string           `gorm:"size:255;not null" json:"title"`
	MealType    string           `gorm:"size:50" json:"meal_type"`
	Goals       JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"goal"`
	TimeMin     *int             `json:"time_min"`
	CostUSD     *float64         `json:"cost_usd"`
	Macros      JSONBMacros      `gorm:"type:jsonb;not null;default:'{}'" json:"macros"`
	Ingredients JSONBIngredients `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
}

// TableName overrides the table name used by gorm.
func (RecipeRecord) TableName() string {
	return "recipes"
}

// Recipe converts the row into the canonical shape, running the same
// normalization as every other boundary so hand-edited rows behave like
// dataset entries.
func (r RecipeRecord) Recipe() model.Recipe {
	raw := RawRecipe{
		ID:          r.ID,
		Title:       r.Title,
		MealType:    r.MealType,
		Goals:       r.Goals,
		TimeMin:     r.TimeMin,
		CostUSD:     r.CostUSD,
		Macros:      model.Macros(r.Macros),
		Ingredients: r.Ingredients,
	}
	return raw.Canonical()
}

// NewRecipeRecord converts a canonical recipe into its table row.
func NewRecipeRecord(recipe model.Recipe) RecipeRecord {
	return RecipeRecord{
		ID:          recipe.ID,
		Title:       recipe.Title,
		MealType:    recipe.MealType,
		Goals:       JSONBStringArray(recipe.Goals),
		TimeMin:     recipe.TimeMin,
		CostUSD:     recipe.CostUSD,
		Macros:      JSONBMacros(recipe.Macros),
		Ingredients: JSONBIngredients(recipe.Ingredients),
	}
}

// AutoMigrate creates or updates the recipes table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&RecipeRecord{})
}

// DBSource serves the dataset from the recipes table.
type DBSource struct {
	db *gorm.DB
}

// NewDBSource creates a source reading from the given database.
func NewDBSource(db *gorm.DB) *DBSource {
	return &DBSource{db: db}
}

// Load selects every recipe row in id order and normalizes it.
func (s *DBSource) Load(ctx context.Context) ([]model.Recipe, error) {
	var records []RecipeRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load recipes from database: %w", err)
	}

	recipes := make([]model.Recipe, 0, len(records))
	for _, record := range records {
		recipes = append(recipes, record.Recipe())
	}
	return recipes, nil
}
