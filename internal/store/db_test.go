package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pageza/mealprepai/backend/internal/model"
)

func setupRecipeDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func TestDBSourceLoad(t *testing.T) {
	db := setupRecipeDB(t)

	rows := []RecipeRecord{
		NewRecipeRecord(model.Recipe{
			ID:       2,
			Title:    "Turkey Chili",
			MealType: "dinner",
			Goals:    []string{"high_protein"},
			TimeMin:  intp(35),
			CostUSD:  fp(4.2),
			Macros:   model.Macros{Kcal: fp(520), ProteinG: fp(38)},
			Ingredients: []model.Ingredient{
				{Name: "ground turkey", Qty: model.Qty(1), Unit: "lb"},
				{Name: "kidney beans", Qty: model.QtyText("1 can"), Unit: ""},
			},
		}),
		NewRecipeRecord(model.Recipe{
			ID:       1,
			Title:    "Overnight Oats",
			MealType: "breakfast",
			Goals:    []string{"quick_meal"},
		}),
	}
	require.NoError(t, db.Create(&rows).Error)

	recipes, err := NewDBSource(db).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, recipes, 2)

	assert.Equal(t, "Overnight Oats", recipes[0].Title, "rows must come back in id order")

	chili := recipes[1]
	assert.Equal(t, []string{"high_protein"}, chili.Goals)
	require.NotNil(t, chili.Macros.ProteinG)
	assert.Equal(t, 38.0, *chili.Macros.ProteinG)
	assert.Nil(t, chili.Macros.CarbsG)

	require.Len(t, chili.Ingredients, 2)
	assert.Equal(t, "ground turkey", chili.Ingredients[0].Name)
	assert.Equal(t, "1", chili.Ingredients[0].Qty.String())
	assert.Equal(t, "1 can", chili.Ingredients[1].Qty.String())
}

func TestDBSourceNormalizesRows(t *testing.T) {
	db := setupRecipeDB(t)

	record := RecipeRecord{ID: 7, Title: "Hand Edited", Goals: JSONBStringArray{" Low_Budget "}}
	require.NoError(t, db.Create(&record).Error)

	recipes, err := NewDBSource(db).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, []string{"low_budget"}, recipes[0].Goals)
	assert.Nil(t, recipes[0].CostUSD)
	assert.Equal(t, 20, recipes[0].TimeMinutes())
}

func TestDBSourceEmptyTable(t *testing.T) {
	db := setupRecipeDB(t)

	recipes, err := NewDBSource(db).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recipes)
}
