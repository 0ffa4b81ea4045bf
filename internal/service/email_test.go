package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/mealprepai/backend/config"
	"github.com/pageza/mealprepai/backend/internal/model"
)

func TestSendGroceryList(t *testing.T) {
	t.Run("should fall back to dry run without SMTP credentials", func(t *testing.T) {
		svc := NewEmailService(&config.Config{
			EmailFrom:     "no-reply@mealprepai.app",
			EmailFromName: "MealPrepAI",
		}, zap.NewNop().Sugar())

		mode, err := svc.SendGroceryList(GroceryList{To: "jane@example.com", Title: "Protein Oats"})
		require.NoError(t, err)
		assert.Equal(t, DeliveryDryRun, mode, "missing credentials must not fail the request")
	})

	t.Run("should dry run when only the host is set", func(t *testing.T) {
		svc := NewEmailService(&config.Config{SMTPHost: "smtp.example.com"}, zap.NewNop().Sugar())

		mode, err := svc.SendGroceryList(GroceryList{To: "jane@example.com"})
		require.NoError(t, err)
		assert.Equal(t, DeliveryDryRun, mode)
	})
}

func TestBuildGroceryBody(t *testing.T) {
	t.Run("should render items with a title-cased greeting", func(t *testing.T) {
		list := GroceryList{
			Name:  "jane doe",
			Title: "Protein Oats",
			Items: []DeltaItem{
				{Item: "rolled oats", Qty: model.Qty(0.5), Unit: "cup"},
				{Item: "milk", Qty: model.QtyText("1/2"), Unit: "cup"},
			},
			TotalEstimated: 3.5,
		}

		body := buildGroceryBody(list, "Protein Oats")

		expected := strings.Join([]string{
			"Hi Jane Doe,",
			"Here’s your grocery list for 'Protein Oats':",
			"",
			"- rolled oats: 0.5 cup",
			"- milk: 1/2 cup",
			"",
			"Estimated total: $3.50 USD",
			"",
			"Happy cooking!",
			"— MealPrepAI",
		}, "\n")
		assert.Equal(t, expected, body)
	})

	t.Run("should celebrate an empty list", func(t *testing.T) {
		body := buildGroceryBody(GroceryList{}, "Selected Recipe")

		assert.Contains(t, body, "Hi there,", "anonymous greeting stays lowercase")
		assert.Contains(t, body, "- Nothing to buy — you have everything 🎉")
		assert.Contains(t, body, "Estimated total: $0.00 USD")
	})

	t.Run("should trim lines for items without qty or unit", func(t *testing.T) {
		list := GroceryList{Items: []DeltaItem{{Item: "salt"}}}
		body := buildGroceryBody(list, "Anything")
		assert.Contains(t, body, "\n- salt:\n", "no trailing spaces after the name")
	})
}
