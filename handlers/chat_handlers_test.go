package handlers

import (
	"testing"

	"app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func predictionData() *models.PredictionDataForChat {
	return &models.PredictionDataForChat{
		Recommendations: []models.RestockRecommendation{
			{
				ProductID:          "p1",
				ProductName:        "Espresso Beans",
				CurrentStock:       12,
				PredictedDemand:    40,
				RecommendedRestock: 28,
				Urgency:            "high",
			},
		},
		EventAnnotations: []models.EventAnnotation{
			{Date: "2026-04-01", Titles: []string{"Spring Festival"}, Types: []string{"holiday"}},
		},
	}
}

func TestParseActionRestock(t *testing.T) {
	action := parseAction("please restock espresso beans", predictionData())

	assert.Equal(t, "restock", action.Type)
	require.NotNil(t, action.ProductID)
	assert.Equal(t, "p1", *action.ProductID)
	require.NotNil(t, action.Quantity)
	assert.Equal(t, 28, *action.Quantity)
	assert.True(t, action.NeedsConfirmation)
}

func TestParseActionRestockWithoutPredictionData(t *testing.T) {
	action := parseAction("restock espresso beans", nil)
	assert.Equal(t, "none", action.Type)
	assert.False(t, action.NeedsConfirmation)
}

func TestParseActionUpdateStock(t *testing.T) {
	action := parseAction("update stock oat milk to 150", predictionData())

	assert.Equal(t, "update_stock", action.Type)
	require.NotNil(t, action.ProductName)
	assert.Equal(t, "oat milk", *action.ProductName)
	require.NotNil(t, action.Quantity)
	assert.Equal(t, 150, *action.Quantity)
}

func TestParseActionAddAndDeleteProduct(t *testing.T) {
	add := parseAction("add product matcha latte", nil)
	assert.Equal(t, "add_product", add.Type)
	require.NotNil(t, add.ProductName)
	assert.Equal(t, "matcha latte", *add.ProductName)

	del := parseAction("delete product matcha latte", nil)
	assert.Equal(t, "delete_product", del.Type)
}

func TestParseActionNone(t *testing.T) {
	action := parseAction("why is demand increasing next week?", predictionData())
	assert.Equal(t, "none", action.Type)
}

func TestBuildChatContextWithoutData(t *testing.T) {
	ctx := buildChatContext(nil)
	assert.Contains(t, ctx, "start a prediction first")
}

func TestBuildChatContextIncludesRecommendations(t *testing.T) {
	ctx := buildChatContext(predictionData())
	assert.Contains(t, ctx, "Espresso Beans")
	assert.Contains(t, ctx, "Restock +28")
	assert.Contains(t, ctx, "Spring Festival")
}
