package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amrelsaid4/Restaurant/internal/service/models/money"
)

func TestMetadataRoundTrip(t *testing.T) {
	intent := Intent{
		CustomerID:          7,
		UserID:              12,
		UserEmail:           "alice@example.com",
		DeliveryAddress:     "123 Main Street",
		SpecialInstructions: "ring the bell",
		Items: []CartItem{
			{DishID: 1, Quantity: 2},
			{DishID: 3, Quantity: 1, SpecialInstructions: "no onions"},
		},
		TotalAmount: money.FromCents(2899),
	}

	meta, err := intent.ToMetadata()
	require.NoError(t, err)

	got, err := IntentFromMetadata(meta)
	require.NoError(t, err)
	assert.Equal(t, intent, got)
}

func TestIntentFromMetadataRequiresCustomer(t *testing.T) {
	_, err := IntentFromMetadata(map[string]string{
		"total_amount": "10.00",
	})
	assert.Error(t, err)
}

func TestIntentFromMetadataRequiresTotal(t *testing.T) {
	_, err := IntentFromMetadata(map[string]string{
		"customer_id": "7",
	})
	assert.Error(t, err)
}

func TestIntentFromMetadataToleratesBadItems(t *testing.T) {
	got, err := IntentFromMetadata(map[string]string{
		"customer_id":  "7",
		"total_amount": "10.00",
		"items":        "{not json",
	})
	require.NoError(t, err)
	assert.Nil(t, got.Items)
}
