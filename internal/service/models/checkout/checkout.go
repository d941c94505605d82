package checkout

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/amrelsaid4/Restaurant/internal/service/models/money"
)

// CartItem is one requested line in a checkout cart.
type CartItem struct {
	DishID              int64  `json:"dish_id"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"special_instructions,omitempty"`
}

// Intent is the durable record of a checkout, serialized into the payment
// processor's session metadata at creation time. The processor, not local
// storage, carries it across the external redirect; it is the sole source
// of truth for reconstructing the order after payment.
type Intent struct {
	CustomerID          int64
	UserID              int64
	UserEmail           string
	DeliveryAddress     string
	SpecialInstructions string
	Items               []CartItem
	TotalAmount         money.Money
}

// Session is the processor-hosted checkout session returned to the client.
type Session struct {
	ID          string      `json:"session_id"`
	CheckoutURL string      `json:"checkout_url"`
	TotalAmount money.Money `json:"total_amount"`
}

// Metadata keys used in the processor session. They must round-trip through
// the external system untouched.
const (
	metaCustomerID          = "customer_id"
	metaUserID              = "user_id"
	metaUserEmail           = "user_email"
	metaDeliveryAddress     = "delivery_address"
	metaSpecialInstructions = "special_instructions"
	metaItems               = "items"
	metaTotalAmount         = "total_amount"
)

// ToMetadata serializes the intent into a flat string map.
func (i Intent) ToMetadata() (map[string]string, error) {
	itemsJSON, err := json.Marshal(i.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal checkout items: %w", err)
	}

	return map[string]string{
		metaCustomerID:          strconv.FormatInt(i.CustomerID, 10),
		metaUserID:              strconv.FormatInt(i.UserID, 10),
		metaUserEmail:           i.UserEmail,
		metaDeliveryAddress:     i.DeliveryAddress,
		metaSpecialInstructions: i.SpecialInstructions,
		metaItems:               string(itemsJSON),
		metaTotalAmount:         i.TotalAmount.String(),
	}, nil
}

// IntentFromMetadata reconstructs an intent from processor metadata.
func IntentFromMetadata(meta map[string]string) (Intent, error) {
	customerID, err := strconv.ParseInt(meta[metaCustomerID], 10, 64)
	if err != nil {
		return Intent{}, fmt.Errorf("metadata is missing a valid customer id: %w", err)
	}

	// User id is informational; a missing value does not block reconciliation.
	userID, _ := strconv.ParseInt(meta[metaUserID], 10, 64)

	total, err := money.Parse(meta[metaTotalAmount])
	if err != nil {
		return Intent{}, fmt.Errorf("metadata has an invalid total amount: %w", err)
	}

	var items []CartItem
	if raw := meta[metaItems]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			items = nil
		}
	}

	return Intent{
		CustomerID:          customerID,
		UserID:              userID,
		UserEmail:           meta[metaUserEmail],
		DeliveryAddress:     meta[metaDeliveryAddress],
		SpecialInstructions: meta[metaSpecialInstructions],
		Items:               items,
		TotalAmount:         total,
	}, nil
}
