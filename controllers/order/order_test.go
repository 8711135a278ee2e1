package orderControllers

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raihanetx/Next-v/models"
	"github.com/raihanetx/Next-v/pricing"
)

func validRequest() PlaceOrderRequest {
	return PlaceOrderRequest{
		CustomerInfo: models.CustomerInfo{Name: "Rahim", Phone: "01700000000", Email: "rahim@example.com"},
		PaymentInfo:  models.PaymentInfo{Method: "bkash", TrxID: "TX123"},
		Items:        []pricing.Item{{ProductID: 1, TierIndex: 0, Quantity: 1}},
	}
}

func TestValidateCheckout(t *testing.T) {
	req := validRequest()
	assert.NoError(t, ValidateCheckout(&req))

	missingName := validRequest()
	missingName.CustomerInfo.Name = ""
	assert.Error(t, ValidateCheckout(&missingName))

	missingPhone := validRequest()
	missingPhone.CustomerInfo.Phone = ""
	assert.Error(t, ValidateCheckout(&missingPhone))

	missingEmail := validRequest()
	missingEmail.CustomerInfo.Email = ""
	assert.Error(t, ValidateCheckout(&missingEmail))

	missingMethod := validRequest()
	missingMethod.PaymentInfo.Method = ""
	assert.Error(t, ValidateCheckout(&missingMethod))

	missingTrx := validRequest()
	missingTrx.PaymentInfo.TrxID = ""
	assert.Error(t, ValidateCheckout(&missingTrx))

	emptyCart := validRequest()
	emptyCart.Items = nil
	assert.Error(t, ValidateCheckout(&emptyCart))
}

func TestNewOrderID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewOrderID()
		assert.True(t, strings.HasPrefix(id, "ORD"))
		assert.False(t, seen[id], "order id collision: %s", id)
		seen[id] = true
	}
}

func TestMapOrderStatus(t *testing.T) {
	for _, raw := range []string{"Pending", "pending", "CONFIRMED", "cancelled"} {
		_, err := mapOrderStatus(raw)
		assert.NoError(t, err, raw)
	}
	_, err := mapOrderStatus("shipped")
	assert.Error(t, err)
}

func TestBuildItemsSnapshotsTier(t *testing.T) {
	resolver := pricing.MapResolver{
		1: {ID: 1, Name: "Canva Pro", Category: "Design Tools", Tiers: []pricing.Tier{
			{Duration: "1 Month", Price: 200},
			{Duration: "1 Year", Price: 1500},
		}},
	}

	items, err := BuildItems([]pricing.Item{{ProductID: 1, TierIndex: 1, Quantity: 2}}, resolver)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Canva Pro", items[0].Name)
	assert.Equal(t, 2, items[0].Quantity)

	var snap models.PricingSnapshot
	require.NoError(t, json.Unmarshal(items[0].Pricing, &snap))
	assert.Equal(t, "1 Year", snap.Duration)
	assert.Equal(t, 1500, snap.Price)

	// Editing the live product afterwards must not change the snapshot.
	p := resolver[1]
	p.Tiers[1].Price = 9999
	p.Name = "Renamed"
	resolver[1] = p

	require.NoError(t, json.Unmarshal(items[0].Pricing, &snap))
	assert.Equal(t, 1500, snap.Price)
	assert.Equal(t, "Canva Pro", items[0].Name)
}

func TestBuildItemsUnknownProduct(t *testing.T) {
	_, err := BuildItems([]pricing.Item{{ProductID: 42, TierIndex: 0, Quantity: 1}}, pricing.MapResolver{})
	assert.ErrorIs(t, err, pricing.ErrUnknownProduct)
}

func TestTotalsMatch(t *testing.T) {
	computed := pricing.Totals{Subtotal: 4450, Discount: 445, Total: 4005}
	assert.True(t, totalsMatch(models.OrderTotals{Subtotal: 4450, Discount: 445, Total: 4005}, computed))
	assert.True(t, totalsMatch(models.OrderTotals{Subtotal: 4450.001, Discount: 445, Total: 4005}, computed))
	assert.False(t, totalsMatch(models.OrderTotals{Subtotal: 4450, Discount: 445, Total: 4004}, computed))
}
