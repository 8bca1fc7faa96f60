package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/adiwidodo/tokokita-backend/internal/cart"
)

// Pricing is the money breakdown frozen into the order at commit.
type Pricing struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Total        decimal.Decimal `json:"total"`
}

// ComputePricing derives the order totals from the cart lines and the chosen
// shipping rate. Pure function: line totals come from the lines themselves,
// total is always subtotal plus shipping.
func ComputePricing(lines []cart.Line, shippingCost decimal.Decimal) Pricing {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return Pricing{
		Subtotal:     subtotal,
		ShippingCost: shippingCost,
		Total:        subtotal.Add(shippingCost),
	}
}
