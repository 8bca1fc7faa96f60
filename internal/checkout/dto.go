package checkout

import (
	"github.com/adiwidodo/tokokita-backend/pkg/types"
)

// Input is the checkout form payload. The address fields carry the same
// length bounds the storefront enforces client-side.
type Input struct {
	ShippingAddress types.ShippingAddress `json:"shipping_address" validate:"required"`
	ShippingService string                `json:"shipping_service" validate:"required"`
	PaymentMethod   string                `json:"payment_method" validate:"required"`
	Notes           *string               `json:"notes,omitempty" validate:"omitempty,max=500"`
}
