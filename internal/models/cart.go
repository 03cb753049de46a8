package models

import "github.com/google/uuid"

type ItemKind string

const (
	ItemKindUnit      ItemKind = "unit"
	ItemKindWeighable ItemKind = "weighable"
)

// CartItem is one line of an in-progress sale. Kind decides which of
// Quantity or WeightKg is authoritative; the constructors below are the only
// way a line should come into existence, so the two never mix.
type CartItem struct {
	Product  Product  `json:"product"`
	Kind     ItemKind `json:"kind"`
	Quantity int      `json:"quantity"`
	WeightKg float64  `json:"weight_kg"`
	Discount float64  `json:"discount"`
	Subtotal float64  `json:"subtotal"`
}

// NewUnitItem creates a unit-priced line. Subtotal is filled in by the cart
// service via the pricing package.
func NewUnitItem(product Product, quantity int) CartItem {
	return CartItem{
		Product:  product,
		Kind:     ItemKindUnit,
		Quantity: quantity,
	}
}

// NewWeighableItem creates a weight-priced line. A zero weight means the line
// is waiting for a scale reading and must be completed before checkout.
func NewWeighableItem(product Product, weightKg float64) CartItem {
	return CartItem{
		Product:  product,
		Kind:     ItemKindWeighable,
		WeightKg: weightKg,
	}
}

// Cart is transient, owned by a single operator session. It is never
// persisted; checkout consumes a snapshot of it. The payment selections live
// here so that "start new sale" resets cart and selections as one unit.
type Cart struct {
	OperatorID         uuid.UUID   `json:"operator_id"`
	Items              []CartItem  `json:"items"`
	DiscountPercentage float64     `json:"discount_percentage"`
	PaymentType        PaymentType `json:"payment_type"`
	ReceivedAmount     float64     `json:"received_amount"`
}

// FindLine returns the index of the line holding the given product, or -1.
// Adding a product already in the cart merges into its existing line.
func (c *Cart) FindLine(productID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			return i
		}
	}

	return -1
}

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	WeightKg  float64   `json:"weight_kg" validate:"gte=0"`
}

type AdjustCartItemRequest struct {
	LineIndex int `json:"line_index" validate:"gte=0"`
	Delta     int `json:"delta" validate:"required"`
}

type CheckoutSelectionRequest struct {
	PaymentType        PaymentType `json:"payment_type" validate:"required,oneof=cash pix credit_card debit_card voucher"`
	ReceivedAmount     float64     `json:"received_amount" validate:"gte=0"`
	DiscountPercentage float64     `json:"discount_percentage" validate:"gte=0,lte=100"`
}

// CartView is the cart plus its derived amounts, for live display during
// checkout.
type CartView struct {
	Cart           *Cart   `json:"cart"`
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	Total          float64 `json:"total"`
	Change         float64 `json:"change"`
}
