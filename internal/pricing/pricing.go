// Package pricing holds the arithmetic of a sale. Everything here is a pure
// function over cart data; clamping stands in for error returns so callers
// never have to branch.
package pricing

import "github.com/pdvlabs/pdv-sales-platform/internal/models"

// WeightStepKg is the mass added or removed by one press of the +/- stepper
// on a weighable line. Direct scale readings bypass it.
const WeightStepKg = 0.1

// LineSubtotal prices a single cart line. Weighable products are quoted per
// gram but weighed in kilograms, hence the x1000. Negative or missing price
// fields count as zero.
func LineSubtotal(item models.CartItem) float64 {
	if item.Kind == models.ItemKindWeighable {
		return item.WeightKg * clampPrice(item.Product.PricePerGram) * 1000
	}

	return float64(item.Quantity) * clampPrice(item.Product.UnitPrice)
}

func CartSubtotal(cart *models.Cart) float64 {
	var sum float64

	for i := range cart.Items {
		sum += cart.Items[i].Subtotal
	}

	return sum
}

func DiscountAmount(cart *models.Cart, pct float64) float64 {
	return CartSubtotal(cart) * pct / 100
}

func Total(cart *models.Cart, pct float64) float64 {
	return CartSubtotal(cart) - DiscountAmount(cart, pct)
}

// ChangeDue is never negative; a shortfall is a validation concern upstream,
// not a negative change.
func ChangeDue(received, total float64) float64 {
	if received <= total {
		return 0
	}

	return received - total
}

func clampPrice(p float64) float64 {
	if p < 0 {
		return 0
	}

	return p
}
