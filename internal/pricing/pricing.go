package pricing

import "math"

// Total computes the final order amount. The discount is rounded to the
// nearest currency unit before subtraction; shipping is added after the
// discount and is never discounted.
func Total(subtotal, discountPct, shipping float64) float64 {
	discount := math.Round(subtotal * discountPct / 100)
	return math.Round(subtotal-discount) + shipping
}
