package cart

import (
	"github.com/shopspring/decimal"

	"github.com/careplus/pharmacy-api/internal/model"
)

// Pricing rules. Shipping is a flat fee waived once the subtotal reaches
// the free-shipping threshold (boundary inclusive); tax is a flat
// percentage of the subtotal; discount codes are a fixed case-sensitive
// table of percentage rates applied to the subtotal.

var (
	shippingFee           = decimal.NewFromFloat(5.99)
	freeShippingThreshold = decimal.NewFromInt(50)
	taxRate               = decimal.NewFromFloat(0.08)
)

var discountCodes = map[string]decimal.Decimal{
	"HEALTH50": decimal.NewFromFloat(0.5),
	"SAVE20":   decimal.NewFromFloat(0.2),
	"FIRST10":  decimal.NewFromFloat(0.1),
}

func Subtotal(items []model.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range items {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

func Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(freeShippingThreshold) {
		return decimal.Zero
	}
	return shippingFee
}

func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(taxRate)
}

func TotalItems(items []model.CartLine) int {
	n := 0
	for _, line := range items {
		n += line.Quantity
	}
	return n
}

func hasPrescriptionItems(items []model.CartLine) bool {
	for _, line := range items {
		if line.Prescription {
			return true
		}
	}
	return false
}
