package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Shape(t *testing.T) {
	products := Generate(1)

	want := 0
	for _, names := range productNames {
		want += len(names)
	}
	require.Len(t, products, want)

	for i, p := range products {
		assert.Equal(t, int64(i+1), p.ID, "ids are a monotonic counter")
		assert.NotEmpty(t, p.Title)
		assert.Contains(t, brands, p.Brand)
		assert.Contains(t, categories, p.Category)
		assert.True(t, p.Price.IsPositive())
		assert.GreaterOrEqual(t, p.Rating, 3.0)
		assert.LessOrEqual(t, p.Rating, 5.0)
		assert.GreaterOrEqual(t, p.Reviews, 5)
		assert.NotEmpty(t, p.Tags)
		if p.Category != "medicines" {
			assert.False(t, p.Prescription)
		}
	}
}

func TestGenerate_DiscountInvariant(t *testing.T) {
	products := Generate(2)

	sawDiscount := false
	for _, p := range products {
		if p.Discount == 0 {
			assert.Nil(t, p.OriginalPrice, "%s: no discount means no original price", p.Title)
			continue
		}
		sawDiscount = true
		require.NotNil(t, p.OriginalPrice, p.Title)
		assert.GreaterOrEqual(t, p.Discount, 10)
		assert.LessOrEqual(t, p.Discount, 40)
		assert.True(t, p.Price.LessThan(*p.OriginalPrice), p.Title)

		// Price tracks originalPrice * (1 - discount/100); the stored percent
		// is rounded, so allow a rounding-scale difference.
		expected := p.OriginalPrice.Mul(decimal.NewFromInt(100 - int64(p.Discount))).Div(decimal.NewFromInt(100))
		diff := p.Price.Sub(expected).Abs()
		tolerance := p.OriginalPrice.Mul(decimal.NewFromFloat(0.01))
		assert.True(t, diff.LessThanOrEqual(tolerance),
			"%s: price %s vs expected %s", p.Title, p.Price, expected)
	}
	assert.True(t, sawDiscount, "some products should carry a discount")
}

func TestGenerate_Reproducible(t *testing.T) {
	a := Generate(7)
	b := Generate(7)
	assert.Equal(t, a, b)
}
