package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/missamma/missamma-golang/internal/models"
)

func testProduct(id int64, name, price string, stock int) models.Product {
	return models.Product{
		ID:       id,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	}
}

func TestValidateCart_ComputesExactTotal(t *testing.T) {
	products := map[int64]models.Product{
		1: testProduct(1, "Rose Soap", "100.00", 5),
		2: testProduct(2, "Face Cream", "19.99", 10),
	}
	lines := []CartLine{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 3},
	}

	reserved, total, err := ValidateCart(lines, products)
	require.NoError(t, err)
	require.Len(t, reserved, 2)

	assert.True(t, total.Equal(decimal.RequireFromString("259.97")), "got total %s", total)
	assert.True(t, reserved[0].LineTotal().Equal(decimal.RequireFromString("200.00")))
	assert.True(t, reserved[1].LineTotal().Equal(decimal.RequireFromString("59.97")))
}

func TestValidateCart_EmptyCart(t *testing.T) {
	_, _, err := ValidateCart(nil, map[int64]models.Product{})
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestValidateCart_UnknownProduct(t *testing.T) {
	products := map[int64]models.Product{1: testProduct(1, "Rose Soap", "100.00", 5)}

	_, _, err := ValidateCart([]CartLine{{ProductID: 99, Quantity: 1}}, products)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Contains(t, err.Error(), "99")
}

func TestValidateCart_InactiveProduct(t *testing.T) {
	p := testProduct(1, "Rose Soap", "100.00", 5)
	p.IsActive = false
	products := map[int64]models.Product{1: p}

	_, _, err := ValidateCart([]CartLine{{ProductID: 1, Quantity: 1}}, products)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestValidateCart_NonPositiveQuantity(t *testing.T) {
	products := map[int64]models.Product{1: testProduct(1, "Rose Soap", "100.00", 5)}

	for _, qty := range []int{0, -3} {
		_, _, err := ValidateCart([]CartLine{{ProductID: 1, Quantity: qty}}, products)
		assert.ErrorIs(t, err, ErrInvalidQuantity, "quantity %d", qty)
	}
}

func TestValidateCart_InsufficientStock(t *testing.T) {
	products := map[int64]models.Product{1: testProduct(1, "Rose Soap", "100.00", 5)}

	reserved, total, err := ValidateCart([]CartLine{{ProductID: 1, Quantity: 6}}, products)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Contains(t, err.Error(), "requested 6, available 5")
	assert.Nil(t, reserved)
	assert.True(t, total.IsZero())
}

func TestValidateCart_OneBadLineFailsWholeCart(t *testing.T) {
	products := map[int64]models.Product{
		1: testProduct(1, "Rose Soap", "100.00", 5),
		2: testProduct(2, "Face Cream", "19.99", 1),
	}
	lines := []CartLine{
		{ProductID: 1, Quantity: 1},
		{ProductID: 2, Quantity: 2}, // over stock
	}

	reserved, total, err := ValidateCart(lines, products)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Nil(t, reserved)
	assert.True(t, total.IsZero())
}

func TestCashback(t *testing.T) {
	cases := []struct {
		total, want string
	}{
		{"1000.00", "50.00"},
		{"200.00", "10.00"},
		{"99.99", "5.00"}, // 4.9995 rounds up
		{"0.10", "0.00"},  // 0.005 ties to even: 0.00
		{"0.30", "0.02"},  // 0.015 ties to even: 0.02
		{"0.50", "0.02"},  // 0.025 ties to even: 0.02
		{"0.00", "0.00"},
	}
	for _, tc := range cases {
		got := Cashback(decimal.RequireFromString(tc.total))
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
			"cashback of %s: got %s, want %s", tc.total, got, tc.want)
	}
}

func TestNewInvoiceNumber_Format(t *testing.T) {
	number, err := NewInvoiceNumber()
	require.NoError(t, err)

	assert.Len(t, number, len(invoicePrefix)+invoiceSuffixLen)
	assert.Equal(t, invoicePrefix, number[:len(invoicePrefix)])
	for _, ch := range number[len(invoicePrefix):] {
		assert.Contains(t, invoiceAlphabet, string(ch))
	}
}

func TestNewInvoiceNumber_NoEasyCollisions(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 2000; i++ {
		number, err := NewInvoiceNumber()
		require.NoError(t, err)
		assert.False(t, seen[number], "duplicate invoice number %s after %d mints", number, i)
		seen[number] = true
	}
}
