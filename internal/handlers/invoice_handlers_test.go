package handlers

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/missamma/missamma-golang/internal/models"
)

func sampleInvoiceView(gatewayPaid bool) *invoiceView {
	gatewayOrderID := "order_remote_1"
	view := &invoiceView{
		Order: models.Order{
			ID:             42,
			Status:         models.OrderStatusPaid,
			TotalAmount:    decimal.RequireFromString("259.97"),
			BillingName:    "Asha Rao",
			BillingAddress: "12 Temple Street, Chennai",
			BillingPhone:   "9000000000",
			CreatedAt:      time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		},
		Invoice: models.Invoice{
			OrderID:       42,
			InvoiceNumber: "MSM-7K2QX9AB",
			GeneratedAt:   time.Date(2026, 3, 14, 10, 5, 0, 0, time.UTC),
		},
		CustomerName: "Asha Rao",
		Items: []invoiceLine{
			{ProductName: "Rose Soap", Quantity: 2, Price: decimal.RequireFromString("100.00"), LineTotal: decimal.RequireFromString("200.00")},
			{ProductName: "Face Cream", Quantity: 3, Price: decimal.RequireFromString("19.99"), LineTotal: decimal.RequireFromString("59.97")},
		},
	}
	if gatewayPaid {
		view.Order.GatewayOrderID = &gatewayOrderID
		view.HasCashback = true
		view.Cashback = decimal.RequireFromString("13.00")
	}
	return view
}

func TestRenderInvoiceHTML_GatewayPaidShowsCashback(t *testing.T) {
	var out strings.Builder
	require.NoError(t, renderInvoiceHTML(&out, sampleInvoiceView(true)))
	html := out.String()

	assert.Contains(t, html, "MSM-7K2QX9AB")
	assert.Contains(t, html, "Order #42")
	assert.Contains(t, html, "Asha Rao")
	assert.Contains(t, html, "Rose Soap")
	assert.Contains(t, html, "200.00")
	assert.Contains(t, html, "Total: 259.97")
	assert.Contains(t, html, "cashback")
	assert.Contains(t, html, "13.00")
}

func TestRenderInvoiceHTML_WalletPaidHasNoCashback(t *testing.T) {
	var out strings.Builder
	require.NoError(t, renderInvoiceHTML(&out, sampleInvoiceView(false)))
	html := out.String()

	assert.Contains(t, html, "MSM-7K2QX9AB")
	assert.NotContains(t, html, "cashback earned")
}

func TestRenderInvoiceHTML_EscapesCustomerInput(t *testing.T) {
	view := sampleInvoiceView(false)
	view.Order.BillingName = `<script>alert("x")</script>`

	var out strings.Builder
	require.NoError(t, renderInvoiceHTML(&out, view))

	assert.NotContains(t, out.String(), "<script>alert")
}
