package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/missamma/missamma-golang/internal/checkout"
	"github.com/missamma/missamma-golang/internal/models"
)

//
// --- Invoice Handlers (read-only) ---
//

var errInvoiceNotGenerated = errors.New("invoice not generated for this order")

// invoiceLine is one rendered invoice row.
type invoiceLine struct {
	ProductName string
	Quantity    int
	Price       decimal.Decimal
	LineTotal   decimal.Decimal
}

// invoiceView is everything the invoice templates need. Cashback is
// recomputed for display only; it was applied once at verification.
type invoiceView struct {
	Order        models.Order
	Invoice      models.Invoice
	CustomerName string
	Items        []invoiceLine
	HasCashback  bool
	Cashback     decimal.Decimal
}

// loadInvoiceView fetches the order (owner-checked), its invoice and its
// items. A missing invoice means the order never settled.
func (h *Handlers) loadInvoiceView(q Querier, orderID, customerID int64) (*invoiceView, error) {
	view := &invoiceView{}

	err := q.QueryRow(`
		SELECT o.id, o.customer_id, o.status, o.delivery_status, o.total_amount,
		       o.gateway_order_id, o.billing_name, o.billing_address, o.billing_phone,
		       o.created_at, u.full_name
		FROM orders o
		JOIN users u ON o.customer_id = u.id
		WHERE o.id = ? AND o.customer_id = ?`,
		orderID, customerID,
	).Scan(
		&view.Order.ID, &view.Order.CustomerID, &view.Order.Status,
		&view.Order.DeliveryStatus, &view.Order.TotalAmount, &view.Order.GatewayOrderID,
		&view.Order.BillingName, &view.Order.BillingAddress, &view.Order.BillingPhone,
		&view.Order.CreatedAt, &view.CustomerName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("fetch order: %w", err)
	}

	err = q.QueryRow(
		"SELECT id, order_id, invoice_number, generated_at FROM invoices WHERE order_id = ?",
		orderID,
	).Scan(&view.Invoice.ID, &view.Invoice.OrderID, &view.Invoice.InvoiceNumber, &view.Invoice.GeneratedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errInvoiceNotGenerated
		}
		return nil, fmt.Errorf("fetch invoice: %w", err)
	}

	rows, err := q.Query(`
		SELECT oi.quantity, oi.price, p.name
		FROM order_items oi
		JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = ?`,
		orderID)
	if err != nil {
		return nil, fmt.Errorf("fetch order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line invoiceLine
		if err := rows.Scan(&line.Quantity, &line.Price, &line.ProductName); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		line.LineTotal = line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		view.Items = append(view.Items, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Cashback applies to gateway-paid, settled orders only.
	if view.Order.GatewayOrderID != nil && view.Order.Status == models.OrderStatusPaid {
		view.HasCashback = true
		view.Cashback = checkout.Cashback(view.Order.TotalAmount)
	}

	return view, nil
}

// GetInvoice is the handler for GET /v1/payments/invoice/:order_id
func (h *Handlers) GetInvoice(c *gin.Context) {
	customerID := currentUserID(c)

	orderID, err := strconv.ParseInt(c.Param("order_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid order id"})
		return
	}

	view, err := h.loadInvoiceView(h.DB, orderID, customerID)
	if err != nil {
		h.respondInvoiceError(c, err)
		return
	}

	items := make([]gin.H, 0, len(view.Items))
	for _, line := range view.Items {
		items = append(items, gin.H{
			"productName": line.ProductName,
			"quantity":    line.Quantity,
			"price":       line.Price.StringFixed(2),
			"lineTotal":   line.LineTotal.StringFixed(2),
		})
	}

	resp := gin.H{
		"invoiceNumber": view.Invoice.InvoiceNumber,
		"generatedAt":   view.Invoice.GeneratedAt,
		"order":         view.Order,
		"customerName":  view.CustomerName,
		"items":         items,
		"totalAmount":   view.Order.TotalAmount.StringFixed(2),
	}
	if view.HasCashback {
		resp["cashback"] = view.Cashback.StringFixed(2)
	}

	c.JSON(http.StatusOK, resp)
}

// RenderInvoice is the handler for GET /v1/payments/invoice/:order_id/html
// It returns a printable HTML document. Owner-checked like the JSON
// variant; there is deliberately no look-up-by-id-only route.
func (h *Handlers) RenderInvoice(c *gin.Context) {
	customerID := currentUserID(c)

	orderID, err := strconv.ParseInt(c.Param("order_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid order id"})
		return
	}

	view, err := h.loadInvoiceView(h.DB, orderID, customerID)
	if err != nil {
		h.respondInvoiceError(c, err)
		return
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := renderInvoiceHTML(c.Writer, view); err != nil {
		respondError(c, err)
	}
}

func (h *Handlers) respondInvoiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Order not found"})
	case errors.Is(err, errInvoiceNotGenerated):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invoice not generated for this order."})
	default:
		respondError(c, err)
	}
}

var invoiceTemplate = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Invoice {{.Invoice.InvoiceNumber}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
table { border-collapse: collapse; width: 100%; margin-top: 1rem; }
th, td { border: 1px solid #ccc; padding: 0.5rem; text-align: left; }
.totals { margin-top: 1rem; text-align: right; }
.cashback { color: #2a7a2a; }
</style>
</head>
<body>
<h1>Invoice {{.Invoice.InvoiceNumber}}</h1>
<p>Order #{{.Order.ID}} &middot; {{.Order.CreatedAt.Format "02 Jan 2006"}} &middot; Status: {{.Order.Status}}</p>
<h2>Billed To</h2>
<p>{{.Order.BillingName}}<br>{{.Order.BillingAddress}}<br>{{.Order.BillingPhone}}</p>
<table>
<tr><th>Product</th><th>Qty</th><th>Unit Price</th><th>Line Total</th></tr>
{{range .Items}}<tr><td>{{.ProductName}}</td><td>{{.Quantity}}</td><td>{{.Price.StringFixed 2}}</td><td>{{.LineTotal.StringFixed 2}}</td></tr>
{{end}}</table>
<div class="totals">
<p><strong>Total: {{.Order.TotalAmount.StringFixed 2}}</strong></p>
{{if .HasCashback}}<p class="cashback">Wallet cashback earned: {{.Cashback.StringFixed 2}}</p>{{end}}
</div>
</body>
</html>
`))

// renderInvoiceHTML writes the printable invoice document.
func renderInvoiceHTML(w io.Writer, view *invoiceView) error {
	return invoiceTemplate.Execute(w, view)
}
