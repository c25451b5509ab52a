package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/missamma/missamma-golang/internal/models"
)

//
// --- Order Retrieval Handlers ---
//

// OrderItemDetail extends the base OrderItem to include product info
type OrderItemDetail struct {
	models.OrderItem
	ProductName string `json:"productName"`
}

// GetMyOrders is the handler for GET /v1/orders
// Only settled orders appear in the customer's history.
func (h *Handlers) GetMyOrders(c *gin.Context) {
	customerID := currentUserID(c)

	query := `
		SELECT id, customer_id, status, delivery_status, total_amount,
		       gateway_order_id, billing_name, billing_address, billing_phone, created_at
		FROM orders
		WHERE customer_id = ? AND status IN (?, ?, ?)
		ORDER BY created_at DESC
	`

	rows, err := h.DB.Query(query, customerID,
		models.OrderStatusPaid, models.OrderStatusShipped, models.OrderStatusCompleted)
	if err != nil {
		respondError(c, err)
		return
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.Status, &o.DeliveryStatus,
			&o.TotalAmount, &o.GatewayOrderID, &o.BillingName, &o.BillingAddress,
			&o.BillingPhone, &o.CreatedAt); err != nil {
			respondError(c, err)
			return
		}
		orders = append(orders, o)
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetOrderDetails is the handler for GET /v1/orders/:id
func (h *Handlers) GetOrderDetails(c *gin.Context) {
	customerID := currentUserID(c)
	orderID := c.Param("id")

	var o models.Order
	queryOrder := `
		SELECT id, customer_id, status, delivery_status, total_amount,
		       gateway_order_id, billing_name, billing_address, billing_phone, created_at
		FROM orders
		WHERE id = ? AND customer_id = ?
	`
	err := h.DB.QueryRow(queryOrder, orderID, customerID).Scan(
		&o.ID, &o.CustomerID, &o.Status, &o.DeliveryStatus, &o.TotalAmount,
		&o.GatewayOrderID, &o.BillingName, &o.BillingAddress, &o.BillingPhone, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Order not found"})
			return
		}
		respondError(c, err)
		return
	}

	queryItems := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price, p.name
		FROM order_items oi
		JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = ?
	`
	rows, err := h.DB.Query(queryItems, o.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	defer rows.Close()

	items := []OrderItemDetail{}
	for rows.Next() {
		var item OrderItemDetail
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID,
			&item.Quantity, &item.Price, &item.ProductName); err != nil {
			respondError(c, err)
			return
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, gin.H{
		"order": o,
		"items": items,
	})
}
