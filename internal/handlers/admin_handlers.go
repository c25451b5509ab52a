package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/missamma/missamma-golang/internal/models"
)

//
// --- Staff/Admin Handlers ---
//

// ordersBetween returns the order count and PAID revenue for a created_at
// window. Reporting only; amounts become float64 at the JSON boundary,
// never earlier.
func (h *Handlers) ordersBetween(start, end time.Time) (int, decimal.Decimal, error) {
	var count int
	err := h.DB.QueryRow(
		"SELECT COUNT(*) FROM orders WHERE created_at >= ? AND created_at < ?",
		start, end).Scan(&count)
	if err != nil {
		return 0, decimal.Zero, err
	}

	var revenue decimal.Decimal
	err = h.DB.QueryRow(
		"SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status = ? AND created_at >= ? AND created_at < ?",
		models.OrderStatusPaid, start, end).Scan(&revenue)
	if err != nil {
		return 0, decimal.Zero, err
	}

	return count, revenue, nil
}

func pctChange(current, previous float64) *float64 {
	if previous == 0 {
		return nil
	}
	change := (current - previous) / previous * 100.0
	return &change
}

// GetAdminSummary is the handler for GET /v1/admin/summary
func (h *Handlers) GetAdminSummary(c *gin.Context) {
	var totalOrders int
	if err := h.DB.QueryRow("SELECT COUNT(*) FROM orders").Scan(&totalOrders); err != nil {
		respondError(c, err)
		return
	}

	var totalRevenue decimal.Decimal
	err := h.DB.QueryRow(
		"SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status = ?",
		models.OrderStatusPaid).Scan(&totalRevenue)
	if err != nil {
		respondError(c, err)
		return
	}

	statusCounts := []gin.H{}
	rows, err := h.DB.Query("SELECT status, COUNT(*) FROM orders GROUP BY status ORDER BY status")
	if err != nil {
		respondError(c, err)
		return
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			rows.Close()
			respondError(c, err)
			return
		}
		statusCounts = append(statusCounts, gin.H{"status": status, "count": count})
	}
	rows.Close()

	// Last 7 days, one bucket per day.
	now := time.Now()
	weekStart := now.AddDate(0, 0, -6).Truncate(24 * time.Hour)
	ordersByDay := []gin.H{}
	rows, err = h.DB.Query(`
		SELECT DATE(created_at) AS day, COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE created_at >= ?
		GROUP BY day
		ORDER BY day`,
		weekStart)
	if err != nil {
		respondError(c, err)
		return
	}
	for rows.Next() {
		var day time.Time
		var count int
		var revenue decimal.Decimal
		if err := rows.Scan(&day, &count, &revenue); err != nil {
			rows.Close()
			respondError(c, err)
			return
		}
		ordersByDay = append(ordersByDay, gin.H{
			"day":     day.Format("2006-01-02"),
			"count":   count,
			"revenue": revenue.InexactFloat64(),
		})
	}
	rows.Close()

	// Week-over-week and month-over-month comparisons.
	ordersLastWeek, incomeLastWeek, err := h.ordersBetween(now.AddDate(0, 0, -7), now)
	if err != nil {
		respondError(c, err)
		return
	}
	ordersPrevWeek, incomePrevWeek, err := h.ordersBetween(now.AddDate(0, 0, -14), now.AddDate(0, 0, -7))
	if err != nil {
		respondError(c, err)
		return
	}
	ordersLastMonth, incomeLastMonth, err := h.ordersBetween(now.AddDate(0, 0, -30), now)
	if err != nil {
		respondError(c, err)
		return
	}
	ordersPrevMonth, incomePrevMonth, err := h.ordersBetween(now.AddDate(0, 0, -60), now.AddDate(0, 0, -30))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_orders":  totalOrders,
		"total_revenue": totalRevenue.InexactFloat64(),
		"status_counts": statusCounts,
		"orders_by_day": ordersByDay,

		"orders_last_week":            ordersLastWeek,
		"orders_prev_week":            ordersPrevWeek,
		"orders_last_week_change_pct": pctChange(float64(ordersLastWeek), float64(ordersPrevWeek)),
		"income_last_week":            incomeLastWeek.InexactFloat64(),
		"income_prev_week":            incomePrevWeek.InexactFloat64(),
		"income_last_week_change_pct": pctChange(incomeLastWeek.InexactFloat64(), incomePrevWeek.InexactFloat64()),

		"orders_last_month":            ordersLastMonth,
		"orders_prev_month":            ordersPrevMonth,
		"orders_last_month_change_pct": pctChange(float64(ordersLastMonth), float64(ordersPrevMonth)),
		"income_last_month":            incomeLastMonth.InexactFloat64(),
		"income_prev_month":            incomePrevMonth.InexactFloat64(),
		"income_last_month_change_pct": pctChange(incomeLastMonth.InexactFloat64(), incomePrevMonth.InexactFloat64()),
	})
}

// ListAllOrders is the handler for GET /v1/admin/orders
func (h *Handlers) ListAllOrders(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT id, customer_id, status, delivery_status, total_amount,
		       gateway_order_id, billing_name, billing_address, billing_phone, created_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT 200`)
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

var adminOrderStatuses = map[string]bool{
	models.OrderStatusShipped:   true,
	models.OrderStatusCompleted: true,
	models.OrderStatusCancelled: true,
}

var deliveryStatuses = map[string]bool{
	models.DeliveryProcessing:     true,
	models.DeliveryShipped:        true,
	models.DeliveryOutForDelivery: true,
	models.DeliveryDelivered:      true,
}

// UpdateOrderStatus is the handler for PATCH /v1/admin/orders/:id
// Staff can move a settled order through fulfilment; they cannot mark an
// order PAID (that belongs to the payment workflow) or touch a PENDING one.
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	orderID := c.Param("id")

	var input struct {
		Status         *string `json:"status"`
		DeliveryStatus *string `json:"delivery_status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid input: " + err.Error()})
		return
	}
	if input.Status == nil && input.DeliveryStatus == nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Nothing to update"})
		return
	}
	if input.Status != nil && !adminOrderStatuses[*input.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid order status"})
		return
	}
	if input.DeliveryStatus != nil && !deliveryStatuses[*input.DeliveryStatus] {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid delivery status"})
		return
	}

	var current string
	err := h.DB.QueryRow("SELECT status FROM orders WHERE id = ?", orderID).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Order not found"})
			return
		}
		respondError(c, err)
		return
	}
	if current == models.OrderStatusPending {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Order has not been paid yet"})
		return
	}

	if input.Status != nil {
		if _, err := h.DB.Exec("UPDATE orders SET status = ? WHERE id = ?", *input.Status, orderID); err != nil {
			respondError(c, err)
			return
		}
	}
	if input.DeliveryStatus != nil {
		if _, err := h.DB.Exec("UPDATE orders SET delivery_status = ? WHERE id = ?", *input.DeliveryStatus, orderID); err != nil {
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order updated"})
}

// ProductInput is the staff payload for creating or updating a product.
type ProductInput struct {
	CategoryID  int64           `json:"category_id" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Slug        string          `json:"slug" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    *string         `json:"image_url"`
	IsActive    bool            `json:"is_active"`
}

func (in *ProductInput) validate() error {
	if in.Price.IsNegative() {
		return errors.New("price must not be negative")
	}
	if in.Stock < 0 {
		return errors.New("stock must not be negative")
	}
	return nil
}

// CreateProduct is the handler for POST /v1/admin/products
func (h *Handlers) CreateProduct(c *gin.Context) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid input: " + err.Error()})
		return
	}
	if err := input.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	result, err := h.DB.Exec(`
		INSERT INTO products (category_id, name, slug, description, price, stock, image_url, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		input.CategoryID, input.Name, input.Slug, input.Description,
		input.Price, input.Stock, input.ImageURL, input.IsActive)
	if err != nil {
		respondError(c, err)
		return
	}
	productID, _ := result.LastInsertId()

	c.JSON(http.StatusCreated, gin.H{"message": "Product created", "productId": productID})
}

// UpdateProduct is the handler for PUT /v1/admin/products/:id
// Stock edits here are inventory corrections; order finalization remains
// the only code path that decrements stock for a sale.
func (h *Handlers) UpdateProduct(c *gin.Context) {
	productID := c.Param("id")

	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid input: " + err.Error()})
		return
	}
	if err := input.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	result, err := h.DB.Exec(`
		UPDATE products
		SET category_id = ?, name = ?, slug = ?, description = ?, price = ?, stock = ?, image_url = ?, is_active = ?
		WHERE id = ?`,
		input.CategoryID, input.Name, input.Slug, input.Description,
		input.Price, input.Stock, input.ImageURL, input.IsActive, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated"})
}

// DeactivateProduct is the handler for DELETE /v1/admin/products/:id
// Products are deactivated, not deleted: order items keep referencing
// them for invoices and history.
func (h *Handlers) DeactivateProduct(c *gin.Context) {
	productID := c.Param("id")

	result, err := h.DB.Exec("UPDATE products SET is_active = 0 WHERE id = ?", productID)
	if err != nil {
		respondError(c, err)
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deactivated"})
}

var staffAppointmentStatuses = map[string]bool{
	models.AppointmentConfirmed: true,
	models.AppointmentCancelled: true,
	models.AppointmentCompleted: true,
}

// UpdateAppointment is the handler for PATCH /v1/admin/appointments/:id
func (h *Handlers) UpdateAppointment(c *gin.Context) {
	appointmentID := c.Param("id")

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid input: " + err.Error()})
		return
	}
	if !staffAppointmentStatuses[input.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid appointment status"})
		return
	}

	result, err := h.DB.Exec("UPDATE appointments SET status = ? WHERE id = ?", input.Status, appointmentID)
	if err != nil {
		respondError(c, err)
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Appointment not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Appointment updated", "status": input.Status})
}
