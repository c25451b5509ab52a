package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order payment statuses. PENDING -> PAID is one-way; wallet payments
// are created as PAID directly.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusPaid      = "PAID"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

// Delivery statuses, tracked independently of payment status.
const (
	DeliveryProcessing     = "PROCESSING"
	DeliveryShipped        = "SHIPPED"
	DeliveryOutForDelivery = "OUT_FOR_DELIVERY"
	DeliveryDelivered      = "DELIVERED"
)

// Order is the model for the 'orders' table.
// GatewayOrderID correlates a PENDING order with the remote payment
// intent; PaymentID and PaymentSignature are recorded at verification.
type Order struct {
	ID               int64           `json:"id" db:"id"`
	CustomerID       int64           `json:"customerId" db:"customer_id"`
	Status           string          `json:"status" db:"status"`
	DeliveryStatus   string          `json:"deliveryStatus" db:"delivery_status"`
	TotalAmount      decimal.Decimal `json:"totalAmount" db:"total_amount"`
	GatewayOrderID   *string         `json:"gatewayOrderId,omitempty" db:"gateway_order_id"`
	PaymentID        *string         `json:"paymentId,omitempty" db:"payment_id"`
	PaymentSignature *string         `json:"-" db:"payment_signature"`
	BillingName      string          `json:"billingName" db:"billing_name"`
	BillingAddress   string          `json:"billingAddress" db:"billing_address"`
	BillingPhone     string          `json:"billingPhone" db:"billing_phone"`
	CreatedAt        time.Time       `json:"createdAt" db:"created_at"`
}

// OrderItem is the model for the 'order_items' table
type OrderItem struct {
	ID        int64           `json:"id" db:"id"`
	OrderID   int64           `json:"orderId" db:"order_id"`
	ProductID int64           `json:"productId" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Price     decimal.Decimal `json:"price" db:"price"` // Product price at purchase time
}

// LineTotal is price x quantity in exact decimal arithmetic.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
