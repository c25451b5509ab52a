package models

import "time"

// Invoice is the model for the 'invoices' table. One-to-one with an
// order; minted exactly once at settlement and immutable afterwards.
// invoice_number carries a unique index.
type Invoice struct {
	ID            int64     `json:"id" db:"id"`
	OrderID       int64     `json:"orderId" db:"order_id"`
	InvoiceNumber string    `json:"invoiceNumber" db:"invoice_number"`
	GeneratedAt   time.Time `json:"generatedAt" db:"generated_at"`
}
