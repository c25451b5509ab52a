package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/missamma/missamma-golang/internal/checkout"
	"github.com/missamma/missamma-golang/internal/models"
)

//
// --- Payment Handlers ---
//

// checkoutInput is the shared request body for both payment paths.
type checkoutInput struct {
	CartItems      []checkout.CartLine `json:"cart_items"`
	BillingName    string              `json:"billing_name"`
	BillingAddress string              `json:"billing_address"`
	BillingPhone   string              `json:"billing_phone"`
}

// validate fast-fails before any other work happens.
func (in *checkoutInput) validate() error {
	if len(in.CartItems) == 0 {
		return fmt.Errorf("%w: cart_items not provided", checkout.ErrCartEmpty)
	}
	if strings.TrimSpace(in.BillingName) == "" ||
		strings.TrimSpace(in.BillingAddress) == "" ||
		strings.TrimSpace(in.BillingPhone) == "" {
		return errors.New("billing name, address and phone are required")
	}
	return nil
}

// CreateOrder is the handler for POST /v1/payments/create-order.
//
// Create phase of the gateway path: validate the cart (advisory, no
// mutation), create the remote gateway order for the computed total, and
// only then persist the local PENDING order, its items and the stock
// decrements in one serializable transaction. If the gateway call fails,
// nothing is persisted.
func (h *Handlers) CreateOrder(c *gin.Context) {
	customerID := currentUserID(c)

	var input checkoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body: " + err.Error()})
		return
	}
	if err := input.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	// 1. --- Advisory reservation pass (no locks, no mutation) ---
	products, err := fetchCartProducts(h.DB, input.CartItems, false)
	if err != nil {
		respondError(c, err)
		return
	}
	_, total, err := checkout.ValidateCart(input.CartItems, products)
	if err != nil {
		respondError(c, err)
		return
	}

	// 2. --- Create the remote gateway order first ---
	// Local state is only written once the gateway has accepted the
	// intent; a gateway failure leaves no trace.
	amountMinor := total.Shift(2).IntPart()
	receipt := "rcpt_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]

	gatewayOrderID, err := h.Gateway.CreateOrder(c.Request.Context(), amountMinor, "INR", receipt)
	if err != nil {
		respondError(c, err)
		return
	}

	// 3. --- Persist order + items + stock decrement atomically ---
	orderID, err := h.persistPendingOrder(c, customerID, gatewayOrderID, input)
	if err != nil {
		// The remote order now exists with no local counterpart. That
		// divergence is accepted but must never be silent.
		log.Printf("RECONCILE: gateway order %s created but local order failed: %v", gatewayOrderID, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id":         orderID,
		"gateway_order_id": gatewayOrderID,
		"amount":           amountMinor,
		"currency":         "INR",
		"gateway_key":      h.Gateway.KeyID(),
	})
}

// persistPendingOrder runs the create-phase transaction: re-validate the
// cart against locked product rows, insert the PENDING order and its
// items, and decrement stock. All or nothing.
func (h *Handlers) persistPendingOrder(c *gin.Context, customerID int64, gatewayOrderID string, input checkoutInput) (int64, error) {
	tx, err := h.DB.BeginTx(c, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Authoritative re-check on locked rows; the advisory pass may be
	// stale by now.
	locked, err := fetchCartProducts(tx, input.CartItems, true)
	if err != nil {
		return 0, err
	}
	reserved, total, err := checkout.ValidateCart(input.CartItems, locked)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	result, err := tx.Exec(`
		INSERT INTO orders
		(customer_id, status, delivery_status, total_amount, gateway_order_id,
		 billing_name, billing_address, billing_phone, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		customerID, models.OrderStatusPending, models.DeliveryProcessing, total,
		gatewayOrderID, input.BillingName, input.BillingAddress, input.BillingPhone, now)
	if err != nil {
		return 0, fmt.Errorf("create order: %w", err)
	}
	orderID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err := h.insertOrderItems(tx, orderID, reserved); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit order: %w", err)
	}
	return orderID, nil
}

// insertOrderItems snapshots each reserved line into order_items and
// applies its stock decrement.
func (h *Handlers) insertOrderItems(tx *sql.Tx, orderID int64, reserved []checkout.ReservedLine) error {
	for _, line := range reserved {
		_, err := tx.Exec(`
			INSERT INTO order_items (order_id, product_id, quantity, price)
			VALUES (?, ?, ?, ?)`,
			orderID, line.Product.ID, line.Quantity, line.Product.Price)
		if err != nil {
			return fmt.Errorf("save order item: %w", err)
		}
		if err := decrementStock(tx, line); err != nil {
			return err
		}
	}
	return nil
}

// errOrderNotPending covers the race where a concurrent request settled
// or cancelled the order between the lookup and the settlement lock.
var errOrderNotPending = errors.New("order is not awaiting payment")

// errGatewayOrderMismatch rejects a verification whose gateway order id
// is not the one stored on the order being settled. Without this check a
// valid signature from one order could settle a different one.
var errGatewayOrderMismatch = errors.New("gateway order does not match this order")

// verifyPaymentInput is the body for the verification phase.
type verifyPaymentInput struct {
	OrderID          int64  `json:"order_id"`
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	GatewaySignature string `json:"gateway_signature"`
}

// VerifyPayment is the handler for POST /v1/payments/verify-payment.
//
// Verify phase of the gateway path: check the signature, then settle the
// PENDING order in one transaction: mark PAID with the payment ids,
// credit the 5% cashback with its CREDIT ledger row, and mint the
// invoice. A signature failure leaves the order PENDING with no
// financial side effects.
func (h *Handlers) VerifyPayment(c *gin.Context) {
	customerID := currentUserID(c)

	var input verifyPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body: " + err.Error()})
		return
	}
	if input.OrderID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "order_id is required."})
		return
	}
	if input.GatewayOrderID == "" || input.GatewayPaymentID == "" || input.GatewaySignature == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Gateway order_id, payment_id and signature are required."})
		return
	}

	// 1. --- Owner-scoped lookup of the pending order ---
	var status string
	var storedGatewayOrderID sql.NullString
	err := h.DB.QueryRow(
		"SELECT status, gateway_order_id FROM orders WHERE id = ? AND customer_id = ?",
		input.OrderID, customerID,
	).Scan(&status, &storedGatewayOrderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Order not found for this user."})
			return
		}
		respondError(c, err)
		return
	}
	if status != models.OrderStatusPending {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Order is not awaiting payment."})
		return
	}
	// The stored gateway order id is authoritative. A signature is only
	// proof of payment for the order it was created for, so a triple
	// minted for a different order must not settle this one.
	if !storedGatewayOrderID.Valid || storedGatewayOrderID.String != input.GatewayOrderID {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Gateway order does not match this order."})
		return
	}

	// 2. --- Signature check before any mutation ---
	if err := h.Gateway.VerifySignature(input.GatewayOrderID, input.GatewayPaymentID, input.GatewaySignature); err != nil {
		respondError(c, err)
		return
	}

	// 3. --- Settlement transaction ---
	invoiceNo, err := h.settleGatewayOrder(c, customerID, input)
	if err != nil {
		if errors.Is(err, errOrderNotPending) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Order is not awaiting payment."})
			return
		}
		if errors.Is(err, errGatewayOrderMismatch) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Gateway order does not match this order."})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "invoice_no": invoiceNo})
}

// settleGatewayOrder applies the four settlement mutations as one
// transaction: PAID transition, payment ids, cashback credit + ledger
// row, invoice mint.
func (h *Handlers) settleGatewayOrder(c *gin.Context, customerID int64, input verifyPaymentInput) (string, error) {
	tx, err := h.DB.BeginTx(c, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the order row; the PENDING re-check stops a concurrent double
	// verification from crediting cashback twice, and the gateway order id
	// is re-read under the same lock so the binding checked before the
	// signature cannot have changed underneath us.
	var status string
	var total decimal.Decimal
	var gatewayOrderID sql.NullString
	err = tx.QueryRow(
		"SELECT status, total_amount, gateway_order_id FROM orders WHERE id = ? AND customer_id = ? FOR UPDATE",
		input.OrderID, customerID,
	).Scan(&status, &total, &gatewayOrderID)
	if err != nil {
		return "", fmt.Errorf("lock order: %w", err)
	}
	if status != models.OrderStatusPending {
		return "", errOrderNotPending
	}
	if !gatewayOrderID.Valid || gatewayOrderID.String != input.GatewayOrderID {
		return "", errGatewayOrderMismatch
	}

	_, err = tx.Exec(
		"UPDATE orders SET status = ?, payment_id = ?, payment_signature = ? WHERE id = ?",
		models.OrderStatusPaid, input.GatewayPaymentID, input.GatewaySignature, input.OrderID)
	if err != nil {
		return "", fmt.Errorf("mark order paid: %w", err)
	}

	cashback := checkout.Cashback(total)
	if _, err := lockWalletBalance(tx, customerID); err != nil {
		return "", err
	}
	note := fmt.Sprintf("Cashback for order #%d", input.OrderID)
	if err := creditWallet(tx, customerID, cashback, note); err != nil {
		return "", err
	}

	invoiceNo, err := mintInvoice(tx, input.OrderID)
	if err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit settlement: %w", err)
	}
	return invoiceNo, nil
}

// WalletPay is the handler for POST /v1/payments/wallet-pay.
//
// Single-phase settlement: validate the cart, pre-check the balance, then
// atomically create the PAID order with its items, decrement stock, debit
// the wallet with its DEBIT ledger row, and mint the invoice. Any failure
// mid-sequence rolls the whole settlement back.
func (h *Handlers) WalletPay(c *gin.Context) {
	customerID := currentUserID(c)

	var input checkoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body: " + err.Error()})
		return
	}
	if err := input.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	// 1. --- Advisory reservation pass ---
	products, err := fetchCartProducts(h.DB, input.CartItems, false)
	if err != nil {
		respondError(c, err)
		return
	}
	_, total, err := checkout.ValidateCart(input.CartItems, products)
	if err != nil {
		respondError(c, err)
		return
	}

	// 2. --- Balance pre-check, reporting amounts. No order exists yet. ---
	balance, err := getWalletBalance(h.DB, customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	if balance.LessThan(total) {
		respondError(c, &InsufficientFundsError{Required: total, Available: balance})
		return
	}

	// 3. --- Settlement transaction ---
	orderID, invoiceNo, err := h.settleWalletOrder(c, customerID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"invoice_no": invoiceNo,
		"order_id":   orderID,
	})
}

// settleWalletOrder runs the wallet path's single settlement transaction,
// re-checking stock and balance on locked rows before mutating.
func (h *Handlers) settleWalletOrder(c *gin.Context, customerID int64, input checkoutInput) (int64, string, error) {
	tx, err := h.DB.BeginTx(c, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return 0, "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	locked, err := fetchCartProducts(tx, input.CartItems, true)
	if err != nil {
		return 0, "", err
	}
	reserved, total, err := checkout.ValidateCart(input.CartItems, locked)
	if err != nil {
		return 0, "", err
	}

	// The pre-check outside the transaction was advisory; this locked
	// read is what actually authorizes the debit.
	balance, err := lockWalletBalance(tx, customerID)
	if err != nil {
		return 0, "", err
	}
	if balance.LessThan(total) {
		return 0, "", &InsufficientFundsError{Required: total, Available: balance}
	}

	now := time.Now()
	result, err := tx.Exec(`
		INSERT INTO orders
		(customer_id, status, delivery_status, total_amount,
		 billing_name, billing_address, billing_phone, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		customerID, models.OrderStatusPaid, models.DeliveryProcessing, total,
		input.BillingName, input.BillingAddress, input.BillingPhone, now)
	if err != nil {
		return 0, "", fmt.Errorf("create order: %w", err)
	}
	orderID, err := result.LastInsertId()
	if err != nil {
		return 0, "", err
	}

	if err := h.insertOrderItems(tx, orderID, reserved); err != nil {
		return 0, "", err
	}

	note := fmt.Sprintf("Wallet payment for order #%d", orderID)
	if err := debitWallet(tx, customerID, total, note); err != nil {
		return 0, "", err
	}

	invoiceNo, err := mintInvoice(tx, orderID)
	if err != nil {
		return 0, "", err
	}

	if err := tx.Commit(); err != nil {
		return 0, "", fmt.Errorf("commit settlement: %w", err)
	}
	return orderID, invoiceNo, nil
}
