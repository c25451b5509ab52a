package handlers

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/missamma/missamma-golang/internal/models"
)

//
// --- Background Janitor ---
// Called on a ticker from main. Two duties: expire stale PENDING orders
// (returning their reserved stock) and audit the wallet ledger against
// stored balances.
//

// pendingOrderTTL is how long a gateway order may sit unverified before
// it is cancelled and its stock released.
const pendingOrderTTL = 24 * time.Hour

// ProcessStaleOrders cancels PENDING orders older than the TTL. Each
// cancellation restores the stock its create phase reserved, in one
// transaction per order. The orphaned remote gateway order is logged for
// reconciliation; it is the one divergence the design accepts.
func (h *Handlers) ProcessStaleOrders() {
	cutoff := time.Now().Add(-pendingOrderTTL)

	rows, err := h.DB.Query(
		"SELECT id, gateway_order_id FROM orders WHERE status = ? AND created_at < ?",
		models.OrderStatusPending, cutoff)
	if err != nil {
		log.Printf("janitor: fetch stale orders: %v", err)
		return
	}
	defer rows.Close()

	type staleOrder struct {
		id             int64
		gatewayOrderID sql.NullString
	}
	var stale []staleOrder
	for rows.Next() {
		var o staleOrder
		if err := rows.Scan(&o.id, &o.gatewayOrderID); err != nil {
			log.Printf("janitor: scan stale order: %v", err)
			return
		}
		stale = append(stale, o)
	}

	for _, o := range stale {
		if err := h.cancelStaleOrder(o.id); err != nil {
			log.Printf("janitor: cancel order %d: %v", o.id, err)
			continue
		}
		if o.gatewayOrderID.Valid {
			log.Printf("RECONCILE: cancelled stale order %d; gateway order %s may still exist remotely",
				o.id, o.gatewayOrderID.String)
		}
	}
}

func (h *Handlers) cancelStaleOrder(orderID int64) error {
	tx, err := h.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Re-check under lock: the customer may have verified payment between
	// the sweep query and now.
	var status string
	err = tx.QueryRow("SELECT status FROM orders WHERE id = ? FOR UPDATE", orderID).Scan(&status)
	if err != nil {
		return err
	}
	if status != models.OrderStatusPending {
		return nil
	}

	itemRows, err := tx.Query(
		"SELECT product_id, quantity FROM order_items WHERE order_id = ?", orderID)
	if err != nil {
		return err
	}
	type restock struct {
		productID int64
		quantity  int
	}
	var restocks []restock
	for itemRows.Next() {
		var r restock
		if err := itemRows.Scan(&r.productID, &r.quantity); err != nil {
			itemRows.Close()
			return err
		}
		restocks = append(restocks, r)
	}
	itemRows.Close()

	for _, r := range restocks {
		if _, err := tx.Exec("UPDATE products SET stock = stock + ? WHERE id = ?", r.quantity, r.productID); err != nil {
			return fmt.Errorf("restore stock for product %d: %w", r.productID, err)
		}
	}

	if _, err := tx.Exec("UPDATE orders SET status = ? WHERE id = ?", models.OrderStatusCancelled, orderID); err != nil {
		return err
	}

	return tx.Commit()
}

// ReconcileWallets cross-checks every user's stored wallet_balance
// against the signed sum of their wallet_transactions and logs any
// drift. Read-only: drift is a bug to investigate, not to auto-repair.
func (h *Handlers) ReconcileWallets() {
	rows, err := h.DB.Query(`
		SELECT u.id, u.wallet_balance,
		       COALESCE(SUM(CASE WHEN wt.type = ? THEN wt.amount ELSE -wt.amount END), 0)
		FROM users u
		LEFT JOIN wallet_transactions wt ON wt.user_id = u.id
		GROUP BY u.id, u.wallet_balance`,
		models.TxTypeCredit)
	if err != nil {
		log.Printf("janitor: wallet reconciliation query: %v", err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var userID int64
		var balance, ledgerSum decimal.Decimal
		if err := rows.Scan(&userID, &balance, &ledgerSum); err != nil {
			log.Printf("janitor: scan wallet reconciliation row: %v", err)
			return
		}
		if !balance.Equal(ledgerSum) {
			log.Printf("RECONCILE: wallet drift for user %d: balance=%s ledger=%s",
				userID, balance.StringFixed(2), ledgerSum.StringFixed(2))
		}
	}
}
