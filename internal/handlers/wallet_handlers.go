package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/missamma/missamma-golang/internal/models"
)

//
// --- Wallet HTTP Handlers ---
//

// GetMyWallet is the handler for GET /v1/wallet
// It returns the user's current balance and transaction history.
func (h *Handlers) GetMyWallet(c *gin.Context) {
	userID := currentUserID(c)

	balance, err := getWalletBalance(h.DB, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	rows, err := h.DB.Query(`
		SELECT id, user_id, amount, type, note, created_at
		FROM wallet_transactions
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT 100`,
		userID)
	if err != nil {
		respondError(c, err)
		return
	}
	defer rows.Close()

	transactions := []models.WalletTransaction{}
	for rows.Next() {
		var t models.WalletTransaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Note, &t.CreatedAt); err != nil {
			respondError(c, err)
			return
		}
		transactions = append(transactions, t)
	}

	c.JSON(http.StatusOK, gin.H{
		"currentBalance": balance.StringFixed(2),
		"transactions":   transactions,
	})
}

// ManualTopUp is the handler for POST /v1/wallet/topup
// A simulated deposit for testing/manual adjustments; goes through the
// same credit path as cashback so the ledger stays reconcilable.
func (h *Handlers) ManualTopUp(c *gin.Context) {
	userID := currentUserID(c)

	var input struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || !input.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid amount"})
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		respondError(c, err)
		return
	}
	defer tx.Rollback()

	if _, err := lockWalletBalance(tx, userID); err != nil {
		respondError(c, err)
		return
	}
	if err := creditWallet(tx, userID, input.Amount, "Manual top-up"); err != nil {
		respondError(c, err)
		return
	}
	if err := tx.Commit(); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Top-up successful", "amount": input.Amount.StringFixed(2)})
}
