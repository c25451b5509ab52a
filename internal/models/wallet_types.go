package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet transaction types. Amounts are always positive; the type
// carries the sign.
const (
	TxTypeCredit = "CREDIT"
	TxTypeDebit  = "DEBIT"
)

// WalletTransaction is the model for the 'wallet_transactions' table.
// Rows are append-only: never updated, never deleted. The signed sum of
// a user's transactions must always equal users.wallet_balance.
type WalletTransaction struct {
	ID        int64           `json:"id" db:"id"`
	UserID    int64           `json:"userId" db:"user_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Type      string          `json:"type" db:"type"`
	Note      *string         `json:"note,omitempty" db:"note"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}
