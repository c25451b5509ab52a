package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// User is the model for the 'users' table. WalletBalance is mutated only
// inside the order finalization transactions (and manual top-ups); it is
// the authoritative balance, audited by wallet_transactions.
type User struct {
	ID            int64           `json:"id" db:"id"`
	Email         string          `json:"email" db:"email"`
	PasswordHash  string          `json:"-" db:"password_hash"`
	FullName      string          `json:"fullName" db:"full_name"`
	Phone         *string         `json:"phone,omitempty" db:"phone"`
	IsStaff       bool            `json:"isStaff" db:"is_staff"`
	WalletBalance decimal.Decimal `json:"walletBalance" db:"wallet_balance"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
}

// Password Helper (Standard)
type Password struct {
	Plaintext *string
	Hash      string
}

func (p *Password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	p.Plaintext = &plaintextPassword
	return nil
}

func (p *Password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(plaintextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
