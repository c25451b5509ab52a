package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"

	"github.com/missamma/missamma-golang/internal/checkout"
	"github.com/missamma/missamma-golang/internal/models"
)

// InsufficientFundsError carries the amounts so the client can prompt a
// top-up. errors.Is(err, checkout.ErrInsufficientFunds) matches it.
type InsufficientFundsError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient wallet balance: required %s, available %s",
		e.Required.StringFixed(2), e.Available.StringFixed(2))
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == checkout.ErrInsufficientFunds
}

// fetchCartProducts loads the products referenced by the cart lines. With
// lock=true (inside a transaction) the rows are locked FOR UPDATE so the
// re-validation against them is authoritative.
func fetchCartProducts(q Querier, lines []checkout.CartLine, lock bool) (map[int64]models.Product, error) {
	seen := make(map[int64]bool, len(lines))
	ids := make([]interface{}, 0, len(lines))
	for _, line := range lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}
	products := make(map[int64]models.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := fmt.Sprintf(`
		SELECT id, category_id, name, slug, description, price, stock, image_url, is_active
		FROM products
		WHERE id IN (%s)`, placeholders)
	if lock {
		query += " FOR UPDATE"
	}

	rows, err := q.Query(query, ids...)
	if err != nil {
		return nil, fmt.Errorf("fetch cart products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Slug, &p.Description,
			&p.Price, &p.Stock, &p.ImageURL, &p.IsActive); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products[p.ID] = p
	}
	return products, rows.Err()
}

// decrementStock applies one reserved line's stock mutation. The guard in
// the WHERE clause keeps stock from ever going negative even if the
// locked re-validation missed something.
func decrementStock(tx *sql.Tx, line checkout.ReservedLine) error {
	res, err := tx.Exec(
		"UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?",
		line.Quantity, line.Product.ID, line.Quantity,
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w for product %q", checkout.ErrInsufficientStock, line.Product.Name)
	}
	return nil
}

// getWalletBalance reads a user's authoritative balance.
func getWalletBalance(q Querier, userID int64) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := q.QueryRow("SELECT wallet_balance FROM users WHERE id = ?", userID).Scan(&balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("get wallet balance: %w", err)
	}
	return balance, nil
}

// lockWalletBalance reads the balance under a row lock, so the following
// debit or credit in the same transaction cannot race another request.
func lockWalletBalance(tx *sql.Tx, userID int64) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.QueryRow("SELECT wallet_balance FROM users WHERE id = ? FOR UPDATE", userID).Scan(&balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("lock wallet balance: %w", err)
	}
	return balance, nil
}

// appendWalletTransaction writes one append-only ledger row. It must run
// in the same transaction as the balance mutation it audits.
func appendWalletTransaction(tx *sql.Tx, userID int64, txType string, amount decimal.Decimal, note string) error {
	_, err := tx.Exec(`
		INSERT INTO wallet_transactions (user_id, amount, type, note, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		userID, amount, txType, note, time.Now())
	if err != nil {
		return fmt.Errorf("append wallet transaction: %w", err)
	}
	return nil
}

// creditWallet adds funds and logs the CREDIT row.
func creditWallet(tx *sql.Tx, userID int64, amount decimal.Decimal, note string) error {
	if _, err := tx.Exec("UPDATE users SET wallet_balance = wallet_balance + ? WHERE id = ?", amount, userID); err != nil {
		return fmt.Errorf("credit wallet: %w", err)
	}
	return appendWalletTransaction(tx, userID, models.TxTypeCredit, amount, note)
}

// debitWallet removes funds and logs the DEBIT row. The guarded UPDATE is
// the last line of defense against a negative balance; callers should
// have already compared against the locked balance to report amounts.
func debitWallet(tx *sql.Tx, userID int64, amount decimal.Decimal, note string) error {
	res, err := tx.Exec(
		"UPDATE users SET wallet_balance = wallet_balance - ? WHERE id = ? AND wallet_balance >= ?",
		amount, userID, amount,
	)
	if err != nil {
		return fmt.Errorf("debit wallet: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return checkout.ErrInsufficientFunds
	}
	return appendWalletTransaction(tx, userID, models.TxTypeDebit, amount, note)
}

// mintInvoice inserts the invoice row, retrying on the (negligibly rare)
// invoice number collision. MySQL does not abort the surrounding
// transaction on a duplicate-key error, so retrying in place is safe.
func mintInvoice(tx *sql.Tx, orderID int64) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		number, err := checkout.NewInvoiceNumber()
		if err != nil {
			return "", err
		}
		_, err = tx.Exec(
			"INSERT INTO invoices (order_id, invoice_number, generated_at) VALUES (?, ?, ?)",
			orderID, number, time.Now())
		if err == nil {
			return number, nil
		}
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			continue
		}
		return "", fmt.Errorf("create invoice: %w", err)
	}
	return "", errors.New("could not mint a unique invoice number")
}
