// Package checkout holds the cart reservation arithmetic and the ledger
// helpers shared by the gateway and wallet payment paths. Everything here
// is pure: validation never touches the database, so the finalization
// transaction can re-run it against locked rows as the authoritative
// check.
package checkout

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/missamma/missamma-golang/internal/models"
)

// Business-rule failures. Handlers map these to 400-class responses; the
// messages name the offending line so clients can act on them.
var (
	ErrCartEmpty         = errors.New("cart is empty")
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidQuantity   = errors.New("quantity must be a positive integer")
	ErrInsufficientStock = errors.New("not enough stock")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
)

// CartLine is a (product, quantity) pair submitted by a client.
type CartLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// ReservedLine is a validated cart line with its price snapshot.
type ReservedLine struct {
	Product  models.Product
	Quantity int
}

// LineTotal is unit price x quantity in exact decimal arithmetic.
func (l ReservedLine) LineTotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ValidateCart checks every line against the supplied product snapshot
// and computes the order total. It fails on the first invalid line with
// no partial result: either every line is valid or none of them are
// usable. Stock is NOT decremented here; mutation belongs to the
// finalization transaction, which re-runs this check on locked rows.
func ValidateCart(lines []CartLine, products map[int64]models.Product) ([]ReservedLine, decimal.Decimal, error) {
	if len(lines) == 0 {
		return nil, decimal.Zero, ErrCartEmpty
	}

	reserved := make([]ReservedLine, 0, len(lines))
	total := decimal.Zero

	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok || !product.IsActive {
			return nil, decimal.Zero, fmt.Errorf("%w: product %d does not exist or is not available", ErrProductNotFound, line.ProductID)
		}
		if line.Quantity <= 0 {
			return nil, decimal.Zero, fmt.Errorf("%w: product %q", ErrInvalidQuantity, product.Name)
		}
		if line.Quantity > product.Stock {
			return nil, decimal.Zero, fmt.Errorf("%w for product %q: requested %d, available %d",
				ErrInsufficientStock, product.Name, line.Quantity, product.Stock)
		}

		rl := ReservedLine{Product: product, Quantity: line.Quantity}
		total = total.Add(rl.LineTotal())
		reserved = append(reserved, rl)
	}

	return reserved, total, nil
}
