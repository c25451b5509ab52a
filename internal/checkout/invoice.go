package checkout

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	invoicePrefix    = "MSM-"
	invoiceSuffixLen = 8
	// Uppercase alphanumerics; human-readable and dense enough that an
	// accidental collision is caught by the unique index and retried.
	invoiceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NewInvoiceNumber mints a candidate invoice number, e.g. "MSM-7K2QX9AB".
// Global uniqueness is enforced by the invoices.invoice_number unique
// index; callers retry on a duplicate-key error.
func NewInvoiceNumber() (string, error) {
	suffix := make([]byte, invoiceSuffixLen)
	alphabetLen := big.NewInt(int64(len(invoiceAlphabet)))

	for i := range suffix {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("generate invoice number: %w", err)
		}
		suffix[i] = invoiceAlphabet[n.Int64()]
	}

	return invoicePrefix + string(suffix), nil
}
