package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/missamma/missamma-golang/internal/checkout"
	"github.com/missamma/missamma-golang/internal/payments"
)

// respondError converts workflow failures into the client-facing error
// taxonomy. Business-rule failures carry their own human-readable detail;
// anything unrecognized is logged in full and reported generically.
func respondError(c *gin.Context, err error) {
	var fundsErr *InsufficientFundsError
	if errors.As(err, &fundsErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail":    "Insufficient wallet balance.",
			"required":  fundsErr.Required.StringFixed(2),
			"available": fundsErr.Available.StringFixed(2),
		})
		return
	}

	switch {
	case errors.Is(err, checkout.ErrCartEmpty),
		errors.Is(err, checkout.ErrInvalidQuantity),
		errors.Is(err, checkout.ErrProductNotFound),
		errors.Is(err, checkout.ErrInsufficientStock),
		errors.Is(err, checkout.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	case errors.Is(err, payments.ErrGatewayUnavailable):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	case errors.Is(err, payments.ErrSignatureInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	default:
		log.Printf("unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
	}
}
