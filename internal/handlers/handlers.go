package handlers

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/missamma/missamma-golang/internal/payments"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB      *sql.DB
	Gateway *payments.Client
}

// Querier is the common read interface implemented by both *sql.DB and
// *sql.Tx, so helpers can run in or out of a transaction.
type Querier interface {
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// currentUserID pulls the authenticated user ID set by AuthMiddleware.
func currentUserID(c *gin.Context) int64 {
	raw, _ := c.Get("userID")
	id, _ := raw.(int64)
	return id
}
