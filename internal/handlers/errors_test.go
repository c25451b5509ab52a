package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/missamma/missamma-golang/internal/checkout"
	"github.com/missamma/missamma-golang/internal/payments"
)

func responseFor(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, err)
	return w
}

func TestRespondError_BusinessRuleFailuresAre400(t *testing.T) {
	cases := []error{
		checkout.ErrCartEmpty,
		fmt.Errorf("%w: product 3 does not exist", checkout.ErrProductNotFound),
		fmt.Errorf("%w for product %q: requested 9, available 2", checkout.ErrInsufficientStock, "Rose Soap"),
		checkout.ErrInsufficientFunds,
		fmt.Errorf("%w: gateway returned 503", payments.ErrGatewayUnavailable),
		payments.ErrSignatureInvalid,
	}
	for _, err := range cases {
		w := responseFor(err)
		assert.Equal(t, http.StatusBadRequest, w.Code, err.Error())
		assert.Contains(t, w.Body.String(), "detail", err.Error())
	}
}

func TestRespondError_InsufficientFundsReportsAmounts(t *testing.T) {
	err := &InsufficientFundsError{
		Required:  decimal.RequireFromString("200.00"),
		Available: decimal.RequireFromString("50.00"),
	}
	assert.ErrorIs(t, err, checkout.ErrInsufficientFunds)

	w := responseFor(err)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"required":"200.00"`)
	assert.Contains(t, w.Body.String(), `"available":"50.00"`)
}

func TestRespondError_UnexpectedErrorsAreGeneric500(t *testing.T) {
	w := responseFor(errors.New("driver: bad connection"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "bad connection")
	assert.Contains(t, w.Body.String(), "Internal server error")
}
