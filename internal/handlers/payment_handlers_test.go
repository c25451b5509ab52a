package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/missamma/missamma-golang/internal/payments"
)

// newTestRouter wires the payment routes behind a stub auth middleware.
// These tests cover the fast-fail validation paths, which run before any
// database work.
func newTestRouter(h *Handlers, userID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("userID", userID) })
	r.POST("/payments/create-order", h.CreateOrder)
	r.POST("/payments/verify-payment", h.VerifyPayment)
	r.POST("/payments/wallet-pay", h.WalletPay)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCreateOrder_EmptyCartFailsFast(t *testing.T) {
	h := &Handlers{Gateway: payments.NewClient("", "", "")}
	r := newTestRouter(h, 1)

	w := postJSON(r, "/payments/create-order",
		`{"cart_items": [], "billing_name": "A", "billing_address": "B", "billing_phone": "C"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cart is empty")
}

func TestCreateOrder_MissingBillingFailsFast(t *testing.T) {
	h := &Handlers{Gateway: payments.NewClient("", "", "")}
	r := newTestRouter(h, 1)

	cases := []string{
		`{"cart_items": [{"product_id": 1, "quantity": 1}]}`,
		`{"cart_items": [{"product_id": 1, "quantity": 1}], "billing_name": "A"}`,
		`{"cart_items": [{"product_id": 1, "quantity": 1}], "billing_name": "A", "billing_address": "  "}`,
	}
	for _, body := range cases {
		w := postJSON(r, "/payments/create-order", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Contains(t, w.Body.String(), "billing name, address and phone are required", body)
	}
}

func TestCreateOrder_MalformedJSON(t *testing.T) {
	h := &Handlers{Gateway: payments.NewClient("", "", "")}
	r := newTestRouter(h, 1)

	w := postJSON(r, "/payments/create-order", `{"cart_items": [`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWalletPay_ValidationFailsFast(t *testing.T) {
	h := &Handlers{Gateway: payments.NewClient("", "", "")}
	r := newTestRouter(h, 1)

	w := postJSON(r, "/payments/wallet-pay", `{"cart_items": []}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cart is empty")

	w = postJSON(r, "/payments/wallet-pay",
		`{"cart_items": [{"product_id": 1, "quantity": 1}], "billing_name": "A"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "billing name, address and phone are required")
}

func TestVerifyPayment_MissingFieldsFailFast(t *testing.T) {
	h := &Handlers{Gateway: payments.NewClient("", "", "")}
	r := newTestRouter(h, 1)

	w := postJSON(r, "/payments/verify-payment", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "order_id is required")

	w = postJSON(r, "/payments/verify-payment",
		`{"order_id": 7, "gateway_order_id": "order_1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "payment_id and signature are required")
}
