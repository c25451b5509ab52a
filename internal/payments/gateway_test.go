package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signWith(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreateOrder_DevFallbackWithoutCredentials(t *testing.T) {
	client := NewClient("", "", "")
	assert.False(t, client.Configured())

	id, err := client.CreateOrder(context.Background(), 20000, "INR", "rcpt_abc")
	require.NoError(t, err)
	assert.True(t, IsDevOrderID(id), "expected dev-mode order id, got %s", id)
}

func TestCreateOrder_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key_id", user)
		assert.Equal(t, "key_secret", pass)

		var req createOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(20000), req.Amount)
		assert.Equal(t, "INR", req.Currency)
		assert.Equal(t, "rcpt_abc", req.Receipt)

		json.NewEncoder(w).Encode(createOrderResponse{ID: "order_remote_1"})
	}))
	defer srv.Close()

	client := NewClient("key_id", "key_secret", srv.URL)
	id, err := client.CreateOrder(context.Background(), 20000, "INR", "rcpt_abc")
	require.NoError(t, err)
	assert.Equal(t, "order_remote_1", id)
	assert.False(t, IsDevOrderID(id))
}

func TestCreateOrder_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"auth failed"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient("key_id", "bad_secret", srv.URL)
	_, err := client.CreateOrder(context.Background(), 100, "INR", "rcpt_x")
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestCreateOrder_GatewayUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient("key_id", "key_secret", srv.URL)
	_, err := client.CreateOrder(context.Background(), 100, "INR", "rcpt_x")
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestCreateOrder_MissingOrderID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient("key_id", "key_secret", srv.URL)
	_, err := client.CreateOrder(context.Background(), 100, "INR", "rcpt_x")
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestVerifySignature_Valid(t *testing.T) {
	client := NewClient("key_id", "key_secret", "")

	sig := signWith("key_secret", "order_1", "pay_1")
	assert.NoError(t, client.VerifySignature("order_1", "pay_1", sig))
}

func TestVerifySignature_Invalid(t *testing.T) {
	client := NewClient("key_id", "key_secret", "")

	cases := map[string]string{
		"wrong secret":    signWith("other_secret", "order_1", "pay_1"),
		"wrong order":     signWith("key_secret", "order_2", "pay_1"),
		"wrong payment":   signWith("key_secret", "order_1", "pay_2"),
		"garbage":         "deadbeef",
		"empty signature": "",
	}
	for name, sig := range cases {
		err := client.VerifySignature("order_1", "pay_1", sig)
		assert.ErrorIs(t, err, ErrSignatureInvalid, name)
	}
}
