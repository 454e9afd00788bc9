package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	const secret = "test_secret"
	valid := sign("order_1", "pay_1", secret)

	t.Run("accepts a valid signature", func(t *testing.T) {
		assert.True(t, VerifySignature("order_1", "pay_1", valid, secret))
	})

	t.Run("rejects any single character mutation", func(t *testing.T) {
		for i := 0; i < len(valid); i++ {
			mutated := []byte(valid)
			if mutated[i] == 'a' {
				mutated[i] = 'b'
			} else {
				mutated[i] = 'a'
			}
			assert.False(t, VerifySignature("order_1", "pay_1", string(mutated), secret), "mutation at index %d accepted", i)
		}
	})

	t.Run("rejects a signature for a different order", func(t *testing.T) {
		assert.False(t, VerifySignature("order_2", "pay_1", valid, secret))
	})

	t.Run("fails closed on empty inputs", func(t *testing.T) {
		assert.False(t, VerifySignature("", "pay_1", valid, secret))
		assert.False(t, VerifySignature("order_1", "", valid, secret))
		assert.False(t, VerifySignature("order_1", "pay_1", "", secret))
	})
}

func TestHTTPClient_CreateOrder(t *testing.T) {
	t.Run("creates an order", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "key_id", user)
			assert.Equal(t, "key_secret", pass)
			assert.Equal(t, "/v1/orders", r.URL.Path)

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"order_xyz","amount":50000,"currency":"INR","status":"created"}`))
		}))
		defer srv.Close()

		client := NewHTTPClient(srv.URL, "key_id", "key_secret")
		order, err := client.CreateOrder(context.Background(), OrderSpec{Amount: 50000, Currency: "INR"})
		require.NoError(t, err)
		assert.Equal(t, "order_xyz", order.ID)
		assert.EqualValues(t, 50000, order.Amount)
	})

	t.Run("non-2xx response is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"bad request"}`, http.StatusBadRequest)
		}))
		defer srv.Close()

		client := NewHTTPClient(srv.URL, "key_id", "key_secret")
		order, err := client.CreateOrder(context.Background(), OrderSpec{Amount: 1})
		assert.Error(t, err)
		assert.Nil(t, order)
	})
}
