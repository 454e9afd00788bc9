package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"inkwell/internal/gateway"
	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKeySecret = "test_key_secret"

func signPayment(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testKeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPaymentService_VerifyPayment(t *testing.T) {
	ctx := context.Background()

	users := &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Email: "buyer@example.com"}, nil
		},
	}

	t.Run("legit payment is recorded and credited", func(t *testing.T) {
		var recorded *models.Payment
		payments := &paymentRepoStub{
			creditPurchaseFn: func(_ context.Context, p *models.Payment) error {
				recorded = p
				return nil
			},
		}
		svc := NewPaymentService(payments, users, &gatewayStub{}, testKeySecret)

		result, err := svc.VerifyPayment(ctx, VerifyPaymentInput{
			UserID:    1,
			OrderID:   "order_1",
			PaymentID: "pay_1",
			Signature: signPayment("order_1", "pay_1"),
		})
		require.NoError(t, err)
		assert.True(t, result.Verified)
		assert.Equal(t, "order_1", result.OrderID)

		require.NotNil(t, recorded)
		assert.Equal(t, "pay_1", recorded.PaymentID)
		assert.Equal(t, models.CreditsPerPurchase, recorded.NoOfCredits)
		assert.Equal(t, "buyer@example.com", recorded.UserEmail)
		assert.Equal(t, models.PlatformRazorpay, recorded.Platform)
	})

	t.Run("tampered signature writes nothing", func(t *testing.T) {
		repoTouched := false
		payments := &paymentRepoStub{
			creditPurchaseFn: func(context.Context, *models.Payment) error {
				repoTouched = true
				return nil
			},
		}
		svc := NewPaymentService(payments, users, &gatewayStub{}, testKeySecret)

		valid := signPayment("order_1", "pay_1")
		mutated := []byte(valid)
		if mutated[0] == 'a' {
			mutated[0] = 'b'
		} else {
			mutated[0] = 'a'
		}

		_, err := svc.VerifyPayment(ctx, VerifyPaymentInput{
			UserID:    1,
			OrderID:   "order_1",
			PaymentID: "pay_1",
			Signature: string(mutated),
		})

		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, models.CodeSignatureInvalid, appErr.Code)
		assert.False(t, repoTouched)
	})

	t.Run("signature over different ids is rejected", func(t *testing.T) {
		svc := NewPaymentService(&paymentRepoStub{}, users, &gatewayStub{}, testKeySecret)

		_, err := svc.VerifyPayment(ctx, VerifyPaymentInput{
			UserID:    1,
			OrderID:   "order_2",
			PaymentID: "pay_1",
			Signature: signPayment("order_1", "pay_1"),
		})
		assert.Error(t, err)
	})
}

func TestPaymentService_CreateOrder(t *testing.T) {
	ctx := context.Background()

	users := &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
	}

	t.Run("passes the order through the gateway", func(t *testing.T) {
		gw := &gatewayStub{
			createOrderFn: func(_ context.Context, spec gateway.OrderSpec) (*gateway.Order, error) {
				return &gateway.Order{ID: "order_1", Amount: spec.Amount, Currency: spec.Currency}, nil
			},
		}
		svc := NewPaymentService(&paymentRepoStub{}, users, gw, testKeySecret)

		order, err := svc.CreateOrder(ctx, 1, gateway.OrderSpec{Amount: 50000})
		require.NoError(t, err)
		assert.Equal(t, "order_1", order.ID)
		assert.Equal(t, "INR", order.Currency)
	})

	t.Run("gateway failure maps to a gateway error", func(t *testing.T) {
		gw := &gatewayStub{
			createOrderFn: func(context.Context, gateway.OrderSpec) (*gateway.Order, error) {
				return nil, errors.New("upstream 500")
			},
		}
		svc := NewPaymentService(&paymentRepoStub{}, users, gw, testKeySecret)

		_, err := svc.CreateOrder(ctx, 1, gateway.OrderSpec{Amount: 50000})
		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, models.CodeGatewayError, appErr.Code)
	})

	t.Run("non-positive amounts are rejected", func(t *testing.T) {
		svc := NewPaymentService(&paymentRepoStub{}, users, &gatewayStub{}, testKeySecret)

		_, err := svc.CreateOrder(ctx, 1, gateway.OrderSpec{Amount: 0})
		assert.Error(t, err)
	})
}
