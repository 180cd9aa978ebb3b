package utils

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// PaymentService creates card payment intents with Stripe
type PaymentService struct {
	api      *client.API
	currency stripe.Currency
}

// NewPaymentService builds a Stripe client that never retries failed calls
func NewPaymentService(secretKey string) *PaymentService {
	return newPaymentService(secretKey, nil)
}

func newPaymentService(secretKey string, url *string) *PaymentService {
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               url,
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	})
	backends := &stripe.Backends{API: backend, Connect: backend, Uploads: backend}
	return &PaymentService{
		api:      client.New(secretKey, backends),
		currency: stripe.CurrencyUSD,
	}
}

// CreateIntent requests a payment intent for amount minor units and returns its client secret
func (ps *PaymentService) CreateIntent(ctx context.Context, amount int64) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(string(ps.currency)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	intent, err := ps.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return intent.ClientSecret, nil
}
