package stripe

import (
	"context"
	"testing"

	"github.com/farmlink-co/farmlink-backend/pkg/config"
	"github.com/shopspring/decimal"
)

func TestNewClientValidatesKeyAgainstEnv(t *testing.T) {
	ctx := context.Background()

	if _, err := NewClient(ctx, config.StripeConfig{APIKey: "sk_test_abc", Env: "test"}, 0, nil); err != nil {
		t.Fatalf("expected test key to be accepted: %v", err)
	}
	if _, err := NewClient(ctx, config.StripeConfig{APIKey: "sk_test_abc", Env: "live"}, 0, nil); err == nil {
		t.Fatal("expected test key to be rejected in live env")
	}
	if _, err := NewClient(ctx, config.StripeConfig{APIKey: "", Env: "test"}, 0, nil); err == nil {
		t.Fatal("expected missing key to be rejected")
	}
	if _, err := NewClient(ctx, config.StripeConfig{APIKey: "sk_test_abc", Env: "staging"}, 0, nil); err == nil {
		t.Fatal("expected unknown env to be rejected")
	}
}

func TestAmountToMinorUnits(t *testing.T) {
	cases := map[string]int64{
		"250.00": 25000,
		"19.99":  1999,
		"0.01":   1,
		"100":    10000,
	}
	for raw, want := range cases {
		amount := decimal.RequireFromString(raw)
		if got := amountToMinorUnits(amount); got != want {
			t.Fatalf("amount %s: expected %d minor units, got %d", raw, want, got)
		}
	}
}

func TestConfirmCardPaymentRejectsBadInput(t *testing.T) {
	client, err := NewClient(context.Background(), config.StripeConfig{APIKey: "sk_test_abc", Env: "test"}, 0, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := client.ConfirmCardPayment(context.Background(), "", decimal.RequireFromString("10.00")); err == nil {
		t.Fatal("expected missing payment method to be rejected")
	}
	if _, err := client.ConfirmCardPayment(context.Background(), "pm_123", decimal.Zero); err == nil {
		t.Fatal("expected zero amount to be rejected")
	}
}
