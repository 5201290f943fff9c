package stripe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"

	"github.com/farmlink-co/farmlink-backend/pkg/config"
	pkgerrors "github.com/farmlink-co/farmlink-backend/pkg/errors"
	"github.com/farmlink-co/farmlink-backend/pkg/logger"
)

const (
	testEnv = "test"
	liveEnv = "live"

	defaultConfirmTimeout = 10 * time.Second
)

var (
	errAPIKeyRequired   = errors.New("stripe api key is required")
	errInvalidStripeEnv = fmt.Errorf("stripe environment must be %q or %q", testEnv, liveEnv)
)

// Client wraps Stripe's API client plus env-specific metadata. It is the
// payment confirmation adapter: card orders are only persisted after this
// client returns a confirmation reference.
type Client struct {
	api         *stripe.Client
	environment string
	timeout     time.Duration
}

// NewClient initializes Stripe once with the configured secrets and env.
func NewClient(ctx context.Context, cfg config.StripeConfig, confirmTimeout time.Duration, logg *logger.Logger) (*Client, error) {
	env, err := normalizeEnv(cfg.Environment())
	if err != nil {
		return nil, err
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	if err := validateAPIKey(env, apiKey); err != nil {
		return nil, err
	}

	if confirmTimeout <= 0 {
		confirmTimeout = defaultConfirmTimeout
	}

	if logg != nil {
		logg.Info(ctx, fmt.Sprintf("stripe client initialized (%s)", env))
	}

	return &Client{
		api:         stripe.NewClient(apiKey),
		environment: env,
		timeout:     confirmTimeout,
	}, nil
}

// Environment reports the normalized Stripe environment in use.
func (c *Client) Environment() string {
	if c == nil {
		return ""
	}
	return c.environment
}

// ConfirmCardPayment creates and confirms a payment intent for the given
// payment method and returns the intent id as the confirmation reference.
// The call is bounded by the configured timeout; timeouts and declines both
// surface as payment errors so no order gets persisted on an unconfirmed
// charge.
func (c *Client) ConfirmCardPayment(ctx context.Context, paymentMethodID string, amount decimal.Decimal) (string, error) {
	if c == nil || c.api == nil {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "stripe client not configured")
	}
	if strings.TrimSpace(paymentMethodID) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "payment method id is required")
	}
	if !amount.IsPositive() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := &stripe.PaymentIntentCreateParams{
		Amount:        stripe.Int64(amountToMinorUnits(amount)),
		Currency:      stripe.String(string(stripe.CurrencyUSD)),
		PaymentMethod: stripe.String(paymentMethodID),
		Confirm:       stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}

	intent, err := c.api.V1PaymentIntents.Create(ctx, params)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodePayment, err, "payment confirmation failed")
	}
	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return "", pkgerrors.New(pkgerrors.CodePayment, "payment was not confirmed").
			WithDetails(map[string]any{"intent_status": string(intent.Status)})
	}
	return intent.ID, nil
}

// amountToMinorUnits converts a decimal amount into integer cents.
func amountToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func normalizeEnv(raw string) (string, error) {
	env := strings.TrimSpace(strings.ToLower(raw))
	if env == "" {
		env = testEnv
	}
	switch env {
	case testEnv, liveEnv:
		return env, nil
	default:
		return "", errInvalidStripeEnv
	}
}

func validateAPIKey(env, key string) error {
	switch env {
	case testEnv:
		if strings.HasPrefix(key, "sk_test") || strings.HasPrefix(key, "rk_test") {
			return nil
		}
		return fmt.Errorf("stripe environment %q requires a test secret key (sk_test/rk_test)", testEnv)
	case liveEnv:
		if strings.HasPrefix(key, "sk_live") || strings.HasPrefix(key, "rk_live") {
			return nil
		}
		return fmt.Errorf("stripe environment %q requires a live secret key (sk_live/rk_live)", liveEnv)
	default:
		return errInvalidStripeEnv
	}
}
