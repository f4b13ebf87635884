package client

import (
	"context"
	"errors"
	"fmt"
)

type CheckoutOutcome string

const (
	CheckoutSuccess   CheckoutOutcome = "SUCCESS"
	CheckoutCancelled CheckoutOutcome = "CANCELLED"
	CheckoutFailed    CheckoutOutcome = "FAILED"
)

// CheckoutResult is the discriminated answer from the hosted payment
// widget. PaymentID and Signature are only set on success.
type CheckoutResult struct {
	Outcome   CheckoutOutcome
	PaymentID string
	Signature string
	Reason    string
}

// CheckoutGateway abstracts the gateway's hosted widget so the flow
// depends on the result type, not on how the widget is driven.
type CheckoutGateway interface {
	// Collect presents the order to the payer and reports how the
	// widget ended. An error is an infrastructure failure (e.g. the
	// widget could not open), distinct from a Failed outcome.
	Collect(ctx context.Context, order *Order) (CheckoutResult, error)
}

var ErrCheckoutCancelled = errors.New("checkout cancelled by user")

// CheckoutFlow runs create-order, widget, verify, unlock. No step
// is retried automatically; the user re-initiates after any failure.
type CheckoutFlow struct {
	client  *Client
	gateway CheckoutGateway
	state   *SubscriptionState
}

func NewCheckoutFlow(c *Client, gateway CheckoutGateway, state *SubscriptionState) *CheckoutFlow {
	return &CheckoutFlow{client: c, gateway: gateway, state: state}
}

// Subscribe purchases the plan. On verified success the subscription
// state is updated and the paywall closed; on cancel or failure the
// state is left untouched.
func (f *CheckoutFlow) Subscribe(ctx context.Context, planID string) (*SubscriptionStatus, error) {
	order, err := f.client.CreateOrder(ctx, planID)
	if err != nil {
		return nil, err
	}

	result, err := f.gateway.Collect(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("checkout widget: %w", err)
	}

	switch result.Outcome {
	case CheckoutCancelled:
		return nil, ErrCheckoutCancelled
	case CheckoutFailed:
		if result.Reason != "" {
			return nil, fmt.Errorf("checkout failed: %s", result.Reason)
		}
		return nil, errors.New("checkout failed")
	case CheckoutSuccess:
		// fall through to verification
	default:
		return nil, fmt.Errorf("unknown checkout outcome %q", result.Outcome)
	}

	status, err := f.client.VerifyPayment(ctx, order.OrderID, result.PaymentID, result.Signature)
	if err != nil {
		return nil, err
	}

	if f.state != nil {
		f.state.mu.Lock()
		f.state.apply(status)
		f.state.mu.Unlock()
		_ = f.state.CloseModal()
	}
	return status, nil
}
