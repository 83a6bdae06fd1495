package backendsdk

import (
	"context"
	"net/http"
)

// CreatePaymentMethod stores a gateway token as a payment method.
func (c *Client) CreatePaymentMethod(ctx context.Context, req PaymentMethodRequest) (*PaymentMethod, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/billing/payment-methods", nil, req)
	if err != nil {
		return nil, err
	}

	var out PaymentMethod
	if err := decodeEnvelope(resp, &out, "failed to register payment method"); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSubscription subscribes to a plan with a registered payment method.
func (c *Client) CreateSubscription(ctx context.Context, req SubscriptionRequest) (*Subscription, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/billing/subscriptions", nil, req)
	if err != nil {
		return nil, err
	}

	var out Subscription
	if err := decodeEnvelope(resp, &out, "failed to create subscription"); err != nil {
		return nil, err
	}
	return &out, nil
}
