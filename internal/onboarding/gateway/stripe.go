package gateway

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/checkout/session"
)

// stripeSessionPlaceholder is substituted by Stripe with the Checkout
// Session id on redirect.
const stripeSessionPlaceholder = "{CHECKOUT_SESSION_ID}"

// The stripe-go resource packages read the key from a package global.
var stripeKeyMu sync.Mutex

// Stripe uses hosted Checkout Sessions: setup mode to save a card for
// billing, payment mode for a one-time charge. The session id comes back on
// the success URL as authKey or paymentKey.
type Stripe struct {
	secretKey string
	currency  string

	// newSession is session.New; tests replace it.
	newSession func(*stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

func NewStripe() *Stripe {
	return &Stripe{currency: "krw", newSession: session.New}
}

func (s *Stripe) Tag() Tag { return TagStripe }

func (s *Stripe) Init(_ context.Context, opts Options) error {
	key := strings.TrimSpace(opts.SecretKey)
	if key == "" {
		return ErrNotConfigured
	}
	s.secretKey = key

	stripeKeyMu.Lock()
	stripe.Key = key
	stripeKeyMu.Unlock()
	return nil
}

func (s *Stripe) CreateToken(context.Context, CardInfo) (*TokenResult, error) {
	if s.secretKey == "" {
		return nil, ErrNotInitialized
	}
	return nil, ErrUseBillingAuth
}

// VerifyToken accepts Checkout Session ids.
func (s *Stripe) VerifyToken(token string) bool { return strings.HasPrefix(token, "cs_") }

func (s *Stripe) RequestBillingAuth(_ context.Context, p BillingAuthParams) (*Launch, error) {
	if s.secretKey == "" {
		return nil, ErrNotInitialized
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSetup)),
		Currency:          stripe.String(s.currency),
		SuccessURL:        stripe.String(appendQuery(p.SuccessURL, "authKey="+stripeSessionPlaceholder)),
		CancelURL:         stripe.String(appendQuery(p.FailURL, "code=USER_CANCEL")),
		ClientReferenceID: stripe.String(p.CustomerKey),
	}
	if p.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(p.CustomerEmail)
	}
	params.AddMetadata("customer_key", p.CustomerKey)

	return s.create(params)
}

func (s *Stripe) RequestPayment(_ context.Context, p PaymentParams) (*Launch, error) {
	if s.secretKey == "" {
		return nil, ErrNotInitialized
	}

	success := appendQuery(p.SuccessURL,
		"paymentKey="+stripeSessionPlaceholder+"&orderId="+url.QueryEscape(p.OrderID))

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(success),
		CancelURL:         stripe.String(appendQuery(p.FailURL, "code=USER_CANCEL")),
		ClientReferenceID: stripe.String(p.CustomerKey),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(s.currency),
				UnitAmount: stripe.Int64(p.Amount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(p.OrderName),
				},
			},
			Quantity: stripe.Int64(1),
		}},
	}
	if p.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(p.CustomerEmail)
	}
	params.AddMetadata("customer_key", p.CustomerKey)
	params.AddMetadata("order_id", p.OrderID)
	params.IdempotencyKey = stripe.String(p.OrderID)

	return s.create(params)
}

func (s *Stripe) create(params *stripe.CheckoutSessionParams) (*Launch, error) {
	sess, err := s.newSession(params)
	if err != nil {
		return nil, wrapStripeError(err)
	}
	return &Launch{Kind: LaunchRedirect, Provider: TagStripe, URL: sess.URL}, nil
}

func wrapStripeError(err error) error {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return err
	}
	return &ProviderError{
		Provider: TagStripe,
		Status:   se.HTTPStatusCode,
		Code:     string(se.Code),
		Message:  se.Msg,
		Err:      err,
	}
}
