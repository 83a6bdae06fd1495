package gateway

import (
	"context"
)

// TossScriptURL is the Toss Payments browser SDK v2.
const TossScriptURL = "https://js.tosspayments.com/v2/standard"

// Toss drives the Toss Payments browser SDK. Card entry happens on the
// Toss hosted window, so tokenization is not available server-side.
type Toss struct {
	clientKey string
}

func NewToss() *Toss { return &Toss{} }

func (t *Toss) Tag() Tag { return TagToss }

func (t *Toss) Init(_ context.Context, opts Options) error {
	if opts.ClientKey == "" {
		return ErrNotConfigured
	}
	t.clientKey = opts.ClientKey
	return nil
}

func (t *Toss) CreateToken(context.Context, CardInfo) (*TokenResult, error) {
	if t.clientKey == "" {
		return nil, ErrNotInitialized
	}
	return nil, ErrUseBillingAuth
}

// VerifyToken accepts any billing key; the backend validates it with Toss.
func (t *Toss) VerifyToken(token string) bool { return token != "" }

type tossBillingAuth struct {
	Method        string `json:"method"`
	CustomerName  string `json:"customerName,omitempty"`
	CustomerEmail string `json:"customerEmail,omitempty"`
	SuccessURL    string `json:"successUrl"`
	FailURL       string `json:"failUrl"`
	WindowTarget  string `json:"windowTarget"`
}

type tossAmount struct {
	Currency string `json:"currency"`
	Value    int64  `json:"value"`
}

type tossPayment struct {
	Method        string     `json:"method"`
	Amount        tossAmount `json:"amount"`
	OrderID       string     `json:"orderId"`
	OrderName     string     `json:"orderName"`
	CustomerName  string     `json:"customerName,omitempty"`
	CustomerEmail string     `json:"customerEmail,omitempty"`
	SuccessURL    string     `json:"successUrl"`
	FailURL       string     `json:"failUrl"`
	WindowTarget  string     `json:"windowTarget"`
}

func (t *Toss) RequestBillingAuth(_ context.Context, p BillingAuthParams) (*Launch, error) {
	if t.clientKey == "" {
		return nil, ErrNotInitialized
	}
	return t.launch(p.CustomerKey, "requestBillingAuth", tossBillingAuth{
		Method:        "CARD",
		CustomerName:  p.CustomerName,
		CustomerEmail: p.CustomerEmail,
		SuccessURL:    p.SuccessURL,
		FailURL:       p.FailURL,
		WindowTarget:  "self",
	}), nil
}

func (t *Toss) RequestPayment(_ context.Context, p PaymentParams) (*Launch, error) {
	if t.clientKey == "" {
		return nil, ErrNotInitialized
	}
	return t.launch(p.CustomerKey, "requestPayment", tossPayment{
		Method:        "CARD",
		Amount:        tossAmount{Currency: "KRW", Value: p.Amount},
		OrderID:       p.OrderID,
		OrderName:     p.OrderName,
		CustomerName:  p.CustomerName,
		CustomerEmail: p.CustomerEmail,
		SuccessURL:    p.SuccessURL,
		FailURL:       p.FailURL,
		WindowTarget:  "self",
	}), nil
}

func (t *Toss) launch(customerKey, method string, params any) *Launch {
	return &Launch{
		Kind:     LaunchSDK,
		Provider: TagToss,
		SDK: &SDKLaunch{
			ScriptURL:   TossScriptURL,
			ClientKey:   t.clientKey,
			CustomerKey: customerKey,
			Method:      method,
			Params:      params,
		},
	}
}
