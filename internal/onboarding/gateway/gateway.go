// Package gateway bridges the wizard to payment providers. Providers that
// only support hosted pages return a Launch describing where the browser
// must go; the handoff package renders or follows it.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Tag names a provider, matching the backend's PG provider enum.
type Tag string

const (
	TagToss    Tag = "TOSS"
	TagStripe  Tag = "STRIPE"
	TagIamport Tag = "IAMPORT"
	TagTest    Tag = "TEST"
)

// ParseTag normalises s. It does not check that a provider exists.
func ParseTag(s string) Tag { return Tag(strings.ToUpper(strings.TrimSpace(s))) }

var (
	ErrUnknownProvider        = errors.New("gateway: unsupported provider")
	ErrProviderNotImplemented = errors.New("gateway: provider not implemented")
	ErrNotConfigured          = errors.New("gateway: provider key not configured")
	ErrNotInitialized         = errors.New("gateway: provider not initialized")
	ErrUseBillingAuth         = errors.New("gateway: card tokenization unsupported, use billing auth")

	ErrInvalidCardNumber = errors.New("gateway: card number is invalid")
	ErrCardExpired       = errors.New("gateway: card has expired")
	ErrInvalidCVC        = errors.New("gateway: cvc is invalid")
)

// ProviderError is a failure reported by a provider API.
type ProviderError struct {
	Provider Tag
	Status   int
	Code     string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("gateway: %s %d %s: %s", e.Provider, e.Status, e.Code, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Options configure a provider at Init.
type Options struct {
	ClientKey string
	SecretKey string
	TestMode  bool
}

type CardInfo struct {
	Number      string
	ExpiryMonth string // MM
	ExpiryYear  string // YY
	CVC         string
	HolderName  string
}

type TokenResult struct {
	Token       string `json:"token"`
	CardBrand   string `json:"cardBrand,omitempty"`
	CardLast4   string `json:"cardLast4,omitempty"`
	ExpiryMonth int    `json:"expiryMonth,omitempty"`
	ExpiryYear  int    `json:"expiryYear,omitempty"`
}

type BillingAuthParams struct {
	CustomerKey   string
	CustomerName  string
	CustomerEmail string
	SuccessURL    string
	FailURL       string
}

type PaymentParams struct {
	CustomerKey   string
	Amount        int64
	OrderID       string
	OrderName     string
	CustomerName  string
	CustomerEmail string
	SuccessURL    string
	FailURL       string
}

// LaunchKind says how a Launch is started.
type LaunchKind string

const (
	// LaunchRedirect sends the browser straight to URL.
	LaunchRedirect LaunchKind = "redirect"
	// LaunchSDK loads the provider's browser SDK and calls a method on it.
	LaunchSDK LaunchKind = "sdk"
)

type Launch struct {
	Kind     LaunchKind `json:"kind"`
	Provider Tag        `json:"provider"`
	URL      string     `json:"url,omitempty"`
	SDK      *SDKLaunch `json:"sdk,omitempty"`
}

// SDKLaunch is rendered into the launch page bootstrap.
type SDKLaunch struct {
	ScriptURL   string `json:"scriptUrl"`
	ClientKey   string `json:"clientKey"`
	CustomerKey string `json:"customerKey"`
	Method      string `json:"method"`
	Params      any    `json:"params"`
}

// Provider is one payment gateway. Implementations are safe for concurrent
// use once Init has returned.
type Provider interface {
	Tag() Tag
	Init(ctx context.Context, opts Options) error
	CreateToken(ctx context.Context, card CardInfo) (*TokenResult, error)
	// VerifyToken checks the token's shape only.
	VerifyToken(token string) bool
	RequestBillingAuth(ctx context.Context, p BillingAuthParams) (*Launch, error)
	RequestPayment(ctx context.Context, p PaymentParams) (*Launch, error)
}

// appendQuery adds an already encoded query fragment to rawURL.
func appendQuery(rawURL, fragment string) string {
	if fragment == "" {
		return rawURL
	}
	if strings.Contains(rawURL, "?") {
		return rawURL + "&" + fragment
	}
	return rawURL + "?" + fragment
}
