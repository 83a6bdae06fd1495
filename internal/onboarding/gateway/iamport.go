package gateway

import "context"

// Iamport is reserved; every call fails with ErrProviderNotImplemented.
type Iamport struct{}

func NewIamport() *Iamport { return &Iamport{} }

func (Iamport) Tag() Tag { return TagIamport }

func (Iamport) Init(context.Context, Options) error { return ErrProviderNotImplemented }

func (Iamport) CreateToken(context.Context, CardInfo) (*TokenResult, error) {
	return nil, ErrProviderNotImplemented
}

func (Iamport) VerifyToken(string) bool { return false }

func (Iamport) RequestBillingAuth(context.Context, BillingAuthParams) (*Launch, error) {
	return nil, ErrProviderNotImplemented
}

func (Iamport) RequestPayment(context.Context, PaymentParams) (*Launch, error) {
	return nil, ErrProviderNotImplemented
}
