// Package backend defines the onboarding backend contract consumed by the
// wizard, the verification engine and the callback reconciler.
package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/domain"
)

// Backend is the full set of backend operations the onboarding flow uses.
type Backend interface {
	Onboarding
	Billing
	EmailVerifier
	Catalog
}

type Onboarding interface {
	CreateOnboardingRequest(ctx context.Context, in domain.OnboardingRequestInput) (*domain.OnboardingRequest, error)
	ListPublicOnboardingRequests(ctx context.Context, email string) ([]domain.OnboardingRequest, error)
	GetPublicOnboardingRequest(ctx context.Context, id int64, email string) (*domain.OnboardingRequest, error)
}

type Billing interface {
	CreatePaymentMethod(ctx context.Context, in domain.PaymentMethodInput) (*domain.PaymentMethod, error)
	CreateSubscription(ctx context.Context, in domain.SubscriptionInput) (*domain.Subscription, error)
}

// EmailVerifier covers the duplicate check and the code round trip.
// VerifyEmailCode returns nil only when the code was accepted.
type EmailVerifier interface {
	CheckEmailDuplicate(ctx context.Context, email string) (*domain.EmailCheck, error)
	SendEmailVerificationCode(ctx context.Context, email string) error
	VerifyEmailCode(ctx context.Context, email, code string) error
}

type Catalog interface {
	GetActivePricingPlans(ctx context.Context) ([]domain.PricingPlan, error)
	GetRootBusinessCategories(ctx context.Context) ([]domain.BusinessCategory, error)
	GetBusinessCategoryItems(ctx context.Context, categoryID string) ([]domain.BusinessCategoryItem, error)
}

// ErrNotFound is wrapped by Error values with status 404.
var ErrNotFound = errors.New("backend: not found")

// Error is a failure reported by the backend with a message fit for users.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("backend: %d: %s", e.Status, e.Message)
}

func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.Status == 404
}

// MessageOf returns the backend's message carried by err, or fallback when
// err is not a backend Error or has no message.
func MessageOf(err error, fallback string) string {
	var be *Error
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	return fallback
}
