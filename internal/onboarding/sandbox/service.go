// Package sandbox is an in-process onboarding backend over the local store.
// It stands in for the real backend in dev and test environments.
package sandbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/backend"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/domain"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/store"
	"github.com/aussiebroadwan/tenantboard/pkg/cryptox"
	"github.com/aussiebroadwan/tenantboard/pkg/idx"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
)

// DefaultCodeTTL matches the wizard's code expiry countdown.
const DefaultCodeTTL = 10 * time.Minute

var hotpOpts = hotp.ValidateOpts{
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// Service implements backend.Backend.
type Service struct {
	Store   store.Store
	Hasher  cryptox.PasswordHasher
	Mailer  Mailer
	CodeTTL time.Duration
	Logger  *slog.Logger
	Now     func() time.Time
}

var _ backend.Backend = (*Service)(nil)

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func badRequest(msg string) error {
	return &backend.Error{Status: http.StatusBadRequest, Code: "VALIDATION_ERROR", Message: msg}
}

func conflict(msg string) error {
	return &backend.Error{Status: http.StatusConflict, Code: "CONFLICT", Message: msg}
}

func notFound(msg string) error {
	return &backend.Error{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: msg}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ============================================================================
// Onboarding requests
// ============================================================================

func (s *Service) CreateOnboardingRequest(ctx context.Context, in domain.OnboardingRequestInput) (*domain.OnboardingRequest, error) {
	email := normalizeEmail(in.RequestedBy)
	switch {
	case strings.TrimSpace(in.TenantName) == "":
		return nil, badRequest("tenantName is required")
	case email == "":
		return nil, badRequest("requestedBy is required")
	case strings.TrimSpace(in.BusinessType) == "":
		return nil, badRequest("businessType is required")
	}

	checklist, err := scrubChecklist(in.ChecklistJSON)
	if err != nil {
		return nil, badRequest("checklistJson must be a JSON object")
	}

	var hash string
	if in.AdminPassword != "" {
		if hash, err = s.Hasher.Hash(in.AdminPassword); err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
	}

	var created domain.OnboardingRequest
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		open, err := tx.OnboardingRequests().CountOpenOnboardingRequestsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if open > 0 {
			return conflict("an onboarding request for this email is already pending")
		}

		created, err = tx.OnboardingRequests().CreateOnboardingRequest(ctx, domain.OnboardingRequestRecord{
			TenantName:        strings.TrimSpace(in.TenantName),
			RequestedBy:       email,
			RiskLevel:         in.RiskLevel,
			BusinessType:      in.BusinessType,
			ChecklistJSON:     checklist,
			AdminPasswordHash: hash,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger().InfoContext(ctx, "sandbox onboarding request created",
		"request_id", created.ID,
		"tenant", created.TenantName,
	)
	return &created, nil
}

// scrubChecklist drops the plaintext admin password the wizard bundles into
// the checklist; only the hash is kept.
func scrubChecklist(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return "", err
	}
	delete(fields, "adminPassword")
	out, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (s *Service) ListPublicOnboardingRequests(ctx context.Context, email string) ([]domain.OnboardingRequest, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, badRequest("email is required")
	}
	return s.Store.OnboardingRequests().ListOnboardingRequestsByEmail(ctx, email)
}

func (s *Service) GetPublicOnboardingRequest(ctx context.Context, id int64, email string) (*domain.OnboardingRequest, error) {
	req, err := s.Store.OnboardingRequests().GetOnboardingRequest(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound("onboarding request not found")
	}
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(req.RequestedBy, normalizeEmail(email)) {
		return nil, notFound("onboarding request not found")
	}
	return &req, nil
}

// ============================================================================
// Billing
// ============================================================================

func (s *Service) CreatePaymentMethod(ctx context.Context, in domain.PaymentMethodInput) (*domain.PaymentMethod, error) {
	if strings.TrimSpace(in.PaymentMethodToken) == "" {
		return nil, badRequest("paymentMethodToken is required")
	}
	if in.PGProvider == "" {
		return nil, badRequest("pgProvider is required")
	}

	pm, err := s.Store.PaymentMethods().CreatePaymentMethod(ctx, domain.PaymentMethodRecord{
		ID:         idx.Prefixed("pm"),
		Token:      in.PaymentMethodToken,
		PGProvider: in.PGProvider,
		CardBrand:  in.CardBrand,
		CardLast4:  in.CardLast4,
		IsDefault:  true,
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return nil, conflict("this payment method is already registered")
	}
	if err != nil {
		return nil, err
	}
	return &pm, nil
}

func (s *Service) CreateSubscription(ctx context.Context, in domain.SubscriptionInput) (*domain.Subscription, error) {
	if in.PlanID == "" {
		return nil, badRequest("planId is required")
	}
	if in.PaymentMethodID == "" {
		return nil, badRequest("paymentMethodId is required")
	}

	cycle := in.BillingCycle
	switch cycle {
	case "":
		cycle = domain.CycleMonthly
	case domain.CycleMonthly, domain.CycleQuarterly, domain.CycleYearly:
	default:
		return nil, badRequest("billingCycle must be MONTHLY, QUARTERLY or YEARLY")
	}

	sub := domain.Subscription{
		SubscriptionID:  idx.Prefixed("sub"),
		PlanID:          in.PlanID,
		PaymentMethodID: in.PaymentMethodID,
		BillingCycle:    cycle,
		AutoRenewal:     in.AutoRenewal,
		Status:          "PENDING_ACTIVATION",
	}
	err := s.Store.Subscriptions().CreateSubscription(ctx, sub)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound("payment method not found")
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ============================================================================
// Email verification
// ============================================================================

func (s *Service) CheckEmailDuplicate(ctx context.Context, email string) (*domain.EmailCheck, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, badRequest("email is required")
	}

	open, err := s.Store.OnboardingRequests().CountOpenOnboardingRequestsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if open > 0 {
		return &domain.EmailCheck{
			Email:       email,
			IsDuplicate: true,
			Message:     "This email address is already in use.",
			Status:      domain.StatusPending,
		}, nil
	}
	return &domain.EmailCheck{
		Email:     email,
		Available: true,
		Message:   "This email address is available.",
	}, nil
}

// SendEmailVerificationCode issues the next HOTP code for the address. A
// resend keeps the secret and advances the counter, which invalidates the
// previous code.
func (s *Service) SendEmailVerificationCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return badRequest("email is required")
	}

	challenge, err := s.Store.EmailChallenges().GetEmailChallenge(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		secret, err := cryptox.GenerateOTPSecret()
		if err != nil {
			return err
		}
		challenge = domain.EmailChallenge{Email: email, Secret: secret}
	case err != nil:
		return err
	default:
		challenge.Counter++
	}

	code, err := hotp.GenerateCodeCustom(challenge.Secret, challenge.Counter, hotpOpts)
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	ttl := s.CodeTTL
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}
	challenge.ExpiresAt = s.now().Add(ttl)
	if err := s.Store.EmailChallenges().UpsertEmailChallenge(ctx, challenge); err != nil {
		return err
	}

	mailer := s.Mailer
	if mailer == nil {
		mailer = LogMailer{Logger: s.logger()}
	}
	if err := mailer.SendVerificationCode(ctx, email, code); err != nil {
		return &backend.Error{Status: http.StatusBadGateway, Code: "MAIL_FAILED", Message: "could not deliver the verification code"}
	}
	return nil
}

func (s *Service) VerifyEmailCode(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)
	challenge, err := s.Store.EmailChallenges().GetEmailChallenge(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return badRequest("no verification code was requested for this email")
	}
	if err != nil {
		return err
	}

	now := s.now()
	if challenge.Verified() {
		return nil
	}
	if !now.Before(challenge.ExpiresAt) {
		return badRequest("verification code expired")
	}

	ok, err := hotp.ValidateCustom(strings.TrimSpace(code), challenge.Counter, challenge.Secret, hotpOpts)
	if err != nil || !ok {
		updated, incErr := s.Store.EmailChallenges().IncrementEmailChallengeAttempts(ctx, email)
		if incErr != nil {
			return incErr
		}
		s.logger().InfoContext(ctx, "sandbox verification code mismatch",
			"email", email,
			"attempts", updated.Attempts,
		)
		return badRequest("code mismatch")
	}

	return s.Store.EmailChallenges().MarkEmailChallengeVerified(ctx, email, now)
}

// ============================================================================
// Catalog
// ============================================================================

func (s *Service) GetActivePricingPlans(ctx context.Context) ([]domain.PricingPlan, error) {
	return s.Store.Catalog().ListActivePricingPlans(ctx)
}

func (s *Service) GetRootBusinessCategories(ctx context.Context) ([]domain.BusinessCategory, error) {
	return s.Store.Catalog().ListRootBusinessCategories(ctx)
}

func (s *Service) GetBusinessCategoryItems(ctx context.Context, categoryID string) ([]domain.BusinessCategoryItem, error) {
	return s.Store.Catalog().ListBusinessCategoryItems(ctx, categoryID)
}

// Sweep removes unverified challenges past expiry.
func (s *Service) Sweep(ctx context.Context) (int64, error) {
	return s.Store.EmailChallenges().DeleteExpiredEmailChallenges(ctx, s.now())
}
