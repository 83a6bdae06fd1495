package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. The sqlite driver implements all
// of it; sub-repositories keep concerns apart and stop transactions from
// being opened inside transactions.
type Store interface {
	CarryRecords() CarryRecords
	OnboardingRequests() OnboardingRequests
	PaymentMethods() PaymentMethods
	Subscriptions() Subscriptions
	EmailChallenges() EmailChallenges
	Catalog() Catalog

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// CarryRecords holds one sealed slot per (session, key). Drivers other than
// sqlite (redis) implement only this repository.
type CarryRecords interface {
	// PutCarryRecord inserts or replaces the slot. Last writer wins.
	PutCarryRecord(ctx context.Context, rec domain.CarryRecord) error

	// GetCarryRecord returns the slot if it exists and has not expired at now.
	GetCarryRecord(ctx context.Context, sessionID, key string, now time.Time) (domain.CarryRecord, error)

	// DeleteCarryRecord removes the slot. Deleting a missing slot is not an error.
	DeleteCarryRecord(ctx context.Context, sessionID, key string) error

	// DeleteExpiredCarryRecords is housekeeping.
	DeleteExpiredCarryRecords(ctx context.Context, now time.Time) (int64, error)
}

type OnboardingRequests interface {
	// CreateOnboardingRequest inserts a PENDING request; the id is assigned
	// by the database.
	CreateOnboardingRequest(ctx context.Context, rec domain.OnboardingRequestRecord) (domain.OnboardingRequest, error)

	GetOnboardingRequest(ctx context.Context, id int64) (domain.OnboardingRequest, error)

	// ListOnboardingRequestsByEmail matches requested_by case-insensitively,
	// newest first.
	ListOnboardingRequestsByEmail(ctx context.Context, email string) ([]domain.OnboardingRequest, error)

	// CountOpenOnboardingRequestsByEmail counts requests that are not rejected.
	CountOpenOnboardingRequestsByEmail(ctx context.Context, email string) (int64, error)
}

type PaymentMethods interface {
	CreatePaymentMethod(ctx context.Context, rec domain.PaymentMethodRecord) (domain.PaymentMethod, error)
	GetPaymentMethod(ctx context.Context, id string) (domain.PaymentMethod, error)
}

type Subscriptions interface {
	CreateSubscription(ctx context.Context, sub domain.Subscription) error
	GetSubscription(ctx context.Context, id string) (domain.Subscription, error)
}

type EmailChallenges interface {
	// UpsertEmailChallenge replaces the challenge for the address, resetting
	// attempts and verification.
	UpsertEmailChallenge(ctx context.Context, c domain.EmailChallenge) error

	GetEmailChallenge(ctx context.Context, email string) (domain.EmailChallenge, error)

	// IncrementEmailChallengeAttempts returns the updated challenge.
	IncrementEmailChallengeAttempts(ctx context.Context, email string) (domain.EmailChallenge, error)

	MarkEmailChallengeVerified(ctx context.Context, email string, at time.Time) error

	// DeleteExpiredEmailChallenges removes unverified challenges past expiry.
	DeleteExpiredEmailChallenges(ctx context.Context, now time.Time) (int64, error)
}

// Catalog is seeded by migration and read-only at runtime.
type Catalog interface {
	ListActivePricingPlans(ctx context.Context) ([]domain.PricingPlan, error)
	ListRootBusinessCategories(ctx context.Context) ([]domain.BusinessCategory, error)
	ListBusinessCategoryItems(ctx context.Context, categoryID string) ([]domain.BusinessCategoryItem, error)
}
