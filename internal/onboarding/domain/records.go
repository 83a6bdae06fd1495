package domain

import "time"

// CarryRecord is a sealed carry slot as persisted by a store driver.
type CarryRecord struct {
	SessionID string
	Key       string
	Payload   []byte
	ExpiresAt time.Time
	UpdatedAt time.Time
}

// OnboardingRequestRecord is what the sandbox persists for a new request.
// The admin password is only ever stored hashed.
type OnboardingRequestRecord struct {
	TenantName        string
	RequestedBy       string
	RiskLevel         string
	BusinessType      string
	ChecklistJSON     string
	AdminPasswordHash string
}

type PaymentMethodRecord struct {
	ID         string
	Token      string
	PGProvider string
	CardBrand  string
	CardLast4  string
	IsDefault  bool
}

// EmailChallenge is an outstanding email verification. Codes are HOTP values
// derived from Secret at Counter; every send bumps the counter.
type EmailChallenge struct {
	Email      string
	Secret     string
	Counter    uint64
	Attempts   int
	ExpiresAt  time.Time
	VerifiedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Verified reports whether the challenge was completed.
func (c EmailChallenge) Verified() bool { return c.VerifiedAt != nil }
