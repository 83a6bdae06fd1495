// Package carry keeps the pending hand-off of a wizard session across the
// trip to the payment gateway. Each session owns one slot, sealed at rest
// and bound to the session id.
package carry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/domain"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/store"
	"github.com/aussiebroadwan/tenantboard/pkg/cryptox"
)

// DefaultTTL bounds how long a user may stay at the gateway.
const DefaultTTL = 30 * time.Minute

var (
	// ErrEmpty means the slot was never written, was cleared, or expired.
	ErrEmpty = errors.New("carry: no pending hand-off")
	// ErrCorrupt means the slot exists but cannot be opened or decoded.
	ErrCorrupt = errors.New("carry: pending hand-off unreadable")
)

type Options struct {
	TTL    time.Duration
	Now    func() time.Time
	Logger *slog.Logger
}

type Store struct {
	records store.CarryRecords
	sealer  *cryptox.Sealer
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

func New(records store.CarryRecords, sealer *cryptox.Sealer, opts Options) *Store {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Store{
		records: records,
		sealer:  sealer,
		ttl:     opts.TTL,
		now:     opts.Now,
		logger:  opts.Logger,
	}
}

func additional(sessionID string) []byte {
	return []byte(sessionID + "|" + domain.CarryKey)
}

// Write replaces the session's slot with h.
func (s *Store) Write(ctx context.Context, h domain.PendingHandoff) error {
	if h.SessionID == "" {
		return fmt.Errorf("carry: session id required")
	}
	now := s.now()
	if h.CreatedAt.IsZero() {
		h.CreatedAt = now
	}

	plain, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("carry: encode: %w", err)
	}
	sealed, err := s.sealer.Seal(plain, additional(h.SessionID))
	if err != nil {
		return fmt.Errorf("carry: seal: %w", err)
	}

	return s.records.PutCarryRecord(ctx, domain.CarryRecord{
		SessionID: h.SessionID,
		Key:       domain.CarryKey,
		Payload:   sealed,
		ExpiresAt: now.Add(s.ttl),
		UpdatedAt: now,
	})
}

// Read returns the session's pending hand-off without consuming it.
func (s *Store) Read(ctx context.Context, sessionID string) (domain.PendingHandoff, error) {
	rec, err := s.records.GetCarryRecord(ctx, sessionID, domain.CarryKey, s.now())
	if errors.Is(err, store.ErrNotFound) {
		return domain.PendingHandoff{}, ErrEmpty
	}
	if err != nil {
		return domain.PendingHandoff{}, err
	}

	plain, err := s.sealer.Open(rec.Payload, additional(sessionID))
	if err != nil {
		s.logger.WarnContext(ctx, "carry slot failed to open", "session_id", sessionID, "err", err)
		return domain.PendingHandoff{}, errors.Join(ErrCorrupt, err)
	}

	var h domain.PendingHandoff
	if err := json.Unmarshal(plain, &h); err != nil {
		return domain.PendingHandoff{}, errors.Join(ErrCorrupt, err)
	}
	return h, nil
}

// Clear removes the slot. Clearing an empty slot is not an error.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	return s.records.DeleteCarryRecord(ctx, sessionID, domain.CarryKey)
}

// Sweep deletes expired slots and returns how many went.
func (s *Store) Sweep(ctx context.Context) (int64, error) {
	return s.records.DeleteExpiredCarryRecords(ctx, s.now())
}
