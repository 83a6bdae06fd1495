package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/domain"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/store"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/store/drivers/sqlite/gen"
)

type emailChallengesRepo struct {
	q *gen.Queries
}

func (r *emailChallengesRepo) UpsertEmailChallenge(ctx context.Context, c domain.EmailChallenge) error {
	return r.q.UpsertEmailChallenge(ctx, gen.UpsertEmailChallengeParams{
		Email:     c.Email,
		Secret:    c.Secret,
		Counter:   int64(c.Counter),
		ExpiresAt: c.ExpiresAt.UTC(),
		UpdatedAt: time.Now().UTC(),
	})
}

func (r *emailChallengesRepo) GetEmailChallenge(ctx context.Context, email string) (domain.EmailChallenge, error) {
	row, err := r.q.GetEmailChallenge(ctx, email)
	if err != nil {
		return domain.EmailChallenge{}, mapNotFound(err)
	}
	return mapEmailChallenge(row), nil
}

func (r *emailChallengesRepo) IncrementEmailChallengeAttempts(ctx context.Context, email string) (domain.EmailChallenge, error) {
	row, err := r.q.IncrementEmailChallengeAttempts(ctx, email)
	if err != nil {
		return domain.EmailChallenge{}, mapNotFound(err)
	}
	return mapEmailChallenge(row), nil
}

func (r *emailChallengesRepo) MarkEmailChallengeVerified(ctx context.Context, email string, at time.Time) error {
	n, err := r.q.MarkEmailChallengeVerified(ctx, gen.MarkEmailChallengeVerifiedParams{
		VerifiedAt: mapOptionalTime(&at),
		UpdatedAt:  at.UTC(),
		Email:      email,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *emailChallengesRepo) DeleteExpiredEmailChallenges(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteExpiredEmailChallenges(ctx, now.UTC())
}
