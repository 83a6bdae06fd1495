package sqlite

import (
	"context"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/domain"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/store/drivers/sqlite/gen"
)

type onboardingRequestsRepo struct {
	q *gen.Queries
}

func (r *onboardingRequestsRepo) CreateOnboardingRequest(ctx context.Context, rec domain.OnboardingRequestRecord) (domain.OnboardingRequest, error) {
	risk := rec.RiskLevel
	if risk == "" {
		risk = domain.DefaultRiskLevel
	}
	row, err := r.q.CreateOnboardingRequest(ctx, gen.CreateOnboardingRequestParams{
		TenantName:        rec.TenantName,
		RequestedBy:       rec.RequestedBy,
		RiskLevel:         risk,
		BusinessType:      rec.BusinessType,
		ChecklistJson:     rec.ChecklistJSON,
		AdminPasswordHash: rec.AdminPasswordHash,
	})
	if err != nil {
		return domain.OnboardingRequest{}, err
	}
	return mapOnboardingRequest(row), nil
}

func (r *onboardingRequestsRepo) GetOnboardingRequest(ctx context.Context, id int64) (domain.OnboardingRequest, error) {
	row, err := r.q.GetOnboardingRequest(ctx, id)
	if err != nil {
		return domain.OnboardingRequest{}, mapNotFound(err)
	}
	return mapOnboardingRequest(row), nil
}

func (r *onboardingRequestsRepo) ListOnboardingRequestsByEmail(ctx context.Context, email string) ([]domain.OnboardingRequest, error) {
	rows, err := r.q.ListOnboardingRequestsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	out := make([]domain.OnboardingRequest, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapOnboardingRequest(row))
	}
	return out, nil
}

func (r *onboardingRequestsRepo) CountOpenOnboardingRequestsByEmail(ctx context.Context, email string) (int64, error) {
	return r.q.CountOpenOnboardingRequestsByEmail(ctx, email)
}
