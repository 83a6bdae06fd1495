package sqlite

import (
	"context"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/domain"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/store/drivers/sqlite/gen"
)

type catalogRepo struct {
	q *gen.Queries
}

func (r *catalogRepo) ListActivePricingPlans(ctx context.Context) ([]domain.PricingPlan, error) {
	rows, err := r.q.ListActivePricingPlans(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PricingPlan, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapPricingPlan(row))
	}
	return out, nil
}

func (r *catalogRepo) ListRootBusinessCategories(ctx context.Context) ([]domain.BusinessCategory, error) {
	rows, err := r.q.ListRootBusinessCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.BusinessCategory, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapBusinessCategory(row))
	}
	return out, nil
}

func (r *catalogRepo) ListBusinessCategoryItems(ctx context.Context, categoryID string) ([]domain.BusinessCategoryItem, error) {
	rows, err := r.q.ListBusinessCategoryItems(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.BusinessCategoryItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapBusinessCategoryItem(row))
	}
	return out, nil
}
