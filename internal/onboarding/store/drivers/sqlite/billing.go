package sqlite

import (
	"context"
	"errors"
	"strings"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/domain"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/store"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/store/drivers/sqlite/gen"
)

type paymentMethodsRepo struct {
	q *gen.Queries
}

func (r *paymentMethodsRepo) CreatePaymentMethod(ctx context.Context, rec domain.PaymentMethodRecord) (domain.PaymentMethod, error) {
	row, err := r.q.CreatePaymentMethod(ctx, gen.CreatePaymentMethodParams{
		ID:         rec.ID,
		Token:      rec.Token,
		PgProvider: rec.PGProvider,
		CardBrand:  rec.CardBrand,
		CardLast4:  rec.CardLast4,
		IsDefault:  rec.IsDefault,
	})
	if err != nil {
		return domain.PaymentMethod{}, mapConstraint(err)
	}
	return mapPaymentMethod(row), nil
}

func (r *paymentMethodsRepo) GetPaymentMethod(ctx context.Context, id string) (domain.PaymentMethod, error) {
	row, err := r.q.GetPaymentMethod(ctx, id)
	if err != nil {
		return domain.PaymentMethod{}, mapNotFound(err)
	}
	return mapPaymentMethod(row), nil
}

type subscriptionsRepo struct {
	q *gen.Queries
}

func (r *subscriptionsRepo) CreateSubscription(ctx context.Context, sub domain.Subscription) error {
	err := r.q.CreateSubscription(ctx, gen.CreateSubscriptionParams{
		ID:              sub.SubscriptionID,
		PlanID:          sub.PlanID,
		PaymentMethodID: sub.PaymentMethodID,
		BillingCycle:    sub.BillingCycle,
		AutoRenewal:     sub.AutoRenewal,
		Status:          sub.Status,
	})
	return mapConstraint(err)
}

func (r *subscriptionsRepo) GetSubscription(ctx context.Context, id string) (domain.Subscription, error) {
	row, err := r.q.GetSubscription(ctx, id)
	if err != nil {
		return domain.Subscription{}, mapNotFound(err)
	}
	return mapSubscription(row), nil
}

// mapConstraint turns unique and foreign key violations into store errors.
// modernc reports them only through the message text.
func mapConstraint(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"), strings.Contains(msg, "PRIMARY KEY"):
		return errors.Join(store.ErrAlreadyExists, err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return errors.Join(store.ErrNotFound, err)
	}
	return err
}
