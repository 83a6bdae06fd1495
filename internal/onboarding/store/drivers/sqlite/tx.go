package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/store"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/store/drivers/sqlite/gen"
)

type txStore struct {
	tx *sql.Tx
	q  *gen.Queries
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{
		tx: tx,
		q:  gen.New(tx),
	}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // the outer DB stays open

func (t *txStore) Ping(ctx context.Context) error { return nil }

// Nested transactions are not supported.
func (t *txStore) Tx(ctx context.Context) (store.Tx, error) { return nil, sql.ErrTxDone }

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) CarryRecords() store.CarryRecords { return &carryRecordsRepo{q: t.q} }
func (t *txStore) OnboardingRequests() store.OnboardingRequests {
	return &onboardingRequestsRepo{q: t.q}
}
func (t *txStore) PaymentMethods() store.PaymentMethods   { return &paymentMethodsRepo{q: t.q} }
func (t *txStore) Subscriptions() store.Subscriptions     { return &subscriptionsRepo{q: t.q} }
func (t *txStore) EmailChallenges() store.EmailChallenges { return &emailChallengesRepo{q: t.q} }
func (t *txStore) Catalog() store.Catalog                 { return &catalogRepo{q: t.q} }

func (t *txStore) ApplyMigrations() error { return nil } // migrations run before any tx
