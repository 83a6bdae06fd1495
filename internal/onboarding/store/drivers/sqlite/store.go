package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/domain"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/store"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/store/drivers/sqlite/gen"
	_ "modernc.org/sqlite"
)

type Store struct {
	db  *sql.DB
	q   *gen.Queries
	dsn string
}

var _ store.Store = (*Store)(nil)

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, err
	}

	// Every connection to :memory: is its own database.
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		q:   gen.New(db),
		dsn: dsn,
	}, nil
}

// withPragmas applies foreign keys and a busy timeout to every pooled
// connection, not just the first. Times are written in a sortable layout so
// expiry comparisons can run in SQL.
func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) CarryRecords() store.CarryRecords             { return &carryRecordsRepo{q: s.q} }
func (s *Store) OnboardingRequests() store.OnboardingRequests { return &onboardingRequestsRepo{q: s.q} }
func (s *Store) PaymentMethods() store.PaymentMethods         { return &paymentMethodsRepo{q: s.q} }
func (s *Store) Subscriptions() store.Subscriptions           { return &subscriptionsRepo{q: s.q} }
func (s *Store) EmailChallenges() store.EmailChallenges       { return &emailChallengesRepo{q: s.q} }
func (s *Store) Catalog() store.Catalog                       { return &catalogRepo{q: s.q} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func mapNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func mapNullTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		val := nt.Time
		return &val
	}
	return nil
}

func mapOptionalTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func mapOnboardingRequest(row gen.OnboardingRequest) domain.OnboardingRequest {
	return domain.OnboardingRequest{
		ID:            row.ID,
		TenantName:    row.TenantName,
		RequestedBy:   row.RequestedBy,
		Status:        row.Status,
		RiskLevel:     row.RiskLevel,
		BusinessType:  row.BusinessType,
		ChecklistJSON: row.ChecklistJson,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func mapPaymentMethod(row gen.PaymentMethod) domain.PaymentMethod {
	return domain.PaymentMethod{
		PaymentMethodID: row.ID,
		PGProvider:      row.PgProvider,
		CardBrand:       row.CardBrand,
		CardLast4:       row.CardLast4,
		IsDefault:       row.IsDefault,
	}
}

func mapSubscription(row gen.Subscription) domain.Subscription {
	return domain.Subscription{
		SubscriptionID:  row.ID,
		PlanID:          row.PlanID,
		PaymentMethodID: row.PaymentMethodID,
		BillingCycle:    row.BillingCycle,
		AutoRenewal:     row.AutoRenewal,
		Status:          row.Status,
	}
}

func mapEmailChallenge(row gen.EmailChallenge) domain.EmailChallenge {
	return domain.EmailChallenge{
		Email:      row.Email,
		Secret:     row.Secret,
		Counter:    uint64(row.Counter),
		Attempts:   int(row.Attempts),
		ExpiresAt:  row.ExpiresAt,
		VerifiedAt: mapNullTimePtr(row.VerifiedAt),
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

func mapPricingPlan(row gen.PricingPlan) domain.PricingPlan {
	return domain.PricingPlan{
		PlanID:       row.ID,
		PlanCode:     row.PlanCode,
		Name:         row.Name,
		NameKo:       row.NameKo,
		BaseFee:      row.BaseFee,
		Currency:     row.Currency,
		Description:  row.Description,
		IsActive:     row.IsActive,
		DisplayOrder: int(row.DisplayOrder),
		BillingCycle: row.BillingCycle,
	}
}

func mapBusinessCategory(row gen.BusinessCategory) domain.BusinessCategory {
	return domain.BusinessCategory{
		CategoryID:       row.ID,
		CategoryCode:     row.CategoryCode,
		NameKo:           row.NameKo,
		NameEn:           row.NameEn,
		ParentCategoryID: mapNullString(row.ParentCategoryID),
		DisplayOrder:     int(row.DisplayOrder),
		Level:            int(row.Level),
	}
}

func mapBusinessCategoryItem(row gen.BusinessCategoryItem) domain.BusinessCategoryItem {
	return domain.BusinessCategoryItem{
		ItemID:       row.ID,
		ItemCode:     row.ItemCode,
		NameKo:       row.NameKo,
		NameEn:       row.NameEn,
		CategoryID:   row.CategoryID,
		DisplayOrder: int(row.DisplayOrder),
	}
}
