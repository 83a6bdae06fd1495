package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/domain"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/store/drivers/sqlite/gen"
)

type carryRecordsRepo struct {
	q *gen.Queries
}

func (r *carryRecordsRepo) PutCarryRecord(ctx context.Context, rec domain.CarryRecord) error {
	updated := rec.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	return r.q.UpsertCarryRecord(ctx, gen.UpsertCarryRecordParams{
		SessionID: rec.SessionID,
		Key:       rec.Key,
		Payload:   rec.Payload,
		ExpiresAt: rec.ExpiresAt.UTC(),
		UpdatedAt: updated.UTC(),
	})
}

func (r *carryRecordsRepo) GetCarryRecord(ctx context.Context, sessionID, key string, now time.Time) (domain.CarryRecord, error) {
	row, err := r.q.GetCarryRecord(ctx, gen.GetCarryRecordParams{
		SessionID: sessionID,
		Key:       key,
		Now:       now.UTC(),
	})
	if err != nil {
		return domain.CarryRecord{}, mapNotFound(err)
	}
	return domain.CarryRecord{
		SessionID: row.SessionID,
		Key:       row.Key,
		Payload:   row.Payload,
		ExpiresAt: row.ExpiresAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func (r *carryRecordsRepo) DeleteCarryRecord(ctx context.Context, sessionID, key string) error {
	return r.q.DeleteCarryRecord(ctx, gen.DeleteCarryRecordParams{SessionID: sessionID, Key: key})
}

func (r *carryRecordsRepo) DeleteExpiredCarryRecords(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteExpiredCarryRecords(ctx, now.UTC())
}
