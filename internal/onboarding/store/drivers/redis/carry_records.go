// Package redis stores carry records in Redis, one hash per slot with a
// native TTL. It implements only store.CarryRecords.
package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/domain"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/store"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "carry:"

type Options struct {
	Addr     string
	Password string
	DB       int
}

// CarryRecords is safe for concurrent use.
type CarryRecords struct {
	rdb *goredis.Client
}

var _ store.CarryRecords = (*CarryRecords)(nil)

func New(opts Options) *CarryRecords {
	return &CarryRecords{rdb: goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})}
}

// NewFromClient wraps an existing client; Close will close it.
func NewFromClient(rdb *goredis.Client) *CarryRecords {
	return &CarryRecords{rdb: rdb}
}

func (c *CarryRecords) Ping(ctx context.Context) error { return c.rdb.Ping(ctx).Err() }
func (c *CarryRecords) Close() error                   { return c.rdb.Close() }

func slotKey(sessionID, key string) string {
	return keyPrefix + sessionID + ":" + key
}

func (c *CarryRecords) PutCarryRecord(ctx context.Context, rec domain.CarryRecord) error {
	updated := rec.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	k := slotKey(rec.SessionID, rec.Key)

	_, err := c.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Del(ctx, k)
		p.HSet(ctx, k,
			"payload", rec.Payload,
			"expires_at", rec.ExpiresAt.UnixMilli(),
			"updated_at", updated.UnixMilli(),
		)
		p.PExpireAt(ctx, k, rec.ExpiresAt)
		return nil
	})
	return err
}

func (c *CarryRecords) GetCarryRecord(ctx context.Context, sessionID, key string, now time.Time) (domain.CarryRecord, error) {
	fields, err := c.rdb.HGetAll(ctx, slotKey(sessionID, key)).Result()
	if err != nil {
		return domain.CarryRecord{}, err
	}
	payload, ok := fields["payload"]
	if !ok {
		return domain.CarryRecord{}, store.ErrNotFound
	}

	expires, err := parseMillis(fields["expires_at"])
	if err != nil {
		return domain.CarryRecord{}, err
	}
	// Redis expiry has millisecond resolution but the caller's clock decides.
	if !expires.After(now) {
		return domain.CarryRecord{}, store.ErrNotFound
	}
	updated, _ := parseMillis(fields["updated_at"])

	return domain.CarryRecord{
		SessionID: sessionID,
		Key:       key,
		Payload:   []byte(payload),
		ExpiresAt: expires,
		UpdatedAt: updated,
	}, nil
}

func (c *CarryRecords) DeleteCarryRecord(ctx context.Context, sessionID, key string) error {
	return c.rdb.Del(ctx, slotKey(sessionID, key)).Err()
}

// DeleteExpiredCarryRecords is a no-op; Redis evicts expired slots itself.
func (c *CarryRecords) DeleteExpiredCarryRecords(context.Context, time.Time) (int64, error) {
	return 0, nil
}

var errBadTimestamp = errors.New("redis: malformed carry timestamp")

func parseMillis(s string) (time.Time, error) {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, errBadTimestamp
	}
	return time.UnixMilli(ms), nil
}
