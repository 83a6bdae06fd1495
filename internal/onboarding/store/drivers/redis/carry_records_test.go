package redis_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/domain"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/store"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/store/drivers/redis"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *redis.CarryRecords {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	c := redis.New(redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = c.Close() })
	require.NoError(t, c.Ping(ctx))
	return c
}

func TestCarryRecords(t *testing.T) {
	c := startRedis(t)
	ctx := context.Background()
	now := time.Now()

	t.Run("last writer wins", func(t *testing.T) {
		require.NoError(t, c.PutCarryRecord(ctx, domain.CarryRecord{
			SessionID: "s1", Key: domain.CarryKey, Payload: []byte("first"), ExpiresAt: now.Add(time.Hour),
		}))
		require.NoError(t, c.PutCarryRecord(ctx, domain.CarryRecord{
			SessionID: "s1", Key: domain.CarryKey, Payload: []byte("second"), ExpiresAt: now.Add(time.Hour),
		}))

		rec, err := c.GetCarryRecord(ctx, "s1", domain.CarryKey, now)
		require.NoError(t, err)
		require.Equal(t, []byte("second"), rec.Payload)
		require.WithinDuration(t, now.Add(time.Hour), rec.ExpiresAt, time.Millisecond)
	})

	t.Run("missing and deleted slots", func(t *testing.T) {
		_, err := c.GetCarryRecord(ctx, "nobody", domain.CarryKey, now)
		require.ErrorIs(t, err, store.ErrNotFound)

		require.NoError(t, c.PutCarryRecord(ctx, domain.CarryRecord{
			SessionID: "s2", Key: domain.CarryKey, Payload: []byte("x"), ExpiresAt: now.Add(time.Hour),
		}))
		require.NoError(t, c.DeleteCarryRecord(ctx, "s2", domain.CarryKey))
		_, err = c.GetCarryRecord(ctx, "s2", domain.CarryKey, now)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("ttl evicts", func(t *testing.T) {
		require.NoError(t, c.PutCarryRecord(ctx, domain.CarryRecord{
			SessionID: "s3", Key: domain.CarryKey, Payload: []byte("x"), ExpiresAt: time.Now().Add(200 * time.Millisecond),
		}))
		require.Eventually(t, func() bool {
			_, err := c.GetCarryRecord(ctx, "s3", domain.CarryKey, time.Now())
			return err != nil
		}, 5*time.Second, 50*time.Millisecond)
	})
}
