package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenantboard/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingCleanup(t *testing.T) {
	t.Parallel()

	var ran []string
	h := NewHousekeeping(slogx.Discard(), 0,
		Task{Name: "a", Run: func(context.Context) (int64, error) {
			ran = append(ran, "a")
			return 0, errors.New("boom")
		}},
		Task{Name: "b", Run: func(context.Context) (int64, error) {
			ran = append(ran, "b")
			return 3, nil
		}},
	)
	require.Equal(t, 5*time.Minute, h.Interval)

	h.Cleanup(context.Background())
	require.Equal(t, []string{"a", "b"}, ran)
}

func TestHousekeepingStartStop(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	h := NewHousekeeping(slogx.Discard(), 10*time.Millisecond, Task{
		Name: "count",
		Run: func(context.Context) (int64, error) {
			runs.Add(1)
			return 0, nil
		},
	})

	h.Start()
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	h.Stop()

	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, after, runs.Load())
}
