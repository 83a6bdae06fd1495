package guard_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/guard"
	"github.com/aussiebroadwan/tenantboard/pkg/slogx"
	"github.com/stretchr/testify/require"
)

// manualClock records scheduled unlocks so tests fire them explicitly.
type manualClock struct {
	mu      sync.Mutex
	delays  []time.Duration
	pending []func()
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delays = append(c.delays, d)
	c.pending = append(c.pending, f)
}

func (c *manualClock) fire() {
	c.mu.Lock()
	fns := c.pending
	c.pending = nil
	c.mu.Unlock()
	for _, f := range fns {
		f()
	}
}

func newGuard(clock *manualClock, delay time.Duration) *guard.Guard {
	return guard.New("next", guard.Options{
		UnlockDelay: delay,
		Logger:      slogx.Discard(),
		AfterFunc:   clock.AfterFunc,
	})
}

func TestGuard_BackToBackInvocationsRunOnce(t *testing.T) {
	t.Parallel()

	clock := &manualClock{}
	g := newGuard(clock, 500*time.Millisecond)

	var calls int
	action := func(context.Context) error { calls++; return nil }

	require.True(t, g.Run(context.Background(), false, action))
	require.False(t, g.Run(context.Background(), false, action))
	require.Equal(t, 1, calls)
	require.True(t, g.Locked())
	require.Equal(t, []time.Duration{500 * time.Millisecond}, clock.delays)

	clock.fire()
	require.False(t, g.Locked())
	require.True(t, g.Run(context.Background(), false, action))
	require.Equal(t, 2, calls)
}

func TestGuard_LockedWhileActionRuns(t *testing.T) {
	t.Parallel()

	clock := &manualClock{}
	g := newGuard(clock, time.Second)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan bool)

	go func() {
		done <- g.Run(context.Background(), false, func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started
	require.True(t, g.Locked())
	require.False(t, g.Run(context.Background(), false, func(context.Context) error { return nil }))
	require.Empty(t, clock.delays, "unlock is scheduled only after the action returns")

	close(release)
	require.True(t, <-done)
	require.True(t, g.Locked(), "unlock is never immediate")
	clock.fire()
	require.False(t, g.Locked())
}

func TestGuard_DisabledGuardingRunsEveryTime(t *testing.T) {
	t.Parallel()

	clock := &manualClock{}
	g := guard.New("send-code", guard.Options{Disabled: true, Logger: slogx.Discard(), AfterFunc: clock.AfterFunc})

	var calls int
	for range 3 {
		require.True(t, g.Run(context.Background(), false, func(context.Context) error { calls++; return nil }))
	}
	require.Equal(t, 3, calls)
	require.False(t, g.Locked())
	require.Empty(t, clock.delays)
}

func TestGuard_DisabledControlIsNoop(t *testing.T) {
	t.Parallel()

	clock := &manualClock{}
	g := newGuard(clock, time.Second)

	var calls int
	require.False(t, g.Run(context.Background(), true, func(context.Context) error { calls++; return nil }))
	require.Zero(t, calls)
	require.False(t, g.Locked())
}

func TestGuard_FailuresStillUnlockAfterDelay(t *testing.T) {
	t.Parallel()

	tests := map[string]guard.Action{
		"error": func(context.Context) error { return errors.New("boom") },
		"panic": func(context.Context) error { panic("boom") },
	}

	for name, action := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			clock := &manualClock{}
			g := newGuard(clock, 250*time.Millisecond)

			require.NotPanics(t, func() {
				require.True(t, g.Run(context.Background(), false, action))
			})
			require.True(t, g.Locked())
			require.Equal(t, []time.Duration{250 * time.Millisecond}, clock.delays)

			clock.fire()
			require.False(t, g.Locked())
		})
	}
}

func TestGuard_ResetCancelsPendingUnlock(t *testing.T) {
	t.Parallel()

	clock := &manualClock{}
	g := newGuard(clock, time.Second)
	noop := func(context.Context) error { return nil }

	require.True(t, g.Run(context.Background(), false, noop))
	g.Reset()
	require.False(t, g.Locked())

	require.True(t, g.Run(context.Background(), false, noop))
	stale := clock.pending[0]
	stale()
	require.True(t, g.Locked(), "a stale unlock must not release a newer lock")
}

func TestGuard_RealTimer(t *testing.T) {
	t.Parallel()

	g := guard.New("submit", guard.Options{UnlockDelay: 20 * time.Millisecond, Logger: slogx.Discard()})

	var calls atomic.Int32
	action := func(context.Context) error { calls.Add(1); return nil }

	require.True(t, g.Run(context.Background(), false, action))
	require.False(t, g.Run(context.Background(), false, action))
	require.Eventually(t, func() bool { return !g.Locked() }, time.Second, 5*time.Millisecond)
	require.True(t, g.Run(context.Background(), false, action))
	require.EqualValues(t, 2, calls.Load())
}

func TestSet(t *testing.T) {
	t.Parallel()

	clock := &manualClock{}
	s := guard.NewSet(guard.Options{Logger: slogx.Discard(), AfterFunc: clock.AfterFunc})

	require.Same(t, s.For("next"), s.For("next"))
	require.NotSame(t, s.For("next"), s.For("submit"))

	s.For("submit").Run(context.Background(), false, func(context.Context) error { return nil })
	s.For("next").Run(context.Background(), false, func(context.Context) error { return nil })
	require.Equal(t, []string{"next", "submit"}, s.Locked())

	clock.fire()
	require.Empty(t, s.Locked())
}
