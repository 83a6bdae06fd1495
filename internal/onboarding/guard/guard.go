// Package guard serialises interactive actions: while an action runs, and
// for a short delay after it settles, further triggers are ignored.
package guard

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// DefaultUnlockDelay is how long a guard stays locked after its action
// returns.
const DefaultUnlockDelay = time.Second

// Action is the guarded work. Returned errors are logged, not propagated;
// callers that care about failure record it through closure state.
type Action func(context.Context) error

// Options configure a Guard. The zero value guards with DefaultUnlockDelay.
type Options struct {
	// Disabled turns guarding off: actions always run and nothing locks.
	Disabled bool

	// UnlockDelay defaults to DefaultUnlockDelay.
	UnlockDelay time.Duration

	Logger *slog.Logger

	// AfterFunc schedules f after d. Defaults to time.AfterFunc.
	AfterFunc func(d time.Duration, f func())
}

func (o Options) withDefaults() Options {
	if o.UnlockDelay <= 0 {
		o.UnlockDelay = DefaultUnlockDelay
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.AfterFunc == nil {
		o.AfterFunc = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}
	return o
}

// Guard protects a single control.
type Guard struct {
	name string
	opts Options

	mu     sync.Mutex
	locked bool
	epoch  uint64
}

// New creates an unlocked guard for the control called name.
func New(name string, opts Options) *Guard {
	return &Guard{name: name, opts: opts.withDefaults()}
}

// Name is the control the guard protects.
func (g *Guard) Name() string { return g.name }

// Locked reports whether a trigger right now would be ignored.
func (g *Guard) Locked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.locked
}

// Run invokes action unless the guard is locked or the control is disabled,
// and reports whether it did. With guarding enabled the guard locks before
// the action starts and unlocks UnlockDelay after it returns, whatever the
// outcome.
func (g *Guard) Run(ctx context.Context, controlDisabled bool, action Action) bool {
	if controlDisabled {
		return false
	}

	if g.opts.Disabled {
		g.invoke(ctx, action)
		return true
	}

	g.mu.Lock()
	if g.locked {
		g.mu.Unlock()
		return false
	}
	g.locked = true
	g.epoch++
	epoch := g.epoch
	g.mu.Unlock()

	defer g.opts.AfterFunc(g.opts.UnlockDelay, func() { g.unlock(epoch) })
	g.invoke(ctx, action)
	return true
}

// Reset releases the lock immediately and cancels any pending unlock.
func (g *Guard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.locked = false
	g.epoch++
}

func (g *Guard) unlock(epoch uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.epoch == epoch {
		g.locked = false
	}
}

func (g *Guard) invoke(ctx context.Context, action Action) {
	defer func() {
		if r := recover(); r != nil {
			g.opts.Logger.ErrorContext(ctx, "guarded action panicked",
				"action", g.name,
				"panic", fmt.Sprint(r),
			)
		}
	}()

	if err := action(ctx); err != nil {
		g.opts.Logger.WarnContext(ctx, "guarded action failed",
			"action", g.name,
			"err", err,
		)
	}
}

// Set hands out one Guard per named control, created on first use.
type Set struct {
	opts Options

	mu     sync.Mutex
	guards map[string]*Guard
}

func NewSet(opts Options) *Set {
	return &Set{opts: opts, guards: make(map[string]*Guard)}
}

// For returns the guard for the named control.
func (s *Set) For(name string) *Guard {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.guards[name]
	if !ok {
		g = New(name, s.opts)
		s.guards[name] = g
	}
	return g
}

// Locked lists the names of currently locked controls, sorted.
func (s *Set) Locked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []string
	for name, g := range s.guards {
		if g.Locked() {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
