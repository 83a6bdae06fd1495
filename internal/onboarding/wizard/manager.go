package wizard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/domain"
	"github.com/aussiebroadwan/tenantboard/pkg/idx"
)

// DefaultIdleTTL is how long an untouched session survives.
const DefaultIdleTTL = 2 * time.Hour

var ErrSessionNotFound = errors.New("wizard: session not found")

type ManagerOptions struct {
	IdleTTL time.Duration
	Now     func() time.Time
}

// Manager owns the live wizard sessions of this process.
type Manager struct {
	deps    Deps
	idleTTL time.Duration
	now     func() time.Time
	logger  *slog.Logger

	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	c       *Controller
	touched time.Time
}

func NewManager(deps Deps, opts ManagerOptions) *Manager {
	deps = deps.withDefaults()
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = DefaultIdleTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{
		deps:     deps,
		idleTTL:  opts.IdleTTL,
		now:      opts.Now,
		logger:   deps.Logger,
		sessions: make(map[string]*entry),
	}
}

// Create starts a session. A non-empty planID preselects the plan.
func (m *Manager) Create(ctx context.Context, planID string) *Controller {
	c := newController(idx.Prefixed("wiz"), m.deps)
	c.form.PlanID = planID

	m.mu.Lock()
	m.sessions[c.id] = &entry{c: c, touched: m.now()}
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "wizard session created", "session_id", c.id, "plan_id", planID)
	return c
}

// Get returns the live session and marks it active.
func (m *Manager) Get(id string) (*Controller, error) {
	m.mu.Lock()
	e, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	now := m.now()
	if now.Sub(e.touched) > m.idleTTL {
		delete(m.sessions, id)
		m.mu.Unlock()
		e.c.Close()
		return nil, ErrSessionNotFound
	}
	e.touched = now
	m.mu.Unlock()
	return e.c, nil
}

// MarkReconciled flags the session whose callback succeeded. An embedded
// callback arrives without the session cookie, so the session is then
// found by the customer key its hand-off was started with. It reports
// whether a session was marked.
func (m *Manager) MarkReconciled(sessionID, customerKey string, k domain.HandoffKind) bool {
	if sessionID != "" {
		c, err := m.Get(sessionID)
		if err != nil {
			return false
		}
		c.MarkReconciled(k)
		return true
	}
	if customerKey == "" {
		return false
	}

	m.mu.Lock()
	all := make([]*Controller, 0, len(m.sessions))
	for _, e := range m.sessions {
		all = append(all, e.c)
	}
	m.mu.Unlock()

	for _, c := range all {
		if c.hasCustomerKey(customerKey) {
			c.MarkReconciled(k)
			return true
		}
	}
	return false
}

// Drop closes and forgets a session.
func (m *Manager) Drop(id string) {
	m.mu.Lock()
	e, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		e.c.Close()
	}
}

// Sweep closes sessions idle for longer than the TTL and returns how many
// went. Abandoned forms go with them.
func (m *Manager) Sweep(ctx context.Context) int {
	now := m.now()

	m.mu.Lock()
	var idle []*Controller
	for id, e := range m.sessions {
		if now.Sub(e.touched) > m.idleTTL {
			idle = append(idle, e.c)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, c := range idle {
		c.Close()
	}
	if len(idle) > 0 {
		m.logger.InfoContext(ctx, "expired idle wizard sessions", "count", len(idle))
	}
	return len(idle)
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close ends every session.
func (m *Manager) Close() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*entry)
	m.mu.Unlock()

	for _, e := range all {
		e.c.Close()
	}
}
