// Package verification implements the contact-email gate: format checks,
// the duplicate check, and the send/verify code round trip with its expiry
// and resend cooldown countdowns.
package verification

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/backend"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/timer"
)

// Status is the verification state of the current address.
type Status string

const (
	StatusUnverified        Status = "unverified"
	StatusDuplicateChecking Status = "duplicate-checking"
	StatusDuplicateChecked  Status = "duplicate-checked"
	StatusCodeSent          Status = "code-sent"
	StatusVerified          Status = "verified"
)

const (
	DefaultCodeTTL        = 600
	DefaultResendCooldown = 60
)

var (
	ErrInvalidState = errors.New("verification: not allowed in current state")
	ErrDuplicate    = errors.New("verification: email already registered")
	ErrCheckFailed  = errors.New("verification: duplicate check failed")
	ErrSendFailed   = errors.New("verification: sending code failed")
	ErrCooldown     = errors.New("verification: resend cooldown active")
	ErrCodeFormat   = errors.New("verification: code must be 6 digits")
	ErrCodeExpired  = errors.New("verification: code expired")
	ErrCodeRejected = errors.New("verification: code rejected")
	ErrStale        = errors.New("verification: email changed during request")
)

const (
	msgCheckFailed = "Could not check the email address. Please try again."
	msgAvailable   = "This email address is available."
	msgDuplicate   = "This email address is already registered."
	msgSendFailed  = "Could not send the verification code. Please try again."
	msgCodeSent    = "A verification code has been sent."
	msgCooldown    = "Please wait before requesting another code."
	msgCodeFormat  = "Please enter the 6-digit code."
	msgCodeExpired = "The code has expired. Please request a new one."
	msgRejected    = "The verification code is incorrect."
	msgVerified    = "Email address verified."
)

var codePattern = regexp.MustCompile(`^[0-9]{6}$`)

// Config tunes an Engine. Unit counts are in ticks; with the default
// TickInterval of one second they are seconds.
type Config struct {
	CodeTTL        int
	ResendCooldown int

	// TickInterval drives the countdowns from a background pacer. Zero
	// disables the pacer and leaves ticking to the owner.
	TickInterval time.Duration

	Logger *slog.Logger
	Now    func() time.Time
}

func (c Config) withDefaults() Config {
	if c.CodeTTL <= 0 {
		c.CodeTTL = DefaultCodeTTL
	}
	if c.ResendCooldown <= 0 {
		c.ResendCooldown = DefaultResendCooldown
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// State is a point-in-time view of the engine.
type State struct {
	Email        string    `json:"email"`
	Status       Status    `json:"status"`
	Code         string    `json:"code,omitempty"`
	CodeExpired  bool      `json:"codeExpired"`
	ExpiresIn    int       `json:"expiresIn"`
	ResendIn     int       `json:"resendIn"`
	ExpiresAt    time.Time `json:"expiresAt,omitzero"`
	ResendAt     time.Time `json:"resendAt,omitzero"`
	AttemptCount int       `json:"attemptCount"`
	Message      string    `json:"message,omitempty"`
	Error        string    `json:"error,omitempty"`
}

// Cleared reports whether the address passed the duplicate check.
func (s State) Cleared() bool {
	switch s.Status {
	case StatusDuplicateChecked, StatusCodeSent, StatusVerified:
		return true
	}
	return false
}

// Engine is safe for concurrent use. Backend calls run without the lock
// held; their results are dropped when the address changed meanwhile.
type Engine struct {
	backend backend.EmailVerifier
	cfg     Config

	mu       sync.Mutex
	email    string
	status   Status
	code     string
	expiry   timer.Countdown
	cooldown timer.Countdown
	expired  bool
	attempts int
	message  string
	errMsg   string

	// generation changes on every address edit.
	generation uint64

	pacer    *timer.Pacer
	pacerSeq uint64
	closed   bool
}

func NewEngine(b backend.EmailVerifier, cfg Config) *Engine {
	return &Engine{backend: b, cfg: cfg.withDefaults(), status: StatusUnverified}
}

// SetEmail records the composed address. Any change resets the engine to
// unverified and cancels both countdowns. It reports whether the address
// changed.
func (e *Engine) SetEmail(addr string) bool {
	e.mu.Lock()
	if addr == e.email {
		e.mu.Unlock()
		return false
	}
	e.email = addr
	p := e.resetLocked()
	e.mu.Unlock()

	stopPacer(p)
	return true
}

// Reset returns to unverified without changing the address.
func (e *Engine) Reset() {
	e.mu.Lock()
	p := e.resetLocked()
	e.mu.Unlock()
	stopPacer(p)
}

func (e *Engine) resetLocked() *timer.Pacer {
	e.generation++
	e.status = StatusUnverified
	e.code = ""
	e.expiry.Cancel()
	e.cooldown.Cancel()
	e.expired = false
	e.attempts = 0
	e.message = ""
	e.errMsg = ""
	return e.detachPacerLocked()
}

// CheckDuplicate validates the format, then asks the backend whether the
// address is already registered.
func (e *Engine) CheckDuplicate(ctx context.Context) (State, error) {
	e.mu.Lock()
	addr := e.email
	if err := ValidateEmail(addr); err != nil {
		var fe *FormatError
		errors.As(err, &fe)
		return e.failLocked(err, fe.Message)
	}
	if e.status != StatusUnverified {
		return e.failLocked(ErrInvalidState, "")
	}
	e.status = StatusDuplicateChecking
	e.message, e.errMsg = "", ""
	gen := e.generation
	e.mu.Unlock()

	res, err := e.backend.CheckEmailDuplicate(ctx, addr)

	e.mu.Lock()
	if gen != e.generation {
		st := e.snapshotLocked()
		e.mu.Unlock()
		return st, ErrStale
	}

	switch {
	case err == nil && res == nil:
		err = errors.New("empty response")
		fallthrough
	case err != nil:
		e.status = StatusUnverified
		e.cfg.Logger.WarnContext(ctx, "email duplicate check failed", "err", err)
		return e.failLocked(errors.Join(ErrCheckFailed, err), msgCheckFailed)
	case res.IsDuplicate || !res.Available:
		e.status = StatusUnverified
		msg := res.Message
		if msg == "" {
			msg = msgDuplicate
		}
		return e.failLocked(ErrDuplicate, msg)
	}

	e.status = StatusDuplicateChecked
	e.message = res.Message
	if e.message == "" {
		e.message = msgAvailable
	}
	st := e.snapshotLocked()
	e.mu.Unlock()
	return st, nil
}

// SendCode requests a verification code. It is allowed after a successful
// duplicate check, and again from code-sent once the cooldown has elapsed.
// Success restarts both countdowns.
func (e *Engine) SendCode(ctx context.Context) (State, error) {
	e.mu.Lock()
	if e.status != StatusDuplicateChecked && e.status != StatusCodeSent {
		return e.failLocked(ErrInvalidState, "")
	}
	if e.cooldown.Active() {
		return e.failLocked(ErrCooldown, msgCooldown)
	}
	addr, gen := e.email, e.generation
	e.mu.Unlock()

	if err := e.backend.SendEmailVerificationCode(ctx, addr); err != nil {
		e.mu.Lock()
		if gen != e.generation {
			st := e.snapshotLocked()
			e.mu.Unlock()
			return st, ErrStale
		}
		e.cfg.Logger.WarnContext(ctx, "sending verification code failed", "err", err)
		return e.failLocked(errors.Join(ErrSendFailed, err), backend.MessageOf(err, msgSendFailed))
	}

	e.mu.Lock()
	if gen != e.generation {
		st := e.snapshotLocked()
		e.mu.Unlock()
		return st, ErrStale
	}
	e.status = StatusCodeSent
	e.code = ""
	e.expired = false
	e.expiry.Start(e.cfg.CodeTTL)
	e.cooldown.Start(e.cfg.ResendCooldown)
	e.message, e.errMsg = msgCodeSent, ""
	old := e.startPacerLocked()
	st := e.snapshotLocked()
	e.mu.Unlock()

	stopPacer(old)
	return st, nil
}

// VerifyCode submits the code the user entered. An expired code is rejected
// before any backend call. A rejected code counts as a failed attempt.
func (e *Engine) VerifyCode(ctx context.Context, code string) (State, error) {
	e.mu.Lock()
	e.code = code
	if e.status != StatusCodeSent {
		return e.failLocked(ErrInvalidState, "")
	}
	if !codePattern.MatchString(code) {
		return e.failLocked(ErrCodeFormat, msgCodeFormat)
	}
	if e.expired {
		return e.failLocked(ErrCodeExpired, msgCodeExpired)
	}
	addr, gen := e.email, e.generation
	e.mu.Unlock()

	err := e.backend.VerifyEmailCode(ctx, addr, code)

	e.mu.Lock()
	if gen != e.generation {
		st := e.snapshotLocked()
		e.mu.Unlock()
		return st, ErrStale
	}
	if err != nil {
		e.attempts++
		return e.failLocked(errors.Join(ErrCodeRejected, err), backend.MessageOf(err, msgRejected))
	}

	e.status = StatusVerified
	e.code = ""
	e.expiry.Cancel()
	e.expired = false
	e.attempts = 0
	e.message, e.errMsg = msgVerified, ""
	p := e.detachPacerLocked()
	st := e.snapshotLocked()
	e.mu.Unlock()

	stopPacer(p)
	return st, nil
}

// Tick advances both countdowns by one unit and reports whether either is
// still running.
func (e *Engine) Tick() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tickLocked()
}

func (e *Engine) tickLocked() bool {
	if e.expiry.Tick() && e.status == StatusCodeSent {
		e.expired = true
		e.errMsg = msgCodeExpired
	}
	e.cooldown.Tick()
	return e.expiry.Active() || e.cooldown.Active()
}

// State returns a snapshot.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Close stops the pacer. The engine must not be used afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	p := e.detachPacerLocked()
	e.mu.Unlock()
	stopPacer(p)
}

// failLocked records a user-facing message, unlocks, and returns err.
func (e *Engine) failLocked(err error, msg string) (State, error) {
	if msg != "" {
		e.errMsg = msg
		e.message = ""
	}
	st := e.snapshotLocked()
	e.mu.Unlock()
	return st, err
}

func (e *Engine) snapshotLocked() State {
	st := State{
		Email:        e.email,
		Status:       e.status,
		Code:         e.code,
		CodeExpired:  e.expired,
		ExpiresIn:    e.expiry.Remaining(),
		ResendIn:     e.cooldown.Remaining(),
		AttemptCount: e.attempts,
		Message:      e.message,
		Error:        e.errMsg,
	}

	unit := e.cfg.TickInterval
	if unit <= 0 {
		unit = time.Second
	}
	now := e.cfg.Now()
	if e.expiry.Active() {
		st.ExpiresAt = now.Add(time.Duration(st.ExpiresIn) * unit)
	}
	if e.cooldown.Active() {
		st.ResendAt = now.Add(time.Duration(st.ResendIn) * unit)
	}
	return st
}

// startPacerLocked replaces the running pacer, returning the old one for the
// caller to stop once the lock is released.
func (e *Engine) startPacerLocked() *timer.Pacer {
	old := e.detachPacerLocked()
	if e.cfg.TickInterval <= 0 || e.closed {
		return old
	}

	seq := e.pacerSeq
	e.pacer = timer.StartPacer(e.cfg.TickInterval, func() bool {
		e.mu.Lock()
		defer e.mu.Unlock()
		if seq != e.pacerSeq {
			return false
		}
		return e.tickLocked()
	})
	return old
}

func (e *Engine) detachPacerLocked() *timer.Pacer {
	e.pacerSeq++
	p := e.pacer
	e.pacer = nil
	return p
}

func stopPacer(p *timer.Pacer) {
	if p != nil {
		p.Stop()
	}
}
