package verification_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/verification"
	"github.com/aussiebroadwan/tenantboard/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const addr = "alice@example.com"

func newEngine(t *testing.T, fv *fakeVerifier) *verification.Engine {
	t.Helper()
	e := verification.NewEngine(fv, verification.Config{
		CodeTTL:        600,
		ResendCooldown: 60,
		Logger:         slogx.Discard(),
	})
	t.Cleanup(e.Close)
	return e
}

// codeSent drives a fresh engine to code-sent.
func codeSent(t *testing.T, e *verification.Engine) {
	t.Helper()
	ctx := context.Background()
	e.SetEmail(addr)
	_, err := e.CheckDuplicate(ctx)
	require.NoError(t, err)
	st, err := e.SendCode(ctx)
	require.NoError(t, err)
	require.Equal(t, verification.StatusCodeSent, st.Status)
}

func ticks(e *verification.Engine, n int) {
	for range n {
		e.Tick()
	}
}

func TestEngine_FormatFailureMakesNoCall(t *testing.T) {
	t.Parallel()

	fv := newFakeVerifier()
	e := newEngine(t, fv)

	e.SetEmail("alice.example.com")
	st, err := e.CheckDuplicate(context.Background())
	require.ErrorIs(t, err, verification.ErrEmailInvalid)
	require.Equal(t, verification.StatusUnverified, st.Status)
	require.NotEmpty(t, st.Error)

	checks, _, _ := fv.counts()
	require.Zero(t, checks)
}

func TestEngine_DuplicateCheck(t *testing.T) {
	t.Parallel()

	t.Run("available", func(t *testing.T) {
		e := newEngine(t, newFakeVerifier())
		e.SetEmail(addr)

		st, err := e.CheckDuplicate(context.Background())
		require.NoError(t, err)
		require.Equal(t, verification.StatusDuplicateChecked, st.Status)
		require.True(t, st.Cleared())
		require.NotEmpty(t, st.Message)
	})

	t.Run("duplicate surfaces server reason", func(t *testing.T) {
		fv := newFakeVerifier()
		fv.duplicates[addr] = true
		e := newEngine(t, fv)
		e.SetEmail(addr)

		st, err := e.CheckDuplicate(context.Background())
		require.ErrorIs(t, err, verification.ErrDuplicate)
		require.Equal(t, verification.StatusUnverified, st.Status)
		require.Equal(t, "already in use by another tenant", st.Error)
	})

	t.Run("transport error is generic", func(t *testing.T) {
		fv := newFakeVerifier()
		fv.checkErr = errors.New("dial tcp: connection refused")
		e := newEngine(t, fv)
		e.SetEmail(addr)

		st, err := e.CheckDuplicate(context.Background())
		require.ErrorIs(t, err, verification.ErrCheckFailed)
		require.Equal(t, verification.StatusUnverified, st.Status)
		require.NotContains(t, st.Error, "dial tcp")
	})

	t.Run("only from unverified", func(t *testing.T) {
		e := newEngine(t, newFakeVerifier())
		e.SetEmail(addr)
		_, err := e.CheckDuplicate(context.Background())
		require.NoError(t, err)

		_, err = e.CheckDuplicate(context.Background())
		require.ErrorIs(t, err, verification.ErrInvalidState)
	})
}

func TestEngine_SendCode(t *testing.T) {
	t.Parallel()

	t.Run("requires duplicate check", func(t *testing.T) {
		fv := newFakeVerifier()
		e := newEngine(t, fv)
		e.SetEmail(addr)

		_, err := e.SendCode(context.Background())
		require.ErrorIs(t, err, verification.ErrInvalidState)
		_, sends, _ := fv.counts()
		require.Zero(t, sends)
	})

	t.Run("starts both countdowns", func(t *testing.T) {
		e := newEngine(t, newFakeVerifier())
		codeSent(t, e)

		st := e.State()
		require.Equal(t, 600, st.ExpiresIn)
		require.Equal(t, 60, st.ResendIn)
		require.False(t, st.ExpiresAt.IsZero())
		require.False(t, st.ResendAt.IsZero())
	})

	t.Run("resend rejected during cooldown then restarts timers", func(t *testing.T) {
		fv := newFakeVerifier()
		e := newEngine(t, fv)
		codeSent(t, e)

		ticks(e, 59)
		st, err := e.SendCode(context.Background())
		require.ErrorIs(t, err, verification.ErrCooldown)
		require.Equal(t, 1, st.ResendIn)
		_, sends, _ := fv.counts()
		require.Equal(t, 1, sends)

		e.Tick()
		st, err = e.SendCode(context.Background())
		require.NoError(t, err)
		require.Equal(t, 600, st.ExpiresIn)
		require.Equal(t, 60, st.ResendIn)
		_, sends, _ = fv.counts()
		require.Equal(t, 2, sends)
	})

	t.Run("backend failure keeps state", func(t *testing.T) {
		fv := newFakeVerifier()
		e := newEngine(t, fv)
		e.SetEmail(addr)
		_, err := e.CheckDuplicate(context.Background())
		require.NoError(t, err)

		fv.sendErr = errors.New("smtp down")
		st, err := e.SendCode(context.Background())
		require.ErrorIs(t, err, verification.ErrSendFailed)
		require.Equal(t, verification.StatusDuplicateChecked, st.Status)
		require.Zero(t, st.ResendIn)
	})
}

func TestEngine_VerifyCode(t *testing.T) {
	t.Parallel()

	t.Run("success clears code and expiry", func(t *testing.T) {
		e := newEngine(t, newFakeVerifier())
		codeSent(t, e)

		_, err := e.VerifyCode(context.Background(), "000000")
		require.ErrorIs(t, err, verification.ErrCodeRejected)

		st, err := e.VerifyCode(context.Background(), "123456")
		require.NoError(t, err)
		require.Equal(t, verification.StatusVerified, st.Status)
		require.Empty(t, st.Code)
		require.Zero(t, st.ExpiresIn)
		require.Zero(t, st.AttemptCount)
	})

	t.Run("mismatch increments attempts without cap", func(t *testing.T) {
		fv := newFakeVerifier()
		e := newEngine(t, fv)
		codeSent(t, e)

		for i := 1; i <= 7; i++ {
			st, err := e.VerifyCode(context.Background(), "999999")
			require.ErrorIs(t, err, verification.ErrCodeRejected)
			require.Equal(t, verification.StatusCodeSent, st.Status)
			require.Equal(t, i, st.AttemptCount)
			require.Equal(t, "code mismatch", st.Error)
		}
		_, _, verifies := fv.counts()
		require.Equal(t, 7, verifies)
	})

	t.Run("non numeric code rejected locally", func(t *testing.T) {
		fv := newFakeVerifier()
		e := newEngine(t, fv)
		codeSent(t, e)

		for _, code := range []string{"", "12345", "1234567", "12a456"} {
			_, err := e.VerifyCode(context.Background(), code)
			require.ErrorIs(t, err, verification.ErrCodeFormat, code)
		}
		_, _, verifies := fv.counts()
		require.Zero(t, verifies)
	})

	t.Run("expired rejected before backend", func(t *testing.T) {
		fv := newFakeVerifier()
		e := newEngine(t, fv)
		codeSent(t, e)

		ticks(e, 600)
		st := e.State()
		require.True(t, st.CodeExpired)

		st, err := e.VerifyCode(context.Background(), "123456")
		require.ErrorIs(t, err, verification.ErrCodeExpired)
		require.Equal(t, verification.StatusCodeSent, st.Status)
		_, _, verifies := fv.counts()
		require.Zero(t, verifies)
	})
}

func TestEngine_EditingEmailResets(t *testing.T) {
	t.Parallel()

	e := newEngine(t, newFakeVerifier())
	codeSent(t, e)
	_, err := e.VerifyCode(context.Background(), "000000")
	require.ErrorIs(t, err, verification.ErrCodeRejected)
	st, err := e.VerifyCode(context.Background(), "123456")
	require.NoError(t, err)
	require.Equal(t, verification.StatusVerified, st.Status)

	require.False(t, e.SetEmail(addr), "same address is not an edit")
	require.Equal(t, verification.StatusVerified, e.State().Status)

	require.True(t, e.SetEmail("alice@example.org"), "domain-only change is an edit")
	st = e.State()
	require.Equal(t, verification.StatusUnverified, st.Status)
	require.Empty(t, st.Code)
	require.Zero(t, st.ExpiresIn)
	require.Zero(t, st.ResendIn)
	require.Zero(t, st.AttemptCount)
	require.False(t, st.Cleared())
}

func TestEngine_EditDuringCodeSentClearsEnteredCode(t *testing.T) {
	t.Parallel()

	e := newEngine(t, newFakeVerifier())
	codeSent(t, e)
	_, _ = e.VerifyCode(context.Background(), "111111")
	require.Equal(t, "111111", e.State().Code)

	e.SetEmail("bob@example.com")
	st := e.State()
	require.Empty(t, st.Code)
	require.Equal(t, verification.StatusUnverified, st.Status)
}

func TestEngine_StaleResultDiscarded(t *testing.T) {
	t.Parallel()

	fv := newFakeVerifier()
	fv.gate = make(chan struct{})
	e := newEngine(t, fv)
	e.SetEmail(addr)

	done := make(chan error)
	go func() {
		_, err := e.CheckDuplicate(context.Background())
		done <- err
	}()

	require.Eventually(t, func() bool {
		return e.State().Status == verification.StatusDuplicateChecking
	}, time.Second, time.Millisecond)

	e.SetEmail("bob@example.com")
	fv.gate <- struct{}{}

	require.ErrorIs(t, <-done, verification.ErrStale)
	require.Equal(t, verification.StatusUnverified, e.State().Status)
}

func TestEngine_PacerExpiresCode(t *testing.T) {
	t.Parallel()

	fv := newFakeVerifier()
	e := verification.NewEngine(fv, verification.Config{
		CodeTTL:        5,
		ResendCooldown: 2,
		TickInterval:   time.Millisecond,
		Logger:         slogx.Discard(),
	})
	t.Cleanup(e.Close)

	codeSent(t, e)
	require.Eventually(t, func() bool { return e.State().CodeExpired }, time.Second, time.Millisecond)

	st := e.State()
	require.Zero(t, st.ExpiresIn)
	require.Zero(t, st.ResendIn)

	st, err := e.SendCode(context.Background())
	require.NoError(t, err)
	require.False(t, st.CodeExpired)
	require.Equal(t, 5, st.ExpiresIn)

	e.SetEmail("bob@example.com")
	require.Zero(t, e.State().ExpiresIn)
}
