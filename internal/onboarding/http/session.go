package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/wizard"
	"github.com/aussiebroadwan/tenantboard/pkg/httpx"
	"github.com/aussiebroadwan/tenantboard/pkg/jwtx"
	"github.com/aussiebroadwan/tenantboard/pkg/slogx"
)

// SessionCookie carries the signed wizard session token.
const SessionCookie = "onboarding_session"

// SessionAudience is the audience of session tokens.
const SessionAudience = "onboarding"

var ErrNoSession = errors.New("http: no wizard session")

// Sessions issues and resolves the session cookie. Signer and Verifier are
// usually the same *jwtx.EdDSAKey.
type Sessions struct {
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	Issuer   string
	TTL      time.Duration
	// Secure marks the cookie HTTPS-only.
	Secure bool
	Now    func() time.Time
}

func (s *Sessions) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Sessions) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return jwtx.DefaultSessionTTL
}

// Issue signs a token for sid and sets it as the session cookie.
func (s *Sessions) Issue(w http.ResponseWriter, sid string) error {
	claims := jwtx.NewSessionClaims(sid, s.Issuer, []string{SessionAudience}, s.ttl(), s.now())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl().Seconds()),
		HttpOnly: true,
		Secure:   s.Secure,
		// Lax so the cookie survives the top-level return from the gateway.
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie.
func (s *Sessions) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Resolve returns the session id of a valid cookie.
func (s *Sessions) Resolve(r *http.Request) (string, error) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return "", ErrNoSession
	}
	claims, err := s.Verifier.Verify(c.Value)
	if err != nil {
		return "", err
	}
	return claims.SID, nil
}

// lookup resolves the live controller of the request's session, writing a
// 401 when there is none. The returned context carries a session-tagged
// logger.
func lookup(w http.ResponseWriter, r *http.Request, s *Sessions, m *wizard.Manager) (*wizard.Controller, context.Context, bool) {
	sid, err := s.Resolve(r)
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			slogx.FromContext(r.Context()).Info("rejected session cookie", "err", err)
			s.Clear(w)
		}
		httpx.WriteError(w, http.StatusUnauthorized, "session_required", "Start an onboarding session first.")
		return nil, nil, false
	}

	c, err := m.Get(sid)
	if err != nil {
		s.Clear(w)
		httpx.WriteError(w, http.StatusUnauthorized, "session_expired", "The onboarding session has expired. Please start again.")
		return nil, nil, false
	}
	return c, slogx.WithSession(r.Context(), sid), true
}

// peek is lookup without writing a response.
func peek(r *http.Request, s *Sessions, m *wizard.Manager) (*wizard.Controller, bool) {
	sid, err := s.Resolve(r)
	if err != nil {
		return nil, false
	}
	c, err := m.Get(sid)
	return c, err == nil
}
