package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenantboard/pkg/httpx"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func request(remote string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remote
	return req
}

func TestIPKeyExtractor(t *testing.T) {
	t.Parallel()

	t.Run("remote addr", func(t *testing.T) {
		require.Equal(t, "192.168.1.1", httpx.IPKeyExtractor(request("192.168.1.1:12345")))
	})

	t.Run("prefers X-Forwarded-For", func(t *testing.T) {
		req := request("192.168.1.1:12345")
		req.Header.Set("X-Forwarded-For", "203.0.113.1, 192.168.1.1")
		require.Equal(t, "203.0.113.1", httpx.IPKeyExtractor(req))
	})

	t.Run("X-Real-IP", func(t *testing.T) {
		req := request("192.168.1.1:12345")
		req.Header.Set("X-Real-IP", "203.0.113.2")
		require.Equal(t, "203.0.113.2", httpx.IPKeyExtractor(req))
	})
}

func TestCookieAndQueryKeyExtractors(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/?email=Alice@Example.com", nil)
	req.AddCookie(&http.Cookie{Name: "onboarding_session", Value: "tok"})

	require.Equal(t, "tok", httpx.CookieKeyExtractor("onboarding_session")(req))
	require.Equal(t, "", httpx.CookieKeyExtractor("other")(req))
	require.Equal(t, "alice@example.com", httpx.QueryKeyExtractor("email")(req))

	req.RemoteAddr = "10.0.0.1:1"
	key := httpx.CompositeKeyExtractor(":", httpx.IPKeyExtractor, httpx.CookieKeyExtractor("other"), httpx.QueryKeyExtractor("email"))
	require.Equal(t, "10.0.0.1:alice@example.com", key(req))
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("blocks over limit with headers", func(t *testing.T) {
		cfg := httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}
		h := httpx.RateLimitByIP(cfg)(okHandler)

		for i := range 2 {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, request("192.168.1.1:1"))
			require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
		}

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, request("192.168.1.1:1"))
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.NotEmpty(t, rec.Header().Get("Retry-After"))
		require.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
		require.Equal(t, "1m0s", rec.Header().Get("X-RateLimit-Window"))
		require.Contains(t, rec.Body.String(), "rate_limit_exceeded")

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, request("192.168.1.2:1"))
		require.Equal(t, http.StatusOK, rec.Code, "other clients have their own bucket")
	})

	t.Run("empty key bypasses", func(t *testing.T) {
		cfg := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
		h := httpx.RateLimitMiddleware(cfg, func(*http.Request) string { return "" })(okHandler)

		for range 3 {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, request("192.168.1.1:1"))
			require.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("by session", func(t *testing.T) {
		cfg := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
		h := httpx.RateLimitBySession(cfg, "sid")(okHandler)

		withCookie := func(v string) *http.Request {
			req := request("192.168.1.1:1")
			req.AddCookie(&http.Cookie{Name: "sid", Value: v})
			return req
		}

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, withCookie("a"))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, withCookie("a"))
		require.Equal(t, http.StatusTooManyRequests, rec.Code)

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, withCookie("b"))
		require.Equal(t, http.StatusOK, rec.Code, "same IP, different session")
	})
}

func TestRateLimitProfilesFromEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"RATELIMIT_STRICT_REQUESTS":   "3",
		"RATELIMIT_STRICT_WINDOW_SEC": "30",
		"RATELIMIT_PUBLIC_BURST":      "7",
		"RATELIMIT_MODERATE_BURST":    "-1",
	}
	p := httpx.RateLimitProfilesFromEnv(func(k string) string { return env[k] })
	def := httpx.DefaultRateLimitProfiles()

	require.Equal(t, 3, p.Strict.RequestsPerWindow)
	require.Equal(t, 30*time.Second, p.Strict.Window)
	require.Equal(t, def.Strict.Burst, p.Strict.Burst)
	require.Equal(t, 7, p.Public.Burst)
	require.Equal(t, def.Moderate, p.Moderate, "non-positive overrides are ignored")
	require.Equal(t, def.Lenient, p.Lenient)

	require.Less(t, def.Strict.RequestsPerWindow, def.Moderate.RequestsPerWindow)
	require.Less(t, def.Moderate.RequestsPerWindow, def.Lenient.RequestsPerWindow)
	require.Less(t, def.Lenient.RequestsPerWindow, def.Public.RequestsPerWindow)
}
