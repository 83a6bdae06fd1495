package onboarding_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/aussiebroadwan/tenantboard/pkg/backendsdk"
	"github.com/stretchr/testify/require"
)

// TestSkipPaymentSubmits walks the wizard without a payment method.
func TestSkipPaymentSubmits(t *testing.T) {
	baseURL := setupOnboardingContainer(t, nil)
	b := newBrowser(t, baseURL)

	b.toPayment(t, "skip@acme.kr")
	v := b.call(t, "POST", "/api/v1/wizard/submit", nil, http.StatusOK)
	require.EqualValues(t, 5, v["step"])

	status := b.call(t, "GET", "/api/v1/onboarding/status?email=skip@acme.kr", nil, http.StatusOK)
	reqs, ok := status["requests"].([]any)
	require.True(t, ok)
	require.Len(t, reqs, 1)

	// The address is now taken.
	client := backendsdk.NewClient(baseURL + "/sandbox")
	check, err := client.CheckEmailDuplicate(t.Context(), "skip@acme.kr")
	require.NoError(t, err)
	require.True(t, check.IsDuplicate)
}

// TestRedirectCardRegistration follows the full-page redirect flow through
// the simulator and the callback back to the wizard page.
func TestRedirectCardRegistration(t *testing.T) {
	baseURL := setupOnboardingContainer(t, nil)
	b := newBrowser(t, baseURL)

	b.toPayment(t, "card@acme.kr")
	started := b.call(t, "POST", "/api/v1/wizard/payment/handoff",
		map[string]string{"mode": "redirect", "option": "register"}, http.StatusOK)
	launch, _ := started["launchUrl"].(string)
	require.NotEmpty(t, launch)

	resp, _ := b.do(t, "GET", launch, nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	callback := resp.Header.Get("Location")
	require.True(t, strings.HasPrefix(callback, appOrigin+"/onboarding/callback?"), callback)

	resp, raw := b.do(t, "GET", requestURI(t, callback), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(raw), "Card registered")

	resp, _ = b.do(t, "GET", "/onboarding?paymentMethodRegistered=true", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/onboarding", resp.Header.Get("Location"))

	v := b.call(t, "GET", "/api/v1/wizard", nil, http.StatusOK)
	require.EqualValues(t, 5, v["step"])
	require.Equal(t, "paymentMethodRegistered", v["completion"])

	client := backendsdk.NewClient(baseURL + "/sandbox")
	reqs, err := client.ListPublicOnboardingRequests(t.Context(), "card@acme.kr")
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	require.Contains(t, reqs[0].ChecklistJSON, `"paymentType":"register"`)
	require.NotContains(t, reqs[0].ChecklistJSON, "hunter2")
}

// TestPopupMessageOriginChecked verifies the popup relay only accepts
// messages from the configured origin.
func TestPopupMessageOriginChecked(t *testing.T) {
	baseURL := setupOnboardingContainer(t, nil)
	b := newBrowser(t, baseURL)

	b.toPayment(t, "popup@acme.kr")
	started := b.call(t, "POST", "/api/v1/wizard/payment/handoff",
		map[string]string{"mode": "popup", "option": "register"}, http.StatusOK)
	view, _ := started["view"].(map[string]any)
	customerKey, _ := view["customerKey"].(string)
	require.NotEmpty(t, customerKey)

	msg := map[string]string{"type": "PAYMENT_FAIL", "customerKey": customerKey, "error": "Card declined."}

	resp, _ := b.do(t, "POST", "/api/v1/wizard/payment/message", msg, "Origin", baseURL)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw := b.do(t, "POST", "/api/v1/wizard/payment/message", msg, "Origin", appOrigin)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	require.Contains(t, string(raw), `"state":"failed"`)
}

// TestSessionRequired verifies wizard endpoints need the session cookie.
func TestSessionRequired(t *testing.T) {
	baseURL := setupOnboardingContainer(t, nil)
	b := newBrowser(t, baseURL)

	resp, raw := b.do(t, "POST", "/api/v1/wizard/next", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Contains(t, string(raw), "session_required")
}

// TestCreateSessionRateLimited runs with production limits.
func TestCreateSessionRateLimited(t *testing.T) {
	baseURL := setupOnboardingContainer(t, map[string]string{
		"RATELIMIT_MODERATE_REQUESTS": "60",
		"RATELIMIT_MODERATE_BURST":    "3",
	})
	b := newBrowser(t, baseURL)

	var limited bool
	for range 10 {
		resp, _ := b.do(t, "POST", "/api/v1/wizard/sessions", nil)
		if resp.StatusCode == http.StatusTooManyRequests {
			limited = true
			break
		}
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	require.True(t, limited, "session creation should be rate limited")
}
