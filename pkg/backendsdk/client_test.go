package backendsdk_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/tenantboard/pkg/backendsdk"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, h http.HandlerFunc) *backendsdk.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return backendsdk.NewClient(srv.URL + "/")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestErrorMessageFallbackChain(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
		want string
	}{
		{"message wins", `{"message":"tenant exists","error":"conflict","details":"x"}`, "tenant exists"},
		{"error next", `{"error":"conflict","details":"x"}`, "conflict"},
		{"details last", `{"details":"field tenantName is required"}`, "field tenantName is required"},
		{"structured details", `{"details":{"tenantName":"required"}}`, `{"tenantName":"required"}`},
		{"empty body", ``, "API request failed: 409 Conflict"},
		{"not json", `<html>oops</html>`, "API request failed: 409 Conflict"},
		{"blank fields", `{"message":"  ","error":""}`, "API request failed: 409 Conflict"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusConflict)
				_, _ = io.WriteString(w, tc.body)
			})

			_, err := c.CreateOnboardingRequest(context.Background(), backendsdk.CreateOnboardingRequest{TenantName: "Acme"})
			var apiErr *backendsdk.APIError
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, http.StatusConflict, apiErr.StatusCode)
			require.Equal(t, tc.want, apiErr.Message)
		})
	}
}

func TestCreateOnboardingRequest(t *testing.T) {
	t.Parallel()

	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/onboarding/requests", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body backendsdk.CreateOnboardingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "Acme", body.TenantName)
		require.Equal(t, "owner@acme.test", body.RequestedBy)
		require.Equal(t, "LOW", body.RiskLevel)

		writeJSON(w, http.StatusCreated, backendsdk.OnboardingRequest{
			ID: 7, TenantName: body.TenantName, RequestedBy: body.RequestedBy, Status: "PENDING",
		})
	})

	got, err := c.CreateOnboardingRequest(context.Background(), backendsdk.CreateOnboardingRequest{
		TenantName: "Acme", RequestedBy: "owner@acme.test", RiskLevel: "LOW", BusinessType: "CAFE",
	})
	require.NoError(t, err)
	require.EqualValues(t, 7, got.ID)
	require.Equal(t, "PENDING", got.Status)
}

func TestEnvelope(t *testing.T) {
	t.Parallel()

	t.Run("data decoded", func(t *testing.T) {
		t.Parallel()
		c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/v1/onboarding/email-check", r.URL.Path)
			require.Equal(t, "a+b@example.com", r.URL.Query().Get("email"))
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"data":    map[string]any{"email": "a+b@example.com", "isDuplicate": true, "available": false, "message": "in use"},
			})
		})

		got, err := c.CheckEmailDuplicate(context.Background(), "a+b@example.com")
		require.NoError(t, err)
		require.True(t, got.IsDuplicate)
		require.Equal(t, "in use", got.Message)
	})

	t.Run("success false uses message", func(t *testing.T) {
		t.Parallel()
		c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "123456", r.URL.Query().Get("code"))
			writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "code mismatch"})
		})

		err := c.VerifyEmailCode(context.Background(), "a@example.com", "123456")
		var apiErr *backendsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "code mismatch", apiErr.Message)
	})

	t.Run("success false without message uses fallback", func(t *testing.T) {
		t.Parallel()
		c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"success": false})
		})

		_, err := c.CreatePaymentMethod(context.Background(), backendsdk.PaymentMethodRequest{PaymentMethodToken: "tok"})
		var apiErr *backendsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "failed to register payment method", apiErr.Message)
	})

	t.Run("missing data is an error", func(t *testing.T) {
		t.Parallel()
		c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
		})

		_, err := c.CreateSubscription(context.Background(), backendsdk.SubscriptionRequest{PlanID: "plan_basic"})
		require.Error(t, err)
	})

	t.Run("void success", func(t *testing.T) {
		t.Parallel()
		c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/api/v1/accounts/integration/send-verification-code", r.URL.Path)
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "sent"})
		})

		require.NoError(t, c.SendEmailVerificationCode(context.Background(), "a@example.com"))
	})
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	t.Run("plans are a bare array", func(t *testing.T) {
		t.Parallel()
		c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, []backendsdk.PricingPlan{{PlanID: "plan_basic", BaseFee: 29000, IsActive: true}})
		})

		plans, err := c.GetActivePricingPlans(context.Background())
		require.NoError(t, err)
		require.Len(t, plans, 1)
		require.EqualValues(t, 29000, plans[0].BaseFee)
	})

	t.Run("categories degrade to empty", func(t *testing.T) {
		t.Parallel()
		c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"success": false})
		})

		cats, err := c.GetRootBusinessCategories(context.Background())
		require.NoError(t, err)
		require.Empty(t, cats)
	})

	t.Run("items filtered by category", func(t *testing.T) {
		t.Parallel()
		c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "cat_food", r.URL.Query().Get("categoryId"))
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"data":    []map[string]any{{"itemId": "i1", "itemCode": "CAFE", "categoryId": "cat_food"}},
			})
		})

		items, err := c.GetBusinessCategoryItems(context.Background(), "cat_food")
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.Equal(t, "CAFE", items[0].ItemCode)
	})

	t.Run("server errors are not swallowed", func(t *testing.T) {
		t.Parallel()
		c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := c.GetRootBusinessCategories(context.Background())
		var apiErr *backendsdk.APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	})
}

func TestTransportError(t *testing.T) {
	t.Parallel()

	c := backendsdk.NewClient("http://127.0.0.1:1")
	_, err := c.CheckEmailDuplicate(context.Background(), "a@example.com")
	require.Error(t, err)

	var apiErr *backendsdk.APIError
	require.False(t, errors.As(err, &apiErr))
}
