package sandbox_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/backend"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/domain"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/sandbox"
	"github.com/aussiebroadwan/tenantboard/pkg/backendsdk"
	"github.com/stretchr/testify/require"
)

// newRemote serves the sandbox under /sandbox and returns the HTTP backend
// client pointed at it.
func newRemote(t *testing.T) (*backend.Remote, *captureMailer) {
	t.Helper()
	svc, mailer, _, _ := newService(t)

	mux := http.NewServeMux()
	mux.Handle("/sandbox/", http.StripPrefix("/sandbox", sandbox.NewHandler(svc)))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return backend.NewRemote(backendsdk.NewClient(srv.URL + "/sandbox")), mailer
}

func TestRemoteOverSandbox(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("email round trip", func(t *testing.T) {
		t.Parallel()
		remote, mailer := newRemote(t)

		check, err := remote.CheckEmailDuplicate(ctx, "owner@acme.test")
		require.NoError(t, err)
		require.True(t, check.Available)

		require.NoError(t, remote.SendEmailVerificationCode(ctx, "owner@acme.test"))

		err = remote.VerifyEmailCode(ctx, "owner@acme.test", "abcdef")
		require.Equal(t, "code mismatch", backend.MessageOf(err, ""))

		require.NoError(t, remote.VerifyEmailCode(ctx, "owner@acme.test", mailer.last("owner@acme.test")))
	})

	t.Run("registration path", func(t *testing.T) {
		t.Parallel()
		remote, _ := newRemote(t)

		pm, err := remote.CreatePaymentMethod(ctx, domain.PaymentMethodInput{PaymentMethodToken: "billing_x", PGProvider: "TOSS"})
		require.NoError(t, err)

		sub, err := remote.CreateSubscription(ctx, domain.SubscriptionInput{PlanID: "plan_pro", PaymentMethodID: pm.PaymentMethodID})
		require.NoError(t, err)
		require.Equal(t, "plan_pro", sub.PlanID)

		req, err := remote.CreateOnboardingRequest(ctx, domain.OnboardingRequestInput{
			TenantName: "Acme", RequestedBy: "owner@acme.test", RiskLevel: "LOW", BusinessType: "CAFE",
		})
		require.NoError(t, err)
		require.Equal(t, domain.StatusPending, req.Status)

		got, err := remote.GetPublicOnboardingRequest(ctx, req.ID, "owner@acme.test")
		require.NoError(t, err)
		require.Equal(t, "Acme", got.TenantName)

		_, err = remote.GetPublicOnboardingRequest(ctx, req.ID, "intruder@acme.test")
		require.ErrorIs(t, err, backend.ErrNotFound)

		check, err := remote.CheckEmailDuplicate(ctx, "owner@acme.test")
		require.NoError(t, err)
		require.True(t, check.IsDuplicate)
	})

	t.Run("validation errors carry the message", func(t *testing.T) {
		t.Parallel()
		remote, _ := newRemote(t)

		_, err := remote.CreateOnboardingRequest(ctx, domain.OnboardingRequestInput{RequestedBy: "x@acme.test", BusinessType: "CAFE"})
		var be *backend.Error
		require.ErrorAs(t, err, &be)
		require.Equal(t, http.StatusBadRequest, be.Status)
		require.Equal(t, "tenantName is required", be.Message)
	})

	t.Run("catalog", func(t *testing.T) {
		t.Parallel()
		remote, _ := newRemote(t)

		plans, err := remote.GetActivePricingPlans(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, plans)

		cats, err := remote.GetRootBusinessCategories(ctx)
		require.NoError(t, err)
		require.Len(t, cats, 3)

		items, err := remote.GetBusinessCategoryItems(ctx, "cat_retail")
		require.NoError(t, err)
		require.Len(t, items, 2)
	})
}
