package handoff_test

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/carry"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/domain"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/gateway"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/handoff"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/store/drivers/sqlite"
	"github.com/aussiebroadwan/tenantboard/pkg/cryptox"
	"github.com/aussiebroadwan/tenantboard/pkg/slogx"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const origin = "https://onboard.example.com"

func newHandoff(t *testing.T, reg gateway.RegistryConfig) (*handoff.Handoff, *carry.Store) {
	t.Helper()
	db, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.ApplyMigrations())
	t.Cleanup(func() { _ = db.Close() })

	sealer, err := cryptox.NewSealer([]byte("handoff-test-key"))
	require.NoError(t, err)
	c := carry.New(db.CarryRecords(), sealer, carry.Options{Logger: slogx.Discard()})

	reg.Logger = slogx.Discard()
	return handoff.New(c, gateway.NewRegistry(reg), handoff.Config{
		AppOrigin: origin + "/",
		Logger:    slogx.Discard(),
	}), c
}

func form() domain.FormData {
	return domain.FormData{
		TenantName:    " Acme Cafe ",
		BusinessType:  "CAFE",
		Email:         domain.Email{Local: "owner", Domain: "acme.kr"},
		ContactPhone:  "010-1234-5678",
		AdminPassword: "hunter2hunter2",
		PlanID:        "plan_basic",
	}
}

func TestBeginRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h, c := newHandoff(t, gateway.RegistryConfig{Default: gateway.TagTest})

	res, err := h.Begin(ctx, handoff.BeginRequest{
		SessionID: "sess-1",
		Kind:      domain.KindRegister,
		Mode:      domain.ModeRedirect,
		Form:      form(),
	})
	require.NoError(t, err)

	parsed, err := uuid.Parse(res.CustomerKey)
	require.NoError(t, err)
	require.Equal(t, uuid.Version(4), parsed.Version())

	require.Equal(t, gateway.LaunchRedirect, res.Launch.Kind)
	u, err := url.Parse(res.Launch.URL)
	require.NoError(t, err)
	require.Equal(t, "/onboarding/callback", u.Path)
	q := u.Query()
	require.Equal(t, "success", q.Get("status"))
	require.Equal(t, "register", q.Get("type"))
	require.Equal(t, "redirect", q.Get("mode"))
	require.Equal(t, res.CustomerKey, q.Get("customerKey"))
	require.Equal(t, "Acme Cafe", q.Get("tenantName"))
	require.Equal(t, "owner@acme.kr", q.Get("contactEmail"))
	require.True(t, strings.HasPrefix(q.Get("authKey"), "billing_test_"))

	pending, err := c.Read(ctx, "sess-1")
	require.NoError(t, err)
	require.Equal(t, res.CustomerKey, pending.CustomerKey)
	require.Equal(t, "TEST", pending.Provider)
	require.Equal(t, "owner@acme.kr", pending.Snapshot.ContactEmail)
	require.Equal(t, "hunter2hunter2", pending.Snapshot.AdminPassword)
	require.Equal(t, "CAFE", pending.Snapshot.BusinessType)
	require.Empty(t, pending.OrderID)

	require.Equal(t, "/onboarding/payment/launch?mode=redirect", res.LaunchURL)
}

func TestBeginKeepsCustomerKey(t *testing.T) {
	t.Parallel()
	h, _ := newHandoff(t, gateway.RegistryConfig{Default: gateway.TagTest})

	key := uuid.NewString()
	res, err := h.Begin(context.Background(), handoff.BeginRequest{
		SessionID: "sess-1", CustomerKey: key, Kind: domain.KindRegister, Form: form(),
	})
	require.NoError(t, err)
	require.Equal(t, key, res.CustomerKey)
	require.Equal(t, domain.ModeRedirect, res.Pending.Mode)
}

func TestBeginPay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h, c := newHandoff(t, gateway.RegistryConfig{Default: gateway.TagTest})

	_, err := h.Begin(ctx, handoff.BeginRequest{SessionID: "s", Kind: domain.KindPay, Form: form()})
	require.ErrorIs(t, err, handoff.ErrNoAmount)

	res, err := h.Begin(ctx, handoff.BeginRequest{
		SessionID: "s", Kind: domain.KindPay, Mode: domain.ModePopup, Form: form(), Amount: 29000,
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(res.Pending.OrderID, "order_"))

	q, err := url.ParseQuery(res.Launch.URL[strings.Index(res.Launch.URL, "?")+1:])
	require.NoError(t, err)
	require.Equal(t, "pay", q.Get("type"))
	require.Equal(t, res.Pending.OrderID, q.Get("orderId"))
	require.True(t, strings.HasPrefix(q.Get("paymentKey"), "pay_test_"))

	pending, err := c.Read(ctx, "s")
	require.NoError(t, err)
	require.EqualValues(t, 29000, pending.Snapshot.Amount)
}

func TestBeginRejects(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("incomplete form", func(t *testing.T) {
		t.Parallel()
		h, _ := newHandoff(t, gateway.RegistryConfig{Default: gateway.TagTest})
		f := form()
		f.Email = domain.Email{}
		_, err := h.Begin(ctx, handoff.BeginRequest{SessionID: "s", Kind: domain.KindRegister, Form: f})
		require.ErrorIs(t, err, handoff.ErrIncomplete)
	})

	t.Run("bad kind and mode", func(t *testing.T) {
		t.Parallel()
		h, _ := newHandoff(t, gateway.RegistryConfig{Default: gateway.TagTest})
		_, err := h.Begin(ctx, handoff.BeginRequest{SessionID: "s", Kind: "refund", Form: form()})
		require.ErrorIs(t, err, handoff.ErrInvalidKind)
		_, err = h.Begin(ctx, handoff.BeginRequest{SessionID: "s", Kind: domain.KindRegister, Mode: "tab", Form: form()})
		require.ErrorIs(t, err, handoff.ErrInvalidMode)
	})

	t.Run("unconfigured provider writes nothing", func(t *testing.T) {
		t.Parallel()
		h, c := newHandoff(t, gateway.RegistryConfig{Default: gateway.TagToss})
		_, err := h.Begin(ctx, handoff.BeginRequest{SessionID: "s", Kind: domain.KindRegister, Form: form()})
		require.ErrorIs(t, err, gateway.ErrNotConfigured)

		_, err = c.Read(ctx, "s")
		require.ErrorIs(t, err, carry.ErrEmpty)
	})
}

func TestLaunchPage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h, _ := newHandoff(t, gateway.RegistryConfig{Default: gateway.TagToss, TossClientKey: "test_ck_abc"})

	res, err := h.Begin(ctx, handoff.BeginRequest{
		SessionID: "s", Kind: domain.KindRegister, Mode: domain.ModeEmbedded, Form: form(),
	})
	require.NoError(t, err)
	require.Equal(t, gateway.LaunchSDK, res.Launch.Kind)

	var buf bytes.Buffer
	require.NoError(t, h.RenderLaunch(&buf, res.Pending, res.Launch))
	page := buf.String()
	require.Contains(t, page, gateway.TossScriptURL)
	require.Contains(t, page, "test_ck_abc")
	require.Contains(t, page, "requestBillingAuth")
	require.Contains(t, page, "TossPayments")
	require.Contains(t, page, `"maxAttempts":3`)
}

func TestCallbackPage(t *testing.T) {
	t.Parallel()
	h, _ := newHandoff(t, gateway.RegistryConfig{Default: gateway.TagTest})

	var buf bytes.Buffer
	require.NoError(t, h.RenderCallback(&buf, handoff.CallbackView{
		Mode:          domain.ModeRedirect,
		Title:         "Card registered",
		Detail:        "<b>done</b>",
		RedirectURL:   "/onboarding?paymentMethodRegistered=true",
		RedirectDelay: 2 * time.Second,
	}))
	page := buf.String()
	require.Contains(t, page, "Card registered")
	require.Contains(t, page, "&lt;b&gt;done&lt;/b&gt;")
	require.Contains(t, page, `"redirectDelayMs":2000`)
	require.Contains(t, page, origin)

	require.Contains(t, string(handoff.ParentScript()), "setInterval")
}
