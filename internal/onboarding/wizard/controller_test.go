package wizard_test

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/backend"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/carry"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/domain"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/gateway"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/guard"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/handoff"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/reconcile"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/sandbox"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/store/drivers/sqlite"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/verification"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/wizard"
	"github.com/aussiebroadwan/tenantboard/pkg/cryptox"
	"github.com/aussiebroadwan/tenantboard/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const origin = "https://onboard.example.com"

type captureMailer struct {
	mu    sync.Mutex
	codes map[string]string
}

func (m *captureMailer) SendVerificationCode(_ context.Context, email, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.codes == nil {
		m.codes = make(map[string]string)
	}
	m.codes[email] = code
	return nil
}

func (m *captureMailer) last(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[email]
}

type harness struct {
	mgr    *wizard.Manager
	store  *sqlite.Store
	mailer *captureMailer
	carry  *carry.Store
	rec    *reconcile.Reconciler
}

// immediate unlocks guards as soon as the action returns.
var immediate = guard.Options{AfterFunc: func(_ time.Duration, f func()) { f() }}

func newHarness(t *testing.T, guards guard.Options) *harness {
	t.Helper()
	return newHarnessWith(t, guards, nil)
}

// newHarnessWith lets wrap replace the backend the wizard talks to.
func newHarnessWith(t *testing.T, guards guard.Options, wrap func(backend.Backend) backend.Backend) *harness {
	t.Helper()
	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	mailer := &captureMailer{}
	svc := &sandbox.Service{
		Store:  st,
		Hasher: cryptox.PasswordHasher{Pepper: "pepper"},
		Mailer: mailer,
		Logger: slogx.Discard(),
	}

	sealer, err := cryptox.NewSealer([]byte("wizard-test-key"))
	require.NoError(t, err)
	c := carry.New(st.CarryRecords(), sealer, carry.Options{Logger: slogx.Discard()})
	reg := gateway.NewRegistry(gateway.RegistryConfig{Default: gateway.TagTest, Logger: slogx.Discard()})

	var be backend.Backend = svc
	if wrap != nil {
		be = wrap(svc)
	}

	mgr := wizard.NewManager(wizard.Deps{
		Backend:      be,
		Handoff:      handoff.New(c, reg, handoff.Config{AppOrigin: origin, Logger: slogx.Discard()}),
		Guards:       guards,
		Verification: verification.Config{Logger: slogx.Discard()},
		Logger:       slogx.Discard(),
	}, wizard.ManagerOptions{})
	t.Cleanup(mgr.Close)

	return &harness{
		mgr:    mgr,
		store:  st,
		mailer: mailer,
		carry:  c,
		rec:    reconcile.New(svc, c, reconcile.Config{DefaultProvider: gateway.TagTest, Logger: slogx.Discard()}),
	}
}

func ptr(s string) *string { return &s }

func basicInfo() domain.FormPatch {
	return domain.FormPatch{
		TenantName:           ptr("Acme Cafe"),
		EmailLocal:           ptr("owner"),
		EmailDomain:          ptr("acme.kr"),
		ContactPhone:         ptr("010-1234-5678"),
		AdminPassword:        ptr("hunter2hunter2"),
		AdminPasswordConfirm: ptr("hunter2hunter2"),
	}
}

// toPayment drives a fresh session to the payment step with a checked
// email, cafe business type and the basic plan.
func toPayment(t *testing.T, ctx context.Context, c *wizard.Controller) {
	t.Helper()
	_, err := c.Update(basicInfo())
	require.NoError(t, err)
	v, err := c.CheckDuplicate(ctx)
	require.NoError(t, err)
	require.Equal(t, verification.StatusDuplicateChecked, v.Verification.Status)

	_, err = c.Next(ctx)
	require.NoError(t, err)
	_, err = c.SelectCategory(ctx, "cat_food")
	require.NoError(t, err)
	_, err = c.SelectBusinessType("CAFE")
	require.NoError(t, err)
	_, err = c.Next(ctx)
	require.NoError(t, err)
	_, err = c.SelectPlan(ctx, "plan_basic")
	require.NoError(t, err)
	v, err = c.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, wizard.StepPayment, v.Step)
}

func TestStepGuards(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t, immediate)
	c := h.mgr.Create(ctx, "")

	v, err := c.Next(ctx)
	require.ErrorIs(t, err, wizard.ErrCannotAdvance)
	require.Equal(t, wizard.StepBasicInfo, v.Step)
	require.Equal(t, []string{"tenantName", "adminPassword"}, v.Blockers)

	for _, tt := range []struct {
		name    string
		pw, cfm string
		blocker string
	}{
		{"mismatch", "hunter2hunter2", "hunter2hunter3", "adminPasswordConfirm"},
		{"too short", "short", "short", "adminPasswordLength"},
	} {
		v, err = c.Update(domain.FormPatch{TenantName: ptr("Acme"), AdminPassword: ptr(tt.pw), AdminPasswordConfirm: ptr(tt.cfm)})
		require.NoError(t, err)
		require.False(t, v.CanAdvance, tt.name)
		require.Equal(t, []string{tt.blocker}, v.Blockers, tt.name)
	}

	v, err = c.Update(basicInfo())
	require.NoError(t, err)
	require.True(t, v.CanAdvance)
	require.True(t, v.PasswordSet)

	v, err = c.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, wizard.StepBusinessType, v.Step)
	require.Len(t, v.Categories, 3)
	require.False(t, v.CanAdvance)

	_, err = c.SelectBusinessType("CAFE")
	require.ErrorIs(t, err, wizard.ErrUnknownItem)
	_, err = c.SelectCategory(ctx, "cat_nope")
	require.ErrorIs(t, err, wizard.ErrUnknownCategory)

	v, err = c.SelectCategory(ctx, "cat_food")
	require.NoError(t, err)
	require.Len(t, v.Items, 3)
	v, err = c.SelectBusinessType("CAFE")
	require.NoError(t, err)
	require.True(t, v.CanAdvance)

	// A different category drops the chosen item.
	v, err = c.SelectCategory(ctx, "cat_retail")
	require.NoError(t, err)
	require.Empty(t, v.Form.BusinessType)
	require.Len(t, v.Items, 2)
	require.False(t, v.CanAdvance)
	_, err = c.SelectBusinessType("CAFE")
	require.ErrorIs(t, err, wizard.ErrUnknownItem)
	_, err = c.SelectBusinessType("APPAREL")
	require.NoError(t, err)

	v, err = c.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, wizard.StepPricingPlan, v.Step)
	require.Len(t, v.Plans, 3)
	require.Equal(t, []string{"planId"}, v.Blockers)

	_, err = c.SelectPlan(ctx, "plan_enterprise")
	require.ErrorIs(t, err, wizard.ErrUnknownPlan)
	_, err = c.SelectPlan(ctx, "plan_basic")
	require.NoError(t, err)

	v, err = c.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, wizard.StepPayment, v.Step)
	require.False(t, v.CanAdvance)

	_, err = c.Next(ctx)
	require.ErrorIs(t, err, wizard.ErrWrongStep)
}

// flakyCatalog fails category and plan loads while down is set.
type flakyCatalog struct {
	backend.Backend
	down atomic.Bool
}

var errCatalogDown = errors.New("catalog unavailable")

func (f *flakyCatalog) GetRootBusinessCategories(ctx context.Context) ([]domain.BusinessCategory, error) {
	if f.down.Load() {
		return nil, errCatalogDown
	}
	return f.Backend.GetRootBusinessCategories(ctx)
}

func (f *flakyCatalog) GetActivePricingPlans(ctx context.Context) ([]domain.PricingPlan, error) {
	if f.down.Load() {
		return nil, errCatalogDown
	}
	return f.Backend.GetActivePricingPlans(ctx)
}

func TestStepDataLoadFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	flaky := &flakyCatalog{}
	h := newHarnessWith(t, immediate, func(b backend.Backend) backend.Backend {
		flaky.Backend = b
		return flaky
	})
	c := h.mgr.Create(ctx, "")
	_, err := c.Update(basicInfo())
	require.NoError(t, err)

	flaky.down.Store(true)

	t.Run("next reports the failed load", func(t *testing.T) {
		v, err := c.Next(ctx)
		require.ErrorIs(t, err, errCatalogDown)
		require.Equal(t, wizard.StepBusinessType, v.Step)
		require.Empty(t, v.Categories)
		require.NotEmpty(t, v.Error)
	})

	t.Run("selection is not accepted unchecked", func(t *testing.T) {
		v, err := c.SelectCategory(ctx, "does-not-exist")
		require.ErrorIs(t, err, errCatalogDown)
		require.Empty(t, v.Form.BusinessCategoryID)
	})

	t.Run("selection reloads once the backend recovers", func(t *testing.T) {
		flaky.down.Store(false)

		_, err := c.SelectCategory(ctx, "does-not-exist")
		require.ErrorIs(t, err, wizard.ErrUnknownCategory)

		v, err := c.SelectCategory(ctx, "cat_food")
		require.NoError(t, err)
		require.Len(t, v.Categories, 3)
		require.Empty(t, v.Error)
	})

	t.Run("plan selection reloads a failed plan list", func(t *testing.T) {
		_, err := c.SelectBusinessType("CAFE")
		require.NoError(t, err)

		flaky.down.Store(true)
		v, err := c.Next(ctx)
		require.ErrorIs(t, err, errCatalogDown)
		require.Equal(t, wizard.StepPricingPlan, v.Step)

		_, err = c.SelectPlan(ctx, "plan_basic")
		require.ErrorIs(t, err, errCatalogDown)

		flaky.down.Store(false)
		_, err = c.SelectPlan(ctx, "plan_enterprise")
		require.ErrorIs(t, err, wizard.ErrUnknownPlan)
		v, err = c.SelectPlan(ctx, "plan_basic")
		require.NoError(t, err)
		require.Equal(t, "plan_basic", v.Form.PlanID)
	})
}

func TestBackNavigation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t, immediate)
	c := h.mgr.Create(ctx, "")
	toPayment(t, ctx, c)

	_, err := c.GoTo(wizard.StepCompletion)
	require.ErrorIs(t, err, wizard.ErrWrongStep)

	v, err := c.GoTo(wizard.StepBusinessType)
	require.NoError(t, err)
	require.Equal(t, "CAFE", v.Form.BusinessType)
	require.Len(t, v.Items, 3)

	v, err = c.Back()
	require.NoError(t, err)
	require.Equal(t, wizard.StepBasicInfo, v.Step)
	require.Equal(t, wizard.StepPayment, v.Reached)

	_, err = c.Back()
	require.ErrorIs(t, err, wizard.ErrWrongStep)

	v, err = c.GoTo(wizard.StepPayment)
	require.NoError(t, err)
	require.Equal(t, wizard.StepPayment, v.Step)

	fresh := h.mgr.Create(ctx, "")
	_, err = fresh.GoTo(wizard.StepPricingPlan)
	require.ErrorIs(t, err, wizard.ErrNotVisited)
}

func TestSkipSubmitCreatesOneRequest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t, immediate)
	c := h.mgr.Create(ctx, "")
	toPayment(t, ctx, c)

	v, err := c.Submit(ctx)
	require.NoError(t, err)
	require.Equal(t, wizard.StepCompletion, v.Step)
	require.NotNil(t, v.Request)
	require.Equal(t, "Acme Cafe", v.Request.TenantName)
	require.Equal(t, domain.StatusPending, v.Request.Status)
	require.Empty(t, v.Form.TenantName)
	require.False(t, v.PasswordSet)

	_, err = c.Submit(ctx)
	require.ErrorIs(t, err, wizard.ErrFinished)
	_, err = c.Back()
	require.ErrorIs(t, err, wizard.ErrFinished)

	reqs, err := h.store.OnboardingRequests().ListOnboardingRequestsByEmail(ctx, "owner@acme.kr")
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	require.Contains(t, reqs[0].ChecklistJSON, `"planId":"plan_basic"`)
	require.NotContains(t, reqs[0].ChecklistJSON, "hunter2")
}

func TestSubmitRequiresCheckedEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t, immediate)
	c := h.mgr.Create(ctx, "")
	toPayment(t, ctx, c)

	// Editing the email on step 1 undoes the duplicate check.
	_, err := c.GoTo(wizard.StepBasicInfo)
	require.NoError(t, err)
	v, err := c.Update(domain.FormPatch{EmailDomain: ptr("acme.com")})
	require.NoError(t, err)
	require.Equal(t, verification.StatusUnverified, v.Verification.Status)
	_, err = c.GoTo(wizard.StepPayment)
	require.NoError(t, err)

	v, err = c.Submit(ctx)
	require.ErrorIs(t, err, wizard.ErrEmailNotChecked)
	require.Equal(t, "Please check the contact email address first.", v.Error)

	_, err = c.CheckDuplicate(ctx)
	require.ErrorIs(t, err, wizard.ErrWrongStep)
}

func TestEmailVerification(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t, immediate)
	c := h.mgr.Create(ctx, "")

	_, err := c.Update(domain.FormPatch{EmailLocal: ptr("owner")})
	require.NoError(t, err)
	v, err := c.CheckDuplicate(ctx)
	require.Error(t, err)
	require.Equal(t, verification.StatusUnverified, v.Verification.Status)

	_, err = c.Update(domain.FormPatch{EmailDomain: ptr("acme.kr")})
	require.NoError(t, err)
	_, err = c.CheckDuplicate(ctx)
	require.NoError(t, err)

	v, err = c.SendCode(ctx)
	require.NoError(t, err)
	require.Equal(t, verification.StatusCodeSent, v.Verification.Status)

	code := h.mailer.last("owner@acme.kr")
	require.Len(t, code, 6)
	v, err = c.VerifyCode(ctx, " "+code+" ")
	require.NoError(t, err)
	require.Equal(t, verification.StatusVerified, v.Verification.Status)

	v, err = c.Update(domain.FormPatch{EmailDomain: ptr(domain.CustomDomainOption), EmailCustomDomain: ptr("@acme.io")})
	require.NoError(t, err)
	require.Equal(t, "owner@acme.io", v.Email)
	require.Equal(t, verification.StatusUnverified, v.Verification.Status)
	require.Empty(t, v.Verification.Code)
}

func TestGuardRejectsRepeat(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t, guard.Options{UnlockDelay: time.Minute})
	c := h.mgr.Create(ctx, "")
	_, err := c.Update(basicInfo())
	require.NoError(t, err)

	_, err = c.CheckDuplicate(ctx)
	require.NoError(t, err)
	v, err := c.CheckDuplicate(ctx)
	require.ErrorIs(t, err, wizard.ErrBusy)
	require.Contains(t, v.Locked, wizard.ActionCheckDuplicate)

	// Other controls are guarded separately.
	_, err = c.SendCode(ctx)
	require.NoError(t, err)
}

func TestPlanPrefill(t *testing.T) {
	t.Parallel()
	h := newHarness(t, immediate)
	c := h.mgr.Create(context.Background(), "plan_pro")
	require.Equal(t, "plan_pro", c.View().Form.PlanID)
}

func TestPaymentRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t, immediate)
	c := h.mgr.Create(ctx, "")
	toPayment(t, ctx, c)

	_, err := c.StartPayment(ctx, domain.ModePopup)
	require.ErrorIs(t, err, wizard.ErrWrongStep)

	_, err = c.SetPaymentOption(wizard.OptionRegister)
	require.NoError(t, err)
	res, err := c.StartPayment(ctx, domain.ModePopup)
	require.NoError(t, err)
	require.Equal(t, "/onboarding/payment/launch?mode=popup", res.LaunchURL)
	require.Equal(t, handoff.DeliveryLoading, res.View.Payment.State)
	require.NotEmpty(t, res.View.CustomerKey)

	launch, err := c.Launch()
	require.NoError(t, err)
	u, err := url.Parse(launch.Launch.URL)
	require.NoError(t, err)

	out := h.rec.Run(ctx, c.ID(), u.Query())
	require.NoError(t, out.Err)
	require.Equal(t, res.View.CustomerKey, out.CustomerKey)

	_, err = c.ReceiveMessage("https://evil.example.com", handoff.Message{Type: handoff.MessageSuccess})
	require.ErrorIs(t, err, handoff.ErrOriginMismatch)

	st, err := c.ReceiveMessage(origin, handoff.Message{
		Type: handoff.MessageSuccess, AuthKey: out.AuthKey, CustomerKey: out.CustomerKey,
	})
	require.NoError(t, err)
	require.Equal(t, handoff.DeliverySucceeded, st.State)
	require.Equal(t, "/onboarding?paymentMethodRegistered=true", st.RedirectURL)

	// The flag alone does not finish the wizard.
	_, consumed := c.ConsumeCompletion(url.Values{"paymentMethodRegistered": {"true"}})
	require.False(t, consumed)
	require.Equal(t, wizard.StepPayment, c.View().Step)

	c.MarkReconciled(out.Kind)
	q, consumed := c.ConsumeCompletion(url.Values{"paymentMethodRegistered": {"true"}, "utm_source": {"mail"}})
	require.True(t, consumed)
	require.Equal(t, url.Values{"utm_source": {"mail"}}, q)
	v := c.View()
	require.Equal(t, wizard.StepCompletion, v.Step)
	require.Equal(t, reconcile.FlagRegistered, v.Completion)

	_, consumed = c.ConsumeCompletion(url.Values{"paymentMethodRegistered": {"true"}})
	require.False(t, consumed)

	reqs, err := h.store.OnboardingRequests().ListOnboardingRequestsByEmail(ctx, "owner@acme.kr")
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	require.Contains(t, reqs[0].ChecklistJSON, `"paymentType":"register"`)
}

func TestMarkReconciledByCustomerKey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t, immediate)
	c := h.mgr.Create(ctx, "")
	toPayment(t, ctx, c)

	_, err := c.SetPaymentOption(wizard.OptionRegister)
	require.NoError(t, err)
	res, err := c.StartPayment(ctx, domain.ModeEmbedded)
	require.NoError(t, err)

	require.False(t, h.mgr.MarkReconciled("", "", domain.KindRegister))
	require.False(t, h.mgr.MarkReconciled("", "someone-else", domain.KindRegister))
	require.False(t, h.mgr.MarkReconciled("wiz_gone", "", domain.KindRegister))

	// A pay flag does not complete a register hand-off.
	require.True(t, h.mgr.MarkReconciled("", res.View.CustomerKey, domain.KindPay))
	_, consumed := c.ConsumeCompletion(url.Values{"paymentMethodRegistered": {"true"}})
	require.False(t, consumed)

	require.True(t, h.mgr.MarkReconciled("", res.View.CustomerKey, domain.KindRegister))
	_, consumed = c.ConsumeCompletion(url.Values{"paymentMethodRegistered": {"true"}})
	require.True(t, consumed)
	require.Equal(t, wizard.StepCompletion, c.View().Step)
}

func TestPayOptionCarriesPlanAmount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t, immediate)
	c := h.mgr.Create(ctx, "")
	toPayment(t, ctx, c)

	_, err := c.SetPaymentOption(wizard.OptionPay)
	require.NoError(t, err)
	_, err = c.StartPayment(ctx, domain.ModeRedirect)
	require.NoError(t, err)

	p, err := h.carry.Read(ctx, c.ID())
	require.NoError(t, err)
	require.Equal(t, domain.KindPay, p.Kind)
	require.EqualValues(t, 29000, p.Snapshot.Amount)
	require.NotEmpty(t, p.OrderID)

	// Redirect deliveries are not tracked by the page.
	require.Equal(t, handoff.DeliveryIdle, c.View().Payment.State)
}

func TestPopupDismissAndFail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t, immediate)
	c := h.mgr.Create(ctx, "")
	toPayment(t, ctx, c)
	_, err := c.SetPaymentOption(wizard.OptionRegister)
	require.NoError(t, err)

	_, err = c.StartPayment(ctx, domain.ModePopup)
	require.NoError(t, err)
	require.Equal(t, handoff.DeliveryDismissed, c.DismissPayment().State)

	_, err = c.StartPayment(ctx, domain.ModePopup)
	require.NoError(t, err)
	st := c.FailPayment(handoff.MsgPopupBlocked)
	require.Equal(t, handoff.DeliveryFailed, st.State)
	require.Equal(t, handoff.MsgPopupBlocked, st.Error)
	require.Empty(t, st.RedirectURL)
}

func TestManagerExpiresIdleSessions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t, immediate)

	var mu sync.Mutex
	now := time.Now()
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(d)
	}

	mgr := wizard.NewManager(wizard.Deps{
		Backend: &sandbox.Service{Store: h.store, Mailer: h.mailer, Logger: slogx.Discard()},
		Handoff: handoff.New(h.carry, gateway.NewRegistry(gateway.RegistryConfig{Default: gateway.TagTest}), handoff.Config{AppOrigin: origin}),
		Logger:  slogx.Discard(),
	}, wizard.ManagerOptions{IdleTTL: time.Minute, Now: clock})
	t.Cleanup(mgr.Close)

	kept := mgr.Create(ctx, "")
	idle := mgr.Create(ctx, "")
	require.Equal(t, 2, mgr.Len())

	advance(45 * time.Second)
	_, err := mgr.Get(kept.ID())
	require.NoError(t, err)
	advance(30 * time.Second)

	require.Equal(t, 1, mgr.Sweep(ctx))
	_, err = mgr.Get(idle.ID())
	require.ErrorIs(t, err, wizard.ErrSessionNotFound)
	_, err = mgr.Get(kept.ID())
	require.NoError(t, err)

	mgr.Drop(kept.ID())
	require.Zero(t, mgr.Len())
}
