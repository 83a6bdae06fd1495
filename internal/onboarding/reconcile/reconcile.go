// Package reconcile handles the browser's return from the payment gateway.
// It is a cold entry point: everything it needs comes from the callback URL
// and the session's carry slot, and on success it creates the backend
// records for the onboarding.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/backend"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/carry"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/domain"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/gateway"
)

// State is a step of a reconciliation pass.
type State string

const (
	StateMissingStatus State = "missing-status"
	StateFail          State = "fail"
	StateValidating    State = "validating"
	StateProcessing    State = "processing"
	StateSuccess       State = "success"
)

const (
	DefaultRedirectDelay = 2 * time.Second
	DefaultWizardPath    = "/onboarding"
)

// Completion flags appended to the wizard URL after a successful pass.
const (
	FlagRegistered = "paymentMethodRegistered"
	FlagCompleted  = "paymentCompleted"
)

var (
	ErrMissingStatus   = errors.New("reconcile: missing status")
	ErrGateway         = errors.New("reconcile: gateway reported failure")
	ErrMissingInfo     = errors.New("reconcile: missing required info")
	ErrSessionMismatch = errors.New("reconcile: callback belongs to another hand-off")
	ErrBackend         = errors.New("reconcile: backend call failed")
)

// Backend is the part of the backend a reconciliation pass writes to.
type Backend interface {
	backend.Onboarding
	backend.Billing
}

type Config struct {
	RiskLevel string

	// DefaultProvider is reported to the backend when the carry slot does
	// not name the provider.
	DefaultProvider gateway.Tag

	// AutoSubscribe creates a subscription to the carried plan after card
	// registration.
	AutoSubscribe bool
	BillingCycle  string

	RedirectDelay time.Duration
	WizardPath    string
	Logger        *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.RiskLevel == "" {
		c.RiskLevel = domain.DefaultRiskLevel
	}
	if c.DefaultProvider == "" {
		c.DefaultProvider = gateway.TagToss
	}
	if c.BillingCycle == "" {
		c.BillingCycle = domain.CycleMonthly
	}
	if c.RedirectDelay <= 0 {
		c.RedirectDelay = DefaultRedirectDelay
	}
	if c.WizardPath == "" {
		c.WizardPath = DefaultWizardPath
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

type Reconciler struct {
	backend Backend
	carry   *carry.Store
	cfg     Config
}

func New(b Backend, c *carry.Store, cfg Config) *Reconciler {
	return &Reconciler{backend: b, carry: c, cfg: cfg.withDefaults()}
}

// Result is the outcome of one pass.
type Result struct {
	State State
	// Trace lists the states visited, in order.
	Trace []State
	Err   error

	Kind domain.HandoffKind
	Mode domain.DeliveryMode

	// Message is shown to the user when State is StateFail.
	Message string
	// Missing names the absent fields behind ErrMissingInfo.
	Missing []string

	CustomerKey     string
	AuthKey         string
	PaymentKey      string
	OrderID         string
	PaymentMethodID string
	SubscriptionID  string
	Request         *domain.OnboardingRequest

	RedirectURL   string
	RedirectDelay time.Duration
}

func (r *Result) enter(s State) {
	r.State = s
	r.Trace = append(r.Trace, s)
}

func (r *Result) fail(err error, msg string) Result {
	r.enter(StateFail)
	r.Err = err
	r.Message = msg
	return *r
}

// Run reconciles one callback. sessionID may be empty when the browser
// came back without its session, in which case only the URL is used. The
// carry slot is cleared only after every backend call succeeded.
func (rc *Reconciler) Run(ctx context.Context, sessionID string, q url.Values) Result {
	res := Result{
		Kind: domain.HandoffKind(q.Get("type")),
		Mode: domain.DeliveryMode(q.Get("mode")),
	}
	if !res.Kind.Valid() {
		res.Kind = domain.KindRegister
	}
	if !res.Mode.Valid() {
		res.Mode = domain.ModeRedirect
	}

	status := q.Get("status")
	switch status {
	case "":
		res.enter(StateMissingStatus)
		return res.fail(ErrMissingStatus, msgMissingStatus)
	case "fail":
		code := first(q, "code", "errorCode")
		msg := FailureMessage(code, first(q, "message", "errorMessage"))
		rc.cfg.Logger.WarnContext(ctx, "gateway reported failure",
			"kind", res.Kind,
			"code", code,
		)
		return res.fail(fmt.Errorf("%w: %s", ErrGateway, code), msg)
	case "success":
	default:
		return res.fail(fmt.Errorf("%w: unknown status %q", ErrGateway, status), msgDefaultFail)
	}

	res.enter(StateValidating)

	var pending *domain.PendingHandoff
	if sessionID != "" {
		p, err := rc.carry.Read(ctx, sessionID)
		switch {
		case err == nil:
			pending = &p
		case errors.Is(err, carry.ErrEmpty):
			rc.cfg.Logger.InfoContext(ctx, "no carry slot, using callback parameters", "session_id", sessionID)
		default:
			rc.cfg.Logger.WarnContext(ctx, "carry slot unreadable, using callback parameters",
				"session_id", sessionID,
				"err", err,
			)
		}
	}

	urlKey := q.Get("customerKey")
	var snap domain.CarrySnapshot
	provider := rc.cfg.DefaultProvider
	res.CustomerKey = urlKey
	res.OrderID = q.Get("orderId")
	if pending != nil {
		if urlKey != "" && pending.CustomerKey != urlKey {
			rc.cfg.Logger.WarnContext(ctx, "callback customer key does not match carry slot", "session_id", sessionID)
			return res.fail(ErrSessionMismatch, msgMismatch)
		}
		snap = pending.Snapshot
		res.CustomerKey = pending.CustomerKey
		res.Kind = pending.Kind
		res.Mode = pending.Mode
		if pending.Provider != "" {
			provider = gateway.Tag(pending.Provider)
		}
		if res.OrderID == "" {
			res.OrderID = pending.OrderID
		}
	}
	if snap.TenantName == "" {
		snap.TenantName = strings.TrimSpace(q.Get("tenantName"))
	}
	if snap.ContactEmail == "" {
		snap.ContactEmail = strings.TrimSpace(q.Get("contactEmail"))
	}

	res.PaymentKey = q.Get("paymentKey")
	res.AuthKey = first(q, "authKey", "paymentKey")

	for _, f := range []struct{ name, value string }{
		{"customerKey", res.CustomerKey},
		{"tenantName", snap.TenantName},
		{"contactEmail", snap.ContactEmail},
	} {
		if f.value == "" {
			res.Missing = append(res.Missing, f.name)
		}
	}
	if len(res.Missing) > 0 {
		return res.fail(ErrMissingInfo, msgMissingInfo)
	}
	switch res.Kind {
	case domain.KindRegister:
		if res.AuthKey == "" {
			res.Missing = []string{"authKey"}
			return res.fail(ErrMissingInfo, msgMissingCard)
		}
	case domain.KindPay:
		if res.PaymentKey == "" {
			res.Missing = append(res.Missing, "paymentKey")
		}
		if res.OrderID == "" {
			res.Missing = append(res.Missing, "orderId")
		}
		if len(res.Missing) > 0 {
			return res.fail(ErrMissingInfo, msgMissingPayment)
		}
	}

	res.enter(StateProcessing)

	checklist := domain.Checklist{
		ContactPhone:  snap.ContactPhone,
		PlanID:        snap.PlanID,
		AdminPassword: snap.AdminPassword,
		CustomerKey:   res.CustomerKey,
		PaymentType:   string(res.Kind),
	}

	switch res.Kind {
	case domain.KindRegister:
		pm, err := rc.backend.CreatePaymentMethod(ctx, domain.PaymentMethodInput{
			PaymentMethodToken: res.AuthKey,
			PGProvider:         string(provider),
		})
		if err != nil {
			return rc.backendFailure(ctx, &res, "create payment method", err)
		}
		res.PaymentMethodID = pm.PaymentMethodID
		checklist.PaymentMethodID = pm.PaymentMethodID

		if rc.cfg.AutoSubscribe && snap.PlanID != "" {
			sub, err := rc.backend.CreateSubscription(ctx, domain.SubscriptionInput{
				PlanID:          snap.PlanID,
				PaymentMethodID: pm.PaymentMethodID,
				BillingCycle:    rc.cfg.BillingCycle,
				AutoRenewal:     true,
			})
			if err != nil {
				return rc.backendFailure(ctx, &res, "create subscription", err)
			}
			res.SubscriptionID = sub.SubscriptionID
			checklist.SubscriptionID = sub.SubscriptionID
		}
	case domain.KindPay:
		checklist.PaymentKey = res.PaymentKey
		checklist.OrderID = res.OrderID
		checklist.Amount = snap.Amount
	}

	req, err := rc.backend.CreateOnboardingRequest(ctx, domain.OnboardingRequestInput{
		TenantName:    snap.TenantName,
		RequestedBy:   snap.ContactEmail,
		RiskLevel:     rc.cfg.RiskLevel,
		BusinessType:  snap.BusinessType,
		AdminPassword: snap.AdminPassword,
		ChecklistJSON: checklist.JSON(),
	})
	if err != nil {
		return rc.backendFailure(ctx, &res, "create onboarding request", err)
	}
	res.Request = req

	if sessionID != "" {
		if err := rc.carry.Clear(ctx, sessionID); err != nil {
			rc.cfg.Logger.WarnContext(ctx, "clearing carry slot failed", "session_id", sessionID, "err", err)
		}
	}

	res.enter(StateSuccess)
	flag := FlagRegistered
	if res.Kind == domain.KindPay {
		flag = FlagCompleted
	}
	res.RedirectURL = rc.cfg.WizardPath + "?" + flag + "=true"
	res.RedirectDelay = rc.cfg.RedirectDelay

	rc.cfg.Logger.InfoContext(ctx, "onboarding request created",
		"request_id", req.ID,
		"kind", res.Kind,
		"provider", provider,
		"payment_method_id", res.PaymentMethodID,
	)
	return res
}

func (rc *Reconciler) backendFailure(ctx context.Context, res *Result, op string, err error) Result {
	rc.cfg.Logger.ErrorContext(ctx, "reconciliation failed",
		"op", op,
		"kind", res.Kind,
		"err", err,
	)
	return res.fail(fmt.Errorf("%w: %s: %w", ErrBackend, op, err), backend.MessageOf(err, msgBackendFail))
}

func first(q url.Values, keys ...string) string {
	for _, k := range keys {
		if v := q.Get(k); v != "" {
			return v
		}
	}
	return ""
}
