// Package handoff starts the external payment flow. It records the pending
// hand-off in the carry store before the browser leaves, asks the gateway
// for a launch, and tracks embedded and popup deliveries until the gateway
// window reports back.
package handoff

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/carry"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/domain"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/gateway"
	"github.com/aussiebroadwan/tenantboard/pkg/idx"
	"github.com/google/uuid"
)

const (
	DefaultCallbackPath = "/onboarding/callback"
	DefaultLaunchPath   = "/onboarding/payment/launch"
	DefaultOrderName    = "Tenant onboarding"
)

// Callback statuses.
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

var (
	ErrInvalidKind = errors.New("handoff: unknown payment kind")
	ErrInvalidMode = errors.New("handoff: unknown delivery mode")
	ErrIncomplete  = errors.New("handoff: tenant name and contact email are required")
	ErrNoAmount    = errors.New("handoff: payment amount must be positive")
)

type Config struct {
	// AppOrigin is scheme://host[:port] of this service as the browser sees it.
	AppOrigin    string
	CallbackPath string
	LaunchPath   string
	OrderName    string
	Logger       *slog.Logger
}

func (c Config) withDefaults() Config {
	c.AppOrigin = strings.TrimSuffix(c.AppOrigin, "/")
	if c.CallbackPath == "" {
		c.CallbackPath = DefaultCallbackPath
	}
	if c.LaunchPath == "" {
		c.LaunchPath = DefaultLaunchPath
	}
	if c.OrderName == "" {
		c.OrderName = DefaultOrderName
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

type Handoff struct {
	carry    *carry.Store
	gateways *gateway.Registry
	cfg      Config
}

func New(c *carry.Store, gateways *gateway.Registry, cfg Config) *Handoff {
	return &Handoff{carry: c, gateways: gateways, cfg: cfg.withDefaults()}
}

// Origin is the application origin that cross-window messages must carry.
func (h *Handoff) Origin() string { return h.cfg.AppOrigin }

type BeginRequest struct {
	SessionID string

	// CustomerKey is the session's existing key; a new one is minted when
	// empty.
	CustomerKey string

	Kind     domain.HandoffKind
	Mode     domain.DeliveryMode
	Provider gateway.Tag
	Form     domain.FormData

	// Amount is charged for KindPay.
	Amount    int64
	OrderName string
}

type BeginResult struct {
	CustomerKey string
	Pending     domain.PendingHandoff
	Launch      *gateway.Launch

	// LaunchURL is the same-origin page that starts the launch; embedded
	// and popup deliveries load it in the child window.
	LaunchURL string
}

// Begin writes the pending hand-off and asks the provider for a launch. The
// provider is resolved before anything is written so a misconfigured
// gateway leaves the carry slot untouched.
func (h *Handoff) Begin(ctx context.Context, req BeginRequest) (*BeginResult, error) {
	if !req.Kind.Valid() {
		return nil, ErrInvalidKind
	}
	if req.Mode == "" {
		req.Mode = domain.ModeRedirect
	}
	if !req.Mode.Valid() {
		return nil, ErrInvalidMode
	}

	snap := Snapshot(req.Form)
	if snap.TenantName == "" || snap.ContactEmail == "" {
		return nil, ErrIncomplete
	}
	if req.Kind == domain.KindPay {
		if req.Amount <= 0 {
			return nil, ErrNoAmount
		}
		snap.Amount = req.Amount
	}

	provider, err := h.gateways.Get(ctx, req.Provider)
	if err != nil {
		return nil, err
	}

	customerKey := req.CustomerKey
	if customerKey == "" {
		customerKey = uuid.NewString()
	}

	pending := domain.PendingHandoff{
		SessionID:   req.SessionID,
		CustomerKey: customerKey,
		Kind:        req.Kind,
		Mode:        req.Mode,
		Provider:    string(provider.Tag()),
		Snapshot:    snap,
	}
	if req.Kind == domain.KindPay {
		pending.OrderID = idx.Prefixed("order")
	}

	successURL := h.CallbackURL(StatusSuccess, pending)
	failURL := h.CallbackURL(StatusFail, pending)

	if err := h.carry.Write(ctx, pending); err != nil {
		return nil, fmt.Errorf("handoff: write pending: %w", err)
	}

	var launch *gateway.Launch
	switch req.Kind {
	case domain.KindRegister:
		launch, err = provider.RequestBillingAuth(ctx, gateway.BillingAuthParams{
			CustomerKey:   customerKey,
			CustomerName:  snap.TenantName,
			CustomerEmail: snap.ContactEmail,
			SuccessURL:    successURL,
			FailURL:       failURL,
		})
	case domain.KindPay:
		orderName := req.OrderName
		if orderName == "" {
			orderName = h.cfg.OrderName
		}
		launch, err = provider.RequestPayment(ctx, gateway.PaymentParams{
			CustomerKey:   customerKey,
			Amount:        req.Amount,
			OrderID:       pending.OrderID,
			OrderName:     orderName,
			CustomerName:  snap.TenantName,
			CustomerEmail: snap.ContactEmail,
			SuccessURL:    successURL,
			FailURL:       failURL,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("handoff: %s %s: %w", provider.Tag(), req.Kind, err)
	}

	h.cfg.Logger.InfoContext(ctx, "payment hand-off started",
		"provider", provider.Tag(),
		"kind", req.Kind,
		"mode", req.Mode,
		"launch", launch.Kind,
	)

	return &BeginResult{
		CustomerKey: customerKey,
		Pending:     pending,
		Launch:      launch,
		LaunchURL:   h.LaunchURL(req.Mode),
	}, nil
}

// Snapshot extracts what the callback needs from the form.
func Snapshot(f domain.FormData) domain.CarrySnapshot {
	return domain.CarrySnapshot{
		TenantName:    strings.TrimSpace(f.TenantName),
		ContactEmail:  f.Email.Address(),
		ContactPhone:  f.ContactPhone,
		PlanID:        f.PlanID,
		AdminPassword: f.AdminPassword,
		BusinessType:  f.BusinessType,
	}
}

// CallbackURL is where the gateway sends the browser back to. The snapshot's
// identifying fields ride along so the callback can still reconcile when
// the carry slot is gone.
func (h *Handoff) CallbackURL(status string, p domain.PendingHandoff) string {
	q := url.Values{}
	q.Set("status", status)
	q.Set("type", string(p.Kind))
	q.Set("mode", string(p.Mode))
	q.Set("customerKey", p.CustomerKey)
	q.Set("tenantName", p.Snapshot.TenantName)
	q.Set("contactEmail", p.Snapshot.ContactEmail)
	return h.cfg.AppOrigin + h.cfg.CallbackPath + "?" + q.Encode()
}

func (h *Handoff) LaunchURL(mode domain.DeliveryMode) string {
	return h.cfg.LaunchPath + "?" + url.Values{"mode": {string(mode)}}.Encode()
}
