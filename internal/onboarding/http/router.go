package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/backend"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/handoff"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/reconcile"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/wizard"
	"github.com/aussiebroadwan/tenantboard/pkg/httpx"
	"github.com/aussiebroadwan/tenantboard/pkg/slogx"

	_ "github.com/aussiebroadwan/tenantboard/api/onboarding" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	sessions     *Sessions
	limits       httpx.RateLimitProfiles
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	Wizards    *wizard.Manager
	Handoff    *handoff.Handoff
	Reconciler *reconcile.Reconciler
	Backend    backend.Backend
	// WizardPath is where the wizard page is served.
	WizardPath string
	// Checks run on /readyz.
	Checks map[string]Check
	// Sandbox, when set, serves the backend contract under /sandbox.
	Sandbox http.Handler
}

func NewRouter(sessions *Sessions, limits httpx.RateLimitProfiles, buildVersion string, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		sessions:     sessions,
		limits:       limits,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		WizardPath:   reconcile.DefaultWizardPath,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerWizard()
	r.registerEmail()
	r.registerPayment()
	r.registerPages()
	r.registerOnboarding()
	r.registerSystem()
	r.registerSandbox()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Tenant Onboarding Service API
//	@version		0.1.0
//	@description	Server-side wizard for onboarding a new tenant: basic info with email verification, business type, pricing plan and an optional payment method hand-off to a hosted gateway.
//	@description
//	@description	Wizard endpoints act on the session named by the onboarding_session cookie, an EdDSA-signed JWT issued by POST /api/v1/wizard/sessions.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/tenantboard
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) bySession(cfg httpx.RateLimitConfig) httpx.Middleware {
	return httpx.RateLimitBySession(cfg, SessionCookie)
}

func (r *Router) registerWizard() {
	h := &WizardHandler{Wizards: r.Wizards, Sessions: r.sessions}

	// Session creation is keyed by IP; there is no cookie yet.
	r.Mux.Handle("POST /api/v1/wizard/sessions",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.RateLimitByIP(r.limits.Moderate),
		),
	)

	r.Mux.Handle("GET /api/v1/wizard",
		httpx.Chain(h.with(h.HandleGet), r.bySession(r.limits.Lenient)),
	)
	r.Mux.Handle("GET /api/v1/wizard/complete",
		httpx.Chain(h.with(h.HandleComplete), r.bySession(r.limits.Lenient)),
	)

	for pattern, fn := range map[string]func(http.ResponseWriter, *http.Request, *wizard.Controller){
		"PATCH /api/v1/wizard/form":    h.HandlePatch,
		"POST /api/v1/wizard/next":     h.HandleNext,
		"POST /api/v1/wizard/back":     h.HandleBack,
		"POST /api/v1/wizard/step":     h.HandleGoTo,
		"POST /api/v1/wizard/category": h.HandleCategory,
	} {
		r.Mux.Handle(pattern, httpx.Chain(h.with(fn), r.bySession(r.limits.Moderate)))
	}

	// Submit creates the backend record.
	r.Mux.Handle("POST /api/v1/wizard/submit",
		httpx.Chain(h.with(h.HandleSubmit), r.bySession(r.limits.Strict)),
	)
}

func (r *Router) registerEmail() {
	h := &WizardHandler{Wizards: r.Wizards, Sessions: r.sessions}

	r.Mux.Handle("POST /api/v1/wizard/email/check-duplicate",
		httpx.Chain(h.with(h.HandleCheckDuplicate), r.bySession(r.limits.Moderate)),
	)

	// Sending and verifying codes are strict: outbound mail and brute force.
	r.Mux.Handle("POST /api/v1/wizard/email/send-code",
		httpx.Chain(h.with(h.HandleSendCode), r.bySession(r.limits.Strict)),
	)
	r.Mux.Handle("POST /api/v1/wizard/email/verify-code",
		httpx.Chain(h.with(h.HandleVerifyCode), r.bySession(r.limits.Strict)),
	)
}

func (r *Router) paymentHandler() *PaymentHandler {
	return &PaymentHandler{
		Wizards:    r.Wizards,
		Sessions:   r.sessions,
		Handoff:    r.Handoff,
		Reconciler: r.Reconciler,
		WizardPath: r.WizardPath,
	}
}

func (r *Router) registerPayment() {
	h := r.paymentHandler()

	r.Mux.Handle("POST /api/v1/wizard/payment/handoff",
		httpx.Chain(h.with(h.HandleStart), r.bySession(r.limits.Strict)),
	)
	for pattern, fn := range map[string]func(http.ResponseWriter, *http.Request, *wizard.Controller){
		"POST /api/v1/wizard/payment/option":  h.HandleOption,
		"POST /api/v1/wizard/payment/message": h.HandleMessage,
		"POST /api/v1/wizard/payment/dismiss": h.HandleDismiss,
		"POST /api/v1/wizard/payment/fail":    h.HandleFail,
	} {
		r.Mux.Handle(pattern, httpx.Chain(h.with(fn), r.bySession(r.limits.Moderate)))
	}
}

func (r *Router) registerPages() {
	h := r.paymentHandler()
	shell := &ShellHandler{Wizards: r.Wizards, Sessions: r.sessions}

	r.Mux.Handle("GET "+r.WizardPath,
		httpx.Chain(shell, httpx.RateLimitByIP(r.limits.Lenient)),
	)
	r.Mux.Handle("GET "+handoff.DefaultLaunchPath,
		httpx.Chain(http.HandlerFunc(h.HandleLaunch), httpx.RateLimitByIP(r.limits.Lenient)),
	)

	// The callback creates backend records on success.
	r.Mux.Handle("GET "+handoff.DefaultCallbackPath,
		httpx.Chain(http.HandlerFunc(h.HandleCallback), httpx.RateLimitByIP(r.limits.Strict)),
	)

	r.Mux.Handle("GET "+ParentScriptPath,
		httpx.Chain(http.HandlerFunc(HandleParentScript), httpx.RateLimitByIP(r.limits.Public)),
	)
}

func (r *Router) registerOnboarding() {
	// Keyed by IP and email so one address cannot be probed from many tabs
	// and one client cannot probe many addresses.
	key := httpx.CompositeKeyExtractor("|", httpx.IPKeyExtractor, httpx.QueryKeyExtractor("email"))
	r.Mux.Handle("GET /api/v1/onboarding/status",
		httpx.Chain(&StatusHandler{Backend: r.Backend},
			httpx.RateLimitMiddleware(r.limits.Moderate, key),
		),
	)
}

func (r *Router) registerSystem() {
	// Health endpoints - public, high limit
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.Checks),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
}

func (r *Router) registerSandbox() {
	if r.Sandbox == nil {
		return
	}
	r.Mux.Handle("/sandbox/", http.StripPrefix("/sandbox", r.Sandbox))
}
