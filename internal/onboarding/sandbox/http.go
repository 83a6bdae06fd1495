package sandbox

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/backend"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/domain"
	"github.com/aussiebroadwan/tenantboard/pkg/backendsdk"
	"github.com/aussiebroadwan/tenantboard/pkg/httpx"
	"github.com/aussiebroadwan/tenantboard/pkg/slogx"
)

// Handler serves the backend HTTP contract over a Service, so the real
// client can be pointed at the sandbox. Mount it with http.StripPrefix.
type Handler struct {
	svc *Service
	mux *http.ServeMux
}

func NewHandler(svc *Service) *Handler {
	h := &Handler{svc: svc, mux: http.NewServeMux()}

	h.mux.HandleFunc("POST /api/v1/onboarding/requests", h.createOnboardingRequest)
	h.mux.HandleFunc("GET /api/v1/onboarding/requests/public", h.listPublicRequests)
	h.mux.HandleFunc("GET /api/v1/onboarding/requests/public/{id}", h.getPublicRequest)
	h.mux.HandleFunc("GET /api/v1/onboarding/email-check", h.checkEmail)
	h.mux.HandleFunc("POST /api/v1/accounts/integration/send-verification-code", h.sendCode)
	h.mux.HandleFunc("POST /api/v1/accounts/integration/verify-code", h.verifyCode)
	h.mux.HandleFunc("POST /api/v1/billing/payment-methods", h.createPaymentMethod)
	h.mux.HandleFunc("POST /api/v1/billing/subscriptions", h.createSubscription)
	h.mux.HandleFunc("GET /api/v1/ops/plans/active", h.activePlans)
	h.mux.HandleFunc("GET /api/business-categories/root", h.rootCategories)
	h.mux.HandleFunc("GET /api/business-categories/items", h.categoryItems)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func writeEnvelope(w http.ResponseWriter, status int, data any, msg string) {
	env := backendsdk.Envelope{Success: true, Message: msg}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			writeFailure(w, err)
			return
		}
		env.Data = raw
	}
	httpx.WriteJSON(w, status, env)
}

// writeFailure renders backend errors with their status and message; any
// other error is a 500.
func writeFailure(w http.ResponseWriter, err error) {
	var be *backend.Error
	if errors.As(err, &be) {
		httpx.WriteJSON(w, be.Status, map[string]any{
			"success": false,
			"code":    be.Code,
			"message": be.Message,
		})
		return
	}
	httpx.WriteJSON(w, http.StatusInternalServerError, map[string]any{
		"success": false,
		"error":   "internal server error",
	})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var be *backend.Error
	if !errors.As(err, &be) {
		slogx.FromContext(r.Context()).ErrorContext(r.Context(), "sandbox request failed",
			"path", r.URL.Path,
			"err", err,
		)
	}
	writeFailure(w, err)
}

func decode(r *http.Request, dst any) error {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		return &backend.Error{Status: http.StatusBadRequest, Code: "VALIDATION_ERROR", Message: err.Error()}
	}
	return nil
}

func toSDKRequest(req domain.OnboardingRequest) backendsdk.OnboardingRequest {
	return backendsdk.OnboardingRequest{
		ID:            req.ID,
		TenantName:    req.TenantName,
		RequestedBy:   req.RequestedBy,
		Status:        req.Status,
		RiskLevel:     req.RiskLevel,
		ChecklistJSON: req.ChecklistJSON,
		BusinessType:  req.BusinessType,
		CreatedAt:     req.CreatedAt,
		UpdatedAt:     req.UpdatedAt,
	}
}

func (h *Handler) createOnboardingRequest(w http.ResponseWriter, r *http.Request) {
	var body backendsdk.CreateOnboardingRequest
	if err := decode(r, &body); err != nil {
		h.fail(w, r, err)
		return
	}

	created, err := h.svc.CreateOnboardingRequest(r.Context(), domain.OnboardingRequestInput{
		TenantName:    body.TenantName,
		RequestedBy:   body.RequestedBy,
		RiskLevel:     body.RiskLevel,
		BusinessType:  body.BusinessType,
		AdminPassword: body.AdminPassword,
		ChecklistJSON: body.ChecklistJSON,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toSDKRequest(*created))
}

func (h *Handler) listPublicRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.svc.ListPublicOnboardingRequests(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]backendsdk.OnboardingRequest, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, toSDKRequest(req))
	}
	writeEnvelope(w, http.StatusOK, out, "")
}

func (h *Handler) getPublicRequest(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.fail(w, r, notFound("onboarding request not found"))
		return
	}
	req, err := h.svc.GetPublicOnboardingRequest(r.Context(), id, r.URL.Query().Get("email"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeEnvelope(w, http.StatusOK, toSDKRequest(*req), "")
}

func (h *Handler) checkEmail(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.CheckEmailDuplicate(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeEnvelope(w, http.StatusOK, backendsdk.EmailCheckResponse{
		Email:       res.Email,
		IsDuplicate: res.IsDuplicate,
		Available:   res.Available,
		Message:     res.Message,
		Status:      res.Status,
	}, "")
}

func (h *Handler) sendCode(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.SendEmailVerificationCode(r.Context(), r.URL.Query().Get("email")); err != nil {
		h.fail(w, r, err)
		return
	}
	writeEnvelope(w, http.StatusOK, nil, "verification code sent")
}

func (h *Handler) verifyCode(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if err := h.svc.VerifyEmailCode(r.Context(), q.Get("email"), q.Get("code")); err != nil {
		h.fail(w, r, err)
		return
	}
	writeEnvelope(w, http.StatusOK, nil, "email verified")
}

func (h *Handler) createPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var body backendsdk.PaymentMethodRequest
	if err := decode(r, &body); err != nil {
		h.fail(w, r, err)
		return
	}

	pm, err := h.svc.CreatePaymentMethod(r.Context(), domain.PaymentMethodInput{
		PaymentMethodToken: body.PaymentMethodToken,
		PGProvider:         body.PGProvider,
		CardBrand:          body.CardBrand,
		CardLast4:          body.CardLast4,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeEnvelope(w, http.StatusCreated, backendsdk.PaymentMethod{
		PaymentMethodID: pm.PaymentMethodID,
		PGProvider:      pm.PGProvider,
		CardBrand:       pm.CardBrand,
		CardLast4:       pm.CardLast4,
		IsDefault:       pm.IsDefault,
	}, "")
}

func (h *Handler) createSubscription(w http.ResponseWriter, r *http.Request) {
	var body backendsdk.SubscriptionRequest
	if err := decode(r, &body); err != nil {
		h.fail(w, r, err)
		return
	}

	sub, err := h.svc.CreateSubscription(r.Context(), domain.SubscriptionInput{
		PlanID:          body.PlanID,
		PaymentMethodID: body.PaymentMethodID,
		BillingCycle:    body.BillingCycle,
		AutoRenewal:     body.AutoRenewal,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeEnvelope(w, http.StatusCreated, backendsdk.Subscription{
		SubscriptionID:  sub.SubscriptionID,
		PlanID:          sub.PlanID,
		PaymentMethodID: sub.PaymentMethodID,
		Status:          sub.Status,
		BillingCycle:    sub.BillingCycle,
		AutoRenewal:     sub.AutoRenewal,
	}, "")
}

func (h *Handler) activePlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.svc.GetActivePricingPlans(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]backendsdk.PricingPlan, 0, len(plans))
	for _, p := range plans {
		out = append(out, backendsdk.PricingPlan{
			PlanID:       p.PlanID,
			PlanCode:     p.PlanCode,
			Name:         p.Name,
			NameKo:       p.NameKo,
			BaseFee:      p.BaseFee,
			Currency:     p.Currency,
			Description:  p.Description,
			IsActive:     p.IsActive,
			DisplayOrder: p.DisplayOrder,
			BillingCycle: p.BillingCycle,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) rootCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.GetRootBusinessCategories(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]backendsdk.BusinessCategory, 0, len(cats))
	for _, c := range cats {
		out = append(out, backendsdk.BusinessCategory{
			CategoryID:       c.CategoryID,
			CategoryCode:     c.CategoryCode,
			NameKo:           c.NameKo,
			NameEn:           c.NameEn,
			ParentCategoryID: c.ParentCategoryID,
			DisplayOrder:     c.DisplayOrder,
			Level:            c.Level,
		})
	}
	writeEnvelope(w, http.StatusOK, out, "")
}

func (h *Handler) categoryItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.GetBusinessCategoryItems(r.Context(), r.URL.Query().Get("categoryId"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]backendsdk.BusinessCategoryItem, 0, len(items))
	for _, i := range items {
		out = append(out, backendsdk.BusinessCategoryItem{
			ItemID:       i.ItemID,
			ItemCode:     i.ItemCode,
			NameKo:       i.NameKo,
			NameEn:       i.NameEn,
			CategoryID:   i.CategoryID,
			DisplayOrder: i.DisplayOrder,
		})
	}
	writeEnvelope(w, http.StatusOK, out, "")
}
