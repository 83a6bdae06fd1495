package http

import (
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/domain"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/wizard"
)

type CreateSessionRequest struct {
	PlanID string `json:"planId,omitempty" validate:"omitempty,max=64"`
}

// FormPatchRequest updates form fields; omitted fields are left unchanged.
// businessType and planId are checked against the loaded catalog.
type FormPatchRequest struct {
	TenantName           *string `json:"tenantName,omitempty" validate:"omitempty,max=100"`
	EmailLocal           *string `json:"emailLocal,omitempty" validate:"omitempty,max=64"`
	EmailDomain          *string `json:"emailDomain,omitempty" validate:"omitempty,max=255"`
	EmailCustomDomain    *string `json:"emailCustomDomain,omitempty" validate:"omitempty,max=255"`
	ContactPhone         *string `json:"contactPhone,omitempty" validate:"omitempty,max=32"`
	AdminPassword        *string `json:"adminPassword,omitempty" validate:"omitempty,max=128"`
	AdminPasswordConfirm *string `json:"adminPasswordConfirm,omitempty" validate:"omitempty,max=128"`
	BusinessType         *string `json:"businessType,omitempty" validate:"omitempty,max=64"`
	PlanID               *string `json:"planId,omitempty" validate:"omitempty,max=64"`
}

func (p FormPatchRequest) patch() domain.FormPatch {
	return domain.FormPatch{
		TenantName:           p.TenantName,
		EmailLocal:           p.EmailLocal,
		EmailDomain:          p.EmailDomain,
		EmailCustomDomain:    p.EmailCustomDomain,
		ContactPhone:         p.ContactPhone,
		AdminPassword:        p.AdminPassword,
		AdminPasswordConfirm: p.AdminPasswordConfirm,
	}
}

type GoToRequest struct {
	Step int `json:"step" validate:"required,min=1,max=4"`
}

type CategoryRequest struct {
	CategoryID string `json:"categoryId" validate:"required,max=64"`
}

type VerifyCodeRequest struct {
	Code string `json:"code" validate:"required,max=16"`
}

type PaymentOptionRequest struct {
	Option string `json:"option" validate:"required,oneof=skip register pay"`
}

type StartPaymentRequest struct {
	Mode string `json:"mode" validate:"required,oneof=redirect embedded popup"`
	// Option switches the payment option first when set.
	Option string `json:"option,omitempty" validate:"omitempty,oneof=register pay"`
}

type PaymentFailRequest struct {
	Reason string `json:"reason" validate:"required,oneof=popup_blocked sdk_load"`
}

type CompletionResponse struct {
	Consumed bool        `json:"consumed"`
	Query    string      `json:"query"`
	View     wizard.View `json:"view"`
}

type StatusResponse struct {
	Requests []domain.OnboardingRequest `json:"requests"`
}

type HealthResponse struct {
	Status  string            `json:"status"`
	Uptime  string            `json:"uptime"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}
