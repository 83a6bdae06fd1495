package backendsdk

import (
	"encoding/json"
	"time"
)

// ============================================================================
// Envelope
// ============================================================================

// Envelope is the backend's standard response wrapper.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ============================================================================
// Onboarding Types
// ============================================================================

// CreateOnboardingRequest is the body of POST /api/v1/onboarding/requests.
type CreateOnboardingRequest struct {
	TenantName    string `json:"tenantName"`
	RequestedBy   string `json:"requestedBy"`
	RiskLevel     string `json:"riskLevel"`
	ChecklistJSON string `json:"checklistJson,omitempty"`
	BusinessType  string `json:"businessType"`
	AdminPassword string `json:"adminPassword,omitempty"`
}

// OnboardingRequest is a submitted onboarding request awaiting review.
type OnboardingRequest struct {
	ID            int64     `json:"id"`
	TenantName    string    `json:"tenantName"`
	RequestedBy   string    `json:"requestedBy"`
	Status        string    `json:"status"`
	RiskLevel     string    `json:"riskLevel"`
	ChecklistJSON string    `json:"checklistJson,omitempty"`
	BusinessType  string    `json:"businessType"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// EmailCheckResponse is the duplicate check verdict.
type EmailCheckResponse struct {
	Email       string `json:"email"`
	IsDuplicate bool   `json:"isDuplicate"`
	Available   bool   `json:"available"`
	Message     string `json:"message"`
	Status      string `json:"status,omitempty"`
}

// ============================================================================
// Billing Types
// ============================================================================

// PaymentMethodRequest registers a gateway token as a payment method.
type PaymentMethodRequest struct {
	PaymentMethodToken string `json:"paymentMethodToken"`
	PGProvider         string `json:"pgProvider"`
	CardBrand          string `json:"cardBrand,omitempty"`
	CardLast4          string `json:"cardLast4,omitempty"`
	CardExpMonth       int    `json:"cardExpMonth,omitempty"`
	CardExpYear        int    `json:"cardExpYear,omitempty"`
	CardholderName     string `json:"cardholderName,omitempty"`
}

type PaymentMethod struct {
	PaymentMethodID string    `json:"paymentMethodId"`
	PGProvider      string    `json:"pgProvider"`
	CardBrand       string    `json:"cardBrand,omitempty"`
	CardLast4       string    `json:"cardLast4,omitempty"`
	IsDefault       bool      `json:"isDefault"`
	CreatedAt       time.Time `json:"createdAt,omitzero"`
}

// SubscriptionRequest subscribes the onboarding tenant to a plan.
type SubscriptionRequest struct {
	PlanID          string `json:"planId"`
	PaymentMethodID string `json:"paymentMethodId"`
	BillingCycle    string `json:"billingCycle,omitempty"`
	AutoRenewal     bool   `json:"autoRenewal"`
}

type Subscription struct {
	SubscriptionID  string    `json:"subscriptionId"`
	PlanID          string    `json:"planId"`
	PaymentMethodID string    `json:"paymentMethod,omitempty"`
	Status          string    `json:"status"`
	BillingCycle    string    `json:"billingCycle"`
	AutoRenewal     bool      `json:"autoRenewal"`
	CreatedAt       time.Time `json:"createdAt,omitzero"`
}

// ============================================================================
// Catalog Types
// ============================================================================

type PricingPlan struct {
	PlanID       string `json:"planId"`
	PlanCode     string `json:"planCode"`
	Name         string `json:"name"`
	NameKo       string `json:"nameKo,omitempty"`
	BaseFee      int64  `json:"baseFee"`
	Currency     string `json:"currency"`
	Description  string `json:"description,omitempty"`
	IsActive     bool   `json:"isActive"`
	DisplayOrder int    `json:"displayOrder,omitempty"`
	BillingCycle string `json:"billingCycle,omitempty"`
}

type BusinessCategory struct {
	CategoryID       string `json:"categoryId"`
	CategoryCode     string `json:"categoryCode"`
	NameKo           string `json:"nameKo"`
	NameEn           string `json:"nameEn,omitempty"`
	ParentCategoryID string `json:"parentCategoryId,omitempty"`
	DisplayOrder     int    `json:"displayOrder,omitempty"`
	Level            int    `json:"level,omitempty"`
}

type BusinessCategoryItem struct {
	ItemID       string `json:"itemId"`
	ItemCode     string `json:"itemCode"`
	NameKo       string `json:"nameKo"`
	NameEn       string `json:"nameEn,omitempty"`
	CategoryID   string `json:"categoryId"`
	DisplayOrder int    `json:"displayOrder,omitempty"`
}
