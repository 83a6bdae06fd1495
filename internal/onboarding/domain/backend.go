package domain

import (
	"encoding/json"
	"time"
)

// DefaultRiskLevel is attached to onboarding requests created by the wizard.
const DefaultRiskLevel = "LOW"

// Onboarding request statuses.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Checklist is serialised into OnboardingRequest.ChecklistJSON.
type Checklist struct {
	ContactPhone    string `json:"contactPhone,omitempty"`
	PlanID          string `json:"planId,omitempty"`
	AdminPassword   string `json:"adminPassword,omitempty"`
	PaymentMethodID string `json:"paymentMethodId,omitempty"`
	SubscriptionID  string `json:"subscriptionId,omitempty"`
	CustomerKey     string `json:"customerKey,omitempty"`
	PaymentType     string `json:"paymentType,omitempty"`
	PaymentKey      string `json:"paymentKey,omitempty"`
	OrderID         string `json:"orderId,omitempty"`
	Amount          int64  `json:"amount,omitempty"`
}

// JSON encodes c for OnboardingRequestInput.ChecklistJSON.
func (c Checklist) JSON() string {
	b, err := json.Marshal(c)
	if err != nil {
		return "{}"
	}
	return string(b)
}

type OnboardingRequestInput struct {
	TenantName    string `json:"tenantName"`
	RequestedBy   string `json:"requestedBy"`
	RiskLevel     string `json:"riskLevel"`
	BusinessType  string `json:"businessType"`
	AdminPassword string `json:"adminPassword,omitempty"`
	ChecklistJSON string `json:"checklistJson,omitempty"`
}

type OnboardingRequest struct {
	ID            int64     `json:"id"`
	TenantName    string    `json:"tenantName"`
	RequestedBy   string    `json:"requestedBy"`
	Status        string    `json:"status"`
	RiskLevel     string    `json:"riskLevel"`
	BusinessType  string    `json:"businessType"`
	ChecklistJSON string    `json:"checklistJson,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type PaymentMethodInput struct {
	PaymentMethodToken string `json:"paymentMethodToken"`
	PGProvider         string `json:"pgProvider"`
	CardBrand          string `json:"cardBrand,omitempty"`
	CardLast4          string `json:"cardLast4,omitempty"`
}

type PaymentMethod struct {
	PaymentMethodID string `json:"paymentMethodId"`
	PGProvider      string `json:"pgProvider"`
	CardBrand       string `json:"cardBrand,omitempty"`
	CardLast4       string `json:"cardLast4,omitempty"`
	IsDefault       bool   `json:"isDefault"`
}

// Billing cycles accepted by CreateSubscription.
const (
	CycleMonthly   = "MONTHLY"
	CycleQuarterly = "QUARTERLY"
	CycleYearly    = "YEARLY"
)

type SubscriptionInput struct {
	PlanID          string `json:"planId"`
	PaymentMethodID string `json:"paymentMethodId"`
	BillingCycle    string `json:"billingCycle,omitempty"`
	AutoRenewal     bool   `json:"autoRenewal"`
}

type Subscription struct {
	SubscriptionID  string `json:"subscriptionId"`
	PlanID          string `json:"planId"`
	PaymentMethodID string `json:"paymentMethodId"`
	BillingCycle    string `json:"billingCycle"`
	AutoRenewal     bool   `json:"autoRenewal"`
	Status          string `json:"status"`
}

// EmailCheck is the duplicate check verdict.
type EmailCheck struct {
	Email       string `json:"email"`
	IsDuplicate bool   `json:"isDuplicate"`
	Available   bool   `json:"available"`
	Message     string `json:"message"`
	Status      string `json:"status,omitempty"`
}

type PricingPlan struct {
	PlanID       string `json:"planId"`
	PlanCode     string `json:"planCode"`
	Name         string `json:"name"`
	NameKo       string `json:"nameKo,omitempty"`
	BaseFee      int64  `json:"baseFee"`
	Currency     string `json:"currency"`
	Description  string `json:"description,omitempty"`
	IsActive     bool   `json:"isActive"`
	DisplayOrder int    `json:"displayOrder"`
	BillingCycle string `json:"billingCycle,omitempty"`
}

type BusinessCategory struct {
	CategoryID       string `json:"categoryId"`
	CategoryCode     string `json:"categoryCode"`
	NameKo           string `json:"nameKo"`
	NameEn           string `json:"nameEn,omitempty"`
	ParentCategoryID string `json:"parentCategoryId,omitempty"`
	DisplayOrder     int    `json:"displayOrder"`
	Level            int    `json:"level"`
}

type BusinessCategoryItem struct {
	ItemID       string `json:"itemId"`
	ItemCode     string `json:"itemCode"`
	NameKo       string `json:"nameKo"`
	NameEn       string `json:"nameEn,omitempty"`
	CategoryID   string `json:"categoryId"`
	DisplayOrder int    `json:"displayOrder"`
}
