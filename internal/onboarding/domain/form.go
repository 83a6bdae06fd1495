package domain

import "strings"

// CustomDomainOption is the domain selector value meaning "type it yourself".
const CustomDomainOption = "custom"

// Email is the split email input of the contact step.
type Email struct {
	Local        string `json:"local"`
	Domain       string `json:"domain"`
	CustomDomain string `json:"customDomain,omitempty"`
}

// Address composes local@domain, using CustomDomain when the selector is
// CustomDomainOption. A leading "@" on either domain is dropped. Either
// half missing yields the parts joined as typed so format validation can
// report which half is wrong.
func (e Email) Address() string {
	local := strings.TrimSpace(e.Local)
	domain := strings.TrimSpace(e.Domain)
	if domain == CustomDomainOption {
		domain = strings.TrimSpace(e.CustomDomain)
	}
	domain = strings.TrimPrefix(domain, "@")
	if local == "" && domain == "" {
		return ""
	}
	return local + "@" + domain
}

// FormData is everything the wizard collects. Passwords are never rendered.
type FormData struct {
	TenantName           string `json:"tenantName"`
	BusinessCategoryID   string `json:"businessCategoryId,omitempty"`
	BusinessType         string `json:"businessType,omitempty"`
	Email                Email  `json:"email"`
	ContactPhone         string `json:"contactPhone,omitempty"`
	AdminPassword        string `json:"-"`
	AdminPasswordConfirm string `json:"-"`
	PlanID               string `json:"planId,omitempty"`
	PaymentMethodToken   string `json:"paymentMethodToken,omitempty"`
	PaymentMethodID      string `json:"paymentMethodId,omitempty"`
	SubscriptionID       string `json:"subscriptionId,omitempty"`
}

// FormPatch carries a partial update; nil fields are left unchanged.
type FormPatch struct {
	TenantName           *string `json:"tenantName,omitempty"`
	EmailLocal           *string `json:"emailLocal,omitempty"`
	EmailDomain          *string `json:"emailDomain,omitempty"`
	EmailCustomDomain    *string `json:"emailCustomDomain,omitempty"`
	ContactPhone         *string `json:"contactPhone,omitempty"`
	AdminPassword        *string `json:"adminPassword,omitempty"`
	AdminPasswordConfirm *string `json:"adminPasswordConfirm,omitempty"`
	BusinessType         *string `json:"businessType,omitempty"`
	PlanID               *string `json:"planId,omitempty"`
}

// TouchesEmail reports whether the patch edits any part of the email.
func (p FormPatch) TouchesEmail() bool {
	return p.EmailLocal != nil || p.EmailDomain != nil || p.EmailCustomDomain != nil
}

// Apply writes the non-nil fields of p into f.
func (p FormPatch) Apply(f *FormData) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&f.TenantName, p.TenantName)
	set(&f.Email.Local, p.EmailLocal)
	set(&f.Email.Domain, p.EmailDomain)
	set(&f.Email.CustomDomain, p.EmailCustomDomain)
	set(&f.ContactPhone, p.ContactPhone)
	set(&f.AdminPassword, p.AdminPassword)
	set(&f.AdminPasswordConfirm, p.AdminPasswordConfirm)
	set(&f.BusinessType, p.BusinessType)
	set(&f.PlanID, p.PlanID)
}
