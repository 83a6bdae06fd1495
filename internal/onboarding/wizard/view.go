package wizard

import (
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/domain"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/handoff"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/verification"
)

// View is what the wizard page renders. Passwords never appear in it.
type View struct {
	SessionID  string   `json:"sessionId"`
	Step       Step     `json:"step"`
	Reached    Step     `json:"reached"`
	CanAdvance bool     `json:"canAdvance"`
	Blockers   []string `json:"blockers,omitempty"`

	Form        domain.FormData `json:"form"`
	PasswordSet bool            `json:"passwordSet"`
	Email       string          `json:"email"`

	Verification verification.State `json:"verification"`
	Locked       []string           `json:"locked,omitempty"`

	Categories         []domain.BusinessCategory     `json:"categories,omitempty"`
	SelectedCategoryID string                        `json:"selectedCategoryId,omitempty"`
	Items              []domain.BusinessCategoryItem `json:"items,omitempty"`
	Plans              []domain.PricingPlan          `json:"plans,omitempty"`

	PaymentOption PaymentOption        `json:"paymentOption"`
	CustomerKey   string               `json:"customerKey,omitempty"`
	Payment       handoff.TrackerState `json:"payment"`

	Request    *domain.OnboardingRequest `json:"request,omitempty"`
	Completion string                    `json:"completion,omitempty"`
	Error      string                    `json:"error,omitempty"`
}

func (c *Controller) viewLocked() View {
	blockers := c.blockersLocked()
	v := View{
		SessionID:          c.id,
		Step:               c.step,
		Reached:            c.reached,
		CanAdvance:         c.step < StepPayment && len(blockers) == 0,
		Blockers:           blockers,
		Form:               c.form,
		PasswordSet:        c.form.AdminPassword != "",
		Email:              c.form.Email.Address(),
		Verification:       c.engine.State(),
		Locked:             c.guards.Locked(),
		Categories:         c.categories,
		SelectedCategoryID: c.categoryID,
		Items:              c.items[c.categoryID],
		Plans:              c.plans,
		PaymentOption:      c.option,
		CustomerKey:        c.customerKey,
		Payment:            c.tracker.State(),
		Request:            c.request,
		Completion:         c.completion,
		Error:              c.errMsg,
	}
	if v.Step == StepCompletion {
		v.Blockers = nil
	}
	return v
}
