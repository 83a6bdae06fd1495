// Package wizard is the onboarding step machine. A Controller owns one
// session's form, its step, the lazily loaded catalog data, the email
// verification engine, the payment delivery tracker and a guard per
// interactive control.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/backend"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/domain"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/guard"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/handoff"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/reconcile"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/verification"
)

// Step is a wizard page, 1 through 5.
type Step int

const (
	StepBasicInfo    Step = 1
	StepBusinessType Step = 2
	StepPricingPlan  Step = 3
	StepPayment      Step = 4
	StepCompletion   Step = 5
)

// MinPasswordLength applies to the admin password.
const MinPasswordLength = 8

// PaymentOption is the user's choice on the payment step.
type PaymentOption string

const (
	OptionSkip     PaymentOption = "skip"
	OptionRegister PaymentOption = "register"
	OptionPay      PaymentOption = "pay"
)

func (o PaymentOption) Valid() bool {
	return o == OptionSkip || o == OptionRegister || o == OptionPay
}

// Guarded controls.
const (
	ActionNext           = "next"
	ActionCheckDuplicate = "check-duplicate"
	ActionSendCode       = "send-code"
	ActionVerifyCode     = "verify-code"
	ActionSubmit         = "submit"
	ActionPayment        = "payment-open"
)

var (
	ErrBusy            = errors.New("wizard: action already in progress")
	ErrCannotAdvance   = errors.New("wizard: current step is incomplete")
	ErrWrongStep       = errors.New("wizard: not allowed on this step")
	ErrNotVisited      = errors.New("wizard: step not reached yet")
	ErrFinished        = errors.New("wizard: onboarding already submitted")
	ErrRequiredFields  = errors.New("wizard: required fields missing")
	ErrEmailNotChecked = errors.New("wizard: contact email not checked")
	ErrUnknownPlan     = errors.New("wizard: unknown pricing plan")
	ErrUnknownCategory = errors.New("wizard: unknown business category")
	ErrUnknownItem     = errors.New("wizard: unknown business type")
	ErrInvalidOption   = errors.New("wizard: unknown payment option")
	ErrNoLaunch        = errors.New("wizard: no payment hand-off started")
)

const (
	msgRequiredFields  = "Please fill in every required field."
	msgEmailNotChecked = "Please check the contact email address first."
	msgSubmitFailed    = "The onboarding request could not be submitted. Please try again."
	msgLoadFailed      = "Could not load the list. Please try again."
	msgPaymentFailed   = "The payment window could not be opened. Please try again."
)

// Deps are shared by every session. Backend and Handoff are required.
type Deps struct {
	Backend      backend.Backend
	Handoff      *handoff.Handoff
	Guards       guard.Options
	Verification verification.Config
	RiskLevel    string
	Logger       *slog.Logger
}

func (d Deps) withDefaults() Deps {
	if d.RiskLevel == "" {
		d.RiskLevel = domain.DefaultRiskLevel
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Guards.Logger == nil {
		d.Guards.Logger = d.Logger
	}
	if d.Verification.Logger == nil {
		d.Verification.Logger = d.Logger
	}
	return d
}

// Controller is safe for concurrent use; calls for one session are
// serialised.
type Controller struct {
	id      string
	deps    Deps
	engine  *verification.Engine
	guards  *guard.Set
	tracker *handoff.Tracker
	logger  *slog.Logger

	mu      sync.Mutex
	step    Step
	reached Step
	form    domain.FormData
	option  PaymentOption
	errMsg  string

	customerKey string
	launch      *handoff.BeginResult

	plans      []domain.PricingPlan
	categories []domain.BusinessCategory
	items      map[string][]domain.BusinessCategoryItem
	categoryID string

	request    *domain.OnboardingRequest
	reconciled string
	completion string
	closed     bool
}

func newController(id string, deps Deps) *Controller {
	return &Controller{
		id:      id,
		deps:    deps,
		engine:  verification.NewEngine(deps.Backend, deps.Verification),
		guards:  guard.NewSet(deps.Guards),
		tracker: handoff.NewTracker(deps.Handoff.Origin()),
		logger:  deps.Logger.With("session_id", id),
		step:    StepBasicInfo,
		reached: StepBasicInfo,
		option:  OptionSkip,
		items:   make(map[string][]domain.BusinessCategoryItem),
	}
}

func (c *Controller) ID() string { return c.id }

// Close stops the session's timers. The controller must not be used after.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.engine.Close()
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Update applies a form patch. Editing any part of the email resets its
// verification.
func (c *Controller) Update(p domain.FormPatch) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step == StepCompletion {
		return c.viewLocked(), ErrFinished
	}

	p.Apply(&c.form)
	if p.TouchesEmail() {
		c.engine.SetEmail(c.form.Email.Address())
	}
	c.errMsg = ""
	return c.viewLocked(), nil
}

// Next advances one step when the current step's guard holds, loading the
// next step's data on first entry. A failed load still advances; the error
// is returned and the list is fetched again on the next selection.
func (c *Controller) Next(ctx context.Context) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step >= StepPayment {
		return c.viewLocked(), ErrWrongStep
	}

	var err error
	disabled := len(c.blockersLocked()) > 0
	ran := c.guards.For(ActionNext).Run(ctx, disabled, func(ctx context.Context) error {
		c.step++
		c.reached = max(c.reached, c.step)
		c.errMsg = ""
		err = c.enterLocked(ctx)
		return err
	})
	switch {
	case ran:
		return c.viewLocked(), err
	case disabled:
		return c.viewLocked(), ErrCannotAdvance
	default:
		return c.viewLocked(), ErrBusy
	}
}

// Back moves one step back. The terminal step cannot be left.
func (c *Controller) Back() (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.goToLocked(c.step - 1)
}

// GoTo jumps to an already reached step.
func (c *Controller) GoTo(step Step) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.goToLocked(step)
}

func (c *Controller) goToLocked(step Step) (View, error) {
	switch {
	case c.step == StepCompletion:
		return c.viewLocked(), ErrFinished
	case step < StepBasicInfo || step >= StepCompletion:
		return c.viewLocked(), ErrWrongStep
	case step > c.reached:
		return c.viewLocked(), ErrNotVisited
	}
	c.step = step
	c.errMsg = ""
	return c.viewLocked(), nil
}

// enterLocked loads the data the current step shows, once per session.
func (c *Controller) enterLocked(ctx context.Context) error {
	var err error
	switch c.step {
	case StepBusinessType:
		err = c.loadCategoriesLocked(ctx)
		if err == nil && c.categoryID != "" {
			err = c.loadItemsLocked(ctx, c.categoryID)
		}
	case StepPricingPlan:
		err = c.loadPlansLocked(ctx)
	}
	if err != nil {
		c.errMsg = backend.MessageOf(err, msgLoadFailed)
		return fmt.Errorf("wizard: load step %d: %w", c.step, err)
	}
	return nil
}

func (c *Controller) loadCategoriesLocked(ctx context.Context) error {
	if c.categories != nil {
		return nil
	}
	categories, err := c.deps.Backend.GetRootBusinessCategories(ctx)
	if err != nil {
		return err
	}
	c.categories = categories
	return nil
}

func (c *Controller) loadPlansLocked(ctx context.Context) error {
	if c.plans != nil {
		return nil
	}
	plans, err := c.deps.Backend.GetActivePricingPlans(ctx)
	if err != nil {
		return err
	}
	c.plans = plans
	return nil
}

func (c *Controller) loadItemsLocked(ctx context.Context, categoryID string) error {
	if _, ok := c.items[categoryID]; ok {
		return nil
	}
	items, err := c.deps.Backend.GetBusinessCategoryItems(ctx, categoryID)
	if err != nil {
		return err
	}
	c.items[categoryID] = items
	return nil
}

// SelectCategory picks the top-level business category. Choosing a
// different category clears the selected business type and drops the
// previous category's cached items.
func (c *Controller) SelectCategory(ctx context.Context, categoryID string) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != StepBusinessType {
		return c.viewLocked(), ErrWrongStep
	}
	if err := c.loadCategoriesLocked(ctx); err != nil {
		c.errMsg = backend.MessageOf(err, msgLoadFailed)
		return c.viewLocked(), fmt.Errorf("wizard: load categories: %w", err)
	}
	if !hasCategory(c.categories, categoryID) {
		return c.viewLocked(), ErrUnknownCategory
	}

	if categoryID != c.categoryID {
		if c.categoryID != "" {
			delete(c.items, c.categoryID)
		}
		c.categoryID = categoryID
		c.form.BusinessCategoryID = categoryID
		c.form.BusinessType = ""
	}
	c.errMsg = ""
	if err := c.loadItemsLocked(ctx, categoryID); err != nil {
		c.errMsg = backend.MessageOf(err, msgLoadFailed)
		return c.viewLocked(), err
	}
	return c.viewLocked(), nil
}

// SelectBusinessType picks an item of the selected category.
func (c *Controller) SelectBusinessType(itemCode string) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != StepBusinessType {
		return c.viewLocked(), ErrWrongStep
	}
	if items, ok := c.items[c.categoryID]; !ok || !hasItem(items, itemCode) {
		return c.viewLocked(), ErrUnknownItem
	}
	c.form.BusinessType = itemCode
	return c.viewLocked(), nil
}

// SelectPlan picks a pricing plan, loading the plan list first when it is
// missing.
func (c *Controller) SelectPlan(ctx context.Context, planID string) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step == StepCompletion {
		return c.viewLocked(), ErrFinished
	}
	if err := c.loadPlansLocked(ctx); err != nil {
		c.errMsg = backend.MessageOf(err, msgLoadFailed)
		return c.viewLocked(), fmt.Errorf("wizard: load plans: %w", err)
	}
	if planByID(c.plans, planID) == nil {
		return c.viewLocked(), ErrUnknownPlan
	}
	c.form.PlanID = planID
	return c.viewLocked(), nil
}

func (c *Controller) SetPaymentOption(o PaymentOption) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !o.Valid() {
		return c.viewLocked(), ErrInvalidOption
	}
	if c.step != StepPayment {
		return c.viewLocked(), ErrWrongStep
	}
	c.option = o
	return c.viewLocked(), nil
}

// CheckDuplicate runs the email duplicate check under its guard.
func (c *Controller) CheckDuplicate(ctx context.Context) (View, error) {
	return c.email(ctx, ActionCheckDuplicate, func(ctx context.Context) error {
		_, err := c.engine.CheckDuplicate(ctx)
		return err
	})
}

func (c *Controller) SendCode(ctx context.Context) (View, error) {
	return c.email(ctx, ActionSendCode, func(ctx context.Context) error {
		_, err := c.engine.SendCode(ctx)
		return err
	})
}

func (c *Controller) VerifyCode(ctx context.Context, code string) (View, error) {
	return c.email(ctx, ActionVerifyCode, func(ctx context.Context) error {
		_, err := c.engine.VerifyCode(ctx, strings.TrimSpace(code))
		return err
	})
}

func (c *Controller) email(ctx context.Context, action string, fn guard.Action) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != StepBasicInfo {
		return c.viewLocked(), ErrWrongStep
	}

	var err error
	if !c.guards.For(action).Run(ctx, false, func(ctx context.Context) error {
		err = fn(ctx)
		return err
	}) {
		return c.viewLocked(), ErrBusy
	}
	return c.viewLocked(), err
}

// Submit creates the onboarding request directly, without a payment
// method. It is the final action of the skip option.
func (c *Controller) Submit(ctx context.Context) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step == StepCompletion {
		return c.viewLocked(), ErrFinished
	}
	if c.step != StepPayment || c.option != OptionSkip {
		return c.viewLocked(), ErrWrongStep
	}
	if err := c.readyLocked(); err != nil {
		return c.viewLocked(), err
	}

	var err error
	if !c.guards.For(ActionSubmit).Run(ctx, false, func(ctx context.Context) error {
		err = c.submitLocked(ctx)
		return err
	}) {
		return c.viewLocked(), ErrBusy
	}
	return c.viewLocked(), err
}

func (c *Controller) submitLocked(ctx context.Context) error {
	f := c.form
	email := f.Email.Address()
	req, err := c.deps.Backend.CreateOnboardingRequest(ctx, domain.OnboardingRequestInput{
		TenantName:    strings.TrimSpace(f.TenantName),
		RequestedBy:   email,
		RiskLevel:     c.deps.RiskLevel,
		BusinessType:  f.BusinessType,
		AdminPassword: f.AdminPassword,
		ChecklistJSON: domain.Checklist{
			ContactPhone:    f.ContactPhone,
			PlanID:          f.PlanID,
			AdminPassword:   f.AdminPassword,
			PaymentMethodID: f.PaymentMethodID,
			SubscriptionID:  f.SubscriptionID,
		}.JSON(),
	})
	if err != nil {
		c.errMsg = backend.MessageOf(err, msgSubmitFailed)
		return fmt.Errorf("wizard: submit: %w", err)
	}

	c.logger.InfoContext(ctx, "onboarding request submitted", "request_id", req.ID)
	c.request = req
	c.finishLocked("")
	return nil
}

// readyLocked checks what final submission and payment hand-off need.
func (c *Controller) readyLocked() error {
	f := c.form
	if strings.TrimSpace(f.TenantName) == "" || f.BusinessType == "" || f.Email.Address() == "" || f.PlanID == "" {
		c.errMsg = msgRequiredFields
		return ErrRequiredFields
	}
	if !c.engine.State().Cleared() {
		c.errMsg = msgEmailNotChecked
		return ErrEmailNotChecked
	}
	return nil
}

// finishLocked moves to the terminal step and drops the form.
func (c *Controller) finishLocked(flag string) {
	c.step = StepCompletion
	c.reached = StepCompletion
	c.completion = flag
	c.launch = nil
	c.form = domain.FormData{}
	c.errMsg = ""
	c.engine.Reset()
}

// PaymentResult is returned by StartPayment.
type PaymentResult struct {
	View      View   `json:"view"`
	Mode      string `json:"mode"`
	LaunchURL string `json:"launchUrl"`
}

// StartPayment records the hand-off and returns the launch page URL for
// the chosen delivery mode.
func (c *Controller) StartPayment(ctx context.Context, mode domain.DeliveryMode) (*PaymentResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != StepPayment || c.option == OptionSkip {
		return nil, ErrWrongStep
	}
	if err := c.readyLocked(); err != nil {
		return nil, err
	}

	var (
		res *handoff.BeginResult
		err error
	)
	if !c.guards.For(ActionPayment).Run(ctx, false, func(ctx context.Context) error {
		res, err = c.beginLocked(ctx, mode)
		return err
	}) {
		return nil, ErrBusy
	}
	if err != nil {
		return nil, err
	}
	return &PaymentResult{View: c.viewLocked(), Mode: string(res.Pending.Mode), LaunchURL: res.LaunchURL}, nil
}

func (c *Controller) beginLocked(ctx context.Context, mode domain.DeliveryMode) (*handoff.BeginResult, error) {
	req := handoff.BeginRequest{
		SessionID:   c.id,
		CustomerKey: c.customerKey,
		Kind:        domain.KindRegister,
		Mode:        mode,
		Form:        c.form,
	}
	if c.option == OptionPay {
		req.Kind = domain.KindPay
		if err := c.loadPlansLocked(ctx); err != nil {
			c.errMsg = backend.MessageOf(err, msgLoadFailed)
			return nil, err
		}
		plan := planByID(c.plans, c.form.PlanID)
		if plan == nil {
			return nil, ErrUnknownPlan
		}
		req.Amount = plan.BaseFee
		req.OrderName = plan.Name
	}

	res, err := c.deps.Handoff.Begin(ctx, req)
	if err != nil {
		c.errMsg = msgPaymentFailed
		return nil, err
	}
	c.customerKey = res.CustomerKey
	c.launch = res
	c.errMsg = ""
	c.tracker.Start(res.Pending.Mode, req.Kind, res.CustomerKey)
	return res, nil
}

// Launch returns the hand-off started last, for the launch page.
func (c *Controller) Launch() (*handoff.BeginResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.launch == nil || c.step != StepPayment {
		return nil, ErrNoLaunch
	}
	return c.launch, nil
}

// PaymentState is the delivery outcome as seen by the wizard page.
type PaymentState struct {
	handoff.TrackerState
	RedirectURL string `json:"redirectUrl,omitempty"`
}

// ReceiveMessage settles an embedded or popup delivery from the message
// the gateway window posted. A success points the page at the completion
// URL.
func (c *Controller) ReceiveMessage(origin string, m handoff.Message) (PaymentState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, err := c.tracker.Receive(origin, m)
	if err != nil {
		return PaymentState{TrackerState: st}, err
	}
	out := PaymentState{TrackerState: st}
	if st.State == handoff.DeliverySucceeded {
		out.RedirectURL = reconcile.DefaultWizardPath + "?" + completionFlag(st.Kind) + "=true"
	}
	return out, nil
}

func (c *Controller) DismissPayment() PaymentState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return PaymentState{TrackerState: c.tracker.Dismiss()}
}

// FailPayment settles the delivery with a failure the wizard page saw.
func (c *Controller) FailPayment(msg string) PaymentState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return PaymentState{TrackerState: c.tracker.Fail(msg)}
}

// MarkReconciled records that the callback created the records for a
// hand-off of kind k. Only then does ConsumeCompletion accept its flag.
func (c *Controller) MarkReconciled(k domain.HandoffKind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reconciled = completionFlag(k)
}

func (c *Controller) hasCustomerKey(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.customerKey == key
}

// ConsumeCompletion handles the flag the callback appends after a
// successful reconciliation. The first call carrying the flag of a
// reconciled hand-off finishes the wizard; the query is returned with the
// flags removed either way.
func (c *Controller) ConsumeCompletion(q url.Values) (url.Values, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stripped := url.Values{}
	var flag string
	for k, v := range q {
		if k == reconcile.FlagRegistered || k == reconcile.FlagCompleted {
			if len(v) > 0 && v[0] == "true" && flag == "" {
				flag = k
			}
			continue
		}
		stripped[k] = v
	}
	if flag == "" || c.completion != "" || c.closed {
		return stripped, false
	}
	if flag != c.reconciled {
		c.logger.Warn("completion flag without reconciliation ignored", "flag", flag)
		return stripped, false
	}

	c.logger.Info("payment completion consumed", "flag", flag)
	c.finishLocked(flag)
	c.tracker.Reset()
	return stripped, true
}

func completionFlag(k domain.HandoffKind) string {
	if k == domain.KindPay {
		return reconcile.FlagCompleted
	}
	return reconcile.FlagRegistered
}

// blockersLocked names the unmet conditions for leaving the current step.
func (c *Controller) blockersLocked() []string {
	var out []string
	f := c.form
	switch c.step {
	case StepBasicInfo:
		if strings.TrimSpace(f.TenantName) == "" {
			out = append(out, "tenantName")
		}
		switch {
		case f.AdminPassword == "" || f.AdminPasswordConfirm == "":
			out = append(out, "adminPassword")
		case f.AdminPassword != f.AdminPasswordConfirm:
			out = append(out, "adminPasswordConfirm")
		case len([]rune(f.AdminPassword)) < MinPasswordLength:
			out = append(out, "adminPasswordLength")
		}
	case StepBusinessType:
		if f.BusinessType == "" {
			out = append(out, "businessType")
		}
	case StepPricingPlan:
		if f.PlanID == "" {
			out = append(out, "planId")
		}
	}
	return out
}

func hasCategory(cats []domain.BusinessCategory, id string) bool {
	for _, c := range cats {
		if c.CategoryID == id {
			return true
		}
	}
	return false
}

func hasItem(items []domain.BusinessCategoryItem, code string) bool {
	for _, it := range items {
		if it.ItemCode == code {
			return true
		}
	}
	return false
}

func planByID(plans []domain.PricingPlan, id string) *domain.PricingPlan {
	for i := range plans {
		if plans[i].PlanID == id {
			return &plans[i]
		}
	}
	return nil
}
