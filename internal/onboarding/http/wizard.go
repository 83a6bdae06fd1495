package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/wizard"
	"github.com/aussiebroadwan/tenantboard/pkg/httpx"
	"github.com/aussiebroadwan/tenantboard/pkg/slogx"
)

// WizardHandler serves the step machine of the caller's session.
type WizardHandler struct {
	Wizards  *wizard.Manager
	Sessions *Sessions
}

func respond(w http.ResponseWriter, r *http.Request, v wizard.View, err error) {
	if err != nil {
		writeFailure(w, r, err, &v)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

// with resolves the session controller and runs fn with a session-scoped
// request.
func (h *WizardHandler) with(fn func(w http.ResponseWriter, r *http.Request, c *wizard.Controller)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ctx, ok := lookup(w, r, h.Sessions, h.Wizards)
		if !ok {
			return
		}
		fn(w, r.WithContext(ctx), c)
	}
}

// HandleCreate godoc
//
//	@Summary		Start Onboarding Session
//	@Description	Creates a wizard session and sets the onboarding_session cookie. Any previous session of the caller is discarded.
//	@Tags			Wizard
//	@Accept			json
//	@Produce		json
//	@Param			planId	query		string					false	"Plan to preselect"
//	@Param			request	body		CreateSessionRequest	false	"Plan to preselect"
//	@Success		201		{object}	wizard.View
//	@Failure		400		{object}	httpx.ErrorBody
//	@Router			/api/v1/wizard/sessions [post].
func (h *WizardHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil && !errors.Is(err, httpx.ErrEmptyBody) {
		writeBadRequest(w, err)
		return
	}
	if req.PlanID == "" {
		req.PlanID = r.URL.Query().Get("planId")
	}

	if old, ok := peek(r, h.Sessions, h.Wizards); ok {
		h.Wizards.Drop(old.ID())
	}

	c := h.Wizards.Create(r.Context(), req.PlanID)
	if err := h.Sessions.Issue(w, c.ID()); err != nil {
		h.Wizards.Drop(c.ID())
		slogx.FromContext(r.Context()).Error("failed to sign session cookie", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Could not start a session.")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, c.View())
}

// HandleGet godoc
//
//	@Summary		Current Wizard View
//	@Description	Returns the step, the form without passwords, the email verification state, locked controls, cached catalog data and the payment delivery state.
//	@Tags			Wizard
//	@Produce		json
//	@Success		200	{object}	wizard.View
//	@Failure		401	{object}	httpx.ErrorBody
//	@Router			/api/v1/wizard [get].
func (h *WizardHandler) HandleGet(w http.ResponseWriter, r *http.Request, c *wizard.Controller) {
	httpx.WriteJSON(w, http.StatusOK, c.View())
}

// HandlePatch godoc
//
//	@Summary		Update Form
//	@Description	Applies a partial form update. Editing any part of the email resets its verification.
//	@Tags			Wizard
//	@Accept			json
//	@Produce		json
//	@Param			request	body		FormPatchRequest	true	"Fields to change"
//	@Success		200		{object}	wizard.View
//	@Failure		400		{object}	WizardError
//	@Failure		409		{object}	WizardError
//	@Router			/api/v1/wizard/form [patch].
func (h *WizardHandler) HandlePatch(w http.ResponseWriter, r *http.Request, c *wizard.Controller) {
	var req FormPatchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	v, err := c.Update(req.patch())
	if err == nil && req.BusinessType != nil {
		v, err = c.SelectBusinessType(*req.BusinessType)
	}
	if err == nil && req.PlanID != nil {
		v, err = c.SelectPlan(r.Context(), *req.PlanID)
	}
	respond(w, r, v, err)
}

// HandleNext godoc
//
//	@Summary		Next Step
//	@Description	Advances one step when the current step is complete. The view lists the blockers otherwise.
//	@Tags			Wizard
//	@Produce		json
//	@Success		200	{object}	wizard.View
//	@Failure		409	{object}	WizardError
//	@Failure		422	{object}	WizardError
//	@Router			/api/v1/wizard/next [post].
func (h *WizardHandler) HandleNext(w http.ResponseWriter, r *http.Request, c *wizard.Controller) {
	v, err := c.Next(r.Context())
	respond(w, r, v, err)
}

// HandleBack godoc
//
//	@Summary		Previous Step
//	@Tags			Wizard
//	@Produce		json
//	@Success		200	{object}	wizard.View
//	@Failure		409	{object}	WizardError
//	@Router			/api/v1/wizard/back [post].
func (h *WizardHandler) HandleBack(w http.ResponseWriter, r *http.Request, c *wizard.Controller) {
	v, err := c.Back()
	respond(w, r, v, err)
}

// HandleGoTo godoc
//
//	@Summary		Jump To Step
//	@Description	Moves to an already reached step.
//	@Tags			Wizard
//	@Accept			json
//	@Produce		json
//	@Param			request	body		GoToRequest	true	"Target step"
//	@Success		200		{object}	wizard.View
//	@Failure		409		{object}	WizardError
//	@Router			/api/v1/wizard/step [post].
func (h *WizardHandler) HandleGoTo(w http.ResponseWriter, r *http.Request, c *wizard.Controller) {
	var req GoToRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	v, err := c.GoTo(wizard.Step(req.Step))
	respond(w, r, v, err)
}

// HandleCategory godoc
//
//	@Summary		Select Business Category
//	@Description	Selects the top-level category and loads its items. A different category clears the chosen business type.
//	@Tags			Wizard
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CategoryRequest	true	"Category"
//	@Success		200		{object}	wizard.View
//	@Failure		400		{object}	WizardError
//	@Router			/api/v1/wizard/category [post].
func (h *WizardHandler) HandleCategory(w http.ResponseWriter, r *http.Request, c *wizard.Controller) {
	var req CategoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	v, err := c.SelectCategory(r.Context(), req.CategoryID)
	respond(w, r, v, err)
}

// HandleCheckDuplicate godoc
//
//	@Summary		Check Email Duplicate
//	@Tags			Email Verification
//	@Produce		json
//	@Success		200	{object}	wizard.View
//	@Failure		400	{object}	WizardError	"invalid email format"
//	@Failure		409	{object}	WizardError	"already registered, or busy"
//	@Router			/api/v1/wizard/email/check-duplicate [post].
func (h *WizardHandler) HandleCheckDuplicate(w http.ResponseWriter, r *http.Request, c *wizard.Controller) {
	v, err := c.CheckDuplicate(r.Context())
	respond(w, r, v, err)
}

// HandleSendCode godoc
//
//	@Summary		Send Verification Code
//	@Description	Sends a 6-digit code once the duplicate check passed, and again after the resend cooldown.
//	@Tags			Email Verification
//	@Produce		json
//	@Success		200	{object}	wizard.View
//	@Failure		409	{object}	WizardError
//	@Failure		429	{object}	WizardError	"resend cooldown active"
//	@Router			/api/v1/wizard/email/send-code [post].
func (h *WizardHandler) HandleSendCode(w http.ResponseWriter, r *http.Request, c *wizard.Controller) {
	v, err := c.SendCode(r.Context())
	respond(w, r, v, err)
}

// HandleVerifyCode godoc
//
//	@Summary		Verify Code
//	@Tags			Email Verification
//	@Accept			json
//	@Produce		json
//	@Param			request	body		VerifyCodeRequest	true	"Code from the email"
//	@Success		200		{object}	wizard.View
//	@Failure		400		{object}	WizardError
//	@Failure		422		{object}	WizardError	"expired or rejected"
//	@Router			/api/v1/wizard/email/verify-code [post].
func (h *WizardHandler) HandleVerifyCode(w http.ResponseWriter, r *http.Request, c *wizard.Controller) {
	var req VerifyCodeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	v, err := c.VerifyCode(r.Context(), req.Code)
	respond(w, r, v, err)
}

// HandleSubmit godoc
//
//	@Summary		Submit Without Payment
//	@Description	Creates the onboarding request directly when the payment option is skip, and finishes the wizard.
//	@Tags			Wizard
//	@Produce		json
//	@Success		200	{object}	wizard.View
//	@Failure		409	{object}	WizardError
//	@Failure		422	{object}	WizardError
//	@Failure		502	{object}	WizardError
//	@Router			/api/v1/wizard/submit [post].
func (h *WizardHandler) HandleSubmit(w http.ResponseWriter, r *http.Request, c *wizard.Controller) {
	v, err := c.Submit(r.Context())
	respond(w, r, v, err)
}

// HandleComplete godoc
//
//	@Summary		Consume Completion Flag
//	@Description	Consumes paymentMethodRegistered or paymentCompleted once and finishes the wizard. The query is returned without the flags.
//	@Tags			Wizard
//	@Produce		json
//	@Param			paymentMethodRegistered	query		bool	false	"Card registered"
//	@Param			paymentCompleted		query		bool	false	"Payment completed"
//	@Success		200						{object}	CompletionResponse
//	@Router			/api/v1/wizard/complete [get].
func (h *WizardHandler) HandleComplete(w http.ResponseWriter, r *http.Request, c *wizard.Controller) {
	rest, consumed := c.ConsumeCompletion(r.URL.Query())
	httpx.WriteJSON(w, http.StatusOK, CompletionResponse{
		Consumed: consumed,
		Query:    rest.Encode(),
		View:     c.View(),
	})
}
