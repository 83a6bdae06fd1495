package http

import (
	"bytes"
	"net/http"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/domain"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/gateway"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/handoff"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/reconcile"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/wizard"
	"github.com/aussiebroadwan/tenantboard/pkg/httpx"
	"github.com/aussiebroadwan/tenantboard/pkg/slogx"
)

// PaymentHandler serves the gateway hand-off: starting it, the launch and
// callback pages, and the parent window's relay endpoints.
type PaymentHandler struct {
	Wizards    *wizard.Manager
	Sessions   *Sessions
	Handoff    *handoff.Handoff
	Reconciler *reconcile.Reconciler
	WizardPath string
}

func (h *PaymentHandler) with(fn func(w http.ResponseWriter, r *http.Request, c *wizard.Controller)) http.HandlerFunc {
	return (&WizardHandler{Wizards: h.Wizards, Sessions: h.Sessions}).with(fn)
}

// HandleOption godoc
//
//	@Summary		Choose Payment Option
//	@Tags			Payment
//	@Accept			json
//	@Produce		json
//	@Param			request	body		PaymentOptionRequest	true	"skip, register or pay"
//	@Success		200		{object}	wizard.View
//	@Failure		409		{object}	WizardError
//	@Router			/api/v1/wizard/payment/option [post].
func (h *PaymentHandler) HandleOption(w http.ResponseWriter, r *http.Request, c *wizard.Controller) {
	var req PaymentOptionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	v, err := c.SetPaymentOption(wizard.PaymentOption(req.Option))
	respond(w, r, v, err)
}

// HandleStart godoc
//
//	@Summary		Start Payment Hand-off
//	@Description	Saves the form snapshot for the callback and prepares the gateway launch. The client opens launchUrl in the chosen delivery mode.
//	@Tags			Payment
//	@Accept			json
//	@Produce		json
//	@Param			request	body		StartPaymentRequest	true	"Delivery mode"
//	@Success		200		{object}	wizard.PaymentResult
//	@Failure		409		{object}	WizardError
//	@Failure		422		{object}	WizardError
//	@Failure		503		{object}	WizardError	"gateway not configured"
//	@Router			/api/v1/wizard/payment/handoff [post].
func (h *PaymentHandler) HandleStart(w http.ResponseWriter, r *http.Request, c *wizard.Controller) {
	var req StartPaymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if req.Option != "" {
		if v, err := c.SetPaymentOption(wizard.PaymentOption(req.Option)); err != nil {
			writeFailure(w, r, err, &v)
			return
		}
	}

	res, err := c.StartPayment(r.Context(), domain.DeliveryMode(req.Mode))
	if err != nil {
		v := c.View()
		writeFailure(w, r, err, &v)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

// HandleMessage godoc
//
//	@Summary		Relay Payment Message
//	@Description	Settles an embedded or popup delivery with the message the gateway window posted. Only messages whose Origin header is this service are accepted. A success carries the completion redirect.
//	@Tags			Payment
//	@Accept			json
//	@Produce		json
//	@Param			request	body		handoff.Message	true	"PAYMENT_SUCCESS or PAYMENT_FAIL"
//	@Success		200		{object}	wizard.PaymentState
//	@Failure		403		{object}	httpx.ErrorBody
//	@Failure		409		{object}	httpx.ErrorBody
//	@Router			/api/v1/wizard/payment/message [post].
func (h *PaymentHandler) HandleMessage(w http.ResponseWriter, r *http.Request, c *wizard.Controller) {
	var msg handoff.Message
	if err := httpx.DecodeJSON(r, &msg); err != nil {
		writeBadRequest(w, err)
		return
	}
	st, err := c.ReceiveMessage(r.Header.Get("Origin"), msg)
	if err != nil {
		writeFailure(w, r, err, nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, st)
}

// HandleDismiss godoc
//
//	@Summary		Payment Window Closed
//	@Tags			Payment
//	@Produce		json
//	@Success		200	{object}	wizard.PaymentState
//	@Router			/api/v1/wizard/payment/dismiss [post].
func (h *PaymentHandler) HandleDismiss(w http.ResponseWriter, r *http.Request, c *wizard.Controller) {
	httpx.WriteJSON(w, http.StatusOK, c.DismissPayment())
}

var failReasons = map[string]string{
	"popup_blocked": handoff.MsgPopupBlocked,
	"sdk_load":      handoff.MsgSDKLoad,
}

// HandleFail godoc
//
//	@Summary		Payment Window Failed
//	@Description	Records a failure the wizard page detected itself, such as a blocked popup.
//	@Tags			Payment
//	@Accept			json
//	@Produce		json
//	@Param			request	body		PaymentFailRequest	true	"popup_blocked or sdk_load"
//	@Success		200		{object}	wizard.PaymentState
//	@Router			/api/v1/wizard/payment/fail [post].
func (h *PaymentHandler) HandleFail(w http.ResponseWriter, r *http.Request, c *wizard.Controller) {
	var req PaymentFailRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c.FailPayment(failReasons[req.Reason]))
}

// HandleLaunch serves the page the delivery window loads. Redirect launches
// are followed directly; SDK launches get the bootstrap page.
func (h *PaymentHandler) HandleLaunch(w http.ResponseWriter, r *http.Request) {
	c, ok := peek(r, h.Sessions, h.Wizards)
	if !ok {
		http.Error(w, "No onboarding session.", http.StatusUnauthorized)
		return
	}
	res, err := c.Launch()
	if err != nil {
		http.Error(w, "No payment in progress.", http.StatusNotFound)
		return
	}

	httpx.NoCache(w)
	if res.Launch.Kind == gateway.LaunchRedirect {
		http.Redirect(w, r, res.Launch.URL, http.StatusSeeOther)
		return
	}

	var buf bytes.Buffer
	if err := h.Handoff.RenderLaunch(&buf, res.Pending, res.Launch); err != nil {
		slogx.FromContext(r.Context()).Error("failed to render launch page", "err", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// HandleCallback is where the gateway returns the browser. It reconciles the
// result and renders the outcome; embedded and popup windows relay it to
// the wizard page.
func (h *PaymentHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid, err := h.Sessions.Resolve(r)
	if err == nil {
		ctx = slogx.WithSession(ctx, sid)
	}

	res := h.Reconciler.Run(ctx, sid, r.URL.Query())
	if res.State == reconcile.StateSuccess {
		h.Wizards.MarkReconciled(sid, res.CustomerKey, res.Kind)
	}
	view := callbackView(res, h.WizardPath)

	var buf bytes.Buffer
	if err := h.Handoff.RenderCallback(&buf, view); err != nil {
		slogx.FromContext(ctx).Error("failed to render callback page", "err", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func callbackView(res reconcile.Result, wizardPath string) handoff.CallbackView {
	v := handoff.CallbackView{Mode: res.Mode, RedirectDelay: res.RedirectDelay}
	pay := res.Kind == domain.KindPay

	if res.State == reconcile.StateSuccess {
		v.Title = "Card registered"
		if pay {
			v.Title = "Payment completed"
		}
		v.Detail = "You will be returned to the onboarding page shortly."
		v.RedirectURL = res.RedirectURL
		v.Message = &handoff.Message{
			Type:        handoff.MessageSuccess,
			AuthKey:     res.AuthKey,
			PaymentKey:  res.PaymentKey,
			OrderID:     res.OrderID,
			CustomerKey: res.CustomerKey,
		}
		return v
	}

	v.Title = "Card registration failed"
	if pay {
		v.Title = "Payment failed"
	}
	v.Detail = res.Message
	v.RetryURL = wizardPath
	v.Message = &handoff.Message{
		Type:        handoff.MessageFail,
		CustomerKey: res.CustomerKey,
		Error:       res.Message,
	}
	return v
}

// HandleParentScript serves the wizard-side delivery driver.
func HandleParentScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = w.Write(handoff.ParentScript())
}
