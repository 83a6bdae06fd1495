package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/backend"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/gateway"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/handoff"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/verification"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/wizard"
	"github.com/aussiebroadwan/tenantboard/pkg/httpx"
	"github.com/aussiebroadwan/tenantboard/pkg/slogx"
)

// WizardError is an ErrorBody plus the session view after the failed action.
type WizardError struct {
	httpx.ErrorBody
	View *wizard.View `json:"view,omitempty"`
}

type errorMapping struct {
	target error
	status int
	code   string
}

// errorMappings is checked in order with errors.Is.
var errorMappings = []errorMapping{
	{wizard.ErrBusy, http.StatusConflict, "action_in_progress"},
	{wizard.ErrCannotAdvance, http.StatusUnprocessableEntity, "step_incomplete"},
	{wizard.ErrWrongStep, http.StatusConflict, "invalid_step"},
	{wizard.ErrNotVisited, http.StatusConflict, "invalid_step"},
	{wizard.ErrFinished, http.StatusConflict, "already_submitted"},
	{wizard.ErrRequiredFields, http.StatusUnprocessableEntity, "required_fields"},
	{wizard.ErrEmailNotChecked, http.StatusUnprocessableEntity, "email_not_checked"},
	{wizard.ErrUnknownPlan, http.StatusBadRequest, "invalid_request"},
	{wizard.ErrUnknownCategory, http.StatusBadRequest, "invalid_request"},
	{wizard.ErrUnknownItem, http.StatusBadRequest, "invalid_request"},
	{wizard.ErrInvalidOption, http.StatusBadRequest, "invalid_request"},
	{wizard.ErrNoLaunch, http.StatusNotFound, "no_payment"},

	{verification.ErrDuplicate, http.StatusConflict, "email_duplicate"},
	{verification.ErrCooldown, http.StatusTooManyRequests, "resend_cooldown"},
	{verification.ErrCodeFormat, http.StatusBadRequest, "invalid_code"},
	{verification.ErrCodeExpired, http.StatusUnprocessableEntity, "code_expired"},
	{verification.ErrCodeRejected, http.StatusUnprocessableEntity, "code_rejected"},
	{verification.ErrInvalidState, http.StatusConflict, "invalid_state"},
	{verification.ErrStale, http.StatusConflict, "email_changed"},
	{verification.ErrCheckFailed, http.StatusBadGateway, "backend_unavailable"},
	{verification.ErrSendFailed, http.StatusBadGateway, "backend_unavailable"},

	{handoff.ErrOriginMismatch, http.StatusForbidden, "origin_mismatch"},
	{handoff.ErrCustomerKey, http.StatusForbidden, "customer_mismatch"},
	{handoff.ErrNotLoading, http.StatusConflict, "no_delivery"},
	{handoff.ErrUnknownMessage, http.StatusBadRequest, "invalid_request"},
	{handoff.ErrIncomplete, http.StatusUnprocessableEntity, "required_fields"},
	{handoff.ErrNoAmount, http.StatusUnprocessableEntity, "invalid_amount"},
	{handoff.ErrInvalidMode, http.StatusBadRequest, "invalid_request"},
	{handoff.ErrInvalidKind, http.StatusBadRequest, "invalid_request"},

	{gateway.ErrNotConfigured, http.StatusServiceUnavailable, "payment_unavailable"},
	{gateway.ErrUnknownProvider, http.StatusServiceUnavailable, "payment_unavailable"},
	{gateway.ErrProviderNotImplemented, http.StatusServiceUnavailable, "payment_unavailable"},
}

// writeFailure maps err to a status and error code. The description is the
// user message of the view when there is one.
func writeFailure(w http.ResponseWriter, r *http.Request, err error, view *wizard.View) {
	status, code := http.StatusInternalServerError, "server_error"
	desc := "Something went wrong. Please try again."

	var fe *verification.FormatError
	var be *backend.Error
	switch {
	case errors.As(err, &fe):
		status, code, desc = http.StatusBadRequest, "invalid_email", fe.Message
	case mapped(err, &status, &code):
		desc = err.Error()
	case errors.As(err, &be):
		status, code = http.StatusBadGateway, "backend_error"
		desc = backend.MessageOf(err, desc)
	}

	if view != nil && view.Error != "" {
		desc = view.Error
	}

	log := slogx.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error("wizard request failed", "err", err, "status", status)
	} else {
		log.Info("wizard request rejected", "err", err, "status", status)
	}

	httpx.WriteJSON(w, status, WizardError{
		ErrorBody: httpx.ErrorBody{Error: code, ErrorDescription: desc},
		View:      view,
	})
}

func mapped(err error, status *int, code *string) bool {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			*status, *code = m.status, m.code
			return true
		}
	}
	return false
}

func writeBadRequest(w http.ResponseWriter, err error) {
	httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
}
