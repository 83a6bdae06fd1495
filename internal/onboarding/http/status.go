package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/backend"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/domain"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/verification"
	"github.com/aussiebroadwan/tenantboard/pkg/httpx"
	"github.com/aussiebroadwan/tenantboard/pkg/slogx"
)

type StatusHandler struct {
	Backend backend.Onboarding
}

// ServeHTTP godoc
//
//	@Summary		Onboarding Request Status
//	@Description	Looks up the caller's onboarding requests by contact email, or a single request when id is given.
//	@Tags			Onboarding
//	@Produce		json
//	@Param			email	query		string	true	"Contact email"
//	@Param			id		query		int		false	"Request id"
//	@Success		200		{object}	StatusResponse
//	@Failure		400		{object}	httpx.ErrorBody
//	@Failure		404		{object}	httpx.ErrorBody
//	@Failure		502		{object}	httpx.ErrorBody
//	@Router			/api/v1/onboarding/status [get].
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	email := strings.TrimSpace(q.Get("email"))
	if err := verification.ValidateEmail(email); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "A valid email is required.")
		return
	}

	var (
		reqs []domain.OnboardingRequest
		err  error
	)
	if raw := q.Get("id"); raw != "" {
		id, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil || id <= 0 {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "id must be a positive integer.")
			return
		}
		var one *domain.OnboardingRequest
		if one, err = h.Backend.GetPublicOnboardingRequest(ctx, id, email); err == nil {
			reqs = []domain.OnboardingRequest{*one}
		}
	} else {
		reqs, err = h.Backend.ListPublicOnboardingRequests(ctx, email)
	}

	switch {
	case errors.Is(err, backend.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "No onboarding request found.")
		return
	case err != nil:
		slogx.FromContext(ctx).Warn("onboarding status lookup failed", "err", err)
		httpx.WriteError(w, http.StatusBadGateway, "backend_error", backend.MessageOf(err, "The status could not be loaded."))
		return
	}
	if reqs == nil {
		reqs = []domain.OnboardingRequest{}
	}
	httpx.WriteJSON(w, http.StatusOK, StatusResponse{Requests: reqs})
}
