package backendsdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// CreateOnboardingRequest submits a new onboarding request. The backend
// returns the created request without an envelope.
func (c *Client) CreateOnboardingRequest(ctx context.Context, req CreateOnboardingRequest) (*OnboardingRequest, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/onboarding/requests", nil, req)
	if err != nil {
		return nil, err
	}

	var out OnboardingRequest
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPublicOnboardingRequests lists the requests submitted by email.
func (c *Client) ListPublicOnboardingRequests(ctx context.Context, email string) ([]OnboardingRequest, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v1/onboarding/requests/public",
		url.Values{"email": {email}}, nil)
	if err != nil {
		return nil, err
	}

	var out []OnboardingRequest
	if err := decodeEnvelope(resp, &out, "failed to look up onboarding requests"); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPublicOnboardingRequest fetches one request, proving ownership with the
// submitter's email.
func (c *Client) GetPublicOnboardingRequest(ctx context.Context, id int64, email string) (*OnboardingRequest, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v1/onboarding/requests/public/"+strconv.FormatInt(id, 10),
		url.Values{"email": {email}}, nil)
	if err != nil {
		return nil, err
	}

	var out OnboardingRequest
	if err := decodeEnvelope(resp, &out, "failed to look up onboarding request"); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckEmailDuplicate asks whether email already belongs to a tenant or an
// open onboarding request.
func (c *Client) CheckEmailDuplicate(ctx context.Context, email string) (*EmailCheckResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v1/onboarding/email-check",
		url.Values{"email": {email}}, nil)
	if err != nil {
		return nil, err
	}

	var out EmailCheckResponse
	if err := decodeEnvelope(resp, &out, "email duplicate check failed"); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendEmailVerificationCode asks the backend to mail a verification code.
func (c *Client) SendEmailVerificationCode(ctx context.Context, email string) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/accounts/integration/send-verification-code",
		url.Values{"email": {email}}, nil)
	if err != nil {
		return err
	}
	return decodeEnvelope(resp, nil, "failed to send verification code")
}

// VerifyEmailCode checks a code previously sent to email. A nil error means
// the code was accepted.
func (c *Client) VerifyEmailCode(ctx context.Context, email, code string) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/accounts/integration/verify-code",
		url.Values{"email": {email}, "code": {code}}, nil)
	if err != nil {
		return err
	}
	return decodeEnvelope(resp, nil, "the verification code is incorrect")
}
