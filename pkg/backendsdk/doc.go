/*
Package backendsdk provides a client for the tenant onboarding backend.

# Overview

The backend exposes the operations the onboarding wizard needs: creating
onboarding requests, registering payment methods and subscriptions, the email
duplicate check and verification code round trip, and the read-only catalog
of pricing plans and business categories.

	client := backendsdk.NewClient("https://api.example.com")

	check, err := client.CheckEmailDuplicate(ctx, "owner@example.com")
	if err != nil {
		return err
	}
	if check.IsDuplicate {
		// ask for another address
	}

# Response Envelope

Most endpoints wrap their payload as {success, data, message, error}. A
response with success=false is reported as an *APIError carrying the
backend's message, even when the HTTP status was 2xx. A few endpoints (plan
listing, onboarding request creation) return the bare payload.

# Error Handling

Non-2xx responses are returned as *APIError. Its Message is taken from the
first non-empty of the body's "message", "error" and "details" fields, and
falls back to "API request failed: <status> <status text>":

	var apiErr *backendsdk.APIError
	if errors.As(err, &apiErr) {
		log.Printf("backend said %d: %s", apiErr.StatusCode, apiErr.Message)
	}
*/
package backendsdk
