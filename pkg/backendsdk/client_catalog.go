package backendsdk

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// GetActivePricingPlans lists plans open for sign-up. The backend returns a
// bare array.
func (c *Client) GetActivePricingPlans(ctx context.Context) ([]PricingPlan, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v1/ops/plans/active", nil, nil)
	if err != nil {
		return nil, err
	}

	var out []PricingPlan
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetRootBusinessCategories lists top-level categories. An envelope without
// data is an empty list, not an error.
func (c *Client) GetRootBusinessCategories(ctx context.Context) ([]BusinessCategory, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/business-categories/root", nil, nil)
	if err != nil {
		return nil, err
	}

	var out []BusinessCategory
	if err := emptyOnMissingData(decodeEnvelope(resp, &out, "")); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBusinessCategoryItems lists the items of a category, or all items when
// categoryID is empty.
func (c *Client) GetBusinessCategoryItems(ctx context.Context, categoryID string) ([]BusinessCategoryItem, error) {
	var q url.Values
	if categoryID != "" {
		q = url.Values{"categoryId": {categoryID}}
	}
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/business-categories/items", q, nil)
	if err != nil {
		return nil, err
	}

	var out []BusinessCategoryItem
	if err := emptyOnMissingData(decodeEnvelope(resp, &out, "")); err != nil {
		return nil, err
	}
	return out, nil
}

// emptyOnMissingData swallows the envelope-level failure of a 2xx response
// so catalog lookups degrade to an empty list.
func emptyOnMissingData(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 200 && apiErr.StatusCode < 300 {
		return nil
	}
	return err
}
