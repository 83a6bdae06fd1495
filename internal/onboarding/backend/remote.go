package backend

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/domain"
	"github.com/aussiebroadwan/tenantboard/pkg/backendsdk"
)

// Remote adapts a backendsdk.Client to Backend. SDK API errors become *Error
// values; transport errors pass through wrapped.
type Remote struct {
	Client *backendsdk.Client
}

var _ Backend = (*Remote)(nil)

func NewRemote(c *backendsdk.Client) *Remote { return &Remote{Client: c} }

func (r *Remote) CreateOnboardingRequest(ctx context.Context, in domain.OnboardingRequestInput) (*domain.OnboardingRequest, error) {
	out, err := r.Client.CreateOnboardingRequest(ctx, backendsdk.CreateOnboardingRequest{
		TenantName:    in.TenantName,
		RequestedBy:   in.RequestedBy,
		RiskLevel:     in.RiskLevel,
		ChecklistJSON: in.ChecklistJSON,
		BusinessType:  in.BusinessType,
		AdminPassword: in.AdminPassword,
	})
	if err != nil {
		return nil, convert(err)
	}
	req := fromSDKRequest(*out)
	return &req, nil
}

func (r *Remote) ListPublicOnboardingRequests(ctx context.Context, email string) ([]domain.OnboardingRequest, error) {
	out, err := r.Client.ListPublicOnboardingRequests(ctx, email)
	if err != nil {
		return nil, convert(err)
	}
	reqs := make([]domain.OnboardingRequest, 0, len(out))
	for _, o := range out {
		reqs = append(reqs, fromSDKRequest(o))
	}
	return reqs, nil
}

func (r *Remote) GetPublicOnboardingRequest(ctx context.Context, id int64, email string) (*domain.OnboardingRequest, error) {
	out, err := r.Client.GetPublicOnboardingRequest(ctx, id, email)
	if err != nil {
		return nil, convert(err)
	}
	req := fromSDKRequest(*out)
	return &req, nil
}

func (r *Remote) CreatePaymentMethod(ctx context.Context, in domain.PaymentMethodInput) (*domain.PaymentMethod, error) {
	out, err := r.Client.CreatePaymentMethod(ctx, backendsdk.PaymentMethodRequest{
		PaymentMethodToken: in.PaymentMethodToken,
		PGProvider:         in.PGProvider,
		CardBrand:          in.CardBrand,
		CardLast4:          in.CardLast4,
	})
	if err != nil {
		return nil, convert(err)
	}
	return &domain.PaymentMethod{
		PaymentMethodID: out.PaymentMethodID,
		PGProvider:      out.PGProvider,
		CardBrand:       out.CardBrand,
		CardLast4:       out.CardLast4,
		IsDefault:       out.IsDefault,
	}, nil
}

func (r *Remote) CreateSubscription(ctx context.Context, in domain.SubscriptionInput) (*domain.Subscription, error) {
	out, err := r.Client.CreateSubscription(ctx, backendsdk.SubscriptionRequest{
		PlanID:          in.PlanID,
		PaymentMethodID: in.PaymentMethodID,
		BillingCycle:    in.BillingCycle,
		AutoRenewal:     in.AutoRenewal,
	})
	if err != nil {
		return nil, convert(err)
	}
	return &domain.Subscription{
		SubscriptionID:  out.SubscriptionID,
		PlanID:          out.PlanID,
		PaymentMethodID: out.PaymentMethodID,
		BillingCycle:    out.BillingCycle,
		AutoRenewal:     out.AutoRenewal,
		Status:          out.Status,
	}, nil
}

func (r *Remote) CheckEmailDuplicate(ctx context.Context, email string) (*domain.EmailCheck, error) {
	out, err := r.Client.CheckEmailDuplicate(ctx, email)
	if err != nil {
		return nil, convert(err)
	}
	return &domain.EmailCheck{
		Email:       out.Email,
		IsDuplicate: out.IsDuplicate,
		Available:   out.Available,
		Message:     out.Message,
		Status:      out.Status,
	}, nil
}

func (r *Remote) SendEmailVerificationCode(ctx context.Context, email string) error {
	return convert(r.Client.SendEmailVerificationCode(ctx, email))
}

func (r *Remote) VerifyEmailCode(ctx context.Context, email, code string) error {
	return convert(r.Client.VerifyEmailCode(ctx, email, code))
}

func (r *Remote) GetActivePricingPlans(ctx context.Context) ([]domain.PricingPlan, error) {
	out, err := r.Client.GetActivePricingPlans(ctx)
	if err != nil {
		return nil, convert(err)
	}
	plans := make([]domain.PricingPlan, 0, len(out))
	for _, p := range out {
		plans = append(plans, domain.PricingPlan{
			PlanID:       p.PlanID,
			PlanCode:     p.PlanCode,
			Name:         p.Name,
			NameKo:       p.NameKo,
			BaseFee:      p.BaseFee,
			Currency:     p.Currency,
			Description:  p.Description,
			IsActive:     p.IsActive,
			DisplayOrder: p.DisplayOrder,
			BillingCycle: p.BillingCycle,
		})
	}
	return plans, nil
}

func (r *Remote) GetRootBusinessCategories(ctx context.Context) ([]domain.BusinessCategory, error) {
	out, err := r.Client.GetRootBusinessCategories(ctx)
	if err != nil {
		return nil, convert(err)
	}
	cats := make([]domain.BusinessCategory, 0, len(out))
	for _, c := range out {
		cats = append(cats, domain.BusinessCategory{
			CategoryID:       c.CategoryID,
			CategoryCode:     c.CategoryCode,
			NameKo:           c.NameKo,
			NameEn:           c.NameEn,
			ParentCategoryID: c.ParentCategoryID,
			DisplayOrder:     c.DisplayOrder,
			Level:            c.Level,
		})
	}
	return cats, nil
}

func (r *Remote) GetBusinessCategoryItems(ctx context.Context, categoryID string) ([]domain.BusinessCategoryItem, error) {
	out, err := r.Client.GetBusinessCategoryItems(ctx, categoryID)
	if err != nil {
		return nil, convert(err)
	}
	items := make([]domain.BusinessCategoryItem, 0, len(out))
	for _, i := range out {
		items = append(items, domain.BusinessCategoryItem{
			ItemID:       i.ItemID,
			ItemCode:     i.ItemCode,
			NameKo:       i.NameKo,
			NameEn:       i.NameEn,
			CategoryID:   i.CategoryID,
			DisplayOrder: i.DisplayOrder,
		})
	}
	return items, nil
}

func fromSDKRequest(o backendsdk.OnboardingRequest) domain.OnboardingRequest {
	return domain.OnboardingRequest{
		ID:            o.ID,
		TenantName:    o.TenantName,
		RequestedBy:   o.RequestedBy,
		Status:        o.Status,
		RiskLevel:     o.RiskLevel,
		BusinessType:  o.BusinessType,
		ChecklistJSON: o.ChecklistJSON,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func convert(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *backendsdk.APIError
	if errors.As(err, &apiErr) {
		return &Error{Status: apiErr.StatusCode, Code: apiErr.Code, Message: apiErr.Message}
	}
	return err
}
