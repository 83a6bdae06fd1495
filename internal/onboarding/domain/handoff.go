package domain

import "time"

// HandoffKind selects the gateway flow.
type HandoffKind string

const (
	// KindRegister stores a card for recurring billing.
	KindRegister HandoffKind = "register"
	// KindPay charges a one-time amount.
	KindPay HandoffKind = "pay"
)

func (k HandoffKind) Valid() bool { return k == KindRegister || k == KindPay }

// DeliveryMode is how the gateway page is presented.
type DeliveryMode string

const (
	ModeRedirect DeliveryMode = "redirect"
	ModeEmbedded DeliveryMode = "embedded"
	ModePopup    DeliveryMode = "popup"
)

func (m DeliveryMode) Valid() bool {
	return m == ModeRedirect || m == ModeEmbedded || m == ModePopup
}

// CarrySnapshot is the subset of the form the callback needs. Its JSON shape
// is stored under CarryKey.
type CarrySnapshot struct {
	TenantName    string `json:"tenantName"`
	ContactEmail  string `json:"contactEmail"`
	ContactPhone  string `json:"contactPhone,omitempty"`
	PlanID        string `json:"planId,omitempty"`
	AdminPassword string `json:"adminPassword,omitempty"`
	BusinessType  string `json:"businessType,omitempty"`
	Amount        int64  `json:"amount,omitempty"`
}

// CarryKey names the single slot a session owns in the carry store.
const CarryKey = "onboarding_form_data"

// PendingHandoff is written right before leaving for the gateway and read by
// the callback on return.
type PendingHandoff struct {
	SessionID   string        `json:"sessionId"`
	CustomerKey string        `json:"customerKey"`
	Kind        HandoffKind   `json:"kind"`
	Mode        DeliveryMode  `json:"mode"`
	Provider    string        `json:"provider"`
	OrderID     string        `json:"orderId,omitempty"`
	Snapshot    CarrySnapshot `json:"snapshot"`
	CreatedAt   time.Time     `json:"createdAt"`
}
