package handoff

import (
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/domain"
)

// DeliveryState is the parent window's view of an embedded or popup flow.
type DeliveryState string

const (
	DeliveryIdle      DeliveryState = "idle"
	DeliveryLoading   DeliveryState = "loading"
	DeliverySucceeded DeliveryState = "succeeded"
	DeliveryFailed    DeliveryState = "failed"
	DeliveryDismissed DeliveryState = "dismissed"
)

// Message types relayed between the gateway window and the wizard.
const (
	MessageSuccess = "PAYMENT_SUCCESS"
	MessageFail    = "PAYMENT_FAIL"
)

const (
	msgDefaultFail  = "Card registration failed."
	MsgPopupBlocked = "The payment window was blocked. Please allow pop-ups and try again."
	MsgSDKLoad      = "The payment module could not be loaded. Please try again."
)

var (
	ErrOriginMismatch = errors.New("handoff: message from foreign origin")
	ErrNotLoading     = errors.New("handoff: no delivery in progress")
	ErrUnknownMessage = errors.New("handoff: unknown message type")
	ErrCustomerKey    = errors.New("handoff: message for another customer")
)

// Message is what the gateway window posts to its opener or parent.
type Message struct {
	Type        string `json:"type" validate:"required,oneof=PAYMENT_SUCCESS PAYMENT_FAIL"`
	AuthKey     string `json:"authKey,omitempty"`
	PaymentKey  string `json:"paymentKey,omitempty"`
	OrderID     string `json:"orderId,omitempty"`
	CustomerKey string `json:"customerKey,omitempty"`
	Error       string `json:"error,omitempty"`
}

// TrackerState is a snapshot of a Tracker.
type TrackerState struct {
	State       DeliveryState       `json:"state"`
	Mode        domain.DeliveryMode `json:"mode,omitempty"`
	Kind        domain.HandoffKind  `json:"kind,omitempty"`
	CustomerKey string              `json:"customerKey,omitempty"`
	AuthKey     string              `json:"authKey,omitempty"`
	PaymentKey  string              `json:"paymentKey,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// Tracker follows one delivery at a time. Messages are accepted only from
// the application origin and only while a delivery is loading.
type Tracker struct {
	origin string

	mu sync.Mutex
	st TrackerState
}

func NewTracker(appOrigin string) *Tracker {
	return &Tracker{origin: normalizeOrigin(appOrigin), st: TrackerState{State: DeliveryIdle}}
}

// Start begins tracking a delivery. Redirect deliveries are not tracked:
// the page that started them is gone.
func (t *Tracker) Start(mode domain.DeliveryMode, kind domain.HandoffKind, customerKey string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if mode == domain.ModeRedirect {
		t.st = TrackerState{State: DeliveryIdle}
		return
	}
	t.st = TrackerState{State: DeliveryLoading, Mode: mode, Kind: kind, CustomerKey: customerKey}
}

// Receive settles the delivery from a cross-window message.
func (t *Tracker) Receive(origin string, m Message) (TrackerState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.origin == "" || normalizeOrigin(origin) != t.origin {
		return t.st, ErrOriginMismatch
	}
	if t.st.State != DeliveryLoading {
		return t.st, ErrNotLoading
	}

	switch m.Type {
	case MessageSuccess:
		if m.CustomerKey != "" && t.st.CustomerKey != "" && m.CustomerKey != t.st.CustomerKey {
			return t.st, ErrCustomerKey
		}
		t.st.State = DeliverySucceeded
		t.st.AuthKey = m.AuthKey
		t.st.PaymentKey = m.PaymentKey
		t.st.Error = ""
	case MessageFail:
		t.st.State = DeliveryFailed
		t.st.Error = m.Error
		if t.st.Error == "" {
			t.st.Error = msgDefaultFail
		}
	default:
		return t.st, ErrUnknownMessage
	}
	return t.st, nil
}

// Dismiss records that the user closed the popup. Loading clears without
// success or failure; a settled delivery is left alone.
func (t *Tracker) Dismiss() TrackerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.st.State == DeliveryLoading {
		t.st.State = DeliveryDismissed
	}
	return t.st
}

// Fail settles the delivery immediately, for failures the parent detects
// itself such as a blocked popup or an SDK that would not load.
func (t *Tracker) Fail(msg string) TrackerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if msg == "" {
		msg = msgDefaultFail
	}
	t.st.State = DeliveryFailed
	t.st.Error = msg
	return t.st
}

func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.st = TrackerState{State: DeliveryIdle}
}

func (t *Tracker) State() TrackerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.st
}

// normalizeOrigin reduces a URL or origin to lowercase scheme://host[:port].
// Unparseable input yields "" which never matches a configured origin.
func normalizeOrigin(s string) string {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Scheme + "://" + u.Host)
}
