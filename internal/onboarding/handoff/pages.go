package handoff

import (
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/domain"
	"github.com/aussiebroadwan/tenantboard/internal/onboarding/gateway"
)

// SDK bootstrap retry window.
const (
	sdkMaxAttempts = 3
	sdkRetryDelay  = 1500 * time.Millisecond
)

//go:embed templates/*.html templates/parent.js
var assets embed.FS

var pages = template.Must(template.ParseFS(assets, "templates/*.html"))

// ParentScript is the wizard-side driver for embedded and popup deliveries.
func ParentScript() []byte {
	b, err := assets.ReadFile("templates/parent.js")
	if err != nil {
		panic(err)
	}
	return b
}

// sdkGlobals names the window factory each SDK provider installs.
var sdkGlobals = map[gateway.Tag]string{
	gateway.TagToss: "TossPayments",
}

type launchConfig struct {
	Mode         domain.DeliveryMode `json:"mode"`
	Origin       string              `json:"origin"`
	Launch       *gateway.Launch     `json:"launch"`
	SDKGlobal    string              `json:"sdkGlobal,omitempty"`
	FailURL      string              `json:"failUrl"`
	FailType     string              `json:"failType"`
	LoadError    string              `json:"loadError"`
	MaxAttempts  int                 `json:"maxAttempts"`
	RetryDelayMs int64               `json:"retryDelayMs"`
}

// RenderLaunch writes the page that starts launch inside the current
// window, which is the iframe or popup for embedded and popup deliveries.
func (h *Handoff) RenderLaunch(w io.Writer, pending domain.PendingHandoff, launch *gateway.Launch) error {
	return pages.ExecuteTemplate(w, "launch.html", launchConfig{
		Mode:         pending.Mode,
		Origin:       h.cfg.AppOrigin,
		Launch:       launch,
		SDKGlobal:    sdkGlobals[launch.Provider],
		FailURL:      h.CallbackURL(StatusFail, pending),
		FailType:     MessageFail,
		LoadError:    MsgSDKLoad,
		MaxAttempts:  sdkMaxAttempts,
		RetryDelayMs: sdkRetryDelay.Milliseconds(),
	})
}

// CallbackView is the outcome shown on the callback page. Message, when
// set, is relayed to the opener or parent window for embedded and popup
// deliveries.
type CallbackView struct {
	Mode          domain.DeliveryMode
	Title         string
	Detail        string
	Message       *Message
	RedirectURL   string
	RedirectDelay time.Duration
	RetryURL      string
}

type callbackScript struct {
	Mode            domain.DeliveryMode `json:"mode"`
	Origin          string              `json:"origin"`
	Message         *Message            `json:"message,omitempty"`
	RedirectURL     string              `json:"redirectUrl,omitempty"`
	RedirectDelayMs int64               `json:"redirectDelayMs"`
}

type callbackData struct {
	CallbackView
	Script callbackScript
}

func (h *Handoff) RenderCallback(w io.Writer, v CallbackView) error {
	return pages.ExecuteTemplate(w, "callback.html", callbackData{
		CallbackView: v,
		Script: callbackScript{
			Mode:            v.Mode,
			Origin:          h.cfg.AppOrigin,
			Message:         v.Message,
			RedirectURL:     v.RedirectURL,
			RedirectDelayMs: v.RedirectDelay.Milliseconds(),
		},
	})
}
