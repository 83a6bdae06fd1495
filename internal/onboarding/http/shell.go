package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/wizard"
	"github.com/aussiebroadwan/tenantboard/pkg/httpx"
	"github.com/aussiebroadwan/tenantboard/pkg/slogx"
)

const (
	ParentScriptPath = "/onboarding/payment/parent.js"
	wizardAPIBase    = "/api/v1/wizard"
)

//go:embed templates/shell.html
var shellFS embed.FS

var shellPage = template.Must(template.ParseFS(shellFS, "templates/shell.html"))

type shellData struct {
	ScriptURL string
	APIBase   string
	View      wizard.View
}

// ShellHandler serves the wizard page. It starts a session when the caller
// has none, applying a planId query prefill, and consumes the completion
// flag the callback redirects with.
type ShellHandler struct {
	Wizards  *wizard.Manager
	Sessions *Sessions
}

func (h *ShellHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	c, ok := peek(r, h.Sessions, h.Wizards)
	if !ok {
		c = h.Wizards.Create(ctx, q.Get("planId"))
		if err := h.Sessions.Issue(w, c.ID()); err != nil {
			h.Wizards.Drop(c.ID())
			slogx.FromContext(ctx).Error("failed to sign session cookie", "err", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}

	if rest, consumed := c.ConsumeCompletion(q); consumed {
		target := r.URL.Path
		if len(rest) > 0 {
			target += "?" + rest.Encode()
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	var buf bytes.Buffer
	err := shellPage.Execute(&buf, shellData{
		ScriptURL: ParentScriptPath,
		APIBase:   wizardAPIBase,
		View:      c.View(),
	})
	if err != nil {
		slogx.FromContext(ctx).Error("failed to render wizard page", "err", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
