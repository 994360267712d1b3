package server

import (
	"context"
	"html/template"
	"net/http"
	"net/url"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/radar/internal/auth"
	"github.com/desertthunder/radar/internal/shared"
)

// CallbackRunner evaluates a login redirect. Implemented by [auth.Callback].
type CallbackRunner interface {
	Handle(ctx context.Context, params url.Values) auth.CallbackResult
}

// CallbackHandler serves the page the backend redirects to after login.
type CallbackHandler struct {
	callback   CallbackRunner
	loginURL   string
	logger     *log.Logger
	resultChan chan auth.CallbackResult
	once       sync.Once
}

// NewCallbackHandler creates a handler that runs cb and links back to loginURL on failure.
func NewCallbackHandler(cb CallbackRunner, loginURL string, logger *log.Logger) *CallbackHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &CallbackHandler{
		callback:   cb,
		loginURL:   loginURL,
		logger:     logger,
		resultChan: make(chan auth.CallbackResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{"/callback"}
}

// ServeHTTP runs the callback and renders its outcome.
//
// The exchange outlives the browser request so a closed tab cannot leave the session half written.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	result := h.callback.Handle(context.WithoutCancel(r.Context()), r.URL.Query())
	h.Send(result)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	status := http.StatusOK
	if !result.OK() {
		status = http.StatusBadRequest
	}
	w.WriteHeader(status)

	page := pageData{Title: "Authentication Successful", Message: "You can close this window and return to the terminal."}
	if !result.OK() {
		page = pageData{Title: "Authentication Error", Message: result.Message, LoginURL: h.loginURL, Failed: true}
	}
	if err := callbackPage.Execute(w, page); err != nil {
		h.logger.Error("failed to render callback page", "err", err)
	}
}

// Send publishes result once. Later calls are ignored.
func (h *CallbackHandler) Send(result auth.CallbackResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving the login outcome.
//
// Channel will receive exactly one result and then be closed.
func (h *CallbackHandler) Result() <-chan auth.CallbackResult {
	return h.resultChan
}

type pageData struct {
	Title    string
	Message  string
	LoginURL string
	Failed   bool
}

var callbackPage = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #121212; }
        .container { text-align: center; background: #181818; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.4); }
        h1 { color: {{if .Failed}}#e22134{{else}}#1DB954{{end}}; margin: 0 0 1rem 0; }
        p { color: #b3b3b3; margin: 0 0 1rem 0; }
        a { color: #1DB954; }
    </style>
</head>
<body>
    <div class="container">
        <h1>{{if .Failed}}✗{{else}}✓{{end}} {{.Title}}</h1>
        <p>{{.Message}}</p>
        {{if .LoginURL}}<a href="{{.LoginURL}}">Return to login</a>{{end}}
    </div>
</body>
</html>
`))
