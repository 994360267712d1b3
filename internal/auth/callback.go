package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/radar/internal/services"
	"github.com/desertthunder/radar/internal/shared"
)

// Messages shown when the redirect cannot be turned into a session.
const (
	MissingCallbackMessage = "No authorization code or token received"
	authFailedPrefix       = "Authorization failed: "
)

// CallbackState is a state of the redirect state machine.
type CallbackState int

const (
	CallbackStart CallbackState = iota
	CallbackSuccess
	CallbackError
)

func (s CallbackState) String() string {
	switch s {
	case CallbackStart:
		return "start"
	case CallbackSuccess:
		return "success"
	case CallbackError:
		return "error"
	default:
		return "unknown"
	}
}

// CallbackResult is the terminal outcome of a [Callback].
type CallbackResult struct {
	State   CallbackState
	Message string
	Err     error
}

// OK reports success.
func (r CallbackResult) OK() bool {
	return r.State == CallbackSuccess
}

// CodeExchanger trades an authorization code for an access token.
type CodeExchanger interface {
	ExchangeCode(ctx context.Context, code string) (string, error)
}

// Callback consumes one authorization redirect. Only the first call to Handle has any effect.
type Callback struct {
	session   *Session
	exchanger CodeExchanger
	logger    *log.Logger

	mu     sync.Mutex
	state  CallbackState
	result CallbackResult
}

// NewCallback creates a [Callback] in the start state.
func NewCallback(session *Session, exchanger CodeExchanger, logger *log.Logger) *Callback {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Callback{
		session:   session,
		exchanger: exchanger,
		logger:    shared.WithLogger(logger, "component", "callback"),
		state:     CallbackStart,
	}
}

// State returns the current state.
func (c *Callback) State() CallbackState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Handle evaluates params in priority order: error, token, code.
//
// Later calls return the first result without side effects.
func (c *Callback) Handle(ctx context.Context, params url.Values) CallbackResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != CallbackStart {
		c.logger.Debug("callback already handled", "state", c.state)
		return c.result
	}

	c.result = c.evaluate(ctx, params)
	c.state = c.result.State
	if c.result.OK() {
		c.logger.Info("authorization complete")
	} else {
		c.logger.Warn("authorization failed", "message", c.result.Message, "err", c.result.Err)
	}
	return c.result
}

func (c *Callback) evaluate(ctx context.Context, params url.Values) CallbackResult {
	switch {
	case params.Has("error"):
		reason := params.Get("error")
		return CallbackResult{
			State:   CallbackError,
			Message: authFailedPrefix + reason,
			Err:     fmt.Errorf("%w: %s", shared.ErrAuthFailed, reason),
		}

	case params.Has("token"):
		return c.login(ctx, params.Get("token"))

	case params.Has("code"):
		token, err := c.exchanger.ExchangeCode(ctx, params.Get("code"))
		if err != nil {
			return CallbackResult{
				State:   CallbackError,
				Message: services.ErrorMessage(err, services.MsgExchangeCode),
				Err:     err,
			}
		}
		return c.login(ctx, token)

	default:
		return CallbackResult{State: CallbackError, Message: MissingCallbackMessage, Err: shared.ErrMissingCallback}
	}
}

func (c *Callback) login(ctx context.Context, token string) CallbackResult {
	if err := c.session.Login(ctx, token); err != nil {
		msg := "Failed to save session"
		if errors.Is(err, shared.ErrInvalidToken) {
			msg = "Received an empty access token"
		}
		return CallbackResult{State: CallbackError, Message: msg, Err: err}
	}
	return CallbackResult{State: CallbackSuccess, Message: "Successfully authenticated"}
}

// ParseRedirect extracts the query parameters from a full redirect URL or a bare query string.
func ParseRedirect(raw string) (url.Values, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	if u.RawQuery == "" && u.Scheme == "" && u.Host == "" {
		return url.ParseQuery(u.Path)
	}
	return u.Query(), nil
}
