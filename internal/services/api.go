// API service for making HTTP requests to the radar backend
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/desertthunder/radar/internal/models"
	"github.com/desertthunder/radar/internal/shared"
)

// DefaultBaseURL is where the backend listens unless configured otherwise.
const DefaultBaseURL = "http://localhost:8000"

// APIService makes requests to the backend, attaching the session token when one is available.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	tokens     oauth2.TokenSource
	limiter    *rate.Limiter
	logger     *log.Logger
}

// Option configures an [APIService].
type Option func(*APIService)

// WithTokenSource attaches a bearer token from ts to every request.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(a *APIService) { a.tokens = ts }
}

// WithRateLimit caps outgoing requests per second. Zero or less disables the limiter.
func WithRateLimit(rps float64) Option {
	return func(a *APIService) {
		if rps > 0 {
			a.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *log.Logger) Option {
	return func(a *APIService) { a.logger = l }
}

// NewAPIService creates a new API service instance for the backend.
func NewAPIService(baseURL string, client *http.Client, opts ...Option) *APIService {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	a := &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BaseURL returns the backend root without a trailing slash.
func (a *APIService) BaseURL() string {
	return a.baseURL
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports a 2xx status.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodGet, path, nil, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, nil, data)
}

// do sends one request. Transport failures wrap [shared.ErrNetwork]; HTTP error statuses are returned as responses.
func (a *APIService) do(ctx context.Context, method, path string, query url.Values, body []byte) (*APIResponse, error) {
	fullURL := a.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if a.tokens != nil {
		if tok, err := a.tokens.Token(); err == nil {
			tok.SetAuthHeader(req)
		} else if !errors.Is(err, shared.ErrNotAuthenticated) {
			return nil, fmt.Errorf("failed to get token: %w", err)
		}
	}

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrNetwork, err)
		}
	}

	reqID := shared.GenerateID()
	req.Header.Set("X-Request-ID", reqID)
	a.logger.Debug("request", "id", reqID, "method", method, "path", path)
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrNetwork, err)
	}
	a.logger.Debug("response", "id", reqID, "method", method, "path", path, "status", resp.StatusCode, "bytes", len(data))

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
	}

	var jsonData any
	if err := json.Unmarshal(data, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// decode turns resp into a validated T or an [*APIError] carrying the backend message or fallback.
func decode[T any](resp *APIResponse, fallback string) (*T, error) {
	if !resp.OK() {
		return nil, &APIError{Status: resp.StatusCode, Message: backendMessage(resp.Body, fallback)}
	}

	var out T
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, &APIError{Status: resp.StatusCode, Message: fallback, Err: fmt.Errorf("%w: %v", shared.ErrInvalidResponse, err)}
	}
	if v, ok := any(&out).(models.Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, &APIError{Status: resp.StatusCode, Message: fallback, Err: err}
		}
	}
	return &out, nil
}

func getJSON[T any](ctx context.Context, a *APIService, path string, query url.Values, fallback string) (*T, error) {
	resp, err := a.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	return decode[T](resp, fallback)
}

func postJSON[T any](ctx context.Context, a *APIService, path string, body any, fallback string) (*T, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	resp, err := a.do(ctx, http.MethodPost, path, nil, data)
	if err != nil {
		return nil, err
	}
	return decode[T](resp, fallback)
}
