// Package transport implements the pooled, retrying REST client shared by
// every endpoint call. It serializes request bodies, dispatches the request,
// retries transient failures, and normalizes errors; it holds no domain data.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apierrors "neo-trader/internal/errors"
	"neo-trader/pkg/utils"
)

var (
	jsonPattern = regexp.MustCompile(`(?i)json`)
	formPattern = regexp.MustCompile(`(?i)x-www-form-urlencoded`)
)

var allowedMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodDelete:  true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodOptions: true,
}

var mutatingMethods = map[string]bool{
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// retryStatuses are the transient upstream statuses retried automatically.
var retryStatuses = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Config holds transport configuration.
type Config struct {
	Timeout             time.Duration
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	Retry               utils.RetryConfig
}

// DefaultConfig returns the default transport configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:             10 * time.Second,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		Retry:               utils.DefaultRetryConfig(),
	}
}

// Response is the normalized outcome of one HTTP request.
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// JSON decodes the response body into v.
func (r *Response) JSON(v interface{}) error {
	return json.Unmarshal(r.Body, v)
}

// RESTClient performs HTTP requests with consistent error handling,
// connection reuse, and automatic retry of transient failures.
type RESTClient struct {
	http   *http.Client
	retry  utils.RetryConfig
	logger zerolog.Logger
}

// NewRESTClient creates a REST client with a bounded connection pool shared
// across all calls from one client instance.
func NewRESTClient(cfg Config, logger zerolog.Logger) *RESTClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = DefaultConfig().MaxIdleConns
	}
	if cfg.MaxIdleConnsPerHost == 0 {
		cfg.MaxIdleConnsPerHost = DefaultConfig().MaxIdleConnsPerHost
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = utils.DefaultRetryConfig()
	}

	return &RESTClient{
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        cfg.MaxIdleConns,
				MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		retry:  cfg.Retry,
		logger: logger,
	}
}

// Request performs one HTTP request. The method must be one of GET, HEAD,
// DELETE, POST, PUT, PATCH, OPTIONS; anything else fails before any I/O.
// Content-Type defaults to application/json. For mutating methods a JSON
// content type sends the body as raw JSON bytes; a form-urlencoded content
// type wraps the JSON-serialized body into the single form field jData
// (upstream wire convention). Query params are appended to the URL for every
// method. Statuses 429/500/502/503/504 and network errors are retried with
// exponential backoff; every other response is returned as-is.
func (c *RESTClient) Request(ctx context.Context, method, rawURL string, query url.Values, headers map[string]string, body interface{}) (*Response, error) {
	method = strings.ToUpper(method)
	if !allowedMethods[method] {
		return nil, apierrors.Wrapf(apierrors.ErrInvalidMethod, "method %q", method)
	}

	hdrs := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		hdrs[k] = v
	}
	contentType, ok := hdrs["Content-Type"]
	if !ok {
		contentType = "application/json"
		hdrs["Content-Type"] = contentType
	}

	var payload []byte
	if mutatingMethods[method] {
		switch {
		case jsonPattern.MatchString(contentType):
			if body != nil {
				b, err := json.Marshal(body)
				if err != nil {
					return nil, apierrors.NewTransportError("body", err)
				}
				payload = b
			}
		case formPattern.MatchString(contentType):
			form := url.Values{}
			if body != nil {
				b, err := json.Marshal(body)
				if err != nil {
					return nil, apierrors.NewTransportError("body", err)
				}
				form.Set("jData", string(b))
			}
			payload = []byte(form.Encode())
		default:
			return nil, apierrors.Wrapf(apierrors.ErrInvalidContentType, "content type %q", contentType)
		}
	}

	if len(query) > 0 {
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		rawURL += sep + query.Encode()
	}

	var (
		resp    *Response
		lastErr error
	)
	for attempt := 0; attempt < c.retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := utils.CalculateBackoff(attempt-1, c.retry.InitialDelay, c.retry.MaxDelay, c.retry.BackoffFactor)
			select {
			case <-ctx.Done():
				return nil, apierrors.NewTransportError("request", ctx.Err())
			case <-time.After(delay):
			}
		}

		res, err := c.do(ctx, method, rawURL, hdrs, payload)
		if err != nil {
			lastErr = err
			c.logger.Debug().Str("method", method).Str("url", rawURL).
				Int("attempt", attempt+1).Err(err).Msg("request attempt failed")
			continue
		}

		resp = res
		if !retryStatuses[res.StatusCode] {
			return res, nil
		}
		c.logger.Debug().Str("method", method).Str("url", rawURL).
			Int("attempt", attempt+1).Int("status", res.StatusCode).Msg("transient status, retrying")
	}

	// Transient status on the last attempt is still a response; the caller
	// interprets it.
	if resp != nil {
		return resp, nil
	}
	return nil, lastErr
}

func (c *RESTClient) do(ctx context.Context, method, rawURL string, headers map[string]string, payload []byte) (*Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, apierrors.NewTransportError("request", err)
	}

	// Set header keys verbatim: the upstream API expects lowercase keys like
	// "sid" and "neo-fin-key" that Go's Header.Set would canonicalize.
	for k, v := range headers {
		req.Header[k] = []string{v}
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, apierrors.NewTransportError("request", err)
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, apierrors.NewTransportError("request", err)
	}

	return &Response{
		StatusCode: res.StatusCode,
		Body:       b,
		Header:     res.Header,
	}, nil
}
