// Package neo implements the Kotak Neo trading API client: the two-step
// login handshake, order management, portfolio queries, quotes, and scrip
// master lookups.
package neo

import (
	"context"
	"net/url"

	"github.com/rs/zerolog"

	"neo-trader/internal/session"
	"neo-trader/internal/transport"
)

const formContentType = "application/x-www-form-urlencoded"

// Options configures a Client.
type Options struct {
	ConsumerKey string
	Environment session.Environment
	Transport   transport.Config
	Logger      zerolog.Logger
}

// Client is the Kotak Neo API client. One instance holds one session and one
// pooled transport; all calls are synchronous.
type Client struct {
	session *session.Session
	rest    *transport.RESTClient
	logger  zerolog.Logger
}

// NewClient creates a client for the given consumer key and environment.
func NewClient(opts Options) (*Client, error) {
	env := opts.Environment
	if env == "" {
		env = session.EnvProd
	}

	sess, err := session.New(opts.ConsumerKey, env)
	if err != nil {
		return nil, err
	}

	return &Client{
		session: sess,
		rest:    transport.NewRESTClient(opts.Transport, opts.Logger),
		logger:  opts.Logger,
	}, nil
}

// Session returns the client's session state.
func (c *Client) Session() *session.Session {
	return c.session
}

// tradingCall performs one trading-session endpoint call: guard, URL
// resolution, request, decode.
func (c *Client) tradingCall(ctx context.Context, operation string, ep session.Endpoint, method string, query url.Values, body interface{}, contentType string) (*Result, error) {
	if err := c.session.RequireTradingSession(operation); err != nil {
		return nil, err
	}

	urlStr, err := c.session.URL(ep, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.rest.Request(ctx, method, urlStr, query, c.session.TradingHeaders(contentType), body)
	if err != nil {
		return nil, err
	}
	return decode(resp), nil
}

// serverQuery returns the sId query parameter trading endpoints require.
func (c *Client) serverQuery() url.Values {
	return url.Values{"sId": []string{c.session.ServerID()}}
}
