package neo

import (
	"context"
	"net/http"

	"neo-trader/internal/models"
	"neo-trader/internal/session"
)

// Positions returns the day's positions.
func (c *Client) Positions(ctx context.Context) (*Result, error) {
	return c.tradingCall(ctx, "positions", session.EndpointPositions,
		http.MethodGet, c.serverQuery(), nil, formContentType)
}

// Holdings returns portfolio holdings.
func (c *Client) Holdings(ctx context.Context) (*Result, error) {
	return c.tradingCall(ctx, "holdings", session.EndpointHoldings,
		http.MethodGet, nil, nil, "application/json")
}

// Limits returns available limits/margins for the given scope. Empty fields
// default to "ALL".
func (c *Client) Limits(ctx context.Context, p models.LimitsParams) (*Result, error) {
	if p.Segment == "" {
		p.Segment = "ALL"
	}
	if p.Exchange == "" {
		p.Exchange = "ALL"
	}
	if p.Product == "" {
		p.Product = "ALL"
	}

	return c.tradingCall(ctx, "limits", session.EndpointLimits,
		http.MethodPost, c.serverQuery(), p, formContentType)
}

// Margin returns the margin required for a prospective order.
func (c *Client) Margin(ctx context.Context, p models.MarginParams) (*Result, error) {
	return c.tradingCall(ctx, "margin", session.EndpointMargin,
		http.MethodPost, c.serverQuery(), p, formContentType)
}
