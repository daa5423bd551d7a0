package neo

import (
	"context"
	"net/http"

	"neo-trader/internal/models"
	"neo-trader/internal/session"
)

// PlaceOrder places a new order. The parameters are sent as the jData form
// field with the trading server's sId query parameter.
func (c *Client) PlaceOrder(ctx context.Context, p models.OrderParams) (*Result, error) {
	if p.AMO == "" {
		p.AMO = "NO"
	}
	if p.DisclosedQuantity == "" {
		p.DisclosedQuantity = "0"
	}
	if p.MarketProtection == "" {
		p.MarketProtection = "0"
	}
	if p.PortfolioFlag == "" {
		p.PortfolioFlag = "N"
	}
	if p.Price == "" {
		p.Price = "0"
	}
	if p.TriggerPrice == "" {
		p.TriggerPrice = "0"
	}
	if p.Validity == "" {
		p.Validity = models.ValidityDay
	}

	return c.tradingCall(ctx, "place_order", session.EndpointPlaceOrder,
		http.MethodPost, c.serverQuery(), p, formContentType)
}

// ModifyOrder modifies an open order.
func (c *Client) ModifyOrder(ctx context.Context, p models.ModifyOrderParams) (*Result, error) {
	if p.AMO == "" {
		p.AMO = "NO"
	}
	if p.DeviceDetail == "" {
		p.DeviceDetail = "NA"
	}
	if p.Validity == "" {
		p.Validity = models.ValidityDay
	}

	return c.tradingCall(ctx, "modify_order", session.EndpointModifyOrder,
		http.MethodPost, c.serverQuery(), p, formContentType)
}

// CancelOrder cancels an open order by order number.
func (c *Client) CancelOrder(ctx context.Context, p models.CancelOrderParams) (*Result, error) {
	if p.AMO == "" {
		p.AMO = "NO"
	}

	return c.tradingCall(ctx, "cancel_order", session.EndpointCancelOrder,
		http.MethodPost, c.serverQuery(), p, formContentType)
}

// OrderReport returns the order book for the day.
func (c *Client) OrderReport(ctx context.Context) (*Result, error) {
	return c.tradingCall(ctx, "order_report", session.EndpointOrderReport,
		http.MethodGet, c.serverQuery(), nil, formContentType)
}

// OrderHistory returns the state transitions of one order.
func (c *Client) OrderHistory(ctx context.Context, orderNo string) (*Result, error) {
	body := map[string]interface{}{"nOrdNo": orderNo}
	return c.tradingCall(ctx, "order_history", session.EndpointOrderHistory,
		http.MethodPost, c.serverQuery(), body, formContentType)
}

// TradeReport returns the trade book for the day, optionally filtered to one
// order number.
func (c *Client) TradeReport(ctx context.Context, orderNo string) (*Result, error) {
	query := c.serverQuery()
	if orderNo != "" {
		query.Set("nOrdNo", orderNo)
	}
	return c.tradingCall(ctx, "trade_report", session.EndpointTradeReport,
		http.MethodGet, query, nil, formContentType)
}
