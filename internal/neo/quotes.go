package neo

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	apierrors "neo-trader/internal/errors"
	"neo-trader/internal/models"
	"neo-trader/internal/session"
)

// Quotes fetches quotes for the given instruments. The instrument list is
// formatted as "segment|token,..." and URL-encoded into the {neo_symbols}
// path placeholder; quoteType fills {quote_type} and defaults to "all".
func (c *Client) Quotes(ctx context.Context, instruments []models.QuoteInstrument, quoteType models.QuoteType) (*Result, error) {
	if len(instruments) == 0 {
		return nil, apierrors.NewValidationError("instruments", instruments, "must not be empty")
	}
	if quoteType == "" {
		quoteType = models.QuoteTypeAll
	}

	pairs := make([]string, len(instruments))
	for i, inst := range instruments {
		pairs[i] = inst.ExchangeSegment + "|" + inst.InstrumentToken
	}
	encoded := url.QueryEscape(strings.Join(pairs, ","))

	urlStr, err := c.session.URL(session.EndpointQuotes, map[string]string{
		"neo_symbols": encoded,
		"quote_type":  string(quoteType),
	})
	if err != nil {
		return nil, err
	}

	headers := map[string]string{
		"Authorization": c.session.ConsumerKey(),
		"Content-Type":  formContentType,
	}

	resp, err := c.rest.Request(ctx, http.MethodGet, urlStr, nil, headers, nil)
	if err != nil {
		return nil, err
	}
	return decode(resp), nil
}
