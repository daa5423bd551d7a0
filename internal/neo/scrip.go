package neo

import (
	"context"
	"net/http"
	"strings"

	"neo-trader/internal/session"
)

// ScripMaster returns the scrip master file paths. With an empty segment the
// full data payload is returned; with a segment key the single matching file
// path is returned under Data["filePath"]. An unknown segment key is a soft
// failure detected before any network I/O.
func (c *Client) ScripMaster(ctx context.Context, exchangeSegment string) (*Result, error) {
	var segment string
	if exchangeSegment != "" {
		seg, ok := session.ScripSegment(strings.ToLower(exchangeSegment))
		if !ok {
			return &Result{Error: msgSegmentNotFound}, nil
		}
		segment = seg
	}

	urlStr, err := c.session.URL(session.EndpointScripMaster, nil)
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

	res := decode(resp)
	if !res.OK() {
		return res, nil
	}
	if segment == "" {
		return res, nil
	}

	for _, path := range dataList(res.Data, "filesPaths") {
		if strings.Contains(strings.ToLower(path), segment) {
			return &Result{
				StatusCode: res.StatusCode,
				Data:       map[string]interface{}{"filePath": path},
			}, nil
		}
	}
	return &Result{StatusCode: res.StatusCode, Error: msgSegmentNotFound}, nil
}

// ScripFile downloads one scrip master CSV file and returns its raw bytes.
// The file host is separate from the API hosts, so the URL comes from a
// prior ScripMaster call.
func (c *Client) ScripFile(ctx context.Context, fileURL string) ([]byte, error) {
	resp, err := c.rest.Request(ctx, http.MethodGet, fileURL, nil, nil, nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
