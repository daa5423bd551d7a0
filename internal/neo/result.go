package neo

import (
	"neo-trader/internal/transport"
)

// Soft-failure messages returned to callers in Result.Error. The wording is
// part of the client's contract.
const (
	msgUnexpectedFormat = "Unexpected response format. Expected JSON but received something else."
	msgSegmentNotFound  = "Exchange segment not found"
)

// Result is the tagged outcome of one endpoint call. Expected failure modes
// (undecodable body, unknown lookup key) set Error; upstream business
// failures and non-2xx statuses are passed through in Data/StatusCode for
// the caller to interpret. Transport and auth-state failures are returned as
// Go errors by the endpoint methods, never panics.
type Result struct {
	StatusCode int
	Data       map[string]interface{}
	Error      string
}

// Failed reports whether the call ended in a client-side soft failure.
func (r *Result) Failed() bool {
	return r.Error != ""
}

// OK reports whether the call decoded cleanly with a 2xx status. It says
// nothing about brokerage-level stat/status fields inside the body.
func (r *Result) OK() bool {
	return r.Error == "" && r.StatusCode >= 200 && r.StatusCode <= 299
}

// decode converts a transport response into a Result. An undecodable body
// becomes the unexpected-format soft failure rather than an error.
func decode(resp *transport.Response) *Result {
	var data map[string]interface{}
	if err := resp.JSON(&data); err != nil {
		return &Result{StatusCode: resp.StatusCode, Error: msgUnexpectedFormat}
	}
	return &Result{StatusCode: resp.StatusCode, Data: data}
}

// dataField returns the string at data.<key> of a decoded body, or "".
func dataField(m map[string]interface{}, key string) string {
	d, ok := m["data"].(map[string]interface{})
	if !ok {
		return ""
	}
	v, _ := d[key].(string)
	return v
}

// dataList returns the string slice at data.<key> of a decoded body.
func dataList(m map[string]interface{}, key string) []string {
	d, ok := m["data"].(map[string]interface{})
	if !ok {
		return nil
	}
	raw, ok := d[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
