package neo

import (
	"context"
	"net/http"

	"neo-trader/internal/session"
)

// TOTPLoginParams holds the inputs for step-1 TOTP login.
type TOTPLoginParams struct {
	MobileNumber string
	UCC          string
	TOTP         string
}

// LoginParams holds the inputs for step-1 password login.
type LoginParams struct {
	MobileNumber string
	UCC          string
	PAN          string
	Password     string
}

// TOTPLogin performs step 1 of the TOTP login flow. On a 2xx response the
// view token pair from data.token/data.sid is stored in the session; any
// other status leaves the session unchanged and is passed through.
func (c *Client) TOTPLogin(ctx context.Context, p TOTPLoginParams) (*Result, error) {
	urlStr, err := c.session.URL(session.EndpointTOTPLogin, nil)
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"mobileNumber": p.MobileNumber,
		"ucc":          p.UCC,
		"totp":         p.TOTP,
	}

	resp, err := c.rest.Request(ctx, http.MethodPost, urlStr, nil, c.session.LoginHeaders(), body)
	if err != nil {
		return nil, err
	}

	res := decode(resp)
	c.storeViewSession(res)
	return res, nil
}

// Login performs step 1 of the password login flow. Mutually exclusive with
// TOTPLogin as an entry point into the view-session state.
func (c *Client) Login(ctx context.Context, p LoginParams) (*Result, error) {
	urlStr, err := c.session.URL(session.EndpointLogin, nil)
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"mobileNumber": p.MobileNumber,
		"password":     p.Password,
	}
	if p.UCC != "" {
		body["ucc"] = p.UCC
	}
	if p.PAN != "" {
		body["pan"] = p.PAN
	}

	resp, err := c.rest.Request(ctx, http.MethodPost, urlStr, nil, c.session.LoginHeaders(), body)
	if err != nil {
		return nil, err
	}

	res := decode(resp)
	c.storeViewSession(res)
	return res, nil
}

// storeViewSession persists the step-1 token pair. Non-2xx and undecodable
// responses fire no state transition.
func (c *Client) storeViewSession(res *Result) {
	if !res.OK() {
		return
	}
	c.session.SetViewSession(dataField(res.Data, "token"), dataField(res.Data, "sid"))
	c.logger.Info().Msg("view session established")
}

// TOTPValidate performs step 2 of the TOTP flow, exchanging the view session
// plus MPIN for the trading session. Requires a completed step 1.
func (c *Client) TOTPValidate(ctx context.Context, mpin string) (*Result, error) {
	if err := c.session.RequireViewSession("totp_validate"); err != nil {
		return nil, err
	}

	urlStr, err := c.session.URL(session.EndpointTOTPValidate, nil)
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{"mpin": mpin}

	resp, err := c.rest.Request(ctx, http.MethodPost, urlStr, nil, c.session.ValidateHeaders(), body)
	if err != nil {
		return nil, err
	}

	res := decode(resp)
	if res.OK() {
		c.storeTradingSession(res)
	}
	return res, nil
}

// Session2FA performs step 2 of the password flow using the delivered OTP.
func (c *Client) Session2FA(ctx context.Context, otp string) (*Result, error) {
	if err := c.session.RequireViewSession("session_2fa"); err != nil {
		return nil, err
	}

	urlStr, err := c.session.URL(session.EndpointSession2FA, nil)
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{"otp": otp}

	resp, err := c.rest.Request(ctx, http.MethodPost, urlStr, nil, c.session.ValidateHeaders(), body)
	if err != nil {
		return nil, err
	}

	res := decode(resp)
	if res.OK() {
		c.storeTradingSession(res)
	}
	return res, nil
}

func (c *Client) storeTradingSession(res *Result) {
	c.session.SetTradingSession(session.TradingTokens{
		Token:      dataField(res.Data, "token"),
		SID:        dataField(res.Data, "sid"),
		RID:        dataField(res.Data, "rid"),
		ServerID:   dataField(res.Data, "hsServerId"),
		DataCenter: dataField(res.Data, "dataCenter"),
		BaseURL:    dataField(res.Data, "baseUrl"),
	})
	c.logger.Info().Msg("trading session established")
}

// Logout invalidates the trading session upstream and clears all local
// token state.
func (c *Client) Logout(ctx context.Context) (*Result, error) {
	res, err := c.tradingCall(ctx, "logout", session.EndpointLogout, http.MethodPost, nil, nil, "application/json")
	if err != nil {
		return nil, err
	}
	if res.OK() {
		c.session.Clear()
		c.logger.Info().Msg("session cleared")
	}
	return res, nil
}
