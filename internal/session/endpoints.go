package session

import (
	"strings"

	apierrors "neo-trader/internal/errors"
)

// Endpoint is a logical endpoint name resolved through the URL table.
type Endpoint string

const (
	EndpointLogin        Endpoint = "login"
	EndpointSession2FA   Endpoint = "session_2fa"
	EndpointTOTPLogin    Endpoint = "totp_login"
	EndpointTOTPValidate Endpoint = "totp_validate"
	EndpointLogout       Endpoint = "logout"
	EndpointPlaceOrder   Endpoint = "place_order"
	EndpointModifyOrder  Endpoint = "modify_order"
	EndpointCancelOrder  Endpoint = "cancel_order"
	EndpointOrderReport  Endpoint = "order_report"
	EndpointOrderHistory Endpoint = "order_history"
	EndpointTradeReport  Endpoint = "trade_report"
	EndpointPositions    Endpoint = "positions"
	EndpointHoldings     Endpoint = "holdings"
	EndpointLimits       Endpoint = "limits"
	EndpointMargin       Endpoint = "margin"
	EndpointScripMaster  Endpoint = "scrip_master"
	EndpointQuotes       Endpoint = "quotes_neo_symbol"
)

type hostClass int

const (
	// hostSession serves the login handshake.
	hostSession hostClass = iota
	// hostTrading serves everything after login; overridden by the baseUrl
	// returned in step 2.
	hostTrading
)

type endpointSpec struct {
	host hostClass
	path string
}

// endpointTable maps logical endpoint names to URL templates. Paths may
// contain {placeholder} segments substituted per call.
var endpointTable = map[Endpoint]endpointSpec{
	EndpointLogin:        {hostSession, "login/1.0/login/v2/validate"},
	EndpointSession2FA:   {hostSession, "login/1.0/login/v2/validate"},
	EndpointTOTPLogin:    {hostSession, "login/1.0/login/v6/totp/login"},
	EndpointTOTPValidate: {hostSession, "login/1.0/login/v6/totp/validate"},
	EndpointLogout:       {hostSession, "login/1.0/logout"},
	EndpointPlaceOrder:   {hostTrading, "Orders/2.0/quick/order/rule/ms/place"},
	EndpointModifyOrder:  {hostTrading, "Orders/2.0/quick/order/vr/modify"},
	EndpointCancelOrder:  {hostTrading, "Orders/2.0/quick/order/cancel"},
	EndpointOrderReport:  {hostTrading, "Orders/2.0/quick/user/orders"},
	EndpointOrderHistory: {hostTrading, "Orders/2.0/quick/order/history"},
	EndpointTradeReport:  {hostTrading, "Orders/2.0/quick/user/trades"},
	EndpointPositions:    {hostTrading, "Orders/2.0/quick/user/positions"},
	EndpointHoldings:     {hostTrading, "Portfolio/1.0/portfolio/v1/holdings"},
	EndpointLimits:       {hostTrading, "Orders/2.0/quick/user/limits"},
	EndpointMargin:       {hostTrading, "Orders/2.0/quick/user/check-margin"},
	EndpointScripMaster:  {hostTrading, "Files/1.0/masterscrip/v2/file-paths"},
	EndpointQuotes:       {hostTrading, "script-details/1.0/quotes/neosymbols/{neo_symbols}/{quote_type}"},
}

type hostTable struct {
	session string
	trading string
}

var hosts = map[Environment]hostTable{
	EnvProd: {
		session: "https://napi.kotaksecurities.com",
		trading: "https://gw-napi.kotaksecurities.com",
	},
	EnvUAT: {
		session: "https://nuat.kotaksecurities.com",
		trading: "https://gw-nuat.kotaksecurities.com",
	},
}

// URL resolves a logical endpoint for this session's environment,
// substituting any {placeholder} segments from params. The trading host is
// replaced by the baseUrl from step 2 once it is known. Caller-supplied
// placeholder values must already be URL-encoded.
func (s *Session) URL(ep Endpoint, params map[string]string) (string, error) {
	spec, ok := endpointTable[ep]
	if !ok {
		return "", apierrors.Wrapf(apierrors.ErrUnknownEndpoint, "endpoint %q", ep)
	}

	host := hosts[s.env].session
	if spec.host == hostTrading {
		host = hosts[s.env].trading
		if base := s.Trading().BaseURL; base != "" {
			host = base
		}
	}

	path := spec.path
	for key, value := range params {
		path = strings.ReplaceAll(path, "{"+key+"}", value)
	}

	return strings.TrimRight(host, "/") + "/" + path, nil
}
