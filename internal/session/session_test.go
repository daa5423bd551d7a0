package session

import (
	"strings"
	"testing"

	apierrors "neo-trader/internal/errors"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	sess, err := New("test-consumer-key", EnvProd)
	if err != nil {
		t.Fatal(err)
	}
	return sess
}

func TestNewValidation(t *testing.T) {
	if _, err := New("", EnvProd); err == nil {
		t.Error("empty consumer key accepted")
	}
	if _, err := New("key", Environment("staging")); err == nil {
		t.Error("unknown environment accepted")
	}
	if _, err := New("key", EnvUAT); err != nil {
		t.Errorf("uat rejected: %v", err)
	}
}

func TestStateTransitions(t *testing.T) {
	sess := newTestSession(t)

	if st := sess.State(); st != StateUnauthenticated {
		t.Fatalf("initial state = %v", st)
	}

	sess.SetViewSession("view-token", "view-sid")
	if st := sess.State(); st != StateViewSession {
		t.Fatalf("after step 1 state = %v", st)
	}

	sess.SetTradingSession(TradingTokens{Token: "edit-token", SID: "edit-sid", ServerID: "server1"})
	if st := sess.State(); st != StateTradingSession {
		t.Fatalf("after step 2 state = %v", st)
	}

	sess.Clear()
	if st := sess.State(); st != StateUnauthenticated {
		t.Fatalf("after clear state = %v", st)
	}
	if sess.ViewToken() != "" || sess.Trading().Token != "" {
		t.Error("clear left token state behind")
	}
}

func TestGuards(t *testing.T) {
	sess := newTestSession(t)

	err := sess.RequireViewSession("totp_validate")
	if !apierrors.Is(err, apierrors.ErrViewSessionRequired) {
		t.Errorf("unauthenticated view guard = %v", err)
	}
	err = sess.RequireTradingSession("place_order")
	if !apierrors.Is(err, apierrors.ErrNotAuthenticated) {
		t.Errorf("unauthenticated trading guard = %v", err)
	}

	sess.SetViewSession("view-token", "view-sid")
	if err := sess.RequireViewSession("totp_validate"); err != nil {
		t.Errorf("view guard after step 1 = %v", err)
	}
	err = sess.RequireTradingSession("place_order")
	if !apierrors.Is(err, apierrors.ErrNotAuthenticated) {
		t.Errorf("trading guard after step 1 only = %v", err)
	}

	var ase *apierrors.AuthStateError
	if !apierrors.As(err, &ase) {
		t.Fatalf("guard error type = %T", err)
	}
	if ase.Operation != "place_order" || ase.State != "view_session" {
		t.Errorf("guard error detail = %+v", ase)
	}

	sess.SetTradingSession(TradingTokens{Token: "edit-token"})
	if err := sess.RequireTradingSession("place_order"); err != nil {
		t.Errorf("trading guard after step 2 = %v", err)
	}
}

func TestLoginHeaders(t *testing.T) {
	sess := newTestSession(t)
	h := sess.LoginHeaders()
	if h["Authorization"] != "test-consumer-key" {
		t.Errorf("Authorization = %q", h["Authorization"])
	}
	if h["neo-fin-key"] != "neotradeapisvc" {
		t.Errorf("neo-fin-key = %q", h["neo-fin-key"])
	}
	if h["Content-Type"] != "application/json" {
		t.Errorf("Content-Type = %q", h["Content-Type"])
	}
}

func TestValidateHeadersCarryViewTokens(t *testing.T) {
	sess := newTestSession(t)
	sess.SetViewSession("view-token", "view-sid")

	h := sess.ValidateHeaders()
	if h["Auth"] != "view-token" || h["sid"] != "view-sid" {
		t.Errorf("validate headers = %v", h)
	}
}

func TestTradingHeadersCarryTradingTokens(t *testing.T) {
	sess := newTestSession(t)
	sess.SetViewSession("view-token", "view-sid")
	sess.SetTradingSession(TradingTokens{Token: "edit-token", SID: "edit-sid"})

	h := sess.TradingHeaders("application/x-www-form-urlencoded")
	if h["Auth"] != "edit-token" || h["sid"] != "edit-sid" {
		t.Errorf("trading headers = %v", h)
	}
	if h["Content-Type"] != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q", h["Content-Type"])
	}
}

func TestURLResolution(t *testing.T) {
	sess := newTestSession(t)

	u, err := sess.URL(EndpointTOTPLogin, nil)
	if err != nil {
		t.Fatal(err)
	}
	if u != "https://napi.kotaksecurities.com/login/1.0/login/v6/totp/login" {
		t.Errorf("totp login url = %q", u)
	}

	u, err = sess.URL(EndpointPlaceOrder, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(u, "https://gw-napi.kotaksecurities.com/") {
		t.Errorf("trading url = %q", u)
	}
}

func TestURLUATHosts(t *testing.T) {
	sess, err := New("key", EnvUAT)
	if err != nil {
		t.Fatal(err)
	}

	u, _ := sess.URL(EndpointLogin, nil)
	if !strings.HasPrefix(u, "https://nuat.kotaksecurities.com/") {
		t.Errorf("uat session url = %q", u)
	}
	u, _ = sess.URL(EndpointPositions, nil)
	if !strings.HasPrefix(u, "https://gw-nuat.kotaksecurities.com/") {
		t.Errorf("uat trading url = %q", u)
	}
}

func TestURLBaseURLOverridesTradingHostOnly(t *testing.T) {
	sess := newTestSession(t)
	sess.SetTradingSession(TradingTokens{Token: "tok", BaseURL: "https://cluster3.kotaksecurities.com/"})

	u, _ := sess.URL(EndpointPlaceOrder, nil)
	if !strings.HasPrefix(u, "https://cluster3.kotaksecurities.com/Orders/") {
		t.Errorf("overridden trading url = %q", u)
	}

	// Session-host endpoints are not affected by baseUrl
	u, _ = sess.URL(EndpointTOTPValidate, nil)
	if !strings.HasPrefix(u, "https://napi.kotaksecurities.com/") {
		t.Errorf("session url after override = %q", u)
	}
}

func TestURLPlaceholderSubstitution(t *testing.T) {
	sess := newTestSession(t)

	u, err := sess.URL(EndpointQuotes, map[string]string{
		"neo_symbols": "nse_cm%7C11536",
		"quote_type":  "ltp",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(u, "/quotes/neosymbols/nse_cm%7C11536/ltp") {
		t.Errorf("quotes url = %q", u)
	}
}

func TestURLUnknownEndpoint(t *testing.T) {
	sess := newTestSession(t)
	_, err := sess.URL(Endpoint("watchlist"), nil)
	if !apierrors.Is(err, apierrors.ErrUnknownEndpoint) {
		t.Errorf("error = %v, want ErrUnknownEndpoint", err)
	}
}

func TestScripSegmentAliases(t *testing.T) {
	cases := map[string]string{
		"nse_cm": "nse_cm",
		"nse":    "nse_cm",
		"nfo":    "nse_fo",
		"mcx":    "mcx_fo",
		"cds":    "cde_fo",
	}
	for key, want := range cases {
		got, ok := ScripSegment(key)
		if !ok || got != want {
			t.Errorf("ScripSegment(%q) = %q, %v; want %q", key, got, ok, want)
		}
	}
	if _, ok := ScripSegment("nasdaq"); ok {
		t.Error("unknown segment resolved")
	}
}
