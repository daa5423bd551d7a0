// Package session holds credentials, environment endpoint tables, and the
// mutable authentication tokens acquired during login. Every endpoint call
// reads it to build headers and resolve URLs.
package session

import (
	"sync"

	apierrors "neo-trader/internal/errors"
)

// Environment selects the endpoint host tables.
type Environment string

const (
	EnvProd Environment = "prod"
	EnvUAT  Environment = "uat"
)

// neoFinKey is the fixed value of the neo-fin-key header expected upstream.
const neoFinKey = "neotradeapisvc"

// State is the authentication state of a session.
type State int

const (
	// StateUnauthenticated means no login step has completed.
	StateUnauthenticated State = iota
	// StateViewSession means step-1 login has produced a view token.
	StateViewSession
	// StateTradingSession means step-2 validation has produced trading tokens.
	StateTradingSession
)

func (s State) String() string {
	switch s {
	case StateViewSession:
		return "view_session"
	case StateTradingSession:
		return "trading_session"
	default:
		return "unauthenticated"
	}
}

// TradingTokens is the long-lived token set produced by step 2 of login.
type TradingTokens struct {
	Token      string
	SID        string
	RID        string
	ServerID   string
	DataCenter string
	BaseURL    string
}

// Session is the long-lived per-client authentication and configuration
// state. Consumer key and environment are immutable after New; the token
// sets are mutated exactly once per login step.
type Session struct {
	consumerKey string
	env         Environment

	mu        sync.RWMutex
	viewToken string
	sid       string
	trading   TradingTokens
}

// New creates a session for the given consumer key and environment.
func New(consumerKey string, env Environment) (*Session, error) {
	if consumerKey == "" {
		return nil, apierrors.NewValidationError("consumer_key", consumerKey, "must not be empty")
	}
	if env != EnvProd && env != EnvUAT {
		return nil, apierrors.NewValidationError("environment", env, "must be prod or uat")
	}
	return &Session{consumerKey: consumerKey, env: env}, nil
}

// ConsumerKey returns the immutable consumer key.
func (s *Session) ConsumerKey() string { return s.consumerKey }

// Environment returns the immutable environment.
func (s *Session) Environment() Environment { return s.env }

// State returns the current authentication state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.trading.Token != "" {
		return StateTradingSession
	}
	if s.viewToken != "" {
		return StateViewSession
	}
	return StateUnauthenticated
}

// ViewToken returns the step-1 view token.
func (s *Session) ViewToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewToken
}

// SID returns the step-1 session identifier.
func (s *Session) SID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sid
}

// Trading returns a copy of the step-2 trading token set.
func (s *Session) Trading() TradingTokens {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trading
}

// ServerID returns the trading server identifier sent as the sId query param.
func (s *Session) ServerID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trading.ServerID
}

// SetViewSession stores the step-1 token pair.
func (s *Session) SetViewSession(token, sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewToken = token
	s.sid = sid
}

// SetTradingSession stores the step-2 trading token set.
func (s *Session) SetTradingSession(t TradingTokens) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trading = t
}

// Clear drops all token state, returning the session to Unauthenticated.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewToken = ""
	s.sid = ""
	s.trading = TradingTokens{}
}

// RequireViewSession fails with an authentication-state error unless step-1
// login has completed.
func (s *Session) RequireViewSession(operation string) error {
	st := s.State()
	if st < StateViewSession {
		return apierrors.NewAuthStateError(operation, st.String(), apierrors.ErrViewSessionRequired)
	}
	return nil
}

// RequireTradingSession fails with an authentication-state error unless
// step-2 validation has completed.
func (s *Session) RequireTradingSession(operation string) error {
	st := s.State()
	if st < StateTradingSession {
		return apierrors.NewAuthStateError(operation, st.String(), apierrors.ErrNotAuthenticated)
	}
	return nil
}

// LoginHeaders returns the headers for step-1 login calls.
func (s *Session) LoginHeaders() map[string]string {
	return map[string]string{
		"Authorization": s.consumerKey,
		"neo-fin-key":   neoFinKey,
		"Content-Type":  "application/json",
	}
}

// ValidateHeaders returns the headers for step-2 validation calls, which are
// authorized by the step-1 token pair.
func (s *Session) ValidateHeaders() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]string{
		"Authorization": s.consumerKey,
		"sid":           s.sid,
		"Auth":          s.viewToken,
		"neo-fin-key":   neoFinKey,
		"Content-Type":  "application/json",
	}
}

// TradingHeaders returns the headers for trading calls, authorized by the
// step-2 token set. contentType is per-endpoint wire convention.
func (s *Session) TradingHeaders(contentType string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]string{
		"Authorization": s.consumerKey,
		"sid":           s.trading.SID,
		"Auth":          s.trading.Token,
		"neo-fin-key":   neoFinKey,
		"Content-Type":  contentType,
	}
}
