package basis

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"
)

// DefaultBaseURL is the fixed Basis service root.
const DefaultBaseURL = "https://app.mybasis.com"

// tokenCookie is the session cookie the service issues on login and
// expects back on every data fetch.
const tokenCookie = "access_token"

// Credentials authenticate a Basis account. Immutable for the lifetime
// of a SessionManager.
type Credentials struct {
	Username string
	Password string
}

// Session is one authenticated login. It stays valid until the service
// rejects it; there is no local expiry rule.
type Session struct {
	Token      string
	AcquiredAt time.Time
}

// SessionManager owns the credentials and the cached session token.
// Only the manager writes the token; every other component reads it.
type SessionManager struct {
	creds   Credentials
	baseURL string
	client  *http.Client
	logger  *slog.Logger

	mu      sync.Mutex
	session *Session
}

// SessionOption configures a SessionManager.
type SessionOption func(*SessionManager)

// WithSessionHTTPClient supplies the transport used for login calls.
// The manager reuses its RoundTripper but swaps in a per-login cookie
// jar.
func WithSessionHTTPClient(c *http.Client) SessionOption {
	return func(s *SessionManager) { s.client = c }
}

// WithSessionBaseURL overrides the service root, for tests.
func WithSessionBaseURL(u string) SessionOption {
	return func(s *SessionManager) { s.baseURL = u }
}

// WithSessionLogger supplies the structured logger.
func WithSessionLogger(l *slog.Logger) SessionOption {
	return func(s *SessionManager) { s.logger = l }
}

// NewSessionManager builds a manager for creds. No network activity
// happens until Token or Authenticate is called.
func NewSessionManager(creds Credentials, opts ...SessionOption) *SessionManager {
	s := &SessionManager{
		creds:   creds,
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HasSession reports whether a token is cached. It says nothing about
// whether the service still accepts it.
func (s *SessionManager) HasSession() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil
}

// Token returns the cached session token, logging in first if no
// session exists yet.
func (s *SessionManager) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.session != nil {
		token := s.session.Token
		s.mu.Unlock()
		return token, nil
	}
	s.mu.Unlock()
	return s.Authenticate(ctx)
}

// Authenticate performs a fresh form login and replaces any cached
// session. Success is detected only by an access_token cookie in the
// login responses; the HTTP status is not consulted. No retry is
// attempted here, that policy belongs to the caller.
func (s *SessionManager) Authenticate(ctx context.Context) (string, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return "", WrapError(ErrTransport, "create cookie jar", err)
	}
	// Fresh jar per login so stale cookies never mask a rejection.
	client := &http.Client{
		Transport: s.client.Transport,
		Timeout:   s.client.Timeout,
		Jar:       jar,
	}

	loginURL := s.baseURL + "/login"
	form := url.Values{
		"username": {s.creds.Username},
		"password": {s.creds.Password},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", WrapError(ErrTransport, "build login request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return "", WrapError(ErrTransport, "login request", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	u, err := url.Parse(loginURL)
	if err != nil {
		return "", WrapError(ErrTransport, "parse login url", err)
	}
	// The jar sees every redirect hop; the response only its final one.
	// Cookies the jar rejected (expired, domain-mismatched) still count
	// as the service having answered with cookies.
	jarCookies := jar.Cookies(u)
	respCookies := resp.Cookies()
	token := findToken(jarCookies)
	if token == "" {
		token = findToken(respCookies)
	}
	if token == "" {
		if len(jarCookies) == 0 && len(respCookies) == 0 {
			return "", NewError(ErrLoginRejected, "login rejected: no session cookies set (check username and password)")
		}
		return "", NewError(ErrTokenMissing, "login set cookies but no access_token among them")
	}

	s.mu.Lock()
	s.session = &Session{Token: token, AcquiredAt: time.Now()}
	s.mu.Unlock()
	s.logger.Info("authenticated", "username", s.creds.Username)
	return token, nil
}

func findToken(cookies []*http.Cookie) string {
	for _, c := range cookies {
		if c.Name == tokenCookie {
			return c.Value
		}
	}
	return ""
}
