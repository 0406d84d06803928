// Package easyequities reads accounts, holdings and prices from the
// EasyEquities web platform.
//
// A Session implements rebalance.HoldingsSource and rebalance.PriceSource.
// The platform has no public API: pages are the ones served to the browser,
// HTML or JSON, and the session is a set of cookies obtained by Login.
package easyequities

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/etnz/rebalance"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the EasyEquities platform.
const DefaultBaseURL = "https://platform.easyequities.io"

// platform paths
const (
	signInPath          = "/Account/SignIn"
	accountOverviewPath = "/AccountOverview"
	updateCurrencyPath  = "/Menu/UpdateCurrency"
	valuationsPath      = "/AccountOverview/GetTrustAccountValuations"
	holdingsPath        = "/AccountOverview/GetHoldingsView?stockViewCategoryId:12"
	transactionsPath    = "/TransactionHistory/GetTransactions"
	chartDataPath       = "/Equity/GetChartDataByContractCode"
)

// DefaultDetailConcurrency is the default number of holding detail pages
// fetched simultaneously.
const DefaultDetailConcurrency = 4

var (
	// ErrNotLoggedIn is returned when the platform rejects the session.
	ErrNotLoggedIn = errors.New("easyequities session is not authenticated, please run 'rebal login' first")
	// ErrLoginFailed is returned when the platform rejects the credentials.
	ErrLoginFailed = errors.New("easyequities login failed")
	// ErrUnknownContract is returned when the platform has no price for a contract code.
	ErrUnknownContract = errors.New("unknown contract code")
)

// Session is an authenticated connection to the platform.
//
// The platform serves one selected account per session; Session remembers
// which one and switches only when a different account is requested. A
// Session is safe for concurrent use as long as all concurrent calls target
// the same account.
type Session struct {
	baseURL           *url.URL
	client            *http.Client
	log               zerolog.Logger
	detailConcurrency int

	mu      sync.Mutex
	account string // currently selected account, "" when unknown
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.log = l.With().Str("component", "easyequities").Logger() }
}

// WithTimeout sets the timeout of each platform request.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) { s.client.Timeout = d }
}

// WithDetailConcurrency bounds the number of holding detail pages fetched
// simultaneously. Values below 1 are ignored.
func WithDetailConcurrency(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.detailConcurrency = n
		}
	}
}

// NewSession returns an unauthenticated session on the platform at baseURL
// (DefaultBaseURL if empty).
func NewSession(baseURL string, opts ...Option) (*Session, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cannot create cookie jar: %w", err)
	}
	s := &Session{
		baseURL: u,
		client: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
			// the platform signals success and expired sessions with redirects.
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		},
		log:               zerolog.Nop(),
		detailConcurrency: DefaultDetailConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// resolve returns the absolute URL of a platform path.
func (s *Session) resolve(path string) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid platform path %q: %w", path, err)
	}
	return s.baseURL.ResolveReference(ref).String(), nil
}

// newRequest creates a request for the platform with the browser headers it expects.
func (s *Session) newRequest(ctx context.Context, method, path string, form url.Values) (*http.Request, error) {
	addr, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	r, err := http.NewRequestWithContext(ctx, method, addr, body)
	if err != nil {
		return nil, fmt.Errorf("cannot create http request %q: %w", addr, err)
	}
	r.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	if form != nil {
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return r, nil
}

// query performs a request on the platform and returns the body of a 200 response.
func (s *Session) query(ctx context.Context, method, path string, form url.Values) ([]byte, error) {
	r, err := s.newRequest(ctx, method, path, form)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Str("method", method).Str("path", r.URL.Path).Msg("querying")

	resp, err := s.client.Do(r)
	if err != nil {
		return nil, fmt.Errorf("cannot execute http request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden,
		resp.StatusCode >= 300 && resp.StatusCode < 400:
		return nil, &rebalance.UpstreamDataError{Source: r.URL.Path, Err: ErrNotLoggedIn}
	default:
		return nil, &rebalance.UpstreamDataError{Source: r.URL.Path, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, fmt.Errorf("cannot read receiving http body: %w", err)
	}
	return buf.Bytes(), nil
}

// selectAccount makes accountID the platform's selected account.
func (s *Session) selectAccount(ctx context.Context, accountID string) error {
	if accountID == "" {
		return &rebalance.InvalidArgumentError{Argument: "account ID", Reason: "must not be empty"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account == accountID {
		return nil
	}
	if _, err := s.query(ctx, http.MethodPost, updateCurrencyPath, url.Values{"trustAccountId": {accountID}}); err != nil {
		return fmt.Errorf("cannot switch to account %s: %w", accountID, err)
	}
	s.log.Debug().Str("account", accountID).Msg("account selected")
	s.account = accountID
	return nil
}
