package easyequities

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// SessionFile is the default name of the file, in os.TempDir(), where the
// session cookies are stored between commands.
const SessionFile = "rebal-easyequities-session"

// DefaultSessionPath returns the default session file path.
func DefaultSessionPath() string { return filepath.Join(os.TempDir(), SessionFile) }

// Login authenticates the session with the platform.
func (s *Session) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", ErrLoginFailed)
	}
	form := url.Values{
		"UserIdentifier":  {username},
		"Password":        {password},
		"ReturnUrl":       {""},
		"OneSignalGameId": {""},
		"IsUsingNewLayoutSatrixOrEasyEquitiesMobileApp": {"False"},
	}
	r, err := s.newRequest(ctx, http.MethodPost, signInPath, form)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(r)
	if err != nil {
		return fmt.Errorf("cannot execute http request: %w", err)
	}
	resp.Body.Close()

	// a successful sign in redirects to the platform, a failed one renders the form again.
	if resp.StatusCode != http.StatusFound {
		return fmt.Errorf("%w: status %s", ErrLoginFailed, resp.Status)
	}
	s.mu.Lock()
	s.account = ""
	s.mu.Unlock()
	s.log.Info().Str("user", username).Msg("logged in")
	return nil
}

// SaveSession writes the session cookies to path, readable by the user only.
func (s *Session) SaveSession(path string) error {
	cookies := s.client.Jar.Cookies(s.baseURL)
	if len(cookies) == 0 {
		return ErrNotLoggedIn
	}
	pairs := make([]string, 0, len(cookies))
	for _, c := range cookies {
		pairs = append(pairs, c.Name+"="+c.Value)
	}
	content := "Cookie: " + strings.Join(pairs, "; ") + "\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("cannot save easyequities session: %w", err)
	}
	return nil
}

// LoadSession returns a session on baseURL authenticated with the cookies
// saved in path by SaveSession.
func LoadSession(path, baseURL string, opts ...Option) (*Session, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read easyequities session: %w", err)
	}

	s, err := NewSession(baseURL, opts...)
	if err != nil {
		return nil, err
	}

	var cookies []*http.Cookie
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		name, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "Cookie") {
			continue
		}
		parsed, err := http.ParseCookie(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid easyequities session file %q: %w", path, err)
		}
		cookies = append(cookies, parsed...)
	}
	if len(cookies) == 0 {
		return nil, ErrNotLoggedIn
	}
	s.client.Jar.SetCookies(s.baseURL, cookies)
	return s, nil
}
