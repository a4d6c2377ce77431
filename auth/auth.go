package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/tashrifatdiu/mcsc-client/errors"
)

// User is the identity the auth provider vouches for.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session is one authenticated session. Tokens are minted by the identity
// provider; the client only stores and refreshes them.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// Expired reports whether the access token is past (or within a minute of)
// its deadline.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now.Add(time.Minute))
}

// A Store persists the session between runs. Load returns (nil, nil) when no
// session is stored.
type Store interface {
	Load() (*Session, error)
	Save(*Session) error
	Clear() error
}

// HTTPClient is the transport. *http.Client satisfies it.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to the identity provider. Every state change goes through the
// store and fires the change subscriptions, so the UI always reflects the
// current session.
type Client struct {
	baseURL string
	apiKey  string
	client  HTTPClient
	store   Store

	mu       sync.Mutex
	session  *Session
	onChange []func(*Session)
}

// NewClient loads any stored session so a restart keeps the user signed in. A
// corrupt or unreadable store degrades to signed out rather than failing.
func NewClient(c HTTPClient, baseURL, apiKey string, store Store) *Client {
	client := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  c,
		store:   store,
	}
	if store != nil {
		if session, err := store.Load(); err == nil {
			client.session = session
		}
	}
	return client
}

// OnChange registers a subscription fired on sign in, sign out and refresh.
// The callback receives nil on sign out.
func (c *Client) OnChange(f func(*Session)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = append(c.onChange, f)
}

func (c *Client) setSession(s *Session) {
	c.mu.Lock()
	c.session = s
	hooks := make([]func(*Session), len(c.onChange))
	copy(hooks, c.onChange)
	c.mu.Unlock()

	if c.store != nil {
		if s == nil {
			c.store.Clear()
		} else {
			c.store.Save(s)
		}
	}
	for _, f := range hooks {
		f(s)
	}
}

// SignIn runs the password grant and stores the resulting session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	session, err := c.tokenCall(ctx, "password", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	c.setSession(session)
	return session, nil
}

// SignUp creates an account. Depending on provider settings the account may
// need email confirmation before SignIn works.
func (c *Client) SignUp(ctx context.Context, email, password, name string) error {
	body := map[string]interface{}{
		"email":    email,
		"password": password,
		"data":     map[string]string{"name": name},
	}
	return c.do(ctx, "POST", "/auth/v1/signup", "", body, nil)
}

// SignOut revokes the session server-side and clears it locally. The local
// session is cleared even when the revocation call fails.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()
	if session == nil {
		return nil
	}

	err := c.do(ctx, "POST", "/auth/v1/logout", session.AccessToken, nil, nil)
	c.setSession(nil)
	return err
}

// CurrentUser resolves the signed-in user, refreshing an expired session when
// possible. It degrades to (nil, nil) when there is no usable session, so
// callers render the signed-out state instead of an error page.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session == nil {
		return nil, nil
	}

	if session.Expired(time.Now()) {
		refreshed, err := c.refresh(ctx, session)
		if err != nil {
			c.setSession(nil)
			return nil, nil
		}
		session = refreshed
	}

	user := session.User
	return &user, nil
}

// AccessToken implements the token source used by the API clients. Empty when
// signed out.
func (c *Client) AccessToken() (string, error) {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session == nil {
		return "", nil
	}
	if session.Expired(time.Now()) {
		refreshed, err := c.refresh(context.Background(), session)
		if err != nil {
			return "", nil
		}
		session = refreshed
	}
	return session.AccessToken, nil
}

// Session returns the current session, nil when signed out.
func (c *Client) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Client) refresh(ctx context.Context, session *Session) (*Session, error) {
	if session.RefreshToken == "" {
		return nil, errors.New("session expired", errors.Unauthorized())
	}

	refreshed, err := c.tokenCall(ctx, "refresh_token", map[string]string{
		"refresh_token": session.RefreshToken,
	})
	if err != nil {
		return nil, err
	}

	c.setSession(refreshed)
	return refreshed, nil
}

// tokenCall hits the token endpoint and normalizes the provider response into
// a Session.
func (c *Client) tokenCall(ctx context.Context, grant string, body map[string]string) (*Session, error) {
	var res struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
		User         struct {
			ID       string `json:"id"`
			Email    string `json:"email"`
			Metadata struct {
				Name string `json:"name"`
			} `json:"user_metadata"`
		} `json:"user"`
	}

	path := fmt.Sprintf("/auth/v1/token?grant_type=%s", grant)
	if err := c.do(ctx, "POST", path, "", body, &res); err != nil {
		return nil, err
	}
	if res.AccessToken == "" {
		return nil, errors.New("provider did not return a token", errors.Unauthorized())
	}

	return &Session{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(res.ExpiresIn) * time.Second),
		User: User{
			ID:    res.User.ID,
			Email: res.User.Email,
			Name:  res.User.Metadata.Name,
		},
	}, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader *bytes.Buffer
	if body != nil {
		reader = &bytes.Buffer{}
		if err := json.NewEncoder(reader).Encode(body); err != nil {
			return err
		}
	} else {
		reader = &bytes.Buffer{}
	}

	req, err := http.NewRequest(method, fmt.Sprintf("%s%s", c.baseURL, path), reader)
	if err != nil {
		return err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}

	res, err := c.client.Do(req)
	if err != nil {
		return errors.New("could not reach the identity provider", errors.Network(), errors.WithCause(err))
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		var callErr struct {
			Message     string `json:"msg"`
			Description string `json:"error_description"`
		}
		msg := fmt.Sprintf("auth call failed with status %d", res.StatusCode)
		if err := json.NewDecoder(res.Body).Decode(&callErr); err == nil {
			if callErr.Message != "" {
				msg = callErr.Message
			} else if callErr.Description != "" {
				msg = callErr.Description
			}
		}
		return errors.New(msg, errors.WithCode(res.StatusCode))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
