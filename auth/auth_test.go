package auth

import (
	"bytes"
	"context"
	"io/ioutil"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tashrifatdiu/mcsc-client/errors"
)

type stub struct {
	status int
	body   string
	err    error

	reqs []*http.Request
}

func (s *stub) Do(req *http.Request) (*http.Response, error) {
	s.reqs = append(s.reqs, req)
	if s.err != nil {
		return nil, s.err
	}
	return &http.Response{
		StatusCode: s.status,
		Body:       ioutil.NopCloser(bytes.NewBufferString(s.body)),
	}, nil
}

type memStore struct {
	session *Session
}

func (m *memStore) Load() (*Session, error) { return m.session, nil }
func (m *memStore) Save(s *Session) error   { m.session = s; return nil }
func (m *memStore) Clear() error            { m.session = nil; return nil }

const sessionBody = `{
	"access_token": "at-1",
	"refresh_token": "rt-1",
	"expires_in": 3600,
	"user": {"id": "u-1", "email": "t@diu.edu.bd", "user_metadata": {"name": "Tamanna"}}
}`

func TestSignIn(t *testing.T) {
	s := &stub{status: 200, body: sessionBody}
	store := &memStore{}
	c := NewClient(s, "https://id.test", "anon-key", store)

	var notified []*Session
	c.OnChange(func(sess *Session) { notified = append(notified, sess) })

	session, err := c.SignIn(context.Background(), "t@diu.edu.bd", "secret")
	require.NoError(t, err)
	assert.Equal(t, "at-1", session.AccessToken)
	assert.Equal(t, "Tamanna", session.User.Name)

	require.Len(t, s.reqs, 1)
	assert.Equal(t, "password", s.reqs[0].URL.Query().Get("grant_type"))
	assert.Equal(t, "anon-key", s.reqs[0].Header.Get("apikey"))

	// The session is persisted and subscribers hear about it.
	assert.Equal(t, session, store.session)
	require.Len(t, notified, 1)
	assert.Equal(t, session, notified[0])
}

func TestSignInBadCredentials(t *testing.T) {
	s := &stub{status: 400, body: `{"error_description":"Invalid login credentials"}`}
	c := NewClient(s, "https://id.test", "anon-key", nil)

	_, err := c.SignIn(context.Background(), "t@diu.edu.bd", "wrong")
	errors.AssertCode(t, err, 400)
	assert.Contains(t, err.Error(), "Invalid login credentials")
	assert.Nil(t, c.Session())
}

func TestSignInNetworkDown(t *testing.T) {
	s := &stub{err: assert.AnError}
	c := NewClient(s, "https://id.test", "anon-key", nil)

	_, err := c.SignIn(context.Background(), "t@diu.edu.bd", "secret")
	require.Error(t, err)
	assert.True(t, errors.IsNetwork(err))
}

func TestNewClientRestoresStoredSession(t *testing.T) {
	store := &memStore{session: &Session{
		AccessToken: "stored",
		ExpiresAt:   time.Now().Add(time.Hour),
		User:        User{ID: "u-1"},
	}}
	c := NewClient(&stub{}, "https://id.test", "anon-key", store)

	token, err := c.AccessToken()
	require.NoError(t, err)
	assert.Equal(t, "stored", token)
}

func TestCurrentUserSignedOut(t *testing.T) {
	c := NewClient(&stub{}, "https://id.test", "anon-key", nil)

	user, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestCurrentUser(t *testing.T) {
	store := &memStore{session: &Session{
		AccessToken: "at",
		ExpiresAt:   time.Now().Add(time.Hour),
		User:        User{ID: "u-1", Email: "t@diu.edu.bd"},
	}}
	c := NewClient(&stub{}, "https://id.test", "anon-key", store)

	user, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u-1", user.ID)
}

func TestCurrentUserRefreshesExpiredSession(t *testing.T) {
	s := &stub{status: 200, body: sessionBody}
	store := &memStore{session: &Session{
		AccessToken:  "old",
		RefreshToken: "rt-0",
		ExpiresAt:    time.Now().Add(-time.Hour),
		User:         User{ID: "u-1"},
	}}
	c := NewClient(s, "https://id.test", "anon-key", store)

	user, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	require.NotNil(t, user)

	require.Len(t, s.reqs, 1)
	assert.Equal(t, "refresh_token", s.reqs[0].URL.Query().Get("grant_type"))
	assert.Equal(t, "at-1", c.Session().AccessToken)
}

func TestCurrentUserDegradesOnFailedRefresh(t *testing.T) {
	s := &stub{status: 401, body: `{"msg":"refresh token revoked"}`}
	store := &memStore{session: &Session{
		AccessToken:  "old",
		RefreshToken: "rt-0",
		ExpiresAt:    time.Now().Add(-time.Hour),
	}}
	c := NewClient(s, "https://id.test", "anon-key", store)

	// A dead session renders as signed out, never as an error page.
	user, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Nil(t, store.session)
}

func TestAccessTokenSignedOut(t *testing.T) {
	c := NewClient(&stub{}, "https://id.test", "anon-key", nil)

	token, err := c.AccessToken()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestSignOut(t *testing.T) {
	s := &stub{status: 200, body: `{}`}
	store := &memStore{session: &Session{
		AccessToken: "at",
		ExpiresAt:   time.Now().Add(time.Hour),
	}}
	c := NewClient(s, "https://id.test", "anon-key", store)

	var last *Session = &Session{}
	c.OnChange(func(sess *Session) { last = sess })

	require.NoError(t, c.SignOut(context.Background()))
	assert.Nil(t, c.Session())
	assert.Nil(t, store.session)
	assert.Nil(t, last)
}

func TestSignOutClearsLocallyOnServerError(t *testing.T) {
	s := &stub{status: 500, body: `{}`}
	store := &memStore{session: &Session{
		AccessToken: "at",
		ExpiresAt:   time.Now().Add(time.Hour),
	}}
	c := NewClient(s, "https://id.test", "anon-key", store)

	err := c.SignOut(context.Background())
	require.Error(t, err)
	assert.Nil(t, c.Session())
}

func TestSignUp(t *testing.T) {
	s := &stub{status: 200, body: `{"id":"u-2"}`}
	c := NewClient(s, "https://id.test", "anon-key", nil)

	require.NoError(t, c.SignUp(context.Background(), "new@diu.edu.bd", "secret", "New Member"))
	require.Len(t, s.reqs, 1)
	assert.Equal(t, "/auth/v1/signup", s.reqs[0].URL.Path)

	// Signing up does not sign in.
	assert.Nil(t, c.Session())
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	for name, tt := range map[string]struct {
		at      time.Time
		expired bool
	}{
		"future":      {at: now.Add(time.Hour), expired: false},
		"past":        {at: now.Add(-time.Hour), expired: true},
		"almost over": {at: now.Add(30 * time.Second), expired: true},
	} {
		t.Run(name, func(t *testing.T) {
			s := Session{ExpiresAt: tt.at}
			assert.Equal(t, tt.expired, s.Expired(now))
		})
	}
}
