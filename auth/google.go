package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/tashrifatdiu/mcsc-client/errors"
)

var (
	googleEndpoint = google.Endpoint
	userInfoURL    = "https://www.googleapis.com/oauth2/v3/userinfo"
	googleScopes   = []string{
		"https://www.googleapis.com/auth/userinfo.email",
		"https://www.googleapis.com/auth/userinfo.profile",
	}
)

type googleUser struct {
	GoogleID string `json:"sub"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// GoogleCredentials is the OAuth application registration.
type GoogleCredentials struct {
	ClientID     string `json:"client_id" toml:"client_id"`
	ClientSecret string `json:"client_secret" toml:"client_secret"`
	RedirectURL  string `json:"redirect_url" toml:"redirect_url"`
}

// GoogleService runs the Google sign-in dance and trades the resulting
// identity token for a provider session.
type GoogleService struct {
	authClient *Client
	config     oauth2.Config

	stateMutex sync.Locker
	state      map[string]struct{}
}

func NewGoogleService(creds GoogleCredentials, authClient *Client) *GoogleService {
	return &GoogleService{
		authClient: authClient,
		config: oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  creds.RedirectURL,
			Scopes:       googleScopes,
			Endpoint:     googleEndpoint,
		},

		stateMutex: &sync.Mutex{},
		state:      make(map[string]struct{}),
	}
}

// LoginURL mints a one-time state token and returns the consent page URL.
func (s *GoogleService) LoginURL() string {
	state := randToken(32)
	s.stateMutex.Lock()
	s.state[state] = struct{}{}
	s.stateMutex.Unlock()

	return s.config.AuthCodeURL(state)
}

// Login handles the OAuth callback: checks the state, exchanges the code and
// signs the Google identity into the provider.
func (s *GoogleService) Login(ctx context.Context, state, code string) (*Session, error) {
	s.stateMutex.Lock()
	_, ok := s.state[state]
	s.stateMutex.Unlock() // no defer because the token exchange could be long

	if !ok {
		return nil, errors.New("invalid state", errors.BadRequest())
	}

	s.stateMutex.Lock()
	delete(s.state, state)
	s.stateMutex.Unlock()

	tok, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, errors.New("could not exchange code", errors.Unauthorized(), errors.WithCause(err))
	}

	gUser, err := s.retrieveGoogleUser(ctx, tok)
	if err != nil {
		return nil, err
	}

	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		return nil, errors.New("no identity token in the exchange", errors.Unauthorized())
	}

	session, err := s.authClient.tokenCall(ctx, "id_token", map[string]string{
		"id_token": idToken,
		"provider": "google",
	})
	if err != nil {
		return nil, err
	}

	if session.User.Name == "" {
		session.User.Name = gUser.Name
	}
	if session.User.Email == "" {
		session.User.Email = gUser.Email
	}
	s.authClient.setSession(session)
	return session, nil
}

func (s *GoogleService) retrieveGoogleUser(ctx context.Context, tok *oauth2.Token) (googleUser, error) {
	client := s.config.Client(ctx, tok)
	res, err := client.Get(userInfoURL)
	if err != nil {
		return googleUser{}, errors.New("could not retrieve user info", errors.Network(), errors.WithCause(err))
	}
	defer res.Body.Close()

	var gUser googleUser
	if err := json.NewDecoder(res.Body).Decode(&gUser); err != nil {
		return googleUser{}, err
	}
	return gUser, nil
}

func randToken(l int) string {
	b := make([]byte, l)
	rand.Read(b)
	return base64.StdEncoding.EncodeToString(b)
}
