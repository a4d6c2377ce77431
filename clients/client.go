package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tashrifatdiu/mcsc-client/errors"
)

// HTTPClient is the transport the API clients speak through. *http.Client
// satisfies it; tests plug a stub.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// A TokenSource supplies the bearer token for authenticated calls. The auth
// store implements it; an empty token means the call goes out anonymous.
type TokenSource interface {
	AccessToken() (string, error)
}

// StaticToken is a fixed-token source, used by the CLI once a session is
// loaded.
type StaticToken string

func (t StaticToken) AccessToken() (string, error) { return string(t), nil }

// Caller bundles the transport, base URL and token source shared by all API
// clients.
type Caller struct {
	BaseURL string
	Client  HTTPClient
	Tokens  TokenSource
}

func NewCaller(c HTTPClient, baseURL string, tokens TokenSource) *Caller {
	if c == nil {
		c = http.DefaultClient
	}
	return &Caller{BaseURL: baseURL, Client: c, Tokens: tokens}
}

// Do runs one JSON call: encodes body when non-nil, attaches the bearer token
// when one is available, maps non-2xx statuses onto coded errors and decodes
// the response into out when non-nil.
func (c *Caller) Do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return err
		}
		reader = buf
	}

	req, err := http.NewRequest(method, fmt.Sprintf("%s%s", c.BaseURL, path), reader)
	if err != nil {
		return err
	}
	req = req.WithContext(ctx)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.Tokens != nil {
		token, err := c.Tokens.AccessToken()
		if err != nil {
			return err
		}
		if token != "" {
			req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		}
	}

	res, err := c.Client.Do(req)
	if err != nil {
		return errors.New("could not reach the api", errors.Network(), errors.WithCause(err))
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return decodeError(res)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return errors.New("could not decode response", errors.WithCause(err))
	}
	return nil
}

// decodeError maps an API error response to a coded error. The api answers
// with {"message": "..."} or {"error": "..."}; an unreadable body still keeps
// the status code.
func decodeError(res *http.Response) error {
	var callErr struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}

	msg := fmt.Sprintf("api call failed with status %d", res.StatusCode)
	if err := json.NewDecoder(res.Body).Decode(&callErr); err == nil {
		if callErr.Message != "" {
			msg = callErr.Message
		} else if callErr.Error != "" {
			msg = callErr.Error
		}
	}

	return errors.New(msg, errors.WithCode(res.StatusCode))
}
