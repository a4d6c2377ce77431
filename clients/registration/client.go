package registration

import (
	"context"
	"strings"

	mcsc "github.com/tashrifatdiu/mcsc-client"
	"github.com/tashrifatdiu/mcsc-client/clients"
	"github.com/tashrifatdiu/mcsc-client/errors"
)

// Client talks to the club registration API: member sign up and the admin
// approval surface.
type Client struct {
	caller *clients.Caller
}

func NewClient(c clients.HTTPClient, baseURL string, tokens clients.TokenSource) *Client {
	return &Client{caller: clients.NewCaller(c, baseURL, tokens)}
}

// Register submits a membership request. The API answers 409 when the student
// code is already registered; that comes back as a conflict error so callers
// can tell "already a member" apart from a real failure.
func (c *Client) Register(ctx context.Context, r mcsc.Registration) (mcsc.Registration, error) {
	if err := validate(r); err != nil {
		return mcsc.Registration{}, err
	}

	var res struct {
		Registration mcsc.Registration `json:"registration"`
	}
	if err := c.caller.Do(ctx, "POST", "/api/registrations", r, &res); err != nil {
		return mcsc.Registration{}, err
	}
	return res.Registration, nil
}

// Status fetches a registration by student code, mostly to show the pending
// or approved state.
func (c *Client) Status(ctx context.Context, code string) (mcsc.Registration, error) {
	var res struct {
		Registration mcsc.Registration `json:"registration"`
	}
	if err := c.caller.Do(ctx, "GET", "/api/registrations/"+code, nil, &res); err != nil {
		return mcsc.Registration{}, err
	}
	return res.Registration, nil
}

// Pending lists unapproved registrations. Admin only.
func (c *Client) Pending(ctx context.Context) ([]mcsc.Registration, error) {
	var res struct {
		Registrations []mcsc.Registration `json:"registrations"`
	}
	if err := c.caller.Do(ctx, "GET", "/api/registrations?approved=false", nil, &res); err != nil {
		return nil, err
	}
	return res.Registrations, nil
}

// Approve flips a pending registration to approved. Admin only.
func (c *Client) Approve(ctx context.Context, code string) error {
	return c.caller.Do(ctx, "POST", "/api/registrations/"+code+"/approve", nil, nil)
}

// AdminLogin exchanges admin credentials for an access token scoped to the
// approval endpoints.
func (c *Client) AdminLogin(ctx context.Context, username, password string) (mcsc.Admin, string, error) {
	body := map[string]string{"username": username, "password": password}

	var res struct {
		Admin       mcsc.Admin `json:"admin"`
		AccessToken string     `json:"access_token"`
	}
	if err := c.caller.Do(ctx, "POST", "/api/admin/login", body, &res); err != nil {
		return mcsc.Admin{}, "", err
	}
	if res.AccessToken == "" {
		return mcsc.Admin{}, "", errors.New("login did not return a token", errors.Unauthorized())
	}
	return res.Admin, res.AccessToken, nil
}

// validate rejects incomplete submissions before they reach the network.
func validate(r mcsc.Registration) error {
	missing := make([]string, 0, 3)
	if strings.TrimSpace(r.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(r.Code) == "" {
		missing = append(missing, "code")
	}
	if strings.TrimSpace(r.Department) == "" {
		missing = append(missing, "department")
	}
	if len(missing) > 0 {
		return errors.New("missing required fields: "+strings.Join(missing, ", "), errors.BadRequest())
	}
	return nil
}
