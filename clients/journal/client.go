package journal

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	mcsc "github.com/tashrifatdiu/mcsc-client"
	"github.com/tashrifatdiu/mcsc-client/clients"
	"github.com/tashrifatdiu/mcsc-client/editor"
	"github.com/tashrifatdiu/mcsc-client/errors"
)

// Client talks to the journal persistence API. It implements editor.Saver so
// the autosave controller can drive it directly.
type Client struct {
	caller *clients.Caller
}

func NewClient(c clients.HTTPClient, baseURL string, tokens clients.TokenSource) *Client {
	return &Client{caller: clients.NewCaller(c, baseURL, tokens)}
}

// List fetches journals. Filters translate to query parameters; the zero
// filter lists every published journal.
func (c *Client) List(ctx context.Context, f mcsc.JournalFilters) ([]mcsc.Journal, error) {
	q := url.Values{}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Skip > 0 {
		q.Set("skip", strconv.Itoa(f.Skip))
	}
	if f.Mine {
		q.Set("mine", "true")
	}
	if f.AuthorID != "" {
		q.Set("author", f.AuthorID)
	}

	path := "/api/journals"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var res struct {
		Journals []mcsc.Journal `json:"journals"`
	}
	if err := c.caller.Do(ctx, "GET", path, nil, &res); err != nil {
		return nil, err
	}
	return res.Journals, nil
}

// Drafts lists the caller's unpublished journals. Requires a token.
func (c *Client) Drafts(ctx context.Context) ([]mcsc.Journal, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}

	var res struct {
		Journals []mcsc.Journal `json:"journals"`
	}
	if err := c.caller.Do(ctx, "GET", "/api/journals/drafts", nil, &res); err != nil {
		return nil, err
	}
	return res.Journals, nil
}

// Get fetches one journal by id.
func (c *Client) Get(ctx context.Context, id string) (mcsc.Journal, error) {
	var res struct {
		Journal mcsc.Journal `json:"journal"`
	}
	if err := c.caller.Do(ctx, "GET", fmt.Sprintf("/api/journals/%s", id), nil, &res); err != nil {
		return mcsc.Journal{}, err
	}
	return res.Journal, nil
}

// Create persists a new journal and returns its assigned identity.
func (c *Client) Create(ctx context.Context, p editor.Payload) (string, error) {
	if err := c.requireToken(); err != nil {
		return "", err
	}

	var res struct {
		Journal mcsc.Journal `json:"journal"`
	}
	if err := c.caller.Do(ctx, "POST", "/api/journals", p, &res); err != nil {
		return "", err
	}
	if res.Journal.ID == "" {
		return "", errors.New("api did not return a journal id")
	}
	return res.Journal.ID, nil
}

// Update overwrites an existing journal.
func (c *Client) Update(ctx context.Context, id string, p editor.Payload) error {
	if err := c.requireToken(); err != nil {
		return err
	}
	return c.caller.Do(ctx, "PUT", fmt.Sprintf("/api/journals/%s", id), p, nil)
}

// Delete removes a journal.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.requireToken(); err != nil {
		return err
	}
	return c.caller.Do(ctx, "DELETE", fmt.Sprintf("/api/journals/%s", id), nil, nil)
}

// requireToken rejects write calls locally when no session token is
// available, so an expired session fails fast instead of burning a round
// trip.
func (c *Client) requireToken() error {
	if c.caller.Tokens == nil {
		return errors.New("you need to be logged in", errors.Unauthorized())
	}
	token, err := c.caller.Tokens.AccessToken()
	if err != nil {
		return err
	}
	if token == "" {
		return errors.New("you need to be logged in", errors.Unauthorized())
	}
	return nil
}
