package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	jwtgo "github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcsc "github.com/tashrifatdiu/mcsc-client"
	"github.com/tashrifatdiu/mcsc-client/editor"
	"github.com/tashrifatdiu/mcsc-client/errors"
	"github.com/tashrifatdiu/mcsc-client/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAPI struct {
	journals map[string]mcsc.Journal
	nextID   int
	listErr  error
}

func newFakeAPI(journals ...mcsc.Journal) *fakeAPI {
	api := &fakeAPI{journals: map[string]mcsc.Journal{}}
	for _, j := range journals {
		api.journals[j.ID] = j
	}
	return api
}

func (a *fakeAPI) List(ctx context.Context, f mcsc.JournalFilters) ([]mcsc.Journal, error) {
	if a.listErr != nil {
		return nil, a.listErr
	}
	out := make([]mcsc.Journal, 0, len(a.journals))
	for _, j := range a.journals {
		if !j.IsDraft {
			out = append(out, j)
		}
	}
	return out, nil
}

func (a *fakeAPI) Drafts(ctx context.Context) ([]mcsc.Journal, error) {
	out := []mcsc.Journal{}
	for _, j := range a.journals {
		if j.IsDraft {
			out = append(out, j)
		}
	}
	return out, nil
}

func (a *fakeAPI) Get(ctx context.Context, id string) (mcsc.Journal, error) {
	j, ok := a.journals[id]
	if !ok {
		return mcsc.Journal{}, errors.New("journal not found", errors.NotFound())
	}
	return j, nil
}

func (a *fakeAPI) Create(ctx context.Context, p editor.Payload) (string, error) {
	a.nextID++
	id := "j-" + strconv.Itoa(a.nextID)
	a.journals[id] = mcsc.Journal{ID: id, Title: p.Title, BodyHTML: p.BodyHTML, IsDraft: p.IsDraft, AuthorID: "u-1"}
	return id, nil
}

func (a *fakeAPI) Update(ctx context.Context, id string, p editor.Payload) error {
	j, ok := a.journals[id]
	if !ok {
		return errors.New("journal not found", errors.NotFound())
	}
	j.Title = p.Title
	j.BodyHTML = p.BodyHTML
	j.IsDraft = p.IsDraft
	a.journals[id] = j
	return nil
}

func (a *fakeAPI) Delete(ctx context.Context, id string) error {
	if _, ok := a.journals[id]; !ok {
		return errors.New("journal not found", errors.NotFound())
	}
	delete(a.journals, id)
	return nil
}

func token(t *testing.T, userID string) string {
	t.Helper()
	tok := jwtgo.NewWithClaims(jwtgo.SigningMethodHS256, jwtgo.StandardClaims{
		Subject:   userID,
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return signed
}

func newTestServer(api *fakeAPI) http.Handler {
	return NewServer(Config{
		Journals: api,
		Drafts:   &mock.DraftStore{},
		JWTKey:   []byte("test-key"),
	})
}

func do(t *testing.T, h http.Handler, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestListJournals(t *testing.T) {
	api := newFakeAPI(
		mcsc.Journal{ID: "a", Title: "Published"},
		mcsc.Journal{ID: "b", Title: "Hidden", IsDraft: true},
	)
	srv := newTestServer(api)

	w := do(t, srv, "GET", "/api/journals", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Journals []mcsc.Journal `json:"journals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Journals, 1)
	assert.Equal(t, "Published", res.Journals[0].Title)
}

func TestListJournalsAPIDown(t *testing.T) {
	api := newFakeAPI()
	api.listErr = errors.New("could not reach the api", errors.Network())
	srv := newTestServer(api)

	// A network error carries code 0, which is not a writable HTTP status.
	// An outage must come back as a gateway error, never a 200.
	w := do(t, srv, "GET", "/api/journals", "", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "could not reach the api")
}

func TestGetJournalNotFound(t *testing.T) {
	srv := newTestServer(newFakeAPI())

	w := do(t, srv, "GET", "/api/journals/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "journal not found")
}

func TestCreateJournalNormalizesBody(t *testing.T) {
	api := newFakeAPI()
	srv := newTestServer(api)

	w := do(t, srv, "POST", "/api/journals", token(t, "u-1"), editor.Payload{
		Title:    "Fresh",
		BodyHTML: "",
		IsDraft:  true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	created := api.journals["j-1"]
	// An empty body is normalized to an editable paragraph.
	assert.Equal(t, "<p><br/></p>", created.BodyHTML)
}

func TestUpdateForeignJournalForbidden(t *testing.T) {
	api := newFakeAPI(mcsc.Journal{ID: "a", Title: "Theirs", AuthorID: "someone-else"})
	srv := newTestServer(api)

	w := do(t, srv, "PUT", "/api/journals/a", token(t, "u-1"), editor.Payload{Title: "Hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Theirs", api.journals["a"].Title)
}

func TestUpdateWithoutTokenUnauthorized(t *testing.T) {
	api := newFakeAPI(mcsc.Journal{ID: "a", AuthorID: "u-1"})
	srv := newTestServer(api)

	w := do(t, srv, "PUT", "/api/journals/a", "", editor.Payload{Title: "Anon"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPublish(t *testing.T) {
	api := newFakeAPI(mcsc.Journal{
		ID:       "a",
		Title:    "Ready",
		BodyHTML: "<p>Complete text.</p>",
		AuthorID: "u-1",
		IsDraft:  true,
	})
	srv := newTestServer(api)

	w := do(t, srv, "POST", "/api/journals/a/publish", token(t, "u-1"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, api.journals["a"].IsDraft)
}

func TestPublishUntitledRejected(t *testing.T) {
	api := newFakeAPI(mcsc.Journal{
		ID:       "a",
		Title:    "",
		BodyHTML: "<p>text</p>",
		AuthorID: "u-1",
		IsDraft:  true,
	})
	srv := newTestServer(api)

	w := do(t, srv, "POST", "/api/journals/a/publish", token(t, "u-1"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, api.journals["a"].IsDraft)
}

func TestDeleteJournal(t *testing.T) {
	api := newFakeAPI(mcsc.Journal{ID: "a", AuthorID: "u-1"})
	srv := newTestServer(api)

	w := do(t, srv, "DELETE", "/api/journals/a", token(t, "u-1"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, api.journals, "a")
}

func TestSessionMe(t *testing.T) {
	srv := newTestServer(newFakeAPI())

	w := do(t, srv, "GET", "/session/me", token(t, "u-1"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u-1")
}

func TestSessionMeWithoutToken(t *testing.T) {
	srv := newTestServer(newFakeAPI())

	w := do(t, srv, "GET", "/session/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionMeBadSignature(t *testing.T) {
	srv := newTestServer(newFakeAPI())

	tok := jwtgo.NewWithClaims(jwtgo.SigningMethodHS256, jwtgo.StandardClaims{Subject: "u-1"})
	signed, err := tok.SignedString([]byte("wrong-key"))
	require.NoError(t, err)

	w := do(t, srv, "GET", "/session/me", signed, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
