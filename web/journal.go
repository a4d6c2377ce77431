package web

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	mcsc "github.com/tashrifatdiu/mcsc-client"
	"github.com/tashrifatdiu/mcsc-client/editor"
	"github.com/tashrifatdiu/mcsc-client/errors"
)

// JournalAPI is what the handler needs from the persistence client.
type JournalAPI interface {
	List(context.Context, mcsc.JournalFilters) ([]mcsc.Journal, error)
	Drafts(context.Context) ([]mcsc.Journal, error)
	Get(context.Context, string) (mcsc.Journal, error)
	Create(context.Context, editor.Payload) (string, error)
	Update(context.Context, string, editor.Payload) error
	Delete(context.Context, string) error
}

// Identity resolves the signed-in user for ownership checks.
type Identity interface {
	UserID(*gin.Context) string
}

// JournalHandler fronts the journal feature: listing, reading, editing and
// publishing. Bodies are normalized through an editing session before they
// are persisted, so stored HTML always satisfies the editor invariants.
type JournalHandler struct {
	API      JournalAPI
	Drafts   mcsc.DraftStore
	Index    mcsc.JournalIndex
	Identity Identity
	Renderer editor.MathRenderer

	f Formatter
}

func (h *JournalHandler) Register(router gin.IRouter) {
	router.GET("/journals", h.f.Wrap(h.List))
	router.GET("/journals/drafts", h.f.Wrap(h.ListDrafts))
	router.GET("/journals/search", h.f.Wrap(h.Search))
	router.GET("/journals/:id", h.f.Wrap(h.Get))
	router.POST("/journals", h.f.Wrap(h.Create))
	router.PUT("/journals/:id", h.f.Wrap(h.Update))
	router.POST("/journals/:id/publish", h.f.Wrap(h.Publish))
	router.DELETE("/journals/:id", h.f.Wrap(h.Delete))
}

func (h *JournalHandler) List(c *gin.Context) (interface{}, error) {
	var filters mcsc.JournalFilters
	filters.Limit, _ = strconv.Atoi(c.Query("limit"))
	filters.Skip, _ = strconv.Atoi(c.Query("skip"))
	filters.Mine = c.Query("mine") == "true"
	filters.AuthorID = c.Query("author")

	journals, err := h.API.List(c.Request.Context(), filters)
	if err != nil {
		return nil, err
	}

	// Keep the local index in step with what the API serves.
	if h.Index != nil {
		for i := range journals {
			h.Index.Index(&journals[i])
		}
	}

	return map[string]interface{}{"journals": journals}, nil
}

func (h *JournalHandler) ListDrafts(c *gin.Context) (interface{}, error) {
	journals, err := h.API.Drafts(c.Request.Context())
	if err != nil {
		if !errors.IsNetwork(err) {
			return nil, err
		}

		// Offline: serve the local cache instead.
		if h.Drafts == nil {
			return nil, err
		}
		cached, cerr := h.Drafts.List()
		if cerr != nil {
			return nil, err
		}
		journals = make([]mcsc.Journal, 0, len(cached))
		for _, j := range cached {
			journals = append(journals, *j)
		}
	}

	return map[string]interface{}{"journals": journals}, nil
}

func (h *JournalHandler) Search(c *gin.Context) (interface{}, error) {
	if h.Index == nil {
		return nil, errors.New("search is not configured", errors.WithCode(501))
	}

	search := mcsc.JournalSearch{Q: c.Query("q")}
	if limit, err := strconv.ParseUint(c.Query("limit"), 10, 64); err == nil {
		search.Limit = limit
	}
	if offset, err := strconv.ParseUint(c.Query("offset"), 10, 64); err == nil {
		search.Offset = offset
	}

	res, err := h.Index.Search(search)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"ids":   res.IDs,
		"total": res.Total,
	}, nil
}

func (h *JournalHandler) Get(c *gin.Context) (interface{}, error) {
	journal, err := h.API.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{"journal": journal}, nil
}

func (h *JournalHandler) Create(c *gin.Context) (interface{}, error) {
	payload, err := h.decodePayload(c)
	if err != nil {
		return nil, err
	}

	id, err := h.API.Create(c.Request.Context(), payload)
	if err != nil {
		return nil, err
	}

	h.cacheDraft(c, id, payload)
	return map[string]interface{}{"journal": map[string]string{"_id": id}}, nil
}

func (h *JournalHandler) Update(c *gin.Context) (interface{}, error) {
	id := c.Param("id")
	if err := h.checkOwnership(c, id); err != nil {
		return nil, err
	}

	payload, err := h.decodePayload(c)
	if err != nil {
		return nil, err
	}

	if err := h.API.Update(c.Request.Context(), id, payload); err != nil {
		return nil, err
	}

	h.cacheDraft(c, id, payload)
	return map[string]interface{}{"journal": map[string]string{"_id": id}}, nil
}

// Publish flips a draft to published after validating it.
func (h *JournalHandler) Publish(c *gin.Context) (interface{}, error) {
	id := c.Param("id")
	if err := h.checkOwnership(c, id); err != nil {
		return nil, err
	}

	journal, err := h.API.Get(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}

	session := editor.NewSession(h.Renderer)
	if err := session.Load(journalPayload(journal)); err != nil {
		return nil, err
	}

	auto := editor.NewAutosave(session, &apiSaver{api: h.API, id: id}, nil)
	defer auto.Stop()
	if _, err := auto.Publish(c.Request.Context()); err != nil {
		return nil, err
	}

	// A published journal no longer needs its local draft copy.
	if h.Drafts != nil {
		h.Drafts.Delete(id)
	}

	return map[string]interface{}{"journal": map[string]string{"_id": id}}, nil
}

func (h *JournalHandler) Delete(c *gin.Context) (interface{}, error) {
	id := c.Param("id")
	if err := h.checkOwnership(c, id); err != nil {
		return nil, err
	}

	if err := h.API.Delete(c.Request.Context(), id); err != nil {
		return nil, err
	}

	if h.Drafts != nil {
		h.Drafts.Delete(id)
	}
	if h.Index != nil {
		h.Index.Delete(id)
	}

	return map[string]interface{}{"deleted": id}, nil
}

// decodePayload reads the submitted document and runs it through an editing
// session: math markers get rendered and the body is normalized.
func (h *JournalHandler) decodePayload(c *gin.Context) (editor.Payload, error) {
	var payload editor.Payload
	if err := c.BindJSON(&payload); err != nil {
		return editor.Payload{}, errors.New("invalid journal payload", errors.BadRequest(), errors.WithCause(err))
	}

	session := editor.NewSession(h.Renderer)
	if err := session.Load(payload); err != nil {
		return editor.Payload{}, err
	}

	normalized := session.Assemble(payload.IsDraft)
	return normalized, nil
}

// checkOwnership rejects edits on journals the caller does not own. The API
// enforces this again; checking here gives a clean 403 instead of a failed
// round trip.
func (h *JournalHandler) checkOwnership(c *gin.Context, id string) error {
	if h.Identity == nil {
		return nil
	}

	userID := h.Identity.UserID(c)
	if userID == "" {
		return errors.New("you need to be logged in", errors.Unauthorized())
	}

	journal, err := h.API.Get(c.Request.Context(), id)
	if err != nil {
		// Let the write call surface the real error.
		return nil
	}
	if !journal.OwnedBy(userID) {
		return errors.New("this journal belongs to someone else", errors.Forbidden())
	}
	return nil
}

func (h *JournalHandler) cacheDraft(c *gin.Context, id string, p editor.Payload) {
	if h.Drafts == nil || !p.IsDraft {
		return
	}

	journal := &mcsc.Journal{
		ID:            id,
		Title:         p.Title,
		BodyHTML:      p.BodyHTML,
		FontFamily:    p.FontFamily,
		Color:         p.Color,
		LatexSnippets: p.LatexSnippets,
		Images:        p.Images,
		Citations:     p.Citations,
		Footnotes:     p.Footnotes,
		IsDraft:       true,
	}
	if h.Identity != nil {
		journal.AuthorID = h.Identity.UserID(c)
	}
	h.Drafts.Upsert(journal)
}

func journalPayload(j mcsc.Journal) editor.Payload {
	return editor.Payload{
		Title:         j.Title,
		FontFamily:    j.FontFamily,
		Color:         j.Color,
		BodyHTML:      j.BodyHTML,
		LatexSnippets: j.LatexSnippets,
		Images:        j.Images,
		Citations:     j.Citations,
		Footnotes:     j.Footnotes,
		IsDraft:       j.IsDraft,
	}
}

// apiSaver adapts the API client to the editor saver for one journal.
type apiSaver struct {
	api JournalAPI
	id  string
}

func (s *apiSaver) Create(ctx context.Context, p editor.Payload) (string, error) {
	if s.id != "" {
		return s.id, s.api.Update(ctx, s.id, p)
	}
	return s.api.Create(ctx, p)
}

func (s *apiSaver) Update(ctx context.Context, id string, p editor.Payload) error {
	return s.api.Update(ctx, id, p)
}
