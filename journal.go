package mcsc

import (
	"time"
)

// Journal is the unit of authorship in the club's publishing feature. The
// identity is assigned by the persistence API on the first successful save and
// never changes afterwards.
type Journal struct {
	ID    string `json:"_id"`
	Title string `json:"title"`

	BodyHTML   string `json:"bodyHtml"`
	FontFamily string `json:"fontFamily"`
	Color      string `json:"color"`

	// Side lists, referenced by index from inline markers in BodyHTML.
	// Append-only during an editing session.
	LatexSnippets []string `json:"latexSnippets"`
	Images        []string `json:"images"`
	Citations     []string `json:"citations"`
	Footnotes     []string `json:"footnotes"`

	IsDraft bool `json:"isDraft"`

	AuthorID    string `json:"authorId"`
	AuthorName  string `json:"authorName,omitempty"`
	AuthorEmail string `json:"authorEmail,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OwnedBy reports whether userID may edit or delete the journal. The check is
// advisory: the API enforces it again server-side.
func (j *Journal) OwnedBy(userID string) bool {
	return j.AuthorID != "" && userID != "" && j.AuthorID == userID
}

type JournalFilters struct {
	Limit    int    `json:"limit"`
	Skip     int    `json:"skip"`
	Mine     bool   `json:"mine"`
	AuthorID string `json:"authorId"`
}

type JournalSearch struct {
	Q string `json:"q"`

	Limit  uint64 `json:"limit"`
	Offset uint64 `json:"offset"`
}

type JournalSearchResults struct {
	IDs []string

	Total uint64
}

// DraftStore caches the last assembled payload of each journal locally, so
// drafts survive a crash and can be listed without hitting the API.
type DraftStore interface {
	Get(string) (*Journal, error)
	List() ([]*Journal, error)
	Upsert(*Journal) error
	Delete(string) error
}

// JournalIndex is a local full-text index over fetched journals.
type JournalIndex interface {
	Index(*Journal) error
	Search(JournalSearch) (JournalSearchResults, error)
	Delete(string) error
}
