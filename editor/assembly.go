package editor

import (
	"strings"
	"sync"
)

// Style carries the journal-level presentation settings.
type Style struct {
	FontFamily string `json:"fontFamily"`
	Color      string `json:"color"`
}

// DefaultStyle is what a fresh journal starts with.
func DefaultStyle() Style {
	return Style{FontFamily: "Georgia, serif", Color: "#1a1a1a"}
}

// SideLists accumulates the out-of-band content referenced from the body:
// latex snippets, image URLs, citations and footnotes. Append methods return
// the 1-based index used by the in-body reference markers.
type SideLists struct {
	mu        sync.Mutex
	latex     []string
	images    []string
	citations []string
	footnotes []string
}

func (l *SideLists) AppendLatex(src string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.latex = append(l.latex, src)
	return len(l.latex)
}

func (l *SideLists) AppendImage(url string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.images = append(l.images, url)
	return len(l.images)
}

func (l *SideLists) AppendCitation(text string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.citations = append(l.citations, text)
	return len(l.citations)
}

func (l *SideLists) AppendFootnote(text string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.footnotes = append(l.footnotes, text)
	return len(l.footnotes)
}

func (l *SideLists) Latex() []string     { l.mu.Lock(); defer l.mu.Unlock(); return clone(l.latex) }
func (l *SideLists) Images() []string    { l.mu.Lock(); defer l.mu.Unlock(); return clone(l.images) }
func (l *SideLists) Citations() []string { l.mu.Lock(); defer l.mu.Unlock(); return clone(l.citations) }
func (l *SideLists) Footnotes() []string { l.mu.Lock(); defer l.mu.Unlock(); return clone(l.footnotes) }

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// Payload is the wire form of an assembled document. Field names match the
// persistence API exactly.
type Payload struct {
	Title         string   `json:"title"`
	FontFamily    string   `json:"fontFamily"`
	Color         string   `json:"color"`
	BodyHTML      string   `json:"bodyHtml"`
	LatexSnippets []string `json:"latexSnippets"`
	Images        []string `json:"images"`
	Citations     []string `json:"citations"`
	Footnotes     []string `json:"footnotes"`
	IsDraft       bool     `json:"isDraft"`
}

// Blank reports whether the payload has neither a title nor visible body
// text. Blank payloads are never worth a network round trip.
func (p Payload) Blank() bool {
	return strings.TrimSpace(p.Title) == "" && !hasVisibleText(p.BodyHTML)
}

func hasVisibleText(bodyHTML string) bool {
	nodes, err := parseFragment(bodyHTML)
	if err != nil {
		return strings.TrimSpace(bodyHTML) != ""
	}
	for _, n := range nodes {
		if strings.TrimSpace(textContent(n)) != "" {
			return true
		}
	}
	return false
}

// A Session ties together one editing surface, its title and style, and the
// side lists. It is the unit the dispatcher and the autosave controller work
// against.
type Session struct {
	mu      sync.Mutex
	surface *Surface
	title   string
	style   Style
	lists   *SideLists

	renderer MathRenderer
	onDirty  []func()
}

// NewSession opens an empty editing session.
func NewSession(renderer MathRenderer) *Session {
	if renderer == nil {
		renderer = MathML()
	}
	s := &Session{
		surface:  NewSurface(),
		style:    DefaultStyle(),
		lists:    &SideLists{},
		renderer: renderer,
	}
	s.surface.OnMutate(s.MarkDirty)
	return s
}

func (s *Session) Surface() *Surface { return s.surface }
func (s *Session) Lists() *SideLists { return s.lists }

func (s *Session) Title() string { s.mu.Lock(); defer s.mu.Unlock(); return s.title }

func (s *Session) SetTitle(title string) {
	s.mu.Lock()
	changed := s.title != title
	s.title = title
	s.mu.Unlock()
	if changed {
		s.MarkDirty()
	}
}

func (s *Session) Style() Style { s.mu.Lock(); defer s.mu.Unlock(); return s.style }

func (s *Session) SetStyle(style Style) {
	s.mu.Lock()
	changed := s.style != style
	s.style = style
	s.mu.Unlock()
	if changed {
		s.MarkDirty()
	}
}

// OnDirty registers a callback fired on every content mutation. The autosave
// controller hooks in here.
func (s *Session) OnDirty(f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDirty = append(s.onDirty, f)
}

// MarkDirty fires the dirty callbacks. Engines call it through the surface
// mutation hook; the dispatcher calls it directly for prompt-driven actions.
func (s *Session) MarkDirty() {
	s.mu.Lock()
	hooks := make([]func(), len(s.onDirty))
	copy(hooks, s.onDirty)
	s.mu.Unlock()
	for _, f := range hooks {
		f()
	}
}

// Assemble snapshots the session into a persistence payload. The surface is
// normalized first so the stored body always ends with an editable paragraph.
func (s *Session) Assemble(isDraft bool) Payload {
	s.surface.EnsureContent()

	s.mu.Lock()
	title, style := s.title, s.style
	s.mu.Unlock()

	return Payload{
		Title:         title,
		FontFamily:    style.FontFamily,
		Color:         style.Color,
		BodyHTML:      s.surface.HTML(),
		LatexSnippets: s.lists.Latex(),
		Images:        s.lists.Images(),
		Citations:     s.lists.Citations(),
		Footnotes:     s.lists.Footnotes(),
		IsDraft:       isDraft,
	}
}

// Load replaces the session content with a stored payload and re-renders the
// math markers, so documents saved before a renderer change still display.
// Loading does not mark the session dirty.
func (s *Session) Load(p Payload) error {
	if err := s.surface.SetHTML(p.BodyHTML); err != nil {
		return err
	}
	RenderMath(s.surface.Root(), s.renderer)
	s.surface.EnsureContent()

	s.mu.Lock()
	s.title = p.Title
	s.style = Style{FontFamily: p.FontFamily, Color: p.Color}
	if s.style.FontFamily == "" && s.style.Color == "" {
		s.style = DefaultStyle()
	}
	s.mu.Unlock()

	s.lists.mu.Lock()
	s.lists.latex = clone(p.LatexSnippets)
	s.lists.images = clone(p.Images)
	s.lists.citations = clone(p.Citations)
	s.lists.footnotes = clone(p.Footnotes)
	s.lists.mu.Unlock()

	return nil
}
