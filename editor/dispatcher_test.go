package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answers(replies map[string]string) Prompter {
	return PrompterFunc(func(label, placeholder string) (string, bool) {
		v, ok := replies[label]
		return v, ok
	})
}

func sessionWithBody(t *testing.T, body string) *Session {
	t.Helper()
	s := NewSession(nil)
	require.NoError(t, s.Surface().SetHTML(body))
	return s
}

func TestNormalizeChord(t *testing.T) {
	for name, tt := range map[string]struct {
		in   string
		want string
	}{
		"ctrl":          {in: "Ctrl+B", want: "mod+b"},
		"cmd":           {in: "Cmd+b", want: "mod+b"},
		"meta":          {in: "meta+shift+C", want: "mod+shift+c"},
		"reordered":     {in: "shift+ctrl+c", want: "mod+shift+c"},
		"already mod":   {in: "mod+i", want: "mod+i"},
		"dot key":       {in: "ctrl+shift+.", want: "mod+shift+."},
		"bare key":      {in: "B", want: "b"},
		"padded":        {in: "  ctrl+u ", want: "mod+u"},
		"plus as a key": {in: "ctrl++", want: "mod++"},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeChord(tt.in))
		})
	}
}

func TestKeystroke(t *testing.T) {
	session := sessionWithBody(t, "<p>Hello</p>")
	session.Surface().SelectContents(firstElement(session.Surface().Root(), "p"))
	d := NewDispatcher(session, Config{})

	require.True(t, d.Keystroke("Ctrl+B"))
	assert.NotNil(t, firstElement(session.Surface().Root(), "strong"))
	assert.True(t, d.IsActive(ActionBold))
}

func TestKeystrokeUnknownChord(t *testing.T) {
	session := sessionWithBody(t, "<p>Hello</p>")
	d := NewDispatcher(session, Config{})
	before := session.Surface().HTML()

	assert.False(t, d.Keystroke("ctrl+q"))
	assert.Equal(t, before, session.Surface().HTML())
}

func TestHandleUnknownAction(t *testing.T) {
	session := sessionWithBody(t, "<p>Hello</p>")
	d := NewDispatcher(session, Config{})
	before := session.Surface().HTML()

	d.Handle(Action("bogus"))
	assert.Equal(t, before, session.Surface().HTML())
}

func TestHandleBlockActions(t *testing.T) {
	for name, tt := range map[string]struct {
		action Action
		tag    string
	}{
		"h1":    {action: ActionH1, tag: "h1"},
		"h2":    {action: ActionH2, tag: "h2"},
		"h3":    {action: ActionH3, tag: "h3"},
		"quote": {action: ActionQuote, tag: "blockquote"},
	} {
		t.Run(name, func(t *testing.T) {
			session := sessionWithBody(t, "<p>Hello</p>")
			session.Surface().SelectContents(firstElement(session.Surface().Root(), "p"))
			d := NewDispatcher(session, Config{})

			d.Handle(tt.action)
			assert.NotNil(t, firstElement(session.Surface().Root(), tt.tag))
			assert.True(t, d.IsActive(tt.action))
		})
	}
}

func TestHandleLatex(t *testing.T) {
	session := sessionWithBody(t, "<p>area</p>")
	session.Surface().SelectContents(firstElement(session.Surface().Root(), "p"))

	d := NewDispatcher(session, Config{
		Prompter: answers(map[string]string{"Enter LaTeX expression:": `\pi r^2`}),
	})
	d.Handle(ActionLatex)

	markers := mathMarkers(session.Surface().Root())
	require.Len(t, markers, 1)
	assert.Equal(t, `\pi r^2`, RawSource(markers[0]))
	assert.NotNil(t, firstElement(markers[0], "math"))
	assert.Equal(t, []string{`\pi r^2`}, session.Lists().Latex())
}

func TestHandleLatexCancelled(t *testing.T) {
	session := sessionWithBody(t, "<p>area</p>")
	d := NewDispatcher(session, Config{
		Prompter: answers(map[string]string{}), // every prompt cancelled
	})
	before := session.Surface().HTML()

	d.Handle(ActionLatex)
	assert.Equal(t, before, session.Surface().HTML())
	assert.Empty(t, session.Lists().Latex())
}

func TestHandleCitation(t *testing.T) {
	session := sessionWithBody(t, "<p>As shown </p>")
	p := firstElement(session.Surface().Root(), "p")
	text := p.FirstChild
	session.Surface().Select(Selection{Anchor: text, AnchorOffset: len(text.Data), Focus: text, FocusOffset: len(text.Data)})

	d := NewDispatcher(session, Config{
		Prompter: answers(map[string]string{"Enter citation details:": "Knuth, 1973"}),
	})
	d.Handle(ActionCitation)
	d.Handle(ActionCitation)

	assert.Equal(t, []string{"Knuth, 1973", "Knuth, 1973"}, session.Lists().Citations())

	sups := collectNodes(session.Surface().Root(), tagIs("sup"))
	require.Len(t, sups, 2)
	idx, _ := getAttr(sups[1], "data-index")
	assert.Equal(t, "2", idx)
	assert.Equal(t, "[2]", textContent(sups[1]))
}

func TestHandleFootnote(t *testing.T) {
	session := sessionWithBody(t, "<p>claim</p>")
	d := NewDispatcher(session, Config{
		Prompter: answers(map[string]string{"Enter footnote text:": "see appendix"}),
	})

	d.Handle(ActionFootnote)

	assert.Equal(t, []string{"see appendix"}, session.Lists().Footnotes())
	sup := firstElement(session.Surface().Root(), "sup")
	require.NotNil(t, sup)
	assert.True(t, hasClass(sup, "footnote-ref"))
}

func TestHandleTable(t *testing.T) {
	session := sessionWithBody(t, "<p></p>")
	d := NewDispatcher(session, Config{
		Prompter: answers(map[string]string{
			"Number of rows:":    "2",
			"Number of columns:": "4",
		}),
	})

	d.Handle(ActionTable)

	table := firstElement(session.Surface().Root(), "table")
	require.NotNil(t, table)
	ths := collectNodes(table, tagIs("th"))
	assert.Len(t, ths, 4)
}

func TestDispatcherMarksSessionDirty(t *testing.T) {
	session := sessionWithBody(t, "<p>Hello</p>")
	session.Surface().SelectContents(firstElement(session.Surface().Root(), "p"))
	d := NewDispatcher(session, Config{})

	dirty := 0
	session.OnDirty(func() { dirty++ })

	d.Handle(ActionBold)
	assert.Greater(t, dirty, 0)
}
