package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/net/html"
)

func firstElement(root *html.Node, tag string) *html.Node {
	nodes := collectNodes(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag
	})
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

func TestToggleBlock(t *testing.T) {
	s := NewSurface()
	require.NoError(t, s.SetHTML("<p>Hello</p>"))
	s.SelectContents(firstElement(s.Root(), "p"))

	s.ToggleBlock("h1")
	h1 := firstElement(s.Root(), "h1")
	require.NotNil(t, h1)
	assert.Equal(t, "Hello", textContent(h1))

	// An empty paragraph must follow the new heading.
	next := h1.NextSibling
	require.NotNil(t, next)
	assert.Equal(t, "p", next.Data)

	// Toggling again restores a paragraph with the same content.
	s.ToggleBlock("h1")
	assert.Nil(t, firstElement(s.Root(), "h1"))
	p := firstElement(s.Root(), "p")
	require.NotNil(t, p)
	assert.Equal(t, "Hello", textContent(p))
}

func TestToggleBlockQuote(t *testing.T) {
	s := NewSurface()
	require.NoError(t, s.SetHTML("<p>Science</p>"))
	s.SelectContents(firstElement(s.Root(), "p"))

	s.ToggleBlock("blockquote")

	quote := firstElement(s.Root(), "blockquote")
	require.NotNil(t, quote)
	assert.Equal(t, "Science", textContent(quote))

	next := quote.NextSibling
	require.NotNil(t, next)
	assert.Equal(t, "p", next.Data)
	assert.Equal(t, "", textContent(next))
}

func TestToggleBlockEmptyDocument(t *testing.T) {
	s := NewSurface()

	// No anchor, no blocks. Must not panic and must leave a usable block.
	s.ToggleBlock("h2")
	assert.NotNil(t, firstElement(s.Root(), "h2"))
}

func TestToggleBlockNestedAncestor(t *testing.T) {
	s := NewSurface()
	require.NoError(t, s.SetHTML("<blockquote><p>deep</p></blockquote>"))
	p := firstElement(s.Root(), "p")
	s.SelectContents(p)

	// The caret is inside a p; p is the nearest block, so it converts.
	s.ToggleBlock("h3")
	h3 := firstElement(s.Root(), "h3")
	require.NotNil(t, h3)
	assert.Equal(t, "deep", textContent(h3))
	assert.NotNil(t, firstElement(s.Root(), "blockquote"))
}

func TestToggleCodeBlock(t *testing.T) {
	s := NewSurface()
	require.NoError(t, s.SetHTML("<p>fmt.Println(42)</p>"))
	s.SelectContents(firstElement(s.Root(), "p"))

	s.ToggleCodeBlock()
	pre := firstElement(s.Root(), "pre")
	require.NotNil(t, pre)
	require.NotNil(t, firstElement(pre, "code"))
	assert.Equal(t, "fmt.Println(42)", textContent(pre))

	// Unwrapping recovers plain text into a paragraph.
	s.ToggleCodeBlock()
	assert.Nil(t, firstElement(s.Root(), "pre"))
	p := firstElement(s.Root(), "p")
	require.NotNil(t, p)
	assert.Equal(t, "fmt.Println(42)", textContent(p))
}

func TestToggleCodeBlockStripsMarkup(t *testing.T) {
	s := NewSurface()
	require.NoError(t, s.SetHTML("<pre><code><strong>bold code</strong></code></pre>"))
	code := firstElement(s.Root(), "code")
	s.SelectContents(code)

	s.ToggleCodeBlock()

	p := firstElement(s.Root(), "p")
	require.NotNil(t, p)
	assert.Equal(t, "bold code", textContent(p))
	assert.Nil(t, firstElement(s.Root(), "strong"))
}

func TestInsertList(t *testing.T) {
	for name, tt := range map[string]struct {
		ordered bool
		tag     string
	}{
		"bulleted": {ordered: false, tag: "ul"},
		"numbered": {ordered: true, tag: "ol"},
	} {
		t.Run(name, func(t *testing.T) {
			s := NewSurface()
			require.NoError(t, s.SetHTML("<p>item one</p>"))
			s.SelectContents(firstElement(s.Root(), "p"))

			s.InsertList(tt.ordered)

			list := firstElement(s.Root(), tt.tag)
			require.NotNil(t, list)
			li := firstElement(list, "li")
			require.NotNil(t, li)
			assert.Equal(t, "item one", textContent(li))
		})
	}
}

func TestInsertChecklist(t *testing.T) {
	s := NewSurface()
	s.EnsureContent()

	s.InsertChecklist()

	list := firstElement(s.Root(), "ul")
	require.NotNil(t, list)
	assert.True(t, hasClass(list, "checklist"))
	box := firstElement(list, "input")
	require.NotNil(t, box)
	typ, _ := getAttr(box, "type")
	assert.Equal(t, "checkbox", typ)
}

func TestInsertTable(t *testing.T) {
	s := NewSurface()
	s.EnsureContent()

	s.InsertTable(3, 2)

	table := firstElement(s.Root(), "table")
	require.NotNil(t, table)

	ths := collectNodes(table, func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == "th" })
	assert.Len(t, ths, 2)
	assert.Equal(t, "Header 1", textContent(ths[0]))

	tds := collectNodes(table, func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == "td" })
	assert.Len(t, tds, 4)
	assert.Equal(t, "Cell 1-1", textContent(tds[0]))

	// An editable paragraph follows the table.
	next := table.NextSibling
	require.NotNil(t, next)
	assert.Equal(t, "p", next.Data)
}

func TestInsertTableRejectsZero(t *testing.T) {
	s := NewSurface()
	s.EnsureContent()
	before := s.HTML()

	s.InsertTable(0, 3)
	assert.Equal(t, before, s.HTML())
}
