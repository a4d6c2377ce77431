package editor

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/tashrifatdiu/mcsc-client/errors"
)

// Selection is the caret or range over the surface tree. Anchor and Focus are
// tree nodes; offsets are byte offsets into text nodes. A nil Anchor means
// nothing is selected.
type Selection struct {
	Anchor       *html.Node
	AnchorOffset int
	Focus        *html.Node
	FocusOffset  int
}

func (s Selection) Collapsed() bool {
	if s.Anchor == nil || s.Focus == nil {
		return true
	}
	return s.Anchor == s.Focus && s.AnchorOffset == s.FocusOffset
}

// Surface is the editable document surface: the body tree, the current
// selection and the mutation hooks. It corresponds to one editing session and
// must not be shared between sessions.
type Surface struct {
	root *html.Node
	sel  Selection

	onMutate []func()
}

func NewSurface() *Surface {
	return &Surface{root: newElement("div")}
}

func (s *Surface) Root() *html.Node { return s.root }

// OnMutate registers a hook fired after every mutating operation. The
// autosave controller subscribes here to track dirtiness.
func (s *Surface) OnMutate(f func()) {
	s.onMutate = append(s.onMutate, f)
}

func (s *Surface) markMutated() {
	for _, f := range s.onMutate {
		f()
	}
}

// SetHTML replaces the whole surface content. Used when loading an existing
// journal for edit; does not fire mutation hooks.
func (s *Surface) SetHTML(content string) error {
	nodes, err := parseFragment(content)
	if err != nil {
		return errors.New("could not parse body", errors.BadRequest(), errors.WithCause(err))
	}

	detachChildren(s.root)
	appendChildren(s.root, nodes)
	s.sel = Selection{}
	s.collapseToStart()
	return nil
}

// HTML serializes the surface content, the payload bodyHtml.
func (s *Surface) HTML() string { return renderChildren(s.root) }

// Text flattens the surface content to plain text.
func (s *Surface) Text() string { return textContent(s.root) }

// Empty reports whether the surface holds no visible content.
func (s *Surface) Empty() bool {
	return strings.TrimSpace(textContent(s.root)) == ""
}

// EnsureContent guarantees the surface has at least one paragraph to type in.
func (s *Surface) EnsureContent() {
	if s.root.FirstChild == nil {
		s.root.AppendChild(emptyParagraph())
		s.collapseToStart()
	}
}

func (s *Surface) collapseToStart() {
	for n := s.root.FirstChild; n != nil; n = n.FirstChild {
		if n.Type == html.TextNode || n.FirstChild == nil {
			s.sel = Selection{Anchor: n, Focus: n}
			return
		}
	}
}

func (s *Surface) Select(sel Selection) { s.sel = sel }

func (s *Surface) Selection() Selection { return s.sel }

// SelectContents puts the whole contents of n under selection, the
// range.selectNodeContents equivalent.
func (s *Surface) SelectContents(n *html.Node) {
	first, last := n.FirstChild, n.LastChild
	if first == nil {
		s.sel = Selection{Anchor: n, Focus: n}
		return
	}

	sel := Selection{Anchor: first, Focus: last}
	if last.Type == html.TextNode {
		sel.FocusOffset = len(last.Data)
	}
	s.sel = sel
}

// collapseInto places the caret at the start of n.
func (s *Surface) collapseInto(n *html.Node) {
	s.sel = Selection{Anchor: n, Focus: n}
}

// collapseToEndOf places the caret at the end of n, inside its trailing text
// when n is a text node, so the next insertion lands after it.
func (s *Surface) collapseToEndOf(n *html.Node) {
	if n.Type == html.TextNode {
		s.sel = Selection{Anchor: n, AnchorOffset: len(n.Data), Focus: n, FocusOffset: len(n.Data)}
		return
	}
	s.sel = Selection{Anchor: n, Focus: n}
}

// splitText splits a text node at offset and returns the two halves. Either
// half may be empty; empty halves are not inserted.
func splitText(n *html.Node, offset int) (*html.Node, *html.Node) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(n.Data) {
		offset = len(n.Data)
	}

	before, after := n.Data[:offset], n.Data[offset:]

	var left, right *html.Node
	if before != "" {
		left = newText(before)
		n.Parent.InsertBefore(left, n)
	}
	if after != "" {
		right = newText(after)
		n.Parent.InsertBefore(right, n)
	}
	n.Parent.RemoveChild(n)
	return left, right
}

// rangeNodes materializes the current selection as a run of sibling nodes in
// the tree, splitting boundary text nodes as needed. Returns nil for a
// collapsed selection or when the range cannot be resolved to siblings of a
// single parent (the engines then fall back to anchor-based behavior).
func (s *Surface) rangeNodes() []*html.Node {
	sel := s.sel
	if sel.Collapsed() {
		return nil
	}

	// Single text node: carve the selected run out of it.
	if sel.Anchor == sel.Focus && sel.Anchor.Type == html.TextNode {
		start, end := sel.AnchorOffset, sel.FocusOffset
		if start > end {
			start, end = end, start
		}
		n := sel.Anchor
		parent := n.Parent
		if parent == nil {
			return nil
		}

		next := n.NextSibling
		before, mid, after := n.Data[:start], n.Data[start:end], n.Data[end:]
		parent.RemoveChild(n)
		insert := func(text string) *html.Node {
			if text == "" {
				return nil
			}
			t := newText(text)
			parent.InsertBefore(t, next)
			return t
		}
		insert(before)
		midNode := insert(mid)
		insert(after)
		if midNode == nil {
			return nil
		}
		return []*html.Node{midNode}
	}

	if sel.Anchor.Parent == nil || sel.Anchor.Parent != sel.Focus.Parent {
		return nil
	}

	first, firstOff, last, lastOff := sel.Anchor, sel.AnchorOffset, sel.Focus, sel.FocusOffset
	if !precedes(first, last) {
		first, last = last, first
		firstOff, lastOff = lastOff, firstOff
	}

	if first.Type == html.TextNode && firstOff > 0 {
		_, right := splitText(first, firstOff)
		if right == nil {
			return nil
		}
		first = right
	}
	if last.Type == html.TextNode && lastOff < len(last.Data) {
		left, _ := splitText(last, lastOff)
		if left == nil {
			return nil
		}
		last = left
	}

	var run []*html.Node
	for n := first; n != nil; n = n.NextSibling {
		run = append(run, n)
		if n == last {
			return run
		}
	}
	return nil
}

// precedes reports whether a comes before b among siblings.
func precedes(a, b *html.Node) bool {
	for n := a; n != nil; n = n.NextSibling {
		if n == b {
			return true
		}
	}
	return false
}

// SelectedHTML serializes the current selection contents without mutating the
// tree, the cloneContents equivalent.
func (s *Surface) SelectedHTML() string {
	sel := s.sel
	if sel.Collapsed() {
		return ""
	}

	if sel.Anchor == sel.Focus && sel.Anchor.Type == html.TextNode {
		start, end := sel.AnchorOffset, sel.FocusOffset
		if start > end {
			start, end = end, start
		}
		return sel.Anchor.Data[start:end]
	}

	if sel.Anchor.Parent == nil || sel.Anchor.Parent != sel.Focus.Parent {
		return renderNode(sel.Anchor)
	}

	first, last := sel.Anchor, sel.Focus
	if !precedes(first, last) {
		first, last = last, first
	}

	var b strings.Builder
	for n := first; n != nil; n = n.NextSibling {
		html.Render(&b, n)
		if n == last {
			break
		}
	}
	return b.String()
}

// SelectedText returns the plain text of the current selection.
func (s *Surface) SelectedText() string {
	sel := s.sel
	if sel.Collapsed() {
		return ""
	}
	if sel.Anchor == sel.Focus && sel.Anchor.Type == html.TextNode {
		start, end := sel.AnchorOffset, sel.FocusOffset
		if start > end {
			start, end = end, start
		}
		return sel.Anchor.Data[start:end]
	}

	first, last := sel.Anchor, sel.Focus
	if first.Parent != nil && first.Parent == last.Parent && !precedes(first, last) {
		first, last = last, first
	}

	var b strings.Builder
	for n := first; n != nil; n = n.NextSibling {
		b.WriteString(textContent(n))
		if n == last {
			break
		}
	}
	return b.String()
}

// InsertNodes places nodes at the caret, replacing the selection contents if
// any, the execCommand("insertHTML") equivalent.
func (s *Surface) InsertNodes(nodes ...*html.Node) {
	if len(nodes) == 0 {
		return
	}

	if run := s.rangeNodes(); run != nil {
		for _, n := range nodes {
			run[0].Parent.InsertBefore(n, run[0])
		}
		for _, n := range run {
			n.Parent.RemoveChild(n)
		}
		s.collapseToEndOf(nodes[len(nodes)-1])
		s.markMutated()
		return
	}

	anchor := s.sel.Anchor
	switch {
	case anchor == nil:
		appendChildren(s.root, nodes)
	case anchor.Type == html.TextNode && anchor.Parent != nil:
		parent, offset := anchor.Parent, s.sel.AnchorOffset
		_, right := splitText(anchor, offset)
		for _, n := range nodes {
			parent.InsertBefore(n, right)
		}
	case isVoid(anchor) && anchor.Parent != nil:
		// A caret parked on a br or img goes next to it, never inside.
		for _, n := range nodes {
			anchor.Parent.InsertBefore(n, anchor)
		}
	default:
		appendChildren(anchor, nodes)
	}
	s.collapseToEndOf(nodes[len(nodes)-1])
	s.markMutated()
}

// InsertHTML parses a fragment and inserts it at the caret.
func (s *Surface) InsertHTML(fragment string) error {
	nodes, err := parseFragment(fragment)
	if err != nil {
		return errors.New("could not parse fragment", errors.BadRequest(), errors.WithCause(err))
	}
	s.InsertNodes(nodes...)
	return nil
}

// InsertText inserts a plain text run at the caret.
func (s *Surface) InsertText(text string) {
	if text == "" {
		return
	}
	s.InsertNodes(newText(text))
}
