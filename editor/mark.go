package editor

import (
	"golang.org/x/net/html"
)

// markTags maps the mark vocabulary to the inline tags it renders to.
var markTags = map[string]string{
	"bold":          "strong",
	"italic":        "em",
	"underline":     "u",
	"strikethrough": "s",
	"highlight":     "mark",
}

// markAliases lists tags equivalent to a mark when detecting ancestors:
// legacy b/i markup counts as bold/italic.
var markAliases = map[string][]string{
	"strong": {"strong", "b"},
	"em":     {"em", "i"},
	"u":      {"u"},
	"s":      {"s", "strike", "del"},
	"mark":   {"mark"},
}

// ToggleMark wraps or unwraps the selection in the inline mark (bold, italic,
// underline, strikethrough, highlight). Anchored inside an existing mark the
// mark is unwrapped in place; otherwise a non-empty selection is wrapped. A
// collapsed selection with no surrounding mark is a no-op.
func (s *Surface) ToggleMark(mark string) {
	tag, ok := markTags[mark]
	if !ok {
		tag = mark
	}

	if ancestor := s.markAncestor(tag); ancestor != nil {
		// Select the marked node's contents first so the replacement is
		// scoped to it, then splice the children in its place.
		s.SelectContents(ancestor)
		children := detachChildren(ancestor)
		replaceNode(ancestor, children...)
		if len(children) > 0 {
			s.sel = Selection{Anchor: children[0], Focus: children[len(children)-1]}
			if last := children[len(children)-1]; last.Type == html.TextNode {
				s.sel.FocusOffset = len(last.Data)
			}
		} else {
			s.collapseToStart()
		}
		s.markMutated()
		return
	}

	if s.sel.Collapsed() {
		return
	}

	run := s.rangeNodes()
	if run == nil {
		return
	}

	wrapper := newElement(tag)
	run[0].Parent.InsertBefore(wrapper, run[0])
	for _, n := range run {
		n.Parent.RemoveChild(n)
		wrapper.AppendChild(n)
	}
	s.SelectContents(wrapper)
	s.markMutated()
}

// markAncestor resolves the inline mark node containing the selection anchor,
// accepting alias tags.
func (s *Surface) markAncestor(tag string) *html.Node {
	if s.sel.Anchor == nil {
		return nil
	}
	aliases := markAliases[tag]
	if aliases == nil {
		aliases = []string{tag}
	}
	return FindAncestor(s.sel.Anchor, tagIs(aliases...), s.root)
}

// MarkActive reports whether the selection anchor sits inside the given mark.
// Backs the toolbar active-state computation.
func (s *Surface) MarkActive(mark string) bool {
	tag, ok := markTags[mark]
	if !ok {
		tag = mark
	}
	return s.markAncestor(tag) != nil
}
