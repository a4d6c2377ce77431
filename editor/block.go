package editor

import (
	"fmt"

	"golang.org/x/net/html"
)

// ToggleBlock toggles the block containing the caret between a plain
// paragraph and tag (h1, h2, h3, blockquote, ...). When the caret already sits
// inside tag the block is unwrapped back to a paragraph with the same inner
// content. Otherwise the nearest block ancestor is replaced by tag and an
// empty paragraph is guaranteed right after it, so headings and quotes never
// trap the caret.
func (s *Surface) ToggleBlock(tag string) {
	anchor := s.sel.Anchor
	if anchor == nil {
		s.formatFallback(tag)
		return
	}

	if existing := FindAncestor(anchor, tagIs(tag), s.root); existing != nil {
		p := newElement("p")
		appendChildren(p, detachChildren(existing))
		replaceNode(existing, p)
		s.SelectContents(p)
		s.markMutated()
		return
	}

	nearest := FindAncestor(anchor, isBlock, s.root)
	if nearest == nil {
		s.formatFallback(tag)
		return
	}

	block := newElement(tag)
	appendChildren(block, detachChildren(nearest))
	replaceNode(nearest, block)
	s.ensureParagraphAfter(block)
	s.SelectContents(block)
	s.markMutated()
}

// formatFallback is the formatBlock path: the caret is not inside any block,
// so the whole top-level content is wrapped into tag.
func (s *Surface) formatFallback(tag string) {
	block := newElement(tag)
	appendChildren(block, detachChildren(s.root))
	s.root.AppendChild(block)
	s.ensureParagraphAfter(block)
	s.SelectContents(block)
	s.markMutated()
}

// ToggleCodeBlock is the pre/code specialization of ToggleBlock. Unwrapping
// recovers the plain text content of the block, not its markup, so formatting
// tags never leak into paragraphs.
func (s *Surface) ToggleCodeBlock() {
	anchor := s.sel.Anchor
	if anchor != nil {
		if pre := FindAncestor(anchor, tagIs("pre"), s.root); pre != nil {
			p := newElement("p")
			if text := textContent(pre); text != "" {
				p.AppendChild(newText(text))
			}
			replaceNode(pre, p)
			s.SelectContents(p)
			s.markMutated()
			return
		}
	}

	content := s.SelectedHTML()
	if content == "" {
		content = "\n"
	}

	pre := newElement("pre")
	code := newElement("code")
	pre.AppendChild(code)
	if nodes, err := parseFragment(content); err == nil {
		appendChildren(code, nodes)
	} else {
		code.AppendChild(newText(content))
	}

	s.InsertNodes(pre)
	s.ensureParagraphAfter(pre)
	s.SelectContents(code)
	s.markMutated()
}

// ensureParagraphAfter guarantees an empty editable paragraph immediately
// follows block.
func (s *Surface) ensureParagraphAfter(block *html.Node) {
	next := block.NextSibling
	if next != nil && next.Type == html.ElementNode && next.Data == "p" {
		return
	}

	p := emptyParagraph()
	if block.Parent == nil {
		return
	}
	block.Parent.InsertBefore(p, next)
}

// InsertList wraps the current selection text into a fresh list. ordered
// selects ol over ul.
func (s *Surface) InsertList(ordered bool) {
	tag := "ul"
	if ordered {
		tag = "ol"
	}

	text := s.SelectedText()

	list := newElement(tag)
	li := newElement("li")
	if text != "" {
		li.AppendChild(newText(text))
	} else {
		li.AppendChild(newElement("br"))
	}
	list.AppendChild(li)

	s.InsertNodes(list)
	s.collapseInto(li)
	s.markMutated()
}

// InsertChecklist inserts a one-item checklist seeded with the selected text,
// or a placeholder task.
func (s *Surface) InsertChecklist() {
	text := s.SelectedText()
	if text == "" {
		text = "Task"
	}

	list := newElement("ul")
	setAttr(list, "class", "checklist")
	li := newElement("li")
	label := newElement("label")
	box := newElement("input")
	setAttr(box, "type", "checkbox")
	label.AppendChild(box)
	label.AppendChild(newText(" " + text))
	li.AppendChild(label)
	list.AppendChild(li)

	s.InsertNodes(list)
	s.markMutated()
}

// InsertTable inserts a rows x cols table skeleton with a fixed header row.
// The first row counts as the header.
func (s *Surface) InsertTable(rows, cols int) {
	if rows < 1 || cols < 1 {
		return
	}

	table := newElement("table")

	thead := newElement("thead")
	tr := newElement("tr")
	for i := 0; i < cols; i++ {
		th := newElement("th")
		th.AppendChild(newText(fmt.Sprintf("Header %d", i+1)))
		tr.AppendChild(th)
	}
	thead.AppendChild(tr)
	table.AppendChild(thead)

	tbody := newElement("tbody")
	for i := 0; i < rows-1; i++ {
		tr := newElement("tr")
		for j := 0; j < cols; j++ {
			td := newElement("td")
			td.AppendChild(newText(fmt.Sprintf("Cell %d-%d", i+1, j+1)))
			tr.AppendChild(td)
		}
		tbody.AppendChild(tr)
	}
	table.AppendChild(tbody)

	s.InsertNodes(table)
	s.ensureParagraphAfter(table)
	s.markMutated()
}
