package editor

import (
	"regexp"

	"golang.org/x/net/html"
)

// A MathRenderer turns raw math source into markup. Implementations must not
// panic on malformed input; returning an error makes the caller fall back to
// the raw source.
type MathRenderer interface {
	Render(src string) (string, error)
}

// RendererFunc adapts a function to the MathRenderer interface.
type RendererFunc func(string) (string, error)

func (f RendererFunc) Render(src string) (string, error) { return f(src) }

const latexAttr = "data-latex"

var delimited = regexp.MustCompile(`(?s)\$\$(.*)\$\$`)

// InsertMath inserts a math marker node holding the delimited raw source at
// the caret. The marker is rendered by the next RenderMath pass.
func (s *Surface) InsertMath(src string) *html.Node {
	marker := newElement("span")
	setAttr(marker, "class", "latex")
	setAttr(marker, "contenteditable", "false")
	marker.AppendChild(newText("$$" + src + "$$"))

	s.InsertNodes(marker)
	s.markMutated()
	return marker
}

// RenderMath renders every math marker under root in place. The raw source is
// kept on the marker in data-latex, so the pass is idempotent: markers already
// rendered are re-rendered from the stored source and come out identical.
// Markers whose source fails to render keep showing the raw delimited text;
// a bad expression never blocks editing.
func RenderMath(root *html.Node, renderer MathRenderer) {
	if renderer == nil {
		return
	}

	markers := collectNodes(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "span" && hasClass(n, "latex")
	})

	for _, marker := range markers {
		src := rawSource(marker)
		if src == "" {
			continue
		}

		rendered, err := renderer.Render(src)
		if err != nil {
			// Degrade to the raw delimited source.
			detachChildren(marker)
			marker.AppendChild(newText("$$" + src + "$$"))
			setAttr(marker, latexAttr, src)
			continue
		}

		nodes, perr := parseFragment(rendered)
		if perr != nil {
			detachChildren(marker)
			marker.AppendChild(newText("$$" + src + "$$"))
			setAttr(marker, latexAttr, src)
			continue
		}

		detachChildren(marker)
		appendChildren(marker, nodes)
		setAttr(marker, latexAttr, src)
	}
}

// rawSource recovers the raw math source of a marker: the stored data-latex
// attribute wins over the delimited text content.
func rawSource(marker *html.Node) string {
	if src, ok := getAttr(marker, latexAttr); ok && src != "" {
		return src
	}

	if m := delimited.FindStringSubmatch(textContent(marker)); m != nil {
		return m[1]
	}
	return ""
}

// RawSource exposes the stored source of a marker node, mostly for tests and
// for re-editing an expression.
func RawSource(marker *html.Node) string { return rawSource(marker) }
