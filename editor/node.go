// Package editor implements the rich-text engine behind the journal editor:
// a block structure engine, an inline mark engine, an inline math renderer,
// a toolbar/shortcut dispatcher and a debounced autosave controller, all
// operating on golang.org/x/net/html node trees.
package editor

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockTags are the tags considered block-level when resolving the nearest
// structural ancestor of the caret.
var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "blockquote": true, "pre": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true,
}

// FindAncestor walks up from n (inclusive) towards root (exclusive) and
// returns the first node matching pred, or nil. It is a pure function over
// the tree and never mutates it.
func FindAncestor(n *html.Node, pred func(*html.Node) bool, root *html.Node) *html.Node {
	for el := n; el != nil && el != root; el = el.Parent {
		if pred(el) {
			return el
		}
	}
	return nil
}

func tagIs(tags ...string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		for _, t := range tags {
			if n.Data == t {
				return true
			}
		}
		return false
	}
}

func isBlock(n *html.Node) bool {
	return n.Type == html.ElementNode && blockTags[n.Data]
}

var voidTags = map[string]bool{
	"br": true, "hr": true, "img": true, "input": true,
}

func isVoid(n *html.Node) bool {
	return n.Type == html.ElementNode && voidTags[n.Data]
}

func newElement(tag string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

func newText(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func hasClass(n *html.Node, class string) bool {
	v, ok := getAttr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// detachChildren removes and returns the children of n in order.
func detachChildren(n *html.Node) []*html.Node {
	var children []*html.Node
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
		children = append(children, c)
	}
	return children
}

func appendChildren(n *html.Node, children []*html.Node) {
	for _, c := range children {
		n.AppendChild(c)
	}
}

// replaceNode swaps old for nodes in old's parent, keeping document order.
func replaceNode(old *html.Node, nodes ...*html.Node) {
	parent := old.Parent
	if parent == nil {
		return
	}
	for _, n := range nodes {
		parent.InsertBefore(n, old)
	}
	parent.RemoveChild(old)
}

// textContent flattens the subtree into plain text, the DOM textContent
// equivalent.
func textContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}

	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

// renderChildren serializes the children of n, the innerHTML equivalent.
func renderChildren(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		html.Render(&b, c)
	}
	return b.String()
}

// renderNode serializes n itself, the outerHTML equivalent.
func renderNode(n *html.Node) string {
	var b strings.Builder
	html.Render(&b, n)
	return b.String()
}

// parseFragment parses an HTML fragment in body context and returns the
// top-level nodes.
func parseFragment(s string) ([]*html.Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	return html.ParseFragment(strings.NewReader(s), ctx)
}

// walk visits every node of the subtree in document order.
func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

// collectNodes returns every node of the subtree matching pred. The slice is
// materialized before the caller mutates anything, so replacement during
// iteration is safe.
func collectNodes(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var nodes []*html.Node
	walk(root, func(n *html.Node) {
		if pred(n) {
			nodes = append(nodes, n)
		}
	})
	return nodes
}

// emptyParagraph builds the <p><br/></p> placeholder the surface uses to keep
// a caret position after non-paragraph blocks.
func emptyParagraph() *html.Node {
	p := newElement("p")
	p.AppendChild(newElement("br"))
	return p
}
