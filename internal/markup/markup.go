// Package markup extracts translatable text leaves from an HTML fragment and
// rebuilds the fragment with substituted leaf values.
//
// Extraction and reconstruction run the exact same depth-first traversal
// (walkTextNodes), so the two passes cannot disagree about leaf order. Values
// are consumed strictly by position: Reconstruct pairs the i-th leaf with the
// i-th value and leaves trailing leaves untouched when the value list is
// short. This leniency keeps partially failed translations from corrupting a
// document, at the cost of silently passing through misaligned upstream
// results.
package markup

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Leaf is one non-empty text run found as a direct child of an element.
// ParentTag, Attrs and Path describe where the leaf sits; they are carried
// for diagnostics only and play no part in reconstruction.
type Leaf struct {
	Text      string
	ParentTag string
	Attrs     map[string]string
	Path      string
}

// Extract parses doc as an HTML fragment and returns its text leaves in
// depth-first, left-to-right document order. A document with no translatable
// text yields an empty slice, not an error.
func Extract(doc string) ([]Leaf, error) {
	nodes, err := parseDoc(doc)
	if err != nil {
		return nil, err
	}

	var leaves []Leaf
	walkTextNodes(nodes, func(n *html.Node, path string) {
		leaf := Leaf{Text: strings.TrimSpace(n.Data), Path: path}
		if p := n.Parent; p != nil && p.Type == html.ElementNode {
			leaf.ParentTag = p.Data
			leaf.Attrs = make(map[string]string, len(p.Attr))
			for _, a := range p.Attr {
				leaf.Attrs[a.Key] = a.Val
			}
		}
		leaves = append(leaves, leaf)
	})
	return leaves, nil
}

// Reconstruct re-parses doc and replaces its i-th text leaf with values[i].
// Leaves beyond len(values) keep their original text. The substituted
// document is returned re-serialized; replacement values are plain text and
// are escaped on output.
func Reconstruct(doc string, values []string) (string, error) {
	nodes, err := parseDoc(doc)
	if err != nil {
		return "", err
	}

	i := 0
	walkTextNodes(nodes, func(n *html.Node, _ string) {
		if i < len(values) {
			n.Data = values[i]
		}
		i++
	})

	var b strings.Builder
	for _, n := range nodes {
		if err := html.Render(&b, n); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// IsHTML reports whether text should be treated as markup: it must contain
// both angle brackets and parse to at least one element. Malformed input
// whose brackets produce no elements ("a < b and b > c") is plain text.
func IsHTML(text string) bool {
	if text == "" {
		return false
	}
	if !strings.Contains(text, "<") || !strings.Contains(text, ">") {
		return false
	}
	nodes, err := parseDoc(text)
	if err != nil {
		return false
	}
	for _, n := range nodes {
		if hasElement(n) {
			return true
		}
	}
	return false
}

// parseDoc parses doc with a context chosen from its content. Full documents
// go through the document parser so their html/head/body skeleton survives
// re-serialization; bare table fragments get a matching ancestor context,
// since tags like td or tr are dropped by the parser when they appear in
// body context; everything else parses as a body fragment so snippets
// round-trip without gaining a document skeleton.
func parseDoc(doc string) ([]*html.Node, error) {
	if containsTag(doc, "html", "head", "body") {
		root, err := html.Parse(strings.NewReader(doc))
		if err != nil {
			return nil, fmt.Errorf("failed to parse document: %w", err)
		}
		return []*html.Node{root}, nil
	}

	ctx := fragmentContext(doc)
	nodes, err := html.ParseFragment(strings.NewReader(doc), ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return nodes, nil
}

func fragmentContext(doc string) *html.Node {
	name, a := "body", atom.Body
	switch {
	case containsTag(doc, "table"):
		// A full table is valid in body context; its interior parses normally.
	case containsTag(doc, "tbody", "thead", "tfoot", "caption", "colgroup"):
		name, a = "table", atom.Table
	case containsTag(doc, "col"):
		name, a = "colgroup", atom.Colgroup
	case containsTag(doc, "tr"):
		name, a = "tbody", atom.Tbody
	case containsTag(doc, "td", "th"):
		name, a = "tr", atom.Tr
	}
	return &html.Node{Type: html.ElementNode, Data: name, DataAtom: a}
}

// containsTag reports whether doc contains a start tag with one of the given
// names, case-insensitively.
func containsTag(doc string, names ...string) bool {
	lower := strings.ToLower(doc)
	for _, name := range names {
		for rest := lower; ; {
			i := strings.Index(rest, "<"+name)
			if i < 0 {
				break
			}
			after := rest[i+len(name)+1:]
			if after == "" {
				break
			}
			switch after[0] {
			case ' ', '\t', '\n', '\r', '/', '>':
				return true
			}
			rest = after
		}
	}
	return false
}

// walkTextNodes is the single traversal shared by Extract and Reconstruct.
// It calls visit for every text node that is non-empty after trimming, in
// depth-first, left-to-right order. The path passed to visit is built from
// each ancestor's element name and the child's ordinal among its siblings.
func walkTextNodes(nodes []*html.Node, visit func(n *html.Node, path string)) {
	var handle func(n *html.Node, path string)
	var recurse func(n *html.Node, path string)

	handle = func(n *html.Node, path string) {
		if n.Type == html.TextNode {
			if strings.TrimSpace(n.Data) != "" {
				visit(n, path)
			}
			return
		}
		recurse(n, path)
	}

	recurse = func(n *html.Node, path string) {
		idx := 0
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			childPath := path
			if n.Type == html.ElementNode {
				childPath = fmt.Sprintf("%s/%s[%d]", path, n.Data, idx)
			}
			handle(child, childPath)
			idx++
		}
	}

	for _, n := range nodes {
		handle(n, "")
	}
}

func hasElement(n *html.Node) bool {
	if n.Type == html.ElementNode {
		return true
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if hasElement(child) {
			return true
		}
	}
	return false
}
