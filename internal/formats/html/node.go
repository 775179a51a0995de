// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package html

import (
	"bytes"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// TypeAttr marks a <section> as a typed content block. Its value selects
// the recognizer: mcq, ftq, video or survey.
const TypeAttr = "data-mu-type"

// dataPrefix marks HTML attributes carried over as unit attributes.
const dataPrefix = "data-"

var headerRe = regexp.MustCompile(`^h([1-6])$`)

// headerLevel parses the heading tag name: "hN" -> N. Returns 0 when the
// tag is not a heading.
func headerLevel(tag string) int {
	m := headerRe.FindStringSubmatch(tag)
	if m == nil {
		return 0
	}
	return int(m[1][0] - '0')
}

// findFirst returns the first descendant element with one of the given
// tag names, in document order. The node itself is not considered.
func findFirst(n *html.Node, tags ...string) *html.Node {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode {
			for _, tag := range tags {
				if child.Data == tag {
					return child
				}
			}
		}
		if found := findFirst(child, tags...); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every descendant element with the given tag name, in
// document order.
func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.Data == tag {
			out = append(out, child)
		}
		out = append(out, findAll(child, tag)...)
	}
	return out
}

// hasDirectChild reports whether n has an immediate child element tag.
func hasDirectChild(n *html.Node, tag string) bool {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.Data == tag {
			return true
		}
	}
	return false
}

// text returns the concatenated text content of n, trimmed.
func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

// attrVal returns the value of the named attribute.
func attrVal(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// dataAttributes returns all data-* attributes with the prefix stripped.
func dataAttributes(n *html.Node) map[string]string {
	out := map[string]string{}
	for _, a := range n.Attr {
		if strings.HasPrefix(a.Key, dataPrefix) {
			out[strings.TrimPrefix(a.Key, dataPrefix)] = a.Val
		}
	}
	return out
}

// elem builds an element node.
func elem(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag, Attr: attrs}
}

// textNode builds a text node.
func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// attr builds one attribute.
func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

// dataAttrs converts unit attributes to sorted data-* HTML attributes.
// Sorting keeps serialization deterministic.
func dataAttrs(attributes map[string]string) []html.Attribute {
	keys := make([]string, 0, len(attributes))
	for k := range attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]html.Attribute, 0, len(keys))
	for _, k := range keys {
		out = append(out, attr(dataPrefix+k, attributes[k]))
	}
	return out
}

// render serializes a node to HTML text.
func render(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
