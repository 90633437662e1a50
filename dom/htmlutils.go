// Package dom holds the small set of golang.org/x/net/html tree helpers the
// viewer needs to treat a parsed document as its presentation state.
package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// FindByID finds the first element with the given id attribute
func FindByID(n *html.Node, id string) (*html.Node, error) {
	if n.Type == html.ElementNode {
		if v, ok := Attr(n, "id"); ok && v == id {
			return n, nil
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result, err := FindByID(c, id); err == nil {
			return result, nil
		}
	}

	return nil, fmt.Errorf("element with id '%s' not found", id)
}

// FindByTag finds the first element with the given tag name
func FindByTag(n *html.Node, tag string) (*html.Node, error) {
	if n.Type == html.ElementNode && n.Data == tag {
		return n, nil
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result, err := FindByTag(c, tag); err == nil {
			return result, nil
		}
	}

	return nil, fmt.Errorf("element with tag '%s' not found", tag)
}

// FindAllByClass returns every element below n carrying class, in document order.
func FindAllByClass(n *html.Node, class string) []*html.Node {
	var nodes []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && HasClass(n, class) {
			nodes = append(nodes, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return nodes
}

func Attr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

func SetAttr(n *html.Node, key, val string) {
	for i, attr := range n.Attr {
		if attr.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func RemoveAttr(n *html.Node, key string) {
	attrs := n.Attr[:0]
	for _, attr := range n.Attr {
		if attr.Key != key {
			attrs = append(attrs, attr)
		}
	}
	n.Attr = attrs
}

func HasClass(n *html.Node, class string) bool {
	v, _ := Attr(n, "class")
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// SetClass adds or removes class, keeping the other classes in order.
func SetClass(n *html.Node, class string, on bool) {
	v, _ := Attr(n, "class")
	var classes []string
	for _, c := range strings.Fields(v) {
		if c != class {
			classes = append(classes, c)
		}
	}
	if on {
		classes = append(classes, class)
	}
	SetAttr(n, "class", strings.Join(classes, " "))
}

// SetDisplay toggles between the active class with display block and display none.
func SetDisplay(n *html.Node, visible bool) {
	SetClass(n, "active", visible)
	if visible {
		SetAttr(n, "style", "display: block;")
	} else {
		SetAttr(n, "style", "display: none;")
	}
}

// ReplaceChildren parses markup in the context of n and swaps it in for n's children.
func ReplaceChildren(n *html.Node, markup string) error {
	children, err := html.ParseFragment(strings.NewReader(markup), n)
	if err != nil {
		return fmt.Errorf("failed to parse markup: %w", err)
	}
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
	for _, c := range children {
		n.AppendChild(c)
	}
	return nil
}

// InnerHTML renders the children of n.
func InnerHTML(n *html.Node) (string, error) {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", fmt.Errorf("failed to render node: %w", err)
		}
	}
	return b.String(), nil
}
