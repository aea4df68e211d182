package parse

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/lysyi3m/feedkit/app/feed"
)

var stylesheetHref = regexp.MustCompile(`href\s*=\s*["']([^"']*)["']`)

type xmlAttr struct {
	name  string
	value string
}

// node is one element of a parsed document. Names keep their prefix, so
// "content:encoded" stays "content:encoded".
type node struct {
	name     string
	attrs    []xmlAttr
	children []*node
	text     string
}

type document struct {
	root       *node
	stylesheet string
}

// local returns the lower-cased element name without its prefix.
func (n *node) local() string {
	_, name, found := strings.Cut(n.name, ":")
	if !found {
		name = n.name
	}
	return strings.ToLower(name)
}

func (n *node) attr(name string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.attrs {
		if a.name == name {
			return a.value
		}
	}
	return ""
}

func (n *node) child(name string) *node {
	if n == nil {
		return nil
	}
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

func (n *node) all(name string) []*node {
	if n == nil {
		return nil
	}
	var out []*node
	for _, c := range n.children {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

// childText returns the text of the first child with the given name and
// whether such a child exists.
func (n *node) childText(name string) (string, bool) {
	c := n.child(name)
	if c == nil {
		return "", false
	}
	return c.text, true
}

func (n *node) value(name string) string {
	s, _ := n.childText(name)
	return s
}

func qualified(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}

func parseTree(data []byte) (*document, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.Strict = true
	d.Entity = xml.HTMLEntity
	d.CharsetReader = charsetReader

	doc := &document{}
	var stack []*node

	for {
		tok, err := d.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: qualified(t.Name)}
			for _, a := range t.Attr {
				n.attrs = append(n.attrs, xmlAttr{name: qualified(a.Name), value: a.Value})
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			} else if doc.root == nil {
				doc.root = n
			} else {
				return nil, fmt.Errorf("unexpected second root element <%s>", n.name)
			}
			stack = append(stack, n)

		case xml.EndElement:
			name := qualified(t.Name)
			if len(stack) == 0 || stack[len(stack)-1].name != name {
				return nil, fmt.Errorf("unexpected closing tag </%s>", name)
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text += string(t)
			}

		case xml.ProcInst:
			if t.Target == "xml-stylesheet" && doc.stylesheet == "" {
				if m := stylesheetHref.FindSubmatch(t.Inst); m != nil {
					doc.stylesheet = html.UnescapeString(string(m[1]))
				}
			}
		}
	}

	if len(stack) > 0 {
		return nil, fmt.Errorf("unclosed element <%s>", stack[len(stack)-1].name)
	}
	if doc.root == nil {
		return nil, errors.New("no root element")
	}
	return doc, nil
}

// customFields collects the children that are not reserved at this level.
// Repeated leaf siblings become a list; elements with children become a
// nested mapping.
func customFields(n *node, reserved func(string) bool) feed.Fields {
	var fields feed.Fields
	for _, name := range childNames(n) {
		if reserved(name) {
			continue
		}
		fields.Set(name, siblingsValue(n.all(name)))
	}
	return fields
}

func childNames(n *node) []string {
	var names []string
	seen := make(map[string]bool)
	for _, c := range n.children {
		if !seen[c.name] {
			seen[c.name] = true
			names = append(names, c.name)
		}
	}
	return names
}

func siblingsValue(nodes []*node) feed.Value {
	if len(nodes) == 1 {
		return nodeValue(nodes[0])
	}
	texts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if len(n.children) > 0 {
			// Lists only carry strings; keep the first structured sibling.
			return nodeValue(nodes[0])
		}
		texts = append(texts, n.text)
	}
	return feed.ListValue(texts...)
}

func nodeValue(n *node) feed.Value {
	if len(n.children) == 0 {
		return feed.StringValue(n.text)
	}
	return feed.MapValue(customFields(n, func(string) bool { return false }))
}
