package parse

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/lysyi3m/feedkit/app/feed"
)

var ErrInvalidOPML = errors.New("invalid OPML: missing <opml> root")

var outlineCommonAttrs = map[string]bool{
	"text":         true,
	"type":         true,
	"isComment":    true,
	"isBreakpoint": true,
	"category":     true,
	"created":      true,
}

func parseOPML(doc *document) (*feed.Opml, error) {
	root := doc.root
	if root.name != "opml" {
		return nil, ErrInvalidOPML
	}

	o := &feed.Opml{Version: root.attr("version")}

	if head := root.child("head"); head != nil {
		o.Head = parseOpmlHead(head)
	}
	if body := root.child("body"); body != nil {
		o.Outlines = parseOutlines(body)
	}

	return o, nil
}

func parseOpmlHead(n *node) feed.OpmlHead {
	var head feed.OpmlHead

	for _, c := range n.children {
		value := strings.TrimSpace(c.text)
		if value == "" && len(c.children) == 0 {
			continue
		}

		switch c.name {
		case "title":
			head.Title = c.text
		case "dateCreated":
			head.DateCreated = timePtr(value)
		case "dateModified":
			head.DateModified = timePtr(value)
		case "ownerName":
			head.OwnerName = c.text
		case "ownerEmail":
			head.OwnerEmail = c.text
		case "ownerId":
			head.OwnerID = c.text
		case "docs":
			head.Docs = c.text
		case "expansionState":
			head.ExpansionState = parseExpansionState(value)
		case "vertScrollState":
			head.VertScrollState = intPtr(value)
		case "windowTop":
			head.WindowTop = intPtr(value)
		case "windowLeft":
			head.WindowLeft = intPtr(value)
		case "windowBottom":
			head.WindowBottom = intPtr(value)
		case "windowRight":
			head.WindowRight = intPtr(value)
		default:
			head.Extra.Set(c.name, nodeValue(c))
		}
	}

	return head
}

func parseExpansionState(s string) []int {
	var out []int
	for _, part := range strings.Split(s, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			out = append(out, n)
		}
	}
	return out
}

func timePtr(s string) *time.Time {
	t, ok := parseDate(s)
	if !ok {
		return nil
	}
	return &t
}

func intPtr(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func parseOutlines(n *node) []feed.Outline {
	var outlines []feed.Outline
	for _, c := range n.all("outline") {
		outline := parseOutline(c)
		outline.Outlines = parseOutlines(c)
		outlines = append(outlines, outline)
	}
	return outlines
}

func parseOutline(n *node) feed.Outline {
	outline := feed.Outline{
		Text:         n.attr("text"),
		IsComment:    n.attr("isComment") == "true",
		IsBreakpoint: n.attr("isBreakpoint") == "true",
		Category:     n.attr("category"),
		Created:      timePtr(n.attr("created")),
	}

	switch outlineType := n.attr("type"); outlineType {
	case "rss":
		outline.Kind = feed.RSSOutline{
			XMLURL:      n.attr("xmlUrl"),
			Title:       n.attr("title"),
			Description: n.attr("description"),
			HTMLURL:     n.attr("htmlUrl"),
			Language:    n.attr("language"),
			Version:     n.attr("version"),
		}
	case "link":
		outline.Kind = feed.LinkOutline{URL: n.attr("url")}
	case "include":
		outline.Kind = feed.IncludeOutline{URL: n.attr("url")}
	default:
		var attrs feed.Fields
		for _, a := range n.attrs {
			if outlineCommonAttrs[a.name] || a.value == "" {
				continue
			}
			attrs.Set(a.name, feed.StringValue(a.value))
		}
		if outlineType != "" || attrs.Len() > 0 {
			outline.Kind = feed.OtherOutline{Type: outlineType, Attrs: attrs}
		}
	}

	return outline
}
