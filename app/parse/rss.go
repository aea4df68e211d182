package parse

import (
	"cmp"
	"regexp"
	"strconv"
	"strings"

	"github.com/lysyi3m/feedkit/app/feed"
)

var rssAuthor = regexp.MustCompile(`^(.*)\((.*)\)$`)

// parseRSS handles RSS 2.0 and the RDF based RSS 1.0 and 0.9 variants.
func parseRSS(doc *document) *feed.Feed {
	root := doc.root
	rdf := root.local() == "rdf"

	var channel *node
	var items []*node

	switch {
	case rdf:
		channel = root.child("channel")
		items = root.all("item")
		if len(items) == 0 {
			items = channel.all("item")
		}
	case strings.Contains(root.attr("version"), "0.9"):
		channel = root.child("channel")
		items = channel.all("item")
		if len(items) == 0 {
			items = root.all("item")
		}
	default:
		channel = root.child("channel")
		items = channel.all("item")
	}

	f := buildChannel(channel, items)
	if f.Image == "" && rdf {
		f.Image = root.child("image").value("url")
	}
	f.Stylesheet = doc.stylesheet
	return f
}

func buildChannel(channel *node, items []*node) *feed.Feed {
	f := feed.New(feed.Options{
		Title:       channel.value("title"),
		Link:        channel.value("link"),
		Description: channel.value("description"),
		Updated:     dateOrNow(channel.value("lastBuildDate")),
		Docs:        cmp.Or(channel.value("docs"), feed.DefaultRSSDocs),
		Generator:   channel.value("generator"),
		Copyright:   channel.value("copyright"),
		Language:    channel.value("language"),
		Image:       channel.child("image").value("url"),
	})

	if ttl, err := strconv.Atoi(strings.TrimSpace(channel.value("ttl"))); err == nil {
		f.TTL = ttl
	}

	for _, c := range channel.all("category") {
		if c.text != "" {
			f.AddCategory(c.text)
		}
	}

	for _, link := range channel.all("atom:link") {
		href := link.attr("href")
		if href == "" {
			continue
		}
		switch link.attr("rel") {
		case "self":
			f.FeedURL = href
			f.FeedLinks.RSS = href
		case "hub":
			f.Hub = href
		}
	}

	if channel != nil {
		f.SetCustomFields(customFields(channel, feed.IsReservedFeedField))
	}

	for _, n := range items {
		f.AddItem(buildRSSItem(n))
	}

	return f
}

func buildRSSItem(n *node) *feed.Item {
	dateText, ok := n.childText("pubDate")
	if !ok {
		dateText = n.value("dc:date")
	}
	date := dateOrNow(dateText)

	item := feed.NewItem(feed.ItemOptions{
		ID:        n.value("guid"),
		Title:     feed.String(n.value("title")),
		Link:      n.value("link"),
		Date:      date,
		Published: date,
	})

	if description, ok := n.childText("description"); ok {
		item.SetDescription(feed.String(description))
	}
	if content, ok := n.childText("content:encoded"); ok {
		item.SetContent(feed.String(content))
	}

	for _, a := range n.all("author") {
		if a.text != "" {
			item.AddAuthor(parseRSSAuthor(a.text))
		}
	}

	for _, c := range n.all("category") {
		if c.text != "" {
			item.AddCategory(feed.Category{Name: c.text, Domain: c.attr("domain")})
		}
	}

	if enc := n.child("enclosure"); enc != nil {
		setEnclosure(item, enc)
	}

	item.SetCustomFields(customFields(n, feed.IsReservedItemField))

	return item
}

// parseRSSAuthor reads the "email (name)" form, falling back to the whole
// text as the name.
func parseRSSAuthor(s string) feed.Author {
	if m := rssAuthor.FindStringSubmatch(s); m != nil {
		return feed.Author{
			Email: strings.TrimSpace(m[1]),
			Name:  strings.TrimSpace(m[2]),
		}
	}
	return feed.Author{Name: s}
}

// setEnclosure stores the enclosure and mirrors it into the media slot named
// by the major part of its MIME type, image when untyped.
func setEnclosure(item *feed.Item, n *node) {
	enc := &feed.Enclosure{
		URL:   n.attr("url"),
		Type:  n.attr("type"),
		Title: n.attr("title"),
	}
	if length, err := strconv.ParseInt(n.attr("length"), 10, 64); err == nil {
		enc.Length = length
	}
	if duration, err := strconv.Atoi(n.attr("duration")); err == nil {
		enc.Duration = duration
	}

	item.Enclosure = enc

	major := "image"
	if before, _, found := strings.Cut(enc.Type, "/"); found {
		major = before
	}
	switch major {
	case "image":
		item.Image = enc
	case "audio":
		item.Audio = enc
	case "video":
		item.Video = enc
	}
}
