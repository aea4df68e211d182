package parse

import (
	"cmp"
	"strconv"

	"github.com/lysyi3m/feedkit/app/feed"
)

func parseAtom(doc *document) *feed.Feed {
	root := doc.root

	f := feed.New(feed.Options{
		ID:          root.value("id"),
		Title:       root.value("title"),
		Updated:     dateOrNow(root.value("updated")),
		Copyright:   root.value("rights"),
		Generator:   root.value("generator"),
		Description: root.value("subtitle"),
		Image:       root.value("logo"),
		Favicon:     root.value("icon"),
	})
	f.Stylesheet = doc.stylesheet

	for _, a := range root.all("author") {
		f.AddAuthor(atomPerson(a))
	}

	for _, link := range root.all("link") {
		href := link.attr("href")
		if href == "" {
			continue
		}
		switch link.attr("rel") {
		case "self":
			f.FeedURL = href
			f.FeedLinks.Atom = href
		case "hub":
			f.Hub = href
		case "alternate", "":
			f.Link = href
		}
	}

	for _, c := range root.all("category") {
		if term := c.attr("term"); term != "" {
			f.AddCategory(term)
		}
	}

	for _, c := range root.all("contributor") {
		if c.value("name") != "" {
			f.AddContributor(atomPerson(c))
		}
	}

	f.SetCustomFields(customFields(root, feed.IsReservedFeedField))

	for _, entry := range root.all("entry") {
		f.AddItem(buildAtomEntry(entry))
	}

	return f
}

func buildAtomEntry(n *node) *feed.Item {
	item := feed.NewItem(feed.ItemOptions{
		ID:        n.value("id"),
		Title:     atomText(n.child("title")),
		Date:      dateOrNow(n.value("updated")),
		Copyright: n.value("rights"),
	})

	for _, link := range n.all("link") {
		href := link.attr("href")
		if link.attr("rel") == "enclosure" {
			if item.Image == nil && href != "" {
				enc := &feed.Enclosure{URL: href, Type: link.attr("type")}
				if length, err := strconv.ParseInt(link.attr("length"), 10, 64); err == nil {
					enc.Length = length
				}
				item.Image = enc
			}
			continue
		}
		if item.Link == "" {
			item.Link = href
		}
	}

	if summary := n.child("summary"); summary != nil {
		item.SetDescription(atomText(summary))
	}
	if content := n.child("content"); content != nil {
		item.SetContent(atomText(content))
	}
	if published, ok := parseDate(n.value("published")); ok {
		item.SetPublished(published)
	}

	for _, a := range n.all("author") {
		if a.value("name") != "" {
			item.AddAuthor(atomPerson(a))
		}
	}

	for _, c := range n.all("category") {
		name := cmp.Or(c.attr("label"), c.attr("term"))
		if name == "" {
			continue
		}
		item.AddCategory(feed.Category{
			Name:   name,
			Scheme: c.attr("scheme"),
			Term:   c.attr("term"),
		})
	}

	for _, c := range n.all("contributor") {
		if c.value("name") != "" {
			item.AddContributor(atomPerson(c))
		}
	}

	item.SetCustomFields(customFields(n, feed.IsReservedItemField))

	return item
}

func atomPerson(n *node) feed.Author {
	return feed.Author{
		Name:  n.value("name"),
		Email: n.value("email"),
		Link:  n.value("uri"),
	}
}

// atomText keeps the declared type; xhtml is treated as html.
func atomText(n *node) feed.Text {
	if n == nil {
		return feed.Text{}
	}
	switch n.attr("type") {
	case "text":
		return feed.PlainText(n.text)
	case "html", "xhtml":
		return feed.HTMLText(n.text)
	}
	return feed.String(n.text)
}
