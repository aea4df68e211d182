package render

import (
	"strconv"

	"github.com/lysyi3m/feedkit/app/feed"
	"github.com/lysyi3m/feedkit/app/xmlutil"
)

const (
	nsAtom    = "http://www.w3.org/2005/Atom"
	nsDC      = "http://purl.org/dc/elements/1.1/"
	nsContent = "http://purl.org/rss/1.0/modules/content/"
)

// RSS2 renders the feed as an RSS 2.0 document.
func RSS2(f *feed.Feed) (string, error) {
	w := &xmlWriter{}
	w.declaration()
	w.stylesheet(xmlutil.EscapeXML(f.Stylesheet))

	selfLink := f.SelfLink("rss")
	hasAtom := selfLink != "" || f.Hub != ""
	hasContent := false
	for _, item := range f.Items {
		if item.Content != nil {
			hasContent = true
			break
		}
	}

	rootAttrs := []attr{{"version", "2.0"}}
	if hasContent {
		rootAttrs = append(rootAttrs, attr{"xmlns:dc", nsDC}, attr{"xmlns:content", nsContent})
	}
	if hasAtom {
		rootAttrs = append(rootAttrs, attr{"xmlns:atom", nsAtom})
	}

	w.open("rss", rootAttrs...)
	w.open("channel")

	w.text("title", xmlutil.EscapeXML(f.Title))
	w.text("link", xmlutil.EscapeXML(f.Link))
	w.text("description", xmlutil.EscapeXML(f.Description))
	w.text("lastBuildDate", rfc1123(orNow(f.Updated)))
	w.text("docs", xmlutil.EscapeXML(orDefault(f.Docs, feed.DefaultRSSDocs)))
	w.text("generator", xmlutil.EscapeXML(orDefault(f.Generator, feed.DefaultGenerator)))

	if f.Language != "" {
		w.text("language", xmlutil.EscapeXML(f.Language))
	}
	if f.TTL > 0 {
		w.text("ttl", strconv.Itoa(f.TTL))
	}
	if f.Image != "" {
		w.open("image")
		w.text("title", xmlutil.EscapeXML(f.Title))
		w.text("url", xmlutil.EscapeXML(f.Image))
		w.text("link", xmlutil.EscapeXML(f.Link))
		w.close("image")
	}
	if f.Copyright != "" {
		w.text("copyright", xmlutil.EscapeXML(f.Copyright))
	}
	for _, category := range f.Categories {
		w.text("category", xmlutil.EscapeXML(category))
	}

	// http://validator.w3.org/feed/docs/warning/MissingAtomSelfLink.html
	if selfLink != "" {
		w.empty("atom:link",
			attr{"href", xmlutil.EscapeXML(selfLink)},
			attr{"rel", "self"},
			attr{"type", "application/rss+xml"})
	}
	if f.Hub != "" {
		w.empty("atom:link",
			attr{"href", xmlutil.EscapeXML(f.Hub)},
			attr{"rel", "hub"})
	}

	if err := w.fields(f.CustomFields, feed.IsReservedFeedField); err != nil {
		return "", err
	}
	if err := w.extensions(f.Extensions, feed.IsReservedFeedField); err != nil {
		return "", err
	}

	for _, item := range f.Items {
		if err := writeRSSItem(w, item); err != nil {
			return "", err
		}
	}

	w.close("channel")
	w.close("rss")

	return w.String(), nil
}

func writeRSSItem(w *xmlWriter, item *feed.Item) error {
	w.open("item")

	w.cdata("title", item.Title.Value)
	if item.Link != "" {
		w.text("link", xmlutil.EscapeXML(item.Link))
	}

	if item.ID != "" {
		if xmlutil.IsURL(item.ID) {
			w.text("guid", xmlutil.EscapeXML(item.ID))
		} else {
			w.text("guid", xmlutil.EscapeXML(item.ID), attr{"isPermaLink", "false"})
		}
	} else if item.Link != "" {
		w.text("guid", xmlutil.EscapeXML(item.Link))
	}

	pubDate := item.Date
	if !item.Published.IsZero() {
		pubDate = item.Published
	}
	if !pubDate.IsZero() {
		w.text("pubDate", rfc1123(pubDate))
	}

	if item.Description != nil {
		w.cdata("description", item.Description.Value)
	}
	if item.Content != nil {
		w.cdata("content:encoded", item.Content.Value)
	}

	// https://validator.w3.org/feed/docs/rss2.html#ltauthorgtSubelementOfLtitemgt
	for _, author := range item.Authors {
		if author.Email != "" && author.Name != "" {
			w.text("author", xmlutil.EscapeXML(author.Email+" ("+author.Name+")"))
		}
	}

	for _, category := range item.Categories {
		var attrs []attr
		if category.Domain != "" {
			attrs = append(attrs, attr{"domain", xmlutil.EscapeXML(category.Domain)})
		}
		w.text("category", xmlutil.EscapeXML(category.Name), attrs...)
	}

	if enc := rssEnclosure(item); enc != nil {
		w.empty("enclosure", enc...)
	}

	if err := w.fields(item.CustomFields, feed.IsReservedItemField); err != nil {
		return err
	}
	if err := w.extensions(item.Extensions, feed.IsReservedItemField); err != nil {
		return err
	}

	w.close("item")
	return nil
}

// rssEnclosure picks the single enclosure an RSS item can carry. Each media
// slot present overwrites the previous one, in the order enclosure, image,
// audio, video.
func rssEnclosure(item *feed.Item) []attr {
	var out []attr
	slots := []struct {
		media    feed.Media
		category string
	}{
		{item.Enclosure, "image"},
		{item.Image, "image"},
		{item.Audio, "audio"},
		{item.Video, "video"},
	}
	for _, slot := range slots {
		if enc := feed.AsEnclosure(slot.media); enc != nil {
			out = enclosureAttrs(enc, slot.category)
		}
	}
	return out
}

func enclosureAttrs(enc *feed.Enclosure, category string) []attr {
	mimeType := enc.Type
	if mimeType == "" {
		mimeType = xmlutil.MediaType(enc.URL, category)
	}

	attrs := []attr{
		{"length", strconv.FormatInt(enc.Length, 10)},
		{"type", xmlutil.EscapeXML(mimeType)},
		{"url", xmlutil.EscapeXML(enc.URL)},
	}
	if enc.Title != "" {
		attrs = append(attrs, attr{"title", xmlutil.EscapeXML(enc.Title)})
	}
	if enc.Duration > 0 {
		attrs = append(attrs, attr{"duration", strconv.Itoa(enc.Duration)})
	}
	return attrs
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
