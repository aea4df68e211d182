package render

import (
	"github.com/lysyi3m/feedkit/app/feed"
	"github.com/lysyi3m/feedkit/app/xmlutil"
)

// Atom1 renders the feed as an Atom 1.0 document.
func Atom1(f *feed.Feed) (string, error) {
	w := &xmlWriter{}
	w.declaration()
	w.stylesheet(xmlutil.Sanitize(f.Stylesheet))

	w.open("feed", attr{"xmlns", nsAtom})

	w.text("id", xmlutil.EscapeXML(f.ID))
	w.text("title", xmlutil.EscapeXML(f.Title))
	w.text("updated", iso(orNow(f.Updated)))
	w.text("generator", xmlutil.EscapeXML(orDefault(f.Generator, feed.DefaultGenerator)))

	for _, author := range f.Authors {
		writeAtomPerson(w, "author", author)
	}

	if f.Link != "" {
		w.empty("link", attr{"rel", "alternate"}, attr{"href", xmlutil.EscapeXML(f.Link)})
	}
	if self := f.SelfLink("atom"); self != "" {
		w.empty("link", attr{"rel", "self"}, attr{"href", xmlutil.EscapeXML(self)})
	}
	if f.Hub != "" {
		w.empty("link", attr{"rel", "hub"}, attr{"href", xmlutil.EscapeXML(f.Hub)})
	}

	if f.Description != "" {
		w.text("subtitle", xmlutil.EscapeXML(f.Description))
	}
	if f.Image != "" {
		w.text("logo", xmlutil.EscapeXML(f.Image))
	}
	if f.Favicon != "" {
		w.text("icon", xmlutil.EscapeXML(f.Favicon))
	}
	if f.Copyright != "" {
		w.text("rights", xmlutil.EscapeXML(f.Copyright))
	}

	for _, category := range f.Categories {
		w.empty("category", attr{"term", xmlutil.EscapeXML(category)})
	}
	for _, contributor := range f.Contributors {
		writeAtomPerson(w, "contributor", contributor)
	}

	if err := w.fields(f.CustomFields, feed.IsReservedFeedField); err != nil {
		return "", err
	}
	if err := w.extensions(f.Extensions, feed.IsReservedFeedField); err != nil {
		return "", err
	}

	for _, item := range f.Items {
		if err := writeAtomEntry(w, item); err != nil {
			return "", err
		}
	}

	w.close("feed")

	return w.String(), nil
}

func writeAtomEntry(w *xmlWriter, item *feed.Item) error {
	w.open("entry")

	w.cdata("title", item.Title.Value, attr{"type", string(item.Title.Kind())})
	w.text("id", xmlutil.EscapeXML(item.GUID()))
	w.empty("link", attr{"href", xmlutil.EscapeXML(item.Link)})
	if enc := feed.AsEnclosure(item.Image); enc != nil {
		mimeType := enc.Type
		if mimeType == "" {
			mimeType = xmlutil.MediaType(enc.URL, "image")
		}
		w.empty("link",
			attr{"rel", "enclosure"},
			attr{"type", xmlutil.EscapeXML(mimeType)},
			attr{"href", xmlutil.EscapeXML(enc.URL)})
	}
	w.text("updated", iso(orNow(item.Date)))

	if item.Description != nil {
		w.cdata("summary", item.Description.Value, attr{"type", string(item.Description.Kind())})
	}
	if item.Content != nil {
		w.cdata("content", item.Content.Value, attr{"type", string(item.Content.Kind())})
	}

	for _, author := range item.Authors {
		writeAtomPerson(w, "author", author)
	}

	for _, category := range item.Categories {
		var attrs []attr
		if category.Name != "" {
			attrs = append(attrs, attr{"label", xmlutil.EscapeXML(category.Name)})
		}
		if category.Scheme != "" {
			attrs = append(attrs, attr{"scheme", xmlutil.EscapeXML(category.Scheme)})
		}
		if category.Term != "" {
			attrs = append(attrs, attr{"term", xmlutil.EscapeXML(category.Term)})
		}
		w.empty("category", attrs...)
	}

	for _, contributor := range item.Contributors {
		writeAtomPerson(w, "contributor", contributor)
	}

	if !item.Published.IsZero() {
		w.text("published", iso(item.Published))
	}
	if item.Copyright != "" {
		w.text("rights", xmlutil.EscapeXML(item.Copyright))
	}

	if err := w.fields(item.CustomFields, feed.IsReservedItemField); err != nil {
		return err
	}
	if err := w.extensions(item.Extensions, feed.IsReservedItemField); err != nil {
		return err
	}

	w.close("entry")
	return nil
}

func writeAtomPerson(w *xmlWriter, tag string, person feed.Author) {
	w.open(tag)
	w.text("name", xmlutil.EscapeXML(person.Name))
	if person.Email != "" {
		w.text("email", xmlutil.EscapeXML(person.Email))
	}
	if person.Link != "" {
		w.text("uri", xmlutil.EscapeXML(person.Link))
	}
	w.close(tag)
}
