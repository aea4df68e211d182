package render

import (
	"strconv"
	"strings"
	"time"

	"github.com/lysyi3m/feedkit/app/feed"
	"github.com/lysyi3m/feedkit/app/xmlutil"
)

// OPML renders an outline document.
func OPML(o *feed.Opml) (string, error) {
	w := &xmlWriter{}
	w.declaration()

	w.open("opml", attr{"version", xmlutil.EscapeXML(orDefault(o.Version, feed.DefaultOpmlVersion))})

	if err := writeOpmlHead(w, o.Head); err != nil {
		return "", err
	}

	w.open("body")
	for _, outline := range o.Outlines {
		if err := writeOutline(w, outline); err != nil {
			return "", err
		}
	}
	w.close("body")

	w.close("opml")

	return w.String(), nil
}

func writeOpmlHead(w *xmlWriter, head feed.OpmlHead) error {
	w.open("head")

	optionalText := func(tag, value string) {
		if value != "" {
			w.text(tag, xmlutil.EscapeXML(value))
		}
	}
	optionalTime := func(tag string, value *time.Time) {
		if value != nil {
			w.text(tag, rfc1123(*value))
		}
	}
	optionalInt := func(tag string, value *int) {
		if value != nil {
			w.text(tag, strconv.Itoa(*value))
		}
	}

	optionalText("title", head.Title)
	optionalTime("dateCreated", head.DateCreated)
	optionalTime("dateModified", head.DateModified)
	optionalText("ownerName", head.OwnerName)
	optionalText("ownerEmail", head.OwnerEmail)
	optionalText("ownerId", head.OwnerID)
	optionalText("docs", head.Docs)

	if len(head.ExpansionState) > 0 {
		parts := make([]string, len(head.ExpansionState))
		for i, n := range head.ExpansionState {
			parts[i] = strconv.Itoa(n)
		}
		w.text("expansionState", strings.Join(parts, ", "))
	}

	optionalInt("vertScrollState", head.VertScrollState)
	optionalInt("windowTop", head.WindowTop)
	optionalInt("windowLeft", head.WindowLeft)
	optionalInt("windowBottom", head.WindowBottom)
	optionalInt("windowRight", head.WindowRight)

	for _, f := range head.Extra.All() {
		if err := w.value(f.Name, f.Value); err != nil {
			return err
		}
	}

	w.close("head")
	return nil
}

func writeOutline(w *xmlWriter, outline feed.Outline) error {
	attrs := []attr{{"text", xmlutil.EscapeXML(outline.Text)}}

	if t := outline.OutlineType(); t != "" {
		attrs = append(attrs, attr{"type", xmlutil.EscapeXML(t)})
	}

	optional := func(name, value string) {
		if value != "" {
			attrs = append(attrs, attr{name, xmlutil.EscapeXML(value)})
		}
	}

	switch kind := outline.Kind.(type) {
	case feed.RSSOutline:
		attrs = append(attrs, attr{"xmlUrl", xmlutil.EscapeXML(kind.XMLURL)})
		optional("title", kind.Title)
		optional("description", kind.Description)
		optional("htmlUrl", kind.HTMLURL)
		optional("language", kind.Language)
		optional("version", kind.Version)
	case feed.LinkOutline:
		attrs = append(attrs, attr{"url", xmlutil.EscapeXML(kind.URL)})
	case feed.IncludeOutline:
		attrs = append(attrs, attr{"url", xmlutil.EscapeXML(kind.URL)})
	case feed.OtherOutline:
		for _, f := range kind.Attrs.All() {
			if !xmlutil.IsValidTagName(f.Name) {
				return &InvalidNameError{Name: f.Name}
			}
			if f.Value.Kind() != feed.KindString {
				continue
			}
			attrs = append(attrs, attr{f.Name, xmlutil.EscapeXML(f.Value.String())})
		}
	}

	if outline.IsComment {
		attrs = append(attrs, attr{"isComment", "true"})
	}
	if outline.IsBreakpoint {
		attrs = append(attrs, attr{"isBreakpoint", "true"})
	}
	optional("category", outline.Category)
	if outline.Created != nil {
		attrs = append(attrs, attr{"created", rfc1123(*outline.Created)})
	}

	if len(outline.Outlines) == 0 {
		w.empty("outline", attrs...)
		return nil
	}

	w.open("outline", attrs...)
	for _, child := range outline.Outlines {
		if err := writeOutline(w, child); err != nil {
			return err
		}
	}
	w.close("outline")
	return nil
}
