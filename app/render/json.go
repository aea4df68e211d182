package render

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/lysyi3m/feedkit/app/feed"
	"github.com/lysyi3m/feedkit/app/xmlutil"
)

const JSONFeedVersion = "https://jsonfeed.org/version/1.1"

var jsonAPI = jsoniter.Config{
	IndentionStep: 4,
	EscapeHTML:    false,
}.Froze()

// jsonObject tracks whether a separator is needed before the next member.
type jsonObject struct {
	s *jsoniter.Stream
	n int
}

func startObject(s *jsoniter.Stream) *jsonObject {
	s.WriteObjectStart()
	return &jsonObject{s: s}
}

func (o *jsonObject) key(name string) *jsoniter.Stream {
	if o.n > 0 {
		o.s.WriteMore()
	}
	o.s.WriteObjectField(name)
	o.n++
	return o.s
}

func (o *jsonObject) str(name, value string) {
	o.key(name).WriteString(value)
}

func (o *jsonObject) optional(name, value string) {
	if value != "" {
		o.str(name, value)
	}
}

func (o *jsonObject) end() {
	o.s.WriteObjectEnd()
}

// JSON1 renders the feed as a JSON Feed 1.1 document.
func JSON1(f *feed.Feed) (string, error) {
	s := jsoniter.NewStream(jsonAPI, nil, 4096)

	root := startObject(s)
	root.str("version", JSONFeedVersion)
	root.str("title", f.Title)
	root.optional("home_page_url", f.Link)
	root.optional("feed_url", f.FeedLinks.JSON)
	root.optional("description", f.Description)
	root.optional("icon", f.Image)
	root.optional("favicon", f.Favicon)
	root.optional("language", f.Language)

	if len(f.Authors) > 0 {
		writeJSONAuthors(root.key("authors"), f.Authors)
	}

	if f.Hub != "" {
		hubs := root.key("hubs")
		hubs.WriteArrayStart()
		hub := startObject(hubs)
		hub.str("type", "WebSub")
		hub.str("url", f.Hub)
		hub.end()
		hubs.WriteArrayEnd()
	}

	writeJSONExtensions(root, f.Extensions, feed.IsReservedFeedField)
	writeJSONFields(root, f.CustomFields, feed.IsReservedFeedField)

	items := root.key("items")
	if len(f.Items) == 0 {
		items.WriteEmptyArray()
	} else {
		items.WriteArrayStart()
		for i, item := range f.Items {
			if i > 0 {
				items.WriteMore()
			}
			writeJSONItem(items, item)
		}
		items.WriteArrayEnd()
	}

	root.end()

	if s.Error != nil {
		return "", fmt.Errorf("failed to write JSON feed: %w", s.Error)
	}
	return string(s.Buffer()), nil
}

func writeJSONItem(s *jsoniter.Stream, item *feed.Item) {
	obj := startObject(s)
	obj.str("id", item.GUID())

	if item.Content != nil {
		if item.Content.Kind() == feed.TextTypeText {
			obj.str("content_text", item.Content.Value)
		} else {
			obj.str("content_html", item.Content.Value)
		}
	}

	obj.optional("url", item.Link)
	obj.str("title", item.Title.Value)
	if item.Description != nil {
		obj.str("summary", item.Description.Value)
	}
	if item.Image != nil {
		obj.optional("image", item.Image.Location())
	}
	if !item.Date.IsZero() {
		obj.str("date_modified", iso(item.Date))
	}
	if !item.Published.IsZero() {
		obj.str("date_published", iso(item.Published))
	}

	if len(item.Authors) > 0 {
		writeJSONAuthors(obj.key("authors"), item.Authors)
	}

	var tags []string
	for _, category := range item.Categories {
		if category.Name != "" {
			tags = append(tags, category.Name)
		}
	}
	if len(item.Categories) > 0 {
		writeJSONStrings(obj.key("tags"), tags)
	}

	if attachment := jsonAttachment(item); attachment != nil {
		list := obj.key("attachments")
		list.WriteArrayStart()
		a := startObject(list)
		a.str("url", attachment.URL)
		a.str("mime_type", attachment.Type)
		a.optional("title", attachment.Title)
		if attachment.Length > 0 {
			a.key("size_in_bytes").WriteInt64(attachment.Length)
		}
		if attachment.Duration > 0 {
			a.key("duration_in_seconds").WriteInt(attachment.Duration)
		}
		a.end()
		list.WriteArrayEnd()
	}

	writeJSONExtensions(obj, item.Extensions, feed.IsReservedItemField)
	writeJSONFields(obj, item.CustomFields, feed.IsReservedItemField)

	obj.end()
}

// jsonAttachment picks the last of enclosure, audio and video that is set;
// images travel in the item's image member instead.
func jsonAttachment(item *feed.Item) *feed.Enclosure {
	var out *feed.Enclosure
	slots := []struct {
		media    feed.Media
		category string
	}{
		{item.Enclosure, "image"},
		{item.Audio, "audio"},
		{item.Video, "video"},
	}
	for _, slot := range slots {
		enc := feed.AsEnclosure(slot.media)
		if enc == nil {
			continue
		}
		a := *enc
		if a.Type == "" {
			a.Type = xmlutil.MediaType(a.URL, slot.category)
		}
		out = &a
	}
	return out
}

func writeJSONAuthors(s *jsoniter.Stream, authors []feed.Author) {
	s.WriteArrayStart()
	for i, author := range authors {
		if i > 0 {
			s.WriteMore()
		}
		if author.Name == "" && author.Link == "" && author.Avatar == "" {
			s.WriteEmptyObject()
			continue
		}
		obj := startObject(s)
		obj.optional("name", author.Name)
		obj.optional("url", author.Link)
		obj.optional("avatar", author.Avatar)
		obj.end()
	}
	s.WriteArrayEnd()
}

func writeJSONStrings(s *jsoniter.Stream, values []string) {
	if len(values) == 0 {
		s.WriteEmptyArray()
		return
	}
	s.WriteArrayStart()
	for i, v := range values {
		if i > 0 {
			s.WriteMore()
		}
		s.WriteString(v)
	}
	s.WriteArrayEnd()
}

func writeJSONExtensions(obj *jsonObject, exts []feed.Extension, reserved func(string) bool) {
	for _, ext := range exts {
		if reserved(ext.Name) {
			continue
		}
		writeJSONValue(obj.key(ext.Name), feed.MapValue(ext.Objects))
	}
}

func writeJSONFields(obj *jsonObject, fields feed.Fields, reserved func(string) bool) {
	for _, f := range fields.All() {
		if reserved(f.Name) || f.Value.IsEmpty() {
			continue
		}
		writeJSONValue(obj.key(f.Name), f.Value)
	}
}

func writeJSONValue(s *jsoniter.Stream, v feed.Value) {
	switch v.Kind() {
	case feed.KindList:
		writeJSONStrings(s, v.List())
	case feed.KindMap:
		if v.Map().Len() == 0 {
			s.WriteEmptyObject()
			return
		}
		obj := startObject(s)
		for _, f := range v.Map().All() {
			writeJSONValue(obj.key(f.Name), f.Value)
		}
		obj.end()
	default:
		s.WriteString(v.String())
	}
}
