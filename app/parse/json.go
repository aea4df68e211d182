package parse

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/lysyi3m/feedkit/app/feed"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// jsonValue is a decoded JSON value that keeps object members in document
// order. Scalars keep their literal text.
type jsonValue struct {
	kind    jsoniter.ValueType
	scalar  string
	members []jsonMember
	items   []*jsonValue
}

type jsonMember struct {
	key   string
	value *jsonValue
}

func decodeJSON(data []byte) (*jsonValue, error) {
	it := jsoniter.ParseBytes(jsonAPI, data)
	v := readJSON(it)
	if it.Error != nil && !errors.Is(it.Error, io.EOF) {
		return nil, fmt.Errorf("failed to parse JSON: %w", it.Error)
	}
	return v, nil
}

func readJSON(it *jsoniter.Iterator) *jsonValue {
	switch kind := it.WhatIsNext(); kind {
	case jsoniter.StringValue:
		return &jsonValue{kind: kind, scalar: it.ReadString()}
	case jsoniter.NumberValue:
		return &jsonValue{kind: kind, scalar: string(it.ReadNumber())}
	case jsoniter.BoolValue:
		return &jsonValue{kind: kind, scalar: strconv.FormatBool(it.ReadBool())}
	case jsoniter.NilValue:
		it.ReadNil()
		return &jsonValue{kind: kind}
	case jsoniter.ArrayValue:
		v := &jsonValue{kind: kind}
		it.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			v.items = append(v.items, readJSON(it))
			return it.Error == nil
		})
		return v
	case jsoniter.ObjectValue:
		v := &jsonValue{kind: kind}
		it.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			v.members = append(v.members, jsonMember{key: key, value: readJSON(it)})
			return it.Error == nil
		})
		return v
	default:
		it.Skip()
		return &jsonValue{kind: jsoniter.InvalidValue}
	}
}

func (v *jsonValue) get(key string) *jsonValue {
	if v == nil {
		return nil
	}
	for _, m := range v.members {
		if m.key == key {
			return m.value
		}
	}
	return nil
}

// str returns scalar text; objects, arrays and null read as empty.
func (v *jsonValue) str() string {
	if v == nil {
		return ""
	}
	return v.scalar
}

func (v *jsonValue) isScalar() bool {
	if v == nil {
		return false
	}
	switch v.kind {
	case jsoniter.StringValue, jsoniter.NumberValue, jsoniter.BoolValue:
		return true
	}
	return false
}

func (v *jsonValue) array() []*jsonValue {
	if v == nil || v.kind != jsoniter.ArrayValue {
		return nil
	}
	return v.items
}

// toValue converts to the model's open value shape. ok is false for null.
func (v *jsonValue) toValue() (feed.Value, bool) {
	switch v.kind {
	case jsoniter.StringValue, jsoniter.NumberValue, jsoniter.BoolValue:
		return feed.StringValue(v.scalar), true
	case jsoniter.ArrayValue:
		list := make([]string, 0, len(v.items))
		for _, item := range v.items {
			if item.isScalar() {
				list = append(list, item.scalar)
			}
		}
		return feed.ListValue(list...), true
	case jsoniter.ObjectValue:
		return feed.MapValue(v.fields()), true
	}
	return feed.Value{}, false
}

func (v *jsonValue) fields() feed.Fields {
	var fields feed.Fields
	for _, m := range v.members {
		if value, ok := m.value.toValue(); ok {
			fields.Set(m.key, value)
		}
	}
	return fields
}

func parseJSONFeed(root *jsonValue) *feed.Feed {
	f := feed.New(feed.Options{
		ID:          root.get("id").str(),
		Title:       root.get("title").str(),
		Link:        root.get("home_page_url").str(),
		Description: root.get("description").str(),
		Image:       root.get("icon").str(),
		Favicon:     root.get("favicon").str(),
		Generator:   root.get("generator").str(),
		Language:    root.get("language").str(),
		Updated:     now().UTC(),
		FeedLinks:   feed.FeedLinks{JSON: root.get("feed_url").str()},
	})

	for _, a := range jsonAuthors(root) {
		f.AddAuthor(a)
	}

	for _, hub := range root.get("hubs").array() {
		if url := hub.get("url").str(); url != "" {
			f.Hub = url
			break
		}
	}

	extensions, fields := jsonExtras(root, feed.IsReservedFeedField)
	for _, ext := range extensions {
		f.AddExtension(ext)
	}
	f.SetCustomFields(fields)

	for _, n := range root.get("items").array() {
		if n.kind == jsoniter.ObjectValue {
			f.AddItem(buildJSONItem(n))
		}
	}

	return f
}

func buildJSONItem(n *jsonValue) *feed.Item {
	item := feed.NewItem(feed.ItemOptions{
		ID:    n.get("id").str(),
		Title: feed.String(n.get("title").str()),
		Link:  n.get("url").str(),
		Date:  dateOrNow(n.get("date_modified").str()),
	})

	if summary := n.get("summary"); summary.isScalar() {
		item.SetDescription(feed.String(summary.str()))
	}

	if text := n.get("content_text"); text.isScalar() && text.str() != "" {
		item.SetContent(feed.PlainText(text.str()))
	} else if html := n.get("content_html"); html.isScalar() {
		item.SetContent(feed.HTMLText(html.str()))
	}

	if image := n.get("image").str(); image != "" {
		item.Image = feed.MediaLink(image)
	}
	if published, ok := parseDate(n.get("date_published").str()); ok {
		item.SetPublished(published)
	}

	for _, a := range jsonAuthors(n) {
		item.AddAuthor(a)
	}

	for _, tag := range n.get("tags").array() {
		if tag.isScalar() {
			item.AddCategory(feed.Category{Name: tag.str()})
		}
	}

	if attachments := n.get("attachments").array(); len(attachments) > 0 {
		a := attachments[0]
		enc := &feed.Enclosure{
			URL:   a.get("url").str(),
			Type:  a.get("mime_type").str(),
			Title: a.get("title").str(),
		}
		if size, err := strconv.ParseInt(a.get("size_in_bytes").str(), 10, 64); err == nil {
			enc.Length = size
		}
		if duration, err := strconv.Atoi(a.get("duration_in_seconds").str()); err == nil {
			enc.Duration = duration
		}
		item.Enclosure = enc
	}

	extensions, fields := jsonExtras(n, feed.IsReservedItemField)
	item.SetExtensions(extensions)
	item.SetCustomFields(fields)

	return item
}

// jsonAuthors accepts both the 1.0 "author" object and the 1.1 "authors" list.
func jsonAuthors(v *jsonValue) []feed.Author {
	var out []feed.Author
	if a := v.get("author"); a != nil && a.kind == jsoniter.ObjectValue {
		out = append(out, jsonAuthor(a))
	}
	for _, a := range v.get("authors").array() {
		if a.kind == jsoniter.ObjectValue {
			out = append(out, jsonAuthor(a))
		}
	}
	return out
}

func jsonAuthor(v *jsonValue) feed.Author {
	return feed.Author{
		Name:   v.get("name").str(),
		Email:  v.get("email").str(),
		Link:   v.get("url").str(),
		Avatar: v.get("avatar").str(),
	}
}

// jsonExtras splits the members that are not built in: underscore-prefixed
// objects are extensions, everything else is a custom field.
func jsonExtras(v *jsonValue, reserved func(string) bool) ([]feed.Extension, feed.Fields) {
	var extensions []feed.Extension
	var fields feed.Fields
	for _, m := range v.members {
		if reserved(m.key) {
			continue
		}
		if strings.HasPrefix(m.key, "_") && m.value.kind == jsoniter.ObjectValue {
			extensions = append(extensions, feed.Extension{Name: m.key, Objects: m.value.fields()})
			continue
		}
		if value, ok := m.value.toValue(); ok {
			fields.Set(m.key, value)
		}
	}
	return extensions, fields
}
