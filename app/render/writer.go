package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/lysyi3m/feedkit/app/feed"
	"github.com/lysyi3m/feedkit/app/xmlutil"
)

const indentWidth = 4

// InvalidNameError is returned when a custom field or extension name cannot
// be written as an XML element.
type InvalidNameError struct {
	Name string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid XML tag name: %s", e.Name)
}

// attr values are written as given; callers escape them.
type attr struct {
	name  string
	value string
}

// xmlWriter emits indented XML into a buffer. Text handed to it must already
// be escaped.
type xmlWriter struct {
	buf   bytes.Buffer
	depth int
}

func (w *xmlWriter) declaration() {
	w.buf.WriteString(`<?xml version="1.0" encoding="utf-8"?>`)
}

func (w *xmlWriter) stylesheet(href string) {
	if href == "" {
		return
	}
	w.newline()
	fmt.Fprintf(&w.buf, `<?xml-stylesheet href="%s" type="text/xsl"?>`, href)
}

func (w *xmlWriter) newline() {
	w.buf.WriteByte('\n')
	w.buf.WriteString(strings.Repeat(" ", w.depth*indentWidth))
}

func (w *xmlWriter) startTag(tag string, attrs []attr) {
	w.buf.WriteByte('<')
	w.buf.WriteString(tag)
	for _, a := range attrs {
		w.buf.WriteByte(' ')
		w.buf.WriteString(a.name)
		w.buf.WriteString(`="`)
		w.buf.WriteString(a.value)
		w.buf.WriteByte('"')
	}
}

func (w *xmlWriter) open(tag string, attrs ...attr) {
	w.newline()
	w.startTag(tag, attrs)
	w.buf.WriteByte('>')
	w.depth++
}

func (w *xmlWriter) close(tag string) {
	w.depth--
	w.newline()
	w.buf.WriteString("</")
	w.buf.WriteString(tag)
	w.buf.WriteByte('>')
}

func (w *xmlWriter) empty(tag string, attrs ...attr) {
	w.newline()
	w.startTag(tag, attrs)
	w.buf.WriteString("/>")
}

// text writes <tag>escaped</tag>, or a self-closed tag when escaped is empty.
func (w *xmlWriter) text(tag, escaped string, attrs ...attr) {
	if escaped == "" {
		w.empty(tag, attrs...)
		return
	}
	w.newline()
	w.startTag(tag, attrs)
	w.buf.WriteByte('>')
	w.buf.WriteString(escaped)
	w.buf.WriteString("</")
	w.buf.WriteString(tag)
	w.buf.WriteByte('>')
}

// cdata writes the raw text wrapped in CDATA sections.
func (w *xmlWriter) cdata(tag, raw string, attrs ...attr) {
	w.newline()
	w.startTag(tag, attrs)
	w.buf.WriteByte('>')
	w.buf.WriteString("<![CDATA[")
	w.buf.WriteString(strings.ReplaceAll(raw, "]]>", "]]]]><![CDATA[>"))
	w.buf.WriteString("]]>")
	w.buf.WriteString("</")
	w.buf.WriteString(tag)
	w.buf.WriteByte('>')
}

func (w *xmlWriter) String() string {
	return w.buf.String()
}

// fields writes custom fields after the built-in elements of one level,
// skipping reserved names and empty values.
func (w *xmlWriter) fields(fields feed.Fields, reserved func(string) bool) error {
	for _, f := range fields.All() {
		if reserved(f.Name) {
			continue
		}
		if err := w.value(f.Name, f.Value); err != nil {
			return err
		}
	}
	return nil
}

func (w *xmlWriter) extensions(exts []feed.Extension, reserved func(string) bool) error {
	for _, ext := range exts {
		if reserved(ext.Name) {
			continue
		}
		if err := w.value(ext.Name, feed.MapValue(ext.Objects)); err != nil {
			return err
		}
	}
	return nil
}

func (w *xmlWriter) value(name string, v feed.Value) error {
	if !xmlutil.IsValidTagName(name) {
		return &InvalidNameError{Name: name}
	}
	if v.IsEmpty() {
		return nil
	}

	switch v.Kind() {
	case feed.KindList:
		for _, s := range v.List() {
			w.text(name, xmlutil.EscapeXML(s))
		}
	case feed.KindMap:
		w.open(name)
		for _, f := range v.Map().All() {
			if err := w.value(f.Name, f.Value); err != nil {
				return err
			}
		}
		w.close(name)
	default:
		w.text(name, xmlutil.EscapeXML(v.String()))
	}
	return nil
}
