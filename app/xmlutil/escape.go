// Package xmlutil holds the escaping and name checks shared by the XML
// renderers.
package xmlutil

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

var tagNamePattern = regexp.MustCompile(`^[A-Za-z_][\w.-]*(:[\w.-]+)*$`)

var knownEntities = []string{"&amp;", "&lt;", "&gt;", "&quot;", "&apos;"}

// Sanitize replaces every ampersand with &amp;. It is meant for URLs placed in
// attribute values; an empty string stays empty.
func Sanitize(s string) string {
	if s == "" {
		return s
	}
	return strings.ReplaceAll(s, "&", "&amp;")
}

// EscapeXML escapes the five XML special characters. An ampersand that
// already starts an entity is kept, so escaping twice is a no-op.
func EscapeXML(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '&':
			if startsEntity(s[i:]) {
				b.WriteByte('&')
			} else {
				b.WriteString("&amp;")
			}
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&apos;")
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

func startsEntity(s string) bool {
	for _, e := range knownEntities {
		if strings.HasPrefix(s, e) {
			return true
		}
	}

	// numeric character references: &#123; or &#x1F;
	if !strings.HasPrefix(s, "&#") {
		return false
	}
	rest := s[2:]
	hex := false
	if len(rest) > 0 && (rest[0] == 'x' || rest[0] == 'X') {
		hex = true
		rest = rest[1:]
	}
	n := 0
	for n < len(rest) && isDigit(rest[n], hex) {
		n++
	}
	return n > 0 && n < len(rest) && rest[n] == ';'
}

func isDigit(c byte, hex bool) bool {
	if c >= '0' && c <= '9' {
		return true
	}
	return hex && ((c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F'))
}

// IsValidTagName reports whether name can be written as an element name.
// Names starting with "xml" in any case are reserved.
func IsValidTagName(name string) bool {
	if name == "" || !tagNamePattern.MatchString(name) {
		return false
	}
	return !strings.HasPrefix(strings.ToLower(name), "xml")
}

// IsURL is a best-effort check for an absolute URL.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && (u.Host != "" || u.Opaque != "" || u.Path != "")
}

// MediaType builds "<category>/<extension>" from the extension of the URL path.
func MediaType(rawURL, category string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	ext := strings.TrimPrefix(path.Ext(p), ".")
	if ext == "" {
		return "application/octet-stream"
	}
	return category + "/" + strings.ToLower(ext)
}
