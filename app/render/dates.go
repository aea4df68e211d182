package render

import "time"

const (
	// RFC1123Layout is the calendar form used by RSS and OPML.
	RFC1123Layout = "Mon, 02 Jan 2006 15:04:05 GMT"
	// ISOLayout is the instant form used by Atom and JSON Feed.
	ISOLayout = "2006-01-02T15:04:05.000Z"
)

// now is replaced in tests.
var now = time.Now

func rfc1123(t time.Time) string {
	return t.UTC().Format(RFC1123Layout)
}

func iso(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

func orNow(t time.Time) time.Time {
	if t.IsZero() {
		return now()
	}
	return t
}
