package parse

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var dateLayouts = []string{
	"Mon, 02 Jan 2006 15:04:05 GMT",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
}

// now is replaced in tests.
var now = time.Now

// parseDate tries the layouts the renderers emit before falling back to a
// lenient parser. Results are in UTC.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

func dateOrNow(s string) time.Time {
	if t, ok := parseDate(s); ok {
		return t
	}
	return now().UTC()
}
