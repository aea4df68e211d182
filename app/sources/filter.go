package sources

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lysyi3m/feedkit/app/feed"
)

// Apply drops the items rejected by the source filters and caps the rest
// at MaxItems. The feed is modified in place.
func (s *Source) Apply(f *feed.Feed) {
	kept := f.Items[:0]
	for _, item := range f.Items {
		if reason, filtered := applyFilters(item, s.Filters); filtered {
			slog.Debug("Item filtered", "source", s.Name, "link", item.Link, "reason", reason)
			continue
		}
		kept = append(kept, item)
	}

	if s.Settings.MaxItems > 0 && len(kept) > s.Settings.MaxItems {
		kept = kept[:s.Settings.MaxItems]
	}
	f.Items = kept
}

func applyFilters(item *feed.Item, filters []Filter) (string, bool) {
	for _, filter := range filters {
		value := fieldValue(item, filter.Field)

		for _, exclude := range filter.Excludes {
			if matches(value, exclude) {
				return fmt.Sprintf("Excluded by %s filter: contains '%s'", filter.Field, exclude), true
			}
		}

		if len(filter.Includes) > 0 {
			matched := false
			for _, include := range filter.Includes {
				if matches(value, include) {
					matched = true
					break
				}
			}
			if !matched {
				return fmt.Sprintf("Excluded by %s filter: does not contain any of %v", filter.Field, filter.Includes), true
			}
		}
	}

	return "", false
}

func matches(value, pattern string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}

func fieldValue(item *feed.Item, field string) string {
	switch field {
	case "title":
		return item.Title.Value
	case "description":
		return plainText(item.Description)
	case "content":
		return plainText(item.Content)
	case "authors":
		names := make([]string, 0, len(item.Authors))
		for _, a := range item.Authors {
			names = append(names, a.Name, a.Email)
		}
		return strings.Join(names, " ")
	case "link":
		return item.Link
	case "categories":
		names := make([]string, 0, len(item.Categories))
		for _, c := range item.Categories {
			names = append(names, c.Name)
		}
		return strings.Join(names, " ")
	}
	return ""
}

// plainText strips markup from HTML text so filters match what readers see.
func plainText(t *feed.Text) string {
	if t == nil {
		return ""
	}
	if t.Kind() != feed.TextTypeHTML {
		return t.Value
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(t.Value))
	if err != nil {
		return t.Value
	}
	return doc.Text()
}
