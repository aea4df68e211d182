package feed

// Element and key names that any of the supported formats uses for a built-in
// feed-level field. Custom fields and extensions with these names are never
// rendered.
var reservedFeedFields = toSet(
	// RSS channel
	"title", "link", "description", "language", "copyright", "managingEditor",
	"webMaster", "pubDate", "lastBuildDate", "category", "generator", "docs",
	"cloud", "ttl", "image", "rating", "textInput", "textinput", "skipHours",
	"skipDays", "item", "items", "atom:link",
	// Atom feed
	"id", "updated", "author", "subtitle", "logo", "icon", "rights",
	"contributor", "entry",
	// JSON Feed
	"version", "home_page_url", "feed_url", "user_comment", "next_url",
	"favicon", "authors", "expired", "hubs",
)

var reservedItemFields = toSet(
	// RSS item
	"title", "link", "description", "author", "category", "comments",
	"enclosure", "guid", "pubDate", "source", "content:encoded", "dc:date",
	// Atom entry
	"id", "updated", "content", "summary", "contributor", "published", "rights",
	// JSON Feed item
	"url", "external_url", "content_html", "content_text", "image",
	"banner_image", "date_published", "date_modified", "authors", "tags",
	"language", "attachments",
)

func toSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func IsReservedFeedField(name string) bool {
	_, ok := reservedFeedFields[name]
	return ok
}

func IsReservedItemField(name string) bool {
	_, ok := reservedItemFields[name]
	return ok
}
