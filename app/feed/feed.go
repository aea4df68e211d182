package feed

import "time"

const (
	// DefaultGenerator is written when a feed does not name its generator.
	DefaultGenerator = "https://github.com/lysyi3m/feedkit"
	DefaultRSSDocs   = "https://validator.w3.org/feed/docs/rss2.html"
)

type FeedLinks struct {
	RSS  string
	Atom string
	JSON string
}

type Options struct {
	ID          string
	Title       string
	Updated     time.Time
	Generator   string
	Language    string
	Copyright   string
	Description string
	Image       string
	Favicon     string
	Docs        string
	TTL         int

	Link      string
	FeedURL   string
	FeedLinks FeedLinks
	Hub       string

	Authors []Author
}

type Feed struct {
	Options

	Stylesheet   string
	Items        []*Item
	Categories   []string
	Contributors []Author
	Extensions   []Extension
	CustomFields Fields
}

func New(opts Options) *Feed {
	return &Feed{Options: opts}
}

func (f *Feed) AddItem(item *Item) {
	f.Items = append(f.Items, item)
}

func (f *Feed) AddItemOptions(opts ItemOptions) *Item {
	item := NewItem(opts)
	f.AddItem(item)
	return item
}

func (f *Feed) AddCategory(category string) {
	f.Categories = append(f.Categories, category)
}

func (f *Feed) AddAuthor(author Author) {
	f.Authors = append(f.Authors, author)
}

func (f *Feed) AddContributor(contributor Author) {
	f.Contributors = append(f.Contributors, contributor)
}

func (f *Feed) AddExtension(ext Extension) {
	f.Extensions = append(f.Extensions, ext)
}

func (f *Feed) SetCustomField(name string, value Value) {
	f.CustomFields.Set(name, value)
}

func (f *Feed) SetCustomFields(fields Fields) {
	for _, field := range fields.All() {
		f.CustomFields.Set(field.Name, field.Value)
	}
}

func (f *Feed) CustomField(name string) (Value, bool) {
	return f.CustomFields.Get(name)
}

// SelfLink returns the self URL advertised for one format.
func (f *Feed) SelfLink(format string) string {
	if f.FeedURL != "" {
		return f.FeedURL
	}
	switch format {
	case "rss":
		return f.FeedLinks.RSS
	case "atom":
		return f.FeedLinks.Atom
	case "json":
		return f.FeedLinks.JSON
	}
	return ""
}
