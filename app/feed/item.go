package feed

import "time"

type ItemOptions struct {
	ID          string
	Title       Text
	Link        string
	Date        time.Time
	Description *Text
	Content     *Text
	Published   time.Time
	Copyright   string

	Categories   []Category
	Authors      []Author
	Contributors []Author
	Extensions   []Extension

	Image     Media
	Audio     Media
	Video     Media
	Enclosure Media
}

type Item struct {
	ItemOptions

	CustomFields Fields
}

func NewItem(opts ItemOptions) *Item {
	return &Item{ItemOptions: opts}
}

// GUID returns the item identifier, falling back to its link.
func (i *Item) GUID() string {
	if i.ID != "" {
		return i.ID
	}
	return i.Link
}

func (i *Item) SetID(id string) {
	i.ID = id
}

func (i *Item) SetTitle(title Text) {
	i.Title = title
}

func (i *Item) SetDescription(description Text) {
	i.Description = &description
}

func (i *Item) SetContent(content Text) {
	i.Content = &content
}

func (i *Item) SetLink(link string) {
	i.Link = link
}

func (i *Item) SetDate(date time.Time) {
	i.Date = date
}

func (i *Item) SetPublished(date time.Time) {
	i.Published = date
}

func (i *Item) SetCopyright(copyright string) {
	i.Copyright = copyright
}

func (i *Item) AddCategory(category Category) {
	i.Categories = append(i.Categories, category)
}

func (i *Item) AddAuthor(author Author) {
	i.Authors = append(i.Authors, author)
}

func (i *Item) AddContributor(contributor Author) {
	i.Contributors = append(i.Contributors, contributor)
}

func (i *Item) AddExtension(ext Extension) {
	i.Extensions = append(i.Extensions, ext)
}

func (i *Item) SetExtensions(exts []Extension) {
	i.Extensions = exts
}

func (i *Item) SetCustomField(name string, value Value) {
	i.CustomFields.Set(name, value)
}

func (i *Item) SetCustomFields(fields Fields) {
	for _, field := range fields.All() {
		i.CustomFields.Set(field.Name, field.Value)
	}
}

func (i *Item) CustomField(name string) (Value, bool) {
	return i.CustomFields.Get(name)
}
