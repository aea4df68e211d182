package feed

type TextType string

const (
	TextTypeText TextType = "text"
	TextTypeHTML TextType = "html"
)

// DefaultTextType is applied to bare strings when a format needs a type.
var DefaultTextType = TextTypeHTML

// Text is either a bare string (Type is empty) or an explicitly typed text.
type Text struct {
	Value string
	Type  TextType
}

func String(s string) Text {
	return Text{Value: s}
}

func PlainText(s string) Text {
	return Text{Value: s, Type: TextTypeText}
}

func HTMLText(s string) Text {
	return Text{Value: s, Type: TextTypeHTML}
}

func (t Text) Kind() TextType {
	if t.Type == "" {
		return DefaultTextType
	}
	return t.Type
}

type Author struct {
	Name   string
	Email  string
	Link   string
	Avatar string
}

type Category struct {
	Name   string
	Domain string
	Scheme string
	Term   string
}

type Extension struct {
	Name    string
	Objects Fields
}

// Media is an item attachment: either a bare MediaLink or a full *Enclosure.
type Media interface {
	Location() string
	media()
}

type MediaLink string

func (l MediaLink) Location() string { return string(l) }
func (MediaLink) media()              {}

type Enclosure struct {
	URL      string
	Type     string
	Length   int64
	Title    string
	Duration int
}

func (e *Enclosure) Location() string { return e.URL }
func (*Enclosure) media()              {}

// AsEnclosure expands any media value into an enclosure.
func AsEnclosure(m Media) *Enclosure {
	switch v := m.(type) {
	case *Enclosure:
		return v
	case MediaLink:
		return &Enclosure{URL: string(v)}
	}
	return nil
}
