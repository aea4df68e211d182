package feed

import "time"

const DefaultOpmlVersion = "2.0"

type Opml struct {
	Version  string
	Head     OpmlHead
	Outlines []Outline
}

type OpmlHead struct {
	Title           string
	DateCreated     *time.Time
	DateModified    *time.Time
	OwnerName       string
	OwnerEmail      string
	OwnerID         string
	Docs            string
	ExpansionState  []int
	VertScrollState *int
	WindowTop       *int
	WindowLeft      *int
	WindowBottom    *int
	WindowRight     *int

	// Extra holds head elements without a dedicated field.
	Extra Fields
}

type Outline struct {
	Text         string
	Kind         OutlineKind
	IsComment    bool
	IsBreakpoint bool
	Category     string
	Created      *time.Time
	Outlines     []Outline
}

// OutlineKind is one of RSSOutline, LinkOutline, IncludeOutline or OtherOutline.
type OutlineKind interface {
	OutlineType() string
}

type RSSOutline struct {
	XMLURL      string
	Title       string
	Description string
	HTMLURL     string
	Language    string
	Version     string
}

func (RSSOutline) OutlineType() string { return "rss" }

type LinkOutline struct {
	URL string
}

func (LinkOutline) OutlineType() string { return "link" }

type IncludeOutline struct {
	URL string
}

func (IncludeOutline) OutlineType() string { return "include" }

// OtherOutline carries outlines of any other type, including untyped ones,
// with their remaining attributes.
type OtherOutline struct {
	Type  string
	Attrs Fields
}

func (o OtherOutline) OutlineType() string { return o.Type }

func NewOpml() *Opml {
	return &Opml{Version: DefaultOpmlVersion}
}

func (o *Opml) AddOutline(outline Outline) {
	o.Outlines = append(o.Outlines, outline)
}

// OutlineType reports the type attribute of an outline, empty when untyped.
func (o Outline) OutlineType() string {
	if o.Kind == nil {
		return ""
	}
	return o.Kind.OutlineType()
}
