package parse

import (
	"testing"
	"time"

	"github.com/lysyi3m/feedkit/app/feed"
)

const rss2Fixture = `<?xml version="1.0" encoding="UTF-8"?>
<?xml-stylesheet href="/rss.xsl?v=1&amp;t=2" type="text/xsl"?>
<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom" xmlns:content="http://purl.org/rss/1.0/modules/content/">
  <channel>
    <title>Example Feed</title>
    <link>https://example.com/</link>
    <description>Caf&eacute; news</description>
    <lastBuildDate>Mon, 15 Jan 2024 10:30:00 GMT</lastBuildDate>
    <generator>hand written</generator>
    <ttl>30</ttl>
    <image><url>https://example.com/logo.png</url></image>
    <category>Technology</category>
    <category>Go</category>
    <atom:link href="https://example.com/rss.xml" rel="self" type="application/rss+xml"/>
    <atom:link href="https://hub.example.com/" rel="hub"/>
    <managingEditor>editor@example.com</managingEditor>
    <podcast:locked>yes</podcast:locked>
    <item>
      <title><![CDATA[First <em>post</em>]]></title>
      <link>https://example.com/posts/1</link>
      <guid isPermaLink="false">post-1</guid>
      <pubDate>Sun, 14 Jan 2024 09:00:00 +0000</pubDate>
      <description>Summary text</description>
      <content:encoded><![CDATA[<p>Body</p>]]></content:encoded>
      <author>jane@example.com (Jane Doe)</author>
      <author>Just A Name</author>
      <category domain="https://example.com/tags">go</category>
      <enclosure url="https://example.com/ep1.mp3" type="audio/mpeg" length="1234"/>
      <dc:creator>Jane</dc:creator>
      <media:group>
        <media:title>Clip</media:title>
        <media:keyword>one</media:keyword>
        <media:keyword>two</media:keyword>
      </media:group>
    </item>
    <item>
      <title>Second</title>
      <link>https://example.com/posts/2</link>
      <enclosure url="https://example.com/cover.jpg"/>
    </item>
  </channel>
</rss>`

func TestParseRSS2(t *testing.T) {
	fixNow(t)

	f, err := NewParser(nil).Run([]byte(rss2Fixture))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if f == nil {
		t.Fatal("Expected a feed, got nil")
	}

	if f.Title != "Example Feed" {
		t.Errorf("Expected title 'Example Feed', got: %s", f.Title)
	}
	if f.Description != "Café news" {
		t.Errorf("Expected HTML entity to be decoded, got: %s", f.Description)
	}
	if !f.Updated.Equal(testTime) {
		t.Errorf("Expected updated %v, got: %v", testTime, f.Updated)
	}
	if f.Docs != feed.DefaultRSSDocs {
		t.Errorf("Expected default docs, got: %s", f.Docs)
	}
	if f.Generator != "hand written" {
		t.Errorf("Expected generator, got: %s", f.Generator)
	}
	if f.TTL != 30 {
		t.Errorf("Expected TTL 30, got: %d", f.TTL)
	}
	if f.Image != "https://example.com/logo.png" {
		t.Errorf("Expected image URL, got: %s", f.Image)
	}
	if len(f.Categories) != 2 || f.Categories[1] != "Go" {
		t.Errorf("Expected 2 categories, got: %v", f.Categories)
	}
	if f.FeedURL != "https://example.com/rss.xml" || f.FeedLinks.RSS != "https://example.com/rss.xml" {
		t.Errorf("Expected self link, got: %s / %s", f.FeedURL, f.FeedLinks.RSS)
	}
	if f.Hub != "https://hub.example.com/" {
		t.Errorf("Expected hub, got: %s", f.Hub)
	}
	if f.Stylesheet != "/rss.xsl?v=1&t=2" {
		t.Errorf("Expected stylesheet href, got: %s", f.Stylesheet)
	}

	if v, ok := f.CustomField("podcast:locked"); !ok || v.String() != "yes" {
		t.Errorf("Expected podcast:locked custom field, got: %v", v)
	}
	if _, ok := f.CustomField("managingEditor"); ok {
		t.Error("Expected reserved channel element not to become a custom field")
	}

	if len(f.Items) != 2 {
		t.Fatalf("Expected 2 items, got: %d", len(f.Items))
	}

	item := f.Items[0]
	if item.ID != "post-1" {
		t.Errorf("Expected ID 'post-1', got: %s", item.ID)
	}
	if item.Title.Value != "First <em>post</em>" {
		t.Errorf("Expected CDATA title, got: %s", item.Title.Value)
	}
	published := time.Date(2024, 1, 14, 9, 0, 0, 0, time.UTC)
	if !item.Date.Equal(published) || !item.Published.Equal(published) {
		t.Errorf("Expected date and published %v, got: %v / %v", published, item.Date, item.Published)
	}
	if item.Description == nil || item.Description.Value != "Summary text" {
		t.Errorf("Expected description, got: %v", item.Description)
	}
	if item.Content == nil || item.Content.Value != "<p>Body</p>" {
		t.Errorf("Expected content, got: %v", item.Content)
	}

	if len(item.Authors) != 2 {
		t.Fatalf("Expected 2 authors, got: %d", len(item.Authors))
	}
	if item.Authors[0] != (feed.Author{Name: "Jane Doe", Email: "jane@example.com"}) {
		t.Errorf("Expected parsed email and name, got: %+v", item.Authors[0])
	}
	if item.Authors[1] != (feed.Author{Name: "Just A Name"}) {
		t.Errorf("Expected whole text as name, got: %+v", item.Authors[1])
	}

	if len(item.Categories) != 1 || item.Categories[0] != (feed.Category{Name: "go", Domain: "https://example.com/tags"}) {
		t.Errorf("Expected category with domain, got: %+v", item.Categories)
	}

	if v, ok := item.CustomField("dc:creator"); !ok || v.String() != "Jane" {
		t.Errorf("Expected dc:creator custom field, got: %v", v)
	}
	group, ok := item.CustomField("media:group")
	if !ok || group.Kind() != feed.KindMap {
		t.Fatalf("Expected media:group as a mapping, got: %v", group)
	}
	keywords, _ := group.Map().Get("media:keyword")
	if keywords.Kind() != feed.KindList || len(keywords.List()) != 2 {
		t.Errorf("Expected repeated keywords as a list, got: %v", keywords)
	}

	second := f.Items[1]
	if !second.Date.Equal(testTime) {
		t.Errorf("Expected missing pubDate to default to now, got: %v", second.Date)
	}
	if second.Description != nil || second.Content != nil {
		t.Error("Expected absent description and content to stay nil")
	}
}

func TestParseRSSEnclosureMirroring(t *testing.T) {
	f, err := NewParser(nil).Run([]byte(rss2Fixture))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	audio := f.Items[0]
	enc := feed.AsEnclosure(audio.Enclosure)
	if enc == nil || enc.URL != "https://example.com/ep1.mp3" || enc.Type != "audio/mpeg" || enc.Length != 1234 {
		t.Errorf("Expected enclosure to be parsed, got: %+v", enc)
	}
	if audio.Audio == nil || audio.Audio.Location() != "https://example.com/ep1.mp3" {
		t.Errorf("Expected audio/mpeg enclosure mirrored into Audio, got: %v", audio.Audio)
	}
	if audio.Image != nil || audio.Video != nil {
		t.Error("Expected other media slots to stay empty")
	}

	untyped := f.Items[1]
	if untyped.Image == nil || untyped.Image.Location() != "https://example.com/cover.jpg" {
		t.Errorf("Expected untyped enclosure mirrored into Image, got: %v", untyped.Image)
	}
	if untyped.Enclosure == nil {
		t.Error("Expected untyped enclosure to be kept")
	}
}

func TestParseRSSDCDateFallback(t *testing.T) {
	data := `<rss version="2.0"><channel><title>T</title>
<item><title>A</title><dc:date>2023-06-01T12:00:00Z</dc:date></item>
</channel></rss>`

	f, err := NewParser(nil).Run([]byte(data))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	want := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	if !f.Items[0].Date.Equal(want) {
		t.Errorf("Expected dc:date fallback %v, got: %v", want, f.Items[0].Date)
	}
	if _, ok := f.Items[0].CustomField("dc:date"); ok {
		t.Error("Expected dc:date not to become a custom field")
	}
}

const rdfFixture = `<?xml version="1.0"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#" xmlns="http://purl.org/rss/1.0/">
  <channel rdf:about="https://example.com/">
    <title>Example Feed</title>
    <link>https://example.com/</link>
    <description>Example</description>
    <items><rdf:Seq><rdf:li resource="https://example.com/posts/1"/></rdf:Seq></items>
  </channel>
  <image rdf:about="https://example.com/logo.png"><url>https://example.com/logo.png</url></image>
  <item rdf:about="https://example.com/posts/1"><title>One</title><link>https://example.com/posts/1</link></item>
  <item rdf:about="https://example.com/posts/2"><title>Two</title><link>https://example.com/posts/2</link></item>
</rdf:RDF>`

const rss09Fixture = `<?xml version="1.0"?>
<rss version="0.91">
  <channel>
    <title>Example Feed</title>
    <link>https://example.com/</link>
    <description>Example</description>
    <item><title>One</title><link>https://example.com/posts/1</link></item>
    <item><title>Two</title><link>https://example.com/posts/2</link></item>
  </channel>
</rss>`

const rss2Minimal = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Example Feed</title>
    <link>https://example.com/</link>
    <description>Example</description>
    <item><title>One</title><link>https://example.com/posts/1</link></item>
    <item><title>Two</title><link>https://example.com/posts/2</link></item>
  </channel>
</rss>`

func TestParseRSSVariantsYieldSameItems(t *testing.T) {
	p := NewParser(nil)

	for name, data := range map[string]string{
		"rss 1.0": rdfFixture,
		"rss 0.9": rss09Fixture,
		"rss 2.0": rss2Minimal,
	} {
		f, err := p.Run([]byte(data))
		if err != nil {
			t.Fatalf("%s: expected no error, got: %v", name, err)
		}
		if f == nil {
			t.Fatalf("%s: expected a feed, got nil", name)
		}
		if f.Title != "Example Feed" {
			t.Errorf("%s: expected title 'Example Feed', got: %s", name, f.Title)
		}
		if len(f.Items) != 2 {
			t.Fatalf("%s: expected 2 items, got: %d", name, len(f.Items))
		}
		if f.Items[1].Title.Value != "Two" || f.Items[1].Link != "https://example.com/posts/2" {
			t.Errorf("%s: expected second item, got: %+v", name, f.Items[1])
		}
	}
}

func TestParseRDFImageAndItemsFallback(t *testing.T) {
	f, err := NewParser(nil).Run([]byte(rdfFixture))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if f.Image != "https://example.com/logo.png" {
		t.Errorf("Expected root level image, got: %s", f.Image)
	}

	nested := `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
<channel><title>Nested</title><item><title>Inside</title></item></channel>
</rdf:RDF>`
	f, err = NewParser(nil).Run([]byte(nested))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(f.Items) != 1 || f.Items[0].Title.Value != "Inside" {
		t.Errorf("Expected items from the channel when the root has none, got: %d", len(f.Items))
	}
}

func TestParseRSSAuthor(t *testing.T) {
	author := parseRSSAuthor("john@example.com (John Roe)")
	if author.Email != "john@example.com" || author.Name != "John Roe" {
		t.Errorf("Expected email and name, got: %+v", author)
	}

	author = parseRSSAuthor("john@example.com")
	if author.Name != "john@example.com" || author.Email != "" {
		t.Errorf("Expected whole text as name, got: %+v", author)
	}
}

func TestParseLatin1Charset(t *testing.T) {
	data := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<rss version=\"2.0\"><channel><title>Caf\xe9</title></channel></rss>")

	f, err := NewParser(nil).Run(data)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if f.Title != "Café" {
		t.Errorf("Expected decoded title 'Café', got: %s", f.Title)
	}
}

func TestParseUnprefixedRDF(t *testing.T) {
	data := `<?xml version="1.0"?>
<RDF xmlns="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <channel><title>Example Feed</title></channel>
  <image><url>https://example.com/logo.png</url></image>
  <item><title>One</title><link>https://example.com/posts/1</link></item>
  <item><title>Two</title><link>https://example.com/posts/2</link></item>
</RDF>`

	f, err := NewParser(nil).Run([]byte(data))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if f == nil {
		t.Fatal("Expected a feed, got nil")
	}
	if len(f.Items) != 2 {
		t.Errorf("Expected 2 items, got: %d", len(f.Items))
	}
	if f.Image != "https://example.com/logo.png" {
		t.Errorf("Expected root level image, got: %s", f.Image)
	}
}
