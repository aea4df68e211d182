package parse

import (
	"reflect"
	"testing"
	"time"

	"github.com/lysyi3m/feedkit/app/feed"
	"github.com/lysyi3m/feedkit/app/render"
)

var testTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func fixNow(t *testing.T) {
	old := now
	now = func() time.Time { return testTime }
	t.Cleanup(func() { now = old })
}

func roundTripFeed() *feed.Feed {
	f := feed.New(feed.Options{
		ID:          "https://example.com/",
		Title:       "Example Feed",
		Description: "News & notes",
		Link:        "https://example.com/",
		Updated:     testTime,
		Language:    "en",
		Copyright:   "All rights reserved 2024",
		Image:       "https://example.com/logo.png",
		TTL:         60,
		FeedLinks: feed.FeedLinks{
			RSS:  "https://example.com/rss.xml",
			Atom: "https://example.com/atom.xml",
			JSON: "https://example.com/feed.json",
		},
		Hub:     "https://hub.example.com/",
		Authors: []feed.Author{{Name: "Jane Doe", Email: "jane@example.com", Link: "https://example.com/jane"}},
	})
	f.AddCategory("Technology")
	f.SetCustomField("podcast:locked", feed.StringValue("yes"))
	f.AddExtension(feed.Extension{
		Name: "itunes:owner",
		Objects: feed.NewFields(
			feed.Field{Name: "itunes:name", Value: feed.StringValue("Jane")},
			feed.Field{Name: "itunes:keyword", Value: feed.ListValue("go", "rss")},
		),
	})

	first := f.AddItemOptions(feed.ItemOptions{
		ID:          "item-1",
		Title:       feed.String("First post"),
		Link:        "https://example.com/posts/1",
		Date:        testTime,
		Description: &feed.Text{Value: "Short <b>summary</b>"},
		Content:     &feed.Text{Value: "<p>Full content</p>"},
		Authors:     []feed.Author{{Name: "Jane Doe", Email: "jane@example.com"}},
		Categories:  []feed.Category{{Name: "Go"}, {Name: "Feeds"}},
	})
	first.SetCustomField("dc:creator", feed.StringValue("Jane"))
	first.SetCustomField("media:keywords", feed.ListValue("a", "b"))

	f.AddItemOptions(feed.ItemOptions{
		Title:       feed.String("Second & last"),
		Link:        "https://example.com/posts/2?x=1&y=2",
		Date:        testTime.Add(-24 * time.Hour),
		Description: &feed.Text{Value: "Another one"},
		Authors:     []feed.Author{{Name: "John Roe", Email: "john@example.com"}},
	})

	return f
}

func TestRSS2RoundTrip(t *testing.T) {
	p := NewParser(nil)

	first, err := render.RSS2(roundTripFeed())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	parsed, err := p.Run([]byte(first))
	if err != nil {
		t.Fatalf("Expected no parse error, got: %v", err)
	}
	if parsed == nil {
		t.Fatal("Expected a feed, got nil")
	}

	second, err := render.RSS2(parsed)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if first != second {
		t.Errorf("Expected identical output after round trip\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestAtom1RoundTrip(t *testing.T) {
	p := NewParser(nil)

	first, err := render.Atom1(roundTripFeed())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	parsed, err := p.Run([]byte(first))
	if err != nil {
		t.Fatalf("Expected no parse error, got: %v", err)
	}
	if parsed == nil {
		t.Fatal("Expected a feed, got nil")
	}

	second, err := render.Atom1(parsed)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if first != second {
		t.Errorf("Expected identical output after round trip\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestJSON1RoundTrip(t *testing.T) {
	p := NewParser(nil)

	f := roundTripFeed()
	f.Extensions = []feed.Extension{{
		Name:    "_example",
		Objects: feed.NewFields(feed.Field{Name: "about", Value: feed.StringValue("https://example.com/ext")}),
	}}
	f.Items[1].Audio = &feed.Enclosure{URL: "https://example.com/e.mp3", Type: "audio/mpeg", Length: 42}

	first, err := render.JSON1(f)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	parsed, err := p.Run([]byte(first))
	if err != nil {
		t.Fatalf("Expected no parse error, got: %v", err)
	}
	if parsed == nil {
		t.Fatal("Expected a feed, got nil")
	}

	second, err := render.JSON1(parsed)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if first != second {
		t.Errorf("Expected identical output after round trip\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestOPMLRoundTrip(t *testing.T) {
	created := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	modified := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	top, left := 10, 20

	o := feed.NewOpml()
	o.Head = feed.OpmlHead{
		Title:          "Subscriptions",
		DateCreated:    &created,
		DateModified:   &modified,
		OwnerName:      "Jane Doe",
		OwnerEmail:     "jane@example.com",
		OwnerID:        "https://example.com/jane",
		Docs:           "http://opml.org/spec2.opml",
		ExpansionState: []int{1, 5, 6},
		WindowTop:      &top,
		WindowLeft:     &left,
		Extra:          feed.NewFields(feed.Field{Name: "generator", Value: feed.StringValue("feedkit")}),
	}
	o.AddOutline(feed.Outline{
		Text:     "Tech & News",
		Category: "/tech",
		Outlines: []feed.Outline{
			{
				Text: "Example",
				Kind: feed.RSSOutline{
					XMLURL:      "https://example.com/rss.xml",
					Title:       "Example",
					Description: "Example feed",
					HTMLURL:     "https://example.com/",
					Language:    "en",
					Version:     "RSS2",
				},
				Created: &created,
			},
			{
				Text: "Nested",
				Outlines: []feed.Outline{
					{Text: "Docs", Kind: feed.LinkOutline{URL: "https://example.com/docs"}, IsComment: true},
					{Text: "More", Kind: feed.IncludeOutline{URL: "https://example.com/more.opml"}, IsBreakpoint: true},
				},
			},
		},
	})
	o.AddOutline(feed.Outline{
		Text: "Song",
		Kind: feed.OtherOutline{
			Type:  "song",
			Attrs: feed.NewFields(feed.Field{Name: "f", Value: feed.StringValue("track.mp3")}),
		},
	})
	o.AddOutline(feed.Outline{
		Text: "Untyped with attributes",
		Kind: feed.OtherOutline{
			Attrs: feed.NewFields(feed.Field{Name: "note", Value: feed.StringValue("kept")}),
		},
	})

	out, err := render.OPML(o)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	parsed, err := NewParser(nil).OPML([]byte(out))
	if err != nil {
		t.Fatalf("Expected no parse error, got: %v", err)
	}

	if !reflect.DeepEqual(o, parsed) {
		t.Errorf("Expected structurally equal OPML after round trip\nwant: %+v\ngot:  %+v\nxml:\n%s", o, parsed, out)
	}
}
