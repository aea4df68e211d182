package parse

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	jsoniter "github.com/json-iterator/go"
	"github.com/mmcdole/gofeed"

	"github.com/lysyi3m/feedkit/app/feed"
	"github.com/lysyi3m/feedkit/app/fetch"
	"github.com/lysyi3m/feedkit/app/xmlutil"
)

var utf8BOM = []byte("\xEF\xBB\xBF")

// Parser detects the format of a document and decodes it into the model.
type Parser struct {
	fetcher *fetch.Fetcher
}

func NewParser(fetcher *fetch.Fetcher) *Parser {
	if fetcher == nil {
		fetcher = fetch.NewFetcher(nil)
	}
	return &Parser{fetcher: fetcher}
}

// Run decodes a JSON Feed, Atom or RSS document. It returns nil and no error
// when the document is well formed but none of those formats.
func (p *Parser) Run(data []byte) (*feed.Feed, error) {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))
	if len(trimmed) == 0 {
		return nil, nil
	}

	if jsoniter.Valid(trimmed) {
		root, err := decodeJSON(trimmed)
		if err != nil {
			return nil, err
		}
		if root.kind != jsoniter.ObjectValue {
			return nil, nil
		}
		return parseJSONFeed(root), nil
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return nil, errors.New("failed to parse feed: malformed JSON")
	}

	doc, err := parseTree(trimmed)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	switch root := doc.root.local(); gofeed.DetectFeedType(bytes.NewReader(trimmed)) {
	case gofeed.FeedTypeAtom:
		if root == "feed" {
			return parseAtom(doc), nil
		}
	case gofeed.FeedTypeRSS:
		if root == "rss" || root == "rdf" {
			return parseRSS(doc), nil
		}
	}

	slog.Debug("Unknown feed root", "root", doc.root.name)
	return nil, nil
}

// OPML decodes an outline document. A root other than <opml> yields
// ErrInvalidOPML.
func (p *Parser) OPML(data []byte) (*feed.Opml, error) {
	doc, err := parseTree(bytes.TrimSpace(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OPML: %w", err)
	}
	return parseOPML(doc)
}

// ParseURL fetches and decodes a feed. It returns nil and no error when the
// server reports the feed unchanged.
func (p *Parser) ParseURL(ctx context.Context, url string, opts fetch.Options) (*feed.Feed, error) {
	body, err := p.fetcher.Fetch(ctx, url, opts)
	if errors.Is(err, fetch.ErrNotModified) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p.Run([]byte(body))
}

func (p *Parser) ParseOPMLURL(ctx context.Context, url string, opts fetch.Options) (*feed.Opml, error) {
	body, err := p.fetcher.Fetch(ctx, url, opts)
	if errors.Is(err, fetch.ErrNotModified) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p.OPML([]byte(body))
}

// Parse fetches urlOrContent when it is a URL and decodes it directly
// otherwise.
func (p *Parser) Parse(ctx context.Context, urlOrContent string, opts fetch.Options) (*feed.Feed, error) {
	if xmlutil.IsURL(urlOrContent) {
		return p.ParseURL(ctx, urlOrContent, opts)
	}
	return p.Run([]byte(urlOrContent))
}
