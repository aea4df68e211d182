package api

import (
	"cmp"
	"errors"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/feedkit/app/feed"
	"github.com/lysyi3m/feedkit/app/fetch"
	"github.com/lysyi3m/feedkit/app/parse"
	"github.com/lysyi3m/feedkit/app/render"
	"github.com/lysyi3m/feedkit/app/sources"
)

var contentTypes = map[string]string{
	sources.FormatRSS:  "application/rss+xml; charset=utf-8",
	sources.FormatAtom: "application/atom+xml; charset=utf-8",
	sources.FormatJSON: "application/feed+json; charset=utf-8",
}

const opmlContentType = "text/x-opml; charset=utf-8"

func NewHandler(catalogue *sources.Catalogue, fetcher *fetch.Fetcher, opts Options) *Handler {
	if fetcher == nil {
		fetcher = fetch.NewFetcher(nil)
	}
	return &Handler{
		catalogue: catalogue,
		fetcher:   fetcher,
		parser:    parse.NewParser(fetcher),
		options:   opts.Fetch,
		baseURL:   strings.TrimSuffix(opts.BaseURL, "/"),
		version:   opts.Version,
	}
}

func (h *Handler) GetFeed(c *gin.Context) {
	name := c.Param("name")

	source, ok := h.catalogue.Get(name)
	if !ok || !source.Settings.Enabled {
		slog.Error("Source not found", "source", name)
		c.Status(http.StatusNotFound)
		return
	}

	format := c.DefaultQuery("format", source.Format)
	if !sources.ValidFormat(format) {
		c.String(http.StatusBadRequest, "unsupported format: %s", format)
		return
	}

	// The validators are shared by all clients, so only a conditional
	// request may be answered with 304.
	opts := source.FetchOptions(h.options)
	opts.Unconditional = !isConditional(c.Request)

	body, err := h.fetcher.Fetch(c.Request.Context(), source.URL, opts)
	if errors.Is(err, fetch.ErrNotModified) {
		c.Status(http.StatusNotModified)
		return
	}
	if err != nil {
		slog.Error("Upstream fetch failed", "source", name, "url", source.URL, "error", err)
		c.Status(http.StatusBadGateway)
		return
	}

	f, err := h.parser.Run([]byte(body))
	if err != nil {
		slog.Error("Upstream parse failed", "source", name, "error", err)
		c.Status(http.StatusBadGateway)
		return
	}
	if f == nil {
		slog.Warn("Upstream document is not a feed", "source", name, "url", source.URL)
		c.Status(http.StatusUnprocessableEntity)
		return
	}

	source.Apply(f)
	h.setFeedLinks(f, name, format)

	output, err := renderFeed(f, format)
	if err != nil {
		slog.Error("Feed rendering failed", "source", name, "format", format, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("X-Feed-Items", strconv.Itoa(len(f.Items)))
	c.Header("X-Feed-Name", name)
	c.Data(http.StatusOK, contentTypes[format], []byte(output))
}

// Convert re-renders the posted document in the requested format. A body
// holding a single URL is fetched first.
func (h *Handler) Convert(c *gin.Context) {
	format := c.Query("format")
	if !sources.ValidFormat(format) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of rss, atom or json"})
		return
	}

	data, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	opts := h.options
	opts.Unconditional = true

	f, err := h.parser.Parse(c.Request.Context(), strings.TrimSpace(string(data)), opts)
	if err != nil {
		var statusErr *fetch.StatusError
		if errors.As(err, &statusErr) {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if f == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No known feed format"})
		return
	}

	output, err := renderFeed(f, format)
	if err != nil {
		slog.Error("Feed rendering failed", "format", format, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, contentTypes[format], []byte(output))
}

// GetOPML lists the enabled sources as a subscription list.
func (h *Handler) GetOPML(c *gin.Context) {
	enabled := h.catalogue.Enabled()

	o := feed.NewOpml()
	o.Head.Title = "feedkit sources"
	created := time.Now().UTC()
	o.Head.DateCreated = &created

	for _, name := range slices.Sorted(maps.Keys(enabled)) {
		source := enabled[name]
		xmlURL := source.URL
		if h.baseURL != "" {
			xmlURL = h.feedURL(name, source.Format)
		}
		o.AddOutline(feed.Outline{
			Text: cmp.Or(source.Title, name),
			Kind: feed.RSSOutline{XMLURL: xmlURL, Title: source.Title},
		})
	}

	output, err := render.OPML(o)
	if err != nil {
		slog.Error("OPML rendering failed", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Data(http.StatusOK, opmlContentType, []byte(output))
}

// ImportOPML flattens the feed subscriptions of a posted OPML document.
func (h *Handler) ImportOPML(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	o, err := h.parser.OPML(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subscriptions := make([]gin.H, 0)
	var walk func(outlines []feed.Outline)
	walk = func(outlines []feed.Outline) {
		for _, outline := range outlines {
			if rss, ok := outline.Kind.(feed.RSSOutline); ok {
				subscriptions = append(subscriptions, gin.H{
					"text":     outline.Text,
					"xml_url":  rss.XMLURL,
					"html_url": rss.HTMLURL,
					"category": outline.Category,
				})
			}
			walk(outline.Outlines)
		}
	}
	walk(o.Outlines)

	c.JSON(http.StatusOK, gin.H{
		"title":         o.Head.Title,
		"subscriptions": subscriptions,
		"total":         len(subscriptions),
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"timestamp":       time.Now().Format(time.RFC3339),
		"version":         h.version,
		"loaded_sources":  h.catalogue.Count(),
		"enabled_sources": len(h.catalogue.Enabled()),
	})
}

func (h *Handler) APIListSources(c *gin.Context) {
	all := h.catalogue.All()

	list := make([]gin.H, 0, len(all))
	for _, name := range slices.Sorted(maps.Keys(all)) {
		list = append(list, sourceInfo(all[name]))
	}

	c.JSON(http.StatusOK, gin.H{
		"sources": list,
		"total":   len(list),
	})
}

func (h *Handler) APIReloadSource(c *gin.Context) {
	name := c.Param("name")

	if _, ok := h.catalogue.Get(name); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Source not found"})
		return
	}

	source, err := h.catalogue.Load(name)
	if err != nil {
		slog.Error("Error reloading source", "source", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to reload source",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"source":  sourceInfo(source),
	})
}

func sourceInfo(source *sources.Source) gin.H {
	return gin.H{
		"name":      source.Name,
		"url":       source.URL,
		"title":     source.Title,
		"format":    source.Format,
		"enabled":   source.Settings.Enabled,
		"max_items": source.Settings.MaxItems,
		"timeout":   (time.Duration(source.Settings.Timeout) * time.Second).String(),
		"filters":   len(source.Filters),
	}
}

func isConditional(r *http.Request) bool {
	return r.Header.Get("If-None-Match") != "" || r.Header.Get("If-Modified-Since") != ""
}

func (h *Handler) feedURL(name, format string) string {
	return h.baseURL + "/feeds/" + url.PathEscape(name) + "?format=" + format
}

func (h *Handler) setFeedLinks(f *feed.Feed, name, format string) {
	if h.baseURL == "" {
		return
	}
	f.FeedLinks = feed.FeedLinks{
		RSS:  h.feedURL(name, sources.FormatRSS),
		Atom: h.feedURL(name, sources.FormatAtom),
		JSON: h.feedURL(name, sources.FormatJSON),
	}
	f.FeedURL = h.feedURL(name, format)
}

func renderFeed(f *feed.Feed, format string) (string, error) {
	switch format {
	case sources.FormatAtom:
		return render.Atom1(f)
	case sources.FormatJSON:
		return render.JSON1(f)
	default:
		return render.RSS2(f)
	}
}
