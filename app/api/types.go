package api

import (
	"github.com/lysyi3m/feedkit/app/fetch"
	"github.com/lysyi3m/feedkit/app/parse"
	"github.com/lysyi3m/feedkit/app/sources"
)

type Handler struct {
	catalogue *sources.Catalogue
	fetcher   *fetch.Fetcher
	parser    *parse.Parser
	options   fetch.Options
	baseURL   string
	version   string
}

// Options configures the upstream requests and the self links of
// re-rendered feeds.
type Options struct {
	Fetch   fetch.Options
	BaseURL string
	Version string
}
