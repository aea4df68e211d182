package cfg

import "time"

type Cfg struct {
	// Server configuration
	Port         string
	SourcesDir   string
	BaseUrl      string
	APIAccessKey string

	// Fetch configuration
	UserAgent    string
	Timeout      time.Duration
	MaxRedirects int

	// Application metadata
	Debug   bool
	Version string
}
