package sources

type Source struct {
	Name     string            // Derived from filename (without .yml extension)
	URL      string            `yaml:"url"`
	Title    string            `yaml:"title"`
	Format   string            `yaml:"format"` // default output format: rss, atom or json
	Settings Settings          `yaml:"settings"`
	Headers  map[string]string `yaml:"headers"`
	Filters  []Filter          `yaml:"filters"`
}

type Settings struct {
	Enabled      bool `yaml:"enabled"`
	MaxItems     int  `yaml:"max_items"`
	Timeout      int  `yaml:"timeout"` // seconds
	MaxRedirects int  `yaml:"max_redirects"`
}

type Filter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

const (
	FormatRSS  = "rss"
	FormatAtom = "atom"
	FormatJSON = "json"
)

func ValidFormat(format string) bool {
	switch format {
	case FormatRSS, FormatAtom, FormatJSON:
		return true
	}
	return false
}
