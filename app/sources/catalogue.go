package sources

import (
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lysyi3m/feedkit/app/fetch"
)

const (
	defaultMaxItems = 100
	defaultTimeout  = 30
)

// Catalogue holds the named sources loaded from a directory of YAML files.
type Catalogue struct {
	dir     string
	sources map[string]*Source
	mu      sync.RWMutex
}

func NewCatalogue(dir string) *Catalogue {
	return &Catalogue{
		dir:     dir,
		sources: make(map[string]*Source),
	}
}

func (c *Catalogue) Run() error {
	if _, err := os.Stat(c.dir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(c.dir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".yml")

		source, err := c.Load(name)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Source loaded", "source", name, "enabled", source.Settings.Enabled, "url", source.URL)
	}

	return nil
}

func (c *Catalogue) Load(name string) (*Source, error) {
	file := filepath.Join(c.dir, name+".yml")
	source, err := c.parse(file)
	if err != nil {
		return nil, err
	}

	source.Name = name

	if err := validate(source); err != nil {
		return nil, fmt.Errorf("invalid source %s: %w", file, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources[source.Name] = source

	return source, nil
}

func (c *Catalogue) Get(name string) (*Source, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	source, ok := c.sources[name]
	return source, ok
}

func (c *Catalogue) All() map[string]*Source {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return maps.Clone(c.sources)
}

func (c *Catalogue) Enabled() map[string]*Source {
	c.mu.RLock()
	defer c.mu.RUnlock()

	enabled := make(map[string]*Source)
	for k, v := range c.sources {
		if v.Settings.Enabled {
			enabled[k] = v
		}
	}
	return enabled
}

func (c *Catalogue) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sources)
}

// FetchOptions layers the source settings over base. Source headers win
// over base headers.
func (s *Source) FetchOptions(base fetch.Options) fetch.Options {
	opts := base
	opts.Headers = make(map[string]string, len(base.Headers)+len(s.Headers))
	maps.Copy(opts.Headers, base.Headers)
	maps.Copy(opts.Headers, s.Headers)
	if s.Settings.Timeout > 0 {
		opts.Timeout = time.Duration(s.Settings.Timeout) * time.Second
	}
	if s.Settings.MaxRedirects > 0 {
		opts.MaxRedirects = s.Settings.MaxRedirects
	}
	return opts
}

func (c *Catalogue) parse(file string) (*Source, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var source Source
	if err := yaml.Unmarshal(data, &source); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if source.Format == "" {
		source.Format = FormatRSS
	}
	if source.Settings.MaxItems == 0 {
		source.Settings.MaxItems = defaultMaxItems
	}
	if source.Settings.Timeout == 0 {
		source.Settings.Timeout = defaultTimeout
	}

	return &source, nil
}

var filterFields = map[string]bool{
	"title":       true,
	"description": true,
	"content":     true,
	"authors":     true,
	"link":        true,
	"categories":  true,
}

func validate(source *Source) error {
	if source == nil {
		return fmt.Errorf("source is nil")
	}

	if source.Name == "" {
		return fmt.Errorf("source name is required")
	}
	if source.URL == "" {
		return fmt.Errorf("source URL is required")
	}
	if !ValidFormat(source.Format) {
		return fmt.Errorf("unsupported format: %s", source.Format)
	}

	nonNegative := map[string]int{
		"max items":     source.Settings.MaxItems,
		"timeout":       source.Settings.Timeout,
		"max redirects": source.Settings.MaxRedirects,
	}
	for field, value := range nonNegative {
		if value < 0 {
			return fmt.Errorf("%s must be non-negative", field)
		}
	}

	for i, filter := range source.Filters {
		if !filterFields[filter.Field] {
			return fmt.Errorf("invalid filter field at index %d: %s", i, filter.Field)
		}
		if len(filter.Includes) == 0 && len(filter.Excludes) == 0 {
			return fmt.Errorf("filter at index %d must have at least one include or exclude rule", i)
		}
	}

	return nil
}
