package sources

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lysyi3m/feedkit/app/fetch"
)

func writeSource(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestCatalogueLoadValidSource(t *testing.T) {
	tempDir := t.TempDir()

	writeSource(t, tempDir, "news.yml", `
url: "https://example.com/feed.xml"
title: "Example News"
format: atom

headers:
  Authorization: "Bearer token"

settings:
  enabled: true
  max_items: 25
  timeout: 15
  max_redirects: 2

filters:
  - field: "title"
    includes:
      - "technology"
    excludes:
      - "spam"
`)

	catalogue := NewCatalogue(tempDir)
	if err := catalogue.Run(); err != nil {
		t.Fatal(err)
	}

	if catalogue.Count() != 1 {
		t.Errorf("Expected 1 source, got %d", catalogue.Count())
	}

	source, ok := catalogue.Get("news")
	if !ok {
		t.Fatal("Expected source 'news' to be loaded")
	}

	if source.Name != "news" {
		t.Errorf("Expected name 'news', got '%s'", source.Name)
	}
	if source.URL != "https://example.com/feed.xml" {
		t.Errorf("Expected URL 'https://example.com/feed.xml', got '%s'", source.URL)
	}
	if source.Title != "Example News" {
		t.Errorf("Expected title 'Example News', got '%s'", source.Title)
	}
	if source.Format != FormatAtom {
		t.Errorf("Expected format 'atom', got '%s'", source.Format)
	}
	if source.Settings.MaxItems != 25 {
		t.Errorf("Expected max items 25, got %d", source.Settings.MaxItems)
	}
	if len(source.Filters) != 1 {
		t.Errorf("Expected 1 filter, got %d", len(source.Filters))
	}

	base := fetch.DefaultOptions()
	base.Headers = map[string]string{"User-Agent": "Test Agent", "Authorization": "none"}
	opts := source.FetchOptions(base)
	if opts.Timeout != 15*time.Second {
		t.Errorf("Expected timeout 15s, got %v", opts.Timeout)
	}
	if opts.MaxRedirects != 2 {
		t.Errorf("Expected 2 redirects, got %d", opts.MaxRedirects)
	}
	if opts.Headers["Authorization"] != "Bearer token" {
		t.Errorf("Expected Authorization header, got '%s'", opts.Headers["Authorization"])
	}
	if opts.Headers["User-Agent"] != "Test Agent" {
		t.Errorf("Expected base User-Agent header, got '%s'", opts.Headers["User-Agent"])
	}
	if base.Headers["Authorization"] != "none" {
		t.Error("Expected base headers to stay untouched")
	}
}

func TestCatalogueDefaults(t *testing.T) {
	tempDir := t.TempDir()

	writeSource(t, tempDir, "minimal.yml", `
url: "https://example.com/feed.xml"
`)

	catalogue := NewCatalogue(tempDir)
	if err := catalogue.Run(); err != nil {
		t.Fatal(err)
	}

	source, ok := catalogue.Get("minimal")
	if !ok {
		t.Fatal("Expected source 'minimal' to be loaded")
	}

	if source.Format != FormatRSS {
		t.Errorf("Expected default format 'rss', got '%s'", source.Format)
	}
	if source.Settings.MaxItems != 100 {
		t.Errorf("Expected default max items 100, got %d", source.Settings.MaxItems)
	}
	if source.Settings.Enabled {
		t.Error("Expected source to be disabled unless enabled explicitly")
	}

	opts := source.FetchOptions(fetch.DefaultOptions())
	if opts.Timeout != 30*time.Second {
		t.Errorf("Expected default timeout 30s, got %v", opts.Timeout)
	}
	if opts.MaxRedirects != fetch.DefaultMaxRedirects {
		t.Errorf("Expected default redirects %d, got %d", fetch.DefaultMaxRedirects, opts.MaxRedirects)
	}
}

func TestCatalogueInvalidSource(t *testing.T) {
	for name, content := range map[string]string{
		"missing url":    "settings:\n  enabled: true\n",
		"bad format":     "url: \"https://example.com/feed.xml\"\nformat: xml\n",
		"negative items": "url: \"https://example.com/feed.xml\"\nsettings:\n  max_items: -1\n",
		"bad filter":     "url: \"https://example.com/feed.xml\"\nfilters:\n  - field: \"guid\"\n    includes: [\"x\"]\n",
		"empty filter":   "url: \"https://example.com/feed.xml\"\nfilters:\n  - field: \"title\"\n",
		"invalid yaml":   "invalid yaml content",
	} {
		tempDir := t.TempDir()
		writeSource(t, tempDir, "invalid.yml", content)

		if err := NewCatalogue(tempDir).Run(); err == nil {
			t.Errorf("%s: expected error for invalid source", name)
		}
	}
}

func TestCatalogueMissingDirectory(t *testing.T) {
	catalogue := NewCatalogue(filepath.Join(t.TempDir(), "missing"))
	if err := catalogue.Run(); err != nil {
		t.Fatal(err)
	}
	if catalogue.Count() != 0 {
		t.Errorf("Expected 0 sources, got %d", catalogue.Count())
	}
}

func TestCatalogueEnabledAndCopies(t *testing.T) {
	tempDir := t.TempDir()

	writeSource(t, tempDir, "feed1.yml", `
url: "https://example.com/feed1.xml"
settings:
  enabled: true
`)
	writeSource(t, tempDir, "feed2.yml", `
url: "https://example.com/feed2.xml"
settings:
  enabled: false
`)
	writeSource(t, tempDir, "notes.txt", "ignored")

	catalogue := NewCatalogue(tempDir)
	if err := catalogue.Run(); err != nil {
		t.Fatal(err)
	}

	all := catalogue.All()
	if len(all) != 2 {
		t.Errorf("Expected 2 sources, got %d", len(all))
	}

	enabled := catalogue.Enabled()
	if len(enabled) != 1 || enabled["feed1"] == nil {
		t.Errorf("Expected only feed1 enabled, got %v", enabled)
	}

	delete(all, "feed1")
	if catalogue.Count() != 2 {
		t.Error("Modifying returned sources map affected the catalogue")
	}
}

func TestCatalogueReload(t *testing.T) {
	tempDir := t.TempDir()

	writeSource(t, tempDir, "test.yml", `url: "https://example.com/feed.xml"`)

	catalogue := NewCatalogue(tempDir)
	if err := catalogue.Run(); err != nil {
		t.Fatal(err)
	}

	writeSource(t, tempDir, "test.yml", `url: "https://example.com/new-feed.xml"`)

	reloaded, err := catalogue.Load("test")
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.URL != "https://example.com/new-feed.xml" {
		t.Errorf("Expected updated URL, got '%s'", reloaded.URL)
	}
	if source, _ := catalogue.Get("test"); source.URL != reloaded.URL {
		t.Errorf("Expected catalogue to hold reloaded source, got '%s'", source.URL)
	}

	if _, err := catalogue.Load("nonexistent"); err == nil {
		t.Error("Expected error for non-existent source")
	}
}

func TestValidateNil(t *testing.T) {
	if err := validate(nil); err == nil {
		t.Error("Expected error for nil source, got none")
	}
}
