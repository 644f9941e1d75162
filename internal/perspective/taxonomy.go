// Package perspective maps news outlets onto the left/center/right
// grouping used to organize coverage of each headline.
package perspective

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"diderot/internal/model"
)

// Source is one outlet in the taxonomy.
type Source struct {
	Name    string       `json:"name" yaml:"name"`
	Bucket  model.Bucket `json:"perspective" yaml:"perspective"`
	FeedURL string       `json:"feed_url" yaml:"feed_url"`
}

// Taxonomy is an immutable table of outlets grouped by perspective.
type Taxonomy struct {
	sources  []Source
	byName   map[string]model.Bucket
	byBucket map[model.Bucket][]Source
}

// Default returns the built-in outlet table.
func Default() *Taxonomy {
	t, _ := New([]Source{
		{Name: "CNN", Bucket: model.BucketLeft, FeedURL: "https://www.cnn.com/services/rss/"},
		{Name: "New York Times", Bucket: model.BucketLeft, FeedURL: "https://rss.nytimes.com/services/xml/rss/"},
		{Name: "MSNBC", Bucket: model.BucketLeft, FeedURL: "https://www.msnbc.com/feed/"},
		{Name: "Reuters", Bucket: model.BucketCenter, FeedURL: "https://feeds.reuters.com/Reuters/worldNews"},
		{Name: "Associated Press", Bucket: model.BucketCenter, FeedURL: "https://feeds.ap.org/ap/english"},
		{Name: "BBC News", Bucket: model.BucketCenter, FeedURL: "https://feeds.bbci.co.uk/news/rss.xml"},
		{Name: "Fox News", Bucket: model.BucketRight, FeedURL: "https://feeds.foxnews.com/foxnews/latest"},
		{Name: "New York Post", Bucket: model.BucketRight, FeedURL: "https://nypost.com/feed/"},
		{Name: "Wall Street Journal", Bucket: model.BucketRight, FeedURL: "https://feeds.wsj.com/wsj/"},
	})
	return t
}

// New builds a taxonomy from an explicit source list.
func New(sources []Source) (*Taxonomy, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("taxonomy needs at least one source")
	}

	t := &Taxonomy{
		byName:   make(map[string]model.Bucket, len(sources)),
		byBucket: make(map[model.Bucket][]Source),
	}
	for _, s := range sources {
		if s.Name == "" {
			return nil, fmt.Errorf("taxonomy source with empty name")
		}
		switch s.Bucket {
		case model.BucketLeft, model.BucketCenter, model.BucketRight:
		default:
			return nil, fmt.Errorf("source %s: unknown perspective %q", s.Name, s.Bucket)
		}
		key := strings.ToLower(s.Name)
		if _, dup := t.byName[key]; dup {
			return nil, fmt.Errorf("duplicate source %s", s.Name)
		}
		t.byName[key] = s.Bucket
		t.byBucket[s.Bucket] = append(t.byBucket[s.Bucket], s)
		t.sources = append(t.sources, s)
	}
	return t, nil
}

// Load reads an outlet table from a YAML file, replacing the built-in
// table wholesale.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sources file %s: %w", path, err)
	}

	var file struct {
		Sources []Source `yaml:"sources"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing sources file %s: %w", path, err)
	}

	t, err := New(file.Sources)
	if err != nil {
		return nil, fmt.Errorf("sources file %s: %w", path, err)
	}
	return t, nil
}

// BucketFor returns the perspective an outlet belongs to, matching
// case-insensitively. Unmapped outlets report BucketUnknown.
func (t *Taxonomy) BucketFor(sourceName string) model.Bucket {
	if b, ok := t.byName[strings.ToLower(strings.TrimSpace(sourceName))]; ok {
		return b
	}
	return model.BucketUnknown
}

// Ordering is the fixed presentation order of perspectives.
func (t *Taxonomy) Ordering() []model.Bucket {
	return []model.Bucket{model.BucketLeft, model.BucketCenter, model.BucketRight}
}

// SourcesFor returns the outlets in one bucket, in table order.
func (t *Taxonomy) SourcesFor(bucket model.Bucket) []Source {
	return t.byBucket[bucket]
}

// Sources returns every outlet in table order.
func (t *Taxonomy) Sources() []Source {
	return t.sources
}
