package feed

import (
	"time"

	"github.com/lysyi3m/atom-comb/app/atom"
)

// Upstream import types

// Metadata describes an upstream feed entries are imported from.
type Metadata struct {
	Title       string
	Link        string
	FeedLink    string
	Description string
	ImageURL    string
	Language    string
	Rights      string
	Authors     []atom.Person
	UpdatedAt   *time.Time
}

// Item is an upstream entry mapped onto entry input, plus the bookkeeping
// the importer needs before it is appended.
type Item struct {
	Entry atom.EntryInput
	Link  string // page used for content extraction

	ContentHash  string
	IsFiltered   bool
	FilterReason string
}

// Configuration types

type Config struct {
	Name      string         `yaml:"-"` // Derived from filename (without .yml extension)
	Hash      string         `yaml:"-"` // SHA-256 of the definition file
	Feed      atom.FeedInput `yaml:"feed"`
	SourceURL string         `yaml:"source_url"`
	Settings  ConfigSettings `yaml:"settings"`
	Filters   []ConfigFilter `yaml:"filters"`
}

type ConfigSettings struct {
	Enabled         bool `yaml:"enabled"`          // import from source_url
	RefreshInterval int  `yaml:"refresh_interval"` // seconds
	MaxItems        int  `yaml:"max_items"`        // entries rendered
	Timeout         int  `yaml:"timeout"`          // seconds
	ExtractContent  bool `yaml:"extract_content"`  // enable content extraction
	IncludeSource   bool `yaml:"include_source"`   // embed upstream metadata as <source>
}

type ConfigFilter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}
