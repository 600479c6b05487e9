package database

import (
	"time"

	"github.com/lysyi3m/atom-comb/app/atom"
)

const timeLayout = time.RFC3339Nano

type Feed struct {
	Name          string // Configuration feed identifier derived from filename
	ConfigHash    string // SHA-256 of the definition and settings the metadata was normalized from
	SourceURL     string // Upstream feed entries are imported from, if any
	Metadata      atom.Metadata
	LastFetchedAt *time.Time
	NextFetchAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
