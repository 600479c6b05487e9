package database

import (
	"time"

	"github.com/lysyi3m/atom-comb/app/atom"
)

type FeedRepository interface {
	GetFeed(feedName string) (*Feed, error)
	GetFeeds() ([]Feed, error)
	GetFeedCount() (int, error)

	UpsertFeed(feedName, configHash, sourceURL string, metadata atom.Metadata) error
	UpdateNextFetch(feedName string, nextFetch time.Time) error
}

type EntryRepository interface {
	AppendEntry(feedName string, entry atom.Entry) (int, error)
	GetEntries(feedName string, limit int) ([]atom.Entry, error)
	HasEntry(feedName, entryID string) (bool, error)
	GetEntryCount(feedName string) (int, error)
}
