package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lysyi3m/atom-comb/app/atom"
)

// feedRepository handles database operations for feeds
type feedRepository struct {
	db  *DB
	now func() time.Time
}

// NewFeedRepository creates a new feed repository
func NewFeedRepository(db *DB) FeedRepository {
	return &feedRepository{db: db, now: time.Now}
}

const feedColumns = `name, config_hash, source_url, metadata, last_fetched_at, next_fetch_at, created_at, updated_at`

// UpsertFeed stores the canonical metadata of a feed along with the hash of
// the definition it came from
func (r *feedRepository) UpsertFeed(feedName, configHash, sourceURL string, metadata atom.Metadata) error {
	data, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to encode feed metadata: %w", err)
	}

	now := r.now().UTC().Format(timeLayout)
	_, err = r.db.Exec(`
		INSERT INTO feeds (name, config_hash, source_url, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			config_hash = excluded.config_hash,
			source_url = excluded.source_url,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at
	`, feedName, configHash, sourceURL, string(data), now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert feed: %w", err)
	}

	return nil
}

// UpdateNextFetch records a completed fetch and when the next one is due
func (r *feedRepository) UpdateNextFetch(feedName string, nextFetch time.Time) error {
	now := r.now().UTC().Format(timeLayout)
	_, err := r.db.Exec(`
		UPDATE feeds
		SET next_fetch_at = ?, last_fetched_at = ?, updated_at = ?
		WHERE name = ?
	`, nextFetch.UTC().Format(timeLayout), now, now, feedName)

	if err != nil {
		return fmt.Errorf("failed to update next fetch time: %w", err)
	}

	return nil
}

// GetFeed retrieves a feed by name, or nil when it is not stored
func (r *feedRepository) GetFeed(feedName string) (*Feed, error) {
	row := r.db.QueryRow(`SELECT `+feedColumns+` FROM feeds WHERE name = ?`, feedName)

	feed, err := scanFeed(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed: %w", err)
	}

	return feed, nil
}

func (r *feedRepository) GetFeeds() ([]Feed, error) {
	rows, err := r.db.Query(`SELECT ` + feedColumns + ` FROM feeds ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to get feeds: %w", err)
	}
	defer rows.Close()

	var feeds []Feed
	for rows.Next() {
		feed, err := scanFeed(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feed row: %w", err)
		}
		feeds = append(feeds, *feed)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feed rows: %w", err)
	}

	return feeds, nil
}

// GetFeedCount returns the total number of feeds
func (r *feedRepository) GetFeedCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM feeds").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get feed count: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFeed(s scanner) (*Feed, error) {
	var (
		feed                       Feed
		metadata                   string
		lastFetchedAt, nextFetchAt sql.NullString
		createdAt, updatedAt       string
	)

	if err := s.Scan(&feed.Name, &feed.ConfigHash, &feed.SourceURL, &metadata,
		&lastFetchedAt, &nextFetchAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(metadata), &feed.Metadata); err != nil {
		return nil, fmt.Errorf("failed to decode feed metadata: %w", err)
	}

	var err error
	if feed.LastFetchedAt, err = parseNullTime(lastFetchedAt); err != nil {
		return nil, err
	}
	if feed.NextFetchAt, err = parseNullTime(nextFetchAt); err != nil {
		return nil, err
	}
	if feed.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if feed.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return &feed, nil
}

func parseNullTime(value sql.NullString) (*time.Time, error) {
	if !value.Valid || value.String == "" {
		return nil, nil
	}
	t, err := time.Parse(timeLayout, value.String)
	if err != nil {
		return nil, fmt.Errorf("failed to parse time %q: %w", value.String, err)
	}
	return &t, nil
}
