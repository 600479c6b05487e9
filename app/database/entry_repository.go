package database

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lysyi3m/atom-comb/app/atom"
)

// entryRepository stores normalized entries as JSON records. The records are
// written once and never updated, so rendering them again always yields the
// same document.
type entryRepository struct {
	db  *DB
	now func() time.Time
}

// NewEntryRepository creates a new entry repository
func NewEntryRepository(db *DB) EntryRepository {
	return &entryRepository{db: db, now: time.Now}
}

// AppendEntry stores entry after the existing entries of the feed and
// returns the number of entries the feed now has.
func (r *entryRepository) AppendEntry(feedName string, entry atom.Entry) (int, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return 0, fmt.Errorf("failed to encode entry: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO entries (feed_name, entry_id, record, created_at)
		VALUES (?, ?, ?, ?)
	`, feedName, entry.ID, string(data), r.now().UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("failed to append entry: %w", err)
	}

	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM entries WHERE feed_name = ?`, feedName).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit entry: %w", err)
	}

	return count, nil
}

// GetEntries returns the most recent limit entries of a feed in append
// order. A limit of zero or less returns all of them.
func (r *entryRepository) GetEntries(feedName string, limit int) ([]atom.Entry, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(`
		SELECT record FROM (
			SELECT seq, record FROM entries
			WHERE feed_name = ?
			ORDER BY seq DESC
			LIMIT ?
		) ORDER BY seq ASC
	`, feedName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}
	defer rows.Close()

	var entries []atom.Entry
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}

		var entry atom.Entry
		if err := json.Unmarshal([]byte(record), &entry); err != nil {
			return nil, fmt.Errorf("failed to decode entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows: %w", err)
	}

	return entries, nil
}

// HasEntry reports whether an entry with entryID was already appended to the feed
func (r *entryRepository) HasEntry(feedName, entryID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM entries WHERE feed_name = ? AND entry_id = ?)
	`, feedName, entryID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check entry: %w", err)
	}
	return exists, nil
}

func (r *entryRepository) GetEntryCount(feedName string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM entries WHERE feed_name = ?", feedName).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get entry count: %w", err)
	}
	return count, nil
}
