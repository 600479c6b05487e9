package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lysyi3m/atom-comb/app/atom"
	"github.com/lysyi3m/atom-comb/app/database"
	"github.com/lysyi3m/atom-comb/app/feed"
)

// ImportFeedTask pulls entries from the upstream feed of a definition and
// appends the ones not seen before.
type ImportFeedTask struct {
	Task
	FeedConfig       *feed.Config
	httpClient       *http.Client
	parser           *feed.Parser
	filterer         *feed.Filterer
	contentExtractor *feed.ContentExtractor
	publisher        *feed.Publisher
	feedRepo         database.FeedRepository
	userAgent        string
}

func NewImportFeedTask(feedName string, feedConfig *feed.Config, httpClient *http.Client, parser *feed.Parser,
	filterer *feed.Filterer, contentExtractor *feed.ContentExtractor, publisher *feed.Publisher,
	feedRepo database.FeedRepository, userAgent string) *ImportFeedTask {
	return &ImportFeedTask{
		Task:             NewTask(TaskTypeImportFeed, feedName),
		FeedConfig:       feedConfig,
		httpClient:       httpClient,
		parser:           parser,
		filterer:         filterer,
		contentExtractor: contentExtractor,
		publisher:        publisher,
		feedRepo:         feedRepo,
		userAgent:        userAgent,
	}
}

func (t *ImportFeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.FeedConfig.Settings.Enabled {
		slog.Debug("Feed disabled, skipping", "feed", t.FeedName)
		return nil
	}

	// Startup sync may still be queued behind this task
	if _, err := t.publisher.Sync(t.FeedConfig); err != nil {
		return fmt.Errorf("failed to sync feed config: %w", err)
	}

	data, err := t.fetch(ctx, t.FeedConfig.SourceURL)
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	metadata, items, err := t.parser.Run(data)
	if err != nil {
		return fmt.Errorf("failed to parse feed: %w", err)
	}

	duplicateCount := 0
	filteredCount := 0
	invalidCount := 0
	newCount := 0

	var freshItems []feed.Item
	for _, item := range items {
		exists, err := t.publisher.HasEntry(t.FeedName, item.Entry.ID)
		if err != nil {
			return fmt.Errorf("failed to check for duplicates: %w", err)
		}
		if exists {
			duplicateCount++
			continue
		}
		freshItems = append(freshItems, item)
	}

	var source *atom.FeedInput
	if t.FeedConfig.Settings.IncludeSource {
		source = metadata.Source(t.FeedConfig.Feed.Authors)
	}

	filteredItems := t.filterer.Run(freshItems, t.FeedConfig)

	// Upstream feeds list newest first
	for i := len(filteredItems) - 1; i >= 0; i-- {
		item := filteredItems[i]
		if item.IsFiltered {
			filteredCount++
			continue
		}

		entry := t.prepareEntry(ctx, item, source)

		ordinal, err := t.publisher.Append(t.FeedName, entry)
		if err != nil {
			var validationErr *atom.ValidationError
			if errors.As(err, &validationErr) {
				slog.Warn("Skipping invalid upstream entry", "feed", t.FeedName, "id", entry.ID, "error", err)
				invalidCount++
				continue
			}
			return fmt.Errorf("failed to append entry: %w", err)
		}

		slog.Debug("Entry appended", "feed", t.FeedName, "id", entry.ID, "ordinal", ordinal)
		newCount++
	}

	nextFetch := time.Now().UTC().Add(time.Duration(t.FeedConfig.Settings.RefreshInterval) * time.Second)
	if err := t.feedRepo.UpdateNextFetch(t.FeedName, nextFetch); err != nil {
		return fmt.Errorf("failed to update next fetch time: %w", err)
	}

	slog.Info("Task completed",
		"type", "ImportFeed",
		"feed", t.FeedName,
		"duration", t.GetDuration(),
		"total", len(items),
		"duplicates", duplicateCount,
		"filtered", filteredCount,
		"invalid", invalidCount,
		"new", newCount)

	return nil
}

// prepareEntry completes an upstream entry with what the definition
// provides and cleans up its markup.
func (t *ImportFeedTask) prepareEntry(ctx context.Context, item feed.Item, source *atom.FeedInput) atom.EntryInput {
	entry := item.Entry

	if len(entry.Authors) == 0 {
		entry.Authors = t.FeedConfig.Feed.Authors
	}
	if entry.Source == nil {
		entry.Source = source
	}

	if entry.Content != nil {
		content := *entry.Content
		entry.Content = &content

		if content.Value == "" && item.Link != "" && t.FeedConfig.Settings.ExtractContent {
			if extracted, err := t.extract(ctx, item.Link); err != nil {
				slog.Warn("Content extraction failed", "feed", t.FeedName, "url", item.Link, "error", err)
			} else {
				entry.Content = &atom.Content{Type: string(atom.TextTypeHTML), Value: extracted}
			}
		} else if content.Type == string(atom.TextTypeHTML) {
			entry.Content.Value = t.contentExtractor.Sanitize(content.Value)
			if entry.Content.Value == "" && item.Link != "" {
				entry.Content = &atom.Content{Type: "text/html", Src: item.Link}
			}
		}
	}

	if entry.Summary.Type == atom.TextTypeHTML {
		entry.Summary.Value = t.contentExtractor.Sanitize(entry.Summary.Value)
	}

	return entry
}

func (t *ImportFeedTask) extract(ctx context.Context, pageURL string) (string, error) {
	data, err := t.fetch(ctx, pageURL)
	if err != nil {
		return "", err
	}
	return t.contentExtractor.Run(data, pageURL)
}

func (t *ImportFeedTask) fetch(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(t.FeedConfig.Settings.Timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
