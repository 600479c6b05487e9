package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/atom-comb/app/feed"
)

type SyncFeedConfigTask struct {
	Task
	FeedConfig *feed.Config
	publisher  *feed.Publisher
}

func NewSyncFeedConfigTask(feedName string, feedConfig *feed.Config, publisher *feed.Publisher) *SyncFeedConfigTask {
	return &SyncFeedConfigTask{
		Task:       NewTask(TaskTypeSyncFeedConfig, feedName),
		FeedConfig: feedConfig,
		publisher:  publisher,
	}
}

func (t *SyncFeedConfigTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	changed, err := t.publisher.Sync(t.FeedConfig)
	if err != nil {
		return fmt.Errorf("failed to sync feed config to database: %w", err)
	}

	slog.Info("Task completed",
		"type", "SyncFeedConfig",
		"feed", t.FeedName,
		"changed", changed,
		"duration", t.GetDuration())

	return nil
}
