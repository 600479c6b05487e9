package api

import (
	"github.com/lysyi3m/atom-comb/app/database"
	"github.com/lysyi3m/atom-comb/app/feed"
	"github.com/lysyi3m/atom-comb/app/tasks"
)

// SchedulerInterface is the part of the scheduler the handlers queue work on.
type SchedulerInterface interface {
	tasks.TaskSchedulerInterface
	NewImportFeedTask(feedConfig *feed.Config) *tasks.ImportFeedTask
}

var _ SchedulerInterface = (*tasks.Scheduler)(nil)

type Handler struct {
	configCache *feed.ConfigCache
	feedRepo    database.FeedRepository
	entryRepo   database.EntryRepository
	publisher   *feed.Publisher
	scheduler   SchedulerInterface
	indent      int
}

type appendEntryResponse struct {
	Ordinal int `json:"ordinal"`
}
