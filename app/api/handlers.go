package api

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/atom-comb/app/atom"
	"github.com/lysyi3m/atom-comb/app/database"
	"github.com/lysyi3m/atom-comb/app/feed"
	"github.com/lysyi3m/atom-comb/app/tasks"
)

const atomContentType = "application/atom+xml; charset=utf-8"

// NewHandler wires the handlers. indent is the number of spaces used when a
// request doesn't ask for one; zero renders compact documents.
func NewHandler(configCache *feed.ConfigCache, feedRepo database.FeedRepository,
	entryRepo database.EntryRepository, publisher *feed.Publisher,
	scheduler SchedulerInterface, indent int) *Handler {
	return &Handler{
		configCache: configCache,
		feedRepo:    feedRepo,
		entryRepo:   entryRepo,
		publisher:   publisher,
		scheduler:   scheduler,
		indent:      indent,
	}
}

func (h *Handler) GetFeed(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	indent := h.indent
	if raw := c.Query("indent"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.String(http.StatusBadRequest, "indent must be a non-negative integer")
			return
		}
		indent = n
	}

	doc, count, err := h.publisher.Render(name, atom.Spaces(indent))
	if errors.Is(err, feed.ErrFeedNotFound) {
		slog.Debug("Feed not found", "feed", name)
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("Database error", "operation", "render_feed", "feed", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("X-Feed-Entries", strconv.Itoa(count))
	c.Header("X-Feed-Name", name)
	c.Data(http.StatusOK, atomContentType, []byte(doc))
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if feedCount, err := h.feedRepo.GetFeedCount(); err == nil {
		health["feeds"] = feedCount
	}

	health["loaded_configurations"] = h.configCache.GetConfigCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) APIListFeeds(c *gin.Context) {
	configs := h.configCache.GetConfigs()

	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	sort.Strings(names)

	feeds := make([]map[string]interface{}, 0, len(configs))

	for _, name := range names {
		feedConfig := configs[name]
		feedInfo := map[string]interface{}{
			"name":             feedConfig.Name,
			"source_url":       feedConfig.SourceURL,
			"title":            feedConfig.Feed.Title.Value,
			"enabled":          feedConfig.Settings.Enabled,
			"max_items":        feedConfig.Settings.MaxItems,
			"refresh_interval": (time.Duration(feedConfig.Settings.RefreshInterval) * time.Second).String(),
			"filters":          len(feedConfig.Filters),
		}

		if stored, err := h.feedRepo.GetFeed(feedConfig.Name); err == nil && stored != nil {
			feedInfo["title"] = stored.Metadata.Title.Value
			feedInfo["updated"] = stored.Metadata.Updated
			feedInfo["last_fetched_at"] = stored.LastFetchedAt
			feedInfo["next_fetch_at"] = stored.NextFetchAt
			feedInfo["updated_at"] = stored.UpdatedAt
		}

		if entryCount, err := h.entryRepo.GetEntryCount(feedConfig.Name); err == nil {
			feedInfo["entry_count"] = entryCount
		}

		feeds = append(feeds, feedInfo)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"feeds": feeds,
		"total": len(feeds),
	})
}

func (h *Handler) APIGetFeedDetails(c *gin.Context) {
	name := c.Param("name")

	feedConfig, err := h.configCache.GetConfig(name)
	if err != nil {
		slog.Debug("Feed configuration not found", "feed", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Feed configuration not found"})
		return
	}

	stored, err := h.feedRepo.GetFeed(name)
	if err != nil {
		slog.Error("Database error", "operation", "get_feed", "feed", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if stored == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Feed not found in database"})
		return
	}

	details := map[string]interface{}{
		"name":             name,
		"source_url":       feedConfig.SourceURL,
		"enabled":          feedConfig.Settings.Enabled,
		"max_items":        feedConfig.Settings.MaxItems,
		"refresh_interval": (time.Duration(feedConfig.Settings.RefreshInterval) * time.Second).String(),
		"timeout":          (time.Duration(feedConfig.Settings.Timeout) * time.Second).String(),
		"extract_content":  feedConfig.Settings.ExtractContent,
		"include_source":   feedConfig.Settings.IncludeSource,
		"filters":          feedConfig.Filters,
		"metadata":         stored.Metadata,
	}

	details["database"] = map[string]interface{}{
		"config_hash":     stored.ConfigHash,
		"last_fetched_at": stored.LastFetchedAt,
		"next_fetch_at":   stored.NextFetchAt,
		"created_at":      stored.CreatedAt,
		"updated_at":      stored.UpdatedAt,
	}

	if entryCount, err := h.entryRepo.GetEntryCount(name); err == nil {
		details["entries"] = entryCount
	}

	c.JSON(http.StatusOK, details)
}

func (h *Handler) APIAppendEntry(c *gin.Context) {
	name := c.Param("name")

	if _, err := h.configCache.GetConfig(name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Feed configuration not found"})
		return
	}

	var in atom.EntryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	ordinal, err := h.publisher.Append(name, in)
	if err != nil {
		var validationErr *atom.ValidationError
		switch {
		case errors.As(err, &validationErr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "Invalid entry",
				"field":   validationErr.Field,
				"details": err.Error(),
			})
		case errors.Is(err, feed.ErrFeedNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Feed not found in database"})
		default:
			slog.Error("Database error", "operation", "append_entry", "feed", name, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	slog.Info("Entry appended", "feed", name, "id", in.ID, "ordinal", ordinal)

	c.JSON(http.StatusCreated, appendEntryResponse{Ordinal: ordinal})
}

func (h *Handler) APIReloadFeed(c *gin.Context) {
	name := c.Param("name")

	if _, err := h.configCache.GetConfig(name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Feed configuration not found"})
		return
	}

	feedConfig, err := h.configCache.LoadConfig(name)
	if err != nil {
		slog.Error("Error reloading configuration", "feed", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to reload configuration",
			"details": err.Error(),
		})
		return
	}

	enqueued := []tasks.TaskInterface{tasks.NewSyncFeedConfigTask(name, feedConfig, h.publisher)}
	if feedConfig.Settings.Enabled {
		enqueued = append(enqueued, h.scheduler.NewImportFeedTask(feedConfig))
	}

	taskInfo := make([]gin.H, 0, len(enqueued))
	for _, task := range enqueued {
		if err := h.scheduler.EnqueueTask(task); err != nil {
			slog.Error("Error enqueueing task", "type", string(task.GetType()), "feed", name, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to enqueue task",
				"details": err.Error(),
			})
			return
		}
		taskInfo = append(taskInfo, gin.H{"id": task.GetID(), "type": task.GetType()})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Configuration reloaded and tasks enqueued successfully",
		"feed": gin.H{
			"name":       name,
			"title":      feedConfig.Feed.Title.Value,
			"source_url": feedConfig.SourceURL,
		},
		"tasks": taskInfo,
	})
}
