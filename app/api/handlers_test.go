package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gofeedatom "github.com/mmcdole/gofeed/atom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/atom-comb/app/database"
	"github.com/lysyi3m/atom-comb/app/feed"
	"github.com/lysyi3m/atom-comb/app/tasks"
)

const testAPIKey = "secret"

const newsDefinition = `
feed:
  id: "urn:feed:news"
  title: "News"
  authors:
    - name: "Alice"
  links:
    - href: "https://example.com/"
settings:
  max_items: 10
`

type recordingScheduler struct {
	enqueued []tasks.TaskInterface
}

func (s *recordingScheduler) Start() {}
func (s *recordingScheduler) Stop()  {}

func (s *recordingScheduler) EnqueueTask(task tasks.TaskInterface) error {
	s.enqueued = append(s.enqueued, task)
	return nil
}

func (s *recordingScheduler) NewImportFeedTask(feedConfig *feed.Config) *tasks.ImportFeedTask {
	return tasks.NewImportFeedTask(feedConfig.Name, feedConfig, http.DefaultClient, feed.NewParser(),
		feed.NewFilterer(), feed.NewContentExtractor(), nil, nil, "test")
}

type testServer struct {
	router    http.Handler
	scheduler *recordingScheduler
	feedRepo  database.FeedRepository
}

func newTestServer(t *testing.T, apiKey string) *testServer {
	t.Helper()

	feedsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(feedsDir, "news.yml"), []byte(newsDefinition), 0644))

	configCache := feed.NewConfigCache(feedsDir)
	require.NoError(t, configCache.Run())

	db, err := database.NewConnection(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, _, err = database.RunMigrations(db)
	require.NoError(t, err)

	feedRepo := database.NewFeedRepository(db)
	entryRepo := database.NewEntryRepository(db)
	publisher := feed.NewPublisher(configCache, feedRepo, entryRepo, "https://feeds.example.com")

	feedConfig, err := configCache.GetConfig("news")
	require.NoError(t, err)
	_, err = publisher.Sync(feedConfig)
	require.NoError(t, err)

	scheduler := &recordingScheduler{}
	handler := NewHandler(configCache, feedRepo, entryRepo, publisher, scheduler, 0)

	return &testServer{
		router:    NewServer(handler, apiKey),
		scheduler: scheduler,
		feedRepo:  feedRepo,
	}
}

func (s *testServer) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

var withKey = map[string]string{"X-API-Key": testAPIKey}

const entryJSON = `{
	"id": "urn:entry:1",
	"title": "First post",
	"authors": [{"name": "Bob"}],
	"content": {"type": "html", "value": "<p>Hello</p>"},
	"updated": "2024-05-06T07:08:09Z"
}`

func TestGetFeedRendersAtom(t *testing.T) {
	s := newTestServer(t, testAPIKey)

	w := s.do(http.MethodGet, "/feeds/news", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/atom+xml; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "0", w.Header().Get("X-Feed-Entries"))
	assert.NotContains(t, w.Body.String(), "\n")

	parsed, err := (&gofeedatom.Parser{}).Parse(strings.NewReader(w.Body.String()))
	require.NoError(t, err)
	assert.Equal(t, "News", parsed.Title)
	assert.Equal(t, "urn:feed:news", parsed.ID)
	require.Len(t, parsed.Links, 2)
	assert.Equal(t, "https://feeds.example.com/feeds/news", parsed.Links[1].Href)
	assert.Equal(t, "self", parsed.Links[1].Rel)
}

func TestGetFeedIndent(t *testing.T) {
	s := newTestServer(t, testAPIKey)

	w := s.do(http.MethodGet, "/feeds/news?indent=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "\n  <title>News</title>")

	w = s.do(http.MethodGet, "/feeds/news?indent=-1", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/feeds/news?indent=wide", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetFeedUnknown(t *testing.T) {
	s := newTestServer(t, testAPIKey)

	w := s.do(http.MethodGet, "/feeds/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAppendEntryThenRender(t *testing.T) {
	s := newTestServer(t, testAPIKey)

	w := s.do(http.MethodPost, "/api/feeds/news/entries", entryJSON, withKey)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp appendEntryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Ordinal)

	second := strings.Replace(entryJSON, "urn:entry:1", "urn:entry:2", 1)
	w = s.do(http.MethodPost, "/api/feeds/news/entries", second, withKey)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Ordinal)

	w = s.do(http.MethodGet, "/feeds/news", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-Feed-Entries"))

	parsed, err := (&gofeedatom.Parser{}).Parse(strings.NewReader(w.Body.String()))
	require.NoError(t, err)
	require.Len(t, parsed.Entries, 2)
	assert.Equal(t, "urn:entry:1", parsed.Entries[0].ID)
	assert.Equal(t, "First post", parsed.Entries[0].Title)
	assert.Equal(t, "2024-05-06T07:08:09.000Z", parsed.Entries[0].Updated)
	require.NotNil(t, parsed.Entries[0].Content)
	assert.Contains(t, parsed.Entries[0].Content.Value, "Hello")
}

func TestAppendEntryValidation(t *testing.T) {
	s := newTestServer(t, testAPIKey)

	body := `{"id": "urn:entry:1", "title": "No content", "authors": [{"name": "Bob"}]}`
	w := s.do(http.MethodPost, "/api/feeds/news/entries", body, withKey)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "content", resp["field"])

	w = s.do(http.MethodPost, "/api/feeds/news/entries", `{"id": `, withKey)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/feeds/unknown/entries", entryJSON, withKey)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/feeds/news", "", nil)
	assert.Equal(t, "0", w.Header().Get("X-Feed-Entries"))
}

func TestAPIAuthentication(t *testing.T) {
	s := newTestServer(t, testAPIKey)

	w := s.do(http.MethodGet, "/api/feeds", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/feeds", "", map[string]string{"X-API-Key": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/feeds", "", map[string]string{"Authorization": "Bearer " + testAPIKey})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIDisabledWithoutKey(t *testing.T) {
	s := newTestServer(t, "")

	w := s.do(http.MethodGet, "/api/feeds", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/feeds/news", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIListAndDetails(t *testing.T) {
	s := newTestServer(t, testAPIKey)

	w := s.do(http.MethodGet, "/api/feeds", "", withKey)
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Feeds []map[string]any `json:"feeds"`
		Total int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, "news", list.Feeds[0]["name"])
	assert.Equal(t, "News", list.Feeds[0]["title"])
	assert.EqualValues(t, 0, list.Feeds[0]["entry_count"])

	w = s.do(http.MethodGet, "/api/feeds/news/details", "", withKey)
	require.Equal(t, http.StatusOK, w.Code)

	var details map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &details))
	assert.Equal(t, "news", details["name"])
	assert.EqualValues(t, 10, details["max_items"])
	assert.Contains(t, details, "metadata")

	w = s.do(http.MethodGet, "/api/feeds/unknown/details", "", withKey)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPIReloadFeed(t *testing.T) {
	s := newTestServer(t, testAPIKey)

	w := s.do(http.MethodPost, "/api/feeds/news/reload", "", withKey)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.Len(t, s.scheduler.enqueued, 1)
	assert.Equal(t, tasks.TaskTypeSyncFeedConfig, s.scheduler.enqueued[0].GetType())
	assert.Equal(t, "news", s.scheduler.enqueued[0].GetFeedName())

	w = s.do(http.MethodPost, "/api/feeds/unknown/reload", "", withKey)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "")

	w := s.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var health map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health["status"])
	assert.EqualValues(t, 1, health["feeds"])
	assert.EqualValues(t, 1, health["loaded_configurations"])
}
