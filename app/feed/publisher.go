package feed

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/lysyi3m/atom-comb/app/atom"
	"github.com/lysyi3m/atom-comb/app/database"
)

var ErrFeedNotFound = errors.New("feed not found")

// Publisher keeps the stored state of every feed in line with its
// definition and is the only writer of entries. Appends run one at a time.
type Publisher struct {
	configCache *ConfigCache
	feedRepo    database.FeedRepository
	entryRepo   database.EntryRepository
	baseURL     string
	generator   atom.Generator
	opts        []atom.Option
	mu          sync.Mutex
}

func NewPublisher(configCache *ConfigCache, feedRepo database.FeedRepository, entryRepo database.EntryRepository, baseURL string, opts ...atom.Option) *Publisher {
	return &Publisher{
		configCache: configCache,
		feedRepo:    feedRepo,
		entryRepo:   entryRepo,
		baseURL:     strings.TrimRight(baseURL, "/"),
		generator:   atom.NewNormalizer(opts...).Generator(),
		opts:        opts,
	}
}

// Sync normalizes the feed-level input of feedConfig and stores it. The
// stored hash also covers the base URL and default generator. When it
// matches, the feed is left alone so its updated timestamp is stable across
// restarts. It reports whether the stored metadata changed.
func (p *Publisher) Sync(feedConfig *Config) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	stored, err := p.feedRepo.GetFeed(feedConfig.Name)
	if err != nil {
		return false, err
	}
	hash := p.syncHash(feedConfig)
	if stored != nil && stored.ConfigHash == hash {
		slog.Debug("Feed definition unchanged", "feed", feedConfig.Name)
		return false, nil
	}

	metadata, err := atom.NewNormalizer(p.opts...).Metadata(p.withSelfLink(feedConfig))
	if err != nil {
		return false, fmt.Errorf("failed to normalize feed metadata: %w", err)
	}

	if err := p.feedRepo.UpsertFeed(feedConfig.Name, hash, feedConfig.SourceURL, *metadata); err != nil {
		return false, err
	}

	return true, nil
}

// Append normalizes in as a new entry of the named feed and stores it. It
// returns the number of entries the feed has afterwards. Validation errors
// are returned as they are and nothing is stored.
func (p *Publisher) Append(feedName string, in atom.EntryInput) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	stored, err := p.feedRepo.GetFeed(feedName)
	if err != nil {
		return 0, err
	}
	if stored == nil {
		return 0, fmt.Errorf("%w: %s", ErrFeedNotFound, feedName)
	}

	f := atom.Restore(stored.Metadata, nil, p.opts...)
	if _, err := f.AddEntry(in); err != nil {
		return 0, err
	}

	entry, _ := f.Last()
	return p.entryRepo.AppendEntry(feedName, entry)
}

func (p *Publisher) HasEntry(feedName, entryID string) (bool, error) {
	return p.entryRepo.HasEntry(feedName, entryID)
}

// Render returns the Atom document of the named feed with its latest
// max_items entries, and the number of entries it holds.
func (p *Publisher) Render(feedName string, indent string) (string, int, error) {
	feedConfig, err := p.configCache.GetConfig(feedName)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %s", ErrFeedNotFound, feedName)
	}

	stored, err := p.feedRepo.GetFeed(feedName)
	if err != nil {
		return "", 0, err
	}
	if stored == nil {
		return "", 0, fmt.Errorf("%w: %s", ErrFeedNotFound, feedName)
	}

	entries, err := p.entryRepo.GetEntries(feedName, feedConfig.Settings.MaxItems)
	if err != nil {
		return "", 0, err
	}

	f := atom.Restore(stored.Metadata, entries, p.opts...)
	return f.Render(indent), f.Len(), nil
}

// syncHash combines the definition hash with the process settings that
// also end up in the stored metadata.
func (p *Publisher) syncHash(feedConfig *Config) string {
	h := sha256.New()
	for _, part := range []string{
		feedConfig.Hash,
		p.baseURL,
		p.generator.Value,
		p.generator.URI,
		p.generator.Version,
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// withSelfLink adds a rel="self" link pointing at this service when a base
// URL is configured and the definition doesn't carry one.
func (p *Publisher) withSelfLink(feedConfig *Config) atom.FeedInput {
	in := feedConfig.Feed
	if p.baseURL == "" {
		return in
	}

	for _, link := range in.Links {
		if link.Rel == "self" {
			return in
		}
	}

	links := make([]atom.Link, 0, len(in.Links)+1)
	links = append(links, in.Links...)
	in.Links = append(links, atom.Link{
		Href: fmt.Sprintf("%s/feeds/%s", p.baseURL, feedConfig.Name),
		Rel:  "self",
		Type: "application/atom+xml",
	})
	return in
}
