package feed

import (
	"bytes"
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"github.com/lysyi3m/atom-comb/app/atom"
)

// Parser reads upstream RSS, Atom or JSON feeds and maps their items onto
// entry input.
type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *Parser) Run(data []byte) (*Metadata, []Item, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	metadata := &Metadata{
		Title:       feed.Title,
		Link:        feed.Link,
		FeedLink:    feed.FeedLink,
		Description: feed.Description,
		Language:    feed.Language,
		Rights:      feed.Copyright,
		Authors:     p.extractAuthors(feed.Authors),
		UpdatedAt:   cmp.Or(feed.UpdatedParsed, feed.PublishedParsed),
	}

	if feed.Image != nil {
		metadata.ImageURL = feed.Image.URL
	}

	items := make([]Item, 0, len(feed.Items))
	for _, item := range feed.Items {
		normalized := p.normalizeItem(item)
		if len(normalized.Entry.Authors) == 0 {
			normalized.Entry.Authors = metadata.Authors
		}
		items = append(items, normalized)
	}

	return metadata, items, nil
}

// Source returns the upstream feed as an entry source, falling back to
// authors when the upstream declares none. It returns nil when the upstream
// has no usable identifier or title.
func (m *Metadata) Source(authors []atom.Person) *atom.FeedInput {
	id := cmp.Or(m.FeedLink, m.Link)
	if id == "" || m.Title == "" {
		return nil
	}

	if len(m.Authors) > 0 {
		authors = m.Authors
	}
	if len(authors) == 0 {
		return nil
	}

	source := &atom.FeedInput{
		Authors: authors,
		ID:      id,
		Icon:    m.ImageURL,
		Rights:  atom.Text{Value: m.Rights},
		Title:   atom.Text{Value: m.Title},
	}

	if m.Link != "" {
		source.Links = append(source.Links, atom.Link{Href: m.Link, Rel: "alternate"})
	}
	if m.FeedLink != "" {
		source.Links = append(source.Links, atom.Link{Href: m.FeedLink, Rel: "self"})
	}
	if m.UpdatedAt != nil {
		source.Updated = *m.UpdatedAt
	}

	return source
}

func (p *Parser) normalizeItem(item *gofeed.Item) Item {
	contentHash := p.generateContentHash(item)

	entry := atom.EntryInput{
		ID:      cmp.Or(item.GUID, item.Link, "urn:uuid:"+uuid.NewSHA1(uuid.NameSpaceURL, []byte(contentHash)).String()),
		Title:   atom.Text{Value: cmp.Or(item.Title, "Untitled")},
		Authors: p.extractAuthors(item.Authors),
	}

	switch {
	case item.Content != "":
		entry.Content = &atom.Content{Type: "html", Value: item.Content}
		if item.Description != item.Content {
			entry.Summary = atom.Text{Type: atom.TextTypeHTML, Value: item.Description}
		}
	case item.Description != "":
		entry.Content = &atom.Content{Type: "html", Value: item.Description}
	case item.Link != "":
		entry.Content = &atom.Content{Type: "text/html", Src: item.Link}
	}

	if item.Link != "" {
		entry.Links = append(entry.Links, atom.Link{Href: item.Link, Rel: "alternate"})
	}

	for _, enclosure := range item.Enclosures {
		if enclosure == nil || enclosure.URL == "" {
			continue
		}
		entry.Links = append(entry.Links, atom.Link{
			Href:   enclosure.URL,
			Rel:    "enclosure",
			Type:   enclosure.Type,
			Length: enclosure.Length,
		})
	}

	for _, category := range item.Categories {
		if category != "" {
			entry.Categories = append(entry.Categories, atom.Category{Term: category})
		}
	}

	if item.PublishedParsed != nil {
		entry.Published = *item.PublishedParsed
	}
	if updated := cmp.Or(item.UpdatedParsed, item.PublishedParsed); updated != nil {
		entry.Updated = *updated
	}

	return Item{
		Entry:       entry,
		Link:        item.Link,
		ContentHash: contentHash,
	}
}

func (p *Parser) extractAuthors(people []*gofeed.Person) []atom.Person {
	var authors []atom.Person
	for _, person := range people {
		if person == nil {
			continue
		}
		name := cmp.Or(person.Name, person.Email)
		if name == "" {
			continue
		}
		authors = append(authors, atom.Person{Name: name, Email: person.Email})
	}
	return authors
}

func (p *Parser) generateContentHash(item *gofeed.Item) string {
	content := fmt.Sprintf("%s|%s|%s",
		item.Title,
		item.Link,
		item.Description)

	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
