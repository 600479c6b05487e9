package atom

import (
	"fmt"
	"time"
)

const (
	DefaultGeneratorName = "Atom Comb"
	DefaultGeneratorURI  = "https://github.com/lysyi3m/atom-comb"
)

// DefaultGenerator is the identity substituted when a feed supplies none.
func DefaultGenerator() Generator {
	return Generator{Value: DefaultGeneratorName, URI: DefaultGeneratorURI}
}

// Normalizer turns caller input into canonical records. It holds no state
// besides its configuration, so one Normalizer serves the top-level feed and
// every nested source alike.
type Normalizer struct {
	generator Generator
	now       func() time.Time
}

func NewNormalizer(opts ...Option) *Normalizer {
	return newNormalizer(newOptions(opts))
}

func newNormalizer(o options) *Normalizer {
	return &Normalizer{generator: o.generator, now: o.now}
}

// Generator returns the identity used when input has none.
func (n *Normalizer) Generator() Generator {
	return n.generator
}

// Metadata normalizes feed-level input. Updated defaults to the instant of
// this call.
func (n *Normalizer) Metadata(in FeedInput) (*Metadata, error) {
	authors, err := normalizePersons("authors", in.Authors)
	if err != nil {
		return nil, err
	}
	if len(authors) == 0 {
		return nil, missing("authors")
	}

	if in.ID == "" {
		return nil, missing("id")
	}

	title, err := requireText("title", in.Title)
	if err != nil {
		return nil, err
	}

	categories, err := normalizeCategories(in.Categories)
	if err != nil {
		return nil, err
	}

	contributors, err := normalizePersons("contributors", in.Contributors)
	if err != nil {
		return nil, err
	}

	generator, err := n.resolveGenerator(in.Generator)
	if err != nil {
		return nil, err
	}

	links, err := normalizeLinks(in.Links)
	if err != nil {
		return nil, err
	}

	rights, err := resolveText("rights", in.Rights)
	if err != nil {
		return nil, err
	}

	subtitle, err := resolveText("subtitle", in.Subtitle)
	if err != nil {
		return nil, err
	}

	return &Metadata{
		Authors:      authors,
		Categories:   categories,
		Contributors: contributors,
		Generator:    generator,
		Icon:         in.Icon,
		Logo:         in.Logo,
		ID:           in.ID,
		Links:        links,
		Rights:       rights,
		Subtitle:     subtitle,
		Title:        title,
		Updated:      n.timestamp(in.Updated),
	}, nil
}

// Entry normalizes an entry. Updated defaults to the instant of this call;
// Published has no default. An embedded source goes through Metadata with
// its own call-time instant.
func (n *Normalizer) Entry(in EntryInput) (*Entry, error) {
	authors, err := normalizePersons("authors", in.Authors)
	if err != nil {
		return nil, err
	}
	if len(authors) == 0 {
		return nil, missing("authors")
	}

	if in.ID == "" {
		return nil, missing("id")
	}

	title, err := requireText("title", in.Title)
	if err != nil {
		return nil, err
	}

	content, err := resolveContent(in.Content)
	if err != nil {
		return nil, err
	}

	categories, err := normalizeCategories(in.Categories)
	if err != nil {
		return nil, err
	}

	contributors, err := normalizePersons("contributors", in.Contributors)
	if err != nil {
		return nil, err
	}

	links, err := normalizeLinks(in.Links)
	if err != nil {
		return nil, err
	}

	rights, err := resolveText("rights", in.Rights)
	if err != nil {
		return nil, err
	}

	summary, err := resolveText("summary", in.Summary)
	if err != nil {
		return nil, err
	}

	var source *Metadata
	if in.Source != nil {
		source, err = n.Metadata(*in.Source)
		if err != nil {
			return nil, nested("source", err)
		}
	}

	var published string
	if !in.Published.IsZero() {
		published = FormatTimestamp(in.Published)
	}

	return &Entry{
		Authors:      authors,
		Categories:   categories,
		Content:      content,
		Contributors: contributors,
		ID:           in.ID,
		Links:        links,
		Published:    published,
		Rights:       rights,
		Source:       source,
		Summary:      summary,
		Title:        title,
		Updated:      n.timestamp(in.Updated),
	}, nil
}

// resolveGenerator substitutes the configured default when none is
// supplied. A supplied generator replaces the default entirely.
func (n *Normalizer) resolveGenerator(in *Generator) (Generator, error) {
	if in == nil {
		return n.generator, nil
	}
	if in.Value == "" {
		return Generator{}, missing("generator.value")
	}
	return *in, nil
}

func normalizePersons(field string, in []Person) ([]Person, error) {
	for i, p := range in {
		if p.Name == "" {
			return nil, missing(fmt.Sprintf("%s[%d].name", field, i))
		}
	}
	return compactSlice(in), nil
}

func normalizeCategories(in []Category) ([]Category, error) {
	for i, c := range in {
		if c.Term == "" {
			return nil, missing(fmt.Sprintf("categories[%d].term", i))
		}
	}
	return compactSlice(in), nil
}

func normalizeLinks(in []Link) ([]Link, error) {
	for i, l := range in {
		if l.Href == "" {
			return nil, missing(fmt.Sprintf("links[%d].href", i))
		}
	}
	return compactSlice(in), nil
}
