// Package atom builds Atom 1.0 documents from caller-supplied metadata.
//
// Input is normalized once, when a Feed is constructed or an entry is
// appended; rendering only projects the stored records and can be repeated
// without side effects.
package atom

import (
	"strings"

	"github.com/lysyi3m/atom-comb/app/xmltree"
)

// Feed owns normalized feed metadata and an append-only list of entries.
//
// A Feed is not safe for concurrent AddEntry calls. Callers that share one
// across goroutines must serialize access themselves.
type Feed struct {
	normalizer *Normalizer
	serializer Serializer
	metadata   *Metadata
	entries    []Entry
}

// NewFeed normalizes in and returns a Feed with no entries. On validation
// failure no Feed is returned.
func NewFeed(in FeedInput, opts ...Option) (*Feed, error) {
	o := newOptions(opts)
	normalizer := newNormalizer(o)

	metadata, err := normalizer.Metadata(in)
	if err != nil {
		return nil, err
	}

	return &Feed{
		normalizer: normalizer,
		serializer: o.serializer,
		metadata:   metadata,
	}, nil
}

// Restore rebuilds a Feed from records that were normalized earlier, for
// example by a Feed whose state was persisted. Records are taken as they
// are, so their timestamps do not change. The Feed keeps its own copies;
// later changes to metadata or entries do not reach it.
func Restore(metadata Metadata, entries []Entry, opts ...Option) *Feed {
	o := newOptions(opts)
	m := metadata.clone()

	return &Feed{
		normalizer: newNormalizer(o),
		serializer: o.serializer,
		metadata:   &m,
		entries:    cloneEntries(entries),
	}
}

// AddEntry normalizes in and appends it. It returns the new number of
// entries, which is the 1-based position of the appended entry. A
// validation failure leaves the Feed unchanged.
func (f *Feed) AddEntry(in EntryInput) (int, error) {
	entry, err := f.normalizer.Entry(in)
	if err != nil {
		return 0, err
	}

	f.entries = append(f.entries, *entry)
	return len(f.entries), nil
}

func (f *Feed) Len() int {
	return len(f.entries)
}

// Metadata returns a copy of the feed metadata.
func (f *Feed) Metadata() Metadata {
	return f.metadata.clone()
}

// Entries returns copies of the entries in append order.
func (f *Feed) Entries() []Entry {
	return cloneEntries(f.entries)
}

// Last returns the most recently appended entry.
func (f *Feed) Last() (Entry, bool) {
	if len(f.entries) == 0 {
		return Entry{}, false
	}
	return f.entries[len(f.entries)-1].clone(), true
}

// Document assembles the tree handed to the serializer.
func (f *Feed) Document() *xmltree.Document {
	return buildDocument(f.metadata, f.entries)
}

// Render returns the XML document. An empty indent renders compactly;
// see Spaces for the common case of an n-space indent.
func (f *Feed) Render(indent string) string {
	return f.serializer.Serialize(f.Document(), indent)
}

// Spaces returns an indent unit of n spaces, or the compact indent for n <= 0.
func Spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
