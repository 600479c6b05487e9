package atom

import (
	"encoding/json"
	"time"

	"gopkg.in/yaml.v3"
)

type TextType string

const (
	TextTypeText  TextType = "text"
	TextTypeHTML  TextType = "html"
	TextTypeXHTML TextType = "xhtml"
)

// Text is an Atom text construct: title, subtitle, rights or summary.
// An empty Value means the construct is absent.
type Text struct {
	Type  TextType `json:"type,omitempty" yaml:"type,omitempty"`
	Value string   `json:"value" yaml:"value"`
}

// UnmarshalJSON accepts either {"type": ..., "value": ...} or a bare string.
func (t *Text) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		*t = Text{}
		return json.Unmarshal(data, &t.Value)
	}

	type plain Text
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = Text(p)
	return nil
}

// UnmarshalYAML accepts either a mapping or a scalar shorthand.
func (t *Text) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*t = Text{Value: node.Value}
		return nil
	}

	type plain Text
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*t = Text(p)
	return nil
}

// Content is entry content: inline Value, or an out-of-line reference in Src.
// Type may be any media type in addition to text, html and xhtml.
type Content struct {
	Type  string `json:"type,omitempty" yaml:"type,omitempty"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
	Src   string `json:"src,omitempty" yaml:"src,omitempty"`
}

type Person struct {
	Name  string `json:"name" yaml:"name"`
	URI   string `json:"uri,omitempty" yaml:"uri,omitempty"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

type Category struct {
	Term   string `json:"term" yaml:"term"`
	Scheme string `json:"scheme,omitempty" yaml:"scheme,omitempty"`
	Label  string `json:"label,omitempty" yaml:"label,omitempty"`
}

type Link struct {
	Href     string `json:"href" yaml:"href"`
	Rel      string `json:"rel,omitempty" yaml:"rel,omitempty"`
	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
	Hreflang string `json:"hreflang,omitempty" yaml:"hreflang,omitempty"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	Length   string `json:"length,omitempty" yaml:"length,omitempty"`
}

// Generator identifies the software that produced the feed. Value is the
// display name.
type Generator struct {
	Value   string `json:"value" yaml:"value"`
	URI     string `json:"uri,omitempty" yaml:"uri,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// Caller-supplied input

// FeedInput is the raw feed-level metadata. A zero Updated means "now".
// It is also the shape of an entry's Source.
type FeedInput struct {
	Authors      []Person   `json:"authors" yaml:"authors"`
	Categories   []Category `json:"categories,omitempty" yaml:"categories,omitempty"`
	Contributors []Person   `json:"contributors,omitempty" yaml:"contributors,omitempty"`
	Generator    *Generator `json:"generator,omitempty" yaml:"generator,omitempty"`
	Icon         string     `json:"icon,omitempty" yaml:"icon,omitempty"`
	Logo         string     `json:"logo,omitempty" yaml:"logo,omitempty"`
	ID           string     `json:"id" yaml:"id"`
	Links        []Link     `json:"links,omitempty" yaml:"links,omitempty"`
	Rights       Text       `json:"rights,omitzero" yaml:"rights,omitempty"`
	Subtitle     Text       `json:"subtitle,omitzero" yaml:"subtitle,omitempty"`
	Title        Text       `json:"title" yaml:"title"`
	Updated      time.Time  `json:"updated,omitzero" yaml:"updated,omitempty"`
}

// EntryInput is the raw entry. A zero Updated means "now"; a zero Published
// is left out.
type EntryInput struct {
	Authors      []Person   `json:"authors" yaml:"authors"`
	Categories   []Category `json:"categories,omitempty" yaml:"categories,omitempty"`
	Content      *Content   `json:"content" yaml:"content"`
	Contributors []Person   `json:"contributors,omitempty" yaml:"contributors,omitempty"`
	ID           string     `json:"id" yaml:"id"`
	Links        []Link     `json:"links,omitempty" yaml:"links,omitempty"`
	Published    time.Time  `json:"published,omitzero" yaml:"published,omitempty"`
	Rights       Text       `json:"rights,omitzero" yaml:"rights,omitempty"`
	Source       *FeedInput `json:"source,omitempty" yaml:"source,omitempty"`
	Summary      Text       `json:"summary,omitzero" yaml:"summary,omitempty"`
	Title        Text       `json:"title" yaml:"title"`
	Updated      time.Time  `json:"updated,omitzero" yaml:"updated,omitempty"`
}

// Canonical records

// Metadata is normalized feed-level metadata. Absent optional fields are
// nil or empty; timestamps are already in their final string form.
type Metadata struct {
	Authors      []Person   `json:"authors"`
	Categories   []Category `json:"categories,omitempty"`
	Contributors []Person   `json:"contributors,omitempty"`
	Generator    Generator  `json:"generator"`
	Icon         string     `json:"icon,omitempty"`
	Logo         string     `json:"logo,omitempty"`
	ID           string     `json:"id"`
	Links        []Link     `json:"links,omitempty"`
	Rights       *Text      `json:"rights,omitempty"`
	Subtitle     *Text      `json:"subtitle,omitempty"`
	Title        Text       `json:"title"`
	Updated      string     `json:"updated"`
}

// Entry is a normalized entry.
type Entry struct {
	Authors      []Person   `json:"authors"`
	Categories   []Category `json:"categories,omitempty"`
	Content      Content    `json:"content"`
	Contributors []Person   `json:"contributors,omitempty"`
	ID           string     `json:"id"`
	Links        []Link     `json:"links,omitempty"`
	Published    string     `json:"published,omitempty"`
	Rights       *Text      `json:"rights,omitempty"`
	Source       *Metadata  `json:"source,omitempty"`
	Summary      *Text      `json:"summary,omitempty"`
	Title        Text       `json:"title"`
	Updated      string     `json:"updated"`
}

// clone returns a copy of m that shares no slices or pointers with it.
func (m Metadata) clone() Metadata {
	m.Authors = compactSlice(m.Authors)
	m.Categories = compactSlice(m.Categories)
	m.Contributors = compactSlice(m.Contributors)
	m.Links = compactSlice(m.Links)
	m.Rights = cloneText(m.Rights)
	m.Subtitle = cloneText(m.Subtitle)
	return m
}

// clone returns a copy of e that shares no slices or pointers with it.
func (e Entry) clone() Entry {
	e.Authors = compactSlice(e.Authors)
	e.Categories = compactSlice(e.Categories)
	e.Contributors = compactSlice(e.Contributors)
	e.Links = compactSlice(e.Links)
	e.Rights = cloneText(e.Rights)
	e.Summary = cloneText(e.Summary)
	if e.Source != nil {
		source := e.Source.clone()
		e.Source = &source
	}
	return e
}

func cloneText(t *Text) *Text {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneEntries(entries []Entry) []Entry {
	if len(entries) == 0 {
		return nil
	}
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.clone()
	}
	return out
}
