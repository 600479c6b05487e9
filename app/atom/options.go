package atom

import (
	"time"

	"github.com/lysyi3m/atom-comb/app/xmltree"
)

// Serializer renders the assembled tree. Implementations must be pure:
// the same document and indent always produce the same string.
type Serializer interface {
	Serialize(doc *xmltree.Document, indent string) string
}

type options struct {
	generator  Generator
	now        func() time.Time
	serializer Serializer
}

type Option func(*options)

// WithDefaultGenerator replaces the built-in generator identity used when
// feed input has none. A generator without a display name is ignored.
func WithDefaultGenerator(g Generator) Option {
	return func(o *options) {
		if g.Value != "" {
			o.generator = g
		}
	}
}

// WithClock sets the source of "now" for defaulted timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func WithSerializer(s Serializer) Option {
	return func(o *options) {
		if s != nil {
			o.serializer = s
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		generator:  DefaultGenerator(),
		now:        time.Now,
		serializer: xmltree.NewSerializer(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
