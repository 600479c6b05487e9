package xmltree

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() *Document {
	root := NewNode("feed", Attr{Name: "xmlns", Value: "http://www.w3.org/2005/Atom"})
	root.Append(
		&Node{Name: "title", Text: "Tom & Jerry <3"},
		NewNode("link", Attr{Name: "href", Value: `http://x/?a=1&b="2"`}),
		nil,
		NewNode("author").Append(&Node{Name: "name", Text: "A"}),
	)

	return &Document{
		Declaration: []Attr{{Name: "version", Value: "1.0"}, {Name: "encoding", Value: "utf-8"}},
		Root:        root,
	}
}

func TestSerializeCompact(t *testing.T) {
	out := NewSerializer().Serialize(sampleDocument(), "")

	expected := `<?xml version="1.0" encoding="utf-8"?>` +
		`<feed xmlns="http://www.w3.org/2005/Atom">` +
		`<title>Tom &amp; Jerry &lt;3</title>` +
		`<link href="http://x/?a=1&amp;b=&#34;2&#34;"/>` +
		`<author><name>A</name></author>` +
		`</feed>`
	assert.Equal(t, expected, out)
}

func TestSerializeIndented(t *testing.T) {
	out := NewSerializer().Serialize(sampleDocument(), "  ")

	expected := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Tom &amp; Jerry &lt;3</title>
  <link href="http://x/?a=1&amp;b=&#34;2&#34;"/>
  <author>
    <name>A</name>
  </author>
</feed>`
	assert.Equal(t, expected, out)
}

// decode parses out with encoding/xml and returns the character data of
// the root and the value of its attribute named attr.
func decode(t *testing.T, out, attr string) (string, string) {
	t.Helper()

	var (
		text  strings.Builder
		value string
	)
	decoder := xml.NewDecoder(strings.NewReader(out))
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err, "document must be well-formed: %s", out)

		switch tok := token.(type) {
		case xml.StartElement:
			for _, a := range tok.Attr {
				if a.Name.Local == attr {
					value = a.Value
				}
			}
		case xml.CharData:
			text.Write(tok)
		}
	}
	return text.String(), value
}

func TestSerializeKeepsTextWhitespace(t *testing.T) {
	doc := &Document{Root: &Node{Name: "content", Text: "line one\n  line two\r\n\tend"}}

	out := NewSerializer().Serialize(doc, "\t")
	assert.NotContains(t, out, "\n")

	text, _ := decode(t, out, "")
	assert.Equal(t, "line one\n  line two\r\n\tend", text)
}

func TestSerializeAttributeWhitespaceSurvivesParse(t *testing.T) {
	doc := &Document{Root: NewNode("link", Attr{Name: "title", Value: "a\tb\nc\rd \"e\" 'f'"})}

	_, value := decode(t, NewSerializer().Serialize(doc, ""), "title")
	assert.Equal(t, "a\tb\nc\rd \"e\" 'f'", value)
}

func TestSerializeReplacesCharactersXMLForbids(t *testing.T) {
	doc := &Document{
		Declaration: []Attr{{Name: "version", Value: "1.0"}, {Name: "encoding", Value: "utf-8"}},
		Root: (&Node{Name: "content", Attrs: []Attr{{Name: "src", Value: "x\x00y\xfe"}}}).Append(
			&Node{Name: "value", Text: "bell\x07 and bad utf8 \xff"},
		),
	}

	out := NewSerializer().Serialize(doc, "  ")

	text, value := decode(t, out, "src")
	assert.Equal(t, "bell\uFFFD and bad utf8 \uFFFD", strings.TrimSpace(text))
	assert.Equal(t, "x\uFFFDy\uFFFD", value)
}

func TestSerializeWithoutDeclaration(t *testing.T) {
	doc := &Document{Root: NewNode("entry")}

	assert.Equal(t, "<entry/>", NewSerializer().Serialize(doc, "  "))
}

func TestSerializeIsDeterministic(t *testing.T) {
	doc := sampleDocument()
	s := NewSerializer()

	assert.Equal(t, s.Serialize(doc, "  "), s.Serialize(doc, "  "))
}
