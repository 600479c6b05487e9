package xmltree

import (
	"encoding/xml"
	"strings"
)

// Serializer renders a Document to a string. An empty indent produces a
// compact document on a single line; otherwise every element starts on its
// own line, prefixed by indent once per nesting level. Text-only elements
// stay on one line so indentation never changes element content.
//
// Text and attribute values go through xml.EscapeText, so characters XML
// does not allow, and invalid UTF-8, come out as U+FFFD.
type Serializer struct{}

func NewSerializer() *Serializer {
	return &Serializer{}
}

func (s *Serializer) Serialize(doc *Document, indent string) string {
	var sb strings.Builder

	if len(doc.Declaration) > 0 {
		sb.WriteString("<?xml")
		s.writeAttrs(&sb, doc.Declaration)
		sb.WriteString("?>")
	}

	if doc.Root != nil {
		if indent != "" && sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		s.writeNode(&sb, doc.Root, indent, 0)
	}

	return sb.String()
}

func (s *Serializer) writeNode(sb *strings.Builder, n *Node, indent string, depth int) {
	sb.WriteByte('<')
	sb.WriteString(n.Name)
	s.writeAttrs(sb, n.Attrs)

	if n.isEmpty() {
		sb.WriteString("/>")
		return
	}

	sb.WriteByte('>')
	escape(sb, n.Text)

	for _, child := range n.Children {
		s.newline(sb, indent, depth+1)
		s.writeNode(sb, child, indent, depth+1)
	}
	if len(n.Children) > 0 {
		s.newline(sb, indent, depth)
	}

	sb.WriteString("</")
	sb.WriteString(n.Name)
	sb.WriteByte('>')
}

func (s *Serializer) writeAttrs(sb *strings.Builder, attrs []Attr) {
	for _, attr := range attrs {
		sb.WriteByte(' ')
		sb.WriteString(attr.Name)
		sb.WriteString(`="`)
		escape(sb, attr.Value)
		sb.WriteByte('"')
	}
}

func (s *Serializer) newline(sb *strings.Builder, indent string, depth int) {
	if indent == "" {
		return
	}
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat(indent, depth))
}

func escape(sb *strings.Builder, s string) {
	// strings.Builder never fails to write
	_ = xml.EscapeText(sb, []byte(s))
}
