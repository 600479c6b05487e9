package atom

import "github.com/lysyi3m/atom-comb/app/xmltree"

const Namespace = "http://www.w3.org/2005/Atom"

func buildDocument(metadata *Metadata, entries []Entry) *xmltree.Document {
	root := xmltree.NewNode("feed", attr("xmlns", Namespace))
	appendMetadata(root, metadata)
	for i := range entries {
		root.Append(entryNode(&entries[i]))
	}

	return &xmltree.Document{
		Declaration: []xmltree.Attr{attr("version", "1.0"), attr("encoding", "utf-8")},
		Root:        root,
	}
}

// appendMetadata writes feed-level children in Atom order. It serves both
// <feed> and an entry's <source>.
func appendMetadata(n *xmltree.Node, m *Metadata) {
	n.Append(personNodes("author", m.Authors)...)
	n.Append(categoryNodes(m.Categories)...)
	n.Append(personNodes("contributor", m.Contributors)...)
	n.Append(generatorNode(m.Generator))
	n.Append(
		element("icon", m.Icon),
		element("logo", m.Logo),
		element("id", m.ID),
	)
	n.Append(linkNodes(m.Links)...)
	n.Append(
		textNode("rights", m.Rights),
		textNode("subtitle", m.Subtitle),
		textNode("title", &m.Title),
		element("updated", m.Updated),
	)
}

func entryNode(e *Entry) *xmltree.Node {
	n := xmltree.NewNode("entry")
	n.Append(personNodes("author", e.Authors)...)
	n.Append(categoryNodes(e.Categories)...)
	n.Append(contentNode(e.Content))
	n.Append(personNodes("contributor", e.Contributors)...)
	n.Append(element("id", e.ID))
	n.Append(linkNodes(e.Links)...)
	n.Append(
		element("published", e.Published),
		textNode("rights", e.Rights),
		sourceNode(e.Source),
		textNode("summary", e.Summary),
		textNode("title", &e.Title),
		element("updated", e.Updated),
	)
	return n
}

func sourceNode(m *Metadata) *xmltree.Node {
	if m == nil {
		return nil
	}
	n := xmltree.NewNode("source")
	appendMetadata(n, m)
	return n
}

func personNodes(name string, persons []Person) []*xmltree.Node {
	nodes := make([]*xmltree.Node, 0, len(persons))
	for _, p := range persons {
		nodes = append(nodes, xmltree.NewNode(name).Append(
			element("name", p.Name),
			element("uri", p.URI),
			element("email", p.Email),
		))
	}
	return nodes
}

func categoryNodes(categories []Category) []*xmltree.Node {
	nodes := make([]*xmltree.Node, 0, len(categories))
	for _, c := range categories {
		nodes = append(nodes, xmltree.NewNode("category", compactAttrs(
			attr("term", c.Term),
			attr("scheme", c.Scheme),
			attr("label", c.Label),
		)...))
	}
	return nodes
}

func linkNodes(links []Link) []*xmltree.Node {
	nodes := make([]*xmltree.Node, 0, len(links))
	for _, l := range links {
		nodes = append(nodes, xmltree.NewNode("link", compactAttrs(
			attr("href", l.Href),
			attr("rel", l.Rel),
			attr("type", l.Type),
			attr("hreflang", l.Hreflang),
			attr("title", l.Title),
			attr("length", l.Length),
		)...))
	}
	return nodes
}

func generatorNode(g Generator) *xmltree.Node {
	if g.Value == "" {
		return nil
	}
	return &xmltree.Node{
		Name:  "generator",
		Attrs: compactAttrs(attr("uri", g.URI), attr("version", g.Version)),
		Text:  g.Value,
	}
}

func textNode(name string, t *Text) *xmltree.Node {
	if t == nil || t.Value == "" {
		return nil
	}
	return &xmltree.Node{
		Name:  name,
		Attrs: compactAttrs(attr("type", string(t.Type))),
		Text:  t.Value,
	}
}

func contentNode(c Content) *xmltree.Node {
	if c.Value == "" && c.Src == "" {
		return nil
	}
	return &xmltree.Node{
		Name:  "content",
		Attrs: compactAttrs(attr("type", c.Type), attr("src", c.Src)),
		Text:  c.Value,
	}
}
