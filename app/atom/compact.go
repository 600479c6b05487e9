package atom

import "github.com/lysyi3m/atom-comb/app/xmltree"

// Omission rule shared by records and the rendered tree: an empty string,
// an empty slice or a nil pointer is absent and produces nothing.

// compactSlice returns a private copy of in, or nil when in is empty.
func compactSlice[T any](in []T) []T {
	if len(in) == 0 {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func attr(name, value string) xmltree.Attr {
	return xmltree.Attr{Name: name, Value: value}
}

// compactAttrs drops attributes with an empty value, keeping order.
func compactAttrs(attrs ...xmltree.Attr) []xmltree.Attr {
	var out []xmltree.Attr
	for _, a := range attrs {
		if a.Value != "" {
			out = append(out, a)
		}
	}
	return out
}

// element returns a text-only element, or nil when text is empty.
func element(name, text string) *xmltree.Node {
	if text == "" {
		return nil
	}
	return &xmltree.Node{Name: name, Text: text}
}
