package xmltree

// Attr is a single attribute. Attributes are written in slice order.
type Attr struct {
	Name  string
	Value string
}

// Node is an element of the compact tree: a name, ordered attributes, an
// optional text node and ordered child elements.
type Node struct {
	Name     string
	Attrs    []Attr
	Text     string
	Children []*Node
}

// Document is a tree plus the attributes of its XML declaration.
type Document struct {
	Declaration []Attr
	Root        *Node
}

func NewNode(name string, attrs ...Attr) *Node {
	return &Node{Name: name, Attrs: attrs}
}

// Append adds children in order, skipping nil nodes.
func (n *Node) Append(children ...*Node) *Node {
	for _, child := range children {
		if child != nil {
			n.Children = append(n.Children, child)
		}
	}
	return n
}

func (n *Node) isEmpty() bool {
	return n.Text == "" && len(n.Children) == 0
}
