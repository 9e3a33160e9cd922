package toc

// Heading is a single document heading in document order.
type Heading struct {
	Level int    // Heading depth, 1 for top-level
	ID    string // Anchor id used for linking
	Text  string // Trimmed display text
}

// Node is an element of the table-of-contents tree. The root returned by
// Build is synthetic: level 0, no id or text.
type Node struct {
	Level    int     `json:"level" yaml:"level"`
	ID       string  `json:"id,omitempty" yaml:"id,omitempty"`
	Text     string  `json:"text,omitempty" yaml:"text,omitempty"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// IsItem reports whether the node renders as a list item.
func (n *Node) IsItem() bool {
	return n.ID != "" && n.Text != ""
}

// Count returns the number of descendants of n.
func (n *Node) Count() int {
	total := 0
	for _, c := range n.Children {
		total += 1 + c.Count()
	}
	return total
}

// Walk visits the descendants of n in document order.
func (n *Node) Walk(fn func(*Node)) {
	for _, c := range n.Children {
		fn(c)
		c.Walk(fn)
	}
}

// Build reconstructs the heading hierarchy from levels alone.
//
// Each heading is attached relative to the previously added one: deeper
// headings become its child, equal ones its sibling, and shallower ones
// walk up the ancestor chain until they find an ancestor with a lower
// level, falling back to the root. Any level sequence is accepted.
func Build(headings []Heading) *Node {
	root := &Node{}

	// Parent links live here as indices and are dropped once the tree is built.
	type entry struct {
		node   *Node
		parent int
	}
	entries := make([]entry, 1, len(headings)+1)
	entries[0] = entry{node: root}

	prev := 0
	for _, h := range headings {
		current := &Node{Level: h.Level, ID: h.ID, Text: h.Text}

		parent := prev
		for parent != 0 && entries[parent].node.Level >= current.Level {
			parent = entries[parent].parent
		}

		p := entries[parent].node
		p.Children = append(p.Children, current)
		entries = append(entries, entry{node: current, parent: parent})
		prev = len(entries) - 1
	}

	return root
}
