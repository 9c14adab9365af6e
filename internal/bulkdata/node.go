package bulkdata

// Kind discriminates the three shapes a decoded node can take.
type Kind int

const (
	KindMap Kind = iota
	KindList
	KindScalar
)

// Node is one value in an order-preserving decode of a bulk-data XML
// document. A mapping node remembers its key insertion order, which is
// the document order of the source elements.
type Node struct {
	kind     Kind
	keys     []string
	children map[string]*Node
	items    []*Node
	scalar   string
}

// NewMap returns an empty mapping node.
func NewMap() *Node {
	return &Node{kind: KindMap, children: make(map[string]*Node)}
}

// NewList returns a list node over the given items.
func NewList(items ...*Node) *Node {
	return &Node{kind: KindList, items: items}
}

// NewScalar returns a scalar node.
func NewScalar(s string) *Node {
	return &Node{kind: KindScalar, scalar: s}
}

// Kind reports the node's shape.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindScalar
	}
	return n.kind
}

// Set inserts or replaces a child under key, appending to the key order
// on first insertion.
func (n *Node) Set(key string, child *Node) {
	if _, ok := n.children[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.children[key] = child
}

// Append adds an item to a list node.
func (n *Node) Append(item *Node) {
	n.items = append(n.items, item)
}

// Keys returns the mapping keys in document order.
func (n *Node) Keys() []string {
	if n == nil {
		return nil
	}
	return n.keys
}

// Get walks a path of mapping keys and returns the node found, or nil if
// any step is absent or not a mapping.
func (n *Node) Get(path ...string) *Node {
	cur := n
	for _, key := range path {
		if cur == nil || cur.kind != KindMap {
			return nil
		}
		cur = cur.children[key]
	}
	return cur
}

// Str returns the scalar at the given path, or "" when the path is
// absent or not a scalar.
func (n *Node) Str(path ...string) string {
	node := n.Get(path...)
	if node == nil || node.kind != KindScalar {
		return ""
	}
	return node.scalar
}

// List returns the items at the given path. A list node yields its
// items; a single mapping or scalar yields itself as a one-element
// slice; an absent path yields nil.
func (n *Node) List(path ...string) []*Node {
	node := n.Get(path...)
	if node == nil {
		return nil
	}
	if node.kind == KindList {
		return node.items
	}
	return []*Node{node}
}

// First resolves the list-or-scalar ambiguity the source data exhibits
// for duplicate-prone fields: a list node yields its first item (nil if
// empty), anything else yields itself.
func (n *Node) First(path ...string) *Node {
	node := n.Get(path...)
	if node == nil {
		return nil
	}
	if node.kind == KindList {
		if len(node.items) == 0 {
			return nil
		}
		return node.items[0]
	}
	return node
}

// FirstStr is First followed by scalar extraction.
func (n *Node) FirstStr(path ...string) string {
	node := n.First(path...)
	if node == nil || node.kind != KindScalar {
		return ""
	}
	return node.scalar
}

// IsEmpty reports whether the node is nil, an empty scalar, an empty
// list, or an empty mapping. The bulk data publishes empty container
// elements for absent sections.
func (n *Node) IsEmpty() bool {
	if n == nil {
		return true
	}
	switch n.kind {
	case KindScalar:
		return n.scalar == ""
	case KindList:
		return len(n.items) == 0
	default:
		return len(n.keys) == 0
	}
}
