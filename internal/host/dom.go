package host

import "sync"

// Doc is the in-memory Document implementation shared by the in-process
// hosts (terminal adapter, test host).
//
// Selector matching is by id only: an element whose "id" attribute is set
// to "x" matches the selector "#x". Container elements registered by the
// embedding host may use arbitrary selector strings.
type Doc struct {
	mu         sync.Mutex
	bySelector map[string]*Node
	root       *Node
}

func NewDoc() *Doc {
	d := &Doc{bySelector: make(map[string]*Node)}
	d.root = &Node{doc: d, tag: "root", width: 80, height: 24}
	return d
}

// Root returns the document's root node.
func (d *Doc) Root() *Node { return d.root }

// AddContainer registers a child of the root node queryable by the given
// selector. This is how an embedding host exposes mount points to the
// charting runtime.
func (d *Doc) AddContainer(selector string, width, height int) *Node {
	n := &Node{doc: d, tag: "div", width: width, height: height}
	d.root.AppendChild(n)

	d.mu.Lock()
	d.bySelector[selector] = n
	d.mu.Unlock()
	return n
}

// QuerySelector implements Document.
func (d *Doc) QuerySelector(selector string) (Element, bool) {
	d.mu.Lock()
	n, ok := d.bySelector[selector]
	d.mu.Unlock()
	if !ok || n.removed {
		return nil, false
	}
	return n, true
}

// CreateElement implements Document.
func (d *Doc) CreateElement(tag string) Element {
	return &Node{doc: d, tag: tag}
}

func (d *Doc) register(selector string, n *Node) {
	d.mu.Lock()
	d.bySelector[selector] = n
	d.mu.Unlock()
}

func (d *Doc) unregister(selector string) {
	d.mu.Lock()
	delete(d.bySelector, selector)
	d.mu.Unlock()
}

// Node is the element type of Doc.
type Node struct {
	doc      *Doc
	tag      string
	parent   *Node
	children []*Node
	attrs    map[string]string
	content  string
	removed  bool

	width, height int
}

// SetBox sets the node's layout size.
func (n *Node) SetBox(width, height int) {
	n.width, n.height = width, height
}

// Children returns the node's current children.
func (n *Node) Children() []*Node { return n.children }

// AppendChild implements Element.
func (n *Node) AppendChild(child Element) {
	c := child.(*Node)
	c.parent = n
	// A fresh child takes its parent's box until laid out explicitly.
	if c.width == 0 && c.height == 0 {
		c.width, c.height = n.width, n.height
	}
	n.children = append(n.children, c)
}

// SetAttribute implements Element. Setting "id" indexes the node under
// "#<value>".
func (n *Node) SetAttribute(key, value string) {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	if key == "id" {
		if prev, ok := n.attrs["id"]; ok {
			n.doc.unregister("#" + prev)
		}
		n.doc.register("#"+value, n)
	}
	n.attrs[key] = value
}

// Attribute implements Element.
func (n *Node) Attribute(key string) (string, bool) {
	v, ok := n.attrs[key]
	return v, ok
}

// SetContent implements Element.
func (n *Node) SetContent(content string) { n.content = content }

// Content implements Element.
func (n *Node) Content() string { return n.content }

// Box implements Element.
func (n *Node) Box() (int, int) { return n.width, n.height }

// Remove implements Element.
func (n *Node) Remove() {
	n.removed = true
	if id, ok := n.attrs["id"]; ok {
		n.doc.unregister("#" + id)
	}
	if n.parent == nil {
		return
	}
	siblings := n.parent.children
	for i, c := range siblings {
		if c == n {
			n.parent.children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	n.parent = nil
}
