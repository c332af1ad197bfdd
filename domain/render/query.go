package render

// walk visits n and its descendants depth-first in document order.
// Returning false from visit skips that node's subtree.
func (n *Node) walk(visit func(*Node) bool) {
	if !visit(n) {
		return
	}
	for _, c := range n.children {
		c.walk(visit)
	}
}

// FindAll returns every descendant of n (n itself excluded) matching pred,
// in document order. The result is non-nil even when empty.
func (n *Node) FindAll(pred func(*Node) bool) []*Node {
	found := make([]*Node, 0)
	for _, c := range n.children {
		c.walk(func(d *Node) bool {
			if pred(d) {
				found = append(found, d)
			}
			return true
		})
	}
	return found
}

// FindFirst returns the first descendant matching pred, or nil.
func (n *Node) FindFirst(pred func(*Node) bool) *Node {
	var hit *Node
	for _, c := range n.children {
		if hit != nil {
			break
		}
		c.walk(func(d *Node) bool {
			if hit != nil {
				return false
			}
			if pred(d) {
				hit = d
				return false
			}
			return true
		})
	}
	return hit
}

// ByTag returns all descendants with the given tag.
func (n *Node) ByTag(tag string) []*Node {
	return n.FindAll(func(d *Node) bool { return d.tag == tag })
}

// ByTagAndData returns the first descendant with the given tag whose data
// attribute key equals value, or nil.
func (n *Node) ByTagAndData(tag, key, value string) *Node {
	return n.FindFirst(func(d *Node) bool {
		if d.tag != tag {
			return false
		}
		v, ok := d.Data(key)
		return ok && v == value
	})
}

// ByID returns the first descendant whose id attribute equals id, or nil.
func (n *Node) ByID(id string) *Node {
	return n.FindFirst(func(d *Node) bool { return d.Attr("id") == id })
}
