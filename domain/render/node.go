// Package render holds the in-process element tree that the views build and
// the HTTP layer serializes. A Node is either an element with a tag or a
// fragment: an ordered batch of siblings that empties itself into the node it
// is appended to.
package render

import (
	"sort"
	"strings"
)

// Node is a single element (or fragment) in the render tree.
// A node has at most one parent; appending it elsewhere moves it.
type Node struct {
	tag      string
	fragment bool
	text     string
	classes  []string
	data     map[string]string
	attrs    map[string]string
	disabled bool

	parent   *Node
	children []*Node

	listeners map[EventType][]*Listener
}

// NewElement creates an element node with the given tag.
func NewElement(tag string) *Node {
	return &Node{tag: tag}
}

// NewFragment creates an empty fragment.
func NewFragment() *Node {
	return &Node{fragment: true}
}

// Tag returns the element tag, or "" for a fragment.
func (n *Node) Tag() string { return n.tag }

// IsFragment reports whether n is a fragment.
func (n *Node) IsFragment() bool { return n.fragment }

// Text returns the node's own text content.
func (n *Node) Text() string { return n.text }

// SetText replaces the node's own text content.
func (n *Node) SetText(text string) { n.text = text }

// TextContent returns the node's text followed by the text of all
// descendants in document order.
func (n *Node) TextContent() string {
	var b strings.Builder
	n.walk(func(c *Node) bool {
		b.WriteString(c.text)
		return true
	})
	return b.String()
}

// ID returns the id attribute.
func (n *Node) ID() string { return n.Attr("id") }

// SetID sets the id attribute.
func (n *Node) SetID(id string) { n.SetAttr("id", id) }

// Classes

// ClassName returns the space-joined class list and whether any class is set.
func (n *Node) ClassName() (string, bool) {
	if len(n.classes) == 0 {
		return "", false
	}
	return strings.Join(n.classes, " "), true
}

// Classes returns a copy of the class list in insertion order.
func (n *Node) Classes() []string {
	return append([]string(nil), n.classes...)
}

// HasClass reports whether class is present.
func (n *Node) HasClass(class string) bool {
	for _, c := range n.classes {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass adds each class not already present, skipping empty names.
func (n *Node) AddClass(classes ...string) {
	for _, c := range classes {
		if c == "" || n.HasClass(c) {
			continue
		}
		n.classes = append(n.classes, c)
	}
}

// RemoveClass removes class if present.
func (n *Node) RemoveClass(class string) {
	for i, c := range n.classes {
		if c == class {
			n.classes = append(n.classes[:i], n.classes[i+1:]...)
			return
		}
	}
}

// ToggleClass flips class and reports whether it is now present.
func (n *Node) ToggleClass(class string) bool {
	if n.HasClass(class) {
		n.RemoveClass(class)
		return false
	}
	n.AddClass(class)
	return true
}

// SetClassPresent adds or removes class.
func (n *Node) SetClassPresent(class string, present bool) {
	if present {
		n.AddClass(class)
	} else {
		n.RemoveClass(class)
	}
}

// Data attributes

// Data returns the data-* attribute named key and whether it is set.
func (n *Node) Data(key string) (string, bool) {
	v, ok := n.data[key]
	return v, ok
}

// SetData sets the data-* attribute named key.
func (n *Node) SetData(key, value string) {
	if n.data == nil {
		n.data = make(map[string]string)
	}
	n.data[key] = value
}

// DataKeys returns the data attribute names in sorted order.
func (n *Node) DataKeys() []string {
	return sortedKeys(n.data)
}

// Plain attributes

// Attr returns the attribute named key, or "".
func (n *Node) Attr(key string) string {
	return n.attrs[key]
}

// HasAttr reports whether the attribute named key is set.
func (n *Node) HasAttr(key string) bool {
	_, ok := n.attrs[key]
	return ok
}

// SetAttr sets the attribute named key.
func (n *Node) SetAttr(key, value string) {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[key] = value
}

// RemoveAttr removes the attribute named key.
func (n *Node) RemoveAttr(key string) {
	delete(n.attrs, key)
}

// AttrKeys returns the attribute names in sorted order.
func (n *Node) AttrKeys() []string {
	return sortedKeys(n.attrs)
}

// Disabled reports the disabled flag.
func (n *Node) Disabled() bool { return n.disabled }

// SetDisabled sets the disabled flag.
func (n *Node) SetDisabled(disabled bool) { n.disabled = disabled }

// Value returns the control value. For a select it is the value of the
// selected option, or of the first option when none is selected.
func (n *Node) Value() string {
	if n.tag != "select" {
		return n.Attr("value")
	}
	options := n.ByTag("option")
	for _, o := range options {
		if o.HasAttr("selected") {
			return o.Attr("value")
		}
	}
	if len(options) > 0 {
		return options[0].Attr("value")
	}
	return ""
}

// SetValue sets the control value. For a select it marks the option whose
// value matches as selected and reports whether one matched.
func (n *Node) SetValue(value string) bool {
	if n.tag != "select" {
		n.SetAttr("value", value)
		return true
	}
	matched := false
	for _, o := range n.ByTag("option") {
		if !matched && o.Attr("value") == value {
			o.SetAttr("selected", "")
			matched = true
			continue
		}
		o.RemoveAttr("selected")
	}
	return matched
}

// Tree

// Parent returns the parent node, or nil.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// Append appends children in order. A fragment contributes its children and
// is left empty; a node that already has a parent is moved. Nil children are
// skipped.
func (n *Node) Append(children ...*Node) {
	for _, c := range children {
		if c == nil || c == n {
			continue
		}
		if c.fragment {
			moved := c.children
			c.children = nil
			for _, m := range moved {
				m.parent = nil
				n.appendOne(m)
			}
			continue
		}
		n.appendOne(c)
	}
}

func (n *Node) appendOne(c *Node) {
	if c.parent != nil {
		c.parent.RemoveChild(c)
	}
	c.parent = n
	n.children = append(n.children, c)
}

// RemoveChild detaches child and reports whether it was a child of n.
func (n *Node) RemoveChild(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
