// Package view owns the document a session renders: the persistent selection
// control and main content area, plus the per-post toggle state.
package view

import "postviewer/domain/render"

// Element IDs of the persistent nodes.
const (
	SelectMenuID = "selectMenu"
	MainTag      = "main"
)

// Document is the page skeleton. Select and Main exist for the lifetime of
// the document; everything the controller renders hangs below them.
type Document struct {
	Root   *render.Node
	Select *render.Node
	Main   *render.Node
}

// NewDocument builds an empty page: a header holding the selection control
// and an empty main area.
func NewDocument() *Document {
	root := render.NewElement("body")

	header := render.NewElement("header")
	heading := render.NewElement("h1")
	heading.SetText("Employee Posts")
	label := render.NewElement("label")
	label.SetAttr("for", SelectMenuID)
	label.SetText("Employee")

	sel := render.NewElement("select")
	sel.SetID(SelectMenuID)
	sel.SetAttr("name", "userId")
	placeholder := render.NewElement("option")
	placeholder.SetAttr("value", "")
	placeholder.SetText("Employees")
	sel.Append(placeholder)

	header.Append(heading, label, sel)

	main := render.NewElement(MainTag)
	root.Append(header, main)

	return &Document{Root: root, Select: sel, Main: main}
}

// contains reports whether node is ancestor or lies below it.
func contains(ancestor, node *render.Node) bool {
	for n := node; n != nil; n = n.Parent() {
		if n == ancestor {
			return true
		}
	}
	return false
}
