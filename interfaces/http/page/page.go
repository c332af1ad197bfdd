// Package page serializes a session document to HTML. Interactions become
// plain form posts: the selection control submits to /select and each
// comment toggle submits to /posts/{id}/toggle.
package page

import (
	"fmt"
	"io"
	"net/url"

	"postviewer/application/services"
	"postviewer/application/view"
	"postviewer/domain/render"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Form targets.
const (
	SelectPath = "/select"
	TogglePath = "/posts/%s/toggle"
)

const title = "Employee Posts"

const stylesheet = `
body { font-family: sans-serif; margin: 0 auto; max-width: 48rem; padding: 1rem; }
header { display: flex; gap: .5rem; align-items: center; flex-wrap: wrap; }
article { border-bottom: 1px solid #ddd; padding: .5rem 0; }
.comments article { margin-left: 1.5rem; border: 0; }
.default-text { color: #666; }
.hide { display: none; }
`

// Render writes doc as a complete HTML document.
func Render(w io.Writer, doc *view.Document) error {
	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	htmlEl := element(atom.Html, "html")
	htmlEl.Attr = []html.Attribute{{Key: "lang", Val: "en"}}
	root.AppendChild(htmlEl)

	head := element(atom.Head, "head")
	meta := element(atom.Meta, "meta")
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	head.AppendChild(meta)
	titleEl := element(atom.Title, "title")
	titleEl.AppendChild(text(title))
	head.AppendChild(titleEl)
	style := element(atom.Style, "style")
	style.AppendChild(&html.Node{Type: html.RawNode, Data: stylesheet})
	head.AppendChild(style)
	htmlEl.AppendChild(head)

	for _, n := range convert(doc.Root) {
		htmlEl.AppendChild(n)
	}

	return html.Render(w, root)
}

// convert maps a render node to HTML nodes. Fragments dissolve into their
// children; interactive controls are wrapped in forms.
func convert(n *render.Node) []*html.Node {
	if n.IsFragment() {
		var out []*html.Node
		for _, c := range n.Children() {
			out = append(out, convert(c)...)
		}
		return out
	}

	el := element(atom.Lookup([]byte(n.Tag())), n.Tag())
	el.Attr = attributes(n)
	if t := n.Text(); t != "" {
		el.AppendChild(text(t))
	}
	for _, c := range n.Children() {
		for _, child := range convert(c) {
			el.AppendChild(child)
		}
	}

	switch {
	case n.Tag() == "select":
		return []*html.Node{selectForm(el, n.Disabled())}
	case n.Tag() == "button":
		if id, ok := n.Data(services.PostIDDataKey); ok {
			return []*html.Node{toggleForm(el, id)}
		}
	}
	return []*html.Node{el}
}

func attributes(n *render.Node) []html.Attribute {
	var attrs []html.Attribute
	for _, key := range n.AttrKeys() {
		attrs = append(attrs, html.Attribute{Key: key, Val: n.Attr(key)})
	}
	if class, ok := n.ClassName(); ok {
		attrs = append(attrs, html.Attribute{Key: "class", Val: class})
	}
	for _, key := range n.DataKeys() {
		v, _ := n.Data(key)
		attrs = append(attrs, html.Attribute{Key: "data-" + key, Val: v})
	}
	if n.Disabled() {
		attrs = append(attrs, html.Attribute{Key: "disabled"})
	}
	return attrs
}

func selectForm(sel *html.Node, disabled bool) *html.Node {
	form := element(atom.Form, "form")
	form.Attr = []html.Attribute{
		{Key: "method", Val: "post"},
		{Key: "action", Val: SelectPath},
	}
	form.AppendChild(sel)

	submit := element(atom.Button, "button")
	submit.Attr = []html.Attribute{{Key: "type", Val: "submit"}}
	if disabled {
		submit.Attr = append(submit.Attr, html.Attribute{Key: "disabled"})
	}
	submit.AppendChild(text("Show Posts"))
	form.AppendChild(submit)
	return form
}

func toggleForm(button *html.Node, postID string) *html.Node {
	button.Attr = append(button.Attr, html.Attribute{Key: "type", Val: "submit"})

	form := element(atom.Form, "form")
	form.Attr = []html.Attribute{
		{Key: "method", Val: "post"},
		{Key: "action", Val: fmt.Sprintf(TogglePath, url.PathEscape(postID))},
	}
	form.AppendChild(button)
	return form
}

func element(a atom.Atom, tag string) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: tag}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
