package services

import (
	"strconv"

	"postviewer/domain/core/entities"
	"postviewer/domain/render"
)

// DefaultTag is used by MakeLabeledNode when no tag is given.
const DefaultTag = "p"

// MakeLabeledNode creates an element with exactly the given text. An empty
// tag falls back to DefaultTag. The class is applied only when a non-empty
// className is passed; otherwise the node carries no class at all.
func MakeLabeledNode(tag, text string, className ...string) *render.Node {
	if tag == "" {
		tag = DefaultTag
	}
	n := render.NewElement(tag)
	n.SetText(text)
	if len(className) > 0 && className[0] != "" {
		n.AddClass(className[0])
	}
	return n
}

// MakeOptionNodes returns one option per user, in input order, with the
// user's ID as value and name as text. A nil slice yields nil; an empty
// slice yields an empty, non-nil slice.
func MakeOptionNodes(users []entities.User) []*render.Node {
	if users == nil {
		return nil
	}
	options := make([]*render.Node, 0, len(users))
	for _, u := range users {
		option := MakeLabeledNode("option", u.Name)
		option.SetAttr("value", strconv.Itoa(u.ID))
		options = append(options, option)
	}
	return options
}
