package services

import (
	"postviewer/domain/core/entities"
	"postviewer/domain/render"
)

// BuildCommentsFragment renders one article per comment, in order, each
// holding an h3 with the commenter's name, a paragraph with the body and a
// "From: <email>" paragraph. A nil slice yields nil.
func BuildCommentsFragment(comments []entities.Comment) *render.Node {
	if comments == nil {
		return nil
	}

	fragment := render.NewFragment()
	for _, c := range comments {
		article := render.NewElement("article")
		article.Append(
			MakeLabeledNode("h3", c.Name),
			MakeLabeledNode("p", c.Body),
			MakeLabeledNode("p", "From: "+c.Email),
		)
		fragment.Append(article)
	}
	return fragment
}
