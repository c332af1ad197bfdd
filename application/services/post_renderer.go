package services

import (
	"context"
	"fmt"

	"postviewer/application/ports"
	"postviewer/domain/core/entities"
	"postviewer/domain/core/valueobjects"
	"postviewer/domain/render"
	apperrors "postviewer/pkg/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Class names and attributes shared with the view controller and the page.
const (
	CommentsClass    = "comments"
	PostIDDataKey    = "post-id"
	PlaceholderText  = "Select an Employee to display their posts."
	PlaceholderClass = "default-text"
)

var tracer = otel.Tracer("postviewer/application/services")

// PostHandles are the two nodes rendered for a post whose state the view
// controller toggles.
type PostHandles struct {
	PostID  valueobjects.PostID
	Button  *render.Node
	Section *render.Node
}

// RenderedPosts is the output of BuildPostsFragment: the fragment to attach
// and the per-post handles, both in input order.
type RenderedPosts struct {
	Fragment *render.Node
	Posts    []PostHandles
}

// PostRenderer assembles post articles, fetching each author and comment
// list through the remote client.
type PostRenderer struct {
	client ports.RemoteDataClient
	logger *zap.Logger
}

// NewPostRenderer creates a new post renderer
func NewPostRenderer(client ports.RemoteDataClient, logger *zap.Logger) *PostRenderer {
	return &PostRenderer{
		client: client,
		logger: logger,
	}
}

// BuildCommentsSection creates the comments section for postID: a section
// tagged with the post ID, carrying the comments and hide classes, holding
// the post's comments. The section is returned even when there are none.
func (r *PostRenderer) BuildCommentsSection(ctx context.Context, postID valueobjects.PostID) (*render.Node, error) {
	if postID.IsZero() {
		return nil, apperrors.Absent("postID")
	}

	section := render.NewElement("section")
	section.SetData(PostIDDataKey, postID.String())
	section.AddClass(CommentsClass, valueobjects.HideClass)

	comments, err := r.client.FetchPostComments(ctx, int(postID))
	if err != nil {
		return nil, fmt.Errorf("fetch comments for post %d: %w", postID, err)
	}

	if fragment := BuildCommentsFragment(comments); fragment != nil {
		section.Append(fragment)
	}
	return section, nil
}

// BuildPostsFragment renders one article per post. Posts are processed
// strictly one after another: a post's author and comments are fully
// fetched before the next post starts, so the fragment order always matches
// the input order. A nil slice yields nil.
func (r *PostRenderer) BuildPostsFragment(ctx context.Context, posts []entities.Post) (*RenderedPosts, error) {
	if posts == nil {
		return nil, nil
	}

	ctx, span := tracer.Start(ctx, "PostRenderer.BuildPostsFragment")
	defer span.End()
	span.SetAttributes(attribute.Int("posts.count", len(posts)))

	out := &RenderedPosts{
		Fragment: render.NewFragment(),
		Posts:    make([]PostHandles, 0, len(posts)),
	}

	for _, post := range posts {
		article, handles, err := r.buildPost(ctx, post)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		out.Fragment.Append(article)
		if handles != nil {
			out.Posts = append(out.Posts, *handles)
		}
	}

	r.logger.Debug("Rendered posts", zap.Int("count", len(out.Posts)))
	return out, nil
}

func (r *PostRenderer) buildPost(ctx context.Context, post entities.Post) (*render.Node, *PostHandles, error) {
	author, err := r.fetchAuthor(ctx, post.UserID)
	if err != nil {
		return nil, nil, err
	}

	postID := valueobjects.PostID(post.ID)

	button := MakeLabeledNode("button", valueobjects.LabelShowComments)
	button.SetData(PostIDDataKey, postID.String())

	section, err := r.BuildCommentsSection(ctx, postID)
	if err != nil && !apperrors.IsAbsent(err) {
		return nil, nil, err
	}

	article := render.NewElement("article")
	article.Append(
		MakeLabeledNode("h2", post.Title),
		MakeLabeledNode("p", post.Body),
		MakeLabeledNode("p", fmt.Sprintf("Post ID: %d", post.ID)),
		MakeLabeledNode("p", fmt.Sprintf("Author: %s with %s", author.Name, author.Company.Name)),
		MakeLabeledNode("p", author.Company.CatchPhrase),
		button,
		section,
	)

	if section == nil {
		return article, nil, nil
	}
	return article, &PostHandles{PostID: postID, Button: button, Section: section}, nil
}

// fetchAuthor returns the post's author, or the empty user when the post has
// no owner ID.
func (r *PostRenderer) fetchAuthor(ctx context.Context, userID int) (*entities.User, error) {
	author, err := r.client.FetchUser(ctx, userID)
	switch {
	case apperrors.IsAbsent(err):
		return &entities.User{}, nil
	case err != nil:
		return nil, fmt.Errorf("fetch author %d: %w", userID, err)
	case author == nil:
		return &entities.User{}, nil
	}
	return author, nil
}
