package view

import (
	"context"
	"fmt"

	"postviewer/application/services"
	"postviewer/domain/core/entities"
	"postviewer/domain/core/valueobjects"
	"postviewer/domain/render"
	apperrors "postviewer/pkg/errors"

	"go.uber.org/zap"
)

// PostsBuilder renders posts into a fragment plus per-post handles.
type PostsBuilder interface {
	BuildPostsFragment(ctx context.Context, posts []entities.Post) (*services.RenderedPosts, error)
}

// postEntry is the registry record for one rendered post. visibility is the
// single source of truth; button label and section class are derived.
type postEntry struct {
	button     *render.Node
	section    *render.Node
	visibility valueobjects.Visibility
}

// PostState is a read-only view of one registered post.
type PostState struct {
	PostID     valueobjects.PostID     `json:"postId"`
	Visibility valueobjects.Visibility `json:"visibility"`
	Label      string                  `json:"label"`
}

// Controller mutates a Document. It is not safe for concurrent use; the
// owning session serializes access.
type Controller struct {
	doc      *Document
	renderer PostsBuilder
	logger   *zap.Logger

	posts  map[valueobjects.PostID]*postEntry
	order  []valueobjects.PostID
	toggle *render.Listener
}

// NewController creates a controller over doc.
func NewController(doc *Document, renderer PostsBuilder, logger *zap.Logger) *Controller {
	c := &Controller{
		doc:      doc,
		renderer: renderer,
		logger:   logger,
		posts:    make(map[valueobjects.PostID]*postEntry),
	}
	c.toggle = render.NewListener("toggle-comments", c.handleToggleClick)
	return c
}

// Document returns the controlled document.
func (c *Controller) Document() *Document {
	return c.doc
}

// ToggleListener returns the click listener attached to toggle controls.
// It is the same value for the controller's lifetime.
func (c *Controller) ToggleListener() *render.Listener {
	return c.toggle
}

// PopulateSelect appends one option per user to the selection control and
// returns it. A nil slice yields nil and leaves the control untouched.
func (c *Controller) PopulateSelect(users []entities.User) *render.Node {
	if users == nil {
		return nil
	}
	for _, option := range services.MakeOptionNodes(users) {
		c.doc.Select.Append(option)
	}
	return c.doc.Select
}

// ClearChildren removes every child of node and returns node itself. Posts
// whose nodes are no longer under the main area are dropped from the
// registry. A nil node yields nil.
func (c *Controller) ClearChildren(node *render.Node) *render.Node {
	if node == nil {
		return nil
	}
	for child := node.FirstChild(); child != nil; child = node.FirstChild() {
		node.RemoveChild(child)
	}
	c.prune()
	return node
}

// RenderPosts appends rendered posts to the main area and returns the
// fragment. With nil posts it appends and returns the placeholder paragraph
// instead. Exactly one append to the main area happens per call.
func (c *Controller) RenderPosts(ctx context.Context, posts []entities.Post) (*render.Node, error) {
	if posts == nil {
		placeholder := services.MakeLabeledNode("p", services.PlaceholderText, services.PlaceholderClass)
		c.doc.Main.Append(placeholder)
		return placeholder, nil
	}

	rendered, err := c.renderer.BuildPostsFragment(ctx, posts)
	if err != nil {
		return nil, fmt.Errorf("render posts: %w", err)
	}

	for _, h := range rendered.Posts {
		c.register(h)
	}
	c.doc.Main.Append(rendered.Fragment)

	c.logger.Debug("Posts rendered into main", zap.Int("posts", len(rendered.Posts)))
	return rendered.Fragment, nil
}

// ToggleCommentsSection flips the post's visibility and returns its
// comments section. The paired button is updated in the same step.
func (c *Controller) ToggleCommentsSection(postID valueobjects.PostID) (*render.Node, error) {
	entry, err := c.lookup(postID, "comments section")
	if err != nil {
		return nil, err
	}
	c.flip(entry)
	return entry.section, nil
}

// ToggleCommentsButton flips the post's visibility and returns its toggle
// control. The paired section is updated in the same step.
func (c *Controller) ToggleCommentsButton(postID valueobjects.PostID) (*render.Node, error) {
	entry, err := c.lookup(postID, "toggle button")
	if err != nil {
		return nil, err
	}
	c.flip(entry)
	return entry.button, nil
}

// ToggleComments flips the post's visibility once and returns the section
// and the button, in that order. Both are derived from the same state, so
// they never disagree.
func (c *Controller) ToggleComments(ev *render.Event, postID valueobjects.PostID) ([2]*render.Node, error) {
	if ev == nil {
		return [2]*render.Node{}, apperrors.Absent("event")
	}
	entry, err := c.lookup(postID, "post")
	if err != nil {
		return [2]*render.Node{}, err
	}
	c.flip(entry)
	return [2]*render.Node{entry.section, entry.button}, nil
}

// AttachToggleHandlers attaches the toggle listener to every button in the
// main area carrying a post ID and returns all buttons found. Calling it
// again does not add a second listener.
func (c *Controller) AttachToggleHandlers() []*render.Node {
	buttons := c.doc.Main.ByTag("button")
	for _, b := range buttons {
		if _, ok := b.Data(services.PostIDDataKey); ok {
			b.AddEventListener(render.EventClick, c.toggle)
		}
	}
	return buttons
}

// DetachToggleHandlers removes the toggle listener from every button in the
// main area carrying a post ID and returns all buttons found.
func (c *Controller) DetachToggleHandlers() []*render.Node {
	buttons := c.doc.Main.ByTag("button")
	for _, b := range buttons {
		if _, ok := b.Data(services.PostIDDataKey); ok {
			b.RemoveEventListener(render.EventClick, c.toggle)
		}
	}
	return buttons
}

// Button returns the toggle control registered for postID.
func (c *Controller) Button(postID valueobjects.PostID) (*render.Node, error) {
	entry, err := c.lookup(postID, "toggle button")
	if err != nil {
		return nil, err
	}
	return entry.button, nil
}

// State returns the current state of postID.
func (c *Controller) State(postID valueobjects.PostID) (PostState, error) {
	entry, err := c.lookup(postID, "post")
	if err != nil {
		return PostState{}, err
	}
	return PostState{PostID: postID, Visibility: entry.visibility, Label: entry.visibility.Label()}, nil
}

// Snapshot returns the state of every registered post in render order.
func (c *Controller) Snapshot() []PostState {
	states := make([]PostState, 0, len(c.order))
	for _, id := range c.order {
		entry := c.posts[id]
		states = append(states, PostState{PostID: id, Visibility: entry.visibility, Label: entry.visibility.Label()})
	}
	return states
}

func (c *Controller) handleToggleClick(ctx context.Context, ev *render.Event) error {
	raw, _ := ev.CurrentTarget.Data(services.PostIDDataKey)
	_, err := c.ToggleComments(ev, valueobjects.ParsePostID(raw))
	return err
}

func (c *Controller) lookup(postID valueobjects.PostID, what string) (*postEntry, error) {
	if postID.IsZero() {
		return nil, apperrors.Absent("postID")
	}
	entry, ok := c.posts[postID]
	if !ok {
		return nil, apperrors.NoMatch(what, int(postID))
	}
	return entry, nil
}

func (c *Controller) register(h services.PostHandles) {
	entry := &postEntry{
		button:     h.Button,
		section:    h.Section,
		visibility: valueobjects.Hidden,
	}
	if !h.Section.HasClass(valueobjects.HideClass) {
		entry.visibility = valueobjects.Shown
	}
	c.apply(entry)

	if _, exists := c.posts[h.PostID]; !exists {
		c.order = append(c.order, h.PostID)
	}
	c.posts[h.PostID] = entry
}

func (c *Controller) flip(entry *postEntry) {
	entry.visibility = entry.visibility.Toggle()
	c.apply(entry)
}

func (c *Controller) apply(entry *postEntry) {
	entry.section.SetClassPresent(valueobjects.HideClass, entry.visibility == valueobjects.Hidden)
	entry.button.SetText(entry.visibility.Label())
}

// prune drops registry entries whose section left the main area.
func (c *Controller) prune() {
	kept := c.order[:0]
	for _, id := range c.order {
		if contains(c.doc.Main, c.posts[id].section) {
			kept = append(kept, id)
			continue
		}
		delete(c.posts, id)
	}
	c.order = kept
}
