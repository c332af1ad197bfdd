// Package app sequences remote fetches and view updates for one session's
// document: startup, selection changes and comment toggles.
package app

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"postviewer/application/ports"
	"postviewer/application/view"
	"postviewer/domain/core/entities"
	"postviewer/domain/core/valueobjects"
	"postviewer/domain/render"
	apperrors "postviewer/pkg/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("postviewer/application/app")

// RefreshResult holds the intermediate results of a refresh in the order
// they were produced.
type RefreshResult struct {
	Detached []*render.Node
	Cleared  *render.Node
	Rendered *render.Node
	Attached []*render.Node
}

// SelectionResult is the outcome of a selection change. Posts is never nil;
// Refresh is nil when there was nothing to refresh.
type SelectionResult struct {
	UserID  int
	Posts   []entities.Post
	Refresh *RefreshResult
}

// PageResult is the outcome of page initialization.
type PageResult struct {
	Users  []entities.User
	Select *render.Node
}

// Orchestrator drives a single document. All document access goes through
// its mutex, so handlers for the same session run one at a time.
type Orchestrator struct {
	client ports.RemoteDataClient
	view   *view.Controller
	logger *zap.Logger

	mu       sync.Mutex
	inFlight atomic.Bool

	page     *PageResult
	onChange *render.Listener
	last     *SelectionResult
}

// NewOrchestrator creates an orchestrator over the given controller.
func NewOrchestrator(client ports.RemoteDataClient, controller *view.Controller, logger *zap.Logger) *Orchestrator {
	o := &Orchestrator{
		client: client,
		view:   controller,
		logger: logger,
	}
	o.onChange = render.NewListener("selection-change", func(ctx context.Context, ev *render.Event) error {
		_, err := o.selectionChanged(ctx, ev)
		return err
	})
	return o
}

// RefreshView replaces the main area with posts: detach toggle handlers,
// clear, render (including every nested fetch), reattach. A nil slice
// returns ErrAbsent and leaves the document untouched.
func (o *Orchestrator) RefreshView(ctx context.Context, posts []entities.Post) (*RefreshResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.refresh(ctx, posts)
}

// OnSelectionChange handles a change event on the selection control. See
// SelectUser for the form-driven entry point.
func (o *Orchestrator) OnSelectionChange(ctx context.Context, ev *render.Event) (*SelectionResult, error) {
	if ev == nil {
		return nil, apperrors.Absent("event")
	}
	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, apperrors.ErrBusy
	}
	defer o.inFlight.Store(false)

	o.mu.Lock()
	defer o.mu.Unlock()
	return o.selectionChanged(ctx, ev)
}

// SelectUser sets the selection control to value and dispatches a change
// event through the bound listener, as a browser form submission would.
// The application is initialized first if needed.
func (o *Orchestrator) SelectUser(ctx context.Context, value string) (*SelectionResult, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, apperrors.ErrBusy
	}
	defer o.inFlight.Store(false)

	o.mu.Lock()
	defer o.mu.Unlock()

	if _, err := o.initApp(ctx); err != nil {
		return nil, err
	}

	sel := o.view.Document().Select
	if !sel.SetValue(strings.TrimSpace(value)) {
		o.logger.Debug("Selection matches no option", zap.String("value", value))
	}

	o.last = nil
	if err := sel.Dispatch(ctx, render.EventChange); err != nil {
		return nil, err
	}
	if o.last == nil {
		return nil, apperrors.NewInternalError("selection change listener is not bound")
	}
	return o.last, nil
}

// ToggleComments dispatches a click on the toggle control of postID and
// returns the post's resulting state.
func (o *Orchestrator) ToggleComments(ctx context.Context, postID valueobjects.PostID) (view.PostState, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	button, err := o.view.Button(postID)
	if err != nil {
		return view.PostState{}, err
	}
	if err := button.Dispatch(ctx, render.EventClick); err != nil {
		return view.PostState{}, err
	}
	return o.view.State(postID)
}

// InitPage fetches every user, fills the selection control and shows the
// placeholder in an empty main area.
func (o *Orchestrator) InitPage(ctx context.Context) (*PageResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.initPage(ctx)
}

// InitApp runs InitPage to completion and only then binds the selection
// change listener. Later calls return the first result.
func (o *Orchestrator) InitApp(ctx context.Context) (*PageResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.initApp(ctx)
}

// View runs fn with exclusive access to the document.
func (o *Orchestrator) View(fn func(doc *view.Document, posts []view.PostState)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fn(o.view.Document(), o.view.Snapshot())
}

// SelectedUser returns the user ID of the last completed selection, or 0.
func (o *Orchestrator) SelectedUser() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.last == nil {
		return 0
	}
	return o.last.UserID
}

func (o *Orchestrator) initApp(ctx context.Context) (*PageResult, error) {
	if o.page != nil {
		return o.page, nil
	}
	page, err := o.initPage(ctx)
	if err != nil {
		return nil, err
	}
	o.view.Document().Select.AddEventListener(render.EventChange, o.onChange)
	o.page = page
	o.logger.Info("Application initialized", zap.Int("users", len(page.Users)))
	return page, nil
}

func (o *Orchestrator) initPage(ctx context.Context) (*PageResult, error) {
	users, err := o.client.FetchAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	sel := o.view.PopulateSelect(users)
	if o.view.Document().Main.ChildCount() == 0 {
		if _, err := o.view.RenderPosts(ctx, nil); err != nil {
			return nil, err
		}
	}
	return &PageResult{Users: users, Select: sel}, nil
}

func (o *Orchestrator) selectionChanged(ctx context.Context, ev *render.Event) (*SelectionResult, error) {
	if ev == nil {
		return nil, apperrors.Absent("event")
	}
	sel := o.resolveSelect(ev)
	if sel == nil {
		return nil, apperrors.Absent("selection control")
	}
	if sel.Disabled() {
		return nil, apperrors.ErrBusy
	}

	sel.SetDisabled(true)
	defer sel.SetDisabled(false)

	userID := parseUserID(sel.Value())

	ctx, span := tracer.Start(ctx, "Orchestrator.OnSelectionChange")
	defer span.End()
	span.SetAttributes(attribute.Int("user.id", userID))

	result := &SelectionResult{UserID: userID, Posts: []entities.Post{}}

	posts, err := o.client.FetchUserPosts(ctx, userID)
	switch {
	case apperrors.IsAbsent(err):
		o.logger.Debug("No user selected", zap.String("value", sel.Value()))
	case err != nil:
		span.RecordError(err)
		return nil, err
	}
	if posts != nil {
		result.Posts = posts
	}

	refresh, err := o.refresh(ctx, posts)
	switch {
	case apperrors.IsAbsent(err):
	case err != nil:
		span.RecordError(err)
		return nil, err
	default:
		result.Refresh = refresh
	}

	o.last = result
	o.logger.Info("Selection changed",
		zap.Int("userID", userID),
		zap.Int("posts", len(result.Posts)),
	)
	return result, nil
}

func (o *Orchestrator) refresh(ctx context.Context, posts []entities.Post) (*RefreshResult, error) {
	if posts == nil {
		return nil, apperrors.Absent("posts")
	}
	main := o.view.Document().Main

	result := &RefreshResult{}
	result.Detached = o.view.DetachToggleHandlers()
	result.Cleared = o.view.ClearChildren(main)

	rendered, err := o.view.RenderPosts(ctx, posts)
	if err != nil {
		return nil, err
	}
	result.Rendered = rendered
	result.Attached = o.view.AttachToggleHandlers()
	return result, nil
}

// resolveSelect picks the event target, then the current target, then the
// document's selection control.
func (o *Orchestrator) resolveSelect(ev *render.Event) *render.Node {
	for _, n := range []*render.Node{ev.Target, ev.CurrentTarget} {
		if n != nil && n.Tag() == "select" {
			return n
		}
	}
	return o.view.Document().Root.ByID(view.SelectMenuID)
}

// parseUserID reads the leading integer of value; anything else is 0.
func parseUserID(value string) int {
	value = strings.TrimSpace(value)
	end := 0
	for end < len(value) && (value[end] >= '0' && value[end] <= '9' || end == 0 && (value[end] == '-' || value[end] == '+')) {
		end++
	}
	id, err := strconv.Atoi(value[:end])
	if err != nil {
		return 0
	}
	return id
}
