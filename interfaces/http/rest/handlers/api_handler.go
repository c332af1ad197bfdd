package handlers

import (
	"net/http"
	"strconv"

	"postviewer/application/app"
	"postviewer/application/view"
	"postviewer/domain/core/entities"
	"postviewer/domain/core/valueobjects"
	"postviewer/interfaces/http/rest/middleware"
	"postviewer/pkg/common"
	apperrors "postviewer/pkg/errors"
	"postviewer/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 16

// APIHandler exposes the session document as JSON.
type APIHandler struct {
	errors *apperrors.ErrorHandler
	page   *PageHandler
	logger *zap.Logger
}

// NewAPIHandler creates a new API handler. Interaction counts are shared
// with the page handler.
func NewAPIHandler(errorHandler *apperrors.ErrorHandler, page *PageHandler, logger *zap.Logger) *APIHandler {
	return &APIHandler{
		errors: errorHandler,
		page:   page,
		logger: logger,
	}
}

// SelectionRequest is the body of POST /api/v1/selection
type SelectionRequest struct {
	UserID *int `json:"userId" validate:"required,gte=0"`
}

// StateResponse describes the session document.
type StateResponse struct {
	SelectedUser int              `json:"selectedUser"`
	Users        int              `json:"users"`
	Posts        []view.PostState `json:"posts"`
}

// SelectionResponse summarizes a selection change.
type SelectionResponse struct {
	UserID    int              `json:"userId"`
	Posts     []entities.Post  `json:"posts"`
	Refreshed bool             `json:"refreshed"`
	Rendered  []view.PostState `json:"rendered"`
}

// State handles GET /api/v1/state
func (h *APIHandler) State(w http.ResponseWriter, r *http.Request) {
	a, ok := h.app(w, r)
	if !ok {
		return
	}
	page, err := a.InitApp(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	resp := StateResponse{SelectedUser: a.SelectedUser(), Users: len(page.Users)}
	a.View(func(_ *view.Document, posts []view.PostState) {
		resp.Posts = posts
	})
	common.RespondJSON(w, http.StatusOK, resp)
}

// Selection handles POST /api/v1/selection
func (h *APIHandler) Selection(w http.ResponseWriter, r *http.Request) {
	a, ok := h.app(w, r)
	if !ok {
		return
	}

	var req SelectionRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("Validation error: "+err.Error()))
		return
	}

	result, err := a.SelectUser(r.Context(), strconv.Itoa(*req.UserID))
	h.page.countSelection(err)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	resp := SelectionResponse{
		UserID:    result.UserID,
		Posts:     result.Posts,
		Refreshed: result.Refresh != nil,
	}
	a.View(func(_ *view.Document, posts []view.PostState) {
		resp.Rendered = posts
	})

	h.logger.Debug("Selection applied",
		zap.Int("userID", result.UserID),
		zap.Int("posts", len(result.Posts)),
	)
	common.RespondJSON(w, http.StatusOK, resp)
}

// Toggle handles POST /api/v1/posts/{postID}/toggle
func (h *APIHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	a, ok := h.app(w, r)
	if !ok {
		return
	}

	postID := valueobjects.ParsePostID(chi.URLParam(r, "postID"))
	state, err := a.ToggleComments(r.Context(), postID)
	h.page.countToggle(err)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, state)
}

func (h *APIHandler) app(w http.ResponseWriter, r *http.Request) (*app.Orchestrator, bool) {
	a, ok := middleware.AppFromContext(r.Context())
	if !ok {
		h.errors.Handle(w, r, apperrors.NewInternalError("no session"))
	}
	return a, ok
}
