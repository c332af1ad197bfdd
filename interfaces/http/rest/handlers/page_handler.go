package handlers

import (
	"bytes"
	"net/http"

	"postviewer/application/view"
	"postviewer/domain/core/valueobjects"
	"postviewer/interfaces/http/page"
	"postviewer/interfaces/http/rest/middleware"
	apperrors "postviewer/pkg/errors"
	"postviewer/pkg/observability"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PageHandler serves the HTML page and its form posts.
type PageHandler struct {
	errors  *apperrors.ErrorHandler
	metrics *observability.Collector
	logger  *zap.Logger
}

// NewPageHandler creates a new page handler. metrics may be nil.
func NewPageHandler(errorHandler *apperrors.ErrorHandler, metrics *observability.Collector, logger *zap.Logger) *PageHandler {
	return &PageHandler{
		errors:  errorHandler,
		metrics: metrics,
		logger:  logger,
	}
}

// Show handles GET /
func (h *PageHandler) Show(w http.ResponseWriter, r *http.Request) {
	a, ok := middleware.AppFromContext(r.Context())
	if !ok {
		h.errors.Handle(w, r, apperrors.NewInternalError("no session"))
		return
	}
	if _, err := a.InitApp(r.Context()); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var buf bytes.Buffer
	var renderErr error
	a.View(func(doc *view.Document, _ []view.PostState) {
		renderErr = page.Render(&buf, doc)
	})
	if renderErr != nil {
		h.errors.Handle(w, r, apperrors.Wrap(renderErr, "failed to render page"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Select handles POST /select
func (h *PageHandler) Select(w http.ResponseWriter, r *http.Request) {
	a, ok := middleware.AppFromContext(r.Context())
	if !ok {
		h.errors.Handle(w, r, apperrors.NewInternalError("no session"))
		return
	}
	if err := r.ParseForm(); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid form body"))
		return
	}

	_, err := a.SelectUser(r.Context(), r.PostFormValue("userId"))
	h.countSelection(err)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Toggle handles POST /posts/{postID}/toggle
func (h *PageHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	a, ok := middleware.AppFromContext(r.Context())
	if !ok {
		h.errors.Handle(w, r, apperrors.NewInternalError("no session"))
		return
	}

	postID := valueobjects.ParsePostID(chi.URLParam(r, "postID"))
	_, err := a.ToggleComments(r.Context(), postID)
	h.countToggle(err)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PageHandler) countSelection(err error) {
	if h.metrics != nil {
		h.metrics.SelectionChanges.WithLabelValues(statusLabel(err)).Inc()
	}
}

func (h *PageHandler) countToggle(err error) {
	if h.metrics != nil {
		h.metrics.CommentToggles.WithLabelValues(statusLabel(err)).Inc()
	}
}

func statusLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case apperrors.IsBusy(err):
		return "busy"
	case apperrors.IsAbsent(err), apperrors.IsNoMatch(err):
		return "rejected"
	default:
		return "error"
	}
}
