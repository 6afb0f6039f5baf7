package handler

import (
	"net/http"
	"strconv"

	"basalt-wiki/internal/middleware"
	"basalt-wiki/internal/service"
	"basalt-wiki/internal/view"

	"github.com/go-chi/chi/v5"
)

// LikeHandler serves like toggling for both logged-in users and
// anonymous sessions.
type LikeHandler struct {
	likes service.LikeServicer
	view  *view.View
}

// NewLikeHandler creates a new LikeHandler.
func NewLikeHandler(likes service.LikeServicer, v *view.View) *LikeHandler {
	return &LikeHandler{likes: likes, view: v}
}

// toggleHandler flips the viewer's like on a page. HTMX requests get the
// like button partial back; plain form posts are redirected to the page
// they came from.
func (h *LikeHandler) toggleHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	ctx := r.Context()
	pageID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Invalid page id", Code: http.StatusBadRequest}
	}

	liked, err := h.likes.ToggleLike(ctx, pageID, resolveViewer(r))
	if err != nil {
		return appError(err, "Failed to toggle like")
	}
	count, err := h.likes.LikeCount(ctx, pageID)
	if err != nil {
		return appError(err, "Failed to count likes")
	}

	if isHTMX(r) && !view.IsBasicMode(ctx) {
		data := map[string]interface{}{
			"PageID":    pageID,
			"Liked":     liked,
			"LikeCount": count,
		}
		if err := h.view.Render(w, r, "like_button.html", data); err != nil {
			return &middleware.AppError{Error: err, Message: "Failed to render like button", Code: http.StatusInternalServerError}
		}
		return nil
	}

	target := r.Referer()
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusFound)
	return nil
}
