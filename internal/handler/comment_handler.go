package handler

import (
	"net/http"
	"strconv"

	"basalt-wiki/internal/middleware"
	"basalt-wiki/internal/service"

	"github.com/go-chi/chi/v5"
)

// CommentHandler serves comment creation and deletion. Both routes sit
// behind the "user" role, so an unauthenticated caller never reaches them.
type CommentHandler struct {
	wiki *service.WikiService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(wiki *service.WikiService) *CommentHandler {
	return &CommentHandler{wiki: wiki}
}

// createHandler adds a comment to a page and redirects back to it.
func (h *CommentHandler) createHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	ctx := r.Context()
	pageID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Invalid page id", Code: http.StatusBadRequest}
	}
	userInfo := middleware.GetUserInfo(ctx)

	if _, err := h.wiki.AddComment(ctx, pageID, userInfo.UserID, r.FormValue("content")); err != nil {
		return appError(err, "Failed to add comment")
	}
	redirectBack(w, r)
	return nil
}

// deleteHandler removes a comment. The service enforces that only the
// author or an administrator may do so.
func (h *CommentHandler) deleteHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	ctx := r.Context()
	commentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Invalid comment id", Code: http.StatusBadRequest}
	}
	userInfo := middleware.GetUserInfo(ctx)

	if err := h.wiki.DeleteComment(ctx, commentID, userInfo.UserID, userInfo.IsAdmin); err != nil {
		return appError(err, "Failed to delete comment")
	}
	redirectBack(w, r)
	return nil
}

func redirectBack(w http.ResponseWriter, r *http.Request) {
	target := r.Referer()
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusFound)
}
