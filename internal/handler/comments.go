// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"

	"github.com/theminimize/myblog/internal/config"
	"github.com/theminimize/myblog/internal/middleware"
	"github.com/theminimize/myblog/internal/model"
	"github.com/theminimize/myblog/internal/render"
	"github.com/theminimize/myblog/internal/service"
)

// CommentsHandler serves the admin comment moderation pages.
type CommentsHandler struct {
	cfg      *config.Config
	renderer *render.Renderer
	comments *service.CommentService
	admins   *service.AdminService
	events   *service.EventService
}

// NewCommentsHandler creates a new CommentsHandler.
func NewCommentsHandler(db *sql.DB, cfg *config.Config, renderer *render.Renderer) *CommentsHandler {
	return &CommentsHandler{
		cfg:      cfg,
		renderer: renderer,
		comments: service.NewCommentService(db),
		admins:   service.NewAdminService(db),
		events:   service.NewEventService(db),
	}
}

type adminCommentsData struct {
	Comments   []model.Comment
	Filter     string
	Pagination Pagination
}

// List renders the moderation queue with all/unread/admin filters.
func (h *CommentsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("filter")
	switch filter {
	case model.CommentFilterUnread, model.CommentFilterAdmin:
	default:
		filter = model.CommentFilterAll
	}

	page := ParsePageParam(r)
	comments, total, err := h.comments.List(r.Context(), filter, page, h.cfg.AdminCommentsPerPage)
	if err != nil {
		logAndInternalError(w, "listing comments", "error", err, "filter", filter)
		return
	}

	data := buildTemplateData(r, "Comments", h.admins, h.comments)
	data.Data = adminCommentsData{
		Comments:   comments,
		Filter:     filter,
		Pagination: BuildPagination(page, total, h.cfg.AdminCommentsPerPage, redirectAdminComments, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "admin/comments", data); err != nil {
		logAndInternalError(w, "rendering comments", "error", err)
	}
}

// Approve publishes a comment from the moderation queue.
func (h *CommentsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.comments.Approve(r.Context(), id); err != nil {
		flashError(w, r, h.renderer, redirectAdminComments, serviceErrorMessage(err, "Comment"))
		return
	}

	if admin := middleware.GetAdmin(r); admin != nil {
		_ = h.events.LogCommentEvent(r.Context(), model.EventLevelInfo, "Comment approved", &admin.ID, clientIP(r), map[string]any{"comment_id": id})
	}

	flashSuccess(w, r, h.renderer, redirectAdminComments, "Comment published")
}

// Delete removes a comment and its reply chain.
func (h *CommentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.comments.Delete(r.Context(), id); err != nil {
		flashError(w, r, h.renderer, redirectAdminComments, serviceErrorMessage(err, "Comment"))
		return
	}

	if admin := middleware.GetAdmin(r); admin != nil {
		_ = h.events.LogCommentEvent(r.Context(), model.EventLevelInfo, "Comment deleted", &admin.ID, clientIP(r), map[string]any{"comment_id": id})
	}

	flashSuccess(w, r, h.renderer, redirectAdminComments, "Comment deleted")
}
