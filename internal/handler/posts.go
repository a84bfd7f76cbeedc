// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"

	"github.com/theminimize/myblog/internal/config"
	"github.com/theminimize/myblog/internal/middleware"
	"github.com/theminimize/myblog/internal/model"
	"github.com/theminimize/myblog/internal/render"
	"github.com/theminimize/myblog/internal/service"
)

// PostsHandler serves the admin post management pages.
type PostsHandler struct {
	cfg      *config.Config
	renderer *render.Renderer
	content  *service.ContentService
	comments *service.CommentService
	admins   *service.AdminService
	events   *service.EventService
}

// NewPostsHandler creates a new PostsHandler.
func NewPostsHandler(db *sql.DB, cfg *config.Config, renderer *render.Renderer) *PostsHandler {
	return &PostsHandler{
		cfg:      cfg,
		renderer: renderer,
		content:  service.NewContentService(db),
		comments: service.NewCommentService(db),
		admins:   service.NewAdminService(db),
		events:   service.NewEventService(db),
	}
}

type adminPostsData struct {
	Posts      []model.Post
	Pagination Pagination
}

// List renders the post management table.
func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	page := ParsePageParam(r)

	posts, total, err := h.content.ListPosts(r.Context(), page, h.cfg.AdminPostsPerPage)
	if err != nil {
		logAndInternalError(w, "listing posts", "error", err)
		return
	}

	data := buildTemplateData(r, "Posts", h.admins, h.comments)
	data.Data = adminPostsData{
		Posts:      posts,
		Pagination: BuildPagination(page, total, h.cfg.AdminPostsPerPage, redirectAdminPosts, nil),
	}

	if err := h.renderer.Render(w, r, "admin/posts", data); err != nil {
		logAndInternalError(w, "rendering posts", "error", err)
	}
}

type postFormData struct {
	Post       *model.Post
	Title      string
	Body       string
	CategoryID int64
	Categories []model.Category
	Errors     map[string]string
}

func (h *PostsHandler) renderForm(w http.ResponseWriter, r *http.Request, fd postFormData) {
	categories, err := h.content.ListCategories(r.Context())
	if err != nil {
		logAndInternalError(w, "listing categories", "error", err)
		return
	}
	fd.Categories = categories
	if fd.CategoryID == 0 {
		fd.CategoryID = model.DefaultCategoryID
	}

	title := "New Post"
	if fd.Post != nil {
		title = "Edit Post"
	}

	data := buildTemplateData(r, title, h.admins, h.comments)
	data.Data = fd

	if err := h.renderer.Render(w, r, "admin/post_form", data); err != nil {
		logAndInternalError(w, "rendering post form", "error", err)
	}
}

// NewForm renders an empty post form.
func (h *PostsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, postFormData{})
}

// EditForm renders the post form prefilled with an existing post.
func (h *PostsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	post, err := h.content.GetPost(r.Context(), id)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminPosts, serviceErrorMessage(err, "Post"))
		return
	}

	h.renderForm(w, r, postFormData{
		Post:       &post,
		Title:      post.Title,
		Body:       post.Body,
		CategoryID: post.CategoryID,
	})
}

func postInputFromForm(r *http.Request) service.PostInput {
	categoryID, _ := strconv.ParseInt(r.FormValue("category_id"), 10, 64)
	return service.PostInput{
		Title:      r.FormValue("title"),
		Body:       r.FormValue("body"),
		CategoryID: categoryID,
	}
}

// Create handles the new post form submission.
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminPosts) {
		return
	}

	in := postInputFromForm(r)
	post, err := h.content.CreatePost(r.Context(), in)
	if err != nil {
		if fields := validationFields(err); fields != nil {
			h.renderForm(w, r, postFormData{
				Title:      in.Title,
				Body:       in.Body,
				CategoryID: in.CategoryID,
				Errors:     fields,
			})
			return
		}
		logAndInternalError(w, "creating post", "error", err)
		return
	}

	if admin := middleware.GetAdmin(r); admin != nil {
		_ = h.events.LogPostEvent(r.Context(), model.EventLevelInfo, "Post created", &admin.ID, clientIP(r), map[string]any{"post_id": post.ID, "title": post.Title})
	}

	flashSuccess(w, r, h.renderer, fmt.Sprintf("/post/%d", post.ID), "Post published")
}

// Update handles the edit post form submission.
func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminPosts) {
		return
	}

	in := postInputFromForm(r)
	if err := h.content.UpdatePost(r.Context(), id, in); err != nil {
		if fields := validationFields(err); fields != nil {
			post, perr := h.content.GetPost(r.Context(), id)
			if perr != nil {
				flashError(w, r, h.renderer, redirectAdminPosts, "Post not found")
				return
			}
			h.renderForm(w, r, postFormData{
				Post:       &post,
				Title:      in.Title,
				Body:       in.Body,
				CategoryID: in.CategoryID,
				Errors:     fields,
			})
			return
		}
		flashError(w, r, h.renderer, redirectAdminPosts, serviceErrorMessage(err, "Post"))
		return
	}

	if admin := middleware.GetAdmin(r); admin != nil {
		_ = h.events.LogPostEvent(r.Context(), model.EventLevelInfo, "Post updated", &admin.ID, clientIP(r), map[string]any{"post_id": id})
	}

	flashSuccess(w, r, h.renderer, fmt.Sprintf("/post/%d", id), "Post updated")
}

// ToggleComments flips the comment-permission flag on a post.
func (h *PostsHandler) ToggleComments(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	post, err := h.content.GetPost(r.Context(), id)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminPosts, serviceErrorMessage(err, "Post"))
		return
	}

	if err := h.content.SetPostCanComment(r.Context(), id, !post.CanComment); err != nil {
		flashError(w, r, h.renderer, redirectAdminPosts, serviceErrorMessage(err, "Post"))
		return
	}

	msg := "Comments enabled"
	if post.CanComment {
		msg = "Comments disabled"
	}
	flashSuccess(w, r, h.renderer, fmt.Sprintf("/post/%d", id), msg)
}

// Delete removes a post and all its comments.
func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.content.DeletePost(r.Context(), id); err != nil {
		flashError(w, r, h.renderer, redirectAdminPosts, serviceErrorMessage(err, "Post"))
		return
	}

	if admin := middleware.GetAdmin(r); admin != nil {
		_ = h.events.LogPostEvent(r.Context(), model.EventLevelInfo, "Post deleted", &admin.ID, clientIP(r), map[string]any{"post_id": id})
	}

	flashSuccess(w, r, h.renderer, redirectAdminPosts, "Post deleted")
}
