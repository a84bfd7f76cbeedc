// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/theminimize/myblog/internal/config"
	"github.com/theminimize/myblog/internal/middleware"
	"github.com/theminimize/myblog/internal/model"
	"github.com/theminimize/myblog/internal/render"
	"github.com/theminimize/myblog/internal/service"
)

// BlogHandler serves the public blog pages.
type BlogHandler struct {
	cfg      *config.Config
	renderer *render.Renderer
	content  *service.ContentService
	comments *service.CommentService
	admins   *service.AdminService
	events   *service.EventService
	markdown goldmark.Markdown
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(db *sql.DB, cfg *config.Config, renderer *render.Renderer) *BlogHandler {
	return &BlogHandler{
		cfg:      cfg,
		renderer: renderer,
		content:  service.NewContentService(db),
		comments: service.NewCommentService(db),
		admins:   service.NewAdminService(db),
		events:   service.NewEventService(db),
		// The About page is the owner's own markdown, so raw HTML
		// passes through unescaped.
		markdown: goldmark.New(goldmark.WithRendererOptions(gmhtml.WithUnsafe())),
	}
}

type indexData struct {
	Posts      []model.Post
	Categories []model.Category
	Category   *model.Category
	Pagination Pagination
}

// Index renders the post list, newest first.
func (h *BlogHandler) Index(w http.ResponseWriter, r *http.Request) {
	page := ParsePageParam(r)

	posts, total, err := h.content.ListPosts(r.Context(), page, h.cfg.PostsPerPage)
	if err != nil {
		logAndInternalError(w, "listing posts", "error", err)
		return
	}

	categories, err := h.content.ListCategories(r.Context())
	if err != nil {
		logAndInternalError(w, "listing categories", "error", err)
		return
	}

	data := buildTemplateData(r, "", h.admins, h.comments)
	data.Data = indexData{
		Posts:      posts,
		Categories: categories,
		Pagination: BuildPagination(page, total, h.cfg.PostsPerPage, RouteRoot, nil),
	}

	if err := h.renderer.Render(w, r, "blog/index", data); err != nil {
		logAndInternalError(w, "rendering index", "error", err)
	}
}

// ShowCategory renders the post list restricted to one category.
func (h *BlogHandler) ShowCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	category, err := h.content.GetCategory(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		logAndInternalError(w, "loading category", "error", err, "category_id", id)
		return
	}

	page := ParsePageParam(r)
	posts, total, err := h.content.ListPostsByCategory(r.Context(), id, page, h.cfg.PostsPerPage)
	if err != nil {
		logAndInternalError(w, "listing category posts", "error", err, "category_id", id)
		return
	}

	categories, err := h.content.ListCategories(r.Context())
	if err != nil {
		logAndInternalError(w, "listing categories", "error", err)
		return
	}

	data := buildTemplateData(r, category.Name, h.admins, h.comments)
	data.Data = indexData{
		Posts:      posts,
		Categories: categories,
		Category:   &category,
		Pagination: BuildPagination(page, total, h.cfg.PostsPerPage, fmt.Sprintf("/category/%d", id), nil),
	}

	if err := h.renderer.Render(w, r, "blog/index", data); err != nil {
		logAndInternalError(w, "rendering category", "error", err)
	}
}

type postData struct {
	Post         model.Post
	Category     model.Category
	Comments     []model.Comment
	CommentCount int64
	ReplyTo      *model.Comment
	Pagination   Pagination
}

// ShowPost renders a single post with its published comments.
func (h *BlogHandler) ShowPost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	post, err := h.content.GetPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		logAndInternalError(w, "loading post", "error", err, "post_id", id)
		return
	}

	category, err := h.content.GetCategory(r.Context(), post.CategoryID)
	if err != nil {
		logAndInternalError(w, "loading post category", "error", err, "post_id", id)
		return
	}

	page := ParsePageParam(r)
	comments, total, err := h.comments.ListByPost(r.Context(), id, page, h.cfg.CommentsPerPage)
	if err != nil {
		logAndInternalError(w, "listing comments", "error", err, "post_id", id)
		return
	}

	data := buildTemplateData(r, post.Title, h.admins, h.comments)
	pd := postData{
		Post:         post,
		Category:     category,
		Comments:     comments,
		CommentCount: total,
		Pagination:   BuildPagination(page, total, h.cfg.CommentsPerPage, fmt.Sprintf("/post/%d", id), nil),
	}

	// A reply target selected via /reply/comment/{id} rides along as a
	// query parameter.
	if replyStr := r.URL.Query().Get("reply"); replyStr != "" {
		if replyID, err := strconv.ParseInt(replyStr, 10, 64); err == nil {
			if replyTo, err := h.comments.Get(r.Context(), replyID); err == nil && replyTo.PostID == post.ID {
				pd.ReplyTo = &replyTo
			}
		}
	}

	data.Data = pd

	if err := h.renderer.Render(w, r, "blog/post", data); err != nil {
		logAndInternalError(w, "rendering post", "error", err)
	}
}

// SubmitComment handles the comment form on the post page.
func (h *BlogHandler) SubmitComment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	postURL := fmt.Sprintf("/post/%d", id)

	if !parseFormOrRedirect(w, r, h.renderer, postURL) {
		return
	}

	in := service.SubmitInput{
		PostID: id,
		Author: r.FormValue("author"),
		Body:   r.FormValue("body"),
	}

	// The signed-in owner comments under their own name and skips
	// moderation.
	if admin := middleware.GetAdmin(r); admin != nil {
		in.Author = admin.Name
		in.FromAdmin = true
	}

	if replyStr := r.URL.Query().Get("reply"); replyStr != "" {
		replyID, err := strconv.ParseInt(replyStr, 10, 64)
		if err != nil {
			flashError(w, r, h.renderer, postURL, "Invalid reply target")
			return
		}
		in.RepliedID = &replyID
	}

	comment, err := h.comments.Submit(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			flashError(w, r, h.renderer, postURL, "Comments are closed on this post")
		case errors.Is(err, service.ErrNotFound):
			flashError(w, r, h.renderer, postURL, "That comment or post no longer exists")
		default:
			flashError(w, r, h.renderer, postURL, serviceErrorMessage(err, "Comment"))
		}
		return
	}

	if comment.Reviewed {
		flashSuccess(w, r, h.renderer, postURL, "Comment published.")
	} else {
		flashSuccess(w, r, h.renderer, postURL, "Thanks, your comment will be published after review.")
	}
}

// ReplyRedirect sends the visitor back to the post page with the reply
// target selected.
func (h *BlogHandler) ReplyRedirect(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	comment, err := h.comments.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		logAndInternalError(w, "loading reply target", "error", err, "comment_id", id)
		return
	}

	postURL := fmt.Sprintf("/post/%d", comment.PostID)

	post, err := h.content.GetPost(r.Context(), comment.PostID)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if !post.CanComment {
		flashError(w, r, h.renderer, postURL, "Comments are closed on this post")
		return
	}

	http.Redirect(w, r, fmt.Sprintf("%s?reply=%d#comment-form", postURL, id), http.StatusSeeOther)
}

type aboutData struct {
	AboutHTML template.HTML
}

// About renders the owner's about page from markdown.
func (h *BlogHandler) About(w http.ResponseWriter, r *http.Request) {
	data := buildTemplateData(r, "About", h.admins, h.comments)

	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(data.Owner.About), &buf); err != nil {
		logAndInternalError(w, "rendering about markdown", "error", err)
		return
	}
	data.Data = aboutData{AboutHTML: template.HTML(buf.String())}

	if err := h.renderer.Render(w, r, "blog/about", data); err != nil {
		logAndInternalError(w, "rendering about", "error", err)
	}
}
