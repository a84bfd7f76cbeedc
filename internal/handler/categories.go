// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/theminimize/myblog/internal/middleware"
	"github.com/theminimize/myblog/internal/model"
	"github.com/theminimize/myblog/internal/render"
	"github.com/theminimize/myblog/internal/service"
)

// CategoriesHandler serves the admin category management page.
type CategoriesHandler struct {
	renderer *render.Renderer
	content  *service.ContentService
	comments *service.CommentService
	admins   *service.AdminService
	events   *service.EventService
}

// NewCategoriesHandler creates a new CategoriesHandler.
func NewCategoriesHandler(db *sql.DB, renderer *render.Renderer) *CategoriesHandler {
	return &CategoriesHandler{
		renderer: renderer,
		content:  service.NewContentService(db),
		comments: service.NewCommentService(db),
		admins:   service.NewAdminService(db),
		events:   service.NewEventService(db),
	}
}

type categoriesData struct {
	Categories []model.Category
	Errors     map[string]string
}

func (h *CategoriesHandler) renderList(w http.ResponseWriter, r *http.Request, formErrors map[string]string) {
	categories, err := h.content.ListCategories(r.Context())
	if err != nil {
		logAndInternalError(w, "listing categories", "error", err)
		return
	}

	data := buildTemplateData(r, "Categories", h.admins, h.comments)
	data.Data = categoriesData{Categories: categories, Errors: formErrors}

	if err := h.renderer.Render(w, r, "admin/categories", data); err != nil {
		logAndInternalError(w, "rendering categories", "error", err)
	}
}

// List renders the category management page.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, nil)
}

// Create handles the new category form.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminCategories) {
		return
	}

	category, err := h.content.CreateCategory(r.Context(), r.FormValue("name"))
	if err != nil {
		if fields := validationFields(err); fields != nil {
			h.renderList(w, r, fields)
			return
		}
		logAndInternalError(w, "creating category", "error", err)
		return
	}

	if admin := middleware.GetAdmin(r); admin != nil {
		_ = h.events.LogCategoryEvent(r.Context(), model.EventLevelInfo, "Category created", &admin.ID, clientIP(r), map[string]any{"category_id": category.ID, "name": category.Name})
	}

	flashSuccess(w, r, h.renderer, redirectAdminCategories, "Category created")
}

// Update renames a category.
func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminCategories) {
		return
	}

	if err := h.content.UpdateCategory(r.Context(), id, r.FormValue("name")); err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			flashError(w, r, h.renderer, redirectAdminCategories, "The default category cannot be renamed")
		case errors.Is(err, service.ErrNotFound):
			flashError(w, r, h.renderer, redirectAdminCategories, "Category not found")
		default:
			if fields := validationFields(err); fields != nil {
				h.renderList(w, r, fields)
				return
			}
			logAndInternalError(w, "updating category", "error", err)
		}
		return
	}

	if admin := middleware.GetAdmin(r); admin != nil {
		_ = h.events.LogCategoryEvent(r.Context(), model.EventLevelInfo, "Category renamed", &admin.ID, clientIP(r), map[string]any{"category_id": id})
	}

	flashSuccess(w, r, h.renderer, redirectAdminCategories, "Category renamed")
}

// Delete removes a category, moving its posts to the default category.
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	moved, err := h.content.DeleteCategory(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			flashError(w, r, h.renderer, redirectAdminCategories, "The default category cannot be deleted")
		case errors.Is(err, service.ErrNotFound):
			flashError(w, r, h.renderer, redirectAdminCategories, "Category not found")
		default:
			logAndInternalError(w, "deleting category", "error", err)
		}
		return
	}

	if admin := middleware.GetAdmin(r); admin != nil {
		_ = h.events.LogCategoryEvent(r.Context(), model.EventLevelInfo, "Category deleted", &admin.ID, clientIP(r), map[string]any{"category_id": id, "posts_moved": moved})
	}

	msg := "Category deleted"
	if moved > 0 {
		msg = fmt.Sprintf("Category deleted, %d posts moved to %s", moved, model.DefaultCategoryName)
	}
	flashSuccess(w, r, h.renderer, redirectAdminCategories, msg)
}
