// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/theminimize/myblog/internal/middleware"
	"github.com/theminimize/myblog/internal/model"
	"github.com/theminimize/myblog/internal/render"
	"github.com/theminimize/myblog/internal/service"
	"github.com/theminimize/myblog/internal/store"
)

// AdminHandler serves the dashboard, settings, and event log pages.
type AdminHandler struct {
	cfg      adminConfig
	queries  *store.Queries
	renderer *render.Renderer
	admins   *service.AdminService
	comments *service.CommentService
	events   *service.EventService
}

// adminConfig is the slice of configuration the admin pages need.
type adminConfig struct {
	EventsPerPage int
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *sql.DB, renderer *render.Renderer, eventsPerPage int) *AdminHandler {
	return &AdminHandler{
		cfg:      adminConfig{EventsPerPage: eventsPerPage},
		queries:  store.New(db),
		renderer: renderer,
		admins:   service.NewAdminService(db),
		comments: service.NewCommentService(db),
		events:   service.NewEventService(db),
	}
}

type dashboardData struct {
	PostCount     int64
	CategoryCount int64
	CommentCount  int64
}

// Dashboard renders the admin overview.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	posts, err := h.queries.CountPosts(ctx)
	if err != nil {
		logAndInternalError(w, "counting posts", "error", err)
		return
	}
	categories, err := h.queries.CountCategories(ctx)
	if err != nil {
		logAndInternalError(w, "counting categories", "error", err)
		return
	}
	comments, err := h.queries.CountComments(ctx, model.CommentFilterAll)
	if err != nil {
		logAndInternalError(w, "counting comments", "error", err)
		return
	}

	data := buildTemplateData(r, "Dashboard", h.admins, h.comments)
	data.Data = dashboardData{
		PostCount:     posts,
		CategoryCount: categories,
		CommentCount:  comments,
	}

	if err := h.renderer.Render(w, r, "admin/dashboard", data); err != nil {
		logAndInternalError(w, "rendering dashboard", "error", err)
	}
}

type settingsData struct {
	Name         string
	BlogTitle    string
	BlogSubtitle string
	About        string
	Errors       map[string]string
}

// SettingsForm renders the settings page.
func (h *AdminHandler) SettingsForm(w http.ResponseWriter, r *http.Request) {
	data := buildTemplateData(r, "Settings", h.admins, h.comments)
	data.Data = settingsData{
		Name:         data.Owner.Name,
		BlogTitle:    data.Owner.BlogTitle,
		BlogSubtitle: data.Owner.BlogSubtitle,
		About:        data.Owner.About,
	}

	if err := h.renderer.Render(w, r, "admin/settings", data); err != nil {
		logAndInternalError(w, "rendering settings", "error", err)
	}
}

// UpdateSettings handles the settings form submission.
func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminSettings) {
		return
	}

	in := service.UpdateSettingsInput{
		Name:         r.FormValue("name"),
		BlogTitle:    r.FormValue("blog_title"),
		BlogSubtitle: r.FormValue("blog_subtitle"),
		About:        r.FormValue("about"),
	}

	if err := h.admins.UpdateSettings(r.Context(), in); err != nil {
		if fields := validationFields(err); fields != nil {
			data := buildTemplateData(r, "Settings", h.admins, h.comments)
			data.Data = settingsData{
				Name:         in.Name,
				BlogTitle:    in.BlogTitle,
				BlogSubtitle: in.BlogSubtitle,
				About:        in.About,
				Errors:       fields,
			}
			if err := h.renderer.Render(w, r, "admin/settings", data); err != nil {
				logAndInternalError(w, "rendering settings", "error", err)
			}
			return
		}
		logAndInternalError(w, "updating settings", "error", err)
		return
	}

	admin := middleware.GetAdmin(r)
	if admin != nil {
		_ = h.events.LogSystemEvent(r.Context(), model.EventLevelInfo, "Blog settings updated", &admin.ID, clientIP(r), nil)
	}

	flashSuccess(w, r, h.renderer, redirectAdminSettings, "Settings saved")
}

// ChangePassword handles the password change form.
func (h *AdminHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminSettings) {
		return
	}

	err := h.admins.ChangePassword(r.Context(), r.FormValue("current_password"), r.FormValue("new_password"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			flashError(w, r, h.renderer, redirectAdminSettings, "Current password is incorrect")
			return
		}
		if fields := validationFields(err); fields != nil {
			flashError(w, r, h.renderer, redirectAdminSettings, serviceErrorMessage(err, "Password"))
			return
		}
		logAndInternalError(w, "changing password", "error", err)
		return
	}

	admin := middleware.GetAdmin(r)
	if admin != nil {
		_ = h.events.LogAuthEvent(r.Context(), model.EventLevelInfo, "Admin password changed", &admin.ID, clientIP(r), nil)
	}

	flashSuccess(w, r, h.renderer, redirectAdminSettings, "Password changed")
}

type eventsData struct {
	Events     []model.Event
	Pagination Pagination
}

// Events renders the audit log.
func (h *AdminHandler) Events(w http.ResponseWriter, r *http.Request) {
	page := ParsePageParam(r)

	events, total, err := h.events.ListEvents(r.Context(), page, h.cfg.EventsPerPage)
	if err != nil {
		logAndInternalError(w, "listing events", "error", err)
		return
	}

	data := buildTemplateData(r, "Event Log", h.admins, h.comments)
	data.Data = eventsData{
		Events:     events,
		Pagination: BuildPagination(page, total, h.cfg.EventsPerPage, "/admin/events", nil),
	}

	if err := h.renderer.Render(w, r, "admin/events", data); err != nil {
		logAndInternalError(w, "rendering events", "error", err)
	}
}
