// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/theminimize/myblog/internal/middleware"
	"github.com/theminimize/myblog/internal/model"
	"github.com/theminimize/myblog/internal/render"
	"github.com/theminimize/myblog/internal/service"
)

// AuthHandler handles the login and logout flow.
type AuthHandler struct {
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	admins          *service.AdminService
	comments        *service.CommentService
	events          *service.EventService
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		renderer:        renderer,
		sessionManager:  sm,
		admins:          service.NewAdminService(db),
		comments:        service.NewCommentService(db),
		events:          service.NewEventService(db),
		loginProtection: lp,
	}
}

// LoginForm renders the login page. An already signed-in owner goes
// straight to the dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyAdminID) > 0 {
		http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
		return
	}

	data := buildTemplateData(r, "Log in", h.admins, h.comments)
	data.Data = map[string]any{
		"Next": safeRedirectPath(r.URL.Query().Get("next"), ""),
	}
	if err := h.renderer.Render(w, r, "auth/login", data); err != nil {
		logAndInternalError(w, "rendering login", "error", err)
	}
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")
	remember := r.FormValue("remember") != ""
	next := safeRedirectPath(r.FormValue("next"), "")

	// Keep the destination across failed attempts.
	loginURL := redirectLogin
	if next != "" {
		loginURL = redirectLogin + "?next=" + url.QueryEscape(next)
	}

	if username == "" || password == "" {
		flashError(w, r, h.renderer, loginURL, "Username and password are required")
		return
	}

	ip := clientIP(r)

	if h.loginProtection != nil {
		if !h.loginProtection.CheckIPRateLimit(ip) {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		if locked, remaining := h.loginProtection.IsAccountLocked(username); locked {
			_ = h.events.LogAuthEvent(r.Context(), model.EventLevelWarning, "Login attempt on locked account", nil, ip, map[string]any{"username": username})
			flashError(w, r, h.renderer, loginURL, "Too many failed attempts, try again in "+remaining.Round(time.Second).String())
			return
		}
	}

	admin, err := h.admins.Login(r.Context(), username, password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoAdminAccount):
			_ = h.events.LogAuthEvent(r.Context(), model.EventLevelError, "Login attempted with no admin account", nil, ip, nil)
			flashError(w, r, h.renderer, loginURL, "The blog has not been set up yet")
		case errors.Is(err, service.ErrInvalidCredentials):
			_ = h.events.LogAuthEvent(r.Context(), model.EventLevelWarning, "Login failed", nil, ip, map[string]any{"username": username})
			if h.loginProtection != nil {
				if locked, lockDuration := h.loginProtection.RecordFailedAttempt(username); locked {
					flashError(w, r, h.renderer, loginURL, "Too many failed attempts, try again in "+lockDuration.Round(time.Second).String())
					return
				}
			}
			flashError(w, r, h.renderer, loginURL, "Invalid username or password")
		default:
			logAndInternalError(w, "login error", "error", err)
		}
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(username)
	}

	// Regenerate the session ID to prevent session fixation.
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	h.sessionManager.Put(r.Context(), middleware.SessionKeyAdminID, admin.ID)

	// RememberMe upgrades the session cookie to a persistent one for
	// the manager's full lifetime.
	h.sessionManager.RememberMe(r.Context(), remember)

	slog.Info("admin logged in", "admin_id", admin.ID, "remember", remember)
	_ = h.events.LogAuthEvent(r.Context(), model.EventLevelInfo, "Admin logged in", &admin.ID, ip, map[string]any{"remember": remember})

	flashSuccess(w, r, h.renderer, safeRedirectPath(next, redirectAdmin), "Welcome back, "+admin.Name)
}

// Logout destroys the session and returns to the homepage.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	adminID := h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyAdminID)

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		logAndInternalError(w, "session destroy error", "error", err)
		return
	}

	if adminID > 0 {
		_ = h.events.LogAuthEvent(r.Context(), model.EventLevelInfo, "Admin logged out", &adminID, clientIP(r), nil)
	}

	flashSuccess(w, r, h.renderer, RouteRoot, "Logged out")
}
