// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// security headers, and login protection.
package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/url"

	"github.com/alexedwards/scs/v2"

	"github.com/theminimize/myblog/internal/model"
	"github.com/theminimize/myblog/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyAdmin holds the signed-in blog owner, when there is one.
const ContextKeyAdmin ContextKey = "admin"

// SessionKeyAdminID is the session key holding the signed-in admin's id.
const SessionKeyAdminID = "admin_id"

// RequireAdmin creates middleware that requires an authenticated admin
// session, redirecting to the login page otherwise. The requested URL
// is carried in the next parameter so login can return to it.
func RequireAdmin(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			adminID := sm.GetInt64(r.Context(), SessionKeyAdminID)
			if adminID == 0 {
				loginURL := "/login"
				if r.Method == http.MethodGet && r.URL.RequestURI() != "/" {
					loginURL += "?next=" + url.QueryEscape(r.URL.RequestURI())
				}
				http.Redirect(w, r, loginURL, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// LoadAdmin creates middleware that loads the signed-in admin into the
// request context when a session exists. Requests without a session pass
// through untouched; a stale session is destroyed.
func LoadAdmin(sm *scs.SessionManager, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			adminID := sm.GetInt64(r.Context(), SessionKeyAdminID)
			if adminID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			admin, err := queries.GetAdminByID(r.Context(), adminID)
			if err != nil {
				_ = sm.Destroy(r.Context())
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyAdmin, admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAdmin retrieves the signed-in admin from the request context.
// Returns nil for anonymous requests.
func GetAdmin(r *http.Request) *model.Admin {
	admin, ok := r.Context().Value(ContextKeyAdmin).(model.Admin)
	if !ok {
		return nil
	}
	return &admin
}
