// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler contains the HTTP handlers for the public blog, the
// auth flow, and the admin area.
package handler

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/theminimize/myblog/internal/render"
	"github.com/theminimize/myblog/internal/service"
)

// flashAndRedirect sets a flash message and redirects to the given URL.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message, messageType string) {
	renderer.SetFlash(r, message, messageType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// flashError sets an error flash message and redirects to the given URL.
func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, "error")
}

// flashSuccess sets a success flash message and redirects to the given URL.
func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, "success")
}

// safeRedirectPath returns raw when it is a path on this site and
// fallback otherwise. Absolute URLs, protocol-relative URLs, and
// backslash tricks are rejected so a crafted next parameter cannot
// send the browser off-site.
func safeRedirectPath(raw, fallback string) string {
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, "\\") {
		return fallback
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return raw
}

// parseFormOrRedirect parses the request form, redirecting with an error
// message on failure. Returns true if parsing succeeded.
func parseFormOrRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, redirectURL string) bool {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, renderer, redirectURL, "Invalid form data")
		return false
	}
	return true
}

// logAndInternalError logs an error and writes a 500 response.
func logAndInternalError(w http.ResponseWriter, logMsg string, args ...any) {
	slog.Error(logMsg, args...)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// idParam parses the {id} chi URL parameter.
func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// clientIP extracts the remote IP without the port. chi's RealIP
// middleware has already resolved proxy headers into RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// validationFields returns the field messages if err is a validation
// error, nil otherwise.
func validationFields(err error) map[string]string {
	if ve, ok := service.IsValidationError(err); ok {
		return ve.Fields
	}
	return nil
}

// serviceErrorMessage maps a service error to a user-facing flash message.
func serviceErrorMessage(err error, entityName string) string {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return entityName + " not found"
	case errors.Is(err, service.ErrForbidden):
		return "That operation is not allowed"
	default:
		if ve, ok := service.IsValidationError(err); ok {
			for _, msg := range ve.Fields {
				return msg
			}
		}
		return "Something went wrong"
	}
}
