// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/theminimize/myblog/internal/middleware"
	"github.com/theminimize/myblog/internal/render"
	"github.com/theminimize/myblog/internal/service"
)

// buildTemplateData assembles the data every page needs: the blog
// profile for the header, the signed-in admin if any, and the moderation
// queue size for the admin nav.
func buildTemplateData(r *http.Request, title string, admins *service.AdminService, comments *service.CommentService) render.TemplateData {
	data := render.TemplateData{
		Title: title,
		Admin: middleware.GetAdmin(r),
	}

	owner, err := admins.Get(r.Context())
	if err != nil {
		// Before first seed there is no profile yet. Render with
		// placeholders rather than failing the page.
		slog.Warn("blog profile unavailable", "error", err)
		return data
	}
	data.Owner = owner

	if data.Admin != nil {
		if unread, err := comments.UnreadCount(r.Context()); err == nil {
			data.UnreadCount = unread
		}
	}

	return data
}
