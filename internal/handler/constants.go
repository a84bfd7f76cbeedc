// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	RouteRoot     = "/"
	RouteAbout    = "/about"
	RoutePost     = "/post/{id}"
	RouteCategory = "/category/{id}"
	RouteReply    = "/reply/comment/{id}"

	RouteLogin  = "/login"
	RouteLogout = "/logout"

	redirectAdmin           = "/admin"
	redirectLogin           = "/login"
	redirectAdminPosts      = "/admin/posts"
	redirectAdminCategories = "/admin/categories"
	redirectAdminComments   = "/admin/comments"
	redirectAdminSettings   = "/admin/settings"
)
