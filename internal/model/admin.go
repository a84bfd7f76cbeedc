// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain models used throughout the application:
// the singleton Admin account, Category, Post, and Comment.
package model

// Admin represents the blog owner account together with the blog profile
// settings shown on the public site. The schema allows multiple rows, but
// the application only ever uses the one returned by store.GetAdmin (the
// lowest id).
type Admin struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // Never expose in JSON
	BlogTitle    string `json:"blog_title"`
	BlogSubtitle string `json:"blog_subtitle"`
	Name         string `json:"name"`
	About        string `json:"about"`
}
