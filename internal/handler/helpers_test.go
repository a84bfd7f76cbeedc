// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeRedirectPath(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", "/fallback"},
		{"local path", "/admin/posts", "/admin/posts"},
		{"local path with query", "/admin/comments?filter=unread&page=2", "/admin/comments?filter=unread&page=2"},
		{"relative path", "admin", "/fallback"},
		{"absolute url", "https://evil.example/phish", "/fallback"},
		{"protocol relative", "//evil.example/phish", "/fallback"},
		{"backslash host trick", "/\\evil.example", "/fallback"},
		{"scheme without slashes", "javascript:alert(1)", "/fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, safeRedirectPath(tt.raw, "/fallback"))
		})
	}
}
