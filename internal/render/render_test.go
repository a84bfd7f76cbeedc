// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"io/fs"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theminimize/myblog/internal/model"
	"github.com/theminimize/myblog/web"
)

func testRenderer(t *testing.T) *Renderer {
	t.Helper()

	templatesFS, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)

	r, err := New(Config{TemplatesFS: templatesFS})
	require.NoError(t, err)
	return r
}

func TestNew_ParsesAllPages(t *testing.T) {
	r := testRenderer(t)

	expected := []string{
		"blog/index", "blog/post", "blog/about",
		"auth/login",
		"admin/dashboard", "admin/posts", "admin/post_form",
		"admin/categories", "admin/comments", "admin/settings", "admin/events",
	}
	for _, name := range expected {
		_, ok := r.templates[name]
		assert.True(t, ok, "template %s not parsed", name)
	}
}

func TestRender_Login(t *testing.T) {
	r := testRenderer(t)

	req := httptest.NewRequest("GET", "/login", nil)
	rec := httptest.NewRecorder()

	err := r.Render(rec, req, "auth/login", TemplateData{
		Title: "Log in",
		Owner: model.Admin{BlogTitle: "My Blog", BlogSubtitle: "Notes to self", Name: "Administrator"},
	})
	require.NoError(t, err)

	body := rec.Body.String()
	assert.Contains(t, body, "My Blog")
	assert.Contains(t, body, `action="/login"`)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestRender_Index(t *testing.T) {
	r := testRenderer(t)

	type indexData struct {
		Posts      []model.Post
		Categories []model.Category
		Category   *model.Category
		Pagination struct {
			Page       int
			TotalPages int
			HasPrev    bool
			HasNext    bool
			PrevURL    string
			NextURL    string
		}
	}

	data := indexData{
		Posts: []model.Post{
			{ID: 1, Title: "First post", Body: "<p>Hello</p>", CreatedAt: time.Now()},
		},
		Categories: []model.Category{{ID: 1, Name: "Default"}},
	}

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	err := r.Render(rec, req, "blog/index", TemplateData{Title: "Home", Data: data})
	require.NoError(t, err)

	body := rec.Body.String()
	assert.Contains(t, body, "First post")
	// Post bodies are stored sanitized and rendered as HTML.
	assert.Contains(t, body, "<p>Hello</p>")
}

func TestTruncateFunc(t *testing.T) {
	r := testRenderer(t)
	truncate := r.templateFuncs()["truncate"].(func(string, int) string)

	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcde...", truncate("abcdefgh", 5))

	// Truncation counts characters, so multibyte text stays valid UTF-8.
	got := truncate(strings.Repeat("日本語", 10), 5)
	assert.Equal(t, "日本語日本...", got)
	assert.True(t, utf8.ValidString(got))
}

func TestRender_UnknownTemplate(t *testing.T) {
	r := testRenderer(t)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	err := r.Render(rec, req, "blog/missing", TemplateData{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "not found"))
}
