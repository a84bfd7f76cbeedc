// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"io"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theminimize/myblog/internal/config"
	"github.com/theminimize/myblog/internal/middleware"
	"github.com/theminimize/myblog/internal/model"
	"github.com/theminimize/myblog/internal/render"
	"github.com/theminimize/myblog/internal/service"
	"github.com/theminimize/myblog/internal/store"
	"github.com/theminimize/myblog/internal/testutil"
	"github.com/theminimize/myblog/web"
)

type testApp struct {
	db     *sql.DB
	server *httptest.Server
	client *http.Client
}

// newTestApp wires the full route tree against a temporary database.
// CSRF protection is left out so tests can post forms directly.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.TestDB(t)
	require.NoError(t, store.Seed(context.Background(), db))

	cfg := &config.Config{
		SessionSecret:        strings.Repeat("s", 32),
		PostsPerPage:         7,
		AdminPostsPerPage:    15,
		CommentsPerPage:      5,
		AdminCommentsPerPage: 15,
		AllowedImageExts:     []string{"jpg", "jpeg", "png", "gif"},
		UploadsDir:           t.TempDir(),
		Env:                  "development",
	}

	sessionManager := scs.New()

	templatesFS, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          true,
	})
	require.NoError(t, err)

	blogHandler := NewBlogHandler(db, cfg, renderer)
	authHandler := NewAuthHandler(db, renderer, sessionManager, nil)
	adminHandler := NewAdminHandler(db, renderer, cfg.AdminCommentsPerPage)
	postsHandler := NewPostsHandler(db, cfg, renderer)
	categoriesHandler := NewCategoriesHandler(db, renderer)
	commentsHandler := NewCommentsHandler(db, cfg, renderer)

	r := chi.NewRouter()
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.LoadAdmin(sessionManager, db))

	r.Get(RouteRoot, blogHandler.Index)
	r.Get(RouteAbout, blogHandler.About)
	r.Get(RouteCategory, blogHandler.ShowCategory)
	r.Get(RoutePost, blogHandler.ShowPost)
	r.Post(RoutePost+"/comments", blogHandler.SubmitComment)
	r.Get(RouteReply, blogHandler.ReplyRedirect)

	r.Get(RouteLogin, authHandler.LoginForm)
	r.Post(RouteLogin, authHandler.Login)
	r.Get(RouteLogout, authHandler.Logout)

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdmin(sessionManager))
		r.Get("/", adminHandler.Dashboard)
		r.Get("/posts", postsHandler.List)
		r.Get("/categories", categoriesHandler.List)
		r.Get("/comments", commentsHandler.List)
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	return &testApp{db: db, server: server, client: client}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (a *testApp) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.Get(a.server.URL + path)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, string(body)
}

func (a *testApp) postForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.PostForm(a.server.URL+path, form)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, string(body)
}

func (a *testApp) createPost(t *testing.T, title string) model.Post {
	t.Helper()
	post, err := service.NewContentService(a.db).CreatePost(context.Background(), service.PostInput{
		Title:      title,
		Body:       "<p>Body of " + title + "</p>",
		CategoryID: model.DefaultCategoryID,
	})
	require.NoError(t, err)
	return post
}

func (a *testApp) login(t *testing.T) {
	t.Helper()
	resp, body := a.postForm(t, "/login", url.Values{
		"username": {store.DefaultAdminUsername},
		"password": {store.DefaultAdminPassword},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Welcome back")
}

func TestIndex(t *testing.T) {
	app := newTestApp(t)
	app.createPost(t, "Hello world")

	resp, body := app.get(t, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Hello world")
	assert.Contains(t, body, "My Blog")
}

func TestShowPost(t *testing.T) {
	app := newTestApp(t)
	post := app.createPost(t, "A single post")

	resp, body := app.get(t, "/post/"+itoa(post.ID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "A single post")
	assert.Contains(t, body, "Body of A single post")
}

func TestShowPost_NotFound(t *testing.T) {
	app := newTestApp(t)

	resp, _ := app.get(t, "/post/9999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestShowCategory_NotFound(t *testing.T) {
	app := newTestApp(t)

	resp, _ := app.get(t, "/category/9999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAbout(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.get(t, "/about")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Welcome to my personal blog")
}

func TestAdmin_RequiresLogin(t *testing.T) {
	app := newTestApp(t)

	// The client follows the redirect to the login page.
	resp, body := app.get(t, "/admin")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/login", resp.Request.URL.Path)
	assert.Contains(t, body, "Log in")
}

func TestLogin_WrongPassword(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.postForm(t, "/login", url.Values{
		"username": {store.DefaultAdminUsername},
		"password": {"wrong"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/login", resp.Request.URL.Path)
	assert.Contains(t, body, "Invalid username or password")
}

func TestLogin_Success(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	resp, body := app.get(t, "/admin")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Request.URL.Path)
	assert.Contains(t, body, "Dashboard")
}

func TestLogin_RedirectBack(t *testing.T) {
	app := newTestApp(t)

	// An unauthenticated admin request carries its URL to the login page.
	noFollow := &http.Client{Jar: app.client.Jar, CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := noFollow.Get(app.server.URL + "/admin/posts")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login?next=%2Fadmin%2Fposts", resp.Header.Get("Location"))

	// The login form carries the destination in a hidden field.
	_, body := app.get(t, "/login?next=%2Fadmin%2Fposts")
	assert.Contains(t, body, `name="next" value="/admin/posts"`)

	// Logging in returns to the requested page.
	resp, body = app.postForm(t, "/login", url.Values{
		"username": {store.DefaultAdminUsername},
		"password": {store.DefaultAdminPassword},
		"next":     {"/admin/posts"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/admin/posts", resp.Request.URL.Path)
	assert.Contains(t, body, "Welcome back")
}

func TestLogin_RedirectBackRejectsOffsite(t *testing.T) {
	app := newTestApp(t)

	// An off-site next parameter falls back to the dashboard.
	resp, _ := app.postForm(t, "/login", url.Values{
		"username": {store.DefaultAdminUsername},
		"password": {store.DefaultAdminPassword},
		"next":     {"https://evil.example/phish"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Request.URL.Path)
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	resp, _ := app.get(t, "/logout")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/", resp.Request.URL.Path)

	resp, _ = app.get(t, "/admin")
	assert.Equal(t, "/login", resp.Request.URL.Path)
}

func TestSubmitComment_Visitor(t *testing.T) {
	app := newTestApp(t)
	post := app.createPost(t, "Commentable")

	resp, body := app.postForm(t, "/post/"+itoa(post.ID)+"/comments", url.Values{
		"author": {"alice"},
		"body":   {"Nice write-up!"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "published after review")

	// Unreviewed comments stay off the public page.
	assert.NotContains(t, body, "Nice write-up!")
}

func TestSubmitComment_CommentsClosed(t *testing.T) {
	app := newTestApp(t)
	post := app.createPost(t, "Closed")
	require.NoError(t, service.NewContentService(app.db).SetPostCanComment(context.Background(), post.ID, false))

	resp, body := app.postForm(t, "/post/"+itoa(post.ID)+"/comments", url.Values{
		"author": {"alice"},
		"body":   {"Too late"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Comments are closed")
}

func TestReplyRedirect(t *testing.T) {
	app := newTestApp(t)
	post := app.createPost(t, "Thread")

	comment, err := service.NewCommentService(app.db).Submit(context.Background(), service.SubmitInput{
		PostID:    post.ID,
		Author:    "owner",
		Body:      "root comment",
		FromAdmin: true,
	})
	require.NoError(t, err)

	// Don't follow redirects so the Location header can be checked.
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.Get(app.server.URL + "/reply/comment/" + itoa(comment.ID))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "/post/"+itoa(post.ID)+"?reply="+itoa(comment.ID))
}
