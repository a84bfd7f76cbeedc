// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theminimize/myblog/internal/model"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := testDB(t)
	// Running migrations again must be a no-op.
	require.NoError(t, Migrate(db))
}

func TestSeed(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, db))

	queries := New(db)

	cat, err := queries.GetCategoryByID(ctx, model.DefaultCategoryID)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCategoryName, cat.Name)

	admin, err := queries.GetAdmin(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultAdminUsername, admin.Username)

	// Seeding twice must not duplicate anything.
	require.NoError(t, Seed(ctx, db))
	count, err := queries.CountAdmins(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestSeedDemo(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, db))
	require.NoError(t, SeedDemo(ctx, db))

	queries := New(db)
	posts, err := queries.CountPosts(ctx)
	require.NoError(t, err)
	assert.Positive(t, posts)

	// Re-running must leave the content untouched.
	require.NoError(t, SeedDemo(ctx, db))
	after, err := queries.CountPosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, posts, after)
}

func TestPostCRUD(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	require.NoError(t, Seed(ctx, db))
	queries := New(db)

	post, err := queries.CreatePost(ctx, CreatePostParams{
		Title:      "Hello",
		Body:       "<p>First post</p>",
		CanComment: true,
		CategoryID: model.DefaultCategoryID,
		CreatedAt:  time.Now(),
	})
	require.NoError(t, err)
	assert.NotZero(t, post.ID)

	got, err := queries.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)
	assert.True(t, got.CanComment)

	require.NoError(t, queries.UpdatePost(ctx, UpdatePostParams{
		ID:         post.ID,
		Title:      "Hello again",
		Body:       got.Body,
		CategoryID: got.CategoryID,
	}))
	got, err = queries.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello again", got.Title)

	require.NoError(t, queries.SetPostCanComment(ctx, SetPostCanCommentParams{ID: post.ID, CanComment: false}))
	got, err = queries.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.False(t, got.CanComment)

	require.NoError(t, queries.DeletePost(ctx, post.ID))
	_, err = queries.GetPostByID(ctx, post.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDeletePost_CascadesComments(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	require.NoError(t, Seed(ctx, db))
	queries := New(db)

	post, err := queries.CreatePost(ctx, CreatePostParams{
		Title:      "Cascade",
		Body:       "body",
		CanComment: true,
		CategoryID: model.DefaultCategoryID,
		CreatedAt:  time.Now(),
	})
	require.NoError(t, err)

	c, err := queries.CreateComment(ctx, CreateCommentParams{
		Author:    "alice",
		Body:      "first",
		Reviewed:  true,
		PostID:    post.ID,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, queries.DeletePost(ctx, post.ID))
	_, err = queries.GetCommentByID(ctx, c.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDeleteCommentChain(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	require.NoError(t, Seed(ctx, db))
	queries := New(db)

	post, err := queries.CreatePost(ctx, CreatePostParams{
		Title:      "Thread",
		Body:       "body",
		CanComment: true,
		CategoryID: model.DefaultCategoryID,
		CreatedAt:  time.Now(),
	})
	require.NoError(t, err)

	root, err := queries.CreateComment(ctx, CreateCommentParams{
		Author: "alice", Body: "root", Reviewed: true, PostID: post.ID, CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	child, err := queries.CreateComment(ctx, CreateCommentParams{
		Author: "bob", Body: "reply", Reviewed: true, PostID: post.ID,
		RepliedID: sql.NullInt64{Int64: root.ID, Valid: true}, CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	grandchild, err := queries.CreateComment(ctx, CreateCommentParams{
		Author: "carol", Body: "reply to reply", Reviewed: true, PostID: post.ID,
		RepliedID: sql.NullInt64{Int64: child.ID, Valid: true}, CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	unrelated, err := queries.CreateComment(ctx, CreateCommentParams{
		Author: "dave", Body: "standalone", Reviewed: true, PostID: post.ID, CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, queries.DeleteCommentChain(ctx, root.ID))

	for _, id := range []int64{root.ID, child.ID, grandchild.ID} {
		_, err := queries.GetCommentByID(ctx, id)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	}
	_, err = queries.GetCommentByID(ctx, unrelated.ID)
	assert.NoError(t, err)
}

func TestReassignPosts(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	require.NoError(t, Seed(ctx, db))
	queries := New(db)

	cat, err := queries.CreateCategory(ctx, "Travel")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := queries.CreatePost(ctx, CreatePostParams{
			Title: "p", Body: "b", CategoryID: cat.ID, CreatedAt: time.Now(),
		})
		require.NoError(t, err)
	}

	moved, err := queries.ReassignPosts(ctx, ReassignPostsParams{
		FromCategoryID: cat.ID,
		ToCategoryID:   model.DefaultCategoryID,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, moved)

	count, err := queries.CountPostsByCategory(ctx, cat.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestListCommentsByPost_ReviewedOnly(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	require.NoError(t, Seed(ctx, db))
	queries := New(db)

	post, err := queries.CreatePost(ctx, CreatePostParams{
		Title: "p", Body: "b", CanComment: true, CategoryID: model.DefaultCategoryID, CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	base := time.Now()
	_, err = queries.CreateComment(ctx, CreateCommentParams{
		Author: "alice", Body: "older", Reviewed: true, PostID: post.ID, CreatedAt: base,
	})
	require.NoError(t, err)
	_, err = queries.CreateComment(ctx, CreateCommentParams{
		Author: "bob", Body: "pending", Reviewed: false, PostID: post.ID, CreatedAt: base.Add(time.Second),
	})
	require.NoError(t, err)
	_, err = queries.CreateComment(ctx, CreateCommentParams{
		Author: "carol", Body: "newer", Reviewed: true, PostID: post.ID, CreatedAt: base.Add(2 * time.Second),
	})
	require.NoError(t, err)

	comments, err := queries.ListCommentsByPost(ctx, ListCommentsByPostParams{
		PostID: post.ID, ReviewedOnly: true, Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, comments, 2)
	// Oldest first so threads read top to bottom.
	assert.Equal(t, "older", comments[0].Body)
	assert.Equal(t, "newer", comments[1].Body)

	count, err := queries.CountCommentsByPost(ctx, CountCommentsByPostParams{PostID: post.ID, ReviewedOnly: true})
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestCommentFilters(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	require.NoError(t, Seed(ctx, db))
	queries := New(db)

	post, err := queries.CreatePost(ctx, CreatePostParams{
		Title: "p", Body: "b", CanComment: true, CategoryID: model.DefaultCategoryID, CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	_, err = queries.CreateComment(ctx, CreateCommentParams{
		Author: "alice", Body: "pending", PostID: post.ID, CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	_, err = queries.CreateComment(ctx, CreateCommentParams{
		Author: "Administrator", Body: "mine", FromAdmin: true, Reviewed: true, PostID: post.ID, CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	all, err := queries.CountComments(ctx, model.CommentFilterAll)
	require.NoError(t, err)
	assert.EqualValues(t, 2, all)

	unread, err := queries.CountComments(ctx, model.CommentFilterUnread)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)

	admin, err := queries.CountComments(ctx, model.CommentFilterAdmin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, admin)

	_, err = queries.CountComments(ctx, "bogus")
	assert.Error(t, err)

	n, err := queries.CountUnreadComments(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestEvents(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	queries := New(db)

	require.NoError(t, queries.CreateEvent(ctx, CreateEventParams{
		Level:     model.EventLevelInfo,
		Category:  model.EventCategorySystem,
		Message:   "old entry",
		IPAddress: "127.0.0.1",
		Metadata:  "{}",
		CreatedAt: time.Now().Add(-100 * 24 * time.Hour),
	}))
	require.NoError(t, queries.CreateEvent(ctx, CreateEventParams{
		Level:     model.EventLevelWarning,
		Category:  model.EventCategoryAuth,
		Message:   "recent entry",
		IPAddress: "127.0.0.1",
		Metadata:  "{}",
		CreatedAt: time.Now(),
	}))

	require.NoError(t, queries.DeleteOldEvents(ctx, time.Now().Add(-90*24*time.Hour)))

	events, err := queries.ListEvents(ctx, ListEventsParams{Limit: 10})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "recent entry", events[0].Message)
}
