// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theminimize/myblog/internal/model"
	"github.com/theminimize/myblog/internal/store"
	"github.com/theminimize/myblog/internal/testutil"
)

type commentFixture struct {
	db       *sql.DB
	content  *ContentService
	comments *CommentService
	post     model.Post
}

func newCommentFixture(t *testing.T) *commentFixture {
	t.Helper()
	db := testutil.TestDB(t)
	ctx := context.Background()
	require.NoError(t, store.Seed(ctx, db))

	content := NewContentService(db)
	post, err := content.CreatePost(ctx, PostInput{
		Title: "A Post", Body: "<p>body</p>", CategoryID: model.DefaultCategoryID,
	})
	require.NoError(t, err)

	return &commentFixture{
		db:       db,
		content:  content,
		comments: NewCommentService(db),
		post:     post,
	}
}

func TestSubmitComment(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	c, err := f.comments.Submit(ctx, SubmitInput{
		PostID: f.post.ID,
		Author: "Alice",
		Body:   "Nice post!",
	})
	require.NoError(t, err)

	assert.False(t, c.Reviewed, "visitor comments await moderation")
	assert.False(t, c.FromAdmin)
	assert.False(t, c.IsReply())
}

func TestSubmitComment_FromAdmin(t *testing.T) {
	f := newCommentFixture(t)

	c, err := f.comments.Submit(context.Background(), SubmitInput{
		PostID:    f.post.ID,
		Author:    "Administrator",
		Body:      "Thanks!",
		FromAdmin: true,
	})
	require.NoError(t, err)

	assert.True(t, c.Reviewed, "owner comments publish immediately")
	assert.True(t, c.FromAdmin)
}

func TestSubmitComment_PostNotFound(t *testing.T) {
	f := newCommentFixture(t)

	_, err := f.comments.Submit(context.Background(), SubmitInput{
		PostID: 999, Author: "Alice", Body: "hi",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitComment_CommentsDisabled(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	require.NoError(t, f.content.SetPostCanComment(ctx, f.post.ID, false))

	_, err := f.comments.Submit(ctx, SubmitInput{
		PostID: f.post.ID, Author: "Alice", Body: "hi",
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSubmitComment_Validation(t *testing.T) {
	f := newCommentFixture(t)

	_, err := f.comments.Submit(context.Background(), SubmitInput{
		PostID: f.post.ID, Author: " ", Body: "",
	})
	ve, ok := IsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "author")
	assert.Contains(t, ve.Fields, "body")
}

func TestSubmitComment_MultibyteAuthorLimit(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	// The author limit counts characters, not bytes.
	_, err := f.comments.Submit(ctx, SubmitInput{
		PostID: f.post.ID, Author: strings.Repeat("я", maxCommentAuthorLen), Body: "hi",
	})
	require.NoError(t, err)

	_, err = f.comments.Submit(ctx, SubmitInput{
		PostID: f.post.ID, Author: strings.Repeat("я", maxCommentAuthorLen+1), Body: "hi",
	})
	ve, ok := IsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "author")
}

func TestSubmitComment_Reply(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	parent, err := f.comments.Submit(ctx, SubmitInput{
		PostID: f.post.ID, Author: "Alice", Body: "first",
	})
	require.NoError(t, err)

	reply, err := f.comments.Submit(ctx, SubmitInput{
		PostID:    f.post.ID,
		Author:    "Bob",
		Body:      "replying",
		RepliedID: &parent.ID,
	})
	require.NoError(t, err)

	assert.True(t, reply.IsReply())
	assert.Equal(t, parent.ID, reply.RepliedID.Int64)
}

func TestSubmitComment_CrossPostReplyRejected(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	other, err := f.content.CreatePost(ctx, PostInput{
		Title: "Other", Body: "b", CategoryID: model.DefaultCategoryID,
	})
	require.NoError(t, err)

	parent, err := f.comments.Submit(ctx, SubmitInput{
		PostID: other.ID, Author: "Alice", Body: "on the other post",
	})
	require.NoError(t, err)

	_, err = f.comments.Submit(ctx, SubmitInput{
		PostID:    f.post.ID,
		Author:    "Bob",
		Body:      "cross-post reply",
		RepliedID: &parent.ID,
	})
	ve, ok := IsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "replied")
}

func TestApproveComment(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	c, err := f.comments.Submit(ctx, SubmitInput{
		PostID: f.post.ID, Author: "Alice", Body: "hi",
	})
	require.NoError(t, err)

	unread, err := f.comments.UnreadCount(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)

	require.NoError(t, f.comments.Approve(ctx, c.ID))

	unread, err = f.comments.UnreadCount(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, unread)

	got, err := f.comments.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, got.Reviewed)
}

func TestDeleteComment_RemovesReplyChain(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	root, err := f.comments.Submit(ctx, SubmitInput{
		PostID: f.post.ID, Author: "Alice", Body: "root",
	})
	require.NoError(t, err)
	child, err := f.comments.Submit(ctx, SubmitInput{
		PostID: f.post.ID, Author: "Bob", Body: "child", RepliedID: &root.ID,
	})
	require.NoError(t, err)
	grandchild, err := f.comments.Submit(ctx, SubmitInput{
		PostID: f.post.ID, Author: "Carol", Body: "grandchild", RepliedID: &child.ID,
	})
	require.NoError(t, err)
	unrelated, err := f.comments.Submit(ctx, SubmitInput{
		PostID: f.post.ID, Author: "Dave", Body: "unrelated",
	})
	require.NoError(t, err)

	require.NoError(t, f.comments.Delete(ctx, root.ID))

	for _, id := range []int64{root.ID, child.ID, grandchild.ID} {
		_, err := f.comments.Get(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound)
	}

	_, err = f.comments.Get(ctx, unrelated.ID)
	assert.NoError(t, err)
}

func TestDeletePost_RemovesComments(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	c, err := f.comments.Submit(ctx, SubmitInput{
		PostID: f.post.ID, Author: "Alice", Body: "hi",
	})
	require.NoError(t, err)

	require.NoError(t, f.content.DeletePost(ctx, f.post.ID))

	_, err = f.comments.Get(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListByPost_PublishedOnlyInConversationOrder(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	first, err := f.comments.Submit(ctx, SubmitInput{
		PostID: f.post.ID, Author: "Alice", Body: "first",
	})
	require.NoError(t, err)
	_, err = f.comments.Submit(ctx, SubmitInput{
		PostID: f.post.ID, Author: "Bob", Body: "pending",
	})
	require.NoError(t, err)
	admin, err := f.comments.Submit(ctx, SubmitInput{
		PostID: f.post.ID, Author: "Administrator", Body: "reply", FromAdmin: true,
	})
	require.NoError(t, err)

	require.NoError(t, f.comments.Approve(ctx, first.ID))

	comments, total, err := f.comments.ListByPost(ctx, f.post.ID, 1, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, comments, 2)
	assert.Equal(t, first.ID, comments[0].ID)
	assert.Equal(t, admin.ID, comments[1].ID)
}

func TestListComments_Filters(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	_, err := f.comments.Submit(ctx, SubmitInput{
		PostID: f.post.ID, Author: "Alice", Body: "pending",
	})
	require.NoError(t, err)
	_, err = f.comments.Submit(ctx, SubmitInput{
		PostID: f.post.ID, Author: "Administrator", Body: "mine", FromAdmin: true,
	})
	require.NoError(t, err)

	_, total, err := f.comments.List(ctx, model.CommentFilterAll, 1, 15)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	_, total, err = f.comments.List(ctx, model.CommentFilterUnread, 1, 15)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, total, err = f.comments.List(ctx, model.CommentFilterAdmin, 1, 15)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, _, err = f.comments.List(ctx, "bogus", 1, 15)
	assert.Error(t, err)
}
