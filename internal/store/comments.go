// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/theminimize/myblog/internal/model"
)

const commentColumns = "id, author, body, from_admin, reviewed, post_id, replied_id, created_at"

func scanComment(row *sql.Row) (model.Comment, error) {
	var c model.Comment
	err := row.Scan(&c.ID, &c.Author, &c.Body, &c.FromAdmin, &c.Reviewed, &c.PostID, &c.RepliedID, &c.CreatedAt)
	return c, err
}

func scanComments(rows *sql.Rows) ([]model.Comment, error) {
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.Author, &c.Body, &c.FromAdmin, &c.Reviewed, &c.PostID, &c.RepliedID, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// GetCommentByID returns the comment with the given id.
func (q *Queries) GetCommentByID(ctx context.Context, id int64) (model.Comment, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE id = ?", id)
	return scanComment(row)
}

// CreateCommentParams holds parameters for CreateComment.
type CreateCommentParams struct {
	Author    string
	Body      string
	FromAdmin bool
	Reviewed  bool
	PostID    int64
	RepliedID sql.NullInt64
	CreatedAt time.Time
}

// CreateComment inserts a new comment and returns it.
func (q *Queries) CreateComment(ctx context.Context, arg CreateCommentParams) (model.Comment, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO comments (author, body, from_admin, reviewed, post_id, replied_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.Author, arg.Body, arg.FromAdmin, arg.Reviewed, arg.PostID, arg.RepliedID, arg.CreatedAt)
	if err != nil {
		return model.Comment{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Comment{}, err
	}
	return q.GetCommentByID(ctx, id)
}

// SetCommentReviewed marks a comment as moderation-approved.
func (q *Queries) SetCommentReviewed(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "UPDATE comments SET reviewed = 1 WHERE id = ?", id)
	return err
}

// DeleteCommentChain removes a comment together with every comment that
// transitively replies to it, in a single statement.
func (q *Queries) DeleteCommentChain(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `
		WITH RECURSIVE chain(id) AS (
			SELECT id FROM comments WHERE id = ?
			UNION ALL
			SELECT c.id FROM comments c JOIN chain ON c.replied_id = chain.id
		)
		DELETE FROM comments WHERE id IN (SELECT id FROM chain)`, id)
	return err
}

// ListCommentsParams holds parameters for ListComments.
type ListCommentsParams struct {
	Filter string // model.CommentFilterAll, Unread, or Admin
	Limit  int64
	Offset int64
}

// commentFilterClause maps a moderation filter to its WHERE clause.
func commentFilterClause(filter string) (string, error) {
	switch filter {
	case model.CommentFilterAll, "":
		return "", nil
	case model.CommentFilterUnread:
		return " WHERE reviewed = 0", nil
	case model.CommentFilterAdmin:
		return " WHERE from_admin = 1", nil
	default:
		return "", fmt.Errorf("unknown comment filter %q", filter)
	}
}

// ListComments returns comments matching the moderation filter, ordered by
// creation time descending.
func (q *Queries) ListComments(ctx context.Context, arg ListCommentsParams) ([]model.Comment, error) {
	where, err := commentFilterClause(arg.Filter)
	if err != nil {
		return nil, err
	}
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+commentColumns+" FROM comments"+where+
			" ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return scanComments(rows)
}

// CountComments returns the number of comments matching the moderation filter.
func (q *Queries) CountComments(ctx context.Context, filter string) (int64, error) {
	where, err := commentFilterClause(filter)
	if err != nil {
		return 0, err
	}
	var count int64
	err = q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM comments"+where).Scan(&count)
	return count, err
}

// ListCommentsByPostParams holds parameters for ListCommentsByPost.
type ListCommentsByPostParams struct {
	PostID       int64
	ReviewedOnly bool
	Limit        int64
	Offset       int64
}

// ListCommentsByPost returns a post's comments in conversation order,
// oldest first. ReviewedOnly restricts the list to moderated comments.
func (q *Queries) ListCommentsByPost(ctx context.Context, arg ListCommentsByPostParams) ([]model.Comment, error) {
	query := "SELECT " + commentColumns + " FROM comments WHERE post_id = ?"
	if arg.ReviewedOnly {
		query += " AND reviewed = 1"
	}
	query += " ORDER BY created_at ASC, id ASC LIMIT ? OFFSET ?"
	rows, err := q.db.QueryContext(ctx, query, arg.PostID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return scanComments(rows)
}

// CountCommentsByPostParams holds parameters for CountCommentsByPost.
type CountCommentsByPostParams struct {
	PostID       int64
	ReviewedOnly bool
}

// CountCommentsByPost returns the number of comments on a post.
func (q *Queries) CountCommentsByPost(ctx context.Context, arg CountCommentsByPostParams) (int64, error) {
	query := "SELECT COUNT(*) FROM comments WHERE post_id = ?"
	if arg.ReviewedOnly {
		query += " AND reviewed = 1"
	}
	var count int64
	err := q.db.QueryRowContext(ctx, query, arg.PostID).Scan(&count)
	return count, err
}

// CountUnreadComments returns the number of comments awaiting moderation.
func (q *Queries) CountUnreadComments(ctx context.Context) (int64, error) {
	return q.CountComments(ctx, model.CommentFilterUnread)
}
