// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/theminimize/myblog/internal/model"
)

const postColumns = "id, title, body, can_comment, category_id, created_at"

func scanPost(row *sql.Row) (model.Post, error) {
	var p model.Post
	err := row.Scan(&p.ID, &p.Title, &p.Body, &p.CanComment, &p.CategoryID, &p.CreatedAt)
	return p, err
}

func scanPosts(rows *sql.Rows) ([]model.Post, error) {
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Body, &p.CanComment, &p.CategoryID, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// GetPostByID returns the post with the given id.
func (q *Queries) GetPostByID(ctx context.Context, id int64) (model.Post, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE id = ?", id)
	return scanPost(row)
}

// ListPostsParams holds parameters for ListPosts.
type ListPostsParams struct {
	Limit  int64
	Offset int64
}

// ListPosts returns posts ordered by creation time descending.
func (q *Queries) ListPosts(ctx context.Context, arg ListPostsParams) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+postColumns+" FROM posts ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return scanPosts(rows)
}

// ListPostsByCategoryParams holds parameters for ListPostsByCategory.
type ListPostsByCategoryParams struct {
	CategoryID int64
	Limit      int64
	Offset     int64
}

// ListPostsByCategory returns a category's posts ordered by creation time descending.
func (q *Queries) ListPostsByCategory(ctx context.Context, arg ListPostsByCategoryParams) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE category_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		arg.CategoryID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return scanPosts(rows)
}

// CreatePostParams holds parameters for CreatePost.
type CreatePostParams struct {
	Title      string
	Body       string
	CanComment bool
	CategoryID int64
	CreatedAt  time.Time
}

// CreatePost inserts a new post and returns it.
func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (model.Post, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO posts (title, body, can_comment, category_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		arg.Title, arg.Body, arg.CanComment, arg.CategoryID, arg.CreatedAt)
	if err != nil {
		return model.Post{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Post{}, err
	}
	return q.GetPostByID(ctx, id)
}

// UpdatePostParams holds parameters for UpdatePost.
type UpdatePostParams struct {
	ID         int64
	Title      string
	Body       string
	CategoryID int64
}

// UpdatePost overwrites a post's title, body, and category in place,
// preserving id and creation time.
func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE posts SET title = ?, body = ?, category_id = ? WHERE id = ?",
		arg.Title, arg.Body, arg.CategoryID, arg.ID)
	return err
}

// SetPostCanCommentParams holds parameters for SetPostCanComment.
type SetPostCanCommentParams struct {
	ID         int64
	CanComment bool
}

// SetPostCanComment sets a post's comment-permission flag.
func (q *Queries) SetPostCanComment(ctx context.Context, arg SetPostCanCommentParams) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE posts SET can_comment = ? WHERE id = ?", arg.CanComment, arg.ID)
	return err
}

// DeletePost removes a post. Its comments are removed by the ON DELETE
// CASCADE foreign key.
func (q *Queries) DeletePost(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
	return err
}

// CountPosts returns the total number of posts.
func (q *Queries) CountPosts(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&count)
	return count, err
}

// CountPostsByCategory returns the number of posts in a category.
func (q *Queries) CountPostsByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM posts WHERE category_id = ?", categoryID).Scan(&count)
	return count, err
}
