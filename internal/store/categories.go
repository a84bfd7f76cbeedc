// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/theminimize/myblog/internal/model"
)

// GetCategoryByID returns the category with the given id.
func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (model.Category, error) {
	var c model.Category
	err := q.db.QueryRowContext(ctx,
		"SELECT id, name FROM categories WHERE id = ?", id).Scan(&c.ID, &c.Name)
	return c, err
}

// GetCategoryByName returns the category with the given exact name.
func (q *Queries) GetCategoryByName(ctx context.Context, name string) (model.Category, error) {
	var c model.Category
	err := q.db.QueryRowContext(ctx,
		"SELECT id, name FROM categories WHERE name = ?", name).Scan(&c.ID, &c.Name)
	return c, err
}

// ListCategories returns all categories ordered by name.
func (q *Queries) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := q.db.QueryContext(ctx, "SELECT id, name FROM categories ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CreateCategory inserts a new category and returns it.
func (q *Queries) CreateCategory(ctx context.Context, name string) (model.Category, error) {
	res, err := q.db.ExecContext(ctx, "INSERT INTO categories (name) VALUES (?)", name)
	if err != nil {
		return model.Category{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Category{}, err
	}
	return model.Category{ID: id, Name: name}, nil
}

// UpdateCategoryParams holds parameters for UpdateCategory.
type UpdateCategoryParams struct {
	ID   int64
	Name string
}

// UpdateCategory renames a category.
func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE categories SET name = ? WHERE id = ?", arg.Name, arg.ID)
	return err
}

// DeleteCategory removes a category row. Callers must reassign the
// category's posts first; see service.ContentService.DeleteCategory.
func (q *Queries) DeleteCategory(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	return err
}

// ReassignPostsParams holds parameters for ReassignPosts.
type ReassignPostsParams struct {
	FromCategoryID int64
	ToCategoryID   int64
}

// ReassignPosts moves every post owned by one category to another.
// Returns the number of posts moved.
func (q *Queries) ReassignPosts(ctx context.Context, arg ReassignPostsParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		"UPDATE posts SET category_id = ? WHERE category_id = ?",
		arg.ToCategoryID, arg.FromCategoryID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountCategories returns the number of categories.
func (q *Queries) CountCategories(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&count)
	return count, err
}
