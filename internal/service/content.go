// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/theminimize/myblog/internal/model"
	"github.com/theminimize/myblog/internal/store"
)

const (
	maxPostTitleLen    = 60
	maxCategoryNameLen = 30
)

// ContentService manages posts and categories.
type ContentService struct {
	db      *sql.DB
	queries *store.Queries
	policy  *bluemonday.Policy
}

// NewContentService creates a new ContentService.
func NewContentService(db *sql.DB) *ContentService {
	return &ContentService{
		db:      db,
		queries: store.New(db),
		// UGCPolicy allows the formatting the rich-text editor emits
		// while stripping scripts and event handlers.
		policy: bluemonday.UGCPolicy(),
	}
}

// GetPost returns a post by id.
func (s *ContentService) GetPost(ctx context.Context, id int64) (model.Post, error) {
	post, err := s.queries.GetPostByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Post{}, ErrNotFound
	}
	return post, err
}

// ListPosts returns a page of posts newest first, along with the total count.
func (s *ContentService) ListPosts(ctx context.Context, page, perPage int) ([]model.Post, int64, error) {
	total, err := s.queries.CountPosts(ctx)
	if err != nil {
		return nil, 0, err
	}

	posts, err := s.queries.ListPosts(ctx, store.ListPostsParams{
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// ListPostsByCategory returns a page of a category's posts newest first,
// along with the category's total post count. The category must exist.
func (s *ContentService) ListPostsByCategory(ctx context.Context, categoryID int64, page, perPage int) ([]model.Post, int64, error) {
	if _, err := s.GetCategory(ctx, categoryID); err != nil {
		return nil, 0, err
	}

	total, err := s.queries.CountPostsByCategory(ctx, categoryID)
	if err != nil {
		return nil, 0, err
	}

	posts, err := s.queries.ListPostsByCategory(ctx, store.ListPostsByCategoryParams{
		CategoryID: categoryID,
		Limit:      int64(perPage),
		Offset:     int64((page - 1) * perPage),
	})
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// PostInput carries the post form fields.
type PostInput struct {
	Title      string
	Body       string
	CategoryID int64
}

func (s *ContentService) validatePost(ctx context.Context, in *PostInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Body = s.policy.Sanitize(in.Body)

	ve := NewValidationError()
	if in.Title == "" {
		ve.Add("title", "Title is required")
	} else if utf8.RuneCountInString(in.Title) > maxPostTitleLen {
		ve.Add("title", fmt.Sprintf("Title must be at most %d characters", maxPostTitleLen))
	}
	if strings.TrimSpace(in.Body) == "" {
		ve.Add("body", "Body is required")
	}
	if err := ve.ErrIfAny(); err != nil {
		return err
	}

	if _, err := s.queries.GetCategoryByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			ve.Add("category", "Category does not exist")
			return ve
		}
		return err
	}

	return nil
}

// CreatePost validates, sanitizes, and stores a new post. New posts
// accept comments until turned off.
func (s *ContentService) CreatePost(ctx context.Context, in PostInput) (model.Post, error) {
	if err := s.validatePost(ctx, &in); err != nil {
		return model.Post{}, err
	}

	return s.queries.CreatePost(ctx, store.CreatePostParams{
		Title:      in.Title,
		Body:       in.Body,
		CanComment: true,
		CategoryID: in.CategoryID,
		CreatedAt:  time.Now(),
	})
}

// UpdatePost validates, sanitizes, and overwrites an existing post's
// title, body, and category. Identity and creation time are preserved.
func (s *ContentService) UpdatePost(ctx context.Context, id int64, in PostInput) error {
	if _, err := s.GetPost(ctx, id); err != nil {
		return err
	}
	if err := s.validatePost(ctx, &in); err != nil {
		return err
	}

	return s.queries.UpdatePost(ctx, store.UpdatePostParams{
		ID:         id,
		Title:      in.Title,
		Body:       in.Body,
		CategoryID: in.CategoryID,
	})
}

// SetPostCanComment turns commenting on or off for a post.
func (s *ContentService) SetPostCanComment(ctx context.Context, id int64, canComment bool) error {
	if _, err := s.GetPost(ctx, id); err != nil {
		return err
	}
	return s.queries.SetPostCanComment(ctx, store.SetPostCanCommentParams{
		ID:         id,
		CanComment: canComment,
	})
}

// DeletePost removes a post. Every comment on it, replies included, is
// removed with it.
func (s *ContentService) DeletePost(ctx context.Context, id int64) error {
	if _, err := s.GetPost(ctx, id); err != nil {
		return err
	}
	return s.queries.DeletePost(ctx, id)
}

// GetCategory returns a category by id.
func (s *ContentService) GetCategory(ctx context.Context, id int64) (model.Category, error) {
	cat, err := s.queries.GetCategoryByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Category{}, ErrNotFound
	}
	return cat, err
}

// ListCategories returns all categories ordered by name.
func (s *ContentService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.queries.ListCategories(ctx)
}

func (s *ContentService) validateCategoryName(ctx context.Context, name string, selfID int64) (string, error) {
	name = strings.TrimSpace(name)

	ve := NewValidationError()
	if name == "" {
		ve.Add("name", "Name is required")
	} else if utf8.RuneCountInString(name) > maxCategoryNameLen {
		ve.Add("name", fmt.Sprintf("Name must be at most %d characters", maxCategoryNameLen))
	}
	if err := ve.ErrIfAny(); err != nil {
		return "", err
	}

	existing, err := s.queries.GetCategoryByName(ctx, name)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	if err == nil && existing.ID != selfID {
		ve.Add("name", "A category with that name already exists")
		return "", ve
	}

	return name, nil
}

// CreateCategory validates and stores a new category. Names are unique.
func (s *ContentService) CreateCategory(ctx context.Context, name string) (model.Category, error) {
	name, err := s.validateCategoryName(ctx, name, 0)
	if err != nil {
		return model.Category{}, err
	}
	return s.queries.CreateCategory(ctx, name)
}

// UpdateCategory renames a category. The default category cannot be renamed.
func (s *ContentService) UpdateCategory(ctx context.Context, id int64, name string) error {
	if id == model.DefaultCategoryID {
		return ErrForbidden
	}
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}
	name, err := s.validateCategoryName(ctx, name, id)
	if err != nil {
		return err
	}
	return s.queries.UpdateCategory(ctx, store.UpdateCategoryParams{ID: id, Name: name})
}

// DeleteCategory removes a category, moving its posts to the default
// category in the same transaction. The default category cannot be
// deleted. Returns the number of posts moved.
func (s *ContentService) DeleteCategory(ctx context.Context, id int64) (int64, error) {
	if id == model.DefaultCategoryID {
		return 0, ErrForbidden
	}
	if _, err := s.GetCategory(ctx, id); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	moved, err := qtx.ReassignPosts(ctx, store.ReassignPostsParams{
		FromCategoryID: id,
		ToCategoryID:   model.DefaultCategoryID,
	})
	if err != nil {
		return 0, fmt.Errorf("reassigning posts: %w", err)
	}

	if err := qtx.DeleteCategory(ctx, id); err != nil {
		return 0, fmt.Errorf("deleting category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}

	return moved, nil
}
