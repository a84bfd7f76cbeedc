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

	"github.com/theminimize/myblog/internal/model"
	"github.com/theminimize/myblog/internal/store"
)

const maxCommentAuthorLen = 30

// CommentService manages visitor comments and their moderation.
type CommentService struct {
	queries *store.Queries
}

// NewCommentService creates a new CommentService.
func NewCommentService(db *sql.DB) *CommentService {
	return &CommentService{
		queries: store.New(db),
	}
}

// Get returns a comment by id.
func (s *CommentService) Get(ctx context.Context, id int64) (model.Comment, error) {
	comment, err := s.queries.GetCommentByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Comment{}, ErrNotFound
	}
	return comment, err
}

// SubmitInput carries the comment form fields. FromAdmin marks a comment
// left by the signed-in blog owner; such comments skip moderation.
type SubmitInput struct {
	PostID    int64
	Author    string
	Body      string
	RepliedID *int64
	FromAdmin bool
}

// Submit validates and stores a new comment. The post must exist and
// accept comments. A reply must target an existing comment on the same
// post. Visitor comments await moderation; owner comments are published
// immediately.
func (s *CommentService) Submit(ctx context.Context, in SubmitInput) (model.Comment, error) {
	post, err := s.queries.GetPostByID(ctx, in.PostID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Comment{}, ErrNotFound
	}
	if err != nil {
		return model.Comment{}, err
	}
	if !post.CanComment {
		return model.Comment{}, ErrForbidden
	}

	in.Author = strings.TrimSpace(in.Author)
	in.Body = strings.TrimSpace(in.Body)

	ve := NewValidationError()
	if in.Author == "" {
		ve.Add("author", "Name is required")
	} else if utf8.RuneCountInString(in.Author) > maxCommentAuthorLen {
		ve.Add("author", fmt.Sprintf("Name must be at most %d characters", maxCommentAuthorLen))
	}
	if in.Body == "" {
		ve.Add("body", "Comment is required")
	}
	if err := ve.ErrIfAny(); err != nil {
		return model.Comment{}, err
	}

	var repliedID sql.NullInt64
	if in.RepliedID != nil {
		parent, err := s.queries.GetCommentByID(ctx, *in.RepliedID)
		if errors.Is(err, sql.ErrNoRows) {
			return model.Comment{}, ErrNotFound
		}
		if err != nil {
			return model.Comment{}, err
		}
		if parent.PostID != in.PostID {
			ve.Add("replied", "Reply must target a comment on the same post")
			return model.Comment{}, ve
		}
		repliedID = sql.NullInt64{Int64: parent.ID, Valid: true}
	}

	return s.queries.CreateComment(ctx, store.CreateCommentParams{
		Author:    in.Author,
		Body:      in.Body,
		FromAdmin: in.FromAdmin,
		Reviewed:  in.FromAdmin,
		PostID:    in.PostID,
		RepliedID: repliedID,
		CreatedAt: time.Now(),
	})
}

// Approve publishes a comment that was awaiting moderation.
func (s *CommentService) Approve(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.queries.SetCommentReviewed(ctx, id)
}

// Delete removes a comment together with its whole reply chain.
func (s *CommentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.queries.DeleteCommentChain(ctx, id)
}

// ListByPost returns a page of a post's published comments in
// conversation order, along with the total published count.
func (s *CommentService) ListByPost(ctx context.Context, postID int64, page, perPage int) ([]model.Comment, int64, error) {
	total, err := s.queries.CountCommentsByPost(ctx, store.CountCommentsByPostParams{
		PostID:       postID,
		ReviewedOnly: true,
	})
	if err != nil {
		return nil, 0, err
	}

	comments, err := s.queries.ListCommentsByPost(ctx, store.ListCommentsByPostParams{
		PostID:       postID,
		ReviewedOnly: true,
		Limit:        int64(perPage),
		Offset:       int64((page - 1) * perPage),
	})
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// List returns a page of comments matching the moderation filter,
// newest first, along with the filter's total count.
func (s *CommentService) List(ctx context.Context, filter string, page, perPage int) ([]model.Comment, int64, error) {
	total, err := s.queries.CountComments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	comments, err := s.queries.ListComments(ctx, store.ListCommentsParams{
		Filter: filter,
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// UnreadCount returns the number of comments awaiting moderation.
func (s *CommentService) UnreadCount(ctx context.Context) (int64, error) {
	return s.queries.CountUnreadComments(ctx)
}
