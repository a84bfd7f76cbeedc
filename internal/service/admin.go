// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/theminimize/myblog/internal/auth"
	"github.com/theminimize/myblog/internal/model"
	"github.com/theminimize/myblog/internal/store"
)

// Field length limits for the settings form.
const (
	maxAdminNameLen    = 30
	maxBlogTitleLen    = 60
	maxBlogSubtitleLen = 100
)

// AdminService manages the blog owner account and its settings.
type AdminService struct {
	queries *store.Queries
}

// NewAdminService creates a new AdminService.
func NewAdminService(db *sql.DB) *AdminService {
	return &AdminService{
		queries: store.New(db),
	}
}

// Get returns the blog owner account.
func (s *AdminService) Get(ctx context.Context) (model.Admin, error) {
	admin, err := s.queries.GetAdmin(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Admin{}, ErrNoAdminAccount
	}
	return admin, err
}

// Login verifies the given credentials against the blog owner account and
// returns the account on success. A missing account yields ErrNoAdminAccount;
// a bad username and a bad password both yield ErrInvalidCredentials so a
// caller cannot tell which one was wrong.
func (s *AdminService) Login(ctx context.Context, username, password string) (model.Admin, error) {
	admin, err := s.queries.GetAdmin(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Admin{}, ErrNoAdminAccount
	}
	if err != nil {
		return model.Admin{}, fmt.Errorf("loading admin account: %w", err)
	}

	if admin.Username != username {
		// Burn a hash check anyway to keep the timing uniform.
		_, _ = auth.CheckPassword(password, admin.PasswordHash)
		return model.Admin{}, ErrInvalidCredentials
	}

	ok, err := auth.CheckPassword(password, admin.PasswordHash)
	if err != nil {
		// A stored hash that cannot be parsed can never match.
		slog.Error("stored password hash unreadable", "error", err, "admin_id", admin.ID)
		return model.Admin{}, ErrInvalidCredentials
	}
	if !ok {
		return model.Admin{}, ErrInvalidCredentials
	}

	if auth.NeedsRehash(admin.PasswordHash) {
		if err := s.rehash(ctx, admin.ID, password); err != nil {
			slog.Warn("password rehash failed", "error", err)
		}
	}

	return admin, nil
}

func (s *AdminService) rehash(ctx context.Context, id int64, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return s.queries.UpdateAdminPassword(ctx, store.UpdateAdminPasswordParams{
		ID:           id,
		PasswordHash: hash,
	})
}

// UpdateSettingsInput carries the settings form fields.
type UpdateSettingsInput struct {
	Name         string
	BlogTitle    string
	BlogSubtitle string
	About        string
}

// UpdateSettings validates and saves the blog profile.
func (s *AdminService) UpdateSettings(ctx context.Context, in UpdateSettingsInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.BlogTitle = strings.TrimSpace(in.BlogTitle)
	in.BlogSubtitle = strings.TrimSpace(in.BlogSubtitle)

	ve := NewValidationError()
	if in.Name == "" {
		ve.Add("name", "Name is required")
	} else if utf8.RuneCountInString(in.Name) > maxAdminNameLen {
		ve.Add("name", fmt.Sprintf("Name must be at most %d characters", maxAdminNameLen))
	}
	if in.BlogTitle == "" {
		ve.Add("blog_title", "Blog title is required")
	} else if utf8.RuneCountInString(in.BlogTitle) > maxBlogTitleLen {
		ve.Add("blog_title", fmt.Sprintf("Blog title must be at most %d characters", maxBlogTitleLen))
	}
	if in.BlogSubtitle == "" {
		ve.Add("blog_subtitle", "Blog subtitle is required")
	} else if utf8.RuneCountInString(in.BlogSubtitle) > maxBlogSubtitleLen {
		ve.Add("blog_subtitle", fmt.Sprintf("Blog subtitle must be at most %d characters", maxBlogSubtitleLen))
	}
	if strings.TrimSpace(in.About) == "" {
		ve.Add("about", "About page content is required")
	}
	if err := ve.ErrIfAny(); err != nil {
		return err
	}

	admin, err := s.Get(ctx)
	if err != nil {
		return err
	}

	return s.queries.UpdateAdminSettings(ctx, store.UpdateAdminSettingsParams{
		ID:           admin.ID,
		BlogTitle:    in.BlogTitle,
		BlogSubtitle: in.BlogSubtitle,
		Name:         in.Name,
		About:        in.About,
	})
}

// ChangePassword verifies the current password and stores a new hash.
func (s *AdminService) ChangePassword(ctx context.Context, current, newPassword string) error {
	admin, err := s.Get(ctx)
	if err != nil {
		return err
	}

	ok, err := auth.CheckPassword(current, admin.PasswordHash)
	if err != nil {
		slog.Error("stored password hash unreadable", "error", err, "admin_id", admin.ID)
		return ErrInvalidCredentials
	}
	if !ok {
		return ErrInvalidCredentials
	}

	ve := NewValidationError()
	if len(newPassword) < 8 {
		ve.Add("password", "Password must be at least 8 characters")
	}
	if err := ve.ErrIfAny(); err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	return s.queries.UpdateAdminPassword(ctx, store.UpdateAdminPasswordParams{
		ID:           admin.ID,
		PasswordHash: hash,
	})
}
