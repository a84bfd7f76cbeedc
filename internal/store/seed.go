// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/theminimize/myblog/internal/auth"
	"github.com/theminimize/myblog/internal/model"
)

// Default admin credentials used when the database has no admin yet.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "changeme"
)

// Seed provisions the data every installation needs before first use:
// the protected default category (id = 1) and the admin account.
// It is idempotent and safe to run on every startup.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	// Ensure the default category exists with its fixed id.
	_, err := queries.GetCategoryByID(ctx, model.DefaultCategoryID)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := db.ExecContext(ctx,
			"INSERT INTO categories (id, name) VALUES (?, ?)",
			model.DefaultCategoryID, model.DefaultCategoryName); err != nil {
			return fmt.Errorf("creating default category: %w", err)
		}
		slog.Info("created default category", "id", model.DefaultCategoryID)
	} else if err != nil {
		return fmt.Errorf("checking default category: %w", err)
	}

	// Ensure the admin account exists.
	_, err = queries.GetAdmin(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin account: %w", err)
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	admin, err := queries.CreateAdmin(ctx, CreateAdminParams{
		Username:     DefaultAdminUsername,
		PasswordHash: passwordHash,
		BlogTitle:    "My Blog",
		BlogSubtitle: "Notes to self",
		Name:         "Administrator",
		About:        "Welcome to my personal blog.",
	})
	if err != nil {
		return fmt.Errorf("creating admin account: %w", err)
	}

	slog.Info("created default admin account",
		"id", admin.ID,
		"username", admin.Username,
		"password", DefaultAdminPassword,
	)

	return nil
}
