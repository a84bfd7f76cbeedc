// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"

	"github.com/theminimize/myblog/internal/model"
)

const adminColumns = "id, username, password_hash, blog_title, blog_subtitle, name, about"

func scanAdmin(row *sql.Row) (model.Admin, error) {
	var a model.Admin
	err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.BlogTitle, &a.BlogSubtitle, &a.Name, &a.About)
	return a, err
}

// GetAdmin returns the singleton admin account: the row with the lowest id.
// Returns sql.ErrNoRows when no admin has been provisioned.
func (q *Queries) GetAdmin(ctx context.Context) (model.Admin, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+adminColumns+" FROM admins ORDER BY id LIMIT 1")
	return scanAdmin(row)
}

// GetAdminByID returns the admin with the given id.
func (q *Queries) GetAdminByID(ctx context.Context, id int64) (model.Admin, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+adminColumns+" FROM admins WHERE id = ?", id)
	return scanAdmin(row)
}

// CreateAdminParams holds parameters for CreateAdmin.
type CreateAdminParams struct {
	Username     string
	PasswordHash string
	BlogTitle    string
	BlogSubtitle string
	Name         string
	About        string
}

// CreateAdmin inserts a new admin account and returns it.
func (q *Queries) CreateAdmin(ctx context.Context, arg CreateAdminParams) (model.Admin, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO admins (username, password_hash, blog_title, blog_subtitle, name, about)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		arg.Username, arg.PasswordHash, arg.BlogTitle, arg.BlogSubtitle, arg.Name, arg.About)
	if err != nil {
		return model.Admin{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Admin{}, err
	}
	return q.GetAdminByID(ctx, id)
}

// UpdateAdminSettingsParams holds parameters for UpdateAdminSettings.
type UpdateAdminSettingsParams struct {
	ID           int64
	BlogTitle    string
	BlogSubtitle string
	Name         string
	About        string
}

// UpdateAdminSettings updates the blog profile fields of an admin account.
func (q *Queries) UpdateAdminSettings(ctx context.Context, arg UpdateAdminSettingsParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE admins SET blog_title = ?, blog_subtitle = ?, name = ?, about = ? WHERE id = ?`,
		arg.BlogTitle, arg.BlogSubtitle, arg.Name, arg.About, arg.ID)
	return err
}

// UpdateAdminPasswordParams holds parameters for UpdateAdminPassword.
type UpdateAdminPasswordParams struct {
	ID           int64
	PasswordHash string
}

// UpdateAdminPassword replaces the stored password hash.
func (q *Queries) UpdateAdminPassword(ctx context.Context, arg UpdateAdminPasswordParams) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE admins SET password_hash = ? WHERE id = ?", arg.PasswordHash, arg.ID)
	return err
}

// CountAdmins returns the number of admin rows.
func (q *Queries) CountAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM admins").Scan(&count)
	return count, err
}
