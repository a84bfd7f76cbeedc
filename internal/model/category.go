// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// DefaultCategoryID is the id of the protected default category. It can
// never be renamed or deleted, and posts belonging to a deleted category
// are reassigned to it.
const DefaultCategoryID int64 = 1

// DefaultCategoryName is the name the default category is seeded with.
const DefaultCategoryName = "Default"

// Category represents a post category.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// IsDefault returns true for the protected default category.
func (c Category) IsDefault() bool {
	return c.ID == DefaultCategoryID
}
