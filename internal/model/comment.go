// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Comment filter values for the moderation list.
const (
	CommentFilterAll    = "all"
	CommentFilterUnread = "unread"
	CommentFilterAdmin  = "admin"
)

// Comment represents a visitor or admin comment on a post. RepliedID, when
// valid, points at another comment on the same post, forming a reply chain.
// Deleting a comment removes its entire reply chain; deleting a post removes
// all its comments.
type Comment struct {
	ID        int64         `json:"id"`
	Author    string        `json:"author"`
	Body      string        `json:"body"`
	FromAdmin bool          `json:"from_admin"`
	Reviewed  bool          `json:"reviewed"`
	PostID    int64         `json:"post_id"`
	RepliedID sql.NullInt64 `json:"replied_id,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// IsReply returns true if the comment replies to another comment.
func (c Comment) IsReply() bool {
	return c.RepliedID.Valid
}
