// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/theminimize/myblog/internal/model"
)

// Demo content volumes, matching a small personal blog.
const (
	demoCategoryCount = 5
	demoPostCount     = 25
	demoCommentCount  = 150
)

var demoCategoryNames = []string{"Go", "Databases", "Travel", "Music", "Reading"}

var demoPostTitles = []string{
	"Getting comfortable with table-driven tests",
	"A weekend in the mountains",
	"Why I still keep a reading log",
	"SQLite in production, two years later",
	"Notes from a vinyl crate dig",
}

var demoCommentBodies = []string{
	"Great write-up, thanks for sharing.",
	"I ran into the same issue last month.",
	"Could you expand on the second point?",
	"Bookmarked for later reading.",
	"This helped me fix a long-standing bug.",
	"Not sure I agree, but interesting take.",
}

var demoAuthors = []string{"alice", "bob", "carol", "dave", "erin", "frank"}

// SeedDemo fills an empty database with demo categories, posts, and
// threaded comments. It refuses to run when posts already exist so a real
// installation is never polluted.
func SeedDemo(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	count, err := queries.CountPosts(ctx)
	if err != nil {
		return fmt.Errorf("counting posts: %w", err)
	}
	if count > 0 {
		slog.Info("demo seed skipped, posts already exist", "posts", count)
		return nil
	}

	admin, err := queries.GetAdmin(ctx)
	if err != nil {
		return fmt.Errorf("loading admin for demo seed: %w", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// Categories beyond the seeded default.
	categoryIDs := []int64{model.DefaultCategoryID}
	for i := 0; i < demoCategoryCount; i++ {
		c, err := queries.CreateCategory(ctx, demoCategoryNames[i%len(demoCategoryNames)])
		if err != nil {
			// Duplicate names are fine, just reuse the default.
			continue
		}
		categoryIDs = append(categoryIDs, c.ID)
	}

	// Posts spread over the last year.
	var postIDs []int64
	for i := 0; i < demoPostCount; i++ {
		title := fmt.Sprintf("%s (%d)", demoPostTitles[i%len(demoPostTitles)], i+1)
		createdAt := time.Now().Add(-time.Duration(rng.Intn(365*24)) * time.Hour)
		p, err := queries.CreatePost(ctx, CreatePostParams{
			Title:      title,
			Body:       "<p>" + demoPostBody + "</p>",
			CanComment: true,
			CategoryID: categoryIDs[rng.Intn(len(categoryIDs))],
			CreatedAt:  createdAt,
		})
		if err != nil {
			return fmt.Errorf("creating demo post: %w", err)
		}
		postIDs = append(postIDs, p.ID)
	}

	// Visitor comments, most already reviewed.
	var commentIDs []int64
	for i := 0; i < demoCommentCount; i++ {
		c, err := queries.CreateComment(ctx, CreateCommentParams{
			Author:    demoAuthors[rng.Intn(len(demoAuthors))],
			Body:      demoCommentBodies[rng.Intn(len(demoCommentBodies))],
			Reviewed:  rng.Intn(10) > 1,
			PostID:    postIDs[rng.Intn(len(postIDs))],
			CreatedAt: time.Now().Add(-time.Duration(rng.Intn(180*24)) * time.Hour),
		})
		if err != nil {
			return fmt.Errorf("creating demo comment: %w", err)
		}
		commentIDs = append(commentIDs, c.ID)
	}

	// A handful of admin comments and replies to existing comments.
	salt := demoCommentCount / 10
	for i := 0; i < salt; i++ {
		if _, err := queries.CreateComment(ctx, CreateCommentParams{
			Author:    admin.Name,
			Body:      demoCommentBodies[rng.Intn(len(demoCommentBodies))],
			FromAdmin: true,
			Reviewed:  true,
			PostID:    postIDs[rng.Intn(len(postIDs))],
			CreatedAt: time.Now().Add(-time.Duration(rng.Intn(90*24)) * time.Hour),
		}); err != nil {
			return fmt.Errorf("creating demo admin comment: %w", err)
		}

		parent, err := queries.GetCommentByID(ctx, commentIDs[rng.Intn(len(commentIDs))])
		if err != nil {
			continue
		}
		if _, err := queries.CreateComment(ctx, CreateCommentParams{
			Author:    demoAuthors[rng.Intn(len(demoAuthors))],
			Body:      demoCommentBodies[rng.Intn(len(demoCommentBodies))],
			Reviewed:  rng.Intn(2) == 0,
			PostID:    parent.PostID,
			RepliedID: sql.NullInt64{Int64: parent.ID, Valid: true},
			CreatedAt: parent.CreatedAt.Add(time.Duration(1+rng.Intn(48)) * time.Hour),
		}); err != nil {
			return fmt.Errorf("creating demo reply: %w", err)
		}
	}

	slog.Info("demo content seeded",
		"categories", len(categoryIDs),
		"posts", len(postIDs),
		"comments", demoCommentCount+2*salt,
	)
	return nil
}

const demoPostBody = "Lorem ipsum dolor sit amet, consectetur adipiscing elit. " +
	"Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua. " +
	"Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris " +
	"nisi ut aliquip ex ea commodo consequat."
