// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theminimize/myblog/internal/model"
	"github.com/theminimize/myblog/internal/store"
	"github.com/theminimize/myblog/internal/testutil"
)

func TestEventService(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewEventService(db)
	ctx := context.Background()

	// Events reference the admin account, so it has to exist first.
	require.NoError(t, store.Seed(ctx, db))

	adminID := int64(1)
	require.NoError(t, svc.LogAuthEvent(ctx, model.EventLevelInfo, "admin logged in", &adminID, "127.0.0.1", map[string]any{"remember": true}))
	require.NoError(t, svc.LogCommentEvent(ctx, model.EventLevelInfo, "comment approved", &adminID, "127.0.0.1", nil))
	require.NoError(t, svc.LogSystemEvent(ctx, model.EventLevelWarning, "low disk space", nil, "", nil))

	events, total, err := svc.ListEvents(ctx, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, events, 3)

	// Newest first.
	assert.Equal(t, model.EventCategorySystem, events[0].Category)
	assert.False(t, events[0].AdminID.Valid)
	assert.Equal(t, model.EventCategoryAuth, events[2].Category)
	assert.True(t, events[2].AdminID.Valid)
	assert.Contains(t, events[2].Metadata, "remember")
}

func TestDeleteOldEvents(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewEventService(db)
	ctx := context.Background()

	require.NoError(t, svc.LogSystemEvent(ctx, model.EventLevelInfo, "recent", nil, "", nil))

	// Nothing is older than 24h, so nothing is removed.
	require.NoError(t, svc.DeleteOldEvents(ctx, 24*time.Hour))
	_, total, err := svc.ListEvents(ctx, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	// A zero retention removes everything.
	require.NoError(t, svc.DeleteOldEvents(ctx, 0))
	_, total, err = svc.ListEvents(ctx, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}
