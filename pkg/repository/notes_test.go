package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidscope/vidscope/pkg/domain"
)

func TestNotesRepository_AddAndList(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	now := time.Now().UnixMilli()
	seconds := 90
	require.NoError(t, repos.Notes.Add(ctx, domain.Note{
		ID: "note1", VideoID: "vid1", Text: "great explanation of WAL", Seconds: &seconds, CreatedAt: now,
	}))
	require.NoError(t, repos.Notes.Add(ctx, domain.Note{
		ID: "note2", VideoID: "vid1", Text: "rewatch this part", CreatedAt: now + 1000,
	}))
	require.NoError(t, repos.Notes.Add(ctx, domain.Note{
		ID: "note3", VideoID: "vid2", Text: "unrelated", CreatedAt: now + 2000,
	}))

	notes, err := repos.Notes.ListForVideo(ctx, "vid1")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "note1", notes[0].ID, "oldest first within a video")
	require.NotNil(t, notes[0].Seconds)
	assert.Equal(t, 90, *notes[0].Seconds)
	assert.Nil(t, notes[1].Seconds)

	all, err := repos.Notes.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "note3", all[0].ID, "newest first across videos")
}

func TestNotesRepository_Update(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	now := time.Now().UnixMilli()
	require.NoError(t, repos.Notes.Add(ctx, domain.Note{ID: "note1", VideoID: "vid1", Text: "draft", CreatedAt: now}))

	require.NoError(t, repos.Notes.Update(ctx, "note1", "final text", now+5000))

	notes, err := repos.Notes.ListForVideo(ctx, "vid1")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "final text", notes[0].Text)
	require.NotNil(t, notes[0].UpdatedAt)
	assert.Equal(t, now+5000, *notes[0].UpdatedAt)
}

func TestNotesRepository_UpdateMissing(t *testing.T) {
	repos := setupTestRepos(t)

	err := repos.Notes.Update(context.Background(), "ghost", "text", time.Now().UnixMilli())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNotesRepository_Delete(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Notes.Add(ctx, domain.Note{ID: "note1", VideoID: "vid1", Text: "x", CreatedAt: time.Now().UnixMilli()}))
	require.NoError(t, repos.Notes.Delete(ctx, "note1"))

	notes, err := repos.Notes.ListForVideo(ctx, "vid1")
	require.NoError(t, err)
	assert.Empty(t, notes)

	assert.ErrorIs(t, repos.Notes.Delete(ctx, "note1"), ErrNotFound)
}
