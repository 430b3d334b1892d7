package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontlinebot/actlog/internal/repository"
)

func TestWatchlist(t *testing.T) {
	ctx := context.Background()
	svc := NewWatchlistService(&fakeWatchlist{})

	e, err := svc.Add(ctx, WatchlistAdd{First: "bad", Last: "GUY", World: " Tiamat ", Memo: "afk at base", RecordedBy: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, "Bad Guy", e.CharacterName)
	assert.Equal(t, "Tiamat", e.WorldName)

	_, err = svc.Add(ctx, WatchlistAdd{First: "bad", Last: "guy", World: "Anima", Memo: "again", RecordedBy: "user-2"})
	require.NoError(t, err)

	name, hits, err := svc.Check(ctx, "Bad", "Guy", "")
	require.NoError(t, err)
	assert.Equal(t, "Bad Guy", name)
	assert.Len(t, hits, 2)

	_, hits, err = svc.Check(ctx, "Bad", "Guy", "Anima")
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	_, clean, err := svc.Check(ctx, "Good", "Guy", "")
	require.NoError(t, err)
	assert.NotNil(t, clean)
	assert.Empty(t, clean)

	_, n, err := svc.Delete(ctx, "bad", "guy", "Tiamat")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, _, err = svc.Delete(ctx, "bad", "guy", "Tiamat")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.Add(ctx, WatchlistAdd{First: "Solo"})
	assert.ErrorIs(t, err, ErrInvalidName)
}
