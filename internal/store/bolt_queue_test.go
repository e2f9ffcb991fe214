package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"accord/internal/domain"
	"accord/internal/store"
)

func TestBoltQueue_FIFO(t *testing.T) {
	ctx := context.Background()
	q, err := store.OpenBoltQueue(filepath.Join(t.TempDir(), "queue.db"))
	require.NoError(t, err)
	defer q.Close()

	for _, u := range []domain.UserID{"u1", "u2", "u3"} {
		require.NoError(t, q.Enqueue(ctx, domain.Notification{UserID: u, Kind: domain.NotificationKeyRepaired}))
	}
	n, err := q.Len(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	first, err := q.Drain(ctx, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.Equal(t, domain.UserID("u1"), first[0].UserID)
	require.Equal(t, domain.UserID("u2"), first[1].UserID)
	require.False(t, first[0].CreatedAt.IsZero())

	rest, err := q.Drain(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	require.Equal(t, domain.UserID("u3"), rest[0].UserID)

	n, err = q.Len(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestBoltQueue_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "queue.db")

	q, err := store.OpenBoltQueue(path)
	require.NoError(t, err)
	require.NoError(t, q.Enqueue(ctx, domain.Notification{UserID: "u1"}))
	require.NoError(t, q.Close())

	q, err = store.OpenBoltQueue(path)
	require.NoError(t, err)
	defer q.Close()
	got, err := q.Drain(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
}
