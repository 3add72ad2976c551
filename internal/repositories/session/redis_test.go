package session_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	redisclient "github.com/dndai/dmcore/internal/redis"
	"github.com/dndai/dmcore/internal/repositories/session"
)

func newTestRepo(t *testing.T) session.Repository {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	var client redisclient.Client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo, err := session.NewRedis(&session.Config{Client: client})
	require.NoError(t, err)
	return repo
}

func TestSaveAndLoad_RoundTripsDocument(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	doc := session.Document(`{"campaign_name":"Test"}`)
	require.NoError(t, repo.Save(ctx, "sess-1", "Kael", doc))

	loaded, err := repo.Load(ctx, "sess-1")
	require.NoError(t, err)
	require.Equal(t, doc, loaded)
}

func TestLoad_MissingSessionReturnsNotFound(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Load(context.Background(), "does-not-exist")
	require.Error(t, err)
}

func TestListByPlayer_ReturnsIndexedSessions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "sess-1", "Kael", session.Document("{}")))
	require.NoError(t, repo.Save(ctx, "sess-2", "Kael", session.Document("{}")))

	ids, err := repo.ListByPlayer(ctx, "Kael")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"sess-1", "sess-2"}, ids)
}

func TestDelete_RemovesDocumentAndIndex(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "sess-1", "Kael", session.Document("{}")))
	require.NoError(t, repo.Delete(ctx, "sess-1", "Kael"))

	_, err := repo.Load(ctx, "sess-1")
	require.Error(t, err)

	ids, err := repo.ListByPlayer(ctx, "Kael")
	require.NoError(t, err)
	require.Empty(t, ids)
}
