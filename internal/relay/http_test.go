package relay_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"accord/internal/domain"
	"accord/internal/relay"
	"accord/internal/server"
	"accord/internal/services/identity"
	"accord/internal/services/message"
	"accord/internal/services/migration"
	"accord/internal/store"
)

func init() { gin.SetMode(gin.TestMode) }

func newRelay(t *testing.T) (*relay.HTTP, *store.FileStore) {
	t.Helper()
	fs := store.NewFileStore(t.TempDir())
	srv := server.New(server.Deps{
		Profiles:   fs,
		Messages:   fs,
		Migration:  migration.New(fs, nil, nil, nil),
		AdminToken: "tok",
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return relay.NewHTTP(ts.URL+"/", ts.Client()), fs
}

func TestPublicKey_MissingIsNotAnError(t *testing.T) {
	c, _ := newRelay(t)
	_, ok, err := c.PublicKey(context.Background(), "nobody")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestEndToEnd_OverRelay(t *testing.T) {
	ctx := context.Background()
	c, _ := newRelay(t)

	// Each side has its own key service; only the directory is shared.
	alice := identity.New(c, nil, nil)
	bob := identity.New(c, nil, nil)
	_, _, err := alice.Publish(ctx, "alice")
	require.NoError(t, err)
	_, _, err = bob.Publish(ctx, "bob")
	require.NoError(t, err)

	_, err = message.New(alice, c, nil, nil).Send(ctx, domain.SendRequest{From: "alice", To: "bob", Plaintext: "hi bob"})
	require.NoError(t, err)

	got, err := message.New(bob, c, nil, nil).Conversation(ctx, "bob", "alice")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "hi bob", got[0].Plaintext)
	require.False(t, got[0].Failed)

	n1, err := alice.SafetyNumber(ctx, "alice", "bob")
	require.NoError(t, err)
	n2, err := bob.SafetyNumber(ctx, "bob", "alice")
	require.NoError(t, err)
	require.Equal(t, n1, n2)
}

func TestPutProfile_KeepsName(t *testing.T) {
	ctx := context.Background()
	c, _ := newRelay(t)

	p, err := c.PutProfile(ctx, "alice", "Alice", "")
	require.NoError(t, err)
	require.Equal(t, "Alice", p.DisplayName)

	p, err = c.PutProfile(ctx, "alice", "", "")
	require.NoError(t, err)
	require.Equal(t, "Alice", p.DisplayName)
}

func TestMigrateKeys_Errors(t *testing.T) {
	ctx := context.Background()
	c, fs := newRelay(t)
	require.NoError(t, fs.SaveProfile(ctx, domain.Profile{UserID: "root", IsAdmin: true}))
	require.NoError(t, fs.SaveProfile(ctx, domain.Profile{UserID: "user-A"}))

	_, err := c.MigrateKeys(ctx, "wrong", "root", domain.MigrationOptions{})
	require.True(t, errors.Is(err, domain.ErrUnauthorized))
	var se *relay.StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, 401, se.Status)

	_, err = c.MigrateKeys(ctx, "tok", "user-A", domain.MigrationOptions{})
	require.True(t, errors.Is(err, domain.ErrUnauthorized))

	sum, err := c.MigrateKeys(ctx, "tok", "root", domain.MigrationOptions{DryRun: true, Concurrency: 2})
	require.NoError(t, err)
	require.True(t, sum.DryRun)
	require.Equal(t, 2, sum.Fixed)
}

func TestStatusError_NotFound(t *testing.T) {
	err := &relay.StatusError{Method: "GET", Path: "/x", Status: 404}
	require.True(t, errors.Is(err, domain.ErrNotFound))
	require.False(t, errors.Is(err, domain.ErrUnauthorized))
	require.Contains(t, err.Error(), "404 Not Found")
}
