package message_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"accord/internal/crypto"
	"accord/internal/domain"
	"accord/internal/services/identity"
	"accord/internal/services/message"
	"accord/internal/store"
)

type fixture struct {
	store *store.FileStore
	keys  *identity.Service
	svc   *message.Service
}

func newFixture(t *testing.T, users ...domain.UserID) fixture {
	t.Helper()
	fs := store.NewFileStore(t.TempDir())
	keys := identity.New(fs, nil, nil)
	for _, u := range users {
		_, _, err := keys.Publish(context.Background(), u)
		require.NoError(t, err)
	}
	return fixture{store: fs, keys: keys, svc: message.New(keys, fs, nil, nil)}
}

func TestSend_StoresCiphertextOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "user-A", "user-B")

	msg, err := f.svc.Send(ctx, domain.SendRequest{From: "user-A", To: "user-B", Plaintext: "hi"})
	require.NoError(t, err)
	require.Equal(t, domain.MessageText, msg.Kind)
	require.True(t, crypto.IsEncrypted(msg.Content))
	require.True(t, crypto.IsEncrypted(msg.Preview))
	require.NotContains(t, msg.Content, "hi")

	got, err := f.svc.Conversation(ctx, "user-B", "user-A")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "hi", got[0].Plaintext)
	require.False(t, got[0].Failed)
	require.False(t, got[0].Legacy)
}

func TestSend_RejectsBadRequests(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "user-A", "user-B")

	_, err := f.svc.Send(ctx, domain.SendRequest{From: "user-A", To: "user-B"})
	require.ErrorIs(t, err, message.ErrEmptyMessage)

	_, err = f.svc.Send(ctx, domain.SendRequest{From: "user-A", To: "user-B", Kind: "video", Plaintext: "x"})
	require.ErrorIs(t, err, message.ErrUnknownKind)

	_, err = f.svc.Send(ctx, domain.SendRequest{From: "user-A", To: "user-C", Plaintext: "x"})
	require.ErrorIs(t, err, domain.ErrNoPublicKey)
}

func TestPreview_TruncatesAndDecrypts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "user-A", "user-B")
	long := strings.Repeat("é", 60)

	msg, err := f.svc.Send(ctx, domain.SendRequest{From: "user-A", To: "user-B", Plaintext: long})
	require.NoError(t, err)

	p, err := f.svc.Preview(ctx, "user-B", msg)
	require.NoError(t, err)
	require.Equal(t, strings.Repeat("é", 40)+"…", p.Plaintext)

	voice, err := f.svc.Send(ctx, domain.SendRequest{From: "user-A", To: "user-B", Kind: domain.MessageVoice})
	require.NoError(t, err)
	p, err = f.svc.Preview(ctx, "user-A", voice)
	require.NoError(t, err)
	require.Equal(t, "Voice message", p.Plaintext)
}

func TestConversation_IsolatesFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "user-A", "user-B")

	_, err := f.svc.Send(ctx, domain.SendRequest{From: "user-A", To: "user-B", Plaintext: "first"})
	require.NoError(t, err)

	// Sealed under an unrelated secret, so authentication fails.
	var other domain.SharedSecret
	other[0] = 1
	foreign, err := crypto.Encrypt("intruder", other)
	require.NoError(t, err)
	base := time.Now().Add(time.Minute)
	require.NoError(t, f.store.SaveMessage(ctx, domain.Message{
		ID: "m-foreign", SenderID: "user-B", RecipientID: "user-A",
		Kind: domain.MessageText, Content: foreign, CreatedAt: base,
	}))
	require.NoError(t, f.store.SaveMessage(ctx, domain.Message{
		ID: "m-legacy", SenderID: "user-B", RecipientID: "user-A",
		Kind: domain.MessageText, Content: "from before: encryption", CreatedAt: base.Add(time.Second),
	}))

	got, err := f.svc.Conversation(ctx, "user-A", "user-B")
	require.NoError(t, err)
	require.Len(t, got, 3)

	require.Equal(t, "first", got[0].Plaintext)

	require.True(t, got[1].Failed)
	require.Equal(t, message.Placeholder, got[1].Plaintext)

	require.True(t, got[2].Legacy)
	require.Equal(t, "from before: encryption", got[2].Plaintext)
}

func TestConversation_MissingPeerKeyKeepsLegacy(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "user-A")

	require.NoError(t, f.store.SaveMessage(ctx, domain.Message{
		ID: "m1", SenderID: "user-B", RecipientID: "user-A",
		Kind: domain.MessageText, Content: "plain old text", CreatedAt: time.Now(),
	}))
	var s domain.SharedSecret
	sealed, err := crypto.Encrypt("secret", s)
	require.NoError(t, err)
	require.NoError(t, f.store.SaveMessage(ctx, domain.Message{
		ID: "m2", SenderID: "user-B", RecipientID: "user-A",
		Kind: domain.MessageText, Content: sealed, CreatedAt: time.Now().Add(time.Second),
	}))

	got, err := f.svc.Conversation(ctx, "user-A", "user-B")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.True(t, got[0].Legacy)
	require.True(t, got[1].Failed)
}

func TestConversation_DamagedTagIsNotShownAsText(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "user-A", "user-B")

	msg, err := f.svc.Send(ctx, domain.SendRequest{From: "user-A", To: "user-B", Plaintext: "meet me at the cafe"})
	require.NoError(t, err)

	parts := strings.Split(msg.Content, ":")
	parts[2] = "g" + parts[2][1:]
	damaged := msg
	damaged.ID = "m-damaged"
	damaged.Content = strings.Join(parts, ":")
	damaged.CreatedAt = msg.CreatedAt.Add(time.Second)
	require.NoError(t, f.store.SaveMessage(ctx, damaged))

	got, err := f.svc.Conversation(ctx, "user-B", "user-A")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "meet me at the cafe", got[0].Plaintext)
	require.True(t, got[1].Failed)
	require.False(t, got[1].Legacy)
	require.Equal(t, message.Placeholder, got[1].Plaintext)
}
