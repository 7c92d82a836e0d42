package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragchat/internal/domain"
)

func setupMiniredis(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client, uuid.New(), ttl), mr
}

func TestStore_AppendPairAndGet(t *testing.T) {
	store, _ := setupMiniredis(t, 0)
	ctx := context.Background()

	require.NoError(t, store.Reset(ctx, domain.SystemMessage("sys")))
	err := store.Append(ctx, domain.UserMessage("Hello"), domain.AssistantMessage("Hi there!"))
	require.NoError(t, err)

	msgs, err := store.Messages(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, domain.RoleSystem, msgs[0].Role)
	assert.Equal(t, "Hello", msgs[1].Text)
	assert.Equal(t, domain.RoleUser, msgs[1].Role)
	assert.Equal(t, "Hi there!", msgs[2].Text)
	assert.Equal(t, domain.RoleAssistant, msgs[2].Role)
}

func TestStore_OrderPreserved(t *testing.T) {
	store, _ := setupMiniredis(t, 0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Append(ctx,
			domain.UserMessage(string(rune('A'+2*i))),
			domain.AssistantMessage(string(rune('A'+2*i+1))),
		))
	}
	msgs, err := store.Messages(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 6)
	for i, m := range msgs {
		assert.Equal(t, string(rune('A'+i)), m.Text)
	}
}

func TestStore_SkipsMalformedEntries(t *testing.T) {
	store, mr := setupMiniredis(t, 0)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, domain.UserMessage("ok")))
	_, err := mr.Push(store.key, "not json")
	require.NoError(t, err)

	msgs, err := store.Messages(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "ok", msgs[0].Text)
}

func TestStore_Reset(t *testing.T) {
	store, _ := setupMiniredis(t, 0)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, domain.UserMessage("q"), domain.AssistantMessage("a")))
	require.NoError(t, store.Reset(ctx, domain.SystemMessage("fresh")))

	msgs, err := store.Messages(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.RoleSystem, msgs[0].Role)
	assert.Equal(t, "fresh", msgs[0].Text)
}

func TestStore_TTL(t *testing.T) {
	store, mr := setupMiniredis(t, 60*time.Second)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, domain.UserMessage("q")))
	assert.Greater(t, mr.TTL(store.key), time.Duration(0))

	mr.FastForward(61 * time.Second)
	msgs, err := store.Messages(ctx)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
