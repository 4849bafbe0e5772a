package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseSlotStore runs the read/write contract every backend must satisfy.
func exerciseSlotStore(t *testing.T, s SlotStore) {
	t.Helper()
	ctx := context.Background()

	_, err := s.ReadSlot(ctx, "wishlist")
	assert.True(t, errors.Is(err, ErrSlotNotFound), "fresh slot should be missing, got %v", err)

	require.NoError(t, s.WriteSlot(ctx, "wishlist", "[42]"))
	v, err := s.ReadSlot(ctx, "wishlist")
	require.NoError(t, err)
	assert.Equal(t, "[42]", v)

	require.NoError(t, s.WriteSlot(ctx, "wishlist", "[]"))
	v, err = s.ReadSlot(ctx, "wishlist")
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestMemoryStore(t *testing.T) {
	exerciseSlotStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)
	exerciseSlotStore(t, fs)

	b, err := os.ReadFile(filepath.Join(dir, "wishlist.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files should not linger")
}

func TestFileStore_RejectsPathLikeKeys(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	err = fs.WriteSlot(context.Background(), "../escape", "[]")
	assert.Error(t, err)
	_, err = fs.ReadSlot(context.Background(), "a/b")
	assert.Error(t, err)
}

func TestRedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	exerciseSlotStore(t, NewRedisStore(client))

	raw, err := mr.Get(slotNamespace + "wishlist")
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	s := NewRedisStore(client)
	err = s.WriteSlot(context.Background(), "wishlist", "[1]")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrSlotNotFound))
}

func TestRedisOptions(t *testing.T) {
	_, err := RedisOptions("", "", "", 0)
	assert.Error(t, err)

	opts, err := RedisOptions("", "localhost:6379", "secret", 2)
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)

	opts, err = RedisOptions("redis://:pw@cache:6380/3", "ignored:1", "", 0)
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 3, opts.DB)
	assert.Equal(t, "pw", opts.Password)
}
