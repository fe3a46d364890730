package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "abc:next_action", Key("abc", "next_action"))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, found := store.Get(ctx, "missing")
	assert.False(t, found)

	store.Set(ctx, "k", "analysis text", time.Minute)
	val, found := store.Get(ctx, "k")
	assert.True(t, found)
	assert.Equal(t, "analysis text", val)

	store.Delete(ctx, "k")
	_, found = store.Get(ctx, "k")
	assert.False(t, found)
}

func TestMemoryStore_ZeroTTLUsesDefault(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	store.Set(ctx, "k", "v", 0)
	val, found := store.Get(ctx, "k")
	assert.True(t, found)
	assert.Equal(t, "v", val)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	store.Set(ctx, "k", "v", time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	_, found := store.Get(ctx, "k")
	assert.False(t, found)
}
