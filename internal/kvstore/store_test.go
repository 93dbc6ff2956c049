package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "a", []byte(`{"x":1}`)))
	raw, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, `{"x":1}`, string(raw))

	require.NoError(t, s.Delete(ctx, "a"))
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoad_DefaultOnMissing(t *testing.T) {
	s := NewMemoryStore()
	got := Load(context.Background(), s, nil, "nope", doc{Name: "fallback"})
	assert.Equal(t, "fallback", got.Name)
}

func TestLoad_DefaultOnUnparsable(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "broken", []byte("{not json")))
	got := Load(ctx, s, nil, "broken", doc{Count: 7})
	assert.Equal(t, 7, got.Count)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	Save(ctx, s, nil, "d", doc{Name: "aspirin", Count: 3})
	got := Load(ctx, s, nil, "d", doc{})
	assert.Equal(t, doc{Name: "aspirin", Count: 3}, got)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "cart:17", Key("cart", 17))
}
