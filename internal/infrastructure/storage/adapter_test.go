// internal/infrastructure/storage/adapter_test.go
package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// adapterUnderTest exercises the Adapter contract shared by all backends.
func adapterUnderTest(t *testing.T, adapter Adapter) {
	t.Helper()
	ctx := context.Background()

	t.Run("load missing key", func(t *testing.T) {
		_, err := adapter.Load(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("save and load", func(t *testing.T) {
		require.NoError(t, adapter.Save(ctx, "cart:abc", []byte(`[{"q":1}]`)))

		data, err := adapter.Load(ctx, "cart:abc")
		require.NoError(t, err)
		assert.Equal(t, []byte(`[{"q":1}]`), data)
	})

	t.Run("save replaces", func(t *testing.T) {
		require.NoError(t, adapter.Save(ctx, "cart:abc", []byte(`[]`)))

		data, err := adapter.Load(ctx, "cart:abc")
		require.NoError(t, err)
		assert.Equal(t, []byte(`[]`), data)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, adapter.Delete(ctx, "cart:abc"))

		_, err := adapter.Load(ctx, "cart:abc")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		assert.NoError(t, adapter.Delete(ctx, "cart:abc"))
	})
}

func TestMemoryAdapter(t *testing.T) {
	adapterUnderTest(t, NewMemoryAdapter())
}

func TestMemoryAdapterCopiesValues(t *testing.T) {
	adapter := NewMemoryAdapter()
	ctx := context.Background()

	original := []byte("original")
	require.NoError(t, adapter.Save(ctx, "k", original))
	original[0] = 'X'

	data, err := adapter.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), data)

	data[0] = 'Y'
	again, err := adapter.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), again)
}

func TestFileAdapter(t *testing.T) {
	adapter, err := NewFileAdapter(t.TempDir())
	require.NoError(t, err)

	adapterUnderTest(t, adapter)
}

func TestFileAdapterSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewFileAdapter(dir)
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, "wishlist:s1", []byte(`[{"product_id":"p1"}]`)))

	second, err := NewFileAdapter(dir)
	require.NoError(t, err)

	data, err := second.Load(ctx, "wishlist:s1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"product_id":"p1"}]`), data)
}

func TestFileAdapterEscapesHostileKeys(t *testing.T) {
	adapter, err := NewFileAdapter(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, adapter.Save(ctx, "../escape", []byte("x")))

	data, err := adapter.Load(ctx, "../escape")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
}
