package minio

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *ImageStore {
	ctx := context.Background()
	store, err := NewImageStore(ctx, &Config{
		Endpoint:  "localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "partyn-test",
	})
	if err != nil {
		t.Skip("MinIO not available")
	}
	return store
}

func TestImageStore_Store(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	t.Run("画像を保存して公開URLを取得できる", func(t *testing.T) {
		url, err := store.Store(ctx, []byte("fake-png-bytes"), "party.png", "image/png")
		require.NoError(t, err)
		assert.Contains(t, url, "/partyn-test/events/")
		assert.True(t, strings.HasSuffix(url, "-party.png"))
	})

	t.Run("同名ファイルでもキーが衝突しない", func(t *testing.T) {
		url1, err := store.Store(ctx, []byte("a"), "same.png", "image/png")
		require.NoError(t, err)
		url2, err := store.Store(ctx, []byte("b"), "same.png", "image/png")
		require.NoError(t, err)
		assert.NotEqual(t, url1, url2)
	})
}

func TestImageStore_ListAndRemove(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	url, err := store.Store(ctx, []byte("list-me"), "listed.png", "image/png")
	require.NoError(t, err)

	objects, err := store.List(ctx)
	require.NoError(t, err)

	var key string
	for _, obj := range objects {
		if obj.URL == url {
			key = obj.Key
		}
	}
	require.NotEmpty(t, key, "保存したオブジェクトが一覧に含まれる")

	require.NoError(t, store.Remove(ctx, key))

	objects, err = store.List(ctx)
	require.NoError(t, err)
	for _, obj := range objects {
		assert.NotEqual(t, key, obj.Key)
	}
}
