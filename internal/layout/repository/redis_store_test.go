package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planhub-io/planhub-backend/internal/geometry"
	"github.com/planhub-io/planhub-backend/internal/layout/domain"
)

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client), mr
}

func testMeta(id, code string) domain.LayoutMeta {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	return domain.LayoutMeta{
		ID:        id,
		Code:      code,
		Name:      "Ground Floor",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func testDocument() domain.LayoutDocument {
	doc := domain.NewLayoutDocument()
	doc.Entities = append(doc.Entities, domain.RoomEntity(domain.Room{
		ID:       "r1",
		Name:     "Kitchen",
		Position: geometry.Point{X: 40, Y: 40},
		Shape:    geometry.ShapeTemplate{Kind: geometry.ShapeRectangle, Width: 96, Height: 64},
	}))
	return doc
}

func TestRedisStore_CreateLayout(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	t.Run("creates layout and serves it back", func(t *testing.T) {
		meta := testMeta("id-1", "ABCDEFGH")
		require.NoError(t, store.CreateLayout(ctx, meta, testDocument()))

		byID, err := store.GetMetaByID(ctx, "id-1")
		require.NoError(t, err)
		assert.Equal(t, meta, byID)

		byCode, err := store.GetMetaByCode(ctx, "ABCDEFGH")
		require.NoError(t, err)
		assert.Equal(t, meta, byCode)

		doc, err := store.LoadDocumentByCode(ctx, "ABCDEFGH")
		require.NoError(t, err)
		require.Len(t, doc.Entities, 1)
		assert.Equal(t, "r1", doc.Entities[0].ID())
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		err := store.CreateLayout(ctx, testMeta("id-2", "ABCDEFGH"), domain.NewLayoutDocument())
		assert.ErrorIs(t, err, domain.ErrCodeTaken)
	})
}

func TestRedisStore_GetMeta_NotFound(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	_, err := store.GetMetaByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrLayoutNotFound)

	_, err = store.GetMetaByCode(ctx, "NOPENOPE")
	assert.ErrorIs(t, err, domain.ErrLayoutNotFound)

	_, err = store.LoadDocumentByCode(ctx, "NOPENOPE")
	assert.ErrorIs(t, err, domain.ErrLayoutNotFound)
}

func TestRedisStore_RenameLayout(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	meta := testMeta("id-3", "RENAMEOK")
	require.NoError(t, store.CreateLayout(ctx, meta, domain.NewLayoutDocument()))

	renamed, err := store.RenameLayout(ctx, "id-3", "First Floor")
	require.NoError(t, err)
	assert.Equal(t, "First Floor", renamed.Name)
	assert.True(t, renamed.UpdatedAt.After(meta.UpdatedAt))

	stored, err := store.GetMetaByID(ctx, "id-3")
	require.NoError(t, err)
	assert.Equal(t, "First Floor", stored.Name)

	_, err = store.RenameLayout(ctx, "missing", "x")
	assert.ErrorIs(t, err, domain.ErrLayoutNotFound)
}

func TestRedisStore_SaveDocumentByCode(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateLayout(ctx, testMeta("id-4", "SAVEDOCX"), domain.NewLayoutDocument()))

	doc := testDocument()
	require.NoError(t, store.SaveDocumentByCode(ctx, "SAVEDOCX", doc))

	loaded, err := store.LoadDocumentByCode(ctx, "SAVEDOCX")
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)

	t.Run("creates the document for an unseen code", func(t *testing.T) {
		// Sessions can exist before any metadata does; the first save
		// must create the document rather than fail.
		require.NoError(t, store.SaveDocumentByCode(ctx, "NOROWYET", doc))

		loaded, err := store.LoadDocumentByCode(ctx, "NOROWYET")
		require.NoError(t, err)
		assert.Equal(t, doc, loaded)
	})
}

func TestRedisStore_Ping(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))

	mr.Close()
	assert.Error(t, store.Ping(ctx))
}
