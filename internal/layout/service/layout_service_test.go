package service

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planhub-io/planhub-backend/internal/layout/domain"
	"github.com/planhub-io/planhub-backend/internal/layout/repository"
)

func setupService(t *testing.T) *LayoutService {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewLayoutService(repository.NewRedisStore(client))
}

func TestLayoutService_Create(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	t.Run("provisions metadata and an empty document", func(t *testing.T) {
		meta, err := svc.Create(ctx, "Ground Floor")
		require.NoError(t, err)

		assert.NotEmpty(t, meta.ID)
		assert.Len(t, meta.Code, codeLength)
		assert.Equal(t, "Ground Floor", meta.Name)
		assert.False(t, meta.CreatedAt.IsZero())

		doc, err := svc.LoadDocumentByCode(ctx, meta.Code)
		require.NoError(t, err)
		assert.Empty(t, doc.Entities)
		assert.Equal(t, domain.DocumentVersion, doc.Version)
	})

	t.Run("defaults an empty name", func(t *testing.T) {
		meta, err := svc.Create(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, "Untitled Layout", meta.Name)
	})

	t.Run("codes draw from the unambiguous alphabet", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			code, err := newSessionCode()
			require.NoError(t, err)
			require.Len(t, code, codeLength)
			for _, r := range code {
				assert.True(t, strings.ContainsRune(codeAlphabet, r), "unexpected rune %q", r)
			}
		}
	})
}

func TestLayoutService_Lookups(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	meta, err := svc.Create(ctx, "Ground Floor")
	require.NoError(t, err)

	byID, err := svc.GetByID(ctx, meta.ID)
	require.NoError(t, err)
	assert.Equal(t, meta.Code, byID.Code)

	byCode, err := svc.GetByCode(ctx, meta.Code)
	require.NoError(t, err)
	assert.Equal(t, meta.ID, byCode.ID)

	_, err = svc.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrLayoutNotFound)
}

func TestLayoutService_Rename(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	meta, err := svc.Create(ctx, "Ground Floor")
	require.NoError(t, err)

	renamed, err := svc.Rename(ctx, meta.ID, "Mezzanine")
	require.NoError(t, err)
	assert.Equal(t, "Mezzanine", renamed.Name)

	_, err = svc.Rename(ctx, "missing", "x")
	assert.ErrorIs(t, err, domain.ErrLayoutNotFound)
}
