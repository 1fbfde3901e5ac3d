package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planhub-io/planhub-backend/internal/layout/domain"
	"github.com/planhub-io/planhub-backend/internal/layout/repository"
	"github.com/planhub-io/planhub-backend/internal/layout/service"
)

func setupRouter(t *testing.T) (*gin.Engine, *service.LayoutService) {
	gin.SetMode(gin.TestMode)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc := service.NewLayoutService(repository.NewRedisStore(client))

	r := gin.New()
	NewHandler(svc).Register(r.Group("/api/v1/layouts"))
	return r, svc
}

type layoutResp struct {
	OK     bool              `json:"ok"`
	Error  string            `json:"error"`
	Layout domain.LayoutMeta `json:"layout"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, layoutResp) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp layoutResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestHandler_Create(t *testing.T) {
	r, _ := setupRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/layouts", gin.H{"name": "Ground Floor"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, resp.OK)
	assert.Equal(t, "Ground Floor", resp.Layout.Name)
	assert.NotEmpty(t, resp.Layout.ID)
	assert.Len(t, resp.Layout.Code, 8)
}

func TestHandler_Get(t *testing.T) {
	r, svc := setupRouter(t)

	meta, err := svc.Create(context.Background(), "Ground Floor")
	require.NoError(t, err)

	t.Run("by id", func(t *testing.T) {
		w, resp := doJSON(t, r, http.MethodGet, "/api/v1/layouts/"+meta.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, meta.Code, resp.Layout.Code)
	})

	t.Run("by code", func(t *testing.T) {
		w, resp := doJSON(t, r, http.MethodGet, "/api/v1/layouts/code/"+meta.Code, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, meta.ID, resp.Layout.ID)
	})

	t.Run("missing id", func(t *testing.T) {
		w, resp := doJSON(t, r, http.MethodGet, "/api/v1/layouts/missing", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.False(t, resp.OK)
	})
}

func TestHandler_Rename(t *testing.T) {
	r, svc := setupRouter(t)

	meta, err := svc.Create(context.Background(), "Ground Floor")
	require.NoError(t, err)

	t.Run("renames the layout", func(t *testing.T) {
		w, resp := doJSON(t, r, http.MethodPatch, "/api/v1/layouts/"+meta.ID, gin.H{"name": "Mezzanine"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Mezzanine", resp.Layout.Name)
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		w, resp := doJSON(t, r, http.MethodPatch, "/api/v1/layouts/"+meta.ID, gin.H{"name": "  "})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, resp.OK)
	})
}
