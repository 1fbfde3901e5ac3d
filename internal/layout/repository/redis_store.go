package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/planhub-io/planhub-backend/internal/layout/domain"
)

const (
	metaKeyPrefix = "layout:meta:" // Layout metadata JSON: layout:meta:{id}
	codeKeyPrefix = "layout:code:" // Code index: layout:code:{code} -> layout id
	docKeyPrefix  = "layout:doc:"  // Document JSON keyed by code: layout:doc:{code}
)

// RedisStore is the Redis-backed layout store.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an already-connected client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// CreateLayout stores metadata, the code index, and the initial
// document in one pipeline. An existing code is rejected.
func (s *RedisStore) CreateLayout(ctx context.Context, meta domain.LayoutMeta, doc domain.LayoutDocument) error {
	taken, err := s.client.Exists(ctx, s.codeKey(meta.Code)).Result()
	if err != nil {
		return fmt.Errorf("check code: %w", err)
	}
	if taken > 0 {
		return domain.ErrCodeTaken
	}

	metaData, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal layout meta: %w", err)
	}
	docData, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal layout document: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.metaKey(meta.ID), metaData, 0)
	pipe.Set(ctx, s.codeKey(meta.Code), meta.ID, 0)
	pipe.Set(ctx, s.docKey(meta.Code), docData, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("create layout: %w", err)
	}
	return nil
}

// GetMetaByID retrieves layout metadata by its id.
func (s *RedisStore) GetMetaByID(ctx context.Context, id string) (domain.LayoutMeta, error) {
	data, err := s.client.Get(ctx, s.metaKey(id)).Result()
	if err == redis.Nil {
		return domain.LayoutMeta{}, domain.ErrLayoutNotFound
	}
	if err != nil {
		return domain.LayoutMeta{}, fmt.Errorf("get layout meta: %w", err)
	}

	var meta domain.LayoutMeta
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return domain.LayoutMeta{}, fmt.Errorf("unmarshal layout meta: %w", err)
	}
	return meta, nil
}

// GetMetaByCode resolves the code index, then loads metadata.
func (s *RedisStore) GetMetaByCode(ctx context.Context, code string) (domain.LayoutMeta, error) {
	id, err := s.client.Get(ctx, s.codeKey(code)).Result()
	if err == redis.Nil {
		return domain.LayoutMeta{}, domain.ErrLayoutNotFound
	}
	if err != nil {
		return domain.LayoutMeta{}, fmt.Errorf("get layout id by code: %w", err)
	}
	return s.GetMetaByID(ctx, id)
}

// RenameLayout updates the layout's display name.
func (s *RedisStore) RenameLayout(ctx context.Context, id, name string) (domain.LayoutMeta, error) {
	meta, err := s.GetMetaByID(ctx, id)
	if err != nil {
		return domain.LayoutMeta{}, err
	}
	meta.Name = name
	meta.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(meta)
	if err != nil {
		return domain.LayoutMeta{}, fmt.Errorf("marshal layout meta: %w", err)
	}
	if err := s.client.Set(ctx, s.metaKey(id), data, 0).Err(); err != nil {
		return domain.LayoutMeta{}, fmt.Errorf("rename layout: %w", err)
	}
	return meta, nil
}

// LoadDocumentByCode loads the layout document for a session code.
func (s *RedisStore) LoadDocumentByCode(ctx context.Context, code string) (domain.LayoutDocument, error) {
	data, err := s.client.Get(ctx, s.docKey(code)).Result()
	if err == redis.Nil {
		return domain.LayoutDocument{}, domain.ErrLayoutNotFound
	}
	if err != nil {
		return domain.LayoutDocument{}, fmt.Errorf("get layout document: %w", err)
	}

	var doc domain.LayoutDocument
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return domain.LayoutDocument{}, fmt.Errorf("unmarshal layout document: %w", err)
	}
	return doc, nil
}

// SaveDocumentByCode overwrites the document for a session code.
func (s *RedisStore) SaveDocumentByCode(ctx context.Context, code string, doc domain.LayoutDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal layout document: %w", err)
	}
	if err := s.client.Set(ctx, s.docKey(code), data, 0).Err(); err != nil {
		return fmt.Errorf("save layout document: %w", err)
	}
	return nil
}

// Ping checks store reachability.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) metaKey(id string) string   { return metaKeyPrefix + id }
func (s *RedisStore) codeKey(code string) string { return codeKeyPrefix + code }
func (s *RedisStore) docKey(code string) string  { return docKeyPrefix + code }
