package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/planhub-io/planhub-backend/internal/layout/domain"
)

// PostgresStore is the Postgres-backed layout store. Layouts live in a
// single table with the document as a JSONB column:
//
//	CREATE TABLE layouts (
//	    id         UUID PRIMARY KEY,
//	    code       TEXT NOT NULL UNIQUE,
//	    name       TEXT NOT NULL,
//	    document   JSONB NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an already-opened connection pool.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// CreateLayout inserts metadata and the initial document.
func (s *PostgresStore) CreateLayout(ctx context.Context, meta domain.LayoutMeta, doc domain.LayoutDocument) error {
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal layout document: %w", err)
	}

	query := `
		INSERT INTO layouts (id, code, name, document)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := s.db.ExecContext(ctx, query, meta.ID, meta.Code, meta.Name, docJSON); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return domain.ErrCodeTaken
		}
		return fmt.Errorf("create layout: %w", err)
	}
	return nil
}

// GetMetaByID retrieves layout metadata by its id.
func (s *PostgresStore) GetMetaByID(ctx context.Context, id string) (domain.LayoutMeta, error) {
	query := `
		SELECT id, code, name, created_at, updated_at
		FROM layouts
		WHERE id = $1
	`
	return s.scanMeta(s.db.QueryRowContext(ctx, query, id))
}

// GetMetaByCode retrieves layout metadata by its session code.
func (s *PostgresStore) GetMetaByCode(ctx context.Context, code string) (domain.LayoutMeta, error) {
	query := `
		SELECT id, code, name, created_at, updated_at
		FROM layouts
		WHERE code = $1
	`
	return s.scanMeta(s.db.QueryRowContext(ctx, query, code))
}

// RenameLayout updates the layout's display name.
func (s *PostgresStore) RenameLayout(ctx context.Context, id, name string) (domain.LayoutMeta, error) {
	query := `
		UPDATE layouts
		SET name = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, code, name, created_at, updated_at
	`
	return s.scanMeta(s.db.QueryRowContext(ctx, query, id, name))
}

// LoadDocumentByCode loads the layout document for a session code.
func (s *PostgresStore) LoadDocumentByCode(ctx context.Context, code string) (domain.LayoutDocument, error) {
	query := `
		SELECT document
		FROM layouts
		WHERE code = $1
	`
	var docJSON []byte
	err := s.db.QueryRowContext(ctx, query, code).Scan(&docJSON)
	if err == sql.ErrNoRows {
		return domain.LayoutDocument{}, domain.ErrLayoutNotFound
	}
	if err != nil {
		return domain.LayoutDocument{}, fmt.Errorf("load layout document: %w", err)
	}

	var doc domain.LayoutDocument
	if err := json.Unmarshal(docJSON, &doc); err != nil {
		return domain.LayoutDocument{}, fmt.Errorf("unmarshal layout document: %w", err)
	}
	return doc, nil
}

// SaveDocumentByCode upserts the document for a session code. A code
// with no row yet gets one: sessions may open on a code before any
// metadata was created, and their first mutation must still persist.
func (s *PostgresStore) SaveDocumentByCode(ctx context.Context, code string, doc domain.LayoutDocument) error {
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal layout document: %w", err)
	}

	query := `
		INSERT INTO layouts (id, code, name, document)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO UPDATE
		SET document = EXCLUDED.document, updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, uuid.New().String(), code, defaultLayoutName, docJSON); err != nil {
		return fmt.Errorf("save layout document: %w", err)
	}
	return nil
}

// Ping checks store reachability.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the underlying pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) scanMeta(row *sql.Row) (domain.LayoutMeta, error) {
	var meta domain.LayoutMeta
	err := row.Scan(&meta.ID, &meta.Code, &meta.Name, &meta.CreatedAt, &meta.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.LayoutMeta{}, domain.ErrLayoutNotFound
	}
	if err != nil {
		return domain.LayoutMeta{}, fmt.Errorf("scan layout meta: %w", err)
	}
	return meta, nil
}
