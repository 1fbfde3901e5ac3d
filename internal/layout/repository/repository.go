// Package repository implements the persistence collaborator behind
// the session hub and the layout metadata API. Two interchangeable
// backends exist: Redis and Postgres, selected by configuration.
package repository

import (
	"context"

	"github.com/planhub-io/planhub-backend/internal/layout/domain"
)

// defaultLayoutName is the display name given to rows created as a
// side effect of a document save, before anyone named the layout.
const defaultLayoutName = "Untitled Layout"

// LayoutStore is the opaque key-value-by-code contract the rest of the
// system depends on. Lookups for unknown ids or codes return
// domain.ErrLayoutNotFound. Document saves are upserts: a session may
// exist before its metadata row does.
type LayoutStore interface {
	CreateLayout(ctx context.Context, meta domain.LayoutMeta, doc domain.LayoutDocument) error
	GetMetaByID(ctx context.Context, id string) (domain.LayoutMeta, error)
	GetMetaByCode(ctx context.Context, code string) (domain.LayoutMeta, error)
	RenameLayout(ctx context.Context, id, name string) (domain.LayoutMeta, error)

	LoadDocumentByCode(ctx context.Context, code string) (domain.LayoutDocument, error)
	SaveDocumentByCode(ctx context.Context, code string, doc domain.LayoutDocument) error

	Ping(ctx context.Context) error
	Close() error
}
