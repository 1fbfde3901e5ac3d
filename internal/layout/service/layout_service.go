package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/planhub-io/planhub-backend/internal/layout/domain"
	"github.com/planhub-io/planhub-backend/internal/layout/repository"
)

// codeAlphabet avoids characters that read ambiguously when a session
// code is shared out loud or scrawled on a whiteboard (0/O, 1/I/L).
const (
	codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	codeLength   = 8

	maxCodeAttempts = 5
)

// LayoutService handles layout lifecycle and lookup logic.
type LayoutService struct {
	store repository.LayoutStore
}

// NewLayoutService creates a new layout service.
func NewLayoutService(store repository.LayoutStore) *LayoutService {
	return &LayoutService{
		store: store,
	}
}

// Create provisions a new layout with a fresh session code and an
// empty document. Code collisions are retried with a new draw.
func (s *LayoutService) Create(ctx context.Context, name string) (domain.LayoutMeta, error) {
	if name == "" {
		name = "Untitled Layout"
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := newSessionCode()
		if err != nil {
			return domain.LayoutMeta{}, fmt.Errorf("generate session code: %w", err)
		}

		now := time.Now().UTC()
		meta := domain.LayoutMeta{
			ID:        uuid.New().String(),
			Code:      code,
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		}

		err = s.store.CreateLayout(ctx, meta, domain.NewLayoutDocument())
		if errors.Is(err, domain.ErrCodeTaken) {
			continue
		}
		if err != nil {
			return domain.LayoutMeta{}, err
		}
		return meta, nil
	}
	return domain.LayoutMeta{}, fmt.Errorf("exhausted %d session code attempts", maxCodeAttempts)
}

// GetByID returns layout metadata by its id.
func (s *LayoutService) GetByID(ctx context.Context, id string) (domain.LayoutMeta, error) {
	return s.store.GetMetaByID(ctx, id)
}

// GetByCode returns layout metadata by its session code.
func (s *LayoutService) GetByCode(ctx context.Context, code string) (domain.LayoutMeta, error) {
	return s.store.GetMetaByCode(ctx, code)
}

// Rename updates a layout's display name.
func (s *LayoutService) Rename(ctx context.Context, id, name string) (domain.LayoutMeta, error) {
	return s.store.RenameLayout(ctx, id, name)
}

// LoadDocumentByCode loads the layout document behind a session code.
func (s *LayoutService) LoadDocumentByCode(ctx context.Context, code string) (domain.LayoutDocument, error) {
	return s.store.LoadDocumentByCode(ctx, code)
}

// SaveDocumentByCode persists the layout document behind a session code.
func (s *LayoutService) SaveDocumentByCode(ctx context.Context, code string, doc domain.LayoutDocument) error {
	return s.store.SaveDocumentByCode(ctx, code, doc)
}

// Ping reports whether the backing store is reachable.
func (s *LayoutService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func newSessionCode() (string, error) {
	buf := make([]byte, codeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
