package documents

import (
	"context"
	"fmt"
	"strconv"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-headless/internal/identity"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewDocumentRepository creates the go-repository-bun repository for documents.
func NewDocumentRepository(db *bun.DB) repository.Repository[*Document] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Document]{
		NewRecord:          func() *Document { return &Document{} },
		GetID:              func(doc *Document) uuid.UUID { return doc.ID },
		SetID:              func(doc *Document, id uuid.UUID) { doc.ID = id },
		GetIdentifier:      func() string { return "page_id" },
		GetIdentifierValue: func(doc *Document) string { return strconv.FormatInt(doc.PageID, 10) },
	})
}

// BunRepository implements Repository with optional caching.
type BunRepository struct {
	repo repository.Repository[*Document]
}

// NewBunRepository creates a document repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates a document repository with caching support.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewDocumentRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunRepository{repo: base}
}

func (r *BunRepository) Create(ctx context.Context, doc *Document) (*Document, error) {
	if doc.ID == uuid.Nil {
		doc.ID = identity.DocumentUUID(doc.PageID)
	}
	record, err := r.repo.Create(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("document repository error: %w", err)
	}
	return record, nil
}

func (r *BunRepository) Update(ctx context.Context, doc *Document) (*Document, error) {
	record, err := r.repo.Update(ctx, doc)
	if err != nil {
		return nil, mapRepositoryError(err, strconv.FormatInt(doc.PageID, 10))
	}
	return record, nil
}

func (r *BunRepository) GetByPageID(ctx context.Context, pageID int64) (*Document, error) {
	key := strconv.FormatInt(pageID, 10)
	record, err := r.repo.GetByIdentifier(ctx, key)
	if err != nil {
		return nil, mapRepositoryError(err, key)
	}
	return record, nil
}

func (r *BunRepository) List(ctx context.Context) ([]*Document, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("page_id ASC")
	}))
	return records, err
}

func (r *BunRepository) Delete(ctx context.Context, pageID int64) error {
	doc, err := r.GetByPageID(ctx, pageID)
	if err != nil {
		return err
	}
	if err := r.repo.Delete(ctx, &Document{ID: doc.ID}); err != nil {
		return mapRepositoryError(err, strconv.FormatInt(pageID, 10))
	}
	return nil
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: "document", Key: key}
	}
	return fmt.Errorf("document repository error: %w", err)
}
