package assets

import (
	"context"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-headless/internal/identity"
	"github.com/goliatone/go-headless/internal/logging"
	"github.com/goliatone/go-headless/pkg/interfaces"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// HandleRecord is the persisted form of a Handle.
type HandleRecord struct {
	bun.BaseModel `bun:"table:asset_handles,alias:ah"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Key       string    `bun:"key,notnull,unique" json:"key"`
	Name      string    `bun:"name,notnull" json:"handle"`
	Kind      string    `bun:"kind,notnull" json:"kind"`
	Src       string    `bun:"src" json:"src,omitempty"`
	Deps      []string  `bun:"deps,type:jsonb" json:"deps,omitempty"`
	Version   string    `bun:"version" json:"ver,omitempty"`
	Inline    bool      `bun:"is_inline,notnull,default:false" json:"inline,omitempty"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

func recordKey(kind Kind, name string) string {
	return string(kind) + ":" + strings.TrimSpace(name)
}

func (r *HandleRecord) handle() Handle {
	return cloneHandle(Handle{
		Name:    r.Name,
		Kind:    Kind(r.Kind),
		Src:     r.Src,
		Deps:    r.Deps,
		Version: r.Version,
		Inline:  r.Inline,
	})
}

// NewHandleRepository creates the go-repository-bun repository for handle records.
func NewHandleRepository(db *bun.DB) repository.Repository[*HandleRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*HandleRecord]{
		NewRecord:          func() *HandleRecord { return &HandleRecord{} },
		GetID:              func(rec *HandleRecord) uuid.UUID { return rec.ID },
		SetID:              func(rec *HandleRecord, id uuid.UUID) { rec.ID = id },
		GetIdentifier:      func() string { return "key" },
		GetIdentifierValue: func(rec *HandleRecord) string { return rec.Key },
	})
}

// BunRegistry persists handles with bun and serves lookups from an in
// memory snapshot refreshed by Load and every write.
type BunRegistry struct {
	repo     repository.Repository[*HandleRecord]
	snapshot *MemoryRegistry
	logger   interfaces.Logger
	now      func() time.Time
}

// NewBunRegistry creates a registry without repository caching.
func NewBunRegistry(db *bun.DB, logger interfaces.Logger) *BunRegistry {
	return NewBunRegistryWithCache(db, nil, nil, logger)
}

// NewBunRegistryWithCache creates a registry whose repository reads go
// through go-repository-cache.
func NewBunRegistryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer, logger interfaces.Logger) *BunRegistry {
	base := NewHandleRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunRegistry{
		repo:     base,
		snapshot: NewMemoryRegistry(),
		logger:   logging.OrNoOp(logger),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Load replaces the snapshot with every stored handle.
func (r *BunRegistry) Load(ctx context.Context) error {
	records, _, err := r.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("assets: list handles: %w", err)
	}
	handles := make([]Handle, 0, len(records))
	for _, rec := range records {
		handles = append(handles, rec.handle())
	}
	if err := r.snapshot.Replace(handles); err != nil {
		return err
	}
	r.logger.Debug("assets.registry.loaded", "handles", len(handles))
	return nil
}

// Save creates or updates a handle and refreshes the snapshot entry.
func (r *BunRegistry) Save(ctx context.Context, h Handle) (Handle, error) {
	h.Name = strings.TrimSpace(h.Name)
	if err := h.Validate(); err != nil {
		return Handle{}, err
	}
	key := recordKey(h.Kind, h.Name)

	existing, err := r.repo.GetByIdentifier(ctx, key)
	switch {
	case err == nil:
		existing.Src = h.Src
		existing.Deps = append([]string{}, h.Deps...)
		existing.Version = h.Version
		existing.Inline = h.Inline
		existing.UpdatedAt = r.now()
		if _, err := r.repo.Update(ctx, existing); err != nil {
			return Handle{}, fmt.Errorf("assets: update handle %s: %w", key, err)
		}
	case goerrors.IsCategory(err, repository.CategoryDatabaseNotFound):
		now := r.now()
		record := &HandleRecord{
			ID:        identity.AssetHandleUUID(string(h.Kind), h.Name),
			Key:       key,
			Name:      h.Name,
			Kind:      string(h.Kind),
			Src:       h.Src,
			Deps:      append([]string{}, h.Deps...),
			Version:   h.Version,
			Inline:    h.Inline,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := r.repo.Create(ctx, record); err != nil {
			return Handle{}, fmt.Errorf("assets: create handle %s: %w", key, err)
		}
	default:
		return Handle{}, fmt.Errorf("assets: lookup handle %s: %w", key, err)
	}

	if err := r.snapshot.Register(h); err != nil {
		return Handle{}, err
	}
	return cloneHandle(h), nil
}

// Delete removes a stored handle. Missing handles are ignored.
func (r *BunRegistry) Delete(ctx context.Context, kind Kind, name string) error {
	id := identity.AssetHandleUUID(string(kind), name)
	if err := r.repo.Delete(ctx, &HandleRecord{ID: id}); err != nil && !goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return fmt.Errorf("assets: delete handle %s: %w", recordKey(kind, name), err)
	}
	r.snapshot.Remove(kind, strings.TrimSpace(name))
	return nil
}

// Import saves every handle of a manifest.
func (r *BunRegistry) Import(ctx context.Context, manifest *Manifest) error {
	for _, h := range manifest.Handles() {
		if _, err := r.Save(ctx, h); err != nil {
			return err
		}
	}
	return nil
}

// Lookup satisfies Registry from the snapshot.
func (r *BunRegistry) Lookup(kind Kind, name string) (Handle, bool) {
	return r.snapshot.Lookup(kind, name)
}
