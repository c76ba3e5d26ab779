package documents

import (
	"context"
	"sort"
	"strconv"
	"sync"
)

// MemoryRepository keeps documents in process.
type MemoryRepository struct {
	mu     sync.RWMutex
	byPage map[int64]*Document
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byPage: map[int64]*Document{}}
}

func (r *MemoryRepository) Create(_ context.Context, doc *Document) (*Document, error) {
	if doc == nil {
		return nil, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	cloned := cloneDocument(doc)
	r.byPage[cloned.PageID] = cloned
	return cloneDocument(cloned), nil
}

func (r *MemoryRepository) Update(_ context.Context, doc *Document) (*Document, error) {
	if doc == nil {
		return nil, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byPage[doc.PageID]; !ok {
		return nil, &NotFoundError{Resource: "document", Key: strconv.FormatInt(doc.PageID, 10)}
	}
	cloned := cloneDocument(doc)
	r.byPage[cloned.PageID] = cloned
	return cloneDocument(cloned), nil
}

func (r *MemoryRepository) GetByPageID(_ context.Context, pageID int64) (*Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.byPage[pageID]
	if !ok {
		return nil, &NotFoundError{Resource: "document", Key: strconv.FormatInt(pageID, 10)}
	}
	return cloneDocument(doc), nil
}

func (r *MemoryRepository) List(_ context.Context) ([]*Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Document, 0, len(r.byPage))
	for _, doc := range r.byPage {
		out = append(out, cloneDocument(doc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PageID < out[j].PageID })
	return out, nil
}

func (r *MemoryRepository) Delete(_ context.Context, pageID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byPage[pageID]; !ok {
		return &NotFoundError{Resource: "document", Key: strconv.FormatInt(pageID, 10)}
	}
	delete(r.byPage, pageID)
	return nil
}
