package documents

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrPageIDRequired   = errors.New("documents: page id must be positive")
	ErrPostTypeRequired = errors.New("documents: post type is required")
)

// Repository persists page documents keyed by page id.
type Repository interface {
	Create(ctx context.Context, doc *Document) (*Document, error)
	Update(ctx context.Context, doc *Document) (*Document, error)
	GetByPageID(ctx context.Context, pageID int64) (*Document, error)
	List(ctx context.Context) ([]*Document, error)
	Delete(ctx context.Context, pageID int64) error
}

// NotFoundError is returned when a document cannot be located.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
