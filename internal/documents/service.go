package documents

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-headless/internal/elements"
	"github.com/goliatone/go-headless/internal/logging"
	"github.com/goliatone/go-headless/pkg/interfaces"
)

// Service describes page document operations.
type Service interface {
	Get(ctx context.Context, pageID int64) (*Document, error)
	List(ctx context.Context) ([]*Document, error)
	Save(ctx context.Context, doc *Document) (*Document, error)
	Delete(ctx context.Context, pageID int64) error
}

// ServiceOption configures the document service.
type ServiceOption func(*service)

// WithLogger overrides the logger used by the service.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		s.logger = logging.OrNoOp(logger)
	}
}

// WithClock overrides the clock used to stamp updates.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

type service struct {
	repo   Repository
	logger interfaces.Logger
	now    func() time.Time
}

// NewService constructs a document service backed by repo.
func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:   repo,
		logger: logging.NoOp(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *service) Get(ctx context.Context, pageID int64) (*Document, error) {
	if pageID <= 0 {
		return nil, ErrPageIDRequired
	}
	return s.repo.GetByPageID(ctx, pageID)
}

func (s *service) List(ctx context.Context) ([]*Document, error) {
	return s.repo.List(ctx)
}

// Save validates the element tree and upserts the document. Every write bumps
// the revision so clients can detect stale bundles.
func (s *service) Save(ctx context.Context, doc *Document) (*Document, error) {
	if doc == nil || doc.PageID <= 0 {
		return nil, ErrPageIDRequired
	}
	doc.PostType = strings.TrimSpace(doc.PostType)
	if doc.PostType == "" {
		return nil, ErrPostTypeRequired
	}
	if doc.BuiltWithBuilder {
		if err := elements.Validate(doc.Elements); err != nil {
			return nil, err
		}
	}
	doc.CSSMode = ParseCSSMode(string(doc.CSSMode))

	now := s.now()
	existing, err := s.repo.GetByPageID(ctx, doc.PageID)
	switch {
	case err == nil:
		doc.ID = existing.ID
		doc.CreatedAt = existing.CreatedAt
		doc.Revision = existing.Revision + 1
		doc.UpdatedAt = now
		saved, err := s.repo.Update(ctx, doc)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("documents.updated", "post_id", doc.PageID, "revision", saved.Revision)
		return saved, nil
	case IsNotFound(err):
		doc.Revision = 1
		doc.CreatedAt = now
		doc.UpdatedAt = now
		saved, err := s.repo.Create(ctx, doc)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("documents.created", "post_id", doc.PageID)
		return saved, nil
	default:
		return nil, err
	}
}

func (s *service) Delete(ctx context.Context, pageID int64) error {
	if pageID <= 0 {
		return ErrPageIDRequired
	}
	if err := s.repo.Delete(ctx, pageID); err != nil {
		s.logger.Debug("documents.delete.failed", "post_id", pageID, "error", err)
		return err
	}
	return nil
}
