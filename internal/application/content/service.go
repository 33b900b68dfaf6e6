// Package content implements publishing of the public site's articles,
// events, resources and team profiles.
package content

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mediaassoc/backend/internal/domain/content"
	"github.com/mediaassoc/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Input fills an item from a request body
type Input[T content.Item] interface {
	ApplyTo(item T)
}

// Service provides CRUD for one content type
type Service[T content.Item] struct {
	repo     content.Repository[T]
	newItem  func() T
	resource string
	logger   *zap.Logger
}

// NewService creates a content service. newItem returns an empty entity
// with a fresh ID.
func NewService[T content.Item](repo content.Repository[T], newItem func() T, resource string, logger *zap.Logger) *Service[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service[T]{repo: repo, newItem: newItem, resource: resource, logger: logger}
}

// NewBlogPostService creates the service for blog posts
func NewBlogPostService(repo content.Repository[*content.BlogPost], logger *zap.Logger) *Service[*content.BlogPost] {
	return NewService(repo, content.NewBlogPost, "blog post", logger)
}

// NewEventService creates the service for events
func NewEventService(repo content.Repository[*content.Event], logger *zap.Logger) *Service[*content.Event] {
	return NewService(repo, content.NewEvent, "event", logger)
}

// NewResourceService creates the service for library resources
func NewResourceService(repo content.Repository[*content.Resource], logger *zap.Logger) *Service[*content.Resource] {
	return NewService(repo, content.NewResource, "resource", logger)
}

// NewTeamMemberService creates the service for team profiles
func NewTeamMemberService(repo content.Repository[*content.TeamMember], logger *zap.Logger) *Service[*content.TeamMember] {
	return NewService(repo, content.NewTeamMember, "team member", logger)
}

// Resource returns the human readable name of the content type
func (s *Service[T]) Resource() string {
	return s.resource
}

// Create validates and stores a new item
func (s *Service[T]) Create(ctx context.Context, in Input[T]) (T, error) {
	var zero T
	item := s.newItem()
	in.ApplyTo(item)
	if err := prepare(item); err != nil {
		return zero, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return zero, s.slugConflict(err)
	}
	s.logger.Info("Content created",
		zap.String("resource", s.resource),
		zap.String("id", item.GetID().String()),
		zap.String("slug", item.GetSlug()))
	return item, nil
}

// Update replaces the fields of an existing item
func (s *Service[T]) Update(ctx context.Context, rawID string, in Input[T]) (T, error) {
	var zero T
	id, err := shared.ParseID(rawID)
	if err != nil {
		return zero, err
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return zero, err
	}
	in.ApplyTo(item)
	if err := prepare(item); err != nil {
		return zero, err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return zero, s.slugConflict(err)
	}
	return item, nil
}

// Delete removes an item
func (s *Service[T]) Delete(ctx context.Context, rawID string) error {
	id, err := shared.ParseID(rawID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Content deleted", zap.String("resource", s.resource), zap.String("id", id.String()))
	return nil
}

// GetByID returns any item, drafts included
func (s *Service[T]) GetByID(ctx context.Context, rawID string) (T, error) {
	var zero T
	id, err := shared.ParseID(rawID)
	if err != nil {
		return zero, err
	}
	return s.repo.FindByID(ctx, id)
}

// GetPublished looks an item up by ID or slug for the public site.
// Drafts are reported as not found.
func (s *Service[T]) GetPublished(ctx context.Context, idOrSlug string) (T, error) {
	var (
		zero T
		item T
		err  error
	)
	if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		item, err = s.repo.FindByID(ctx, id)
	} else {
		item, err = s.repo.FindBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return zero, err
	}
	if !item.IsPublished() {
		return zero, shared.NotFound(s.resource)
	}
	return item, nil
}

// List returns one page. Public callers pass publishedOnly.
func (s *Service[T]) List(ctx context.Context, filter ListFilter, publishedOnly bool) ([]T, int64, error) {
	return s.repo.FindAll(ctx, filter.toDomain(), publishedOnly)
}

func prepare(item content.Item) error {
	if err := content.EnsureSlug(item); err != nil {
		return err
	}
	return item.Validate()
}

func (s *Service[T]) slugConflict(err error) error {
	if errors.Is(err, shared.ErrAlreadyExists) {
		return shared.NewDomainError(shared.ErrAlreadyExists.Code, "a "+s.resource+" with this slug already exists")
	}
	return err
}
