package content

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mediaassoc/backend/internal/domain/shared"
)

// Item is implemented by every publishable content type
type Item interface {
	GetID() uuid.UUID
	GetSlug() string
	SetSlug(slug string)
	// SlugSource is the text a missing slug is generated from
	SlugSource() string
	IsPublished() bool
	Validate() error
}

// EnsureSlug fills a blank slug from the item's title and checks a supplied one
func EnsureSlug(item Item) error {
	slug := strings.TrimSpace(item.GetSlug())
	if slug == "" {
		slug = Slugify(item.SlugSource())
		if slug == "" {
			return shared.InvalidInput("cannot derive a slug; provide one explicitly")
		}
	}
	if !ValidSlug(slug) {
		return shared.InvalidInput("slug may only contain lower-case letters, digits and dashes")
	}
	item.SetSlug(slug)
	return nil
}

// Repository persists one content type. T is a pointer to the entity.
type Repository[T Item] interface {
	// Create inserts the item; a taken slug yields shared.ErrAlreadyExists
	Create(ctx context.Context, item T) error
	Update(ctx context.Context, item T) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (T, error)
	FindBySlug(ctx context.Context, slug string) (T, error)
	// FindAll returns one page and the total count. With publishedOnly set
	// drafts are excluded.
	FindAll(ctx context.Context, filter shared.Filter, publishedOnly bool) ([]T, int64, error)
}
