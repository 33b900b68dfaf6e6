package content

import (
	"strings"

	"github.com/mediaassoc/backend/internal/domain/shared"
)

// Resource is a downloadable document in the resource library
type Resource struct {
	shared.BaseEntity
	Title       string
	Slug        string
	Description string
	Category    string
	FileURL     string
	Published   bool
}

// NewResource creates an unsaved resource with a fresh identity
func NewResource() *Resource {
	return &Resource{BaseEntity: shared.NewBaseEntity()}
}

func (r *Resource) GetSlug() string { return r.Slug }
func (r *Resource) SetSlug(slug string) { r.Slug = slug }
func (r *Resource) SlugSource() string { return r.Title }
func (r *Resource) IsPublished() bool { return r.Published }

// Validate checks required fields
func (r *Resource) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.FileURL = strings.TrimSpace(r.FileURL)
	if r.Title == "" {
		return shared.InvalidInput("title is required")
	}
	if r.FileURL == "" {
		return shared.InvalidInput("file_url is required")
	}
	return nil
}
