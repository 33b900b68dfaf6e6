package content

import (
	"strings"
	"time"

	"github.com/mediaassoc/backend/internal/domain/shared"
)

// BlogPost is a news article or blog entry
type BlogPost struct {
	shared.BaseEntity
	Title         string
	Slug          string
	Excerpt       string
	Body          string
	CoverImageURL string
	Author        string
	Tags          []string
	Published     bool
	PublishedAt   *time.Time
}

// NewBlogPost creates an unsaved post with a fresh identity
func NewBlogPost() *BlogPost {
	return &BlogPost{BaseEntity: shared.NewBaseEntity()}
}

func (p *BlogPost) GetSlug() string { return p.Slug }
func (p *BlogPost) SetSlug(slug string) { p.Slug = slug }
func (p *BlogPost) SlugSource() string { return p.Title }
func (p *BlogPost) IsPublished() bool { return p.Published }

// SetPublished toggles visibility. The first publication is timestamped.
func (p *BlogPost) SetPublished(published bool) {
	p.Published = published
	if published && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}
}

// Validate checks required fields
func (p *BlogPost) Validate() error {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return shared.InvalidInput("title is required")
	}
	if strings.TrimSpace(p.Body) == "" {
		return shared.InvalidInput("body is required")
	}
	return nil
}
