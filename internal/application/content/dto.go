package content

import (
	"time"

	"github.com/google/uuid"
	"github.com/mediaassoc/backend/internal/domain/content"
	"github.com/mediaassoc/backend/internal/domain/shared"
)

// ListFilter holds list query parameters
type ListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search" binding:"max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f ListFilter) toDomain() shared.Filter {
	return shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		Search:   f.Search,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
	}.Normalize()
}

// BlogPostRequest is the body for creating or replacing a blog post
type BlogPostRequest struct {
	Title         string   `json:"title" binding:"required,max=255"`
	Slug          string   `json:"slug" binding:"max=160"`
	Excerpt       string   `json:"excerpt" binding:"max=1000"`
	Body          string   `json:"body" binding:"required"`
	CoverImageURL string   `json:"cover_image_url" binding:"omitempty,max=1024"`
	Author        string   `json:"author" binding:"max=200"`
	Tags          []string `json:"tags" binding:"max=20,dive,max=50"`
	Published     bool     `json:"published"`
}

// ApplyTo copies the request onto the post
func (r BlogPostRequest) ApplyTo(p *content.BlogPost) {
	p.Title = r.Title
	p.Slug = r.Slug
	p.Excerpt = r.Excerpt
	p.Body = r.Body
	p.CoverImageURL = r.CoverImageURL
	p.Author = r.Author
	p.Tags = r.Tags
	p.SetPublished(r.Published)
	p.Touch()
}

// BlogPostResponse represents a blog post in API responses
type BlogPostResponse struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt"`
	Body          string     `json:"body"`
	CoverImageURL string     `json:"cover_image_url"`
	Author        string     `json:"author"`
	Tags          []string   `json:"tags"`
	Published     bool       `json:"published"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ToBlogPostResponse converts a domain post to its response
func ToBlogPostResponse(p *content.BlogPost) any {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return BlogPostResponse{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Excerpt:       p.Excerpt,
		Body:          p.Body,
		CoverImageURL: p.CoverImageURL,
		Author:        p.Author,
		Tags:          tags,
		Published:     p.Published,
		PublishedAt:   p.PublishedAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// EventRequest is the body for creating or replacing an event
type EventRequest struct {
	Title           string     `json:"title" binding:"required,max=255"`
	Slug            string     `json:"slug" binding:"max=160"`
	Description     string     `json:"description"`
	Location        string     `json:"location" binding:"max=255"`
	StartsAt        time.Time  `json:"starts_at" binding:"required"`
	EndsAt          *time.Time `json:"ends_at"`
	RegistrationURL string     `json:"registration_url" binding:"omitempty,url,max=1024"`
	CoverImageURL   string     `json:"cover_image_url" binding:"omitempty,max=1024"`
	Published       bool       `json:"published"`
}

// ApplyTo copies the request onto the event
func (r EventRequest) ApplyTo(e *content.Event) {
	e.Title = r.Title
	e.Slug = r.Slug
	e.Description = r.Description
	e.Location = r.Location
	e.StartsAt = r.StartsAt
	e.EndsAt = r.EndsAt
	e.RegistrationURL = r.RegistrationURL
	e.CoverImageURL = r.CoverImageURL
	e.Published = r.Published
	e.Touch()
}

// EventResponse represents an event in API responses
type EventResponse struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Description     string     `json:"description"`
	Location        string     `json:"location"`
	StartsAt        time.Time  `json:"starts_at"`
	EndsAt          *time.Time `json:"ends_at,omitempty"`
	RegistrationURL string     `json:"registration_url"`
	CoverImageURL   string     `json:"cover_image_url"`
	Published       bool       `json:"published"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ToEventResponse converts a domain event to its response
func ToEventResponse(e *content.Event) any {
	return EventResponse{
		ID:              e.ID,
		Title:           e.Title,
		Slug:            e.Slug,
		Description:     e.Description,
		Location:        e.Location,
		StartsAt:        e.StartsAt,
		EndsAt:          e.EndsAt,
		RegistrationURL: e.RegistrationURL,
		CoverImageURL:   e.CoverImageURL,
		Published:       e.Published,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

// ResourceRequest is the body for creating or replacing a library resource
type ResourceRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Slug        string `json:"slug" binding:"max=160"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"max=100"`
	FileURL     string `json:"file_url" binding:"required,max=1024"`
	Published   bool   `json:"published"`
}

// ApplyTo copies the request onto the resource
func (r ResourceRequest) ApplyTo(res *content.Resource) {
	res.Title = r.Title
	res.Slug = r.Slug
	res.Description = r.Description
	res.Category = r.Category
	res.FileURL = r.FileURL
	res.Published = r.Published
	res.Touch()
}

// ResourceResponse represents a library resource in API responses
type ResourceResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	FileURL     string    `json:"file_url"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToResourceResponse converts a domain resource to its response
func ToResourceResponse(r *content.Resource) any {
	return ResourceResponse{
		ID:          r.ID,
		Title:       r.Title,
		Slug:        r.Slug,
		Description: r.Description,
		Category:    r.Category,
		FileURL:     r.FileURL,
		Published:   r.Published,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// TeamMemberRequest is the body for creating or replacing a team profile
type TeamMemberRequest struct {
	Name      string `json:"name" binding:"required,max=200"`
	Slug      string `json:"slug" binding:"max=160"`
	Role      string `json:"role" binding:"max=200"`
	Bio       string `json:"bio"`
	PhotoURL  string `json:"photo_url" binding:"omitempty,max=1024"`
	SortOrder int    `json:"sort_order" binding:"min=0"`
	Published bool   `json:"published"`
}

// ApplyTo copies the request onto the profile
func (r TeamMemberRequest) ApplyTo(m *content.TeamMember) {
	m.Name = r.Name
	m.Slug = r.Slug
	m.Role = r.Role
	m.Bio = r.Bio
	m.PhotoURL = r.PhotoURL
	m.SortOrder = r.SortOrder
	m.Published = r.Published
	m.Touch()
}

// TeamMemberResponse represents a team profile in API responses
type TeamMemberResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Role      string    `json:"role"`
	Bio       string    `json:"bio"`
	PhotoURL  string    `json:"photo_url"`
	SortOrder int       `json:"sort_order"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToTeamMemberResponse converts a domain profile to its response
func ToTeamMemberResponse(m *content.TeamMember) any {
	return TeamMemberResponse{
		ID:        m.ID,
		Name:      m.Name,
		Slug:      m.Slug,
		Role:      m.Role,
		Bio:       m.Bio,
		PhotoURL:  m.PhotoURL,
		SortOrder: m.SortOrder,
		Published: m.Published,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
