package models

import (
	"time"

	"github.com/mediaassoc/backend/internal/domain/content"
)

// BlogPostModel is the persistence model for a blog post.
type BlogPostModel struct {
	BaseModel
	Title         string     `gorm:"type:varchar(255);not null"`
	Slug          string     `gorm:"type:varchar(160);not null;uniqueIndex"`
	Excerpt       string     `gorm:"type:text"`
	Body          string     `gorm:"type:text;not null"`
	CoverImageURL string     `gorm:"type:varchar(1024)"`
	Author        string     `gorm:"type:varchar(200)"`
	Tags          StringList `gorm:"column:tags"`
	Published     bool       `gorm:"not null;index"`
	PublishedAt   *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (BlogPostModel) TableName() string {
	return "blog_posts"
}

// ToDomain converts the persistence model to a domain BlogPost.
func (m *BlogPostModel) ToDomain() *content.BlogPost {
	return &content.BlogPost{
		BaseEntity:    m.BaseModel.ToDomain(),
		Title:         m.Title,
		Slug:          m.Slug,
		Excerpt:       m.Excerpt,
		Body:          m.Body,
		CoverImageURL: m.CoverImageURL,
		Author:        m.Author,
		Tags:          append([]string{}, m.Tags...),
		Published:     m.Published,
		PublishedAt:   m.PublishedAt,
	}
}

// BlogPostModelFromDomain creates a new persistence model from a domain BlogPost.
func BlogPostModelFromDomain(p *content.BlogPost) *BlogPostModel {
	m := &BlogPostModel{
		Title:         p.Title,
		Slug:          p.Slug,
		Excerpt:       p.Excerpt,
		Body:          p.Body,
		CoverImageURL: p.CoverImageURL,
		Author:        p.Author,
		Tags:          StringList(append([]string{}, p.Tags...)),
		Published:     p.Published,
		PublishedAt:   p.PublishedAt,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}

// EventModel is the persistence model for an event.
type EventModel struct {
	BaseModel
	Title           string     `gorm:"type:varchar(255);not null"`
	Slug            string     `gorm:"type:varchar(160);not null;uniqueIndex"`
	Description     string     `gorm:"type:text"`
	Location        string     `gorm:"type:varchar(255)"`
	StartsAt        time.Time  `gorm:"not null;index"`
	EndsAt          *time.Time `gorm:"index"`
	RegistrationURL string     `gorm:"type:varchar(1024)"`
	CoverImageURL   string     `gorm:"type:varchar(1024)"`
	Published       bool       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (EventModel) TableName() string {
	return "events"
}

// ToDomain converts the persistence model to a domain Event.
func (m *EventModel) ToDomain() *content.Event {
	return &content.Event{
		BaseEntity:      m.BaseModel.ToDomain(),
		Title:           m.Title,
		Slug:            m.Slug,
		Description:     m.Description,
		Location:        m.Location,
		StartsAt:        m.StartsAt,
		EndsAt:          m.EndsAt,
		RegistrationURL: m.RegistrationURL,
		CoverImageURL:   m.CoverImageURL,
		Published:       m.Published,
	}
}

// EventModelFromDomain creates a new persistence model from a domain Event.
func EventModelFromDomain(e *content.Event) *EventModel {
	m := &EventModel{
		Title:           e.Title,
		Slug:            e.Slug,
		Description:     e.Description,
		Location:        e.Location,
		StartsAt:        e.StartsAt,
		EndsAt:          e.EndsAt,
		RegistrationURL: e.RegistrationURL,
		CoverImageURL:   e.CoverImageURL,
		Published:       e.Published,
	}
	m.FromDomainBaseEntity(e.BaseEntity)
	return m
}

// ResourceModel is the persistence model for a library resource.
type ResourceModel struct {
	BaseModel
	Title       string `gorm:"type:varchar(255);not null"`
	Slug        string `gorm:"type:varchar(160);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	Category    string `gorm:"type:varchar(100);index"`
	FileURL     string `gorm:"type:varchar(1024);not null"`
	Published   bool   `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ResourceModel) TableName() string {
	return "resources"
}

// ToDomain converts the persistence model to a domain Resource.
func (m *ResourceModel) ToDomain() *content.Resource {
	return &content.Resource{
		BaseEntity:  m.BaseModel.ToDomain(),
		Title:       m.Title,
		Slug:        m.Slug,
		Description: m.Description,
		Category:    m.Category,
		FileURL:     m.FileURL,
		Published:   m.Published,
	}
}

// ResourceModelFromDomain creates a new persistence model from a domain Resource.
func ResourceModelFromDomain(r *content.Resource) *ResourceModel {
	m := &ResourceModel{
		Title:       r.Title,
		Slug:        r.Slug,
		Description: r.Description,
		Category:    r.Category,
		FileURL:     r.FileURL,
		Published:   r.Published,
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}

// TeamMemberModel is the persistence model for a team profile.
type TeamMemberModel struct {
	BaseModel
	Name      string `gorm:"type:varchar(200);not null"`
	Slug      string `gorm:"type:varchar(160);not null;uniqueIndex"`
	Role      string `gorm:"type:varchar(200)"`
	Bio       string `gorm:"type:text"`
	PhotoURL  string `gorm:"type:varchar(1024)"`
	SortOrder int    `gorm:"not null;index"`
	Published bool   `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (TeamMemberModel) TableName() string {
	return "team_members"
}

// ToDomain converts the persistence model to a domain TeamMember.
func (m *TeamMemberModel) ToDomain() *content.TeamMember {
	return &content.TeamMember{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Slug:       m.Slug,
		Role:       m.Role,
		Bio:        m.Bio,
		PhotoURL:   m.PhotoURL,
		SortOrder:  m.SortOrder,
		Published:  m.Published,
	}
}

// TeamMemberModelFromDomain creates a new persistence model from a domain TeamMember.
func TeamMemberModelFromDomain(t *content.TeamMember) *TeamMemberModel {
	m := &TeamMemberModel{
		Name:      t.Name,
		Slug:      t.Slug,
		Role:      t.Role,
		Bio:       t.Bio,
		PhotoURL:  t.PhotoURL,
		SortOrder: t.SortOrder,
		Published: t.Published,
	}
	m.FromDomainBaseEntity(t.BaseEntity)
	return m
}

// All returns every model managed by the application, in dependency order.
// Tests use it with AutoMigrate; production schemas come from SQL migrations.
func All() []any {
	return []any{
		&MemberApplicationModel{},
		&RenewalRequestModel{},
		&HistoricalMemberModel{},
		&ArchivalJobModel{},
		&AdminUserModel{},
		&BlogPostModel{},
		&EventModel{},
		&ResourceModel{},
		&TeamMemberModel{},
	}
}
