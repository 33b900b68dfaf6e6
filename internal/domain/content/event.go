package content

import (
	"strings"
	"time"

	"github.com/mediaassoc/backend/internal/domain/shared"
)

// Event is a scheduled association event
type Event struct {
	shared.BaseEntity
	Title           string
	Slug            string
	Description     string
	Location        string
	StartsAt        time.Time
	EndsAt          *time.Time
	RegistrationURL string
	CoverImageURL   string
	Published       bool
}

// NewEvent creates an unsaved event with a fresh identity
func NewEvent() *Event {
	return &Event{BaseEntity: shared.NewBaseEntity()}
}

func (e *Event) GetSlug() string { return e.Slug }
func (e *Event) SetSlug(slug string) { e.Slug = slug }
func (e *Event) SlugSource() string { return e.Title }
func (e *Event) IsPublished() bool { return e.Published }

// IsUpcoming reports whether the event has not started yet
func (e *Event) IsUpcoming(now time.Time) bool {
	return e.StartsAt.After(now)
}

// Validate checks required fields and the time range
func (e *Event) Validate() error {
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		return shared.InvalidInput("title is required")
	}
	if e.StartsAt.IsZero() {
		return shared.InvalidInput("starts_at is required")
	}
	if e.EndsAt != nil && e.EndsAt.Before(e.StartsAt) {
		return shared.InvalidInput("ends_at must not be before starts_at")
	}
	return nil
}
