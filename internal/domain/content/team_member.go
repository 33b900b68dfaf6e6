package content

import (
	"strings"

	"github.com/mediaassoc/backend/internal/domain/shared"
)

// TeamMember is a profile on the association's team page
type TeamMember struct {
	shared.BaseEntity
	Name      string
	Slug      string
	Role      string
	Bio       string
	PhotoURL  string
	SortOrder int
	Published bool
}

// NewTeamMember creates an unsaved profile with a fresh identity
func NewTeamMember() *TeamMember {
	return &TeamMember{BaseEntity: shared.NewBaseEntity()}
}

func (m *TeamMember) GetSlug() string { return m.Slug }
func (m *TeamMember) SetSlug(slug string) { m.Slug = slug }
func (m *TeamMember) SlugSource() string { return m.Name }
func (m *TeamMember) IsPublished() bool { return m.Published }

// Validate checks required fields
func (m *TeamMember) Validate() error {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return shared.InvalidInput("name is required")
	}
	if m.SortOrder < 0 {
		return shared.InvalidInput("sort_order must not be negative")
	}
	return nil
}
