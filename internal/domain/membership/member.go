package membership

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mediaassoc/backend/internal/domain/shared"
)

// MemberApplication is a public application to join the association
type MemberApplication struct {
	shared.BaseEntity
	FirstName         string
	LastName          string
	Email             string
	Phone             string
	Organization      string
	JobTitle          string
	MembershipType    string
	Motivation        string
	RefereeOneName    string
	RefereeOneContact string
	RefereeTwoName    string
	RefereeTwoContact string
	TermsAccepted     bool
	ApplicationDate   *time.Time
	Status            MemberStatus
	ReviewedBy        *uuid.UUID
	ReviewedAt        *time.Time
}

// MemberApplicationInput carries the submitted application form
type MemberApplicationInput struct {
	FirstName         string
	LastName          string
	Email             string
	Phone             string
	Organization      string
	JobTitle          string
	MembershipType    string
	Motivation        string
	RefereeOneName    string
	RefereeOneContact string
	RefereeTwoName    string
	RefereeTwoContact string
	TermsAccepted     bool
	ApplicationDate   *time.Time
}

// NewMemberApplication validates the submitted form and creates an
// application in the Pending Review state.
func NewMemberApplication(in MemberApplicationInput) (*MemberApplication, error) {
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	if firstName == "" || lastName == "" {
		return nil, shared.InvalidInput("first and last name are required")
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if !in.TermsAccepted {
		return nil, shared.InvalidInput("terms must be accepted")
	}

	m := &MemberApplication{
		BaseEntity:        shared.NewBaseEntity(),
		FirstName:         firstName,
		LastName:          lastName,
		Email:             email,
		Phone:             strings.TrimSpace(in.Phone),
		Organization:      strings.TrimSpace(in.Organization),
		JobTitle:          strings.TrimSpace(in.JobTitle),
		MembershipType:    strings.TrimSpace(in.MembershipType),
		Motivation:        strings.TrimSpace(in.Motivation),
		RefereeOneName:    strings.TrimSpace(in.RefereeOneName),
		RefereeOneContact: strings.TrimSpace(in.RefereeOneContact),
		RefereeTwoName:    strings.TrimSpace(in.RefereeTwoName),
		RefereeTwoContact: strings.TrimSpace(in.RefereeTwoContact),
		TermsAccepted:     true,
		Status:            MemberStatusPendingReview,
	}

	applied := m.CreatedAt
	if in.ApplicationDate != nil && !in.ApplicationDate.IsZero() {
		applied = *in.ApplicationDate
	}
	m.ApplicationDate = &applied

	return m, nil
}

// FullName joins first and last name with a single space
func (m *MemberApplication) FullName() string {
	return joinName(m.FirstName, m.LastName)
}

// ChangeStatus validates and applies a reviewer's status decision
func (m *MemberApplication) ChangeStatus(target MemberStatus, reviewer *uuid.UUID) error {
	if !target.IsValid() {
		return shared.InvalidInput(fmt.Sprintf("invalid member status %q", target))
	}
	if !m.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.ErrInvalidState.Code,
			fmt.Sprintf("cannot move application from %q to %q", m.Status, target))
	}

	now := time.Now()
	m.Status = target
	m.ReviewedBy = reviewer
	m.ReviewedAt = &now
	m.UpdatedAt = now
	return nil
}

// ArchiveYear is the ledger year for this application: the application
// date's year, falling back to the creation timestamp.
func (m *MemberApplication) ArchiveYear() string {
	return YearOf(m.ApplicationDate, m.CreatedAt)
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", shared.InvalidInput("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", shared.InvalidInput("email is not a valid address")
	}
	return email, nil
}

func joinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}
