package membership

import (
	"fmt"
	"strings"
	"time"

	"github.com/mediaassoc/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RenewalRequest is a returning member's request to renew.
// MembershipNumber refers to an earlier membership but is not enforced as a reference.
type RenewalRequest struct {
	shared.BaseEntity
	MembershipNumber      string
	FirstName             string
	LastName              string
	Email                 string
	Phone                 string
	Organization          string
	MembershipType        string
	RenewalPeriod         string
	RenewalDate           *time.Time
	Interests             []string
	ConsentDataProcessing bool
	ConsentCommunications bool
	PaymentMethod         string
	Amount                decimal.Decimal
	Status                RenewalStatus
}

// RenewalInput carries the submitted renewal form
type RenewalInput struct {
	MembershipNumber      string
	FirstName             string
	LastName              string
	Email                 string
	Phone                 string
	Organization          string
	MembershipType        string
	RenewalPeriod         string
	RenewalDate           *time.Time
	Interests             []string
	ConsentDataProcessing bool
	ConsentCommunications bool
	PaymentMethod         string
	Amount                decimal.Decimal
}

// RenewalUpdate is a partial admin edit. Nil fields are left untouched.
type RenewalUpdate struct {
	FirstName      *string
	LastName       *string
	Email          *string
	Phone          *string
	Organization   *string
	MembershipType *string
	RenewalPeriod  *string
	PaymentMethod  *string
	Interests      []string
	Amount         *decimal.Decimal
	Status         *RenewalStatus
}

// NewRenewalRequest validates the submitted form and creates an Active renewal
func NewRenewalRequest(in RenewalInput) (*RenewalRequest, error) {
	number := strings.TrimSpace(in.MembershipNumber)
	if number == "" {
		return nil, shared.InvalidInput("membership number is required")
	}
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	if firstName == "" || lastName == "" {
		return nil, shared.InvalidInput("first and last name are required")
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if !in.ConsentDataProcessing {
		return nil, shared.InvalidInput("consent to data processing is required")
	}
	if in.Amount.IsNegative() {
		return nil, shared.InvalidInput("amount cannot be negative")
	}

	r := &RenewalRequest{
		BaseEntity:            shared.NewBaseEntity(),
		MembershipNumber:      number,
		FirstName:             firstName,
		LastName:              lastName,
		Email:                 email,
		Phone:                 strings.TrimSpace(in.Phone),
		Organization:          strings.TrimSpace(in.Organization),
		MembershipType:        strings.TrimSpace(in.MembershipType),
		RenewalPeriod:         strings.TrimSpace(in.RenewalPeriod),
		Interests:             cleanInterests(in.Interests),
		ConsentDataProcessing: true,
		ConsentCommunications: in.ConsentCommunications,
		PaymentMethod:         strings.TrimSpace(in.PaymentMethod),
		Amount:                in.Amount.Round(2),
		Status:                RenewalStatusActive,
	}

	renewed := r.CreatedAt
	if in.RenewalDate != nil && !in.RenewalDate.IsZero() {
		renewed = *in.RenewalDate
	}
	r.RenewalDate = &renewed

	return r, nil
}

// FullName joins first and last name with a single space
func (r *RenewalRequest) FullName() string {
	return joinName(r.FirstName, r.LastName)
}

// Apply validates and applies an admin edit. The status change, if any,
// goes through the same transition check as a dedicated status update.
func (r *RenewalRequest) Apply(u RenewalUpdate) error {
	if u.Status != nil {
		if !u.Status.IsValid() {
			return shared.InvalidInput(fmt.Sprintf("invalid renewal status %q", *u.Status))
		}
		if !r.Status.CanTransitionTo(*u.Status) {
			return shared.NewDomainError(shared.ErrInvalidState.Code,
				fmt.Sprintf("cannot move renewal from %q to %q", r.Status, *u.Status))
		}
	}
	if u.Email != nil {
		email, err := normalizeEmail(*u.Email)
		if err != nil {
			return err
		}
		r.Email = email
	}
	if u.FirstName != nil {
		if strings.TrimSpace(*u.FirstName) == "" {
			return shared.InvalidInput("first name cannot be blank")
		}
		r.FirstName = strings.TrimSpace(*u.FirstName)
	}
	if u.LastName != nil {
		if strings.TrimSpace(*u.LastName) == "" {
			return shared.InvalidInput("last name cannot be blank")
		}
		r.LastName = strings.TrimSpace(*u.LastName)
	}
	if u.Amount != nil {
		if u.Amount.IsNegative() {
			return shared.InvalidInput("amount cannot be negative")
		}
		r.Amount = u.Amount.Round(2)
	}
	assignTrimmed(&r.Phone, u.Phone)
	assignTrimmed(&r.Organization, u.Organization)
	assignTrimmed(&r.MembershipType, u.MembershipType)
	assignTrimmed(&r.RenewalPeriod, u.RenewalPeriod)
	assignTrimmed(&r.PaymentMethod, u.PaymentMethod)
	if u.Interests != nil {
		r.Interests = cleanInterests(u.Interests)
	}
	if u.Status != nil {
		r.Status = *u.Status
	}
	r.UpdatedAt = time.Now()
	return nil
}

// ArchiveYear is the ledger year for this renewal: the renewal date's year,
// falling back to the creation timestamp.
func (r *RenewalRequest) ArchiveYear() string {
	return YearOf(r.RenewalDate, r.CreatedAt)
}

func assignTrimmed(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// cleanInterests trims entries and drops blanks and duplicates, keeping order
func cleanInterests(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
