package membership

import (
	"time"

	"github.com/google/uuid"
	"github.com/mediaassoc/backend/internal/domain/membership"
	"github.com/shopspring/decimal"
)

// SubmitMemberRequest is the public membership application form
type SubmitMemberRequest struct {
	FirstName         string     `json:"first_name" binding:"required,max=100"`
	LastName          string     `json:"last_name" binding:"required,max=100"`
	Email             string     `json:"email" binding:"required,email,max=255"`
	Phone             string     `json:"phone" binding:"max=50"`
	Organization      string     `json:"organization" binding:"max=200"`
	JobTitle          string     `json:"job_title" binding:"max=200"`
	MembershipType    string     `json:"membership_type" binding:"max=100"`
	Motivation        string     `json:"motivation" binding:"max=5000"`
	RefereeOneName    string     `json:"referee_one_name" binding:"max=200"`
	RefereeOneContact string     `json:"referee_one_contact" binding:"max=255"`
	RefereeTwoName    string     `json:"referee_two_name" binding:"max=200"`
	RefereeTwoContact string     `json:"referee_two_contact" binding:"max=255"`
	TermsAccepted     bool       `json:"terms_accepted"`
	ApplicationDate   *FlexDate  `json:"application_date"`
}

func (r SubmitMemberRequest) toInput() membership.MemberApplicationInput {
	return membership.MemberApplicationInput{
		FirstName:         r.FirstName,
		LastName:          r.LastName,
		Email:             r.Email,
		Phone:             r.Phone,
		Organization:      r.Organization,
		JobTitle:          r.JobTitle,
		MembershipType:    r.MembershipType,
		Motivation:        r.Motivation,
		RefereeOneName:    r.RefereeOneName,
		RefereeOneContact: r.RefereeOneContact,
		RefereeTwoName:    r.RefereeTwoName,
		RefereeTwoContact: r.RefereeTwoContact,
		TermsAccepted:     r.TermsAccepted,
		ApplicationDate:   r.ApplicationDate.TimePtr(),
	}
}

// UpdateStatusRequest carries a reviewer's status decision
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// MemberResponse represents a membership application in API responses
type MemberResponse struct {
	ID                uuid.UUID  `json:"id"`
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone"`
	Organization      string     `json:"organization"`
	JobTitle          string     `json:"job_title"`
	MembershipType    string     `json:"membership_type"`
	Motivation        string     `json:"motivation"`
	RefereeOneName    string     `json:"referee_one_name"`
	RefereeOneContact string     `json:"referee_one_contact"`
	RefereeTwoName    string     `json:"referee_two_name"`
	RefereeTwoContact string     `json:"referee_two_contact"`
	TermsAccepted     bool       `json:"terms_accepted"`
	ApplicationDate   *time.Time `json:"application_date"`
	Status            string     `json:"status"`
	ReviewedBy        *uuid.UUID `json:"reviewed_by,omitempty"`
	ReviewedAt        *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ToMemberResponse converts a domain application to its response form
func ToMemberResponse(m *membership.MemberApplication) *MemberResponse {
	return &MemberResponse{
		ID:                m.ID,
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		Email:             m.Email,
		Phone:             m.Phone,
		Organization:      m.Organization,
		JobTitle:          m.JobTitle,
		MembershipType:    m.MembershipType,
		Motivation:        m.Motivation,
		RefereeOneName:    m.RefereeOneName,
		RefereeOneContact: m.RefereeOneContact,
		RefereeTwoName:    m.RefereeTwoName,
		RefereeTwoContact: m.RefereeTwoContact,
		TermsAccepted:     m.TermsAccepted,
		ApplicationDate:   m.ApplicationDate,
		Status:            string(m.Status),
		ReviewedBy:        m.ReviewedBy,
		ReviewedAt:        m.ReviewedAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// MemberStatusResponse is the result of a status update. Archived is false
// when the status was saved but the ledger projection failed and was queued
// for retry.
type MemberStatusResponse struct {
	*MemberResponse
	Archived bool `json:"archived"`
}

// SubmitRenewalRequest is the public membership renewal form
type SubmitRenewalRequest struct {
	MembershipNumber      string           `json:"membership_number" binding:"required,max=50"`
	FirstName             string           `json:"first_name" binding:"required,max=100"`
	LastName              string           `json:"last_name" binding:"required,max=100"`
	Email                 string           `json:"email" binding:"required,email,max=255"`
	Phone                 string           `json:"phone" binding:"max=50"`
	Organization          string           `json:"organization" binding:"max=200"`
	MembershipType        string           `json:"membership_type" binding:"max=100"`
	RenewalPeriod         string           `json:"renewal_period" binding:"max=50"`
	RenewalDate           *FlexDate        `json:"renewal_date"`
	Interests             []string         `json:"interests" binding:"max=20,dive,max=100"`
	ConsentDataProcessing bool             `json:"consent_data_processing"`
	ConsentCommunications bool             `json:"consent_communications"`
	PaymentMethod         string           `json:"payment_method" binding:"max=50"`
	Amount                *decimal.Decimal `json:"amount"`
}

func (r SubmitRenewalRequest) toInput() membership.RenewalInput {
	in := membership.RenewalInput{
		MembershipNumber:      r.MembershipNumber,
		FirstName:             r.FirstName,
		LastName:              r.LastName,
		Email:                 r.Email,
		Phone:                 r.Phone,
		Organization:          r.Organization,
		MembershipType:        r.MembershipType,
		RenewalPeriod:         r.RenewalPeriod,
		RenewalDate:           r.RenewalDate.TimePtr(),
		Interests:             r.Interests,
		ConsentDataProcessing: r.ConsentDataProcessing,
		ConsentCommunications: r.ConsentCommunications,
		PaymentMethod:         r.PaymentMethod,
	}
	if r.Amount != nil {
		in.Amount = *r.Amount
	}
	return in
}

// UpdateRenewalRequest is a partial admin edit of a renewal
type UpdateRenewalRequest struct {
	FirstName      *string          `json:"first_name" binding:"omitempty,max=100"`
	LastName       *string          `json:"last_name" binding:"omitempty,max=100"`
	Email          *string          `json:"email" binding:"omitempty,email,max=255"`
	Phone          *string          `json:"phone" binding:"omitempty,max=50"`
	Organization   *string          `json:"organization" binding:"omitempty,max=200"`
	MembershipType *string          `json:"membership_type" binding:"omitempty,max=100"`
	RenewalPeriod  *string          `json:"renewal_period" binding:"omitempty,max=50"`
	PaymentMethod  *string          `json:"payment_method" binding:"omitempty,max=50"`
	Interests      []string         `json:"interests" binding:"omitempty,max=20,dive,max=100"`
	Amount         *decimal.Decimal `json:"amount"`
	Status         *string          `json:"status"`
}

func (r UpdateRenewalRequest) toUpdate() (membership.RenewalUpdate, error) {
	u := membership.RenewalUpdate{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		Phone:          r.Phone,
		Organization:   r.Organization,
		MembershipType: r.MembershipType,
		RenewalPeriod:  r.RenewalPeriod,
		PaymentMethod:  r.PaymentMethod,
		Interests:      r.Interests,
		Amount:         r.Amount,
	}
	if r.Status != nil {
		status, err := membership.ParseRenewalStatus(*r.Status)
		if err != nil {
			return u, err
		}
		u.Status = &status
	}
	return u, nil
}

// RenewalResponse represents a renewal in API responses
type RenewalResponse struct {
	ID                    uuid.UUID       `json:"id"`
	MembershipNumber      string          `json:"membership_number"`
	FirstName             string          `json:"first_name"`
	LastName              string          `json:"last_name"`
	Email                 string          `json:"email"`
	Phone                 string          `json:"phone"`
	Organization          string          `json:"organization"`
	MembershipType        string          `json:"membership_type"`
	RenewalPeriod         string          `json:"renewal_period"`
	RenewalDate           *time.Time      `json:"renewal_date"`
	Interests             []string        `json:"interests"`
	ConsentDataProcessing bool            `json:"consent_data_processing"`
	ConsentCommunications bool            `json:"consent_communications"`
	PaymentMethod         string          `json:"payment_method"`
	Amount                decimal.Decimal `json:"amount"`
	Status                string          `json:"status"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// ToRenewalResponse converts a domain renewal to its response form
func ToRenewalResponse(r *membership.RenewalRequest) *RenewalResponse {
	interests := r.Interests
	if interests == nil {
		interests = []string{}
	}
	return &RenewalResponse{
		ID:                    r.ID,
		MembershipNumber:      r.MembershipNumber,
		FirstName:             r.FirstName,
		LastName:              r.LastName,
		Email:                 r.Email,
		Phone:                 r.Phone,
		Organization:          r.Organization,
		MembershipType:        r.MembershipType,
		RenewalPeriod:         r.RenewalPeriod,
		RenewalDate:           r.RenewalDate,
		Interests:             interests,
		ConsentDataProcessing: r.ConsentDataProcessing,
		ConsentCommunications: r.ConsentCommunications,
		PaymentMethod:         r.PaymentMethod,
		Amount:                r.Amount,
		Status:                string(r.Status),
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
}

// RenewalUpdateResponse is the result of a renewal update
type RenewalUpdateResponse struct {
	*RenewalResponse
	Archived bool `json:"archived"`
}

// ListFilter holds the admin list query parameters
type ListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search" binding:"max=100"`
	Status   string `form:"status"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// LedgerEntryResponse represents a historical ledger entry
type LedgerEntryResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Organisation      string    `json:"organisation"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	Year              string    `json:"year"`
	UploadedAt        time.Time `json:"uploaded_at"`
	Source            string    `json:"source"`
	OriginalMemberID  *string   `json:"original_member_id,omitempty"`
	OriginalRenewalID *string   `json:"original_renewal_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ToLedgerEntryResponse converts a ledger entry to its response form
func ToLedgerEntryResponse(e *membership.LedgerEntry) *LedgerEntryResponse {
	return &LedgerEntryResponse{
		ID:                e.ID,
		Name:              e.Name,
		Organisation:      e.Organisation,
		Email:             e.Email,
		Phone:             e.Phone,
		Year:              e.Year,
		UploadedAt:        e.UploadedAt,
		Source:            string(e.Source),
		OriginalMemberID:  e.OriginalMemberID,
		OriginalRenewalID: e.OriginalRenewalID,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

// LedgerYearResponse lists one year's ledger entries
type LedgerYearResponse struct {
	Year    string                 `json:"year"`
	Count   int                    `json:"count"`
	Members []*LedgerEntryResponse `json:"members"`
}

// LedgerDeleteResponse reports a delete-by-year
type LedgerDeleteResponse struct {
	DeletedCount int64  `json:"deleted_count"`
	Year         string `json:"year"`
}

// YearCountResponse is one row of the ledger years listing
type YearCountResponse struct {
	Year  string `json:"year"`
	Count int64  `json:"count"`
}

// ImportMemberRow is one row of a JSON bulk import. Year accepts a string
// or a number.
type ImportMemberRow struct {
	Name         string   `json:"name"`
	Organisation string   `json:"organisation"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Year         FlexYear `json:"year"`
}

// BulkImportRequest is the JSON bulk import payload
type BulkImportRequest struct {
	Members []ImportMemberRow `json:"members" binding:"required"`
}

// SkippedRow reports a row left out of an import
type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// BulkImportResponse reports the outcome of a bulk import
type BulkImportResponse struct {
	Count       int          `json:"count"`
	InsertedIDs []uuid.UUID  `json:"inserted_ids"`
	Skipped     []SkippedRow `json:"skipped"`
}

// ArchivalJobResponse represents an archival retry job
type ArchivalJobResponse struct {
	ID          uuid.UUID  `json:"id"`
	SourceKind  string     `json:"source_kind"`
	SourceID    uuid.UUID  `json:"source_id"`
	Status      string     `json:"status"`
	RetryCount  int        `json:"retry_count"`
	MaxRetries  int        `json:"max_retries"`
	LastError   string     `json:"last_error,omitempty"`
	NextRetryAt *time.Time `json:"next_retry_at,omitempty"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToArchivalJobResponse converts an archival job to its response form
func ToArchivalJobResponse(j *membership.ArchivalJob) *ArchivalJobResponse {
	return &ArchivalJobResponse{
		ID:          j.ID,
		SourceKind:  string(j.SourceKind),
		SourceID:    j.SourceID,
		Status:      string(j.Status),
		RetryCount:  j.RetryCount,
		MaxRetries:  j.MaxRetries,
		LastError:   j.LastError,
		NextRetryAt: j.NextRetryAt,
		ProcessedAt: j.ProcessedAt,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}
