package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mediaassoc/backend/internal/domain/membership"
	"github.com/shopspring/decimal"
)

// MemberApplicationModel is the persistence model for a membership application.
type MemberApplicationModel struct {
	BaseModel
	FirstName         string                  `gorm:"type:varchar(100);not null"`
	LastName          string                  `gorm:"type:varchar(100);not null"`
	Email             string                  `gorm:"type:varchar(255);not null;uniqueIndex"`
	Phone             string                  `gorm:"type:varchar(50)"`
	Organization      string                  `gorm:"type:varchar(255)"`
	JobTitle          string                  `gorm:"type:varchar(255)"`
	MembershipType    string                  `gorm:"type:varchar(50)"`
	Motivation        string                  `gorm:"type:text"`
	RefereeOneName    string                  `gorm:"type:varchar(200)"`
	RefereeOneContact string                  `gorm:"type:varchar(255)"`
	RefereeTwoName    string                  `gorm:"type:varchar(200)"`
	RefereeTwoContact string                  `gorm:"type:varchar(255)"`
	TermsAccepted     bool                    `gorm:"not null"`
	ApplicationDate   *time.Time              `gorm:"index"`
	Status            membership.MemberStatus `gorm:"type:varchar(32);not null;index"`
	ReviewedBy        *uuid.UUID              `gorm:"type:uuid"`
	ReviewedAt        *time.Time
}

// TableName returns the table name for GORM
func (MemberApplicationModel) TableName() string {
	return "member_applications"
}

// ToDomain converts the persistence model to a domain MemberApplication.
func (m *MemberApplicationModel) ToDomain() *membership.MemberApplication {
	return &membership.MemberApplication{
		BaseEntity:        m.BaseModel.ToDomain(),
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
		Status:            m.Status,
		ReviewedBy:        m.ReviewedBy,
		ReviewedAt:        m.ReviewedAt,
	}
}

// FromDomain populates the persistence model from a domain MemberApplication.
func (m *MemberApplicationModel) FromDomain(a *membership.MemberApplication) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.FirstName = a.FirstName
	m.LastName = a.LastName
	m.Email = a.Email
	m.Phone = a.Phone
	m.Organization = a.Organization
	m.JobTitle = a.JobTitle
	m.MembershipType = a.MembershipType
	m.Motivation = a.Motivation
	m.RefereeOneName = a.RefereeOneName
	m.RefereeOneContact = a.RefereeOneContact
	m.RefereeTwoName = a.RefereeTwoName
	m.RefereeTwoContact = a.RefereeTwoContact
	m.TermsAccepted = a.TermsAccepted
	m.ApplicationDate = a.ApplicationDate
	m.Status = a.Status
	m.ReviewedBy = a.ReviewedBy
	m.ReviewedAt = a.ReviewedAt
}

// MemberApplicationModelFromDomain creates a new persistence model from a domain MemberApplication.
func MemberApplicationModelFromDomain(a *membership.MemberApplication) *MemberApplicationModel {
	m := &MemberApplicationModel{}
	m.FromDomain(a)
	return m
}

// RenewalRequestModel is the persistence model for a membership renewal.
type RenewalRequestModel struct {
	BaseModel
	MembershipNumber      string                   `gorm:"type:varchar(64);not null;index"`
	FirstName             string                   `gorm:"type:varchar(100);not null"`
	LastName              string                   `gorm:"type:varchar(100);not null"`
	Email                 string                   `gorm:"type:varchar(255);not null;index"`
	Phone                 string                   `gorm:"type:varchar(50)"`
	Organization          string                   `gorm:"type:varchar(255)"`
	MembershipType        string                   `gorm:"type:varchar(50)"`
	RenewalPeriod         string                   `gorm:"type:varchar(50)"`
	RenewalDate           *time.Time               `gorm:"index"`
	Interests             StringList               `gorm:"column:interests"`
	ConsentDataProcessing bool                     `gorm:"not null"`
	ConsentCommunications bool                     `gorm:"not null"`
	PaymentMethod         string                   `gorm:"type:varchar(50)"`
	Amount                decimal.Decimal          `gorm:"type:numeric(12,2);not null"`
	Status                membership.RenewalStatus `gorm:"type:varchar(32);not null;index"`
}

// TableName returns the table name for GORM
func (RenewalRequestModel) TableName() string {
	return "renewal_requests"
}

// ToDomain converts the persistence model to a domain RenewalRequest.
func (m *RenewalRequestModel) ToDomain() *membership.RenewalRequest {
	interests := make([]string, len(m.Interests))
	copy(interests, m.Interests)
	return &membership.RenewalRequest{
		BaseEntity:            m.BaseModel.ToDomain(),
		MembershipNumber:      m.MembershipNumber,
		FirstName:             m.FirstName,
		LastName:              m.LastName,
		Email:                 m.Email,
		Phone:                 m.Phone,
		Organization:          m.Organization,
		MembershipType:        m.MembershipType,
		RenewalPeriod:         m.RenewalPeriod,
		RenewalDate:           m.RenewalDate,
		Interests:             interests,
		ConsentDataProcessing: m.ConsentDataProcessing,
		ConsentCommunications: m.ConsentCommunications,
		PaymentMethod:         m.PaymentMethod,
		Amount:                m.Amount,
		Status:                m.Status,
	}
}

// FromDomain populates the persistence model from a domain RenewalRequest.
func (m *RenewalRequestModel) FromDomain(r *membership.RenewalRequest) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.MembershipNumber = r.MembershipNumber
	m.FirstName = r.FirstName
	m.LastName = r.LastName
	m.Email = r.Email
	m.Phone = r.Phone
	m.Organization = r.Organization
	m.MembershipType = r.MembershipType
	m.RenewalPeriod = r.RenewalPeriod
	m.RenewalDate = r.RenewalDate
	m.Interests = StringList(r.Interests)
	if m.Interests == nil {
		m.Interests = StringList{}
	}
	m.ConsentDataProcessing = r.ConsentDataProcessing
	m.ConsentCommunications = r.ConsentCommunications
	m.PaymentMethod = r.PaymentMethod
	m.Amount = r.Amount
	m.Status = r.Status
}

// RenewalRequestModelFromDomain creates a new persistence model from a domain RenewalRequest.
func RenewalRequestModelFromDomain(r *membership.RenewalRequest) *RenewalRequestModel {
	m := &RenewalRequestModel{}
	m.FromDomain(r)
	return m
}

// HistoricalMemberModel is the persistence model for a ledger entry.
// The back-reference columns are unique; NULLs (imported rows) never collide.
type HistoricalMemberModel struct {
	BaseModel
	Name              string                  `gorm:"type:varchar(255);not null"`
	Organisation      string                  `gorm:"type:varchar(255)"`
	Email             string                  `gorm:"type:varchar(255)"`
	Phone             string                  `gorm:"type:varchar(50)"`
	Year              string                  `gorm:"type:varchar(16);not null;index"`
	UploadedAt        time.Time               `gorm:"not null"`
	Source            membership.LedgerSource `gorm:"type:varchar(32);not null"`
	OriginalMemberID  *string                 `gorm:"type:varchar(64);uniqueIndex"`
	OriginalRenewalID *string                 `gorm:"type:varchar(64);uniqueIndex"`
}

// TableName returns the table name for GORM
func (HistoricalMemberModel) TableName() string {
	return "historical_members"
}

// ToDomain converts the persistence model to a domain LedgerEntry.
func (m *HistoricalMemberModel) ToDomain() *membership.LedgerEntry {
	return &membership.LedgerEntry{
		BaseEntity:        m.BaseModel.ToDomain(),
		Name:              m.Name,
		Organisation:      m.Organisation,
		Email:             m.Email,
		Phone:             m.Phone,
		Year:              m.Year,
		UploadedAt:        m.UploadedAt,
		Source:            m.Source,
		OriginalMemberID:  m.OriginalMemberID,
		OriginalRenewalID: m.OriginalRenewalID,
	}
}

// FromDomain populates the persistence model from a domain LedgerEntry.
func (m *HistoricalMemberModel) FromDomain(e *membership.LedgerEntry) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.Name = e.Name
	m.Organisation = e.Organisation
	m.Email = e.Email
	m.Phone = e.Phone
	m.Year = e.Year
	m.UploadedAt = e.UploadedAt
	m.Source = e.Source
	m.OriginalMemberID = e.OriginalMemberID
	m.OriginalRenewalID = e.OriginalRenewalID
}

// HistoricalMemberModelFromDomain creates a new persistence model from a domain LedgerEntry.
func HistoricalMemberModelFromDomain(e *membership.LedgerEntry) *HistoricalMemberModel {
	m := &HistoricalMemberModel{}
	m.FromDomain(e)
	return m
}

// ArchivalJobModel is the persistence model for an archival retry job.
type ArchivalJobModel struct {
	BaseModel
	SourceKind  membership.SourceKind        `gorm:"type:varchar(16);not null"`
	SourceID    uuid.UUID                    `gorm:"type:uuid;not null;index"`
	Status      membership.ArchivalJobStatus `gorm:"type:varchar(16);not null;index"`
	RetryCount  int                          `gorm:"not null"`
	MaxRetries  int                          `gorm:"not null"`
	LastError   string                       `gorm:"type:text"`
	NextRetryAt *time.Time                   `gorm:"index"`
	ProcessedAt *time.Time
}

// TableName returns the table name for GORM
func (ArchivalJobModel) TableName() string {
	return "archival_jobs"
}

// ToDomain converts the persistence model to a domain ArchivalJob.
func (m *ArchivalJobModel) ToDomain() *membership.ArchivalJob {
	return &membership.ArchivalJob{
		BaseEntity:  m.BaseModel.ToDomain(),
		SourceKind:  m.SourceKind,
		SourceID:    m.SourceID,
		Status:      m.Status,
		RetryCount:  m.RetryCount,
		MaxRetries:  m.MaxRetries,
		LastError:   m.LastError,
		NextRetryAt: m.NextRetryAt,
		ProcessedAt: m.ProcessedAt,
	}
}

// FromDomain populates the persistence model from a domain ArchivalJob.
func (m *ArchivalJobModel) FromDomain(j *membership.ArchivalJob) {
	m.FromDomainBaseEntity(j.BaseEntity)
	m.SourceKind = j.SourceKind
	m.SourceID = j.SourceID
	m.Status = j.Status
	m.RetryCount = j.RetryCount
	m.MaxRetries = j.MaxRetries
	m.LastError = j.LastError
	m.NextRetryAt = j.NextRetryAt
	m.ProcessedAt = j.ProcessedAt
}

// ArchivalJobModelFromDomain creates a new persistence model from a domain ArchivalJob.
func ArchivalJobModelFromDomain(j *membership.ArchivalJob) *ArchivalJobModel {
	m := &ArchivalJobModel{}
	m.FromDomain(j)
	return m
}
