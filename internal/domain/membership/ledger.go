package membership

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mediaassoc/backend/internal/domain/shared"
)

// LedgerSource records how a ledger entry was produced
type LedgerSource string

const (
	LedgerSourceMemberApproval  LedgerSource = "member_approval"
	LedgerSourceRenewalApproval LedgerSource = "renewal_approval"
	LedgerSourceCSVImport       LedgerSource = "csv_import"
)

// NotAvailable fills blank organisation and phone values on archived entries
const NotAvailable = "N/A"

// LedgerEntry is one row of the historical members ledger.
// At most one entry exists per OriginalMemberID and per OriginalRenewalID;
// imported rows carry neither and are never deduplicated.
type LedgerEntry struct {
	shared.BaseEntity
	Name              string
	Organisation      string
	Email             string
	Phone             string
	Year              string
	UploadedAt        time.Time
	Source            LedgerSource
	OriginalMemberID  *string
	OriginalRenewalID *string
}

// YearCount is the number of ledger entries recorded for one year
type YearCount struct {
	Year  string
	Count int64
}

// YearOf returns the four-digit UTC year of primary, or of fallback when
// primary is absent. Stored timestamps come back without their submitted
// offset, so the year is always read in UTC.
func YearOf(primary *time.Time, fallback time.Time) string {
	t := fallback
	if primary != nil && !primary.IsZero() {
		t = *primary
	}
	return strconv.Itoa(t.UTC().Year())
}

func orNotAvailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return strings.TrimSpace(s)
}

// NewMemberLedgerEntry projects an approved application into a ledger entry
// keyed by the application's ID.
func NewMemberLedgerEntry(m *MemberApplication, now time.Time) *LedgerEntry {
	ref := m.ID.String()
	return &LedgerEntry{
		BaseEntity:       shared.BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:             m.FullName(),
		Organisation:     orNotAvailable(m.Organization),
		Email:            m.Email,
		Phone:            orNotAvailable(m.Phone),
		Year:             m.ArchiveYear(),
		UploadedAt:       now,
		Source:           LedgerSourceMemberApproval,
		OriginalMemberID: &ref,
	}
}

// NewRenewalLedgerEntry projects an active renewal into a ledger entry keyed
// by the renewal's ID.
func NewRenewalLedgerEntry(r *RenewalRequest, now time.Time) *LedgerEntry {
	ref := r.ID.String()
	return &LedgerEntry{
		BaseEntity:        shared.BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:              r.FullName(),
		Organisation:      orNotAvailable(r.Organization),
		Email:             r.Email,
		Phone:             orNotAvailable(r.Phone),
		Year:              r.ArchiveYear(),
		UploadedAt:        now,
		Source:            LedgerSourceRenewalApproval,
		OriginalRenewalID: &ref,
	}
}

// ImportRow is one candidate row of a bulk ledger import
type ImportRow struct {
	Name         string
	Organisation string
	Email        string
	Phone        string
	Year         string
}

// Import rejection reasons
const (
	RejectMissingName = "name is required"
	RejectMissingYear = "year is required"
)

// Normalize trims every field
func (r ImportRow) Normalize() ImportRow {
	return ImportRow{
		Name:         strings.TrimSpace(r.Name),
		Organisation: strings.TrimSpace(r.Organisation),
		Email:        strings.TrimSpace(r.Email),
		Phone:        strings.TrimSpace(r.Phone),
		Year:         strings.TrimSpace(r.Year),
	}
}

// RejectReason returns why the row cannot be imported, or "" if it can.
// Only a non-blank name and a present year are required.
func (r ImportRow) RejectReason() string {
	n := r.Normalize()
	if n.Name == "" {
		return RejectMissingName
	}
	if n.Year == "" {
		return RejectMissingYear
	}
	return ""
}

// NewImportedLedgerEntry builds a ledger entry from an accepted import row
func NewImportedLedgerEntry(row ImportRow, now time.Time) *LedgerEntry {
	n := row.Normalize()
	return &LedgerEntry{
		BaseEntity:   shared.BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:         n.Name,
		Organisation: n.Organisation,
		Email:        n.Email,
		Phone:        n.Phone,
		Year:         n.Year,
		UploadedAt:   now,
		Source:       LedgerSourceCSVImport,
	}
}
