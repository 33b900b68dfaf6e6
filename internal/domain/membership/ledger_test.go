package membership

import (
	"testing"
	"time"

	"github.com/mediaassoc/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYearOf(t *testing.T) {
	created := time.Date(2021, 12, 31, 23, 0, 0, 0, time.UTC)
	applied := time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2022", YearOf(&applied, created))
	assert.Equal(t, "2021", YearOf(nil, created))
	assert.Equal(t, "2021", YearOf(&time.Time{}, created))

	lateNewYearsEve := time.Date(2022, 12, 31, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))
	assert.Equal(t, "2023", YearOf(&lateNewYearsEve, created))
}

func TestNewMemberLedgerEntry(t *testing.T) {
	applied := time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)
	m, err := NewMemberApplication(MemberApplicationInput{
		FirstName:       "Ada",
		LastName:        "Obi",
		Email:           "ada@example.org",
		TermsAccepted:   true,
		ApplicationDate: &applied,
	})
	require.NoError(t, err)

	now := time.Now()
	e := NewMemberLedgerEntry(m, now)

	assert.Equal(t, "Ada Obi", e.Name)
	assert.Equal(t, NotAvailable, e.Organisation)
	assert.Equal(t, NotAvailable, e.Phone)
	assert.Equal(t, "ada@example.org", e.Email)
	assert.Equal(t, "2022", e.Year)
	assert.Equal(t, LedgerSourceMemberApproval, e.Source)
	require.NotNil(t, e.OriginalMemberID)
	assert.Equal(t, m.ID.String(), *e.OriginalMemberID)
	assert.Nil(t, e.OriginalRenewalID)
	assert.Equal(t, now, e.UploadedAt)
}

func TestNewRenewalLedgerEntry(t *testing.T) {
	r := &RenewalRequest{
		BaseEntity:   shared.NewBaseEntity(),
		FirstName:    "Kofi",
		LastName:     "Mensah",
		Organization: "Accra FM",
		Phone:        "0200",
	}
	r.CreatedAt = time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)

	e := NewRenewalLedgerEntry(r, time.Now())
	assert.Equal(t, "Kofi Mensah", e.Name)
	assert.Equal(t, "Accra FM", e.Organisation)
	assert.Equal(t, "2020", e.Year)
	assert.Equal(t, LedgerSourceRenewalApproval, e.Source)
	require.NotNil(t, e.OriginalRenewalID)
	assert.Equal(t, r.ID.String(), *e.OriginalRenewalID)
	assert.Nil(t, e.OriginalMemberID)
}

func TestImportRow(t *testing.T) {
	assert.Equal(t, "", ImportRow{Name: "A", Year: "2020"}.RejectReason())
	assert.Equal(t, RejectMissingName, ImportRow{Name: "  ", Year: "2021"}.RejectReason())
	assert.Equal(t, RejectMissingYear, ImportRow{Name: "B"}.RejectReason())

	e := NewImportedLedgerEntry(ImportRow{Name: " A ", Email: " a@x.org ", Year: " 2020 "}, time.Now())
	assert.Equal(t, "A", e.Name)
	assert.Equal(t, "a@x.org", e.Email)
	assert.Equal(t, "2020", e.Year)
	assert.Equal(t, LedgerSourceCSVImport, e.Source)
	assert.Nil(t, e.OriginalMemberID)
	assert.Nil(t, e.OriginalRenewalID)
}
