package persistence

import (
	"context"
	"testing"

	"github.com/mediaassoc/backend/internal/domain/membership"
	"github.com/mediaassoc/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenewal(t *testing.T, number, email string) *membership.RenewalRequest {
	t.Helper()
	r, err := membership.NewRenewalRequest(membership.RenewalInput{
		MembershipNumber:      number,
		FirstName:             "Kofi",
		LastName:              "Mensah",
		Email:                 email,
		Organization:          "Accra Times",
		Interests:             []string{"Radio", "Print"},
		ConsentDataProcessing: true,
		Amount:                decimal.RequireFromString("75.50"),
	})
	require.NoError(t, err)
	return r
}

func TestGormRenewalRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewGormRenewalRepository(newSQLiteDB(t))

	r := newRenewal(t, "MA-001", "kofi@example.org")
	require.NoError(t, repo.Create(ctx, r))

	stored, err := repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Radio", "Print"}, stored.Interests)
	assert.True(t, decimal.RequireFromString("75.5").Equal(stored.Amount))
	assert.Equal(t, membership.RenewalStatusActive, stored.Status)

	expired := membership.RenewalStatusExpired
	interests := []string{"Online"}
	require.NoError(t, stored.Apply(membership.RenewalUpdate{Status: &expired, Interests: interests}))
	require.NoError(t, repo.Save(ctx, stored))

	again, err := repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, membership.RenewalStatusExpired, again.Status)
	assert.Equal(t, []string{"Online"}, again.Interests)
}

func TestGormRenewalRepository_FindAll(t *testing.T) {
	ctx := context.Background()
	repo := NewGormRenewalRepository(newSQLiteDB(t))

	require.NoError(t, repo.Create(ctx, newRenewal(t, "MA-001", "kofi@example.org")))
	require.NoError(t, repo.Create(ctx, newRenewal(t, "MA-001", "kofi.two@example.org")))
	require.NoError(t, repo.Create(ctx, newRenewal(t, "MA-002", "esi@example.org")))

	filter := shared.DefaultFilter()
	filter.Filters["membership_number"] = "MA-001"
	items, total, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)

	filter = shared.DefaultFilter()
	filter.Search = "esi@"
	_, total, err = repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestGormRenewalRepository_MissingRows(t *testing.T) {
	ctx := context.Background()
	repo := NewGormRenewalRepository(newSQLiteDB(t))
	r := newRenewal(t, "MA-009", "ghost@example.org")

	_, err := repo.FindByID(ctx, r.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.ErrorIs(t, repo.Save(ctx, r), shared.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, r.ID), shared.ErrNotFound)
}
