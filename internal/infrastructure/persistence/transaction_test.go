package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/mediaassoc/backend/internal/domain/membership"
	"github.com/mediaassoc/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTxManager_SavepointRollbackKeepsOuterWrites(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	txm := NewGormTxManager(db)

	m := newApplication(t, "Ada", "Obi", "ada@example.org", "")
	require.NoError(t, NewGormMemberRepository(db).Create(ctx, m))
	require.NoError(t, m.ChangeStatus(membership.MemberStatusApproved, nil))

	projectionErr := errors.New("projection failed")
	err := txm.WithinTransaction(ctx, func(tx membership.Tx) error {
		if err := tx.Members().Save(ctx, m); err != nil {
			return err
		}
		spErr := tx.Savepoint(ctx, func(inner membership.Tx) error {
			if _, err := inner.Ledger().Upsert(ctx, membership.NewMemberLedgerEntry(m, m.UpdatedAt)); err != nil {
				return err
			}
			return projectionErr
		})
		require.ErrorIs(t, spErr, projectionErr)
		return tx.ArchivalJobs().Save(ctx, membership.NewArchivalJob(membership.SourceKindMember, m.ID, spErr))
	})
	require.NoError(t, err)

	stored, err := NewGormMemberRepository(db).FindByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, membership.MemberStatusApproved, stored.Status)

	_, err = NewGormLedgerRepository(db).FindByMemberRef(ctx, m.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound, "the rolled back savepoint must not leave a ledger row")

	jobs, total, err := NewGormArchivalJobRepository(db).FindAll(ctx, membership.ArchivalJobPending, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, m.ID, jobs[0].SourceID)
}

func TestGormTxManager_OuterRollbackDiscardsEverything(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	txm := NewGormTxManager(db)
	m := newApplication(t, "Kofi", "Mensah", "kofi@example.org", "")

	boom := errors.New("boom")
	err := txm.WithinTransaction(ctx, func(tx membership.Tx) error {
		if err := tx.Members().Create(ctx, m); err != nil {
			return err
		}
		if err := tx.Savepoint(ctx, func(inner membership.Tx) error {
			_, err := inner.Ledger().Upsert(ctx, membership.NewMemberLedgerEntry(m, m.CreatedAt))
			return err
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = NewGormMemberRepository(db).FindByID(ctx, m.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = NewGormLedgerRepository(db).FindByMemberRef(ctx, m.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormTxManager_RenewalsAreBound(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	r := newRenewal(t, "MA-100", "esi@example.org")

	require.NoError(t, NewGormTxManager(db).WithinTransaction(ctx, func(tx membership.Tx) error {
		return tx.Renewals().Create(ctx, r)
	}))

	_, err := NewGormRenewalRepository(db).FindByID(ctx, r.ID)
	require.NoError(t, err)
	_, err = NewGormRenewalRepository(db).FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
