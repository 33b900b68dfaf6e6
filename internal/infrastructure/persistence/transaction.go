package persistence

import (
	"context"

	"github.com/mediaassoc/backend/internal/domain/membership"
	"gorm.io/gorm"
)

// GormTxManager runs membership work inside a gorm transaction
type GormTxManager struct {
	db *gorm.DB
}

// NewGormTxManager creates a new GormTxManager
func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

// WithinTransaction commits when fn returns nil and rolls back otherwise
func (m *GormTxManager) WithinTransaction(ctx context.Context, fn func(tx membership.Tx) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	})
}

// gormTx binds the membership repositories to one open transaction
type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) Members() membership.MemberRepository {
	return NewGormMemberRepository(t.db)
}

func (t *gormTx) Renewals() membership.RenewalRepository {
	return NewGormRenewalRepository(t.db)
}

func (t *gormTx) Ledger() membership.LedgerRepository {
	return NewGormLedgerRepository(t.db)
}

func (t *gormTx) ArchivalJobs() membership.ArchivalJobRepository {
	return NewGormArchivalJobRepository(t.db)
}

// Savepoint relies on gorm turning a nested Transaction call into
// SAVEPOINT / ROLLBACK TO SAVEPOINT.
func (t *gormTx) Savepoint(ctx context.Context, fn func(tx membership.Tx) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	})
}

var (
	_ membership.TxManager = (*GormTxManager)(nil)
	_ membership.Tx        = (*gormTx)(nil)
)
