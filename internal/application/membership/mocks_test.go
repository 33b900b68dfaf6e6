package membership

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mediaassoc/backend/internal/domain/membership"
	"github.com/mediaassoc/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockMemberRepository is a mock implementation of MemberRepository
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*membership.MemberApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.MemberApplication), args.Error(1)
}

func (m *MockMemberRepository) FindAll(ctx context.Context, filter shared.Filter) ([]membership.MemberApplication, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]membership.MemberApplication), args.Get(1).(int64), args.Error(2)
}

func (m *MockMemberRepository) Create(ctx context.Context, app *membership.MemberApplication) error {
	return m.Called(ctx, app).Error(0)
}

func (m *MockMemberRepository) Save(ctx context.Context, app *membership.MemberApplication) error {
	return m.Called(ctx, app).Error(0)
}

func (m *MockMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockRenewalRepository is a mock implementation of RenewalRepository
type MockRenewalRepository struct {
	mock.Mock
}

func (m *MockRenewalRepository) FindByID(ctx context.Context, id uuid.UUID) (*membership.RenewalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.RenewalRequest), args.Error(1)
}

func (m *MockRenewalRepository) FindAll(ctx context.Context, filter shared.Filter) ([]membership.RenewalRequest, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]membership.RenewalRequest), args.Get(1).(int64), args.Error(2)
}

func (m *MockRenewalRepository) Create(ctx context.Context, r *membership.RenewalRequest) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRenewalRepository) Save(ctx context.Context, r *membership.RenewalRequest) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRenewalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockLedgerRepository is a mock implementation of LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Upsert(ctx context.Context, entry *membership.LedgerEntry) (*membership.LedgerEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) CreateBatch(ctx context.Context, entries []*membership.LedgerEntry) error {
	return m.Called(ctx, entries).Error(0)
}

func (m *MockLedgerRepository) FindByID(ctx context.Context, id uuid.UUID) (*membership.LedgerEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindByMemberRef(ctx context.Context, memberID uuid.UUID) (*membership.LedgerEntry, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindByRenewalRef(ctx context.Context, renewalID uuid.UUID) (*membership.LedgerEntry, error) {
	args := m.Called(ctx, renewalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindByYear(ctx context.Context, year string) ([]membership.LedgerEntry, error) {
	args := m.Called(ctx, year)
	return args.Get(0).([]membership.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) CountByYear(ctx context.Context, year string) (int64, error) {
	args := m.Called(ctx, year)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) DeleteByYear(ctx context.Context, year string) (int64, error) {
	args := m.Called(ctx, year)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLedgerRepository) Years(ctx context.Context) ([]membership.YearCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]membership.YearCount), args.Error(1)
}

// MockArchivalJobRepository is a mock implementation of ArchivalJobRepository
type MockArchivalJobRepository struct {
	mock.Mock
}

func (m *MockArchivalJobRepository) Save(ctx context.Context, job *membership.ArchivalJob) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockArchivalJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*membership.ArchivalJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.ArchivalJob), args.Error(1)
}

func (m *MockArchivalJobRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]*membership.ArchivalJob, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).([]*membership.ArchivalJob), args.Error(1)
}

func (m *MockArchivalJobRepository) Claim(ctx context.Context, ids []uuid.UUID) ([]*membership.ArchivalJob, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*membership.ArchivalJob), args.Error(1)
}

func (m *MockArchivalJobRepository) FindAll(ctx context.Context, status membership.ArchivalJobStatus, filter shared.Filter) ([]membership.ArchivalJob, int64, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]membership.ArchivalJob), args.Get(1).(int64), args.Error(2)
}

func (m *MockArchivalJobRepository) DeleteDoneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// fakeTx hands out the mock repositories. Savepoint runs fn directly; a
// failing fn is reported back exactly as a rolled back savepoint would be.
type fakeTx struct {
	members    *MockMemberRepository
	renewals   *MockRenewalRepository
	ledger     *MockLedgerRepository
	jobs       *MockArchivalJobRepository
	savepoints int
}

func newFakeTx() *fakeTx {
	return &fakeTx{
		members:  new(MockMemberRepository),
		renewals: new(MockRenewalRepository),
		ledger:   new(MockLedgerRepository),
		jobs:     new(MockArchivalJobRepository),
	}
}

func (t *fakeTx) Members() membership.MemberRepository { return t.members }
func (t *fakeTx) Renewals() membership.RenewalRepository { return t.renewals }
func (t *fakeTx) Ledger() membership.LedgerRepository { return t.ledger }
func (t *fakeTx) ArchivalJobs() membership.ArchivalJobRepository { return t.jobs }

func (t *fakeTx) Savepoint(ctx context.Context, fn func(tx membership.Tx) error) error {
	t.savepoints++
	return fn(t)
}

// fakeTxManager runs fn against one fakeTx and counts calls
type fakeTxManager struct {
	tx    *fakeTx
	calls int
}

func (m *fakeTxManager) WithinTransaction(ctx context.Context, fn func(tx membership.Tx) error) error {
	m.calls++
	return fn(m.tx)
}

// recordingMetrics captures metric calls for assertions
type recordingMetrics struct {
	mu            sync.Mutex
	statusUpdates []string
	archivals     []string
	imported      int
	skipped       int
}

func (r *recordingMetrics) RecordStatusUpdate(_ context.Context, kind, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statusUpdates = append(r.statusUpdates, kind+":"+status)
}

func (r *recordingMetrics) RecordArchival(_ context.Context, kind, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.archivals = append(r.archivals, kind+":"+outcome)
}

func (r *recordingMetrics) RecordImportRows(_ context.Context, imported, skipped int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.imported += imported
	r.skipped += skipped
}
