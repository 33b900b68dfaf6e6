package membership

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mediaassoc/backend/internal/domain/shared"
)

// MemberRepository persists membership applications
type MemberRepository interface {
	// FindByID returns shared.ErrNotFound when no application has the ID
	FindByID(ctx context.Context, id uuid.UUID) (*MemberApplication, error)
	// FindAll returns one page of applications and the total match count.
	// Supported filters: "status". Search matches name, email and organization.
	FindAll(ctx context.Context, filter shared.Filter) ([]MemberApplication, int64, error)
	// Create inserts a new application; a duplicate email yields shared.ErrAlreadyExists
	Create(ctx context.Context, m *MemberApplication) error
	// Save persists every field of an existing application
	Save(ctx context.Context, m *MemberApplication) error
	// Delete removes the application. Ledger entries that reference it are kept.
	Delete(ctx context.Context, id uuid.UUID) error
}

// RenewalRepository persists renewal requests
type RenewalRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RenewalRequest, error)
	// FindAll supports the "status" and "membership_number" filters
	FindAll(ctx context.Context, filter shared.Filter) ([]RenewalRequest, int64, error)
	Create(ctx context.Context, r *RenewalRequest) error
	Save(ctx context.Context, r *RenewalRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// LedgerRepository persists historical ledger entries
type LedgerRepository interface {
	// Upsert inserts the entry or, when an entry with the same back-reference
	// already exists, overwrites it in place. It is a single atomic statement
	// backed by a unique index, and returns the stored row.
	Upsert(ctx context.Context, entry *LedgerEntry) (*LedgerEntry, error)
	// CreateBatch inserts all entries in one batch
	CreateBatch(ctx context.Context, entries []*LedgerEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*LedgerEntry, error)
	// FindByMemberRef returns the entry projected from the given application
	FindByMemberRef(ctx context.Context, memberID uuid.UUID) (*LedgerEntry, error)
	// FindByRenewalRef returns the entry projected from the given renewal
	FindByRenewalRef(ctx context.Context, renewalID uuid.UUID) (*LedgerEntry, error)
	// FindByYear lists a year's entries, newest upload first then by name
	FindByYear(ctx context.Context, year string) ([]LedgerEntry, error)
	CountByYear(ctx context.Context, year string) (int64, error)
	// DeleteByYear removes every entry of the year and returns the number deleted
	DeleteByYear(ctx context.Context, year string) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Years lists the distinct years with their entry counts, newest first
	Years(ctx context.Context) ([]YearCount, error)
}

// ArchivalJobRepository persists archival retry jobs
type ArchivalJobRepository interface {
	Save(ctx context.Context, job *ArchivalJob) error
	FindByID(ctx context.Context, id uuid.UUID) (*ArchivalJob, error)
	// FindDue returns pending jobs and failed jobs whose retry time has passed
	FindDue(ctx context.Context, now time.Time, limit int) ([]*ArchivalJob, error)
	// Claim atomically moves the given jobs to PROCESSING and returns those it claimed
	Claim(ctx context.Context, ids []uuid.UUID) ([]*ArchivalJob, error)
	FindAll(ctx context.Context, status ArchivalJobStatus, filter shared.Filter) ([]ArchivalJob, int64, error)
	// DeleteDoneBefore removes finished jobs processed before the cutoff
	DeleteDoneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Tx exposes repositories bound to one database transaction
type Tx interface {
	Members() MemberRepository
	Renewals() RenewalRepository
	Ledger() LedgerRepository
	ArchivalJobs() ArchivalJobRepository
	// Savepoint runs fn in a nested transaction. If fn fails only its own
	// writes are rolled back and the enclosing transaction stays usable.
	Savepoint(ctx context.Context, fn func(tx Tx) error) error
}

// TxManager runs work inside a database transaction
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(tx Tx) error) error
}
