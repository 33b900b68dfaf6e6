package membership

import (
	"context"

	"github.com/google/uuid"
	"github.com/mediaassoc/backend/internal/domain/membership"
	"github.com/mediaassoc/backend/internal/domain/shared"
	"github.com/mediaassoc/backend/internal/infrastructure/telemetry"
)

// MemberService handles membership applications and their review
type MemberService struct {
	memberRepo membership.MemberRepository
	txManager  membership.TxManager
	archiver   *Archiver
	metrics    Metrics
}

// NewMemberService creates a new MemberService
func NewMemberService(
	memberRepo membership.MemberRepository,
	txManager membership.TxManager,
	archiver *Archiver,
	metrics Metrics,
) *MemberService {
	return &MemberService{
		memberRepo: memberRepo,
		txManager:  txManager,
		archiver:   archiver,
		metrics:    metricsOrNoop(metrics),
	}
}

// Submit stores a new application in the Pending Review state
func (s *MemberService) Submit(ctx context.Context, req SubmitMemberRequest) (*MemberResponse, error) {
	m, err := membership.NewMemberApplication(req.toInput())
	if err != nil {
		return nil, err
	}
	if err := s.memberRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	return ToMemberResponse(m), nil
}

// GetByID retrieves an application
func (s *MemberService) GetByID(ctx context.Context, rawID string) (*MemberResponse, error) {
	id, err := shared.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	m, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToMemberResponse(m), nil
}

// List returns one page of applications
func (s *MemberService) List(ctx context.Context, filter ListFilter) ([]MemberResponse, int64, error) {
	domainFilter := toDomainFilter(filter)
	if filter.Status != "" {
		status, err := membership.ParseMemberStatus(filter.Status)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Filters["status"] = string(status)
	}

	items, total, err := s.memberRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]MemberResponse, len(items))
	for i := range items {
		responses[i] = *ToMemberResponse(&items[i])
	}
	return responses, total, nil
}

// UpdateStatus applies a reviewer's decision. Moving an application to
// Approved projects it into the ledger in the same transaction; a failed
// projection keeps the new status and reports Archived false.
func (s *MemberService) UpdateStatus(ctx context.Context, rawID string, req UpdateStatusRequest, reviewer *uuid.UUID) (*MemberStatusResponse, error) {
	id, err := shared.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	status, err := membership.ParseMemberStatus(req.Status)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "member", "update_status",
		telemetry.WithAttribute(telemetry.SpanAttrMemberID, id.String()),
		telemetry.WithAttribute(telemetry.SpanAttrStatus, string(status)),
	)
	defer span.End()

	var (
		updated  *membership.MemberApplication
		archived bool
	)
	err = s.txManager.WithinTransaction(ctx, func(tx membership.Tx) error {
		m, err := tx.Members().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := m.ChangeStatus(status, reviewer); err != nil {
			return err
		}
		if err := tx.Members().Save(ctx, m); err != nil {
			return err
		}
		if status.TriggersArchival() {
			archived = s.archiver.ArchiveMember(ctx, tx, m)
		}
		updated = m
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.metrics.RecordStatusUpdate(ctx, string(membership.SourceKindMember), string(status))
	telemetry.SetOK(span)
	return &MemberStatusResponse{MemberResponse: ToMemberResponse(updated), Archived: archived}, nil
}

// Delete removes an application. Its ledger entry, if any, is kept.
func (s *MemberService) Delete(ctx context.Context, rawID string) error {
	id, err := shared.ParseID(rawID)
	if err != nil {
		return err
	}
	return s.memberRepo.Delete(ctx, id)
}

func toDomainFilter(f ListFilter) shared.Filter {
	filter := shared.DefaultFilter()
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		filter.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		filter.OrderDir = f.OrderDir
	}
	filter.Search = f.Search
	return filter.Normalize()
}
