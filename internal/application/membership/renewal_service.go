package membership

import (
	"context"

	"github.com/mediaassoc/backend/internal/domain/membership"
	"github.com/mediaassoc/backend/internal/domain/shared"
	"github.com/mediaassoc/backend/internal/infrastructure/telemetry"
)

// RenewalService handles membership renewals
type RenewalService struct {
	renewalRepo membership.RenewalRepository
	txManager   membership.TxManager
	archiver    *Archiver
	metrics     Metrics
}

// NewRenewalService creates a new RenewalService
func NewRenewalService(
	renewalRepo membership.RenewalRepository,
	txManager membership.TxManager,
	archiver *Archiver,
	metrics Metrics,
) *RenewalService {
	return &RenewalService{
		renewalRepo: renewalRepo,
		txManager:   txManager,
		archiver:    archiver,
		metrics:     metricsOrNoop(metrics),
	}
}

// Submit stores a new renewal. Renewals start Active but are only archived
// when an admin saves them.
func (s *RenewalService) Submit(ctx context.Context, req SubmitRenewalRequest) (*RenewalResponse, error) {
	r, err := membership.NewRenewalRequest(req.toInput())
	if err != nil {
		return nil, err
	}
	if err := s.renewalRepo.Create(ctx, r); err != nil {
		return nil, err
	}
	return ToRenewalResponse(r), nil
}

// GetByID retrieves a renewal
func (s *RenewalService) GetByID(ctx context.Context, rawID string) (*RenewalResponse, error) {
	id, err := shared.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	r, err := s.renewalRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToRenewalResponse(r), nil
}

// List returns one page of renewals
func (s *RenewalService) List(ctx context.Context, filter ListFilter) ([]RenewalResponse, int64, error) {
	domainFilter := toDomainFilter(filter)
	if filter.Status != "" {
		status, err := membership.ParseRenewalStatus(filter.Status)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Filters["status"] = string(status)
	}

	items, total, err := s.renewalRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]RenewalResponse, len(items))
	for i := range items {
		responses[i] = *ToRenewalResponse(&items[i])
	}
	return responses, total, nil
}

// Update applies a partial admin edit. A renewal that is Active after the
// edit is projected into the ledger in the same transaction.
func (s *RenewalService) Update(ctx context.Context, rawID string, req UpdateRenewalRequest) (*RenewalUpdateResponse, error) {
	id, err := shared.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	update, err := req.toUpdate()
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "renewal", "update",
		telemetry.WithAttribute(telemetry.SpanAttrRenewalID, id.String()),
	)
	defer span.End()

	var (
		updated  *membership.RenewalRequest
		archived bool
	)
	err = s.txManager.WithinTransaction(ctx, func(tx membership.Tx) error {
		r, err := tx.Renewals().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := r.Apply(update); err != nil {
			return err
		}
		if err := tx.Renewals().Save(ctx, r); err != nil {
			return err
		}
		if r.Status.TriggersArchival() {
			archived = s.archiver.ArchiveRenewal(ctx, tx, r)
		}
		updated = r
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if update.Status != nil {
		s.metrics.RecordStatusUpdate(ctx, string(membership.SourceKindRenewal), string(*update.Status))
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrStatus, string(updated.Status))
	telemetry.SetOK(span)
	return &RenewalUpdateResponse{RenewalResponse: ToRenewalResponse(updated), Archived: archived}, nil
}

// Delete removes a renewal. Its ledger entry, if any, is kept.
func (s *RenewalService) Delete(ctx context.Context, rawID string) error {
	id, err := shared.ParseID(rawID)
	if err != nil {
		return err
	}
	return s.renewalRepo.Delete(ctx, id)
}
