package membership

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mediaassoc/backend/internal/domain/membership"
	"github.com/mediaassoc/backend/internal/domain/shared"
	csvimport "github.com/mediaassoc/backend/internal/infrastructure/import"
	"github.com/mediaassoc/backend/internal/infrastructure/telemetry"
)

// LedgerService queries and maintains the historical members ledger
type LedgerService struct {
	ledgerRepo membership.LedgerRepository
	metrics    Metrics
	now        func() time.Time
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(ledgerRepo membership.LedgerRepository, metrics Metrics) *LedgerService {
	return &LedgerService{
		ledgerRepo: ledgerRepo,
		metrics:    metricsOrNoop(metrics),
		now:        time.Now,
	}
}

func requireYear(raw string) (string, error) {
	year := strings.TrimSpace(raw)
	if year == "" {
		return "", shared.InvalidInput("year is required")
	}
	return year, nil
}

// ListByYear returns a year's entries, newest upload first then by name
func (s *LedgerService) ListByYear(ctx context.Context, rawYear string) (*LedgerYearResponse, error) {
	year, err := requireYear(rawYear)
	if err != nil {
		return nil, err
	}
	entries, err := s.ledgerRepo.FindByYear(ctx, year)
	if err != nil {
		return nil, err
	}

	members := make([]*LedgerEntryResponse, len(entries))
	for i := range entries {
		members[i] = ToLedgerEntryResponse(&entries[i])
	}
	return &LedgerYearResponse{Year: year, Count: len(members), Members: members}, nil
}

// DeleteByYear removes every entry of a year. A year with no entries is
// NOT_FOUND and nothing is deleted.
func (s *LedgerService) DeleteByYear(ctx context.Context, rawYear string) (*LedgerDeleteResponse, error) {
	year, err := requireYear(rawYear)
	if err != nil {
		return nil, err
	}

	count, err := s.ledgerRepo.CountByYear(ctx, year)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, noEntriesForYear(year)
	}

	deleted, err := s.ledgerRepo.DeleteByYear(ctx, year)
	if err != nil {
		return nil, err
	}
	if deleted == 0 {
		// removed concurrently between the count and the delete
		return nil, noEntriesForYear(year)
	}
	return &LedgerDeleteResponse{DeletedCount: deleted, Year: year}, nil
}

func noEntriesForYear(year string) error {
	return shared.NewDomainError(shared.ErrNotFound.Code, fmt.Sprintf("no ledger entries found for year %s", year))
}

// GetByID retrieves a ledger entry
func (s *LedgerService) GetByID(ctx context.Context, rawID string) (*LedgerEntryResponse, error) {
	id, err := shared.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	entry, err := s.ledgerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToLedgerEntryResponse(entry), nil
}

// Delete removes a ledger entry
func (s *LedgerService) Delete(ctx context.Context, rawID string) error {
	id, err := shared.ParseID(rawID)
	if err != nil {
		return err
	}
	return s.ledgerRepo.Delete(ctx, id)
}

// Years lists the years present in the ledger with their entry counts
func (s *LedgerService) Years(ctx context.Context) ([]YearCountResponse, error) {
	years, err := s.ledgerRepo.Years(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]YearCountResponse, len(years))
	for i, y := range years {
		out[i] = YearCountResponse{Year: y.Year, Count: y.Count}
	}
	return out, nil
}

// BulkImport inserts the JSON rows that carry a name and a year. Row numbers
// in the skipped report are 1-based array positions.
func (s *LedgerService) BulkImport(ctx context.Context, req BulkImportRequest) (*BulkImportResponse, error) {
	if len(req.Members) == 0 {
		return nil, shared.InvalidInput("members must be a non-empty array")
	}
	rows := make([]csvimport.LedgerRow, len(req.Members))
	for i, m := range req.Members {
		rows[i] = csvimport.LedgerRow{
			Line: i + 1,
			ImportRow: membership.ImportRow{
				Name:         m.Name,
				Organisation: m.Organisation,
				Email:        m.Email,
				Phone:        m.Phone,
				Year:         string(m.Year),
			},
		}
	}
	return s.importRows(ctx, "import_json", rows)
}

// ImportCSV reads a ledger CSV and imports it with the same rules as
// BulkImport. Row numbers in the skipped report are file line numbers.
func (s *LedgerService) ImportCSV(ctx context.Context, r io.Reader) (*BulkImportResponse, error) {
	rows, err := csvimport.ReadLedgerRows(r)
	if err != nil {
		if csvimport.IsFileError(err) {
			return nil, shared.InvalidInput(err.Error())
		}
		return nil, fmt.Errorf("failed to read ledger CSV: %w", err)
	}
	return s.importRows(ctx, "import_csv", rows)
}

func (s *LedgerService) importRows(ctx context.Context, method string, rows []csvimport.LedgerRow) (*BulkImportResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", method,
		telemetry.WithAttribute(telemetry.SpanAttrRowCount, len(rows)),
	)
	defer span.End()

	now := s.now()
	entries := make([]*membership.LedgerEntry, 0, len(rows))
	skipped := make([]SkippedRow, 0)
	for _, row := range rows {
		if reason := row.RejectReason(); reason != "" {
			skipped = append(skipped, SkippedRow{Row: row.Line, Reason: reason})
			continue
		}
		entries = append(entries, membership.NewImportedLedgerEntry(row.ImportRow, now))
	}

	if len(entries) == 0 {
		s.metrics.RecordImportRows(ctx, 0, len(skipped))
		err := shared.InvalidInput("no valid rows to import: each row needs a name and a year")
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.ledgerRepo.CreateBatch(ctx, entries); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	ids := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	s.metrics.RecordImportRows(ctx, len(entries), len(skipped))
	telemetry.AddEvent(span, "ledger_rows_imported",
		telemetry.SpanAttrRowCount, len(entries),
		"skipped_count", len(skipped),
	)
	telemetry.SetOK(span)

	return &BulkImportResponse{Count: len(entries), InsertedIDs: ids, Skipped: skipped}, nil
}
