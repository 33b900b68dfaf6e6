package csvimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/mediaassoc/backend/internal/domain/membership"
)

// Ledger import column names
const (
	ColumnName         = "name"
	ColumnOrganisation = "organisation"
	ColumnEmail        = "email"
	ColumnPhone        = "phone"
	ColumnYear         = "year"
)

// MaxLedgerFileSize bounds an uploaded ledger CSV
const MaxLedgerFileSize = 10 << 20

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ledgerHeaders maps every accepted header spelling, lowercased, to a column
var ledgerHeaders = map[string]string{
	ColumnName:         ColumnName,
	"full name":        ColumnName,
	"full_name":        ColumnName,
	ColumnOrganisation: ColumnOrganisation,
	"organization":     ColumnOrganisation,
	"org":              ColumnOrganisation,
	ColumnEmail:        ColumnEmail,
	"e-mail":           ColumnEmail,
	ColumnPhone:        ColumnPhone,
	"phone number":     ColumnPhone,
	"telephone":        ColumnPhone,
	ColumnYear:         ColumnYear,
}

// LedgerRow is one data row of a ledger CSV with its 1-based line number
type LedgerRow struct {
	Line int
	membership.ImportRow
}

// ReadLedgerRows parses a ledger CSV. The header row must contain name and
// year columns; organisation, email and phone are optional and unknown
// columns are ignored. Blank rows are dropped and values are trimmed, but
// rows are not validated here: a row without a name or year is returned
// for the caller to reject.
func ReadLedgerRows(r io.Reader) ([]LedgerRow, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxLedgerFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger CSV: %w", err)
	}
	switch data = bytes.TrimPrefix(data, utf8BOM); {
	case len(data) > MaxLedgerFileSize:
		return nil, ErrFileTooLarge
	case len(bytes.TrimSpace(data)) == 0:
		return nil, ErrEmptyFile
	case !utf8.Valid(data):
		return nil, ErrInvalidEncoding
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, recordError(err)
	}
	index, err := ledgerColumns(header)
	if err != nil {
		return nil, err
	}

	var rows []LedgerRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, recordError(err)
		}
		line, _ := reader.FieldPos(0)
		field := func(column string) string {
			if i, ok := index[column]; ok && i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}
		row := membership.ImportRow{
			Name:         field(ColumnName),
			Organisation: field(ColumnOrganisation),
			Email:        field(ColumnEmail),
			Phone:        field(ColumnPhone),
			Year:         field(ColumnYear),
		}
		if row == (membership.ImportRow{}) {
			continue
		}
		rows = append(rows, LedgerRow{Line: line, ImportRow: row})
	}
	if len(rows) == 0 {
		return nil, ErrNoDataRows
	}
	return rows, nil
}

// ledgerColumns resolves header spellings to field positions. When a column
// appears twice the leftmost one wins.
func ledgerColumns(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		column, ok := ledgerHeaders[strings.ToLower(strings.TrimSpace(h))]
		if !ok {
			continue
		}
		if _, seen := index[column]; !seen {
			index[column] = i
		}
	}
	if len(index) == 0 && strings.TrimSpace(strings.Join(header, "")) == "" {
		return nil, ErrMissingHeader
	}

	var missing []string
	for _, required := range []string{ColumnName, ColumnYear} {
		if _, ok := index[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}
	return index, nil
}

func recordError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &MalformedRowError{Line: parseErr.StartLine, Err: parseErr.Err}
	}
	return fmt.Errorf("failed to read ledger CSV: %w", err)
}
