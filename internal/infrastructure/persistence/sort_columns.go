package persistence

import "strings"

// sortColumns is the set of columns a list endpoint may order by. Caller
// input never reaches ORDER BY unless it names one of these exactly.
type sortColumns map[string]struct{}

func columns(names ...string) sortColumns {
	set := make(sortColumns, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// with returns a copy of s extended by names
func (s sortColumns) with(names ...string) sortColumns {
	out := make(sortColumns, len(s)+len(names))
	for n := range s {
		out[n] = struct{}{}
	}
	for _, n := range names {
		out[n] = struct{}{}
	}
	return out
}

// clause renders "<column> ASC|DESC". An unknown column falls back to
// fallback and any direction other than asc means DESC.
func (s sortColumns) clause(orderBy, orderDir, fallback string) string {
	col := strings.TrimSpace(orderBy)
	if _, ok := s[col]; !ok {
		col = fallback
	}
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return col + " ASC"
	}
	return col + " DESC"
}

var (
	timestampColumns = columns("created_at", "updated_at")

	memberSortColumns = timestampColumns.with("id", "first_name", "last_name", "email",
		"organization", "status", "application_date", "reviewed_at")
	renewalSortColumns = timestampColumns.with("id", "membership_number", "first_name", "last_name",
		"email", "status", "renewal_date", "amount")
	archivalJobSortColumns = timestampColumns.with("status", "retry_count", "next_retry_at")
	contentSortColumns     = timestampColumns.with("slug")
)
