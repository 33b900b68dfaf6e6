package membership

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FlexYear is a ledger year sent either as a JSON string or a JSON number.
// Spreadsheet exports commonly emit 2021 where a form would send "2021".
type FlexYear string

// UnmarshalJSON implements json.Unmarshaler
func (y *FlexYear) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*y = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*y = FlexYear(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("year must be a string or a number: %w", err)
	}
	*y = FlexYear(n.String())
	return nil
}
