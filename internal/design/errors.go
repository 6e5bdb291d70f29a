package design

import (
	"errors"
	"fmt"
)

// ErrEmptyOracleResponse is returned when the oracle produced no text at all.
var ErrEmptyOracleResponse = errors.New("oracle returned an empty response")

// MalformedJSONError is returned when no JSON object could be parsed out of
// the oracle's text. Raw retains the offending candidate text for diagnostics.
type MalformedJSONError struct {
	Raw string
	Err error
}

func (e *MalformedJSONError) Error() string {
	return fmt.Sprintf("oracle response is not valid JSON: %v", e.Err)
}

func (e *MalformedJSONError) Unwrap() error {
	return e.Err
}

// IncompleteResultError is returned when the parsed object survived alias
// reconciliation but is missing a required field. Reason carries whatever
// explanatory text the oracle did provide so the UI can show something useful.
type IncompleteResultError struct {
	Missing string
	Reason  string
}

func (e *IncompleteResultError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("oracle result missing %s: %s", e.Missing, e.Reason)
	}
	return fmt.Sprintf("oracle result missing %s", e.Missing)
}
