/*
errors.go - Error taxonomy for the statistics engine

PURPOSE:
  All sentinel errors in one place. Callers classify with errors.Is; the
  API layer maps classes to HTTP status codes.

CATEGORIES:
  ErrInvalidDate     - unparseable date input; rejects the single operation
  ErrNotFound        - identifier does not exist; surfaced as a no-op failure
  ErrAnchorNotFound  - the workbook import cannot locate the legacy layout;
                       nothing is written before the anchor is found
  ErrStoreUnavailable - underlying persistence failure; fatal to the current
                       operation only, the process keeps serving

SEE ALSO:
  - store/sqlite: wraps driver failures with ErrStoreUnavailable
  - api/handlers.go: status-code mapping
*/
package stats

import "errors"

var (
	// ErrInvalidDate is returned when a date input cannot be normalized
	// to a calendar day.
	ErrInvalidDate = errors.New("invalid date")

	// ErrNotFound is returned by point lookups when no record exists
	// for the given identifier.
	ErrNotFound = errors.New("record not found")

	// ErrAnchorNotFound is returned when the import cannot locate the
	// anchor date in the workbook's header row.
	ErrAnchorNotFound = errors.New("anchor date not found in header row")

	// ErrStoreUnavailable wraps persistence-level failures.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDate) || errors.Is(err, ErrAnchorNotFound)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
