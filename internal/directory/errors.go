// Package directory holds the reconciliation and audit rules shared by the
// station editing paths, the feed importer and the call ledger.
package directory

import (
	"errors"
	"fmt"

	"infinite-experiment/calllist/internal/constants"
)

// Error taxonomy. Specific failures wrap one of these so callers can branch
// with errors.Is.
var (
	ErrValidation         = errors.New("validation error")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
)

var (
	ErrTooManyPhones     = fmt.Errorf("%w: maximum %d phone numbers allowed", ErrInvariantViolation, constants.MaxPhonesPerStation)
	ErrLastPhone         = fmt.Errorf("%w: at least one phone number is required", ErrInvariantViolation)
	ErrPhoneNotInStation = fmt.Errorf("%w: phone not found", ErrNotFound)
	ErrStationNotFound   = fmt.Errorf("%w: station not found", ErrNotFound)
)

// Validationf builds a ValidationError with a formatted reason.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
