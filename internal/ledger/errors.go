package ledger

import "errors"

// Failure kinds surfaced by ledger mutations. Handlers map these to HTTP
// responses; everything else is treated as an internal error.
var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidCredential  = errors.New("invalid payment password")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation error")
	// ErrStorageConflict means the bounded retry budget was exhausted on a
	// concurrent-mutation conflict. The caller may retry the whole request.
	ErrStorageConflict = errors.New("storage conflict")
)
