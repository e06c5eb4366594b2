package inquiry

import "errors"

// Reasons a row is dropped or a value degraded. None of these escape the
// public parse/aggregate functions; they label diagnostics only.
var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrMissingReceiptType = errors.New("missing receipt type")
	ErrHardExcluded       = errors.New("hard-excluded detail source")
	ErrNotContract        = errors.New("contract flag not set")
	ErrUnparsableAmount   = errors.New("unparsable amount segment")
)
