package statements

import "errors"

var (
	// ErrNilCatalog indicates the caller passed no account catalog.
	ErrNilCatalog = errors.New("statements: account catalog required")
	// ErrEmptyEntrySet indicates the caller passed no journal entries.
	ErrEmptyEntrySet = errors.New("statements: journal entry set required")
	// ErrAccountRequired indicates a ledger view was requested without an account code.
	ErrAccountRequired = errors.New("statements: account code required")
	// ErrInvalidPeriod indicates end precedes start.
	ErrInvalidPeriod = errors.New("statements: period end precedes start")
)
