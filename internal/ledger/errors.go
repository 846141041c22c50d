package ledger

import "errors"

var (
	// ErrCatalogEmpty indicates the accounts table returned no rows.
	ErrCatalogEmpty = errors.New("ledger: account catalog is empty")
	// ErrAccountNotFound indicates a missing account.
	ErrAccountNotFound = errors.New("ledger: account not found")
)
