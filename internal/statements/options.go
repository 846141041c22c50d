package statements

import "time"

// DefaultTolerance is the currency minor-unit rounding tolerance applied when
// no explicit tolerance is configured.
const DefaultTolerance = 0.01

// Options carries the tunable parameters of a derivation run. The zero value
// is usable; withDefaults fills in the standard chart-of-accounts ranges.
type Options struct {
	// Tolerance bounds the acceptable debit/credit and balance-sheet
	// differences.
	Tolerance float64
	// CurrentAssetPrefixes mark asset codes reported as current; every other
	// asset is non-current.
	CurrentAssetPrefixes []string
	// CurrentLiabilityPrefixes mark liability codes reported as current.
	CurrentLiabilityPrefixes []string
	// CashAccountPrefixes mark the cash-equivalent accounts that form the
	// balance axis of the cash flow statement.
	CashAccountPrefixes []string
	// Now supplies the statement generation timestamp.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if len(o.CurrentAssetPrefixes) == 0 {
		o.CurrentAssetPrefixes = []string{"11"}
	}
	if len(o.CurrentLiabilityPrefixes) == 0 {
		o.CurrentLiabilityPrefixes = []string{"21"}
	}
	if len(o.CashAccountPrefixes) == 0 {
		o.CashAccountPrefixes = []string{"1101", "1102"}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}
