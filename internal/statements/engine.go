// Package statements derives financial statements from an immutable journal
// snapshot. Every derivation is a pure function of (catalog, entry set,
// options): no I/O, no shared state, fresh accumulator maps per call, so
// concurrent derivations need no locking.
package statements

import (
	"time"

	"github.com/meridian-erp/meridian/internal/ledger"
)

// effectiveEntries filters the snapshot down to entries that contribute to
// balances as of the given date. The upstream snapshot is normally already
// POSTED-only; this re-check keeps draft and reversed-out entries from
// leaking into a statement.
func effectiveEntries(set ledger.EntrySet, asOf time.Time) ledger.EntrySet {
	out := ledger.EntrySet{Start: set.Start, End: asOf}
	for _, entry := range set.Entries {
		if entry.EffectiveAt(asOf) {
			out.Entries = append(out.Entries, entry)
		}
	}
	return out
}

// periodEntries keeps effective entries dated within [start, end].
func periodEntries(set ledger.EntrySet, start, end time.Time) ledger.EntrySet {
	out := ledger.EntrySet{Start: start, End: end}
	for _, entry := range set.Entries {
		if entry.Date.Before(start) {
			continue
		}
		if entry.EffectiveAt(end) {
			out.Entries = append(out.Entries, entry)
		}
	}
	return out
}

func checkInputs(set ledger.EntrySet, catalog *ledger.Catalog) error {
	if catalog == nil || catalog.Len() == 0 {
		return ErrNilCatalog
	}
	if set.Empty() {
		return ErrEmptyEntrySet
	}
	return nil
}

// DeriveBalanceSheet derives the as-of-date balance sheet. Unknown account
// codes are reported in the Uncategorized section rather than dropped; an
// out-of-balance sheet is returned with Validation.IsBalanced=false, not as
// an error.
func DeriveBalanceSheet(asOf time.Time, set ledger.EntrySet, catalog *ledger.Catalog, opts Options) (BalanceSheet, error) {
	if err := checkInputs(set, catalog); err != nil {
		return BalanceSheet{}, err
	}
	opts = opts.withDefaults()
	balances := Accumulate(effectiveEntries(set, asOf), catalog)
	buckets := bucketForBalanceSheet(sortedBalances(balances), opts)
	return composeBalanceSheet(asOf, buckets, opts), nil
}

// DeriveTrialBalance derives the raw debit/credit listing as of a date.
func DeriveTrialBalance(asOf time.Time, set ledger.EntrySet, catalog *ledger.Catalog, opts Options) (TrialBalance, error) {
	if err := checkInputs(set, catalog); err != nil {
		return TrialBalance{}, err
	}
	opts = opts.withDefaults()
	balances := Accumulate(effectiveEntries(set, asOf), catalog)
	return composeTrialBalance(asOf, sortedBalances(balances), opts), nil
}

// DeriveProfitLoss derives revenue and expense sections for a period.
func DeriveProfitLoss(start, end time.Time, set ledger.EntrySet, catalog *ledger.Catalog, opts Options) (ProfitLoss, error) {
	if err := checkInputs(set, catalog); err != nil {
		return ProfitLoss{}, err
	}
	if end.Before(start) {
		return ProfitLoss{}, ErrInvalidPeriod
	}
	opts = opts.withDefaults()
	balances := Accumulate(periodEntries(set, start, end), catalog)
	buckets := bucketForBalanceSheet(sortedBalances(balances), opts)
	return composeProfitLoss(start, end, buckets, opts), nil
}

// DeriveCashFlow derives the period cash movement statement. The snapshot
// must cover entries up to end; entries before start feed the opening cash
// balance, entries within the window are classified by source type.
func DeriveCashFlow(start, end time.Time, set ledger.EntrySet, catalog *ledger.Catalog, opts Options) (CashFlow, error) {
	if err := checkInputs(set, catalog); err != nil {
		return CashFlow{}, err
	}
	if end.Before(start) {
		return CashFlow{}, ErrInvalidPeriod
	}
	opts = opts.withDefaults()

	opening := 0.0
	for _, entry := range set.Entries {
		if !entry.Date.Before(start) || !entry.EffectiveAt(end) {
			continue
		}
		opening += cashDelta(entry, opts)
	}
	window := periodEntries(set, start, end)
	cf := composeCashFlow(start, end, window.Entries, opening, 0, opts)
	cf.CashAtEnd = cf.CashAtBeginning + cf.NetCashFlow
	return cf, nil
}

// DeriveLedger derives the running-balance view of one account across the
// snapshot window, seeded by an explicit opening balance (0 if none).
func DeriveLedger(accountCode string, opening float64, set ledger.EntrySet, catalog *ledger.Catalog, opts Options) (Ledger, error) {
	if err := checkInputs(set, catalog); err != nil {
		return Ledger{}, err
	}
	if accountCode == "" {
		return Ledger{}, ErrAccountRequired
	}
	opts = opts.withDefaults()
	name := accountCode
	if acc, ok := catalog.Lookup(accountCode); ok {
		name = acc.Name
	}
	effective := effectiveEntries(set, snapshotEnd(set))
	return composeLedger(accountCode, name, opening, effective.Entries, opts), nil
}

// snapshotEnd resolves the as-of horizon of a snapshot, falling back to the
// latest entry date when the set carries no explicit window.
func snapshotEnd(set ledger.EntrySet) time.Time {
	end := set.End
	for _, entry := range set.Entries {
		if entry.Date.After(end) {
			end = entry.Date
		}
	}
	return end
}
