package statements

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/meridian-erp/meridian/internal/ledger"
)

func TestDeriveRejectsMissingCatalog(t *testing.T) {
	set := ledger.EntrySet{Entries: []ledger.JournalEntry{
		postedEntry(1, 1, ledger.SourceSale, line("1101", 100, 0), line("4101", 0, 100)),
	}}
	if _, err := DeriveBalanceSheet(date(28), set, nil, testOptions()); !errors.Is(err, ErrNilCatalog) {
		t.Fatalf("nil catalog: err = %v, want %v", err, ErrNilCatalog)
	}
	empty := ledger.NewCatalog(nil)
	if _, err := DeriveTrialBalance(date(28), set, empty, testOptions()); !errors.Is(err, ErrNilCatalog) {
		t.Fatalf("empty catalog: err = %v, want %v", err, ErrNilCatalog)
	}
}

func TestDeriveRejectsEmptyEntrySet(t *testing.T) {
	if _, err := DeriveBalanceSheet(date(28), ledger.EntrySet{}, testCatalog(), testOptions()); !errors.Is(err, ErrEmptyEntrySet) {
		t.Fatalf("err = %v, want %v", err, ErrEmptyEntrySet)
	}
	if _, err := DeriveCashFlow(date(1), date(28), ledger.EntrySet{}, testCatalog(), testOptions()); !errors.Is(err, ErrEmptyEntrySet) {
		t.Fatalf("err = %v, want %v", err, ErrEmptyEntrySet)
	}
}

func TestDeriveRejectsInvalidPeriod(t *testing.T) {
	set := ledger.EntrySet{Entries: []ledger.JournalEntry{
		postedEntry(1, 1, ledger.SourceSale, line("1101", 100, 0), line("4101", 0, 100)),
	}}
	if _, err := DeriveProfitLoss(date(20), date(10), set, testCatalog(), testOptions()); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("err = %v, want %v", err, ErrInvalidPeriod)
	}
	if _, err := DeriveCashFlow(date(20), date(10), set, testCatalog(), testOptions()); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("err = %v, want %v", err, ErrInvalidPeriod)
	}
}

func TestDeriveLedgerRequiresAccount(t *testing.T) {
	set := ledger.EntrySet{Entries: []ledger.JournalEntry{
		postedEntry(1, 1, ledger.SourceSale, line("1101", 100, 0), line("4101", 0, 100)),
	}}
	if _, err := DeriveLedger("", 0, set, testCatalog(), testOptions()); !errors.Is(err, ErrAccountRequired) {
		t.Fatalf("err = %v, want %v", err, ErrAccountRequired)
	}
}

// Same snapshot in, same statement out. The derivation holds no state between
// calls, so repeated runs must be byte-for-byte identical once the clock is
// pinned.
func TestDeriveIsDeterministic(t *testing.T) {
	catalog := testCatalog()
	set := ledger.EntrySet{Entries: []ledger.JournalEntry{
		postedEntry(1, 1, ledger.SourceEquity, line("1101", 100000, 0), line("3101", 0, 100000)),
		postedEntry(2, 2, ledger.SourcePayment, line("2101", 20000, 0), line("1101", 0, 20000)),
		postedEntry(3, 5, ledger.SourceSale, line("1101", 750, 0), line("4101", 0, 750)),
	}}
	opts := testOptions()

	first, err := DeriveBalanceSheet(date(28), set, catalog, opts)
	if err != nil {
		t.Fatalf("first derivation: %v", err)
	}
	second, err := DeriveBalanceSheet(date(28), set, catalog, opts)
	if err != nil {
		t.Fatalf("second derivation: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("derivations differ:\nfirst:  %+v\nsecond: %+v", first, second)
	}

	tb1, _ := DeriveTrialBalance(date(28), set, catalog, opts)
	tb2, _ := DeriveTrialBalance(date(28), set, catalog, opts)
	if !reflect.DeepEqual(tb1, tb2) {
		t.Fatal("trial balance derivation is not deterministic")
	}
}

func TestDeriveExcludesFutureAndDraftEntries(t *testing.T) {
	catalog := testCatalog()
	draft := postedEntry(2, 5, ledger.SourceManual, line("1101", 999, 0), line("3101", 0, 999))
	draft.Status = ledger.EntryStatusDraft
	set := ledger.EntrySet{Entries: []ledger.JournalEntry{
		postedEntry(1, 1, ledger.SourceEquity, line("1101", 1000, 0), line("3101", 0, 1000)),
		draft,
		postedEntry(3, 25, ledger.SourceSale, line("1101", 500, 0), line("4101", 0, 500)),
	}}
	bs, err := DeriveBalanceSheet(date(10), set, catalog, testOptions())
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	// Only the day-1 posted entry is in scope: the draft never counts and the
	// day-25 sale is after the as-of date.
	if bs.TotalAssets != 1000 {
		t.Fatalf("total assets = %v, want 1000", bs.TotalAssets)
	}
}

func TestDeriveExcludesReversedEntries(t *testing.T) {
	catalog := testCatalog()
	reversedAt := date(10)
	reversed := postedEntry(2, 5, ledger.SourceManual, line("1101", 999, 0), line("3101", 0, 999))
	reversed.Status = ledger.EntryStatusReversed
	reversed.ReversedAt = &reversedAt
	set := ledger.EntrySet{Entries: []ledger.JournalEntry{
		postedEntry(1, 1, ledger.SourceEquity, line("1101", 1000, 0), line("3101", 0, 1000)),
		reversed,
	}}

	// Before the reversal took effect the entry still contributes.
	early, err := DeriveBalanceSheet(date(7), set, catalog, testOptions())
	if err != nil {
		t.Fatalf("derive before reversal: %v", err)
	}
	if early.TotalAssets != 1999 {
		t.Fatalf("total assets before reversal = %v, want 1999", early.TotalAssets)
	}

	late, err := DeriveBalanceSheet(date(20), set, catalog, testOptions())
	if err != nil {
		t.Fatalf("derive after reversal: %v", err)
	}
	if late.TotalAssets != 1000 {
		t.Fatalf("total assets after reversal = %v, want 1000", late.TotalAssets)
	}
}

func TestDeriveLeavesSnapshotUntouched(t *testing.T) {
	catalog := testCatalog()
	set := ledger.EntrySet{
		Start: date(1),
		End:   date(28),
		Entries: []ledger.JournalEntry{
			postedEntry(3, 20, ledger.SourcePayment, line("1101", 0, 70), line("2101", 70, 0)),
			postedEntry(1, 2, ledger.SourceSale, line("1101", 100, 0), line("4101", 0, 100)),
		},
	}
	before := make([]ledger.JournalEntry, len(set.Entries))
	copy(before, set.Entries)

	if _, err := DeriveLedger("1101", 0, set, catalog, testOptions()); err != nil {
		t.Fatalf("derive: %v", err)
	}
	if _, err := DeriveBalanceSheet(date(28), set, catalog, testOptions()); err != nil {
		t.Fatalf("derive: %v", err)
	}
	if !reflect.DeepEqual(before, set.Entries) {
		t.Fatal("derivation reordered or mutated the input snapshot")
	}
}

func TestDeriveUsesAsOfNotWallClock(t *testing.T) {
	catalog := testCatalog()
	set := ledger.EntrySet{Entries: []ledger.JournalEntry{
		postedEntry(1, 1, ledger.SourceSale, line("1101", 100, 0), line("4101", 0, 100)),
	}}
	stamp := time.Date(2030, time.January, 2, 3, 4, 5, 0, time.UTC)
	opts := Options{Now: func() time.Time { return stamp }}
	bs, err := DeriveBalanceSheet(date(28), set, catalog, opts)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if !bs.GeneratedAt.Equal(stamp) {
		t.Fatalf("generated_at = %v, want injected clock %v", bs.GeneratedAt, stamp)
	}
	if !bs.AsOf.Equal(date(28)) {
		t.Fatalf("as_of = %v, want %v", bs.AsOf, date(28))
	}
}
