package statements

import (
	"testing"
	"time"

	"github.com/meridian-erp/meridian/internal/ledger"
)

func fixedNow() time.Time {
	return time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)
}

func testOptions() Options {
	return Options{Now: fixedNow}.withDefaults()
}

// The canonical two-entry scenario: capital injection then a payable paid
// down from cash. Payable carries a debit-side balance, which reduces total
// liabilities rather than being clamped positive.
func TestDeriveBalanceSheetScenario(t *testing.T) {
	catalog := ledger.NewCatalog([]ledger.Account{
		{Code: "1101", Name: "Cash", Type: ledger.AccountTypeAsset},
		{Code: "2101", Name: "Payable", Type: ledger.AccountTypeLiability},
		{Code: "3101", Name: "Capital", Type: ledger.AccountTypeEquity},
	})
	set := ledger.EntrySet{Entries: []ledger.JournalEntry{
		postedEntry(1, 1, ledger.SourceEquity, line("1101", 100000, 0), line("3101", 0, 100000)),
		postedEntry(2, 2, ledger.SourcePayment, line("2101", 20000, 0), line("1101", 0, 20000)),
	}}

	bs, err := DeriveBalanceSheet(date(28), set, catalog, testOptions())
	if err != nil {
		t.Fatalf("derive balance sheet: %v", err)
	}
	if bs.TotalAssets != 80000 {
		t.Fatalf("total assets = %v, want 80000", bs.TotalAssets)
	}
	if bs.TotalLiabilities != -20000 {
		t.Fatalf("total liabilities = %v, want -20000", bs.TotalLiabilities)
	}
	if bs.TotalEquity != 100000 {
		t.Fatalf("total equity = %v, want 100000", bs.TotalEquity)
	}
	if bs.TotalLiabilitiesAndEquity != 80000 {
		t.Fatalf("liabilities+equity = %v, want 80000", bs.TotalLiabilitiesAndEquity)
	}
	if !bs.Validation.IsBalanced {
		t.Fatalf("expected balanced sheet, got %+v", bs.Validation)
	}
	if bs.Difference != 0 {
		t.Fatalf("difference = %v, want 0", bs.Difference)
	}
}

func TestBalanceSheetFoldsNetIncomeIntoEquity(t *testing.T) {
	// Sale on credit terms: revenue exists but cash never moved. The period
	// is open, so current earnings must appear in equity for the identity to
	// hold.
	catalog := testCatalog()
	set := ledger.EntrySet{Entries: []ledger.JournalEntry{
		postedEntry(1, 1, ledger.SourceSale, line("1101", 500, 0), line("4101", 0, 500)),
		postedEntry(2, 2, ledger.SourcePurchase, line("5101", 200, 0), line("1101", 0, 200)),
	}}
	bs, err := DeriveBalanceSheet(date(28), set, catalog, testOptions())
	if err != nil {
		t.Fatalf("derive balance sheet: %v", err)
	}
	if bs.TotalAssets != 300 {
		t.Fatalf("total assets = %v, want 300", bs.TotalAssets)
	}
	found := false
	for _, item := range bs.Equity.Items {
		if item.AccountCode == "NET_INCOME" {
			found = true
			if item.Amount != 300 {
				t.Fatalf("net income line = %v, want 300", item.Amount)
			}
		}
	}
	if !found {
		t.Fatal("expected NET_INCOME line in equity while period is open")
	}
	if !bs.Validation.IsBalanced {
		t.Fatalf("expected balanced sheet, got %+v", bs.Validation)
	}
}

func TestDeriveTrialBalanceUnbalancedSource(t *testing.T) {
	catalog := testCatalog()
	set := ledger.EntrySet{Entries: []ledger.JournalEntry{
		postedEntry(1, 1, ledger.SourceManual, line("5101", 500, 0), line("1101", 0, 450)),
	}}
	tb, err := DeriveTrialBalance(date(28), set, catalog, testOptions())
	if err != nil {
		t.Fatalf("derive trial balance: %v", err)
	}
	if tb.Validation.IsBalanced {
		t.Fatal("expected is_balanced=false for unbalanced source entry")
	}
	if tb.Validation.Difference != 50 {
		t.Fatalf("difference = %v, want 50", tb.Validation.Difference)
	}
	if tb.Validation.Failure != FailureDebitVsCredit {
		t.Fatalf("failure class = %q, want %q", tb.Validation.Failure, FailureDebitVsCredit)
	}
	// Line items still come back for investigation.
	if len(tb.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(tb.Rows))
	}
}

func TestTrialBalanceKeepsRawColumns(t *testing.T) {
	catalog := testCatalog()
	set := ledger.EntrySet{Entries: []ledger.JournalEntry{
		postedEntry(1, 1, ledger.SourceSale, line("1101", 100, 0), line("4101", 0, 100)),
		postedEntry(2, 2, ledger.SourcePayment, line("1101", 0, 30), line("2101", 30, 0)),
	}}
	tb, err := DeriveTrialBalance(date(28), set, catalog, testOptions())
	if err != nil {
		t.Fatalf("derive trial balance: %v", err)
	}
	var cash TrialBalanceRow
	for _, row := range tb.Rows {
		if row.AccountCode == "1101" {
			cash = row
		}
	}
	if cash.Debit != 100 || cash.Credit != 30 {
		t.Fatalf("cash row must keep raw columns, got debit %v credit %v", cash.Debit, cash.Credit)
	}
	if tb.TotalDebits != 130 || tb.TotalCredits != 130 {
		t.Fatalf("totals = %v/%v, want 130/130", tb.TotalDebits, tb.TotalCredits)
	}
	if !tb.Validation.IsBalanced {
		t.Fatalf("expected balanced trial balance, got %+v", tb.Validation)
	}
}

func TestDeriveCashFlowClassifiesBySource(t *testing.T) {
	catalog := testCatalog()
	set := ledger.EntrySet{
		Start: date(1),
		End:   date(31),
		Entries: []ledger.JournalEntry{
			// Before the window: seeds opening cash.
			postedEntry(1, 1, ledger.SourceEquity, line("1101", 1000, 0), line("3101", 0, 1000)),
			// In the window.
			postedEntry(2, 10, ledger.SourceSale, line("1101", 400, 0), line("4101", 0, 400)),
			postedEntry(3, 12, ledger.SourceAssetPurchase, line("1201", 150, 0), line("1101", 0, 150)),
			postedEntry(4, 15, ledger.SourceLoan, line("1101", 300, 0), line("2201", 0, 300)),
			postedEntry(5, 20, ledger.SourceType("LEGACY_IMPORT"), line("1101", 0, 25), line("5101", 25, 0)),
			// No cash involvement: stays off the statement.
			postedEntry(6, 21, ledger.SourcePurchase, line("5101", 75, 0), line("2101", 0, 75)),
		},
	}
	cf, err := DeriveCashFlow(date(5), date(31), set, catalog, testOptions())
	if err != nil {
		t.Fatalf("derive cash flow: %v", err)
	}
	if cf.CashAtBeginning != 1000 {
		t.Fatalf("opening cash = %v, want 1000", cf.CashAtBeginning)
	}
	if cf.Operating.Total != 400 {
		t.Fatalf("operating total = %v, want 400", cf.Operating.Total)
	}
	if cf.Investing.Total != -150 {
		t.Fatalf("investing total = %v, want -150", cf.Investing.Total)
	}
	if cf.Financing.Total != 300 {
		t.Fatalf("financing total = %v, want 300", cf.Financing.Total)
	}
	if cf.Other.Total != -25 {
		t.Fatalf("other total = %v, want -25 (unmapped source must not be dropped)", cf.Other.Total)
	}
	if cf.NetCashFlow != 525 {
		t.Fatalf("net cash flow = %v, want 525", cf.NetCashFlow)
	}
	if cf.CashAtEnd != 1525 {
		t.Fatalf("ending cash = %v, want 1525", cf.CashAtEnd)
	}
	for _, section := range []CashFlowSection{cf.Operating, cf.Investing, cf.Financing, cf.Other} {
		for _, item := range section.Items {
			if item.EntryNumber == "" {
				t.Fatalf("cash flow item missing entry number: %+v", item)
			}
		}
	}
}

func TestDeriveLedgerRunningBalance(t *testing.T) {
	catalog := testCatalog()
	set := ledger.EntrySet{
		Start: date(1),
		End:   date(31),
		Entries: []ledger.JournalEntry{
			// Deliberately out of chronological order.
			postedEntry(3, 20, ledger.SourcePayment, line("1101", 0, 70), line("2101", 70, 0)),
			postedEntry(1, 2, ledger.SourceSale, line("1101", 100, 0), line("4101", 0, 100)),
			postedEntry(2, 9, ledger.SourceSale, line("1101", 50, 0), line("4101", 0, 50)),
		},
	}
	lg, err := DeriveLedger("1101", 1000, set, catalog, testOptions())
	if err != nil {
		t.Fatalf("derive ledger: %v", err)
	}
	if lg.AccountName != "Cash" {
		t.Fatalf("account name = %q, want Cash", lg.AccountName)
	}
	if len(lg.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(lg.Rows))
	}
	wantBalances := []float64{1100, 1150, 1080}
	running := lg.OpeningBalance
	for i, row := range lg.Rows {
		if i > 0 && row.Date.Before(lg.Rows[i-1].Date) {
			t.Fatalf("rows not chronological at %d", i)
		}
		running += row.Debit - row.Credit
		if row.Balance != running {
			t.Fatalf("row %d balance = %v, prefix sum says %v", i, row.Balance, running)
		}
		if row.Balance != wantBalances[i] {
			t.Fatalf("row %d balance = %v, want %v", i, row.Balance, wantBalances[i])
		}
	}
	if lg.EndingBalance != 1080 {
		t.Fatalf("ending balance = %v, want 1080", lg.EndingBalance)
	}
}

func TestDeriveProfitLoss(t *testing.T) {
	catalog := testCatalog()
	set := ledger.EntrySet{Entries: []ledger.JournalEntry{
		postedEntry(1, 5, ledger.SourceSale, line("1101", 1200, 0), line("4101", 0, 1200)),
		postedEntry(2, 9, ledger.SourcePurchase, line("5101", 500, 0), line("1101", 0, 500)),
	}}
	pl, err := DeriveProfitLoss(date(1), date(31), set, catalog, testOptions())
	if err != nil {
		t.Fatalf("derive profit loss: %v", err)
	}
	if pl.Revenue.Subtotal != 1200 {
		t.Fatalf("revenue = %v, want 1200", pl.Revenue.Subtotal)
	}
	if pl.Expense.Subtotal != 500 {
		t.Fatalf("expense = %v, want 500", pl.Expense.Subtotal)
	}
	if pl.NetIncome != 700 {
		t.Fatalf("net income = %v, want 700", pl.NetIncome)
	}
}
