package statements

import (
	"testing"

	"github.com/meridian-erp/meridian/internal/ledger"
)

func TestActivityFor(t *testing.T) {
	cases := []struct {
		source ledger.SourceType
		want   Activity
	}{
		{ledger.SourceSale, ActivityOperating},
		{ledger.SourcePurchase, ActivityOperating},
		{ledger.SourcePayment, ActivityOperating},
		{ledger.SourceAssetPurchase, ActivityInvesting},
		{ledger.SourceAssetSale, ActivityInvesting},
		{ledger.SourceLoan, ActivityFinancing},
		{ledger.SourceEquity, ActivityFinancing},
		{ledger.SourceDividend, ActivityFinancing},
		{ledger.SourceManual, ActivityOther},
		{ledger.SourceCashBank, ActivityOther},
		{ledger.SourceType("SOMETHING_NEW"), ActivityOther},
	}
	for _, tc := range cases {
		if got := ActivityFor(tc.source); got != tc.want {
			t.Fatalf("ActivityFor(%s) = %s, want %s", tc.source, got, tc.want)
		}
	}
}

func TestClassifyPrefersCatalogType(t *testing.T) {
	// Catalog says liability even though the code looks like an asset.
	bal := AccountBalance{Code: "1901", Type: ledger.AccountTypeLiability, Known: true}
	got, ok := classify(bal)
	if !ok || got != ledger.AccountTypeLiability {
		t.Fatalf("expected catalog type to win, got %s ok=%v", got, ok)
	}
}

func TestClassifyCodePrefixFallback(t *testing.T) {
	cases := map[string]ledger.AccountType{
		"1101": ledger.AccountTypeAsset,
		"2101": ledger.AccountTypeLiability,
		"3101": ledger.AccountTypeEquity,
		"4101": ledger.AccountTypeRevenue,
		"5101": ledger.AccountTypeExpense,
		"6101": ledger.AccountTypeExpense,
		"7101": ledger.AccountTypeExpense,
	}
	for code, want := range cases {
		got, ok := classify(AccountBalance{Code: code})
		if !ok || got != want {
			t.Fatalf("classify(%s) = %s ok=%v, want %s", code, got, ok, want)
		}
	}
	if _, ok := classify(AccountBalance{Code: "9901"}); ok {
		t.Fatal("code 9901 must stay unclassified")
	}
}

func TestBucketRoutesUnclassifiedToUncategorized(t *testing.T) {
	balances := []AccountBalance{
		{Code: "1101", Type: ledger.AccountTypeAsset, Debit: 100},
		{Code: "9901", Debit: 10},
	}
	buckets := bucketForBalanceSheet(balances, Options{}.withDefaults())
	if len(buckets.uncategorized) != 1 || buckets.uncategorized[0].Code != "9901" {
		t.Fatalf("expected 9901 in uncategorized, got %+v", buckets.uncategorized)
	}
	if len(buckets.currentAssets) != 1 {
		t.Fatalf("expected 1101 in current assets, got %+v", buckets.currentAssets)
	}
}

func TestCurrentVersusNonCurrentSplit(t *testing.T) {
	balances := []AccountBalance{
		{Code: "1101", Type: ledger.AccountTypeAsset},
		{Code: "1201", Type: ledger.AccountTypeAsset},
		{Code: "2101", Type: ledger.AccountTypeLiability},
		{Code: "2201", Type: ledger.AccountTypeLiability},
	}
	buckets := bucketForBalanceSheet(balances, Options{}.withDefaults())
	if len(buckets.currentAssets) != 1 || buckets.currentAssets[0].Code != "1101" {
		t.Fatalf("current assets: %+v", buckets.currentAssets)
	}
	if len(buckets.nonCurrentAssets) != 1 || buckets.nonCurrentAssets[0].Code != "1201" {
		t.Fatalf("non-current assets: %+v", buckets.nonCurrentAssets)
	}
	if len(buckets.currentLiabilities) != 1 || buckets.currentLiabilities[0].Code != "2101" {
		t.Fatalf("current liabilities: %+v", buckets.currentLiabilities)
	}
	if len(buckets.nonCurrentLiabilities) != 1 || buckets.nonCurrentLiabilities[0].Code != "2201" {
		t.Fatalf("non-current liabilities: %+v", buckets.nonCurrentLiabilities)
	}
}

// A cash account is classified as an asset on the balance sheet and as the
// cash axis for cash flow. The precedence is explicit, not a code-order
// accident.
func TestCashAccountTieBreak(t *testing.T) {
	opts := Options{}.withDefaults()
	if !opts.IsCashAccount("1101") {
		t.Fatal("1101 must be cash-equivalent for cash flow")
	}
	buckets := bucketForBalanceSheet([]AccountBalance{{Code: "1101", Type: ledger.AccountTypeAsset, Debit: 50}}, opts)
	if len(buckets.currentAssets) != 1 {
		t.Fatalf("1101 must stay an asset on the balance sheet, got %+v", buckets)
	}
}
