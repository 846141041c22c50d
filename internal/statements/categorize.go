package statements

import (
	"strings"

	"github.com/meridian-erp/meridian/internal/ledger"
)

const (
	uncategorizedCode  = "UNCATEGORIZED"
	uncategorizedLabel = "Uncategorized"
)

// Activity names a cash flow classification bucket.
type Activity string

const (
	ActivityOperating Activity = "OPERATING"
	ActivityInvesting Activity = "INVESTING"
	ActivityFinancing Activity = "FINANCING"
	ActivityOther     Activity = "OTHER"
)

// activityBySource is the authoritative source-type lookup. Source types
// absent from this table (MANUAL and CASH_BANK among them) land in
// ActivityOther; they are reported, never dropped, so statement totals stay
// traceable to the full entry set.
var activityBySource = map[ledger.SourceType]Activity{
	ledger.SourceSale:          ActivityOperating,
	ledger.SourcePurchase:      ActivityOperating,
	ledger.SourcePayment:       ActivityOperating,
	ledger.SourceAssetPurchase: ActivityInvesting,
	ledger.SourceAssetSale:     ActivityInvesting,
	ledger.SourceLoan:          ActivityFinancing,
	ledger.SourceEquity:        ActivityFinancing,
	ledger.SourceDividend:      ActivityFinancing,
}

// ActivityFor maps a journal source type onto a cash flow activity.
func ActivityFor(source ledger.SourceType) Activity {
	if act, ok := activityBySource[source]; ok {
		return act
	}
	return ActivityOther
}

// classify resolves the statement type for a balance. Catalog type metadata
// is authoritative; the code-prefix heuristic is a documented fallback for
// accounts with missing or unknown type metadata.
func classify(bal AccountBalance) (ledger.AccountType, bool) {
	if bal.Type.Valid() {
		return bal.Type, true
	}
	return ledger.TypeForCode(bal.Code)
}

// hasPrefix reports whether code starts with any of the configured prefixes.
func hasPrefix(code string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(code, p) {
			return true
		}
	}
	return false
}

// IsCashAccount reports whether the code belongs to the cash-equivalent
// family. For cash flow purposes cash-equivalence takes precedence over the
// asset type classification; for the balance sheet the account remains an
// ordinary asset.
func (o Options) IsCashAccount(code string) bool {
	return hasPrefix(code, o.CashAccountPrefixes)
}

// balanceSheetBuckets partitions accumulated balances for the balance sheet.
type balanceSheetBuckets struct {
	currentAssets         []AccountBalance
	nonCurrentAssets      []AccountBalance
	currentLiabilities    []AccountBalance
	nonCurrentLiabilities []AccountBalance
	equity                []AccountBalance
	revenue               []AccountBalance
	expense               []AccountBalance
	uncategorized         []AccountBalance
}

// bucketForBalanceSheet routes every balance into exactly one bucket. Type
// classification wins here even for cash accounts; balances that resolve to
// no type at all land in uncategorized.
func bucketForBalanceSheet(balances []AccountBalance, opts Options) balanceSheetBuckets {
	var b balanceSheetBuckets
	for _, bal := range balances {
		t, ok := classify(bal)
		if !ok {
			b.uncategorized = append(b.uncategorized, bal)
			continue
		}
		switch t {
		case ledger.AccountTypeAsset:
			if hasPrefix(bal.Code, opts.CurrentAssetPrefixes) {
				b.currentAssets = append(b.currentAssets, bal)
			} else {
				b.nonCurrentAssets = append(b.nonCurrentAssets, bal)
			}
		case ledger.AccountTypeLiability:
			if hasPrefix(bal.Code, opts.CurrentLiabilityPrefixes) {
				b.currentLiabilities = append(b.currentLiabilities, bal)
			} else {
				b.nonCurrentLiabilities = append(b.nonCurrentLiabilities, bal)
			}
		case ledger.AccountTypeEquity:
			b.equity = append(b.equity, bal)
		case ledger.AccountTypeRevenue:
			b.revenue = append(b.revenue, bal)
		case ledger.AccountTypeExpense:
			b.expense = append(b.expense, bal)
		default:
			b.uncategorized = append(b.uncategorized, bal)
		}
	}
	return b
}
