package statements

import (
	"sort"

	"github.com/meridian-erp/meridian/internal/ledger"
)

// AccountBalance aggregates the debit and credit totals posted against one
// account code across a derivation run. Derived fresh per run, never shared.
type AccountBalance struct {
	Code   string             `json:"code"`
	Name   string             `json:"name"`
	Type   ledger.AccountType `json:"type"`
	Known  bool               `json:"known"`
	Debit  float64            `json:"debit"`
	Credit float64            `json:"credit"`
}

// Net returns debit minus credit, regardless of normal-balance convention.
func (b AccountBalance) Net() float64 {
	return b.Debit - b.Credit
}

// Normal returns the balance signed by the account type's convention:
// positive means a debit-normal asset/expense balance or a credit-normal
// liability/equity/revenue balance.
func (b AccountBalance) Normal() float64 {
	if b.Type.DebitNormal() {
		return b.Debit - b.Credit
	}
	return b.Credit - b.Debit
}

// Accumulate walks the entry set and sums debit/credit per account code.
// Entries with lines accumulate line by line; zero-line entries fall back to
// the entry-level account and totals. Codes absent from the catalog are kept
// with Known=false so the categorizer can route them to Uncategorized
// instead of dropping data. Pure function of its inputs.
func Accumulate(set ledger.EntrySet, catalog *ledger.Catalog) map[string]AccountBalance {
	balances := make(map[string]AccountBalance)

	add := func(code, fallbackName string, debit, credit float64) {
		if code == "" {
			code = uncategorizedCode
		}
		bal, ok := balances[code]
		if !ok {
			bal = AccountBalance{Code: code}
			if acc, found := catalog.Lookup(code); found {
				bal.Name = acc.Name
				bal.Type = acc.Type
				bal.Known = true
			} else {
				bal.Name = fallbackName
				if t, inferred := ledger.TypeForCode(code); inferred {
					bal.Type = t
				}
			}
		}
		bal.Debit += debit
		bal.Credit += credit
		balances[code] = bal
	}

	for _, entry := range set.Entries {
		if len(entry.Lines) == 0 {
			add(entry.AccountCode, entry.Description, entry.TotalDebit, entry.TotalCredit)
			continue
		}
		for _, line := range entry.Lines {
			add(line.AccountCode, line.Description, line.Debit, line.Credit)
		}
	}
	return balances
}

// sortedBalances flattens the map into deterministic code order.
func sortedBalances(balances map[string]AccountBalance) []AccountBalance {
	out := make([]AccountBalance, 0, len(balances))
	for _, bal := range balances {
		out = append(out, bal)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
