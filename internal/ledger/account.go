package ledger

import (
	"sort"
	"strings"
)

// AccountType enumerates CoA categories.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// DebitNormal reports whether the type's natural positive balance is a net
// debit. Assets and expenses are debit-normal; liabilities, equity, and
// revenue are credit-normal.
func (t AccountType) DebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// Valid reports whether t is one of the five known categories.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// TypeForCode resolves an account type from the leading digit of its code.
// This is the fallback used when catalog metadata is missing; type metadata
// from the catalog always wins when present.
func TypeForCode(code string) (AccountType, bool) {
	switch {
	case strings.HasPrefix(code, "1"):
		return AccountTypeAsset, true
	case strings.HasPrefix(code, "2"):
		return AccountTypeLiability, true
	case strings.HasPrefix(code, "3"):
		return AccountTypeEquity, true
	case strings.HasPrefix(code, "4"):
		return AccountTypeRevenue, true
	case strings.HasPrefix(code, "5"), strings.HasPrefix(code, "6"), strings.HasPrefix(code, "7"):
		return AccountTypeExpense, true
	}
	return "", false
}

// Account models a chart of accounts node. Header accounts are aggregation
// nodes and are never posted to directly.
type Account struct {
	ID       int64
	Code     string
	Name     string
	Type     AccountType
	IsHeader bool
}

// Catalog is an immutable lookup of chart-of-accounts entries keyed by code.
type Catalog struct {
	byCode map[string]Account
	codes  []string
}

// NewCatalog builds a catalog from a slice of accounts. Later duplicates of
// the same code win, mirroring the dedup-by-code behaviour of the upstream
// ledger service.
func NewCatalog(accounts []Account) *Catalog {
	byCode := make(map[string]Account, len(accounts))
	for _, a := range accounts {
		byCode[a.Code] = a
	}
	codes := make([]string, 0, len(byCode))
	for code := range byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return &Catalog{byCode: byCode, codes: codes}
}

// Lookup returns the account registered under code.
func (c *Catalog) Lookup(code string) (Account, bool) {
	if c == nil {
		return Account{}, false
	}
	a, ok := c.byCode[code]
	return a, ok
}

// Len reports the number of catalog entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.byCode)
}

// Accounts returns the catalog entries ordered by code.
func (c *Catalog) Accounts() []Account {
	if c == nil {
		return nil
	}
	out := make([]Account, 0, len(c.codes))
	for _, code := range c.codes {
		out = append(out, c.byCode[code])
	}
	return out
}
