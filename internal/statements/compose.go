package statements

import (
	"sort"
	"time"

	"github.com/meridian-erp/meridian/internal/ledger"
)

// LineItem is one account row inside a statement section.
type LineItem struct {
	AccountCode string  `json:"account_code"`
	AccountName string  `json:"account_name"`
	Amount      float64 `json:"amount"`
}

// Section is a named group of line items with a subtotal.
type Section struct {
	Label    string     `json:"label"`
	Items    []LineItem `json:"items"`
	Subtotal float64    `json:"subtotal"`
}

// newSection folds balances into a section, applying the normal-balance sign
// convention so that a healthy balance reads positive in its own section.
func newSection(label string, balances []AccountBalance) Section {
	s := Section{Label: label}
	for _, bal := range balances {
		amount := bal.Normal()
		s.Items = append(s.Items, LineItem{AccountCode: bal.Code, AccountName: bal.Name, Amount: amount})
		s.Subtotal += amount
	}
	return s
}

// BalanceSheet is the structured as-of-date statement.
type BalanceSheet struct {
	AsOf                      time.Time        `json:"as_of"`
	CurrentAssets             Section          `json:"current_assets"`
	NonCurrentAssets          Section          `json:"non_current_assets"`
	TotalAssets               float64          `json:"total_assets"`
	CurrentLiabilities        Section          `json:"current_liabilities"`
	NonCurrentLiabilities     Section          `json:"non_current_liabilities"`
	TotalLiabilities          float64          `json:"total_liabilities"`
	Equity                    Section          `json:"equity"`
	TotalEquity               float64          `json:"total_equity"`
	Uncategorized             Section          `json:"uncategorized"`
	TotalLiabilitiesAndEquity float64          `json:"total_liabilities_and_equity"`
	Difference                float64          `json:"difference"`
	Validation                ValidationResult `json:"validation"`
	GeneratedAt               time.Time        `json:"generated_at"`
}

// composeBalanceSheet assembles the balance sheet from bucketed balances.
// While revenue/expense accounts still carry period balances the running net
// income is folded into equity so the identity holds mid-period; once the
// period is closed those accounts are zero and retained earnings already
// carries the result.
func composeBalanceSheet(asOf time.Time, buckets balanceSheetBuckets, opts Options) BalanceSheet {
	bs := BalanceSheet{
		AsOf:                  asOf,
		CurrentAssets:         newSection("Current Assets", buckets.currentAssets),
		NonCurrentAssets:      newSection("Non-Current Assets", buckets.nonCurrentAssets),
		CurrentLiabilities:    newSection("Current Liabilities", buckets.currentLiabilities),
		NonCurrentLiabilities: newSection("Non-Current Liabilities", buckets.nonCurrentLiabilities),
		Equity:                newSection("Equity", buckets.equity),
		Uncategorized:         newSection(uncategorizedLabel, buckets.uncategorized),
		GeneratedAt:           opts.Now(),
	}

	netIncome := 0.0
	for _, bal := range buckets.revenue {
		netIncome += bal.Normal()
	}
	for _, bal := range buckets.expense {
		netIncome -= bal.Normal()
	}
	if netIncome != 0 {
		bs.Equity.Items = append(bs.Equity.Items, LineItem{
			AccountCode: "NET_INCOME",
			AccountName: "Current Period Earnings",
			Amount:      netIncome,
		})
		bs.Equity.Subtotal += netIncome
	}

	bs.TotalAssets = bs.CurrentAssets.Subtotal + bs.NonCurrentAssets.Subtotal
	bs.TotalLiabilities = bs.CurrentLiabilities.Subtotal + bs.NonCurrentLiabilities.Subtotal
	bs.TotalEquity = bs.Equity.Subtotal
	bs.TotalLiabilitiesAndEquity = bs.TotalLiabilities + bs.TotalEquity
	bs.Difference = bs.TotalAssets - bs.TotalLiabilitiesAndEquity
	bs.Validation = ValidateEquation(bs.TotalAssets, bs.TotalLiabilities, bs.TotalEquity, opts.Tolerance)
	return bs
}

// TrialBalanceRow keeps the raw, un-netted debit and credit columns for one
// account so an auditor can trace the ledger shape.
type TrialBalanceRow struct {
	AccountCode string             `json:"account_code"`
	AccountName string             `json:"account_name"`
	AccountType ledger.AccountType `json:"account_type"`
	Debit       float64            `json:"debit"`
	Credit      float64            `json:"credit"`
}

// TrialBalance lists every account's accumulated debit and credit totals.
type TrialBalance struct {
	AsOf         time.Time         `json:"as_of"`
	Rows         []TrialBalanceRow `json:"rows"`
	TotalDebits  float64           `json:"total_debits"`
	TotalCredits float64           `json:"total_credits"`
	Validation   ValidationResult  `json:"validation"`
	GeneratedAt  time.Time         `json:"generated_at"`
}

func composeTrialBalance(asOf time.Time, balances []AccountBalance, opts Options) TrialBalance {
	tb := TrialBalance{AsOf: asOf, GeneratedAt: opts.Now()}
	for _, bal := range balances {
		tb.Rows = append(tb.Rows, TrialBalanceRow{
			AccountCode: bal.Code,
			AccountName: bal.Name,
			AccountType: bal.Type,
			Debit:       bal.Debit,
			Credit:      bal.Credit,
		})
		tb.TotalDebits += bal.Debit
		tb.TotalCredits += bal.Credit
	}
	tb.Validation = ValidateDebitsCredits(tb.TotalDebits, tb.TotalCredits, opts.Tolerance)
	return tb
}

// ProfitLoss reports revenue and expense sections with net income.
type ProfitLoss struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Revenue     Section   `json:"revenue"`
	Expense     Section   `json:"expense"`
	NetIncome   float64   `json:"net_income"`
	GeneratedAt time.Time `json:"generated_at"`
}

func composeProfitLoss(start, end time.Time, buckets balanceSheetBuckets, opts Options) ProfitLoss {
	pl := ProfitLoss{
		Start:       start,
		End:         end,
		Revenue:     newSection("Revenue", buckets.revenue),
		Expense:     newSection("Expenses", buckets.expense),
		GeneratedAt: opts.Now(),
	}
	pl.NetIncome = pl.Revenue.Subtotal - pl.Expense.Subtotal
	return pl
}

// CashFlowItem records the cash effect of one journal entry.
type CashFlowItem struct {
	EntryNumber string            `json:"entry_number"`
	Date        time.Time         `json:"date"`
	Description string            `json:"description"`
	Source      ledger.SourceType `json:"source"`
	Amount      float64           `json:"amount"`
}

// CashFlowSection groups entry cash effects for one activity.
type CashFlowSection struct {
	Label string         `json:"label"`
	Items []CashFlowItem `json:"items"`
	Total float64        `json:"total"`
}

// CashFlow is the period cash movement statement. Activities are classified
// by journal source type; unmapped sources are reported under Other.
type CashFlow struct {
	Start           time.Time       `json:"start"`
	End             time.Time       `json:"end"`
	Operating       CashFlowSection `json:"operating_activities"`
	Investing       CashFlowSection `json:"investing_activities"`
	Financing       CashFlowSection `json:"financing_activities"`
	Other           CashFlowSection `json:"other_activities"`
	NetCashFlow     float64         `json:"net_cash_flow"`
	CashAtBeginning float64         `json:"cash_at_beginning"`
	CashAtEnd       float64         `json:"cash_at_end"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

// cashDelta returns the movement an entry causes on cash-equivalent
// accounts. Entries that never touch a cash account yield zero and stay off
// the statement.
func cashDelta(entry ledger.JournalEntry, opts Options) float64 {
	if len(entry.Lines) == 0 {
		if opts.IsCashAccount(entry.AccountCode) {
			return entry.TotalDebit - entry.TotalCredit
		}
		return 0
	}
	delta := 0.0
	for _, line := range entry.Lines {
		if opts.IsCashAccount(line.AccountCode) {
			delta += line.Debit - line.Credit
		}
	}
	return delta
}

func composeCashFlow(start, end time.Time, entries []ledger.JournalEntry, opening, closing float64, opts Options) CashFlow {
	cf := CashFlow{
		Start:           start,
		End:             end,
		Operating:       CashFlowSection{Label: "Operating Activities"},
		Investing:       CashFlowSection{Label: "Investing Activities"},
		Financing:       CashFlowSection{Label: "Financing Activities"},
		Other:           CashFlowSection{Label: "Other Activities"},
		CashAtBeginning: opening,
		CashAtEnd:       closing,
		GeneratedAt:     opts.Now(),
	}
	for _, entry := range entries {
		delta := cashDelta(entry, opts)
		if delta == 0 {
			continue
		}
		item := CashFlowItem{
			EntryNumber: entry.Number,
			Date:        entry.Date,
			Description: entry.Description,
			Source:      entry.Source,
			Amount:      delta,
		}
		var section *CashFlowSection
		switch ActivityFor(entry.Source) {
		case ActivityOperating:
			section = &cf.Operating
		case ActivityInvesting:
			section = &cf.Investing
		case ActivityFinancing:
			section = &cf.Financing
		default:
			section = &cf.Other
		}
		section.Items = append(section.Items, item)
		section.Total += delta
	}
	cf.NetCashFlow = cf.Operating.Total + cf.Investing.Total + cf.Financing.Total + cf.Other.Total
	return cf
}

// LedgerRow is one chronological movement in a general ledger view.
type LedgerRow struct {
	Date        time.Time `json:"date"`
	EntryNumber string    `json:"entry_number"`
	Description string    `json:"description"`
	Debit       float64   `json:"debit"`
	Credit      float64   `json:"credit"`
	Balance     float64   `json:"balance"`
}

// Ledger is the running-balance view of a single account.
type Ledger struct {
	AccountCode    string      `json:"account_code"`
	AccountName    string      `json:"account_name"`
	OpeningBalance float64     `json:"opening_balance"`
	Rows           []LedgerRow `json:"rows"`
	TotalDebits    float64     `json:"total_debits"`
	TotalCredits   float64     `json:"total_credits"`
	EndingBalance  float64     `json:"ending_balance"`
	GeneratedAt    time.Time   `json:"generated_at"`
}

// composeLedger emits chronologically ordered rows for one account and folds
// the running balance left to right: balance[i] = balance[i-1] + debit[i] -
// credit[i], seeded by the opening balance.
func composeLedger(accountCode, accountName string, opening float64, entries []ledger.JournalEntry, opts Options) Ledger {
	type movement struct {
		date        time.Time
		number      string
		description string
		debit       float64
		credit      float64
		seq         int64
	}
	var moves []movement
	for _, entry := range entries {
		if len(entry.Lines) == 0 {
			if entry.AccountCode == accountCode {
				moves = append(moves, movement{
					date:        entry.Date,
					number:      entry.Number,
					description: entry.Description,
					debit:       entry.TotalDebit,
					credit:      entry.TotalCredit,
					seq:         entry.ID,
				})
			}
			continue
		}
		for _, line := range entry.Lines {
			if line.AccountCode != accountCode {
				continue
			}
			description := line.Description
			if description == "" {
				description = entry.Description
			}
			moves = append(moves, movement{
				date:        entry.Date,
				number:      entry.Number,
				description: description,
				debit:       line.Debit,
				credit:      line.Credit,
				seq:         entry.ID,
			})
		}
	}
	sort.SliceStable(moves, func(i, j int) bool {
		if moves[i].date.Equal(moves[j].date) {
			return moves[i].seq < moves[j].seq
		}
		return moves[i].date.Before(moves[j].date)
	})

	lg := Ledger{
		AccountCode:    accountCode,
		AccountName:    accountName,
		OpeningBalance: opening,
		GeneratedAt:    opts.Now(),
	}
	running := opening
	for _, m := range moves {
		running += m.debit - m.credit
		lg.Rows = append(lg.Rows, LedgerRow{
			Date:        m.date,
			EntryNumber: m.number,
			Description: m.description,
			Debit:       m.debit,
			Credit:      m.credit,
			Balance:     running,
		})
		lg.TotalDebits += m.debit
		lg.TotalCredits += m.credit
	}
	lg.EndingBalance = running
	return lg
}
