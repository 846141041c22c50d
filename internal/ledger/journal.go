package ledger

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// EntryStatus enumerates journal lifecycle values.
type EntryStatus string

const (
	EntryStatusDraft    EntryStatus = "DRAFT"
	EntryStatusPosted   EntryStatus = "POSTED"
	EntryStatusReversed EntryStatus = "REVERSED"
)

// SourceType identifies the upstream document that produced a journal entry.
type SourceType string

const (
	SourceSale          SourceType = "SALE"
	SourcePurchase      SourceType = "PURCHASE"
	SourcePayment       SourceType = "PAYMENT"
	SourceManual        SourceType = "MANUAL"
	SourceCashBank      SourceType = "CASH_BANK"
	SourceAssetPurchase SourceType = "ASSET_PURCHASE"
	SourceAssetSale     SourceType = "ASSET_SALE"
	SourceLoan          SourceType = "LOAN"
	SourceEquity        SourceType = "EQUITY"
	SourceDividend      SourceType = "DIVIDEND"
)

// JournalLine stores a debit or credit amount for an account. Convention says
// at most one side is non-zero, but lines with both populated are tolerated
// and netted downstream.
type JournalLine struct {
	ID          int64
	AccountID   int64
	AccountCode string
	Description string
	Debit       float64
	Credit      float64
}

// JournalEntry captures posting metadata for one double-entry transaction.
// Entries may arrive without lines (legacy aggregate form); AccountCode then
// names the account the entry-level totals were posted against.
type JournalEntry struct {
	ID          int64
	Number      string
	Date        time.Time
	Description string
	Source      SourceType
	SourceID    uuid.UUID
	Status      EntryStatus
	AccountCode string
	TotalDebit  float64
	TotalCredit float64
	ReversedAt  *time.Time
	Lines       []JournalLine
}

// Balanced reports whether entry-level debits equal credits within tolerance.
func (e JournalEntry) Balanced(tolerance float64) bool {
	return math.Abs(e.TotalDebit-e.TotalCredit) <= tolerance
}

// EffectiveAt reports whether the entry contributes to balances as of the
// given date. Draft entries never contribute; a reversed entry stops
// contributing once its reversal date has passed.
func (e JournalEntry) EffectiveAt(asOf time.Time) bool {
	switch e.Status {
	case EntryStatusPosted:
		return !e.Date.After(asOf)
	case EntryStatusReversed:
		if e.Date.After(asOf) {
			return false
		}
		return e.ReversedAt != nil && e.ReversedAt.After(asOf)
	default:
		return false
	}
}

// EntrySet is a read-only snapshot of journal entries for one derivation run,
// already filtered by the upstream ledger service to a date window and
// status. The engine still applies EffectiveAt defensively.
type EntrySet struct {
	Entries []JournalEntry
	Start   time.Time
	End     time.Time
}

// Empty reports whether the snapshot holds no entries.
func (s EntrySet) Empty() bool {
	return len(s.Entries) == 0
}
