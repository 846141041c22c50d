// Package reports serves derived financial statements, caching the results
// in Redis keyed by the current ledger version.
package reports

import (
	"context"
	"log/slog"
	"time"

	"github.com/meridian-erp/meridian/internal/ledger"
	"github.com/meridian-erp/meridian/internal/statements"
)

// Service coordinates snapshot loading, derivation and the cache layer.
type Service struct {
	repo   ledger.Repository
	cache  *Cache
	opts   statements.Options
	logger *slog.Logger
}

// NewService wires a ledger repository with a Cache helper.
func NewService(repo ledger.Repository, cache *Cache, opts statements.Options, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, opts: opts, logger: logger}
}

// snapshot loads the catalog and entry window in one consistent read.
func (s *Service) snapshot(ctx context.Context, start, end time.Time) (*ledger.Catalog, ledger.EntrySet, error) {
	return s.repo.Snapshot(ctx, start, end)
}

// BalanceSheet returns the balance sheet as of the given date.
func (s *Service) BalanceSheet(ctx context.Context, asOf time.Time) (statements.BalanceSheet, error) {
	var out statements.BalanceSheet
	key, err := s.cache.BuildKey(ctx, keyAsOf("balance_sheet", asOf)...)
	if err != nil {
		return out, err
	}
	err = s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
		catalog, set, err := s.snapshot(ctx, time.Time{}, asOf)
		if err != nil {
			return nil, err
		}
		return statements.DeriveBalanceSheet(asOf, set, catalog, s.opts)
	})
	return out, err
}

// TrialBalance returns the trial balance as of the given date.
func (s *Service) TrialBalance(ctx context.Context, asOf time.Time) (statements.TrialBalance, error) {
	var out statements.TrialBalance
	key, err := s.cache.BuildKey(ctx, keyAsOf("trial_balance", asOf)...)
	if err != nil {
		return out, err
	}
	err = s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
		catalog, set, err := s.snapshot(ctx, time.Time{}, asOf)
		if err != nil {
			return nil, err
		}
		return statements.DeriveTrialBalance(asOf, set, catalog, s.opts)
	})
	return out, err
}

// ProfitLoss returns the income statement for [start, end].
func (s *Service) ProfitLoss(ctx context.Context, start, end time.Time) (statements.ProfitLoss, error) {
	var out statements.ProfitLoss
	key, err := s.cache.BuildKey(ctx, keyPeriod("profit_loss", start, end)...)
	if err != nil {
		return out, err
	}
	err = s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
		catalog, set, err := s.snapshot(ctx, start, end)
		if err != nil {
			return nil, err
		}
		return statements.DeriveProfitLoss(start, end, set, catalog, s.opts)
	})
	return out, err
}

// CashFlow returns the cash flow statement for [start, end]. The snapshot is
// loaded from the beginning of the ledger so the opening cash balance can be
// reconstructed.
func (s *Service) CashFlow(ctx context.Context, start, end time.Time) (statements.CashFlow, error) {
	var out statements.CashFlow
	key, err := s.cache.BuildKey(ctx, keyPeriod("cash_flow", start, end)...)
	if err != nil {
		return out, err
	}
	err = s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
		catalog, set, err := s.snapshot(ctx, time.Time{}, end)
		if err != nil {
			return nil, err
		}
		return statements.DeriveCashFlow(start, end, set, catalog, s.opts)
	})
	return out, err
}

// GeneralLedger returns the running-balance view of one account. The opening
// balance is derived from all effective movement before the window.
func (s *Service) GeneralLedger(ctx context.Context, code string, start, end time.Time) (statements.Ledger, error) {
	var out statements.Ledger
	key, err := s.cache.BuildKey(ctx, keyLedger(code, start, end)...)
	if err != nil {
		return out, err
	}
	err = s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
		if _, err := s.repo.Account(ctx, code); err != nil {
			return nil, err
		}
		catalog, set, err := s.snapshot(ctx, time.Time{}, end)
		if err != nil {
			return nil, err
		}
		opening := openingBalance(code, set, start)
		window := ledger.EntrySet{Start: start, End: end}
		for _, entry := range set.Entries {
			if entry.Date.Before(start) {
				continue
			}
			window.Entries = append(window.Entries, entry)
		}
		if len(window.Entries) == 0 {
			return emptyLedger(code, catalog, opening, s.opts), nil
		}
		return statements.DeriveLedger(code, opening, window, catalog, s.opts)
	})
	return out, err
}

// emptyLedger reports an account with no movement inside the window; the
// opening balance carries through unchanged.
func emptyLedger(code string, catalog *ledger.Catalog, opening float64, opts statements.Options) statements.Ledger {
	name := code
	if acc, ok := catalog.Lookup(code); ok {
		name = acc.Name
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return statements.Ledger{
		AccountCode:    code,
		AccountName:    name,
		OpeningBalance: opening,
		EndingBalance:  opening,
		GeneratedAt:    now(),
	}
}

// openingBalance folds debit-credit movement for one account across entries
// dated before start.
func openingBalance(code string, set ledger.EntrySet, start time.Time) float64 {
	opening := 0.0
	for _, entry := range set.Entries {
		if !entry.Date.Before(start) || !entry.EffectiveAt(set.End) {
			continue
		}
		if len(entry.Lines) == 0 {
			if entry.AccountCode == code {
				opening += entry.TotalDebit - entry.TotalCredit
			}
			continue
		}
		for _, line := range entry.Lines {
			if line.AccountCode == code {
				opening += line.Debit - line.Credit
			}
		}
	}
	return opening
}

// Invalidate bumps the cache version after ledger activity.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.logger != nil {
		s.logger.Debug("report cache invalidated")
	}
	return s.cache.Bump(ctx)
}
