package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/meridian-erp/meridian/internal/jobs"
	"github.com/meridian-erp/meridian/internal/ledger"
	"github.com/meridian-erp/meridian/internal/statements"
)

// LedgerIntegrityJob re-derives the trial balance and the balance sheet from
// the raw journal and flags every identity violation it finds.
type LedgerIntegrityJob struct {
	Repo    ledger.Repository
	Opts    statements.Options
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewLedgerIntegrityJob initialises the integrity check handler.
func NewLedgerIntegrityJob(repo ledger.Repository, opts statements.Options, logger *slog.Logger, metrics *jobmetrics.Metrics) *LedgerIntegrityJob {
	return &LedgerIntegrityJob{
		Repo:    repo,
		Opts:    opts,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the integrity check.
func (j *LedgerIntegrityJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Repo == nil {
		return errors.New("ledger integrity: handler not configured")
	}
	var payload LedgerIntegrityPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	asOf, err := payload.ParseAsOf(j.now())
	if err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskLedgerIntegrity)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("as_of", asOf.Format("2006-01-02")))
	logger.Info("starting ledger integrity check")

	catalog, set, err := j.Repo.Snapshot(ctx, time.Time{}, asOf)
	if err != nil {
		resultErr = err
		logger.Error("load snapshot", slog.Any("error", err))
		return resultErr
	}

	violations := 0

	for _, entry := range set.Entries {
		if entry.Balanced(j.tolerance()) {
			continue
		}
		violations++
		logger.Warn("unbalanced journal entry",
			slog.Int64("entry_id", entry.ID),
			slog.String("number", entry.Number),
			slog.Float64("debit", entry.TotalDebit),
			slog.Float64("credit", entry.TotalCredit),
		)
		j.metrics().AddImbalances("entry", 1)
	}

	tb, err := statements.DeriveTrialBalance(asOf, set, catalog, j.Opts)
	if err != nil {
		resultErr = err
		logger.Error("derive trial balance", slog.Any("error", err))
		return resultErr
	}
	if !tb.Validation.IsBalanced {
		violations++
		logger.Warn("trial balance out of balance",
			slog.Float64("difference", tb.Validation.Difference),
			slog.String("failure", string(tb.Validation.Failure)),
		)
		j.metrics().AddImbalances("trial_balance", 1)
	}

	bs, err := statements.DeriveBalanceSheet(asOf, set, catalog, j.Opts)
	if err != nil {
		resultErr = err
		logger.Error("derive balance sheet", slog.Any("error", err))
		return resultErr
	}
	if !bs.Validation.IsBalanced {
		violations++
		logger.Warn("balance sheet identity broken",
			slog.Float64("difference", bs.Validation.Difference),
			slog.String("failure", string(bs.Validation.Failure)),
		)
		j.metrics().AddImbalances("balance_sheet", 1)
	}
	if len(bs.Uncategorized.Items) > 0 {
		logger.Warn("uncategorized balances present",
			slog.Int("accounts", len(bs.Uncategorized.Items)),
			slog.Float64("amount", bs.Uncategorized.Subtotal),
		)
	}

	logger.Info("completed ledger integrity check",
		slog.Int("entries", len(set.Entries)),
		slog.Int("violations", violations),
	)
	return nil
}

func (j *LedgerIntegrityJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}

func (j *LedgerIntegrityJob) tolerance() float64 {
	if j.Opts.Tolerance > 0 {
		return j.Opts.Tolerance
	}
	return statements.DefaultTolerance
}

func (j *LedgerIntegrityJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *LedgerIntegrityJob) metrics() *jobmetrics.Metrics {
	return j.Metrics
}

// Invalidator bumps the derived statement cache.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// ReportCacheBumpJob invalidates cached statements after ledger writes.
type ReportCacheBumpJob struct {
	Reports Invalidator
	Logger  *slog.Logger
}

// NewReportCacheBumpJob initialises the cache bump handler.
func NewReportCacheBumpJob(reports Invalidator, logger *slog.Logger) *ReportCacheBumpJob {
	return &ReportCacheBumpJob{Reports: reports, Logger: logger}
}

// Handle bumps the cache version.
func (j *ReportCacheBumpJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("cache bump: handler not configured")
	}
	if err := j.Reports.Invalidate(ctx); err != nil {
		if j.Logger != nil {
			j.Logger.Error("bump report cache", slog.Any("error", err))
		}
		return err
	}
	if j.Logger != nil {
		j.Logger.Info("report cache bumped")
	}
	return nil
}
