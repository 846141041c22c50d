package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"

	"github.com/meridian-erp/meridian/internal/ledger"
	"github.com/meridian-erp/meridian/internal/statements"

	_ "github.com/meridian-erp/meridian/testing"
)

type stubRepo struct {
	catalog *ledger.Catalog
	set     ledger.EntrySet
	err     error
}

func (s *stubRepo) Account(ctx context.Context, code string) (ledger.Account, error) {
	acc, ok := s.catalog.Lookup(code)
	if !ok {
		return ledger.Account{}, ledger.ErrAccountNotFound
	}
	return acc, nil
}

func (s *stubRepo) Snapshot(ctx context.Context, start, end time.Time) (*ledger.Catalog, ledger.EntrySet, error) {
	if s.err != nil {
		return nil, ledger.EntrySet{}, s.err
	}
	return s.catalog, s.set, nil
}

func integrityFixture(unbalanced bool) *stubRepo {
	catalog := ledger.NewCatalog([]ledger.Account{
		{Code: "1101", Name: "Cash", Type: ledger.AccountTypeAsset},
		{Code: "3101", Name: "Capital", Type: ledger.AccountTypeEquity},
	})
	credit := 1000.0
	if unbalanced {
		credit = 900
	}
	entry := ledger.JournalEntry{
		ID: 1, Number: "JE-0001",
		Date:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Source:      ledger.SourceEquity,
		Status:      ledger.EntryStatusPosted,
		TotalDebit:  1000,
		TotalCredit: credit,
		Lines: []ledger.JournalLine{
			{AccountCode: "1101", Debit: 1000},
			{AccountCode: "3101", Credit: credit},
		},
	}
	return &stubRepo{catalog: catalog, set: ledger.EntrySet{Entries: []ledger.JournalEntry{entry}}}
}

func integrityTask(t *testing.T, asOf string) *asynq.Task {
	t.Helper()
	task, err := NewLedgerIntegrityTask(LedgerIntegrityPayload{AsOf: asOf})
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	return task
}

func TestLedgerIntegrityHealthyLedger(t *testing.T) {
	job := NewLedgerIntegrityJob(integrityFixture(false), statements.Options{}, nil, nil)
	if err := job.Handle(context.Background(), integrityTask(t, "2025-03-31")); err != nil {
		t.Fatalf("handle: %v", err)
	}
}

func TestLedgerIntegrityToleratesViolations(t *testing.T) {
	// Violations are reported via logs and metrics; the job itself still
	// succeeds so the scheduler does not retry a data problem.
	job := NewLedgerIntegrityJob(integrityFixture(true), statements.Options{}, nil, nil)
	if err := job.Handle(context.Background(), integrityTask(t, "2025-03-31")); err != nil {
		t.Fatalf("handle: %v", err)
	}
}

func TestLedgerIntegrityPropagatesRepoFailure(t *testing.T) {
	repo := integrityFixture(false)
	repo.err = errors.New("connection refused")
	job := NewLedgerIntegrityJob(repo, statements.Options{}, nil, nil)
	if err := job.Handle(context.Background(), integrityTask(t, "2025-03-31")); err == nil {
		t.Fatal("expected error when snapshot load fails")
	}
}

func TestLedgerIntegritySkipsBadPayload(t *testing.T) {
	job := NewLedgerIntegrityJob(integrityFixture(false), statements.Options{}, nil, nil)
	task := asynq.NewTask(TaskLedgerIntegrity, []byte("{not json"))
	if err := job.Handle(context.Background(), task); !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("err = %v, want SkipRetry", err)
	}
}

type stubInvalidator struct {
	calls int
	err   error
}

func (s *stubInvalidator) Invalidate(ctx context.Context) error {
	s.calls++
	return s.err
}

func TestReportCacheBump(t *testing.T) {
	inv := &stubInvalidator{}
	job := NewReportCacheBumpJob(inv, nil)
	if err := job.Handle(context.Background(), NewReportCacheBumpTask()); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if inv.calls != 1 {
		t.Fatalf("invalidate calls = %d, want 1", inv.calls)
	}

	inv.err = errors.New("redis down")
	if err := job.Handle(context.Background(), NewReportCacheBumpTask()); err == nil {
		t.Fatal("expected error to propagate for retry")
	}
}
