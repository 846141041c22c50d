package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLedgerIntegrity verifies the accounting identities across the
	// ledger and reports violations.
	TaskLedgerIntegrity = "ledger:integrity"
	// TaskReportCacheBump invalidates the derived statement cache.
	TaskReportCacheBump = "reports:cache_bump"
)

// LedgerIntegrityPayload scopes an integrity run.
type LedgerIntegrityPayload struct {
	// AsOf bounds the check; empty means today.
	AsOf string `json:"as_of,omitempty"`
}

// NewLedgerIntegrityTask constructs an Asynq task for the integrity check.
func NewLedgerIntegrityTask(payload LedgerIntegrityPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerIntegrity, data), nil
}

// NewReportCacheBumpTask constructs an Asynq task that bumps the report
// cache version.
func NewReportCacheBumpTask() *asynq.Task {
	return asynq.NewTask(TaskReportCacheBump, nil)
}

// ParseAsOf resolves the payload date, defaulting to the current UTC day.
func (p LedgerIntegrityPayload) ParseAsOf(now time.Time) (time.Time, error) {
	if p.AsOf == "" {
		return now.UTC().Truncate(24 * time.Hour), nil
	}
	return time.Parse("2006-01-02", p.AsOf)
}
