package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-erp/meridian/internal/platform/db"
)

// Repository reads catalog and journal snapshots from the ledger store. It is
// the only place the derivation pipeline touches the database; everything it
// returns is treated as an immutable snapshot.
type Repository interface {
	Account(ctx context.Context, code string) (Account, error)
	// Snapshot loads the catalog and the entry window inside one read-only
	// transaction so both reflect the same ledger state.
	Snapshot(ctx context.Context, start, end time.Time) (*Catalog, EntrySet, error)
}

// querier is satisfied by both pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository wraps a pgx pool.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) Snapshot(ctx context.Context, start, end time.Time) (*Catalog, EntrySet, error) {
	var (
		catalog *Catalog
		set     EntrySet
	)
	err := db.WithSnapshot(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		if catalog, err = queryCatalog(ctx, tx); err != nil {
			return err
		}
		set, err = queryEntries(ctx, tx, start, end)
		return err
	})
	if err != nil {
		return nil, EntrySet{}, err
	}
	return catalog, set, nil
}

func queryCatalog(ctx context.Context, q querier) (*Catalog, error) {
	rows, err := q.Query(ctx, `SELECT id, code, name, UPPER(type), COALESCE(is_header, false)
FROM accounts WHERE is_active AND deleted_at IS NULL ORDER BY code`)
	if err != nil {
		return nil, wrapPgErr("ledger: list accounts", err)
	}
	defer rows.Close()
	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.Type, &a.IsHeader); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, ErrCatalogEmpty
	}
	return NewCatalog(accounts), nil
}

func (r *repository) Account(ctx context.Context, code string) (Account, error) {
	var a Account
	err := r.db.QueryRow(ctx, `SELECT id, code, name, UPPER(type), COALESCE(is_header, false)
FROM accounts WHERE code=$1 AND is_active AND deleted_at IS NULL`, code).
		Scan(&a.ID, &a.Code, &a.Name, &a.Type, &a.IsHeader)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, wrapPgErr("ledger: get account", err)
	}
	return a, nil
}

// queryEntries loads POSTED and REVERSED journal entries dated within
// [start, end] together with their lines. Reversed entries are included so
// the engine can decide their as-of effectivity itself.
func queryEntries(ctx context.Context, q querier, start, end time.Time) (EntrySet, error) {
	rows, err := q.Query(ctx, `SELECT id, entry_number, entry_date, COALESCE(description, ''),
COALESCE(source_type, 'MANUAL'), source_id, status, COALESCE(account_code, ''),
COALESCE(total_debit, 0), COALESCE(total_credit, 0), reversed_at
FROM journal_entries
WHERE status IN ('POSTED','REVERSED') AND entry_date >= $1 AND entry_date <= $2 AND deleted_at IS NULL
ORDER BY entry_date, id`, start, end)
	if err != nil {
		return EntrySet{}, wrapPgErr("ledger: list journal entries", err)
	}
	defer rows.Close()

	var entries []JournalEntry
	index := make(map[int64]int)
	var ids []int64
	for rows.Next() {
		var e JournalEntry
		err := rows.Scan(&e.ID, &e.Number, &e.Date, &e.Description, &e.Source, &e.SourceID,
			&e.Status, &e.AccountCode, &e.TotalDebit, &e.TotalCredit, &e.ReversedAt)
		if err != nil {
			return EntrySet{}, err
		}
		index[e.ID] = len(entries)
		ids = append(ids, e.ID)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return EntrySet{}, err
	}

	if len(ids) > 0 {
		lineRows, err := q.Query(ctx, `SELECT jl.id, jl.journal_id, jl.account_id, a.code,
COALESCE(jl.description, ''), COALESCE(jl.debit_amount, 0), COALESCE(jl.credit_amount, 0)
FROM journal_lines jl
JOIN accounts a ON a.id = jl.account_id
WHERE jl.journal_id = ANY($1)
ORDER BY jl.journal_id, jl.id`, ids)
		if err != nil {
			return EntrySet{}, wrapPgErr("ledger: list journal lines", err)
		}
		defer lineRows.Close()
		for lineRows.Next() {
			var journalID int64
			var l JournalLine
			if err := lineRows.Scan(&l.ID, &journalID, &l.AccountID, &l.AccountCode, &l.Description, &l.Debit, &l.Credit); err != nil {
				return EntrySet{}, err
			}
			if idx, ok := index[journalID]; ok {
				entries[idx].Lines = append(entries[idx].Lines, l)
			}
		}
		if err := lineRows.Err(); err != nil {
			return EntrySet{}, err
		}
	}

	return EntrySet{Entries: entries, Start: start, End: end}, nil
}

func wrapPgErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %s (%s): %w", op, pgErr.Message, pgErr.Code, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
