// Package reportshttp exposes the derived statements over HTTP.
package reportshttp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/meridian-erp/meridian/internal/ledger"
	"github.com/meridian-erp/meridian/internal/platform/httpx"
	"github.com/meridian-erp/meridian/internal/reports/export"
	"github.com/meridian-erp/meridian/internal/statements"
)

const requestTimeout = 10 * time.Second

// ReportService defines the statement contract used by the handler.
type ReportService interface {
	BalanceSheet(ctx context.Context, asOf time.Time) (statements.BalanceSheet, error)
	TrialBalance(ctx context.Context, asOf time.Time) (statements.TrialBalance, error)
	ProfitLoss(ctx context.Context, start, end time.Time) (statements.ProfitLoss, error)
	CashFlow(ctx context.Context, start, end time.Time) (statements.CashFlow, error)
	GeneralLedger(ctx context.Context, code string, start, end time.Time) (statements.Ledger, error)
}

// Handler coordinates HTTP requests for financial statements.
type Handler struct {
	logger    *slog.Logger
	service   ReportService
	validator *validator.Validate
	now       func() time.Time
}

// NewHandler constructs the reports HTTP handler.
func NewHandler(logger *slog.Logger, service ReportService) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
		now:       time.Now,
	}
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

type asOfQuery struct {
	AsOf string `validate:"omitempty,datetime=2006-01-02"`
}

type periodQuery struct {
	From string `validate:"required,datetime=2006-01-02"`
	To   string `validate:"required,datetime=2006-01-02"`
}

type ledgerQuery struct {
	Account string `validate:"required"`
	From    string `validate:"required,datetime=2006-01-02"`
	To      string `validate:"required,datetime=2006-01-02"`
}

// parseAsOf resolves the as_of query parameter, defaulting to today.
func (h *Handler) parseAsOf(r *http.Request) (time.Time, error) {
	q := asOfQuery{AsOf: r.URL.Query().Get("as_of")}
	if err := h.validator.Struct(q); err != nil {
		return time.Time{}, fmt.Errorf("%w: as_of must be YYYY-MM-DD", httpx.ErrValidation)
	}
	if q.AsOf == "" {
		return h.now().UTC().Truncate(24 * time.Hour), nil
	}
	return time.Parse("2006-01-02", q.AsOf)
}

// parsePeriod resolves the from/to query parameters.
func (h *Handler) parsePeriod(r *http.Request) (time.Time, time.Time, error) {
	q := periodQuery{From: r.URL.Query().Get("from"), To: r.URL.Query().Get("to")}
	if err := h.validator.Struct(q); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from and to must be YYYY-MM-DD", httpx.ErrValidation)
	}
	start, _ := time.Parse("2006-01-02", q.From)
	end, _ := time.Parse("2006-01-02", q.To)
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: to must not precede from", httpx.ErrValidation)
	}
	return start, end, nil
}

// parseLedgerQuery resolves the account/from/to query parameters.
func (h *Handler) parseLedgerQuery(r *http.Request) (string, time.Time, time.Time, error) {
	q := ledgerQuery{
		Account: r.URL.Query().Get("account"),
		From:    r.URL.Query().Get("from"),
		To:      r.URL.Query().Get("to"),
	}
	if err := h.validator.Struct(q); err != nil {
		return "", time.Time{}, time.Time{}, fmt.Errorf("%w: account, from and to are required as YYYY-MM-DD", httpx.ErrValidation)
	}
	start, _ := time.Parse("2006-01-02", q.From)
	end, _ := time.Parse("2006-01-02", q.To)
	if end.Before(start) {
		return "", time.Time{}, time.Time{}, fmt.Errorf("%w: to must not precede from", httpx.ErrValidation)
	}
	return q.Account, start, end, nil
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, httpx.ErrValidation):
		httpx.RespondError(w, err)
	case errors.Is(err, statements.ErrInvalidPeriod), errors.Is(err, statements.ErrAccountRequired):
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
	case errors.Is(err, ledger.ErrAccountNotFound):
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrNotFound, err))
	case errors.Is(err, statements.ErrEmptyEntrySet), errors.Is(err, ledger.ErrCatalogEmpty):
		httpx.Problem(w, http.StatusUnprocessableEntity, "No Ledger Data", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}

func (h *Handler) handleBalanceSheet(w http.ResponseWriter, r *http.Request) {
	asOf, err := h.parseAsOf(r)
	if err != nil {
		h.respondError(w, "balance sheet", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	bs, err := h.service.BalanceSheet(ctx, asOf)
	if err != nil {
		h.respondError(w, "balance sheet", err)
		return
	}
	httpx.JSON(w, http.StatusOK, bs)
}

func (h *Handler) handleTrialBalance(w http.ResponseWriter, r *http.Request) {
	asOf, err := h.parseAsOf(r)
	if err != nil {
		h.respondError(w, "trial balance", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	tb, err := h.service.TrialBalance(ctx, asOf)
	if err != nil {
		h.respondError(w, "trial balance", err)
		return
	}
	httpx.JSON(w, http.StatusOK, tb)
}

func (h *Handler) handleProfitLoss(w http.ResponseWriter, r *http.Request) {
	start, end, err := h.parsePeriod(r)
	if err != nil {
		h.respondError(w, "profit loss", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	pl, err := h.service.ProfitLoss(ctx, start, end)
	if err != nil {
		h.respondError(w, "profit loss", err)
		return
	}
	httpx.JSON(w, http.StatusOK, pl)
}

func (h *Handler) handleCashFlow(w http.ResponseWriter, r *http.Request) {
	start, end, err := h.parsePeriod(r)
	if err != nil {
		h.respondError(w, "cash flow", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	cf, err := h.service.CashFlow(ctx, start, end)
	if err != nil {
		h.respondError(w, "cash flow", err)
		return
	}
	httpx.JSON(w, http.StatusOK, cf)
}

func (h *Handler) handleGeneralLedger(w http.ResponseWriter, r *http.Request) {
	code, start, end, err := h.parseLedgerQuery(r)
	if err != nil {
		h.respondError(w, "general ledger", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	lg, err := h.service.GeneralLedger(ctx, code, start, end)
	if err != nil {
		h.respondError(w, "general ledger", err)
		return
	}
	httpx.JSON(w, http.StatusOK, lg)
}

// summaryResponse bundles the headline statements for a dashboard landing.
type summaryResponse struct {
	BalanceSheet statements.BalanceSheet `json:"balance_sheet"`
	ProfitLoss   statements.ProfitLoss   `json:"profit_loss"`
	CashFlow     statements.CashFlow     `json:"cash_flow"`
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	start, end, err := h.parsePeriod(r)
	if err != nil {
		h.respondError(w, "summary", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var resp summaryResponse
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		bs, err := h.service.BalanceSheet(gctx, end)
		if err == nil {
			resp.BalanceSheet = bs
		}
		return err
	})
	g.Go(func() error {
		pl, err := h.service.ProfitLoss(gctx, start, end)
		if err == nil {
			resp.ProfitLoss = pl
		}
		return err
	})
	g.Go(func() error {
		cf, err := h.service.CashFlow(gctx, start, end)
		if err == nil {
			resp.CashFlow = cf
		}
		return err
	})
	if err := g.Wait(); err != nil {
		h.respondError(w, "summary", err)
		return
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = "trial-balance"
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	switch kind {
	case "balance-sheet":
		asOf, err := h.parseAsOf(r)
		if err != nil {
			h.respondError(w, "export", err)
			return
		}
		bs, err := h.service.BalanceSheet(ctx, asOf)
		if err != nil {
			h.respondError(w, "export", err)
			return
		}
		httpx.CSVAttachment(w, "balance-sheet-"+asOf.Format("2006-01-02")+".csv")
		if err := export.WriteBalanceSheetCSV(w, bs); err != nil {
			h.logger.Error("export balance sheet", slog.Any("error", err))
		}
	case "trial-balance":
		asOf, err := h.parseAsOf(r)
		if err != nil {
			h.respondError(w, "export", err)
			return
		}
		tb, err := h.service.TrialBalance(ctx, asOf)
		if err != nil {
			h.respondError(w, "export", err)
			return
		}
		httpx.CSVAttachment(w, "trial-balance-"+asOf.Format("2006-01-02")+".csv")
		if err := export.WriteTrialBalanceCSV(w, tb); err != nil {
			h.logger.Error("export trial balance", slog.Any("error", err))
		}
	case "cash-flow":
		start, end, err := h.parsePeriod(r)
		if err != nil {
			h.respondError(w, "export", err)
			return
		}
		cf, err := h.service.CashFlow(ctx, start, end)
		if err != nil {
			h.respondError(w, "export", err)
			return
		}
		httpx.CSVAttachment(w, "cash-flow-"+end.Format("2006-01-02")+".csv")
		if err := export.WriteCashFlowCSV(w, cf); err != nil {
			h.logger.Error("export cash flow", slog.Any("error", err))
		}
	case "profit-loss":
		start, end, err := h.parsePeriod(r)
		if err != nil {
			h.respondError(w, "export", err)
			return
		}
		pl, err := h.service.ProfitLoss(ctx, start, end)
		if err != nil {
			h.respondError(w, "export", err)
			return
		}
		httpx.CSVAttachment(w, "profit-loss-"+end.Format("2006-01-02")+".csv")
		if err := export.WriteProfitLossCSV(w, pl); err != nil {
			h.logger.Error("export profit loss", slog.Any("error", err))
		}
	case "general-ledger":
		code, start, end, err := h.parseLedgerQuery(r)
		if err != nil {
			h.respondError(w, "export", err)
			return
		}
		lg, err := h.service.GeneralLedger(ctx, code, start, end)
		if err != nil {
			h.respondError(w, "export", err)
			return
		}
		httpx.CSVAttachment(w, "general-ledger-"+code+"-"+end.Format("2006-01-02")+".csv")
		if err := export.WriteLedgerCSV(w, lg); err != nil {
			h.logger.Error("export general ledger", slog.Any("error", err))
		}
	default:
		h.respondError(w, "export", fmt.Errorf("%w: unknown export kind %q", httpx.ErrValidation, kind))
	}
}
