package reportshttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// MountRoutes registers report endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/balance-sheet", h.handleBalanceSheet)
	r.Get("/trial-balance", h.handleTrialBalance)
	r.Get("/profit-loss", h.handleProfitLoss)
	r.Get("/cash-flow", h.handleCashFlow)
	r.Get("/general-ledger", h.handleGeneralLedger)
	r.Get("/summary", h.handleSummary)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/export.csv", h.handleExportCSV)
	})
}
