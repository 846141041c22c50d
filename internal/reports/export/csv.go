// Package export serialises derived statements for download.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/meridian-erp/meridian/internal/statements"
)

// WriteBalanceSheetCSV serialises a balance sheet to CSV.
func WriteBalanceSheetCSV(w io.Writer, bs statements.BalanceSheet) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Section", "Account Code", "Account Name", "Amount"}); err != nil {
		return err
	}
	sections := []statements.Section{
		bs.CurrentAssets,
		bs.NonCurrentAssets,
		bs.CurrentLiabilities,
		bs.NonCurrentLiabilities,
		bs.Equity,
		bs.Uncategorized,
	}
	for _, section := range sections {
		for _, item := range section.Items {
			if err := writer.Write([]string{section.Label, item.AccountCode, item.AccountName, formatFloat(item.Amount)}); err != nil {
				return err
			}
		}
	}
	totals := [][]string{
		{"Total", "", "Total Assets", formatFloat(bs.TotalAssets)},
		{"Total", "", "Total Liabilities", formatFloat(bs.TotalLiabilities)},
		{"Total", "", "Total Equity", formatFloat(bs.TotalEquity)},
		{"Total", "", "Liabilities and Equity", formatFloat(bs.TotalLiabilitiesAndEquity)},
		{"Total", "", "Difference", formatFloat(bs.Difference)},
	}
	for _, record := range totals {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteTrialBalanceCSV emits the raw debit/credit listing as CSV.
func WriteTrialBalanceCSV(w io.Writer, tb statements.TrialBalance) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Account Code", "Account Name", "Type", "Debit", "Credit"}); err != nil {
		return err
	}
	for _, row := range tb.Rows {
		if err := writer.Write([]string{
			row.AccountCode,
			row.AccountName,
			string(row.AccountType),
			formatFloat(row.Debit),
			formatFloat(row.Credit),
		}); err != nil {
			return err
		}
	}
	if err := writer.Write([]string{"TOTAL", "", "", formatFloat(tb.TotalDebits), formatFloat(tb.TotalCredits)}); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// WriteCashFlowCSV emits the activity-grouped cash movement as CSV.
func WriteCashFlowCSV(w io.Writer, cf statements.CashFlow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Activity", "Entry", "Date", "Source", "Amount"}); err != nil {
		return err
	}
	for _, section := range []statements.CashFlowSection{cf.Operating, cf.Investing, cf.Financing, cf.Other} {
		for _, item := range section.Items {
			if err := writer.Write([]string{
				section.Label,
				item.EntryNumber,
				item.Date.Format("2006-01-02"),
				string(item.Source),
				formatFloat(item.Amount),
			}); err != nil {
				return err
			}
		}
	}
	totals := [][]string{
		{"Total", "", "", "Net Cash Flow", formatFloat(cf.NetCashFlow)},
		{"Total", "", "", "Cash at Beginning", formatFloat(cf.CashAtBeginning)},
		{"Total", "", "", "Cash at End", formatFloat(cf.CashAtEnd)},
	}
	for _, record := range totals {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteProfitLossCSV emits revenue and expense sections as CSV.
func WriteProfitLossCSV(w io.Writer, pl statements.ProfitLoss) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Section", "Account Code", "Account Name", "Amount"}); err != nil {
		return err
	}
	for _, section := range []statements.Section{pl.Revenue, pl.Expense} {
		for _, item := range section.Items {
			if err := writer.Write([]string{section.Label, item.AccountCode, item.AccountName, formatFloat(item.Amount)}); err != nil {
				return err
			}
		}
	}
	if err := writer.Write([]string{"Total", "", "Net Income", formatFloat(pl.NetIncome)}); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// WriteLedgerCSV emits the running-balance view as CSV.
func WriteLedgerCSV(w io.Writer, lg statements.Ledger) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Date", "Entry", "Description", "Debit", "Credit", "Balance"}); err != nil {
		return err
	}
	if err := writer.Write([]string{"", "", "Opening Balance", "", "", formatFloat(lg.OpeningBalance)}); err != nil {
		return err
	}
	for _, row := range lg.Rows {
		if err := writer.Write([]string{
			row.Date.Format("2006-01-02"),
			row.EntryNumber,
			row.Description,
			formatFloat(row.Debit),
			formatFloat(row.Credit),
			formatFloat(row.Balance),
		}); err != nil {
			return err
		}
	}
	if err := writer.Write([]string{"", "", "Ending Balance", formatFloat(lg.TotalDebits), formatFloat(lg.TotalCredits), formatFloat(lg.EndingBalance)}); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
