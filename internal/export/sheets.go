package export

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/moneta-app/moneta/internal/domain"
)

// SheetsWriter implements ReportWriter using the Google Sheets API.
type SheetsWriter struct {
	spreadsheetID string
	svc           *sheets.Service
}

// NewSheetsWriter creates a SheetsWriter authenticated with a service account JSON.
func NewSheetsWriter(ctx context.Context, spreadsheetID, credentialsJSON string) (*SheetsWriter, error) {
	creds, err := google.CredentialsFromJSON(
		ctx,
		[]byte(credentialsJSON),
		sheets.SpreadsheetsScope,
	)
	if err != nil {
		return nil, fmt.Errorf("parsing google credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &SheetsWriter{spreadsheetID: spreadsheetID, svc: svc}, nil
}

// Write ensures required sheets exist, rewrites SUMMARY and BREAKDOWN,
// then appends one row to HISTORY.
func (w *SheetsWriter) Write(ctx context.Context, report Report) error {
	if err := w.ensureSheets(ctx, "SUMMARY", "BREAKDOWN", "HISTORY"); err != nil {
		return err
	}

	summaryValues := buildSummaryGrid(report)
	breakdownValues := buildBreakdownGrid(report)

	_, err := w.svc.Spreadsheets.Values.BatchClear(
		w.spreadsheetID,
		&sheets.BatchClearValuesRequest{
			Ranges: []string{"SUMMARY!A:G", "BREAKDOWN!A:D"},
		},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clearing sheets: %w", err)
	}

	_, err = w.svc.Spreadsheets.Values.BatchUpdate(
		w.spreadsheetID,
		&sheets.BatchUpdateValuesRequest{
			ValueInputOption: "USER_ENTERED",
			Data: []*sheets.ValueRange{
				{Range: "SUMMARY!A1", Values: summaryValues},
				{Range: "BREAKDOWN!A1", Values: breakdownValues},
			},
		},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("writing sheets: %w", err)
	}

	return w.appendHistory(ctx, report)
}

// buildSummaryGrid builds the SUMMARY sheet data.
// Columns: Metric | Value | Unit | Week | Month | Quarter | Year
func buildSummaryGrid(report Report) [][]any {
	data := make([][]any, 0, len(report.Rows)+2)
	data = append(data, []any{
		fmt.Sprintf("Portfolio report %s", report.Date.UTC().Format("2006-01-02")),
		"", "", "", "", "", "",
	})
	data = append(data, []any{
		"Metric", "Value", "Unit", "Week", "Month", "Quarter", "Year",
	})

	for _, row := range report.Rows {
		data = append(data, []any{
			row.Metric,
			toFloat(row.Value),
			row.Unit,
			ptrFloat(row.WeekChange),
			ptrFloat(row.MonthChange),
			ptrFloat(row.QuarterChange),
			ptrFloat(row.YearChange),
		})
	}

	return data
}

// buildBreakdownGrid builds the BREAKDOWN sheet data, one section per asset
// class plus currency exposure. Nested entries are indented under their group.
// Columns: Class | Label | Value | Share %
func buildBreakdownGrid(report Report) [][]any {
	data := [][]any{
		{"Class", "Label", "Value", "Share %"},
	}

	data = appendBreakdownSection(data, "Crypto", report.Summary.CryptoBreakdown)
	data = appendBreakdownSection(data, "Stocks", report.Summary.StocksBreakdown)
	data = appendBreakdownSection(data, "Cash", report.Summary.CashBreakdown)
	data = appendBreakdownSection(data, "Currency", exposureEntries(report.Summary.CurrencyExposure))

	return data
}

func appendBreakdownSection(data [][]any, class string, entries []domain.BreakdownEntry) [][]any {
	for _, entry := range entries {
		data = append(data, []any{class, entry.Label, toFloat(entry.Value), toFloat(entry.Percent)})
		for _, sub := range entry.Entries {
			data = append(data, []any{class, "  " + sub.Label, toFloat(sub.Value), toFloat(sub.Percent)})
		}
	}
	return data
}

func exposureEntries(exposure []domain.CurrencyExposure) []domain.BreakdownEntry {
	entries := make([]domain.BreakdownEntry, 0, len(exposure))
	for _, e := range exposure {
		entries = append(entries, domain.BreakdownEntry{
			Label:   string(e.Currency),
			Value:   e.Value,
			Percent: e.Percent,
		})
	}
	return entries
}

// historyHeader and buildHistoryRow define the HISTORY sheet, one appended
// row per report run.
var historyHeader = []any{
	"Date", "Total", "Crypto", "Stocks", "Cash",
	"Change 24h", "FX Change 24h", "Weighted APY", "Yearly Income",
}

func buildHistoryRow(report Report) []any {
	s := report.Summary
	return []any{
		report.Date.UTC().Format("2006-01-02"),
		toFloat(s.TotalValue),
		toFloat(s.CryptoValue),
		toFloat(s.StocksValue),
		toFloat(s.CashValue),
		toFloat(s.TotalChange.Percent),
		toFloat(s.TotalChange.FXPercent),
		toFloat(s.Income.WeightedAvgAPY),
		toFloat(s.Income.Yearly),
	}
}

// appendHistory writes the HISTORY header if the sheet is empty, then
// appends one data row for this run.
func (w *SheetsWriter) appendHistory(ctx context.Context, report Report) error {
	existing, err := w.svc.Spreadsheets.Values.Get(
		w.spreadsheetID, "HISTORY!A1:A1",
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("reading history header: %w", err)
	}

	if len(existing.Values) == 0 {
		_, err = w.svc.Spreadsheets.Values.Update(
			w.spreadsheetID,
			"HISTORY!A1",
			&sheets.ValueRange{Values: [][]any{historyHeader}},
		).ValueInputOption("USER_ENTERED").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("writing history header: %w", err)
		}
	}

	_, err = w.svc.Spreadsheets.Values.Append(
		w.spreadsheetID,
		"HISTORY!A:I",
		&sheets.ValueRange{Values: [][]any{buildHistoryRow(report)}},
	).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appending history row: %w", err)
	}

	return nil
}

// ensureSheets creates any of the named sheets that do not already exist.
func (w *SheetsWriter) ensureSheets(ctx context.Context, names ...string) error {
	spreadsheet, err := w.svc.Spreadsheets.Get(w.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("getting spreadsheet metadata: %w", err)
	}

	existing := make(map[string]bool, len(spreadsheet.Sheets))
	for _, s := range spreadsheet.Sheets {
		existing[s.Properties.Title] = true
	}

	var requests []*sheets.Request
	for _, name := range names {
		if !existing[name] {
			requests = append(requests, &sheets.Request{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: name},
				},
			})
		}
	}

	if len(requests) == 0 {
		return nil
	}

	_, err = w.svc.Spreadsheets.BatchUpdate(
		w.spreadsheetID,
		&sheets.BatchUpdateSpreadsheetRequest{Requests: requests},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("creating sheets: %w", err)
	}

	return nil
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func ptrFloat(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	f, _ := d.Float64()
	return f
}
