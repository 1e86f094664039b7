package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/moneta-app/moneta/internal/domain"
)

// XLSXWriter implements ReportWriter by saving an xlsx workbook into a
// directory, one file per report date.
type XLSXWriter struct {
	dir string
}

// NewXLSXWriter creates an XLSXWriter saving into dir.
func NewXLSXWriter(dir string) *XLSXWriter {
	return &XLSXWriter{dir: dir}
}

// Write builds the workbook and saves it as portfolio_YYYY-MM-DD.xlsx.
func (w *XLSXWriter) Write(ctx context.Context, report Report) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("closing workbook failed", "error", err)
		}
	}()

	if err := fillSummarySheet(f, report); err != nil {
		return err
	}
	if err := fillBreakdownSheet(f, report); err != nil {
		return err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("deleting default sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("encoding workbook: %w", err)
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(w.dir, fmt.Sprintf("portfolio_%s.xlsx", report.Date.UTC().Format("2006-01-02")))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	slog.Info("xlsx report written", "path", path)
	return nil
}

func fillSummarySheet(f *excelize.File, report Report) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}

	if err := f.MergeCell(sheet, "A1", "G1"); err != nil {
		return err
	}
	title := fmt.Sprintf("Portfolio report %s (%s)", report.Date.UTC().Format("2006-01-02"), report.Currency)
	_ = f.SetCellStr(sheet, "A1", title)

	styleID, err := sectionStyle(f, "#cfe2f3")
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", styleID); err != nil {
		return fmt.Errorf("applying style: %w", err)
	}

	_ = f.SetCellStr(sheet, "A2", "Metric")
	_ = f.SetCellStr(sheet, "B2", "Value")
	_ = f.SetCellStr(sheet, "C2", "Unit")
	_ = f.SetCellStr(sheet, "D2", "Week")
	_ = f.SetCellStr(sheet, "E2", "Month")
	_ = f.SetCellStr(sheet, "F2", "Quarter")
	_ = f.SetCellStr(sheet, "G2", "Year")

	for i, row := range report.Rows {
		rowNum := i + 3
		_ = f.SetCellStr(sheet, fmt.Sprintf("A%d", rowNum), row.Metric)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), row.Value.InexactFloat64())
		_ = f.SetCellStr(sheet, fmt.Sprintf("C%d", rowNum), row.Unit)
		setChangeCell(f, sheet, fmt.Sprintf("D%d", rowNum), row.WeekChange)
		setChangeCell(f, sheet, fmt.Sprintf("E%d", rowNum), row.MonthChange)
		setChangeCell(f, sheet, fmt.Sprintf("F%d", rowNum), row.QuarterChange)
		setChangeCell(f, sheet, fmt.Sprintf("G%d", rowNum), row.YearChange)
	}

	return nil
}

// setChangeCell leaves the cell empty when no historical value exists.
func setChangeCell(f *excelize.File, sheet, cell string, change *decimal.Decimal) {
	if change == nil {
		return
	}
	_ = f.SetCellValue(sheet, cell, change.InexactFloat64())
}

func fillBreakdownSheet(f *excelize.File, report Report) error {
	const sheet = "Breakdown"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating breakdown sheet: %w", err)
	}

	sections := []struct {
		title   string
		color   string
		entries []domain.BreakdownEntry
	}{
		{"Crypto", "#d9ead3", report.Summary.CryptoBreakdown},
		{"Stocks", "#f9cb9c", report.Summary.StocksBreakdown},
		{"Cash", "#f4cccc", report.Summary.CashBreakdown},
		{"Currency exposure", "#cccccc", exposureEntries(report.Summary.CurrencyExposure)},
	}

	rowNum := 1
	for _, section := range sections {
		if len(section.entries) == 0 {
			continue
		}
		next, err := fillBreakdownSection(f, sheet, rowNum, section.title, section.color, section.entries)
		if err != nil {
			return err
		}
		rowNum = next
	}

	return nil
}

func fillBreakdownSection(f *excelize.File, sheet string, rowNum int, title, color string, entries []domain.BreakdownEntry) (int, error) {
	if err := f.MergeCell(sheet, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("C%d", rowNum)); err != nil {
		return 0, err
	}
	_ = f.SetCellStr(sheet, fmt.Sprintf("A%d", rowNum), title)

	styleID, err := sectionStyle(f, color)
	if err != nil {
		return 0, err
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("A%d", rowNum), styleID); err != nil {
		return 0, fmt.Errorf("applying style: %w", err)
	}

	rowNum++
	_ = f.SetCellStr(sheet, fmt.Sprintf("A%d", rowNum), "Label")
	_ = f.SetCellStr(sheet, fmt.Sprintf("B%d", rowNum), "Value")
	_ = f.SetCellStr(sheet, fmt.Sprintf("C%d", rowNum), "Share %")

	for _, entry := range entries {
		rowNum++
		_ = f.SetCellStr(sheet, fmt.Sprintf("A%d", rowNum), entry.Label)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), entry.Value.InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), entry.Percent.InexactFloat64())
		for _, sub := range entry.Entries {
			rowNum++
			_ = f.SetCellStr(sheet, fmt.Sprintf("A%d", rowNum), "  "+sub.Label)
			_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), sub.Value.InexactFloat64())
			_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), sub.Percent.InexactFloat64())
		}
	}

	// one blank row between sections
	return rowNum + 2, nil
}

func sectionStyle(f *excelize.File, color string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{color},
		},
	})
}
