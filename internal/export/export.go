package export

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/moneta-app/moneta/internal/domain"
	"github.com/moneta-app/moneta/internal/snapshot"
)

// reportPeriods are the look-back windows, in days, for period comparisons.
var reportPeriods = []int{7, 30, 90, 365}

// ReportRow is one metric line of the portfolio report with
// period-over-period changes. Change fields are nil when no snapshot
// old enough exists or the historical value is zero.
type ReportRow struct {
	Metric        string
	Value         decimal.Decimal
	Unit          string
	WeekChange    *decimal.Decimal
	MonthChange   *decimal.Decimal
	QuarterChange *decimal.Decimal
	YearChange    *decimal.Decimal
}

// Report is the full export payload built from one snapshot.
type Report struct {
	Date     time.Time
	Currency domain.Currency
	Rows     []ReportRow
	Summary  domain.PortfolioSummary
}

// ReportWriter renders a report to a destination (spreadsheet, file).
type ReportWriter interface {
	Write(ctx context.Context, report Report) error
}

// HistorySource provides stored snapshots for period comparisons.
type HistorySource interface {
	GetNearestBefore(ctx context.Context, date time.Time) (domain.Snapshot, error)
}

// metricDef maps one report line to a summary field. Percent metrics are
// unitless; all others are denominated in the primary currency.
type metricDef struct {
	name    string
	percent bool
	value   func(domain.PortfolioSummary) decimal.Decimal
}

var reportMetrics = []metricDef{
	{name: "Total Value", value: func(s domain.PortfolioSummary) decimal.Decimal { return s.TotalValue }},
	{name: "Crypto Value", value: func(s domain.PortfolioSummary) decimal.Decimal { return s.CryptoValue }},
	{name: "Stocks Value", value: func(s domain.PortfolioSummary) decimal.Decimal { return s.StocksValue }},
	{name: "Cash Value", value: func(s domain.PortfolioSummary) decimal.Decimal { return s.CashValue }},
	{name: "Change 24h", percent: true, value: func(s domain.PortfolioSummary) decimal.Decimal { return s.TotalChange.Percent }},
	{name: "FX Change 24h", percent: true, value: func(s domain.PortfolioSummary) decimal.Decimal { return s.TotalChange.FXPercent }},
	{name: "Crypto Allocation", percent: true, value: func(s domain.PortfolioSummary) decimal.Decimal { return s.Allocation.Crypto }},
	{name: "Stocks Allocation", percent: true, value: func(s domain.PortfolioSummary) decimal.Decimal { return s.Allocation.Stocks }},
	{name: "Cash Allocation", percent: true, value: func(s domain.PortfolioSummary) decimal.Decimal { return s.Allocation.Cash }},
	{name: "Weighted Avg APY", percent: true, value: func(s domain.PortfolioSummary) decimal.Decimal { return s.Income.WeightedAvgAPY }},
	{name: "Yield-Bearing Value", value: func(s domain.PortfolioSummary) decimal.Decimal { return s.Income.BearingValue }},
	{name: "Projected Yearly Income", value: func(s domain.PortfolioSummary) decimal.Decimal { return s.Income.Yearly }},
	{name: "Projected Monthly Income", value: func(s domain.PortfolioSummary) decimal.Decimal { return s.Income.Monthly }},
	{name: "Mined & Staked Value", value: func(s domain.PortfolioSummary) decimal.Decimal { return s.MinedStakedValue }},
}

// Service builds portfolio reports from snapshots and delegates rendering
// to one or more writers.
type Service struct {
	history HistorySource
	writers []ReportWriter
}

// NewService creates a new export Service.
func NewService(history HistorySource, writers ...ReportWriter) *Service {
	if history == nil {
		panic("export.NewService: history is nil")
	}
	if len(writers) == 0 {
		panic("export.NewService: at least one writer is required")
	}
	return &Service{history: history, writers: writers}
}

// Export builds the report for the given snapshot, with period changes
// against stored history, and writes it to every configured writer.
// Implements worker.AfterSnapshotHook.
func (s *Service) Export(ctx context.Context, snap domain.Snapshot) error {
	historical := s.fetchHistorical(ctx, snap.Date)

	rows := make([]ReportRow, 0, len(reportMetrics))
	for _, def := range reportMetrics {
		current := def.value(snap.Summary)
		rows = append(rows, ReportRow{
			Metric:        def.name,
			Value:         current,
			Unit:          metricUnit(def, snap.Summary.PrimaryCurrency),
			WeekChange:    computeChange(def, current, historical, 7),
			MonthChange:   computeChange(def, current, historical, 30),
			QuarterChange: computeChange(def, current, historical, 90),
			YearChange:    computeChange(def, current, historical, 365),
		})
	}

	report := Report{
		Date:     snap.Date,
		Currency: snap.Summary.PrimaryCurrency,
		Rows:     rows,
		Summary:  snap.Summary,
	}

	var errs []error
	for _, w := range s.writers {
		if err := w.Write(ctx, report); err != nil {
			slog.Warn("report write failed", "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// fetchHistorical retrieves the nearest snapshot at or before each
// look-back date. Periods with no history are simply absent.
func (s *Service) fetchHistorical(ctx context.Context, at time.Time) map[int]domain.PortfolioSummary {
	result := make(map[int]domain.PortfolioSummary, len(reportPeriods))
	for _, days := range reportPeriods {
		pastDate := at.AddDate(0, 0, -days)
		snap, err := s.history.GetNearestBefore(ctx, pastDate)
		if err != nil {
			if !errors.Is(err, snapshot.ErrNotFound) {
				slog.Warn("historical snapshot unavailable", "days", days, "error", err)
			}
			continue
		}
		result[days] = snap.Summary
	}
	return result
}

// computeChange returns (current - historical) / historical for one metric,
// or nil when the period has no snapshot or the historical value is zero.
func computeChange(def metricDef, current decimal.Decimal, historical map[int]domain.PortfolioSummary, days int) *decimal.Decimal {
	summary, ok := historical[days]
	if !ok {
		return nil
	}
	past := def.value(summary)
	if past.IsZero() {
		return nil
	}
	change := current.Sub(past).Div(past)
	return &change
}

func metricUnit(def metricDef, primary domain.Currency) string {
	if def.percent {
		return "%"
	}
	return string(primary)
}
