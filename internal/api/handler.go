package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/moneta-app/moneta/internal/domain"
	"github.com/moneta-app/moneta/internal/holdings"
	"github.com/moneta-app/moneta/internal/snapshot"
)

// SummarySource computes the live portfolio summary.
type SummarySource interface {
	Summary(ctx context.Context) (domain.PortfolioSummary, error)
}

// Refresher pulls fresh quotes from the providers.
type Refresher interface {
	RefreshAll(ctx context.Context) error
}

// Handler provides the HTTP endpoints of the portfolio API.
type Handler struct {
	portfolio SummarySource
	holdings  *holdings.Service
	snapshots *snapshot.Service
	refresher Refresher
}

// NewHandler creates a new API handler.
func NewHandler(portfolio SummarySource, holdingsSvc *holdings.Service, snapshots *snapshot.Service, refresher Refresher) *Handler {
	return &Handler{
		portfolio: portfolio,
		holdings:  holdingsSvc,
		snapshots: snapshots,
		refresher: refresher,
	}
}

// GetSummary handles GET /api/v1/summary.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.portfolio.Summary(r.Context())
	if err != nil {
		slog.Error("failed to compute summary", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

type breakdownsResponse struct {
	Allocation       domain.Allocation         `json:"allocation"`
	CryptoBreakdown  []domain.BreakdownEntry   `json:"cryptoBreakdown,omitempty"`
	StocksBreakdown  []domain.BreakdownEntry   `json:"stocksBreakdown,omitempty"`
	CashBreakdown    []domain.BreakdownEntry   `json:"cashBreakdown,omitempty"`
	CurrencyExposure []domain.CurrencyExposure `json:"currencyExposure,omitempty"`
	Warnings         []string                  `json:"warnings,omitempty"`
}

// GetBreakdowns handles GET /api/v1/summary/breakdowns.
func (h *Handler) GetBreakdowns(w http.ResponseWriter, r *http.Request) {
	summary, err := h.portfolio.Summary(r.Context())
	if err != nil {
		slog.Error("failed to compute summary", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, breakdownsResponse{
		Allocation:       summary.Allocation,
		CryptoBreakdown:  summary.CryptoBreakdown,
		StocksBreakdown:  summary.StocksBreakdown,
		CashBreakdown:    summary.CashBreakdown,
		CurrencyExposure: summary.CurrencyExposure,
		Warnings:         summary.Warnings,
	})
}

// GetHoldings handles GET /api/v1/holdings.
func (h *Handler) GetHoldings(w http.ResponseWriter, r *http.Request) {
	held, err := h.holdings.List(r.Context())
	if err != nil {
		slog.Error("failed to list holdings", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, held)
}

// SaveCryptoHolding handles POST /api/v1/holdings/crypto.
func (h *Handler) SaveCryptoHolding(w http.ResponseWriter, r *http.Request) {
	var in holdings.CryptoInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	saved, err := h.holdings.SaveCrypto(r.Context(), in)
	if err != nil {
		h.writeSaveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// SaveEquityHolding handles POST /api/v1/holdings/equity.
func (h *Handler) SaveEquityHolding(w http.ResponseWriter, r *http.Request) {
	var in holdings.EquityInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	saved, err := h.holdings.SaveEquity(r.Context(), in)
	if err != nil {
		h.writeSaveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// SaveCashHolding handles POST /api/v1/holdings/cash.
func (h *Handler) SaveCashHolding(w http.ResponseWriter, r *http.Request) {
	var in holdings.CashInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	saved, err := h.holdings.SaveCash(r.Context(), in)
	if err != nil {
		h.writeSaveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// DeleteHolding handles DELETE /api/v1/holdings/{class}/{id}.
func (h *Handler) DeleteHolding(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid holding id")
		return
	}

	err = h.holdings.Delete(r.Context(), r.PathValue("class"), id)
	switch {
	case errors.Is(err, holdings.ErrInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, holdings.ErrNotFound):
		writeError(w, http.StatusNotFound, "holding not found")
	case err != nil:
		slog.Error("failed to delete holding", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// ListSnapshots handles GET /api/v1/snapshots.
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	const maxLimit = 365
	limit := 30
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = min(n, maxLimit)
		}
	}

	snapshots, err := h.snapshots.History(r.Context(), limit)
	if err != nil {
		slog.Error("failed to list snapshots", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, snapshots)
}

// GetLatestSnapshot handles GET /api/v1/snapshots/latest.
func (h *Handler) GetLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshots.Latest(r.Context())
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no snapshots found")
			return
		}
		slog.Error("failed to get latest snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// GetSnapshotByDate handles GET /api/v1/snapshots/{date}.
func (h *Handler) GetSnapshotByDate(w http.ResponseWriter, r *http.Request) {
	dateStr := r.PathValue("date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
		return
	}

	snap, err := h.snapshots.ByDate(r.Context(), date)
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			writeError(w, http.StatusNotFound, "snapshot not found for date")
			return
		}
		slog.Error("failed to get snapshot by date", "date", dateStr, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// RefreshQuotes handles POST /api/v1/admin/refresh.
func (h *Handler) RefreshQuotes(w http.ResponseWriter, r *http.Request) {
	if err := h.refresher.RefreshAll(r.Context()); err != nil {
		slog.Error("quote refresh failed", "error", err)
		writeError(w, http.StatusBadGateway, "quote refresh failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

// GenerateSnapshot handles POST /api/v1/admin/snapshot.
func (h *Handler) GenerateSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshots.Generate(r.Context(), time.Now())
	if err != nil {
		slog.Error("failed to generate snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to generate snapshot")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) writeSaveError(w http.ResponseWriter, err error) {
	if errors.Is(err, holdings.ErrInvalid) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	slog.Error("failed to save holding", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
