package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"
)

// NewServer creates an HTTP server with all routes configured. Mutating
// routes require the admin API key when one is set.
func NewServer(port string, h *Handler, adminAPIKey string) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /api/v1/summary", h.GetSummary)
	mux.HandleFunc("GET /api/v1/summary/breakdowns", h.GetBreakdowns)
	mux.HandleFunc("GET /api/v1/holdings", h.GetHoldings)
	mux.HandleFunc("GET /api/v1/snapshots", h.ListSnapshots)
	mux.HandleFunc("GET /api/v1/snapshots/latest", h.GetLatestSnapshot)
	mux.HandleFunc("GET /api/v1/snapshots/{date}", h.GetSnapshotByDate)

	admin := func(pattern string, next http.HandlerFunc) {
		if adminAPIKey != "" {
			mux.Handle(pattern, requireAuth(adminAPIKey, next))
			return
		}
		mux.Handle(pattern, next)
	}
	admin("POST /api/v1/holdings/crypto", h.SaveCryptoHolding)
	admin("POST /api/v1/holdings/equity", h.SaveEquityHolding)
	admin("POST /api/v1/holdings/cash", h.SaveCashHolding)
	admin("DELETE /api/v1/holdings/{class}/{id}", h.DeleteHolding)
	admin("POST /api/v1/admin/refresh", h.RefreshQuotes)
	admin("POST /api/v1/admin/snapshot", h.GenerateSnapshot)

	return &http.Server{
		Addr:         ":" + port,
		Handler:      withRequestLog(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func requireAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if !strings.HasPrefix(auth, "Bearer ") || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
