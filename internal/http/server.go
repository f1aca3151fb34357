// Package http exposes the expense use cases over a small JSON API, plus a
// server-sent-events stream backed by the store's live queries.
package http

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"expensetracker/internal/log"
	"expensetracker/internal/query"
	"expensetracker/internal/services"
	"expensetracker/internal/store"
)

type Server struct {
	http.Server
	service     *services.ExpenseService
	engine      *query.Engine
	store       store.ExpenseStore
	rateLimiter *rateLimiter
}

func NewServer(addr string, svc *services.ExpenseService, engine *query.Engine, st store.ExpenseStore, limitPerMinute int) *Server {
	s := &Server{
		service:     svc,
		engine:      engine,
		store:       st,
		rateLimiter: newRateLimiter(limitPerMinute),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)
	mux.HandleFunc("GET /api/expenses/today-total", s.handleTodayTotal)
	mux.HandleFunc("GET /api/expenses/stream", s.handleExpenseStream)
	mux.HandleFunc("GET /api/reports/daily", s.handleDailyReport)
	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.Server.Addr = addr
	s.Server.Handler = s.withMiddleware(mux)
	return s
}

// Stop releases server-owned background resources.
func (s *Server) Stop() {
	s.rateLimiter.stop()
}

func (s *Server) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := generateRequestID()
		clientIP := clientIP(r)

		if !s.rateLimiter.allow(clientIP) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		slog.InfoContext(r.Context(), "Request handled",
			log.FieldComponent, log.ComponentHTTP,
			log.FieldRequestID, requestID,
			log.FieldClientIP, clientIP,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rec.status,
			log.FieldDuration, time.Since(start).Milliseconds())
	})
}

// statusRecorder captures the response status for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush forwards to the wrapped writer so SSE streaming works through the
// middleware.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
