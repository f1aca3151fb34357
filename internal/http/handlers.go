package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/services"
	"expensetracker/internal/store"
	"expensetracker/internal/validation"
)

type createExpenseRequest struct {
	Title            string `json:"title"`
	Amount           string `json:"amount"`
	Category         string `json:"category"`
	Notes            string `json:"notes"`
	ReceiptImagePath string `json:"receipt_image_path"`
	DateMillis       int64  `json:"date"` // optional, epoch milliseconds
}

type expenseResponse struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Amount           float64 `json:"amount"`
	AmountCents      int64   `json:"amount_cents"`
	Category         string  `json:"category"`
	CategoryLabel    string  `json:"category_label"`
	Notes            string  `json:"notes,omitempty"`
	ReceiptImagePath string  `json:"receipt_image_path,omitempty"`
	Date             int64   `json:"date"`
	CreatedAt        int64   `json:"created_at"`
}

func toExpenseResponse(e core.Expense) expenseResponse {
	return expenseResponse{
		ID:               e.ID,
		Title:            e.Title,
		Amount:           e.Amount.Float64(),
		AmountCents:      e.Amount.Cents,
		Category:         string(e.Category),
		CategoryLabel:    e.Category.Label(),
		Notes:            e.Notes,
		ReceiptImagePath: e.ReceiptImagePath,
		Date:             e.Date.UnixMilli(),
		CreatedAt:        e.CreatedAt.UnixMilli(),
	}
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	title := validation.SanitizeInput(req.Title)
	notes := validation.SanitizeInput(req.Notes)

	var category *core.Category
	if req.Category != "" {
		parsed, err := core.ParseCategory(req.Category)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		category = &parsed
	}

	form := validation.ValidateForm(title, req.Amount, category, notes)
	if !form.IsFormValid {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "validation failed",
			"fields": fieldErrors(form),
		})
		return
	}

	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	in := services.AddExpenseInput{
		Title:            title,
		Amount:           amount,
		Category:         *category,
		Notes:            notes,
		ReceiptImagePath: req.ReceiptImagePath,
	}
	if req.DateMillis > 0 {
		in.Date = time.UnixMilli(req.DateMillis)
	}

	id, err := s.service.AddExpense(r.Context(), in)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to save expense",
			log.FieldComponent, log.ComponentHTTP,
			log.FieldError, err,
			log.FieldExpenseTitle, in.Title,
			log.FieldAmountCents, in.Amount.Cents,
			log.FieldCategory, string(in.Category),
			log.FieldOperation, "create")
		writeError(w, http.StatusInternalServerError, "error saving expense")
		return
	}

	slog.InfoContext(r.Context(), "Expense created",
		log.FieldComponent, log.ComponentHTTP,
		log.FieldExpenseID, id,
		log.FieldExpenseTitle, in.Title,
		log.FieldAmountCents, in.Amount.Cents,
		log.FieldCategory, string(in.Category))

	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func fieldErrors(form validation.FormValidationState) map[string]string {
	out := make(map[string]string)
	for field, result := range map[string]validation.ValidationResult{
		"title":    form.Title,
		"amount":   form.Amount,
		"category": form.Category,
		"notes":    form.Notes,
	} {
		if !result.IsValid {
			out[field] = result.ErrorMessage
		}
	}
	return out
}

// handleListExpenses returns a one-shot snapshot. The optional today,
// category or start/end (epoch ms) parameters select the matching query
// shape.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		sub *store.Subscription
		err error
	)
	switch {
	case q.Get("today") != "":
		sub, err = s.engine.TodayExpenses(r.Context())
	case q.Get("category") != "":
		var category core.Category
		category, err = core.ParseCategory(q.Get("category"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		sub, err = s.store.QueryByCategory(r.Context(), category)
	case q.Get("start") != "" || q.Get("end") != "":
		var start, end time.Time
		start, end, err = parseRange(q.Get("start"), q.Get("end"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		sub, err = s.store.QueryByDateRange(r.Context(), start, end)
	default:
		sub, err = s.store.QueryAll(r.Context())
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to query expenses",
			log.FieldComponent, log.ComponentHTTP, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "error listing expenses")
		return
	}
	defer sub.Close()

	expenses := <-sub.Updates()
	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	if err := s.service.DeleteExpense(r.Context(), core.Expense{ID: id}); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "expense not found")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to delete expense",
			log.FieldComponent, log.ComponentHTTP,
			log.FieldError, err,
			log.FieldExpenseID, id)
		writeError(w, http.StatusInternalServerError, "error deleting expense")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTodayTotal(w http.ResponseWriter, r *http.Request) {
	total, err := s.service.TodayTotal(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to compute today total",
			log.FieldComponent, log.ComponentHTTP, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "error computing today total")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total":       total.Float64(),
		"total_cents": total.Cents,
	})
}

// handleExpenseStream pushes the full expense list as a server-sent event on
// subscribe and again after every change, until the client disconnects.
func (s *Server) handleExpenseStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	sub, err := s.store.QueryAll(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to subscribe to expenses",
			log.FieldComponent, log.ComponentHTTP, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "error subscribing")
		return
	}
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for expenses := range sub.Updates() {
		out := make([]expenseResponse, 0, len(expenses))
		for _, e := range expenses {
			out = append(out, toExpenseResponse(e))
		}
		payload, err := json.Marshal(out)
		if err != nil {
			slog.ErrorContext(r.Context(), "Failed to marshal expense stream event",
				log.FieldComponent, log.ComponentHTTP, log.FieldError, err)
			return
		}
		if _, err := fmt.Fprintf(w, "event: expenses\ndata: %s\n\n", payload); err != nil {
			return
		}
		flusher.Flush()
	}
}

func (s *Server) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, end, err := parseRange(q.Get("start"), q.Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summaries, err := s.engine.DailySummary(r.Context(), start, end)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to compute daily report",
			log.FieldComponent, log.ComponentHTTP,
			log.FieldError, err,
			log.FieldRangeStart, start.UnixMilli(),
			log.FieldRangeEnd, end.UnixMilli())
		writeError(w, http.StatusInternalServerError, "error computing report")
		return
	}

	type daySummary struct {
		Date         string  `json:"date"`
		TotalAmount  float64 `json:"total_amount"`
		TotalCents   int64   `json:"total_cents"`
		ExpenseCount int     `json:"expense_count"`
	}
	out := make([]daySummary, 0, len(summaries))
	for _, sum := range summaries {
		out = append(out, daySummary{
			Date:         sum.Date,
			TotalAmount:  sum.TotalAmount.Float64(),
			TotalCents:   sum.TotalAmount.Cents,
			ExpenseCount: sum.ExpenseCount,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListCategories(w http.ResponseWriter, _ *http.Request) {
	type categoryResponse struct {
		Value string `json:"value"`
		Label string `json:"label"`
		Icon  string `json:"icon"`
	}
	categories := core.Categories()
	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryResponse{
			Value: string(c),
			Label: c.Label(),
			Icon:  c.Icon(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
