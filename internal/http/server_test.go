package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/query"
	"expensetracker/internal/services"
	"expensetracker/internal/store/memory"
)

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	s := memory.NewInLocation(time.UTC)
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	engine := query.NewEngineWithClock(s, func() time.Time { return now }, time.UTC)
	svc := services.NewExpenseService(s, engine, nil)
	srv := NewServer(":0", svc, engine, s, 1000)
	t.Cleanup(srv.Stop)
	return srv, s
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateExpense(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := postJSON(t, srv.Handler, "/api/expenses", map[string]any{
		"title":    "Team lunch",
		"amount":   "45.90",
		"category": "FOOD",
		"notes":    "quarterly planning",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp map[string]int64
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["id"] < 1 {
		t.Fatalf("invalid id: %d", resp["id"])
	}
}

func TestCreateExpenseValidationErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := postJSON(t, srv.Handler, "/api/expenses", map[string]any{
		"title":    "",
		"amount":   "-5",
		"category": "FOOD",
		"notes":    "a & b",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Fields["title"] != "Title is required" {
		t.Errorf("title error = %q", resp.Fields["title"])
	}
	if resp.Fields["amount"] != "Please enter a valid amount" {
		t.Errorf("amount error = %q", resp.Fields["amount"])
	}
	if resp.Fields["notes"] != "Notes contain invalid characters" {
		t.Errorf("notes error = %q", resp.Fields["notes"])
	}
}

func TestCreateExpenseUnknownCategory(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := postJSON(t, srv.Handler, "/api/expenses", map[string]any{
		"title":    "Lunch",
		"amount":   "10.00",
		"category": "FUEL",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestCreateExpenseMissingCategory(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := postJSON(t, srv.Handler, "/api/expenses", map[string]any{
		"title":  "Lunch",
		"amount": "10.00",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Fields["category"] != "Please select a category" {
		t.Errorf("category error = %q", resp.Fields["category"])
	}
}

func TestListAndDeleteExpense(t *testing.T) {
	srv, s := newTestServer(t)

	id, err := s.Insert(context.Background(), core.Expense{
		Title:    "Taxi",
		Amount:   core.Money{Cents: 1500},
		Category: core.CategoryTravel,
		Date:     time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/expenses", nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var listed []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0]["title"] != "Taxi" {
		t.Fatalf("unexpected list: %v", listed)
	}

	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/expenses/%d", id), nil)
	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	// Second delete: the row is gone.
	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/expenses/%d", id), nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d", rec.Code)
	}
}

func TestListTodayExpenses(t *testing.T) {
	srv, s := newTestServer(t)
	ctx := context.Background()

	for _, e := range []core.Expense{
		{Title: "Lunch", Amount: core.Money{Cents: 1250}, Category: core.CategoryFood, Date: time.Date(2024, 5, 10, 13, 0, 0, 0, time.UTC)},
		{Title: "Old taxi", Amount: core.Money{Cents: 900}, Category: core.CategoryTravel, Date: time.Date(2024, 5, 8, 9, 0, 0, 0, time.UTC)},
	} {
		if _, err := s.Insert(ctx, e); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/expenses?today=1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var listed []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0]["title"] != "Lunch" {
		t.Fatalf("unexpected today list: %v", listed)
	}
}

func TestTodayTotalEndpoint(t *testing.T) {
	srv, s := newTestServer(t)

	if _, err := s.Insert(context.Background(), core.Expense{
		Title:    "Lunch",
		Amount:   core.Money{Cents: 1250},
		Category: core.CategoryFood,
		Date:     time.Date(2024, 5, 10, 13, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/expenses/today-total", nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Total      float64 `json:"total"`
		TotalCents int64   `json:"total_cents"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalCents != 1250 || resp.Total != 12.50 {
		t.Fatalf("unexpected total: %+v", resp)
	}
}

func TestDailyReportEndpoint(t *testing.T) {
	srv, s := newTestServer(t)
	ctx := context.Background()

	day1 := time.Date(2024, 5, 9, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 5, 10, 10, 0, 0, 0, time.UTC)
	for _, e := range []core.Expense{
		{Title: "a", Amount: core.Money{Cents: 100}, Category: core.CategoryFood, Date: day1},
		{Title: "b", Amount: core.Money{Cents: 200}, Category: core.CategoryFood, Date: day2},
	} {
		if _, err := s.Insert(ctx, e); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	url := fmt.Sprintf("/api/reports/daily?start=%d&end=%d",
		day1.Add(-time.Hour).UnixMilli(), day2.Add(time.Hour).UnixMilli())
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp []struct {
		Date         string `json:"date"`
		TotalCents   int64  `json:"total_cents"`
		ExpenseCount int    `json:"expense_count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 2 || resp[0].Date != "2024-05-10" || resp[0].TotalCents != 200 {
		t.Fatalf("unexpected report: %+v", resp)
	}

	// Missing parameters are a client error.
	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports/daily", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing params status = %d", rec.Code)
	}
}

func TestListCategoriesEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp []struct {
		Value string `json:"value"`
		Label string `json:"label"`
		Icon  string `json:"icon"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 4 || resp[0].Value != "STAFF" || resp[0].Label != "Staff" {
		t.Fatalf("unexpected categories: %+v", resp)
	}
}
