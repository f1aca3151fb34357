package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func newCaptureLogger(component string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:     slog.LevelDebug,
		Component: component,
		Handler:   slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
	return logger, &buf
}

func decodeRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode log record: %v (raw: %s)", err, buf.String())
	}
	return record
}

func TestLoggerTagsComponent(t *testing.T) {
	logger, buf := newCaptureLogger(ComponentExpense)

	logger.Info("Expense created",
		FieldExpenseID, int64(7),
		FieldAmountCents, int64(1250),
		FieldCategory, "FOOD")

	record := decodeRecord(t, buf)
	if record[FieldComponent] != ComponentExpense {
		t.Errorf("component = %v, want %q", record[FieldComponent], ComponentExpense)
	}
	if record[FieldExpenseID] != float64(7) {
		t.Errorf("expense id = %v, want 7", record[FieldExpenseID])
	}
	if record[FieldAmountCents] != float64(1250) {
		t.Errorf("amount cents = %v, want 1250", record[FieldAmountCents])
	}
	if record[FieldCategory] != "FOOD" {
		t.Errorf("category = %v, want FOOD", record[FieldCategory])
	}
}

func TestWithComponentRetags(t *testing.T) {
	logger, buf := newCaptureLogger(ComponentApp)

	logger.WithComponent(ComponentStorage).Logger.Info("Expense deleted", FieldExpenseID, int64(3))

	record := decodeRecord(t, buf)
	if record[FieldComponent] != ComponentStorage {
		t.Errorf("component = %v, want %q", record[FieldComponent], ComponentStorage)
	}
}

func TestDebugContextCarriesComponent(t *testing.T) {
	logger, buf := newCaptureLogger(ComponentQuery)

	logger.DebugContext(context.Background(), "Window computed",
		FieldRangeStart, int64(0), FieldRangeEnd, int64(86_399_999))

	record := decodeRecord(t, buf)
	if record[FieldComponent] != ComponentQuery {
		t.Errorf("component = %v, want %q", record[FieldComponent], ComponentQuery)
	}
	if record[FieldRangeEnd] != float64(86_399_999) {
		t.Errorf("range end = %v", record[FieldRangeEnd])
	}
}
