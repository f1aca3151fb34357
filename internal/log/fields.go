package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldExpenseID    = "expense_id"
	FieldExpenseTitle = "expense_title"
	FieldAmountCents  = "amount_cents"
	FieldCategory     = "category"
	FieldRangeStart   = "range_start"
	FieldRangeEnd     = "range_end"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentExpense = "expense"
	ComponentStorage = "storage"
	ComponentQuery   = "query"
	ComponentAMQP    = "amqp"
)
