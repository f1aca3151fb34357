package core

// DailyExpenseSummary aggregates one calendar day of expenses. It is derived,
// never persisted, and computed freshly per query.
type DailyExpenseSummary struct {
	Date         string // calendar day in local time, YYYY-MM-DD
	TotalAmount  Money
	ExpenseCount int
}
