package amqp

import (
	"encoding/json"
	"time"
)

// Change-event actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ExpenseEventMessage announces a store mutation to external consumers.
// It carries only the id and action; consumers that need the row fetch it
// themselves.
type ExpenseEventMessage struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseEventMessage(id int64, action string) *ExpenseEventMessage {
	return &ExpenseEventMessage{
		ID:        id,
		Action:    action,
		Timestamp: time.Now(),
	}
}

func (m *ExpenseEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseEventMessageFromJSON(data []byte) (*ExpenseEventMessage, error) {
	var msg ExpenseEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
