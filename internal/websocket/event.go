package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, deleted, ...)
type EventType string

const (
	EventTypeCreated  EventType = "created"
	EventTypeDeleted  EventType = "deleted"
	EventTypeImported EventType = "imported"
	EventTypeReset    EventType = "reset"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeIncome      EntityType = "income"
	EntityTypeExpense     EntityType = "expense"
	EntityTypeCategory    EntityType = "category"
	EntityTypeInstallment EntityType = "installment"
	EntityTypeLedger      EntityType = "ledger"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "expense.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "expense"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// IncomeCreated creates an income.created event
func IncomeCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeIncome, payload)
}

// IncomeDeleted creates an income.deleted event
func IncomeDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeIncome, payload)
}

// ExpenseCreated creates an expense.created event
func ExpenseCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeExpense, payload)
}

// ExpenseDeleted creates an expense.deleted event
func ExpenseDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeExpense, payload)
}

// CategoryCreated creates a category.created event
func CategoryCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeCategory, payload)
}

// CategoryDeleted creates a category.deleted event
func CategoryDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeCategory, payload)
}

// InstallmentCreated creates an installment.created event
func InstallmentCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeInstallment, payload)
}

// LedgerImported creates a ledger.imported event
func LedgerImported(payload interface{}) Event {
	return NewEvent(EventTypeImported, EntityTypeLedger, payload)
}

// LedgerReset creates a ledger.reset event
func LedgerReset(payload interface{}) Event {
	return NewEvent(EventTypeReset, EntityTypeLedger, payload)
}
