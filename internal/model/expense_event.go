package model

import "time"

// ExpenseEvent is an append-only audit record of an expense mutation,
// persisted asynchronously by the event worker.
type ExpenseEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ExpenseID uint      `gorm:"not null;index" json:"expense_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Action    string    `gorm:"size:16;not null" json:"action"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	EventActionCreate = "create"
	EventActionUpdate = "update"
	EventActionDelete = "delete"
)
