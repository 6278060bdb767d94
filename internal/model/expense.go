package model

import "time"

type Expense struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Description string    `gorm:"size:255;not null" json:"description"`
	Category    string    `gorm:"size:64;not null;index" json:"category"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
}

// CategoryTotal is the aggregate row returned by the per-category sum query.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}
