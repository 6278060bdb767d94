package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/rProsia8/Expense-Tracker/internal/model"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(event *model.ExpenseEvent) error {
	if err := r.db.Create(event).Error; err != nil {
		return fmt.Errorf("create expense event failed: %w", err)
	}
	return nil
}

func (r *EventRepository) ListByUserID(userID uint, limit int) ([]model.ExpenseEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	var events []model.ExpenseEvent
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list expense events failed: %w", err)
	}
	return events, nil
}
