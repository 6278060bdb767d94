package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rProsia8/Expense-Tracker/internal/model"
)

type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(expense *model.Expense) error {
	if err := r.db.Create(expense).Error; err != nil {
		return fmt.Errorf("create expense failed: %w", err)
	}
	return nil
}

func (r *ExpenseRepository) ListByUserID(userID uint, offset, limit int) ([]model.Expense, error) {
	var expenses []model.Expense
	if err := r.db.Where("user_id = ?", userID).Offset(offset).Limit(limit).Find(&expenses).Error; err != nil {
		return nil, fmt.Errorf("list expenses failed: %w", err)
	}
	return expenses, nil
}

func (r *ExpenseRepository) GetByIDAndUserID(expenseID, userID uint) (*model.Expense, error) {
	var expense model.Expense
	if err := r.db.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense failed: %w", err)
	}
	return &expense, nil
}

// UpdateByIDAndUserID replaces the mutable fields of an expense row. The
// owner predicate keeps the write scoped even when the id exists under a
// different user.
func (r *ExpenseRepository) UpdateByIDAndUserID(expense *model.Expense) error {
	err := r.db.Model(&model.Expense{}).
		Where("id = ? AND user_id = ?", expense.ID, expense.UserID).
		Updates(map[string]interface{}{
			"amount":      expense.Amount,
			"description": expense.Description,
			"category":    expense.Category,
			"date":        expense.Date,
		}).Error
	if err != nil {
		return fmt.Errorf("update expense failed: %w", err)
	}
	return nil
}

func (r *ExpenseRepository) DeleteByIDAndUserID(expenseID, userID uint) (bool, error) {
	result := r.db.Where("id = ? AND user_id = ?", expenseID, userID).Delete(&model.Expense{})
	if result.Error != nil {
		return false, fmt.Errorf("delete expense failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *ExpenseRepository) SumByCategory(userID uint) ([]model.CategoryTotal, error) {
	var totals []model.CategoryTotal
	err := r.db.Model(&model.Expense{}).
		Select("category, SUM(amount) AS total").
		Where("user_id = ?", userID).
		Group("category").
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("sum expenses by category failed: %w", err)
	}
	return totals, nil
}

// ListByDateRange returns the caller's expenses with a date inside
// [start, end], both ends inclusive.
func (r *ExpenseRepository) ListByDateRange(userID uint, start, end time.Time) ([]model.Expense, error) {
	var expenses []model.Expense
	err := r.db.Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Find(&expenses).Error
	if err != nil {
		return nil, fmt.Errorf("list expenses by date range failed: %w", err)
	}
	return expenses, nil
}
