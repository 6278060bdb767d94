package app

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/rProsia8/Expense-Tracker/internal/model"
	"github.com/rProsia8/Expense-Tracker/internal/repository"
)

var ErrExpenseNotFound = errors.New("expense not found")

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// AsyncEventPublisher enqueues audit events for out-of-band persistence.
type AsyncEventPublisher interface {
	Publish(ctx context.Context, event model.ExpenseEvent) error
}

// StatsCache holds per-user category totals between reads.
type StatsCache interface {
	GetCategoryTotals(ctx context.Context, userID uint) ([]model.CategoryTotal, bool, error)
	SetCategoryTotals(ctx context.Context, userID uint, totals []model.CategoryTotal) error
	DeleteCategoryTotals(ctx context.Context, userID uint) error
}

type ExpenseService struct {
	expenseRepo *repository.ExpenseRepository
	eventRepo   *repository.EventRepository
	publisher   AsyncEventPublisher
	statsCache  StatsCache
}

type ExpenseInput struct {
	Amount      float64
	Description string
	Category    string
	Date        time.Time
}

func NewExpenseService(expenseRepo *repository.ExpenseRepository, eventRepo *repository.EventRepository, publisher AsyncEventPublisher, statsCache StatsCache) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		eventRepo:   eventRepo,
		publisher:   publisher,
		statsCache:  statsCache,
	}
}

func (s *ExpenseService) Create(ctx context.Context, userID uint, input ExpenseInput) (*model.Expense, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	expense := &model.Expense{
		Amount:      input.Amount,
		Description: input.Description,
		Category:    input.Category,
		Date:        date,
		UserID:      userID,
	}
	if err := s.expenseRepo.Create(expense); err != nil {
		return nil, err
	}

	s.afterMutation(ctx, expense, model.EventActionCreate)
	return expense, nil
}

func (s *ExpenseService) List(userID uint, skip, limit int) ([]model.Expense, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}

	expenses, err := s.expenseRepo.ListByUserID(userID, skip, limit)
	if err != nil {
		return nil, err
	}
	if expenses == nil {
		expenses = []model.Expense{}
	}
	return expenses, nil
}

func (s *ExpenseService) Get(userID, expenseID uint) (*model.Expense, error) {
	if userID == 0 || expenseID == 0 {
		return nil, ErrExpenseNotFound
	}

	expense, err := s.expenseRepo.GetByIDAndUserID(expenseID, userID)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}
	return expense, nil
}

func (s *ExpenseService) Update(ctx context.Context, userID, expenseID uint, input ExpenseInput) (*model.Expense, error) {
	expense, err := s.Get(userID, expenseID)
	if err != nil {
		return nil, err
	}

	expense.Amount = input.Amount
	expense.Description = input.Description
	expense.Category = input.Category
	if !input.Date.IsZero() {
		expense.Date = input.Date
	}

	if err := s.expenseRepo.UpdateByIDAndUserID(expense); err != nil {
		return nil, err
	}

	s.afterMutation(ctx, expense, model.EventActionUpdate)
	return expense, nil
}

func (s *ExpenseService) Delete(ctx context.Context, userID, expenseID uint) error {
	if userID == 0 || expenseID == 0 {
		return ErrExpenseNotFound
	}

	deleted, err := s.expenseRepo.DeleteByIDAndUserID(expenseID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrExpenseNotFound
	}

	s.afterMutation(ctx, &model.Expense{ID: expenseID, UserID: userID}, model.EventActionDelete)
	return nil
}

// CategoryStats reads through the stats cache. A cache failure falls back to
// the database rather than failing the request.
func (s *ExpenseService) CategoryStats(ctx context.Context, userID uint) ([]model.CategoryTotal, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}

	if cached, ok, err := s.statsCache.GetCategoryTotals(ctx, userID); err == nil && ok {
		return cached, nil
	} else if err != nil {
		log.Printf("read category stats cache failed: %v", err)
	}

	totals, err := s.expenseRepo.SumByCategory(userID)
	if err != nil {
		return nil, err
	}
	if totals == nil {
		totals = []model.CategoryTotal{}
	}

	if err := s.statsCache.SetCategoryTotals(ctx, userID, totals); err != nil {
		log.Printf("write category stats cache failed: %v", err)
	}
	return totals, nil
}

// Events returns the caller's most recent audit records, newest first.
func (s *ExpenseService) Events(userID uint, limit int) ([]model.ExpenseEvent, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}

	events, err := s.eventRepo.ListByUserID(userID, limit)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []model.ExpenseEvent{}
	}
	return events, nil
}

func (s *ExpenseService) RangeStats(userID uint, start, end time.Time) ([]model.Expense, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}

	expenses, err := s.expenseRepo.ListByDateRange(userID, start, end)
	if err != nil {
		return nil, err
	}
	if expenses == nil {
		expenses = []model.Expense{}
	}
	return expenses, nil
}

// afterMutation invalidates the cached stats and enqueues an audit event.
// Neither failure affects the request outcome.
func (s *ExpenseService) afterMutation(ctx context.Context, expense *model.Expense, action string) {
	if err := s.statsCache.DeleteCategoryTotals(ctx, expense.UserID); err != nil {
		log.Printf("invalidate category stats cache failed: %v", err)
	}

	event := model.ExpenseEvent{
		ExpenseID: expense.ID,
		UserID:    expense.UserID,
		Action:    action,
		Amount:    expense.Amount,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("publish expense event failed: %v", err)
	}
}
