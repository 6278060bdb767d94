package app

import (
	"context"

	"github.com/rProsia8/Expense-Tracker/internal/model"
)

// NoopEventPublisher discards audit events. Injected when the event queue is
// disabled in config.
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(_ context.Context, _ model.ExpenseEvent) error {
	return nil
}
