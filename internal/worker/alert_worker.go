// Package worker processes budget alert messages off the queue and runs
// the periodic over-budget sweep.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Rishabh-devloper/wealthwise/internal/alerts"
	"github.com/Rishabh-devloper/wealthwise/internal/storage"
)

// AlertWorker handles budget alert deliveries. Each message is verified
// against current data before acting, so duplicate or stale deliveries
// are safe to process.
type AlertWorker struct {
	storage *storage.SQLiteRepository
}

func NewAlertWorker(storage *storage.SQLiteRepository) *AlertWorker {
	return &AlertWorker{storage: storage}
}

// HandleAlertMessage processes a single budget alert message from AMQP.
func (w *AlertWorker) HandleAlertMessage(ctx context.Context, msg *alerts.BudgetAlertMessage) error {
	budget, err := w.storage.Queries().GetBudget(ctx, msg.UserID, msg.BudgetID)
	if err != nil {
		return fmt.Errorf("get budget from storage: %w", err)
	}

	if budget.Spent.LessThan(budget.Limit) {
		slog.InfoContext(ctx, "Budget back under limit, dropping alert",
			"budget_id", budget.ID,
			"category", budget.Category)
		return nil
	}

	// Notification delivery is the integration point; for now the alert
	// is recorded in the log stream.
	slog.WarnContext(ctx, "Budget limit reached",
		"user_id", budget.UserID,
		"budget_id", budget.ID,
		"category", budget.Category,
		"spent", budget.Spent.String(),
		"limit", budget.Limit.String())

	return nil
}

// RunSweep periodically scans for budgets at or over their limit. It
// backstops lost messages: a crossing whose publish failed still gets
// noticed on the next sweep.
func (w *AlertWorker) RunSweep(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Starting over-budget sweep", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping over-budget sweep", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if err := w.sweep(ctx); err != nil {
				slog.ErrorContext(ctx, "Over-budget sweep failed", "error", err)
			}
		}
	}
}

func (w *AlertWorker) sweep(ctx context.Context) error {
	budgets, err := w.storage.Queries().ListOverBudget(ctx)
	if err != nil {
		return fmt.Errorf("list over-budget: %w", err)
	}

	count := 0
	for _, b := range budgets {
		if b.Spent.LessThan(b.Limit) {
			continue
		}
		count++
		slog.WarnContext(ctx, "Budget limit reached",
			"user_id", b.UserID,
			"budget_id", b.ID,
			"category", b.Category,
			"spent", b.Spent.String(),
			"limit", b.Limit.String())
	}

	slog.InfoContext(ctx, "Over-budget sweep completed",
		"checked", len(budgets),
		"over_limit", count)
	return nil
}
