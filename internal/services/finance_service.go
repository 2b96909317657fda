// Package services provides business logic and orchestration services.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Rishabh-devloper/wealthwise/internal/alerts"
	"github.com/Rishabh-devloper/wealthwise/internal/core"
	"github.com/Rishabh-devloper/wealthwise/internal/errs"
	"github.com/Rishabh-devloper/wealthwise/internal/storage"
)

// AlertPublisher pushes a budget alert onto the message bus. Implemented
// by alerts.Client; nil when the bus is not configured.
type AlertPublisher interface {
	PublishBudgetAlert(ctx context.Context, msg *alerts.BudgetAlertMessage) error
}

// TransactionInput is an unsigned description of a transaction to record.
// Amount is a positive magnitude; the stored sign is derived from Type.
type TransactionInput struct {
	Description string
	Amount      decimal.Decimal
	Type        core.TransactionType
	Category    string
	AccountName string // empty means the user's default account
	Date        time.Time
}

// FinanceService implements every user-facing operation over accounts,
// transactions, budgets and goals.
//
// Identity handling is asymmetric: read operations with an empty userID
// return empty results, write operations return an unauthorized error.
// Ownership misses on writes surface as not-found, indistinguishable from
// genuine absence.
type FinanceService struct {
	repo      *storage.SQLiteRepository
	publisher AlertPublisher
}

func NewFinanceService(repo *storage.SQLiteRepository, publisher AlertPublisher) *FinanceService {
	return &FinanceService{
		repo:      repo,
		publisher: publisher,
	}
}

// budgetAlert captures a limit crossing observed inside a transaction,
// published only after the transaction commits.
type budgetAlert struct {
	budget core.Budget
}

// ---- reads ----

func (s *FinanceService) ListAccounts(ctx context.Context, userID string) ([]core.Account, error) {
	if userID == "" {
		return []core.Account{}, nil
	}
	accounts, err := s.repo.Queries().ListAccounts(ctx, userID)
	if err != nil {
		return nil, errs.NewStorageError(fmt.Errorf("list accounts: %w", err))
	}
	if accounts == nil {
		accounts = []core.Account{}
	}
	return accounts, nil
}

// ListTransactions returns the user's transactions newest first. A limit
// of zero or less means all of them.
func (s *FinanceService) ListTransactions(ctx context.Context, userID string, limit int) ([]core.Transaction, error) {
	if userID == "" {
		return []core.Transaction{}, nil
	}
	txs, err := s.repo.Queries().ListTransactions(ctx, userID, limit)
	if err != nil {
		return nil, errs.NewStorageError(fmt.Errorf("list transactions: %w", err))
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	return txs, nil
}

func (s *FinanceService) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	if userID == "" {
		return []core.Budget{}, nil
	}
	budgets, err := s.repo.Queries().ListBudgets(ctx, userID)
	if err != nil {
		return nil, errs.NewStorageError(fmt.Errorf("list budgets: %w", err))
	}
	if budgets == nil {
		budgets = []core.Budget{}
	}
	return budgets, nil
}

func (s *FinanceService) ListGoals(ctx context.Context, userID string) ([]core.Goal, error) {
	if userID == "" {
		return []core.Goal{}, nil
	}
	goals, err := s.repo.Queries().ListGoals(ctx, userID)
	if err != nil {
		return nil, errs.NewStorageError(fmt.Errorf("list goals: %w", err))
	}
	if goals == nil {
		goals = []core.Goal{}
	}
	return goals, nil
}

// ---- accounts ----

func (s *FinanceService) AddAccount(ctx context.Context, userID, name string, balance decimal.Decimal) (core.Account, error) {
	if userID == "" {
		return core.Account{}, errs.NewUnauthorizedError()
	}
	if name == "" {
		return core.Account{}, errs.NewValidationError("account name is required")
	}

	now := time.Now().UTC()
	account := core.Account{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Balance:   balance,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Queries().CreateAccount(ctx, account); err != nil {
		return core.Account{}, errs.NewStorageError(fmt.Errorf("create account: %w", err))
	}

	slog.InfoContext(ctx, "Account created",
		"account_id", account.ID,
		"name", account.Name)

	return account, nil
}

// EnsureDefaultAccount guarantees the user has at least one account and
// returns the one that transactions fall back to when no account name is
// given. Idempotent: repeated calls never create a second account.
func (s *FinanceService) EnsureDefaultAccount(ctx context.Context, userID string) (core.Account, error) {
	if userID == "" {
		return core.Account{}, errs.NewUnauthorizedError()
	}

	var account core.Account
	err := s.repo.WithTx(ctx, func(q *storage.Queries) error {
		var err error
		account, err = ensureDefaultAccount(ctx, q, userID)
		return err
	})
	if err != nil {
		return core.Account{}, errs.NewStorageError(err)
	}
	return account, nil
}

// ensureDefaultAccount runs inside a caller-owned transaction.
func ensureDefaultAccount(ctx context.Context, q *storage.Queries, userID string) (core.Account, error) {
	accounts, err := q.ListAccounts(ctx, userID)
	if err != nil {
		return core.Account{}, fmt.Errorf("list accounts: %w", err)
	}
	if len(accounts) > 0 {
		// The default is the first account in the list; ListAccounts is
		// newest first.
		return accounts[0], nil
	}

	now := time.Now().UTC()
	account := core.Account{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      core.DefaultAccountName,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := q.CreateAccount(ctx, account); err != nil {
		return core.Account{}, fmt.Errorf("create default account: %w", err)
	}

	slog.InfoContext(ctx, "Default account provisioned",
		"account_id", account.ID)

	return account, nil
}

// UpdateAccountBalance adjusts an account balance by delta.
func (s *FinanceService) UpdateAccountBalance(ctx context.Context, userID, accountID string, delta decimal.Decimal) (core.Account, error) {
	if userID == "" {
		return core.Account{}, errs.NewUnauthorizedError()
	}

	var account core.Account
	err := s.repo.WithTx(ctx, func(q *storage.Queries) error {
		current, err := q.GetAccount(ctx, userID, accountID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.NewNotFoundError("Account not found")
			}
			return errs.NewStorageError(fmt.Errorf("get account: %w", err))
		}

		current.Balance = current.Balance.Add(delta)
		if _, err := q.UpdateAccountBalance(ctx, userID, accountID, current.Balance); err != nil {
			return errs.NewStorageError(fmt.Errorf("update account balance: %w", err))
		}
		account = current
		return nil
	})
	if err != nil {
		return core.Account{}, serviceError(err)
	}
	return account, nil
}

// ---- transactions ----

// AddTransaction records one transaction atomically: the row is inserted,
// the owning account's balance moves by the signed amount, and the
// matching category budget's spent grows for expenses. Alerts for budgets
// that crossed their limit are published after commit.
func (s *FinanceService) AddTransaction(ctx context.Context, userID string, in TransactionInput) (core.Transaction, error) {
	if userID == "" {
		return core.Transaction{}, errs.NewUnauthorizedError()
	}
	if in.Amount.Sign() <= 0 {
		return core.Transaction{}, errs.NewValidationError("amount must be positive")
	}
	if !in.Type.Valid() {
		return core.Transaction{}, errs.NewValidationError("type must be income or expense")
	}

	date := in.Date
	if date.IsZero() {
		date = core.Today()
	}

	var (
		tx    core.Transaction
		alert *budgetAlert
	)
	err := s.repo.WithTx(ctx, func(q *storage.Queries) error {
		var account core.Account
		var err error
		if in.AccountName != "" {
			account, err = q.GetAccountByName(ctx, userID, in.AccountName)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return errs.NewNotFoundError("Account not found")
				}
				return errs.NewStorageError(fmt.Errorf("get account by name: %w", err))
			}
		} else {
			account, err = ensureDefaultAccount(ctx, q, userID)
			if err != nil {
				return errs.NewStorageError(err)
			}
		}

		tx = core.Transaction{
			ID:          uuid.NewString(),
			UserID:      userID,
			Description: in.Description,
			Amount:      core.SignedAmount(in.Amount, in.Type),
			Type:        in.Type,
			Category:    in.Category,
			AccountID:   account.ID,
			AccountName: account.Name,
			Date:        date,
			CreatedAt:   time.Now().UTC(),
		}
		if err := tx.Validate(); err != nil {
			return errs.NewValidationError(err.Error())
		}

		if err := q.CreateTransaction(ctx, tx); err != nil {
			return errs.NewStorageError(fmt.Errorf("create transaction: %w", err))
		}

		newBalance := account.Balance.Add(tx.Amount)
		if _, err := q.UpdateAccountBalance(ctx, userID, account.ID, newBalance); err != nil {
			return errs.NewStorageError(fmt.Errorf("update account balance: %w", err))
		}

		if tx.Type == core.Expense {
			alert, err = bumpBudgetSpent(ctx, q, userID, tx.Category, tx.Amount.Abs())
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return core.Transaction{}, serviceError(err)
	}

	slog.InfoContext(ctx, "Transaction recorded",
		"transaction_id", tx.ID,
		"type", string(tx.Type),
		"category", tx.Category,
		"account", tx.AccountName)

	s.publishAlert(ctx, userID, alert)
	return tx, nil
}

// bumpBudgetSpent grows the spend of the category's budget, if one exists,
// and reports whether the budget crossed its limit on this increment.
// Runs inside a caller-owned transaction.
func bumpBudgetSpent(ctx context.Context, q *storage.Queries, userID, category string, magnitude decimal.Decimal) (*budgetAlert, error) {
	budget, err := q.GetBudgetByCategory(ctx, userID, category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errs.NewStorageError(fmt.Errorf("get budget by category: %w", err))
	}

	before := budget.Spent
	budget.Spent = budget.Spent.Add(magnitude)
	if _, err := q.UpdateBudgetSpent(ctx, userID, budget.ID, budget.Spent); err != nil {
		return nil, errs.NewStorageError(fmt.Errorf("update budget spent: %w", err))
	}

	if before.LessThan(budget.Limit) && budget.Spent.GreaterThanOrEqual(budget.Limit) {
		return &budgetAlert{budget: budget}, nil
	}
	return nil, nil
}

func (s *FinanceService) publishAlert(ctx context.Context, userID string, alert *budgetAlert) {
	if alert == nil || s.publisher == nil {
		return
	}
	b := alert.budget
	msg := alerts.NewBudgetAlertMessage(userID, b.ID, b.Category, b.Spent, b.Limit)
	if err := s.publisher.PublishBudgetAlert(ctx, msg); err != nil {
		// The write already committed; a lost alert must not fail it.
		slog.WarnContext(ctx, "Failed to publish budget alert",
			"budget_id", b.ID,
			"category", b.Category,
			"error", err)
	}
}

// ImportTransactions records a batch atomically. The whole batch is
// validated first; any bad row rejects the import without writing
// anything. All rows land in the first account of the user's list,
// account balance and budget spends are adjusted once per account and
// category.
func (s *FinanceService) ImportTransactions(ctx context.Context, userID string, inputs []TransactionInput) (int, error) {
	if userID == "" {
		return 0, errs.NewUnauthorizedError()
	}
	if len(inputs) == 0 {
		return 0, errs.NewValidationError("no rows to import")
	}

	for i, in := range inputs {
		if in.Amount.Sign() <= 0 {
			return 0, errs.NewValidationError(fmt.Sprintf("row %d: amount must be positive", i+1))
		}
		if !in.Type.Valid() {
			return 0, errs.NewValidationError(fmt.Sprintf("row %d: type must be income or expense", i+1))
		}
		if in.Description == "" {
			return 0, errs.NewValidationError(fmt.Sprintf("row %d: description is required", i+1))
		}
	}

	var crossed []*budgetAlert
	err := s.repo.WithTx(ctx, func(q *storage.Queries) error {
		accounts, err := q.ListAccounts(ctx, userID)
		if err != nil {
			return errs.NewStorageError(fmt.Errorf("list accounts: %w", err))
		}
		if len(accounts) == 0 {
			return errs.NewValidationError("create an account before importing transactions")
		}
		account := accounts[0]

		balanceDelta := decimal.Zero
		categorySpend := map[string]decimal.Decimal{}
		now := time.Now().UTC()

		for _, in := range inputs {
			category := in.Category
			if category == "" {
				category = core.UncategorizedLabel
			}
			date := in.Date
			if date.IsZero() {
				date = core.Today()
			}

			tx := core.Transaction{
				ID:          uuid.NewString(),
				UserID:      userID,
				Description: in.Description,
				Amount:      core.SignedAmount(in.Amount, in.Type),
				Type:        in.Type,
				Category:    category,
				AccountID:   account.ID,
				AccountName: account.Name,
				Date:        date,
				CreatedAt:   now,
			}
			if err := tx.Validate(); err != nil {
				return errs.NewValidationError(err.Error())
			}
			if err := q.CreateTransaction(ctx, tx); err != nil {
				return errs.NewStorageError(fmt.Errorf("create transaction: %w", err))
			}

			balanceDelta = balanceDelta.Add(tx.Amount)
			if tx.Type == core.Expense {
				categorySpend[category] = categorySpend[category].Add(tx.Amount.Abs())
			}
		}

		newBalance := account.Balance.Add(balanceDelta)
		if _, err := q.UpdateAccountBalance(ctx, userID, account.ID, newBalance); err != nil {
			return errs.NewStorageError(fmt.Errorf("update account balance: %w", err))
		}

		for category, spend := range categorySpend {
			alert, err := bumpBudgetSpent(ctx, q, userID, category, spend)
			if err != nil {
				return err
			}
			if alert != nil {
				crossed = append(crossed, alert)
			}
		}
		return nil
	})
	if err != nil {
		return 0, serviceError(err)
	}

	slog.InfoContext(ctx, "Transactions imported", "count", len(inputs))

	for _, alert := range crossed {
		s.publishAlert(ctx, userID, alert)
	}
	return len(inputs), nil
}

// ---- budgets ----

// AddBudget creates a budget for a category. Spent is backfilled from the
// category's existing expenses so the budget reflects the month so far.
// One budget per category per user.
func (s *FinanceService) AddBudget(ctx context.Context, userID, category string, limit decimal.Decimal) (core.Budget, error) {
	if userID == "" {
		return core.Budget{}, errs.NewUnauthorizedError()
	}

	budget := core.Budget{
		ID:        uuid.NewString(),
		UserID:    userID,
		Category:  category,
		Limit:     limit,
		Spent:     decimal.Zero,
		CreatedAt: time.Now().UTC(),
	}
	if err := budget.Validate(); err != nil {
		return core.Budget{}, errs.NewValidationError(err.Error())
	}

	err := s.repo.WithTx(ctx, func(q *storage.Queries) error {
		if _, err := q.GetBudgetByCategory(ctx, userID, category); err == nil {
			return errs.NewValidationError("a budget for this category already exists")
		} else if !errors.Is(err, sql.ErrNoRows) {
			return errs.NewStorageError(fmt.Errorf("get budget by category: %w", err))
		}

		amounts, err := q.ExpenseAmountsByCategory(ctx, userID, category)
		if err != nil {
			return errs.NewStorageError(fmt.Errorf("expense amounts by category: %w", err))
		}
		for _, a := range amounts {
			budget.Spent = budget.Spent.Add(a.Abs())
		}

		if err := q.CreateBudget(ctx, budget); err != nil {
			return errs.NewStorageError(fmt.Errorf("create budget: %w", err))
		}
		return nil
	})
	if err != nil {
		return core.Budget{}, serviceError(err)
	}

	slog.InfoContext(ctx, "Budget created",
		"budget_id", budget.ID,
		"category", budget.Category)

	return budget, nil
}

// UpdateBudgetSpent adjusts a budget's spent by delta. The resulting
// spend may not go negative. Crossing the limit publishes an alert.
func (s *FinanceService) UpdateBudgetSpent(ctx context.Context, userID, budgetID string, delta decimal.Decimal) (core.Budget, error) {
	if userID == "" {
		return core.Budget{}, errs.NewUnauthorizedError()
	}

	var (
		budget core.Budget
		alert  *budgetAlert
	)
	err := s.repo.WithTx(ctx, func(q *storage.Queries) error {
		current, err := q.GetBudget(ctx, userID, budgetID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.NewNotFoundError("Budget not found")
			}
			return errs.NewStorageError(fmt.Errorf("get budget: %w", err))
		}

		before := current.Spent
		current.Spent = current.Spent.Add(delta)
		if current.Spent.Sign() < 0 {
			return errs.NewValidationError("spent cannot go negative")
		}
		if _, err := q.UpdateBudgetSpent(ctx, userID, budgetID, current.Spent); err != nil {
			return errs.NewStorageError(fmt.Errorf("update budget spent: %w", err))
		}

		if before.LessThan(current.Limit) && current.Spent.GreaterThanOrEqual(current.Limit) {
			alert = &budgetAlert{budget: current}
		}
		budget = current
		return nil
	})
	if err != nil {
		return core.Budget{}, serviceError(err)
	}

	s.publishAlert(ctx, userID, alert)
	return budget, nil
}

// ---- goals ----

func (s *FinanceService) AddGoal(ctx context.Context, userID, name string, target decimal.Decimal, deadline time.Time) (core.Goal, error) {
	if userID == "" {
		return core.Goal{}, errs.NewUnauthorizedError()
	}

	goal := core.Goal{
		ID:            uuid.NewString(),
		UserID:        userID,
		Name:          name,
		TargetAmount:  target,
		CurrentAmount: decimal.Zero,
		Deadline:      deadline,
		CreatedAt:     time.Now().UTC(),
	}
	if err := goal.Validate(); err != nil {
		return core.Goal{}, errs.NewValidationError(err.Error())
	}

	if err := s.repo.Queries().CreateGoal(ctx, goal); err != nil {
		return core.Goal{}, errs.NewStorageError(fmt.Errorf("create goal: %w", err))
	}

	slog.InfoContext(ctx, "Goal created",
		"goal_id", goal.ID,
		"name", goal.Name)

	return goal, nil
}

// ContributeToGoal adds a positive amount to a goal's progress. The
// target is a hard ceiling: a contribution that would overshoot is
// rejected and the error reports the exact overflow.
func (s *FinanceService) ContributeToGoal(ctx context.Context, userID, goalID string, amount decimal.Decimal) (core.Goal, error) {
	if userID == "" {
		return core.Goal{}, errs.NewUnauthorizedError()
	}
	if amount.Sign() <= 0 {
		return core.Goal{}, errs.NewValidationError("contribution must be positive")
	}

	var goal core.Goal
	err := s.repo.WithTx(ctx, func(q *storage.Queries) error {
		current, err := q.GetGoal(ctx, userID, goalID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.NewNotFoundError("Goal not found")
			}
			return errs.NewStorageError(fmt.Errorf("get goal: %w", err))
		}

		next := current.CurrentAmount.Add(amount)
		if next.GreaterThan(current.TargetAmount) {
			overflow := next.Sub(current.TargetAmount)
			return errs.NewOverLimitError(
				fmt.Sprintf("contribution exceeds goal target by %s", overflow.String()),
				overflow,
			)
		}

		current.CurrentAmount = next
		if _, err := q.UpdateGoalAmount(ctx, userID, goalID, next); err != nil {
			return errs.NewStorageError(fmt.Errorf("update goal amount: %w", err))
		}
		goal = current
		return nil
	})
	if err != nil {
		return core.Goal{}, serviceError(err)
	}

	slog.InfoContext(ctx, "Goal contribution recorded",
		"goal_id", goal.ID,
		"completed", goal.Completed(),
		"remaining", goal.Remaining().String())

	return goal, nil
}

// ---- aggregations ----

// FinancialSummary totals the user's transactions. Every call rescans;
// there is no cached aggregate to drift out of date.
func (s *FinanceService) FinancialSummary(ctx context.Context, userID string) (core.FinancialSummary, error) {
	var summary core.FinancialSummary
	if userID == "" {
		return summary, nil
	}

	facts, err := s.repo.Queries().TransactionFacts(ctx, userID)
	if err != nil {
		return summary, errs.NewStorageError(fmt.Errorf("transaction facts: %w", err))
	}

	for _, f := range facts {
		switch f.Type {
		case core.Income:
			summary.TotalIncome = summary.TotalIncome.Add(f.Amount)
		case core.Expense:
			summary.TotalExpenses = summary.TotalExpenses.Add(f.Amount)
		}
	}
	summary.NetBalance = summary.TotalIncome.Add(summary.TotalExpenses)
	return summary, nil
}

// SpendingByCategory returns absolute expense totals per category, biggest
// spender first. Categories tie-break alphabetically so output is stable.
func (s *FinanceService) SpendingByCategory(ctx context.Context, userID string) ([]core.CategorySpend, error) {
	if userID == "" {
		return []core.CategorySpend{}, nil
	}

	facts, err := s.repo.Queries().TransactionFacts(ctx, userID)
	if err != nil {
		return nil, errs.NewStorageError(fmt.Errorf("transaction facts: %w", err))
	}

	totals := map[string]decimal.Decimal{}
	var order []string
	for _, f := range facts {
		if f.Type != core.Expense {
			continue
		}
		if _, seen := totals[f.Category]; !seen {
			order = append(order, f.Category)
		}
		totals[f.Category] = totals[f.Category].Add(f.Amount.Abs())
	}

	spends := make([]core.CategorySpend, 0, len(order))
	for _, category := range order {
		spends = append(spends, core.CategorySpend{Category: category, Total: totals[category]})
	}
	sort.Slice(spends, func(i, j int) bool {
		if !spends[i].Total.Equal(spends[j].Total) {
			return spends[i].Total.GreaterThan(spends[j].Total)
		}
		return spends[i].Category < spends[j].Category
	})
	return spends, nil
}

// monthlyWindow caps how many month buckets the chart feed returns.
const monthlyWindow = 7

// MonthlyFinancialData buckets income and absolute expense by calendar
// month. Transactions are scanned newest first, the window covers the
// most recent months that hold data, and the result is returned in
// chronological order.
func (s *FinanceService) MonthlyFinancialData(ctx context.Context, userID string) ([]core.MonthlyPoint, error) {
	if userID == "" {
		return []core.MonthlyPoint{}, nil
	}

	facts, err := s.repo.Queries().TransactionFacts(ctx, userID)
	if err != nil {
		return nil, errs.NewStorageError(fmt.Errorf("transaction facts: %w", err))
	}

	index := map[string]int{}
	var points []core.MonthlyPoint
	for _, f := range facts {
		key := core.MonthKey(f.Date)
		i, seen := index[key]
		if !seen {
			if len(points) == monthlyWindow {
				// Facts are newest first, so every remaining month is
				// older than the window.
				break
			}
			i = len(points)
			index[key] = i
			points = append(points, core.MonthlyPoint{Month: key})
		}
		switch f.Type {
		case core.Income:
			points[i].Income = points[i].Income.Add(f.Amount)
		case core.Expense:
			points[i].Expenses = points[i].Expenses.Add(f.Amount.Abs())
		}
	}

	// Newest-first buckets flipped to chronological.
	for l, r := 0, len(points)-1; l < r; l, r = l+1, r-1 {
		points[l], points[r] = points[r], points[l]
	}
	if points == nil {
		points = []core.MonthlyPoint{}
	}
	return points, nil
}

// serviceError passes typed errors through and wraps anything else as a
// storage failure.
func serviceError(err error) error {
	switch err.(type) {
	case *errs.UnauthorizedError, *errs.ValidationError, *errs.NotFoundError, *errs.OverLimitError, *errs.StorageError:
		return err
	default:
		return errs.NewStorageError(err)
	}
}
