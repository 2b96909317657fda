package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Rishabh-devloper/wealthwise/internal/core"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so every query can run
// standalone or inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// TransactionFact is the narrow projection the aggregation queries scan:
// enough to sum and bucket without hydrating full rows.
type TransactionFact struct {
	Amount   decimal.Decimal
	Type     core.TransactionType
	Category string
	Date     time.Time
}

// ---- accounts ----

const createAccount = `
INSERT INTO accounts (id, user_id, name, balance, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateAccount(ctx context.Context, a core.Account) error {
	_, err := q.db.ExecContext(ctx, createAccount,
		a.ID, a.UserID, a.Name, a.Balance.String(),
		a.CreatedAt.UTC().Format(time.RFC3339),
		a.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

const listAccounts = `
SELECT id, user_id, name, balance, created_at, updated_at
FROM accounts
WHERE user_id = ?
ORDER BY created_at DESC, rowid DESC`

// ListAccounts returns the user's accounts newest first. Timestamps have
// second granularity, so rowid breaks ties by insertion order.
func (q *Queries) ListAccounts(ctx context.Context, userID string) ([]core.Account, error) {
	rows, err := q.db.QueryContext(ctx, listAccounts, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

const getAccountByName = `
SELECT id, user_id, name, balance, created_at, updated_at
FROM accounts
WHERE user_id = ? AND name = ?
LIMIT 1`

func (q *Queries) GetAccountByName(ctx context.Context, userID, name string) (core.Account, error) {
	return scanAccount(q.db.QueryRowContext(ctx, getAccountByName, userID, name))
}

const getAccount = `
SELECT id, user_id, name, balance, created_at, updated_at
FROM accounts
WHERE user_id = ? AND id = ?`

func (q *Queries) GetAccount(ctx context.Context, userID, id string) (core.Account, error) {
	return scanAccount(q.db.QueryRowContext(ctx, getAccount, userID, id))
}

const countAccounts = `SELECT COUNT(*) FROM accounts WHERE user_id = ?`

func (q *Queries) CountAccounts(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countAccounts, userID).Scan(&n)
	return n, err
}

const updateAccountBalance = `
UPDATE accounts
SET balance = ?, updated_at = ?
WHERE user_id = ? AND id = ?`

func (q *Queries) UpdateAccountBalance(ctx context.Context, userID, id string, balance decimal.Decimal) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateAccountBalance,
		balance.String(), time.Now().UTC().Format(time.RFC3339), userID, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ---- transactions ----

const createTransaction = `
INSERT INTO transactions (id, user_id, description, amount, type, category, account_id, account_name, date, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateTransaction(ctx context.Context, t core.Transaction) error {
	// account_id is a nullable foreign key; an empty string would trip
	// the constraint, so bind NULL instead.
	var accountID any
	if t.AccountID != "" {
		accountID = t.AccountID
	}
	_, err := q.db.ExecContext(ctx, createTransaction,
		t.ID, t.UserID, t.Description, t.Amount.String(), string(t.Type),
		t.Category, accountID, t.AccountName,
		t.Date.Format(core.DateLayout),
		t.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

const listTransactions = `
SELECT id, user_id, description, amount, type, category, account_id, account_name, date, created_at
FROM transactions
WHERE user_id = ?
ORDER BY date DESC, created_at DESC, rowid DESC`

// ListTransactions returns the user's transactions newest first. A limit
// of zero or less means no limit.
func (q *Queries) ListTransactions(ctx context.Context, userID string, limit int) ([]core.Transaction, error) {
	query := listTransactions
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

const expenseAmountsByCategory = `
SELECT amount
FROM transactions
WHERE user_id = ? AND category = ? AND type = 'expense'`

// ExpenseAmountsByCategory returns the signed amounts of every expense in
// one category, used to backfill a new budget's spent.
func (q *Queries) ExpenseAmountsByCategory(ctx context.Context, userID, category string) ([]decimal.Decimal, error) {
	rows, err := q.db.QueryContext(ctx, expenseAmountsByCategory, userID, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var amounts []decimal.Decimal
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, err
		}
		amounts = append(amounts, d)
	}
	return amounts, rows.Err()
}

const transactionFacts = `
SELECT amount, type, category, date
FROM transactions
WHERE user_id = ?
ORDER BY date DESC, created_at DESC, rowid DESC`

// TransactionFacts feeds the aggregation queries; rescans on every call,
// there is deliberately no caching layer in front of it.
func (q *Queries) TransactionFacts(ctx context.Context, userID string) ([]TransactionFact, error) {
	rows, err := q.db.QueryContext(ctx, transactionFacts, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var facts []TransactionFact
	for rows.Next() {
		var (
			rawAmount string
			rawType   string
			category  string
			rawDate   string
		)
		if err := rows.Scan(&rawAmount, &rawType, &category, &rawDate); err != nil {
			return nil, err
		}
		amount, err := decimal.NewFromString(rawAmount)
		if err != nil {
			return nil, err
		}
		date, err := core.ParseDate(rawDate)
		if err != nil {
			return nil, err
		}
		facts = append(facts, TransactionFact{
			Amount:   amount,
			Type:     core.TransactionType(rawType),
			Category: category,
			Date:     date,
		})
	}
	return facts, rows.Err()
}

// ---- budgets ----

const createBudget = `
INSERT INTO budgets (id, user_id, category, "limit", spent, created_at)
VALUES (?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateBudget(ctx context.Context, b core.Budget) error {
	_, err := q.db.ExecContext(ctx, createBudget,
		b.ID, b.UserID, b.Category, b.Limit.String(), b.Spent.String(),
		b.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

const listBudgets = `
SELECT id, user_id, category, "limit", spent, created_at
FROM budgets
WHERE user_id = ?
ORDER BY created_at DESC, rowid DESC`

func (q *Queries) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	rows, err := q.db.QueryContext(ctx, listBudgets, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

const getBudget = `
SELECT id, user_id, category, "limit", spent, created_at
FROM budgets
WHERE user_id = ? AND id = ?`

func (q *Queries) GetBudget(ctx context.Context, userID, id string) (core.Budget, error) {
	return scanBudget(q.db.QueryRowContext(ctx, getBudget, userID, id))
}

const getBudgetByCategory = `
SELECT id, user_id, category, "limit", spent, created_at
FROM budgets
WHERE user_id = ? AND category = ?`

func (q *Queries) GetBudgetByCategory(ctx context.Context, userID, category string) (core.Budget, error) {
	return scanBudget(q.db.QueryRowContext(ctx, getBudgetByCategory, userID, category))
}

const updateBudgetSpent = `
UPDATE budgets
SET spent = ?
WHERE user_id = ? AND id = ?`

func (q *Queries) UpdateBudgetSpent(ctx context.Context, userID, id string, spent decimal.Decimal) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateBudgetSpent, spent.String(), userID, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listOverBudget = `
SELECT id, user_id, category, "limit", spent, created_at
FROM budgets
WHERE CAST(spent AS REAL) >= CAST("limit" AS REAL)`

// ListOverBudget returns every budget, across all users, whose spend has
// reached its limit. The REAL cast is a coarse filter for the worker
// sweep; exact comparison happens on the decoded decimals.
func (q *Queries) ListOverBudget(ctx context.Context) ([]core.Budget, error) {
	rows, err := q.db.QueryContext(ctx, listOverBudget)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// ---- goals ----

const createGoal = `
INSERT INTO goals (id, user_id, name, target_amount, current_amount, deadline, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateGoal(ctx context.Context, g core.Goal) error {
	var deadline any
	if !g.Deadline.IsZero() {
		deadline = g.Deadline.Format(core.DateLayout)
	}
	_, err := q.db.ExecContext(ctx, createGoal,
		g.ID, g.UserID, g.Name, g.TargetAmount.String(), g.CurrentAmount.String(),
		deadline, g.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

const listGoals = `
SELECT id, user_id, name, target_amount, current_amount, deadline, created_at
FROM goals
WHERE user_id = ?
ORDER BY created_at DESC, rowid DESC`

func (q *Queries) ListGoals(ctx context.Context, userID string) ([]core.Goal, error) {
	rows, err := q.db.QueryContext(ctx, listGoals, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

const getGoal = `
SELECT id, user_id, name, target_amount, current_amount, deadline, created_at
FROM goals
WHERE user_id = ? AND id = ?`

func (q *Queries) GetGoal(ctx context.Context, userID, id string) (core.Goal, error) {
	return scanGoal(q.db.QueryRowContext(ctx, getGoal, userID, id))
}

const updateGoalAmount = `
UPDATE goals
SET current_amount = ?
WHERE user_id = ? AND id = ?`

func (q *Queries) UpdateGoalAmount(ctx context.Context, userID, id string, amount decimal.Decimal) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateGoalAmount, amount.String(), userID, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ---- scan helpers ----

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (core.Account, error) {
	var (
		a          core.Account
		rawBalance string
		created    string
		updated    string
	)
	if err := row.Scan(&a.ID, &a.UserID, &a.Name, &rawBalance, &created, &updated); err != nil {
		return core.Account{}, err
	}
	var err error
	if a.Balance, err = decimal.NewFromString(rawBalance); err != nil {
		return core.Account{}, err
	}
	if a.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return core.Account{}, err
	}
	if a.UpdatedAt, err = time.Parse(time.RFC3339, updated); err != nil {
		return core.Account{}, err
	}
	return a, nil
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t         core.Transaction
		rawAmount string
		rawType   string
		accountID sql.NullString
		rawDate   string
		created   string
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Description, &rawAmount, &rawType,
		&t.Category, &accountID, &t.AccountName, &rawDate, &created); err != nil {
		return core.Transaction{}, err
	}
	t.Type = core.TransactionType(rawType)
	t.AccountID = accountID.String
	var err error
	if t.Amount, err = decimal.NewFromString(rawAmount); err != nil {
		return core.Transaction{}, err
	}
	if t.Date, err = core.ParseDate(rawDate); err != nil {
		return core.Transaction{}, err
	}
	if t.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func scanBudget(row rowScanner) (core.Budget, error) {
	var (
		b        core.Budget
		rawLimit string
		rawSpent string
		created  string
	)
	if err := row.Scan(&b.ID, &b.UserID, &b.Category, &rawLimit, &rawSpent, &created); err != nil {
		return core.Budget{}, err
	}
	var err error
	if b.Limit, err = decimal.NewFromString(rawLimit); err != nil {
		return core.Budget{}, err
	}
	if b.Spent, err = decimal.NewFromString(rawSpent); err != nil {
		return core.Budget{}, err
	}
	if b.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return core.Budget{}, err
	}
	return b, nil
}

func scanGoal(row rowScanner) (core.Goal, error) {
	var (
		g           core.Goal
		rawTarget   string
		rawCurrent  string
		rawDeadline sql.NullString
		created     string
	)
	if err := row.Scan(&g.ID, &g.UserID, &g.Name, &rawTarget, &rawCurrent, &rawDeadline, &created); err != nil {
		return core.Goal{}, err
	}
	var err error
	if g.TargetAmount, err = decimal.NewFromString(rawTarget); err != nil {
		return core.Goal{}, err
	}
	if g.CurrentAmount, err = decimal.NewFromString(rawCurrent); err != nil {
		return core.Goal{}, err
	}
	if rawDeadline.Valid && rawDeadline.String != "" {
		if g.Deadline, err = core.ParseDate(rawDeadline.String); err != nil {
			return core.Goal{}, err
		}
	}
	if g.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return core.Goal{}, err
	}
	return g, nil
}
