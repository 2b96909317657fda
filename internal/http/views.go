package http

import (
	"time"

	"github.com/Rishabh-devloper/wealthwise/internal/core"
)

// JSON views. Amounts are serialized as decimal strings so clients never
// see binary floating point.

type accountView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type transactionView struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	AccountID   string    `json:"accountId,omitempty"`
	AccountName string    `json:"accountName"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
}

type budgetView struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	Limit     string    `json:"limit"`
	Spent     string    `json:"spent"`
	CreatedAt time.Time `json:"createdAt"`
}

type goalView struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	TargetAmount  string    `json:"targetAmount"`
	CurrentAmount string    `json:"currentAmount"`
	Remaining     string    `json:"remaining"`
	Completed     bool      `json:"completed"`
	Deadline      string    `json:"deadline,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type summaryView struct {
	TotalIncome   string `json:"totalIncome"`
	TotalExpenses string `json:"totalExpenses"`
	NetBalance    string `json:"netBalance"`
}

type categorySpendView struct {
	Category string `json:"category"`
	Total    string `json:"total"`
}

type monthlyPointView struct {
	Month    string `json:"month"`
	Income   string `json:"income"`
	Expenses string `json:"expenses"`
}

func toAccountView(a core.Account) accountView {
	return accountView{
		ID:        a.ID,
		Name:      a.Name,
		Balance:   a.Balance.StringFixed(2),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toAccountViews(accounts []core.Account) []accountView {
	views := make([]accountView, len(accounts))
	for i, a := range accounts {
		views[i] = toAccountView(a)
	}
	return views
}

func toTransactionView(t core.Transaction) transactionView {
	return transactionView{
		ID:          t.ID,
		Description: t.Description,
		Amount:      t.Amount.StringFixed(2),
		Type:        string(t.Type),
		Category:    t.Category,
		AccountID:   t.AccountID,
		AccountName: t.AccountName,
		Date:        t.Date.Format(core.DateLayout),
		CreatedAt:   t.CreatedAt,
	}
}

func toTransactionViews(txs []core.Transaction) []transactionView {
	views := make([]transactionView, len(txs))
	for i, t := range txs {
		views[i] = toTransactionView(t)
	}
	return views
}

func toBudgetView(b core.Budget) budgetView {
	return budgetView{
		ID:        b.ID,
		Category:  b.Category,
		Limit:     b.Limit.StringFixed(2),
		Spent:     b.Spent.StringFixed(2),
		CreatedAt: b.CreatedAt,
	}
}

func toBudgetViews(budgets []core.Budget) []budgetView {
	views := make([]budgetView, len(budgets))
	for i, b := range budgets {
		views[i] = toBudgetView(b)
	}
	return views
}

func toGoalView(g core.Goal) goalView {
	view := goalView{
		ID:            g.ID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount.StringFixed(2),
		CurrentAmount: g.CurrentAmount.StringFixed(2),
		Remaining:     g.Remaining().StringFixed(2),
		Completed:     g.Completed(),
		CreatedAt:     g.CreatedAt,
	}
	if !g.Deadline.IsZero() {
		view.Deadline = g.Deadline.Format(core.DateLayout)
	}
	return view
}

func toGoalViews(goals []core.Goal) []goalView {
	views := make([]goalView, len(goals))
	for i, g := range goals {
		views[i] = toGoalView(g)
	}
	return views
}
