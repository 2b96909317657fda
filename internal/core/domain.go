package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// DefaultAccountName is the name of the account provisioned for users
// who have not created one themselves.
const DefaultAccountName = "Main Account"

// UncategorizedLabel is assigned to imported rows that carry no category.
const UncategorizedLabel = "Uncategorized"

type (
	TransactionType string

	Account struct {
		ID        string
		UserID    string
		Name      string
		Balance   decimal.Decimal
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	// Transaction stores a signed amount: negative for expenses, positive
	// for income. AccountName is a point-in-time snapshot of the owning
	// account's name; renaming the account later must not rewrite history.
	Transaction struct {
		ID          string
		UserID      string
		Description string
		Amount      decimal.Decimal
		Type        TransactionType
		Category    string
		AccountID   string
		AccountName string
		Date        time.Time
		CreatedAt   time.Time
	}

	Budget struct {
		ID        string
		UserID    string
		Category  string
		Limit     decimal.Decimal
		Spent     decimal.Decimal
		CreatedAt time.Time
	}

	Goal struct {
		ID            string
		UserID        string
		Name          string
		TargetAmount  decimal.Decimal
		CurrentAmount decimal.Decimal
		Deadline      time.Time // zero when no deadline was set
		CreatedAt     time.Time
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyName        = errors.New("empty name")
	ErrSignMismatch     = errors.New("amount sign does not match transaction type")
)

// Categories is the suggestion vocabulary. The data layer stores any label;
// only the AI suggester is constrained to this list.
var Categories = []string{
	"Food",
	"Transportation",
	"Entertainment",
	"Utilities",
	"Rent",
	"Salary",
	"Shopping",
	"Travel",
	"Other",
}

func IsKnownCategory(label string) bool {
	for _, c := range Categories {
		if c == label {
			return true
		}
	}
	return false
}

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// SignedAmount is the single place a signed transaction amount is derived
// from an unsigned magnitude and a type. Every write path goes through it
// so the sign/type invariant cannot drift.
func SignedAmount(magnitude decimal.Decimal, typ TransactionType) decimal.Decimal {
	if typ == Expense {
		return magnitude.Neg()
	}
	return magnitude
}

// Validate enforces the sign/type invariant and shape constraints for a
// transaction about to be written.
func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if t.Amount.IsZero() {
		return ErrInvalidAmount
	}
	if t.Type == Expense && t.Amount.Sign() >= 0 {
		return ErrSignMismatch
	}
	if t.Type == Income && t.Amount.Sign() <= 0 {
		return ErrSignMismatch
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if b.Limit.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if b.Spent.Sign() < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (g Goal) Validate() error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return ErrEmptyName
	}
	if g.TargetAmount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if g.CurrentAmount.Sign() < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Remaining reports the gap between the goal's target and what has been
// contributed so far. Never negative.
func (g Goal) Remaining() decimal.Decimal {
	r := g.TargetAmount.Sub(g.CurrentAmount)
	if r.Sign() < 0 {
		return decimal.Zero
	}
	return r
}

// Completed reports whether the goal has been fully funded.
func (g Goal) Completed() bool {
	return g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}
