package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestSignedAmount(t *testing.T) {
	magnitude := decimal.NewFromFloat(42.50)

	if got := SignedAmount(magnitude, Expense); got.Sign() >= 0 {
		t.Errorf("SignedAmount(expense) = %s, want negative", got)
	}
	if got := SignedAmount(magnitude, Income); got.Sign() <= 0 {
		t.Errorf("SignedAmount(income) = %s, want positive", got)
	}
	if !SignedAmount(magnitude, Expense).Abs().Equal(magnitude) {
		t.Error("SignedAmount must preserve the magnitude")
	}
}

func TestTransaction_Validate(t *testing.T) {
	valid := Transaction{
		Description: "Groceries",
		Amount:      decimal.NewFromInt(-50),
		Type:        Expense,
		Category:    "Food",
		Date:        time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name    string
		mutate  func(tx *Transaction)
		wantErr error
	}{
		{name: "valid expense", mutate: func(tx *Transaction) {}},
		{
			name: "valid income",
			mutate: func(tx *Transaction) {
				tx.Amount = decimal.NewFromInt(100)
				tx.Type = Income
				tx.Category = "Salary"
			},
		},
		{
			name:    "empty description",
			mutate:  func(tx *Transaction) { tx.Description = "   " },
			wantErr: ErrEmptyDescription,
		},
		{
			name:    "bad type",
			mutate:  func(tx *Transaction) { tx.Type = "transfer" },
			wantErr: ErrInvalidType,
		},
		{
			name:    "zero amount",
			mutate:  func(tx *Transaction) { tx.Amount = decimal.Zero },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "positive expense",
			mutate:  func(tx *Transaction) { tx.Amount = decimal.NewFromInt(50) },
			wantErr: ErrSignMismatch,
		},
		{
			name: "negative income",
			mutate: func(tx *Transaction) {
				tx.Type = Income
			},
			wantErr: ErrSignMismatch,
		},
		{
			name:    "empty category",
			mutate:  func(tx *Transaction) { tx.Category = "" },
			wantErr: ErrEmptyCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			err := tx.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBudget_Validate(t *testing.T) {
	b := Budget{Category: "Food", Limit: decimal.NewFromInt(300), Spent: decimal.Zero}
	if err := b.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	b.Limit = decimal.Zero
	if err := b.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero limit: error = %v, want %v", err, ErrInvalidAmount)
	}

	b.Limit = decimal.NewFromInt(300)
	b.Spent = decimal.NewFromInt(-1)
	if err := b.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative spent: error = %v, want %v", err, ErrInvalidAmount)
	}
}

func TestGoal_RemainingAndCompleted(t *testing.T) {
	g := Goal{
		Name:          "Emergency fund",
		TargetAmount:  decimal.NewFromInt(1000),
		CurrentAmount: decimal.NewFromInt(400),
	}

	if g.Completed() {
		t.Error("goal should not be completed at 400/1000")
	}
	if want := decimal.NewFromInt(600); !g.Remaining().Equal(want) {
		t.Errorf("Remaining() = %s, want %s", g.Remaining(), want)
	}

	g.CurrentAmount = decimal.NewFromInt(1000)
	if !g.Completed() {
		t.Error("goal should be completed at 1000/1000")
	}
	if !g.Remaining().IsZero() {
		t.Errorf("Remaining() = %s, want 0", g.Remaining())
	}
}

func TestIsKnownCategory(t *testing.T) {
	for _, c := range Categories {
		if !IsKnownCategory(c) {
			t.Errorf("IsKnownCategory(%q) = false, want true", c)
		}
	}
	if IsKnownCategory("Groceries") {
		t.Error(`IsKnownCategory("Groceries") = true, want false`)
	}
	if IsKnownCategory("food") {
		t.Error("category matching must be case sensitive")
	}
}
