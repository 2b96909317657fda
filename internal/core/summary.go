package core

import "github.com/shopspring/decimal"

// FinancialSummary aggregates a user's transactions. TotalExpenses keeps
// the storage sign convention: it is negative (or zero), so NetBalance is
// a plain sum. Consumers take the absolute value only for display.
type FinancialSummary struct {
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	NetBalance    decimal.Decimal
}

// CategorySpend is the absolute expense total for one category.
type CategorySpend struct {
	Category string
	Total    decimal.Decimal
}

// MonthlyPoint is one month-year bucket of income and absolute expense.
type MonthlyPoint struct {
	Month    string // e.g. "Jul 2024"
	Income   decimal.Decimal
	Expenses decimal.Decimal
}
