package alerts

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// BudgetAlertMessage is published when a budget's spend reaches its limit.
// It carries the figures at the moment of crossing; the worker re-reads
// the budget before acting so a stale message is harmless.
type BudgetAlertMessage struct {
	UserID    string          `json:"user_id"`
	BudgetID  string          `json:"budget_id"`
	Category  string          `json:"category"`
	Spent     decimal.Decimal `json:"spent"`
	Limit     decimal.Decimal `json:"limit"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewBudgetAlertMessage(userID, budgetID, category string, spent, limit decimal.Decimal) *BudgetAlertMessage {
	return &BudgetAlertMessage{
		UserID:    userID,
		BudgetID:  budgetID,
		Category:  category,
		Spent:     spent,
		Limit:     limit,
		Timestamp: time.Now(),
	}
}

func (m *BudgetAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BudgetAlertMessageFromJSON(data []byte) (*BudgetAlertMessage, error) {
	var msg BudgetAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
