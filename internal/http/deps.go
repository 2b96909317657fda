// Package http assembles the JSON API: routing, request middleware and
// per-resource handlers.
package http

import (
	"github.com/Rishabh-devloper/wealthwise/internal/ai"
	"github.com/Rishabh-devloper/wealthwise/internal/log"
	"github.com/Rishabh-devloper/wealthwise/internal/response"
	"github.com/Rishabh-devloper/wealthwise/internal/services"
)

type Deps struct {
	Logger          *log.Logger
	ResponseHandler response.ResponseHandler
	Finance         *services.FinanceService
	Suggester       ai.CategorySuggester // nil disables the suggestion endpoint
}
