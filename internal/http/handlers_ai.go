package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Rishabh-devloper/wealthwise/internal/ai"
	"github.com/Rishabh-devloper/wealthwise/internal/errs"
	"github.com/Rishabh-devloper/wealthwise/internal/middleware"
	"github.com/Rishabh-devloper/wealthwise/internal/response"
)

type aiHandlers struct {
	ResponseHandler response.ResponseHandler
	Suggester       ai.CategorySuggester
}

func NewAIHandlers(deps *Deps) *aiHandlers {
	return &aiHandlers{
		ResponseHandler: deps.ResponseHandler,
		Suggester:       deps.Suggester,
	}
}

func (h *aiHandlers) AIRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/suggest-category", h.SuggestCategory)
	return r
}

type suggestCategoryRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

type suggestCategoryResponse struct {
	Category string `json:"category"`
}

func (h *aiHandlers) SuggestCategory(w http.ResponseWriter, r *http.Request) {
	if middleware.UID(r.Context()) == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewUnauthorizedError())
		return
	}
	if h.Suggester == nil {
		h.ResponseHandler.WriteError(w, r, http.StatusServiceUnavailable,
			"suggestions_disabled", "category suggestions are not configured")
		return
	}

	var req suggestCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	if req.Description == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("description is required"))
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid amount"))
		return
	}

	category, err := h.Suggester.SuggestCategory(r.Context(), req.Description, amount)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewStorageError(err))
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, suggestCategoryResponse{Category: category})
}
