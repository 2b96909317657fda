package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Rishabh-devloper/wealthwise/internal/core"
	"github.com/Rishabh-devloper/wealthwise/internal/errs"
	"github.com/Rishabh-devloper/wealthwise/internal/middleware"
	"github.com/Rishabh-devloper/wealthwise/internal/response"
)

type budgetService interface {
	ListBudgets(ctx context.Context, userID string) ([]core.Budget, error)
	AddBudget(ctx context.Context, userID, category string, limit decimal.Decimal) (core.Budget, error)
	UpdateBudgetSpent(ctx context.Context, userID, budgetID string, delta decimal.Decimal) (core.Budget, error)
}

type budgetHandlers struct {
	ResponseHandler response.ResponseHandler
	BudgetSvc       budgetService
}

func NewBudgetHandlers(deps *Deps) *budgetHandlers {
	return &budgetHandlers{
		ResponseHandler: deps.ResponseHandler,
		BudgetSvc:       deps.Finance,
	}
}

func (h *budgetHandlers) BudgetRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListBudgets)
	r.Post("/", h.AddBudget)
	r.Post("/{budgetId}/spent", h.UpdateSpent)
	return r
}

func (h *budgetHandlers) ListBudgets(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	budgets, err := h.BudgetSvc.ListBudgets(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, toBudgetViews(budgets))
}

type createBudgetRequest struct {
	Category string `json:"category"`
	Limit    string `json:"limit"`
}

func (h *budgetHandlers) AddBudget(w http.ResponseWriter, r *http.Request) {
	var req createBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	limit, err := core.ParseAmount(req.Limit)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid limit"))
		return
	}

	uid := middleware.UID(r.Context())
	budget, err := h.BudgetSvc.AddBudget(r.Context(), uid, req.Category, limit)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusCreated, toBudgetView(budget))
}

type updateSpentRequest struct {
	Delta string `json:"delta"`
}

func (h *budgetHandlers) UpdateSpent(w http.ResponseWriter, r *http.Request) {
	budgetID := chi.URLParam(r, "budgetId")

	var req updateSpentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	delta, err := decimal.NewFromString(req.Delta)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid delta"))
		return
	}

	uid := middleware.UID(r.Context())
	budget, err := h.BudgetSvc.UpdateBudgetSpent(r.Context(), uid, budgetID, delta)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, toBudgetView(budget))
}
